package controller

import (
	"context"
	"io"
	"net"
	"net/http"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/service"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type AuthService interface {
	Login(ctx context.Context, req service.LoginRequest) (string, *model.User, error)
	ParseToken(raw string) (string, model.Role, error)
}

type UserService interface {
	Session(ctx context.Context, userID string, role model.Role) (*model.Session, error)
	List(ctx context.Context) ([]*model.User, error)
	GetAcademicInfo(ctx context.Context, sess model.Session) (*model.StudentAcademicInfo, error)
	SaveAcademicInfo(ctx context.Context, sess model.Session, info model.StudentAcademicInfo) (*model.StudentAcademicInfo, error)
}

type AvailabilityService interface {
	GetSchedulesByDay(ctx context.Context) (*model.WeeklySchedule, error)
	GetAvailableCounselors(ctx context.Context, day, requested string) (*model.AvailableCounselors, error)
}

type NotificationService interface {
	GetFeed(ctx context.Context, sess model.Session) (*model.NotificationFeed, error)
	GetUnreadCount(ctx context.Context, sess model.Session) (int, error)
	MarkRead(ctx context.Context, sess model.Session) error
}

type AppointmentService interface {
	Book(ctx context.Context, sess model.Session, req service.BookingRequest) (*model.Appointment, error)
	ListForStudent(ctx context.Context, sess model.Session) ([]*model.Appointment, error)
	RecentPending(ctx context.Context, sess model.Session) ([]*model.Appointment, error)
	ListForCounselor(ctx context.Context, sess model.Session, statusFilter string) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, sess model.Session, id int64, next string) (*model.Appointment, error)
	History(ctx context.Context) ([]*model.Appointment, error)
}

type ReportService interface {
	Generate(ctx context.Context, month, reportType string) (*model.AppointmentReport, error)
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Options параметры HTTP-слоя из конфига
type Options struct {
	AllowedOrigins     []string
	RateLimitPerMinute int
	TrustedProxies     []*net.IPNet
	AccessLog          io.Writer
}

type PortalController struct {
	auth          AuthService
	users         UserService
	availability  AvailabilityService
	notifications NotificationService
	appointments  AppointmentService
	reports       ReportService
	db            Pinger
	logger        *zap.Logger
}

func NewPortalController(
	auth AuthService,
	users UserService,
	availability AvailabilityService,
	notifications NotificationService,
	appointments AppointmentService,
	reports ReportService,
	db Pinger,
	logger *zap.Logger,
) *PortalController {
	return &PortalController{
		auth:          auth,
		users:         users,
		availability:  availability,
		notifications: notifications,
		appointments:  appointments,
		reports:       reports,
		db:            db,
		logger:        logger,
	}
}

// Handler собирает роутер и цепочку middleware
func (c *PortalController) Handler(opts Options) http.Handler {
	r := mux.NewRouter()
	r.Use(withRequestID)
	if opts.RateLimitPerMinute > 0 {
		r.Use(newRateLimiter(opts.RateLimitPerMinute, opts.TrustedProxies, c.logger).middleware)
	}

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, envelope{"status": statusError, "message": "Not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, envelope{"status": statusError, "message": "Method not allowed"})
	})

	c.RegisterHandlers(r)

	var h http.Handler = r
	h = handlers.CORS(
		handlers.AllowedOrigins(opts.AllowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut}),
		handlers.AllowedHeaders([]string{"Authorization", "Content-Type", requestIDHeader}),
		handlers.ExposedHeaders([]string{requestIDHeader}),
		handlers.AllowCredentials(),
	)(h)
	if opts.AccessLog != nil {
		h = handlers.CombinedLoggingHandler(opts.AccessLog, h)
	}
	h = handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{logger: c.logger}),
		handlers.PrintRecoveryStack(false),
	)(h)

	return h
}

// RegisterHandlers регистрирует все маршруты портала
func (c *PortalController) RegisterHandlers(r *mux.Router) {
	// Публичные
	r.HandleFunc("/healthz", c.HandleHealth).Methods(http.MethodGet)
	r.HandleFunc("/api/auth/login", c.HandleLogin).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(c.requireSession)

	// Администратор
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(c.requireRole(model.RoleAdmin))
	admin.HandleFunc("/counselor-schedules", c.HandleCounselorSchedules).Methods(http.MethodGet)
	admin.HandleFunc("/counselors/available", c.HandleAvailableCounselors).Methods(http.MethodGet)
	admin.HandleFunc("/history", c.HandleHistory).Methods(http.MethodGet)
	admin.HandleFunc("/reports", c.HandleReports).Methods(http.MethodGet)
	admin.HandleFunc("/users", c.HandleUsers).Methods(http.MethodGet)

	// Консультант
	counselor := api.PathPrefix("/counselor").Subrouter()
	counselor.Use(c.requireRole(model.RoleCounselor))
	counselor.HandleFunc("/appointments/recent-pending", c.HandleRecentPending).Methods(http.MethodGet)
	counselor.HandleFunc("/appointments", c.HandleCounselorAppointments).Methods(http.MethodGet)
	counselor.HandleFunc("/appointments/{id:[0-9]+}/status", c.HandleUpdateStatus).Methods(http.MethodPut)
	counselor.HandleFunc("/notifications", c.HandleNotifications).Methods(http.MethodGet)
	counselor.HandleFunc("/notifications/read", c.HandleMarkRead).Methods(http.MethodPost)

	// Студент
	student := api.PathPrefix("/student").Subrouter()
	student.Use(c.requireRole(model.RoleStudent))
	student.HandleFunc("/appointments", c.HandleBook).Methods(http.MethodPost)
	student.HandleFunc("/appointments", c.HandleStudentAppointments).Methods(http.MethodGet)
	student.HandleFunc("/notifications", c.HandleNotifications).Methods(http.MethodGet)
	student.HandleFunc("/notifications/read", c.HandleMarkRead).Methods(http.MethodPost)
	student.HandleFunc("/notifications/unread-count", c.HandleUnreadCount).Methods(http.MethodGet)
	student.HandleFunc("/academic-info", c.HandleGetAcademicInfo).Methods(http.MethodGet)
	student.HandleFunc("/academic-info", c.HandleSaveAcademicInfo).Methods(http.MethodPut)
}
