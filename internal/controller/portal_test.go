package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"github.com/Freeeeeet/counseling_portal/internal/service"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var tokens = map[string]model.Session{
	"student-token":   {UserID: "s-1", Role: model.RoleStudent},
	"counselor-token": {UserID: "c-a", Role: model.RoleCounselor},
	"admin-token":     {UserID: "adm", Role: model.RoleAdmin},
}

type fakeAuth struct{}

func (fakeAuth) Login(ctx context.Context, req service.LoginRequest) (string, *model.User, error) {
	if req.Identifier == "mdelacruz" && req.Password == "hunter2" {
		return "student-token", &model.User{ID: "s-1", Role: model.RoleStudent}, nil
	}
	return "", nil, service.ErrInvalidCredentials
}

func (fakeAuth) ParseToken(raw string) (string, model.Role, error) {
	sess, ok := tokens[raw]
	if !ok {
		return "", "", service.ErrInvalidToken
	}
	return sess.UserID, sess.Role, nil
}

type fakeUsers struct {
	saved model.StudentAcademicInfo
}

func (f *fakeUsers) Session(ctx context.Context, userID string, role model.Role) (*model.Session, error) {
	return &model.Session{UserID: userID, Role: role}, nil
}

func (f *fakeUsers) List(ctx context.Context) ([]*model.User, error) {
	return []*model.User{{ID: "s-1", Username: "mdelacruz", Role: model.RoleStudent}}, nil
}

func (f *fakeUsers) GetAcademicInfo(ctx context.Context, sess model.Session) (*model.StudentAcademicInfo, error) {
	return nil, nil
}

func (f *fakeUsers) SaveAcademicInfo(ctx context.Context, sess model.Session, info model.StudentAcademicInfo) (*model.StudentAcademicInfo, error) {
	info.StudentID = sess.UserID
	f.saved = info
	return &info, nil
}

type fakeAvailability struct {
	schedule *model.WeeklySchedule
	err      error
}

func (f *fakeAvailability) GetSchedulesByDay(ctx context.Context) (*model.WeeklySchedule, error) {
	return f.schedule, f.err
}

func (f *fakeAvailability) GetAvailableCounselors(ctx context.Context, day, requested string) (*model.AvailableCounselors, error) {
	if day != "Monday" {
		return nil, service.ErrInvalidDay
	}
	return &model.AvailableCounselors{
		Counselors:     []model.AvailableCounselor{{CounselorID: "c-a", Name: "Alice", TimeSlots: []string{"08:00-11:00"}}},
		Day:            model.Monday,
		Time:           requested,
		TotalAvailable: 1,
	}, nil
}

type fakeNotifications struct {
	feed     *model.NotificationFeed
	err      error
	markRead int
}

func (f *fakeNotifications) GetFeed(ctx context.Context, sess model.Session) (*model.NotificationFeed, error) {
	return f.feed, f.err
}

func (f *fakeNotifications) GetUnreadCount(ctx context.Context, sess model.Session) (int, error) {
	return 7, f.err
}

func (f *fakeNotifications) MarkRead(ctx context.Context, sess model.Session) error {
	f.markRead++
	return f.err
}

type fakeAppointments struct {
	lastStatus string
	lastID     int64
}

func (f *fakeAppointments) Book(ctx context.Context, sess model.Session, req service.BookingRequest) (*model.Appointment, error) {
	if req.PreferredDate == "2026-03-08" {
		return nil, service.ErrWeekendDate
	}
	return &model.Appointment{ID: 1, StudentID: sess.UserID, Status: model.AppointmentStatusPending}, nil
}

func (f *fakeAppointments) ListForStudent(ctx context.Context, sess model.Session) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointments) RecentPending(ctx context.Context, sess model.Session) ([]*model.Appointment, error) {
	return nil, errors.New("pool closed")
}

func (f *fakeAppointments) ListForCounselor(ctx context.Context, sess model.Session, statusFilter string) ([]*model.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointments) UpdateStatus(ctx context.Context, sess model.Session, id int64, next string) (*model.Appointment, error) {
	f.lastID, f.lastStatus = id, next
	switch id {
	case 404:
		return nil, service.ErrAppointmentNotFound
	case 403:
		return nil, service.ErrForbidden
	case 409:
		return nil, fmt.Errorf("%w: appointment 409 is no longer pending", service.ErrStatusConflict)
	}
	return &model.Appointment{ID: id, Status: model.AppointmentStatus(next)}, nil
}

func (f *fakeAppointments) History(ctx context.Context) ([]*model.Appointment, error) {
	return nil, nil
}

type fakeReports struct{}

func (fakeReports) Generate(ctx context.Context, month, reportType string) (*model.AppointmentReport, error) {
	if month == "bad" {
		return nil, service.ErrInvalidMonth
	}
	return model.NewAppointmentReport(nil, model.StatusCounts{}), nil
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(ctx context.Context) error { return f.err }

type fixture struct {
	handler       http.Handler
	availability  *fakeAvailability
	notifications *fakeNotifications
	appointments  *fakeAppointments
	users         *fakeUsers
}

func newFixture(t *testing.T, opts Options) *fixture {
	f := &fixture{
		availability: &fakeAvailability{schedule: &model.WeeklySchedule{
			Schedules:       map[model.Weekday][]model.CounselorScheduleEntry{model.Monday: {}},
			TotalCounselors: 2,
		}},
		notifications: &fakeNotifications{feed: &model.NotificationFeed{
			Notifications: []model.NotificationEvent{
				{Type: model.NotificationTypeAppointment, RelatedID: 1, CreatedAt: time.Now()},
				{Type: model.NotificationTypeMessage, RelatedID: 2, CreatedAt: time.Now()},
			},
			UnreadCount: 5,
		}},
		appointments: &fakeAppointments{},
		users:        &fakeUsers{},
	}

	c := NewPortalController(fakeAuth{}, f.users, f.availability, f.notifications, f.appointments, fakeReports{}, fakePinger{}, zaptest.NewLogger(t))
	f.handler = c.Handler(opts)
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var out map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func TestLogin(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "mdelacruz", "password": "hunter2"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "student-token", body["token"])
	assert.Equal(t, "student", body["role"])

	rec, body = f.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"identifier": "mdelacruz", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestAuthAndRoles(t *testing.T) {
	f := newFixture(t, Options{})

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{name: "no token", path: "/api/admin/users", token: "", want: http.StatusUnauthorized},
		{name: "bad token", path: "/api/admin/users", token: "forged", want: http.StatusUnauthorized},
		{name: "student on admin", path: "/api/admin/users", token: "student-token", want: http.StatusForbidden},
		{name: "counselor on student", path: "/api/student/appointments", token: "counselor-token", want: http.StatusForbidden},
		{name: "admin ok", path: "/api/admin/users", token: "admin-token", want: http.StatusOK},
		{name: "student ok", path: "/api/student/appointments", token: "student-token", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := f.do(t, http.MethodGet, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestCounselorSchedules(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodGet, "/api/admin/counselor-schedules", "admin-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Counselor schedules retrieved successfully", body["message"])
	assert.EqualValues(t, 2, body["total_counselors"])

	f.availability.schedule = &model.WeeklySchedule{Schedules: map[model.Weekday][]model.CounselorScheduleEntry{}}
	rec, body = f.do(t, http.MethodGet, "/api/admin/counselor-schedules", "admin-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "No counselors found", body["message"])

	f.availability.err = errors.New("relation counselors does not exist")
	rec, body = f.do(t, http.MethodGet, "/api/admin/counselor-schedules", "admin-token", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error retrieving counselor schedules", body["message"])
	assert.NotContains(t, rec.Body.String(), "relation")
	assert.Equal(t, map[string]interface{}{}, body["schedules"])
}

func TestAvailableCounselors(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodGet, "/api/admin/counselors/available?day=Monday&time=09:30", "admin-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["total_available"])
	assert.Equal(t, "09:30", body["time"])

	rec, body = f.do(t, http.MethodGet, "/api/admin/counselors/available?day=Saturday&time=09:30", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, service.ErrInvalidDay.Error(), body["message"])
	assert.Equal(t, []interface{}{}, body["counselors"])
}

func TestNotificationsRoleFilter(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodGet, "/api/student/notifications", "student-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["notifications"], 1)
	assert.EqualValues(t, 1, body["unread_count"])

	rec, body = f.do(t, http.MethodGet, "/api/counselor/notifications", "counselor-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, body["notifications"], 2)
	assert.EqualValues(t, 5, body["unread_count"])

	rec, body = f.do(t, http.MethodGet, "/api/student/notifications/unread-count", "student-token", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 7, body["unread_count"])
}

func TestNotificationsFailure(t *testing.T) {
	f := newFixture(t, Options{})
	f.notifications.err = errors.New("timeout")

	rec, body := f.do(t, http.MethodGet, "/api/counselor/notifications", "counselor-token", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, []interface{}{}, body["notifications"])
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t, Options{})

	for i := 0; i < 2; i++ {
		rec, body := f.do(t, http.MethodPost, "/api/student/notifications/read", "student-token", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "success", body["status"])
	}
	assert.Equal(t, 2, f.notifications.markRead)
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodPut, "/api/counselor/appointments/12/status", "counselor-token", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), f.appointments.lastID)
	assert.Equal(t, "approved", f.appointments.lastStatus)
	assert.Equal(t, "Appointment status updated", body["message"])

	rec, _ = f.do(t, http.MethodPut, "/api/counselor/appointments/404/status", "counselor-token", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = f.do(t, http.MethodPut, "/api/counselor/appointments/403/status", "counselor-token", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, body = f.do(t, http.MethodPut, "/api/counselor/appointments/409/status", "counselor-token", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "error", body["status"])

	rec, _ = f.do(t, http.MethodPut, "/api/counselor/appointments/abc/status", "counselor-token", map[string]string{"status": "approved"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBook(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodPost, "/api/student/appointments", "student-token", map[string]string{"preferred_date": "2026-03-09"})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "success", body["status"])

	rec, _ = f.do(t, http.MethodPost, "/api/student/appointments", "student-token", map[string]string{"preferred_date": "2026-03-08"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/student/appointments", bytes.NewBufferString("{not json"))
	req.Header.Set("Authorization", "Bearer student-token")
	raw := httptest.NewRecorder()
	f.handler.ServeHTTP(raw, req)
	assert.Equal(t, http.StatusBadRequest, raw.Code)
}

func TestAcademicInfo(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodPut, "/api/student/academic-info", "student-token", map[string]string{
		"course": "BSIT", "year_level": "3", "academic_status": "Regular",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "BSIT", f.users.saved.Course)
	assert.NotNil(t, body["academic_info"])
}

func TestInternalErrorIsGeneric(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodGet, "/api/counselor/appointments/recent-pending", "counselor-token", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error retrieving appointments", body["message"])
	assert.NotContains(t, rec.Body.String(), "pool closed")
}

func TestReports(t *testing.T) {
	f := newFixture(t, Options{})

	rec, body := f.do(t, http.MethodGet, "/api/admin/reports?month=2026-03&type=weekly", "admin-token", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, body["report"])

	rec, _ = f.do(t, http.MethodGet, "/api/admin/reports?month=bad", "admin-token", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestID(t *testing.T) {
	f := newFixture(t, Options{})

	rec, _ := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, Options{RateLimitPerMinute: 2})

	for i := 0; i < 2; i++ {
		rec, _ := f.do(t, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	rec, body := f.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "error", body["status"])
}

func TestCORSPreflight(t *testing.T) {
	f := newFixture(t, Options{AllowedOrigins: []string{"http://localhost:8080"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/student/notifications", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "http://localhost:8080", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestHealthzUnavailable(t *testing.T) {
	c := NewPortalController(fakeAuth{}, &fakeUsers{}, &fakeAvailability{}, &fakeNotifications{}, &fakeAppointments{}, fakeReports{}, fakePinger{err: errors.New("down")}, zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	c.Handler(Options{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
