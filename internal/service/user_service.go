package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Freeeeeet/counseling_portal/internal/model"
	"go.uber.org/zap"
)

type UserStore interface {
	GetByID(ctx context.Context, userID string) (*model.User, error)
	List(ctx context.Context) ([]*model.User, error)
}

type AcademicInfoStore interface {
	GetByStudentID(ctx context.Context, studentID string) (*model.StudentAcademicInfo, error)
	Upsert(ctx context.Context, info *model.StudentAcademicInfo) error
}

type UserService struct {
	userRepo     UserStore
	academicRepo AcademicInfoStore
	logger       *zap.Logger
}

func NewUserService(userRepo UserStore, academicRepo AcademicInfoStore, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:     userRepo,
		academicRepo: academicRepo,
		logger:       logger,
	}
}

// Session собирает контекст запроса. last_activity читается из БД на каждый запрос,
// поэтому отметка "прочитано" видна уже следующему запросу.
func (s *UserService) Session(ctx context.Context, userID string, role model.Role) (*model.Session, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	// Роль в токене устарела
	if user.Role != role {
		s.logger.Warn("Token role mismatch",
			zap.String("user_id", userID),
			zap.String("token_role", string(role)),
			zap.String("db_role", string(user.Role)),
		)
		return nil, ErrInvalidToken
	}

	return &model.Session{
		UserID:       user.ID,
		Role:         user.Role,
		LastActivity: user.LastActivity,
	}, nil
}

// List все пользователи для администратора
func (s *UserService) List(ctx context.Context) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetAcademicInfo nil, если студент ещё не заполнял
func (s *UserService) GetAcademicInfo(ctx context.Context, sess model.Session) (*model.StudentAcademicInfo, error) {
	info, err := s.academicRepo.GetByStudentID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("get academic info: %w", err)
	}
	return info, nil
}

// SaveAcademicInfo создаёт или обновляет курс, год и статус студента
func (s *UserService) SaveAcademicInfo(ctx context.Context, sess model.Session, info model.StudentAcademicInfo) (*model.StudentAcademicInfo, error) {
	info.StudentID = sess.UserID
	info.Course = strings.TrimSpace(info.Course)
	info.YearLevel = strings.TrimSpace(info.YearLevel)
	info.AcademicStatus = strings.TrimSpace(info.AcademicStatus)

	if err := validateStruct(info); err != nil {
		return nil, err
	}

	if err := s.academicRepo.Upsert(ctx, &info); err != nil {
		return nil, fmt.Errorf("save academic info: %w", err)
	}

	s.logger.Info("Academic info saved",
		zap.String("student_id", sess.UserID),
		zap.String("course", info.Course),
	)

	return &info, nil
}
