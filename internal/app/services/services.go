package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/repositories"
	"github.com/yigit/attendance/internal/pkg/auth"
)

// UserStore is the persistence used by the auth and user services
type UserStore interface {
	Create(ctx context.Context, user *models.User) (int64, error)
	UpsertCredentials(ctx context.Context, users []*models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	Update(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
}

// AttendanceStore is the persistence used by the attendance service
type AttendanceStore interface {
	ReplaceDay(ctx context.Context, teacherID int64, date string, marks []repositories.AttendanceMark) error
	ListByClass(ctx context.Context, date, course, yearLevel string) ([]*models.Attendance, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.StudentAttendance, error)
	Stats(ctx context.Context, course, yearLevel string) ([]*models.AttendanceStats, error)
}

// GradeStore is the persistence used by the grade service
type GradeStore interface {
	Upsert(ctx context.Context, entry *models.GradeEntry) error
	List(ctx context.Context, filter repositories.GradeFilter) ([]*models.Grade, error)
	ListByStudent(ctx context.Context, studentID int64) ([]*models.Grade, error)
	Delete(ctx context.Context, id int64) error
	DeleteSubject(ctx context.Context, studentID int64, subject string, semester models.Semester) error
}

// Services holds all the service instances
type Services struct {
	AuthService       *AuthService
	UserService       *UserService
	AttendanceService *AttendanceService
	GradeService      *GradeService
}

// NewServices wires the services over the given repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, logger zerolog.Logger) *Services {
	return &Services{
		AuthService:       NewAuthService(repos.UserRepository, jwtService, logger),
		UserService:       NewUserService(repos.UserRepository, logger),
		AttendanceService: NewAttendanceService(repos.AttendanceRepository, logger),
		GradeService:      NewGradeService(repos.GradeRepository, logger),
	}
}
