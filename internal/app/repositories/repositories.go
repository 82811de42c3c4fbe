package repositories

import (
	"github.com/Masterminds/squirrel"
	"github.com/yigit/attendance/internal/db"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	AttendanceRepository *AttendanceRepository
	GradeRepository      *GradeRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(database),
		AttendanceRepository: NewAttendanceRepository(database),
		GradeRepository:      NewGradeRepository(database),
	}
}

func statementBuilder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}
