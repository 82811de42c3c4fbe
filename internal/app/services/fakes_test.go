package services

import (
	"context"

	"github.com/yigit/attendance/internal/app/models"
	"github.com/yigit/attendance/internal/app/repositories"
	"github.com/yigit/attendance/internal/pkg/apperrors"
)

type fakeUserStore struct {
	users      map[int64]*models.User
	nextID     int64
	lastUpdate map[string]interface{}
	upserted   []*models.User
	err        error
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{users: map[int64]*models.User{}, nextID: 1}
	for _, u := range users {
		s.users[u.ID] = u
		if u.ID >= s.nextID {
			s.nextID = u.ID + 1
		}
	}
	return s
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	user.ID = s.nextID
	s.nextID++
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *fakeUserStore) UpsertCredentials(_ context.Context, users []*models.User) error {
	s.upserted = users
	return s.err
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	u, ok := s.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (s *fakeUserStore) List(_ context.Context) ([]*models.User, error) {
	out := []*models.User{}
	for id := int64(1); id < s.nextID; id++ {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, s.err
}

func (s *fakeUserStore) Update(_ context.Context, id int64, fields map[string]interface{}) error {
	s.lastUpdate = fields
	if _, ok := s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id int64) error {
	if _, ok := s.users[id]; !ok {
		return apperrors.ErrUserNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeAttendanceStore struct {
	replaced  []repositories.AttendanceMark
	teacherID int64
	date      string
	calls     int
	err       error
}

func (s *fakeAttendanceStore) ReplaceDay(_ context.Context, teacherID int64, date string, marks []repositories.AttendanceMark) error {
	s.calls++
	s.teacherID, s.date, s.replaced = teacherID, date, marks
	return s.err
}

func (s *fakeAttendanceStore) ListByClass(_ context.Context, date, _, _ string) ([]*models.Attendance, error) {
	return []*models.Attendance{{ID: 1, Date: date, Status: models.StatusPresent}}, s.err
}

func (s *fakeAttendanceStore) ListByStudent(_ context.Context, studentID int64) ([]*models.StudentAttendance, error) {
	return []*models.StudentAttendance{{Attendance: models.Attendance{StudentID: studentID}}}, s.err
}

func (s *fakeAttendanceStore) Stats(_ context.Context, _, _ string) ([]*models.AttendanceStats, error) {
	return []*models.AttendanceStats{{StudentID: 1}}, s.err
}

type fakeGradeStore struct {
	entry    *models.GradeEntry
	filter   repositories.GradeFilter
	deleted  []int64
	subjects []string
	missing  bool
	err      error
}

func (s *fakeGradeStore) Upsert(_ context.Context, entry *models.GradeEntry) error {
	s.entry = entry
	return s.err
}

func (s *fakeGradeStore) List(_ context.Context, filter repositories.GradeFilter) ([]*models.Grade, error) {
	s.filter = filter
	return []*models.Grade{}, s.err
}

func (s *fakeGradeStore) ListByStudent(_ context.Context, studentID int64) ([]*models.Grade, error) {
	return []*models.Grade{{StudentID: studentID}}, s.err
}

func (s *fakeGradeStore) Delete(_ context.Context, id int64) error {
	if s.missing {
		return apperrors.ErrGradeNotFound
	}
	s.deleted = append(s.deleted, id)
	return s.err
}

func (s *fakeGradeStore) DeleteSubject(_ context.Context, _ int64, subject string, _ models.Semester) error {
	if s.missing {
		return apperrors.ErrGradeNotFound
	}
	s.subjects = append(s.subjects, subject)
	return s.err
}
