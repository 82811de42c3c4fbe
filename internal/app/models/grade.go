package models

import "time"

// Semester is one of the three grading periods of a school year
type Semester string

const (
	SemesterFirst  Semester = "1st Semester"
	SemesterSecond Semester = "2nd Semester"
	SemesterSummer Semester = "Summer"
)

// Valid reports whether s is a known semester
func (s Semester) Valid() bool {
	switch s {
	case SemesterFirst, SemesterSecond, SemesterSummer:
		return true
	}
	return false
}

// Term is a grading checkpoint within a semester
type Term string

const (
	TermPrelim  Term = "prelim"
	TermMidterm Term = "midterm"
	TermFinals  Term = "finals"
)

var termColumns = map[Term]string{
	TermPrelim:  "prelim_grade",
	TermMidterm: "midterm_grade",
	TermFinals:  "finals_grade",
}

// Valid reports whether t is a known term
func (t Term) Valid() bool {
	_, ok := termColumns[t]
	return ok
}

// Column returns the grades column that stores this term
func (t Term) Column() string {
	return termColumns[t]
}

// GradeIncomplete marks a term that was not completed
const GradeIncomplete = "INC"

// Grade is a row of the 'grades' table joined with the student's current user row.
// The joined fields are nil when the lookup does not select them.
type Grade struct {
	ID           int64     `json:"id"`
	StudentID    int64     `json:"student_id"`
	TeacherID    int64     `json:"teacher_id"`
	Subject      string    `json:"subject"`
	Semester     Semester  `json:"semester"`
	Prelim       *string   `json:"prelim"`
	Midterm      *string   `json:"midterm"`
	Finals       *string   `json:"finals"`
	Remarks      *string   `json:"remarks"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	StudentName  *string   `json:"student_name,omitempty"`
	StudentEmail *string   `json:"student_email,omitempty"`
	TeacherName  *string   `json:"teacher_name,omitempty"`
	Course       *string   `json:"course"`
	Section      *string   `json:"section,omitempty"`
	YearLevel    *string   `json:"year_level"`
}

// GradeEntry is a single term grade submission
type GradeEntry struct {
	TeacherID int64
	StudentID int64
	Subject   string
	Semester  Semester
	Term      Term
	// Value is nil when the term grade is cleared
	Value   *string
	Remarks *string
}
