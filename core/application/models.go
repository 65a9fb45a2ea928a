package application

import "time"

// Application types
const (
	TypeOnDuty   = "On-Duty"
	TypeLeave    = "Leave"
	TypeBonafide = "Bonafide Certificate"
)

var Types = []string{TypeOnDuty, TypeLeave, TypeBonafide}

// Statuses. Pending is the only non-terminal one.
const (
	StatusPending  = "Pending"
	StatusApproved = "Approved"
	StatusRejected = "Rejected"
)

var (
	Statuses  = []string{StatusPending, StatusApproved, StatusRejected}
	Decisions = []string{StatusApproved, StatusRejected}
)

// Application is a student request awaiting a decision.
// Remarks and FacultyActionByID are set together, by the single decision.
type Application struct {
	ID                string    `json:"id"`
	StudentID         string    `json:"studentId"`
	StudentName       string    `json:"studentName"`
	StudentRollNumber string    `json:"studentRollNumber"`
	Type              string    `json:"type"`
	Status            string    `json:"status"`
	Reason            string    `json:"reason"`
	Dates             string    `json:"dates"`
	SubmittedAt       time.Time `json:"submittedAt"`
	Remarks           string    `json:"remarks,omitempty"`
	AcademicYear      string    `json:"academicYear,omitempty"`
	Batch             string    `json:"batch,omitempty"`
	Department        string    `json:"department,omitempty"`
	FacultyAssignedID string    `json:"facultyAssignedId,omitempty"`
	FacultyActionByID string    `json:"facultyActionById,omitempty"`
}

func (a Application) IsPending() bool { return a.Status == StatusPending }

// Filter narrows the admin listing. Empty fields match everything.
type Filter struct {
	Department string `query:"department" json:"department"`
	Batch      string `query:"batch" json:"batch"`
	Status     string `query:"status" json:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
}

func (f Filter) match(a Application) bool {
	return (f.Department == "" || a.Department == f.Department) &&
		(f.Batch == "" || a.Batch == f.Batch) &&
		(f.Status == "" || a.Status == f.Status)
}

// Counts summarizes applications by status.
type Counts struct {
	Total    int `json:"total"`
	Pending  int `json:"pending"`
	Approved int `json:"approved"`
	Rejected int `json:"rejected"`
}
