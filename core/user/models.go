package user

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

// Role is the discriminant of an Identity.
type Role string

// Roles
const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

var Roles = []Role{RoleStudent, RoleFaculty, RoleAdmin}

// ParseRole returns the Role named by s, case-insensitively.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleStudent, RoleFaculty, RoleAdmin:
		return r, true
	}
	return "", false
}

func (r Role) String() string { return string(r) }

// LoginPath is where an unauthenticated actor of this role is sent.
func (r Role) LoginPath() string { return "/" + string(r) + "/login" }

// Student types
const (
	Hosteller  = "Hosteller"
	DayScholar = "Day Scholar"
)

var StudentTypes = []string{Hosteller, DayScholar}

var (
	Departments   = []string{"CSBS", "CSE", "ECE", "IT", "AIML", "AIDS", "MECH", "CIVIL", "CYBER", "EEE", "VLSI"}
	AcademicYears = []string{"1st Year", "2nd Year", "3rd Year", "4th Year"}
	CareerPaths   = []string{"Placement", "Entrepreneur", "Training", "Higher Studies"}
)

// Fee categories
const (
	FeeCollege       = "College"
	FeeHostel        = "Hostel"
	FeeMess          = "Mess"
	FeeBus           = "Bus"
	FeeMiscellaneous = "Miscellaneous"
	FeeLab           = "Lab"
	FeeExam          = "Exam"
	FeeAssociation   = "Association"
)

var FeeCategories = []string{FeeCollege, FeeHostel, FeeMess, FeeBus, FeeMiscellaneous, FeeLab, FeeExam, FeeAssociation}

// Fee statuses
const (
	FeePaid   = "Paid"
	FeeUnpaid = "Unpaid"
)

// Payment modes
const (
	ModeUPI          = "GPay/UPI"
	ModeNetBanking   = "Net Banking"
	ModeBankTransfer = "Bank Transfer"
)

var PaymentModes = []string{ModeUPI, ModeNetBanking, ModeBankTransfer}

// FeeItem is one category's amount and payment status for a student.
// The payment descriptor (date, transaction id, mode) is set iff Status is Paid.
type FeeItem struct {
	Type          string  `json:"type"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PaymentDate   string  `json:"paymentDate,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
	PaymentMode   string  `json:"paymentMode,omitempty"`
}

func (fi FeeItem) IsPaid() bool { return fi.Status == FeePaid }

// MarkPaid sets the status and the whole payment descriptor.
func (fi *FeeItem) MarkPaid(date, txnID, mode string) {
	fi.Status = FeePaid
	fi.PaymentDate = date
	fi.TransactionID = txnID
	fi.PaymentMode = mode
}

// MarkUnpaid sets the status and clears the payment descriptor.
func (fi *FeeItem) MarkUnpaid() {
	fi.Status = FeeUnpaid
	fi.PaymentDate = ""
	fi.TransactionID = ""
	fi.PaymentMode = ""
}

// DefaultFees returns one unpaid, zero amount item per category.
func DefaultFees() []FeeItem {
	fees := make([]FeeItem, 0, len(FeeCategories))
	for _, cat := range FeeCategories {
		fees = append(fees, FeeItem{Type: cat, Amount: 0, Status: FeeUnpaid})
	}
	return fees
}

type Student struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	RollNumber   string    `json:"rollNumber"`
	Department   string    `json:"department"`
	Contact      string    `json:"contact"`
	Address      string    `json:"address"`
	CGPA         float64   `json:"cgpa"`
	Email        string    `json:"email"`
	CareerPath   string    `json:"careerPath,omitempty"`
	Batch        string    `json:"batch"`
	AcademicYear string    `json:"academicYear"`
	StudentType  string    `json:"studentType"`
	Fees         []FeeItem `json:"fees"`
}

// Fee returns the index of the item of the given category, or -1.
func (s *Student) Fee(category string) int {
	for i, f := range s.Fees {
		if f.Type == category {
			return i
		}
	}
	return -1
}

type Faculty struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
	FacultyID  string `json:"facultyId"`
}

type Admin struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Identity is any authenticated actor. Exactly one of Student, Faculty or Admin is set, matching Role.
type Identity struct {
	Role    Role     `json:"role"`
	Student *Student `json:"student,omitempty"`
	Faculty *Faculty `json:"faculty,omitempty"`
	Admin   *Admin   `json:"admin,omitempty"`
}

func StudentIdentity(s Student) Identity { return Identity{Role: RoleStudent, Student: &s} }
func FacultyIdentity(f Faculty) Identity { return Identity{Role: RoleFaculty, Faculty: &f} }
func AdminIdentity(a Admin) Identity     { return Identity{Role: RoleAdmin, Admin: &a} }

// Valid reports whether the variant matching Role is the only one set.
func (i Identity) Valid() bool {
	switch i.Role {
	case RoleStudent:
		return i.Student != nil && i.Faculty == nil && i.Admin == nil && i.Student.ID != ""
	case RoleFaculty:
		return i.Faculty != nil && i.Student == nil && i.Admin == nil && i.Faculty.ID != ""
	case RoleAdmin:
		return i.Admin != nil && i.Student == nil && i.Faculty == nil && i.Admin.ID != ""
	}
	return false
}

func (i Identity) ID() string {
	switch i.Role {
	case RoleStudent:
		if i.Student != nil {
			return i.Student.ID
		}
	case RoleFaculty:
		if i.Faculty != nil {
			return i.Faculty.ID
		}
	case RoleAdmin:
		if i.Admin != nil {
			return i.Admin.ID
		}
	}
	return ""
}

func (i Identity) Name() string {
	switch i.Role {
	case RoleStudent:
		if i.Student != nil {
			return i.Student.Name
		}
	case RoleFaculty:
		if i.Faculty != nil {
			return i.Faculty.Name
		}
	case RoleAdmin:
		if i.Admin != nil {
			return i.Admin.Name
		}
	}
	return ""
}

func (i Identity) Email() string {
	switch i.Role {
	case RoleStudent:
		if i.Student != nil {
			return i.Student.Email
		}
	case RoleFaculty:
		if i.Faculty != nil {
			return i.Faculty.Email
		}
	case RoleAdmin:
		if i.Admin != nil {
			return i.Admin.Email
		}
	}
	return ""
}

// Record returns the variant body alone, the way it is kept in the session slot.
func (i Identity) Record() interface{} {
	switch i.Role {
	case RoleStudent:
		return i.Student
	case RoleFaculty:
		return i.Faculty
	case RoleAdmin:
		return i.Admin
	}
	return nil
}

// DecodeIdentity decodes a variant body for the given role. Fields of another variant are rejected.
func DecodeIdentity(role Role, data []byte) (Identity, error) {
	var ident Identity
	var err error
	switch role {
	case RoleStudent:
		var s Student
		err = decodeStrict(data, &s)
		ident = StudentIdentity(s)
	case RoleFaculty:
		var f Faculty
		err = decodeStrict(data, &f)
		ident = FacultyIdentity(f)
	case RoleAdmin:
		var a Admin
		err = decodeStrict(data, &a)
		ident = AdminIdentity(a)
	default:
		return Identity{}, errors.Errorf("unknown role %q", role)
	}
	if err != nil {
		return Identity{}, errors.Wrapf(err, "decoding %s identity", role)
	}
	if !ident.Valid() {
		return Identity{}, errors.Errorf("malformed %s identity", role)
	}
	return ident, nil
}

func decodeStrict(data []byte, dst interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
