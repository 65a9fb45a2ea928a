package user

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campus/core"
)

var (
	departmentTag   = "department"
	academicYearTag = "academicyear"
	studentTypeTag  = "studenttype"
	feeCategoryTag  = "feecategory"
	paymentModeTag  = "paymentmode"
	careerPathTag   = "careerpath"
)

// InitValidators registers the validation tags of this package.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, departmentTag, Departments)
	core.RegisterOneOf(validate, translator, academicYearTag, AcademicYears)
	core.RegisterOneOf(validate, translator, studentTypeTag, StudentTypes)
	core.RegisterOneOf(validate, translator, feeCategoryTag, FeeCategories)
	core.RegisterOneOf(validate, translator, paymentModeTag, PaymentModes)
	core.RegisterOneOf(validate, translator, careerPathTag, CareerPaths)
}

// NewStudent contains information needed to create a new Student (admin form).
type NewStudent struct {
	Name         string `json:"name" validate:"required,notblank"`
	RollNumber   string `json:"rollNumber" validate:"required,notblank"`
	Department   string `json:"department" validate:"required,department"`
	Batch        string `json:"batch" validate:"required,notblank"`
	AcademicYear string `json:"academicYear" validate:"required,academicyear"`
	Email        string `json:"email" validate:"required,email"`
	Contact      string `json:"contact"`
	Address      string `json:"address"`
	StudentType  string `json:"studentType" validate:"required,studenttype"`
	Password     string `json:"password" validate:"required"`
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Name = core.CleanString(ns.Name)
	ns.RollNumber = core.CleanString(ns.RollNumber)
	ns.Batch = core.CleanString(ns.Batch)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Contact = core.CleanString(ns.Contact)
	ns.Address = core.CleanString(ns.Address)
	return validate.Struct(ns)
}

// StudentSignup is the self-registration form of a student.
type StudentSignup struct {
	Name            string `json:"name" validate:"required,notblank"`
	RollNumber      string `json:"rollNumber" validate:"required,notblank"`
	Department      string `json:"department" validate:"required,department"`
	Batch           string `json:"batch" validate:"required,notblank"`
	AcademicYear    string `json:"academicYear" validate:"required,academicyear"`
	Email           string `json:"email" validate:"required,email"`
	Address         string `json:"address"`
	StudentType     string `json:"studentType" validate:"required,studenttype"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (ss *StudentSignup) Validate(validate *validator.Validate) error {
	ss.Name = core.CleanString(ss.Name)
	ss.RollNumber = core.CleanString(ss.RollNumber)
	ss.Batch = core.CleanString(ss.Batch)
	ss.Email = core.CleanString(ss.Email, true /* lower */)
	ss.Address = core.CleanString(ss.Address)
	return validate.Struct(ss)
}

// NewStudent converts the signup form. Self-registered students have no contact yet.
func (ss StudentSignup) NewStudent() NewStudent {
	return NewStudent{
		Name:         ss.Name,
		RollNumber:   ss.RollNumber,
		Department:   ss.Department,
		Batch:        ss.Batch,
		AcademicYear: ss.AcademicYear,
		Email:        ss.Email,
		Address:      ss.Address,
		StudentType:  ss.StudentType,
		Password:     ss.Password,
	}
}

// UpdateStudent defines what may be changed on an existing Student.
// Roll number and department are fixed once registered.
type UpdateStudent struct {
	Name         *string  `json:"name" validate:"omitempty,notblank"`
	Batch        *string  `json:"batch" validate:"omitempty,notblank"`
	AcademicYear *string  `json:"academicYear" validate:"omitempty,academicyear"`
	Contact      *string  `json:"contact"`
	Address      *string  `json:"address"`
	CGPA         *float64 `json:"cgpa" validate:"omitempty,min=0,max=10"`
	StudentType  *string  `json:"studentType" validate:"omitempty,studenttype"`
}

func (us *UpdateStudent) Validate(validate *validator.Validate) error {
	return validate.Struct(us)
}

func (us UpdateStudent) apply(s *Student) {
	if us.Name != nil {
		s.Name = core.CleanString(*us.Name)
	}
	if us.Batch != nil {
		s.Batch = core.CleanString(*us.Batch)
	}
	if us.AcademicYear != nil {
		s.AcademicYear = *us.AcademicYear
	}
	if us.Contact != nil {
		s.Contact = core.CleanString(*us.Contact)
	}
	if us.Address != nil {
		s.Address = core.CleanString(*us.Address)
	}
	if us.CGPA != nil {
		s.CGPA = *us.CGPA
	}
	if us.StudentType != nil {
		s.StudentType = *us.StudentType
	}
}

// NewFaculty contains information needed to create a new Faculty member.
type NewFaculty struct {
	Name       string `json:"name" validate:"required,notblank"`
	Department string `json:"department" validate:"required,department"`
	Email      string `json:"email" validate:"required,email"`
	FacultyID  string `json:"facultyId" validate:"required,notblank"`
	Password   string `json:"password" validate:"required"`
}

func (nf *NewFaculty) Validate(validate *validator.Validate) error {
	nf.Name = core.CleanString(nf.Name)
	nf.Email = core.CleanString(nf.Email, true /* lower */)
	nf.FacultyID = core.CleanString(nf.FacultyID)
	return validate.Struct(nf)
}

// FacultySignup is the self-registration form of a faculty member.
type FacultySignup struct {
	Name            string `json:"name" validate:"required,notblank"`
	Department      string `json:"department" validate:"required,department"`
	Email           string `json:"email" validate:"required,email"`
	FacultyID       string `json:"facultyId" validate:"required,notblank"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"passwordConfirm" validate:"required,eqfield=Password"`
}

func (fs *FacultySignup) Validate(validate *validator.Validate) error {
	fs.Name = core.CleanString(fs.Name)
	fs.Email = core.CleanString(fs.Email, true /* lower */)
	fs.FacultyID = core.CleanString(fs.FacultyID)
	return validate.Struct(fs)
}

func (fs FacultySignup) NewFaculty() NewFaculty {
	return NewFaculty{
		Name:       fs.Name,
		Department: fs.Department,
		Email:      fs.Email,
		FacultyID:  fs.FacultyID,
		Password:   fs.Password,
	}
}

// UpdateFaculty defines what may be changed on an existing Faculty member.
type UpdateFaculty struct {
	Name       *string `json:"name" validate:"omitempty,notblank"`
	Department *string `json:"department" validate:"omitempty,department"`
	FacultyID  *string `json:"facultyId" validate:"omitempty,notblank"`
}

func (uf *UpdateFaculty) Validate(validate *validator.Validate) error {
	return validate.Struct(uf)
}

func (uf UpdateFaculty) apply(f *Faculty) {
	if uf.Name != nil {
		f.Name = core.CleanString(*uf.Name)
	}
	if uf.Department != nil {
		f.Department = *uf.Department
	}
	if uf.FacultyID != nil {
		f.FacultyID = core.CleanString(*uf.FacultyID)
	}
}
