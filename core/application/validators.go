package application

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/campus/core"
)

var (
	appTypeTag  = "apptype"
	decisionTag = "decision"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	core.RegisterOneOf(validate, translator, appTypeTag, Types)
	core.RegisterOneOf(validate, translator, decisionTag, Decisions)
}

// NewApplication is what a student submits.
// A Bonafide Certificate request without dates is issued for today.
type NewApplication struct {
	Type              string `json:"type" validate:"required,apptype"`
	Reason            string `json:"reason" validate:"required,notblank"`
	Dates             string `json:"dates" validate:"required,notblank"`
	FacultyAssignedID string `json:"facultyAssignedId" validate:"required_if=Type On-Duty"`
}

func (na *NewApplication) Validate(validate *validator.Validate) error {
	na.Reason = core.CleanString(na.Reason)
	na.Dates = core.CleanString(na.Dates)
	na.FacultyAssignedID = core.CleanString(na.FacultyAssignedID)
	if na.Type == TypeBonafide && na.Dates == "" {
		na.Dates = nowFunc().Format(core.DateLayout)
	}
	return validate.Struct(na)
}

// Decision is a faculty or admin verdict on a pending application.
type Decision struct {
	Status  string `json:"status" validate:"required,decision"`
	Remarks string `json:"remarks"`
}

func (d *Decision) Validate(validate *validator.Validate) error {
	d.Remarks = core.CleanString(d.Remarks)
	return validate.Struct(d)
}
