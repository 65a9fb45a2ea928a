package fee

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/user"
)

var nowFunc = time.Now // mockable

// maxAmount bounds a single fee item.
const maxAmount = 1e12

// Students is the student directory the ledger reads and mutates.
type Students interface {
	GetStudent(ctx context.Context, id string) (user.Student, error)
	Students(ctx context.Context) ([]user.Student, error)
	StudentsInDepartment(ctx context.Context, dept string) ([]user.Student, error)
	ModifyStudent(ctx context.Context, id string, mutate func(s *user.Student) error) (user.Student, error)
}

// Flags exposes the fees-enabled switch.
type Flags interface {
	PaymentsEnabled(ctx context.Context) (bool, error)
}

type (
	// Statement is what a student sees of its fees.
	Statement struct {
		Summary
		ApplicableTotal float64        `json:"applicableTotal"`
		Categories      []string       `json:"categories"`
		Fees            []user.FeeItem `json:"fees"`
		PaymentsEnabled bool           `json:"paymentsEnabled"`
	}

	StudentSummary struct {
		ID         string         `json:"id"`
		Name       string         `json:"name"`
		RollNumber string         `json:"rollNumber"`
		Department string         `json:"department"`
		Fees       []user.FeeItem `json:"fees"`
		Summary
	}

	StudentDues struct {
		Name       string  `json:"name"`
		RollNumber string  `json:"rollNumber"`
		Department string  `json:"department"`
		Pending    float64 `json:"pending"`
	}

	Report struct {
		Total            float64       `json:"total"`
		Collected        float64       `json:"collected"`
		Pending          float64       `json:"pending"`
		CompletionRatio  string        `json:"completionRatio"`
		StudentsWithDues []StudentDues `json:"studentsWithDues"`
	}

	// Payment is a student paying one category online.
	Payment struct {
		Mode string `json:"mode" validate:"required,paymentmode"`
	}

	// Amounts is the admin fee editor form, by category.
	Amounts struct {
		Fees map[string]float64 `json:"fees" validate:"required,dive,keys,feecategory,endkeys,min=0"`
	}
)

func (p *Payment) Validate(validate *validator.Validate) error {
	return validate.Struct(p)
}

func (a *Amounts) Validate(validate *validator.Validate) error {
	return validate.Struct(a)
}

type Service struct {
	students Students
	flags    Flags
	logger   core.Logger
	txnIDs   idIssuer
}

// idIssuer hands out transaction ids that are unique within the process.
// Ids issued in the same millisecond get a random suffix.
type idIssuer struct {
	mu     sync.Mutex
	millis int64
	issued map[string]bool
}

func (iss *idIssuer) next(prefix string, now time.Time) string {
	iss.mu.Lock()
	defer iss.mu.Unlock()

	if ms := now.UnixNano() / int64(time.Millisecond); ms != iss.millis || iss.issued == nil {
		iss.millis = ms
		iss.issued = make(map[string]bool)
	}
	id := core.NewID(prefix, now, func(id string) bool { return iss.issued[id] })
	iss.issued[id] = true
	return id
}

func NewService(students Students, flags Flags, logger core.Logger) *Service {
	return &Service{students: students, flags: flags, logger: logger}
}

func (svc *Service) Statement(ctx context.Context, studentID string) (Statement, error) {
	s, err := svc.students.GetStudent(ctx, studentID)
	if err != nil {
		return Statement{}, err
	}
	enabled, err := svc.flags.PaymentsEnabled(ctx)
	if err != nil {
		return Statement{}, err
	}

	st := Statement{
		Summary:         Summarize(s),
		Categories:      ApplicableCategories(s.StudentType),
		Fees:            ApplicableFees(s),
		PaymentsEnabled: enabled,
	}
	for _, f := range st.Fees {
		st.ApplicableTotal += f.Amount
	}
	return st, nil
}

// Pay marks an unpaid, applicable item as paid online. Fails without change when payments are disabled.
func (svc *Service) Pay(ctx context.Context, studentID, category, mode string) (user.FeeItem, error) {
	enabled, err := svc.flags.PaymentsEnabled(ctx)
	if err != nil {
		return user.FeeItem{}, err
	}
	if !enabled {
		return user.FeeItem{}, core.ErrPaymentsDisabled
	}
	if !validMode(mode) {
		return user.FeeItem{}, core.NewValidationError(
			errors.New("invalid payment"),
			core.FieldError{Field: "mode", Error: "mode must be one of: " + strings.Join(user.PaymentModes, ", ")},
		)
	}

	var paid user.FeeItem
	_, err = svc.students.ModifyStudent(ctx, studentID, func(s *user.Student) error {
		i := s.Fee(category)
		if i < 0 || !Applicable(s.StudentType, category) {
			return errors.Wrapf(core.ErrNotFound, "%s fee of student %q", category, studentID)
		}
		if s.Fees[i].IsPaid() {
			return core.ErrAlreadyPaid
		}
		now := nowFunc()
		s.Fees[i].MarkPaid(now.Format(core.DateLayout), svc.txnIDs.next("TXN", now), mode)
		paid = s.Fees[i]
		return nil
	})
	if err != nil {
		return user.FeeItem{}, err
	}
	return paid, nil
}

// OverrideToggle flips an item between Paid and Unpaid whatever the fees-enabled flag says.
// A Paid override carries a synthesized bank transfer descriptor.
func (svc *Service) OverrideToggle(ctx context.Context, actor user.Identity, studentID, category string) (user.FeeItem, error) {
	if actor.Role != user.RoleAdmin || !actor.Valid() {
		return user.FeeItem{}, core.ErrPermissionDenied
	}
	if !isCategory(category) {
		return user.FeeItem{}, errors.Wrapf(core.ErrNotFound, "fee category %q", category)
	}

	var toggled user.FeeItem
	_, err := svc.students.ModifyStudent(ctx, studentID, func(s *user.Student) error {
		i := s.Fee(category)
		if i < 0 {
			s.Fees = append(s.Fees, user.FeeItem{Type: category, Status: user.FeeUnpaid})
			i = len(s.Fees) - 1
		}
		if s.Fees[i].IsPaid() {
			s.Fees[i].MarkUnpaid()
		} else {
			now := nowFunc()
			s.Fees[i].MarkPaid(now.Format(core.DateLayout), svc.txnIDs.next("ADMIN_OVERRIDE_", now), user.ModeBankTransfer)
		}
		toggled = s.Fees[i]
		return nil
	})
	if err != nil {
		return user.FeeItem{}, err
	}

	if svc.logger != nil {
		svc.logger.Warn(
			fmt.Sprintf("fee override: %s %s fee of student %s set to %s", actor.ID(), category, studentID, toggled.Status),
			map[string]interface{}{"transactionId": toggled.TransactionID},
			actor,
		)
	}
	return toggled, nil
}

// SetAmounts edits amounts. The stored list ends up with one item per category; statuses are kept.
func (svc *Service) SetAmounts(ctx context.Context, studentID string, amounts map[string]float64) (user.Student, error) {
	for cat, amount := range amounts {
		if !isCategory(cat) {
			return user.Student{}, core.NewValidationError(
				errors.New("invalid fees"),
				core.FieldError{Field: cat, Error: "unknown fee category"},
			)
		}
		if amount < 0 {
			return user.Student{}, core.NewValidationError(
				errors.New("invalid fees"),
				core.FieldError{Field: cat, Error: "amount cannot be negative"},
			)
		}
		// whole rupees below maxAmount keep every sum exact
		if amount != math.Trunc(amount) {
			return user.Student{}, core.NewValidationError(
				errors.New("invalid fees"),
				core.FieldError{Field: cat, Error: "amount must be in whole rupees"},
			)
		}
		if amount > maxAmount {
			return user.Student{}, core.NewValidationError(
				errors.New("invalid fees"),
				core.FieldError{Field: cat, Error: fmt.Sprintf("amount cannot exceed %.0f", maxAmount)},
			)
		}
	}

	return svc.students.ModifyStudent(ctx, studentID, func(s *user.Student) error {
		s.Fees = normalize(s.Fees)
		for i := range s.Fees {
			if amount, ok := amounts[s.Fees[i].Type]; ok {
				s.Fees[i].Amount = amount
			}
		}
		return nil
	})
}

// DepartmentSummaries lists the fee position of every student of a department.
func (svc *Service) DepartmentSummaries(ctx context.Context, dept string) ([]StudentSummary, error) {
	students, err := svc.students.StudentsInDepartment(ctx, dept)
	if err != nil {
		return nil, err
	}
	sums := make([]StudentSummary, 0, len(students))
	for _, s := range students {
		sums = append(sums, StudentSummary{
			ID:         s.ID,
			Name:       s.Name,
			RollNumber: s.RollNumber,
			Department: s.Department,
			Fees:       s.Fees,
			Summary:    Summarize(s),
		})
	}
	return sums, nil
}

// Report aggregates all students. Students with dues come largest first.
func (svc *Service) Report(ctx context.Context) (Report, error) {
	students, err := svc.students.Students(ctx)
	if err != nil {
		return Report{}, err
	}

	rep := Report{StudentsWithDues: make([]StudentDues, 0)}
	for _, s := range students {
		sum := Summarize(s)
		rep.Total += sum.Total
		rep.Collected += sum.Paid
		if sum.Pending > 0 {
			rep.StudentsWithDues = append(rep.StudentsWithDues, StudentDues{
				Name:       s.Name,
				RollNumber: s.RollNumber,
				Department: s.Department,
				Pending:    sum.Pending,
			})
		}
	}
	rep.Pending = rep.Total - rep.Collected
	rep.CompletionRatio = "0.00"
	if rep.Total > 0 {
		rep.CompletionRatio = fmt.Sprintf("%.2f", rep.Collected/rep.Total*100)
	}
	sort.SliceStable(rep.StudentsWithDues, func(i, j int) bool {
		return rep.StudentsWithDues[i].Pending > rep.StudentsWithDues[j].Pending
	})
	return rep, nil
}

func validMode(mode string) bool {
	for _, m := range user.PaymentModes {
		if m == mode {
			return true
		}
	}
	return false
}
