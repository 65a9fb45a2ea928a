// Package application is the leave, on-duty and bonafide request workflow.
package application

import (
	"context"
	"net/mail"
	"sort"
	"text/template"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/core/user"
)

var nowFunc = time.Now // mockable

var decisionTmpl = template.Must(template.New("decision").Parse(`Hello {{.StudentName}},

Your {{.Type}} application ({{.Dates}}) has been {{.Status}}.
{{- if .Remarks}}

Remarks: {{.Remarks}}
{{- end}}
`))

// Directory resolves the identities an application refers to.
type Directory interface {
	GetStudent(ctx context.Context, id string) (user.Student, error)
	GetFaculty(ctx context.Context, id string) (user.Faculty, error)
}

type Service struct {
	records *store.Records
	users   Directory
	mailSvc core.EmailService
	logger  core.Logger
}

func NewService(records *store.Records, users Directory, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		records: records,
		users:   users,
		mailSvc: mailSvc,
		logger:  logger,
	}
}

func (svc *Service) all(ctx context.Context) ([]Application, error) {
	apps := Seed(nowFunc())
	if err := svc.records.Load(ctx, store.KeyApplications, &apps); err != nil {
		return nil, errors.Wrap(err, "loading applications")
	}
	return apps, nil
}

// Submit files a new Pending application for the requester, ahead of all others.
func (svc *Service) Submit(ctx context.Context, requester user.Student, na NewApplication) (Application, error) {
	app := Application{
		StudentID:         requester.ID,
		StudentName:       requester.Name,
		StudentRollNumber: requester.RollNumber,
		Type:              na.Type,
		Status:            StatusPending,
		Reason:            na.Reason,
		Dates:             na.Dates,
		Department:        requester.Department,
	}

	switch na.Type {
	case TypeLeave:
		app.Batch = requester.Batch
		app.AcademicYear = requester.AcademicYear
	case TypeOnDuty:
		if _, err := svc.users.GetFaculty(ctx, na.FacultyAssignedID); err != nil {
			if core.Is(err, core.ErrNotFound) {
				return Application{}, core.NewValidationError(
					core.ErrNotFound,
					core.FieldError{Field: "facultyAssignedId", Error: "unknown faculty member"},
				)
			}
			return Application{}, err
		}
		app.FacultyAssignedID = na.FacultyAssignedID
	case TypeBonafide:
		if app.Dates == "" {
			app.Dates = nowFunc().Format(core.DateLayout)
		}
	default:
		return Application{}, core.NewValidationError(
			errors.New("invalid application"),
			core.FieldError{Field: "type", Error: "unknown application type"},
		)
	}

	apps := Seed(nowFunc())
	err := svc.records.Update(ctx, store.KeyApplications, &apps, func() error {
		now := nowFunc()
		app.ID = core.NewID("app", now, func(id string) bool {
			for _, a := range apps {
				if a.ID == id {
					return true
				}
			}
			return false
		})
		app.SubmittedAt = now.UTC()
		apps = append([]Application{app}, apps...)
		return nil
	})
	if err != nil {
		return Application{}, errors.Wrap(err, "saving application")
	}
	return app, nil
}

// ListFor returns what the actor may see, most recent first:
// a student its own applications, a faculty member the pending ones of its department
// or assigned to it, an admin everything matching filter.
func (svc *Service) ListFor(ctx context.Context, actor user.Identity, filter Filter) ([]Application, error) {
	apps, err := svc.all(ctx)
	if err != nil {
		return nil, err
	}

	var keep func(Application) bool
	switch {
	case actor.Role == user.RoleStudent && actor.Student != nil:
		keep = func(a Application) bool { return a.StudentID == actor.Student.ID }
	case actor.Role == user.RoleFaculty && actor.Faculty != nil:
		keep = func(a Application) bool { return facultyScope(a, *actor.Faculty) }
	case actor.Role == user.RoleAdmin && actor.Admin != nil:
		keep = filter.match
	default:
		return nil, core.ErrPermissionDenied
	}

	filtered := make([]Application, 0, len(apps))
	for _, a := range apps {
		if keep(a) {
			filtered = append(filtered, a)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].SubmittedAt.After(filtered[j].SubmittedAt)
	})
	return filtered, nil
}

func facultyScope(a Application, f user.Faculty) bool {
	return a.IsPending() && (a.Department == f.Department || a.FacultyAssignedID == f.ID)
}

func (svc *Service) Get(ctx context.Context, id string) (Application, error) {
	apps, err := svc.all(ctx)
	if err != nil {
		return Application{}, err
	}
	for _, a := range apps {
		if a.ID == id {
			return a, nil
		}
	}
	return Application{}, errors.Wrapf(core.ErrNotFound, "application %q", id)
}

// Decide moves a Pending application to Approved or Rejected, once.
// Nothing but status, remarks and facultyActionById changes.
func (svc *Service) Decide(ctx context.Context, id, decision, remarks, actingID string) (Application, error) {
	if decision != StatusApproved && decision != StatusRejected {
		return Application{}, errors.Wrapf(core.ErrInvalidTransition, "%s -> %s", StatusPending, decision)
	}

	var decided Application
	apps := Seed(nowFunc())
	err := svc.records.Update(ctx, store.KeyApplications, &apps, func() error {
		for i := range apps {
			if apps[i].ID != id {
				continue
			}
			if !apps[i].IsPending() {
				return errors.Wrapf(core.ErrInvalidTransition, "%s -> %s", apps[i].Status, decision)
			}
			apps[i].Status = decision
			apps[i].Remarks = remarks
			apps[i].FacultyActionByID = actingID
			decided = apps[i]
			return nil
		}
		return errors.Wrapf(core.ErrNotFound, "application %q", id)
	})
	if err != nil {
		return Application{}, err
	}

	svc.notify(ctx, decided)
	return decided, nil
}

// DecideAs applies Decide on behalf of actor. Faculty may only decide within their scope.
func (svc *Service) DecideAs(ctx context.Context, actor user.Identity, id string, d Decision) (Application, error) {
	switch {
	case actor.Role == user.RoleAdmin && actor.Admin != nil:
	case actor.Role == user.RoleFaculty && actor.Faculty != nil:
		app, err := svc.Get(ctx, id)
		if err != nil {
			return Application{}, err
		}
		if app.IsPending() && !facultyScope(app, *actor.Faculty) {
			return Application{}, core.ErrPermissionDenied
		}
	default:
		return Application{}, core.ErrPermissionDenied
	}
	return svc.Decide(ctx, id, d.Status, d.Remarks, actor.ID())
}

func (svc *Service) Summary(ctx context.Context) (Counts, error) {
	apps, err := svc.all(ctx)
	if err != nil {
		return Counts{}, err
	}
	var c Counts
	for _, a := range apps {
		c.Total++
		switch a.Status {
		case StatusPending:
			c.Pending++
		case StatusApproved:
			c.Approved++
		case StatusRejected:
			c.Rejected++
		}
	}
	return c, nil
}

func (svc *Service) notify(ctx context.Context, app Application) {
	if svc.mailSvc == nil {
		return
	}
	student, err := svc.users.GetStudent(ctx, app.StudentID)
	if err != nil {
		if svc.logger != nil && !core.Is(err, core.ErrNotFound) {
			svc.logger.Error("finding student to notify", err)
		}
		return
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      app.Type + " application " + app.Status,
		Template:     decisionTmpl,
		TemplateData: app,
	})
}
