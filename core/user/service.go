package user

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/store"
)

var nowFunc = time.Now // mockable

// Service is the directory of students and faculty, their credentials and the admin singleton.
type Service struct {
	records *store.Records
	admin   Admin
	adminPw string
	hash    secretHasher
}

func NewService(records *store.Records, conf *core.Config) *Service {
	svc := &Service{
		records: records,
		admin: Admin{
			ID:    conf.Admin.ID,
			Name:  conf.Admin.Name,
			Email: core.CleanString(conf.Admin.Email, true /* lower */),
		},
		adminPw: conf.Admin.Password,
		hash:    plainSecret,
	}
	if conf.HashSecrets {
		svc.hash = bcryptSecret
	}
	return svc
}

func (svc *Service) Admin() Admin { return svc.admin }

// Verify returns the identity of `role` whose email is `identifier` if `secret` matches its credential.
func (svc *Service) Verify(ctx context.Context, identifier, secret string, role Role) (Identity, error) {
	identifier = core.CleanString(identifier, true /* lower */)

	switch role {
	case RoleStudent:
		students, err := svc.Students(ctx)
		if err != nil {
			return Identity{}, err
		}
		for _, s := range students {
			if strings.EqualFold(s.Email, identifier) {
				creds, err := svc.credentials(ctx, role)
				if err != nil {
					return Identity{}, err
				}
				if creds.Match(s.ID, secret) {
					return StudentIdentity(s), nil
				}
				break
			}
		}
	case RoleFaculty:
		faculty, err := svc.Faculty(ctx)
		if err != nil {
			return Identity{}, err
		}
		for _, f := range faculty {
			if strings.EqualFold(f.Email, identifier) {
				creds, err := svc.credentials(ctx, role)
				if err != nil {
					return Identity{}, err
				}
				if creds.Match(f.ID, secret) {
					return FacultyIdentity(f), nil
				}
				break
			}
		}
	case RoleAdmin:
		creds := Credentials{svc.admin.ID: svc.adminPw}
		if svc.admin.Email == identifier && creds.Match(svc.admin.ID, secret) {
			return AdminIdentity(svc.admin), nil
		}
	}
	return Identity{}, core.ErrInvalidCredentials
}

// Lookup returns the current record of the identity `id` of `role`.
func (svc *Service) Lookup(ctx context.Context, role Role, id string) (Identity, error) {
	switch role {
	case RoleStudent:
		s, err := svc.GetStudent(ctx, id)
		if err != nil {
			return Identity{}, err
		}
		return StudentIdentity(s), nil
	case RoleFaculty:
		f, err := svc.GetFaculty(ctx, id)
		if err != nil {
			return Identity{}, err
		}
		return FacultyIdentity(f), nil
	case RoleAdmin:
		if id == svc.admin.ID {
			return AdminIdentity(svc.admin), nil
		}
	}
	return Identity{}, errors.Wrapf(core.ErrNotFound, "%s %q", role, id)
}

func (svc *Service) Students(ctx context.Context) ([]Student, error) {
	students := SeedStudents()
	if err := svc.records.Load(ctx, store.KeyStudents, &students); err != nil {
		return nil, errors.Wrap(err, "loading students")
	}
	return students, nil
}

func (svc *Service) Faculty(ctx context.Context) ([]Faculty, error) {
	faculty := SeedFaculty()
	if err := svc.records.Load(ctx, store.KeyFaculty, &faculty); err != nil {
		return nil, errors.Wrap(err, "loading faculty")
	}
	return faculty, nil
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	students, err := svc.Students(ctx)
	if err != nil {
		return Student{}, err
	}
	for _, s := range students {
		if s.ID == id {
			return s, nil
		}
	}
	return Student{}, errors.Wrapf(core.ErrNotFound, "student %q", id)
}

func (svc *Service) GetFaculty(ctx context.Context, id string) (Faculty, error) {
	faculty, err := svc.Faculty(ctx)
	if err != nil {
		return Faculty{}, err
	}
	for _, f := range faculty {
		if f.ID == id {
			return f, nil
		}
	}
	return Faculty{}, errors.Wrapf(core.ErrNotFound, "faculty %q", id)
}

// StudentsInDepartment returns the students of `dept`, in registration order.
func (svc *Service) StudentsInDepartment(ctx context.Context, dept string) ([]Student, error) {
	students, err := svc.Students(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]Student, 0, len(students))
	for _, s := range students {
		if s.Department == dept {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

// RegisterStudent creates a student with every fee category at 0 and stores its secret.
func (svc *Service) RegisterStudent(ctx context.Context, ns NewStudent) (Student, error) {
	secret, err := svc.hash(ns.Password)
	if err != nil {
		return Student{}, errors.Wrap(err, "hashing secret")
	}

	var created Student
	students := SeedStudents()
	err = svc.records.Update(ctx, store.KeyStudents, &students, func() error {
		for _, s := range students {
			if strings.EqualFold(s.Email, ns.Email) {
				return core.NewValidationError(core.ErrDuplicateEmail, core.FieldError{Field: "email", Error: core.ErrDuplicateEmail.Error()})
			}
		}
		created = Student{
			ID: core.NewID("s", nowFunc(), func(id string) bool {
				for _, s := range students {
					if s.ID == id {
						return true
					}
				}
				return false
			}),
			Name:         ns.Name,
			RollNumber:   ns.RollNumber,
			Department:   ns.Department,
			Contact:      ns.Contact,
			Address:      ns.Address,
			CGPA:         0,
			Email:        ns.Email,
			Batch:        ns.Batch,
			AcademicYear: ns.AcademicYear,
			StudentType:  ns.StudentType,
			Fees:         DefaultFees(),
		}
		students = append(students, created)
		return nil
	})
	if err != nil {
		return Student{}, errors.Wrap(err, "saving student")
	}

	if err := svc.setSecret(ctx, RoleStudent, created.ID, secret); err != nil {
		return Student{}, err
	}
	return created, nil
}

// RegisterFaculty creates a faculty member and stores its secret.
func (svc *Service) RegisterFaculty(ctx context.Context, nf NewFaculty) (Faculty, error) {
	secret, err := svc.hash(nf.Password)
	if err != nil {
		return Faculty{}, errors.Wrap(err, "hashing secret")
	}

	var created Faculty
	faculty := SeedFaculty()
	err = svc.records.Update(ctx, store.KeyFaculty, &faculty, func() error {
		for _, f := range faculty {
			if strings.EqualFold(f.Email, nf.Email) {
				return core.NewValidationError(core.ErrDuplicateEmail, core.FieldError{Field: "email", Error: core.ErrDuplicateEmail.Error()})
			}
		}
		created = Faculty{
			ID: core.NewID("f", nowFunc(), func(id string) bool {
				for _, f := range faculty {
					if f.ID == id {
						return true
					}
				}
				return false
			}),
			Name:       nf.Name,
			Department: nf.Department,
			Email:      nf.Email,
			FacultyID:  nf.FacultyID,
		}
		faculty = append(faculty, created)
		return nil
	})
	if err != nil {
		return Faculty{}, errors.Wrap(err, "saving faculty")
	}

	if err := svc.setSecret(ctx, RoleFaculty, created.ID, secret); err != nil {
		return Faculty{}, err
	}
	return created, nil
}

// ModifyStudent applies `mutate` to the stored student `id`. Nothing is saved if mutate fails.
func (svc *Service) ModifyStudent(ctx context.Context, id string, mutate func(s *Student) error) (Student, error) {
	var updated Student
	students := SeedStudents()
	err := svc.records.Update(ctx, store.KeyStudents, &students, func() error {
		for i := range students {
			if students[i].ID == id {
				if err := mutate(&students[i]); err != nil {
					return err
				}
				updated = students[i]
				return nil
			}
		}
		return errors.Wrapf(core.ErrNotFound, "student %q", id)
	})
	if err != nil {
		return Student{}, err
	}
	return updated, nil
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	return svc.ModifyStudent(ctx, id, func(s *Student) error {
		us.apply(s)
		return nil
	})
}

func (svc *Service) SetCareerPath(ctx context.Context, id, path string) (Student, error) {
	return svc.ModifyStudent(ctx, id, func(s *Student) error {
		s.CareerPath = path
		return nil
	})
}

func (svc *Service) UpdateFaculty(ctx context.Context, id string, uf UpdateFaculty) (Faculty, error) {
	var updated Faculty
	faculty := SeedFaculty()
	err := svc.records.Update(ctx, store.KeyFaculty, &faculty, func() error {
		for i := range faculty {
			if faculty[i].ID == id {
				uf.apply(&faculty[i])
				updated = faculty[i]
				return nil
			}
		}
		return errors.Wrapf(core.ErrNotFound, "faculty %q", id)
	})
	if err != nil {
		return Faculty{}, err
	}
	return updated, nil
}

// DeleteStudent removes the student and its credential entry.
func (svc *Service) DeleteStudent(ctx context.Context, id string) error {
	students := SeedStudents()
	err := svc.records.Update(ctx, store.KeyStudents, &students, func() error {
		for i := range students {
			if students[i].ID == id {
				students = append(students[:i], students[i+1:]...)
				return nil
			}
		}
		return errors.Wrapf(core.ErrNotFound, "student %q", id)
	})
	if err != nil {
		return err
	}
	return svc.removeSecret(ctx, RoleStudent, id)
}

// DeleteFaculty removes the faculty member and its credential entry.
func (svc *Service) DeleteFaculty(ctx context.Context, id string) error {
	faculty := SeedFaculty()
	err := svc.records.Update(ctx, store.KeyFaculty, &faculty, func() error {
		for i := range faculty {
			if faculty[i].ID == id {
				faculty = append(faculty[:i], faculty[i+1:]...)
				return nil
			}
		}
		return errors.Wrapf(core.ErrNotFound, "faculty %q", id)
	})
	if err != nil {
		return err
	}
	return svc.removeSecret(ctx, RoleFaculty, id)
}

// ChangeSecret replaces the secret of `id` with `newSecret` if `oldSecret` matches the stored one.
func (svc *Service) ChangeSecret(ctx context.Context, role Role, id, oldSecret, newSecret string) error {
	key, err := credentialsKey(role)
	if err != nil {
		return core.ErrInvalidCredentials
	}
	secret, err := svc.hash(newSecret)
	if err != nil {
		return errors.Wrap(err, "hashing secret")
	}

	creds := seedCredentials(role)
	return svc.records.Update(ctx, key, &creds, func() error {
		if !creds.Match(id, oldSecret) {
			return core.ErrInvalidCredentials
		}
		creds[id] = secret
		return nil
	})
}

// ResetSecret unconditionally sets the secret of an existing identity.
func (svc *Service) ResetSecret(ctx context.Context, role Role, id, newSecret string) error {
	if _, err := svc.Lookup(ctx, role, id); err != nil {
		return err
	}
	if role == RoleAdmin {
		return errors.Wrap(core.ErrPermissionDenied, "admin secret is configured, not stored")
	}
	secret, err := svc.hash(newSecret)
	if err != nil {
		return errors.Wrap(err, "hashing secret")
	}
	return svc.setSecret(ctx, role, id, secret)
}

// FindByEmail returns the identity of `role` registered with `email`.
func (svc *Service) FindByEmail(ctx context.Context, role Role, email string) (Identity, error) {
	email = core.CleanString(email, true /* lower */)
	switch role {
	case RoleStudent:
		students, err := svc.Students(ctx)
		if err != nil {
			return Identity{}, err
		}
		for _, s := range students {
			if strings.EqualFold(s.Email, email) {
				return StudentIdentity(s), nil
			}
		}
	case RoleFaculty:
		faculty, err := svc.Faculty(ctx)
		if err != nil {
			return Identity{}, err
		}
		for _, f := range faculty {
			if strings.EqualFold(f.Email, email) {
				return FacultyIdentity(f), nil
			}
		}
	case RoleAdmin:
		if svc.admin.Email == email {
			return AdminIdentity(svc.admin), nil
		}
	}
	return Identity{}, errors.Wrapf(core.ErrNotFound, "%s with email %q", role, email)
}

func (svc *Service) credentials(ctx context.Context, role Role) (Credentials, error) {
	key, err := credentialsKey(role)
	if err != nil {
		return nil, err
	}
	creds := seedCredentials(role)
	if err := svc.records.Load(ctx, key, &creds); err != nil {
		return nil, errors.Wrapf(err, "loading %s credentials", role)
	}
	return creds, nil
}

func (svc *Service) setSecret(ctx context.Context, role Role, id, secret string) error {
	key, err := credentialsKey(role)
	if err != nil {
		return err
	}
	creds := seedCredentials(role)
	err = svc.records.Update(ctx, key, &creds, func() error {
		if creds == nil {
			creds = make(Credentials)
		}
		creds[id] = secret
		return nil
	})
	return errors.Wrapf(err, "saving %s credentials", role)
}

func (svc *Service) removeSecret(ctx context.Context, role Role, id string) error {
	key, err := credentialsKey(role)
	if err != nil {
		return err
	}
	creds := seedCredentials(role)
	err = svc.records.Update(ctx, key, &creds, func() error {
		delete(creds, id)
		return nil
	})
	return errors.Wrapf(err, "removing %s credentials", role)
}

func credentialsKey(role Role) (string, error) {
	switch role {
	case RoleStudent:
		return store.KeyStudentCreds, nil
	case RoleFaculty:
		return store.KeyFacultyCreds, nil
	}
	return "", errors.Errorf("no stored credentials for role %q", role)
}

func seedCredentials(role Role) Credentials {
	if role == RoleFaculty {
		return SeedFacultyCredentials()
	}
	return SeedStudentCredentials()
}
