// Package settings holds the process-wide switches an admin controls.
package settings

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/campus/core/store"
)

type (
	feesSettings struct {
		PaymentsEnabled bool `json:"paymentsEnabled"`
	}

	adminSettings struct {
		FacultyCanEdit bool `json:"facultyCanEdit"`
	}

	// Settings is the combined view of both flags.
	Settings struct {
		PaymentsEnabled bool `json:"paymentsEnabled"`
		FacultyCanEdit  bool `json:"facultyCanEdit"`
	}

	// UpdateSettings sets the flags that are not nil.
	UpdateSettings struct {
		PaymentsEnabled *bool `json:"paymentsEnabled"`
		FacultyCanEdit  *bool `json:"facultyCanEdit"`
	}
)

func defaultFees() feesSettings   { return feesSettings{PaymentsEnabled: true} }
func defaultAdmin() adminSettings { return adminSettings{FacultyCanEdit: false} }

type Service struct {
	records *store.Records
}

func NewService(records *store.Records) *Service {
	return &Service{records: records}
}

func (svc *Service) Get(ctx context.Context) (Settings, error) {
	paymentsEnabled, err := svc.PaymentsEnabled(ctx)
	if err != nil {
		return Settings{}, err
	}
	facultyCanEdit, err := svc.FacultyCanEdit(ctx)
	if err != nil {
		return Settings{}, err
	}
	return Settings{PaymentsEnabled: paymentsEnabled, FacultyCanEdit: facultyCanEdit}, nil
}

func (svc *Service) PaymentsEnabled(ctx context.Context) (bool, error) {
	fs := defaultFees()
	if err := svc.records.Load(ctx, store.KeyFeesSettings, &fs); err != nil {
		return false, errors.Wrap(err, "loading fees settings")
	}
	return fs.PaymentsEnabled, nil
}

func (svc *Service) FacultyCanEdit(ctx context.Context) (bool, error) {
	as := defaultAdmin()
	if err := svc.records.Load(ctx, store.KeyAdminSettings, &as); err != nil {
		return false, errors.Wrap(err, "loading admin settings")
	}
	return as.FacultyCanEdit, nil
}

func (svc *Service) Update(ctx context.Context, us UpdateSettings) (Settings, error) {
	if us.PaymentsEnabled != nil {
		if err := svc.SetPaymentsEnabled(ctx, *us.PaymentsEnabled); err != nil {
			return Settings{}, err
		}
	}
	if us.FacultyCanEdit != nil {
		if err := svc.SetFacultyCanEdit(ctx, *us.FacultyCanEdit); err != nil {
			return Settings{}, err
		}
	}
	return svc.Get(ctx)
}

func (svc *Service) SetPaymentsEnabled(ctx context.Context, enabled bool) error {
	fs := defaultFees()
	err := svc.records.Update(ctx, store.KeyFeesSettings, &fs, func() error {
		fs.PaymentsEnabled = enabled
		return nil
	})
	return errors.Wrap(err, "saving fees settings")
}

func (svc *Service) SetFacultyCanEdit(ctx context.Context, enabled bool) error {
	as := defaultAdmin()
	err := svc.records.Update(ctx, store.KeyAdminSettings, &as, func() error {
		as.FacultyCanEdit = enabled
		return nil
	})
	return errors.Wrap(err, "saving admin settings")
}

// TogglePayments flips the fees-enabled flag and returns the new value.
func (svc *Service) TogglePayments(ctx context.Context) (bool, error) {
	fs := defaultFees()
	err := svc.records.Update(ctx, store.KeyFeesSettings, &fs, func() error {
		fs.PaymentsEnabled = !fs.PaymentsEnabled
		return nil
	})
	return fs.PaymentsEnabled, errors.Wrap(err, "saving fees settings")
}

func (svc *Service) ToggleFacultyEdit(ctx context.Context) (bool, error) {
	as := defaultAdmin()
	err := svc.records.Update(ctx, store.KeyAdminSettings, &as, func() error {
		as.FacultyCanEdit = !as.FacultyCanEdit
		return nil
	})
	return as.FacultyCanEdit, errors.Wrap(err, "saving admin settings")
}
