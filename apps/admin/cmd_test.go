package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/campus/core"
	"github.com/trezcool/campus/core/application"
	"github.com/trezcool/campus/core/fee"
	"github.com/trezcool/campus/core/menu"
	"github.com/trezcool/campus/core/settings"
	"github.com/trezcool/campus/core/store"
	"github.com/trezcool/campus/core/user"
	"github.com/trezcool/campus/storage"
	"github.com/trezcool/campus/storage/inmem"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()
	conf := core.NewTestConfig()
	out := new(bytes.Buffer)
	backend := inmem.New()
	records := store.NewRecords(backend)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(records, conf)
	settingsSvc := settings.NewService(records)
	return &commandLine{
		out:         out,
		backend:     backend,
		records:     records,
		validate:    validate,
		usrSvc:      usrSvc,
		settingsSvc: settingsSvc,
		menuSvc:     menu.NewService(records),
		appSvc:      application.NewService(records, usrSvc, nil, nil),
		feeSvc:      fee.NewService(usrSvc, settingsSvc, nil),
	}, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	extra      interface{}
}

func runCLITests(t *testing.T, cli *commandLine, tests []cliTest) {
	t.Helper()
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != nil {
				if tt.wantErr != nil {
					if core.Is(err, tt.wantErr) || err == tt.wantErr {
						return
					}
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				} else if tt.wantErrStr != "" {
					if err.Error() != tt.wantErrStr {
						t.Errorf("cli.run() error.Error() = %s, wantErrStr %s", err.Error(), tt.wantErrStr)
					}
				} else {
					t.Errorf("cli.run() unexpected error = %v", err)
				}
			} else if tt.wantErr != nil || tt.wantErrStr != "" {
				t.Errorf("cli.run() error = nil, want an error")
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	cli, _ := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "no database", args: []string{"migrate", "up"}, wantErr: errNoDatabase},
	})

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	cli.db = db

	origMigrate := migrateFunc
	defer func() { migrateFunc = origMigrate }()
	migrateFunc = func(db *sql.DB, command string, args ...string) error {
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to":
			if len(args) == 0 {
				return fmt.Errorf("up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		case "create":
			if len(args) == 0 {
				return fmt.Errorf("create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]")
			}
		case "down-to":
			if len(args) == 0 {
				return fmt.Errorf("down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION")
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}

	runCLITests(t, cli, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "create: no args", args: []string{"migrate", "create"}, wantErrStr: "create must be of form: goose [OPTIONS] DRIVER DBSTRING create NAME [go|sql]"},
		{name: "down-to: non-int arg", args: []string{"migrate", "down-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "1"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "create", args: []string{"migrate", "create", "add_index", "sql"}},
	})
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli, _ := setup(t)

	type extra struct {
		pwd string
	}
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "admin role", args: []string{"resetpassword", "-role", "admin", "-email", "admin@mkce.com"}, extra: extra{pwd: "lol"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-role", "student", "-email", "mkce@2025"}, wantErr: errHelp},
		{name: "user not found", args: []string{"resetpassword", "-role", "student", "-email", "lol@test.cd"}, extra: extra{pwd: "lol"}, wantErr: core.ErrNotFound},
		{name: "wrong role", args: []string{"resetpassword", "-role", "faculty", "-email", "mkce@2025"}, extra: extra{pwd: "lol"}, wantErr: core.ErrNotFound},
		{name: "reset student", args: []string{"resetpassword", "-role", "student", "-email", "MKCE@2025"}, extra: extra{pwd: "new.mkce"}},
		{name: "reset faculty", args: []string{"resetpassword", "-role", "faculty", "-email", "anna.lee@example.com"}, extra: extra{pwd: "new.anna"}},
	}

	origRead := readPasswordFunc
	defer func() { readPasswordFunc = origRead }()
	for _, tt := range tests {
		readPasswordFunc = func(fd int) ([]byte, error) {
			if extra, ok := tt.extra.(extra); ok {
				return []byte(extra.pwd), nil
			}
			return nil, nil
		}
		runCLITests(t, cli, []cliTest{tt})
	}

	ctx := context.Background()
	_, err := cli.usrSvc.Verify(ctx, "mkce@2025", "new.mkce", user.RoleStudent)
	assert.NoError(t, err)
	_, err = cli.usrSvc.Verify(ctx, "mkce@2025", "mkce", user.RoleStudent)
	assert.Error(t, err)
	_, err = cli.usrSvc.Verify(ctx, "anna.lee@example.com", "new.anna", user.RoleFaculty)
	assert.NoError(t, err)
}

func Test_commandLine_addUser(t *testing.T) {
	cli, out := setup(t)

	origRead := readPasswordFunc
	defer func() { readPasswordFunc = origRead }()
	readPasswordFunc = func(int) ([]byte, error) { return []byte("pw"), nil }

	runCLITests(t, cli, []cliTest{
		{name: "no role", args: []string{"adduser", "-name", "X"}, wantErr: errHelp},
		{
			name:       "invalid department",
			args:       []string{"adduser", "-role", "faculty", "-name", "Dr. X", "-email", "x@mkce.com", "-department", "ARTS", "-faculty-id", "F009"},
			wantErrStr: "Key: 'NewFaculty.department' Error:Field validation for 'department' failed on the 'department' tag",
		},
		{
			name:    "duplicate email",
			args:    []string{"adduser", "-role", "faculty", "-name", "Dr. X", "-email", "faculty@mkce.com", "-department", "CSE", "-faculty-id", "F009"},
			wantErr: core.ErrDuplicateEmail,
		},
		{
			name: "faculty",
			args: []string{"adduser", "-role", "faculty", "-name", "Dr. X", "-email", "X@mkce.com", "-department", "CSE", "-faculty-id", "F009"},
		},
		{
			name: "student",
			args: []string{"adduser", "-role", "student", "-name", "Kavin", "-email", "kavin@example.com", "-department", "IT", "-roll", "24IT001", "-batch", "2024-2028"},
		},
	})

	ctx := context.Background()
	ident, err := cli.usrSvc.Verify(ctx, "x@mkce.com", "pw", user.RoleFaculty)
	require.NoError(t, err)
	assert.Equal(t, "F009", ident.Faculty.FacultyID)

	ident, err = cli.usrSvc.Verify(ctx, "kavin@example.com", "pw", user.RoleStudent)
	require.NoError(t, err)
	assert.Equal(t, user.DayScholar, ident.Student.StudentType)
	assert.Equal(t, "1st Year", ident.Student.AcademicYear)
	assert.Contains(t, out.String(), "Student "+ident.ID()+" created (kavin@example.com).")
}

func Test_commandLine_seed(t *testing.T) {
	cli, out := setup(t)
	ctx := context.Background()

	require.NoError(t, cli.usrSvc.DeleteStudent(ctx, "s1"))
	require.NoError(t, cli.run([]string{"admin", "seed"}))

	students, err := cli.usrSvc.Students(ctx)
	require.NoError(t, err)
	assert.Len(t, students, 3)
	keys, err := cli.backend.Keys(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		store.KeyStudents, store.KeyFaculty, store.KeyApplications, store.KeyStudentCreds,
		store.KeyFacultyCreds, store.KeyFeesSettings, store.KeyAdminSettings, store.KeyHostelMenu,
	}, keys)

	require.NoError(t, cli.run([]string{"admin", "seed", "-empty"}))
	students, err = cli.usrSvc.Students(ctx)
	require.NoError(t, err)
	assert.Empty(t, students)
	counts, err := cli.appSvc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, application.Counts{}, counts)
	_, err = cli.usrSvc.Verify(ctx, "faculty@mkce.com", "fac.mkce", user.RoleFaculty)
	assert.True(t, core.Is(err, core.ErrInvalidCredentials))

	assert.Contains(t, out.String(), "Records reset to empty collections.")
}

func Test_commandLine_settings(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, []cliTest{
		{name: "bad value", args: []string{"settings", "-payments", "maybe"}, wantErr: errHelp},
		{name: "show", args: []string{"settings"}},
		{name: "change", args: []string{"settings", "-payments", "off", "-faculty-edit", "on"}},
	})

	s, err := cli.settingsSvc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, settings.Settings{PaymentsEnabled: false, FacultyCanEdit: true}, s)
	assert.Contains(t, out.String(), "payments:     on\nfaculty-edit: off\n")
	assert.Contains(t, out.String(), "payments:     off\nfaculty-edit: on\n")
}

func Test_commandLine_reportAndStatus(t *testing.T) {
	cli, out := setup(t)

	require.NoError(t, cli.run([]string{"admin", "status"}))
	assert.Equal(t, "No records stored.\n", out.String())

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "report"}))
	report := out.String()
	assert.Contains(t, report, "Fees: total 336000, collected 117000, pending 219000 (34.82% collected)")
	assert.Contains(t, report, "Applications: 4 total, 3 pending, 1 approved, 0 rejected")
	assert.Regexp(t, `MKCE Student\s+21CS001\s+CSE\s+122500`, report)
	assert.Regexp(t, `John Smith\s+21CS042\s+CSE\s+96500`, report)

	out.Reset()
	require.NoError(t, cli.run([]string{"admin", "status"}))
	assert.Contains(t, out.String(), store.KeyStudents+"\n")
}

func Test_newCommandLine_memoryEngine(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Storage.Engine = core.EngineMemory

	cli, closeFn, err := newCommandLine(conf, nil)
	require.Error(t, err)
	assert.Equal(t, storage.ErrNotDurable, errors.Cause(err))
	assert.Nil(t, cli)
	assert.Nil(t, closeFn)
}
