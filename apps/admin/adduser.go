package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/trezcool/campus/core/user"
)

func (cli *commandLine) runAddUser(args []string) error {
	addUserCmd := flag.NewFlagSet("adduser", flag.ContinueOnError)
	addUserCmd.SetOutput(cli.out)
	role := addUserCmd.String("role", "", "student or faculty.")
	name := addUserCmd.String("name", "", "Full name.")
	email := addUserCmd.String("email", "", "Email, used to log in. The password will be prompted next.")
	dept := addUserCmd.String("department", "", "Department code, e.g. CSE.")
	facultyID := addUserCmd.String("faculty-id", "", "Faculty: staff number.")
	roll := addUserCmd.String("roll", "", "Student: roll number.")
	batch := addUserCmd.String("batch", "", "Student: batch, e.g. 2024-2028.")
	year := addUserCmd.String("year", "1st Year", "Student: academic year.")
	studentType := addUserCmd.String("type", user.DayScholar, "Student: Hosteller or Day Scholar.")
	if err := addUserCmd.Parse(args); err != nil {
		return errHelp
	}

	r, ok := user.ParseRole(*role)
	if !ok || r == user.RoleAdmin {
		addUserCmd.Usage()
		return errHelp
	}
	pwd, err := cli.promptPassword()
	if err != nil {
		return err
	}

	if r == user.RoleFaculty {
		return cli.addFaculty(user.NewFaculty{
			Name:       *name,
			Department: *dept,
			Email:      *email,
			FacultyID:  *facultyID,
			Password:   pwd,
		})
	}
	return cli.addStudent(user.NewStudent{
		Name:         *name,
		RollNumber:   *roll,
		Department:   *dept,
		Batch:        *batch,
		AcademicYear: *year,
		Email:        *email,
		StudentType:  *studentType,
		Password:     pwd,
	})
}

// addStudent registers a student with every fee category at 0.
func (cli *commandLine) addStudent(ns user.NewStudent) error {
	if err := ns.Validate(cli.validate); err != nil {
		return err
	}
	s, err := cli.usrSvc.RegisterStudent(context.Background(), ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Student %s created (%s).\n", s.ID, s.Email)
	return nil
}

func (cli *commandLine) addFaculty(nf user.NewFaculty) error {
	if err := nf.Validate(cli.validate); err != nil {
		return err
	}
	f, err := cli.usrSvc.RegisterFaculty(context.Background(), nf)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "Faculty %s created (%s).\n", f.ID, f.Email)
	return nil
}
