package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/trezcool/mahudhurio/core/teacher"
	dummydb "github.com/trezcool/mahudhurio/storage/database/dummy"
)

var teacherRepo teacher.Repository

func setup(t *testing.T) *commandLine {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	teacherRepo = dummydb.NewTeacherRepository(db)
	return &commandLine{teacherRepo: teacherRepo}
}

func createTeacher(t *testing.T, name, email, pwd string) teacher.Teacher {
	t.Helper()

	tchr := teacher.Teacher{Name: name, Email: email, IsActive: true}
	if err := tchr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	tchr, err := teacherRepo.CreateTeacher(context.Background(), tchr)
	if err != nil {
		t.Fatalf("CreateTeacher() failed, %v", err)
	}
	return tchr
}

type cliTest struct {
	name    string
	args    []string // without program name
	pwd     string
	wantErr error
}

func Test_commandLine_addTeacher(t *testing.T) {
	cli := setup(t)

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "no args", args: []string{"addteacher"}, wantErr: errHelp},
		{name: "name but no email", args: []string{"addteacher", "-name", "Asha"}, wantErr: errHelp},
		{name: "no password", args: []string{"addteacher", "-name", "Asha", "-email", "asha@test.cd"}, wantErr: errHelp},
		{name: "create", args: []string{"addteacher", "-name", "Asha", "-email", "asha@test.cd"}, pwd: "s3cretword"},
		{name: "update existing", args: []string{"addteacher", "-name", "Asha M", "-email", "asha@test.cd", "-school", "Lycee"}, pwd: "newword123"},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err != tt.wantErr {
				t.Fatalf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil {
				tchr, err := teacherRepo.GetTeacherByEmail(context.Background(), "asha@test.cd")
				if err != nil {
					t.Fatalf("GetTeacherByEmail() failed, %v", err)
				}
				if err := tchr.CheckPassword(tt.pwd); err != nil {
					t.Error("failed to set password")
				}
			}
		})
	}
}

func Test_commandLine_resetPassword(t *testing.T) {
	cli := setup(t)

	tchr := createTeacher(t, "Baraka", "baraka@test.cd", "mdr")

	tests := []cliTest{
		{name: "no args", args: []string{"resetpassword"}, wantErr: errHelp},
		{name: "email but no password", args: []string{"resetpassword", "-email", "lol@test.cd"}, wantErr: errHelp},
		{name: "teacher not found", args: []string{"resetpassword", "-email", "lol@test.cd"}, pwd: "lol", wantErr: teacher.ErrNotFound},
		{name: "reset", args: []string{"resetpassword", "-email", tchr.Email}, pwd: "lmao"},
	}
	for _, tt := range tests {
		tt := tt
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.pwd), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			err := cli.run(args)
			if err == nil {
				refreshed, err := teacherRepo.GetTeacherByID(context.Background(), tchr.ID)
				if err != nil {
					t.Fatalf("GetTeacherByID() failed, %v", err)
				}
				if bytes.Equal(refreshed.PasswordHash, tchr.PasswordHash) {
					t.Error("failed to update new password")
				}
			} else if err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
