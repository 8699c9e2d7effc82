package main

import (
	"context"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

func (cli *commandLine) resetPassword(email, pwd string) error {
	ctx := context.Background()
	tchr, err := cli.teacherRepo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	if err := tchr.SetPassword(pwd); err != nil {
		return err
	}
	tchr.UpdatedAt = time.Now().UTC()
	if _, err := cli.teacherRepo.UpdateTeacher(ctx, tchr); err != nil {
		return err
	}
	return nil
}
