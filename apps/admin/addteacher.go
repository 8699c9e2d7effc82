package main

import (
	"context"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/teacher"
)

// addTeacher updates or creates a teacher.Teacher
func (cli *commandLine) addTeacher(name, email, school, pwd string) error {
	ctx := context.Background()
	name = core.CleanString(name)
	email = core.CleanString(email, true /* lower */)
	school = core.CleanString(school)

	now := time.Now().UTC()
	tchr, err := cli.teacherRepo.GetTeacherByEmail(ctx, email)
	if err != nil {
		if err != teacher.ErrNotFound {
			return err
		}
		tchr = teacher.Teacher{
			Email:     email,
			CreatedAt: now,
		}
	}
	tchr.Name = name
	tchr.School = school
	tchr.IsActive = true
	tchr.UpdatedAt = now
	if err := tchr.SetPassword(pwd); err != nil {
		return err
	}

	if tchr.ID == "" {
		_, err = cli.teacherRepo.CreateTeacher(ctx, tchr)
	} else {
		_, err = cli.teacherRepo.UpdateTeacher(ctx, tchr)
	}
	return err
}
