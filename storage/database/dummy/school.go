package dummydb

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/school"
)

type schoolRepository struct {
	classes  *classTable
	students *studentTable
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{classes: db.class, students: db.student}
}

// Classes

func (repo *schoolRepository) CheckClassCodeUniqueness(_ context.Context, code string) error {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	for _, class := range repo.classes.table {
		if class.Code == code {
			return school.ErrCodeExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateClass(_ context.Context, class school.Class) (school.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	class.ID = uuid.New().String()
	repo.classes.table[class.ID] = &class
	return class, nil
}

func (repo *schoolRepository) GetClassByID(_ context.Context, id string) (school.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	if class, ok := repo.classes.table[id]; ok {
		return *class, nil
	}
	return school.Class{}, school.ErrClassNotFound
}

func (repo *schoolRepository) QueryClassesByTeacher(_ context.Context, teacherID string) ([]school.Class, error) {
	repo.classes.RLock()
	defer repo.classes.RUnlock()

	classes := make([]school.Class, 0)
	for _, class := range repo.classes.table {
		if class.TeacherID == teacherID {
			classes = append(classes, *class)
		}
	}
	return classes, nil
}

func (repo *schoolRepository) UpdateClass(_ context.Context, class school.Class, isActive *bool) (school.Class, error) {
	repo.classes.Lock()
	defer repo.classes.Unlock()

	// only save set fields
	orig, ok := repo.classes.table[class.ID]
	if !ok {
		return school.Class{}, school.ErrClassNotFound
	}
	if class.Name != "" {
		orig.Name = class.Name
	}
	if class.Description != "" {
		orig.Description = class.Description
	}
	if class.Section != "" {
		orig.Section = class.Section
	}
	if class.Room != "" {
		orig.Room = class.Room
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = class.UpdatedAt

	repo.classes.table[class.ID] = orig
	return *orig, nil
}

func (repo *schoolRepository) DeleteClassesByID(_ context.Context, ids ...string) error {
	repo.classes.Lock()
	defer repo.classes.Unlock()
	for _, id := range ids {
		delete(repo.classes.table, id)
	}
	return nil
}

// Students

func (repo *schoolRepository) CheckRollNumberUniqueness(_ context.Context, classID, rollNumber string) error {
	repo.students.RLock()
	defer repo.students.RUnlock()

	for _, s := range repo.students.table {
		if s.ClassID == classID && s.RollNumber == rollNumber {
			return school.ErrRollNumberExists
		}
	}
	return nil
}

func (repo *schoolRepository) CreateStudent(_ context.Context, student school.Student) (school.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	student.ID = uuid.New().String()
	repo.students.table[student.ID] = &student
	return student, nil
}

func (repo *schoolRepository) GetStudentByID(_ context.Context, id string) (school.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	if s, ok := repo.students.table[id]; ok {
		return *s, nil
	}
	return school.Student{}, school.ErrStudentNotFound
}

func (repo *schoolRepository) QueryStudentsByClass(_ context.Context, classID string) ([]school.Student, error) {
	repo.students.RLock()
	defer repo.students.RUnlock()

	students := make([]school.Student, 0)
	for _, s := range repo.students.table {
		if s.ClassID == classID {
			students = append(students, *s)
		}
	}
	return students, nil
}

func (repo *schoolRepository) UpdateStudent(_ context.Context, student school.Student, isActive *bool) (school.Student, error) {
	repo.students.Lock()
	defer repo.students.Unlock()

	// only save set fields
	orig, ok := repo.students.table[student.ID]
	if !ok {
		return school.Student{}, school.ErrStudentNotFound
	}
	if student.Name != "" {
		orig.Name = student.Name
	}
	if student.Email != "" {
		orig.Email = student.Email
	}
	if student.Phone != "" {
		orig.Phone = student.Phone
	}
	if student.ParentPhone != "" {
		orig.ParentPhone = student.ParentPhone
	}
	if student.ParentEmail != "" {
		orig.ParentEmail = student.ParentEmail
	}
	if isActive != nil {
		orig.IsActive = *isActive
	}
	orig.UpdatedAt = student.UpdatedAt

	repo.students.table[student.ID] = orig
	return *orig, nil
}

func (repo *schoolRepository) DeleteStudentsByID(_ context.Context, ids ...string) error {
	repo.students.Lock()
	defer repo.students.Unlock()
	for _, id := range ids {
		delete(repo.students.table, id)
	}
	return nil
}
