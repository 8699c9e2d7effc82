package school

import (
	"context"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrClassNotFound    = core.NewNotFoundError("class not found")
	ErrStudentNotFound  = core.NewNotFoundError("student not found")
	ErrCodeExists       = core.NewDuplicateError("a class with this code already exists")
	ErrRollNumberExists = core.NewDuplicateError("a student with this roll number already exists in this class")
)

type (
	Repository interface {
		CheckClassCodeUniqueness(ctx context.Context, code string) error
		CreateClass(ctx context.Context, class Class) (Class, error)
		GetClassByID(ctx context.Context, id string) (Class, error)
		QueryClassesByTeacher(ctx context.Context, teacherID string) ([]Class, error)
		UpdateClass(ctx context.Context, class Class, isActive *bool) (Class, error)
		DeleteClassesByID(ctx context.Context, ids ...string) error

		CheckRollNumberUniqueness(ctx context.Context, classID, rollNumber string) error
		CreateStudent(ctx context.Context, student Student) (Student, error)
		GetStudentByID(ctx context.Context, id string) (Student, error)
		// QueryStudentsByClass returns the current roster of a class; no ordering is guaranteed.
		QueryStudentsByClass(ctx context.Context, classID string) ([]Student, error)
		UpdateStudent(ctx context.Context, student Student, isActive *bool) (Student, error)
		DeleteStudentsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkCodeUniqueness(code string) error {
	if err := svc.repo.CheckClassCodeUniqueness(context.Background(), code); err != nil {
		if err == ErrCodeExists {
			return core.NewValidationError(err, core.FieldError{Field: "code", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) checkRollNumberUniqueness(classID, rollNumber string) error {
	if err := svc.repo.CheckRollNumberUniqueness(context.Background(), classID, rollNumber); err != nil {
		if err == ErrRollNumberExists {
			return core.NewValidationError(err, core.FieldError{Field: "roll_number", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) CreateClass(ctx context.Context, teacherID string, nc NewClass) (Class, error) {
	now := time.Now().UTC()
	section := nc.Section
	if section == "" {
		section = "A"
	}
	semester := nc.Semester
	if semester == 0 {
		semester = 1
	}
	class := Class{
		Name:         nc.Name,
		Code:         nc.Code,
		Description:  nc.Description,
		Section:      section,
		AcademicYear: nc.AcademicYear,
		Semester:     semester,
		Room:         nc.Room,
		TeacherID:    teacherID,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateClass(ctx, class)
}

func (svc *Service) GetClass(ctx context.Context, id string) (Class, error) {
	return svc.repo.GetClassByID(ctx, id)
}

func (svc *Service) QueryClasses(ctx context.Context, teacherID string) ([]Class, error) {
	return svc.repo.QueryClassesByTeacher(ctx, teacherID)
}

func (svc *Service) UpdateClass(ctx context.Context, id string, uc UpdateClass) (Class, error) {
	class := Class{
		ID:          id,
		Name:        core.CleanString(uc.Name),
		Description: uc.Description,
		Section:     core.CleanString(uc.Section),
		Room:        uc.Room,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateClass(ctx, class, uc.IsActive)
}

func (svc *Service) DeleteClasses(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteClassesByID(ctx, ids...)
}

func (svc *Service) AddStudent(ctx context.Context, classID string, ns NewStudent) (Student, error) {
	if _, err := svc.repo.GetClassByID(ctx, classID); err != nil {
		return Student{}, err
	}
	now := time.Now().UTC()
	student := Student{
		RollNumber:     ns.RollNumber,
		Name:           ns.Name,
		Email:          ns.Email,
		Phone:          ns.Phone,
		ParentPhone:    ns.ParentPhone,
		ParentEmail:    ns.ParentEmail,
		ClassID:        classID,
		IsActive:       true,
		EnrollmentDate: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateStudent(ctx, student)
}

func (svc *Service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) QueryStudents(ctx context.Context, classID string) ([]Student, error) {
	return svc.repo.QueryStudentsByClass(ctx, classID)
}

func (svc *Service) UpdateStudent(ctx context.Context, id string, us UpdateStudent) (Student, error) {
	student := Student{
		ID:          id,
		Name:        us.Name,
		Email:       us.Email,
		Phone:       us.Phone,
		ParentPhone: us.ParentPhone,
		ParentEmail: us.ParentEmail,
		UpdatedAt:   time.Now().UTC(),
	}
	return svc.repo.UpdateStudent(ctx, student, us.IsActive)
}

// DeleteStudents removes students from the roster. Attendance records
// referencing them are pruned on the next reconciliation of each date.
func (svc *Service) DeleteStudents(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteStudentsByID(ctx, ids...)
}
