package teacher

import (
	"context"
	"time"

	"github.com/trezcool/mahudhurio/core"
)

var (
	// errors
	ErrNotFound    = core.NewNotFoundError("teacher not found")
	ErrEmailExists = core.NewDuplicateError("a teacher with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(ctx context.Context, email string) error
		CreateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
		GetTeacherByID(ctx context.Context, id string) (Teacher, error)
		GetTeacherByEmail(ctx context.Context, email string) (Teacher, error)
		UpdateTeacher(ctx context.Context, tchr Teacher) (Teacher, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkEmailUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(context.Background(), email); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Register(ctx context.Context, nt NewTeacher) (Teacher, error) {
	now := time.Now().UTC()
	tchr := Teacher{
		Name:      nt.Name,
		Email:     nt.Email,
		School:    nt.School,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tchr.SetPassword(nt.Password); err != nil {
		return Teacher{}, err
	}
	return svc.repo.CreateTeacher(ctx, tchr)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacherByID(ctx, id)
}

func (svc *Service) GetByEmail(ctx context.Context, email string) (Teacher, error) {
	return svc.repo.GetTeacherByEmail(ctx, core.CleanString(email, true /* lower */))
}

func (svc *Service) SetLastLogin(ctx context.Context, tchr Teacher) (Teacher, error) {
	tchr.LastLogin = time.Now().UTC()
	return svc.repo.UpdateTeacher(ctx, tchr)
}
