package school

import (
	"time"

	"github.com/trezcool/mahudhurio/core"
)

type Class struct {
	ID           string    `json:"id" bson:"_id,omitempty"`
	Name         string    `json:"name" bson:"name"`
	Code         string    `json:"code" bson:"code"`
	Description  string    `json:"description,omitempty" bson:"description,omitempty"`
	Section      string    `json:"section" bson:"section"`
	AcademicYear string    `json:"academic_year" bson:"academic_year"`
	Semester     int       `json:"semester" bson:"semester"`
	Room         string    `json:"room,omitempty" bson:"room,omitempty"`
	TeacherID    string    `json:"teacher_id" bson:"teacher_id"`
	IsActive     bool      `json:"is_active" bson:"is_active"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

type Student struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	RollNumber     string    `json:"roll_number" bson:"roll_number"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email,omitempty" bson:"email,omitempty"`
	Phone          string    `json:"phone,omitempty" bson:"phone,omitempty"`
	ParentPhone    string    `json:"parent_phone,omitempty" bson:"parent_phone,omitempty"`
	ParentEmail    string    `json:"parent_email,omitempty" bson:"parent_email,omitempty"`
	ClassID        string    `json:"class_id" bson:"class_id"`
	IsActive       bool      `json:"is_active" bson:"is_active"`
	EnrollmentDate time.Time `json:"enrollment_date" bson:"enrollment_date"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// ContactPhone resolves the phone number alerts should target:
// the parent's number first, the student's own as fallback.
func (s Student) ContactPhone() string {
	if s.ParentPhone != "" {
		return s.ParentPhone
	}
	return s.Phone
}

// ContactEmail resolves the email address alerts should target:
// the parent's address first, the student's own as fallback.
func (s Student) ContactEmail() string {
	if s.ParentEmail != "" {
		return s.ParentEmail
	}
	return s.Email
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name         string `json:"name" validate:"required"`
	Code         string `json:"code" validate:"required,alphanum_"`
	Description  string `json:"description"`
	Section      string `json:"section"`
	AcademicYear string `json:"academic_year" validate:"required"`
	Semester     int    `json:"semester" validate:"omitempty,min=1"`
	Room         string `json:"room"`
}

func (nc *NewClass) Validate(svc *Service) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Code = core.CleanString(nc.Code)
	nc.Section = core.CleanString(nc.Section)

	if err := core.Validate.Struct(nc); err != nil {
		return err
	}
	return svc.checkCodeUniqueness(nc.Code)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Section     string `json:"section"`
	Room        string `json:"room"`
	IsActive    *bool  `json:"is_active"`
}

// NewStudent contains information needed to enroll a new Student.
type NewStudent struct {
	RollNumber  string `json:"roll_number" validate:"required,alphanum_"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	ParentPhone string `json:"parent_phone"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
}

func (ns *NewStudent) Validate(classID string, svc *Service) error {
	ns.RollNumber = core.CleanString(ns.RollNumber)
	ns.Name = core.CleanString(ns.Name)
	ns.Email = core.CleanString(ns.Email, true /* lower */)
	ns.Phone = core.CleanString(ns.Phone)
	ns.ParentPhone = core.CleanString(ns.ParentPhone)
	ns.ParentEmail = core.CleanString(ns.ParentEmail, true /* lower */)

	if err := core.Validate.Struct(ns); err != nil {
		return err
	}
	return svc.checkRollNumberUniqueness(classID, ns.RollNumber)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
type UpdateStudent struct {
	Name        string `json:"name"`
	Email       string `json:"email" validate:"omitempty,email"`
	Phone       string `json:"phone"`
	ParentPhone string `json:"parent_phone"`
	ParentEmail string `json:"parent_email" validate:"omitempty,email"`
	IsActive    *bool  `json:"is_active"`
}

func (us *UpdateStudent) Validate() error {
	us.Name = core.CleanString(us.Name)
	us.Email = core.CleanString(us.Email, true /* lower */)
	us.ParentEmail = core.CleanString(us.ParentEmail, true /* lower */)
	return core.Validate.Struct(us)
}
