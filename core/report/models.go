package report

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/school"
)

type Type string

const (
	TypeIndividual Type = "Individual"
	TypeClass      Type = "Class"
)

type ShareVia string

const (
	ShareEmail    ShareVia = "Email"
	ShareWhatsApp ShareVia = "WhatsApp"
	ShareSMS      ShareVia = "SMS"
)

type (
	// ClassInfo heads both report payloads.
	ClassInfo struct {
		ClassName   string `json:"class_name" bson:"class_name"`
		ClassCode   string `json:"class_code" bson:"class_code"`
		TeacherName string `json:"teacher_name" bson:"teacher_name"`
	}

	StudentDetails struct {
		Name       string `json:"name" bson:"name"`
		RollNumber string `json:"roll_number" bson:"roll_number"`
		Email      string `json:"email,omitempty" bson:"email,omitempty"`
	}

	// IndividualData is the payload of a single-student report.
	IndividualData struct {
		Statistics `bson:",inline"`
		Student    StudentDetails `json:"student_details" bson:"student_details"`
		Class      ClassInfo      `json:"class_info" bson:"class_info"`
	}

	// StudentStats is one class-report row.
	StudentStats struct {
		Statistics `bson:",inline"`
		Name       string `json:"name" bson:"name"`
		RollNumber string `json:"roll_number" bson:"roll_number"`
	}

	// ClassData is the payload of a class-wide report.
	ClassData struct {
		TotalStudents  int                     `json:"total_students" bson:"total_students"`
		StudentReports map[string]StudentStats `json:"student_reports" bson:"student_reports"`
		ClassAverage   float64                 `json:"class_average" bson:"class_average"`
		Class          ClassInfo               `json:"class_info" bson:"class_info"`
	}
)

// Report is a persisted snapshot. Immutable after creation except for the
// share metadata.
type Report struct {
	ID          string      `json:"id" bson:"_id,omitempty"`
	Title       string      `json:"title" bson:"title"`
	ClassID     string      `json:"class_id" bson:"class_id"`
	StudentID   string      `json:"student_id,omitempty" bson:"student_id,omitempty"`
	Type        Type        `json:"report_type" bson:"report_type"`
	StartDate   time.Time   `json:"start_date" bson:"start_date"`
	EndDate     time.Time   `json:"end_date" bson:"end_date"`
	Data        interface{} `json:"data" bson:"data"`
	GeneratedBy string      `json:"generated_by" bson:"generated_by"`
	Format      string      `json:"format" bson:"format"`
	IsShared    bool        `json:"is_shared" bson:"is_shared"`
	ShareVia    ShareVia    `json:"share_via,omitempty" bson:"share_via,omitempty"`
	SharedAt    *time.Time  `json:"shared_at,omitempty" bson:"shared_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt   time.Time   `json:"updated_at" bson:"updated_at"` // UTC
}

// GenerateReport contains the query parameters of a report request.
type GenerateReport struct {
	StartDate time.Time `json:"start_date" validate:"required"`
	EndDate   time.Time `json:"end_date" validate:"required"`
	Type      Type      `json:"report_type" validate:"required,oneof=Individual Class"`
	StudentID string    `json:"student_id" validate:"required_if=Type Individual"`
}

func (gr *GenerateReport) Validate() error {
	gr.StudentID = core.CleanString(gr.StudentID)
	return core.Validate.Struct(gr)
}

// ShareReport marks a report shared through a channel.
type ShareReport struct {
	ShareVia ShareVia `json:"share_via" validate:"required,oneof=Email WhatsApp SMS"`
}

func (sr ShareReport) Validate() error { return core.Validate.Struct(sr) }

// SortStudents orders a roster for report display: by roll number
// ascending, compared numerically when both roll numbers parse as
// numbers and lexicographically otherwise, with ties broken by name.
// The sort is stable so identical input reproduces identical output.
func SortStudents(students []school.Student) {
	sort.SliceStable(students, func(i, j int) bool {
		ri := strings.TrimSpace(students[i].RollNumber)
		rj := strings.TrimSpace(students[j].RollNumber)

		ni, iErr := strconv.ParseFloat(ri, 64)
		nj, jErr := strconv.ParseFloat(rj, 64)
		if iErr == nil && jErr == nil {
			if ni != nj {
				return ni < nj
			}
		} else if cmp := strings.Compare(ri, rj); cmp != 0 {
			return cmp < 0
		}
		return students[i].Name < students[j].Name
	})
}
