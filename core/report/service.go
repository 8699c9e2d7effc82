package report

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/school"
	"github.com/trezcool/mahudhurio/core/teacher"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("report not found")
	ErrNoData   = core.NewNoDataError("no attendance records found for the given date range")
)

type (
	Repository interface {
		CreateReport(ctx context.Context, rpt Report) (Report, error)
		GetReportByID(ctx context.Context, id string) (Report, error)
		// QueryReportsByStudent returns a student's reports, newest first.
		QueryReportsByStudent(ctx context.Context, studentID string) ([]Report, error)
		// QueryReportsByClass returns a class's class-wide reports, newest first.
		QueryReportsByClass(ctx context.Context, classID string) ([]Report, error)
		// UpdateReport persists share metadata only; the payload is immutable.
		UpdateReport(ctx context.Context, rpt Report) (Report, error)
		DeleteReportsByID(ctx context.Context, ids ...string) error
	}

	Service struct {
		repo       Repository
		attRepo    attendance.Repository
		schoolRepo school.Repository
	}
)

func NewService(repo Repository, attRepo attendance.Repository, schoolRepo school.Repository) *Service {
	return &Service{repo: repo, attRepo: attRepo, schoolRepo: schoolRepo}
}

// Generate builds and persists a report snapshot over a date range.
// Fails with ErrNoData when no attendance was taken at all in the range,
// for both modes.
func (svc *Service) Generate(ctx context.Context, classID string, generatedBy teacher.Teacher, gr GenerateReport) (Report, error) {
	if err := gr.Validate(); err != nil {
		return Report{}, err
	}
	start, _ := attendance.DayBounds(gr.StartDate)
	_, end := attendance.DayBounds(gr.EndDate)

	class, err := svc.schoolRepo.GetClassByID(ctx, classID)
	if err != nil {
		return Report{}, err
	}

	atts, err := svc.attRepo.QueryAttendanceRange(ctx, classID, start, end)
	if err != nil {
		return Report{}, err
	}
	if len(atts) == 0 {
		return Report{}, ErrNoData
	}

	info := ClassInfo{
		ClassName:   class.Name,
		ClassCode:   class.Code,
		TeacherName: generatedBy.Name,
	}

	var data interface{}
	if gr.Type == TypeIndividual {
		if data, err = svc.individualData(ctx, atts, gr.StudentID, info); err != nil {
			return Report{}, err
		}
	} else {
		if data, err = svc.classData(ctx, atts, classID, info); err != nil {
			return Report{}, err
		}
	}

	now := time.Now().UTC()
	rpt := Report{
		Title:       fmt.Sprintf("%s Attendance Report", gr.Type),
		ClassID:     classID,
		Type:        gr.Type,
		StartDate:   start,
		EndDate:     end,
		Data:        data,
		GeneratedBy: generatedBy.ID,
		Format:      "JSON",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if gr.Type == TypeIndividual {
		rpt.StudentID = gr.StudentID
	}
	return svc.repo.CreateReport(ctx, rpt)
}

func (svc *Service) individualData(ctx context.Context, atts []attendance.Attendance, studentID string, info ClassInfo) (IndividualData, error) {
	student, err := svc.schoolRepo.GetStudentByID(ctx, studentID)
	if err != nil {
		return IndividualData{}, err
	}
	return IndividualData{
		Statistics: Aggregate(ExtractRecords(atts, student.ID)),
		Student: StudentDetails{
			Name:       student.Name,
			RollNumber: student.RollNumber,
			Email:      student.Email,
		},
		Class: info,
	}, nil
}

func (svc *Service) classData(ctx context.Context, atts []attendance.Attendance, classID string, info ClassInfo) (ClassData, error) {
	students, err := svc.schoolRepo.QueryStudentsByClass(ctx, classID)
	if err != nil {
		return ClassData{}, err
	}
	SortStudents(students)

	reports := make(map[string]StudentStats, len(students))
	var sum float64
	for _, s := range students {
		stats := Aggregate(ExtractRecords(atts, s.ID))
		reports[s.ID] = StudentStats{
			Statistics: stats,
			Name:       s.Name,
			RollNumber: s.RollNumber,
		}
		sum += stats.AttendancePercentage
	}

	var average float64
	if len(students) > 0 {
		average = core.Round2(sum / float64(len(students)))
	}
	return ClassData{
		TotalStudents:  len(students),
		StudentReports: reports,
		ClassAverage:   average,
		Class:          info,
	}, nil
}

func (svc *Service) Get(ctx context.Context, id string) (Report, error) {
	return svc.repo.GetReportByID(ctx, id)
}

func (svc *Service) ForStudent(ctx context.Context, studentID string) ([]Report, error) {
	return svc.repo.QueryReportsByStudent(ctx, studentID)
}

func (svc *Service) ForClass(ctx context.Context, classID string) ([]Report, error) {
	return svc.repo.QueryReportsByClass(ctx, classID)
}

// Share flags a report as shared through a channel. Delivery is handled
// by the presentation collaborators; only the metadata lives here.
func (svc *Service) Share(ctx context.Context, id string, sr ShareReport) (Report, error) {
	if err := sr.Validate(); err != nil {
		return Report{}, err
	}
	rpt, err := svc.repo.GetReportByID(ctx, id)
	if err != nil {
		return Report{}, err
	}
	now := time.Now().UTC()
	rpt.IsShared = true
	rpt.ShareVia = sr.ShareVia
	rpt.SharedAt = &now
	rpt.UpdatedAt = now
	return svc.repo.UpdateReport(ctx, rpt)
}

func (svc *Service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteReportsByID(ctx, ids...)
}
