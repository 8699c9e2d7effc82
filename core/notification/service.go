package notification

import (
	"context"
	"fmt"
	"sync"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/report"
	"github.com/trezcool/mahudhurio/core/school"
)

// Channel is an alert delivery lane.
type Channel string

const (
	ChannelSMS      Channel = "SMS"
	ChannelWhatsApp Channel = "WhatsApp"
	ChannelEmail    Channel = "Email"
)

// Outcome statuses
const (
	StatusSent   = "sent"
	StatusFailed = "failed"
)

type (
	// Alert pairs a low-attendance student with the statistics that flagged them.
	Alert struct {
		Student school.Student    `json:"student"`
		Stats   report.Statistics `json:"stats"`
	}

	// Outcome is the per-student result of an alert batch. One student's
	// failure never aborts the batch.
	Outcome struct {
		StudentID   string  `json:"student_id"`
		StudentName string  `json:"student_name"`
		Target      string  `json:"target,omitempty"`
		Percentage  float64 `json:"percentage"`
		Status      string  `json:"status"`
		Reason      string  `json:"reason,omitempty"`
	}

	Service struct {
		schoolRepo school.Repository
		attRepo    attendance.Repository
		email      core.EmailService
		text       core.TextService
		logger     core.Logger
		// concurrency bounds parallel sends to respect provider rate limits.
		concurrency int
	}
)

func NewService(
	schoolRepo school.Repository,
	attRepo attendance.Repository,
	email core.EmailService,
	text core.TextService,
	logger core.Logger,
) *Service {
	concurrency := core.Conf.Notification.SendConcurrency
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		schoolRepo:  schoolRepo,
		attRepo:     attRepo,
		email:       email,
		text:        text,
		logger:      logger,
		concurrency: concurrency,
	}
}

// LowAttendance returns the students of a class whose attendance over the
// full history falls below threshold, with their statistics. Students with
// no attendance history at all are never flagged. A zero threshold selects
// the configured default. The optional id filter restricts the candidates.
func (svc *Service) LowAttendance(ctx context.Context, classID string, threshold float64, studentIDs []string) ([]Alert, error) {
	if _, err := svc.schoolRepo.GetClassByID(ctx, classID); err != nil {
		return nil, err
	}
	return svc.lowAttendance(ctx, classID, threshold, studentIDs)
}

func (svc *Service) lowAttendance(ctx context.Context, classID string, threshold float64, studentIDs []string) ([]Alert, error) {
	if threshold <= 0 {
		threshold = core.Conf.Notification.DefaultThreshold
	}

	students, err := svc.schoolRepo.QueryStudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	if len(studentIDs) > 0 {
		wanted := make(map[string]struct{}, len(studentIDs))
		for _, id := range studentIDs {
			wanted[id] = struct{}{}
		}
		filtered := students[:0]
		for _, s := range students {
			if _, ok := wanted[s.ID]; ok {
				filtered = append(filtered, s)
			}
		}
		students = filtered
	}
	report.SortStudents(students)

	atts, err := svc.attRepo.QueryAttendanceByClass(ctx, classID)
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, s := range students {
		stats := report.Aggregate(report.ExtractRecords(atts, s.ID))
		if stats.TotalDays > 0 && stats.AttendancePercentage < threshold {
			alerts = append(alerts, Alert{Student: s, Stats: stats})
		}
	}
	return alerts, nil
}

// SendAlerts delivers low-attendance alerts over one channel. Students are
// processed independently with bounded concurrency; the returned outcomes
// list one entry per flagged student, sent or failed with a reason.
func (svc *Service) SendAlerts(ctx context.Context, classID string, channel Channel, threshold float64, studentIDs []string) ([]Outcome, error) {
	class, err := svc.schoolRepo.GetClassByID(ctx, classID)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 {
		threshold = core.Conf.Notification.DefaultThreshold
	}

	alerts, err := svc.lowAttendance(ctx, classID, threshold, studentIDs)
	if err != nil {
		return nil, err
	}

	outcomes := make([]Outcome, len(alerts))
	sem := make(chan struct{}, svc.concurrency)
	var wg sync.WaitGroup
	for i, alert := range alerts {
		wg.Add(1)
		go func(i int, alert Alert) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			outcomes[i] = svc.sendAlert(class, channel, threshold, alert)
		}(i, alert)
	}
	wg.Wait()

	return outcomes, nil
}

func (svc *Service) sendAlert(class school.Class, channel Channel, threshold float64, alert Alert) Outcome {
	out := Outcome{
		StudentID:   alert.Student.ID,
		StudentName: alert.Student.Name,
		Percentage:  alert.Stats.AttendancePercentage,
	}

	var err error
	switch channel {
	case ChannelEmail:
		target := alert.Student.ContactEmail()
		if target == "" {
			return failed(out, "no email available")
		}
		out.Target = target
		err = svc.email.Send(emailAlert(target, class, alert, threshold))
	case ChannelSMS:
		target := alert.Student.ContactPhone()
		if target == "" {
			return failed(out, "no phone number available")
		}
		out.Target = FormatPhone(target)
		err = svc.text.Send(core.TextMessage{
			To:      out.Target,
			Body:    smsAlert(alert, threshold),
			Channel: core.ChannelSMS,
		})
	case ChannelWhatsApp:
		target := alert.Student.ContactPhone()
		if target == "" {
			return failed(out, "no phone number available")
		}
		out.Target = FormatPhone(target)
		err = svc.text.Send(core.TextMessage{
			To:      out.Target,
			Body:    whatsAppAlert(class, alert, threshold),
			Channel: core.ChannelWhatsApp,
		})
	default:
		return failed(out, fmt.Sprintf("unknown channel %q", channel))
	}

	if err != nil {
		svc.logger.Error(fmt.Sprintf("sending %s alert to %s: %v", channel, out.Target, err), err)
		return failed(out, err.Error())
	}
	out.Status = StatusSent
	return out
}

func failed(out Outcome, reason string) Outcome {
	out.Status = StatusFailed
	out.Reason = reason
	return out
}
