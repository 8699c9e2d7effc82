package notification_test

import (
	"context"
	"io/ioutil"
	"log"
	"testing"
	"time"

	"github.com/trezcool/mahudhurio/core/attendance"
	"github.com/trezcool/mahudhurio/core/notification"
	"github.com/trezcool/mahudhurio/core/school"
	emailsvc "github.com/trezcool/mahudhurio/services/email"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	textsvc "github.com/trezcool/mahudhurio/services/text"
	dummydb "github.com/trezcool/mahudhurio/storage/database/dummy"
)

type testEnv struct {
	svc        *notification.Service
	email      *emailsvc.DummyService
	text       *textsvc.DummyService
	schoolRepo school.Repository
	attRepo    attendance.Repository
	class      school.Class
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	schoolRepo := dummydb.NewSchoolRepository(db)
	attRepo := dummydb.NewAttendanceRepository(db)

	class, err := schoolRepo.CreateClass(context.Background(), school.Class{Name: "Hisabati", Code: "MATH101", TeacherID: "t1", IsActive: true})
	if err != nil {
		t.Fatalf("CreateClass() failed, %v", err)
	}

	email := emailsvc.NewDummyService()
	text := textsvc.NewDummyService()
	logger := logsvc.NewDummyLogger(log.New(ioutil.Discard, "", 0))

	return &testEnv{
		svc:        notification.NewService(schoolRepo, attRepo, email, text, logger),
		email:      email,
		text:       text,
		schoolRepo: schoolRepo,
		attRepo:    attRepo,
		class:      class,
	}
}

func (env *testEnv) enroll(t *testing.T, s school.Student) school.Student {
	t.Helper()
	s.ClassID = env.class.ID
	s.IsActive = true
	s, err := env.schoolRepo.CreateStudent(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateStudent() failed, %v", err)
	}
	return s
}

// attend stores one sheet per day; statuses[i][j] is student j's status on day i.
func (env *testEnv) attend(t *testing.T, students []school.Student, statuses [][]attendance.Status) {
	t.Helper()
	for d, dayStatuses := range statuses {
		records := make([]attendance.Record, 0, len(dayStatuses))
		for j, status := range dayStatuses {
			if status == "" {
				continue // untracked that day
			}
			records = append(records, attendance.Record{StudentID: students[j].ID, Status: status})
		}
		date := time.Date(2021, time.June, d+1, 0, 0, 0, 0, time.UTC)
		now := time.Now().UTC()
		_, err := env.attRepo.UpsertAttendance(context.Background(), attendance.Attendance{
			ClassID: env.class.ID, Date: date, Records: records, TeacherID: "t1", CreatedAt: now, UpdatedAt: now,
		})
		if err != nil {
			t.Fatalf("UpsertAttendance() failed, %v", err)
		}
	}
}

func TestService_LowAttendance(t *testing.T) {
	env := setup(t)
	low := env.enroll(t, school.Student{RollNumber: "1", Name: "Amina"})
	high := env.enroll(t, school.Student{RollNumber: "2", Name: "Bahati"})
	untracked := env.enroll(t, school.Student{RollNumber: "3", Name: "Chiku"})

	env.attend(t, []school.Student{low, high, untracked}, [][]attendance.Status{
		{attendance.StatusAbsent, attendance.StatusPresent, ""},
		{attendance.StatusPresent, attendance.StatusPresent, ""},
	})

	alerts, err := env.svc.LowAttendance(context.Background(), env.class.ID, 75, nil)
	if err != nil {
		t.Fatalf("LowAttendance() failed, %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("LowAttendance() flagged %d students, want 1: %+v", len(alerts), alerts)
	}
	if alerts[0].Student.ID != low.ID {
		t.Errorf("flagged %s, want %s", alerts[0].Student.ID, low.ID)
	}
	if alerts[0].Stats.AttendancePercentage != 50 {
		t.Errorf("percentage = %v, want 50", alerts[0].Stats.AttendancePercentage)
	}

	// a student with no history is never flagged, even against threshold 100
	alerts, err = env.svc.LowAttendance(context.Background(), env.class.ID, 100, []string{untracked.ID})
	if err != nil {
		t.Fatalf("LowAttendance() failed, %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("LowAttendance() flagged untracked student: %+v", alerts)
	}

	// zero threshold falls back to the configured default (75)
	alerts, err = env.svc.LowAttendance(context.Background(), env.class.ID, 0, nil)
	if err != nil {
		t.Fatalf("LowAttendance() failed, %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("LowAttendance() with default threshold flagged %d, want 1", len(alerts))
	}

	if _, err = env.svc.LowAttendance(context.Background(), "nope", 75, nil); err != school.ErrClassNotFound {
		t.Errorf("LowAttendance() error = %v, want ErrClassNotFound", err)
	}
}

func TestService_SendAlerts_email(t *testing.T) {
	env := setup(t)
	withParent := env.enroll(t, school.Student{RollNumber: "1", Name: "Amina", Email: "amina@test.cd", ParentEmail: "mzazi@test.cd"})
	noEmail := env.enroll(t, school.Student{RollNumber: "2", Name: "Bahati", Phone: "9876543210"})
	failing := env.enroll(t, school.Student{RollNumber: "3", Name: "Chiku", Email: "chiku@test.cd"})

	env.attend(t, []school.Student{withParent, noEmail, failing}, [][]attendance.Status{
		{attendance.StatusAbsent, attendance.StatusAbsent, attendance.StatusAbsent},
		{attendance.StatusAbsent, attendance.StatusAbsent, attendance.StatusAbsent},
	})
	env.email.FailFor["chiku@test.cd"] = true

	outcomes, err := env.svc.SendAlerts(context.Background(), env.class.ID, notification.ChannelEmail, 75, nil)
	if err != nil {
		t.Fatalf("SendAlerts() failed, %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("SendAlerts() returned %d outcomes, want 3", len(outcomes))
	}

	byID := make(map[string]notification.Outcome, len(outcomes))
	for _, out := range outcomes {
		byID[out.StudentID] = out
	}

	if out := byID[withParent.ID]; out.Status != notification.StatusSent || out.Target != "mzazi@test.cd" {
		t.Errorf("parent email outcome = %+v", out)
	}
	if out := byID[noEmail.ID]; out.Status != notification.StatusFailed || out.Reason != "no email available" {
		t.Errorf("missing email outcome = %+v", out)
	}
	if out := byID[failing.ID]; out.Status != notification.StatusFailed || out.Reason == "" {
		t.Errorf("failed send outcome = %+v", out)
	}

	// one failure never aborts the batch
	if len(env.email.Messages) != 1 {
		t.Errorf("delivered %d emails, want 1", len(env.email.Messages))
	}
}

func TestService_SendAlerts_sms(t *testing.T) {
	env := setup(t)
	s := env.enroll(t, school.Student{RollNumber: "1", Name: "Amina", Phone: "9876543210", ParentPhone: "8123456789"})
	env.attend(t, []school.Student{s}, [][]attendance.Status{{attendance.StatusAbsent}})

	outcomes, err := env.svc.SendAlerts(context.Background(), env.class.ID, notification.ChannelSMS, 75, nil)
	if err != nil {
		t.Fatalf("SendAlerts() failed, %v", err)
	}
	if len(outcomes) != 1 {
		t.Fatalf("SendAlerts() returned %d outcomes, want 1", len(outcomes))
	}
	if outcomes[0].Status != notification.StatusSent {
		t.Errorf("outcome = %+v", outcomes[0])
	}
	// parent's number, normalized
	if outcomes[0].Target != "+918123456789" {
		t.Errorf("target = %q, want +918123456789", outcomes[0].Target)
	}
	if len(env.text.Messages) != 1 {
		t.Fatalf("delivered %d texts, want 1", len(env.text.Messages))
	}
	if env.text.Messages[0].Channel != "SMS" {
		t.Errorf("channel = %q", env.text.Messages[0].Channel)
	}
}

func TestService_SendAlerts_whatsApp(t *testing.T) {
	env := setup(t)
	s := env.enroll(t, school.Student{RollNumber: "1", Name: "Amina", Phone: "9876543210"})
	env.attend(t, []school.Student{s}, [][]attendance.Status{{attendance.StatusAbsent}})

	outcomes, err := env.svc.SendAlerts(context.Background(), env.class.ID, notification.ChannelWhatsApp, 75, nil)
	if err != nil {
		t.Fatalf("SendAlerts() failed, %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Status != notification.StatusSent {
		t.Fatalf("outcomes = %+v", outcomes)
	}
	if env.text.Messages[0].Channel != "WhatsApp" {
		t.Errorf("channel = %q", env.text.Messages[0].Channel)
	}
}

func TestService_SendAlerts_unknownChannel(t *testing.T) {
	env := setup(t)
	s := env.enroll(t, school.Student{RollNumber: "1", Name: "Amina"})
	env.attend(t, []school.Student{s}, [][]attendance.Status{{attendance.StatusAbsent}})

	outcomes, err := env.svc.SendAlerts(context.Background(), env.class.ID, "Pigeon", 75, nil)
	if err != nil {
		t.Fatalf("SendAlerts() failed, %v", err)
	}
	if len(outcomes) != 1 || outcomes[0].Status != notification.StatusFailed {
		t.Errorf("outcomes = %+v", outcomes)
	}
}
