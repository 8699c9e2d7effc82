package attendance

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/school"
)

var (
	// errors
	ErrNotFound = core.NewNotFoundError("attendance not found")
	ErrLocked   = core.NewLockedError("attendance is locked and cannot be modified")

	errDateRequired  = core.NewValidationError(errors.New("date is required"))
	errRangeRequired = core.NewValidationError(errors.New("start and end dates are required"))
)

type (
	Repository interface {
		// GetAttendance returns the document for (classID, day of date); ErrNotFound when absent.
		GetAttendance(ctx context.Context, classID string, date time.Time) (Attendance, error)
		// UpsertAttendance atomically creates or updates the single document
		// for the (class, date) pair, serializing concurrent writers on that
		// key. ErrLocked once the day is locked, however stale the caller's
		// read; the lock flag itself is only ever set through SetLocked.
		UpsertAttendance(ctx context.Context, att Attendance) (Attendance, error)
		// QueryAttendanceRange returns documents within [start, end] sorted by date ascending.
		QueryAttendanceRange(ctx context.Context, classID string, start, end time.Time) ([]Attendance, error)
		// QueryAttendanceByClass returns the full history sorted by date ascending.
		QueryAttendanceByClass(ctx context.Context, classID string) ([]Attendance, error)
		// SetLocked flips the one-way lock flag; ErrNotFound when no document exists.
		SetLocked(ctx context.Context, classID string, date time.Time) (Attendance, error)
	}

	Service struct {
		repo   Repository
		roster school.Repository
	}
)

func NewService(repo Repository, roster school.Repository) *Service {
	return &Service{repo: repo, roster: roster}
}

// Get returns the attendance sheet for a day, reconciled against the
// current roster. A missing sheet is created lazily with every enrolled
// student defaulted to Present; an empty roster yields an empty record
// list. Roster-driven changes are persisted unless the day is locked, in
// which case removed students are only hidden from the returned view.
func (svc *Service) Get(ctx context.Context, classID, teacherID string, date time.Time) (Attendance, error) {
	if date.IsZero() {
		return Attendance{}, errDateRequired
	}
	day, _ := DayBounds(date)

	roster, err := svc.roster.QueryStudentsByClass(ctx, classID)
	if err != nil {
		return Attendance{}, err
	}

	att, err := svc.repo.GetAttendance(ctx, classID, day)
	if err != nil {
		if err != ErrNotFound {
			return Attendance{}, err
		}
		records := make([]Record, 0, len(roster))
		for _, s := range roster {
			records = append(records, Record{StudentID: s.ID, Status: StatusPresent, Remarks: ""})
		}
		now := time.Now().UTC()
		att = Attendance{
			ClassID:   classID,
			Date:      day,
			Records:   records,
			TeacherID: teacherID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if att, err = svc.repo.UpsertAttendance(ctx, att); err != nil {
			return Attendance{}, err
		}
		return populate(att, roster), nil
	}

	if att.IsLocked {
		// read-time-only pruning; the locked document itself stays untouched
		att.Records = pruneRecords(att.Records, roster)
		return populate(att, roster), nil
	}

	if synced, changed := ReconcileRecords(att.Records, roster); changed {
		att.Records = synced
		att.UpdatedAt = time.Now().UTC()
		if att, err = svc.repo.UpsertAttendance(ctx, att); err != nil {
			return Attendance{}, err
		}
	}
	return populate(att, roster), nil
}

// Save replaces a day's record list. Records referencing students no
// longer in the roster are dropped. Fails with ErrLocked once the day is
// finalized, leaving the stored list untouched.
func (svc *Service) Save(ctx context.Context, classID, teacherID string, sr SaveRecords) (Attendance, error) {
	if err := sr.Validate(); err != nil {
		return Attendance{}, err
	}
	day, _ := DayBounds(sr.Date)

	roster, err := svc.roster.QueryStudentsByClass(ctx, classID)
	if err != nil {
		return Attendance{}, err
	}
	enrolled := make(map[string]struct{}, len(roster))
	for _, s := range roster {
		enrolled[s.ID] = struct{}{}
	}

	records := make([]Record, 0, len(sr.Records))
	for _, in := range sr.Records {
		if _, ok := enrolled[in.StudentID]; !ok {
			continue
		}
		records = append(records, Record{StudentID: in.StudentID, Status: in.Status, Remarks: in.Remarks})
	}

	now := time.Now().UTC()
	att, err := svc.repo.GetAttendance(ctx, classID, day)
	if err != nil {
		if err != ErrNotFound {
			return Attendance{}, err
		}
		att = Attendance{
			ClassID:   classID,
			Date:      day,
			TeacherID: teacherID,
			CreatedAt: now,
		}
	} else if att.IsLocked {
		return Attendance{}, ErrLocked
	}
	att.Records = records
	att.UpdatedAt = now

	if att, err = svc.repo.UpsertAttendance(ctx, att); err != nil {
		return Attendance{}, err
	}
	return populate(att, roster), nil
}

// History returns all sheets within the date range, oldest first, with
// student details resolved where the reference still exists.
func (svc *Service) History(ctx context.Context, classID string, startDate, endDate time.Time) ([]Attendance, error) {
	if startDate.IsZero() || endDate.IsZero() {
		return nil, errRangeRequired
	}
	start, _ := DayBounds(startDate)
	_, end := DayBounds(endDate)

	atts, err := svc.repo.QueryAttendanceRange(ctx, classID, start, end)
	if err != nil {
		return nil, err
	}
	roster, err := svc.roster.QueryStudentsByClass(ctx, classID)
	if err != nil {
		return nil, err
	}
	for i := range atts {
		atts[i] = populate(atts[i], roster)
	}
	return atts, nil
}

// Lock finalizes a day's sheet. The transition is one-way; there is no
// unlock operation.
func (svc *Service) Lock(ctx context.Context, classID string, date time.Time) (Attendance, error) {
	if date.IsZero() {
		return Attendance{}, errDateRequired
	}
	day, _ := DayBounds(date)

	att, err := svc.repo.SetLocked(ctx, classID, day)
	if err != nil {
		return Attendance{}, err
	}
	roster, err := svc.roster.QueryStudentsByClass(ctx, classID)
	if err != nil {
		return Attendance{}, err
	}
	return populate(att, roster), nil
}

// populate resolves student details on records; unresolved references keep a nil Student.
func populate(att Attendance, roster []school.Student) Attendance {
	byID := make(map[string]school.Student, len(roster))
	for _, s := range roster {
		byID[s.ID] = s
	}
	for i, rec := range att.Records {
		if s, ok := byID[rec.StudentID]; ok {
			s := s
			att.Records[i].Student = &s
		}
	}
	return att
}
