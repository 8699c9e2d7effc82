package dummydb

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

// key identifies the one document per (class, day).
func key(classID string, date time.Time) string {
	day, _ := attendance.DayBounds(date)
	return classID + "|" + day.Format("2006-01-02")
}

func cloneAttendance(att *attendance.Attendance) attendance.Attendance {
	out := *att
	out.Records = make([]attendance.Record, len(att.Records))
	copy(out.Records, att.Records)
	return out
}

func (repo *attendanceRepository) GetAttendance(_ context.Context, classID string, date time.Time) (attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if att, ok := repo.db.table[key(classID, date)]; ok {
		return cloneAttendance(att), nil
	}
	return attendance.Attendance{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) UpsertAttendance(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	k := key(att.ClassID, att.Date)
	if orig, ok := repo.db.table[k]; ok {
		if orig.IsLocked {
			// only SetLocked touches the flag; writers that read before the
			// lock landed must not get through
			return attendance.Attendance{}, attendance.ErrLocked
		}
		// (class, date) is unique: update the existing document instead
		att.ID = orig.ID
		att.CreatedAt = orig.CreatedAt
	} else {
		att.ID = uuid.New().String()
	}
	stored := cloneAttendance(&att)
	repo.db.table[k] = &stored
	return att, nil
}

func (repo *attendanceRepository) QueryAttendanceRange(_ context.Context, classID string, start, end time.Time) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	atts := make([]attendance.Attendance, 0)
	for _, att := range repo.db.table {
		if att.ClassID != classID {
			continue
		}
		if att.Date.Before(start) || att.Date.After(end) {
			continue
		}
		atts = append(atts, cloneAttendance(att))
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].Date.Before(atts[j].Date) })
	return atts, nil
}

func (repo *attendanceRepository) QueryAttendanceByClass(_ context.Context, classID string) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	atts := make([]attendance.Attendance, 0)
	for _, att := range repo.db.table {
		if att.ClassID == classID {
			atts = append(atts, cloneAttendance(att))
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].Date.Before(atts[j].Date) })
	return atts, nil
}

func (repo *attendanceRepository) SetLocked(_ context.Context, classID string, date time.Time) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	att, ok := repo.db.table[key(classID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	att.IsLocked = true
	att.UpdatedAt = time.Now().UTC()
	return cloneAttendance(att), nil
}
