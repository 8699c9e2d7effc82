package attendance

import (
	"time"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/school"
)

// Status of a student on a given day.
type Status string

const (
	StatusPresent Status = "Present"
	StatusAbsent  Status = "Absent"
	StatusLate    Status = "Late"
	StatusLeave   Status = "Leave"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusLeave:
		return true
	}
	return false
}

// Record tracks one student's status on one day.
type Record struct {
	StudentID string `json:"student_id" bson:"student_id"`
	Status    Status `json:"status" bson:"status"`
	Remarks   string `json:"remarks,omitempty" bson:"remarks,omitempty"`

	// Student carries resolved details; nil when the reference no longer resolves.
	Student *school.Student `json:"student,omitempty" bson:"-"`
}

// Attendance is the sheet for one class on one calendar day.
// Exactly one document exists per (class, date) pair; Date is the
// start-of-day instant in UTC.
type Attendance struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	ClassID   string    `json:"class_id" bson:"class_id"`
	Date      time.Time `json:"date" bson:"date"`
	Records   []Record  `json:"records" bson:"records"`
	TeacherID string    `json:"teacher_id" bson:"teacher_id"`
	IsLocked  bool      `json:"is_locked" bson:"is_locked"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"` // UTC
}

// DayBounds normalizes t to its calendar day in UTC: start 00:00:00.000
// (the stored instant) and end 23:59:59.999 for range queries.
func DayBounds(t time.Time) (start, end time.Time) {
	t = t.UTC()
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	end = start.Add(24*time.Hour - time.Millisecond)
	return start, end
}

// RecordInput is one record in a save request.
type RecordInput struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    Status `json:"status" validate:"required,oneof=Present Absent Late Leave"`
	Remarks   string `json:"remarks"`
}

// SaveRecords contains a full replacement record list for one day.
type SaveRecords struct {
	Date    time.Time     `json:"date" validate:"required"`
	Records []RecordInput `json:"records" validate:"required,dive"`
}

func (sr *SaveRecords) Validate() error {
	for i := range sr.Records {
		sr.Records[i].Remarks = core.CleanString(sr.Records[i].Remarks)
	}
	return core.Validate.Struct(sr)
}
