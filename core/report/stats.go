package report

import (
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/attendance"
)

// Statistics is one student's aggregate over a sequence of days.
// Late counts as attended for the percentage but keeps its own bucket;
// that weighting is a domain rule, not a display choice.
type Statistics struct {
	TotalDays            int     `json:"total_days" bson:"total_days"`
	PresentDays          int     `json:"present_days" bson:"present_days"`
	AbsentDays           int     `json:"absent_days" bson:"absent_days"`
	LateDays             int     `json:"late_days" bson:"late_days"`
	LeaveDays            int     `json:"leave_days" bson:"leave_days"`
	AttendancePercentage float64 `json:"attendance_percentage" bson:"attendance_percentage"`
}

// Aggregate computes Statistics from per-date records. A nil entry is a
// day the student has no record at all (e.g. joined later) and does not
// count toward TotalDays. Records with an unrecognized status count
// toward TotalDays but land in no bucket.
func Aggregate(records []*attendance.Record) Statistics {
	var stats Statistics
	for _, rec := range records {
		if rec == nil {
			continue
		}
		stats.TotalDays++
		switch rec.Status {
		case attendance.StatusPresent:
			stats.PresentDays++
		case attendance.StatusAbsent:
			stats.AbsentDays++
		case attendance.StatusLate:
			stats.LateDays++
		case attendance.StatusLeave:
			stats.LeaveDays++
		}
	}
	if stats.TotalDays > 0 {
		attended := float64(stats.PresentDays + stats.LateDays)
		stats.AttendancePercentage = core.Round2(attended / float64(stats.TotalDays) * 100)
	}
	return stats
}

// ExtractRecords returns one entry per attendance sheet for the given
// student, in sheet order; nil where the student is untracked that day.
func ExtractRecords(atts []attendance.Attendance, studentID string) []*attendance.Record {
	records := make([]*attendance.Record, 0, len(atts))
	for i := range atts {
		var match *attendance.Record
		for j := range atts[i].Records {
			if atts[i].Records[j].StudentID == studentID {
				match = &atts[i].Records[j]
				break
			}
		}
		records = append(records, match)
	}
	return records
}
