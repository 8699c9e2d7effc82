package attendance

import "github.com/trezcool/mahudhurio/core/school"

// ReconcileRecords aligns a day's record list with the current roster.
// Roster students without a record are appended with a default Present
// record; records whose student left the roster are pruned. Records of
// students already tracked keep their status untouched, which makes the
// operation idempotent. The reported flag is true when anything changed.
func ReconcileRecords(records []Record, roster []school.Student) ([]Record, bool) {
	tracked := make(map[string]struct{}, len(records))
	for _, rec := range records {
		tracked[rec.StudentID] = struct{}{}
	}

	enrolled := make(map[string]struct{}, len(roster))
	for _, s := range roster {
		enrolled[s.ID] = struct{}{}
	}

	synced := make([]Record, 0, len(roster))
	for _, rec := range records {
		if _, ok := enrolled[rec.StudentID]; ok {
			synced = append(synced, rec)
		}
	}
	pruned := len(synced) != len(records)

	var appended bool
	for _, s := range roster {
		if _, ok := tracked[s.ID]; !ok {
			synced = append(synced, Record{StudentID: s.ID, Status: StatusPresent, Remarks: ""})
			appended = true
		}
	}

	return synced, pruned || appended
}

// pruneRecords drops records whose student left the roster without
// appending newcomers; used for the read-only view of locked days.
func pruneRecords(records []Record, roster []school.Student) []Record {
	enrolled := make(map[string]struct{}, len(roster))
	for _, s := range roster {
		enrolled[s.ID] = struct{}{}
	}
	kept := make([]Record, 0, len(records))
	for _, rec := range records {
		if _, ok := enrolled[rec.StudentID]; ok {
			kept = append(kept, rec)
		}
	}
	return kept
}
