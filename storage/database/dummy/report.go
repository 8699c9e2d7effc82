package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/report"
)

type reportRepository struct {
	db *reportTable
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) report.Repository {
	return &reportRepository{db: db.report}
}

func (repo *reportRepository) CreateReport(_ context.Context, rpt report.Report) (report.Report, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	rpt.ID = uuid.New().String()
	repo.db.table[rpt.ID] = &rpt
	return rpt, nil
}

func (repo *reportRepository) GetReportByID(_ context.Context, id string) (report.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if rpt, ok := repo.db.table[id]; ok {
		return *rpt, nil
	}
	return report.Report{}, report.ErrNotFound
}

func (repo *reportRepository) QueryReportsByStudent(_ context.Context, studentID string) ([]report.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reports := make([]report.Report, 0)
	for _, rpt := range repo.db.table {
		if rpt.StudentID == studentID {
			reports = append(reports, *rpt)
		}
	}
	sortNewestFirst(reports)
	return reports, nil
}

func (repo *reportRepository) QueryReportsByClass(_ context.Context, classID string) ([]report.Report, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reports := make([]report.Report, 0)
	for _, rpt := range repo.db.table {
		if rpt.ClassID == classID && rpt.Type == report.TypeClass {
			reports = append(reports, *rpt)
		}
	}
	sortNewestFirst(reports)
	return reports, nil
}

func (repo *reportRepository) UpdateReport(_ context.Context, rpt report.Report) (report.Report, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[rpt.ID]
	if !ok {
		return report.Report{}, report.ErrNotFound
	}
	// only the share metadata is mutable
	orig.IsShared = rpt.IsShared
	orig.ShareVia = rpt.ShareVia
	orig.SharedAt = rpt.SharedAt
	orig.UpdatedAt = rpt.UpdatedAt

	repo.db.table[rpt.ID] = orig
	return *orig, nil
}

func (repo *reportRepository) DeleteReportsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}

func sortNewestFirst(reports []report.Report) {
	sort.Slice(reports, func(i, j int) bool { return reports[i].CreatedAt.After(reports[j].CreatedAt) })
}
