package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/mahudhurio/core/report"
)

type reportRepository struct {
	coll *mongo.Collection
}

var _ report.Repository = (*reportRepository)(nil) // interface compliance check

func NewReportRepository(db *DB) report.Repository {
	return &reportRepository{coll: db.collection(reportCollection)}
}

func (repo *reportRepository) CreateReport(ctx context.Context, rpt report.Report) (report.Report, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rpt.ID = uuid.New().String()
	if _, err := repo.coll.InsertOne(ctx, rpt); err != nil {
		return report.Report{}, errors.Wrap(err, "reportRepository.CreateReport")
	}
	return rpt, nil
}

func (repo *reportRepository) GetReportByID(ctx context.Context, id string) (report.Report, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rpt report.Report
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&rpt); err != nil {
		if err == mongo.ErrNoDocuments {
			return report.Report{}, report.ErrNotFound
		}
		return report.Report{}, errors.Wrap(err, "reportRepository.GetReportByID")
	}
	return rpt, nil
}

func (repo *reportRepository) QueryReportsByStudent(ctx context.Context, studentID string) ([]report.Report, error) {
	return repo.queryReports(ctx, bson.M{"student_id": studentID})
}

func (repo *reportRepository) QueryReportsByClass(ctx context.Context, classID string) ([]report.Report, error) {
	return repo.queryReports(ctx, bson.M{"class_id": classID, "report_type": report.TypeClass})
}

func (repo *reportRepository) queryReports(ctx context.Context, filter bson.M) ([]report.Report, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}) // newest first
	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "reportRepository.queryReports")
	}
	reports := make([]report.Report, 0)
	if err = cur.All(ctx, &reports); err != nil {
		return nil, errors.Wrap(err, "reportRepository.queryReports")
	}
	return reports, nil
}

func (repo *reportRepository) UpdateReport(ctx context.Context, rpt report.Report) (report.Report, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	// only the share metadata is mutable
	set := bson.M{
		"is_shared":  rpt.IsShared,
		"share_via":  rpt.ShareVia,
		"shared_at":  rpt.SharedAt,
		"updated_at": rpt.UpdatedAt,
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated report.Report
	if err := repo.coll.FindOneAndUpdate(ctx, bson.M{"_id": rpt.ID}, bson.M{"$set": set}, opts).Decode(&updated); err != nil {
		if err == mongo.ErrNoDocuments {
			return report.Report{}, report.ErrNotFound
		}
		return report.Report{}, errors.Wrap(err, "reportRepository.UpdateReport")
	}
	return updated, nil
}

func (repo *reportRepository) DeleteReportsByID(ctx context.Context, ids ...string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := repo.coll.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return errors.Wrap(err, "reportRepository.DeleteReportsByID")
	}
	return nil
}
