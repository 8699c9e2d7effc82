package mongodb

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/mahudhurio/core/attendance"
)

type attendanceRepository struct {
	coll *mongo.Collection
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{coll: db.collection(attendanceCollection)}
}

func dayFilter(classID string, date time.Time) bson.M {
	day, _ := attendance.DayBounds(date)
	return bson.M{"class_id": classID, "date": day}
}

func (repo *attendanceRepository) GetAttendance(ctx context.Context, classID string, date time.Time) (attendance.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var att attendance.Attendance
	if err := repo.coll.FindOne(ctx, dayFilter(classID, date)).Decode(&att); err != nil {
		if err == mongo.ErrNoDocuments {
			return attendance.Attendance{}, attendance.ErrNotFound
		}
		return attendance.Attendance{}, errors.Wrap(err, "attendanceRepository.GetAttendance")
	}
	return att, nil
}

// UpsertAttendance writes through a single findOneAndUpdate on the unique
// (class_id, date) index so concurrent writers on the same day cannot
// produce two documents. The filter excludes locked documents and only
// SetLocked touches is_locked, so a lock landing between a caller's read
// and its write turns the upsert into an insert that the index rejects;
// that duplicate key maps to ErrLocked.
func (repo *attendanceRepository) UpsertAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	day, _ := attendance.DayBounds(att.Date)
	filter := dayFilter(att.ClassID, att.Date)
	filter["is_locked"] = bson.M{"$ne": true}
	update := bson.M{
		"$set": bson.M{
			"records":    att.Records,
			"teacher_id": att.TeacherID,
			"updated_at": att.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"_id":        uuid.New().String(),
			"class_id":   att.ClassID,
			"date":       day,
			"created_at": att.CreatedAt,
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved attendance.Attendance
	if err := repo.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&saved); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return attendance.Attendance{}, attendance.ErrLocked
		}
		return attendance.Attendance{}, errors.Wrap(err, "attendanceRepository.UpsertAttendance")
	}
	return saved, nil
}

func (repo *attendanceRepository) QueryAttendanceRange(ctx context.Context, classID string, start, end time.Time) ([]attendance.Attendance, error) {
	filter := bson.M{"class_id": classID, "date": bson.M{"$gte": start, "$lte": end}}
	return repo.queryAttendance(ctx, filter)
}

func (repo *attendanceRepository) QueryAttendanceByClass(ctx context.Context, classID string) ([]attendance.Attendance, error) {
	return repo.queryAttendance(ctx, bson.M{"class_id": classID})
}

func (repo *attendanceRepository) queryAttendance(ctx context.Context, filter bson.M) ([]attendance.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "attendanceRepository.queryAttendance")
	}
	atts := make([]attendance.Attendance, 0)
	if err = cur.All(ctx, &atts); err != nil {
		return nil, errors.Wrap(err, "attendanceRepository.queryAttendance")
	}
	return atts, nil
}

func (repo *attendanceRepository) SetLocked(ctx context.Context, classID string, date time.Time) (attendance.Attendance, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"is_locked": true, "updated_at": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var att attendance.Attendance
	if err := repo.coll.FindOneAndUpdate(ctx, dayFilter(classID, date), update, opts).Decode(&att); err != nil {
		if err == mongo.ErrNoDocuments {
			return attendance.Attendance{}, attendance.ErrNotFound
		}
		return attendance.Attendance{}, errors.Wrap(err, "attendanceRepository.SetLocked")
	}
	return att, nil
}
