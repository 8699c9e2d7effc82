package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/mahudhurio/core"
)

const (
	teacherCollection    = "teachers"
	classCollection      = "classes"
	studentCollection    = "students"
	attendanceCollection = "attendance"
	reportCollection     = "reports"
)

type DB struct {
	client *mongo.Client
	db     *mongo.Database
}

// Open connects to the configured MongoDB deployment, verifies the
// connection and sets up the indexes the repositories rely on.
func Open() (*DB, error) {
	ctx, cancel := opCtx()
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(core.Conf.Database.URI))
	if err != nil {
		return nil, errors.Wrap(err, "mongodb.Open")
	}
	if err = client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "mongodb.Ping")
	}

	db := &DB{client: client, db: client.Database(core.Conf.Database.Name)}
	if err = db.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) Close() error {
	ctx, cancel := opCtx()
	defer cancel()
	return db.client.Disconnect(ctx)
}

func (db *DB) collection(name string) *mongo.Collection { return db.db.Collection(name) }

func (db *DB) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	indexes := map[string][]mongo.IndexModel{
		teacherCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		},
		classCollection: {
			{Keys: bson.D{{Key: "code", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "teacher_id", Value: 1}}},
		},
		studentCollection: {
			{Keys: bson.D{{Key: "class_id", Value: 1}, {Key: "roll_number", Value: 1}}, Options: unique},
		},
		attendanceCollection: {
			// one document per class per day; upserts race on this index
			{Keys: bson.D{{Key: "class_id", Value: 1}, {Key: "date", Value: 1}}, Options: unique},
		},
		reportCollection: {
			{Keys: bson.D{{Key: "class_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "student_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	}
	for coll, models := range indexes {
		if _, err := db.collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return errors.Wrapf(err, "mongodb.ensureIndexes(%s)", coll)
		}
	}
	return nil
}

// opCtx derives a context bounded by the configured database timeout.
func opCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), core.Conf.Database.Timeout)
}

func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, core.Conf.Database.Timeout)
}
