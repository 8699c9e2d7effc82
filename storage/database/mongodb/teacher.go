package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/trezcool/mahudhurio/core/teacher"
)

type teacherRepository struct {
	coll *mongo.Collection
}

var _ teacher.Repository = (*teacherRepository)(nil) // interface compliance check

func NewTeacherRepository(db *DB) teacher.Repository {
	return &teacherRepository{coll: db.collection(teacherCollection)}
}

func (repo *teacherRepository) CheckEmailUniqueness(ctx context.Context, email string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := repo.coll.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return errors.Wrap(err, "teacherRepository.CheckEmailUniqueness")
	}
	if n > 0 {
		return teacher.ErrEmailExists
	}
	return nil
}

func (repo *teacherRepository) CreateTeacher(ctx context.Context, tchr teacher.Teacher) (teacher.Teacher, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tchr.ID = uuid.New().String()
	if _, err := repo.coll.InsertOne(ctx, tchr); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return teacher.Teacher{}, teacher.ErrEmailExists
		}
		return teacher.Teacher{}, errors.Wrap(err, "teacherRepository.CreateTeacher")
	}
	return tchr, nil
}

func (repo *teacherRepository) GetTeacherByID(ctx context.Context, id string) (teacher.Teacher, error) {
	return repo.getTeacher(ctx, bson.M{"_id": id})
}

func (repo *teacherRepository) GetTeacherByEmail(ctx context.Context, email string) (teacher.Teacher, error) {
	return repo.getTeacher(ctx, bson.M{"email": email})
}

func (repo *teacherRepository) getTeacher(ctx context.Context, filter bson.M) (teacher.Teacher, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var tchr teacher.Teacher
	if err := repo.coll.FindOne(ctx, filter).Decode(&tchr); err != nil {
		if err == mongo.ErrNoDocuments {
			return teacher.Teacher{}, teacher.ErrNotFound
		}
		return teacher.Teacher{}, errors.Wrap(err, "teacherRepository.getTeacher")
	}
	return tchr, nil
}

func (repo *teacherRepository) UpdateTeacher(ctx context.Context, tchr teacher.Teacher) (teacher.Teacher, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := repo.coll.ReplaceOne(ctx, bson.M{"_id": tchr.ID}, tchr)
	if err != nil {
		return teacher.Teacher{}, errors.Wrap(err, "teacherRepository.UpdateTeacher")
	}
	if res.MatchedCount == 0 {
		return teacher.Teacher{}, teacher.ErrNotFound
	}
	return tchr, nil
}
