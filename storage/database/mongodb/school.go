package mongodb

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trezcool/mahudhurio/core/school"
)

type schoolRepository struct {
	classes  *mongo.Collection
	students *mongo.Collection
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{
		classes:  db.collection(classCollection),
		students: db.collection(studentCollection),
	}
}

// Classes

func (repo *schoolRepository) CheckClassCodeUniqueness(ctx context.Context, code string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := repo.classes.CountDocuments(ctx, bson.M{"code": code})
	if err != nil {
		return errors.Wrap(err, "schoolRepository.CheckClassCodeUniqueness")
	}
	if n > 0 {
		return school.ErrCodeExists
	}
	return nil
}

func (repo *schoolRepository) CreateClass(ctx context.Context, class school.Class) (school.Class, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	class.ID = uuid.New().String()
	if _, err := repo.classes.InsertOne(ctx, class); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return school.Class{}, school.ErrCodeExists
		}
		return school.Class{}, errors.Wrap(err, "schoolRepository.CreateClass")
	}
	return class, nil
}

func (repo *schoolRepository) GetClassByID(ctx context.Context, id string) (school.Class, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var class school.Class
	if err := repo.classes.FindOne(ctx, bson.M{"_id": id}).Decode(&class); err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Class{}, school.ErrClassNotFound
		}
		return school.Class{}, errors.Wrap(err, "schoolRepository.GetClassByID")
	}
	return class, nil
}

func (repo *schoolRepository) QueryClassesByTeacher(ctx context.Context, teacherID string) ([]school.Class, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := repo.classes.Find(ctx, bson.M{"teacher_id": teacherID})
	if err != nil {
		return nil, errors.Wrap(err, "schoolRepository.QueryClassesByTeacher")
	}
	classes := make([]school.Class, 0)
	if err = cur.All(ctx, &classes); err != nil {
		return nil, errors.Wrap(err, "schoolRepository.QueryClassesByTeacher")
	}
	return classes, nil
}

func (repo *schoolRepository) UpdateClass(ctx context.Context, class school.Class, isActive *bool) (school.Class, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	// only save set fields
	set := bson.M{"updated_at": class.UpdatedAt}
	if class.Name != "" {
		set["name"] = class.Name
	}
	if class.Description != "" {
		set["description"] = class.Description
	}
	if class.Section != "" {
		set["section"] = class.Section
	}
	if class.Room != "" {
		set["room"] = class.Room
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated school.Class
	err := repo.classes.FindOneAndUpdate(ctx, bson.M{"_id": class.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Class{}, school.ErrClassNotFound
		}
		return school.Class{}, errors.Wrap(err, "schoolRepository.UpdateClass")
	}
	return updated, nil
}

func (repo *schoolRepository) DeleteClassesByID(ctx context.Context, ids ...string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := repo.classes.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return errors.Wrap(err, "schoolRepository.DeleteClassesByID")
	}
	return nil
}

// Students

func (repo *schoolRepository) CheckRollNumberUniqueness(ctx context.Context, classID, rollNumber string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	n, err := repo.students.CountDocuments(ctx, bson.M{"class_id": classID, "roll_number": rollNumber})
	if err != nil {
		return errors.Wrap(err, "schoolRepository.CheckRollNumberUniqueness")
	}
	if n > 0 {
		return school.ErrRollNumberExists
	}
	return nil
}

func (repo *schoolRepository) CreateStudent(ctx context.Context, student school.Student) (school.Student, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	student.ID = uuid.New().String()
	if _, err := repo.students.InsertOne(ctx, student); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return school.Student{}, school.ErrRollNumberExists
		}
		return school.Student{}, errors.Wrap(err, "schoolRepository.CreateStudent")
	}
	return student, nil
}

func (repo *schoolRepository) GetStudentByID(ctx context.Context, id string) (school.Student, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var student school.Student
	if err := repo.students.FindOne(ctx, bson.M{"_id": id}).Decode(&student); err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Student{}, school.ErrStudentNotFound
		}
		return school.Student{}, errors.Wrap(err, "schoolRepository.GetStudentByID")
	}
	return student, nil
}

func (repo *schoolRepository) QueryStudentsByClass(ctx context.Context, classID string) ([]school.Student, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	cur, err := repo.students.Find(ctx, bson.M{"class_id": classID})
	if err != nil {
		return nil, errors.Wrap(err, "schoolRepository.QueryStudentsByClass")
	}
	students := make([]school.Student, 0)
	if err = cur.All(ctx, &students); err != nil {
		return nil, errors.Wrap(err, "schoolRepository.QueryStudentsByClass")
	}
	return students, nil
}

func (repo *schoolRepository) UpdateStudent(ctx context.Context, student school.Student, isActive *bool) (school.Student, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	// only save set fields
	set := bson.M{"updated_at": student.UpdatedAt}
	if student.Name != "" {
		set["name"] = student.Name
	}
	if student.Email != "" {
		set["email"] = student.Email
	}
	if student.Phone != "" {
		set["phone"] = student.Phone
	}
	if student.ParentPhone != "" {
		set["parent_phone"] = student.ParentPhone
	}
	if student.ParentEmail != "" {
		set["parent_email"] = student.ParentEmail
	}
	if isActive != nil {
		set["is_active"] = *isActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated school.Student
	err := repo.students.FindOneAndUpdate(ctx, bson.M{"_id": student.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return school.Student{}, school.ErrStudentNotFound
		}
		return school.Student{}, errors.Wrap(err, "schoolRepository.UpdateStudent")
	}
	return updated, nil
}

func (repo *schoolRepository) DeleteStudentsByID(ctx context.Context, ids ...string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if _, err := repo.students.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}}); err != nil {
		return errors.Wrap(err, "schoolRepository.DeleteStudentsByID")
	}
	return nil
}
