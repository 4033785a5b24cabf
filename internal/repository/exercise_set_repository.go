package repository

import (
	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

// ExerciseSetWithCount pairs a set with its exercise count so listings do
// not need to load every exercise row.
type ExerciseSetWithCount struct {
	model.ExerciseSet
	ExerciseCount int
}

type ExerciseSetRepository interface {
	Create(set *model.ExerciseSet) error
	FindByIDWithExercises(id uint) (*model.ExerciseSet, error)
	// FindStandaloneByStudent lists the student's plain practice sets,
	// excluding the sets that mirror an exam.
	FindStandaloneByStudent(studentID uint) ([]ExerciseSetWithCount, error)
}

type exerciseSetRepository struct {
	db *gorm.DB
}

func NewExerciseSetRepository(db *gorm.DB) ExerciseSetRepository {
	return &exerciseSetRepository{db: db}
}

func (r *exerciseSetRepository) Create(set *model.ExerciseSet) error {
	// GORM creates the associated exercises along with the set.
	return r.db.Create(set).Error
}

func (r *exerciseSetRepository) FindByIDWithExercises(id uint) (*model.ExerciseSet, error) {
	var set model.ExerciseSet
	err := r.db.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("exercises.id ASC")
	}).First(&set, id).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *exerciseSetRepository) FindStandaloneByStudent(studentID uint) ([]ExerciseSetWithCount, error) {
	var results []ExerciseSetWithCount
	err := r.db.Model(&model.ExerciseSet{}).
		Select("exercise_sets.*, (SELECT COUNT(*) FROM exercises WHERE exercises.exercise_set_id = exercise_sets.id AND exercises.deleted_at IS NULL) as exercise_count").
		Where("exercise_sets.student_id = ? AND exercise_sets.exam_id IS NULL", studentID).
		Where("exercise_sets.deleted_at IS NULL").
		Order("exercise_sets.created_at DESC").
		Scan(&results).Error
	return results, err
}
