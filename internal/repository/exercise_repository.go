package repository

import (
	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type ExerciseRepository interface {
	Update(exercise *model.Exercise) error
}

type exerciseRepository struct {
	db *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) ExerciseRepository {
	return &exerciseRepository{db: db}
}

func (r *exerciseRepository) Update(exercise *model.Exercise) error {
	// Save updates all fields, including the grading outcome.
	return r.db.Save(exercise).Error
}
