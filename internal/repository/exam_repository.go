package repository

import (
	"time"

	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type ExamRepository interface {
	// CreateWithSet persists the exam, its exercises and the mirror
	// exercise set in one transaction.
	CreateWithSet(exam *model.Exam, set *model.ExerciseSet) error
	FindByIDWithExercises(id uint) (*model.Exam, error)
	FindAllByStudent(studentID uint) ([]model.Exam, error)
	// MarkSubmitted flips is_submitted from false to true exactly once.
	// Returns false when another submission already won the race.
	MarkSubmitted(id uint, at time.Time) (bool, error)
	Update(exam *model.Exam) error
}

type examRepository struct {
	db *gorm.DB
}

func NewExamRepository(db *gorm.DB) ExamRepository {
	return &examRepository{db: db}
}

func (r *examRepository) CreateWithSet(exam *model.Exam, set *model.ExerciseSet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(set).Error; err != nil {
			return err
		}
		for i := range exam.Exercises {
			exam.Exercises[i].ExerciseSetID = set.ID
		}
		if err := tx.Create(exam).Error; err != nil {
			return err
		}
		return tx.Model(set).Update("exam_id", exam.ID).Error
	})
}

func (r *examRepository) FindByIDWithExercises(id uint) (*model.Exam, error) {
	var exam model.Exam
	err := r.db.Preload("Exercises", func(db *gorm.DB) *gorm.DB {
		return db.Order("exercises.order_in_exam ASC")
	}).First(&exam, id).Error
	if err != nil {
		return nil, err
	}
	return &exam, nil
}

func (r *examRepository) FindAllByStudent(studentID uint) ([]model.Exam, error) {
	var exams []model.Exam
	err := r.db.Where("student_id = ?", studentID).Order("created_at desc").Find(&exams).Error
	return exams, err
}

func (r *examRepository) MarkSubmitted(id uint, at time.Time) (bool, error) {
	res := r.db.Model(&model.Exam{}).
		Where("id = ? AND is_submitted = ?", id, false).
		Updates(map[string]interface{}{
			"is_submitted": true,
			"submitted_at": at,
			"status":       model.ExamStatusScoring,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *examRepository) Update(exam *model.Exam) error {
	return r.db.Save(exam).Error
}
