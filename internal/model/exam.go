package model

import (
	"time"

	"gorm.io/gorm"
)

// Exam lifecycle states.
const (
	ExamStatusCreated             = "created"
	ExamStatusScoring             = "scoring"
	ExamStatusCompleted           = "completed"
	ExamStatusCompletedWithErrors = "completed_with_errors"
)

type Exam struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StudentID uint   `json:"student_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null"`

	StartedAt   time.Time  `json:"started_at" gorm:"not null"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	IsSubmitted bool       `json:"is_submitted" gorm:"default:false"`
	Status      string     `json:"status" gorm:"default:'created'"`

	// Membership is fixed at creation: four exercises ordered Easy, Easy,
	// Medium, Hard. Only the per-exercise grading fields mutate afterwards.
	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:ExamID"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Grade sums the scores of the correctly answered exercises. It is always
// recomputed from the exercises so it can never go stale.
func (e *Exam) Grade() float64 {
	total := 0.0
	for _, ex := range e.Exercises {
		if ex.IsCorrect {
			total += ex.Score
		}
	}
	return total
}
