package model

import (
	"time"

	"gorm.io/gorm"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Evaluation states for an exercise inside a submitted exam.
const (
	EvalPending = "pending"
	EvalGraded  = "graded"
	EvalFailed  = "failed" // external evaluation errored; score stays 0
)

type Exercise struct {
	ID            uint  `gorm:"primarykey" json:"id"`
	StudentID     uint  `json:"student_id" gorm:"not null;index"`
	ExerciseSetID uint  `json:"exercise_set_id" gorm:"not null;index"`
	ExamID        *uint `json:"exam_id,omitempty" gorm:"index"`

	Statement string `json:"statement" gorm:"type:text;not null"`
	// Solution is the reference solution returned by the model. It may be
	// empty when the model omitted the delimiter; that is a degraded but
	// valid exercise, not an error.
	Solution string `json:"solution,omitempty" gorm:"type:text"`
	// StudentSolution stays nil until submission. An empty string after
	// submission means "no answer given".
	StudentSolution *string `json:"student_solution,omitempty" gorm:"type:text"`

	Difficulty  Difficulty `json:"difficulty" gorm:"not null"`
	Topic       int        `json:"topic" gorm:"not null"`
	OrderInExam int        `json:"order_in_exam"`
	// Weight is the rubric point value fixed at creation time. Scoring
	// reads it from here, never from the exercise's position.
	Weight float64 `json:"weight"`

	IsCorrect  bool    `json:"is_correct" gorm:"default:false"`
	Score      float64 `json:"score" gorm:"default:0"`
	EvalStatus string  `json:"eval_status" gorm:"default:'pending'"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
