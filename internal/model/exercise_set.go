package model

import (
	"time"

	"gorm.io/gorm"
)

type ExerciseSet struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StudentID uint   `json:"student_id" gorm:"not null;index"`
	Name      string `json:"name" gorm:"not null"`
	// ExamID is set when this set mirrors an exam's exercises. Such sets
	// are hidden from the student's plain exercise-set listing.
	ExamID    *uint      `json:"exam_id,omitempty" gorm:"index"`
	Archived  bool       `json:"archived" gorm:"default:false"`
	Exercises []Exercise `json:"exercises,omitempty" gorm:"foreignKey:ExerciseSetID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
