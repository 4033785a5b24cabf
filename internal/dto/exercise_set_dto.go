package dto

import "time"

type ExerciseSetCreateDTO struct {
	Name       string `json:"name" binding:"required"`
	Topic      int    `json:"topic" binding:"required,min=1"`
	Difficulty string `json:"difficulty" binding:"required,oneof=Easy Medium Hard"`
	Count      int    `json:"count" binding:"required,min=1,max=10"`
}

// SetExerciseDTO is the practice view of a generated exercise; sets are
// ungraded so the reference solution is shown.
type SetExerciseDTO struct {
	ID         uint   `json:"id"`
	Statement  string `json:"statement"`
	Solution   string `json:"solution"`
	Difficulty string `json:"difficulty"`
	Topic      int    `json:"topic"`
}

type ExerciseSetDetailDTO struct {
	ID        uint             `json:"id"`
	Name      string           `json:"name"`
	Archived  bool             `json:"archived"`
	CreatedAt time.Time        `json:"created_at"`
	Exercises []SetExerciseDTO `json:"exercises"`
}

type ExerciseSetSummaryDTO struct {
	ID            uint      `json:"id"`
	Name          string    `json:"name"`
	Archived      bool      `json:"archived"`
	ExerciseCount int       `json:"exercise_count"`
	CreatedAt     time.Time `json:"created_at"`
}
