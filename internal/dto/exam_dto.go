package dto

import "time"

// ExamCreateDTO carries the four topic choices, one per exercise slot.
// Difficulties are fixed server-side to Easy, Easy, Medium, Hard.
type ExamCreateDTO struct {
	Name   string `json:"name" binding:"required"`
	Topics []int  `json:"topics" binding:"required,len=4,dive,min=1"`
}

// ExerciseResponseDTO is the live-exam view of an exercise: the reference
// solution is withheld until the exam is archived.
type ExerciseResponseDTO struct {
	ID          uint    `json:"id"`
	Statement   string  `json:"statement"`
	Difficulty  string  `json:"difficulty"`
	Topic       int     `json:"topic"`
	OrderInExam int     `json:"order_in_exam"`
	Weight      float64 `json:"weight"`
}

// ArchivedExerciseDTO is the read-only post-submission view, reference
// solution and grading outcome included.
type ArchivedExerciseDTO struct {
	ID              uint    `json:"id"`
	Statement       string  `json:"statement"`
	Solution        string  `json:"solution"`
	StudentSolution *string `json:"student_solution"`
	Difficulty      string  `json:"difficulty"`
	Topic           int     `json:"topic"`
	OrderInExam     int     `json:"order_in_exam"`
	Weight          float64 `json:"weight"`
	IsCorrect       bool    `json:"is_correct"`
	Score           float64 `json:"score"`
	EvalStatus      string  `json:"eval_status"`
}

type ExamDetailDTO struct {
	ID               uint                  `json:"id"`
	Name             string                `json:"name"`
	StartedAt        time.Time             `json:"started_at"`
	RemainingSeconds int64                 `json:"remaining_seconds"`
	Exercises        []ExerciseResponseDTO `json:"exercises"`
}

type ArchivedExamDTO struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	StartedAt   time.Time             `json:"started_at"`
	SubmittedAt *time.Time            `json:"submitted_at"`
	Status      string                `json:"status"`
	Grade       float64               `json:"grade"`
	Exercises   []ArchivedExerciseDTO `json:"exercises"`
}

type ExamSummaryDTO struct {
	ID          uint       `json:"id"`
	Name        string     `json:"name"`
	StartedAt   time.Time  `json:"started_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	IsSubmitted bool       `json:"is_submitted"`
	Status      string     `json:"status"`
}

// ExamAnswerDTO is one student answer keyed by exercise id.
type ExamAnswerDTO struct {
	ExerciseID uint   `json:"exercise_id" binding:"required"`
	Answer     string `json:"answer"`
}

type ExamSubmitDTO struct {
	Answers []ExamAnswerDTO `json:"answers" binding:"dive"`
}
