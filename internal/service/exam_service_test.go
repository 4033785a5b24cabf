package service

import (
	"context"
	"testing"
	"time"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"gorm.io/gorm"
)

type fakeExamRepo struct {
	exams  map[uint]*model.Exam
	nextID uint
}

func newFakeExamRepo() *fakeExamRepo {
	return &fakeExamRepo{exams: make(map[uint]*model.Exam), nextID: 1}
}

func (r *fakeExamRepo) CreateWithSet(exam *model.Exam, set *model.ExerciseSet) error {
	exam.ID = r.nextID
	r.nextID++
	set.ID = exam.ID
	set.ExamID = &exam.ID
	for i := range exam.Exercises {
		exam.Exercises[i].ID = uint(i + 1)
		exam.Exercises[i].ExerciseSetID = set.ID
		exam.Exercises[i].ExamID = &exam.ID
	}
	r.exams[exam.ID] = exam
	return nil
}

func (r *fakeExamRepo) FindByIDWithExercises(id uint) (*model.Exam, error) {
	exam, ok := r.exams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *exam
	copied.Exercises = append([]model.Exercise(nil), exam.Exercises...)
	return &copied, nil
}

func (r *fakeExamRepo) FindAllByStudent(studentID uint) ([]model.Exam, error) {
	var out []model.Exam
	for _, exam := range r.exams {
		if exam.StudentID == studentID {
			out = append(out, *exam)
		}
	}
	return out, nil
}

func (r *fakeExamRepo) MarkSubmitted(id uint, at time.Time) (bool, error) {
	exam, ok := r.exams[id]
	if !ok || exam.IsSubmitted {
		return false, nil
	}
	exam.IsSubmitted = true
	exam.SubmittedAt = &at
	exam.Status = model.ExamStatusScoring
	return true, nil
}

func (r *fakeExamRepo) Update(exam *model.Exam) error {
	r.exams[exam.ID] = exam
	return nil
}

func student() *model.User {
	return &model.User{ID: 7, Username: "alba", Role: model.RoleStudent, VerificationStatus: model.VerificationApproved, IsActive: true}
}

func TestCreateExamSlots(t *testing.T) {
	repo := newFakeExamRepo()
	completion := &fakeCompletion{response: "enunciado\nSOLUCION\nsolución"}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())
	svc := NewExamService(repo, gen)

	detail, err := svc.CreateExam(context.Background(), student(), dto.ExamCreateDTO{
		Name:   "Parcial 1",
		Topics: []int{1, 2, 3, 4},
	})
	if err != nil {
		t.Fatalf("CreateExam error: %v", err)
	}
	if len(detail.Exercises) != 4 {
		t.Fatalf("got %d exercises, want 4", len(detail.Exercises))
	}

	wantDifficulties := []string{"Easy", "Easy", "Medium", "Hard"}
	wantWeights := []float64{1.5, 1.5, 2.75, 4.25}
	for i, ex := range detail.Exercises {
		if ex.Difficulty != wantDifficulties[i] {
			t.Errorf("slot %d difficulty = %s, want %s", i, ex.Difficulty, wantDifficulties[i])
		}
		if ex.Weight != wantWeights[i] {
			t.Errorf("slot %d weight = %v, want %v", i, ex.Weight, wantWeights[i])
		}
		if ex.OrderInExam != i+1 {
			t.Errorf("slot %d order = %d, want %d", i, ex.OrderInExam, i+1)
		}
		if ex.Topic != i+1 {
			t.Errorf("slot %d topic = %d, want %d", i, ex.Topic, i+1)
		}
	}

	stored := repo.exams[detail.ID]
	total := 0.0
	for _, ex := range stored.Exercises {
		total += ex.Weight
	}
	if total != 10.0 {
		t.Errorf("total weight = %v, want 10", total)
	}
	if detail.RemainingSeconds <= 0 || detail.RemainingSeconds > int64(ExamDuration.Seconds()) {
		t.Errorf("RemainingSeconds = %d out of window", detail.RemainingSeconds)
	}
}

func TestCreateExamGenerationFailureAborts(t *testing.T) {
	repo := newFakeExamRepo()
	completion := &fakeCompletion{err: context.DeadlineExceeded}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())
	svc := NewExamService(repo, gen)

	_, err := svc.CreateExam(context.Background(), student(), dto.ExamCreateDTO{Name: "x", Topics: []int{1, 1, 1, 1}})
	if err == nil {
		t.Fatal("expected generation failure to abort creation")
	}
	if len(repo.exams) != 0 {
		t.Error("no exam may be persisted when generation fails")
	}
}

func TestTimeRemaining(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	exam := &model.Exam{StartedAt: start}

	tests := []struct {
		name string
		now  time.Time
		want time.Duration
	}{
		{"at start", start, ExamDuration},
		{"halfway", start.Add(45 * time.Minute), 45 * time.Minute},
		{"one second left", start.Add(ExamDuration - time.Second), time.Second},
		{"exactly at deadline", start.Add(ExamDuration), 0},
		{"long after deadline", start.Add(3 * time.Hour), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TimeRemaining(exam, tt.now)
			if got != tt.want {
				t.Errorf("TimeRemaining = %v, want %v", got, tt.want)
			}
			if got < 0 {
				t.Error("TimeRemaining must never be negative")
			}
		})
	}
}

func TestGetExamAccessControl(t *testing.T) {
	repo := newFakeExamRepo()
	completion := &fakeCompletion{response: "e\nSOLUCION\ns"}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())
	svc := NewExamService(repo, gen)

	owner := student()
	detail, err := svc.CreateExam(context.Background(), owner, dto.ExamCreateDTO{Name: "x", Topics: []int{1, 2, 3, 4}})
	if err != nil {
		t.Fatalf("CreateExam error: %v", err)
	}

	otherStudent := &model.User{ID: 99, Role: model.RoleStudent}
	if _, err := svc.GetExam(otherStudent, detail.ID); err != ErrForbidden {
		t.Errorf("other student access: err = %v, want ErrForbidden", err)
	}

	pendingTeacher := &model.User{ID: 50, Role: model.RoleTeacher, VerificationStatus: model.VerificationPending}
	if _, err := svc.GetExam(pendingTeacher, detail.ID); err != ErrForbidden {
		t.Errorf("pending teacher access: err = %v, want ErrForbidden", err)
	}

	approvedTeacher := &model.User{ID: 51, Role: model.RoleTeacher, VerificationStatus: model.VerificationApproved}
	if _, err := svc.GetExam(approvedTeacher, detail.ID); err != nil {
		t.Errorf("approved teacher access: err = %v, want nil", err)
	}

	if _, err := svc.GetExam(owner, 12345); err != ErrNotFound {
		t.Errorf("missing exam: err = %v, want ErrNotFound", err)
	}
}

func TestGetExamSubmittedRedirectsToArchive(t *testing.T) {
	repo := newFakeExamRepo()
	completion := &fakeCompletion{response: "e\nSOLUCION\ns"}
	gen := NewExerciseGeneratorService(completion, DefaultPromptCatalog())
	svc := NewExamService(repo, gen)

	owner := student()
	detail, err := svc.CreateExam(context.Background(), owner, dto.ExamCreateDTO{Name: "x", Topics: []int{1, 2, 3, 4}})
	if err != nil {
		t.Fatalf("CreateExam error: %v", err)
	}

	// Not submitted yet: archive view must 404, live view must work.
	if _, err := svc.GetArchivedExam(owner, detail.ID); err != ErrNotFound {
		t.Errorf("archive before submission: err = %v, want ErrNotFound", err)
	}
	if _, err := svc.GetExam(owner, detail.ID); err != nil {
		t.Errorf("live view before submission: err = %v", err)
	}

	if ok, _ := repo.MarkSubmitted(detail.ID, time.Now()); !ok {
		t.Fatal("MarkSubmitted failed")
	}

	if _, err := svc.GetExam(owner, detail.ID); err != ErrAlreadySubmitted {
		t.Errorf("live view after submission: err = %v, want ErrAlreadySubmitted", err)
	}
	if _, err := svc.GetArchivedExam(owner, detail.ID); err != nil {
		t.Errorf("archive after submission: err = %v", err)
	}
}

func TestExamGrade(t *testing.T) {
	exam := &model.Exam{Exercises: []model.Exercise{
		{IsCorrect: true, Score: 1.5},
		{IsCorrect: false, Score: 0},
		{IsCorrect: true, Score: 2.75},
		{IsCorrect: false, Score: 4.25}, // incorrect exercises never count
	}}
	if got := exam.Grade(); got != 4.25 {
		t.Errorf("Grade = %v, want 4.25", got)
	}
}
