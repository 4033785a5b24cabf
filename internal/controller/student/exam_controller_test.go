package student

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aulago/campus/config"
	"github.com/aulago/campus/internal/controller/middleware"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users map[uint]*model.User
}

func (r *fakeUserRepo) Create(user *model.User) error { return nil }

func (r *fakeUserRepo) FindByID(id uint) (*model.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) FindByUsername(username string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindByActivationToken(token string) (*model.User, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) FindPendingTeachers() ([]model.User, error) { return nil, nil }

func (r *fakeUserRepo) Update(user *model.User) error { return nil }

func (r *fakeUserRepo) DeleteInactiveCreatedBefore(cutoff time.Time) (int64, error) { return 0, nil }

// fakeExamService mimics the owner-or-approved-teacher access rule so the
// route tests observe which requests the middleware chain lets through.
type fakeExamService struct {
	ownerID   uint
	submitted bool
}

func (s *fakeExamService) access(requester *model.User) error {
	if requester.ID == s.ownerID || requester.IsApprovedTeacher() {
		return nil
	}
	return service.ErrForbidden
}

func (s *fakeExamService) CreateExam(ctx context.Context, studentUser *model.User, req dto.ExamCreateDTO) (*dto.ExamDetailDTO, error) {
	return &dto.ExamDetailDTO{ID: 1, Name: req.Name}, nil
}

func (s *fakeExamService) ListExams(studentUser *model.User) ([]dto.ExamSummaryDTO, error) {
	return nil, nil
}

func (s *fakeExamService) GetExam(requester *model.User, examID uint) (*dto.ExamDetailDTO, error) {
	if err := s.access(requester); err != nil {
		return nil, err
	}
	if s.submitted {
		return nil, service.ErrAlreadySubmitted
	}
	return &dto.ExamDetailDTO{ID: examID}, nil
}

func (s *fakeExamService) GetArchivedExam(requester *model.User, examID uint) (*dto.ArchivedExamDTO, error) {
	if err := s.access(requester); err != nil {
		return nil, err
	}
	if !s.submitted {
		return nil, service.ErrNotFound
	}
	return &dto.ArchivedExamDTO{ID: examID, Grade: 7.25}, nil
}

type fakeSubmissionService struct {
	exams *fakeExamService
}

func (s *fakeSubmissionService) Submit(ctx context.Context, requester *model.User, examID uint, req dto.ExamSubmitDTO) (*dto.ArchivedExamDTO, error) {
	if requester.ID != s.exams.ownerID {
		return nil, service.ErrForbidden
	}
	if s.exams.submitted {
		return nil, service.ErrAlreadySubmitted
	}
	s.exams.submitted = true
	return &dto.ArchivedExamDTO{ID: examID}, nil
}

// newExamRouter mirrors the production route layout: bearer auth on the
// whole student group, the student-role gate on mutating endpoints only.
func newExamRouter(exams *fakeExamService, users *fakeUserRepo, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewExamController(exams, &fakeSubmissionService{exams: exams})

	r := gin.New()
	studentGroup := r.Group("/api/student")
	studentGroup.Use(middleware.Auth(cfg, users))
	{
		studentGroup.GET("/exams/:exam_id", ctrl.GetExam)
		studentGroup.GET("/exams/:exam_id/archive", ctrl.GetArchivedExam)

		studentOnly := studentGroup.Group("")
		studentOnly.Use(middleware.RequireRole(model.RoleStudent))
		{
			studentOnly.POST("/exams/:exam_id/submit", ctrl.SubmitExam)
		}
	}
	return r
}

func routeTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.JWT.Secret = "route-test-secret"
	cfg.JWT.ExpirationHours = 1
	return cfg
}

func bearer(t *testing.T, user *model.User, cfg *config.Config) string {
	t.Helper()
	token, err := service.GenerateToken(user, cfg)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	return "Bearer " + token
}

func routeTestUsers() (*fakeUserRepo, *model.User, *model.User, *model.User) {
	owner := &model.User{ID: 7, Username: "alba", Role: model.RoleStudent, VerificationStatus: model.VerificationApproved, IsActive: true}
	other := &model.User{ID: 8, Username: "bruno", Role: model.RoleStudent, VerificationStatus: model.VerificationApproved, IsActive: true}
	teacher := &model.User{ID: 50, Username: "marta", Role: model.RoleTeacher, VerificationStatus: model.VerificationApproved, IsActive: true}
	repo := &fakeUserRepo{users: map[uint]*model.User{7: owner, 8: other, 50: teacher}}
	return repo, owner, other, teacher
}

func TestExamViewRoutesReachableByTeacher(t *testing.T) {
	cfg := routeTestConfig()
	users, owner, other, teacher := routeTestUsers()
	exams := &fakeExamService{ownerID: owner.ID, submitted: true}
	router := newExamRouter(exams, users, cfg)

	tests := []struct {
		name       string
		user       *model.User
		path       string
		wantStatus int
	}{
		{"teacher reads archived exam", teacher, "/api/student/exams/1/archive", http.StatusOK},
		{"owner reads archived exam", owner, "/api/student/exams/1/archive", http.StatusOK},
		{"other student is refused", other, "/api/student/exams/1/archive", http.StatusForbidden},
		{"teacher hits live view of a closed exam", teacher, "/api/student/exams/1", http.StatusSeeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			req.Header.Set("Authorization", bearer(t, tt.user, cfg))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestSubmitRouteStudentGated(t *testing.T) {
	cfg := routeTestConfig()
	users, owner, _, teacher := routeTestUsers()
	exams := &fakeExamService{ownerID: owner.ID}
	router := newExamRouter(exams, users, cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/student/exams/1/submit", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, teacher, cfg))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("teacher submit status = %d, want 403", rec.Code)
	}
}

func TestResubmitRedirectsToArchive(t *testing.T) {
	cfg := routeTestConfig()
	users, owner, _, _ := routeTestUsers()
	exams := &fakeExamService{ownerID: owner.ID}
	router := newExamRouter(exams, users, cfg)

	submit := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/student/exams/1/submit", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", bearer(t, owner, cfg))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := submit(); rec.Code != http.StatusOK {
		t.Fatalf("first submit status = %d, want 200", rec.Code)
	}

	rec := submit()
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("second submit status = %d, want 303", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/api/student/exams/1/archive" {
		t.Errorf("Location = %q, want the archive path", loc)
	}
}
