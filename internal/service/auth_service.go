package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/aulago/campus/config"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account has not been activated")
	ErrUsernameTaken      = errors.New("username or email already in use")
)

// unactivatedTTL is how long a freshly registered account may stay
// unactivated before the janitor removes it.
const unactivatedTTL = time.Hour

type AuthService interface {
	RegisterStudent(req dto.RegisterDTO) (*dto.UserResponseDTO, error)
	RegisterTeacher(req dto.RegisterDTO) (*dto.UserResponseDTO, error)
	Activate(token string) error
	Login(req dto.LoginDTO) (*dto.TokenResponseDTO, error)

	GetProfile(userID uint) (*dto.UserResponseDTO, error)
	UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.UserResponseDTO, error)

	ListPendingTeachers() ([]dto.UserResponseDTO, error)
	ApproveTeacher(teacherID uint) error
	RejectTeacher(teacherID uint) error

	// CleanupUnactivated removes accounts whose activation link was never
	// followed. Returns the number of accounts removed.
	CleanupUnactivated(now time.Time) (int64, error)
}

type authService struct {
	userRepo repository.UserRepository
	mailer   Mailer
	cfg      *config.Config
}

func NewAuthService(userRepo repository.UserRepository, mailer Mailer, cfg *config.Config) AuthService {
	return &authService{userRepo: userRepo, mailer: mailer, cfg: cfg}
}

func (s *authService) RegisterStudent(req dto.RegisterDTO) (*dto.UserResponseDTO, error) {
	// Students do not go through verification.
	return s.register(req, model.RoleStudent, model.VerificationApproved)
}

func (s *authService) RegisterTeacher(req dto.RegisterDTO) (*dto.UserResponseDTO, error) {
	// Teachers wait for an approved teacher to verify them.
	return s.register(req, model.RoleTeacher, model.VerificationPending)
}

func (s *authService) register(req dto.RegisterDTO, role model.UserRole, verification model.VerificationStatus) (*dto.UserResponseDTO, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	token := uuid.NewString()
	user := model.User{
		Username:           req.Username,
		Email:              req.Email,
		PasswordHash:       string(hash),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Phone:              req.Phone,
		Degree:             req.Degree,
		Group:              req.Group,
		Role:               role,
		VerificationStatus: verification,
		IsActive:           false,
		ActivationToken:    &token,
	}

	if err := s.userRepo.Create(&user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("database error creating user: %w", err)
	}

	link := fmt.Sprintf("%s/api/auth/activate/%s", s.cfg.Server.BaseURL, token)
	body := fmt.Sprintf("Hola %s,\n\nActiva tu cuenta en el siguiente enlace:\n%s\n\nEl enlace caduca en una hora.", user.FirstName, link)
	if err := s.mailer.Send(user.Email, "Activa tu cuenta", body); err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("register: failed to send activation email")
	}

	log.Info().Uint("userID", user.ID).Str("role", string(role)).Msg("User registered")
	return userDTO(&user), nil
}

func (s *authService) Activate(token string) error {
	user, err := s.userRepo.FindByActivationToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error looking up activation token: %w", err)
	}

	user.IsActive = true
	user.ActivationToken = nil
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("error activating user %d: %w", user.ID, err)
	}
	log.Info().Uint("userID", user.ID).Msg("Account activated")
	return nil
}

func (s *authService) Login(req dto.LoginDTO) (*dto.TokenResponseDTO, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("error fetching user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	token, err := GenerateToken(user, s.cfg)
	if err != nil {
		return nil, fmt.Errorf("error generating token: %w", err)
	}

	return &dto.TokenResponseDTO{Token: token, User: *userDTO(user)}, nil
}

func (s *authService) GetProfile(userID uint) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user %d: %w", userID, err)
	}
	return userDTO(user), nil
}

func (s *authService) UpdateProfile(userID uint, req dto.ProfileUpdateDTO) (*dto.UserResponseDTO, error) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error fetching user %d: %w", userID, err)
	}

	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Phone != nil {
		user.Phone = req.Phone
	}
	if req.Degree != "" {
		user.Degree = req.Degree
	}
	if req.Group != "" {
		user.Group = req.Group
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("error updating user %d: %w", userID, err)
	}
	return userDTO(user), nil
}

func (s *authService) ListPendingTeachers() ([]dto.UserResponseDTO, error) {
	users, err := s.userRepo.FindPendingTeachers()
	if err != nil {
		return nil, fmt.Errorf("error fetching pending teachers: %w", err)
	}
	out := make([]dto.UserResponseDTO, 0, len(users))
	for i := range users {
		out = append(out, *userDTO(&users[i]))
	}
	return out, nil
}

func (s *authService) ApproveTeacher(teacherID uint) error {
	return s.setVerification(teacherID, model.VerificationApproved)
}

func (s *authService) RejectTeacher(teacherID uint) error {
	return s.setVerification(teacherID, model.VerificationRejected)
}

func (s *authService) setVerification(teacherID uint, status model.VerificationStatus) error {
	user, err := s.userRepo.FindByID(teacherID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("error fetching user %d: %w", teacherID, err)
	}
	if user.Role != model.RoleTeacher {
		return ErrNotFound
	}

	user.VerificationStatus = status
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("error updating teacher %d: %w", teacherID, err)
	}
	log.Info().Uint("teacherID", teacherID).Str("status", string(status)).Msg("Teacher verification updated")
	return nil
}

func (s *authService) CleanupUnactivated(now time.Time) (int64, error) {
	removed, err := s.userRepo.DeleteInactiveCreatedBefore(now.Add(-unactivatedTTL))
	if err != nil {
		return 0, fmt.Errorf("error removing unactivated accounts: %w", err)
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Unactivated accounts cleaned up")
	}
	return removed, nil
}

func userDTO(user *model.User) *dto.UserResponseDTO {
	var resp dto.UserResponseDTO
	if err := copier.Copy(&resp, user); err != nil {
		log.Error().Err(err).Uint("userID", user.ID).Msg("error copying user to DTO")
	}
	return &resp
}
