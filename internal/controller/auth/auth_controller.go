package auth

import (
	"errors"
	"net/http"

	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterStudent godoc
// @Summary Register a new student account
// @Description Creates an inactive student account and emails an activation link. The link expires after one hour.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterDTO true "Registration data"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Username or email already in use"
// @Router /auth/register/student [post]
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	c.register(ctx, c.authService.RegisterStudent)
}

// RegisterTeacher godoc
// @Summary Register a new teacher account
// @Description Creates an inactive teacher account pending verification by an approved teacher.
// @Tags Auth
// @Accept json
// @Produce json
// @Param registration body dto.RegisterDTO true "Registration data"
// @Success 201 {object} dto.UserResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Username or email already in use"
// @Router /auth/register/teacher [post]
func (c *AuthController) RegisterTeacher(ctx *gin.Context) {
	c.register(ctx, c.authService.RegisterTeacher)
}

func (c *AuthController) register(ctx *gin.Context, fn func(dto.RegisterDTO) (*dto.UserResponseDTO, error)) {
	var req dto.RegisterDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	user, err := fn(req)
	if err != nil {
		if errors.Is(err, service.ErrUsernameTaken) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Username or email already in use"})
			return
		}
		log.Error().Err(err).Str("username", req.Username).Msg("Register: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to register", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusCreated, user)
}

// Activate godoc
// @Summary Activate an account
// @Description Follows the emailed activation link and enables the account.
// @Tags Auth
// @Produce json
// @Param token path string true "Activation token"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Unknown or expired token"
// @Router /auth/activate/{token} [get]
func (c *AuthController) Activate(ctx *gin.Context) {
	token := ctx.Param("token")
	if err := c.authService.Activate(token); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Unknown or expired activation token"})
			return
		}
		log.Error().Err(err).Msg("Activate: service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to activate account"})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Account activated, you can now log in"})
}

// Login godoc
// @Summary Log in
// @Description Exchanges username and password for a bearer token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body dto.LoginDTO true "Credentials"
// @Success 200 {object} dto.TokenResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 401 {object} dto.ErrorResponse "Invalid credentials"
// @Failure 403 {object} dto.ErrorResponse "Account not activated"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	resp, err := c.authService.Login(req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			ctx.JSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid username or password"})
		case errors.Is(err, service.ErrAccountInactive):
			ctx.JSON(http.StatusForbidden, dto.ErrorResponse{Message: "Account has not been activated"})
		default:
			log.Error().Err(err).Str("username", req.Username).Msg("Login: service error")
			ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to log in"})
		}
		return
	}
	ctx.JSON(http.StatusOK, resp)
}
