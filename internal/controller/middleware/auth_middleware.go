package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/aulago/campus/config"
	"github.com/aulago/campus/internal/dto"
	"github.com/aulago/campus/internal/model"
	"github.com/aulago/campus/internal/repository"
	"github.com/aulago/campus/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// ContextUserKey is where the authenticated user is stored on the gin
// context.
const ContextUserKey = "currentUser"

// Auth validates the bearer token and loads the user onto the context.
// Loading from the database keeps deactivations and verification changes
// effective immediately, not at token expiry.
func Auth(cfg *config.Config, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or malformed Authorization header"})
			return
		}

		claims, err := service.ParseToken(token, cfg)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}

		user, err := userRepo.FindByID(claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Account no longer exists"})
				return
			}
			log.Error().Err(err).Uint("userID", claims.UserID).Msg("Auth middleware: error loading user")
			ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Internal server error"})
			return
		}
		if !user.IsActive {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Account is not active"})
			return
		}

		ctx.Set(ContextUserKey, user)
		ctx.Next()
	}
}

// CurrentUser returns the user placed on the context by Auth.
func CurrentUser(ctx *gin.Context) *model.User {
	value, ok := ctx.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}

// RequireRole rejects requests from users outside the given roles.
func RequireRole(roles ...model.UserRole) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				ctx.Next()
				return
			}
		}
		ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Insufficient role"})
	}
}

// RequireApprovedTeacher additionally checks the verification state, so a
// pending or rejected teacher cannot use teacher-only endpoints.
func RequireApprovedTeacher() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user := CurrentUser(ctx)
		if user == nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authentication required"})
			return
		}
		if !user.IsApprovedTeacher() {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Approved teacher account required"})
			return
		}
		ctx.Next()
	}
}
