package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/models"
	"github.com/gin-gonic/gin"
)

// UserService is the account API the handlers depend on.
type UserService interface {
	Authenticator
	Register(ctx context.Context, email, password string, role models.Role) (*models.User, string, error)
	Login(ctx context.Context, email, password string) (*models.User, string, error)
}

type AuthHandler struct {
	users  UserService
	logger logging.Logger
}

func NewAuthHandler(us UserService, l logging.Logger) *AuthHandler {
	return &AuthHandler{users: us, logger: l}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token,omitempty"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, h.logger, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	user, token, err := h.users.Register(c.Request.Context(), in.Email, in.Password, models.Role(in.Role))
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var in credentials
	if err := c.ShouldBindJSON(&in); err != nil {
		abortWithError(c, h.logger, fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	user, token, err := h.users.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		abortWithError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, authResponse{User: user, Token: token})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		abortWithError(c, h.logger, common.ErrUnauthenticated)
		return
	}
	c.JSON(http.StatusOK, authResponse{User: user})
}
