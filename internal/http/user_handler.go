package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/service"
)

// UserHandler mantiene dependencias para endpoints de usuarios y auth.
type UserHandler struct {
	logger   *zap.Logger
	userServ *service.UserService
	jwtServ  *service.JWTService
}

// NewUserHandler crea una instancia de UserHandler con dependencias necesarias.
func NewUserHandler(logger *zap.Logger, userServ *service.UserService, jwtServ *service.JWTService) *UserHandler {
	return &UserHandler{
		logger:   logger,
		userServ: userServ,
		jwtServ:  jwtServ,
	}
}

// CreateUser maneja POST /users. Devuelve el usuario junto con un par de tokens.
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req struct {
		Email       string               `json:"email" binding:"required,email"`
		DisplayName string               `json:"display_name"`
		Password    string               `json:"password" binding:"required"`
		Profile     domain.CareerProfile `json:"profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid create user request", err)
		return
	}

	user, err := h.userServ.CreateUser(c.Request.Context(), service.CreateUserInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		Profile:     req.Profile,
	})
	if err != nil {
		respondError(c, h.logger, err, "could not create user")
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "tokens": tokens})
}

// Login maneja POST /auth/login.
func (h *UserHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid login request", err)
		return
	}

	user, err := h.userServ.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err, "could not login")
		return
	}

	tokens, err := h.issueTokens(c, user)
	if err != nil {
		h.logger.Error("jwt issue failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user, "tokens": tokens})
}

// RefreshToken maneja POST /auth/refresh.
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid refresh request", err)
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	tokens, err := h.jwtServ.RefreshPair(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// Logout maneja POST /auth/logout.
func (h *UserHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid logout request", err)
		return
	}
	if h.jwtServ == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "jwt not configured"})
		return
	}
	if err := h.jwtServ.RevokeRefresh(c.Request.Context(), req.RefreshToken); err != nil {
		h.logger.Debug("logout with invalid refresh token", zap.Error(err))
	}
	c.Status(http.StatusNoContent)
}

// Me maneja GET /me.
func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	user, err := h.userServ.GetByID(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "could not load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// UpdateProfile maneja PUT /me/profile.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req struct {
		DisplayName string               `json:"display_name"`
		Profile     domain.CareerProfile `json:"profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid profile request", err)
		return
	}
	user, err := h.userServ.UpdateProfile(c.Request.Context(), userID, req.DisplayName, req.Profile)
	if err != nil {
		respondError(c, h.logger, err, "could not update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *UserHandler) issueTokens(c *gin.Context, user domain.User) (service.TokenPair, error) {
	if h.jwtServ == nil {
		return service.TokenPair{}, errors.New("jwt not configured")
	}
	return h.jwtServ.GeneratePair(c.Request.Context(), user)
}
