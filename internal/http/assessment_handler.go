package http

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careerpath/internal/domain"
	"careerpath/internal/service"
)

// AssessmentHandler expone el flujo de assessment y el historial de resultados.
type AssessmentHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
	users       *service.UserService
}

func NewAssessmentHandler(logger *zap.Logger, assessments *service.AssessmentService, users *service.UserService) *AssessmentHandler {
	return &AssessmentHandler{
		logger:      logger,
		assessments: assessments,
		users:       users,
	}
}

// Start maneja POST /assessments.
func (h *AssessmentHandler) Start(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	session, err := h.assessments.Start(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "could not start assessment")
		return
	}
	c.JSON(http.StatusCreated, h.assessments.View(session))
}

// GetSession maneja GET /assessments/:id.
func (h *AssessmentHandler) GetSession(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	session, err := h.assessments.Session(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "could not load assessment")
		return
	}
	c.JSON(http.StatusOK, h.assessments.View(session))
}

// Answer maneja POST /assessments/:id/answers.
func (h *AssessmentHandler) Answer(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req struct {
		QuestionID string `json:"question_id" binding:"required"`
		Value      *int   `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid answer request", err)
		return
	}
	session, err := h.assessments.Answer(c.Request.Context(), userID, c.Param("id"), req.QuestionID, *req.Value)
	if err != nil {
		respondError(c, h.logger, err, "could not record answer")
		return
	}
	c.JSON(http.StatusOK, h.assessments.View(session))
}

// Next maneja POST /assessments/:id/next.
func (h *AssessmentHandler) Next(c *gin.Context) {
	h.move(c, h.assessments.Next)
}

// Previous maneja POST /assessments/:id/previous.
func (h *AssessmentHandler) Previous(c *gin.Context) {
	h.move(c, h.assessments.Previous)
}

type moveFunc func(ctx context.Context, userID, sessionID string) (domain.AssessmentSession, bool, error)

func (h *AssessmentHandler) move(c *gin.Context, step moveFunc) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	session, moved, err := step(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "could not move assessment")
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved, "assessment": h.assessments.View(session)})
}

// Complete maneja POST /assessments/:id/complete. Sin body se usa el perfil
// guardado del usuario.
func (h *AssessmentHandler) Complete(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req struct {
		Profile *domain.CareerProfile `json:"profile"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, h.logger, "invalid complete request", err)
		return
	}

	var profile domain.CareerProfile
	if req.Profile != nil {
		profile = *req.Profile
	} else {
		user, err := h.users.GetByID(c.Request.Context(), userID)
		if err != nil {
			respondError(c, h.logger, err, "could not load user profile")
			return
		}
		profile = user.Profile
	}

	result, err := h.assessments.Complete(c.Request.Context(), userID, c.Param("id"), profile)
	if err != nil {
		respondError(c, h.logger, err, "could not complete assessment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": result})
}

// History maneja GET /results.
func (h *AssessmentHandler) History(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	results, err := h.assessments.History(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "could not list results")
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": results})
}

// Current maneja GET /results/current.
func (h *AssessmentHandler) Current(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	result, err := h.assessments.Current(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err, "could not load result")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// Result maneja GET /results/:id.
func (h *AssessmentHandler) Result(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	result, err := h.assessments.Result(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err, "could not load result")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// SetStepCompleted maneja PATCH /results/:id/roadmap/:stepId.
func (h *AssessmentHandler) SetStepCompleted(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req struct {
		Completed *bool `json:"completed" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid roadmap request", err)
		return
	}
	result, err := h.assessments.SetStepCompleted(c.Request.Context(), userID, c.Param("id"), c.Param("stepId"), *req.Completed)
	if err != nil {
		respondError(c, h.logger, err, "could not update roadmap")
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}
