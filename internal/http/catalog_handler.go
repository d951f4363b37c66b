package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careerpath/internal/catalog"
	"careerpath/internal/domain"
	"careerpath/internal/service"
)

// CatalogHandler sirve preguntas y carreras del catalogo, la busqueda de
// carreras y la generacion de preguntas con IA.
type CatalogHandler struct {
	logger    *zap.Logger
	catalog   *catalog.Catalog
	search    *service.CareerSearch
	generator *service.QuestionGenerator
}

func NewCatalogHandler(logger *zap.Logger, cat *catalog.Catalog, search *service.CareerSearch, generator *service.QuestionGenerator) *CatalogHandler {
	return &CatalogHandler{
		logger:    logger,
		catalog:   cat,
		search:    search,
		generator: generator,
	}
}

// ListQuestions maneja GET /questions?category=.
func (h *CatalogHandler) ListQuestions(c *gin.Context) {
	raw := strings.TrimSpace(c.Query("category"))
	if raw == "" {
		c.JSON(http.StatusOK, gin.H{"questions": h.catalog.Questions()})
		return
	}
	category, err := domain.ParseCategory(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": h.catalog.QuestionsByCategory(category)})
}

// ListCareers maneja GET /careers.
func (h *CatalogHandler) ListCareers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"careers": h.catalog.Careers()})
}

// GetCareer maneja GET /careers/:id. Incluye el roadmap curado si existe.
func (h *CatalogHandler) GetCareer(c *gin.Context) {
	career, ok := h.catalog.Career(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "career not found"})
		return
	}
	resp := gin.H{"career": career}
	if steps, ok := h.catalog.Roadmap(career.ID); ok {
		resp["roadmap"] = steps
	}
	c.JSON(http.StatusOK, resp)
}

// SearchCareers maneja GET /careers/search?q=&k=.
func (h *CatalogHandler) SearchCareers(c *gin.Context) {
	k := 0
	if raw := strings.TrimSpace(c.Query("k")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "k must be a positive integer"})
			return
		}
		k = parsed
	}
	careers, err := h.search.Search(c.Request.Context(), c.Query("q"), k)
	if err != nil {
		respondError(c, h.logger, err, "could not search careers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"careers": careers})
}

// GenerateQuestions maneja POST /questions/generate.
func (h *CatalogHandler) GenerateQuestions(c *gin.Context) {
	userID, ok := authUserID(c)
	if !ok {
		return
	}
	var req struct {
		Category domain.Category `json:"category" binding:"required"`
		Count    int             `json:"count"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, h.logger, "invalid generate request", err)
		return
	}
	questions, err := h.generator.Generate(c.Request.Context(), userID, req.Category, req.Count)
	if err != nil {
		respondError(c, h.logger, err, "could not generate questions")
		return
	}
	c.JSON(http.StatusOK, gin.H{"questions": questions})
}
