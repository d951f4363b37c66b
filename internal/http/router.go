package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"careerpath/internal/metrics"
	"careerpath/internal/service"
)

// RouterDeps agrupa lo que NewRouter necesita para montar las rutas.
type RouterDeps struct {
	Logger      *zap.Logger
	Metrics     *metrics.Manager
	CORSOrigins []string
	JWT         *service.JWTService
	Users       *UserHandler
	Assessments *AssessmentHandler
	Catalog     *CatalogHandler
}

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	r := gin.New()

	// Middlewares basicos: logging, recovery, CORS y metricas.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), corsMiddleware(deps.CORSOrigins), metricsMiddleware(deps.Metrics))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	users := r.Group("/users")
	users.POST("", deps.Users.CreateUser)

	auth := r.Group("/auth")
	auth.POST("/login", deps.Users.Login)
	auth.POST("/refresh", deps.Users.RefreshToken)
	auth.POST("/logout", deps.Users.Logout)

	r.GET("/questions", deps.Catalog.ListQuestions)
	r.GET("/careers", deps.Catalog.ListCareers)
	r.GET("/careers/search", deps.Catalog.SearchCareers)
	r.GET("/careers/:id", deps.Catalog.GetCareer)

	protected := r.Group("")
	protected.Use(JWTAuthMiddleware(deps.JWT))

	protected.GET("/me", deps.Users.Me)
	protected.PUT("/me/profile", deps.Users.UpdateProfile)

	protected.POST("/questions/generate", deps.Catalog.GenerateQuestions)

	assessments := protected.Group("/assessments")
	assessments.POST("", deps.Assessments.Start)
	assessments.GET("/:id", deps.Assessments.GetSession)
	assessments.POST("/:id/answers", deps.Assessments.Answer)
	assessments.POST("/:id/next", deps.Assessments.Next)
	assessments.POST("/:id/previous", deps.Assessments.Previous)
	assessments.POST("/:id/complete", deps.Assessments.Complete)

	results := protected.Group("/results")
	results.GET("", deps.Assessments.History)
	results.GET("/current", deps.Assessments.Current)
	results.GET("/:id", deps.Assessments.Result)
	results.PATCH("/:id/roadmap/:stepId", deps.Assessments.SetStepCompleted)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// corsMiddleware permite los origenes configurados; sin origenes acepta cualquiera.
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: len(origins) > 0,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}

// metricsMiddleware registra cada request con el patron de la ruta.
func metricsMiddleware(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
