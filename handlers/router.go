package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// RouterConfig holds the middleware settings for NewRouter.
type RouterConfig struct {
	SessionSecret string
	SessionTTL    time.Duration
	CORSOrigins   []string // empty disables CORS
}

// NewRouter wires the dashboard pages and the JSON API onto router.
func NewRouter(router *gin.Engine, h *DashboardHandler, cfg RouterConfig) *gin.Engine {
	router.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	if len(cfg.CORSOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}
	router.Use(SessionMiddleware(cfg.SessionSecret, cfg.SessionTTL)...)

	router.GET("/", h.Dashboard)
	router.POST("/type", h.SelectType)

	router.POST("/form/create", h.OpenCreate)
	router.POST("/form/fields", h.ChangeFields)
	router.POST("/form/submit", h.Submit)
	router.POST("/form/close", h.CloseForm)

	router.POST("/records/:id/edit", h.OpenEdit)
	router.POST("/records/:id/delete", h.RequestDelete)
	router.POST("/delete/confirm", h.ConfirmDelete)
	router.POST("/delete/cancel", h.CancelDelete)

	router.POST("/list/sort", h.ToggleSort)
	router.POST("/list/filter", h.FilterList)
	router.POST("/refresh", h.Refresh)

	router.POST("/analytics/close", h.CloseAnalytics)
	router.POST("/analytics/filter", h.FilterAnalytics)
	router.POST("/analytics/period", h.TogglePeriod)
	router.POST("/analytics/:view", h.OpenAnalytics)

	router.GET("/export", h.Export)
	router.POST("/import", h.Import)

	api := router.Group("/api")
	{
		api.GET("/ping", h.Ping)
		api.GET("/state", h.GetState)
		api.GET("/analytics/gender", h.GetGenderAnalytics)
		api.GET("/analytics/finance", h.GetFinanceAnalytics)
	}
	return router
}
