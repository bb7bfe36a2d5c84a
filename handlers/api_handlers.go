package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"school-dashboard-go/analytics"
)

// --- JSON API ---

// GetState handles GET /api/state
func (h *DashboardHandler) GetState(c *gin.Context) {
	s, err := h.load(c.Request.Context(), sessionID(c))
	if err != nil {
		log.Printf("Error in GetState handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load dashboard session"})
		return
	}
	c.JSON(http.StatusOK, stateView(s))
}

// GetGenderAnalytics handles GET /api/analytics/gender?class=
func (h *DashboardHandler) GetGenderAnalytics(c *gin.Context) {
	report, err := h.Controller.GenderReport(c.Request.Context(), c.Query("class"))
	if err != nil {
		log.Printf("Error in GetGenderAnalytics handler: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetFinanceAnalytics handles GET /api/analytics/finance?period=
func (h *DashboardHandler) GetFinanceAnalytics(c *gin.Context) {
	period := analytics.Period(c.DefaultQuery("period", string(analytics.Monthly)))
	if period != analytics.Monthly && period != analytics.Yearly {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period must be monthly or yearly"})
		return
	}
	report, err := h.Controller.FinanceReport(c.Request.Context(), period)
	if err != nil {
		log.Printf("Error in GetFinanceAnalytics handler: %v", err)
		c.JSON(errorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- Ping Handler ---

// Ping handles GET /api/ping and reports how many sessions are stored.
func (h *DashboardHandler) Ping(c *gin.Context) {
	count, err := h.Sessions.CountSessions(c.Request.Context())
	if err != nil {
		log.Printf("Error in Ping handler: %v", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "Pong!", "error": "session store unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pong!", "sessions": count})
}
