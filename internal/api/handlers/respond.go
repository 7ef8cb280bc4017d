package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, message string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": message, "details": err.Error(), "fields": verr.Fields})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": message, "details": err.Error()})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": message, "details": err.Error()})
	default:
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
		c.JSON(http.StatusInternalServerError, gin.H{"error": message, "details": err.Error()})
	}
}

// currentUser returns the authenticated caller or aborts with 401.
func currentUser(c *gin.Context) (domain.UserContext, bool) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return domain.UserContext{}, false
	}
	return user, true
}

func bindJSON(c *gin.Context, dest any) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return false
	}
	return true
}

func parseStationFilter(c *gin.Context) domain.StationFilter {
	return domain.StationFilter{
		Search:           strings.TrimSpace(c.Query("search")),
		Region:           strings.TrimSpace(c.Query("region")),
		Status:           strings.TrimSpace(c.Query("status")),
		ComplianceStatus: strings.TrimSpace(c.Query("compliance_status")),
	}
}

func parseExpenseFilter(c *gin.Context) (domain.ExpenseFilter, error) {
	filter := domain.ExpenseFilter{
		StationID: strings.TrimSpace(c.Query("station_id")),
		Status:    strings.TrimSpace(c.Query("status")),
		Type:      strings.TrimSpace(c.Query("type")),
		From:      strings.TrimSpace(c.Query("from")),
		To:        strings.TrimSpace(c.Query("to")),
	}

	verr := domain.NewValidationError()
	for field, value := range map[string]string{"from": filter.From, "to": filter.To} {
		if value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", value); err != nil {
			verr.Add(field, "must be a date in YYYY-MM-DD format")
		}
	}
	return filter, verr.OrNil()
}
