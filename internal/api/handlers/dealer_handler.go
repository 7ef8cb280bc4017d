package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/gin-gonic/gin"
)

type DashboardService interface {
	DealerDashboard(ctx context.Context, user domain.UserContext, now time.Time, refresh bool) (*domain.DealerDashboard, error)
	StationLoss(ctx context.Context, user domain.UserContext, stationID string, now time.Time) (*domain.LossAnalysis, error)
}

type CommissionService interface {
	Stats(ctx context.Context, user domain.UserContext, dealerID string, now time.Time) (*domain.CommissionStats, error)
	Progressive(ctx context.Context, user domain.UserContext, stationID string, now time.Time) ([]domain.ProgressiveCommission, error)
}

// DealerHandler serves the dashboard, loss and commission reads.
type DealerHandler struct {
	dashboards  DashboardService
	commissions CommissionService
	now         func() time.Time
}

func NewDealerHandler(dashboards DashboardService, commissions CommissionService, loc *time.Location) *DealerHandler {
	if loc == nil {
		loc = time.Local
	}
	return &DealerHandler{
		dashboards:  dashboards,
		commissions: commissions,
		now:         func() time.Time { return time.Now().In(loc) },
	}
}

func (h *DealerHandler) Dashboard(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	dashboard, err := h.dashboards.DealerDashboard(c.Request.Context(), user, h.now(), refresh)
	if err != nil {
		respondError(c, "Failed to load dealer dashboard", err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// StationLoss returns {"data": null} when the station has no dips this month.
func (h *DealerHandler) StationLoss(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	loss, err := h.dashboards.StationLoss(c.Request.Context(), user, c.Param("id"), h.now())
	if err != nil {
		respondError(c, "Failed to compute station loss", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": loss})
}

func (h *DealerHandler) CommissionStats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stats, err := h.commissions.Stats(c.Request.Context(), user, c.Query("dealer_id"), h.now())
	if err != nil {
		respondError(c, "Failed to load commission stats", err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *DealerHandler) ProgressiveCommission(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	days, err := h.commissions.Progressive(c.Request.Context(), user, c.Param("id"), h.now())
	if err != nil {
		respondError(c, "Failed to compute progressive commission", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": days, "count": len(days)})
}
