package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/andresuchdata/stationops/backend-go/internal/domain"
	"github.com/andresuchdata/stationops/backend-go/internal/export"
	"github.com/andresuchdata/stationops/backend-go/internal/service"
	"github.com/gin-gonic/gin"
)

type StationService interface {
	List(ctx context.Context, user domain.UserContext, filter domain.StationFilter) ([]domain.Station, error)
	Get(ctx context.Context, user domain.UserContext, id string) (*domain.Station, error)
	Create(ctx context.Context, user domain.UserContext, in service.StationInput) (*domain.Station, error)
	Update(ctx context.Context, user domain.UserContext, id string, in service.StationInput) (*domain.Station, error)
	Delete(ctx context.Context, user domain.UserContext, id string) error
}

type StationHandler struct {
	service StationService
	now     func() time.Time
}

func NewStationHandler(service StationService) *StationHandler {
	return &StationHandler{service: service, now: time.Now}
}

func (h *StationHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	stations, err := h.service.List(c.Request.Context(), user, parseStationFilter(c))
	if err != nil {
		respondError(c, "Failed to list stations", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": stations, "count": len(stations)})
}

func (h *StationHandler) Get(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	station, err := h.service.Get(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, "Failed to get station", err)
		return
	}

	c.JSON(http.StatusOK, station)
}

func (h *StationHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var in service.StationInput
	if !bindJSON(c, &in) {
		return
	}

	station, err := h.service.Create(c.Request.Context(), user, in)
	if err != nil {
		respondError(c, "Failed to create station", err)
		return
	}

	c.JSON(http.StatusCreated, station)
}

func (h *StationHandler) Update(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var in service.StationInput
	if !bindJSON(c, &in) {
		return
	}

	station, err := h.service.Update(c.Request.Context(), user, c.Param("id"), in)
	if err != nil {
		respondError(c, "Failed to update station", err)
		return
	}

	c.JSON(http.StatusOK, station)
}

func (h *StationHandler) Delete(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), user, c.Param("id")); err != nil {
		respondError(c, "Failed to delete station", err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Export streams the visible, filtered directory as csv, json or xlsx.
func (h *StationHandler) Export(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export format", "details": err.Error()})
		return
	}

	stations, err := h.service.List(c.Request.Context(), user, parseStationFilter(c))
	if err != nil {
		respondError(c, "Failed to export stations", err)
		return
	}

	writeExport(c, format, export.Stations(stations), h.now())
}

func writeExport(c *gin.Context, format export.Format, ds export.Dataset, at time.Time) {
	data, err := export.Encode(format, ds)
	if err != nil {
		respondError(c, "Failed to encode export", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+export.Filename(ds, format, at)+`"`)
	c.Data(http.StatusOK, format.ContentType(), data)
}
