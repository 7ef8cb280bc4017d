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

type ExpenseService interface {
	List(ctx context.Context, user domain.UserContext, filter domain.ExpenseFilter) ([]domain.Expense, error)
	Create(ctx context.Context, user domain.UserContext, in service.ExpenseInput) (*domain.Expense, error)
	Approve(ctx context.Context, user domain.UserContext, id string) (*domain.Expense, error)
	Reject(ctx context.Context, user domain.UserContext, id, reason string) (*domain.Expense, error)
	Summary(ctx context.Context, user domain.UserContext, filter domain.ExpenseFilter) (*domain.ExpenseSummary, error)
}

type ExpenseHandler struct {
	service ExpenseService
	now     func() time.Time
}

func NewExpenseHandler(service ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service, now: time.Now}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (h *ExpenseHandler) List(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondError(c, "Invalid expense filter", err)
		return
	}

	expenses, err := h.service.List(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, "Failed to list expenses", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": expenses, "count": len(expenses)})
}

func (h *ExpenseHandler) Create(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var in service.ExpenseInput
	if !bindJSON(c, &in) {
		return
	}

	expense, err := h.service.Create(c.Request.Context(), user, in)
	if err != nil {
		respondError(c, "Failed to create expense", err)
		return
	}

	c.JSON(http.StatusCreated, expense)
}

func (h *ExpenseHandler) Summary(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondError(c, "Invalid expense filter", err)
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, "Failed to summarise expenses", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

func (h *ExpenseHandler) Approve(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	expense, err := h.service.Approve(c.Request.Context(), user, c.Param("id"))
	if err != nil {
		respondError(c, "Failed to approve expense", err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Reject(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req rejectRequest
	if !bindJSON(c, &req) {
		return
	}

	expense, err := h.service.Reject(c.Request.Context(), user, c.Param("id"), req.Reason)
	if err != nil {
		respondError(c, "Failed to reject expense", err)
		return
	}

	c.JSON(http.StatusOK, expense)
}

func (h *ExpenseHandler) Export(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid export format", "details": err.Error()})
		return
	}

	filter, err := parseExpenseFilter(c)
	if err != nil {
		respondError(c, "Invalid expense filter", err)
		return
	}

	expenses, err := h.service.List(c.Request.Context(), user, filter)
	if err != nil {
		respondError(c, "Failed to export expenses", err)
		return
	}

	writeExport(c, format, export.Expenses(expenses), h.now())
}
