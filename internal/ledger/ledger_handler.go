package ledger

import (
	"context"
	"errors"
	"net/http"

	custom_error "hangar/pkg/errors"
	"hangar/pkg/models"
	"hangar/pkg/security"

	"github.com/gin-gonic/gin"
)

type LedgerHandler struct {
	service LedgerServiceInterface
}

type LedgerServiceInterface interface {
	Checkout(req models.CheckoutRequest) (*models.Transaction, error)
	Checkin(ctx context.Context, req models.CheckinRequest) (*models.Transaction, error)
	ListOpen() (*[]models.Transaction, error)
	ListHistory() (*[]models.Transaction, error)
}

func NewLedgerHandler(service LedgerServiceInterface) *LedgerHandler {
	return &LedgerHandler{service: service}
}

func (h *LedgerHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/checkouts", h.Checkout)
		protectedRoutes.POST("/checkins", h.Checkin)
		protectedRoutes.GET("/checkouts/open", h.ListOpen)
		protectedRoutes.GET("/checkouts/history", h.ListHistory)
	}
}

func (h *LedgerHandler) Checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	tx, err := h.service.Checkout(req)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusCreated, tx)
}

func (h *LedgerHandler) Checkin(c *gin.Context) {
	var req models.CheckinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	tx, err := h.service.Checkin(c.Request.Context(), req)
	if err != nil {
		respondLedgerError(c, err)
		return
	}

	c.JSON(http.StatusOK, tx)
}

func (h *LedgerHandler) ListOpen(c *gin.Context) {
	transactions, err := h.service.ListOpen()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list open transactions", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func (h *LedgerHandler) ListHistory(c *gin.Context) {
	transactions, err := h.service.ListHistory()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list transaction history", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, transactions)
}

func respondLedgerError(c *gin.Context, err error) {
	var validationErr *custom_error.ValidationError
	var notFoundErr *custom_error.NotFoundError
	var alreadyOutErr *custom_error.AlreadyCheckedOutError
	var notOutErr *custom_error.NotCheckedOutError
	var weatherErr *custom_error.WeatherUnavailableError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "details": err.Error()})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found", "details": err.Error()})
	case errors.As(err, &alreadyOutErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset is already checked out", "details": err.Error()})
	case errors.As(err, &notOutErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset is not checked out", "details": err.Error()})
	case errors.As(err, &weatherErr):
		// Retryable: the transaction is untouched, the caller may resubmit.
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Weather data unavailable, try again", "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to process transaction", "details": err.Error()})
	}
}
