package catalog

import (
	"errors"
	"net/http"
	"strconv"

	custom_error "hangar/pkg/errors"
	"hangar/pkg/models"
	"hangar/pkg/security"

	"github.com/gin-gonic/gin"
)

type AssetHandler struct {
	service AssetServiceInterface
}

type AssetServiceInterface interface {
	CreateAsset(req models.AssetRequest) (*models.Asset, error)
	GetAsset(id int) (*models.Asset, error)
	ListAssets() (*[]models.Asset, error)
	UpdateAsset(id int, req models.AssetRequest) (*models.Asset, error)
	RemoveAsset(id int) error
}

func NewAssetHandler(service AssetServiceInterface) *AssetHandler {
	return &AssetHandler{service: service}
}

func (h *AssetHandler) RegisterRoutes(router *gin.Engine) {
	protectedRoutes := router.Group("")
	protectedRoutes.Use(security.JWTMiddleware())
	{
		protectedRoutes.POST("/assets", h.CreateAsset)
		protectedRoutes.GET("/assets", h.ListAssets)
		protectedRoutes.GET("/assets/:id", h.GetAsset)
		protectedRoutes.PUT("/assets/:id", h.UpdateAsset)
		protectedRoutes.DELETE("/assets/:id", security.Authorize("admin"), h.RemoveAsset)
	}
}

func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.CreateAsset(req)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusCreated, asset)
}

func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	asset, err := h.service.GetAsset(id)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) ListAssets(c *gin.Context) {
	assets, err := h.service.ListAssets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to list assets", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, assets)
}

func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	var req models.AssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "details": err.Error()})
		return
	}

	asset, err := h.service.UpdateAsset(id, req)
	if err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, asset)
}

func (h *AssetHandler) RemoveAsset(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asset ID"})
		return
	}

	if err := h.service.RemoveAsset(id); err != nil {
		respondCatalogError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Asset deleted successfully"})
}

func respondCatalogError(c *gin.Context, err error) {
	var validationErr *custom_error.ValidationError
	var notFoundErr *custom_error.NotFoundError
	var conflictErr *custom_error.ConflictError
	var uniqueErr *custom_error.UniqueViolationError

	switch {
	case errors.As(err, &validationErr):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Invalid asset", "details": err.Error()})
	case errors.As(err, &notFoundErr):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Asset not found", "details": err.Error()})
	case errors.As(err, &conflictErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset cannot be removed", "details": err.Error()})
	case errors.As(err, &uniqueErr):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Asset already registered", "details": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to process asset", "details": err.Error()})
	}
}
