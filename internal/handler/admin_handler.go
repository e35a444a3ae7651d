package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wparames/honeymart/internal/journal"
	"github.com/wparames/honeymart/internal/service"
	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
)

// AdminHandler covers product management and operational views.
type AdminHandler struct {
	authService *service.AuthService
	catalog     *service.CatalogService
	journal     *journal.Journal
}

func NewAdminHandler(authService *service.AuthService, catalog *service.CatalogService, jrnl *journal.Journal) *AdminHandler {
	return &AdminHandler{
		authService: authService,
		catalog:     catalog,
		journal:     jrnl,
	}
}

type SaveProductRequest struct {
	ProductID uint    `json:"product_id"` // zero = create
	Name      string  `json:"name" binding:"required"`
	Price     float64 `json:"price" binding:"required"`
	Stock     int     `json:"stock"`
}

// ListProducts returns the full catalog, including out-of-stock products.
// GET /api/admin/products
func (h *AdminHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListAll()
	if err != nil {
		logger.Log.Error("Failed to fetch products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch products",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
	})
}

// SaveProduct creates or updates a product.
// POST /api/admin/products
func (h *AdminHandler) SaveProduct(c *gin.Context) {
	var req SaveProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	product, err := h.catalog.SaveProduct(req.ProductID, req.Name, req.Price, req.Stock)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, service.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{
			"error": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product saved successfully",
		"product": product,
	})
}

// DeleteProduct removes a product from the catalog.
// DELETE /api/admin/products/:id
func (h *AdminHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.catalog.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Product not found",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete product",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}

// ListUsers returns all accounts.
// GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.authService.GetAllUsers()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch users",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
	})
}

// ListRefreshes returns the tail of the refresh journal, newest first.
// GET /api/admin/refreshes
func (h *AdminHandler) ListRefreshes(c *gin.Context) {
	if h.journal == nil {
		c.JSON(http.StatusOK, gin.H{
			"refreshes": []journal.CycleEntry{},
		})
		return
	}

	entries, err := h.journal.Recent(50)
	if err != nil {
		logger.Log.Error("Failed to read refresh journal", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read refresh journal",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"refreshes": entries,
	})
}
