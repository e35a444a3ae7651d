package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wparames/honeymart/internal/middleware"
	"github.com/wparames/honeymart/internal/service"
	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
)

// StoreHandler covers the customer-facing storefront: browsing, cart and
// checkout.
type StoreHandler struct {
	catalog  *service.CatalogService
	cart     *service.CartService
	checkout *service.CheckoutService
}

func NewStoreHandler(catalog *service.CatalogService, cart *service.CartService, checkout *service.CheckoutService) *StoreHandler {
	return &StoreHandler{
		catalog:  catalog,
		cart:     cart,
		checkout: checkout,
	}
}

// ListProducts returns in-stock products plus the caller's cart total.
// GET /api/products
func (h *StoreHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.ListInStock()
	if err != nil {
		logger.Log.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch products",
		})
		return
	}

	items, err := h.cart.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logger.Log.Error("Failed to load cart", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products":   products,
		"cart_total": service.Total(items),
	})
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
}

// AddToCart puts one unit of a product into the caller's cart.
// POST /api/cart
func (h *StoreHandler) AddToCart(c *gin.Context) {
	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	product, err := h.catalog.GetProduct(req.ProductID)
	if err != nil {
		logger.Log.Error("Failed to fetch product",
			zap.Uint("product_id", req.ProductID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch product",
		})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Product not found",
		})
		return
	}

	userID := middleware.UserID(c)
	items, err := h.cart.Add(c.Request.Context(), userID, product)
	if err != nil {
		if errors.Is(err, service.ErrOutOfStock) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Product is out of stock",
			})
			return
		}
		logger.Log.Error("Failed to add to cart",
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to add to cart",
		})
		return
	}

	logger.Log.Info("Product added to cart",
		zap.Uint("user_id", userID),
		zap.Uint("product_id", product.ID),
	)

	c.JSON(http.StatusOK, gin.H{
		"cart":       items,
		"cart_total": service.Total(items),
	})
}

// GetCart returns the caller's cart.
// GET /api/cart
func (h *StoreHandler) GetCart(c *gin.Context) {
	items, err := h.cart.Get(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to load cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart":       items,
		"cart_total": service.Total(items),
	})
}

// ClearCart empties the caller's cart.
// DELETE /api/cart
func (h *StoreHandler) ClearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), middleware.UserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to clear cart",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}

// Checkout places an order from the caller's cart.
// POST /api/checkout
func (h *StoreHandler) Checkout(c *gin.Context) {
	userID := middleware.UserID(c)

	order, err := h.checkout.Checkout(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Cart is empty",
			})
		case errors.Is(err, service.ErrInsufficientStock):
			c.JSON(http.StatusConflict, gin.H{
				"error": err.Error(),
			})
		default:
			logger.Log.Error("Checkout failed",
				zap.Uint("user_id", userID),
				zap.Error(err),
			)
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Error placing order",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order placed successfully",
		"order": gin.H{
			"id":           order.ID,
			"total_amount": order.TotalAmount,
			"status":       order.Status,
		},
	})
}

// ListOrders returns the caller's order history.
// GET /api/orders
func (h *StoreHandler) ListOrders(c *gin.Context) {
	orders, err := h.checkout.OrdersForUser(middleware.UserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch orders",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
	})
}

// parseID converts a :id path param.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid id",
		})
		return 0, false
	}
	return uint(id), true
}
