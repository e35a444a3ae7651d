package service

import (
	"errors"
	"math"

	"github.com/wparames/honeymart/internal/models"
	"github.com/wparames/honeymart/internal/pipeline"
	"github.com/wparames/honeymart/internal/repository"
	"github.com/wparames/honeymart/pkg/logger"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidName     = errors.New("invalid product name")
	ErrInvalidPrice    = errors.New("price must be greater than 0 and at most 100000")
	ErrInvalidStock    = errors.New("stock must be between 0 and 10000")
)

// CatalogService covers storefront browsing and admin product management.
type CatalogService struct {
	productRepo *repository.ProductRepository
}

func NewCatalogService(productRepo *repository.ProductRepository) *CatalogService {
	return &CatalogService{productRepo: productRepo}
}

func (s *CatalogService) ListInStock() ([]models.Product, error) {
	return s.productRepo.GetInStockProducts()
}

func (s *CatalogService) ListAll() ([]models.Product, error) {
	return s.productRepo.GetAllProducts()
}

func (s *CatalogService) GetProduct(id uint) (*models.Product, error) {
	return s.productRepo.GetProductByID(id)
}

// SaveProduct creates a product, or updates it when id is non-zero. Admin
// input goes through the same name sanitizer the refresh pipeline uses;
// price and stock are bound-checked against the pipeline's limits.
func (s *CatalogService) SaveProduct(id uint, name string, price float64, stock int) (*models.Product, error) {
	cleanName, ok := pipeline.SanitizeProductName(name)
	if !ok {
		return nil, ErrInvalidName
	}
	if price <= pipeline.MinPrice || price > pipeline.MaxPrice {
		return nil, ErrInvalidPrice
	}
	if stock < pipeline.MinStock || stock > pipeline.MaxStock {
		return nil, ErrInvalidStock
	}
	price = math.Round(price*100) / 100

	if id == 0 {
		product := &models.Product{Name: cleanName, Price: price, Stock: stock}
		if err := s.productRepo.CreateProduct(product); err != nil {
			logger.Log.Error("Failed to create product",
				zap.String("name", cleanName),
				zap.Error(err),
			)
			return nil, err
		}
		logger.Log.Info("Product created",
			zap.Uint("product_id", product.ID),
			zap.String("name", cleanName),
		)
		return product, nil
	}

	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrProductNotFound
	}

	product.Name = cleanName
	product.Price = price
	product.Stock = stock
	if err := s.productRepo.SaveProduct(product); err != nil {
		logger.Log.Error("Failed to update product",
			zap.Uint("product_id", id),
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Product updated",
		zap.Uint("product_id", product.ID),
		zap.String("name", cleanName),
	)
	return product, nil
}

func (s *CatalogService) DeleteProduct(id uint) error {
	product, err := s.productRepo.GetProductByID(id)
	if err != nil {
		return err
	}
	if product == nil {
		return ErrProductNotFound
	}

	if err := s.productRepo.DeleteProduct(id); err != nil {
		logger.Log.Error("Failed to delete product",
			zap.Uint("product_id", id),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Product deleted", zap.Uint("product_id", id))
	return nil
}
