package testutil

import (
	"github.com/wparames/honeymart/internal/models"
	"github.com/wparames/honeymart/internal/utils"
)

// CreateTestUser creates a user with a hashed password.
func CreateTestUser(email, password string, role models.Role) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}

	return &models.User{
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         role,
	}, nil
}

// DefaultTestUser returns a default regular user.
func DefaultTestUser() (*models.User, error) {
	return CreateTestUser("test@example.com", "Test123456", models.RoleUser)
}

// DefaultAdminUser returns a default admin user.
func DefaultAdminUser() (*models.User, error) {
	return CreateTestUser("admin@example.com", "Admin123456", models.RoleAdmin)
}

// CreateTestProduct returns an unsaved product row.
func CreateTestProduct(name string, price float64, stock int) *models.Product {
	return &models.Product{
		Name:  name,
		Price: price,
		Stock: stock,
	}
}
