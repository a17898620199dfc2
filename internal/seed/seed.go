// Package seed fills empty repositories with a demo catalog and account.
package seed

import (
	"errors"
	"fmt"
	"log"

	"storefront/internal/apperrors"
	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
)

// Demo account credentials created by Users.
const (
	DemoEmail    = "demo@example.com"
	DemoPassword = "password123"
)

// Catalog returns the demo products. IDs are fixed so links stay stable
// across restarts.
func Catalog() []models.Product {
	price := decimal.RequireFromString
	return []models.Product{
		{ID: "7c1e4f2a-0b1d-4b6e-9a51-0d6f3a1c2b01", Name: "Laptop", Description: "High performance laptop", Price: price("1200.00"), Category: "electronics", Stock: 10, Rating: 4.6, ReviewCount: 128, Featured: true, ImageURL: "https://example.com/img/laptop.jpg"},
		{ID: "7c1e4f2a-0b1d-4b6e-9a51-0d6f3a1c2b02", Name: "Mechanical Keyboard", Description: "Tactile mechanical keyboard", Price: price("75.00"), Category: "accessories", Stock: 25, Rating: 4.4, ReviewCount: 86, ImageURL: "https://example.com/img/keyboard.jpg"},
		{ID: "7c1e4f2a-0b1d-4b6e-9a51-0d6f3a1c2b03", Name: "Wireless Mouse", Description: "Ergonomic wireless mouse", Price: price("25.00"), Category: "accessories", Stock: 50, Rating: 4.2, ReviewCount: 310, Featured: true, ImageURL: "https://example.com/img/mouse.jpg"},
		{ID: "7c1e4f2a-0b1d-4b6e-9a51-0d6f3a1c2b04", Name: "4K Monitor", Description: "27 inch UHD monitor", Price: price("349.99"), Category: "electronics", Stock: 8, Rating: 4.7, ReviewCount: 54, Featured: true, ImageURL: "https://example.com/img/monitor.jpg"},
		{ID: "7c1e4f2a-0b1d-4b6e-9a51-0d6f3a1c2b05", Name: "USB-C Hub", Description: "7-in-1 USB-C adapter", Price: price("39.99"), Category: "accessories", Stock: 40, Rating: 4.1, ReviewCount: 73, ImageURL: "https://example.com/img/hub.jpg"},
		{ID: "7c1e4f2a-0b1d-4b6e-9a51-0d6f3a1c2b06", Name: "The Go Programming Language", Description: "Introductory book on Go", Price: price("34.50"), Category: "books", Stock: 15, Rating: 4.8, ReviewCount: 412, ImageURL: "https://example.com/img/gopl.jpg"},
		{ID: "7c1e4f2a-0b1d-4b6e-9a51-0d6f3a1c2b07", Name: "Noise Cancelling Headphones", Description: "Over-ear wireless headphones", Price: price("199.00"), Category: "electronics", Stock: 0, Rating: 4.5, ReviewCount: 201, ImageURL: "https://example.com/img/headphones.jpg"},
	}
}

// Products adds the demo catalog to repo, skipping products that already exist.
func Products(repo repositories.ProductRepository) error {
	products := Catalog()
	for i := range products {
		if _, err := repo.GetByID(products[i].ID); err == nil {
			continue
		}
		if err := repo.Create(&products[i]); err != nil {
			return fmt.Errorf("seed product %s: %w", products[i].Name, err)
		}
		log.Printf("Seeded product: %s (ID: %s)", products[i].Name, products[i].ID)
	}
	return nil
}

// Users registers the demo account unless it already exists.
func Users(auth *services.AuthService) error {
	err := auth.RegisterUser(&models.User{
		Email:     DemoEmail,
		Password:  DemoPassword,
		FirstName: "Demo",
		LastName:  "User",
	})
	if err != nil && !errors.Is(err, apperrors.ErrDuplicate) {
		return fmt.Errorf("seed demo user: %w", err)
	}
	return nil
}
