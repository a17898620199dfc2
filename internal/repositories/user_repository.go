package repositories

import "storefront/internal/models"

// UserRepository defines the interface for user data access. Emails are
// unique; Create fails with apperrors.ErrDuplicate for a taken email.
type UserRepository interface {
	Create(user *models.User) error
	GetByEmail(email string) (*models.User, error)
	GetByID(id string) (*models.User, error)
}
