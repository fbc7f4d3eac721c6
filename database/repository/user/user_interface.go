package userRepo

import "fleetwatch/models"

// UserRepository defines methods for dashboard user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID.
	GetByID(id string) (*models.User, error)
	// GetByUsername retrieves a user by username. Returns nil when no
	// such user exists.
	GetByUsername(username string) (*models.User, error)
	// Search retrieves users whose username or name matches the query.
	// An empty query returns all users.
	Search(query string) ([]models.User, error)
	// Create inserts a new user record.
	Create(user *models.User) error
	// Update modifies an existing user record.
	Update(user *models.User) error
	// Delete removes a user record by its ID.
	Delete(id string) error
}
