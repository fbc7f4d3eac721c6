package employeeRepo

import "fleetwatch/models"

// EmployeeRepository defines methods for employee data access.
type EmployeeRepository interface {
	// GetByID retrieves an employee by their unique ID.
	GetByID(id string) (*models.Employee, error)
	// GetByRFID retrieves an employee by badge id. Returns nil when no
	// employee carries that badge.
	GetByRFID(rfid string) (*models.Employee, error)
	// Search retrieves employees whose name, company or badge matches the
	// query. An empty query returns all employees.
	Search(query string) ([]models.Employee, error)
	// Create inserts a new employee record.
	Create(employee *models.Employee) error
	// Update modifies an existing employee record.
	Update(employee *models.Employee) error
	// Delete removes an employee record by its ID.
	Delete(id string) error
}
