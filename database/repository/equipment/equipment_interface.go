package equipmentRepo

import "fleetwatch/models"

// EquipmentRepository defines methods for equipment data access.
type EquipmentRepository interface {
	// GetByID retrieves an equipment unit by its unique ID.
	GetByID(id string) (*models.Equipment, error)
	// GetByRFID retrieves an equipment unit by its badge id. Returns nil
	// when no unit carries that badge.
	GetByRFID(rfid string) (*models.Equipment, error)
	// GetByEmployee retrieves every unit currently assigned to the employee.
	GetByEmployee(employeeID string) ([]models.Equipment, error)
	// Search retrieves equipment whose name, serial or badge matches the
	// query. An empty query returns all units.
	Search(query string) ([]models.Equipment, error)
	// Create inserts a new equipment record.
	Create(equipment *models.Equipment) error
	// Update modifies an existing equipment record.
	Update(equipment *models.Equipment) error
	// SetOwner changes the owning employee of a unit. A nil employeeID
	// clears the assignment.
	SetOwner(id string, employeeID *string) error
	// Delete removes an equipment record by its ID.
	Delete(id string) error
}
