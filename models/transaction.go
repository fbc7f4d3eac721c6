// models/transaction.go
package models

import "time"

// TransactionType marks whether equipment was attached to or detached
// from an employee.
type TransactionType string

const (
	TransactionRegistered   TransactionType = "registered"
	TransactionUnregistered TransactionType = "unregistered"
)

// Transaction is one committed assignment or unassignment, appended to
// the persisted audit log.
type Transaction struct {
	ID          string          `bson:"id" json:"id"`
	Timestamp   time.Time       `bson:"timestamp" json:"timestamp"`
	Type        TransactionType `bson:"type" json:"type"`
	EquipmentID string          `bson:"equipmentId" json:"equipmentId"`
	EmployeeID  *string         `bson:"employeeId,omitempty" json:"employeeId,omitempty"`
}

// TransactionFilter narrows admin transaction listings.
type TransactionFilter struct {
	EmployeeQuery  string
	EquipmentQuery string
	Type           TransactionType
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}
