// models/equipment.go
package models

import "time"

// EquipmentType enumerates the kinds of assignable units.
type EquipmentType string

const (
	EquipmentScanner EquipmentType = "scanner"
	EquipmentPrinter EquipmentType = "printer"
)

// RequiredEquipmentTypes is the full set an employee needs before their
// registration session is considered complete.
var RequiredEquipmentTypes = []EquipmentType{EquipmentScanner, EquipmentPrinter}

// Equipment is an RFID-tagged unit (scanner or printer) that can be
// assigned to at most one employee.
type Equipment struct {
	ID           string        `bson:"id" json:"id"`
	Name         string        `bson:"name" json:"name"`
	RFID         string        `bson:"rfid" json:"rfid"`
	SerialNumber string        `bson:"serialNumber" json:"serialNumber"`
	Type         EquipmentType `bson:"type" json:"type"`
	EmployeeID   *string       `bson:"employeeId,omitempty" json:"employeeId,omitempty"`
	CreatedAt    time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// HasAllRequiredTypes reports whether the given equipment covers every
// required type.
func HasAllRequiredTypes(items []Equipment) bool {
	owned := make(map[EquipmentType]bool, len(items))
	for _, item := range items {
		owned[item.Type] = true
	}
	for _, t := range RequiredEquipmentTypes {
		if !owned[t] {
			return false
		}
	}
	return true
}
