// models/employee.go
package models

import "time"

// Employee is a badge holder who can have equipment assigned.
type Employee struct {
	ID        string    `bson:"id" json:"id"`
	FirstName string    `bson:"firstName" json:"firstName"`
	LastName  string    `bson:"lastName" json:"lastName"`
	RFID      string    `bson:"rfid" json:"rfid"`
	Company   string    `bson:"company" json:"company"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// FullName returns the employee's display name.
func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
