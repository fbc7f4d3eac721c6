package handlers

import (
	userRepo "fleetwatch/database/repository/user"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups every route handler plus the repositories the
// route middleware needs.
type HandlerBundle struct {
	UserRepo userRepo.UserRepository

	// Telemetry and live channel.
	ReceiveData gin.HandlerFunc
	ServeWS     gin.HandlerFunc

	// Registration permissions and sessions.
	SubscribeESP   gin.HandlerFunc
	UnsubscribeESP gin.HandlerFunc
	EndSession     gin.HandlerFunc

	// Terminal status.
	ListDevices gin.HandlerFunc
	GetDevice   gin.HandlerFunc

	// Authentication.
	Login        gin.HandlerFunc
	Logout       gin.HandlerFunc
	RegisterUser gin.HandlerFunc

	// Admin CRUD.
	CreateEmployee   gin.HandlerFunc
	ListEmployees    gin.HandlerFunc
	UpdateEmployee   gin.HandlerFunc
	DeleteEmployee   gin.HandlerFunc
	CreateEquipment  gin.HandlerFunc
	ListEquipment    gin.HandlerFunc
	UpdateEquipment  gin.HandlerFunc
	DeleteEquipment  gin.HandlerFunc
	ListTransactions gin.HandlerFunc
	ListUsers        gin.HandlerFunc
}
