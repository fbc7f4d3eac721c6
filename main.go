// File: fleetwatch/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"fleetwatch/config"
	"fleetwatch/cron"
	"fleetwatch/database"
	employeeRepo "fleetwatch/database/repository/employee"
	equipmentRepo "fleetwatch/database/repository/equipment"
	transactionRepo "fleetwatch/database/repository/transaction"
	userRepoPkg "fleetwatch/database/repository/user"
	"fleetwatch/handlers"
	"fleetwatch/routes"
	"fleetwatch/services/auth"
	"fleetwatch/services/gate"
	"fleetwatch/services/hub"
	"fleetwatch/services/pairing"
	"fleetwatch/services/registry"
	"fleetwatch/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitAuthCache()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())

	// repositories.
	employees := employeeRepo.NewMongoEmployeeRepo()
	equipment := equipmentRepo.NewMongoEquipmentRepo()
	transactions := transactionRepo.NewMongoTransactionRepo()
	users := userRepoPkg.NewMongoUserRepo()

	// core state, injected everywhere by reference.
	deviceRegistry := registry.New(logger)
	connectionHub := hub.New(deviceRegistry, logger)
	permissionGate := gate.New(config.AppConfig.AllowRegistrationWithoutLogin)

	pairingService := pairing.NewService(
		deviceRegistry,
		connectionHub,
		permissionGate,
		employees,
		equipment,
		transactions,
		config.RegistrationTimeout(),
		logger,
	)

	authService := &auth.DefaultAuthService{
		Users: users,
		Cache: utils.GetAuthCacheClient(),
	}

	telemetryHandler := handlers.NewTelemetryHandler(pairingService)
	wsHandler := handlers.NewWSHandler(connectionHub, deviceRegistry)
	permissionHandler := handlers.NewPermissionHandler(permissionGate)
	sessionHandler := handlers.NewSessionHandler(pairingService)
	deviceHandler := handlers.NewDeviceHandler(deviceRegistry)
	authHandler := handlers.NewAuthHandler(authService, permissionGate)
	adminHandler := handlers.NewAdminHandler(employees, equipment, transactions, users)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		UserRepo: users,

		ReceiveData: telemetryHandler.ReceiveData,
		ServeWS:     wsHandler.Serve,

		SubscribeESP:   permissionHandler.SubscribeESP,
		UnsubscribeESP: permissionHandler.UnsubscribeESP,
		EndSession:     sessionHandler.EndSession,

		ListDevices: deviceHandler.ListDevices,
		GetDevice:   deviceHandler.GetDevice,

		Login:        authHandler.Login,
		Logout:       authHandler.Logout,
		RegisterUser: authHandler.RegisterUser,

		CreateEmployee:   adminHandler.CreateEmployee,
		ListEmployees:    adminHandler.ListEmployees,
		UpdateEmployee:   adminHandler.UpdateEmployee,
		DeleteEmployee:   adminHandler.DeleteEmployee,
		CreateEquipment:  adminHandler.CreateEquipment,
		ListEquipment:    adminHandler.ListEquipment,
		UpdateEquipment:  adminHandler.UpdateEquipment,
		DeleteEquipment:  adminHandler.DeleteEquipment,
		ListTransactions: adminHandler.ListTransactions,
		ListUsers:        adminHandler.ListUsers,
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Background liveness sweep.
	sweepCtx, cancelSweep := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	cron.StartDeviceSweeper(sweepCtx, &wg, deviceRegistry, connectionHub,
		config.SweepInterval(), config.DeviceTimeout(), logger)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	cancelSweep()
	wg.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}
	database.Disconnect(ctx)

	logger.Sugar().Info("main: server stopped gracefully")
}
