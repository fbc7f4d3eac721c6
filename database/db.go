package database

import (
	"context"
	"time"

	"fleetwatch/config"
	"fleetwatch/utils"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

const databaseName = "fleetwatch"

// MongoClient is the global MongoDB client instance.
var MongoClient *mongo.Client

// InitDB connects the global Mongo client and verifies the connection.
func InitDB() {
	logger := utils.GetLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(config.AppConfig.DatabaseURL)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		logger.Fatal("failed to connect to MongoDB", zap.Error(err))
	}
	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal("failed to ping MongoDB", zap.Error(err))
	}

	MongoClient = client
	logger.Info("connected to MongoDB", zap.String("database", databaseName))
}

// GetCollection returns a handle in the application database.
func GetCollection(name string) *mongo.Collection {
	return MongoClient.Database(databaseName).Collection(name)
}

// Disconnect closes the Mongo client during shutdown.
func Disconnect(ctx context.Context) {
	if MongoClient == nil {
		return
	}
	if err := MongoClient.Disconnect(ctx); err != nil {
		utils.GetLogger().Warn("mongo disconnect failed", zap.Error(err))
	}
}
