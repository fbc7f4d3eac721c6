package equipmentRepo

import (
	"context"
	"fmt"
	"time"

	"fleetwatch/database"
	"fleetwatch/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoEquipmentRepo implements EquipmentRepository using MongoDB.
type MongoEquipmentRepo struct {
	coll *mongo.Collection
}

// NewMongoEquipmentRepo creates a new instance of EquipmentRepository using MongoDB.
func NewMongoEquipmentRepo() EquipmentRepository {
	coll := database.GetCollection("equipment")
	repo := &MongoEquipmentRepo{coll: coll}

	if err := repo.ensureIndexes(); err != nil {
		fmt.Printf("failed to create indexes: %v\n", err)
	}
	return repo
}

// newContext creates a context with the given timeout.
func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// ensureIndexes creates indexes for fields frequently used in queries.
func (r *MongoEquipmentRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "rfid", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "employeeId", Value: 1}}},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves an equipment unit by its unique ID.
func (r *MongoEquipmentRepo) GetByID(id string) (*models.Equipment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var equipment models.Equipment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&equipment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch equipment with id %s: %w", id, err)
	}
	return &equipment, nil
}

// GetByRFID retrieves an equipment unit by its badge id.
func (r *MongoEquipmentRepo) GetByRFID(rfid string) (*models.Equipment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var equipment models.Equipment
	if err := r.coll.FindOne(ctx, bson.M{"rfid": rfid}).Decode(&equipment); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch equipment with rfid %s: %w", rfid, err)
	}
	return &equipment, nil
}

// GetByEmployee retrieves every unit currently assigned to the employee.
func (r *MongoEquipmentRepo) GetByEmployee(employeeID string) ([]models.Equipment, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"employeeId": employeeID})
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve equipment for employee %s: %w", employeeID, err)
	}
	defer cursor.Close(ctx)

	var items []models.Equipment
	for cursor.Next(ctx) {
		var e models.Equipment
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode equipment: %w", err)
		}
		items = append(items, e)
	}
	return items, nil
}

// Search retrieves equipment matching the query on name, serial or badge.
func (r *MongoEquipmentRepo) Search(query string) ([]models.Equipment, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{}
	if query != "" {
		regex := bson.M{"$regex": query, "$options": "i"}
		filter = bson.M{"$or": []bson.M{
			{"name": regex},
			{"serialNumber": regex},
			{"rfid": regex},
		}}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve equipment: %w", err)
	}
	defer cursor.Close(ctx)

	var items []models.Equipment
	for cursor.Next(ctx) {
		var e models.Equipment
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode equipment: %w", err)
		}
		items = append(items, e)
	}
	return items, nil
}

// Create inserts a new equipment document.
func (r *MongoEquipmentRepo) Create(equipment *models.Equipment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	equipment.CreatedAt = now
	equipment.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, equipment)
	if err != nil {
		return fmt.Errorf("failed to create equipment: %w", err)
	}
	return nil
}

// Update modifies an existing equipment document.
func (r *MongoEquipmentRepo) Update(equipment *models.Equipment) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	equipment.UpdatedAt = time.Now()
	filter := bson.M{"id": equipment.ID}
	update := bson.M{"$set": equipment}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update equipment with id %s: %w", equipment.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("equipment with id %s not found", equipment.ID)
	}
	return nil
}

// SetOwner changes the owning employee of a unit. A nil employeeID clears
// the assignment.
func (r *MongoEquipmentRepo) SetOwner(id string, employeeID *string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var update bson.M
	if employeeID == nil {
		update = bson.M{
			"$unset": bson.M{"employeeId": ""},
			"$set":   bson.M{"updatedAt": time.Now()},
		}
	} else {
		update = bson.M{
			"$set": bson.M{"employeeId": *employeeID, "updatedAt": time.Now()},
		}
	}

	filter := bson.M{"id": id}
	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to set owner of equipment %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("equipment with id %s not found", id)
	}
	return nil
}

// Delete removes an equipment document by its ID.
func (r *MongoEquipmentRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete equipment with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("equipment with id %s not found", id)
	}
	return nil
}
