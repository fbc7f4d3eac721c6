package employeeRepo

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

// MongoEmployeeRepo implements EmployeeRepository using MongoDB.
type MongoEmployeeRepo struct {
	coll *mongo.Collection
}

// NewMongoEmployeeRepo creates a new instance of EmployeeRepository using MongoDB.
func NewMongoEmployeeRepo() EmployeeRepository {
	coll := database.GetCollection("employees")
	repo := &MongoEmployeeRepo{coll: coll}

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
func (r *MongoEmployeeRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "rfid", Value: 1}}, Options: options.Index().SetUnique(true)},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexModels)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// GetByID retrieves an employee by their unique ID.
func (r *MongoEmployeeRepo) GetByID(id string) (*models.Employee, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var employee models.Employee
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&employee); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch employee with id %s: %w", id, err)
	}
	return &employee, nil
}

// GetByRFID retrieves an employee by badge id.
func (r *MongoEmployeeRepo) GetByRFID(rfid string) (*models.Employee, error) {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var employee models.Employee
	if err := r.coll.FindOne(ctx, bson.M{"rfid": rfid}).Decode(&employee); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch employee with rfid %s: %w", rfid, err)
	}
	return &employee, nil
}

// Search retrieves employees matching the query on name, company or badge.
func (r *MongoEmployeeRepo) Search(query string) ([]models.Employee, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	filter := bson.M{}
	if query != "" {
		regex := bson.M{"$regex": query, "$options": "i"}
		filter = bson.M{"$or": []bson.M{
			{"firstName": regex},
			{"lastName": regex},
			{"company": regex},
			{"rfid": regex},
		}}
	}

	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve employees: %w", err)
	}
	defer cursor.Close(ctx)

	var employees []models.Employee
	for cursor.Next(ctx) {
		var e models.Employee
		if err := cursor.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode employee: %w", err)
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// Create inserts a new employee document.
func (r *MongoEmployeeRepo) Create(employee *models.Employee) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	employee.CreatedAt = now
	employee.UpdatedAt = now

	_, err := r.coll.InsertOne(ctx, employee)
	if err != nil {
		return fmt.Errorf("failed to create employee: %w", err)
	}
	return nil
}

// Update modifies an existing employee document.
func (r *MongoEmployeeRepo) Update(employee *models.Employee) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	employee.UpdatedAt = time.Now()
	filter := bson.M{"id": employee.ID}
	update := bson.M{"$set": employee}

	result, err := r.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update employee with id %s: %w", employee.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("employee with id %s not found", employee.ID)
	}
	return nil
}

// Delete removes an employee document by its ID.
func (r *MongoEmployeeRepo) Delete(id string) error {
	ctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := r.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete employee with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("employee with id %s not found", id)
	}
	return nil
}
