package handlers

import (
	"net/http"
	"strconv"
	"time"

	employeeRepo "fleetwatch/database/repository/employee"
	equipmentRepo "fleetwatch/database/repository/equipment"
	transactionRepo "fleetwatch/database/repository/transaction"
	userRepo "fleetwatch/database/repository/user"
	"fleetwatch/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminHandler serves the administrative CRUD surface for employees,
// equipment, users and the transaction log.
type AdminHandler struct {
	Employees    employeeRepo.EmployeeRepository
	Equipment    equipmentRepo.EquipmentRepository
	Transactions transactionRepo.TransactionRepository
	Users        userRepo.UserRepository
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(
	employees employeeRepo.EmployeeRepository,
	equipment equipmentRepo.EquipmentRepository,
	transactions transactionRepo.TransactionRepository,
	users userRepo.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		Employees:    employees,
		Equipment:    equipment,
		Transactions: transactions,
		Users:        users,
	}
}

// ---- Employees ----

type employeeRequest struct {
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	RFID      string `json:"rfid" binding:"required"`
	Company   string `json:"company"`
}

// CreateEmployee handles POST /admin/api/employees.
func (h *AdminHandler) CreateEmployee(c *gin.Context) {
	logger := getLogger(c)

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	existing, err := h.Employees.GetByRFID(req.RFID)
	if err != nil {
		logger.Error("employee lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Employee with this RFID already exists"})
		return
	}

	employee := &models.Employee{
		ID:        uuid.NewString(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		RFID:      req.RFID,
		Company:   req.Company,
	}
	if err := h.Employees.Create(employee); err != nil {
		logger.Error("failed to create employee", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create employee"})
		return
	}
	c.JSON(http.StatusCreated, employee)
}

// ListEmployees handles GET /admin/api/employees?q=.
func (h *AdminHandler) ListEmployees(c *gin.Context) {
	employees, err := h.Employees.Search(c.Query("q"))
	if err != nil {
		getLogger(c).Error("failed to list employees", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list employees"})
		return
	}
	c.JSON(http.StatusOK, employees)
}

// UpdateEmployee handles PUT /admin/api/employees/:id.
func (h *AdminHandler) UpdateEmployee(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	employee, err := h.Employees.GetByID(id)
	if err != nil || employee == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}

	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	employee.FirstName = req.FirstName
	employee.LastName = req.LastName
	employee.RFID = req.RFID
	employee.Company = req.Company
	if err := h.Employees.Update(employee); err != nil {
		logger.Error("failed to update employee", zap.String("employeeID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update employee"})
		return
	}
	c.JSON(http.StatusOK, employee)
}

// DeleteEmployee handles DELETE /admin/api/employees/:id.
func (h *AdminHandler) DeleteEmployee(c *gin.Context) {
	id := c.Param("id")
	if err := h.Employees.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Employee not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ---- Equipment ----

type equipmentRequest struct {
	Name         string               `json:"name" binding:"required"`
	RFID         string               `json:"rfid" binding:"required"`
	SerialNumber string               `json:"serial_number"`
	Type         models.EquipmentType `json:"type" binding:"required"`
}

// CreateEquipment handles POST /admin/api/equipment.
func (h *AdminHandler) CreateEquipment(c *gin.Context) {
	logger := getLogger(c)

	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	existing, err := h.Equipment.GetByRFID(req.RFID)
	if err != nil {
		logger.Error("equipment lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create equipment"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Equipment with this RFID already exists"})
		return
	}

	equipment := &models.Equipment{
		ID:           uuid.NewString(),
		Name:         req.Name,
		RFID:         req.RFID,
		SerialNumber: req.SerialNumber,
		Type:         req.Type,
	}
	if err := h.Equipment.Create(equipment); err != nil {
		logger.Error("failed to create equipment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create equipment"})
		return
	}
	c.JSON(http.StatusCreated, equipment)
}

// ListEquipment handles GET /admin/api/equipment?q=.
func (h *AdminHandler) ListEquipment(c *gin.Context) {
	items, err := h.Equipment.Search(c.Query("q"))
	if err != nil {
		getLogger(c).Error("failed to list equipment", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list equipment"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// UpdateEquipment handles PUT /admin/api/equipment/:id. Assignment is
// changed through the pairing flow, never here; only descriptive fields
// are writable.
func (h *AdminHandler) UpdateEquipment(c *gin.Context) {
	logger := getLogger(c)
	id := c.Param("id")

	equipment, err := h.Equipment.GetByID(id)
	if err != nil || equipment == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}

	var req equipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	equipment.Name = req.Name
	equipment.RFID = req.RFID
	equipment.SerialNumber = req.SerialNumber
	equipment.Type = req.Type
	if err := h.Equipment.Update(equipment); err != nil {
		logger.Error("failed to update equipment", zap.String("equipmentID", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update equipment"})
		return
	}
	c.JSON(http.StatusOK, equipment)
}

// DeleteEquipment handles DELETE /admin/api/equipment/:id.
func (h *AdminHandler) DeleteEquipment(c *gin.Context) {
	id := c.Param("id")
	if err := h.Equipment.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Equipment not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ---- Transactions ----

// ListTransactions handles GET /admin/api/transactions with paging and
// employee/equipment/date/type filters.
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	filter := models.TransactionFilter{
		EmployeeQuery:  c.Query("employee_q"),
		EquipmentQuery: c.Query("equipment_q"),
		Type:           models.TransactionType(c.Query("tx_type")),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if from, err := time.Parse(time.RFC3339, c.Query("date_from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("date_to")); err == nil {
		filter.To = &to
	}

	txs, total, err := h.Transactions.List(filter)
	if err != nil {
		getLogger(c).Error("failed to list transactions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "transactions": txs})
}

// ---- Users ----

// ListUsers handles GET /admin/api/users?q=.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	users, err := h.Users.Search(c.Query("q"))
	if err != nil {
		getLogger(c).Error("failed to list users", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}
	c.JSON(http.StatusOK, users)
}
