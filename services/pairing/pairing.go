// Package pairing turns the stream of badge taps arriving at terminals
// into equipment assignment decisions. It correlates an employee tap and
// subsequent equipment taps at the same terminal through a short-lived
// registration session, gated by which dashboard users currently watch
// that terminal.
package pairing

import (
	"fmt"
	"strings"
	"sync"
	"time"

	employeeRepo "fleetwatch/database/repository/employee"
	equipmentRepo "fleetwatch/database/repository/equipment"
	transactionRepo "fleetwatch/database/repository/transaction"
	"fleetwatch/models"
	"fleetwatch/services/gate"
	"fleetwatch/services/registry"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Status levels pushed to dashboards.
const (
	StatusInfo    = "info"
	StatusSuccess = "success"
	StatusError   = "error"
)

// LiveChannel is the push surface the orchestrator emits through. The
// connection hub satisfies this; it also serves as the gate's watcher.
type LiveChannel interface {
	PushToSubscribers(terminalID string, message interface{})
	BroadcastDeviceList()
	HasSubscriber(terminalID string) bool
}

// Service is the pairing orchestrator. All collaborators are injected at
// construction; it holds no ambient state.
type Service struct {
	registry     *registry.Registry
	channel      LiveChannel
	gate         *gate.Gate
	employees    employeeRepo.EmployeeRepository
	equipment    equipmentRepo.EquipmentRepository
	transactions transactionRepo.TransactionRepository
	sessions     *sessionStore
	logger       *zap.Logger

	// locksMu guards locks; each terminal's mutex serializes the
	// read-decide-write sequence for that terminal only.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

// NewService wires the orchestrator to its collaborators.
func NewService(
	reg *registry.Registry,
	channel LiveChannel,
	g *gate.Gate,
	employees employeeRepo.EmployeeRepository,
	equipment equipmentRepo.EquipmentRepository,
	transactions transactionRepo.TransactionRepository,
	sessionTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		registry:     reg,
		channel:      channel,
		gate:         g,
		employees:    employees,
		equipment:    equipment,
		transactions: transactions,
		sessions:     newSessionStore(sessionTimeout),
		logger:       logger,
		locks:        make(map[string]*sync.Mutex),
	}
}

// lockTerminal acquires the per-terminal mutex and returns its unlock.
func (s *Service) lockTerminal(terminalID string) func() {
	s.locksMu.Lock()
	l, ok := s.locks[terminalID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[terminalID] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}

// HandleTelemetry processes one inbound telemetry event: it refreshes the
// registry, fans the raw data out to the terminal's subscribers,
// broadcasts the fleet snapshot, and, when the payload carries a badge
// id, runs the pairing decision for that terminal. Failures are pushed as
// status messages, never returned to the HTTP caller.
func (s *Service) HandleTelemetry(terminalID string, payload map[string]interface{}) {
	terminal := s.registry.UpdateData(terminalID, payload)

	if terminal.LatestData != nil {
		s.channel.PushToSubscribers(terminalID, models.ESPDataMessage{
			Type:     models.MsgTypeESPData,
			DeviceID: terminalID,
			Data:     terminal.LatestData.Data,
		})
	}
	s.channel.BroadcastDeviceList()

	rfid, ok := payload["rfid"].(string)
	if !ok || rfid == "" {
		return
	}

	unlock := s.lockTerminal(terminalID)
	defer unlock()

	canRegister := s.gate.IsAuthorizedAndWatched(terminalID, s.channel)
	status, message := s.resolveBadge(terminalID, rfid, canRegister)

	s.channel.PushToSubscribers(terminalID, models.RegistrationStatusMessage{
		Type:    models.MsgTypeRegistrationStatus,
		Status:  status,
		Message: message,
	})
}

// resolveBadge walks the badge decision sequence and returns the status
// to push. The per-terminal lock is held by the caller.
func (s *Service) resolveBadge(terminalID, rfid string, canRegister bool) (string, string) {
	employee, err := s.employees.GetByRFID(rfid)
	if err != nil {
		s.logger.Error("employee lookup failed", zap.String("terminalID", terminalID), zap.Error(err))
		return StatusError, "Internal error, please try again"
	}
	if employee != nil {
		return s.resolveEmployeeBadge(terminalID, *employee, canRegister)
	}

	equipment, err := s.equipment.GetByRFID(rfid)
	if err != nil {
		s.logger.Error("equipment lookup failed", zap.String("terminalID", terminalID), zap.Error(err))
		return StatusError, "Internal error, please try again"
	}
	if equipment == nil {
		return StatusError, "Unknown RFID badge"
	}
	return s.resolveEquipmentBadge(terminalID, *equipment, canRegister)
}

func (s *Service) resolveEmployeeBadge(terminalID string, employee models.Employee, canRegister bool) (string, string) {
	if canRegister {
		s.sessions.startOrReplace(terminalID, employee)
		return StatusInfo, fmt.Sprintf("Employee %s active. Present a scanner or a printer", employee.FullName())
	}

	// Read-only disclosure of what the employee currently holds.
	owned, err := s.equipment.GetByEmployee(employee.ID)
	if err != nil {
		s.logger.Error("owned equipment lookup failed", zap.String("employeeID", employee.ID), zap.Error(err))
		return StatusError, "Internal error, please try again"
	}
	if len(owned) == 0 {
		return StatusInfo, fmt.Sprintf("Employee %s holds no equipment", employee.FullName())
	}
	parts := make([]string, 0, len(owned))
	for _, item := range owned {
		parts = append(parts, fmt.Sprintf("%s: %s", item.Type, item.Name))
	}
	return StatusInfo, fmt.Sprintf("Employee %s holds %s", employee.FullName(), strings.Join(parts, ", "))
}

func (s *Service) resolveEquipmentBadge(terminalID string, equipment models.Equipment, canRegister bool) (string, string) {
	if !canRegister {
		if equipment.EmployeeID == nil {
			return StatusInfo, fmt.Sprintf("%s %s is not assigned to anyone", equipment.Type, equipment.Name)
		}
		owner, err := s.employees.GetByID(*equipment.EmployeeID)
		if err != nil || owner == nil {
			s.logger.Error("owner lookup failed", zap.String("equipmentID", equipment.ID), zap.Error(err))
			return StatusError, "Internal error, please try again"
		}
		return StatusInfo, fmt.Sprintf("%s %s belongs to %s. No permission to change assignments",
			equipment.Type, equipment.Name, owner.FullName())
	}

	employee, active := s.sessions.get(terminalID)
	if !active {
		return s.unassignWithoutSession(terminalID, equipment)
	}
	return s.assignToEmployee(terminalID, equipment, employee)
}

// unassignWithoutSession handles an equipment tap with no employee
// present: an owned unit is released, an unowned one is an input error.
func (s *Service) unassignWithoutSession(terminalID string, equipment models.Equipment) (string, string) {
	if equipment.EmployeeID == nil {
		return StatusError, "Present an employee badge first"
	}

	if err := s.equipment.SetOwner(equipment.ID, nil); err != nil {
		s.logger.Error("failed to unassign equipment",
			zap.String("terminalID", terminalID),
			zap.String("equipmentID", equipment.ID),
			zap.Error(err))
		return StatusError, "Internal error, please try again"
	}
	s.recordTransaction(models.TransactionUnregistered, equipment.ID, nil)
	return StatusSuccess, fmt.Sprintf("%s %s has been unassigned", equipment.Type, equipment.Name)
}

// assignToEmployee attaches the equipment to the session's employee,
// enforcing the one-unit-per-type invariant, and decides completion from
// a fresh storage read rather than any cached view.
func (s *Service) assignToEmployee(terminalID string, equipment models.Equipment, employee models.Employee) (string, string) {
	owned, err := s.equipment.GetByEmployee(employee.ID)
	if err != nil {
		s.logger.Error("owned equipment lookup failed", zap.String("employeeID", employee.ID), zap.Error(err))
		return StatusError, "Internal error, please try again"
	}
	for _, item := range owned {
		if item.Type == equipment.Type {
			return StatusError, fmt.Sprintf("Employee %s already holds a %s (%s)",
				employee.FullName(), equipment.Type, item.Name)
		}
	}

	employeeID := employee.ID
	if err := s.equipment.SetOwner(equipment.ID, &employeeID); err != nil {
		// Nothing committed: the session keeps its previous timer.
		s.logger.Error("failed to assign equipment",
			zap.String("terminalID", terminalID),
			zap.String("equipmentID", equipment.ID),
			zap.Error(err))
		return StatusError, "Internal error, please try again"
	}
	s.recordTransaction(models.TransactionRegistered, equipment.ID, &employeeID)

	owned, err = s.equipment.GetByEmployee(employee.ID)
	if err != nil {
		// The assignment committed; without a fresh view we cannot judge
		// completion, so keep the session alive.
		s.logger.Error("post-assign equipment lookup failed", zap.String("employeeID", employee.ID), zap.Error(err))
		s.sessions.touch(terminalID)
		return StatusSuccess, fmt.Sprintf("%s %s assigned to %s", equipment.Type, equipment.Name, employee.FullName())
	}

	if models.HasAllRequiredTypes(owned) {
		s.sessions.end(terminalID)
		return StatusSuccess, fmt.Sprintf("%s now has a scanner and a printer. Registration complete", employee.FullName())
	}

	s.sessions.touch(terminalID)
	return StatusSuccess, fmt.Sprintf("%s %s assigned to %s", equipment.Type, equipment.Name, employee.FullName())
}

// recordTransaction appends one audit record for a committed mutation.
// Failures are logged; the ownership change itself already committed.
func (s *Service) recordTransaction(txType models.TransactionType, equipmentID string, employeeID *string) {
	tx := &models.Transaction{
		ID:          uuid.NewString(),
		Timestamp:   time.Now(),
		Type:        txType,
		EquipmentID: equipmentID,
		EmployeeID:  employeeID,
	}
	if err := s.transactions.Create(tx); err != nil {
		s.logger.Error("failed to record transaction",
			zap.String("equipmentID", equipmentID),
			zap.String("type", string(txType)),
			zap.Error(err))
	}
}

// EndSession force-clears the terminal's registration session, reporting
// whether one was active.
func (s *Service) EndSession(terminalID string) bool {
	unlock := s.lockTerminal(terminalID)
	defer unlock()
	return s.sessions.end(terminalID)
}
