package pairing

import (
	"errors"
	"testing"
	"time"

	"fleetwatch/models"
	"fleetwatch/services/gate"
	"fleetwatch/services/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeChannel records every push and plays the watcher role for the gate.
type fakeChannel struct {
	watched map[string]bool
	pushes  []interface{}
	listCnt int
}

func (f *fakeChannel) PushToSubscribers(_ string, message interface{}) {
	f.pushes = append(f.pushes, message)
}

func (f *fakeChannel) BroadcastDeviceList() { f.listCnt++ }

func (f *fakeChannel) HasSubscriber(terminalID string) bool { return f.watched[terminalID] }

// lastStatus returns the most recent registration status pushed, if any.
func (f *fakeChannel) lastStatus() (models.RegistrationStatusMessage, bool) {
	for i := len(f.pushes) - 1; i >= 0; i-- {
		if msg, ok := f.pushes[i].(models.RegistrationStatusMessage); ok {
			return msg, true
		}
	}
	return models.RegistrationStatusMessage{}, false
}

type fakeEmployeeRepo struct {
	employees []models.Employee
}

func (f *fakeEmployeeRepo) GetByID(id string) (*models.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) GetByRFID(rfid string) (*models.Employee, error) {
	for _, e := range f.employees {
		if e.RFID == rfid {
			out := e
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeEmployeeRepo) Search(string) ([]models.Employee, error) { return f.employees, nil }
func (f *fakeEmployeeRepo) Create(*models.Employee) error            { return nil }
func (f *fakeEmployeeRepo) Update(*models.Employee) error            { return nil }
func (f *fakeEmployeeRepo) Delete(string) error                      { return nil }

type fakeEquipmentRepo struct {
	items       map[string]*models.Equipment
	setOwnerErr error

	getByEmployeeCalls  int
	failGetByEmployeeAt int // 1-based call index to fail, 0 = never
}

func (f *fakeEquipmentRepo) GetByID(id string) (*models.Equipment, error) {
	if item, ok := f.items[id]; ok {
		out := *item
		return &out, nil
	}
	return nil, nil
}

func (f *fakeEquipmentRepo) GetByRFID(rfid string) (*models.Equipment, error) {
	for _, item := range f.items {
		if item.RFID == rfid {
			out := *item
			return &out, nil
		}
	}
	return nil, nil
}

func (f *fakeEquipmentRepo) GetByEmployee(employeeID string) ([]models.Equipment, error) {
	f.getByEmployeeCalls++
	if f.failGetByEmployeeAt != 0 && f.getByEmployeeCalls == f.failGetByEmployeeAt {
		return nil, errors.New("read timeout")
	}
	var out []models.Equipment
	for _, item := range f.items {
		if item.EmployeeID != nil && *item.EmployeeID == employeeID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (f *fakeEquipmentRepo) Search(string) ([]models.Equipment, error) { return nil, nil }
func (f *fakeEquipmentRepo) Create(*models.Equipment) error            { return nil }
func (f *fakeEquipmentRepo) Update(*models.Equipment) error            { return nil }
func (f *fakeEquipmentRepo) Delete(string) error                       { return nil }

func (f *fakeEquipmentRepo) SetOwner(id string, employeeID *string) error {
	if f.setOwnerErr != nil {
		return f.setOwnerErr
	}
	item, ok := f.items[id]
	if !ok {
		return errors.New("equipment not found")
	}
	item.EmployeeID = employeeID
	return nil
}

type fakeTransactionRepo struct {
	records []models.Transaction
}

func (f *fakeTransactionRepo) Create(tx *models.Transaction) error {
	f.records = append(f.records, *tx)
	return nil
}

func (f *fakeTransactionRepo) List(models.TransactionFilter) ([]models.Transaction, int64, error) {
	return f.records, int64(len(f.records)), nil
}

type pairingFixture struct {
	service      *Service
	channel      *fakeChannel
	employees    *fakeEmployeeRepo
	equipment    *fakeEquipmentRepo
	transactions *fakeTransactionRepo
	gate         *gate.Gate
}

func strPtr(s string) *string { return &s }

// newFixture builds a service with one employee (badge emp-1) and an
// unassigned scanner and printer, on a terminal with full permission.
func newFixture(t *testing.T) *pairingFixture {
	t.Helper()

	employees := &fakeEmployeeRepo{employees: []models.Employee{
		{ID: "e1", FirstName: "Anna", LastName: "Keller", RFID: "emp-1"},
	}}
	equipment := &fakeEquipmentRepo{items: map[string]*models.Equipment{
		"q-scan":  {ID: "q-scan", Name: "Zebra DS2208", RFID: "scan-1", Type: models.EquipmentScanner},
		"q-print": {ID: "q-print", Name: "Zebra ZD421", RFID: "print-1", Type: models.EquipmentPrinter},
	}}
	transactions := &fakeTransactionRepo{}

	channel := &fakeChannel{watched: map[string]bool{"esp-1": true}}
	g := gate.New(false)
	g.Grant("esp-1", "user-1")

	service := NewService(
		registry.New(zap.NewNop()),
		channel,
		g,
		employees,
		equipment,
		transactions,
		time.Minute,
		zap.NewNop(),
	)

	return &pairingFixture{
		service:      service,
		channel:      channel,
		employees:    employees,
		equipment:    equipment,
		transactions: transactions,
		gate:         g,
	}
}

func tap(f *pairingFixture, terminalID, rfid string) models.RegistrationStatusMessage {
	f.service.HandleTelemetry(terminalID, map[string]interface{}{"rfid": rfid})
	msg, _ := f.channel.lastStatus()
	return msg
}

func TestTelemetryWithoutBadgeOnlyStreams(t *testing.T) {
	f := newFixture(t)

	f.service.HandleTelemetry("esp-1", map[string]interface{}{"temp": 21.5})

	_, pushed := f.channel.lastStatus()
	assert.False(t, pushed, "no badge means no registration status")
	assert.Equal(t, 1, f.channel.listCnt)

	// A non-string rfid field is ignored the same way.
	f.service.HandleTelemetry("esp-1", map[string]interface{}{"rfid": 42})
	_, pushed = f.channel.lastStatus()
	assert.False(t, pushed)
}

func TestUnknownBadgeIsRejected(t *testing.T) {
	f := newFixture(t)

	msg := tap(f, "esp-1", "nobody")
	assert.Equal(t, StatusError, msg.Status)
	assert.Equal(t, "Unknown RFID badge", msg.Message)
}

func TestEmployeeTapStartsSessionWhenPermitted(t *testing.T) {
	f := newFixture(t)

	msg := tap(f, "esp-1", "emp-1")
	assert.Equal(t, StatusInfo, msg.Status)
	assert.Contains(t, msg.Message, "Anna Keller active")

	_, active := f.service.sessions.get("esp-1")
	assert.True(t, active)
}

func TestEmployeeTapWithoutPermissionDisclosesHoldings(t *testing.T) {
	f := newFixture(t)
	f.channel.watched["esp-1"] = false // granted but nobody watching

	msg := tap(f, "esp-1", "emp-1")
	assert.Equal(t, StatusInfo, msg.Status)
	assert.Contains(t, msg.Message, "holds no equipment")

	_, active := f.service.sessions.get("esp-1")
	assert.False(t, active, "no session without full permission")

	f.equipment.items["q-scan"].EmployeeID = strPtr("e1")
	msg = tap(f, "esp-1", "emp-1")
	assert.Contains(t, msg.Message, "scanner: Zebra DS2208")
}

func TestEquipmentTapWithoutPermissionIsReadOnly(t *testing.T) {
	f := newFixture(t)
	f.gate.RevokeAllForUser("user-1")

	msg := tap(f, "esp-1", "scan-1")
	assert.Equal(t, StatusInfo, msg.Status)
	assert.Contains(t, msg.Message, "not assigned to anyone")
	assert.Nil(t, f.equipment.items["q-scan"].EmployeeID)

	f.equipment.items["q-scan"].EmployeeID = strPtr("e1")
	msg = tap(f, "esp-1", "scan-1")
	assert.Contains(t, msg.Message, "belongs to Anna Keller")
	assert.Contains(t, msg.Message, "No permission")
}

func TestEquipmentTapWithoutSessionRequiresOwner(t *testing.T) {
	f := newFixture(t)

	msg := tap(f, "esp-1", "scan-1")
	assert.Equal(t, StatusError, msg.Status)
	assert.Equal(t, "Present an employee badge first", msg.Message)
	assert.Empty(t, f.transactions.records)
}

func TestEquipmentTapWithoutSessionUnassignsOwnedUnit(t *testing.T) {
	f := newFixture(t)
	f.equipment.items["q-scan"].EmployeeID = strPtr("e1")

	msg := tap(f, "esp-1", "scan-1")
	assert.Equal(t, StatusSuccess, msg.Status)
	assert.Contains(t, msg.Message, "has been unassigned")
	assert.Nil(t, f.equipment.items["q-scan"].EmployeeID)

	require.Len(t, f.transactions.records, 1)
	assert.Equal(t, models.TransactionUnregistered, f.transactions.records[0].Type)
	assert.Equal(t, "q-scan", f.transactions.records[0].EquipmentID)
}

func TestFullRegistrationRunsToCompletion(t *testing.T) {
	f := newFixture(t)

	msg := tap(f, "esp-1", "emp-1")
	require.Equal(t, StatusInfo, msg.Status)

	msg = tap(f, "esp-1", "scan-1")
	assert.Equal(t, StatusSuccess, msg.Status)
	assert.Contains(t, msg.Message, "assigned to Anna Keller")
	_, active := f.service.sessions.get("esp-1")
	assert.True(t, active, "session survives a partial assignment")

	msg = tap(f, "esp-1", "print-1")
	assert.Equal(t, StatusSuccess, msg.Status)
	assert.Contains(t, msg.Message, "Registration complete")
	_, active = f.service.sessions.get("esp-1")
	assert.False(t, active, "completion ends the session")

	require.Len(t, f.transactions.records, 2)
	for _, tx := range f.transactions.records {
		assert.Equal(t, models.TransactionRegistered, tx.Type)
		require.NotNil(t, tx.EmployeeID)
		assert.Equal(t, "e1", *tx.EmployeeID)
	}
}

func TestSecondUnitOfSameTypeIsRefused(t *testing.T) {
	f := newFixture(t)
	f.equipment.items["q-scan2"] = &models.Equipment{
		ID: "q-scan2", Name: "Honeywell 1950", RFID: "scan-2", Type: models.EquipmentScanner,
	}

	tap(f, "esp-1", "emp-1")
	tap(f, "esp-1", "scan-1")

	msg := tap(f, "esp-1", "scan-2")
	assert.Equal(t, StatusError, msg.Status)
	assert.Contains(t, msg.Message, "already holds a scanner")
	assert.Nil(t, f.equipment.items["q-scan2"].EmployeeID)

	_, active := f.service.sessions.get("esp-1")
	assert.True(t, active, "a refused tap leaves the session in place")
}

func TestExpiredSessionFallsBackToUnassignPath(t *testing.T) {
	f := newFixture(t)
	current := time.Now()
	f.service.sessions.now = func() time.Time { return current }

	tap(f, "esp-1", "emp-1")
	current = current.Add(2 * time.Minute)

	// Session has lapsed; the equipment tap behaves as if no employee
	// were present.
	msg := tap(f, "esp-1", "scan-1")
	assert.Equal(t, StatusError, msg.Status)
	assert.Equal(t, "Present an employee badge first", msg.Message)
}

func TestSecondEmployeeTapReplacesSession(t *testing.T) {
	f := newFixture(t)
	f.employees.employees = append(f.employees.employees,
		models.Employee{ID: "e2", FirstName: "Ben", LastName: "Otieno", RFID: "emp-2"})

	tap(f, "esp-1", "emp-1")
	tap(f, "esp-1", "emp-2")

	tap(f, "esp-1", "scan-1")
	require.NotNil(t, f.equipment.items["q-scan"].EmployeeID)
	assert.Equal(t, "e2", *f.equipment.items["q-scan"].EmployeeID)
}

func TestPersistenceFailureKeepsSessionAlive(t *testing.T) {
	f := newFixture(t)
	f.equipment.setOwnerErr = errors.New("write timeout")

	tap(f, "esp-1", "emp-1")
	msg := tap(f, "esp-1", "scan-1")

	assert.Equal(t, StatusError, msg.Status)
	assert.Contains(t, msg.Message, "Internal error")
	assert.Empty(t, f.transactions.records)

	_, active := f.service.sessions.get("esp-1")
	assert.True(t, active, "a failed write must not consume the session")
}

func TestRereadFailureAfterCommitKeepsSession(t *testing.T) {
	f := newFixture(t)
	// First call is the duplicate-type check, second is the completion
	// reread after the commit.
	f.equipment.failGetByEmployeeAt = 2

	tap(f, "esp-1", "emp-1")
	msg := tap(f, "esp-1", "scan-1")

	assert.Equal(t, StatusSuccess, msg.Status)
	assert.Contains(t, msg.Message, "assigned to")
	require.NotNil(t, f.equipment.items["q-scan"].EmployeeID)

	_, active := f.service.sessions.get("esp-1")
	assert.True(t, active, "without a fresh view the session must stay alive")
}

func TestEndSessionReportsActivity(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.service.EndSession("esp-1"))

	tap(f, "esp-1", "emp-1")
	assert.True(t, f.service.EndSession("esp-1"))
	assert.False(t, f.service.EndSession("esp-1"))
}
