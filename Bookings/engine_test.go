package Bookings

import (
	"path/filepath"
	"regexp"
	"testing"

	"AutoWash/Audit"
	"AutoWash/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&Models.User{}, &Models.Service{}, &Models.AdminLog{}, &Models.Booking{}))
	return db
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	audit := Audit.NewRecorder(db)
	t.Cleanup(audit.Close)
	return NewEngine(db, audit), db
}

func createUser(t *testing.T, db *gorm.DB, username string, permission int) *Models.User {
	t.Helper()
	user := Models.User{
		Username:   username,
		Email:      username + "@example.com",
		FirstName:  "Test",
		LastName:   "User",
		Permission: permission,
	}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createService(t *testing.T, db *gorm.DB) *Models.Service {
	t.Helper()
	service := Models.Service{
		Name:            "Basic Wash",
		Description:     "Exterior wash and dry",
		Price:           15.99,
		DurationMinutes: 30,
	}
	require.NoError(t, db.Create(&service).Error)
	return &service
}

func validInput(serviceID uint) CreateInput {
	return CreateInput{
		ServiceID:    serviceID,
		DateTime:     "2030-05-01 10:00",
		VehicleMake:  "Toyota",
		VehicleModel: "Corolla",
		VehicleType:  "sedan",
		LicensePlate: "ABC-123",
	}
}

func TestCreate_AssignsCodeAndPendingStatus(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^BK[0-9A-F]{5}$`), booking.BookingID)
	assert.Equal(t, Models.StatusPending, booking.Status)
	assert.Equal(t, "SEDAN", booking.VehicleType)
	assert.Equal(t, "2030-05-01 10:00", booking.DateTime.Format(Models.DateTimeLayout))
}

func TestCreate_BookingCodesAreUnique(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	seen := make(map[string]bool)
	for i := 0; i < 25; i++ {
		booking, err := engine.Create(user, validInput(service.ID))
		require.NoError(t, err)
		assert.False(t, seen[booking.BookingID], "duplicate code %s", booking.BookingID)
		seen[booking.BookingID] = true
	}
}

func TestCreate_RejectsMissingFields(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	input := validInput(service.ID)
	input.LicensePlate = ""
	_, err := engine.Create(user, input)
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestCreate_RejectsUnknownService(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)

	_, err := engine.Create(user, validInput(999))
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestCreate_RejectsMalformedDateTime(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	for _, bad := range []string{"2030/05/01 10:00", "2030-05-01", "tomorrow", "2030-05-01T10:00"} {
		input := validInput(service.ID)
		input.DateTime = bad
		_, err := engine.Create(user, input)
		assert.ErrorIs(t, err, ErrInvalidDateTime, "input %q", bad)
	}
}

func TestGet_EnforcesOwnership(t *testing.T) {
	engine, db := newTestEngine(t)
	owner := createUser(t, db, "alice", Models.PermissionCustomer)
	other := createUser(t, db, "bob", Models.PermissionCustomer)
	admin := createUser(t, db, "carol", Models.PermissionAdmin)
	service := createService(t, db)

	booking, err := engine.Create(owner, validInput(service.ID))
	require.NoError(t, err)

	_, err = engine.Get(owner, booking.ID)
	assert.NoError(t, err)

	_, err = engine.Get(other, booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// Read access does not bypass ownership, even for admins
	_, err = engine.Get(admin, booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = engine.Get(owner, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReschedule_OnlyPendingBookings(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	updated, err := engine.Reschedule(user, booking.ID, "2030-06-01 14:30")
	require.NoError(t, err)
	assert.Equal(t, "2030-06-01 14:30", updated.DateTime.Format(Models.DateTimeLayout))
	assert.Equal(t, Models.StatusPending, updated.Status)

	for _, terminal := range []string{Models.StatusCompleted, Models.StatusCancelled} {
		require.NoError(t, db.Model(&Models.Booking{}).Where("id = ?", booking.ID).
			Update("status", terminal).Error)
		_, err = engine.Reschedule(user, booking.ID, "2030-07-01 09:00")
		assert.ErrorIs(t, err, ErrInvalidStatus, "status %s", terminal)
	}
}

func TestReschedule_RejectsMalformedDateTime(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	_, err = engine.Reschedule(user, booking.ID, "eventually")
	assert.ErrorIs(t, err, ErrInvalidDateTime)
}

func TestCancel_IsTerminal(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	cancelled, err := engine.Cancel(user, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusCancelled, cancelled.Status)

	_, err = engine.Cancel(user, booking.ID)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = engine.Reschedule(user, booking.ID, "2030-06-01 14:30")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestCancel_OwnershipBeforeStatus(t *testing.T) {
	engine, db := newTestEngine(t)
	owner := createUser(t, db, "alice", Models.PermissionCustomer)
	other := createUser(t, db, "bob", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(owner, validInput(service.ID))
	require.NoError(t, err)
	_, err = engine.Cancel(owner, booking.ID)
	require.NoError(t, err)

	// A stranger sees forbidden, not the status error
	_, err = engine.Cancel(other, booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDuplicate_CopiesServiceAndVehicle(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	original, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	dup, err := engine.Duplicate(user, original.ID)
	require.NoError(t, err)
	assert.NotEqual(t, original.BookingID, dup.BookingID)
	assert.Equal(t, original.ServiceID, dup.ServiceID)
	assert.Equal(t, original.VehicleMake, dup.VehicleMake)
	assert.Equal(t, original.LicensePlate, dup.LicensePlate)
	assert.Equal(t, Models.StatusPending, dup.Status)
}

func TestAdminUpdateStatus(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	admin := createUser(t, db, "carol", Models.PermissionAdmin)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	// Case-insensitive, stored uppercase
	updated, err := engine.AdminUpdateStatus(admin, booking.ID, "completed", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusCompleted, updated.Status)

	// Terminal states can be reopened through this path
	updated, err = engine.AdminUpdateStatus(admin, booking.ID, "PENDING", "127.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, Models.StatusPending, updated.Status)

	_, err = engine.AdminUpdateStatus(admin, booking.ID, "ARCHIVED", "127.0.0.1")
	assert.ErrorIs(t, err, ErrUnknownStatus)

	_, err = engine.AdminUpdateStatus(user, booking.ID, "COMPLETED", "127.0.0.1")
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = engine.AdminUpdateStatus(admin, 999, "COMPLETED", "127.0.0.1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAdminUpdateStatus_WritesAuditEntry(t *testing.T) {
	db := newTestDB(t)
	audit := Audit.NewRecorder(db)
	engine := NewEngine(db, audit)
	admin := createUser(t, db, "carol", Models.PermissionAdmin)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	_, err = engine.AdminUpdateStatus(admin, booking.ID, "completed", "203.0.113.7")
	require.NoError(t, err)
	audit.Close()

	var entry Models.AdminLog
	require.NoError(t, db.Where("action = ?", "Update Booking Status").First(&entry).Error)
	assert.Equal(t, admin.ID, entry.UserID)
	assert.Equal(t, "203.0.113.7", entry.IPAddress)
	assert.Contains(t, entry.Details, booking.BookingID)
	assert.Contains(t, entry.Details, "from "+Models.StatusPending)
	assert.Contains(t, entry.Details, "to "+Models.StatusCompleted)
}

func TestReceipt_RequiresCompletedBooking(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	other := createUser(t, db, "bob", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	_, err = engine.Receipt(user, booking.ID)
	assert.ErrorIs(t, err, ErrNotCompleted)

	require.NoError(t, db.Model(&Models.Booking{}).Where("id = ?", booking.ID).
		Update("status", Models.StatusCompleted).Error)

	receipt, err := engine.Receipt(user, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, Models.StatusCompleted, receipt.Status)

	_, err = engine.Receipt(other, booking.ID)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestView_ReadsPriceThroughService(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	service := createService(t, db)

	booking, err := engine.Create(user, validInput(service.ID))
	require.NoError(t, err)

	view := NewView(booking)
	assert.Equal(t, 15.99, view.Price)
	assert.Equal(t, "Basic Wash", view.Service)

	// Catalog price changes show up on existing bookings
	require.NoError(t, db.Model(service).Update("price", 18.50).Error)
	reloaded, err := engine.Get(user, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, 18.50, NewView(reloaded).Price)
}

func TestListForUser_MostRecentFirst(t *testing.T) {
	engine, db := newTestEngine(t)
	user := createUser(t, db, "alice", Models.PermissionCustomer)
	other := createUser(t, db, "bob", Models.PermissionCustomer)
	service := createService(t, db)

	for _, dt := range []string{"2030-05-01 10:00", "2030-08-01 10:00", "2030-06-15 10:00"} {
		input := validInput(service.ID)
		input.DateTime = dt
		_, err := engine.Create(user, input)
		require.NoError(t, err)
	}
	_, err := engine.Create(other, validInput(service.ID))
	require.NoError(t, err)

	bookings, err := engine.ListForUser(user)
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, "2030-08-01 10:00", bookings[0].DateTime.Format(Models.DateTimeLayout))
	assert.Equal(t, "2030-06-15 10:00", bookings[1].DateTime.Format(Models.DateTimeLayout))
	assert.Equal(t, "Basic Wash", bookings[0].Service.Name)
}
