package db

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking-backend/config"
	"hotel-booking-backend/internal/model"
)

func TestInit_SQLite(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{
		Driver:       config.DriverSQLite,
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 2,
		// Ignored outside postgres.
		EnableOverlapGuard: true,
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	assert.Equal(t, 2, sqlDB.Stats().MaxOpenConnections)
	for _, table := range []any{&model.Room{}, &model.Customer{}, &model.Booking{}, &model.PushSubscription{}} {
		assert.True(t, gormDB.Migrator().HasTable(table))
	}
	assert.True(t, gormDB.Migrator().HasColumn(&model.PushSubscription{}, "p256dh"))
	assert.True(t, gormDB.Migrator().HasIndex(&model.Booking{}, "RoomID"))
}

func TestInit_SQLiteEnforcesCascades(t *testing.T) {
	gormDB, err := Init(&config.DatabaseConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	})
	require.NoError(t, err)
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	defer sqlDB.Close()

	create := func(v any) {
		t.Helper()
		require.NoError(t, gormDB.Omit(clause.Associations).Create(v).Error)
	}
	day := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC)

	room := model.Room{Description: "Sea view"}
	create(&room)
	ada := model.Customer{Name: "Ada Lovelace"}
	create(&ada)
	create(&model.Booking{StartDate: day, EndDate: day, IsActive: true, CustomerID: ada.ID, RoomID: &room.ID})
	create(&model.PushSubscription{Endpoint: "https://push.example.com/ada", P256DH: "key", Auth: "secret", CustomerID: ada.ID, CreatedAt: day})

	t.Run("deleting a customer removes their bookings and subscriptions", func(t *testing.T) {
		require.NoError(t, gormDB.Delete(&model.Customer{}, ada.ID).Error)

		var bookings, subscriptions int64
		require.NoError(t, gormDB.Model(&model.Booking{}).Count(&bookings).Error)
		require.NoError(t, gormDB.Model(&model.PushSubscription{}).Count(&subscriptions).Error)
		assert.Zero(t, bookings)
		assert.Zero(t, subscriptions)
	})

	t.Run("deleting a room unassigns its bookings", func(t *testing.T) {
		grace := model.Customer{Name: "Grace Hopper"}
		create(&grace)
		b := model.Booking{StartDate: day, EndDate: day, IsActive: true, CustomerID: grace.ID, RoomID: &room.ID}
		create(&b)

		require.NoError(t, gormDB.Delete(&model.Room{}, room.ID).Error)

		var stored model.Booking
		require.NoError(t, gormDB.First(&stored, b.ID).Error)
		assert.Nil(t, stored.RoomID)
	})

	t.Run("a booking for an unknown customer is refused", func(t *testing.T) {
		err := gormDB.Omit(clause.Associations).Create(&model.Booking{StartDate: day, EndDate: day, CustomerID: 404}).Error
		assert.Error(t, err)
	})
}

func TestWithForeignKeys(t *testing.T) {
	testCases := []struct {
		dsn  string
		want string
	}{
		{dsn: "hotel.db", want: "hotel.db?_foreign_keys=1"},
		{dsn: "file:hotel.db?cache=shared", want: "file:hotel.db?cache=shared&_foreign_keys=1"},
		{dsn: "file:hotel.db?_foreign_keys=0", want: "file:hotel.db?_foreign_keys=0"},
		{dsn: "file:hotel.db?_fk=1", want: "file:hotel.db?_fk=1"},
	}

	for _, tc := range testCases {
		t.Run(tc.dsn, func(t *testing.T) {
			assert.Equal(t, tc.want, withForeignKeys(tc.dsn))
		})
	}
}

func TestInit_UnsupportedDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "mysql", DSN: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported database driver "mysql"`)
}

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	require.NoError(t, err)
	return gormDB, mock
}

func TestApplyOverlapGuardDDL(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE EXTENSION IF NOT EXISTS btree_gist")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DROP CONSTRAINT IF EXISTS bookings_range_valid")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CHECK (start_date <= end_date)")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DROP CONSTRAINT IF EXISTS bookings_no_overlap")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("tstzrange(start_date, end_date, '[]') WITH &&) WHERE (is_active AND room_id IS NOT NULL)")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, applyOverlapGuardDDL(gormDB))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyOverlapGuardDDL_StopsOnError(t *testing.T) {
	gormDB, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta("CREATE EXTENSION IF NOT EXISTS btree_gist")).
		WillReturnError(errors.New("permission denied"))

	err := applyOverlapGuardDDL(gormDB)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")
	assert.NoError(t, mock.ExpectationsWereMet())
}
