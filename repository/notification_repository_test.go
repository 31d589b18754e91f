package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"delivery-service/models"
	"delivery-service/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestNotificationCreate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(gormDB)

	n := &models.Notification{
		Title:       "Weekend Sale",
		Description: "Flat 50% off on your next order",
		Zone:        "All",
		Target:      models.AudienceCustomer,
		Status:      true,
	}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
	mock.ExpectCommit()

	err := repo.Create(context.Background(), n)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), n.ID)
}

func TestNotificationFindAll_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(gormDB)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "image", "zone", "target", "status", "created_at"}).
		AddRow(int64(2), "Maintenance", "Service down tonight", "", "All", models.AudienceDelivery, true, now).
		AddRow(int64(1), "Weekend Sale", "Flat 50% off", "", "All", models.AudienceCustomer, false, now)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications"`)).
		WillReturnRows(rows)

	list, err := repo.FindAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, list, 2)
	assert.Equal(t, "Maintenance", list[0].Title)
}

func TestNotificationFindByID_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "notifications"`)).
		WithArgs(int64(99), 1).
		WillReturnRows(sqlmock.NewRows([]string{}))

	n, err := repo.FindByID(context.Background(), 99)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	assert.Nil(t, n)
}

func TestNotificationUpdate_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(gormDB)

	n := &models.Notification{
		ID:          1,
		Title:       "Weekend Sale",
		Description: "Flat 50% off",
		Zone:        "All",
		Target:      models.AudienceCustomer,
		Status:      false,
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "notifications"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Update(context.Background(), n)
	assert.NoError(t, err)
}

func TestNotificationDelete_Success(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewNotificationRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "notifications"`)).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Delete(context.Background(), 1)
	assert.NoError(t, err)
}
