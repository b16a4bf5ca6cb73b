package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sosnovich/skyward/internal/models"
)

func userRows(u *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "email", "password", "name", "role",
		"account_expired", "account_locked", "credentials_expired", "disabled", "version",
	}).AddRow(
		u.ID, u.Email, u.Password, u.Name, u.Role,
		u.AccountExpired, u.AccountLocked, u.CredentialsExpired, u.Disabled, u.Version,
	)
}

func TestFindByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	stored := &models.User{ID: 7, Email: "ada@example.com", Role: "USER", Version: 3}
	mock.ExpectQuery(`SELECT (.+) FROM "tb_user" WHERE id = \$1`).
		WillReturnRows(userRows(stored))

	user, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, 3, user.Version)
	expectationsMet(t, mock)
}

func TestFindByID_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectQuery(`SELECT (.+) FROM "tb_user" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	user, err := repo.FindByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, user)
	expectationsMet(t, mock)
}

func TestFindByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	stored := &models.User{ID: 7, Email: "ada@example.com", Role: "USER"}
	mock.ExpectQuery(`SELECT (.+) FROM "tb_user" WHERE email = \$1`).
		WillReturnRows(userRows(stored))

	user, err := repo.FindByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint64(7), user.ID)
	expectationsMet(t, mock)
}

func TestExistsByEmail(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tb_user" WHERE email = \$1`).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	exists, err := repo.ExistsByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
	expectationsMet(t, mock)
}

func TestExistsByID_Absent(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tb_user" WHERE id = \$1`).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	exists, err := repo.ExistsByID(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, exists)
	expectationsMet(t, mock)
}

func TestUpdateVersioned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectExec(`UPDATE "tb_user" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	user := &models.User{ID: 7, Email: "ada@example.com", Role: "USER", Version: 3}
	require.NoError(t, repo.UpdateVersioned(context.Background(), user))
	assert.Equal(t, 4, user.Version, "version follows the stored row")
	expectationsMet(t, mock)
}

func TestUpdateVersioned_Conflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectExec(`UPDATE "tb_user" SET (.+) WHERE id = \$\d+ AND version = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	user := &models.User{ID: 7, Email: "ada@example.com", Role: "USER", Version: 3}
	err := repo.UpdateVersioned(context.Background(), user)
	assert.ErrorIs(t, err, ErrOptimisticLock)
	assert.Equal(t, 3, user.Version, "version untouched on conflict")
	expectationsMet(t, mock)
}

func TestDeleteVersioned(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tb_user_external_project" WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "tb_user" WHERE id = \$1 AND version = \$2`).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	user := &models.User{ID: 7, Version: 3}
	require.NoError(t, repo.DeleteVersioned(context.Background(), user))
	expectationsMet(t, mock)
}

func TestDeleteVersioned_Conflict(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGormUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tb_user_external_project" WHERE user_id = \$1`).
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM "tb_user" WHERE id = \$1 AND version = \$2`).
		WithArgs(7, 3).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	user := &models.User{ID: 7, Version: 3}
	err := repo.DeleteVersioned(context.Background(), user)
	assert.ErrorIs(t, err, ErrOptimisticLock)
	expectationsMet(t, mock)
}
