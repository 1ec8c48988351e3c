package auth

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"nlquery/internal/common/errors"
	"nlquery/internal/common/logger"
)

const testSecret = "test-secret"

func setupMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newTestService(t *testing.T, db *sql.DB, expiry time.Duration) *Service {
	return NewService(NewRepository(db), testSecret, expiry, bcrypt.MinCost, logger.NewTestLogger(t))
}

func TestRegister(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, time.Hour)

	mock.ExpectQuery("SELECT id, username, password, created_at FROM users").
		WithArgs("alice").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	token, err := svc.Register(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegister_ExistingUser(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, username, password, created_at FROM users").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "created_at"}).
			AddRow(1, "alice", string(hash), time.Now()))

	_, err = svc.Register(context.Background(), "alice", "password123")
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUserExists, stdErr.Code)
	assert.Equal(t, "User already exists", stdErr.Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin(t *testing.T) {
	db, mock := setupMockDB(t)
	svc := newTestService(t, db, time.Hour)

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT id, username, password, created_at FROM users").
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password", "created_at"}).
			AddRow(3, "alice", string(hash), time.Now()))

	token, err := svc.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		rows     func() *sqlmock.Rows
	}{
		{
			name:     "unknown user",
			password: "password123",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "username", "password", "created_at"})
			},
		},
		{
			name:     "wrong password",
			password: "wrong-password",
			rows: func() *sqlmock.Rows {
				return sqlmock.NewRows([]string{"id", "username", "password", "created_at"}).
					AddRow(3, "alice", string(hash), time.Now())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := setupMockDB(t)
			svc := newTestService(t, db, time.Hour)

			mock.ExpectQuery("SELECT id, username, password, created_at FROM users").
				WithArgs("alice").
				WillReturnRows(tt.rows())

			_, err := svc.Login(context.Background(), "alice", tt.password)
			require.Error(t, err)

			stdErr, ok := err.(*errors.StandardError)
			require.True(t, ok)
			assert.Equal(t, errors.ErrCodeUserNotFound, stdErr.Code)
			assert.Equal(t, "Invalid credentials", stdErr.Message)
		})
	}
}

func TestVerifyToken_Expired(t *testing.T) {
	db, _ := setupMockDB(t)
	svc := newTestService(t, db, -time.Minute)

	token, err := svc.issueToken(1, "alice")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeTokenExpired, stdErr.Code)
}

func TestVerifyToken_Garbage(t *testing.T) {
	db, _ := setupMockDB(t)
	svc := newTestService(t, db, time.Hour)

	_, err := svc.VerifyToken("not-a-token")
	require.Error(t, err)

	stdErr, ok := err.(*errors.StandardError)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeAuthenticationFailed, stdErr.Code)
}

func TestVerifyToken_WrongSecret(t *testing.T) {
	db, _ := setupMockDB(t)
	svc := newTestService(t, db, time.Hour)
	other := NewService(NewRepository(db), "other-secret", time.Hour, bcrypt.MinCost, logger.NewTestLogger(t))

	token, err := other.issueToken(1, "alice")
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.Error(t, err)
}
