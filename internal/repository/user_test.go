package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestUserRepository_EmailExists(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE email = $1 AND "users"."deleted_at" IS NULL`)

	tests := []struct {
		name         string
		email        string
		mockBehavior func()
		expected     bool
		expectError  bool
	}{
		{
			name:  "Exists",
			email: "taken@example.com",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"count"}).AddRow(1)
				mock.ExpectQuery(query).WithArgs("taken@example.com").WillReturnRows(rows)
			},
			expected: true,
		},
		{
			name:  "Does Not Exist",
			email: "free@example.com",
			mockBehavior: func() {
				rows := sqlmock.NewRows([]string{"count"}).AddRow(0)
				mock.ExpectQuery(query).WithArgs("free@example.com").WillReturnRows(rows)
			},
			expected: false,
		},
		{
			name:  "Database Error",
			email: "broken@example.com",
			mockBehavior: func() {
				mock.ExpectQuery(query).WithArgs("broken@example.com").
					WillReturnError(errors.New("connection timeout"))
			},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockBehavior()
			exists, err := repo.EmailExists(ctx, tt.email)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, exists)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestResponseRepository_ExistsBySurveyAndResponder(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewResponseRepository(db)
	ctx := context.Background()

	query := regexp.QuoteMeta(`SELECT count(*) FROM "survey_responses" WHERE post_id = $1 AND responder_id = $2`)

	rows := sqlmock.NewRows([]string{"count"}).AddRow(1)
	mock.ExpectQuery(query).WithArgs(7, 3).WillReturnRows(rows)

	exists, err := repo.ExistsBySurveyAndResponder(ctx, 7, 3)
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
