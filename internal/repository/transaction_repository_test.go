package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
)

func TestTransactionRepositoryAllEnriches(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "description", "transaction_date", "transaction_type", "created_at",
		"uln", "apprentice_directorate", "apprentice_program", "apprentice_status",
	}).
		AddRow("t1", "Levy payment", time.Now(), "Payment", time.Now(), int64(111), "CEx", "CDQ", "Live").
		AddRow("t2", "Top up", time.Now(), "Top up", time.Now(), nil, nil, nil, nil)
	mock.ExpectQuery(`SELECT (.+) FROM transactions t\s+LEFT JOIN apprentices a ON a.uln = t.uln\s+ORDER BY t.transaction_date DESC`).
		WillReturnRows(rows)

	transactions, err := repo.All(context.Background())
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	require.NotNil(t, transactions[0].ApprenticeDirectorate)
	assert.Equal(t, "CEx", *transactions[0].ApprenticeDirectorate)
	assert.Nil(t, transactions[1].ApprenticeDirectorate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryFindBuildsFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	description := "levy"
	mock.ExpectQuery(`WHERE 1=1 AND t.transaction_date >= \$1 AND LOWER\(t.description\) LIKE \$2`).
		WithArgs(from, "%levy%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "description", "transaction_date", "transaction_type", "created_at"}).
			AddRow("t1", "Levy payment", time.Now(), "Payment", time.Now()))

	transactions, err := repo.Find(context.Background(), models.TransactionFilter{FromDate: &from, Description: &description})
	require.NoError(t, err)
	assert.Len(t, transactions, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	mock.ExpectExec("INSERT INTO transactions").WillReturnResult(sqlmock.NewResult(1, 1))

	transaction := &models.Transaction{Description: "Levy payment", TransactionDate: time.Now(), TransactionType: "Payment"}
	require.NoError(t, repo.Create(context.Background(), transaction))
	assert.NotEmpty(t, transaction.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTransactionRepository(db)

	mock.ExpectExec(`DELETE FROM transactions WHERE id = \$1`).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
