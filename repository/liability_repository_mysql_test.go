package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-payoff/domain"
)

var liabilityRowColumns = []string{
	"id", "name", "kind", "current_balance", "interest_rate", "minimum_payment", "term_months", "start_date",
}

func newMockMySQL(t *testing.T) (*LiabilityRepositoryMySQL, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &LiabilityRepositoryMySQL{DB: db}, mock
}

func TestMySQLDSN_ForcesParseTime(t *testing.T) {
	dsn, err := mysqlDSN("payoff:secret@tcp(db:3306)/payoff")
	require.NoError(t, err)

	cfg, err := mysql.ParseDSN(dsn)
	require.NoError(t, err)
	assert.True(t, cfg.ParseTime)
	assert.Equal(t, "payoff", cfg.DBName)
	assert.Equal(t, "db:3306", cfg.Addr)

	_, err = mysqlDSN("not a dsn")
	assert.Error(t, err)
}

func TestLiabilityRepositoryMySQL_AddTransaction(t *testing.T) {
	repo, mock := newMockMySQL(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM liability WHERE id = \? FOR UPDATE`).
		WithArgs("l-1").
		WillReturnRows(sqlmock.NewRows(liabilityRowColumns).AddRow("l-1", "Loan", "loan", 1000.0, 5.0, 0.0, 0, start))
	mock.ExpectExec(`INSERT INTO liability_transaction`).
		WithArgs("t-1", "l-1", date, 200.0, "payment").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`UPDATE liability SET current_balance = \? WHERE id = \?`).
		WithArgs(800.0, "l-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	l, err := repo.AddTransaction(context.Background(), domain.Transaction{
		ID: "t-1", LiabilityID: "l-1", Date: date, Amount: 200, Kind: domain.TransactionPayment,
	})

	require.NoError(t, err)
	assert.Equal(t, 800.0, l.CurrentBalance)
	assert.Equal(t, domain.KindLoan, l.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiabilityRepositoryMySQL_AddTransactionNotFound(t *testing.T) {
	repo, mock := newMockMySQL(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM liability WHERE id = \? FOR UPDATE`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(liabilityRowColumns))
	mock.ExpectRollback()

	_, err := repo.AddTransaction(context.Background(), domain.Transaction{
		ID: "t-1", LiabilityID: "missing", Amount: 10, Kind: domain.TransactionCharge,
	})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiabilityRepositoryMySQL_AddTransactionRollsBack(t *testing.T) {
	repo, mock := newMockMySQL(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT .+ FROM liability WHERE id = \? FOR UPDATE`).
		WithArgs("l-1").
		WillReturnRows(sqlmock.NewRows(liabilityRowColumns).AddRow("l-1", "Loan", "loan", 1000.0, 5.0, 0.0, 0, start))
	mock.ExpectExec(`INSERT INTO liability_transaction`).
		WillReturnError(errors.New("duplicate entry"))
	mock.ExpectRollback()

	_, err := repo.AddTransaction(context.Background(), domain.Transaction{
		ID: "t-1", LiabilityID: "l-1", Amount: 10, Kind: domain.TransactionPayment,
	})

	assert.Error(t, err)
	// sin UPDATE ni COMMIT
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLiabilityRepositoryMySQL_Get(t *testing.T) {
	repo, mock := newMockMySQL(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .+ FROM liability WHERE id = \?`).
		WithArgs("l-1").
		WillReturnRows(sqlmock.NewRows(liabilityRowColumns).AddRow("l-1", "Card", "credit_card", 2400.0, 18.0, 120.0, 0, start))
	mock.ExpectQuery(`SELECT .+ FROM liability WHERE id = \?`).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows(liabilityRowColumns))

	l, err := repo.Get(context.Background(), "l-1")
	require.NoError(t, err)
	assert.Equal(t, domain.Liability{
		ID:             "l-1",
		Name:           "Card",
		Kind:           domain.KindCreditCard,
		CurrentBalance: 2400,
		InterestRate:   18,
		MinimumPayment: 120,
		StartDate:      start,
	}, l)

	_, err = repo.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
