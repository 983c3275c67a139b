package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"loan-payoff/domain"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS liability (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		kind VARCHAR(32) NOT NULL,
		current_balance DECIMAL(15,2) NOT NULL,
		interest_rate DECIMAL(7,4) NOT NULL,
		minimum_payment DECIMAL(15,2) NOT NULL DEFAULT 0,
		term_months INT NOT NULL DEFAULT 0,
		start_date DATE NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS liability_transaction (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		liability_id VARCHAR(64) NOT NULL,
		date DATE NOT NULL,
		amount DECIMAL(15,2) NOT NULL,
		kind VARCHAR(32) NOT NULL,
		INDEX idx_liability_date (liability_id, date)
	)`,
}

// LiabilityRepositoryMySQL stores liabilities and their transactions in MySQL.
type LiabilityRepositoryMySQL struct {
	DB *sql.DB
}

// OpenMySQL connects to dsn with parseTime forced on so DATE columns scan
// into time.Time.
func OpenMySQL(ctx context.Context, dsn string) (*sql.DB, error) {
	normalized, err := mysqlDSN(dsn)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", normalized)
	if err != nil {
		return nil, err
	}
	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	return cfg.FormatDSN(), nil
}

func (m *LiabilityRepositoryMySQL) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := m.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

func (m *LiabilityRepositoryMySQL) Save(ctx context.Context, l domain.Liability) error {
	stmt := `INSERT INTO liability (id, name, kind, current_balance, interest_rate, minimum_payment, term_months, start_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name), kind = VALUES(kind), current_balance = VALUES(current_balance),
			interest_rate = VALUES(interest_rate), minimum_payment = VALUES(minimum_payment),
			term_months = VALUES(term_months), start_date = VALUES(start_date)`

	_, err := m.DB.ExecContext(ctx, stmt,
		l.ID, l.Name, string(l.Kind), l.CurrentBalance, l.InterestRate, l.MinimumPayment, l.TermMonths, l.StartDate)
	return err
}

const liabilityColumns = `id, name, kind, current_balance, interest_rate, minimum_payment, term_months, start_date`

func (m *LiabilityRepositoryMySQL) Get(ctx context.Context, id string) (domain.Liability, error) {
	row := m.DB.QueryRowContext(ctx, `SELECT `+liabilityColumns+` FROM liability WHERE id = ?`, id)

	l, err := scanLiability(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Liability{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return l, err
}

func (m *LiabilityRepositoryMySQL) List(ctx context.Context) ([]domain.Liability, error) {
	rows, err := m.DB.QueryContext(ctx, `SELECT `+liabilityColumns+` FROM liability ORDER BY name, id`)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	items := []domain.Liability{}
	for rows.Next() {
		l, err := scanLiability(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, l)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// AddTransaction locks the liability row, stores tx and writes the new
// balance inside one database transaction.
func (m *LiabilityRepositoryMySQL) AddTransaction(ctx context.Context, tx domain.Transaction) (domain.Liability, error) {
	dbTx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.Liability{}, err
	}
	// no-op después del Commit
	defer dbTx.Rollback()

	row := dbTx.QueryRowContext(ctx, `SELECT `+liabilityColumns+` FROM liability WHERE id = ? FOR UPDATE`, tx.LiabilityID)
	l, err := scanLiability(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Liability{}, fmt.Errorf("%w: %s", ErrNotFound, tx.LiabilityID)
	}
	if err != nil {
		return domain.Liability{}, err
	}

	_, err = dbTx.ExecContext(ctx,
		`INSERT INTO liability_transaction (id, liability_id, date, amount, kind) VALUES (?, ?, ?, ?, ?)`,
		tx.ID, tx.LiabilityID, tx.Date, tx.Amount, string(tx.Kind))
	if err != nil {
		return domain.Liability{}, fmt.Errorf("insert transaction: %w", err)
	}

	l.CurrentBalance = applyTransaction(l.CurrentBalance, tx)
	_, err = dbTx.ExecContext(ctx, `UPDATE liability SET current_balance = ? WHERE id = ?`, l.CurrentBalance, l.ID)
	if err != nil {
		return domain.Liability{}, fmt.Errorf("update balance: %w", err)
	}

	if err = dbTx.Commit(); err != nil {
		return domain.Liability{}, err
	}
	return l, nil
}

func (m *LiabilityRepositoryMySQL) Transactions(ctx context.Context, liabilityID string) ([]domain.Transaction, error) {
	if _, err := m.Get(ctx, liabilityID); err != nil {
		return nil, err
	}

	rows, err := m.DB.QueryContext(ctx,
		`SELECT id, liability_id, date, amount, kind FROM liability_transaction WHERE liability_id = ? ORDER BY date, id`,
		liabilityID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	history := []domain.Transaction{}
	for rows.Next() {
		var tx domain.Transaction
		var kind string
		if err = rows.Scan(&tx.ID, &tx.LiabilityID, &tx.Date, &tx.Amount, &kind); err != nil {
			return nil, err
		}
		tx.Kind = domain.TransactionKind(kind)
		history = append(history, tx)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return history, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLiability(row rowScanner) (domain.Liability, error) {
	var l domain.Liability
	var kind string
	err := row.Scan(&l.ID, &l.Name, &kind, &l.CurrentBalance, &l.InterestRate, &l.MinimumPayment, &l.TermMonths, &l.StartDate)
	if err != nil {
		return domain.Liability{}, err
	}
	l.Kind = domain.LiabilityKind(kind)
	return l, nil
}
