package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
)

const transactionColumns = `id, description, transaction_date, transaction_type, created_at,
    course_level, english_percentage, government_contribution, levy_declared,
    paid_from_levy, payroll_month, ten_percentage_top_up, total,
    your_contribution, apprentice_name, apprenticeship_training_course,
    paye_scheme, training_provider, uln`

// enrichedTransactionColumns joins the owning apprentice's directorate,
// programme and status onto each row.
const enrichedTransactionColumns = `t.id, t.description, t.transaction_date, t.transaction_type, t.created_at,
    t.course_level, t.english_percentage, t.government_contribution, t.levy_declared,
    t.paid_from_levy, t.payroll_month, t.ten_percentage_top_up, t.total,
    t.your_contribution, t.apprentice_name, t.apprenticeship_training_course,
    t.paye_scheme, t.training_provider, t.uln,
    a.directorate AS apprentice_directorate,
    a.apprentice_program AS apprentice_program,
    a.status AS apprentice_status`

const transactionInsert = `INSERT INTO transactions (id, description, transaction_date, transaction_type, created_at,
    course_level, english_percentage, government_contribution, levy_declared,
    paid_from_levy, payroll_month, ten_percentage_top_up, total,
    your_contribution, apprentice_name, apprenticeship_training_course,
    paye_scheme, training_provider, uln)
    VALUES (:id, :description, :transaction_date, :transaction_type, :created_at,
    :course_level, :english_percentage, :government_contribution, :levy_declared,
    :paid_from_levy, :payroll_month, :ten_percentage_top_up, :total,
    :your_contribution, :apprentice_name, :apprenticeship_training_course,
    :paye_scheme, :training_provider, :uln)`

// TransactionRepository manages persistence for levy transactions.
type TransactionRepository struct {
	db *sqlx.DB
}

// NewTransactionRepository constructs a TransactionRepository.
func NewTransactionRepository(db *sqlx.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// All returns every transaction enriched with apprentice context.
func (r *TransactionRepository) All(ctx context.Context) ([]models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions t
        LEFT JOIN apprentices a ON a.uln = t.uln
        ORDER BY t.transaction_date DESC`, enrichedTransactionColumns)

	var transactions []models.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query); err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return transactions, nil
}

// Find returns transactions matching the provided filters, enriched with
// apprentice context.
func (r *TransactionRepository) Find(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.FromDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.transaction_date >= $%d", len(args)+1))
		args = append(args, *filter.FromDate)
	}
	if filter.ToDate != nil {
		conditions = append(conditions, fmt.Sprintf("t.transaction_date <= $%d", len(args)+1))
		args = append(args, *filter.ToDate)
	}
	if filter.Description != nil {
		conditions = append(conditions, fmt.Sprintf("LOWER(t.description) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(*filter.Description)+"%")
	}

	query := fmt.Sprintf(`SELECT %s FROM transactions t
        LEFT JOIN apprentices a ON a.uln = t.uln
        WHERE %s ORDER BY t.transaction_date DESC`,
		enrichedTransactionColumns, strings.Join(conditions, " AND "))

	var transactions []models.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return nil, fmt.Errorf("find transactions: %w", err)
	}
	return transactions, nil
}

// FindByID fetches a single transaction by ID.
func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := fmt.Sprintf(`SELECT %s FROM transactions t
        LEFT JOIN apprentices a ON a.uln = t.uln
        WHERE t.id = $1`, enrichedTransactionColumns)

	var transaction models.Transaction
	if err := r.db.GetContext(ctx, &transaction, query, id); err != nil {
		return nil, err
	}
	return &transaction, nil
}

// Create inserts a new transaction record.
func (r *TransactionRepository) Create(ctx context.Context, transaction *models.Transaction) error {
	if transaction.ID == "" {
		transaction.ID = uuid.NewString()
	}
	if transaction.CreatedAt.IsZero() {
		transaction.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, transactionInsert, transaction); err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// BulkCreate inserts a batch of transactions inside one transaction.
func (r *TransactionRepository) BulkCreate(ctx context.Context, transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i := range transactions {
		if transactions[i].ID == "" {
			transactions[i].ID = uuid.NewString()
		}
		if transactions[i].CreatedAt.IsZero() {
			transactions[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, transactionInsert, &transactions[i]); err != nil {
			return fmt.Errorf("bulk create transaction %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create: %w", err)
	}
	return nil
}

// Update replaces a transaction snapshot. created_at is never written.
func (r *TransactionRepository) Update(ctx context.Context, transaction *models.Transaction) error {
	const query = `UPDATE transactions SET description = :description,
        transaction_date = :transaction_date, transaction_type = :transaction_type,
        course_level = :course_level, english_percentage = :english_percentage,
        government_contribution = :government_contribution,
        levy_declared = :levy_declared, paid_from_levy = :paid_from_levy,
        payroll_month = :payroll_month, ten_percentage_top_up = :ten_percentage_top_up,
        total = :total, your_contribution = :your_contribution,
        apprentice_name = :apprentice_name,
        apprenticeship_training_course = :apprenticeship_training_course,
        paye_scheme = :paye_scheme, training_provider = :training_provider,
        uln = :uln
        WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, transaction)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a transaction by ID.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM transactions WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
