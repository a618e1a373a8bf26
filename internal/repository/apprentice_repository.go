package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/lbhackney-it/apprenticeships-api/internal/models"
	appErrors "github.com/lbhackney-it/apprenticeships-api/pkg/errors"
)

const apprenticeColumns = `id, name, start_date, status, uln, created_at, date_of_birth,
    apprentice_achievement, apprentice_confirmation, apprentice_classification,
    apprentice_ethnicity, apprentice_gender, apprentice_non_completion_reason,
    apprentice_program, apprentice_progression, apprenticeship_delivery,
    certificates_received, completion_date, directorate, doe_reference,
    employee_number, end_date, end_point_assessor, is_care_leaver, is_disabled,
    manager_name, manager_title, pause_date, post, school,
    total_agreed_apprenticeship_price, training_course, training_provider,
    ukprn, withdrawal_date`

const apprenticeInsert = `INSERT INTO apprentices (id, name, start_date, status, uln, created_at, date_of_birth,
    apprentice_achievement, apprentice_confirmation, apprentice_classification,
    apprentice_ethnicity, apprentice_gender, apprentice_non_completion_reason,
    apprentice_program, apprentice_progression, apprenticeship_delivery,
    certificates_received, completion_date, directorate, doe_reference,
    employee_number, end_date, end_point_assessor, is_care_leaver, is_disabled,
    manager_name, manager_title, pause_date, post, school,
    total_agreed_apprenticeship_price, training_course, training_provider,
    ukprn, withdrawal_date)
    VALUES (:id, :name, :start_date, :status, :uln, :created_at, :date_of_birth,
    :apprentice_achievement, :apprentice_confirmation, :apprentice_classification,
    :apprentice_ethnicity, :apprentice_gender, :apprentice_non_completion_reason,
    :apprentice_program, :apprentice_progression, :apprenticeship_delivery,
    :certificates_received, :completion_date, :directorate, :doe_reference,
    :employee_number, :end_date, :end_point_assessor, :is_care_leaver, :is_disabled,
    :manager_name, :manager_title, :pause_date, :post, :school,
    :total_agreed_apprenticeship_price, :training_course, :training_provider,
    :ukprn, :withdrawal_date)`

// ApprenticeRepository manages persistence for apprentice records.
type ApprenticeRepository struct {
	db *sqlx.DB
}

// NewApprenticeRepository constructs an ApprenticeRepository.
func NewApprenticeRepository(db *sqlx.DB) *ApprenticeRepository {
	return &ApprenticeRepository{db: db}
}

// All returns every apprentice with transactions attached.
func (r *ApprenticeRepository) All(ctx context.Context) ([]models.Apprentice, error) {
	query := fmt.Sprintf("SELECT %s FROM apprentices ORDER BY name ASC", apprenticeColumns)

	var apprentices []models.Apprentice
	if err := r.db.SelectContext(ctx, &apprentices, query); err != nil {
		return nil, fmt.Errorf("list apprentices: %w", err)
	}
	if err := r.attachTransactions(ctx, apprentices); err != nil {
		return nil, err
	}
	return apprentices, nil
}

// Find returns apprentices matching the provided filters.
func (r *ApprenticeRepository) Find(ctx context.Context, filter models.ApprenticeFilter) ([]models.Apprentice, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.StartDate != nil {
		conditions = append(conditions, fmt.Sprintf("start_date = $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *filter.Status)
	}
	if filter.Directorate != nil {
		conditions = append(conditions, fmt.Sprintf("directorate = $%d", len(args)+1))
		args = append(args, *filter.Directorate)
	}
	if filter.Program != nil {
		conditions = append(conditions, fmt.Sprintf("apprentice_program = $%d", len(args)+1))
		args = append(args, *filter.Program)
	}

	query := fmt.Sprintf("SELECT %s FROM apprentices WHERE %s ORDER BY name ASC",
		apprenticeColumns, strings.Join(conditions, " AND "))

	var apprentices []models.Apprentice
	if err := r.db.SelectContext(ctx, &apprentices, query, args...); err != nil {
		return nil, fmt.Errorf("find apprentices: %w", err)
	}
	if err := r.attachTransactions(ctx, apprentices); err != nil {
		return nil, err
	}
	return apprentices, nil
}

// FindByID fetches a single apprentice by ID.
func (r *ApprenticeRepository) FindByID(ctx context.Context, id string) (*models.Apprentice, error) {
	query := fmt.Sprintf("SELECT %s FROM apprentices WHERE id = $1", apprenticeColumns)

	var apprentice models.Apprentice
	if err := r.db.GetContext(ctx, &apprentice, query, id); err != nil {
		return nil, err
	}

	attached := []models.Apprentice{apprentice}
	if err := r.attachTransactions(ctx, attached); err != nil {
		return nil, err
	}
	return &attached[0], nil
}

// ExistsByULN checks whether an apprentice with the given ULN exists,
// optionally excluding an ID.
func (r *ApprenticeRepository) ExistsByULN(ctx context.Context, uln int64, excludeID string) (bool, error) {
	query := "SELECT 1 FROM apprentices WHERE uln = $1"
	args := []interface{}{uln}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check uln: %w", err)
	}
	return true, nil
}

// Create inserts a new apprentice record.
func (r *ApprenticeRepository) Create(ctx context.Context, apprentice *models.Apprentice) error {
	if apprentice.ID == "" {
		apprentice.ID = uuid.NewString()
	}
	if apprentice.CreatedAt.IsZero() {
		apprentice.CreatedAt = time.Now().UTC()
	}
	if _, err := r.db.NamedExecContext(ctx, apprenticeInsert, apprentice); err != nil {
		if IsUniqueViolation(err) {
			return appErrors.ErrDuplicateULN
		}
		return fmt.Errorf("create apprentice: %w", err)
	}
	return nil
}

// BulkCreate inserts a batch of apprentices inside one transaction.
func (r *ApprenticeRepository) BulkCreate(ctx context.Context, apprentices []models.Apprentice) error {
	if len(apprentices) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin bulk create: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for i := range apprentices {
		if apprentices[i].ID == "" {
			apprentices[i].ID = uuid.NewString()
		}
		if apprentices[i].CreatedAt.IsZero() {
			apprentices[i].CreatedAt = now
		}
		if _, err := tx.NamedExecContext(ctx, apprenticeInsert, &apprentices[i]); err != nil {
			if IsUniqueViolation(err) {
				return fmt.Errorf("bulk create apprentice %d: %w", i, appErrors.ErrDuplicateULN)
			}
			return fmt.Errorf("bulk create apprentice %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit bulk create: %w", err)
	}
	return nil
}

// Update replaces an apprentice snapshot. The created_at column is never
// written: the stored value survives whatever the client sent.
func (r *ApprenticeRepository) Update(ctx context.Context, apprentice *models.Apprentice) error {
	const query = `UPDATE apprentices SET name = :name, start_date = :start_date, status = :status,
        uln = :uln, date_of_birth = :date_of_birth,
        apprentice_achievement = :apprentice_achievement,
        apprentice_confirmation = :apprentice_confirmation,
        apprentice_classification = :apprentice_classification,
        apprentice_ethnicity = :apprentice_ethnicity,
        apprentice_gender = :apprentice_gender,
        apprentice_non_completion_reason = :apprentice_non_completion_reason,
        apprentice_program = :apprentice_program,
        apprentice_progression = :apprentice_progression,
        apprenticeship_delivery = :apprenticeship_delivery,
        certificates_received = :certificates_received,
        completion_date = :completion_date, directorate = :directorate,
        doe_reference = :doe_reference, employee_number = :employee_number,
        end_date = :end_date, end_point_assessor = :end_point_assessor,
        is_care_leaver = :is_care_leaver, is_disabled = :is_disabled,
        manager_name = :manager_name, manager_title = :manager_title,
        pause_date = :pause_date, post = :post, school = :school,
        total_agreed_apprenticeship_price = :total_agreed_apprenticeship_price,
        training_course = :training_course, training_provider = :training_provider,
        ukprn = :ukprn, withdrawal_date = :withdrawal_date
        WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, apprentice)
	if err != nil {
		if IsUniqueViolation(err) {
			return appErrors.ErrDuplicateULN
		}
		return fmt.Errorf("update apprentice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update apprentice: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an apprentice by ID.
func (r *ApprenticeRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM apprentices WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete apprentice: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete apprentice: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// attachTransactions loads the transactions belonging to each apprentice,
// matched on ULN.
func (r *ApprenticeRepository) attachTransactions(ctx context.Context, apprentices []models.Apprentice) error {
	if len(apprentices) == 0 {
		return nil
	}

	ulns := make([]int64, 0, len(apprentices))
	for i := range apprentices {
		apprentices[i].Transactions = []models.Transaction{}
		if apprentices[i].ULN != nil {
			ulns = append(ulns, *apprentices[i].ULN)
		}
	}
	if len(ulns) == 0 {
		return nil
	}

	query, args, err := sqlx.In(fmt.Sprintf("SELECT %s FROM transactions WHERE uln IN (?)", transactionColumns), ulns)
	if err != nil {
		return fmt.Errorf("build transactions query: %w", err)
	}
	query = r.db.Rebind(query)

	var transactions []models.Transaction
	if err := r.db.SelectContext(ctx, &transactions, query, args...); err != nil {
		return fmt.Errorf("attach transactions: %w", err)
	}

	byULN := make(map[int64][]models.Transaction, len(apprentices))
	for _, tx := range transactions {
		if tx.ULN == nil {
			continue
		}
		byULN[*tx.ULN] = append(byULN[*tx.ULN], tx)
	}
	for i := range apprentices {
		if apprentices[i].ULN == nil {
			continue
		}
		if matched, ok := byULN[*apprentices[i].ULN]; ok {
			apprentices[i].Transactions = matched
		}
	}
	return nil
}

// IsUniqueViolation reports whether err is a Postgres unique constraint
// violation. The repositories translate it to ErrDuplicateULN so the race
// the ExistsByULN pre-check cannot close still surfaces as a 409.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

