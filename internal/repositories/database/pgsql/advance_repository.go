package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbooks/finbooks_backend/internal/apperrors"
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	"github.com/finbooks/finbooks_backend/internal/models"
	"github.com/finbooks/finbooks_backend/internal/utils/mapping"
)

const advanceColumns = `advance_id, tenant_id, employee_id, original_amount, remaining_balance,
	       monthly_deduction, months_to_repay, months_deducted, status, deduction_start_date,
	       created_at, created_by, last_updated_at, last_updated_by`

const deductionColumns = `deduction_id, tenant_id, payroll_run_id, advance_id, employee_id,
	       amount, balance_before, balance_after, months_increment, reversed,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxAdvanceRepository struct {
	BaseRepository
}

// newPgxAdvanceRepository creates a new repository for salary advances and
// their allocation rows.
func newPgxAdvanceRepository(pool *pgxpool.Pool) portsrepo.AdvanceRepositoryFacade {
	return &PgxAdvanceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AdvanceRepositoryFacade = (*PgxAdvanceRepository)(nil)

func scanAdvance(row pgx.Row) (*domain.Advance, error) {
	var model models.Advance
	err := row.Scan(
		&model.AdvanceID,
		&model.TenantID,
		&model.EmployeeID,
		&model.OriginalAmount,
		&model.RemainingBalance,
		&model.MonthlyDeduction,
		&model.MonthsToRepay,
		&model.MonthsDeducted,
		&model.Status,
		&model.DeductionStart,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan advance row", err)
	}
	advance := mapping.ToDomainAdvance(model)
	return &advance, nil
}

// FindAdvanceByID retrieves an advance by its ID.
func (r *PgxAdvanceRepository) FindAdvanceByID(ctx context.Context, advanceID string) (*domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE advance_id = $1;`
	return scanAdvance(r.Pool.QueryRow(ctx, query, advanceID))
}

// ListAdvancesByTenant retrieves all advances for a tenant, optionally
// filtered by employee, oldest deduction start first.
func (r *PgxAdvanceRepository) ListAdvancesByTenant(ctx context.Context, tenantID string, employeeID string) ([]domain.Advance, error) {
	query := `SELECT ` + advanceColumns + `
		FROM advances
		WHERE tenant_id = $1 AND ($2 = '' OR employee_id = $2)
		ORDER BY deduction_start_date, created_at;`
	rows, err := r.Pool.Query(ctx, query, tenantID, employeeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query advances for tenant "+tenantID, err)
	}
	defer rows.Close()

	advances := []domain.Advance{}
	for rows.Next() {
		advance, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, *advance)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating advance rows for tenant "+tenantID, err)
	}
	return advances, nil
}

// SaveAdvanceInTx persists a new advance inside the caller's transaction, so
// the advance row commits or rolls back together with its disbursement entry.
func (r *PgxAdvanceRepository) SaveAdvanceInTx(ctx context.Context, tx pgx.Tx, advance domain.Advance) error {
	model := mapping.ToModelAdvance(advance)
	query := `
		INSERT INTO advances (advance_id, tenant_id, employee_id, original_amount, remaining_balance,
		                      monthly_deduction, months_to_repay, months_deducted, status, deduction_start_date,
		                      created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		model.AdvanceID,
		model.TenantID,
		model.EmployeeID,
		model.OriginalAmount,
		model.RemainingBalance,
		model.MonthlyDeduction,
		model.MonthsToRepay,
		model.MonthsDeducted,
		model.Status,
		model.DeductionStart,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert advance "+model.AdvanceID, err)
	}
	return nil
}

// ListOpenAdvancesForUpdateInTx returns the employee's advances with status
// PENDING or PARTIAL, oldest deduction date first, row-locked so concurrent
// payroll runs touching the same advances serialize.
func (r *PgxAdvanceRepository) ListOpenAdvancesForUpdateInTx(ctx context.Context, tx pgx.Tx, tenantID string, employeeID string) ([]domain.Advance, error) {
	query := `SELECT ` + advanceColumns + `
		FROM advances
		WHERE tenant_id = $1 AND employee_id = $2 AND status IN ('PENDING', 'PARTIAL')
		ORDER BY deduction_start_date, created_at
		FOR UPDATE;`
	rows, err := tx.Query(ctx, query, tenantID, employeeID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to lock open advances for employee "+employeeID, err)
	}
	defer rows.Close()

	advances := []domain.Advance{}
	for rows.Next() {
		advance, err := scanAdvance(rows)
		if err != nil {
			return nil, err
		}
		advances = append(advances, *advance)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating locked advance rows for employee "+employeeID, err)
	}
	return advances, nil
}

// GetAdvanceForUpdateInTx retrieves one advance with a row lock, or nil when
// it does not exist.
func (r *PgxAdvanceRepository) GetAdvanceForUpdateInTx(ctx context.Context, tx pgx.Tx, advanceID string) (*domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE advance_id = $1 FOR UPDATE;`
	advance, err := scanAdvance(tx.QueryRow(ctx, query, advanceID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return advance, nil
}

// UpdateAdvanceInTx writes back an advance's balance, months counter and status.
func (r *PgxAdvanceRepository) UpdateAdvanceInTx(ctx context.Context, tx pgx.Tx, advance domain.Advance) error {
	model := mapping.ToModelAdvance(advance)
	query := `
		UPDATE advances
		SET remaining_balance = $2,
		    months_deducted = $3,
		    status = $4,
		    last_updated_at = $5,
		    last_updated_by = $6
		WHERE advance_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query,
		model.AdvanceID,
		model.RemainingBalance,
		model.MonthsDeducted,
		model.Status,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update advance "+model.AdvanceID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("advance " + model.AdvanceID + " not found for update")
	}
	return nil
}

// InsertDeductionInTx appends one immutable allocation row.
func (r *PgxAdvanceRepository) InsertDeductionInTx(ctx context.Context, tx pgx.Tx, deduction domain.AdvanceDeduction) error {
	model := mapping.ToModelAdvanceDeduction(deduction)
	query := `
		INSERT INTO payroll_advance_deductions (deduction_id, tenant_id, payroll_run_id, advance_id, employee_id,
		                                        amount, balance_before, balance_after, months_increment, reversed,
		                                        created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := tx.Exec(ctx, query,
		model.DeductionID,
		model.TenantID,
		model.PayrollRunID,
		model.AdvanceID,
		model.EmployeeID,
		model.Amount,
		model.BalanceBefore,
		model.BalanceAfter,
		model.MonthsIncrement,
		model.Reversed,
		model.CreatedAt,
		model.CreatedBy,
		model.LastUpdatedAt,
		model.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to insert deduction "+model.DeductionID, err)
	}
	return nil
}

// ListDeductionsByRunInTx returns all allocation rows of a payroll run.
func (r *PgxAdvanceRepository) ListDeductionsByRunInTx(ctx context.Context, tx pgx.Tx, tenantID string, payrollRunID string) ([]domain.AdvanceDeduction, error) {
	query := `SELECT ` + deductionColumns + `
		FROM payroll_advance_deductions
		WHERE tenant_id = $1 AND payroll_run_id = $2
		ORDER BY created_at;`
	rows, err := tx.Query(ctx, query, tenantID, payrollRunID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query deductions for run "+payrollRunID, err)
	}
	defer rows.Close()

	deductions := []domain.AdvanceDeduction{}
	for rows.Next() {
		var model models.AdvanceDeduction
		err := rows.Scan(
			&model.DeductionID,
			&model.TenantID,
			&model.PayrollRunID,
			&model.AdvanceID,
			&model.EmployeeID,
			&model.Amount,
			&model.BalanceBefore,
			&model.BalanceAfter,
			&model.MonthsIncrement,
			&model.Reversed,
			&model.CreatedAt,
			&model.CreatedBy,
			&model.LastUpdatedAt,
			&model.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan deduction row for run "+payrollRunID, err)
		}
		deductions = append(deductions, mapping.ToDomainAdvanceDeduction(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating deduction rows for run "+payrollRunID, err)
	}
	return deductions, nil
}

// MarkDeductionReversedInTx flags one allocation row as reversed.
func (r *PgxAdvanceRepository) MarkDeductionReversedInTx(ctx context.Context, tx pgx.Tx, deductionID string, userID string, now time.Time) error {
	query := `
		UPDATE payroll_advance_deductions
		SET reversed = TRUE,
		    last_updated_at = $2,
		    last_updated_by = $3
		WHERE deduction_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, deductionID, now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to mark deduction "+deductionID+" reversed", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("deduction " + deductionID + " not found for reversal update")
	}
	return nil
}

type PgxPayrollRepository struct {
	BaseRepository
}

// newPgxPayrollRepository creates a new repository for payroll runs.
func newPgxPayrollRepository(pool *pgxpool.Pool) portsrepo.PayrollRepositoryFacade {
	return &PgxPayrollRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PayrollRepositoryFacade = (*PgxPayrollRepository)(nil)

const runColumns = `payroll_run_id, tenant_id, run_date, description, status,
	       created_at, created_by, last_updated_at, last_updated_by`

func scanRun(row pgx.Row) (*domain.PayrollRun, error) {
	var model models.PayrollRun
	err := row.Scan(
		&model.PayrollRunID,
		&model.TenantID,
		&model.RunDate,
		&model.Description,
		&model.Status,
		&model.CreatedAt,
		&model.CreatedBy,
		&model.LastUpdatedAt,
		&model.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan payroll run row", err)
	}
	run := mapping.ToDomainPayrollRun(model)
	return &run, nil
}

// SavePayrollRun persists a run and its items.
func (r *PgxPayrollRepository) SavePayrollRun(ctx context.Context, run domain.PayrollRun, items []domain.PayrollItem) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		runQuery := `
			INSERT INTO payroll_runs (payroll_run_id, tenant_id, run_date, description, status,
			                          created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
		`
		_, err := tx.Exec(ctx, runQuery,
			run.PayrollRunID,
			run.TenantID,
			run.RunDate,
			run.Description,
			string(run.Status),
			run.CreatedAt,
			run.CreatedBy,
			run.LastUpdatedAt,
			run.LastUpdatedBy,
		)
		if err != nil {
			return apperrors.NewAppError(500, "failed to insert payroll run "+run.PayrollRunID, err)
		}

		batch := &pgx.Batch{}
		itemQuery := `
			INSERT INTO payroll_items (item_id, payroll_run_id, tenant_id, employee_id, gross_pay, advance_deduction)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for _, item := range items {
			batch.Queue(itemQuery,
				item.ItemID,
				item.PayrollRunID,
				item.TenantID,
				item.EmployeeID,
				item.GrossPay,
				item.AdvanceDeduction,
			)
		}
		br := tx.SendBatch(ctx, batch)
		if err := br.Close(); err != nil {
			return apperrors.NewAppError(500, "failed to execute item batch for run "+run.PayrollRunID, err)
		}
		return nil
	})
}

// FindRunByID retrieves a run header.
func (r *PgxPayrollRepository) FindRunByID(ctx context.Context, payrollRunID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE payroll_run_id = $1;`
	return scanRun(r.Pool.QueryRow(ctx, query, payrollRunID))
}

// GetRunForUpdateInTx retrieves a run header with a row lock.
func (r *PgxPayrollRepository) GetRunForUpdateInTx(ctx context.Context, tx pgx.Tx, payrollRunID string) (*domain.PayrollRun, error) {
	query := `SELECT ` + runColumns + ` FROM payroll_runs WHERE payroll_run_id = $1 FOR UPDATE;`
	return scanRun(tx.QueryRow(ctx, query, payrollRunID))
}

// ListItemsInTx returns the run's items.
func (r *PgxPayrollRepository) ListItemsInTx(ctx context.Context, tx pgx.Tx, payrollRunID string) ([]domain.PayrollItem, error) {
	query := `
		SELECT item_id, payroll_run_id, tenant_id, employee_id, gross_pay, advance_deduction
		FROM payroll_items
		WHERE payroll_run_id = $1
		ORDER BY employee_id;
	`
	rows, err := tx.Query(ctx, query, payrollRunID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query items for run "+payrollRunID, err)
	}
	defer rows.Close()

	items := []domain.PayrollItem{}
	for rows.Next() {
		var model models.PayrollItem
		err := rows.Scan(
			&model.ItemID,
			&model.PayrollRunID,
			&model.TenantID,
			&model.EmployeeID,
			&model.GrossPay,
			&model.AdvanceDeduction,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan payroll item row for run "+payrollRunID, err)
		}
		items = append(items, mapping.ToDomainPayrollItem(model))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating payroll item rows for run "+payrollRunID, err)
	}
	return items, nil
}

// UpdateRunStatusInTx transitions the run's status.
func (r *PgxPayrollRepository) UpdateRunStatusInTx(ctx context.Context, tx pgx.Tx, payrollRunID string, status domain.PayrollRunStatus, userID string, now time.Time) error {
	query := `
		UPDATE payroll_runs
		SET status = $2,
		    last_updated_at = $3,
		    last_updated_by = $4
		WHERE payroll_run_id = $1;
	`
	cmdTag, err := tx.Exec(ctx, query, payrollRunID, string(status), now, userID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update status of run "+payrollRunID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.NewNotFoundError("payroll run " + payrollRunID + " not found for status update")
	}
	return nil
}
