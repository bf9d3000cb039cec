package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	tenantRepo := newPgxTenantRepository(dbPool)
	accountRepo := newPgxAccountRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool)
	periodRepo := newPgxPeriodRepository(dbPool)
	advanceRepo := newPgxAdvanceRepository(dbPool)
	payrollRepo := newPgxPayrollRepository(dbPool)
	payableRepo := newPgxPayableRepository(dbPool)
	bankRepo := newPgxBankAccountRepository(dbPool)
	counterRepo := newPgxCounterpartyRepository(dbPool)
	inventoryRepo := newPgxInventoryRepository(dbPool)
	auditRepo := newPgxAuditLogRepository(dbPool)

	return portsrepo.RepositoryProvider{
		TxManager:     &BaseRepository{Pool: dbPool},
		TenantRepo:    tenantRepo,
		AccountRepo:   accountRepo,
		EntryRepo:     entryRepo,
		PeriodRepo:    periodRepo,
		AdvanceRepo:   advanceRepo,
		PayrollRepo:   payrollRepo,
		PayableRepo:   payableRepo,
		BankRepo:      bankRepo,
		CounterRepo:   counterRepo,
		InventoryRepo: inventoryRepo,
		AuditRepo:     auditRepo,
	}
}
