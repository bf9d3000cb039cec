package services

import (
	portsrepo "github.com/finbooks/finbooks_backend/internal/core/ports/repositories"
	portssvc "github.com/finbooks/finbooks_backend/internal/core/ports/services"
	"github.com/finbooks/finbooks_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, audit portssvc.AuditRecorderSvc) *portssvc.ServiceContainer {
	// Create the container structure first
	container := &portssvc.ServiceContainer{}
	container.Audit = audit

	// Initialize tenant service first since every other service authorizes
	// through it
	container.Tenant = NewTenantService(repos.TenantRepo)
	tenantAuthorizer := container.Tenant.(portssvc.TenantAuthorizerSvc)

	container.Account = NewAccountService(repos.AccountRepo, tenantAuthorizer)
	accountResolver := container.Account.(portssvc.AccountResolverSvc)

	container.Period = NewPeriodService(repos.PeriodRepo, tenantAuthorizer)
	periodGuard := container.Period.(portssvc.PeriodGuardSvc)

	container.Posting = NewPostingService(
		repos.TxManager,
		repos.EntryRepo,
		repos.TenantRepo,
		repos.BankRepo,
		repos.InventoryRepo,
		accountResolver,
		periodGuard,
		tenantAuthorizer,
		audit,
	)
	postingInTx := container.Posting.(portssvc.PostingInTxSvc)

	advance := NewAdvanceService(
		repos.TxManager,
		repos.AdvanceRepo,
		repos.PayrollRepo,
		repos.EntryRepo,
		repos.BankRepo,
		accountResolver,
		postingInTx,
		tenantAuthorizer,
		audit,
	)
	container.Advance = advance

	container.Reversal = NewReversalService(
		repos.TxManager,
		repos.EntryRepo,
		repos.PayableRepo,
		repos.CounterRepo,
		repos.InventoryRepo,
		postingInTx,
		advance,
		tenantAuthorizer,
		audit,
	)
	// The advance service reverses payroll runs through the reversal engine,
	// and the reversal engine delegates payroll undo back to the advance
	// service. Both exist now, close the loop.
	advance.SetReversalService(container.Reversal)

	container.Payment = NewPaymentService(
		repos.TxManager,
		repos.PayableRepo,
		repos.CounterRepo,
		repos.BankRepo,
		accountResolver,
		postingInTx,
		container.Reversal,
		tenantAuthorizer,
		audit,
	)

	container.BankAccount = NewBankAccountService(repos.BankRepo, repos.AccountRepo, tenantAuthorizer)
	container.Counterparty = NewCounterpartyService(repos.CounterRepo, tenantAuthorizer)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.TenantSvcFacade  = (*tenantService)(nil)
	_ portssvc.AccountSvcFacade = (*accountService)(nil)
	_ portssvc.PeriodSvcFacade  = (*periodService)(nil)
	_ portssvc.AdvanceSvcFacade = (*advanceService)(nil)
)
