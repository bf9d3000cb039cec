package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	TxManager     TransactionManager
	TenantRepo    TenantRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	EntryRepo     EntryRepositoryFacade
	PeriodRepo    PeriodRepositoryFacade
	AdvanceRepo   AdvanceRepositoryFacade
	PayrollRepo   PayrollRepositoryFacade
	PayableRepo   PayableRepositoryFacade
	BankRepo      BankAccountRepositoryFacade
	CounterRepo   CounterpartyRepositoryFacade
	InventoryRepo InventoryRepositoryFacade
	AuditRepo     AuditLogRepositoryFacade
}
