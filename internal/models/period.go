package models

import "time"

// FinancialPeriod is the financial_periods table row.
type FinancialPeriod struct {
	PeriodID  string    `db:"period_id"`
	TenantID  string    `db:"tenant_id"`
	Name      string    `db:"name"`
	StartDate time.Time `db:"start_date"`
	EndDate   time.Time `db:"end_date"`
	Status    string    `db:"status"`
	AuditFields
}

// PeriodLock is the period_locks table row. A NULL end_date means the lock is
// open-ended.
type PeriodLock struct {
	LockID    string     `db:"lock_id"`
	TenantID  string     `db:"tenant_id"`
	StartDate time.Time  `db:"start_date"`
	EndDate   *time.Time `db:"end_date"`
	Reason    string     `db:"reason"`
	AuditFields
}
