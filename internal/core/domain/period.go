package domain

import "time"

// PeriodStatus is the lifecycle state of a financial period.
type PeriodStatus string

const (
	PeriodOpen   PeriodStatus = "OPEN"
	PeriodClosed PeriodStatus = "CLOSED"
	PeriodLocked PeriodStatus = "LOCKED"
)

// Valid reports whether s is a known period status.
func (s PeriodStatus) Valid() bool {
	switch s {
	case PeriodOpen, PeriodClosed, PeriodLocked:
		return true
	}
	return false
}

// Blocks reports whether a period in this status forbids postings.
func (s PeriodStatus) Blocks() bool {
	return s == PeriodClosed || s == PeriodLocked
}

// CanTransitionTo checks period status transitions: OPEN -> CLOSED/LOCKED,
// CLOSED -> OPEN/LOCKED. LOCKED is terminal for non-admin flows.
func (s PeriodStatus) CanTransitionTo(target PeriodStatus) bool {
	if s == target {
		return true
	}
	switch s {
	case PeriodOpen:
		return target == PeriodClosed || target == PeriodLocked
	case PeriodClosed:
		return target == PeriodOpen || target == PeriodLocked
	}
	return false
}

// FinancialPeriod is a tenant-scoped date range with a close status. The
// posting and reversal engines consult periods but never mutate them.
type FinancialPeriod struct {
	PeriodID  string       `json:"periodID"`
	TenantID  string       `json:"tenantID"`
	Name      string       `json:"name"`
	StartDate time.Time    `json:"startDate"`
	EndDate   time.Time    `json:"endDate"`
	Status    PeriodStatus `json:"status"`
	AuditFields
}

// Covers reports whether date falls inside the period (inclusive bounds).
func (p FinancialPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// PeriodLock is an ad-hoc lock over a date range, independent of formal
// period-close records. A nil EndDate means the lock is open-ended.
type PeriodLock struct {
	LockID    string     `json:"lockID"`
	TenantID  string     `json:"tenantID"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Reason    string     `json:"reason"`
	AuditFields
}

// Covers reports whether date falls inside the lock range. Open-ended locks
// cover everything from StartDate onwards.
func (l PeriodLock) Covers(date time.Time) bool {
	if date.Before(l.StartDate) {
		return false
	}
	if l.EndDate == nil {
		return true
	}
	return !date.After(*l.EndDate)
}
