package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
)

// CreatePeriodRequest defines the data needed to create a financial period.
type CreatePeriodRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required,dateonly"`
	EndDate   string `json:"endDate" binding:"required,dateonly"`
}

// UpdatePeriodStatusRequest defines a period status transition.
type UpdatePeriodStatusRequest struct {
	Status domain.PeriodStatus `json:"status" binding:"required,oneof=OPEN CLOSED LOCKED"`
}

// CreateLockRequest defines the data needed to create an ad-hoc period lock.
// EndDate omitted means the lock is open-ended.
type CreateLockRequest struct {
	StartDate string  `json:"startDate" binding:"required,dateonly"`
	EndDate   *string `json:"endDate"`                      // YYYY-MM-DD, optional
	Reason    string  `json:"reason" binding:"required"`
}

// PeriodResponse defines the data returned for a financial period.
type PeriodResponse struct {
	PeriodID  string              `json:"periodID"`
	TenantID  string              `json:"tenantID"`
	Name      string              `json:"name"`
	StartDate time.Time           `json:"startDate"`
	EndDate   time.Time           `json:"endDate"`
	Status    domain.PeriodStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
	CreatedBy string              `json:"createdBy"`
}

// LockResponse defines the data returned for a period lock.
type LockResponse struct {
	LockID    string     `json:"lockID"`
	TenantID  string     `json:"tenantID"`
	StartDate time.Time  `json:"startDate"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Reason    string     `json:"reason"`
	CreatedAt time.Time  `json:"createdAt"`
	CreatedBy string     `json:"createdBy"`
}

// ToPeriodResponse converts a domain.FinancialPeriod to PeriodResponse DTO.
func ToPeriodResponse(p *domain.FinancialPeriod) PeriodResponse {
	return PeriodResponse{
		PeriodID:  p.PeriodID,
		TenantID:  p.TenantID,
		Name:      p.Name,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		Status:    p.Status,
		CreatedAt: p.CreatedAt,
		CreatedBy: p.CreatedBy,
	}
}

// ToListPeriodResponse converts a slice of domain.FinancialPeriod to DTOs.
func ToListPeriodResponse(periods []domain.FinancialPeriod) []PeriodResponse {
	res := make([]PeriodResponse, len(periods))
	for i, p := range periods {
		res[i] = ToPeriodResponse(&p)
	}
	return res
}

// ToLockResponse converts a domain.PeriodLock to LockResponse DTO.
func ToLockResponse(l *domain.PeriodLock) LockResponse {
	return LockResponse{
		LockID:    l.LockID,
		TenantID:  l.TenantID,
		StartDate: l.StartDate,
		EndDate:   l.EndDate,
		Reason:    l.Reason,
		CreatedAt: l.CreatedAt,
		CreatedBy: l.CreatedBy,
	}
}

// ToListLockResponse converts a slice of domain.PeriodLock to DTOs.
func ToListLockResponse(locks []domain.PeriodLock) []LockResponse {
	res := make([]LockResponse, len(locks))
	for i, l := range locks {
		res[i] = ToLockResponse(&l)
	}
	return res
}
