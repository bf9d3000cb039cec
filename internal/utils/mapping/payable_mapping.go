package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToDomainPayable converts a model PayableDocument to its domain form.
func ToDomainPayable(m models.PayableDocument) domain.PayableDocument {
	return domain.PayableDocument{
		PayableID:      m.PayableID,
		TenantID:       m.TenantID,
		Kind:           domain.PayableKind(m.Kind),
		CounterpartyID: m.CounterpartyID,
		DocNumber:      m.DocNumber,
		TotalAmount:    m.TotalAmount,
		PaidAmount:     m.PaidAmount,
		Status:         domain.PayableStatus(m.Status),
		IssueDate:      m.IssueDate,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayable converts a domain PayableDocument to its model.
func ToModelPayable(d domain.PayableDocument) models.PayableDocument {
	return models.PayableDocument{
		PayableID:      d.PayableID,
		TenantID:       d.TenantID,
		Kind:           string(d.Kind),
		CounterpartyID: d.CounterpartyID,
		DocNumber:      d.DocNumber,
		TotalAmount:    d.TotalAmount,
		PaidAmount:     d.PaidAmount,
		Status:         string(d.Status),
		IssueDate:      d.IssueDate,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to its domain form.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:      m.PaymentID,
		TenantID:       m.TenantID,
		PayableID:      m.PayableID,
		Kind:           domain.PayableKind(m.Kind),
		Amount:         m.Amount,
		PaymentDate:    m.PaymentDate,
		BankAccountID:  m.BankAccountID,
		CounterpartyID: m.CounterpartyID,
		EntryID:        m.EntryID,
		Reversed:       m.Reversed,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayment converts a domain Payment to its model.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:      d.PaymentID,
		TenantID:       d.TenantID,
		PayableID:      d.PayableID,
		Kind:           string(d.Kind),
		Amount:         d.Amount,
		PaymentDate:    d.PaymentDate,
		BankAccountID:  d.BankAccountID,
		CounterpartyID: d.CounterpartyID,
		EntryID:        d.EntryID,
		Reversed:       d.Reversed,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainBankAccount converts a model BankAccount to its domain form.
func ToDomainBankAccount(m models.BankAccount) domain.BankAccount {
	return domain.BankAccount{
		BankAccountID: m.BankAccountID,
		TenantID:      m.TenantID,
		Name:          m.Name,
		AccountID:     m.AccountID,
		Balance:       m.Balance,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelBankAccount converts a domain BankAccount to its model.
func ToModelBankAccount(d domain.BankAccount) models.BankAccount {
	return models.BankAccount{
		BankAccountID: d.BankAccountID,
		TenantID:      d.TenantID,
		Name:          d.Name,
		AccountID:     d.AccountID,
		Balance:       d.Balance,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCounterparty converts a model Counterparty to its domain form.
func ToDomainCounterparty(m models.Counterparty) domain.Counterparty {
	return domain.Counterparty{
		CounterpartyID: m.CounterpartyID,
		TenantID:       m.TenantID,
		Kind:           domain.CounterpartyKind(m.Kind),
		Name:           m.Name,
		TotalBilled:    m.TotalBilled,
		TotalPaid:      m.TotalPaid,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelCounterparty converts a domain Counterparty to its model.
func ToModelCounterparty(d domain.Counterparty) models.Counterparty {
	return models.Counterparty{
		CounterpartyID: d.CounterpartyID,
		TenantID:       d.TenantID,
		Kind:           string(d.Kind),
		Name:           d.Name,
		TotalBilled:    d.TotalBilled,
		TotalPaid:      d.TotalPaid,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToModelInventoryMovement converts a domain InventoryMovement to its model.
func ToModelInventoryMovement(d domain.InventoryMovement) models.InventoryMovement {
	return models.InventoryMovement{
		MovementID:    d.MovementID,
		TenantID:      d.TenantID,
		ItemID:        d.ItemID,
		Quantity:      d.Quantity,
		Direction:     string(d.Direction),
		UnitCost:      d.UnitCost,
		ReferenceType: string(d.ReferenceType),
		ReferenceID:   d.ReferenceID,
		EntryID:       d.EntryID,
		MovementDate:  d.MovementDate,
		Reversed:      d.Reversed,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInventoryMovement converts a model InventoryMovement to its domain form.
func ToDomainInventoryMovement(m models.InventoryMovement) domain.InventoryMovement {
	return domain.InventoryMovement{
		MovementID:    m.MovementID,
		TenantID:      m.TenantID,
		ItemID:        m.ItemID,
		Quantity:      m.Quantity,
		Direction:     domain.MovementDirection(m.Direction),
		UnitCost:      m.UnitCost,
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		EntryID:       m.EntryID,
		MovementDate:  m.MovementDate,
		Reversed:      m.Reversed,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}
