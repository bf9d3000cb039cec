package mapping

import (
	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/finbooks/finbooks_backend/internal/models"
)

// ToModelEntry converts a domain JournalEntry to a model JournalEntry.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	return models.JournalEntry{
		EntryID:         d.EntryID,
		TenantID:        d.TenantID,
		EntryDate:       d.EntryDate,
		Description:     d.Description,
		ReferenceType:   string(d.ReferenceType),
		ReferenceID:     d.ReferenceID,
		DebitTotal:      d.DebitTotal,
		CreditTotal:     d.CreditTotal,
		Posted:          d.Posted,
		IsReversal:      d.IsReversal,
		ReversalOf:      d.ReversalOf,
		IsReversed:      d.IsReversed,
		ReversalEntryID: d.ReversalEntry,
		Reason:          d.Reason,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	return domain.JournalEntry{
		EntryID:       m.EntryID,
		TenantID:      m.TenantID,
		EntryDate:     m.EntryDate,
		Description:   m.Description,
		ReferenceType: domain.ReferenceType(m.ReferenceType),
		ReferenceID:   m.ReferenceID,
		DebitTotal:    m.DebitTotal,
		CreditTotal:   m.CreditTotal,
		Posted:        m.Posted,
		IsReversal:    m.IsReversal,
		ReversalOf:    m.ReversalOf,
		IsReversed:    m.IsReversed,
		ReversalEntry: m.ReversalEntryID,
		Reason:        m.Reason,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLine converts a domain JournalLine to a model JournalLine.
func ToModelLine(d domain.JournalLine) models.JournalLine {
	return models.JournalLine{
		LineID:      d.LineID,
		TenantID:    d.TenantID,
		EntryID:     d.EntryID,
		LineNumber:  d.LineNumber,
		AccountID:   d.AccountID,
		Debit:       d.Debit,
		Credit:      d.Credit,
		Description: d.Description,
		EntryDate:   d.EntryDate,
		Posted:      d.Posted,
		Reversed:    d.Reversed,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainLine converts a model JournalLine to a domain JournalLine.
func ToDomainLine(m models.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		LineID:      m.LineID,
		TenantID:    m.TenantID,
		EntryID:     m.EntryID,
		LineNumber:  m.LineNumber,
		AccountID:   m.AccountID,
		Debit:       m.Debit,
		Credit:      m.Credit,
		Description: m.Description,
		EntryDate:   m.EntryDate,
		Posted:      m.Posted,
		Reversed:    m.Reversed,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainLineSlice converts a slice of model JournalLines to domain JournalLines.
func ToDomainLineSlice(ms []models.JournalLine) []domain.JournalLine {
	ds := make([]domain.JournalLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLine(m)
	}
	return ds
}
