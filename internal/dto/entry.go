package dto

import (
	"time"

	"github.com/finbooks/finbooks_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest defines one line of a journal entry to be posted.
// Exactly one of debit and credit must be positive.
type EntryLineRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateEntryRequest defines the data needed to post a manual journal entry.
type CreateEntryRequest struct {
	EntryDate     string               `json:"entryDate" binding:"required,dateonly"`
	Description   string               `json:"description" binding:"required"`
	ReferenceType domain.ReferenceType `json:"referenceType" binding:"required"`
	ReferenceID   string               `json:"referenceID"`
	Lines         []EntryLineRequest   `json:"lines" binding:"required,min=2,dive"`
}

// ReverseEntryRequest defines the data needed to reverse a posted entry.
// ReversalDate dates the compensating entry and is what the period guard
// checks.
type ReverseEntryRequest struct {
	Reason       string `json:"reason" binding:"required"`
	ReversalDate string `json:"reversalDate" binding:"required,dateonly"`
}

// OpeningBalanceLine defines one opening balance for a single account.
type OpeningBalanceLine struct {
	AccountID string          `json:"accountID" binding:"required"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

// PostOpeningBalancesRequest defines the one-time opening balance posting.
type PostOpeningBalancesRequest struct {
	AsOfDate string               `json:"asOfDate" binding:"required,dateonly"`
	Lines    []OpeningBalanceLine `json:"lines" binding:"required,min=2,dive"`
}

// LineResponse defines the data returned for a journal line.
type LineResponse struct {
	LineID      string          `json:"lineID"`
	EntryID     string          `json:"entryID"`
	LineNumber  int             `json:"lineNumber"`
	AccountID   string          `json:"accountID"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	EntryDate   time.Time       `json:"entryDate"`
	Reversed    bool            `json:"reversed"`
}

// EntryResponse defines the data returned for a journal entry.
type EntryResponse struct {
	EntryID       string               `json:"entryID"`
	TenantID      string               `json:"tenantID"`
	EntryDate     time.Time            `json:"entryDate"`
	Description   string               `json:"description"`
	ReferenceType domain.ReferenceType `json:"referenceType"`
	ReferenceID   string               `json:"referenceID"`
	DebitTotal    decimal.Decimal      `json:"debitTotal"`
	CreditTotal   decimal.Decimal      `json:"creditTotal"`
	IsReversal    bool                 `json:"isReversal"`
	ReversalOf    string               `json:"reversalOf"`
	IsReversed    bool                 `json:"isReversed"`
	ReversalEntry string               `json:"reversalEntry"`
	Reason        string               `json:"reason"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// GetEntryResponse combines an entry header with its lines.
type GetEntryResponse struct {
	Entry EntryResponse  `json:"entry"`
	Lines []LineResponse `json:"lines"`
}

// ListEntriesParams defines query parameters for listing entries.
type ListEntriesParams struct {
	Limit            int     `form:"limit,default=20"`
	NextToken        *string `form:"nextToken"`
	IncludeReversals bool    `form:"includeReversals,default=false"`
}

// ListEntriesResponse wraps a page of entries with the continuation token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListLinesParams defines query parameters for listing an account's lines.
type ListLinesParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListLinesResponse wraps a page of lines with the continuation token.
type ListLinesResponse struct {
	Lines     []LineResponse `json:"lines"`
	NextToken *string        `json:"nextToken,omitempty"`
}

// ToLineResponse converts a domain.JournalLine to LineResponse DTO.
func ToLineResponse(line *domain.JournalLine) LineResponse {
	return LineResponse{
		LineID:      line.LineID,
		EntryID:     line.EntryID,
		LineNumber:  line.LineNumber,
		AccountID:   line.AccountID,
		Debit:       line.Debit,
		Credit:      line.Credit,
		Description: line.Description,
		EntryDate:   line.EntryDate,
		Reversed:    line.Reversed,
	}
}

// ToLineResponses converts a slice of domain.JournalLine to []LineResponse.
func ToLineResponses(lines []domain.JournalLine) []LineResponse {
	responses := make([]LineResponse, len(lines))
	for i, line := range lines {
		responses[i] = ToLineResponse(&line)
	}
	return responses
}

// ToEntryResponse converts a domain.JournalEntry to EntryResponse DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:       e.EntryID,
		TenantID:      e.TenantID,
		EntryDate:     e.EntryDate,
		Description:   e.Description,
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		DebitTotal:    e.DebitTotal,
		CreditTotal:   e.CreditTotal,
		IsReversal:    e.IsReversal,
		IsReversed:    e.IsReversed,
		Reason:        e.Reason,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
	}
	if e.ReversalOf != nil {
		resp.ReversalOf = *e.ReversalOf
	}
	if e.ReversalEntry != nil {
		resp.ReversalEntry = *e.ReversalEntry
	}
	return resp
}

// ToEntryResponses converts a slice of domain.JournalEntry to []EntryResponse.
func ToEntryResponses(entries []domain.JournalEntry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = ToEntryResponse(&e)
	}
	return responses
}
