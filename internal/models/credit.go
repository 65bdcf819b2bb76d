package models

import "time"

// CreditAccount holds the analysis credit balance of a submitter.
type CreditAccount struct {
	UID       string    `gorm:"primaryKey;size:128" json:"uid"`
	Balance   int       `gorm:"not null;default:0" json:"balance"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreditTransaction journals every ledger movement. Amount is negative for deductions.
type CreditTransaction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UID          string    `gorm:"size:128;not null;index" json:"uid"`
	Amount       int       `gorm:"not null" json:"amount"`
	BalanceAfter int       `gorm:"not null" json:"balance_after"`
	Reason       string    `gorm:"size:64" json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	// CreditReasonBulkAnalysis marks a deduction for a batch run.
	CreditReasonBulkAnalysis = "bulk_analysis"
	// CreditReasonGrant marks a manual top-up.
	CreditReasonGrant = "grant"
)
