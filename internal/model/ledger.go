package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountLedger is the persisted credit state of one account.
type AccountLedger struct {
	AccountID     string    `json:"accountId" gorm:"primaryKey;size:255"`
	Balance       int64     `json:"balance" gorm:"not null;default:0"`
	LastResetAt   time.Time `json:"lastResetAt" gorm:"not null"`
	BoundDeviceID string    `json:"boundDeviceId,omitempty" gorm:"size:255;not null;default:''"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName returns the table name for AccountLedger.
func (AccountLedger) TableName() string {
	return "account_ledgers"
}

// HasBoundDevice reports whether a device is bound to the account.
func (l *AccountLedger) HasBoundDevice() bool {
	return l.BoundDeviceID != ""
}

// Clone returns a copy of the record.
func (l *AccountLedger) Clone() *AccountLedger {
	if l == nil {
		return nil
	}
	c := *l
	return &c
}

// SameState reports whether the mutable fields of both records match.
func (l *AccountLedger) SameState(other *AccountLedger) bool {
	return l.Balance == other.Balance &&
		l.LastResetAt.Equal(other.LastResetAt) &&
		l.BoundDeviceID == other.BoundDeviceID
}

// UsageEvent is one settled generation. Events are append-only.
type UsageEvent struct {
	ID             uuid.UUID   `json:"id" gorm:"type:uuid;primaryKey"`
	AccountID      string      `json:"accountId" gorm:"size:255;not null;index:idx_usage_account_time,priority:1"`
	FeatureKind    FeatureKind `json:"featureType" gorm:"size:64;not null"`
	CreditsCharged int64       `json:"creditsCharged" gorm:"not null"`
	RequestID      string      `json:"requestId,omitempty" gorm:"size:64"`
	OccurredAt     time.Time   `json:"occurredAt" gorm:"not null;index:idx_usage_account_time,priority:2"`
}

// TableName returns the table name for UsageEvent.
func (UsageEvent) TableName() string {
	return "usage_events"
}

// CreditAuthorization is issued by a successful authorize and consumed by settle.
// Holding one does not reserve credits.
type CreditAuthorization struct {
	AccountID string
	Kind      FeatureKind
	Cost      int64
	IssuedAt  time.Time
	RequestID string
}

// CreditStatus is a point-in-time view of an account after the reset rule.
type CreditStatus struct {
	Balance     int64
	LastResetAt time.Time
	NextResetAt time.Time
	DeviceBound bool
}
