package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoyaltyRuleType string

const (
	RuleEarning  LoyaltyRuleType = "EARNING"
	RuleBirthday LoyaltyRuleType = "BIRTHDAY"
	RuleReferral LoyaltyRuleType = "REFERRAL"
	RuleStreak   LoyaltyRuleType = "STREAK"
)

func (t LoyaltyRuleType) IsValid() bool {
	switch t {
	case RuleEarning, RuleBirthday, RuleReferral, RuleStreak:
		return true
	}
	return false
}

// IsBonus reports whether the rule grants a flat credit on an external event.
func (t LoyaltyRuleType) IsBonus() bool {
	return t == RuleBirthday || t == RuleReferral || t == RuleStreak
}

// LoyaltyRule values are points per currency unit for EARNING rules and a
// flat number of points for the bonus types.
type LoyaltyRule struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name        string          `gorm:"not null" json:"name"`
	Type        LoyaltyRuleType `gorm:"type:varchar(20);not null" json:"type"`
	Value       decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"value"`
	IsActive    bool            `gorm:"not null" json:"isActive"`
	Description string          `json:"description"`
}

type LoyaltyTier struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name       string          `gorm:"not null" json:"name"`
	MinPoints  int64           `gorm:"uniqueIndex;not null" json:"minPoints"`
	Multiplier decimal.Decimal `gorm:"type:decimal(6,3);not null" json:"multiplier"`
	Benefits   StringList      `gorm:"type:jsonb" json:"benefits"`
}

type Reward struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name           string    `gorm:"not null" json:"name"`
	Description    string    `json:"description"`
	PointsRequired int64     `gorm:"not null" json:"pointsRequired"`
	Icon           string    `json:"icon,omitempty"`
}

type LoyaltyTransactionType string

const (
	LoyaltyEarn   LoyaltyTransactionType = "EARN"
	LoyaltyRedeem LoyaltyTransactionType = "REDEEM"
)

// LoyaltyTransaction is one signed entry of a client's append-only points ledger.
type LoyaltyTransaction struct {
	ID          uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	ClientID    uuid.UUID              `gorm:"type:uuid;index;not null" json:"clientId"`
	Type        LoyaltyTransactionType `gorm:"type:varchar(10);not null" json:"type"`
	Points      int64                  `gorm:"not null" json:"points"`
	Description string                 `json:"description"`
	CreatedAt   time.Time              `json:"date"`
}

// VoucherValidity is how long a redemption voucher can be presented.
const VoucherValidity = 30 * 24 * time.Hour

type Voucher struct {
	Code       string    `gorm:"primary_key" json:"code"`
	ClientID   uuid.UUID `gorm:"type:uuid;index;not null" json:"clientId"`
	RewardID   uuid.UUID `gorm:"type:uuid;not null" json:"rewardId"`
	RewardName string    `json:"rewardName"`
	Points     int64     `json:"points"`
	IssuedAt   time.Time `json:"issuedAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// TierProgress describes where a client stands on the tier ladder.
type TierProgress struct {
	Current      *LoyaltyTier `json:"current"`
	Next         *LoyaltyTier `json:"next,omitempty"`
	PointsToNext int64        `json:"pointsToNext"`
}
