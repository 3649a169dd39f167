package services

import (
	"barberpro-backend/models"

	"github.com/shopspring/decimal"
)

// Seed catalogue installed for a new shop.

// DefaultLoyaltyRules returns the rules a new shop starts with. IDs are left
// unset.
func DefaultLoyaltyRules() []models.LoyaltyRule {
	return []models.LoyaltyRule{
		{
			Name:        "Standard conversion",
			Type:        models.RuleEarning,
			Value:       decimal.NewFromInt(1),
			IsActive:    true,
			Description: "1 point for every 1.00 spent on services.",
		},
		{
			Name:        "Birthday bonus",
			Type:        models.RuleBirthday,
			Value:       decimal.NewFromInt(50),
			IsActive:    true,
			Description: "Flat points credited on the client's birthday.",
		},
		{
			Name:        "Referral bonus",
			Type:        models.RuleReferral,
			Value:       decimal.NewFromInt(30),
			IsActive:    false,
			Description: "Points earned when a referred client completes a first service.",
		},
	}
}

// DefaultLoyaltyTiers returns the Bronze to Platinum ladder.
func DefaultLoyaltyTiers() []models.LoyaltyTier {
	return []models.LoyaltyTier{
		{Name: "Bronze", MinPoints: 0, Multiplier: decimal.NewFromInt(1),
			Benefits: models.StringList{"Programme membership"}},
		{Name: "Silver", MinPoints: 500, Multiplier: decimal.RequireFromString("1.1"),
			Benefits: models.StringList{"1.1x points earned", "Early access to the schedule"}},
		{Name: "Gold", MinPoints: 1000, Multiplier: decimal.RequireFromString("1.25"),
			Benefits: models.StringList{"1.25x points earned", "Free drink with every service"}},
		{Name: "Platinum", MinPoints: 2000, Multiplier: decimal.RequireFromString("1.5"),
			Benefits: models.StringList{"1.5x points earned", "One free haircut a year"}},
	}
}

// DefaultRewards returns the starter reward catalog.
func DefaultRewards() []models.Reward {
	return []models.Reward{
		{Name: "Free haircut", PointsRequired: 500, Description: "Any cut style on the house.", Icon: "Scissors"},
		{Name: "Full beard", PointsRequired: 300, Description: "Complete treatment with hot towel.", Icon: "User"},
		{Name: "10% off products", PointsRequired: 150, Description: "Valid for any pomade or shampoo.", Icon: "Package"},
		{Name: "Special wash", PointsRequired: 100, Description: "Wash with menthol scalp massage.", Icon: "Zap"},
	}
}
