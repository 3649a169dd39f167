package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type PlanTier string

const (
	PlanRookie PlanTier = "ROOKIE"
	PlanPro    PlanTier = "PRO"
	PlanLegend PlanTier = "LEGEND"
)

// TrialPeriod is the length of a Rookie trial.
const TrialPeriod = 7 * 24 * time.Hour

func (t PlanTier) IsValid() bool {
	return t == PlanRookie || t == PlanPro || t == PlanLegend
}

var planNames = map[string]PlanTier{
	"rookie":        PlanRookie,
	"rookie (free)": PlanRookie,
	"free":          PlanRookie,
	"pro":           PlanPro,
	"barber pro":    PlanPro,
	"legend":        PlanLegend,
	"legend shop":   PlanLegend,
}

// ParsePlanTier accepts the tier codes as well as the commercial plan names
// ("Rookie (Free)", "Barber Pro", "Legend Shop"), ignoring case.
func ParsePlanTier(name string) (PlanTier, bool) {
	tier, ok := planNames[strings.ToLower(strings.TrimSpace(name))]
	return tier, ok
}

type Plan struct {
	Tier         PlanTier   `gorm:"type:varchar(10);not null;default:'ROOKIE'" json:"tier"`
	Trial        bool       `json:"trial"`
	TrialExpires *time.Time `json:"trialExpires,omitempty"`
}

// NewTrialPlan starts a Rookie trial at now.
func NewTrialPlan(now time.Time) Plan {
	expires := now.Add(TrialPeriod)
	return Plan{Tier: PlanRookie, Trial: true, TrialExpires: &expires}
}

// TrialExpired reports whether the plan is a trial that has run out at now.
func (p Plan) TrialExpired(now time.Time) bool {
	return p.Trial && p.TrialExpires != nil && !now.Before(*p.TrialExpires)
}

type Shop struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	CompanyCode string    `gorm:"uniqueIndex" json:"companyCode"`
	Plan        Plan      `gorm:"embedded;embeddedPrefix:plan_" json:"plan"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
