package services

import (
	"fmt"
	"math"
	"time"

	"barberpro-backend/models"
)

// Module names a gated area of the product.
type Module string

const (
	ModuleBooking   Module = "booking"
	ModuleFinance   Module = "finance"
	ModuleStock     Module = "stock"
	ModuleLoyalty   Module = "loyalty"
	ModuleMarketing Module = "marketing"
	ModuleInsights  Module = "insights"
	ModuleMultiUnit Module = "multi_unit"
)

var planModules = map[models.PlanTier][]Module{
	models.PlanRookie: {ModuleBooking},
	models.PlanPro:    {ModuleBooking, ModuleFinance, ModuleStock, ModuleLoyalty, ModuleMarketing},
	models.PlanLegend: {
		ModuleBooking, ModuleFinance, ModuleStock, ModuleLoyalty, ModuleMarketing,
		ModuleInsights, ModuleMultiUnit,
	},
}

// PlanGate answers what a subscription plan allows.
type PlanGate struct {
	now    func() time.Time
	proCap int
}

// NewPlanGate returns a gate using the built-in module table.
func NewPlanGate(opts ...Option) *PlanGate {
	s := newSettings(opts)
	return &PlanGate{now: s.now, proCap: s.proBarberCap}
}

// BarberCap returns the active-barber limit of plan, or -1 when unlimited.
func (g *PlanGate) BarberCap(plan models.Plan) int {
	switch plan.Tier {
	case models.PlanRookie:
		return 1
	case models.PlanPro:
		return g.proCap
	case models.PlanLegend:
		return -1
	}
	return 0
}

// CanAddBarber reports whether a shop with currentCount active barbers may
// take one more.
func (g *PlanGate) CanAddBarber(currentCount int, plan models.Plan) bool {
	if plan.TrialExpired(g.now()) {
		return false
	}
	limit := g.BarberCap(plan)
	return limit < 0 || currentCount < limit
}

// IsModuleUnlocked reports whether plan includes module. Nothing is unlocked
// once a trial has expired.
func (g *PlanGate) IsModuleUnlocked(module Module, plan models.Plan) bool {
	if plan.TrialExpired(g.now()) {
		return false
	}
	for _, m := range planModules[plan.Tier] {
		if m == module {
			return true
		}
	}
	return false
}

// UnlockedModules lists every module open to plan right now.
func (g *PlanGate) UnlockedModules(plan models.Plan) []Module {
	if plan.TrialExpired(g.now()) {
		return []Module{}
	}
	return append([]Module{}, planModules[plan.Tier]...)
}

// TrialExpired reports whether plan is a trial past its end date.
func (g *PlanGate) TrialExpired(plan models.Plan) bool {
	return plan.TrialExpired(g.now())
}

// TrialDaysRemaining rounds partial days up and never goes below zero.
func (g *PlanGate) TrialDaysRemaining(plan models.Plan) int {
	if !plan.Trial || plan.TrialExpires == nil {
		return 0
	}
	left := plan.TrialExpires.Sub(g.now())
	if left <= 0 {
		return 0
	}
	return int(math.Ceil(left.Hours() / 24))
}

// Check returns nil when module is open to plan.
func (g *PlanGate) Check(module Module, plan models.Plan) error {
	if plan.TrialExpired(g.now()) {
		return ErrTrialExpired
	}
	if !g.IsModuleUnlocked(module, plan) {
		return fmt.Errorf("%w: %s requires a higher plan than %s", ErrModuleLocked, module, plan.Tier)
	}
	return nil
}

// CheckBarberHeadcount is the error form of CanAddBarber.
func (g *PlanGate) CheckBarberHeadcount(currentCount int, plan models.Plan) error {
	if plan.TrialExpired(g.now()) {
		return ErrTrialExpired
	}
	if !g.CanAddBarber(currentCount, plan) {
		return fmt.Errorf("%w: %s allows %d active barbers", ErrBarberLimit, plan.Tier, g.BarberCap(plan))
	}
	return nil
}
