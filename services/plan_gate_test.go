package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"barberpro-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPlanGate_BarberCap(t *testing.T) {
	g := NewPlanGate()

	assert.Equal(t, 1, g.BarberCap(models.Plan{Tier: models.PlanRookie}))
	assert.Equal(t, DefaultProBarberCap, g.BarberCap(models.Plan{Tier: models.PlanPro}))
	assert.Equal(t, -1, g.BarberCap(models.Plan{Tier: models.PlanLegend}))
	assert.Equal(t, 8, NewPlanGate(WithProBarberCap(8)).BarberCap(models.Plan{Tier: models.PlanPro}))
}

func TestPlanGate_CanAddBarber(t *testing.T) {
	clock := newTestClock(2025, 3, 1)
	g := NewPlanGate(WithClock(clock.Now))
	trial := models.NewTrialPlan(clock.Now())

	assert.True(t, g.CanAddBarber(0, trial))
	assert.False(t, g.CanAddBarber(1, trial))

	pro := models.Plan{Tier: models.PlanPro}
	assert.True(t, g.CanAddBarber(4, pro))
	assert.False(t, g.CanAddBarber(5, pro))

	legend := models.Plan{Tier: models.PlanLegend}
	assert.True(t, g.CanAddBarber(500, legend))
}

func TestPlanGate_IsModuleUnlocked(t *testing.T) {
	clock := newTestClock(2025, 3, 1)
	g := NewPlanGate(WithClock(clock.Now))
	rookie := models.NewTrialPlan(clock.Now())
	pro := models.Plan{Tier: models.PlanPro}
	legend := models.Plan{Tier: models.PlanLegend}

	assert.True(t, g.IsModuleUnlocked(ModuleBooking, rookie))
	assert.False(t, g.IsModuleUnlocked(ModuleFinance, rookie))
	assert.True(t, g.IsModuleUnlocked(ModuleStock, pro))
	assert.True(t, g.IsModuleUnlocked(ModuleLoyalty, pro))
	assert.False(t, g.IsModuleUnlocked(ModuleInsights, pro))
	assert.True(t, g.IsModuleUnlocked(ModuleInsights, legend))
	assert.True(t, g.IsModuleUnlocked(ModuleMultiUnit, legend))

	err := g.Check(ModuleFinance, rookie)
	assert.ErrorIs(t, err, ErrModuleLocked)
	assert.ErrorIs(t, err, ErrPlanLimitExceeded)
	assert.NoError(t, g.Check(ModuleFinance, pro))
}

func TestPlanGate_TrialExpiryLocksEverything(t *testing.T) {
	clock := newTestClock(2025, 3, 1)
	g := NewPlanGate(WithClock(clock.Now))
	trial := models.NewTrialPlan(clock.Now())

	assert.Equal(t, 7, g.TrialDaysRemaining(trial))
	clock.Advance(36 * time.Hour)
	assert.Equal(t, 6, g.TrialDaysRemaining(trial), "partial days round up")

	clock.Advance(models.TrialPeriod)
	assert.True(t, g.TrialExpired(trial))
	assert.Zero(t, g.TrialDaysRemaining(trial))
	assert.False(t, g.IsModuleUnlocked(ModuleBooking, trial))
	assert.Empty(t, g.UnlockedModules(trial))
	assert.False(t, g.CanAddBarber(0, trial))
	assert.ErrorIs(t, g.Check(ModuleBooking, trial), ErrTrialExpired)
	assert.ErrorIs(t, g.CheckBarberHeadcount(0, trial), ErrTrialExpired)

	assert.Zero(t, g.TrialDaysRemaining(models.Plan{Tier: models.PlanPro}))
}

func TestStaffRoster_AddBarber_EnforcesPlanCap(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(2025, 3, 1)
	opts := []Option{WithClock(clock.Now), WithHashCost(bcrypt.MinCost)}
	roster := NewStaffRoster(NopStore{}, NewPlanGate(opts...), opts...)
	pro := models.Plan{Tier: models.PlanPro}

	add := func(i int, plan models.Plan) error {
		_, err := roster.AddBarber(ctx, AddBarberInput{
			Name:     fmt.Sprintf("Barber %d", i),
			Email:    fmt.Sprintf("barber%d@shop.com", i),
			Password: "password1",
		}, plan)
		return err
	}

	for i := 0; i < 5; i++ {
		require.NoError(t, add(i, pro))
	}
	err := add(5, pro)
	assert.ErrorIs(t, err, ErrBarberLimit)
	assert.ErrorIs(t, err, ErrPlanLimitExceeded)
	assert.Equal(t, 5, roster.ActiveCount())

	require.NoError(t, add(5, models.Plan{Tier: models.PlanLegend}))
	assert.Equal(t, 6, roster.ActiveCount())
}

func TestStaffRoster_AddBarber_Validation(t *testing.T) {
	ctx := context.Background()
	roster := NewStaffRoster(NopStore{}, NewPlanGate(), WithHashCost(bcrypt.MinCost))
	legend := models.Plan{Tier: models.PlanLegend}

	_, err := roster.AddBarber(ctx, AddBarberInput{Name: "Rafa", Email: "rafa", Password: "password1"}, legend)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = roster.AddBarber(ctx, AddBarberInput{Name: "Rafa", Email: "rafa@shop.com", Password: "short"}, legend)
	assert.ErrorIs(t, err, ErrValidation)

	b, err := roster.AddBarber(ctx, AddBarberInput{Name: "Rafa", Email: "Rafa@Shop.com", Password: "password1"}, legend)
	require.NoError(t, err)
	assert.Equal(t, "rafa@shop.com", b.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(b.PasswordHash), []byte("password1")))

	_, err = roster.AddBarber(ctx, AddBarberInput{Name: "Rafael", Email: "rafa@shop.com", Password: "password1"}, legend)
	assert.ErrorIs(t, err, ErrDuplicate)
}

func TestStaffRoster_SetActive_ReactivationCountsAgainstPlan(t *testing.T) {
	ctx := context.Background()
	roster := NewStaffRoster(NopStore{}, NewPlanGate(), WithHashCost(bcrypt.MinCost))
	rookie := models.Plan{Tier: models.PlanRookie}

	first, err := roster.AddBarber(ctx, AddBarberInput{Name: "Rafa", Email: "rafa@shop.com", Password: "password1"}, rookie)
	require.NoError(t, err)

	_, err = roster.Deactivate(ctx, first.ID)
	require.NoError(t, err)

	_, err = roster.AddBarber(ctx, AddBarberInput{Name: "Leo", Email: "leo@shop.com", Password: "password1"}, rookie)
	require.NoError(t, err)

	_, err = roster.SetActive(ctx, first.ID, true, rookie)
	assert.ErrorIs(t, err, ErrBarberLimit)

	got, err := roster.GetBarber(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestShopSettings_ChangePlan(t *testing.T) {
	ctx := context.Background()
	clock := newTestClock(2025, 3, 1)
	shop := NewShopSettings(NopStore{}, WithClock(clock.Now))
	require.NoError(t, shop.Restore(ctx, "BarberPro"))

	plan := shop.Plan()
	assert.Equal(t, models.PlanRookie, plan.Tier)
	assert.True(t, plan.Trial)
	require.NotNil(t, plan.TrialExpires)
	originalExpiry := *plan.TrialExpires

	updated, err := shop.ChangePlan(ctx, models.PlanPro)
	require.NoError(t, err)
	assert.Equal(t, models.PlanPro, updated.Plan.Tier)
	assert.False(t, updated.Plan.Trial)

	clock.Advance(48 * time.Hour)
	updated, err = shop.ChangePlan(ctx, models.PlanRookie)
	require.NoError(t, err)
	assert.True(t, updated.Plan.Trial)
	assert.Equal(t, originalExpiry, *updated.Plan.TrialExpires)

	_, err = shop.ChangePlan(ctx, "GOLD")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestShopSettings_UpdateProfile(t *testing.T) {
	ctx := context.Background()
	store := &flakyStore{}
	shop := NewShopSettings(store)
	require.NoError(t, shop.Restore(ctx, "BarberPro"))

	name, state := "Navalha de Ouro", " sp "
	updated, err := shop.UpdateProfile(ctx, UpdateShopInput{Name: &name, State: &state})
	require.NoError(t, err)
	assert.Equal(t, "Navalha de Ouro", updated.Name)
	assert.Equal(t, "SP", updated.State)

	empty := " "
	_, err = shop.UpdateProfile(ctx, UpdateShopInput{Name: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	store.err = errStoreDown
	other := "Other"
	_, err = shop.UpdateProfile(ctx, UpdateShopInput{Name: &other})
	assert.ErrorIs(t, err, errStoreDown)
	assert.Equal(t, "Navalha de Ouro", shop.Shop().Name)
}
