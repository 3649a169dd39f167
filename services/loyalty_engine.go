package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"barberpro-backend/models"
	"barberpro-backend/utils"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type RegisterClientInput struct {
	Name        string
	Phone       string
	Email       string
	Birthday    *time.Time
	Preferences []string
}

type UpdateClientInput struct {
	Name        *string
	Phone       *string
	Email       *string
	Birthday    *time.Time
	Preferences *[]string
	Status      *models.ClientStatus
}

// BonusCredit reports a flat bonus granted to a client.
type BonusCredit struct {
	Client models.ClientProfile
	Points int64
}

// LoyaltyEngine owns client profiles and every movement of loyalty points.
type LoyaltyEngine struct {
	mu      sync.Mutex
	store   LoyaltyStore
	now     func() time.Time
	clients map[uuid.UUID]*models.ClientProfile
	rules   []models.LoyaltyRule
	tiers   []models.LoyaltyTier // ascending MinPoints
	rewards []models.Reward
}

// NewLoyaltyEngine returns an engine with no clients, rules, tiers or rewards.
// Call Restore or SeedDefaults before use.
func NewLoyaltyEngine(store LoyaltyStore, opts ...Option) *LoyaltyEngine {
	s := newSettings(opts)
	return &LoyaltyEngine{
		store:   store,
		now:     s.now,
		clients: make(map[uuid.UUID]*models.ClientProfile),
	}
}

// Restore replaces the in-memory state with the store's content.
func (e *LoyaltyEngine) Restore(ctx context.Context) error {
	clients, err := e.store.LoadClients(ctx)
	if err != nil {
		return fmt.Errorf("load clients: %w", err)
	}
	rules, err := e.store.LoadRules(ctx)
	if err != nil {
		return fmt.Errorf("load rules: %w", err)
	}
	tiers, err := e.store.LoadTiers(ctx)
	if err != nil {
		return fmt.Errorf("load tiers: %w", err)
	}
	rewards, err := e.store.LoadRewards(ctx)
	if err != nil {
		return fmt.Errorf("load rewards: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.clients = make(map[uuid.UUID]*models.ClientProfile, len(clients))
	for i := range clients {
		c := clients[i]
		e.clients[c.ID] = &c
	}
	e.rules = rules
	e.tiers = sortTiers(tiers)
	e.rewards = rewards
	return nil
}

// SeedDefaults installs the stock rules, tiers and rewards when none exist.
func (e *LoyaltyEngine) SeedDefaults(ctx context.Context) error {
	e.mu.Lock()
	empty := len(e.rules) == 0 && len(e.tiers) == 0 && len(e.rewards) == 0
	e.mu.Unlock()
	if !empty {
		return nil
	}

	for _, r := range DefaultLoyaltyRules() {
		if _, err := e.UpsertRule(ctx, r); err != nil {
			return err
		}
	}
	if err := e.SetTiers(ctx, DefaultLoyaltyTiers()); err != nil {
		return err
	}
	for _, r := range DefaultRewards() {
		if _, err := e.UpsertReward(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

// --- clients ---

// RegisterClient creates a client profile with zero points.
func (e *LoyaltyEngine) RegisterClient(ctx context.Context, in RegisterClientInput) (*models.ClientProfile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: client name is required", ErrValidation)
	}
	phone := strings.TrimSpace(in.Phone)
	if phone != "" && !utils.ValidatePhone(phone) {
		return nil, fmt.Errorf("%w: invalid phone number format", ErrValidation)
	}
	if in.Email != "" && !utils.ValidateEmail(in.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if phone != "" && e.phoneTaken(phone, uuid.Nil) {
		return nil, fmt.Errorf("%w: client with this phone number", ErrDuplicate)
	}

	now := e.now()
	client := &models.ClientProfile{
		ID:          uuid.New(),
		Name:        name,
		Phone:       phone,
		Email:       strings.TrimSpace(in.Email),
		Birthday:    in.Birthday,
		Status:      models.ClientActive,
		TotalSpent:  decimal.Zero,
		MemberSince: now.Format(models.BookingDateLayout),
		Preferences: models.StringList(in.Preferences).Clone(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := e.commitClient(ctx, client); err != nil {
		return nil, err
	}

	log.Info().Str("client_id", client.ID.String()).Msg("client registered")
	out := client.Clone()
	return &out, nil
}

// UpdateClient applies the non-nil fields of in to the profile.
func (e *LoyaltyEngine) UpdateClient(ctx context.Context, id uuid.UUID, in UpdateClientInput) (*models.ClientProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	next := current.Clone()

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: client name is required", ErrValidation)
		}
		next.Name = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone != "" && !utils.ValidatePhone(phone) {
			return nil, fmt.Errorf("%w: invalid phone number format", ErrValidation)
		}
		if phone != "" && e.phoneTaken(phone, id) {
			return nil, fmt.Errorf("%w: another client with this phone number", ErrDuplicate)
		}
		next.Phone = phone
	}
	if in.Email != nil {
		if *in.Email != "" && !utils.ValidateEmail(*in.Email) {
			return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
		}
		next.Email = strings.TrimSpace(*in.Email)
	}
	if in.Birthday != nil {
		b := *in.Birthday
		next.Birthday = &b
	}
	if in.Preferences != nil {
		next.Preferences = models.StringList(*in.Preferences).Clone()
	}
	if in.Status != nil {
		if *in.Status != models.ClientActive && *in.Status != models.ClientInactive {
			return nil, fmt.Errorf("%w: unknown client status %q", ErrValidation, *in.Status)
		}
		next.Status = *in.Status
	}
	next.UpdatedAt = e.now()

	if err := e.commitClient(ctx, &next); err != nil {
		return nil, err
	}
	out := next.Clone()
	return &out, nil
}

// GetClient returns a copy of the profile, or ErrClientNotFound.
func (e *LoyaltyEngine) GetClient(ctx context.Context, id uuid.UUID) (*models.ClientProfile, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.clients[id]
	if !ok {
		return nil, ErrClientNotFound
	}
	out := c.Clone()
	return &out, nil
}

// ListClients returns all clients ordered by name.
func (e *LoyaltyEngine) ListClients(ctx context.Context) []models.ClientProfile {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.ClientProfile, 0, len(e.clients))
	for _, c := range e.clients {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (e *LoyaltyEngine) phoneTaken(phone string, except uuid.UUID) bool {
	for id, c := range e.clients {
		if id != except && c.Phone == phone {
			return true
		}
	}
	return false
}

func (e *LoyaltyEngine) commitClient(ctx context.Context, c *models.ClientProfile) error {
	if err := e.store.SaveClient(ctx, c); err != nil {
		return fmt.Errorf("save client: %w", err)
	}
	e.clients[c.ID] = c
	return nil
}

// --- accrual and redemption ---

// Accrue credits points for amount spent by the client and returns the
// number of points granted.
func (e *LoyaltyEngine) Accrue(ctx context.Context, clientID uuid.UUID, amount decimal.Decimal, description string) (int64, error) {
	if amount.IsNegative() {
		return 0, fmt.Errorf("%w: amount must not be negative", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.clients[clientID]
	if !ok {
		return 0, ErrClientNotFound
	}

	points := e.pointsFor(amount, current.LifetimePoints)
	if points == 0 {
		return 0, nil
	}
	next := current.Clone()
	e.credit(&next, points, description)
	if err := e.commitClient(ctx, &next); err != nil {
		return 0, err
	}

	log.Debug().Str("client_id", clientID.String()).Int64("points", points).Msg("points accrued")
	return points, nil
}

// RecordVisit books a completed appointment against the client: visit
// aggregates, history and spend-based accrual. A booking already in the
// client's history is not counted again.
func (e *LoyaltyEngine) RecordVisit(ctx context.Context, b models.Booking) error {
	if b.Price.IsNegative() {
		return fmt.Errorf("%w: booking price must not be negative", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.clients[b.ClientID]
	if !ok {
		return ErrClientNotFound
	}
	if current.HasVisit(b.ID) {
		log.Debug().Str("booking_id", b.ID.String()).Msg("visit already recorded")
		return nil
	}
	next := current.Clone()
	next.TotalVisits++
	next.TotalSpent = next.TotalSpent.Add(b.Price)
	next.LastVisit = b.Date
	next.History = append(next.History, models.Visit{
		ID:          uuid.New(),
		ClientID:    next.ID,
		BookingID:   b.ID,
		Date:        b.Date,
		ServiceName: b.ServiceName,
		BarberName:  b.BarberName,
		Price:       b.Price,
	})

	points := e.pointsFor(b.Price, current.LifetimePoints)
	if points > 0 {
		e.credit(&next, points, "Points earned: "+b.ServiceName)
	}
	next.UpdatedAt = e.now()

	if err := e.commitClient(ctx, &next); err != nil {
		return err
	}

	log.Info().
		Str("client_id", next.ID.String()).
		Str("booking_id", b.ID.String()).
		Int64("points", points).
		Msg("visit recorded")
	return nil
}

// Redeem exchanges points for a reward and issues a voucher for it.
func (e *LoyaltyEngine) Redeem(ctx context.Context, clientID, rewardID uuid.UUID) (*models.Voucher, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.clients[clientID]
	if !ok {
		return nil, ErrClientNotFound
	}
	reward, ok := e.findReward(rewardID)
	if !ok {
		return nil, ErrRewardNotFound
	}
	if current.LoyaltyPoints < reward.PointsRequired {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrInsufficientPoints, current.LoyaltyPoints, reward.PointsRequired)
	}

	now := e.now()
	next := current.Clone()
	next.LoyaltyPoints -= reward.PointsRequired
	next.LoyaltyHistory = append(next.LoyaltyHistory, models.LoyaltyTransaction{
		ID:          uuid.New(),
		ClientID:    next.ID,
		Type:        models.LoyaltyRedeem,
		Points:      -reward.PointsRequired,
		Description: "Redeemed: " + reward.Name,
		CreatedAt:   now,
	})
	voucher := models.Voucher{
		Code:       newVoucherCode(),
		ClientID:   next.ID,
		RewardID:   reward.ID,
		RewardName: reward.Name,
		Points:     reward.PointsRequired,
		IssuedAt:   now,
		ExpiresAt:  now.Add(models.VoucherValidity),
	}
	next.Vouchers = append(next.Vouchers, voucher)
	next.UpdatedAt = now

	if err := e.commitClient(ctx, &next); err != nil {
		return nil, err
	}

	log.Info().
		Str("client_id", clientID.String()).
		Str("reward", reward.Name).
		Str("voucher", voucher.Code).
		Msg("reward redeemed")
	return &voucher, nil
}

// ApplyBonus credits the flat value of the active rules of ruleType.
// Tier multipliers do not apply to bonuses.
func (e *LoyaltyEngine) ApplyBonus(ctx context.Context, clientID uuid.UUID, ruleType models.LoyaltyRuleType) (int64, error) {
	if !ruleType.IsBonus() {
		return 0, fmt.Errorf("%w: %q is not a bonus rule type", ErrValidation, ruleType)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	current, ok := e.clients[clientID]
	if !ok {
		return 0, ErrClientNotFound
	}
	points, label, err := e.bonusFor(ruleType)
	if err != nil {
		return 0, err
	}

	next := current.Clone()
	e.credit(&next, points, label)
	if ruleType == models.RuleBirthday {
		next.LastBirthdayBonusYear = e.now().Year()
	}
	if err := e.commitClient(ctx, &next); err != nil {
		return 0, err
	}

	log.Info().
		Str("client_id", clientID.String()).
		Str("rule_type", string(ruleType)).
		Int64("points", points).
		Msg("bonus applied")
	return points, nil
}

// ApplyBirthdayBonuses credits the birthday bonus to every active client
// whose birthday falls on today and who has not received it this year.
func (e *LoyaltyEngine) ApplyBirthdayBonuses(ctx context.Context, today time.Time) ([]BonusCredit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	points, label, err := e.bonusFor(models.RuleBirthday)
	if errors.Is(err, ErrNoActiveRule) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var credited []BonusCredit
	for _, c := range e.clients {
		if c.Status != models.ClientActive || !c.BirthdayOn(today) || c.LastBirthdayBonusYear == today.Year() {
			continue
		}
		next := c.Clone()
		e.credit(&next, points, label)
		next.LastBirthdayBonusYear = today.Year()
		if err := e.commitClient(ctx, &next); err != nil {
			return credited, err
		}
		credited = append(credited, BonusCredit{Client: next.Clone(), Points: points})
	}
	return credited, nil
}

func (e *LoyaltyEngine) bonusFor(ruleType models.LoyaltyRuleType) (int64, string, error) {
	total := decimal.Zero
	label := ""
	for _, r := range e.rules {
		if r.Type != ruleType || !r.IsActive {
			continue
		}
		total = total.Add(r.Value)
		if label == "" {
			label = r.Name
		}
	}
	points := total.Round(0).IntPart()
	if label == "" || points <= 0 {
		return 0, "", ErrNoActiveRule
	}
	return points, label, nil
}

// earningRate sums every active EARNING rule.
func (e *LoyaltyEngine) earningRate() decimal.Decimal {
	rate := decimal.Zero
	for _, r := range e.rules {
		if r.Type == models.RuleEarning && r.IsActive {
			rate = rate.Add(r.Value)
		}
	}
	return rate
}

// pointsFor applies the earning rate and the multiplier of the tier held
// before the accrual, rounding half away from zero.
func (e *LoyaltyEngine) pointsFor(amount decimal.Decimal, lifetime int64) int64 {
	base := amount.Mul(e.earningRate())
	multiplier := decimal.NewFromInt(1)
	if tier, ok := e.lookupTier(lifetime); ok {
		multiplier = tier.Multiplier
	}
	return base.Mul(multiplier).Round(0).IntPart()
}

func (e *LoyaltyEngine) credit(c *models.ClientProfile, points int64, description string) {
	c.LoyaltyPoints += points
	c.LifetimePoints += points
	c.LoyaltyHistory = append(c.LoyaltyHistory, models.LoyaltyTransaction{
		ID:          uuid.New(),
		ClientID:    c.ID,
		Type:        models.LoyaltyEarn,
		Points:      points,
		Description: description,
		CreatedAt:   e.now(),
	})
}

func newVoucherCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "BP-" + strings.ToUpper(raw[:10])
}

// --- tiers ---

// LookupTier returns the highest tier whose threshold is at most lifetime.
func (e *LoyaltyEngine) LookupTier(lifetime int64) (*models.LoyaltyTier, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	tier, ok := e.lookupTier(lifetime)
	if !ok {
		return nil, false
	}
	return &tier, true
}

func (e *LoyaltyEngine) lookupTier(lifetime int64) (models.LoyaltyTier, bool) {
	var found models.LoyaltyTier
	ok := false
	for _, t := range e.tiers {
		if t.MinPoints > lifetime {
			break
		}
		found, ok = t, true
	}
	return found, ok
}

// TierProgress reports the client's current tier and the distance to the next.
func (e *LoyaltyEngine) TierProgress(ctx context.Context, clientID uuid.UUID) (*models.TierProgress, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.clients[clientID]
	if !ok {
		return nil, ErrClientNotFound
	}
	progress := &models.TierProgress{}
	if tier, ok := e.lookupTier(c.LifetimePoints); ok {
		progress.Current = cloneTier(tier)
	}
	for _, t := range e.tiers {
		if t.MinPoints > c.LifetimePoints {
			progress.Next = cloneTier(t)
			progress.PointsToNext = t.MinPoints - c.LifetimePoints
			break
		}
	}
	return progress, nil
}

// Tiers returns the tiers ordered by MinPoints.
func (e *LoyaltyEngine) Tiers() []models.LoyaltyTier {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]models.LoyaltyTier, len(e.tiers))
	for i, t := range e.tiers {
		out[i] = *cloneTier(t)
	}
	return out
}

// SetTiers replaces the tier ladder. Thresholds must be distinct and
// non-negative; multipliers must be positive.
func (e *LoyaltyEngine) SetTiers(ctx context.Context, tiers []models.LoyaltyTier) error {
	ladder := make([]models.LoyaltyTier, len(tiers))
	for i, t := range tiers {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: tier name is required", ErrValidation)
		}
		if t.MinPoints < 0 {
			return fmt.Errorf("%w: tier %s has a negative threshold", ErrValidation, t.Name)
		}
		if !t.Multiplier.IsPositive() {
			return fmt.Errorf("%w: tier %s needs a positive multiplier", ErrValidation, t.Name)
		}
		if t.ID == uuid.Nil {
			t.ID = uuid.New()
		}
		ladder[i] = *cloneTier(t)
	}
	ladder = sortTiers(ladder)
	for i := 1; i < len(ladder); i++ {
		if ladder[i].MinPoints == ladder[i-1].MinPoints {
			return fmt.Errorf("%w: tiers %s and %s share threshold %d",
				ErrValidation, ladder[i-1].Name, ladder[i].Name, ladder[i].MinPoints)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.ReplaceTiers(ctx, ladder); err != nil {
		return fmt.Errorf("save tiers: %w", err)
	}
	e.tiers = ladder
	return nil
}

func sortTiers(tiers []models.LoyaltyTier) []models.LoyaltyTier {
	sort.SliceStable(tiers, func(i, j int) bool { return tiers[i].MinPoints < tiers[j].MinPoints })
	return tiers
}

func cloneTier(t models.LoyaltyTier) *models.LoyaltyTier {
	out := t
	out.Benefits = t.Benefits.Clone()
	return &out
}

// --- rules ---

// Rules returns a copy of the configured rules.
func (e *LoyaltyEngine) Rules() []models.LoyaltyRule {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.LoyaltyRule(nil), e.rules...)
}

// SetRules replaces the whole rule catalogue.
func (e *LoyaltyEngine) SetRules(ctx context.Context, rules []models.LoyaltyRule) ([]models.LoyaltyRule, error) {
	next := make([]models.LoyaltyRule, len(rules))
	for i, r := range rules {
		if err := validateRule(r); err != nil {
			return nil, err
		}
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		next[i] = r
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.store.ReplaceRules(ctx, next); err != nil {
		return nil, fmt.Errorf("save rules: %w", err)
	}
	e.rules = next
	return append([]models.LoyaltyRule(nil), next...), nil
}

func validateRule(rule models.LoyaltyRule) error {
	if strings.TrimSpace(rule.Name) == "" {
		return fmt.Errorf("%w: rule name is required", ErrValidation)
	}
	if !rule.Type.IsValid() {
		return fmt.Errorf("%w: unknown rule type %q", ErrValidation, rule.Type)
	}
	if rule.Value.IsNegative() {
		return fmt.Errorf("%w: rule value must not be negative", ErrValidation)
	}
	return nil
}

// UpsertRule creates the rule, or replaces the one with the same ID.
func (e *LoyaltyEngine) UpsertRule(ctx context.Context, rule models.LoyaltyRule) (*models.LoyaltyRule, error) {
	if err := validateRule(rule); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	} else {
		for i, r := range e.rules {
			if r.ID == rule.ID {
				idx = i
				break
			}
		}
	}
	if err := e.store.SaveRule(ctx, &rule); err != nil {
		return nil, fmt.Errorf("save rule: %w", err)
	}
	if idx >= 0 {
		e.rules[idx] = rule
	} else {
		e.rules = append(e.rules, rule)
	}
	return &rule, nil
}

// SetRuleActive toggles a rule on or off.
func (e *LoyaltyEngine) SetRuleActive(ctx context.Context, id uuid.UUID, active bool) (*models.LoyaltyRule, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, r := range e.rules {
		if r.ID != id {
			continue
		}
		r.IsActive = active
		if err := e.store.SaveRule(ctx, &r); err != nil {
			return nil, fmt.Errorf("save rule: %w", err)
		}
		e.rules[i] = r
		return &r, nil
	}
	return nil, ErrRuleNotFound
}

// --- rewards ---

// Rewards returns the reward catalog.
func (e *LoyaltyEngine) Rewards() []models.Reward {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]models.Reward(nil), e.rewards...)
}

// UpsertReward stores reward, assigning an ID when it has none.
func (e *LoyaltyEngine) UpsertReward(ctx context.Context, reward models.Reward) (*models.Reward, error) {
	if strings.TrimSpace(reward.Name) == "" {
		return nil, fmt.Errorf("%w: reward name is required", ErrValidation)
	}
	if reward.PointsRequired <= 0 {
		return nil, fmt.Errorf("%w: reward must cost at least one point", ErrValidation)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	idx := -1
	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	} else {
		for i, r := range e.rewards {
			if r.ID == reward.ID {
				idx = i
				break
			}
		}
	}
	if err := e.store.SaveReward(ctx, &reward); err != nil {
		return nil, fmt.Errorf("save reward: %w", err)
	}
	if idx >= 0 {
		e.rewards[idx] = reward
	} else {
		e.rewards = append(e.rewards, reward)
	}
	return &reward, nil
}

func (e *LoyaltyEngine) findReward(id uuid.UUID) (models.Reward, bool) {
	for _, r := range e.rewards {
		if r.ID == id {
			return r, true
		}
	}
	return models.Reward{}, false
}
