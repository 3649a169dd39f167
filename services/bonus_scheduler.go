package services

import (
	"context"
	"fmt"
	"time"

	"barberpro-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// DefaultBonusSchedule runs the birthday sweep every day at 9 AM.
const DefaultBonusSchedule = "0 9 * * *"

// BonusNotifier is told about each bonus the scheduler grants.
type BonusNotifier interface {
	NotifyBonus(ctx context.Context, credit BonusCredit) models.NotificationLog
}

// BonusScheduler is the external trigger for date-based loyalty bonuses.
type BonusScheduler struct {
	loyalty  *LoyaltyEngine
	notifier BonusNotifier
	now      func() time.Time
	cron     *cron.Cron
	schedule string
}

// NewBonusScheduler builds a scheduler; notifier may be nil.
func NewBonusScheduler(loyalty *LoyaltyEngine, notifier BonusNotifier, schedule string, opts ...Option) *BonusScheduler {
	s := newSettings(opts)
	if schedule == "" {
		schedule = DefaultBonusSchedule
	}
	return &BonusScheduler{
		loyalty:  loyalty,
		notifier: notifier,
		now:      s.now,
		cron:     cron.New(),
		schedule: schedule,
	}
}

// RunOnce credits today's birthday bonuses and notifies the clients. When
// the run stops early, clients credited before the failure are still told.
func (s *BonusScheduler) RunOnce(ctx context.Context) ([]BonusCredit, error) {
	log.Info().Msg("starting birthday bonus run")

	credits, err := s.loyalty.ApplyBirthdayBonuses(ctx, s.now())
	if s.notifier != nil {
		for _, c := range credits {
			s.notifier.NotifyBonus(ctx, c)
		}
	}
	if err != nil {
		return credits, fmt.Errorf("apply birthday bonuses: %w", err)
	}

	log.Info().Int("credited", len(credits)).Msg("birthday bonus run completed")
	return credits, nil
}

// Start registers the job and starts the cron runner.
func (s *BonusScheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.RunOnce(ctx); err != nil {
			log.Error().Err(err).Msg("birthday bonus run failed")
		}
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", s.schedule, err)
	}
	s.cron.Start()
	log.Info().Str("schedule", s.schedule).Msg("bonus scheduler started")
	return nil
}

// Stop halts the runner and waits for a running job to finish.
func (s *BonusScheduler) Stop() {
	<-s.cron.Stop().Done()
}
