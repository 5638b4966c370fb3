package processor

import (
	"context"

	"pustakago/background-worker-service/internal/app/background-worker/service"
	"pustakago/pkg/logger"

	"github.com/robfig/cron/v3"
)

// cronLogAdapter направляет внутренние логи cron в zerolog
type cronLogAdapter struct{}

func (cronLogAdapter) Printf(format string, args ...interface{}) {
	logger.Debug().Msgf(format, args...)
}

// CronScheduler периодически запускает сверку агрегатов рейтинга
type CronScheduler struct {
	cron         *cron.Cron
	reconcileSvc service.ReconcileServiceInterface
}

func NewCronScheduler(reconcileSvc service.ReconcileServiceInterface) *CronScheduler {
	c := cron.New(cron.WithLogger(cron.VerbosePrintfLogger(cronLogAdapter{})))

	return &CronScheduler{
		cron:         c,
		reconcileSvc: reconcileSvc,
	}
}

func (s *CronScheduler) Start(ctx context.Context, schedule string) error {
	logger.Info().Str("schedule", schedule).Msg("Starting cron scheduler")

	_, err := s.cron.AddFunc(schedule, func() {
		logger.Info().Msg("Cron job triggered: reconciling rating aggregates")

		if err := s.reconcileSvc.ReconcileDirtyBooks(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to reconcile rating aggregates")
		} else {
			logger.Info().Msg("Cron job completed: rating aggregates reconciled")
		}
	})

	if err != nil {
		return err
	}

	s.cron.Start()
	logger.Info().Msg("Cron scheduler started")

	// Первый прогон сразу при старте: разбираем очередь, накопившуюся пока воркер не работал
	logger.Info().Msg("Performing initial reconciliation run...")
	if err := s.reconcileSvc.ReconcileDirtyBooks(ctx); err != nil {
		logger.Warn().Err(err).Msg("Initial reconciliation run failed")
	} else {
		logger.Info().Msg("Initial reconciliation run completed")
	}

	return nil
}

func (s *CronScheduler) Stop() {
	logger.Info().Msg("Stopping cron scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info().Msg("Cron scheduler stopped")
}

func (s *CronScheduler) GetEntries() []cron.Entry {
	return s.cron.Entries()
}
