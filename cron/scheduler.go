package cron

import (
	"errors"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/gram12321/sc2stats-sub001/services"
)

// Scheduler periodically folds freshly imported matches into the rating
// state so the rankings stay current without manual runs.
type Scheduler struct {
	cron          *cron.Cron
	ratingService *services.RatingService
	log           zerolog.Logger
}

func NewScheduler(ratingService *services.RatingService, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:          cron.New(cron.WithSeconds()),
		ratingService: ratingService,
		log:           log,
	}
}

// Start schedules the processing job at minute 0 of every hour and runs the
// scheduler in the background.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("0 0 * * * *", s.runProcessing)
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info().Msg("scheduler started")
	return nil
}

// Stop shuts the scheduler down, waiting for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunNow triggers the processing job outside its schedule.
func (s *Scheduler) RunNow() {
	s.runProcessing()
}

func (s *Scheduler) runProcessing() {
	processed, err := s.ratingService.ProcessUnratedMatches()
	if err != nil {
		if errors.Is(err, services.ErrSeasonOneNotSeeded) {
			s.log.Warn().Msg("skipping scheduled processing, season one has not been seeded")
			return
		}
		s.log.Error().Err(err).Msg("scheduled processing failed")
		return
	}

	if processed == 0 {
		s.log.Debug().Msg("no unrated matches to process")
		return
	}
	s.log.Info().Int("matches", processed).Msg("scheduled processing completed")
}
