package tracking

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	db "github.com/manokmart/manokmart-BE/internal/db"
	"github.com/manokmart/manokmart-BE/internal/delivery"
	"github.com/rs/zerolog/log"
)

const (
	pollInterval         = 30 * time.Second
	autoCompleteInterval = 1 * time.Hour
	autoCompleteAfter    = 7 * 24 * time.Hour
)

// Tracker reconciles delivery state with the provider on a schedule. It is
// the safety net for webhook gaps: any status change the webhook endpoint
// missed is picked up by the next poll.
type Tracker struct {
	store        db.Store
	orchestrator *delivery.Orchestrator
	provider     delivery.Provider
	scheduler    gocron.Scheduler
}

func NewTracker(store db.Store, provider delivery.Provider, orchestrator *delivery.Orchestrator) (*Tracker, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &Tracker{
		store:        store,
		orchestrator: orchestrator,
		provider:     provider,
		scheduler:    scheduler,
	}, nil
}

func (t *Tracker) Start() error {
	_, err := t.scheduler.NewJob(
		gocron.DurationJob(pollInterval),
		gocron.NewTask(
			func() {
				t.pollActiveDeliveries()
			},
		),
	)
	if err != nil {
		return err
	}

	_, err = t.scheduler.NewJob(
		gocron.DurationJob(autoCompleteInterval),
		gocron.NewTask(
			func() {
				log.Info().
					Str("job", "auto_complete_orders").
					Time("start_time", time.Now()).
					Msg("Starting auto-complete orders job")

				t.autoCompleteDeliveredOrders()
			},
		),
	)
	if err != nil {
		return err
	}

	t.scheduler.Start()
	return nil
}

func (t *Tracker) Stop() error {
	return t.scheduler.Shutdown()
}
