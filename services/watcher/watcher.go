package watcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"sjsage522/pricewatcher/internal/scraper"
	apperrors "sjsage522/pricewatcher/pkg/errors"
	"sjsage522/pricewatcher/logger"
	"sjsage522/pricewatcher/services/ledger"
	"sjsage522/pricewatcher/services/notifier"
	"sjsage522/pricewatcher/services/publisher"
)

// Watcher drives the poll loop: fetch and extract an observation,
// compare it against the recorded maximum, notify, persist, fan out.
// Cycles never overlap; all recoverable failures skip to the next tick.
type Watcher struct {
	source       scraper.Source
	ledger       ledger.Ledger
	notifier     notifier.Notifier
	publisher    publisher.Publisher // optional, may be nil
	pollInterval time.Duration
	log          *logger.Logger
}

// NewWatcher creates a new watcher. publisher may be nil when
// observation fan-out is disabled.
func NewWatcher(
	source scraper.Source,
	store ledger.Ledger,
	notif notifier.Notifier,
	pub publisher.Publisher,
	pollInterval time.Duration,
) *Watcher {
	return &Watcher{
		source:       source,
		ledger:       store,
		notifier:     notif,
		publisher:    pub,
		pollInterval: pollInterval,
		log:          logger.ForWatcher(),
	}
}

// Start runs the poll loop until ctx is cancelled. The first cycle
// runs immediately; later cycles run on the fixed interval.
func (w *Watcher) Start(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.log.Info().
		Str("source", w.source.GetName()).
		Dur("poll_interval", w.pollInterval).
		Msg("Watcher started")

	w.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Watcher stopped")
			return nil
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

// runCycle executes a single observe-compare-notify-persist pass. A
// fetch or parse failure ends the cycle with no write and no
// notification; later failures are logged and the cycle carries on.
func (w *Watcher) runCycle(ctx context.Context) {
	start := time.Now()

	obs, err := w.source.Observe()
	if err != nil {
		w.logFailure("Failed to observe product page", err)
		return
	}

	max, maxTimestamp, ok, err := w.ledger.MaxObservedPrice(ctx)
	if err != nil {
		w.logFailure("Failed to read recorded maximum", err)
		return
	}

	// Compare against the pre-write maximum so the new observation
	// never competes with itself.
	var text string
	if !ok || obs.NewPrice > max {
		text = fmt.Sprintf("New maximum price detected: %d", obs.NewPrice)
		w.log.Info().
			Int("new_price", obs.NewPrice).
			Str("product", obs.ProductName).
			Msg("New maximum price detected")
	} else {
		text = fmt.Sprintf("Recorded maximum is %d as of %s", max, maxTimestamp)
		w.log.Info().
			Int("new_price", obs.NewPrice).
			Int("recorded_max", max).
			Msg("No new maximum")
	}

	// Notification failures never affect persistence or the loop.
	if err := w.notifier.Send(ctx, text); err != nil {
		w.logFailure("Failed to send notification", err)
	}

	if err := w.ledger.Append(ctx, obs); err != nil {
		w.logFailure("Failed to append observation", err)
	}

	w.publish(obs)

	w.log.Debug().
		Dur("elapsed", time.Since(start)).
		Msg("Cycle complete")
}

// logFailure logs a cycle failure, tagging typed errors with their
// category and retryability
func (w *Watcher) logFailure(msg string, err error) {
	event := w.log.Error().Err(err)

	var watchErr *apperrors.WatchError
	if errors.As(err, &watchErr) {
		event = event.
			Str("error_type", string(watchErr.Type)).
			Bool("retryable", watchErr.IsRetryable())
	}

	event.Msg(msg)
}

// publish fans the observation out to the stream, if configured
func (w *Watcher) publish(obs *scraper.PriceObservation) {
	if w.publisher == nil {
		return
	}

	data, err := json.Marshal(obs)
	if err != nil {
		w.log.Error().Err(err).Msg("Failed to marshal observation")
		return
	}

	if err := w.publisher.Publish(data); err != nil {
		w.logFailure("Failed to publish observation", err)
	}
}
