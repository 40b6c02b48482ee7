package service

import (
	"context"
	"time"

	"github.com/JosiahBull/tom-bot/internal/core/port"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
)

var openOrphans = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "tombot_open_orphans",
	Help: "Rendered messages currently without a backing store record.",
})

// Reconciler periodically surfaces rendered messages that have no backing
// record. Creation is at-most-once by design, so the sweep only logs the
// divergence for an operator; it never retries the insert and never touches
// the rendered message.
type Reconciler struct {
	store    port.ItemStore
	interval time.Duration
}

func NewReconciler(store port.ItemStore, interval time.Duration) *Reconciler {
	return &Reconciler{store: store, interval: interval}
}

// Run sweeps once immediately and then on every interval tick until the
// context is cancelled.
func (r *Reconciler) Run(ctx context.Context) {
	r.sweep(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping orphan reconciler")
			return
		case <-ticker.C:
			r.sweep(ctx)
		}
	}
}

func (r *Reconciler) sweep(ctx context.Context) {
	orphans, err := r.store.Orphans(ctx)
	if err != nil {
		log.Error().Err(err).Msg("orphan sweep failed")
		return
	}

	openOrphans.Set(float64(len(orphans)))

	for _, o := range orphans {
		log.Warn().
			Uint64("messageId", o.MessageID).
			Uint64("channelId", o.ChannelID).
			Str("item", o.Item).
			Time("recordedAt", o.RecordedAt).
			Msg("rendered message has no backing record")
	}
}
