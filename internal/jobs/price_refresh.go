// Package jobs contains the background schedules that run alongside the API
// server. Jobs are best-effort: a failed run logs and waits for the next
// tick, it never crashes the process.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"

	"valuefolio/internal/logger"
	"valuefolio/internal/marketdata"
	"valuefolio/internal/models"
)

// refreshTimeout bounds one full refresh run across all symbols.
const refreshTimeout = 2 * time.Minute

// PriceRefresher periodically fetches quotes for every held symbol across
// all users and writes them back as the lots' current prices.
type PriceRefresher struct {
	db       *gorm.DB
	provider marketdata.Provider
	cron     *cron.Cron
	spec     string
}

// NewPriceRefresher creates a price refresh job with the given cron spec.
func NewPriceRefresher(db *gorm.DB, provider marketdata.Provider, spec string) *PriceRefresher {
	return &PriceRefresher{
		db:       db,
		provider: provider,
		cron:     cron.New(),
		spec:     spec,
	}
}

// Start registers the schedule and launches the cron runner.
func (j *PriceRefresher) Start() error {
	if _, err := j.cron.AddFunc(j.spec, j.runOnce); err != nil {
		return err
	}
	j.cron.Start()
	logger.Get().Infow("price refresh job scheduled", "spec", j.spec)
	return nil
}

// Stop halts the schedule and waits for a running refresh to finish.
func (j *PriceRefresher) Stop() {
	ctx := j.cron.Stop()
	<-ctx.Done()
}

func (j *PriceRefresher) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()

	updated, err := j.Refresh(ctx)
	if err != nil {
		logger.Get().Errorw("price refresh failed", "error", err)
		return
	}
	logger.Get().Infow("price refresh completed", "lots_updated", updated)
}

// Refresh fetches quotes for every distinct held symbol and persists them.
// Symbols the provider omits keep their last known price. Returns the
// number of lots updated.
func (j *PriceRefresher) Refresh(ctx context.Context) (int, error) {
	var holdings []models.Holding
	if err := j.db.
		Distinct("symbol", "market").
		Find(&holdings).Error; err != nil {
		return 0, err
	}
	if len(holdings) == 0 {
		return 0, nil
	}

	bySymbol := make(map[string]string, len(holdings))
	querySymbols := make([]string, 0, len(holdings))
	for i := range holdings {
		h := &holdings[i]
		qs := h.QuoteSymbol()
		if _, seen := bySymbol[qs]; seen {
			continue
		}
		bySymbol[qs] = h.Symbol
		querySymbols = append(querySymbols, qs)
	}

	quotes, err := j.provider.GetQuotes(ctx, querySymbols)
	if err != nil {
		return 0, err
	}

	updated := 0
	for qs, quote := range quotes {
		if quote.Price <= 0 {
			continue
		}
		bare, ok := bySymbol[qs]
		if !ok {
			continue
		}
		res := j.db.Model(&models.Holding{}).
			Where("symbol = ?", bare).
			Update("current_price", quote.Price)
		if res.Error != nil {
			logger.Get().Errorw("failed to write back price",
				"symbol", bare, "error", res.Error)
			continue
		}
		updated += int(res.RowsAffected)
	}
	return updated, nil
}
