package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/cache"
	"github.com/lpxcollect/lpx_api/internal/repository"
)

// MetricsWorker periodically flushes buffered product view counts from
// Redis into Postgres and recomputes the denormalized vendor rollups
// (rating, product_count).
type MetricsWorker struct {
	vendorRepo  *repository.VendorRepository
	productRepo *repository.ProductRepository
	viewCounter *cache.ViewCounter
	interval    time.Duration
}

// NewMetricsWorker constructs a MetricsWorker.
func NewMetricsWorker(
	vendorRepo *repository.VendorRepository,
	productRepo *repository.ProductRepository,
	viewCounter *cache.ViewCounter,
	interval time.Duration,
) *MetricsWorker {
	return &MetricsWorker{
		vendorRepo:  vendorRepo,
		productRepo: productRepo,
		viewCounter: viewCounter,
		interval:    interval,
	}
}

// Start begins the periodic metrics loop until context is canceled.
func (w *MetricsWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting metrics worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Metrics worker stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *MetricsWorker) runOnce(ctx context.Context) {
	w.flushViews(ctx)
	w.refreshVendorRollups()
}

// flushViews drains the Redis view buffer into the products table.
// Counts are removed from Redis atomically (GETDEL), so a crash after
// the drain loses at most one interval of views.
func (w *MetricsWorker) flushViews(ctx context.Context) {
	counts, err := w.viewCounter.Drain(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Failed to drain view counters")
		return
	}
	if len(counts) == 0 {
		return
	}

	flushed := 0
	for productID, delta := range counts {
		if err := w.productRepo.AddViews(productID, delta); err != nil {
			log.Error().Err(err).Str("product_id", productID).Int("delta", delta).Msg("Failed to flush views")
			continue
		}
		flushed++
	}
	log.Info().Int("products", flushed).Msg("Flushed product views")
}

// refreshVendorRollups recomputes rating and product_count for every
// vendor from its active products.
func (w *MetricsWorker) refreshVendorRollups() {
	vendorIDs, err := w.vendorRepo.GetAllIDs()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list vendors for rollup")
		return
	}

	for _, vendorID := range vendorIDs {
		products, err := w.productRepo.GetByVendor(vendorID)
		if err != nil {
			log.Error().Err(err).Str("vendor_id", vendorID).Msg("Failed to load vendor products")
			continue
		}

		var ratingSum float64
		rated := 0
		active := 0
		for _, p := range products {
			if !p.IsActive {
				continue
			}
			active++
			if p.Rating > 0 {
				ratingSum += p.Rating
				rated++
			}
		}
		rating := 0.0
		if rated > 0 {
			rating = ratingSum / float64(rated)
		}

		if err := w.vendorRepo.UpdateMetrics(vendorID, rating, active); err != nil {
			log.Error().Err(err).Str("vendor_id", vendorID).Msg("Failed to update vendor rollups")
		}
	}
}
