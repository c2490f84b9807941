package service

import (
	"database/sql"
	"errors"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

// VendorFinder is the read capability the stats service needs from the
// vendor store. Lookups miss with sql.ErrNoRows.
type VendorFinder interface {
	GetByID(id string) (*models.Vendor, error)
	GetBySlug(slug string) (*models.Vendor, error)
}

// VendorProductLister is the read capability for a vendor's products.
type VendorProductLister interface {
	GetByVendor(vendorID string) ([]models.Product, error)
}

// VendorStatsService computes the vendor dashboard statistics read
// model. Stateless: every call reads a fresh snapshot from the
// repositories and aggregates it, with no caching in between.
type VendorStatsService struct {
	vendors  VendorFinder
	products VendorProductLister
}

// NewVendorStatsService constructs a VendorStatsService.
func NewVendorStatsService(vendors VendorFinder, products VendorProductLister) *VendorStatsService {
	return &VendorStatsService{vendors: vendors, products: products}
}

// OverviewStats summarizes listing counts.
type OverviewStats struct {
	TotalProducts    int `json:"totalProducts"`
	ActiveListings   int `json:"activeListings"`
	OutOfStock       int `json:"outOfStock"`
	FeaturedProducts int `json:"featuredProducts"`
}

// InventoryStats summarizes inventory valuation. Highest and lowest
// price consider only products priced above zero; when none qualify,
// both bounds are reported as 0.
type InventoryStats struct {
	TotalItems   int     `json:"totalItems"`
	TotalValue   float64 `json:"totalValue"`
	AveragePrice float64 `json:"averagePrice"`
	HighestPrice float64 `json:"highestPrice"`
	LowestPrice  float64 `json:"lowestPrice"`
}

// PerformanceStats summarizes engagement totals.
type PerformanceStats struct {
	TotalViews    int     `json:"totalViews"`
	AverageRating float64 `json:"averageRating"`
	TotalReviews  int     `json:"totalReviews"`
}

// CategoryStats is the per-category breakdown entry.
type CategoryStats struct {
	Name  string  `json:"name"`
	Count int     `json:"count"`
	Value float64 `json:"value"`
}

// VendorStats is the full statistics read model for one vendor.
type VendorStats struct {
	Overview       OverviewStats            `json:"overview"`
	Inventory      InventoryStats           `json:"inventory"`
	Performance    PerformanceStats         `json:"performance"`
	Categories     map[string]CategoryStats `json:"categories"`
	TopProducts    []models.Product         `json:"topProducts"`
	RecentListings []models.Product         `json:"recentListings"`
}

// VendorStatsResult pairs the resolved vendor with its stats.
type VendorStatsResult struct {
	Vendor *models.Vendor `json:"vendor"`
	Stats  *VendorStats   `json:"stats"`
}

// GetVendorStats resolves a vendor by id or slug and aggregates its
// product set. A vendor with no products yields zeroed stats, not an
// error. Unknown vendors (and empty keys) return utils.ErrVendorNotFound.
func (s *VendorStatsService) GetVendorStats(idOrSlug string) (*VendorStatsResult, error) {
	vendor, err := resolveVendor(s.vendors, idOrSlug)
	if err != nil {
		return nil, err
	}

	products, err := s.products.GetByVendor(vendor.ID)
	if err != nil {
		log.Error().Err(err).Str("vendor_id", vendor.ID).Msg("Failed to load vendor products for stats")
		return nil, err
	}

	return &VendorStatsResult{
		Vendor: vendor,
		Stats:  AggregateVendorStats(products),
	}, nil
}

// resolveVendor looks a vendor up by id first, then by slug. The id
// check wins when a slug collides with another vendor's id.
func resolveVendor(vendors VendorFinder, idOrSlug string) (*models.Vendor, error) {
	if idOrSlug == "" {
		return nil, utils.ErrVendorNotFound
	}

	vendor, err := vendors.GetByID(idOrSlug)
	if err == nil {
		return vendor, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	vendor, err = vendors.GetBySlug(idOrSlug)
	if err == nil {
		return vendor, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrVendorNotFound
	}
	return nil, err
}

// FilterVendorProducts returns the subset of products attributed to
// the given vendor, preserving input order.
func FilterVendorProducts(products []models.Product, vendorID string) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.VendorID == vendorID {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// AggregateVendorStats reduces a vendor's product set into the stats
// read model. Pure: one counting pass plus two bounded sorts, no I/O.
func AggregateVendorStats(products []models.Product) *VendorStats {
	stats := &VendorStats{
		Categories:     make(map[string]CategoryStats),
		TopProducts:    []models.Product{},
		RecentListings: []models.Product{},
	}

	var (
		priceSum     float64
		ratingSum    float64
		lowestPrice  float64
		highestPrice float64
		havePriced   bool
	)

	for _, p := range products {
		stats.Overview.TotalProducts++
		if p.Stock > 0 {
			stats.Overview.ActiveListings++
		} else {
			stats.Overview.OutOfStock++
		}
		if p.Featured {
			stats.Overview.FeaturedProducts++
		}

		lineValue := p.Price * float64(p.Stock)
		stats.Inventory.TotalItems += p.Stock
		stats.Inventory.TotalValue += lineValue
		priceSum += p.Price

		// Zero-priced products are excluded from both price bounds.
		if p.Price > 0 {
			if !havePriced {
				lowestPrice, highestPrice = p.Price, p.Price
				havePriced = true
			} else {
				if p.Price < lowestPrice {
					lowestPrice = p.Price
				}
				if p.Price > highestPrice {
					highestPrice = p.Price
				}
			}
		}

		stats.Performance.TotalViews += p.Views
		stats.Performance.TotalReviews += p.ReviewCount
		ratingSum += p.Rating

		cat := stats.Categories[p.Category]
		cat.Name = p.Category
		cat.Count++
		cat.Value += lineValue
		stats.Categories[p.Category] = cat
	}

	if n := len(products); n > 0 {
		stats.Inventory.AveragePrice = priceSum / float64(n)
		stats.Performance.AverageRating = ratingSum / float64(n)
	}
	if havePriced {
		stats.Inventory.LowestPrice = lowestPrice
		stats.Inventory.HighestPrice = highestPrice
	}

	stats.TopProducts = topByViews(products, 5)
	stats.RecentListings = recentByCreation(products, 5)

	return stats
}

// topByViews returns up to limit products ordered by views descending.
// The sort is stable so equal view counts keep their input order.
func topByViews(products []models.Product, limit int) []models.Product {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Views > sorted[j].Views
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// recentByCreation returns up to limit products ordered by creation
// time descending. Zero timestamps naturally sort as oldest.
func recentByCreation(products []models.Product, limit int) []models.Product {
	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
