package service

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lpxcollect/lpx_api/internal/models"
	"github.com/lpxcollect/lpx_api/internal/utils"
)

type fakeVendorStore struct {
	vendors []models.Vendor
	err     error
}

func (f *fakeVendorStore) GetByID(id string) (*models.Vendor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.vendors {
		if f.vendors[i].ID == id {
			return &f.vendors[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeVendorStore) GetBySlug(slug string) (*models.Vendor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.vendors {
		if f.vendors[i].Slug == slug {
			return &f.vendors[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeProductStore struct {
	products []models.Product
	err      error
}

func (f *fakeProductStore) GetByVendor(vendorID string) ([]models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return FilterVendorProducts(f.products, vendorID), nil
}

func day(n int) time.Time {
	return time.Date(2025, time.January, n, 0, 0, 0, 0, time.UTC)
}

func TestResolveVendorIDBeforeSlug(t *testing.T) {
	// "beta" is vendor v2's id and vendor v1's slug; id must win.
	store := &fakeVendorStore{vendors: []models.Vendor{
		{ID: "v1", Slug: "beta", Name: "Alpha Cards"},
		{ID: "beta", Slug: "beta-collectibles", Name: "Beta Collectibles"},
	}}

	vendor, err := resolveVendor(store, "beta")
	require.NoError(t, err)
	assert.Equal(t, "Beta Collectibles", vendor.Name)

	vendor, err = resolveVendor(store, "beta-collectibles")
	require.NoError(t, err)
	assert.Equal(t, "beta", vendor.ID)
}

func TestResolveVendorNotFound(t *testing.T) {
	store := &fakeVendorStore{vendors: []models.Vendor{{ID: "v1", Slug: "alpha"}}}

	_, err := resolveVendor(store, "missing")
	assert.ErrorIs(t, err, utils.ErrVendorNotFound)

	_, err = resolveVendor(store, "")
	assert.ErrorIs(t, err, utils.ErrVendorNotFound)
}

func TestResolveVendorPropagatesStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	store := &fakeVendorStore{err: boom}

	_, err := resolveVendor(store, "v1")
	assert.ErrorIs(t, err, boom)
}

func TestGetVendorStatsEmptyCatalog(t *testing.T) {
	svc := NewVendorStatsService(
		&fakeVendorStore{vendors: []models.Vendor{{ID: "v1", Slug: "alpha"}}},
		&fakeProductStore{},
	)

	result, err := svc.GetVendorStats("alpha")
	require.NoError(t, err)
	require.NotNil(t, result.Stats)

	stats := result.Stats
	assert.Equal(t, 0, stats.Overview.TotalProducts)
	assert.Zero(t, stats.Inventory.AveragePrice)
	assert.Zero(t, stats.Inventory.HighestPrice)
	assert.Zero(t, stats.Inventory.LowestPrice)
	assert.Zero(t, stats.Performance.AverageRating)
	assert.Empty(t, stats.Categories)
	assert.NotNil(t, stats.TopProducts)
	assert.Empty(t, stats.TopProducts)
	assert.NotNil(t, stats.RecentListings)
	assert.Empty(t, stats.RecentListings)
}

func TestAggregateOverviewCounts(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Stock: 3, Featured: true},
		{ID: "p2", Stock: 0},
		{ID: "p3", Stock: 1},
	}

	stats := AggregateVendorStats(products)
	assert.Equal(t, 3, stats.Overview.TotalProducts)
	assert.Equal(t, 2, stats.Overview.ActiveListings)
	assert.Equal(t, 1, stats.Overview.OutOfStock)
	assert.Equal(t, 1, stats.Overview.FeaturedProducts)
	// Active and out-of-stock partition the product set.
	assert.Equal(t, stats.Overview.TotalProducts, stats.Overview.ActiveListings+stats.Overview.OutOfStock)
}

func TestAggregateInventoryValuation(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Price: 10, Stock: 2},
		{ID: "p2", Price: 40, Stock: 1},
	}

	stats := AggregateVendorStats(products)
	assert.Equal(t, 3, stats.Inventory.TotalItems)
	assert.InDelta(t, 60.0, stats.Inventory.TotalValue, 1e-9)
	assert.InDelta(t, 25.0, stats.Inventory.AveragePrice, 1e-9)
	assert.InDelta(t, 40.0, stats.Inventory.HighestPrice, 1e-9)
	assert.InDelta(t, 10.0, stats.Inventory.LowestPrice, 1e-9)
}

func TestAggregatePriceBoundsExcludeZeroPriced(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Price: 0, Stock: 1},
		{ID: "p2", Price: 15, Stock: 1},
		{ID: "p3", Price: 0, Stock: 1},
	}

	stats := AggregateVendorStats(products)
	assert.InDelta(t, 15.0, stats.Inventory.LowestPrice, 1e-9)
	assert.InDelta(t, 15.0, stats.Inventory.HighestPrice, 1e-9)
	// Average still counts the free listings.
	assert.InDelta(t, 5.0, stats.Inventory.AveragePrice, 1e-9)
}

func TestAggregateAllZeroPricedBoundsAreZero(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Price: 0, Stock: 1},
		{ID: "p2", Price: 0, Stock: 4},
	}

	stats := AggregateVendorStats(products)
	assert.Zero(t, stats.Inventory.LowestPrice)
	assert.Zero(t, stats.Inventory.HighestPrice)
}

func TestAggregatePerformance(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Views: 100, Rating: 4, ReviewCount: 10},
		{ID: "p2", Views: 50, Rating: 0, ReviewCount: 0},
		{ID: "p3", Views: 0, Rating: 5, ReviewCount: 2},
	}

	stats := AggregateVendorStats(products)
	assert.Equal(t, 150, stats.Performance.TotalViews)
	assert.Equal(t, 12, stats.Performance.TotalReviews)
	// Unrated products drag the mean down; they are not skipped.
	assert.InDelta(t, 3.0, stats.Performance.AverageRating, 1e-9)
}

func TestAggregateCategoryBreakdown(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Category: "Trading Cards", Price: 10, Stock: 2},
		{ID: "p2", Category: "Trading Cards", Price: 5, Stock: 1},
		{ID: "p3", Category: "Comics", Price: 8, Stock: 3},
	}

	stats := AggregateVendorStats(products)
	require.Len(t, stats.Categories, 2)

	cards := stats.Categories["Trading Cards"]
	assert.Equal(t, "Trading Cards", cards.Name)
	assert.Equal(t, 2, cards.Count)
	assert.InDelta(t, 25.0, cards.Value, 1e-9)

	comics := stats.Categories["Comics"]
	assert.Equal(t, 1, comics.Count)
	assert.InDelta(t, 24.0, comics.Value, 1e-9)
}

func TestTopProductsStableOrderAndCap(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Views: 10},
		{ID: "p2", Views: 30},
		{ID: "p3", Views: 10},
		{ID: "p4", Views: 50},
		{ID: "p5", Views: 20},
		{ID: "p6", Views: 40},
		{ID: "p7", Views: 10},
	}

	stats := AggregateVendorStats(products)
	require.Len(t, stats.TopProducts, 5)
	assert.Equal(t, "p4", stats.TopProducts[0].ID)
	assert.Equal(t, "p6", stats.TopProducts[1].ID)
	assert.Equal(t, "p2", stats.TopProducts[2].ID)
	assert.Equal(t, "p5", stats.TopProducts[3].ID)
	// Ties on views keep input order: p1 before p3 and p7.
	assert.Equal(t, "p1", stats.TopProducts[4].ID)
}

func TestRecentListingsNewestFirstZeroTimeLast(t *testing.T) {
	products := []models.Product{
		{ID: "p1", CreatedAt: day(3)},
		{ID: "p2"}, // no creation date sorts as oldest
		{ID: "p3", CreatedAt: day(9)},
		{ID: "p4", CreatedAt: day(1)},
	}

	stats := AggregateVendorStats(products)
	require.Len(t, stats.RecentListings, 4)
	assert.Equal(t, "p3", stats.RecentListings[0].ID)
	assert.Equal(t, "p1", stats.RecentListings[1].ID)
	assert.Equal(t, "p4", stats.RecentListings[2].ID)
	assert.Equal(t, "p2", stats.RecentListings[3].ID)
}

func TestFilterVendorProducts(t *testing.T) {
	products := []models.Product{
		{ID: "p1", VendorID: "v1"},
		{ID: "p2", VendorID: "v2"},
		{ID: "p3", VendorID: "v1"},
	}

	filtered := FilterVendorProducts(products, "v1")
	require.Len(t, filtered, 2)
	assert.Equal(t, "p1", filtered[0].ID)
	assert.Equal(t, "p3", filtered[1].ID)

	assert.Empty(t, FilterVendorProducts(products, "v9"))
}

func TestGetVendorStatsProductLoadFailure(t *testing.T) {
	boom := errors.New("relation does not exist")
	svc := NewVendorStatsService(
		&fakeVendorStore{vendors: []models.Vendor{{ID: "v1", Slug: "alpha"}}},
		&fakeProductStore{err: boom},
	)

	_, err := svc.GetVendorStats("v1")
	assert.ErrorIs(t, err, boom)
}

func TestAggregateDoesNotMutateInput(t *testing.T) {
	products := []models.Product{
		{ID: "p1", Views: 1, CreatedAt: day(1)},
		{ID: "p2", Views: 9, CreatedAt: day(2)},
	}

	_ = AggregateVendorStats(products)
	assert.Equal(t, "p1", products[0].ID)
	assert.Equal(t, "p2", products[1].ID)
}
