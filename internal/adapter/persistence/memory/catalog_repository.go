package memory

import (
	"context"
	"sync"

	"checkout_service/internal/domain/entities"
	"checkout_service/internal/usecase/interfaces"
)

// CatalogRepository serves offerings and coupons seeded at startup.
type CatalogRepository struct {
	mu        sync.RWMutex
	offerings map[string]entities.Offering
	coupons   map[string]entities.Coupon
}

var (
	_ interfaces.IOfferingRepository = (*OfferingReader)(nil)
	_ interfaces.ICouponRepository   = (*CouponReader)(nil)
)

func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{offerings: map[string]entities.Offering{}, coupons: map[string]entities.Coupon{}}
}

func (r *CatalogRepository) PutOffering(o entities.Offering) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offerings[o.ID] = o
}

func (r *CatalogRepository) PutCoupon(c entities.Coupon) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[c.ID] = c
}

func (r *CatalogRepository) Offerings() *OfferingReader { return &OfferingReader{r} }
func (r *CatalogRepository) Coupons() *CouponReader     { return &CouponReader{r} }

type OfferingReader struct{ catalog *CatalogRepository }

func (o *OfferingReader) GetByID(_ context.Context, id string) (entities.Offering, error) {
	o.catalog.mu.RLock()
	defer o.catalog.mu.RUnlock()
	return o.catalog.offerings[id], nil
}

type CouponReader struct{ catalog *CatalogRepository }

func (c *CouponReader) GetByID(_ context.Context, id string) (entities.Coupon, error) {
	c.catalog.mu.RLock()
	defer c.catalog.mu.RUnlock()
	return c.catalog.coupons[id], nil
}
