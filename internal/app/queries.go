package app

import (
	"context"
	"fmt"
	"time"

	"hotel_listing/internal/domain"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func hotelKey(id int64) string { return fmt.Sprintf("hotel:%d", id) }

// GetHotel returns the public view of a listing, served from cache when possible.
func (s *QueryService) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	key := hotelKey(id)
	var hv domain.HotelView
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &hv); ok {
			return hv, nil
		}
	}
	rec, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.HotelView{}, err
	}
	hv = toView(rec)
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, hv, int(s.cacheTTL.Seconds()))
	}
	return hv, nil
}

// ListHotels searches listings by title. Results are not cached; a new
// listing must show up on the next search.
func (s *QueryService) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	switch {
	case q.Limit <= 0:
		q.Limit = defaultListLimit
	case q.Limit > maxListLimit:
		q.Limit = maxListLimit
	}
	rs, err := s.repo.ListHotels(ctx, q)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	return domain.HotelsPage{Items: toViews(rs)}, nil
}
