package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"hotel_listing/internal/domain"
)

// ListingService is the persistence collaborator behind a form submit.
type ListingService struct {
	repo  domain.HotelRepository
	cache domain.Cache
}

func NewListingService(r domain.HotelRepository, cache domain.Cache) *ListingService {
	return &ListingService{repo: r, cache: cache}
}

// LoadForEdit returns the listing to prefill an edit form. Only the owner may
// edit a listing.
func (s *ListingService) LoadForEdit(ctx context.Context, ownerID string, id int64) (*domain.HotelRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	rec, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return &rec, nil
}

// SaveHotel creates the listing when req.HotelID is nil and updates it
// otherwise. It returns the listing id. The draft is stored as submitted.
func (s *ListingService) SaveHotel(ctx context.Context, req domain.SaveRequest) (int64, error) {
	d := req.Draft

	if req.HotelID == nil {
		id, err := s.repo.CreateHotel(ctx, req.OwnerID, d)
		if err != nil {
			return 0, fmt.Errorf("create hotel: %w", err)
		}
		log.Info().Int64("hotel_id", id).Str("owner", req.OwnerID).Msg("hotel created")
		return id, nil
	}

	id := *req.HotelID
	// ownership is checked again at save time; the listing may have changed
	// hands since the draft was opened
	if _, err := s.LoadForEdit(ctx, req.OwnerID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("hotel %d: %w", id, err)
		}
		return 0, err
	}
	if err := s.repo.UpdateHotel(ctx, id, d); err != nil {
		return 0, fmt.Errorf("update hotel %d: %w", id, err)
	}
	if s.cache != nil {
		if err := s.cache.Del(ctx, hotelKey(id)); err != nil {
			log.Warn().Err(err).Int64("hotel_id", id).Msg("hotel cache eviction failed")
		}
	}
	log.Info().Int64("hotel_id", id).Str("owner", req.OwnerID).Msg("hotel updated")
	return id, nil
}
