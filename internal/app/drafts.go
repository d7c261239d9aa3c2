package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/karlseguin/ccache/v3"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"hotel_listing/internal/domain"
	"hotel_listing/internal/form"
)

type DraftConfig struct {
	Locations    domain.LocationProvider
	Images       domain.ImageStore
	LocationMode form.LocationMode
	TTL          time.Duration
	LiveSize     int64

	// OnEvent observes upload/delete/submit outcomes (metrics).
	OnEvent func(op string, o form.Outcome)
	// OnLiveCache observes live registry lookups: hit|miss.
	OnLiveCache func(event string)
}

// DraftService keeps the open hotel forms. Live forms sit in an in-process
// LRU; every change is also written to the snapshot store so a draft
// survives eviction and restarts.
type DraftService struct {
	cfg      DraftConfig
	listings *ListingService
	snaps    domain.Cache
	live     *ccache.Cache[*form.HotelForm]
	group    singleflight.Group
}

func NewDraftService(l *ListingService, snaps domain.Cache, cfg DraftConfig) *DraftService {
	if cfg.TTL <= 0 {
		cfg.TTL = time.Hour
	}
	if cfg.LiveSize <= 0 {
		cfg.LiveSize = 1000
	}
	return &DraftService{
		cfg:      cfg,
		listings: l,
		snaps:    snaps,
		live:     ccache.New(ccache.Configure[*form.HotelForm]().MaxSize(cfg.LiveSize)),
	}
}

func draftKey(id string) string { return "draft:" + id }

func (s *DraftService) formConfig(id string) form.Config {
	return form.Config{
		Locations:    s.cfg.Locations,
		Images:       s.cfg.Images,
		Saver:        s.listings,
		LocationMode: s.cfg.LocationMode,
		OnEvent: func(op string, o form.Outcome) {
			log.Info().Str("draft", id).Str("op", op).Str("outcome", string(o)).Msg("form_event")
			if s.cfg.OnEvent != nil {
				s.cfg.OnEvent(op, o)
			}
		},
	}
}

// Open mounts a new form. With a hotel id the form is prefilled from that
// listing, which must belong to ownerID.
func (s *DraftService) Open(ctx context.Context, ownerID string, hotelID *int64) (*form.HotelForm, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	var existing *domain.HotelRecord
	if hotelID != nil {
		rec, err := s.listings.LoadForEdit(ctx, ownerID, *hotelID)
		if err != nil {
			return nil, err
		}
		existing = rec
	}

	id := uuid.NewString()
	f := form.New(id, ownerID, s.formConfig(id), existing)
	s.live.Set(id, f, s.cfg.TTL)
	if err := s.Save(ctx, f); err != nil {
		s.live.Delete(id)
		return nil, err
	}
	log.Info().Str("draft", id).Str("owner", ownerID).Bool("edit", existing != nil).Msg("draft opened")
	return f, nil
}

// Get returns the caller's draft, restoring it from its snapshot if it is
// no longer live.
func (s *DraftService) Get(ctx context.Context, ownerID, id string) (*form.HotelForm, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthenticated
	}
	f, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.OwnerID() != ownerID {
		return nil, domain.ErrForbidden
	}
	return f, nil
}

func (s *DraftService) lookup(ctx context.Context, id string) (*form.HotelForm, error) {
	if f, ok := s.liveForm(id); ok {
		s.liveEvent("hit")
		return f, nil
	}
	s.liveEvent("miss")
	// concurrent requests for an evicted draft must share one restored form
	v, err, _ := s.group.Do(id, func() (any, error) {
		if f, ok := s.liveForm(id); ok {
			return f, nil
		}
		if s.snaps == nil {
			return nil, domain.ErrNotFound
		}
		var snap form.Snapshot
		ok, err := s.snaps.Get(ctx, draftKey(id), &snap)
		if err != nil {
			return nil, fmt.Errorf("load draft %s: %w", id, err)
		}
		if !ok || snap.ID != id {
			return nil, domain.ErrNotFound
		}
		f := form.Restore(snap, s.formConfig(id))
		s.live.Set(id, f, s.cfg.TTL)
		log.Debug().Str("draft", id).Msg("draft restored from snapshot")
		return f, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*form.HotelForm), nil
}

// liveForm returns the live copy of a draft and extends its expiry. ccache
// hands back expired items, so those are dropped and count as a miss.
func (s *DraftService) liveForm(id string) (*form.HotelForm, bool) {
	it := s.live.Get(id)
	if it == nil {
		return nil, false
	}
	if it.Expired() {
		s.live.Delete(id)
		return nil, false
	}
	it.Extend(s.cfg.TTL)
	return it.Value(), true
}

func (s *DraftService) liveEvent(event string) {
	if s.cfg.OnLiveCache != nil {
		s.cfg.OnLiveCache(event)
	}
}

// Save writes the form's snapshot and refreshes its expiry.
func (s *DraftService) Save(ctx context.Context, f *form.HotelForm) error {
	s.live.Set(f.ID(), f, s.cfg.TTL)
	if s.snaps == nil {
		return nil
	}
	if err := s.snaps.Set(ctx, draftKey(f.ID()), f.Snapshot(), max(1, int(s.cfg.TTL.Seconds()))); err != nil {
		return fmt.Errorf("save draft %s: %w", f.ID(), err)
	}
	return nil
}

// Discard drops the caller's draft. Nothing is persisted.
func (s *DraftService) Discard(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	s.live.Delete(id)
	if s.snaps != nil {
		if err := s.snaps.Del(ctx, draftKey(id)); err != nil {
			return fmt.Errorf("discard draft %s: %w", id, err)
		}
	}
	log.Info().Str("draft", id).Msg("draft discarded")
	return nil
}

// Forget drops the live copy only; the next Get restores from the snapshot.
func (s *DraftService) Forget(id string) { s.live.Delete(id) }
