package form

import (
	"maps"

	"hotel_listing/internal/domain"
	"hotel_listing/internal/validation"
)

// View is a read-only copy of everything a client needs to render the form.
type View struct {
	ID            string                  `json:"id"`
	Mode          string                  `json:"mode"` // create | update
	HotelID       *int64                  `json:"hotelId,omitempty"`
	Draft         domain.HotelDraft       `json:"draft"`
	Phase         string                  `json:"phase"`
	States        []domain.LocationOption `json:"states"`
	Cities        []domain.LocationOption `json:"cities"`
	StateDisabled bool                    `json:"stateDisabled"`
	CityDisabled  bool                    `json:"cityDisabled"`
	Loading       bool                    `json:"loading"`
	Uploading     bool                    `json:"uploading"`
	IsDeleting    bool                    `json:"isDeleting"`
	Status        Status                  `json:"status"`
	LastError     string                  `json:"lastError,omitempty"`
	Errors        map[string]string       `json:"errors,omitempty"`
	Disabled      bool                    `json:"disabled"`
}

func (f *HotelForm) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	loading := f.loadingLocked()
	mode := "create"
	if f.hotelID != nil {
		mode = "update"
	}
	return View{
		ID:            f.id,
		Mode:          mode,
		HotelID:       copyID(f.hotelID),
		Draft:         f.draft,
		Phase:         f.cascade.Phase().String(),
		States:        f.cascade.States(),
		Cities:        f.cascade.Cities(),
		StateDisabled: loading || f.cascade.StateDisabled(),
		CityDisabled:  loading || f.cascade.CityDisabled(),
		Loading:       loading,
		Uploading:     f.images.uploading,
		IsDeleting:    f.images.deleting,
		Status:        f.status,
		LastError:     f.lastErr,
		Errors:        maps.Clone(f.fieldErrs),
		Disabled:      f.status == StatusSubmitting,
	}
}

// Snapshot is the serializable part of a form. In-flight flags are not
// included; a restored form starts with nothing in flight.
type Snapshot struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"ownerId"`
	HotelID       *int64            `json:"hotelId,omitempty"`
	Draft         domain.HotelDraft `json:"draft"`
	Status        Status            `json:"status"`
	LastError     string            `json:"lastError,omitempty"`
	Submitted     bool              `json:"submitted"`
	Notifications []Notification    `json:"notifications,omitempty"`
}

func (f *HotelForm) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		ID:            f.id,
		OwnerID:       f.ownerID,
		HotelID:       copyID(f.hotelID),
		Draft:         f.draft,
		Status:        f.status,
		LastError:     f.lastErr,
		Submitted:     f.submitted,
		Notifications: append([]Notification(nil), f.outbox...),
	}
}

// Restore rebuilds a form from a snapshot. Stored locations are kept while
// they are still valid options.
func Restore(s Snapshot, cfg Config) *HotelForm {
	if cfg.LocationMode == "" {
		cfg.LocationMode = LocationPreserve
	}
	f := newForm(s.ID, s.OwnerID, cfg)
	f.hotelID = copyID(s.HotelID)
	f.draft = s.Draft
	f.cascade.Restore(s.Draft.Country, s.Draft.State, s.Draft.City, LocationPreserve)
	f.syncLocation()

	f.status = s.Status
	f.lastErr = s.LastError
	if f.status == StatusSubmitting {
		// the process stopped mid-submit; the outcome is unknown
		f.status = StatusIdle
	}
	f.submitted = s.Submitted
	f.outbox = append([]Notification(nil), s.Notifications...)
	if f.submitted {
		f.fieldErrs = validation.Validate(f.draft)
	}
	return f
}
