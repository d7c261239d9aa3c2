// Package form implements the hotel listing form workflow: cascading location
// selects, the hero image lifecycle and submission, as named transitions on
// an explicit, serializable state object.
package form

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"hotel_listing/internal/domain"
	"hotel_listing/internal/validation"
)

type Status string

const (
	StatusIdle       Status = "idle"
	StatusSubmitting Status = "submitting"
	StatusError      Status = "error"
)

type Config struct {
	Locations    domain.LocationProvider
	Images       domain.ImageStore
	Saver        domain.HotelSaver
	LocationMode LocationMode

	// AfterSubmit runs after a successful save, outside the form lock.
	AfterSubmit func(hotelID int64)
	// OnEvent observes async outcomes (metrics, logs). Called with the lock held.
	OnEvent func(op string, o Outcome)
}

// HotelForm owns one draft and serializes every transition on it.
type HotelForm struct {
	mu   sync.Mutex
	gate *semaphore.Weighted
	cfg  Config

	id      string
	ownerID string
	hotelID *int64

	draft     domain.HotelDraft
	cascade   *Cascade
	images    *ImageCoordinator
	status    Status
	lastErr   string
	submitted bool
	fieldErrs validation.FieldErrors
	outbox    []Notification
}

// New mounts a form, from an existing listing when one is given.
func New(id, ownerID string, cfg Config, existing *domain.HotelRecord) *HotelForm {
	if cfg.LocationMode == "" {
		cfg.LocationMode = LocationPreserve
	}
	f := newForm(id, ownerID, cfg)
	f.draft = domain.DraftFromExisting(existing)
	if existing != nil {
		hid := existing.ID
		f.hotelID = &hid
	}
	f.cascade.Restore(f.draft.Country, f.draft.State, f.draft.City, cfg.LocationMode)
	f.syncLocation()
	return f
}

func newForm(id, ownerID string, cfg Config) *HotelForm {
	f := &HotelForm{
		gate:    semaphore.NewWeighted(1),
		cfg:     cfg,
		id:      id,
		ownerID: ownerID,
		cascade: NewCascade(cfg.Locations),
		status:  StatusIdle,
	}
	f.images = &ImageCoordinator{
		mu:    &f.mu,
		gate:  f.gate,
		store: cfg.Images,
		emit:  f.push,
		event: cfg.OnEvent,
		image: &f.draft.Image,
	}
	return f
}

func (f *HotelForm) ID() string { return f.id }
func (f *HotelForm) OwnerID() string { return f.ownerID }

func (f *HotelForm) HotelID() *int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return copyID(f.hotelID)
}

// Draft returns a copy of the current draft.
func (f *HotelForm) Draft() domain.HotelDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

// ---- field transitions ----

// Patch is a batch of plain field edits applied atomically.
type Patch struct {
	Title               *string         `json:"title,omitempty"`
	Description         *string         `json:"description,omitempty"`
	LocationDescription *string         `json:"locationDescription,omitempty"`
	Amenities           map[string]bool `json:"amenities,omitempty"`
}

func (f *HotelForm) Apply(p Patch) error {
	return f.edit(func() error {
		for name := range p.Amenities {
			if _, ok := f.draft.Amenities.Get(name); !ok {
				return ErrUnknownField
			}
		}
		if p.Title != nil {
			f.draft.Title = *p.Title
		}
		if p.Description != nil {
			f.draft.Description = *p.Description
		}
		if p.LocationDescription != nil {
			f.draft.LocationDescription = *p.LocationDescription
		}
		for name, on := range p.Amenities {
			f.draft.Amenities.Set(name, on)
		}
		return nil
	})
}

func (f *HotelForm) SetTitle(v string) error { return f.Apply(Patch{Title: &v}) }

func (f *HotelForm) SetDescription(v string) error { return f.Apply(Patch{Description: &v}) }

func (f *HotelForm) SetLocationDescription(v string) error {
	return f.Apply(Patch{LocationDescription: &v})
}

func (f *HotelForm) SetAmenity(name string, on bool) error {
	return f.Apply(Patch{Amenities: map[string]bool{name: on}})
}

// SetImage replaces the image URL directly and supersedes any in-flight
// upload result.
func (f *HotelForm) SetImage(u string) error {
	return f.edit(func() error {
		f.draft.Image = u
		f.images.invalidate()
		return nil
	})
}

func (f *HotelForm) ClearImage() error { return f.SetImage("") }

// ---- cascading selects ----

func (f *HotelForm) SelectCountry(code string) error {
	return f.selectLocation(func() (bool, error) { return f.cascade.SelectCountry(code) })
}

func (f *HotelForm) SelectState(code string) error {
	return f.selectLocation(func() (bool, error) { return f.cascade.SelectState(code) })
}

func (f *HotelForm) SelectCity(name string) error {
	return f.selectLocation(func() (bool, error) { return f.cascade.SelectCity(name) })
}

func (f *HotelForm) selectLocation(sel func() (bool, error)) error {
	return f.edit(func() error {
		// selects are disabled during async work
		if f.loadingLocked() {
			return ErrBusy
		}
		changed, err := sel()
		if err != nil || !changed {
			return err
		}
		f.syncLocation()
		return nil
	})
}

// syncLocation copies the cascade selection into the draft. Caller holds mu.
func (f *HotelForm) syncLocation() {
	f.draft.Country = f.cascade.Country()
	f.draft.State = f.cascade.State()
	f.draft.City = f.cascade.City()
}

// edit runs a synchronous transition under the lock.
func (f *HotelForm) edit(fn func() error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusSubmitting {
		return ErrLocked
	}
	if err := fn(); err != nil {
		return err
	}
	if f.status == StatusError {
		f.status = StatusIdle
		f.lastErr = ""
	}
	if f.submitted {
		f.fieldErrs = validation.Validate(f.draft)
	}
	return nil
}

// ---- async operations ----

func (f *HotelForm) Upload(ctx context.Context, file domain.UploadFile) (Outcome, error) {
	if err := f.checkUnlocked(); err != nil {
		return "", err
	}
	o, err := f.images.Upload(ctx, file)
	if err == nil {
		f.revalidate()
	}
	return o, err
}

// DeleteImage deletes the current image.
func (f *HotelForm) DeleteImage(ctx context.Context) (Outcome, error) {
	f.mu.Lock()
	if f.status == StatusSubmitting {
		f.mu.Unlock()
		return "", ErrLocked
	}
	cur := f.draft.Image
	f.mu.Unlock()
	if cur == "" {
		return "", ErrNoImage
	}
	o, err := f.images.Delete(ctx, cur)
	if err == nil {
		f.revalidate()
	}
	return o, err
}

type SubmitResult struct {
	Outcome Outcome `json:"outcome"`
	HotelID int64   `json:"hotelId,omitempty"`
	Created bool    `json:"created"`
}

// Submit validates the normalized draft and hands that same copy to the
// persistence collaborator. Invalid drafts never reach the collaborator.
func (f *HotelForm) Submit(ctx context.Context) (SubmitResult, error) {
	if !f.gate.TryAcquire(1) {
		return SubmitResult{}, ErrBusy
	}
	defer f.gate.Release(1)

	f.mu.Lock()
	f.submitted = true
	draft := f.draft.Normalized()
	if errs := validation.Validate(draft); errs != nil {
		f.fieldErrs = errs
		f.mu.Unlock()
		return SubmitResult{}, &ValidationError{Fields: errs}
	}
	f.fieldErrs = nil
	f.status = StatusSubmitting
	f.lastErr = ""
	req := domain.SaveRequest{HotelID: copyID(f.hotelID), OwnerID: f.ownerID, Draft: draft}
	f.mu.Unlock()

	id, err := f.cfg.Saver.SaveHotel(ctx, req)

	f.mu.Lock()
	if err != nil {
		f.status = StatusError
		f.lastErr = err.Error()
		f.push(Notification{Kind: NotifyError, Op: OpSubmit, Title: msgSomethingBad, Message: err.Error()})
		f.event(OpSubmit, OutcomeFailed)
		f.mu.Unlock()
		return SubmitResult{Outcome: OutcomeFailed}, nil
	}

	created := req.HotelID == nil
	f.hotelID = &id
	f.status = StatusIdle
	title := "Hotel updated"
	if created {
		title = "Hotel created"
	}
	f.push(Notification{Kind: NotifySuccess, Op: OpSubmit, Title: title})
	f.event(OpSubmit, OutcomeApplied)
	f.mu.Unlock()

	if f.cfg.AfterSubmit != nil {
		f.cfg.AfterSubmit(id)
	}
	return SubmitResult{Outcome: OutcomeApplied, HotelID: id, Created: created}, nil
}

func (f *HotelForm) checkUnlocked() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.status == StatusSubmitting {
		return ErrLocked
	}
	return nil
}

func (f *HotelForm) revalidate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitted {
		f.fieldErrs = validation.Validate(f.draft)
	}
}

// loadingLocked reports whether an async operation is in flight. Caller holds mu.
func (f *HotelForm) loadingLocked() bool {
	return f.images.uploading || f.images.deleting || f.status == StatusSubmitting
}

func (f *HotelForm) push(n Notification) { f.outbox = append(f.outbox, n) }

func (f *HotelForm) event(op string, o Outcome) {
	if f.cfg.OnEvent != nil {
		f.cfg.OnEvent(op, o)
	}
}

// DrainNotifications returns pending notifications and forgets them.
func (f *HotelForm) DrainNotifications() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.outbox
	f.outbox = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func copyID(p *int64) *int64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
