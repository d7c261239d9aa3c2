package form_test

import (
	"context"
	"sync"
	"testing"

	"hotel_listing/internal/domain"
	"hotel_listing/internal/form"
	"hotel_listing/internal/location"
)

// ---- fakes ----

type fakeStore struct {
	mu          sync.Mutex
	objs        []domain.UploadedObject
	uploadErr   error
	deleteRes   domain.DeleteResult
	deleteErr   error
	deletedKeys []string

	// when set, calls signal entered and wait for release
	entered chan struct{}
	release chan struct{}
}

func (s *fakeStore) wait() {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
}

func (s *fakeStore) Upload(ctx context.Context, f domain.UploadFile) ([]domain.UploadedObject, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.objs, s.uploadErr
}

func (s *fakeStore) Delete(ctx context.Context, key string) (domain.DeleteResult, error) {
	s.wait()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletedKeys = append(s.deletedKeys, key)
	return s.deleteRes, s.deleteErr
}

type fakeSaver struct {
	mu    sync.Mutex
	calls []domain.SaveRequest
	id    int64
	err   error

	entered chan struct{}
	release chan struct{}
}

func (s *fakeSaver) SaveHotel(ctx context.Context, req domain.SaveRequest) (int64, error) {
	if s.entered != nil {
		s.entered <- struct{}{}
	}
	if s.release != nil {
		<-s.release
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, req)
	if s.err != nil {
		return 0, s.err
	}
	if req.HotelID != nil {
		return *req.HotelID, nil
	}
	return s.id, nil
}

func (s *fakeSaver) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func newTestForm(t *testing.T, store *fakeStore, saver *fakeSaver, existing *domain.HotelRecord) *form.HotelForm {
	t.Helper()
	if store == nil {
		store = &fakeStore{}
	}
	if saver == nil {
		saver = &fakeSaver{id: 1}
	}
	return form.New("draft-1", "user-1", form.Config{
		Locations: location.Default(),
		Images:    store,
		Saver:     saver,
	}, existing)
}

func fillValid(t *testing.T, f *form.HotelForm) {
	t.Helper()
	must(t, f.SetTitle("Beach Hotel"))
	must(t, f.SetDescription("A quiet hotel close to the beach."))
	must(t, f.SetLocationDescription("Two blocks from the pier."))
	must(t, f.SetImage("https://x/img.png"))
	must(t, f.SelectCountry("US"))
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
}

func countKind(ns []form.Notification, op string, kind form.NotificationKind) int {
	n := 0
	for _, x := range ns {
		if x.Op == op && x.Kind == kind {
			n++
		}
	}
	return n
}
