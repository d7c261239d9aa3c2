package form

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/sync/semaphore"

	"hotel_listing/internal/domain"
)

const (
	msgUploadDone   = "Upload completed"
	msgImageRemoved = "Image removed"
	msgSomethingBad = "Something went wrong"
)

var errEmptyUpload = errors.New("upload returned no file")

// ImageCoordinator runs the hero image upload/delete lifecycle.
//
// Every upload or direct edit of the image takes a new sequence number; an
// upload result is applied only if its sequence is still the latest. A delete
// result is applied while the image still holds the deleted URL. The gate
// admits one async operation per form at a time.
type ImageCoordinator struct {
	mu    *sync.Mutex // owned by the form
	gate  *semaphore.Weighted
	store domain.ImageStore
	emit  func(Notification)
	event func(op string, o Outcome)

	image     *string // points into the form draft
	seq       uint64
	uploading bool
	deleting  bool
}

// Upload hands the file to the upload collaborator and, on success, sets the
// image to the first returned URL.
func (ic *ImageCoordinator) Upload(ctx context.Context, f domain.UploadFile) (Outcome, error) {
	if !ic.gate.TryAcquire(1) {
		return "", ErrBusy
	}
	defer ic.gate.Release(1)

	ic.mu.Lock()
	ic.seq++
	seq := ic.seq
	ic.uploading = true
	ic.mu.Unlock()

	objs, err := ic.store.Upload(ctx, f)

	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.uploading = false

	if seq != ic.seq {
		return ic.done(OpUpload, OutcomeDiscarded), nil
	}
	if err == nil && (len(objs) == 0 || objs[0].URL == "") {
		err = errEmptyUpload
	}
	if err != nil {
		ic.emit(Notification{Kind: NotifyError, Op: OpUpload, Title: "Error", Message: err.Error()})
		return ic.done(OpUpload, OutcomeFailed), nil
	}

	*ic.image = objs[0].URL
	ic.emit(Notification{Kind: NotifySuccess, Op: OpUpload, Title: msgUploadDone})
	return ic.done(OpUpload, OutcomeApplied), nil
}

// Delete removes currentURL through the delete collaborator. The prior image
// stays in place on any failure.
func (ic *ImageCoordinator) Delete(ctx context.Context, currentURL string) (Outcome, error) {
	if !ic.gate.TryAcquire(1) {
		return "", ErrBusy
	}
	defer ic.gate.Release(1)

	key := ImageKey(currentURL)

	ic.mu.Lock()
	if key == "" {
		ic.emit(Notification{Kind: NotifyError, Op: OpDelete, Title: msgSomethingBad})
		o := ic.done(OpDelete, OutcomeFailed)
		ic.mu.Unlock()
		return o, nil
	}
	ic.deleting = true
	ic.mu.Unlock()

	defer func() {
		ic.mu.Lock()
		ic.deleting = false
		ic.mu.Unlock()
	}()

	res, err := ic.store.Delete(ctx, key)

	ic.mu.Lock()
	defer ic.mu.Unlock()

	if err != nil || !res.Success {
		ic.emit(Notification{Kind: NotifyError, Op: OpDelete, Title: msgSomethingBad})
		return ic.done(OpDelete, OutcomeFailed), nil
	}
	// the object is gone; only an image that was replaced meanwhile survives
	if *ic.image != currentURL {
		return ic.done(OpDelete, OutcomeDiscarded), nil
	}

	*ic.image = ""
	ic.emit(Notification{Kind: NotifySuccess, Op: OpDelete, Title: msgImageRemoved})
	return ic.done(OpDelete, OutcomeApplied), nil
}

// invalidate supersedes any in-flight result. Caller holds mu.
func (ic *ImageCoordinator) invalidate() { ic.seq++ }

func (ic *ImageCoordinator) done(op string, o Outcome) Outcome {
	if ic.event != nil {
		ic.event(op, o)
	}
	return o
}

// ImageKey derives the storage key from the last path segment of an image URL.
func ImageKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil {
		p = u.Path
	}
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		p = p[i+1:]
	}
	return p
}
