package domain

import (
	"context"
	"errors"
	"io"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("access denied")
	ErrUnauthenticated = errors.New("not authenticated")
)

type HotelRepository interface {
	// Write paths
	CreateHotel(ctx context.Context, ownerID string, d HotelDraft) (int64, error)
	UpdateHotel(ctx context.Context, id int64, d HotelDraft) error

	// Read paths
	GetHotel(ctx context.Context, id int64) (HotelRecord, error)
	ListHotels(ctx context.Context, q HotelsQuery) ([]HotelRecord, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// LocationProvider supplies the cascading select options. It never fails;
// unknown or empty inputs produce empty lists.
type LocationProvider interface {
	Countries() []LocationOption
	States(country string) []LocationOption
	Cities(country, state string) []LocationOption
}

// ImageStore is the upload/delete collaborator for the hero image.
type ImageStore interface {
	Upload(ctx context.Context, f UploadFile) ([]UploadedObject, error)
	Delete(ctx context.Context, imageKey string) (DeleteResult, error)
}

type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type UploadedObject struct {
	URL  string `json:"url"`
	Key  string `json:"key"`
	Name string `json:"name,omitempty"`
	Size int64  `json:"size,omitempty"`
}

type DeleteResult struct {
	Success bool `json:"success"`
}

// SaveRequest is the finalized payload handed to the persistence collaborator.
// HotelID is nil when creating.
type SaveRequest struct {
	HotelID *int64
	OwnerID string
	Draft   HotelDraft
}

type HotelSaver interface {
	SaveHotel(ctx context.Context, req SaveRequest) (int64, error)
}

// Read models & queries
type HotelView struct {
	ID                  int64    `json:"id"`
	OwnerID             string   `json:"ownerId"`
	Title               string   `json:"title"`
	Description         string   `json:"description"`
	Image               string   `json:"image"`
	Country             string   `json:"country"`
	State               string   `json:"state,omitempty"`
	City                string   `json:"city,omitempty"`
	LocationDescription string   `json:"locationDescription"`
	Amenities           []string `json:"amenities"`
	UpdatedAt           string   `json:"updatedAt,omitempty"`
}

type HotelsQuery struct {
	Q       *string
	OwnerID *string
	Country *string
	Limit   int
}

type HotelsPage struct {
	Items []HotelView `json:"items"`
}
