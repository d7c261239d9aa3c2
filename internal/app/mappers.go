package app

import (
	"time"

	"hotel_listing/internal/domain"
)

/********** record -> read model **********/

func toView(r domain.HotelRecord) domain.HotelView {
	d := r.Draft
	hv := domain.HotelView{
		ID:                  r.ID,
		OwnerID:             r.OwnerID,
		Title:               d.Title,
		Description:         d.Description,
		Image:               d.Image,
		Country:             d.Country,
		State:               d.State,
		City:                d.City,
		LocationDescription: d.LocationDescription,
		Amenities:           enabledAmenities(d.Amenities),
	}
	if !r.UpdatedAt.IsZero() {
		hv.UpdatedAt = r.UpdatedAt.UTC().Format(time.RFC3339)
	}
	return hv
}

func toViews(rs []domain.HotelRecord) []domain.HotelView {
	out := make([]domain.HotelView, 0, len(rs))
	for _, r := range rs {
		out = append(out, toView(r))
	}
	return out
}

// enabledAmenities lists the amenities that are on, in display order.
func enabledAmenities(a domain.Amenities) []string {
	out := make([]string, 0, len(domain.AmenityNames))
	for _, name := range domain.AmenityNames {
		if on, _ := a.Get(name); on {
			out = append(out, name)
		}
	}
	return out
}
