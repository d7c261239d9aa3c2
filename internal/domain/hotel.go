package domain

import (
	"strings"
	"time"
)

// Amenities is the fixed set of optional hotel features.
type Amenities struct {
	Gym          bool `json:"gym"`
	Spa          bool `json:"spa"`
	Bar          bool `json:"bar"`
	Laundry      bool `json:"laundry"`
	Restaurant   bool `json:"restaurant"`
	Shopping     bool `json:"shopping"`
	FreeParking  bool `json:"freeParking"`
	BikeRental   bool `json:"bikeRental"`
	FreeWifi     bool `json:"freeWifi"`
	MovieNights  bool `json:"movieNights"`
	SwimmingPool bool `json:"swimmingPool"`
	CoffeeShop   bool `json:"coffeeShop"`
}

// AmenityNames lists the amenity keys in display order.
var AmenityNames = []string{
	"gym", "spa", "bar", "laundry", "restaurant", "shopping",
	"freeParking", "bikeRental", "freeWifi", "movieNights", "swimmingPool", "coffeeShop",
}

// flag returns a pointer to the named amenity, or nil for an unknown name.
func (a *Amenities) flag(name string) *bool {
	switch name {
	case "gym":
		return &a.Gym
	case "spa":
		return &a.Spa
	case "bar":
		return &a.Bar
	case "laundry":
		return &a.Laundry
	case "restaurant":
		return &a.Restaurant
	case "shopping":
		return &a.Shopping
	case "freeParking":
		return &a.FreeParking
	case "bikeRental":
		return &a.BikeRental
	case "freeWifi":
		return &a.FreeWifi
	case "movieNights":
		return &a.MovieNights
	case "swimmingPool":
		return &a.SwimmingPool
	case "coffeeShop":
		return &a.CoffeeShop
	}
	return nil
}

// Set toggles the named amenity. It reports false for unknown names.
func (a *Amenities) Set(name string, on bool) bool {
	p := a.flag(name)
	if p == nil {
		return false
	}
	*p = on
	return true
}

// Get reports the named amenity's value and whether the name is known.
func (a Amenities) Get(name string) (bool, bool) {
	p := a.flag(name)
	if p == nil {
		return false, false
	}
	return *p, true
}

// HotelDraft is the in-progress listing being authored or edited.
type HotelDraft struct {
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	Image               string    `json:"image"`
	Country             string    `json:"country"`
	State               string    `json:"state"`
	City                string    `json:"city"`
	LocationDescription string    `json:"locationDescription"`
	Amenities           Amenities `json:"amenities"`
}

// Normalized returns the draft with surrounding whitespace removed from the
// text fields and the country code upper-cased. Validation and persistence
// both see this form. The image URL is kept byte-for-byte.
func (d HotelDraft) Normalized() HotelDraft {
	d.Title = strings.TrimSpace(d.Title)
	d.Description = strings.TrimSpace(d.Description)
	d.LocationDescription = strings.TrimSpace(d.LocationDescription)
	d.Country = strings.ToUpper(strings.TrimSpace(d.Country))
	d.State = strings.TrimSpace(d.State)
	d.City = strings.TrimSpace(d.City)
	return d
}

// HotelRecord is a persisted listing.
type HotelRecord struct {
	ID        int64
	OwnerID   string
	Draft     HotelDraft
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DraftFromExisting builds the initial draft for a form. A nil record yields
// the empty draft with every amenity off.
func DraftFromExisting(existing *HotelRecord) HotelDraft {
	if existing == nil {
		return HotelDraft{}
	}
	return existing.Draft
}

// LocationOption is one entry of a country, state or city select.
// Codes are unique within their parent scope; for cities Code equals Name.
type LocationOption struct {
	Code string `json:"isoCode"`
	Name string `json:"name"`
}
