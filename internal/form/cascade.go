package form

import (
	"fmt"
	"slices"

	"hotel_listing/internal/domain"
)

// Phase is the position of the country → state → city workflow.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseCountrySelected
	PhaseStateSelected
)

func (p Phase) String() string {
	switch p {
	case PhaseCountrySelected:
		return "country_selected"
	case PhaseStateSelected:
		return "state_selected"
	default:
		return "initial"
	}
}

// LocationMode decides what happens to a stored state/city when an existing
// listing is mounted and the option lists are derived again.
type LocationMode string

const (
	LocationPreserve LocationMode = "preserve" // keep them while still valid
	LocationReset    LocationMode = "reset"    // always clear them
)

// Cascade drives the dependent location selects. Option lists are derived only
// when the parent value actually changes. Not safe for concurrent use; the
// owning HotelForm serializes access.
type Cascade struct {
	provider domain.LocationProvider

	phase   Phase
	country string
	state   string
	city    string
	states  []domain.LocationOption
	cities  []domain.LocationOption
}

func NewCascade(p domain.LocationProvider) *Cascade {
	return &Cascade{
		provider: p,
		states:   []domain.LocationOption{},
		cities:   []domain.LocationOption{},
	}
}

// SelectCountry clears state and city and derives the state list. Selecting
// the current country again is a no-op.
func (c *Cascade) SelectCountry(code string) (bool, error) {
	if code == c.country {
		return false, nil
	}
	if code != "" && !hasCode(c.provider.Countries(), code) {
		return false, fmt.Errorf("%w: country %q", ErrUnknownOption, code)
	}

	c.country, c.state, c.city = code, "", ""
	c.states = c.provider.States(code)
	c.cities = []domain.LocationOption{}
	if code == "" {
		c.phase = PhaseInitial
	} else {
		c.phase = PhaseCountrySelected
	}
	return true, nil
}

// SelectState clears the city and derives the city list.
func (c *Cascade) SelectState(code string) (bool, error) {
	if c.phase == PhaseInitial {
		return false, ErrInvalidTransition
	}
	if code == c.state {
		return false, nil
	}
	if code != "" {
		if c.StateDisabled() {
			return false, fmt.Errorf("%w: state", ErrDisabled)
		}
		if !hasCode(c.states, code) {
			return false, fmt.Errorf("%w: state %q in %s", ErrUnknownOption, code, c.country)
		}
	}

	c.state, c.city = code, ""
	c.cities = c.provider.Cities(c.country, code)
	if code == "" {
		c.phase = PhaseCountrySelected
	} else {
		c.phase = PhaseStateSelected
	}
	return true, nil
}

// SelectCity picks a city from the derived list, or clears it with "".
func (c *Cascade) SelectCity(name string) (bool, error) {
	if name == c.city {
		return false, nil
	}
	if name != "" {
		if c.CityDisabled() {
			return false, fmt.Errorf("%w: city", ErrDisabled)
		}
		if !hasCode(c.cities, name) {
			return false, fmt.Errorf("%w: city %q", ErrUnknownOption, name)
		}
	}
	c.city = name
	return true, nil
}

// Restore mounts stored values without treating them as user changes. The
// country is kept as given; state and city survive only in LocationPreserve
// mode and only while they appear in the freshly derived lists.
func (c *Cascade) Restore(country, state, city string, mode LocationMode) {
	c.phase = PhaseInitial
	c.country, c.state, c.city = "", "", ""
	c.states = []domain.LocationOption{}
	c.cities = []domain.LocationOption{}
	if country == "" {
		return
	}

	c.country = country
	c.states = c.provider.States(country)
	c.phase = PhaseCountrySelected
	if mode == LocationReset || state == "" || !hasCode(c.states, state) {
		return
	}

	c.state = state
	c.cities = c.provider.Cities(country, state)
	c.phase = PhaseStateSelected
	if city != "" && hasCode(c.cities, city) {
		c.city = city
	}
}

func (c *Cascade) Phase() Phase { return c.phase }
func (c *Cascade) Country() string { return c.country }
func (c *Cascade) State() string { return c.state }
func (c *Cascade) City() string { return c.city }
func (c *Cascade) StateDisabled() bool { return len(c.states) <= 1 }
func (c *Cascade) CityDisabled() bool { return len(c.cities) == 0 }

func (c *Cascade) States() []domain.LocationOption { return slices.Clone(c.states) }
func (c *Cascade) Cities() []domain.LocationOption { return slices.Clone(c.cities) }

func hasCode(opts []domain.LocationOption, code string) bool {
	return slices.ContainsFunc(opts, func(o domain.LocationOption) bool { return o.Code == code })
}
