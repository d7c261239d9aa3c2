// Package location serves the static country/state/city dataset behind the
// cascading location selects.
package location

import (
	_ "embed"
	"fmt"
	"slices"
	"strings"

	json "github.com/goccy/go-json"

	"hotel_listing/internal/domain"
)

//go:embed data/locations.json
var defaultDataset []byte

type rawState struct {
	Code   string   `json:"isoCode"`
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
}

type rawCountry struct {
	Code   string     `json:"isoCode"`
	Name   string     `json:"name"`
	States []rawState `json:"states"`
}

type dataset struct {
	Countries []rawCountry `json:"countries"`
}

type country struct {
	opt    domain.LocationOption
	states []domain.LocationOption
	cities map[string][]domain.LocationOption // by state code
}

// Provider is immutable after construction and safe for concurrent use.
type Provider struct {
	countries []domain.LocationOption
	byCode    map[string]*country
}

// Default loads the embedded dataset. It panics if the embedded file is broken.
func Default() *Provider {
	p, err := Parse(defaultDataset)
	if err != nil {
		panic(fmt.Sprintf("location: embedded dataset: %v", err))
	}
	return p
}

// Parse builds a provider from a JSON dataset. Every list is sorted by name.
func Parse(b []byte) (*Provider, error) {
	var ds dataset
	if err := json.Unmarshal(b, &ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}

	p := &Provider{byCode: make(map[string]*country, len(ds.Countries))}
	for _, rc := range ds.Countries {
		code := strings.ToUpper(strings.TrimSpace(rc.Code))
		if code == "" {
			return nil, fmt.Errorf("country %q has no iso code", rc.Name)
		}
		if _, dup := p.byCode[code]; dup {
			return nil, fmt.Errorf("duplicate country %s", code)
		}
		c := &country{
			opt:    domain.LocationOption{Code: code, Name: rc.Name},
			states: make([]domain.LocationOption, 0, len(rc.States)),
			cities: make(map[string][]domain.LocationOption, len(rc.States)),
		}
		for _, rs := range rc.States {
			if _, dup := c.cities[rs.Code]; dup {
				return nil, fmt.Errorf("duplicate state %s in %s", rs.Code, code)
			}
			c.states = append(c.states, domain.LocationOption{Code: rs.Code, Name: rs.Name})
			cities := make([]domain.LocationOption, 0, len(rs.Cities))
			for _, name := range rs.Cities {
				cities = append(cities, domain.LocationOption{Code: name, Name: name})
			}
			sortByName(cities)
			c.cities[rs.Code] = cities
		}
		sortByName(c.states)
		p.byCode[code] = c
		p.countries = append(p.countries, c.opt)
	}
	sortByName(p.countries)
	return p, nil
}

func sortByName(opts []domain.LocationOption) {
	slices.SortStableFunc(opts, func(a, b domain.LocationOption) int {
		return strings.Compare(a.Name, b.Name)
	})
}

func (p *Provider) Countries() []domain.LocationOption {
	return slices.Clone(p.countries)
}

func (p *Provider) States(countryCode string) []domain.LocationOption {
	c, ok := p.byCode[countryCode]
	if !ok || countryCode == "" {
		return []domain.LocationOption{}
	}
	return slices.Clone(c.states)
}

func (p *Provider) Cities(countryCode, stateCode string) []domain.LocationOption {
	if countryCode == "" || stateCode == "" {
		return []domain.LocationOption{}
	}
	c, ok := p.byCode[countryCode]
	if !ok {
		return []domain.LocationOption{}
	}
	cities, ok := c.cities[stateCode]
	if !ok {
		return []domain.LocationOption{}
	}
	return slices.Clone(cities)
}

// Country looks up a country by iso code.
func (p *Provider) Country(code string) (domain.LocationOption, bool) {
	c, ok := p.byCode[code]
	if !ok {
		return domain.LocationOption{}, false
	}
	return c.opt, true
}

// State looks up a state within a country.
func (p *Provider) State(countryCode, stateCode string) (domain.LocationOption, bool) {
	c, ok := p.byCode[countryCode]
	if !ok {
		return domain.LocationOption{}, false
	}
	for _, s := range c.states {
		if s.Code == stateCode {
			return s, true
		}
	}
	return domain.LocationOption{}, false
}
