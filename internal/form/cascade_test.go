package form_test

import (
	"errors"
	"testing"

	"hotel_listing/internal/form"
	"hotel_listing/internal/location"
)

func TestCascade_CountryStateCityScenario(t *testing.T) {
	c := form.NewCascade(location.Default())

	if _, err := c.SelectCountry("US"); err != nil {
		t.Fatalf("select US: %v", err)
	}
	if c.Phase() != form.PhaseCountrySelected {
		t.Fatalf("phase: %v", c.Phase())
	}
	if len(c.States()) < 2 || c.StateDisabled() {
		t.Fatalf("US should enable the state select, states=%d", len(c.States()))
	}
	if !c.CityDisabled() {
		t.Fatalf("city select should be disabled before a state is chosen")
	}

	if _, err := c.SelectState("CA"); err != nil {
		t.Fatalf("select CA: %v", err)
	}
	if c.Phase() != form.PhaseStateSelected || c.CityDisabled() {
		t.Fatalf("expected california cities, got %+v", c.Cities())
	}
	if _, err := c.SelectCity("San Diego"); err != nil {
		t.Fatalf("select city: %v", err)
	}

	if _, err := c.SelectCountry("AD"); err != nil {
		t.Fatalf("select AD: %v", err)
	}
	if c.State() != "" || c.City() != "" {
		t.Fatalf("country change must clear state and city, got %q/%q", c.State(), c.City())
	}
	if !c.StateDisabled() {
		t.Fatalf("single-state country must disable the state select")
	}
}

func TestCascade_SingleStateCountriesDisableStateSelect(t *testing.T) {
	p := location.Default()
	checked := 0
	for _, country := range p.Countries() {
		if len(p.States(country.Code)) > 1 {
			continue
		}
		c := form.NewCascade(p)
		if _, err := c.SelectCountry(country.Code); err != nil {
			t.Fatalf("select %s: %v", country.Code, err)
		}
		if !c.StateDisabled() {
			t.Errorf("%s: state select should be disabled", country.Code)
		}
		checked++
	}
	if checked == 0 {
		t.Fatalf("dataset has no single-state countries")
	}
}

func TestCascade_EmptyCityListsDisableCitySelect(t *testing.T) {
	p := location.Default()
	checked := 0
	for _, country := range p.Countries() {
		for _, st := range p.States(country.Code) {
			if len(p.Cities(country.Code, st.Code)) != 0 {
				continue
			}
			c := form.NewCascade(p)
			c.Restore(country.Code, st.Code, "", form.LocationPreserve)
			if !c.CityDisabled() {
				t.Errorf("%s/%s: city select should be disabled", country.Code, st.Code)
			}
			checked++
		}
	}
	if checked == 0 {
		t.Fatalf("dataset has no state without cities")
	}
}

func TestCascade_ChangesClearDependents(t *testing.T) {
	c := form.NewCascade(location.Default())
	c.Restore("US", "CA", "Los Angeles", form.LocationPreserve)

	if _, err := c.SelectState("NY"); err != nil {
		t.Fatalf("select NY: %v", err)
	}
	if c.City() != "" {
		t.Fatalf("state change must clear city")
	}

	if _, err := c.SelectCity("Buffalo"); err != nil {
		t.Fatalf("select Buffalo: %v", err)
	}
	if _, err := c.SelectCountry("BR"); err != nil {
		t.Fatalf("select BR: %v", err)
	}
	if c.State() != "" || c.City() != "" || len(c.Cities()) != 0 {
		t.Fatalf("country change must clear state, city and cities")
	}
}

func TestCascade_ReselectingSameValueKeepsSelection(t *testing.T) {
	c := form.NewCascade(location.Default())
	c.Restore("US", "CA", "San Francisco", form.LocationPreserve)
	before := c.Cities()

	changed, err := c.SelectCountry("US")
	if err != nil || changed {
		t.Fatalf("same country: changed=%v err=%v", changed, err)
	}
	changed, err = c.SelectState("CA")
	if err != nil || changed {
		t.Fatalf("same state: changed=%v err=%v", changed, err)
	}
	if c.City() != "San Francisco" {
		t.Fatalf("city was cleared by a no-op selection")
	}
	after := c.Cities()
	if len(before) != len(after) {
		t.Fatalf("city list changed on re-selection")
	}
}

func TestCascade_RejectsInvalidSelections(t *testing.T) {
	c := form.NewCascade(location.Default())

	if _, err := c.SelectState("CA"); !errors.Is(err, form.ErrInvalidTransition) {
		t.Fatalf("state before country: %v", err)
	}
	if _, err := c.SelectCountry("ZZ"); !errors.Is(err, form.ErrUnknownOption) {
		t.Fatalf("unknown country: %v", err)
	}
	if _, err := c.SelectCountry("US"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SelectState("ON"); !errors.Is(err, form.ErrUnknownOption) {
		t.Fatalf("foreign state: %v", err)
	}
	if _, err := c.SelectCity("Miami"); !errors.Is(err, form.ErrDisabled) {
		t.Fatalf("city without state: %v", err)
	}

	if _, err := c.SelectCountry("AD"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.SelectState("07"); !errors.Is(err, form.ErrDisabled) {
		t.Fatalf("disabled state select: %v", err)
	}
}

func TestCascade_RestoreModes(t *testing.T) {
	p := location.Default()

	keep := form.NewCascade(p)
	keep.Restore("CA", "ON", "Toronto", form.LocationPreserve)
	if keep.State() != "ON" || keep.City() != "Toronto" || keep.Phase() != form.PhaseStateSelected {
		t.Fatalf("preserve: %q/%q %v", keep.State(), keep.City(), keep.Phase())
	}

	reset := form.NewCascade(p)
	reset.Restore("CA", "ON", "Toronto", form.LocationReset)
	if reset.Country() != "CA" || reset.State() != "" || reset.City() != "" {
		t.Fatalf("reset: %q/%q/%q", reset.Country(), reset.State(), reset.City())
	}

	stale := form.NewCascade(p)
	stale.Restore("US", "CA", "Atlantis", form.LocationPreserve)
	if stale.State() != "CA" || stale.City() != "" {
		t.Fatalf("stale city should be dropped: %q/%q", stale.State(), stale.City())
	}
}
