// Package phone provides phone number utilities: the country calling code table,
// normalization to the canonical "+digits" form, validation and derived values
// such as messaging deep links.
// This is part of the platform layer and contains no business logic.
package phone

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed countries.yaml
var countriesYAML []byte

// Country is an entry of the calling code table.
// CallingCode is not unique across entries (United States and Canada share +1);
// Name is unique and is the key used by clients.
type Country struct {
	CallingCode string `yaml:"code" json:"code"`
	Name        string `yaml:"name" json:"name"`
	Flag        string `yaml:"flag" json:"flag"`
	Example     string `yaml:"example" json:"example"`
	Region      string `yaml:"region" json:"region"`
}

// Table is an immutable, ordered list of countries with a prefix index.
type Table struct {
	countries []Country
	byName    map[string]int
	// longest calling code first; ties keep table order
	byPrefix []Country
}

// NewTable builds a table from countries in display order.
func NewTable(countries []Country) *Table {
	t := &Table{
		countries: make([]Country, len(countries)),
		byName:    make(map[string]int, len(countries)),
		byPrefix:  make([]Country, len(countries)),
	}
	copy(t.countries, countries)
	copy(t.byPrefix, countries)

	for i, c := range t.countries {
		if _, exists := t.byName[c.Name]; !exists {
			t.byName[c.Name] = i
		}
	}

	sort.SliceStable(t.byPrefix, func(i, j int) bool {
		return len(t.byPrefix[i].CallingCode) > len(t.byPrefix[j].CallingCode)
	})

	return t
}

// ParseTable decodes a YAML country list.
func ParseTable(data []byte) (*Table, error) {
	var countries []Country
	if err := yaml.Unmarshal(data, &countries); err != nil {
		return nil, fmt.Errorf("decode country table: %w", err)
	}
	for i, c := range countries {
		if c.Name == "" || !strings.HasPrefix(c.CallingCode, "+") || Digits(c.CallingCode) == "" {
			return nil, fmt.Errorf("country table entry %d: invalid name or calling code", i)
		}
	}
	return NewTable(countries), nil
}

var defaultTable = mustParseTable(countriesYAML)

func mustParseTable(data []byte) *Table {
	t, err := ParseTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Default returns the built-in country table.
func Default() *Table {
	return defaultTable
}

// Countries returns a copy of the table in display order.
func (t *Table) Countries() []Country {
	out := make([]Country, len(t.countries))
	copy(out, t.countries)
	return out
}

// Lookup finds a country by its exact display name.
func (t *Table) Lookup(name string) (Country, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Country{}, false
	}
	return t.countries[i], true
}

// Detect returns the country whose calling code is the longest literal prefix
// of number. Only numbers starting with "+" are considered. When several
// entries share the matching calling code the first one in table order wins,
// which is a best-effort guess since the code alone does not identify a country.
func (t *Table) Detect(number string) (Country, bool) {
	number = strings.TrimSpace(number)
	if !strings.HasPrefix(number, "+") {
		return Country{}, false
	}
	for _, c := range t.byPrefix {
		if strings.HasPrefix(number, c.CallingCode) {
			return c, true
		}
	}
	return Country{}, false
}

// Countries returns the built-in table in display order.
func Countries() []Country {
	return defaultTable.Countries()
}

// LookupCountry finds a country of the built-in table by display name.
func LookupCountry(name string) (Country, bool) {
	return defaultTable.Lookup(name)
}

// DetectCountry detects the country of an international number using the built-in table.
func DetectCountry(number string) (Country, bool) {
	return defaultTable.Detect(number)
}
