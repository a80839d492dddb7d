// Package holiday provides the country holiday tables the forecast model
// treats as special days.
package holiday

import (
	"embed"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed calendars/*.yaml
var builtin embed.FS

// DefaultYears is the window the bundled calendar is fitted with.
var DefaultYears = []int{2021, 2022, 2023, 2024}

// Holiday is a named special day.
type Holiday struct {
	Name string
	Date time.Time
}

// Calendar is the holiday table for one country over a set of years.
type Calendar struct {
	Country  string
	Holidays []Holiday
	byDate   map[time.Time][]string
}

// calendarFile is the YAML shape of a calendar definition.
type calendarFile struct {
	Country string `yaml:"country"`
	Name    string `yaml:"name"`
	Fixed   []struct {
		Name string `yaml:"name"`
		Date string `yaml:"date"` // MM-DD
	} `yaml:"fixed"`
	Movable map[int][]struct {
		Name string `yaml:"name"`
		Date string `yaml:"date"` // YYYY-MM-DD
	} `yaml:"movable"`
}

// ForCountry builds the bundled calendar for an ISO country code.
func ForCountry(country string, years []int) (*Calendar, error) {
	name := "calendars/" + strings.ToLower(country) + ".yaml"
	data, err := builtin.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("no bundled holiday calendar for %q", country)
	}
	return Parse(data, years)
}

// LoadFile builds a calendar from a user-supplied YAML definition.
func LoadFile(path string, years []int) (*Calendar, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read holiday file: %w", err)
	}
	return Parse(data, years)
}

// Parse expands a calendar definition for the requested years. Every year must
// have a movable section, otherwise the calendar would silently miss the
// lunar festivals for it.
func Parse(data []byte, years []int) (*Calendar, error) {
	var f calendarFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse holiday calendar: %w", err)
	}
	if f.Country == "" {
		return nil, fmt.Errorf("holiday calendar: country is required")
	}

	cal := &Calendar{Country: strings.ToUpper(f.Country)}
	for _, y := range years {
		movable, ok := f.Movable[y]
		if !ok {
			return nil, fmt.Errorf("holiday calendar %s: year %d not covered", cal.Country, y)
		}
		for _, fx := range f.Fixed {
			d, err := time.Parse("2006-01-02", fmt.Sprintf("%04d-%s", y, fx.Date))
			if err != nil {
				return nil, fmt.Errorf("holiday %q: bad date %q: %w", fx.Name, fx.Date, err)
			}
			cal.Holidays = append(cal.Holidays, Holiday{Name: fx.Name, Date: d})
		}
		for _, mv := range movable {
			d, err := time.Parse("2006-01-02", mv.Date)
			if err != nil {
				return nil, fmt.Errorf("holiday %q: bad date %q: %w", mv.Name, mv.Date, err)
			}
			if d.Year() != y {
				return nil, fmt.Errorf("holiday %q: %s listed under %d", mv.Name, mv.Date, y)
			}
			cal.Holidays = append(cal.Holidays, Holiday{Name: mv.Name, Date: d})
		}
	}

	sort.SliceStable(cal.Holidays, func(i, j int) bool {
		return cal.Holidays[i].Date.Before(cal.Holidays[j].Date)
	})
	cal.index()
	return cal, nil
}

func (c *Calendar) index() {
	c.byDate = make(map[time.Time][]string, len(c.Holidays))
	for _, h := range c.Holidays {
		c.byDate[h.Date] = append(c.byDate[h.Date], h.Name)
	}
}

// Names returns the distinct holiday names, sorted.
func (c *Calendar) Names() []string {
	seen := make(map[string]bool)
	var names []string
	for _, h := range c.Holidays {
		if !seen[h.Name] {
			seen[h.Name] = true
			names = append(names, h.Name)
		}
	}
	sort.Strings(names)
	return names
}

// On returns the holidays falling on the calendar day of t.
func (c *Calendar) On(t time.Time) []string {
	if c == nil {
		return nil
	}
	if c.byDate == nil {
		c.index()
	}
	y, m, d := t.Date()
	return c.byDate[time.Date(y, m, d, 0, 0, 0, 0, time.UTC)]
}
