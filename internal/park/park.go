// Package park holds the admission rules of the park: open weekdays, the ticket price table
// and per-order ticket bounds. Rules are built once and never mutated afterwards.
package park

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// UnknownPassTypePrice is the unit price charged for a pass type missing from the price table.
const UnknownPassTypePrice = 0

// ErrInvalidRules is returned when a rules file or constructor input is inconsistent.
var ErrInvalidRules = errors.New("park: invalid rules")

// Rules is the immutable admission configuration. Use Default, New or LoadFile to obtain one.
type Rules struct {
	openWeekdays [7]bool
	prices       map[string]int
	minTickets   int
	maxTickets   int
}

// Default returns the standard rules: Monday to Saturday, regular 10000, VIP 15000, 1 to 10 tickets.
func Default() *Rules {
	r, _ := New([]int{0, 1, 2, 3, 4, 5}, map[string]int{"regular": 10000, "VIP": 15000}, 1, 10)
	return r
}

// New builds rules from weekday indices (0=Monday..6=Sunday), a price table and inclusive ticket bounds.
// The inputs are copied; later changes by the caller do not affect the returned Rules.
func New(openWeekdays []int, prices map[string]int, minTickets, maxTickets int) (*Rules, error) {
	r := &Rules{prices: make(map[string]int, len(prices)), minTickets: minTickets, maxTickets: maxTickets}
	for _, d := range openWeekdays {
		if d < 0 || d > 6 {
			return nil, fmt.Errorf("%w: weekday %d out of range 0..6", ErrInvalidRules, d)
		}
		r.openWeekdays[d] = true
	}
	for passType, price := range prices {
		if passType == "" {
			return nil, fmt.Errorf("%w: empty pass type", ErrInvalidRules)
		}
		if price < 0 {
			return nil, fmt.Errorf("%w: negative price for %q", ErrInvalidRules, passType)
		}
		r.prices[passType] = price
	}
	if minTickets < 1 {
		return nil, fmt.Errorf("%w: min tickets must be at least 1", ErrInvalidRules)
	}
	if maxTickets < minTickets {
		return nil, fmt.Errorf("%w: max tickets %d below min %d", ErrInvalidRules, maxTickets, minTickets)
	}
	return r, nil
}

// WeekdayIndex converts a Go weekday (Sunday=0) to the park's index (Monday=0..Sunday=6).
func WeekdayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// IsOpen reports whether admission is sold on the given weekday.
func (r *Rules) IsOpen(d time.Weekday) bool {
	return r.openWeekdays[WeekdayIndex(d)]
}

// OpenWeekdays returns the open weekday indices in ascending order.
func (r *Rules) OpenWeekdays() []int {
	out := make([]int, 0, 7)
	for i, open := range r.openWeekdays {
		if open {
			out = append(out, i)
		}
	}
	return out
}

// UnitPrice returns the price of one ticket of passType.
// Unknown pass types price at UnknownPassTypePrice instead of failing.
func (r *Rules) UnitPrice(passType string) int {
	if p, ok := r.prices[passType]; ok {
		return p
	}
	return UnknownPassTypePrice
}

// KnownPassType reports whether passType has an entry in the price table.
func (r *Rules) KnownPassType(passType string) bool {
	_, ok := r.prices[passType]
	return ok
}

// PassTypes returns the priced pass types sorted by name.
func (r *Rules) PassTypes() []string {
	out := make([]string, 0, len(r.prices))
	for k := range r.prices {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// MinTickets is the smallest quantity accepted per order.
func (r *Rules) MinTickets() int { return r.minTickets }

// MaxTickets is the largest quantity accepted per order.
func (r *Rules) MaxTickets() int { return r.maxTickets }

// rulesFile is the YAML layout of a rules file.
type rulesFile struct {
	OpenWeekdays []int          `yaml:"open_weekdays"`
	Prices       map[string]int `yaml:"prices"`
	MinTickets   int            `yaml:"min_tickets"`
	MaxTickets   int            `yaml:"max_tickets"`
}

// Parse decodes rules from YAML. Omitted fields fall back to Default values.
func Parse(data []byte) (*Rules, error) {
	def := Default()
	f := rulesFile{
		OpenWeekdays: def.OpenWeekdays(),
		MinTickets:   def.minTickets,
		MaxTickets:   def.maxTickets,
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	if f.Prices == nil {
		f.Prices = def.prices
	}
	return New(f.OpenWeekdays, f.Prices, f.MinTickets, f.MaxTickets)
}

// LoadFile reads rules from a YAML file. An empty path returns Default.
func LoadFile(path string) (*Rules, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("park: read rules: %w", err)
	}
	return Parse(data)
}
