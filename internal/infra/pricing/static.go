package pricing

import (
	"context"
	"encoding/json"
	"os"
	"sync"

	"campsite/internal/app/policies"
	domainpolicy "campsite/internal/domain/policy"
	domainpricing "campsite/internal/domain/pricing"
	"campsite/internal/domain/shared/daterange"
	domainsite "campsite/internal/domain/site"
)

// StaticEngine serves quotes and policy lookups from configuration loaded at
// startup. Rates, holidays and policy change rarely; a restart picks up new
// files.
type StaticEngine struct {
	mu       sync.RWMutex
	cfg      domainpricing.Config
	holidays domainpricing.HolidaySet
	policy   domainpolicy.Policy
	openRule domainpolicy.OpenDayRule
}

type Options struct {
	Config   domainpricing.Config
	Holidays domainpricing.HolidaySet
	Policy   domainpolicy.Policy
	OpenRule domainpolicy.OpenDayRule
}

func NewStaticEngine(opts Options) (*StaticEngine, error) {
	if err := opts.Policy.Validate(); err != nil {
		return nil, err
	}
	return &StaticEngine{
		cfg:      opts.Config,
		holidays: opts.Holidays,
		policy:   opts.Policy,
		openRule: opts.OpenRule,
	}, nil
}

// Quote runs the pure calculator against the configured rates. A site
// carrying its own base price overrides the weekday rate; the other rates
// stay shared.
func (e *StaticEngine) Quote(_ context.Context, s *domainsite.Site, dr daterange.DateRange, familyCount, visitorCount int) (domainpricing.Breakdown, error) {
	e.mu.RLock()
	cfg, holidays := e.cfg, e.holidays
	e.mu.RUnlock()
	if s != nil && s.BasePrice > 0 {
		cfg.Weekday = s.BasePrice
	}
	return domainpricing.Calculate(dr, familyCount, visitorCount, cfg, holidays)
}

func (e *StaticEngine) Current(context.Context) (domainpolicy.Policy, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.policy, nil
}

func (e *StaticEngine) OpenDays(context.Context) (domainpolicy.OpenDayRule, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.openRule, nil
}

// Retune swaps the live policy bundle, for tests and admin tooling.
func (e *StaticEngine) Retune(opts Options) error {
	if err := opts.Policy.Validate(); err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = opts.Config
	e.holidays = opts.Holidays
	e.policy = opts.Policy
	e.openRule = opts.OpenRule
	return nil
}

var _ policies.PricingPort = (*StaticEngine)(nil)
var _ policies.PolicyPort = (*StaticEngine)(nil)

// LoadConfig reads nightly rates from a JSON file, falling back to the launch
// defaults when path is empty.
func LoadConfig(path string) (domainpricing.Config, error) {
	cfg := domainpricing.DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if err := decodeFile(path, &cfg); err != nil {
		return domainpricing.Config{}, err
	}
	return cfg, nil
}

// LoadHolidays reads a JSON array of YYYY-MM-DD strings.
func LoadHolidays(path string) (domainpricing.HolidaySet, error) {
	if path == "" {
		return domainpricing.HolidaySet{}, nil
	}
	var dates []string
	if err := decodeFile(path, &dates); err != nil {
		return nil, err
	}
	return domainpricing.NewHolidaySet(dates), nil
}

// LoadPolicy reads the policy bundle, falling back to the launch policy when
// path is empty.
func LoadPolicy(path string) (domainpolicy.Policy, error) {
	pol := domainpolicy.Default()
	if path == "" {
		return pol, nil
	}
	if err := decodeFile(path, &pol); err != nil {
		return domainpolicy.Policy{}, err
	}
	if err := pol.Validate(); err != nil {
		return domainpolicy.Policy{}, err
	}
	return pol, nil
}

// LoadOpenRule reads the booking-window rule. An empty path yields a rolling
// window that opens bookings through the end of next month on the 25th.
func LoadOpenRule(path string) (domainpolicy.OpenDayRule, error) {
	if path == "" {
		return domainpolicy.OpenDayRule{
			Monthly: &domainpolicy.MonthlyRoll{TriggerDay: 25, AddMonths: 1, EndOfMonth: true},
		}, nil
	}
	var rule domainpolicy.OpenDayRule
	if err := decodeFile(path, &rule); err != nil {
		return domainpolicy.OpenDayRule{}, err
	}
	return rule, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
