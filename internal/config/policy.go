package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	_ "time/tzdata" // policy timezones must resolve on hosts without zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/pkordes/bluetrail/internal/graph"
	"github.com/pkordes/bluetrail/internal/service"
	"github.com/pkordes/bluetrail/internal/validation"
)

// PolicyFile is the YAML shape of the certification policy. Every field is
// optional; absent fields keep their defaults.
//
//	max_speed_mps: 4.17
//	day_window: 1
//	weights:
//	  digital: 1
//	  manual: 1e9
//	  default: 1e15
//	  staleness_cap_minutes: 1e8
//	timezone: Europe/Budapest
//	versioning_epoch: "2000-01-01"
type PolicyFile struct {
	MaxSpeedMPS *float64     `yaml:"max_speed_mps"`
	DayWindow   *int         `yaml:"day_window"`
	Weights     *WeightsFile `yaml:"weights"`
	Timezone    string       `yaml:"timezone"`
	Epoch       string       `yaml:"versioning_epoch"`
}

// WeightsFile is the weights block of PolicyFile.
type WeightsFile struct {
	Digital             *float64 `yaml:"digital"`
	Manual              *float64 `yaml:"manual"`
	Default             *float64 `yaml:"default"`
	StalenessCapMinutes *float64 `yaml:"staleness_cap_minutes"`
}

const (
	defaultTimezone = "Europe/Budapest"
	defaultEpoch    = "2000-01-01"
)

// LoadPolicy reads the policy from path. An empty path yields the defaults.
func LoadPolicy(path string) (service.Policy, error) {
	if path == "" {
		return ParsePolicy(bytes.NewReader(nil))
	}
	f, err := os.Open(path)
	if err != nil {
		return service.Policy{}, fmt.Errorf("config.LoadPolicy: %w", err)
	}
	defer f.Close()

	p, err := ParsePolicy(f)
	if err != nil {
		return service.Policy{}, fmt.Errorf("config.LoadPolicy: %s: %w", path, err)
	}
	return p, nil
}

// ParsePolicy decodes a YAML policy, applies defaults and validates it.
func ParsePolicy(r io.Reader) (service.Policy, error) {
	var pf PolicyFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&pf); err != nil && !errors.Is(err, io.EOF) {
		return service.Policy{}, fmt.Errorf("decode policy: %w", err)
	}

	p := service.Policy{
		Validation: validation.DefaultPolicy(),
		Weights:    graph.DefaultWeights(),
	}
	if pf.MaxSpeedMPS != nil {
		p.Validation.MaxSpeedMPS = *pf.MaxSpeedMPS
	}
	if pf.DayWindow != nil {
		p.Validation.DayWindow = *pf.DayWindow
	}
	if w := pf.Weights; w != nil {
		set(&p.Weights.Digital, w.Digital)
		set(&p.Weights.Manual, w.Manual)
		set(&p.Weights.Default, w.Default)
		set(&p.Weights.StalenessCapMinutes, w.StalenessCapMinutes)
	}

	tz := pf.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return service.Policy{}, fmt.Errorf("timezone %q: %w", tz, err)
	}
	p.Location = loc

	epoch := pf.Epoch
	if epoch == "" {
		epoch = defaultEpoch
	}
	if p.Epoch, err = time.ParseInLocation(time.DateOnly, epoch, loc); err != nil {
		return service.Policy{}, fmt.Errorf("versioning_epoch %q: %w", epoch, err)
	}

	if err := validatePolicy(p); err != nil {
		return service.Policy{}, err
	}
	return p, nil
}

func validatePolicy(p service.Policy) error {
	if p.Validation.MaxSpeedMPS <= 0 {
		return fmt.Errorf("max_speed_mps must be positive, got %v", p.Validation.MaxSpeedMPS)
	}
	if p.Validation.DayWindow < 0 {
		return fmt.Errorf("day_window must not be negative, got %d", p.Validation.DayWindow)
	}
	return p.Weights.Validate()
}

func set(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
