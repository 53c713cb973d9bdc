// Package config loads optional YAML calibration files. A calibration file
// overrides the model constants and the default estimation parameters
// without recompiling; anything not set keeps its built-in value.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
)

// File is the top-level calibration document.
type File struct {
	Calibration Calibration `yaml:"calibration"`
	Defaults    Defaults    `yaml:"defaults"`
}

// Calibration overrides the estimation model constants. Pointer fields
// distinguish "not set" from an explicit zero.
type Calibration struct {
	Multiplier            *float64           `yaml:"multiplier"`
	ExponentLow           *float64           `yaml:"exponent_low"`
	ExponentMedium        *float64           `yaml:"exponent_medium"`
	ExponentHigh          *float64           `yaml:"exponent_high"`
	ScheduleMultiplier    *float64           `yaml:"schedule_multiplier"`
	FlatMonthlyRate       *float64           `yaml:"flat_monthly_rate"`
	ModernStackMultiplier *float64           `yaml:"modern_stack_multiplier"`
	MaxRealisticPeople    *float64           `yaml:"max_realistic_people"`
	CoordinationThreshold *float64           `yaml:"coordination_threshold"`
	CoordinationPremium   *float64           `yaml:"coordination_premium"`
	BasePremium           *float64           `yaml:"base_premium"`
	ConfidenceSpread      *float64           `yaml:"confidence_spread"`
	MaintenanceGrowth     *float64           `yaml:"maintenance_growth"`
	Productivity          map[string]float64 `yaml:"productivity"`
}

// Defaults overrides the default estimation parameters used when a flag
// or request field is absent.
type Defaults struct {
	Complexity        *string  `yaml:"complexity"`
	TeamExperience    *float64 `yaml:"team_experience"`
	ReuseFactor       *float64 `yaml:"reuse_factor"`
	ToolSupport       *float64 `yaml:"tool_support"`
	AvgWage           *float64 `yaml:"avg_wage"`
	MaxTeamSize       *int     `yaml:"max_team_size"`
	MaxScheduleMonths *float64 `yaml:"max_schedule_months"`
	Rely              *float64 `yaml:"rely"`
	Cplx              *float64 `yaml:"cplx"`
	Ruse              *float64 `yaml:"ruse"`
	Pcon              *float64 `yaml:"pcon"`
	Apex              *float64 `yaml:"apex"`
	MaintenanceRate   *float64 `yaml:"maintenance_rate"`
	MaintenanceYears  *int     `yaml:"maintenance_years"`
}

// Load reads a calibration file. A missing file is not an error; the
// returned File then overrides nothing.
func Load(path string) (*File, error) {
	f := &File{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return f, nil
		}
		return nil, fmt.Errorf("failed to read calibration file: %w", err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, fmt.Errorf("failed to parse calibration file: %w", err)
	}
	return f, nil
}

// Config applies the calibration overrides on top of the built-in model
// constants.
func (f *File) Config() cocomo.Config {
	cfg := cocomo.DefaultConfig()
	c := f.Calibration

	setF(&cfg.Multiplier, c.Multiplier)
	setF(&cfg.ExponentLow, c.ExponentLow)
	setF(&cfg.ExponentMedium, c.ExponentMedium)
	setF(&cfg.ExponentHigh, c.ExponentHigh)
	setF(&cfg.ScheduleMultiplier, c.ScheduleMultiplier)
	setF(&cfg.FlatMonthlyRate, c.FlatMonthlyRate)
	setF(&cfg.ModernStackMultiplier, c.ModernStackMultiplier)
	setF(&cfg.MaxRealisticPeople, c.MaxRealisticPeople)
	setF(&cfg.CoordinationThreshold, c.CoordinationThreshold)
	setF(&cfg.CoordinationPremium, c.CoordinationPremium)
	setF(&cfg.BasePremium, c.BasePremium)
	setF(&cfg.ConfidenceSpread, c.ConfidenceSpread)
	setF(&cfg.MaintenanceGrowth, c.MaintenanceGrowth)

	// Productivity entries merge over the defaults so a file can adjust
	// one language without restating the whole table.
	for lang, factor := range c.Productivity {
		cfg.Productivity[lang] = factor
	}
	return cfg
}

// Params applies the default-parameter overrides on top of the built-in
// defaults.
func (f *File) Params() cocomo.Params {
	p := cocomo.DefaultParams()
	d := f.Defaults

	if d.Complexity != nil {
		p.Complexity = cocomo.Complexity(*d.Complexity)
	}
	setF(&p.TeamExperience, d.TeamExperience)
	setF(&p.ReuseFactor, d.ReuseFactor)
	setF(&p.ToolSupport, d.ToolSupport)
	setF(&p.AvgWage, d.AvgWage)
	setI(&p.MaxTeamSize, d.MaxTeamSize)
	setF(&p.MaxScheduleMonths, d.MaxScheduleMonths)
	setF(&p.Rely, d.Rely)
	setF(&p.Cplx, d.Cplx)
	setF(&p.Ruse, d.Ruse)
	setF(&p.Pcon, d.Pcon)
	setF(&p.Apex, d.Apex)
	setF(&p.MaintenanceRate, d.MaintenanceRate)
	setI(&p.MaintenanceYears, d.MaintenanceYears)
	return p
}

func setF(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setI(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
