// Package policy holds the regulatory ceilings and heuristic thresholds
// the allocation engine runs under. A Policy is an immutable value passed
// into every calculation; nothing in here is process-global.
package policy

import (
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

const (
	DefaultMonthCap   = 57.0
	DefaultQuarterCap = 90.0

	// Multipliers for the cumulative-entry heuristics: a month-2 figure is
	// suspect above monthCap*1.2 (a single month rarely clears the cap by
	// more than 20%), a month-3 figure above monthCap*1.5.
	DefaultM2CumulativeFactor = 1.2
	DefaultM3CumulativeFactor = 1.5
)

type Policy struct {
	MonthCap   float64 `toml:"month_cap" json:"month_cap"`
	QuarterCap float64 `toml:"quarter_cap" json:"quarter_cap"`

	M2CumulativeFactor float64 `toml:"m2_cumulative_factor" json:"m2_cumulative_factor"`
	M3CumulativeFactor float64 `toml:"m3_cumulative_factor" json:"m3_cumulative_factor"`
}

func Default() Policy {
	return Policy{
		MonthCap:           DefaultMonthCap,
		QuarterCap:         DefaultQuarterCap,
		M2CumulativeFactor: DefaultM2CumulativeFactor,
		M3CumulativeFactor: DefaultM3CumulativeFactor,
	}
}

// Load builds the process policy: defaults, then the TOML file named by
// POLICY_FILE (if set), then MONTH_CAP_HOURS / QUARTER_CAP_HOURS from the
// environment.
func Load() (Policy, error) {
	p := Default()

	if path := os.Getenv("POLICY_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Policy{}, fmt.Errorf("read policy file: %w", err)
		}
		if err := toml.Unmarshal(data, &p); err != nil {
			return Policy{}, fmt.Errorf("parse policy file %s: %w", path, err)
		}
	}

	if v := os.Getenv("MONTH_CAP_HOURS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Policy{}, fmt.Errorf("MONTH_CAP_HOURS: %w", err)
		}
		p.MonthCap = f
	}
	if v := os.Getenv("QUARTER_CAP_HOURS"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Policy{}, fmt.Errorf("QUARTER_CAP_HOURS: %w", err)
		}
		p.QuarterCap = f
	}

	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

func (p Policy) Validate() error {
	if p.MonthCap < 0 {
		return fmt.Errorf("month cap must be non-negative, got %v", p.MonthCap)
	}
	if p.QuarterCap < 0 {
		return fmt.Errorf("quarter cap must be non-negative, got %v", p.QuarterCap)
	}
	if p.MonthCap > p.QuarterCap {
		return fmt.Errorf("month cap %v exceeds quarter cap %v", p.MonthCap, p.QuarterCap)
	}
	if p.M2CumulativeFactor <= 0 || p.M3CumulativeFactor <= 0 {
		return fmt.Errorf("cumulative factors must be positive")
	}
	return nil
}

// WithCaps returns a copy with the given caps substituted. Nil pointers
// leave the corresponding cap unchanged.
func (p Policy) WithCaps(monthCap, quarterCap *float64) Policy {
	if monthCap != nil {
		p.MonthCap = *monthCap
	}
	if quarterCap != nil {
		p.QuarterCap = *quarterCap
	}
	return p
}
