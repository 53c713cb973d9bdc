package cocomo

import (
	"errors"
	"fmt"
)

// Validation failure classes. Every estimation error wraps one of these.
var (
	// ErrOutOfRange marks a bounded field outside its documented closed
	// interval, or an unknown enum value.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidMagnitude marks a negative value where a non-negative one
	// is required, or a non-positive value where a positive one is.
	ErrInvalidMagnitude = errors.New("invalid magnitude")
)

// ValidationError reports a single invalid input field with enough detail
// for the caller to fix the request.
type ValidationError struct {
	Field   string
	Value   any
	Allowed string
	kind    error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: got %v, allowed %s", e.Field, e.Value, e.Allowed)
}

func (e *ValidationError) Unwrap() error {
	return e.kind
}

func outOfRange(field string, value any, allowed string) error {
	return &ValidationError{Field: field, Value: value, Allowed: allowed, kind: ErrOutOfRange}
}

func invalidMagnitude(field string, value any, allowed string) error {
	return &ValidationError{Field: field, Value: value, Allowed: allowed, kind: ErrInvalidMagnitude}
}

// validate checks every bounded and sign-constrained field before any
// computation. Failures are atomic: the first offending field is reported
// and no partial result is produced. Values are never clamped.
func validate(p Params) error {
	if p.CodeLines < 0 {
		return invalidMagnitude("code_lines", p.CodeLines, ">= 0")
	}
	switch p.Complexity {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
	default:
		return outOfRange("complexity", p.Complexity, "low, medium or high")
	}
	if p.TeamExperience < 1 || p.TeamExperience > 5 {
		return outOfRange("team_experience", p.TeamExperience, "[1, 5]")
	}
	if p.ReuseFactor < 0.7 || p.ReuseFactor > 1.3 {
		return outOfRange("reuse_factor", p.ReuseFactor, "[0.7, 1.3]")
	}
	if p.ToolSupport < 0.8 || p.ToolSupport > 1.2 {
		return outOfRange("tool_support", p.ToolSupport, "[0.8, 1.2]")
	}
	if p.AvgWage <= 0 {
		return invalidMagnitude("avg_wage", p.AvgWage, "> 0")
	}
	if p.MaxTeamSize <= 0 {
		return invalidMagnitude("max_team_size", p.MaxTeamSize, "> 0")
	}
	if p.MaxScheduleMonths <= 0 {
		return invalidMagnitude("max_schedule_months", p.MaxScheduleMonths, "> 0")
	}
	if p.Rely < 0.82 || p.Rely > 1.26 {
		return outOfRange("rely", p.Rely, "[0.82, 1.26]")
	}
	if p.Cplx < 0.73 || p.Cplx > 1.74 {
		return outOfRange("cplx", p.Cplx, "[0.73, 1.74]")
	}
	if p.Ruse < 0.95 || p.Ruse > 1.24 {
		return outOfRange("ruse", p.Ruse, "[0.95, 1.24]")
	}
	if p.Pcon < 0.81 || p.Pcon > 1.29 {
		return outOfRange("pcon", p.Pcon, "[0.81, 1.29]")
	}
	if p.Apex < 0.81 || p.Apex > 1.22 {
		return outOfRange("apex", p.Apex, "[0.81, 1.22]")
	}
	if p.MaintenanceRate < 0 || p.MaintenanceRate > 1 {
		return outOfRange("maintenance_rate", p.MaintenanceRate, "[0, 1]")
	}
	if p.MaintenanceYears < 0 {
		return invalidMagnitude("maintenance_years", p.MaintenanceYears, ">= 0")
	}
	for lang, lines := range p.LanguageMix {
		if lines < 0 {
			return invalidMagnitude("language_mix["+lang+"]", lines, ">= 0")
		}
	}
	return nil
}
