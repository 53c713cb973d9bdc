// Package cocomo implements COCOMO II cost, schedule and team estimation
// for software projects. COCOMO (Constructive Cost Model) estimates
// development effort as a power-law function of lines of code, scaled by a
// product of effort multipliers, then resolves the unconstrained figures
// against real-world team and deadline limits.
package cocomo

import "math"

// Complexity selects the COCOMO scale exponent.
type Complexity string

// Supported complexity classes.
const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// Config holds calibration constants for the estimator. These are specific
// to the calibration environment and deliberately adjustable, but the
// defaults must be preserved for compatibility with existing callers.
type Config struct {
	// Multiplier is the base effort coefficient A (default: 2.50)
	Multiplier float64

	// Scale exponents B per complexity class (defaults: 1.02, 1.10, 1.18)
	ExponentLow    float64
	ExponentMedium float64
	ExponentHigh   float64

	// ScheduleMultiplier is the schedule coefficient C (default: 3.50)
	ScheduleMultiplier float64

	// Schedule exponent D = Base + Slope × (B − 1.01)
	// (defaults: 0.28 and 0.2, so D grows slightly with complexity)
	ScheduleExponentBase  float64
	ScheduleExponentSlope float64

	// FlatMonthlyRate prices the unconstrained ("textbook") estimate in
	// dollars per person-month (default: 12000). Independent of AvgWage.
	FlatMonthlyRate float64

	// ModernStackMultiplier is a fixed effort reduction for modern
	// framework productivity (default: 0.85)
	ModernStackMultiplier float64

	// MaxRealisticPeople is the hard team ceiling past which coordination
	// overhead dominates added throughput (default: 8)
	MaxRealisticPeople float64

	// Teams at or above CoordinationThreshold people pay
	// CoordinationPremium on the realistic cost (defaults: 6 and 1.1)
	CoordinationThreshold float64
	CoordinationPremium   float64

	// Schedule compression premium tiers, evaluated highest ratio first.
	// A compression below the lowest tier still pays BasePremium.
	// Defaults: ratio≥4→2.0, ratio≥3→1.7, ratio≥2→1.4, else 1.2.
	PremiumTiers []PremiumTier
	BasePremium  float64

	// ConfidenceSpread is the half-width of the confidence band around the
	// realistic cost (default: 0.30 = ±30%)
	ConfidenceSpread float64

	// MaintenanceGrowth compounds the annual maintenance cost year over
	// year, modeling knowledge turnover (default: 1.05 = 5%/year)
	MaintenanceGrowth float64

	// Productivity maps language names to line-productivity factors used
	// to weight a per-language line mix into effective size. Unknown
	// languages default to 1.0. Read-only after initialization.
	Productivity map[string]float64
}

// PremiumTier maps a minimum schedule compression ratio to a cost premium.
type PremiumTier struct {
	MinRatio float64
	Premium  float64
}

// DefaultConfig returns the standard calibration. Callers may adjust fields
// before estimating, but concurrent use requires the config to be treated
// as read-only once shared.
func DefaultConfig() Config {
	return Config{
		Multiplier:            2.50,
		ExponentLow:           1.02,
		ExponentMedium:        1.10,
		ExponentHigh:          1.18,
		ScheduleMultiplier:    3.50,
		ScheduleExponentBase:  0.28,
		ScheduleExponentSlope: 0.2,
		FlatMonthlyRate:       12000,
		ModernStackMultiplier: 0.85,
		MaxRealisticPeople:    8,
		CoordinationThreshold: 6,
		CoordinationPremium:   1.1,
		PremiumTiers: []PremiumTier{
			{MinRatio: 4, Premium: 2.0},
			{MinRatio: 3, Premium: 1.7},
			{MinRatio: 2, Premium: 1.4},
		},
		BasePremium:       1.2,
		ConfidenceSpread:  0.30,
		MaintenanceGrowth: 1.05,
		Productivity:      DefaultProductivity(),
	}
}

// exponent returns the scale exponent B for a complexity class.
func (c Config) exponent(complexity Complexity) float64 {
	switch complexity {
	case ComplexityLow:
		return c.ExponentLow
	case ComplexityHigh:
		return c.ExponentHigh
	case ComplexityMedium:
		return c.ExponentMedium
	}
	return c.ExponentMedium
}

// Params holds the per-request input to the estimator.
//
// Construct with DefaultParams() and assign the fields you need; every
// bounded field is validated against its documented closed range before any
// computation, never silently clamped.
type Params struct {
	// CodeLines is the total line count. Reported as the nominal size and
	// used for effort when no LanguageMix is given.
	CodeLines int `json:"code_lines"`

	// Complexity selects the COCOMO scale exponent (default: medium)
	Complexity Complexity `json:"complexity"`

	// TeamExperience ranges 1 (novice) to 5 (expert), default 4
	TeamExperience float64 `json:"team_experience"`

	// ReuseFactor in [0.7, 1.3], default 1.0
	ReuseFactor float64 `json:"reuse_factor"`

	// ToolSupport in [0.8, 1.2], default 1.0
	ToolSupport float64 `json:"tool_support"`

	// LanguageMix maps language name to code line count. When present it
	// overrides CodeLines for effort via productivity weighting.
	LanguageMix map[string]int `json:"language_mix,omitempty"`

	// AvgWage is the annual wage in dollars used for realistic pricing
	// (default: 105000)
	AvgWage float64 `json:"avg_wage"`

	// MaxTeamSize caps the team (default: 5). The effective cap is the
	// lower of this and the calibration's hard ceiling.
	MaxTeamSize int `json:"max_team_size"`

	// MaxScheduleMonths is the deadline (default: 24). A natural schedule
	// beyond it forces compression and a premium.
	MaxScheduleMonths float64 `json:"max_schedule_months"`

	// COCOMO II cost drivers, each nominal at 1.0:
	// Rely in [0.82, 1.26] — required reliability
	// Cplx in [0.73, 1.74] — product complexity
	// Ruse in [0.95, 1.24] — required reusability
	// Pcon in [0.81, 1.29] — personnel continuity
	// Apex in [0.81, 1.22] — applications experience
	Rely float64 `json:"rely"`
	Cplx float64 `json:"cplx"`
	Ruse float64 `json:"ruse"`
	Pcon float64 `json:"pcon"`
	Apex float64 `json:"apex"`

	// MaintenanceRate is the annual maintenance fraction of build cost in
	// [0, 1], default 0.20
	MaintenanceRate float64 `json:"maintenance_rate"`

	// MaintenanceYears enables the maintenance/TCO projection when > 0
	// (default: 0 = disabled)
	MaintenanceYears int `json:"maintenance_years"`
}

// DefaultParams returns Params with all documented defaults filled in.
func DefaultParams() Params {
	return Params{
		Complexity:        ComplexityMedium,
		TeamExperience:    4,
		ReuseFactor:       1.0,
		ToolSupport:       1.0,
		AvgWage:           105000,
		MaxTeamSize:       5,
		MaxScheduleMonths: 24,
		Rely:              1.0,
		Cplx:              1.0,
		Ruse:              1.0,
		Pcon:              1.0,
		Apex:              1.0,
		MaintenanceRate:   0.20,
	}
}

// ConfidenceInterval is the band around the realistic cost reflecting
// COCOMO II's known estimation accuracy. Not a statistical computation.
type ConfidenceInterval struct {
	Low  int `json:"low"`
	High int `json:"high"`
}

// MultiplierBreakdown exposes every factor in the effort product so the
// presentation layer can explain or chart the estimate.
type MultiplierBreakdown struct {
	BaseEffort float64 `json:"base_effort"`
	Experience float64 `json:"EM_experience"`
	Reuse      float64 `json:"EM_reuse"`
	Tools      float64 `json:"EM_tools"`
	Modern     float64 `json:"EM_modern"`
	Rely       float64 `json:"EM_rely"`
	Cplx       float64 `json:"EM_cplx"`
	Ruse       float64 `json:"EM_ruse"`
	Pcon       float64 `json:"EM_pcon"`
	Apex       float64 `json:"EM_apex"`
	Total      float64 `json:"EM_total"`
}

// Maintenance projects post-build costs. Year one carries no compounding;
// each following year grows by the configured rate.
type Maintenance struct {
	AnnualMaintenance int     `json:"annual_maintenance"`
	MaintenanceYears  int     `json:"maintenance_years"`
	MaintenanceRate   float64 `json:"maintenance_rate"`
	YearlyCosts       []int   `json:"yearly_costs"`
	TotalMaintenance  int     `json:"total_maintenance"`
	TCO               int     `json:"tco"`
}

// Result is the immutable outcome of one estimation. It carries both the
// unconstrained COCOMO figures and the realistic, constraint-adjusted ones.
type Result struct {
	CodeLines int `json:"code_lines"`

	// Unconstrained COCOMO outputs
	EffortPersonMonths float64 `json:"effort_person_months"`
	ScheduleMonths     float64 `json:"schedule_months"`
	PeopleRequired     float64 `json:"people_required"`
	EstimatedCostUSD   int     `json:"estimated_cost_usd"`

	// Realistic (constrained) outputs
	RealisticCostUSD    int     `json:"realistic_cost_usd"`
	FinalPeople         float64 `json:"final_people"`
	FinalScheduleMonths float64 `json:"final_schedule_months"`
	PremiumMultiplier   float64 `json:"premium_multiplier"`
	CoordinationPremium float64 `json:"coordination_premium"`
	AverageMonthlyCost  int     `json:"average_monthly_cost"`

	ConfidenceInterval ConfidenceInterval  `json:"confidence_interval"`
	Multipliers        MultiplierBreakdown `json:"multiplier_breakdown"`
	Maintenance        *Maintenance        `json:"maintenance,omitempty"`

	// Supporting details for explanation and reporting
	NaturalScheduleMonths  float64 `json:"natural_schedule_months"`
	OriginalPeople         float64 `json:"original_people"`
	OriginalScheduleMonths float64 `json:"original_schedule_months"`
	MaxRealisticPeople     float64 `json:"max_realistic_people"`
	MaxScheduleMonths      float64 `json:"max_schedule_months"`

	// Params echoes the resolved input for traceability.
	Params Params `json:"params"`
}

// Estimate runs the full estimation pipeline: effective size, base effort,
// effort multipliers, unconstrained schedule and team, realistic constraint
// and premium resolution, confidence interval, and optional maintenance/TCO.
//
// The computation is pure: identical inputs produce identical results, and
// concurrent calls are safe as long as cfg is not mutated.
//
// Returns a ValidationError if any bounded field falls outside its
// documented range; no partial result is ever returned.
func Estimate(params Params, cfg Config) (Result, error) {
	if err := validate(params); err != nil {
		return Result{}, err
	}

	// Effective size in KLOC, productivity-weighted when a mix is given.
	var kloc float64
	if len(params.LanguageMix) > 0 {
		kloc = EffectiveKLOC(params.LanguageMix, cfg.Productivity)
	} else {
		kloc = float64(params.CodeLines) / 1000.0
	}

	// Base effort: A × KLOC^B in person-months.
	exponentB := cfg.exponent(params.Complexity)
	var baseEffort float64
	if kloc > 0 {
		baseEffort = cfg.Multiplier * math.Pow(kloc, exponentB)
	}

	// Effort multipliers.
	emExperience := 1.2 - 0.05*params.TeamExperience
	emTotal := emExperience * params.ReuseFactor * params.ToolSupport *
		cfg.ModernStackMultiplier *
		params.Rely * params.Cplx * params.Ruse * params.Pcon * params.Apex
	effort := baseEffort * emTotal

	// Unconstrained schedule and team.
	exponentD := cfg.ScheduleExponentBase + cfg.ScheduleExponentSlope*(exponentB-1.01)
	var schedule, people float64
	if effort > 0 {
		schedule = cfg.ScheduleMultiplier * math.Pow(effort, exponentD)
	}
	if schedule > 0 {
		people = effort / schedule
	}
	estimatedCost := int(math.Round(effort * cfg.FlatMonthlyRate))

	// Realistic constraint and premium resolution. The team is capped in
	// two steps: first by the caller's limit, then by the hard ceiling.
	monthlyWage := params.AvgWage / 12.0
	unconstrainedPeople := math.Min(people, float64(params.MaxTeamSize))
	finalPeople := math.Min(unconstrainedPeople, cfg.MaxRealisticPeople)

	naturalSchedule := effort
	if finalPeople > 0 {
		naturalSchedule = effort / finalPeople
	}
	finalSchedule := math.Min(naturalSchedule, params.MaxScheduleMonths)

	// The compression premium and the coordination premium are mutually
	// exclusive: a bound deadline pays for compression only.
	premiumMultiplier := 1.0
	coordinationPremium := 1.0
	var realisticCost float64
	if naturalSchedule > params.MaxScheduleMonths {
		ratio := naturalSchedule
		if finalSchedule > 0 {
			ratio = naturalSchedule / finalSchedule
		}
		premiumMultiplier = cfg.compressionPremium(ratio)
		realisticCost = effort * monthlyWage * premiumMultiplier
	} else {
		if finalPeople >= cfg.CoordinationThreshold {
			coordinationPremium = cfg.CoordinationPremium
		}
		realisticCost = effort * monthlyWage * coordinationPremium
	}
	realisticUSD := int(math.Round(realisticCost))

	var averageMonthly int
	if finalSchedule > 0 {
		averageMonthly = int(math.Round(float64(realisticUSD) / finalSchedule))
	}

	result := Result{
		CodeLines:           params.CodeLines,
		EffortPersonMonths:  round2(effort),
		ScheduleMonths:      round2(schedule),
		PeopleRequired:      round2(people),
		EstimatedCostUSD:    estimatedCost,
		RealisticCostUSD:    realisticUSD,
		FinalPeople:         round2(finalPeople),
		FinalScheduleMonths: round2(finalSchedule),
		PremiumMultiplier:   premiumMultiplier,
		CoordinationPremium: coordinationPremium,
		AverageMonthlyCost:  averageMonthly,
		ConfidenceInterval: ConfidenceInterval{
			Low:  int(math.Round(float64(realisticUSD) * (1 - cfg.ConfidenceSpread))),
			High: int(math.Round(float64(realisticUSD) * (1 + cfg.ConfidenceSpread))),
		},
		Multipliers: MultiplierBreakdown{
			BaseEffort: round2(baseEffort),
			Experience: emExperience,
			Reuse:      params.ReuseFactor,
			Tools:      params.ToolSupport,
			Modern:     cfg.ModernStackMultiplier,
			Rely:       params.Rely,
			Cplx:       params.Cplx,
			Ruse:       params.Ruse,
			Pcon:       params.Pcon,
			Apex:       params.Apex,
			Total:      emTotal,
		},
		NaturalScheduleMonths:  round2(naturalSchedule),
		OriginalPeople:         round2(people),
		OriginalScheduleMonths: round2(schedule),
		MaxRealisticPeople:     cfg.MaxRealisticPeople,
		MaxScheduleMonths:      params.MaxScheduleMonths,
		Params:                 params,
	}

	if params.MaintenanceYears > 0 {
		result.Maintenance = projectMaintenance(realisticUSD, params, cfg)
	}

	return result, nil
}

// compressionPremium returns the premium for a schedule compression ratio.
// Tiers use inclusive lower bounds and are evaluated highest-first; any
// compression below the lowest tier still pays the base premium.
func (c Config) compressionPremium(ratio float64) float64 {
	for _, tier := range c.PremiumTiers {
		if ratio >= tier.MinRatio {
			return tier.Premium
		}
	}
	return c.BasePremium
}

// projectMaintenance builds the maintenance schedule and TCO. Year one is
// charged at the plain annual rate; each later year compounds by the
// configured growth factor.
func projectMaintenance(realisticUSD int, params Params, cfg Config) *Maintenance {
	annual := float64(realisticUSD) * params.MaintenanceRate
	yearly := make([]int, params.MaintenanceYears)
	total := 0
	for year := range yearly {
		yearly[year] = int(math.Round(annual * math.Pow(cfg.MaintenanceGrowth, float64(year))))
		total += yearly[year]
	}
	return &Maintenance{
		AnnualMaintenance: int(math.Round(annual)),
		MaintenanceYears:  params.MaintenanceYears,
		MaintenanceRate:   params.MaintenanceRate,
		YearlyCosts:       yearly,
		TotalMaintenance:  total,
		TCO:               realisticUSD + total,
	}
}

// round2 rounds to two decimal places for reporting fields.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
