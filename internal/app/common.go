package app

import (
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/repocost/internal/config"
	"github.com/codeGROOVE-dev/repocost/pkg/cocomo"
)

// Estimation flag values shared by analyze and estimate.
var (
	flagComplexity       string
	flagTeamExp          float64
	flagReuse            float64
	flagTools            float64
	flagAvgWage          float64
	flagMaxTeam          int
	flagMaxSchedule      float64
	flagRely             float64
	flagCplx             float64
	flagRuse             float64
	flagPcon             float64
	flagApex             float64
	flagMaintenanceRate  float64
	flagMaintenanceYears int
)

// addEstimateFlags registers the estimation parameter flags on a command.
func addEstimateFlags(cmd *cobra.Command) {
	defaults := cocomo.DefaultParams()
	cmd.Flags().StringVar(&flagComplexity, "complexity", string(defaults.Complexity), "project complexity: low, medium or high")
	cmd.Flags().Float64Var(&flagTeamExp, "team-exp", defaults.TeamExperience, "team experience rating, 1 (novice) to 5 (expert)")
	cmd.Flags().Float64Var(&flagReuse, "reuse", defaults.ReuseFactor, "reuse factor, 0.7 (high reuse) to 1.3 (none)")
	cmd.Flags().Float64Var(&flagTools, "tools", defaults.ToolSupport, "tool support factor, 0.8 (excellent) to 1.2 (poor)")
	cmd.Flags().Float64Var(&flagAvgWage, "avg-wage", defaults.AvgWage, "average annual wage in USD for realistic pricing")
	cmd.Flags().IntVar(&flagMaxTeam, "max-team", defaults.MaxTeamSize, "maximum team size")
	cmd.Flags().Float64Var(&flagMaxSchedule, "max-schedule", defaults.MaxScheduleMonths, "deadline in months")
	cmd.Flags().Float64Var(&flagRely, "rely", defaults.Rely, "required reliability multiplier [0.82, 1.26]")
	cmd.Flags().Float64Var(&flagCplx, "cplx", defaults.Cplx, "product complexity multiplier [0.73, 1.74]")
	cmd.Flags().Float64Var(&flagRuse, "ruse", defaults.Ruse, "develop-for-reuse multiplier [0.95, 1.24]")
	cmd.Flags().Float64Var(&flagPcon, "pcon", defaults.Pcon, "personnel continuity multiplier [0.81, 1.29]")
	cmd.Flags().Float64Var(&flagApex, "apex", defaults.Apex, "applications experience multiplier [0.81, 1.22]")
	cmd.Flags().Float64Var(&flagMaintenanceRate, "maintenance-rate", defaults.MaintenanceRate, "annual maintenance as a fraction of build cost")
	cmd.Flags().IntVar(&flagMaintenanceYears, "maintenance-years", defaults.MaintenanceYears, "years of maintenance to project (0 disables)")
}

// resolveParams overlays flags the user actually set on top of the
// calibration-file defaults, so an untouched flag never masks a
// calibrated value.
func resolveParams(cmd *cobra.Command, calibration *config.File) cocomo.Params {
	p := calibration.Params()
	flags := cmd.Flags()

	if flags.Changed("complexity") {
		p.Complexity = cocomo.Complexity(flagComplexity)
	}
	if flags.Changed("team-exp") {
		p.TeamExperience = flagTeamExp
	}
	if flags.Changed("reuse") {
		p.ReuseFactor = flagReuse
	}
	if flags.Changed("tools") {
		p.ToolSupport = flagTools
	}
	if flags.Changed("avg-wage") {
		p.AvgWage = flagAvgWage
	}
	if flags.Changed("max-team") {
		p.MaxTeamSize = flagMaxTeam
	}
	if flags.Changed("max-schedule") {
		p.MaxScheduleMonths = flagMaxSchedule
	}
	if flags.Changed("rely") {
		p.Rely = flagRely
	}
	if flags.Changed("cplx") {
		p.Cplx = flagCplx
	}
	if flags.Changed("ruse") {
		p.Ruse = flagRuse
	}
	if flags.Changed("pcon") {
		p.Pcon = flagPcon
	}
	if flags.Changed("apex") {
		p.Apex = flagApex
	}
	if flags.Changed("maintenance-rate") {
		p.MaintenanceRate = flagMaintenanceRate
	}
	if flags.Changed("maintenance-years") {
		p.MaintenanceYears = flagMaintenanceYears
	}
	return p
}

// loadCalibration reads the calibration file named by the global --config
// flag. A missing file yields built-in defaults.
func loadCalibration() (*config.File, error) {
	return config.Load(configPath)
}
