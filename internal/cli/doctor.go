package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/rileyhilliard/mxtop/internal/config"
	"github.com/rileyhilliard/mxtop/internal/doctor"
	"github.com/rileyhilliard/mxtop/internal/logger"
	"github.com/rileyhilliard/mxtop/internal/monitor"
	"github.com/rileyhilliard/mxtop/internal/sysinfo"
)

var doctorJSON bool

// doctorCmd checks that the dashboard can start
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that mxtop can run on this machine",
	Long: `Run preflight checks: platform, root privileges, the powermetrics
binary, the config, and the log file.

Doctor runs without root and reports what would stop the dashboard.

Examples:
  mxtop doctor
  mxtop doctor --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return doctorCommand(cmd, doctorJSON)
	},
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output in JSON format")
	rootCmd.AddCommand(doctorCmd)
}

// DoctorOutput represents the JSON output for doctor command.
type DoctorOutput struct {
	Results []doctor.CheckResult `json:"results"`
	Summary SummaryOutput        `json:"summary"`
}

// SummaryOutput summarizes the check results.
type SummaryOutput struct {
	Pass     int  `json:"pass"`
	Warn     int  `json:"warn"`
	Fail     int  `json:"fail"`
	AllClear bool `json:"all_clear"`
}

// doctorCommand runs the checks and prints the report.
func doctorCommand(cmd *cobra.Command, asJSON bool) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, cfgErr := loadConfig(cmd)
	if path == "" {
		if def := config.DefaultPath(); def != "" && fileExists(def) {
			path = def
		}
	}

	checks := doctor.NewChecks(doctor.Options{
		Chip:       sysinfo.Collect().Chip,
		EUID:       euid,
		ConfigPath: path,
		Config:     cfg,
		ConfigErr:  cfgErr,
	})
	results := doctor.RunAll(checks)

	log := logger.NewEnvLogger("doctor")
	for _, r := range results {
		log.Debug("%s %s: %s %s", r.Category, r.Name, r.Status, r.Message)
	}

	if asJSON {
		return outputDoctorJSON(cmd.OutOrStdout(), results)
	}
	outputDoctorText(cmd.OutOrStdout(), results)
	return nil
}

// outputDoctorJSON outputs results in JSON format.
func outputDoctorJSON(w io.Writer, results []doctor.CheckResult) error {
	counts := doctor.CountByStatus(results)
	output := DoctorOutput{
		Results: results,
		Summary: SummaryOutput{
			Pass:     counts[doctor.StatusPass],
			Warn:     counts[doctor.StatusWarn],
			Fail:     counts[doctor.StatusFail],
			AllClear: !doctor.HasIssues(results),
		},
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

// outputDoctorText outputs results in human-readable format.
func outputDoctorText(w io.Writer, results []doctor.CheckResult) {
	passStyle := lipgloss.NewStyle().Foreground(monitor.ColorHealthy)
	warnStyle := lipgloss.NewStyle().Foreground(monitor.ColorWarning)
	failStyle := lipgloss.NewStyle().Foreground(monitor.ColorCritical)
	headerStyle := lipgloss.NewStyle().Bold(true)

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerStyle.Render("mxtop Diagnostic Report"))
	fmt.Fprintln(w)

	order, grouped := doctor.GroupByCategory(results)
	for _, category := range order {
		fmt.Fprintln(w, headerStyle.Render(category))
		for _, r := range grouped[category] {
			symbol, style := "●", passStyle
			switch r.Status {
			case doctor.StatusWarn:
				style = warnStyle
			case doctor.StatusFail:
				symbol, style = "✗", failStyle
			}
			fmt.Fprintf(w, "  %s %s\n", style.Render(symbol), r.Message)
			if r.Suggestion != "" && r.Status != doctor.StatusPass {
				for _, line := range strings.Split(r.Suggestion, "\n") {
					fmt.Fprintf(w, "    %s\n", monitor.MutedStyle.Render(line))
				}
			}
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, strings.Repeat("━", 60))
	symbol := passStyle.Render("✓")
	if doctor.HasFailures(results) {
		symbol = failStyle.Render("✗")
	} else if doctor.HasIssues(results) {
		symbol = warnStyle.Render("●")
	}
	fmt.Fprintf(w, "%s %s\n", symbol, doctor.Summary(results))
}
