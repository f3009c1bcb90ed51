package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
	"github.com/custodia-labs/ballotwatch/internal/core/ports/driving"
)

// Report formats accepted by --format.
const (
	formatText     = "text"
	formatMarkdown = "markdown"
	formatJSON     = "json"
	formatSummary  = "summary"
)

var (
	discoverSync   bool
	discoverForce  bool
	discoverFormat string
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Run candidate discovery",
	Long: `Runs every enabled source, deduplicates the sightings and prints a
coverage report.

With --sync the merged candidates are written to the candidate store.
Discovery switched off in settings is skipped unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runDiscover,
}

var discoverDistrictCmd = &cobra.Command{
	Use:   "district <district-id>",
	Short: "Probe a single district",
	Long: `Asks every enabled source for one district, e.g. SC-House-042,
and prints the merged candidates. Nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runDiscoverDistrict,
}

func init() {
	discoverCmd.Flags().BoolVar(&discoverSync, "sync", false, "write merged candidates to the store")
	discoverCmd.Flags().BoolVar(&discoverForce, "force", false, "run even if discovery is disabled")
	discoverCmd.Flags().StringVarP(&discoverFormat, "format", "f", formatText,
		"report format: text, markdown, json or summary")
	discoverCmd.AddCommand(discoverDistrictCmd)
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	if discoveryService == nil || reportRenderer == nil {
		return errors.New("discovery service not configured")
	}
	if !validFormat(discoverFormat) {
		return fmt.Errorf("%w: unknown format %q", domain.ErrInvalidInput, discoverFormat)
	}

	outcome, err := discoveryService.Run(cmd.Context(), driving.RunOptions{
		Sync:    discoverSync,
		Force:   discoverForce,
		Trigger: "manual",
	})
	switch {
	case errors.Is(err, domain.ErrDiscoveryDisabled):
		cmd.Println("Discovery is disabled. Enable it with 'ballotwatch settings enable' or pass --force.")
		return nil
	case errors.Is(err, domain.ErrRunInProgress):
		return errors.New("another discovery run is in progress")
	case err != nil:
		return fmt.Errorf("discovery failed: %w", err)
	}

	return printReport(cmd, reportRenderer, outcome.Report, discoverFormat)
}

func printReport(cmd *cobra.Command, r driving.CoverageReporter, report *domain.CoverageReport, format string) error {
	if u, ok := r.(interface{ SetUnicode(bool) }); ok {
		u.SetUnicode(isTerminal())
	}

	switch format {
	case formatJSON:
		data, err := r.RenderJSON(report)
		if err != nil {
			return err
		}
		cmd.Println(string(data))
	case formatMarkdown:
		cmd.Print(r.RenderMarkdown(report))
	case formatSummary:
		cmd.Println(r.Summary(report))
	default:
		cmd.Print(r.RenderText(report))
	}
	return nil
}

func validFormat(format string) bool {
	switch format {
	case formatText, formatMarkdown, formatJSON, formatSummary:
		return true
	default:
		return false
	}
}

func runDiscoverDistrict(cmd *cobra.Command, args []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}

	districtID := args[0]
	if d, err := domain.ParseDistrictID(districtID); err == nil {
		districtID = d.ID()
	}
	result, err := discoveryService.ProbeDistrict(cmd.Context(), districtID)
	if err != nil {
		return fmt.Errorf("probe %s: %w", districtID, err)
	}

	for _, sr := range result.SourceResults {
		if !sr.Success {
			cmd.Printf("Source %s failed: %s\n", sr.Source, sr.Error)
		}
	}

	if len(result.Candidates) == 0 {
		cmd.Printf("No candidates found for %s.\n", districtID)
		return nil
	}

	rows := make([][]string, 0, len(result.Candidates))
	for i := range result.Candidates {
		c := &result.Candidates[i]
		rows = append(rows, []string{
			c.Name,
			c.Party.Label(),
			c.PartyConfidence.String(),
			c.FilingStatus.Label(),
			yesNo(c.Incumbent),
			strings.Join(c.Sources, ", "),
		})
	}
	cmd.Printf("%s: %d candidates from %d sightings\n", districtID, result.TotalDeduplicated, result.TotalRaw)
	cmd.Println(renderTable(
		[]string{"Name", "Party", "Confidence", "Status", "Incumbent", "Sources"},
		rows, nil))
	for _, c := range result.Conflicts {
		cmd.Printf("Conflict: %s %s values %s, kept %s from %s\n",
			c.CandidateName, c.ConflictType, strings.Join(c.CandidateValues, "/"), c.ResolvedValue, c.ResolvedBySource)
	}
	return nil
}
