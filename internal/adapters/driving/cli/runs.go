package cli

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show discovery run history",
	Args:  cobra.NoArgs,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 10, "maximum number of runs (0 for all)")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}

	runs, err := discoveryService.Runs(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}
	if len(runs) == 0 {
		cmd.Println("No discovery runs recorded.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for i := range runs {
		r := &runs[i]
		synced := "-"
		if r.Sync != nil {
			synced = fmt.Sprintf("+%d ~%d", r.Sync.Created, r.Sync.Updated)
		}
		rows = append(rows, []string{
			formatWhen(r.StartedAt),
			string(r.Status),
			orDash(r.Trigger),
			r.Duration().Round(time.Second).String(),
			strconv.Itoa(r.TotalDeduplicated),
			fmt.Sprintf("%.1f%%", r.Coverage),
			strconv.Itoa(r.ConflictCount),
			synced,
			failures(r.SourceErrors, r.Error),
		})
	}
	cmd.Println(renderTable(
		[]string{"Started", "Status", "Trigger", "Took", "Candidates", "Coverage", "Conflicts", "Sync", "Failures"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight}))
	return nil
}

func failures(sourceErrors map[string]string, fatal string) string {
	if fatal != "" {
		return fatal
	}
	names := make([]string, 0, len(sourceErrors))
	for name := range sourceErrors {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
