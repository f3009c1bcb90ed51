package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

var candidatesDistrict string

var candidatesCmd = &cobra.Command{
	Use:   "candidates",
	Short: "Manage stored candidates",
}

var candidatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored candidates",
	Args:  cobra.NoArgs,
	RunE:  runCandidatesList,
}

var candidatesLockCmd = &cobra.Command{
	Use:   "lock <name> <district-id>",
	Short: "Lock a candidate against automatic changes",
	Long: `Locks a stored candidate. A locked candidate keeps its party unless a
strictly more authoritative source disagrees.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCandidateLock(cmd, args[0], args[1], true)
	},
}

var candidatesUnlockCmd = &cobra.Command{
	Use:   "unlock <name> <district-id>",
	Short: "Unlock a candidate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return setCandidateLock(cmd, args[0], args[1], false)
	},
}

func init() {
	candidatesListCmd.Flags().StringVarP(&candidatesDistrict, "district", "d", "", "only list this district")
	candidatesCmd.AddCommand(candidatesListCmd)
	candidatesCmd.AddCommand(candidatesLockCmd)
	candidatesCmd.AddCommand(candidatesUnlockCmd)
	rootCmd.AddCommand(candidatesCmd)
}

func runCandidatesList(cmd *cobra.Command, _ []string) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}

	districtID := candidatesDistrict
	if districtID != "" {
		d, err := domain.ParseDistrictID(districtID)
		if err != nil {
			return err
		}
		districtID = d.ID()
	}

	candidates, err := discoveryService.Candidates(cmd.Context(), districtID)
	if err != nil {
		return fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(candidates) == 0 {
		cmd.Println("No candidates stored.")
		return nil
	}

	rows := make([][]string, 0, len(candidates))
	for _, c := range candidates {
		rows = append(rows, []string{
			c.DistrictID,
			c.Name,
			c.Party.Label(),
			c.FilingStatus.Label(),
			yesNo(c.Incumbent),
			yesNo(c.Locked),
			strings.Join(c.Sources, ", "),
			c.LastSeen.Format("2006-01-02"),
		})
	}
	cmd.Println(renderTable(
		[]string{"District", "Name", "Party", "Status", "Incumbent", "Locked", "Sources", "Last Seen"},
		rows, nil))
	cmd.Printf("%d candidates\n", len(candidates))
	return nil
}

func setCandidateLock(cmd *cobra.Command, name, districtID string, locked bool) error {
	if discoveryService == nil {
		return errors.New("discovery service not configured")
	}
	d, err := domain.ParseDistrictID(districtID)
	if err != nil {
		return err
	}
	districtID = d.ID()

	err = discoveryService.SetLocked(cmd.Context(), name, districtID, locked)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("no stored candidate %q in %s", name, districtID)
	}
	if err != nil {
		return fmt.Errorf("failed to update candidate: %w", err)
	}

	action := "Locked"
	if !locked {
		action = "Unlocked"
	}
	cmd.Printf("%s %s (%s).\n", action, name, districtID)
	return nil
}
