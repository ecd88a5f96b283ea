package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bhk-seo/seotools/access"
)

var accessStatus string

var accessCmd = &cobra.Command{
	Use:   "access",
	Short: "Review backlink creator access requests",
}

var accessListCmd = &cobra.Command{
	Use:   "list",
	Short: "List access requests, newest first",
	RunE:  runAccessList,
}

var accessApproveCmd = &cobra.Command{
	Use:   "approve <id>",
	Short: "Approve an access request",
	Args:  cobra.ExactArgs(1),
	RunE:  setAccessStatus(access.StatusApproved),
}

var accessRejectCmd = &cobra.Command{
	Use:   "reject <id>",
	Short: "Reject an access request",
	Args:  cobra.ExactArgs(1),
	RunE:  setAccessStatus(access.StatusRejected),
}

func init() {
	accessListCmd.Flags().StringVar(&accessStatus, "status", "", "only show requests with this status (pending, approved, rejected)")
	accessCmd.AddCommand(accessListCmd, accessApproveCmd, accessRejectCmd)
}

func openAccessStore() (*access.Store, error) {
	cfg, _, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return access.NewStore(cfg.AccessDBPath)
}

func runAccessList(cmd *cobra.Command, args []string) error {
	store, err := openAccessStore()
	if err != nil {
		return err
	}
	defer store.Close()

	reqs, err := store.List(cmd.Context(), accessStatus)
	if err != nil {
		return err
	}
	if len(reqs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No access requests.")
		return nil
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tWEBSITE\tSTATUS\tCREATED")
	for _, r := range reqs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.Email, r.Website, r.Status, r.CreatedAt)
	}
	return tw.Flush()
}

func setAccessStatus(status string) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		store, err := openAccessStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SetStatus(cmd.Context(), args[0], status); err != nil {
			if errors.Is(err, access.ErrNotFound) {
				return fmt.Errorf("no access request with id %s", args[0])
			}
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", args[0], status)
		return nil
	}
}
