package main

import (
	"github.com/spf13/cobra"

	"github.com/okian/securescore/internal/domain/delta"
)

func (c *cli) showCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the recorded history and the change between captures",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := c.service().Load(cmd.Context())
			if err != nil {
				return err
			}
			series, err := delta.Series(snap.Records)
			if err != nil {
				return err
			}
			return newPrinter(c.stdout).history(snap, series, limit)
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "show only the newest N captures")
	return cmd
}

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check that every element of the history is a valid record",
		Long: `Validate the history strictly. Unlike ingest, which skips stray values
nested in the array, any element that is not a valid record is an error.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			snap, err := c.service().Check(cmd.Context())
			if err != nil {
				return err
			}
			newPrinter(c.stdout).valid(snap)
			return nil
		},
	}
}
