package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/okian/securescore/internal/adapters/source"
	"github.com/okian/securescore/pkg/logger"
	"github.com/okian/securescore/pkg/metrics"
)

func (c *cli) ingestCmd() *cobra.Command {
	var reading source.Reading

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Capture the current secure score and append it to the history",
		Long: `Fetch the current secure score from the configured source and append it
to the history. Pass --current and --max to record a known reading instead
of fetching one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var src source.Source
			if cmd.Flags().Changed("current") {
				if !cmd.Flags().Changed("max") {
					return errors.New("--max is required with --current")
				}
				if reading.Name == "" {
					reading.Name = c.cfg.ScoreName
				}
				if reading.SubscriptionID == "" {
					reading.SubscriptionID = c.cfg.SubscriptionID
				}
				rec, err := reading.Record(c.clock()())
				if err != nil {
					return err
				}
				src = source.NewStatic(rec)
			} else {
				var err error
				if src, err = source.FromConfig(c.cfg); err != nil {
					return err
				}
			}

			out, err := c.service().Ingest(ctx, src)
			if err != nil {
				return err
			}

			if path := c.cfg.MetricsTextfile; path != "" {
				if err := metrics.WriteTextfile(path); err != nil {
					c.log.Warn(ctx, "write metrics textfile", logger.String("path", path), logger.Error(err))
				}
			}
			newPrinter(c.stdout).ingested(out)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&reading.Current, "current", 0, "current score of a known reading")
	flags.Float64Var(&reading.Max, "max", 0, "maximum score of a known reading")
	flags.StringVar(&reading.Name, "name", "", "score name of a known reading (default score_name)")
	flags.StringVar(&reading.SubscriptionID, "subscription", "", "subscription of a known reading (default subscription_id)")
	return cmd
}

func (c *cli) clock() source.Clock {
	if c.cfg.UTC {
		return source.UTCClock
	}
	return source.LocalClock
}
