package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"calendar-engine/core"
	"calendar-engine/pkg/resources"
)

func NewConflictsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "conflicts",
		Short:        "Report overlapping event pairs in the stored collection",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConflicts(cmd, rootOpts)
		},
	}
}

func runConflicts(cmd *cobra.Command, opts *RootOptions) error {
	ctx := context.Background()

	cfg, err := resources.LoadConfig(opts.ConfigFile)
	if err != nil {
		return err
	}

	port, closers, err := openPort(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeAll(ctx, closers)

	events, err := port.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load events: %w", err)
	}

	pairs := 0

	for i := range events {
		for j := i + 1; j < len(events); j++ {
			if core.Overlaps(events[i].Start, events[i].End, events[j].Start, events[j].End) {
				pairs++
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) overlaps %s (%s)\n",
					events[i].Title, events[i].ID, events[j].Title, events[j].ID)
			}
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d overlapping pair(s) in %d event(s)\n", pairs, len(events))

	return nil
}
