package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"calendar-engine/pkg/ics"
	"calendar-engine/pkg/resources"
)

type ExportOptions struct {
	*RootOptions
	Output string
}

func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Write the stored events as an iCalendar document",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file, defaults to stdout")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
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

	document := ics.Export(events, time.Now())

	if opts.Output != "" {
		return os.WriteFile(opts.Output, []byte(document), 0o644)
	}

	fmt.Fprint(cmd.OutOrStdout(), document)

	return nil
}
