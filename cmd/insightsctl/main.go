// Package main provides insightsctl, an offline dashboard report tool that
// reads an .xlsx dataset export instead of a live record backend.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"agent-insights-go/internal/config"
	"agent-insights-go/internal/export"
	"agent-insights-go/internal/impact"
	"agent-insights-go/internal/logger"
	"agent-insights-go/internal/pipeline"
	"agent-insights-go/internal/series"
	"agent-insights-go/internal/source"
	"agent-insights-go/internal/types"
	"agent-insights-go/internal/window"
)

const (
	Version = "0.1.0"
	appName = "insightsctl"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Agent insights dashboards from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(reportCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
		},
	})
	return cmd
}

type reportOptions struct {
	dataset       string
	client        string
	channel       string
	window        string
	metric        string
	out           string
	now           string
	timezone      string
	constantsFile string
	logLevel      string
	baseline      impact.Baseline
}

func reportCmd() *cobra.Command {
	var (
		o            reportOptions
		missedBefore int
		hoursSaved   float64
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Compute one dashboard from a dataset workbook",
		Long: `Compute the KPI tiles, series, distribution, business impact and
insights for one channel and window from a dataset workbook with "Calls"
and/or "Emails" sheets.

The dashboard is printed as JSON, or written as an .xlsx workbook with --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("missed-before") {
				o.baseline.MissedBefore = &missedBefore
			}
			if cmd.Flags().Changed("hours-saved") {
				o.baseline.HoursSaved = &hoursSaved
			}
			return runReport(cmd.Context(), o, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.StringVar(&o.dataset, "dataset", "", "Dataset workbook (.xlsx)")
	f.StringVar(&o.client, "client", "", "Client id, when the workbook has a client column")
	f.StringVar(&o.channel, "channel", string(types.ChannelVoice), "Channel (voice, email)")
	f.StringVar(&o.window, "window", string(window.Last7Days), "Window (today, 7days, 30days, day, week, month, year)")
	f.StringVar(&o.metric, "metric", string(series.MetricCount), "Series metric (count, value)")
	f.StringVarP(&o.out, "out", "o", "", "Write an .xlsx export to this path instead of printing JSON")
	f.StringVar(&o.now, "now", "", "Evaluate the window at this RFC3339 instant instead of the current time")
	f.StringVar(&o.timezone, "tz", "Local", "Viewer time zone for calendar windows")
	f.StringVar(&o.constantsFile, "constants", "", "Business constants YAML file")
	f.StringVar(&o.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	f.IntVar(&missedBefore, "missed-before", 0, "Missed events before the agent was deployed")
	f.Float64Var(&hoursSaved, "hours-saved", 0, "Override the estimated hours saved")
	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func runReport(ctx context.Context, o reportOptions, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ch, ok := types.ParseChannel(o.channel)
	if !ok {
		return fmt.Errorf("unknown channel %q", o.channel)
	}
	metric, ok := series.ParseMetric(o.metric)
	if !ok {
		return fmt.Errorf("unknown metric %q", o.metric)
	}
	loc, err := time.LoadLocation(o.timezone)
	if err != nil {
		return fmt.Errorf("invalid time zone: %w", err)
	}
	now := time.Now()
	if o.now != "" {
		if now, err = time.Parse(time.RFC3339, o.now); err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
	}
	constants, err := config.LoadConstants(o.constantsFile)
	if err != nil {
		return err
	}

	wb, err := source.OpenWorkbook(o.dataset, loc)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	svc := pipeline.NewService(wb, constants,
		pipeline.WithLogger(logger.Configure("cli", o.logLevel, stderr)),
		pipeline.WithLocation(loc),
		pipeline.WithClock(func() time.Time { return now }),
	)
	d, err := svc.Dashboard(ctx, pipeline.Request{
		ClientID: o.client,
		Channel:  ch,
		Window:   window.Window(o.window),
		Metric:   metric,
		Baseline: o.baseline,
	})
	if err != nil {
		return err
	}

	if o.out != "" {
		if err := export.SaveAs(o.out, d); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(stdout, "wrote %s\n", o.out)
		return nil
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
