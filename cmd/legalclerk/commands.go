package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Anthonyjrchen/LegalClerk/internal/clerk"
	"github.com/Anthonyjrchen/LegalClerk/internal/config"
	"github.com/Anthonyjrchen/LegalClerk/internal/draft"
	"github.com/Anthonyjrchen/LegalClerk/internal/ics"
	appLog "github.com/Anthonyjrchen/LegalClerk/internal/log"
	"github.com/Anthonyjrchen/LegalClerk/internal/render"
	"github.com/Anthonyjrchen/LegalClerk/internal/web"
)

// rootOptions holds global CLI flags.
type rootOptions struct {
	configPath string
	logLevel   string
	listen     string
}

// app is filled in by the root PersistentPreRunE before any subcommand runs.
type app struct {
	cfg *config.Config
	svc *clerk.Service
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	a := &app{}

	cmd := &cobra.Command{
		Use:     "legalclerk",
		Short:   "Trial deadline calculator and calendar planner",
		Long:    "legalclerk resolves procedural deadlines against a trial date, builds the\ncalendar events a trial needs and exports them as iCalendar or over HTTP.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "config file path (created with defaults if missing; built-in defaults when empty)")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(
		newTemplatesCmd(a),
		newResolveCmd(a),
		newSnapshotCmd(a),
		newPlanCmd(a),
		newExportICSCmd(a),
		newInspectICSCmd(),
		newScheduleCmd(a),
		newServeCmd(a, opts),
	)
	return cmd
}

func (a *app) init(opts *rootOptions) error {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return fmt.Errorf("load config %s: %w", opts.configPath, err)
		}
		cfg = loaded
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := appLog.Configure(cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	svc, err := clerk.New(cfg)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.svc = svc
	return nil
}

func newTemplatesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "Print the effective template catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), a.svc.Templates.Templates())
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <draft.yaml|->",
		Short: "Print calculated deadlines for a draft document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			d, err := a.svc.Draft(doc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), d.CalculatedDeadlines())
		},
	}
}

func newSnapshotCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <draft.yaml|->",
		Short: "Print the submission snapshot for a draft document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			snap, err := a.svc.Snapshot(doc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), snap)
		},
	}
}

func newPlanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <draft.yaml|->",
		Short: "Print the calendar events a draft document produces",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			p, err := a.svc.BuildPlan(doc)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), p)
		},
	}
}

func newExportICSCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export-ics <draft.yaml|->",
		Short: "Write the planned events as iCalendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			body, err := a.svc.ExportICS(doc, time.Now())
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			appLog.Info("ics written", "path", output, "bytes", len(body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	return cmd
}

func newInspectICSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect-ics <file.ics>",
		Short: "Decode an exported iCalendar file and print its events",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			entries, err := ics.Decode(body)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), entries)
		},
	}
}

func newScheduleCmd(a *app) *cobra.Command {
	var (
		output    string
		pdf       bool
		landscape bool
	)
	cmd := &cobra.Command{
		Use:   "schedule <draft.yaml|->",
		Short: "Render a printable schedule as HTML, or as PDF through headless Chromium",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return err
			}
			var body []byte
			if pdf {
				body, err = a.svc.SchedulePDF(cmd.Context(), doc, render.PDFOptions{Landscape: landscape})
			} else {
				body, err = a.svc.ScheduleHTML(doc)
			}
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = cmd.OutOrStdout().Write(body)
				return err
			}
			if err := os.WriteFile(output, body, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			appLog.Info("schedule written", "path", output, "pdf", pdf, "bytes", len(body))
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout when empty)")
	cmd.Flags().BoolVar(&pdf, "pdf", false, "print to PDF via headless Chromium")
	cmd.Flags().BoolVar(&landscape, "landscape", false, "landscape orientation (PDF only)")
	return cmd
}

func newServeCmd(a *app, opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.listen != "" {
				a.cfg.Listen = opts.listen
			}
			appLog.Info("effective config",
				"listen", a.cfg.Listen,
				"timezone", a.cfg.Timezone,
				"catalog_path", a.cfg.CatalogPath,
				"calendars_path", a.cfg.CalendarsPath,
				"reminder_schedule", a.cfg.ReminderSchedule,
				"version", version,
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return web.Serve(ctx, a.cfg, a.svc)
		},
	}
	cmd.Flags().StringVar(&opts.listen, "listen", "", "HTTP listen address (overrides config if set)")
	return cmd
}

// readDocument loads a draft document from path, or stdin for "-".
func readDocument(cmd *cobra.Command, path string) (draft.Document, error) {
	if path == "-" {
		return draft.DecodeDocument(cmd.InOrStdin())
	}
	return draft.LoadDocument(path)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
