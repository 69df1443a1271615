// Command provstudio is a terminal editor and visualizer for W3C PROV
// provenance documents. Documents are kept in a local library (a JSON
// file or Redis) and translated between serialization formats through the
// ProvToolbox web service.
package main

import (
	"context"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/prov-studio/prov-studio/internal/app"
	"github.com/prov-studio/prov-studio/internal/config"
	"github.com/prov-studio/prov-studio/internal/session"
	"github.com/prov-studio/prov-studio/internal/store"
	"github.com/prov-studio/prov-studio/internal/translate"
)

var (
	flagServiceURL string
	flagRedisURL   string
	flagLibrary    string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provstudio [path]",
		Short: "Edit and visualize PROV provenance documents in the terminal",
		Long: `ProvStudio keeps a library of provenance documents and shows each one
as editable source text next to a structural summary of its graph.
Documents translate between PROV-JSON, PROV-N, Turtle, PROV-XML, and
TriG through a remote translation service.

An optional positional path (e.g. /My-Document) selects the document to
open at startup.`,
		Args:         cobra.MaximumNArgs(1),
		RunE:         run,
		SilenceUsage: true,
	}
	cmd.Flags().StringVar(&flagServiceURL, "service-url", "", "translation service base URL")
	cmd.Flags().StringVar(&flagRedisURL, "redis-url", "", "keep the document library in Redis at this URL")
	cmd.Flags().StringVar(&flagLibrary, "library", "", "path to the document library file")
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	if flagServiceURL != "" {
		cfg.ServiceURL = flagServiceURL
	}
	if flagRedisURL != "" {
		cfg.RedisURL = flagRedisURL
	}
	if flagLibrary != "" {
		cfg.LibraryPath = flagLibrary
	}

	var (
		st        store.Store
		watchPath string
	)
	if cfg.RedisURL != "" {
		rs, err := store.NewRedisStore(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to Redis: %w", err)
		}
		defer rs.Close()
		st = rs
	} else {
		fs := store.NewFileStore(cfg.LibraryPath)
		watchPath = fs.Path()
		st = fs
	}

	gateway := translate.New(cfg.ServiceURL, translate.WithRetryLimit(cfg.RetryLimit))
	sess := session.New(ctx, st)

	initial := ""
	if len(args) == 1 {
		initial = args[0]
	}
	m := app.New(sess, gateway, watchPath, initial)
	m.SetDebounce(cfg.Debounce())

	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
