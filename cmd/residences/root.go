package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/residences/internal/config"
)

var (
	// global flags
	contentSource string
	section       string
	debounce      time.Duration
	fadeDuration  time.Duration
	rowsPerItem   int
	logFile       string
	logLevel      string
	noCache       bool
	noWatch       bool
	hideHeader    bool
)

var rootCmd = &cobra.Command{
	Use:   "residences",
	Short: "scroll-sequenced showcase of City's Residences",
	Long: `residences presents the development's amenities, homes, mall brands and location
as pinned, scroll-driven sequences in the terminal.

when run without a subcommand, it starts the interactive showcase.`,
	Version: "1.0.0",
	RunE: func(cmd *cobra.Command, args []string) error {
		// default behavior: run the showcase
		return runShowcase(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&contentSource, "content", "c", "", "content document: a yaml path or http(s) url (default: built-in)")
	flags.StringVarP(&section, "section", "s", "", "start at an anchor, e.g. #residences or #amenities/2")
	flags.DurationVar(&debounce, "debounce", config.DefaultDebounce, "quiet period before a scroll-driven transition (0 disables)")
	flags.DurationVar(&fadeDuration, "fade", config.DefaultFadeDuration, "cross-fade duration")
	flags.IntVar(&rowsPerItem, "rows-per-item", config.DefaultRowsPerItem, "scroll rows each item stays pinned for")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file (default: discarded)")
	flags.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.BoolVar(&noCache, "no-cache", false, "do not restore or save the reading position")
	flags.BoolVar(&noWatch, "no-watch", false, "do not reload the content file when it changes")
	flags.BoolVarP(&hideHeader, "hide-header", "H", false, "hide the banner")
}

// loadConfig reads the environment, then lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg := config.Load()
	flags := cmd.Flags()

	if flags.Changed("content") {
		cfg.ContentSource = contentSource
	}
	if flags.Changed("section") {
		cfg.Section = section
	}
	if flags.Changed("debounce") {
		cfg.Debounce = config.DebounceWindow(debounce)
	}
	if flags.Changed("fade") {
		cfg.FadeDuration = fadeDuration
	}
	if flags.Changed("rows-per-item") && rowsPerItem > 0 {
		cfg.RowsPerItem = rowsPerItem
	}
	if flags.Changed("log-file") {
		cfg.LogFile = logFile
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if flags.Changed("no-cache") {
		cfg.NoCache = noCache
	}
	if flags.Changed("no-watch") {
		cfg.NoWatch = noWatch
	}
	if flags.Changed("hide-header") {
		cfg.HideHeader = hideHeader
	}
	return cfg
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
