package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"karolbroda.com/residences/internal/cache"
	"karolbroda.com/residences/internal/config"
	"karolbroda.com/residences/internal/content"
	"karolbroda.com/residences/internal/httpx"
	"karolbroda.com/residences/internal/logging"
	"karolbroda.com/residences/internal/media"
	"karolbroda.com/residences/internal/terminal"
	"karolbroda.com/residences/internal/ui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "start the interactive showcase",
	Long:  `starts the terminal showcase with scroll-sequenced sections, a section menu and an image gallery.`,
	RunE:  runShowcase,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runShowcase(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	defer terminal.Reset()

	cfg := loadConfig(cmd)

	logger, closer, err := logging.New(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer closer.Close()

	fs := afero.NewOsFs()
	client := httpx.NewClient(logger)

	doc, err := content.Open(ctx, fs, client, cfg.ContentSource)
	if err != nil {
		return fmt.Errorf("failed to load content: %w", err)
	}

	library, err := media.NewLibrary(media.LibraryOptions{
		Fs:     fs,
		Client: client,
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create media library: %w", err)
	}

	modelCfg := ui.ModelConfig{
		Document:     doc,
		Library:      library,
		Debounce:     cfg.Debounce,
		FadeDuration: cfg.FadeDuration,
		RowsPerItem:  cfg.RowsPerItem,
		HideHeader:   cfg.HideHeader,
		TermCaps:     terminal.DetectCapabilities(),
		Logger:       logger,
	}

	if !cfg.NoCache {
		modelCfg.Cache = cache.NewDefault()
	}

	switch {
	case cfg.Section != "":
		anchor, err := content.ParseAnchor(cfg.Section)
		if err != nil {
			return fmt.Errorf("invalid --section: %w", err)
		}
		modelCfg.Anchor = &anchor
	case modelCfg.Cache != nil:
		if entry, err := modelCfg.Cache.Get(doc.Source); err == nil {
			modelCfg.InitialOffset = entry.Offset
			logger.Debug("restored session", "section", entry.Section, "offset", entry.Offset)
		}
	}

	model := ui.NewModel(modelCfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if !cfg.NoWatch && doc.Source != content.DefaultSource && !content.IsRemote(doc.Source) {
		go watchContent(ctx, p, fs, client, doc.Source, logger)
	}

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running bubble tea: %w", err)
	}

	// quitting through a signal skips the model's own shutdown
	if m, ok := final.(ui.Model); ok && !m.IsQuitting() {
		m.Stop()
	}

	return nil
}

func watchContent(ctx context.Context, p *tea.Program, fs afero.Fs, client *retryablehttp.Client, source string, logger *slog.Logger) {
	err := content.Watch(ctx, source, config.WatchInterval, func() {
		doc, err := content.Open(ctx, fs, client, source)
		p.Send(ui.ContentReloadedMsg{Doc: doc, Err: err})
	})
	if err != nil && ctx.Err() == nil {
		logger.Warn("content watch stopped", "source", source, "error", err)
	}
}
