package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultDebounce     = 100 * time.Millisecond
	DefaultFadeDuration = 300 * time.Millisecond
	DefaultRowsPerItem  = 6
	DefaultLogLevel     = "info"
	HTTPTimeoutSeconds  = 10
	FrameInterval       = 33 * time.Millisecond
	WatchInterval       = 500 * time.Millisecond
	SessionTTL          = 30 * 24 * time.Hour

	// DebounceOff is the debounce value the sequencer reads as disabled.
	DebounceOff time.Duration = -1
)

type Config struct {
	// ContentSource is a path or http(s) url of the content document.
	// empty selects the built-in demo document.
	ContentSource string
	Section       string
	Debounce      time.Duration
	FadeDuration  time.Duration
	RowsPerItem   int
	LogFile       string
	LogLevel      string
	NoCache       bool
	NoWatch       bool
	HideHeader    bool
}

func Load() *Config {
	return &Config{
		ContentSource: getEnvOrDefault("RESIDENCES_CONTENT", ""),
		Section:       getEnvOrDefault("RESIDENCES_SECTION", ""),
		Debounce:      DebounceWindow(getDurationMs("RESIDENCES_DEBOUNCE_MS", DefaultDebounce)),
		FadeDuration:  getDurationMs("RESIDENCES_FADE_MS", DefaultFadeDuration),
		RowsPerItem:   getPositiveInt("RESIDENCES_ROWS_PER_ITEM", DefaultRowsPerItem),
		LogFile:       getEnvOrDefault("RESIDENCES_LOG_FILE", ""),
		LogLevel:      getEnvOrDefault("RESIDENCES_LOG_LEVEL", DefaultLogLevel),
		NoCache:       getBool("RESIDENCES_NO_CACHE"),
		NoWatch:       getBool("RESIDENCES_NO_WATCH"),
		HideHeader:    getBool("RESIDENCES_HIDE_HEADER"),
	}
}

// DebounceWindow maps a user supplied debounce onto the sequencer's
// convention, where zero selects the default. an explicit zero means off.
func DebounceWindow(d time.Duration) time.Duration {
	if d <= 0 {
		return DebounceOff
	}
	return d
}

func getEnvOrDefault(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getBool(key string) bool {
	value := strings.ToLower(getEnvOrDefault(key, "false"))
	return value == "1" || value == "true" || value == "yes"
}

// negative values are kept; a negative debounce disables debouncing
func getDurationMs(key string, fallback time.Duration) time.Duration {
	ms, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil {
		return fallback
	}
	return time.Duration(ms) * time.Millisecond
}

func getPositiveInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnvOrDefault(key, ""))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
