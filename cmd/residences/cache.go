package main

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"karolbroda.com/residences/internal/cache"
)

var (
	// flags for cache list
	cacheSortBy string
	// flags for cache clear
	cacheConfirm bool
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "manage saved reading positions",
	Long:  `manage the session cache that remembers where each content document was left, including statistics, listing and clearing entries.`,
}

var cacheStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "show cache statistics",
	Long:  `display cache statistics including number of entries, total size, and cache location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions := cache.NewDefault()

		count, sizeBytes, err := sessions.Stats()
		if err != nil {
			return fmt.Errorf("failed to get cache stats: %w", err)
		}

		location := sessions.Path()
		if location == "" {
			location = "(memory only)"
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "cache statistics:")
		fmt.Fprintf(out, "  location: %s\n", location)
		fmt.Fprintf(out, "  entries:  %d\n", count)
		fmt.Fprintf(out, "  size:     %s\n", formatBytes(sizeBytes))

		return nil
	},
}

var cacheListCmd = &cobra.Command{
	Use:   "list",
	Short: "list saved sessions",
	Long:  `list every content source with a saved position, the section it was left on and when it was saved.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		entries, err := cache.NewDefault().ListAll()
		if err != nil {
			return fmt.Errorf("failed to list cache: %w", err)
		}

		out := cmd.OutOrStdout()
		if len(entries) == 0 {
			fmt.Fprintln(out, "cache is empty")
			return nil
		}

		sortCacheEntries(entries, cacheSortBy)

		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "SOURCE\tSECTION\tOFFSET\tSAVED")
		for _, entry := range entries {
			section := entry.Section
			if section == "" {
				section = "-"
			}
			saved := time.Unix(entry.CreatedAt, 0).Format("2006-01-02 15:04")
			fmt.Fprintf(w, "%s\t%s\t%.1f\t%s\n", entry.Source, section, entry.Offset, saved)
		}
		w.Flush()

		fmt.Fprintf(out, "\ntotal: %d sessions\n", len(entries))
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "clear all saved sessions",
	Long:  `remove every saved reading position. use --confirm to skip the confirmation prompt.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cacheConfirm {
			fmt.Fprint(cmd.OutOrStdout(), "are you sure you want to clear all sessions? (y/n): ")
			var response string
			fmt.Fscanln(cmd.InOrStdin(), &response)
			response = strings.ToLower(response)
			if response != "y" && response != "yes" {
				fmt.Fprintln(cmd.OutOrStdout(), "cancelled")
				return nil
			}
		}

		if err := cache.NewDefault().Clear(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "cache cleared successfully")
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "remove expired sessions",
	Long:  `remove all expired cache entries to free up disk space.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pruned, err := cache.NewDefault().Prune()
		if err != nil {
			return fmt.Errorf("failed to prune cache: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "removed %d expired entries\n", pruned)
		return nil
	},
}

var cacheDeleteCmd = &cobra.Command{
	Use:   "delete <source>",
	Short: "forget the saved position of one source",
	Long:  `remove the saved session of a content source, as shown by 'residences cache list'.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		source := args[0]
		sessions := cache.NewDefault()

		// verify it exists first
		if _, err := sessions.Get(source); err != nil {
			if suggestions := findSimilarSources(sessions, source); len(suggestions) > 0 {
				fmt.Fprintf(os.Stderr, "source not found in cache\n\n")
				fmt.Fprintf(os.Stderr, "did you mean one of these?\n")
				for _, s := range suggestions {
					fmt.Fprintf(os.Stderr, "  %s\n", s.Source)
				}
				return errors.New("no such session")
			}
			return fmt.Errorf("source not found in cache: %w", err)
		}

		if err := sessions.Delete(source); err != nil {
			return fmt.Errorf("failed to delete from cache: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "deleted session for '%s'\n", source)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)

	cacheCmd.AddCommand(cacheStatsCmd)
	cacheCmd.AddCommand(cacheListCmd)
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cachePruneCmd)
	cacheCmd.AddCommand(cacheDeleteCmd)

	cacheListCmd.Flags().StringVar(&cacheSortBy, "sort", "date", "sort by: date, source")
	cacheClearCmd.Flags().BoolVar(&cacheConfirm, "confirm", false, "skip confirmation prompt")
}

// helper functions

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}

func sortCacheEntries(entries []*cache.SessionEntry, sortBy string) {
	switch sortBy {
	case "source":
		sort.Slice(entries, func(i, j int) bool {
			return strings.ToLower(entries[i].Source) < strings.ToLower(entries[j].Source)
		})
	case "date":
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].CreatedAt > entries[j].CreatedAt
		})
	}
}

// findSimilarSources returns up to five saved sources that contain source or
// are contained in it.
func findSimilarSources(sessions *cache.SessionCache, source string) []*cache.SessionEntry {
	all, err := sessions.ListAll()
	if err != nil || len(all) == 0 {
		return nil
	}

	needle := strings.ToLower(source)
	var matches []*cache.SessionEntry
	for _, entry := range all {
		candidate := strings.ToLower(entry.Source)
		if strings.Contains(candidate, needle) || strings.Contains(needle, candidate) {
			matches = append(matches, entry)
		}
	}

	if len(matches) > 5 {
		matches = matches[:5]
	}
	return matches
}
