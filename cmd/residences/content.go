package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"karolbroda.com/residences/internal/config"
	"karolbroda.com/residences/internal/content"
	"karolbroda.com/residences/internal/httpx"
)

var contentCmd = &cobra.Command{
	Use:   "content",
	Short: "inspect content documents",
	Long:  `validate, list and show the sections of a content document. the document comes from --content or the built-in one.`,
}

var contentValidateCmd = &cobra.Command{
	Use:   "validate [source]",
	Short: "check a content document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openContent(cmd, args)
		if err != nil {
			return err
		}

		items := 0
		for _, s := range doc.Sections {
			items += len(s.Items)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "ok: %s (%d sections, %d items)\n", doc.Source, len(doc.Sections), items)
		return nil
	},
}

var contentListCmd = &cobra.Command{
	Use:   "list [source]",
	Short: "list the sections of a content document",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openContent(cmd, args)
		if err != nil {
			return err
		}

		rows := make([][]string, 0, len(doc.Sections))
		for i := range doc.Sections {
			s := &doc.Sections[i]
			rows = append(rows, []string{
				"#" + s.ID,
				s.Title,
				string(s.VariantOrDefault()),
				fmt.Sprint(len(s.Items)),
				fmt.Sprint(len(s.ImageRefs())),
			})
		}

		fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"anchor", "title", "variant", "items", "images"}, rows))
		return nil
	},
}

var contentShowCmd = &cobra.Command{
	Use:   "show <section> [source]",
	Short: "show the items of one section",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openContent(cmd, args[1:])
		if err != nil {
			return err
		}

		anchor, err := content.ParseAnchor(args[0])
		if err != nil {
			return err
		}
		s, _, err := doc.Section(anchor.Section)
		if err != nil {
			return fmt.Errorf("%w (known: %s)", err, strings.Join(doc.SectionIDs(), ", "))
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s (%s, %s)\n\n", s.Title, s.ID, s.VariantOrDefault())

		rows := make([][]string, 0, len(s.Items))
		for _, item := range s.Items {
			rows = append(rows, []string{
				fmt.Sprintf("#%s/%d", s.ID, item.Index),
				item.Title,
				fmt.Sprint(len(item.Media)),
			})
		}
		fmt.Fprintln(out, renderTable([]string{"anchor", "title", "media"}, rows))
		return nil
	},
}

var contentExportCmd = &cobra.Command{
	Use:   "export [source]",
	Short: "print a content document as normalized yaml",
	Long: `prints the document after loading, with item indices filled in. use it to start
a custom document from the built-in one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := openContent(cmd, args)
		if err != nil {
			return err
		}

		data, err := content.Marshal(doc)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(contentCmd)

	contentCmd.AddCommand(contentValidateCmd)
	contentCmd.AddCommand(contentListCmd)
	contentCmd.AddCommand(contentShowCmd)
	contentCmd.AddCommand(contentExportCmd)
}

// openContent loads the document named by args[0], falling back to the
// configured source.
func openContent(cmd *cobra.Command, args []string) (*content.Document, error) {
	cfg := loadConfig(cmd)
	source := cfg.ContentSource
	if len(args) > 0 {
		source = args[0]
	}

	ctx, cancel := context.WithTimeout(context.Background(), config.HTTPTimeoutSeconds*time.Second)
	defer cancel()

	return content.Open(ctx, afero.NewOsFs(), httpx.NewClient(nil), source)
}

func renderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row int, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Render()
}
