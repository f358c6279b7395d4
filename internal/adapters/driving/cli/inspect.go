package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/finqa/internal/core/domain"
)

var (
	inspectJSON bool
	inspectText bool
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [file]",
	Short: "Show what finqa extracts from a document",
	Long: `Parse a document without asking anything and print its summary,
spreadsheet statistics and suggested questions.

Use --text to print the extracted text the model would see, or --json
for machine-readable output.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "output as JSON")
	inspectCmd.Flags().BoolVar(&inspectText, "text", false, "print the extracted text")
	inspectCmd.MarkFlagsMutuallyExclusive("json", "text")
	rootCmd.AddCommand(inspectCmd)
}

// inspectReport is the --json output of inspect.
type inspectReport struct {
	ID              string                  `json:"id"`
	Metadata        domain.DocumentMetadata `json:"metadata"`
	Summary         string                  `json:"summary"`
	SampleQuestions []string                `json:"sample_questions"`
	TextLength      int                     `json:"text_length"`
}

func runInspect(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.LoadFile(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to load document: %w", err)
	}

	if inspectText {
		cmd.Println(doc.Text)
		return nil
	}

	summary, err := documentService.Summary()
	if err != nil {
		return fmt.Errorf("failed to summarise document: %w", err)
	}
	questions := documentService.SampleQuestions()

	if inspectJSON {
		report := inspectReport{
			ID:              doc.ID,
			Metadata:        doc.Metadata,
			Summary:         summary,
			SampleQuestions: questions,
			TextLength:      len(doc.Text),
		}
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Print(summary)
	if len(doc.Metadata.SheetMetrics) > 0 {
		cmd.Println()
		cmd.Println("Sheet statistics:")
		cmd.Println(renderSheetMetrics(doc.Metadata.SheetMetrics))
	}

	if len(questions) > 0 {
		cmd.Println()
		cmd.Println("Try asking:")
		for i, q := range questions {
			cmd.Printf("  %d. %s\n", i+1, q)
		}
	}
	return nil
}

// renderSheetMetrics renders one row per financial column, sorted by
// sheet then column name.
func renderSheetMetrics(metrics domain.SheetMetrics) string {
	sheets := make([]string, 0, len(metrics))
	for name := range metrics {
		sheets = append(sheets, name)
	}
	sort.Strings(sheets)

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Sheet", "Column", "Sum", "Mean", "Max", "Min")

	for _, sheet := range sheets {
		sm := metrics[sheet]
		if len(sm.Columns) == 0 {
			t.Row(sheet, "(no financial columns)", "", "", "", "")
			continue
		}
		columns := make([]string, 0, len(sm.Columns))
		for name := range sm.Columns {
			columns = append(columns, name)
		}
		sort.Strings(columns)
		for _, col := range columns {
			s := sm.Columns[col]
			t.Row(sheet, col,
				formatStat(s.Sum), formatStat(s.Mean), formatStat(s.Max), formatStat(s.Min))
		}
	}
	return t.String()
}

func formatStat(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
