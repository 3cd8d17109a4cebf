// Package report renders study session results as Markdown and optionally
// converts them to PDF.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mandolyte/mdtopdf"

	"github.com/at-ishikawa/gaku/internal/card"
	"github.com/at-ishikawa/gaku/internal/session"
)

// Markdown renders the session results as a Markdown document. The cards map
// resolves the writings of mistaken cards; unknown IDs fall back to the ID.
func Markdown(results session.Results, cards map[string]card.Card, finishedAt time.Time) string {
	var b strings.Builder

	b.WriteString("# Study session results\n\n")
	fmt.Fprintf(&b, "Finished at %s.\n\n", finishedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "- Cards: %d / %d without a mistake\n", results.NumCardsCorrect, results.NumCards)
	fmt.Fprintf(&b, "- Questions: %d / %d without a mistake\n", results.NumQuestionsCorrect, results.NumQuestions)
	fmt.Fprintf(&b, "- Responses: %d correct, %d incorrect\n", results.CorrectResponses, results.IncorrectResponses)

	if len(results.MistakesByCard) == 0 {
		b.WriteString("\nNo mistakes. Well done.\n")
		return b.String()
	}

	b.WriteString("\n## Mistakes\n\n")
	b.WriteString("| Card | Mistakes |\n")
	b.WriteString("| --- | --- |\n")
	for _, row := range sortMistakes(results.MistakesByCard, cards) {
		fmt.Fprintf(&b, "| %s | %d |\n", row.writing, row.mistakes)
	}
	return b.String()
}

type mistakeRow struct {
	writing  string
	mistakes int
}

// sortMistakes orders mistaken cards by mistake count, worst first, with the
// writing as a tie breaker.
func sortMistakes(mistakes map[string]int, cards map[string]card.Card) []mistakeRow {
	rows := make([]mistakeRow, 0, len(mistakes))
	for cardID, count := range mistakes {
		writing := cardID
		if c, ok := cards[cardID]; ok {
			writing = c.Writing()
		}
		rows = append(rows, mistakeRow{writing: writing, mistakes: count})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].mistakes != rows[j].mistakes {
			return rows[i].mistakes > rows[j].mistakes
		}
		return rows[i].writing < rows[j].writing
	})
	return rows
}

// Save writes a Markdown report to path, creating parent directories.
func Save(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("os.MkdirAll > %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("os.WriteFile(%s) > %w", path, err)
	}
	return nil
}

// ConvertMarkdownToPDF converts a Markdown report to a PDF next to it and
// returns the PDF path.
func ConvertMarkdownToPDF(markdownPath string) (string, error) {
	if !strings.HasSuffix(markdownPath, ".md") {
		return "", fmt.Errorf("input file must have .md extension: %s", markdownPath)
	}

	content, err := os.ReadFile(markdownPath)
	if err != nil {
		return "", fmt.Errorf("os.ReadFile(%s) > %w", markdownPath, err)
	}

	pdfPath := strings.TrimSuffix(markdownPath, ".md") + ".pdf"

	renderer := mdtopdf.NewPdfRenderer("P", "A4", pdfPath, "", nil, mdtopdf.LIGHT)
	if err := renderer.Process(content); err != nil {
		return "", fmt.Errorf("renderer.Process() > %w", err)
	}

	absPath, err := filepath.Abs(pdfPath)
	if err != nil {
		return pdfPath, nil
	}
	return absPath, nil
}
