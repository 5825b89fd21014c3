package export

import (
	"fmt"
	"io"

	"igcomments/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
)

const (
	SummaryRows   = 10
	previewLength = 80
)

// PrintSummary renders the first SummaryRows records as a table
func PrintSummary(w io.Writer, records []models.CommentRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No comments extracted!")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("Extracted %d comments", len(records))
	t.AppendHeader(table.Row{"#", "Username", "Comment", "Likes"})

	for i, r := range records {
		if i == SummaryRows {
			break
		}
		t.AppendRow(table.Row{i + 1, r.Username, preview(r.Comment), r.Likes})
	}
	if len(records) > SummaryRows {
		t.AppendFooter(table.Row{"", "", fmt.Sprintf("... and %d more", len(records)-SummaryRows), ""})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}

// PrintLinks renders post links as a numbered table
func PrintLinks(w io.Writer, links []string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Post"})
	for i, link := range links {
		t.AppendRow(table.Row{i + 1, link})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

func preview(comment string) string {
	r := []rune(comment)
	if len(r) <= previewLength {
		return comment
	}
	return string(r[:previewLength]) + "..."
}
