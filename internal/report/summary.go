package report

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// RunSummary is what the batch CLI prints after a successful run.
type RunSummary struct {
	Job         string
	RunID       string
	Rows        int
	Records     int
	ParseErrors int
	Customers   int
	Rules       int
	Tables      int
	ArtifactDir string
	Duration    time.Duration
}

// RenderSummary writes the human-readable run report. Counts are grouped with
// thousands separators since real transaction logs run into the millions.
func RenderSummary(w io.Writer, s RunSummary) {
	p := message.NewPrinter(language.English)

	p.Fprintf(w, "run %s (%s) finished in %s\n", s.RunID, s.Job, s.Duration.Round(time.Millisecond))
	p.Fprintf(w, "  rows scanned      %d\n", s.Rows)
	p.Fprintf(w, "  records parsed    %d\n", s.Records)
	if s.ParseErrors > 0 {
		p.Fprintf(w, "  rows skipped      %d\n", s.ParseErrors)
	}
	p.Fprintf(w, "  customers         %d\n", s.Customers)
	p.Fprintf(w, "  rules derived     %d\n", s.Rules)
	p.Fprintf(w, "  tables written    %d -> %s\n", s.Tables, s.ArtifactDir)
}
