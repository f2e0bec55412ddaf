// Package report renders a probe run as a Markdown document.
package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nao1215/markdown"

	"github.com/dgnsrekt/chartprobe/internal/snapshot"
)

// Step is one action in a probe run.
type Step struct {
	Name   string
	Status string // "ok", "warn", or "fail"
	Detail string
}

// RunReport aggregates everything a probe run produced.
type RunReport struct {
	Mode          string
	RunID         string
	TargetURL     string
	StartedAt     time.Time
	Duration      time.Duration
	Steps         []Step
	Screenshots   []snapshot.Meta
	ConsoleCounts map[string]int
	Marker        string
	MatchedLines  []string
	Err           string
}

// Write renders the report as Markdown to w.
func Write(w io.Writer, r RunReport) error {
	md := markdown.NewMarkdown(w)

	md.H1("Chart Probe Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Mode", r.Mode},
			{"Run ID", "`" + r.RunID + "`"},
			{"Target", r.TargetURL},
			{"Started", r.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Duration", r.Duration.Round(time.Millisecond).String()},
			{"Status", statusText(r)},
		},
	})
	md.PlainText("")

	writeSteps(md, r.Steps)
	writeScreenshots(md, r.Screenshots)
	writeConsole(md, r)

	return md.Build()
}

// WriteFile renders the report into dir as report-<run-id>.md and returns
// the file path.
func WriteFile(dir string, r RunReport) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("report: mkdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, "report-"+r.RunID+".md")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("report: create %s: %w", path, err)
	}
	defer f.Close()
	if err := Write(f, r); err != nil {
		return "", fmt.Errorf("report: render %s: %w", path, err)
	}
	return path, nil
}

func statusText(r RunReport) string {
	if r.Err != "" {
		return "❌ Failed - " + r.Err
	}
	for _, step := range r.Steps {
		if step.Status == "warn" {
			return "⚠️ Complete with warnings"
		}
	}
	return "✅ Complete"
}

func writeSteps(md *markdown.Markdown, steps []Step) {
	if len(steps) == 0 {
		return
	}
	md.H2("Steps")
	md.PlainText("")
	rows := make([][]string, 0, len(steps))
	for i, step := range steps {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			step.Name,
			stepMark(step.Status),
			step.Detail,
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"#", "Step", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

func stepMark(status string) string {
	switch status {
	case "ok":
		return "✓"
	case "warn":
		return "⚠"
	default:
		return "✗"
	}
}

func writeScreenshots(md *markdown.Markdown, shots []snapshot.Meta) {
	if len(shots) == 0 {
		return
	}
	md.H2("Screenshots")
	md.PlainText("")
	rows := make([][]string, 0, len(shots))
	for _, shot := range shots {
		rows = append(rows, []string{
			shot.Stage,
			"`" + shot.ID + "." + shot.Format + "`",
			fmt.Sprintf("%dx%d", shot.Width, shot.Height),
			strconv.Itoa(shot.SizeBytes),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Stage", "File", "Dimensions", "Bytes"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeConsole(md *markdown.Markdown, r RunReport) {
	if len(r.ConsoleCounts) == 0 && len(r.MatchedLines) == 0 {
		return
	}
	md.H2("Console")
	md.PlainText("")

	if len(r.ConsoleCounts) > 0 {
		types := make([]string, 0, len(r.ConsoleCounts))
		for t := range r.ConsoleCounts {
			types = append(types, t)
		}
		sort.Strings(types)
		rows := make([][]string, 0, len(types))
		for _, t := range types {
			rows = append(rows, []string{t, strconv.Itoa(r.ConsoleCounts[t])})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Type", "Count"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(r.MatchedLines) > 0 {
		md.H3(fmt.Sprintf("Lines matching %q", r.Marker))
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlightText, strings.Join(r.MatchedLines, "\n"))
		md.PlainText("")
	}
}
