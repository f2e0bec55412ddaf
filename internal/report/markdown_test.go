package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dgnsrekt/chartprobe/internal/snapshot"
)

func sampleReport() RunReport {
	return RunReport{
		Mode:      "verify",
		RunID:     "123e4567-e89b-12d3-a456-426614174000",
		TargetURL: "http://localhost:3005/token/token-7",
		StartedAt: time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC),
		Duration:  3200 * time.Millisecond,
		Steps: []Step{
			{Name: "navigate", Status: "ok", Detail: "http://localhost:3005/token/token-7"},
			{Name: "toggle RSI", Status: "warn", Detail: "subchart did not appear"},
		},
		Screenshots: []snapshot.Meta{
			{ID: "223e4567-e89b-12d3-a456-426614174000", Stage: "01-before-indicators", Format: "png", Width: 1920, Height: 1080, SizeBytes: 1234},
		},
		ConsoleCounts: map[string]int{"log": 5, "error": 1},
		Marker:        "CandleChart layout:",
		MatchedLines:  []string{"CandleChart layout: {subcharts: 1}"},
	}
}

func TestWriteSections(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Chart Probe Report",
		"## Steps",
		"## Screenshots",
		"## Console",
		"⚠️ Complete with warnings",
		"01-before-indicators",
		"CandleChart layout: {subcharts: 1}",
		"1920x1080",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestStatusText(t *testing.T) {
	r := sampleReport()
	if got := statusText(r); got != "⚠️ Complete with warnings" {
		t.Fatalf("statusText() = %q", got)
	}

	r.Steps[1].Status = "ok"
	if got := statusText(r); got != "✅ Complete" {
		t.Fatalf("statusText() = %q", got)
	}

	r.Err = "NAVIGATE_FAILURE: net::ERR_CONNECTION_REFUSED"
	if got := statusText(r); !strings.HasPrefix(got, "❌ Failed") {
		t.Fatalf("statusText() = %q", got)
	}
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	r := sampleReport()

	path, err := WriteFile(dir, r)
	if err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	want := filepath.Join(dir, "report-"+r.RunID+".md")
	if path != want {
		t.Fatalf("WriteFile() path = %q; want %q", path, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "# Chart Probe Report") {
		t.Fatal("report file missing title")
	}
}
