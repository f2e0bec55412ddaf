package console

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAppendAndSnapshot(t *testing.T) {
	c := NewCollector(0)
	c.Append("log", "CandleChart layout: {height: 640}")
	c.Append("error", "fetch failed")
	c.Append("log", "tick")

	recs := c.Snapshot()
	if len(recs) != 3 {
		t.Fatalf("Snapshot() returned %d records; want 3", len(recs))
	}
	if recs[0].Type != "log" || recs[1].Type != "error" {
		t.Fatalf("record order = %q, %q; want log, error", recs[0].Type, recs[1].Type)
	}
	if c.Len() != 3 {
		t.Fatalf("Len() = %d; want 3", c.Len())
	}
}

func TestFilterMatchesSubstring(t *testing.T) {
	c := NewCollector(0)
	c.Append("log", "CandleChart layout: {subcharts: 1}")
	c.Append("log", "unrelated message")
	c.Append("warn", "CandleChart layout: {subcharts: 2}")

	got := c.Filter("CandleChart layout:")
	if len(got) != 2 {
		t.Fatalf("Filter() returned %d records; want 2", len(got))
	}
	if got[0].Text != "CandleChart layout: {subcharts: 1}" {
		t.Fatalf("Filter()[0].Text = %q", got[0].Text)
	}
}

func TestLimitDropsNewest(t *testing.T) {
	c := NewCollector(2)
	c.Append("log", "one")
	c.Append("log", "two")
	c.Append("log", "three")
	c.Append("log", "four")

	if c.Len() != 2 {
		t.Fatalf("Len() = %d; want 2", c.Len())
	}
	if c.Dropped() != 2 {
		t.Fatalf("Dropped() = %d; want 2", c.Dropped())
	}
	recs := c.Snapshot()
	if recs[0].Text != "one" || recs[1].Text != "two" {
		t.Fatalf("retained = %q, %q; want one, two", recs[0].Text, recs[1].Text)
	}
}

func TestSubscribeReceivesEveryRecord(t *testing.T) {
	c := NewCollector(1)
	var seen []string
	c.Subscribe(func(rec Record) {
		seen = append(seen, rec.Text)
	})

	c.Append("log", "kept")
	c.Append("log", "dropped but still delivered")

	if len(seen) != 2 {
		t.Fatalf("subscriber saw %d records; want 2", len(seen))
	}
	if seen[1] != "dropped but still delivered" {
		t.Fatalf("seen[1] = %q", seen[1])
	}
}

func TestCountByType(t *testing.T) {
	c := NewCollector(0)
	c.Append("log", "a")
	c.Append("log", "b")
	c.Append("error", "c")

	counts := c.CountByType()
	if counts["log"] != 2 || counts["error"] != 1 {
		t.Fatalf("CountByType() = %v; want log:2 error:1", counts)
	}
}

func TestWriteFileFormat(t *testing.T) {
	c := NewCollector(0)
	c.Append("log", "CandleChart layout: {height: 640}")
	c.Append("error", "boom")

	path := filepath.Join(t.TempDir(), "logs", "console-logs.txt")
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	want := "log: CandleChart layout: {height: 640}\nerror: boom\n"
	if string(data) != want {
		t.Fatalf("log file = %q; want %q", string(data), want)
	}
}
