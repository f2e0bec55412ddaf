// Package console collects ordered console-message records from a page and
// writes them to plain text log files.
package console

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// DefaultLimit caps how many records a collector retains.
const DefaultLimit = 10000

// Record is one captured console message.
type Record struct {
	Type      string
	Text      string
	Timestamp time.Time
}

// Collector accumulates console records in arrival order. Appends come from
// the CDP event goroutine while reads come from the flow goroutine, so all
// access is mutex-guarded.
type Collector struct {
	mu      sync.Mutex
	records []Record
	limit   int
	dropped int
	sinks   []func(Record)
}

// NewCollector creates a collector retaining at most limit records.
// A non-positive limit uses DefaultLimit.
func NewCollector(limit int) *Collector {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Collector{limit: limit}
}

// Append records a console message and fans it out to subscribers.
func (c *Collector) Append(msgType, text string) {
	rec := Record{Type: msgType, Text: text, Timestamp: time.Now()}

	c.mu.Lock()
	if len(c.records) >= c.limit {
		c.dropped++
		if c.dropped == 1 {
			slog.Warn("console buffer full, dropping records", "limit", c.limit)
		}
		sinks := c.sinks
		c.mu.Unlock()
		for _, fn := range sinks {
			fn(rec)
		}
		return
	}
	c.records = append(c.records, rec)
	sinks := c.sinks
	c.mu.Unlock()

	for _, fn := range sinks {
		fn(rec)
	}
}

// Subscribe registers fn to be called for every subsequent record.
func (c *Collector) Subscribe(fn func(Record)) {
	c.mu.Lock()
	c.sinks = append(c.sinks, fn)
	c.mu.Unlock()
}

// Snapshot returns a copy of all retained records in arrival order.
func (c *Collector) Snapshot() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// Filter returns the retained records whose text contains substr.
func (c *Collector) Filter(substr string) []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []Record
	for _, rec := range c.records {
		if strings.Contains(rec.Text, substr) {
			out = append(out, rec)
		}
	}
	return out
}

// Len reports how many records are retained.
func (c *Collector) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.records)
}

// Dropped reports how many records were discarded after the buffer filled.
func (c *Collector) Dropped() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dropped
}

// CountByType tallies retained records per console message type.
func (c *Collector) CountByType() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	counts := make(map[string]int)
	for _, rec := range c.records {
		counts[rec.Type]++
	}
	return counts
}

// WriteFile writes every retained record to path as "type: text" lines.
func (c *Collector) WriteFile(path string) error {
	records := c.Snapshot()

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("console log: mkdir %s: %w", dir, err)
		}
	}

	var sb strings.Builder
	for _, rec := range records {
		sb.WriteString(rec.Type)
		sb.WriteString(": ")
		sb.WriteString(rec.Text)
		sb.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return fmt.Errorf("console log: write %s: %w", path, err)
	}
	slog.Info("console log written", "path", path, "records", len(records))
	return nil
}
