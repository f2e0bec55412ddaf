package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultScenario(t *testing.T) {
	sc := DefaultScenario()
	if sc.MenuButton != "Indicators" {
		t.Fatalf("MenuButton = %q; want %q", sc.MenuButton, "Indicators")
	}
	if sc.LayoutMarker != "CandleChart layout:" {
		t.Fatalf("LayoutMarker = %q; want %q", sc.LayoutMarker, "CandleChart layout:")
	}
	if len(sc.Indicators) != 3 {
		t.Fatalf("Indicators count = %d; want 3", len(sc.Indicators))
	}
	if sc.Indicators[2].Label != "Stoch RSI" || sc.Indicators[2].Stage != "after-stoch-rsi" {
		t.Fatalf("Indicators[2] = %+v", sc.Indicators[2])
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yml")
	content := `menu_button: Studies
indicators:
  - label: Bollinger Bands
  - label: VWAP
    stage: vwap-applied
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario() error = %v", err)
	}
	if sc.MenuButton != "Studies" {
		t.Fatalf("MenuButton = %q; want %q", sc.MenuButton, "Studies")
	}
	if sc.LayoutMarker != "CandleChart layout:" {
		t.Fatalf("LayoutMarker = %q; want default retained", sc.LayoutMarker)
	}
	if len(sc.Indicators) != 2 {
		t.Fatalf("Indicators count = %d; want 2", len(sc.Indicators))
	}
	if sc.Indicators[0].Stage != "after-bollinger-bands" {
		t.Fatalf("derived stage = %q; want %q", sc.Indicators[0].Stage, "after-bollinger-bands")
	}
	if sc.Indicators[1].Stage != "vwap-applied" {
		t.Fatalf("explicit stage = %q; want %q", sc.Indicators[1].Stage, "vwap-applied")
	}
}

func TestLoadScenarioMissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yml"))
	if !errors.Is(err, ErrScenarioNotFound) {
		t.Fatalf("LoadScenario() error = %v; want ErrScenarioNotFound", err)
	}
}

func TestLoadScenarioEmptyIndicatorsFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yml")
	if err := os.WriteFile(path, []byte("menu_button: Indicators\n"), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatalf("LoadScenario() error = %v", err)
	}
	if len(sc.Indicators) != 3 {
		t.Fatalf("Indicators count = %d; want default 3", len(sc.Indicators))
	}
}

func TestLoadScenarioRejectsEmptyLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yml")
	content := `indicators:
  - label: ""
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	if _, err := LoadScenario(path); err == nil {
		t.Fatal("expected validation error for empty label")
	}
}

func TestFindScenarioFileExplicit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yml")
	if err := os.WriteFile(path, []byte("menu_button: Indicators\n"), 0o644); err != nil {
		t.Fatalf("write scenario: %v", err)
	}

	if got := FindScenarioFile(path); got != path {
		t.Fatalf("FindScenarioFile() = %q; want %q", got, path)
	}
	if got := FindScenarioFile(filepath.Join(t.TempDir(), "missing.yml")); got != "" {
		t.Fatalf("FindScenarioFile() = %q; want empty for missing explicit path", got)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RSI", "rsi"},
		{"Stoch RSI", "stoch-rsi"},
		{"Bollinger  Bands", "bollinger-bands"},
		{"  MACD ", "macd"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Fatalf("slugify(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}
