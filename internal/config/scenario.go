package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultScenarioFile is the scenario file name searched for when no path
// is given.
const DefaultScenarioFile = ".chartprobe.yml"

// ErrScenarioNotFound is returned when the scenario file does not exist.
var ErrScenarioNotFound = errors.New("scenario file not found")

// Indicator names one indicator button to toggle and the artifact stage
// label used for its screenshot.
type Indicator struct {
	Label string `yaml:"label"`
	Stage string `yaml:"stage"`
}

// Scenario describes which UI elements a probe run drives.
type Scenario struct {
	MenuButton   string      `yaml:"menu_button"`
	LayoutMarker string      `yaml:"layout_marker"`
	Indicators   []Indicator `yaml:"indicators"`
}

// DefaultScenario reproduces the indicator set the tool was written to
// verify: RSI, MACD, and Stoch RSI behind the "Indicators" menu.
func DefaultScenario() Scenario {
	return Scenario{
		MenuButton:   "Indicators",
		LayoutMarker: "CandleChart layout:",
		Indicators: []Indicator{
			{Label: "RSI", Stage: "after-rsi"},
			{Label: "MACD", Stage: "after-macd"},
			{Label: "Stoch RSI", Stage: "after-stoch-rsi"},
		},
	}
}

// LoadScenario loads a scenario from a YAML file. Missing fields fall back
// to the defaults so a scenario file can override just the indicator list.
func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Scenario{}, ErrScenarioNotFound
		}
		return Scenario{}, err
	}

	sc := DefaultScenario()
	sc.Indicators = nil
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(sc.Indicators) == 0 {
		sc.Indicators = DefaultScenario().Indicators
	}
	if err := sc.validate(); err != nil {
		return Scenario{}, err
	}
	sc.fillStages()
	return sc, nil
}

// FindScenarioFile resolves the scenario path: an explicit path wins, then
// .chartprobe.yml in the current directory. Empty means "use defaults".
func FindScenarioFile(explicit string) string {
	if explicit != "" {
		if _, err := os.Stat(explicit); err == nil {
			return explicit
		}
		return ""
	}
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	candidate := filepath.Join(cwd, DefaultScenarioFile)
	if _, err := os.Stat(candidate); err == nil {
		return candidate
	}
	return ""
}

func (s Scenario) validate() error {
	if strings.TrimSpace(s.MenuButton) == "" {
		return errors.New("scenario: menu_button is required")
	}
	for i, ind := range s.Indicators {
		if strings.TrimSpace(ind.Label) == "" {
			return fmt.Errorf("scenario: indicator %d has an empty label", i)
		}
	}
	return nil
}

// fillStages derives stage labels for indicators that do not name one.
func (s *Scenario) fillStages() {
	for i := range s.Indicators {
		if s.Indicators[i].Stage != "" {
			continue
		}
		s.Indicators[i].Stage = "after-" + slugify(s.Indicators[i].Label)
	}
}

func slugify(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	var sb strings.Builder
	lastDash := false
	for _, r := range lower {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && sb.Len() > 0 {
				sb.WriteRune('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(sb.String(), "-")
}
