package chart

import "fmt"

const (
	CodeValidation      = "VALIDATION"
	CodeElementNotFound = "ELEMENT_NOT_FOUND"
	CodeNavigateFailure = "NAVIGATE_FAILURE"
	CodeEvalFailure     = "EVAL_FAILURE"
	CodeEvalTimeout     = "EVAL_TIMEOUT"
	CodeCDPUnavailable  = "CDP_UNAVAILABLE"
)

// CodedError is a typed error with a stable code for exit-status mapping.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *CodedError) Unwrap() error { return e.Cause }

func newError(code, msg string, cause error) error {
	return &CodedError{Code: code, Message: msg, Cause: cause}
}

// ClickResult describes the outcome of a click-by-text action.
type ClickResult struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Matches int    `json:"matches"`
	Exact   bool   `json:"exact"`
}

// ElementCounts holds the DOM element tallies the debug flow inspects.
type ElementCounts struct {
	TextMatches          int `json:"text_matches"`
	ChartClassed         int `json:"chart_classed"`
	RechartsWrappers     int `json:"recharts_wrappers"`
	ResponsiveContainers int `json:"responsive_containers"`
	Subcharts            int `json:"subcharts"`
}

// SubchartMetric describes one indicator subchart container.
type SubchartMetric struct {
	Index        int    `json:"index"`
	OffsetHeight int    `json:"offset_height"`
	Style        string `json:"style"`
}

// LayoutMetrics holds the height measurements the debug flow reports.
type LayoutMetrics struct {
	WindowInnerHeight    int              `json:"window_inner_height"`
	DocumentScrollHeight int              `json:"document_scroll_height"`
	ContainerHeight      int              `json:"container_height"`
	ContainerStyle       string           `json:"container_style"`
	Subcharts            []SubchartMetric `json:"subcharts"`
}

// ConsoleMessage is one console event captured from the page.
type ConsoleMessage struct {
	Type string
	Text string
}
