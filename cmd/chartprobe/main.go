// Package main provides the entry point for the chartprobe CLI.
//
// chartprobe drives a Chromium browser over the Chrome DevTools Protocol
// against a locally running charting web application and verifies that
// technical-indicator subcharts (RSI, MACD, Stoch RSI) render after
// clicking through the Indicators menu. It captures screenshots, console
// logs, and DOM measurements as diagnostic artifacts.
//
// Usage:
//
//	chartprobe verify
//	chartprobe debug
//	chartprobe console
//	chartprobe watch
//
// See --help for all available options.
package main

// main is the entry point for chartprobe.
func main() {
	Execute()
}
