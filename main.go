// Package main is the entry point for the shotmetrics CLI tool, which imports
// Gaelic football shot data and computes scoring, xP/xG and zone metrics.
package main

import "github.com/pable/shotmetrics/cmd"

func main() {
	cmd.Execute()
}
