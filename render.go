package jmhbench

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// Render loads the JMH result file at inputPath and presents it as a horizontal bar
// chart, one bar per row in file order. Nothing is drawn when the file is missing or
// malformed.
func Render(ctx context.Context, inputPath string, cfg Config) error {
	rows, err := LoadCSV(inputPath)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"input": inputPath,
		"rows":  len(rows),
	}).Debug("benchmark results loaded")

	c, err := BuildChart(rows, cfg)
	if err != nil {
		return err
	}
	return Present(ctx, c, cfg)
}
