package alert

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/euromarts-io/euromarts/pkg/types"
)

// ConsoleSink writes violations to the terminal with color.
type ConsoleSink struct{}

// NewConsoleSink creates a new console sink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return "console" }

// Send writes a violation to the terminal with color-coded severity.
func (s *ConsoleSink) Send(_ context.Context, v types.Violation) error {
	var prefix string
	switch v.Severity {
	case types.SeverityError:
		prefix = color.RedString("[ERROR]")
	default:
		prefix = color.YellowString("[WARN]")
	}

	if v.CountryCode != "" {
		fmt.Printf("%s %s [%s] %s\n", prefix, v.Check, v.CountryCode, v.Message)
	} else {
		fmt.Printf("%s %s %s\n", prefix, v.Check, v.Message)
	}
	return nil
}
