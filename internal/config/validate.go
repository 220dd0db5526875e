// This file adds a lightweight linter/validator for Run values. It performs
// static checks over a decoded Run and returns a list of issues (errors and
// warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Run.
//
// Path is a dotted path into the config (e.g. "db.dsn"). Message is
// human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error where one is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidateRun performs static validation of a Run. It does not mutate the
// value; callers decide whether warnings are fatal.
func ValidateRun(r Run) []Issue {
	var issues []Issue

	if strings.TrimSpace(r.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "job",
			Message:  "job is empty; metrics and logs will use the default job name",
		})
	}

	base := strings.TrimSpace(r.Source.BaseURL)
	if base == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.base_url",
			Message:  "base URL must not be empty",
		})
	} else if u, err := url.Parse(base); err != nil || u.Scheme == "" || u.Host == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.base_url",
			Message:  fmt.Sprintf("%q is not an absolute http(s) URL", base),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.base_url",
			Message:  fmt.Sprintf("unsupported scheme %q; only http and https are fetched", u.Scheme),
		})
	}

	if strings.TrimSpace(r.Staging.Dir) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "staging.dir",
			Message:  "staging directory must not be empty",
		})
	}

	if strings.TrimSpace(r.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "db.dsn",
			Message:  "db.dsn must not be empty (or set DATABASE_URL)",
		})
	}

	if r.Runtime.ChannelBuffer < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.channel_buffer",
			Message:  "channel_buffer must not be negative",
		})
	}

	return issues
}
