package config

import (
	"fmt"
	"unicode/utf8"
)

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one validation finding, addressed by a dotted config path.
type Issue struct {
	Severity Severity
	Path     string
	Message  string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Severity, i.Path, i.Message)
}

// Validate checks a defaulted pipeline config and returns every finding.
// Errors make the config unusable; warnings flag values that are legal but
// probably not what the operator meant.
func Validate(p Pipeline) []Issue {
	var issues []Issue

	addErr := func(path, msg string) {
		issues = append(issues, Issue{Severity: SeverityError, Path: path, Message: msg})
	}
	addWarn := func(path, msg string) {
		issues = append(issues, Issue{Severity: SeverityWarning, Path: path, Message: msg})
	}

	if p.Input.Path == "" {
		addErr("input.path", "missing input file path")
	}
	if utf8.RuneCountInString(p.Input.Delimiter) != 1 {
		addErr("input.delimiter", fmt.Sprintf("must be a single character, got %q", p.Input.Delimiter))
	}

	a := p.Analysis
	if a.MinSupport <= 0 || a.MinSupport > 1 {
		addErr("analysis.min_support", fmt.Sprintf("must be in (0, 1], got %v", a.MinSupport))
	} else if a.MinSupport < 0.001 {
		addWarn("analysis.min_support", fmt.Sprintf("%v is very low; mining may blow up on large inputs", a.MinSupport))
	}
	if a.MinConfidence < 0 || a.MinConfidence > 1 {
		addErr("analysis.min_confidence", fmt.Sprintf("must be in [0, 1], got %v", a.MinConfidence))
	}
	if a.TopN < 0 {
		addErr("analysis.top_n", fmt.Sprintf("must be >= 0, got %d", a.TopN))
	}
	if a.MinBasketSize < 2 {
		addWarn("analysis.min_basket_size", fmt.Sprintf("co-occurrence needs baskets of at least 2; got %d, using 2", a.MinBasketSize))
	}

	if p.Output.Dir == "" {
		addErr("output.dir", "missing artifact directory")
	}

	if p.Storage.Kind != "" {
		switch p.Storage.Kind {
		case "sqlite", "postgres", "mssql":
			if p.Storage.DSN == "" {
				addErr("storage.dsn", "storage.kind set but dsn is empty")
			}
		default:
			addErr("storage.kind", fmt.Sprintf("unknown kind %q (want sqlite, postgres or mssql)", p.Storage.Kind))
		}
	}

	return issues
}

// HasError reports whether any issue is severity error.
func HasError(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
