package order

// CopName identifies offenses raised by this rule.
const CopName = "Layout/WaterfallOrder"

// Config holds the rule's options.
type Config struct {
	// AllowedRecursion stops mutually recursive methods from being reported
	// against each other.
	AllowedRecursion bool
	// SafeAutoCorrect marks the rule's corrections as safe, so hosts may apply
	// them without an explicit unsafe-fix request.
	SafeAutoCorrect bool
	// SkipCyclicSiblingEdges drops inferred sibling constraints that would
	// contradict constraints already in place.
	SkipCyclicSiblingEdges bool
}

// DefaultConfig returns the rule's defaults.
func DefaultConfig() Config {
	return Config{
		AllowedRecursion:       true,
		SafeAutoCorrect:        false,
		SkipCyclicSiblingEdges: false,
	}
}
