// Package doctor runs the preflight checks behind `mxtop doctor`: platform,
// privilege, sampler binary, config and log file.
package doctor

import (
	"fmt"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText renders the status by name in JSON output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Categories in report order.
const (
	CategoryPlatform  = "PLATFORM"
	CategoryPrivilege = "PRIVILEGE"
	CategorySampler   = "SAMPLER"
	CategoryConfig    = "CONFIG"
	CategoryLogging   = "LOGGING"
)

// CategoryOrder is the order categories appear in the report.
var CategoryOrder = []string{
	CategoryPlatform,
	CategoryPrivilege,
	CategorySampler,
	CategoryConfig,
	CategoryLogging,
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Category   string      `json:"category"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Check is one diagnostic.
type Check interface {
	Name() string
	Category() string
	Run() CheckResult
}

// RunAll runs checks in order. Each result carries its check's category.
func RunAll(checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	for i, check := range checks {
		r := check.Run()
		if r.Name == "" {
			r.Name = check.Name()
		}
		r.Category = check.Category()
		results[i] = r
	}
	return results
}

// GroupByCategory splits results by category, in CategoryOrder. Unknown
// categories follow in first-seen order.
func GroupByCategory(results []CheckResult) ([]string, map[string][]CheckResult) {
	grouped := make(map[string][]CheckResult)
	var seen []string
	for _, r := range results {
		if _, ok := grouped[r.Category]; !ok {
			seen = append(seen, r.Category)
		}
		grouped[r.Category] = append(grouped[r.Category], r)
	}

	order := make([]string, 0, len(grouped))
	known := make(map[string]bool)
	for _, cat := range CategoryOrder {
		known[cat] = true
		if _, ok := grouped[cat]; ok {
			order = append(order, cat)
		}
	}
	for _, cat := range seen {
		if !known[cat] {
			order = append(order, cat)
		}
	}
	return order, grouped
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	return CountByStatus(results)[StatusFail] > 0
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	counts := CountByStatus(results)
	return counts[StatusFail]+counts[StatusWarn] > 0
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	total := counts[StatusWarn] + counts[StatusFail]
	if total == 0 {
		return "Ready to run: sudo mxtop"
	}
	return fmt.Sprintf("%d issue%s found", total, pluralize(total))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
