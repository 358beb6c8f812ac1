package doctor

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
			text, err := tc.status.MarshalText()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, string(text))
		})
	}
}

// stubCheck returns a fixed result.
type stubCheck struct {
	name     string
	category string
	result   CheckResult
}

func (s *stubCheck) Name() string     { return s.name }
func (s *stubCheck) Category() string { return s.category }
func (s *stubCheck) Run() CheckResult { return s.result }

func TestRunAll_FillsNameAndCategory(t *testing.T) {
	checks := []Check{
		&stubCheck{name: "a", category: CategorySampler, result: CheckResult{Status: StatusPass}},
		&stubCheck{name: "b", category: CategoryConfig, result: CheckResult{Name: "custom", Status: StatusFail}},
	}

	results := RunAll(checks)

	assert.Len(t, results, 2)
	assert.Equal(t, "a", results[0].Name)
	assert.Equal(t, CategorySampler, results[0].Category)
	assert.Equal(t, "custom", results[1].Name)
	assert.Equal(t, StatusFail, results[1].Status)
}

func TestGroupByCategory_ReportOrder(t *testing.T) {
	results := []CheckResult{
		{Name: "log", Category: CategoryLogging},
		{Name: "extra", Category: "EXTRA"},
		{Name: "platform", Category: CategoryPlatform},
		{Name: "sampler", Category: CategorySampler},
	}

	order, grouped := GroupByCategory(results)

	assert.Equal(t, []string{CategoryPlatform, CategorySampler, CategoryLogging, "EXTRA"}, order)
	assert.Len(t, grouped[CategoryLogging], 1)
}

func TestHasFailuresAndIssues(t *testing.T) {
	tests := []struct {
		name     string
		results  []CheckResult
		failures bool
		issues   bool
	}{
		{name: "all pass", results: []CheckResult{{Status: StatusPass}}, failures: false, issues: false},
		{name: "warn only", results: []CheckResult{{Status: StatusPass}, {Status: StatusWarn}}, failures: false, issues: true},
		{name: "fail", results: []CheckResult{{Status: StatusFail}}, failures: true, issues: true},
		{name: "empty", results: nil, failures: false, issues: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.failures, HasFailures(tc.results))
			assert.Equal(t, tc.issues, HasIssues(tc.results))
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "Ready to run: sudo mxtop", Summary([]CheckResult{{Status: StatusPass}}))
	assert.Equal(t, "1 issue found", Summary([]CheckResult{{Status: StatusWarn}}))
	assert.Equal(t, "2 issues found", Summary([]CheckResult{{Status: StatusFail}, {Status: StatusWarn}}))
}
