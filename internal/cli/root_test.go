package cli

import (
	"testing"

	"github.com/critiq-dev/critiq-cli/internal/analysis"
	"github.com/stretchr/testify/assert"
)

func TestParseSeverityFlag(t *testing.T) {
	tests := []struct {
		name string
		flag string
		want analysis.Severity
		ok   bool
	}{
		{name: "empty means all", flag: "", want: analysis.SeverityAll, ok: true},
		{name: "all", flag: "all", want: analysis.SeverityAll, ok: true},
		{name: "critical", flag: "critical", want: analysis.SeverityCritical, ok: true},
		{name: "low", flag: "low", want: analysis.SeverityLow, ok: true},
		{name: "unknown rejected", flag: "severe", ok: false},
		{name: "garbage rejected", flag: "!!", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flagSeverity = tt.flag
			exitCode = ExitSuccess
			t.Cleanup(func() {
				flagSeverity = ""
				exitCode = ExitSuccess
			})

			got, ok := parseSeverityFlag()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
				assert.Equal(t, ExitSuccess, exitCode)
			} else {
				assert.Equal(t, ExitUsageError, exitCode)
			}
		})
	}
}

func TestBuildOverrides(t *testing.T) {
	t.Cleanup(func() {
		flagBaseURL, flagFormat, flagTimeout, flagVerbose = "", "", 0, false
	})

	flagBaseURL, flagFormat, flagTimeout, flagVerbose = "", "", 0, false
	assert.Empty(t, buildOverrides())

	flagBaseURL = "https://critiq.example.com"
	flagFormat = "json"
	flagTimeout = 30
	flagVerbose = true
	assert.Equal(t, map[string]string{
		"base_url":        "https://critiq.example.com",
		"format":          "json",
		"timeout_seconds": "30",
		"verbose":         "true",
	}, buildOverrides())
}
