package logger

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetupVerboseEmitsDebug(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, true)

	log.Debug("gateway request", "op", "sync repositories")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "gateway request")
	assert.Contains(t, out, "op=\"sync repositories\"")
}

func TestSetupQuietSuppressesDebug(t *testing.T) {
	var buf bytes.Buffer
	log := Setup(&buf, false)

	log.Debug("gateway request", "op", "sync repositories")
	assert.Empty(t, buf.String())

	log.Warn("slow response")
	assert.Contains(t, buf.String(), "slow response")
}
