package logger

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureOutput(fn func()) string {
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestLevelFiltering(t *testing.T) {
	warnOnly := NewConsoleLogger("warn")

	out := captureOutput(func() {
		warnOnly.Debug("debug line")
		warnOnly.Info("info line")
		warnOnly.Warn("warn line")
	})

	assert.NotContains(t, out, "debug line")
	assert.NotContains(t, out, "info line")
	assert.Contains(t, out, "warn line")
}

func TestFieldsSortedAndStable(t *testing.T) {
	l := NewConsoleLogger("info")

	out := captureOutput(func() {
		l.Info("msg", map[string]interface{}{"zebra": 1, "alpha": 2})
	})

	assert.Contains(t, out, "alpha=2 zebra=1")
}

func TestWithFieldsCarriesContext(t *testing.T) {
	l := NewConsoleLogger("info").WithFields(map[string]interface{}{"run_id": "r1"})

	out := captureOutput(func() {
		l.Info("msg")
	})

	assert.Contains(t, out, "run_id=r1")
}

func TestErrorIncludesCause(t *testing.T) {
	l := NewConsoleLogger("error")

	out := captureOutput(func() {
		l.Error("failed", assert.AnError)
	})

	assert.Contains(t, out, "ERROR")
	assert.Contains(t, out, assert.AnError.Error())
}
