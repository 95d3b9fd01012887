package debug

import (
	"bytes"
	"io"
	"os"
	"testing"
)

func TestEnabled(t *testing.T) {
	oldEnabled, oldVerbose := enabled, verboseMode
	defer func() { enabled, verboseMode = oldEnabled, oldVerbose }()

	enabled, verboseMode = false, false
	if Enabled() {
		t.Error("Enabled() = true, want false")
	}

	SetVerbose(true)
	if !Enabled() {
		t.Error("Enabled() = false after SetVerbose(true), want true")
	}
	SetVerbose(false)

	enabled = true
	if !Enabled() {
		t.Error("Enabled() = false with env flag set, want true")
	}
}

func TestLogfGatedByEnabled(t *testing.T) {
	oldEnabled := enabled
	defer func() { enabled = oldEnabled }()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	oldStderr := os.Stderr
	os.Stderr = w
	defer func() { os.Stderr = oldStderr }()

	enabled = false
	Logf("should not appear")

	enabled = true
	Logf("visible %d", 1)

	w.Close()
	var buf bytes.Buffer
	io.Copy(&buf, r)

	if got := buf.String(); got != "visible 1" {
		t.Errorf("Logf output = %q, want %q", got, "visible 1")
	}
}

func TestQuietMode(t *testing.T) {
	oldQuiet := quietMode
	defer func() { quietMode = oldQuiet }()

	SetQuiet(false)
	if IsQuiet() {
		t.Error("IsQuiet() = true after SetQuiet(false)")
	}
	SetQuiet(true)
	if !IsQuiet() {
		t.Error("IsQuiet() = false after SetQuiet(true)")
	}
}
