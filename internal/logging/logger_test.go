package logging

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestSetLogLevel(t *testing.T) {
	defer GetLogger().SetLevel(logrus.InfoLevel)

	if err := SetLogLevel("debug"); err != nil {
		t.Fatalf("SetLogLevel(debug): %v", err)
	}
	if GetLogger().GetLevel() != logrus.DebugLevel {
		t.Fatalf("expected debug level, got %v", GetLogger().GetLevel())
	}
}

func TestSetLogLevel_Invalid(t *testing.T) {
	if err := SetLogLevel("chatty"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	GetLogger().WithField("figure", "fig1").Info("rendered")
	if !strings.Contains(buf.String(), "figure=fig1") {
		t.Fatalf("expected field in output, got %q", buf.String())
	}
}
