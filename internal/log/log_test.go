package log

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLog_Format(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	Warn(CatStore, "skipped record", "file", "patients.txt", "line", 3)

	line := buf.String()
	require.Regexp(t, `^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2} \[WARN\] \[store\] skipped record file=patients.txt line=3\n$`, line)
}

func TestLog_OddFieldCount(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	Info(CatApp, "started", "backend")

	require.Contains(t, buf.String(), "backend=<missing>")
}

func TestLog_MinLevel(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelWarn)
	t.Cleanup(func() { defaultLogger = nil })

	Debug(CatClinic, "hidden")
	Info(CatClinic, "hidden")
	Error(CatClinic, "shown")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), "[ERROR] [clinic] shown")
}

func TestLog_SetEnabled(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	SetEnabled(false)
	Info(CatMenu, "muted")
	SetEnabled(true)
	Info(CatMenu, "audible")

	require.NotContains(t, buf.String(), "muted")
	require.Contains(t, buf.String(), "audible")
}

func TestErrorErr(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, LevelDebug)
	t.Cleanup(func() { defaultLogger = nil })

	ErrorErr(CatDB, "save failed", errors.New("disk full"), "rows", 2)
	ErrorErr(CatDB, "odd", nil)

	require.Contains(t, buf.String(), "save failed rows=2 error=disk full")
	require.Contains(t, buf.String(), "odd error=<nil>")
}

func TestLog_NoLoggerIsNoop(t *testing.T) {
	defaultLogger = nil
	require.NotPanics(t, func() { Info(CatApp, "nothing") })
}

func TestInit_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hms.log")
	cleanup, err := Init(path)
	require.NoError(t, err)
	t.Cleanup(func() { defaultLogger = nil })

	Info(CatConfig, "loaded", "path", "config.yaml")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "[INFO] [config] loaded path=config.yaml")
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, LevelDebug, ParseLevel("debug"))
	require.Equal(t, LevelWarn, ParseLevel("warn"))
	require.Equal(t, LevelError, ParseLevel("error"))
	require.Equal(t, LevelInfo, ParseLevel("whatever"))
}

func TestFormatLine(t *testing.T) {
	now := time.Date(2026, 10, 18, 9, 5, 0, 0, time.UTC)

	got := formatLine(now, LevelInfo, CatMenu, "Menu choice", []any{"choice", 2, "label"})

	require.Equal(t, "2026-10-18T09:05:00 [INFO] [menu] Menu choice choice=2 label=<missing>\n", got)
}
