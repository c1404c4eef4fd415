package menu

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Baselsaber10/Hospital-Management-System/internal/app"
	"github.com/Baselsaber10/Hospital-Management-System/internal/config"
)

func newTestApp(t *testing.T, dir string) *app.App {
	t.Helper()
	cfg := config.Defaults()
	cfg.DataDir = dir
	now := func() time.Time { return time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC) }
	a, err := app.New(context.Background(), cfg, app.WithClock(now))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func script(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

func TestRun_ReferentialIntegrityScenario(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, dir)
	var out bytes.Buffer

	in := script(
		"1", "P1", "Jane Doe", "30", "female", "Flu",
		"4", "D1", "John Roe", "45", "Male", "Cardiology",
		"7", "A1", "P1", "D1", "2026-10-19",
		"3", "P1",
		"9", "A1",
		"3", "P1",
		"2",
		"10",
	)
	require.NoError(t, New(a, in, &out).Run(context.Background()))

	text := out.String()
	require.Contains(t, text, "===== Hospital Management System =====")
	require.Contains(t, text, "Patient added successfully.")
	require.Contains(t, text, "Doctor added successfully.")
	require.Contains(t, text, "Appointment created successfully.")
	require.Contains(t, text, `Error: cannot delete patient "P1" with active appointments: A1`)
	require.Contains(t, text, "Appointment canceled successfully.")
	require.Contains(t, text, "Patient deleted successfully.")
	require.Contains(t, text, "No patients found.")
	require.Contains(t, text, "Exiting system...")

	data, err := os.ReadFile(filepath.Join(dir, "doctors.txt"))
	require.NoError(t, err)
	require.Equal(t, "D1|John Roe|45|Male|Cardiology|True\n", string(data))
}

func TestRun_ValidationErrorsKeepLooping(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	var out bytes.Buffer

	in := script(
		"1", "P1", "Jane", "abc", "female", "Flu",
		"1", "P1", "Jane", "30", "robot", "Flu",
		"7", "A1", "P9", "D9", "2026-10-19",
		"10",
	)
	require.NoError(t, New(a, in, &out).Run(context.Background()))

	text := out.String()
	require.Contains(t, text, "Error: age: age must be a positive integer")
	require.Contains(t, text, "gender must be Male or Female")
	require.Contains(t, text, `Error: patient id "P9" does not exist`)
	require.Empty(t, a.Patients(context.Background()))
}

func TestRun_InvalidChoice(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	var out bytes.Buffer

	require.NoError(t, New(a, script("abc", "0", "11", "10"), &out).Run(context.Background()))

	require.Equal(t, 3, strings.Count(out.String(), "Invalid choice. Enter a number from 1 to 10."))
}

func TestRun_EndOfInputSaves(t *testing.T) {
	dir := t.TempDir()
	a := newTestApp(t, dir)
	var out bytes.Buffer

	in := strings.NewReader("4\nD1\nJohn Roe\n45\nMale\nCardiology\n")
	require.NoError(t, New(a, in, &out).Run(context.Background()))

	require.Contains(t, out.String(), "Exiting system...")
	require.FileExists(t, filepath.Join(dir, "doctors.txt"))
}

func TestRun_EndOfInputMidPrompt(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	var out bytes.Buffer

	require.NoError(t, New(a, strings.NewReader("1\nP1\nJane"), &out).Run(context.Background()))

	require.Empty(t, a.Patients(context.Background()))
	require.Contains(t, out.String(), "Exiting system...")
}

func TestRun_GeneratedIDs(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	var out bytes.Buffer
	gen := func() string { return "gen-1" }

	in := script("1", "", "Jane Doe", "30", "Female", "Flu", "10")
	require.NoError(t, New(a, in, &out, WithIDGenerator(gen)).Run(context.Background()))

	require.Contains(t, out.String(), "(blank to generate)")
	require.Contains(t, out.String(), "Generated ID gen-1")
	p, err := a.GetPatient(context.Background(), "gen-1")
	require.NoError(t, err)
	require.Equal(t, "Jane Doe", p.Name())
}

func TestRun_BlankIDWithoutGeneratorFails(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	var out bytes.Buffer

	in := script("4", "", "John Roe", "45", "Male", "Cardiology", "10")
	require.NoError(t, New(a, in, &out).Run(context.Background()))

	require.Contains(t, out.String(), "id must be a non-empty string")
}

type saveFailingService struct {
	Service
}

func (saveFailingService) Flush(context.Context) error { return errors.New("disk full") }

func TestRun_FinalSaveFailure(t *testing.T) {
	var out bytes.Buffer

	err := New(saveFailingService{}, script("10"), &out).Run(context.Background())

	require.EqualError(t, err, "disk full")
	require.Contains(t, out.String(), "Error saving data: disk full")
}

func TestRun_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(saveFailingService{}, script("10"), &bytes.Buffer{}).Run(ctx)

	require.ErrorIs(t, err, context.Canceled)
}

// refusingWriter fails any write containing refuse and buffers the rest.
type refusingWriter struct {
	bytes.Buffer
	refuse string
}

func (w *refusingWriter) Write(p []byte) (int, error) {
	if bytes.Contains(p, []byte(w.refuse)) {
		return 0, errors.New("terminal closed")
	}
	return w.Buffer.Write(p)
}

func TestRun_ActionErrorIsShown(t *testing.T) {
	a := newTestApp(t, t.TempDir())
	out := &refusingWriter{refuse: "No patients found."}

	require.NoError(t, New(a, script("2", "10"), out).Run(context.Background()))

	require.Contains(t, out.String(), "Error: terminal closed")
	require.Contains(t, out.String(), "Exiting system...")
}

func TestRun_ViewOnlySessionDoesNotSave(t *testing.T) {
	dir := t.TempDir()
	content := []byte("P1|Jane Doe|30|Female|Flu\nP2|too|few\n")
	path := filepath.Join(dir, "patients.txt")
	require.NoError(t, os.WriteFile(path, content, 0o600))
	a := newTestApp(t, dir)
	var out bytes.Buffer

	require.NoError(t, New(a, script("2", "5", "8", "10"), &out).Run(context.Background()))
	require.NoError(t, a.Close(context.Background()))

	require.Contains(t, out.String(), "Jane Doe")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, data)
	require.NoFileExists(t, filepath.Join(dir, "doctors.txt"))
}
