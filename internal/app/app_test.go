package app

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/config"
	"github.com/Baselsaber10/Hospital-Management-System/internal/flags"
	"github.com/Baselsaber10/Hospital-Management-System/internal/testutil"
	"github.com/Baselsaber10/Hospital-Management-System/internal/tracing"
)

var fixedNow = func() time.Time { return time.Date(2026, 10, 18, 15, 30, 0, 0, time.UTC) }

func testConfig(dir string) config.Config {
	cfg := config.Defaults()
	cfg.DataDir = dir
	cfg.Tracing.Enabled = true
	cfg.Tracing.Exporter = "none"
	return cfg
}

func newTestApp(t *testing.T, cfg config.Config) (*App, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	a, err := New(context.Background(), cfg,
		WithClock(fixedNow),
		WithTracerOptions(sdktrace.WithSpanProcessor(recorder)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a, recorder
}

func spanNames(recorder *tracetest.SpanRecorder) []string {
	var names []string
	for _, s := range recorder.Ended() {
		names = append(names, s.Name())
	}
	return names
}

func findSpan(t *testing.T, recorder *tracetest.SpanRecorder, name string) sdktrace.ReadOnlySpan {
	t.Helper()
	for _, s := range recorder.Ended() {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("span %q not found in %v", name, spanNames(recorder))
	return nil
}

func attr(span sdktrace.ReadOnlySpan, key string) string {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value.Emit()
		}
	}
	return ""
}

func TestNew_LoadsTextStore(t *testing.T) {
	dir := t.TempDir()
	testutil.NewBuilder(t).WithStandardClinic("2030-01-05").WriteTextFiles(dir)

	a, recorder := newTestApp(t, testConfig(dir))

	require.Equal(t, config.BackendText, a.Backend())
	require.Len(t, a.Patients(context.Background()), 2)
	require.Equal(t, 1, a.LoadReport().Loaded[clinic.EntityAppointment])

	load := findSpan(t, recorder, "clinic.load")
	require.Equal(t, codes.Ok, load.Status().Code)
	storeLoad := findSpan(t, recorder, "store.load_all")
	require.Equal(t, "text", attr(storeLoad, tracing.AttrBackend))
	require.Equal(t, "5", attr(storeLoad, tracing.AttrLoaded))
}

func TestNew_SkippedRecordsBecomeSpanEvents(t *testing.T) {
	dir := t.TempDir()
	files := testutil.NewBuilder(t).WithPatient("P1").WriteTextFiles(dir)
	require.NoError(t, os.WriteFile(files.Doctors, []byte("D1|John|old|Male|GP|True\n"), 0o600))
	require.NoError(t, os.Remove(files.Appointments))

	a, recorder := newTestApp(t, testConfig(dir))

	require.Equal(t, 1, a.LoadReport().SkippedCount())
	storeLoad := findSpan(t, recorder, "store.load_all")
	var eventNames []string
	for _, e := range storeLoad.Events() {
		eventNames = append(eventNames, e.Name)
	}
	require.Contains(t, eventNames, tracing.EventRecordSkipped)
	require.Contains(t, eventNames, tracing.EventStoreMissing)
}

func TestNew_StrictLoadFails(t *testing.T) {
	dir := t.TempDir()
	testutil.NewBuilder(t).WithPatient("P1").WithAppointment("A1", "P1", "D9", "2030-01-05").WriteTextFiles(dir)
	cfg := testConfig(dir)
	cfg.Flags = map[string]bool{flags.FlagStrictLoad: true}

	_, err := New(context.Background(), cfg, WithClock(fixedNow))

	require.ErrorContains(t, err, "strict load")
}

func TestNew_InvalidConfig(t *testing.T) {
	cfg := testConfig(t.TempDir())
	cfg.Backend = "postgres"

	_, err := New(context.Background(), cfg)

	require.ErrorContains(t, err, "invalid config")
}

func TestNew_WriteThroughDefaultsOnWhenFlagAbsent(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Flags = nil
	a, _ := newTestApp(t, cfg)

	require.True(t, a.Flags().Enabled(flags.FlagWriteThrough))
	p, err := clinic.NewPatient("P1", "Jane Doe", 30, "female", "Flu")
	require.NoError(t, err)
	require.NoError(t, a.AddPatient(context.Background(), p))

	data, err := os.ReadFile(filepath.Join(dir, "patients.txt"))
	require.NoError(t, err)
	require.Equal(t, "P1|Jane Doe|30|Female|Flu\n", string(data))
}

func TestWriteThroughDisabledSavesOnClose(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Flags = map[string]bool{flags.FlagWriteThrough: false}
	a, err := New(context.Background(), cfg, WithClock(fixedNow))
	require.NoError(t, err)

	p, err := clinic.NewPatient("P1", "Jane Doe", 30, "female", "Flu")
	require.NoError(t, err)
	require.NoError(t, a.AddPatient(context.Background(), p))
	_, err = os.Stat(filepath.Join(dir, "patients.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)

	require.NoError(t, a.Close(context.Background()))
	require.NoError(t, a.Close(context.Background()))

	data, err := os.ReadFile(filepath.Join(dir, "patients.txt"))
	require.NoError(t, err)
	require.Equal(t, "P1|Jane Doe|30|Female|Flu\n", string(data))
}

func TestOperationsAreTracedWithOutcome(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	testutil.NewBuilder(t).WithStandardClinic("2030-01-05").WriteTextFiles(dir)
	a, recorder := newTestApp(t, testConfig(dir))

	_, err := a.DeletePatient(ctx, "P1")
	require.ErrorIs(t, err, clinic.ErrReferentialIntegrity)

	_, err = a.CreateAppointment(ctx, "A2", "P2", "D2", "2030-01-06")
	require.ErrorIs(t, err, clinic.ErrDoctorUnavailable)

	_, err = a.CancelAppointment(ctx, "A1")
	require.NoError(t, err)

	del := findSpan(t, recorder, "clinic.delete_patient")
	require.Equal(t, codes.Error, del.Status().Code)
	require.Equal(t, "referential_integrity", attr(del, tracing.AttrErrorKind))
	require.Equal(t, "P1", attr(del, tracing.AttrEntityID))

	create := findSpan(t, recorder, "clinic.create_appointment")
	require.Equal(t, "doctor_unavailable", attr(create, tracing.AttrErrorKind))

	cancel := findSpan(t, recorder, "clinic.cancel_appointment")
	require.Equal(t, codes.Ok, cancel.Status().Code)

	// The write-through save is a child of the cancel span.
	var save sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "store.save_all" && s.Parent().SpanID() == cancel.SpanContext().SpanID() {
			save = s
		}
	}
	require.NotNil(t, save)
}

func TestCrudThroughApp(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, testConfig(t.TempDir()))

	d, err := clinic.NewDoctor("D1", "John Roe", 45, "Male", "Cardiology", true)
	require.NoError(t, err)
	require.NoError(t, a.AddDoctor(ctx, d))
	p, err := clinic.NewPatient("P1", "Jane Doe", 30, "female", "Flu")
	require.NoError(t, err)
	require.NoError(t, a.AddPatient(ctx, p))

	name := "Janet Doe"
	updated, err := a.UpdatePatient(ctx, "P1", clinic.PatientChanges{Name: &name})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name())

	off := false
	_, err = a.UpdateDoctor(ctx, "D1", clinic.DoctorChanges{Available: &off})
	require.NoError(t, err)
	_, err = a.CreateAppointment(ctx, "A1", "P1", "D1", "2026-10-19")
	require.ErrorIs(t, err, clinic.ErrDoctorUnavailable)

	on := true
	_, err = a.UpdateDoctor(ctx, "D1", clinic.DoctorChanges{Available: &on})
	require.NoError(t, err)
	_, err = a.CreateAppointment(ctx, "A1", "P1", "D1", "2026-10-19")
	require.NoError(t, err)

	moved, err := a.RescheduleAppointment(ctx, "A1", "2026-11-01")
	require.NoError(t, err)
	require.Equal(t, "2026-11-01", moved.DateString())
	require.Len(t, a.AppointmentsFor(ctx, clinic.EntityDoctor, "D1"), 1)

	got, err := a.GetAppointment(ctx, "A1")
	require.NoError(t, err)
	require.Equal(t, "P1", got.PatientID())

	_, err = a.DeleteDoctor(ctx, "D1")
	require.ErrorIs(t, err, clinic.ErrReferentialIntegrity)
	_, err = a.CancelAppointment(ctx, "A1")
	require.NoError(t, err)
	_, err = a.DeleteDoctor(ctx, "D1")
	require.NoError(t, err)

	_, err = a.GetDoctor(ctx, "D1")
	require.ErrorIs(t, err, clinic.ErrNotFound)
	require.Empty(t, a.Doctors(ctx))
	require.Empty(t, a.Appointments(ctx))
	_, err = a.GetPatient(ctx, "P1")
	require.NoError(t, err)
}

func TestClose_WritesMetricsTextfile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Metrics.TextfilePath = filepath.Join(dir, "metrics", "hms.prom")
	a, err := New(ctx, cfg, WithClock(fixedNow))
	require.NoError(t, err)

	_, err = a.GetPatient(ctx, "P404")
	require.ErrorIs(t, err, clinic.ErrNotFound)
	require.NoError(t, a.Close(ctx))

	data, err := os.ReadFile(cfg.Metrics.TextfilePath)
	require.NoError(t, err)
	out := string(data)
	require.Contains(t, out, `hms_operations_total{operation="get_patient",outcome="not_found"} 1`)
	require.NotContains(t, out, `operation="save"`, "nothing changed, so nothing is saved")
	require.Contains(t, out, `hms_entities{entity="patient"} 0`)
}

func TestNew_SQLiteBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := testConfig(dir)
	cfg.Backend = config.BackendSQLite

	a, err := New(ctx, cfg, WithClock(fixedNow))
	require.NoError(t, err)
	require.Equal(t, config.BackendSQLite, a.Backend())
	p, err := clinic.NewPatient("P1", "Jane Doe", 30, "female", "Flu")
	require.NoError(t, err)
	require.NoError(t, a.AddPatient(ctx, p))
	require.NoError(t, a.Close(ctx))

	reopened, err := New(ctx, cfg, WithClock(fixedNow))
	require.NoError(t, err)
	defer func() { _ = reopened.Close(ctx) }()
	require.Len(t, reopened.Patients(ctx), 1)
	require.FileExists(t, filepath.Join(dir, "hms.db"))
}

func TestTracedStore_SaveFailureIsRecorded(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	store := &tracedStore{inner: failingStore{}, tracer: provider.Tracer("test"), backend: "text"}

	err := store.SaveAll(context.Background(), clinic.Snapshot{})

	require.Error(t, err)
	span := recorder.Ended()[0]
	require.Equal(t, "store.save_all", span.Name())
	require.Equal(t, codes.Error, span.Status().Code)
	require.Contains(t, span.Attributes(), attribute.String(tracing.AttrBackend, "text"))
}

type failingStore struct{}

func (failingStore) LoadAll(context.Context) (clinic.Snapshot, clinic.LoadReport, error) {
	return clinic.Snapshot{}, clinic.NewLoadReport(), os.ErrPermission
}

func (failingStore) SaveAll(context.Context, clinic.Snapshot) error { return os.ErrPermission }

func (failingStore) Close() error { return nil }

func TestWithStore_LoadFailure(t *testing.T) {
	_, err := New(context.Background(), testConfig(t.TempDir()), WithStore(failingStore{}, "memory"))

	require.ErrorIs(t, err, os.ErrPermission)
	require.Equal(t, clinic.KindIO, clinic.KindOf(err))
}

func TestReadOnlySessionLeavesFilesUntouched(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	content := []byte("P1|Jane Doe|30|female|Flu\nP2|Bob|abc|Male|Cold\n")
	path := filepath.Join(dir, "patients.txt")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	a, err := New(ctx, testConfig(dir), WithClock(fixedNow))
	require.NoError(t, err)
	require.Equal(t, 1, a.LoadReport().SkippedCount())
	require.Len(t, a.Patients(ctx), 1)
	_, err = a.GetPatient(ctx, "P404")
	require.ErrorIs(t, err, clinic.ErrNotFound)
	require.NoError(t, a.Close(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, content, data)
	require.NoFileExists(t, filepath.Join(dir, "doctors.txt"))
}

func TestLongRecordSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	cfg := testConfig(dir)

	first, err := New(ctx, cfg, WithClock(fixedNow))
	require.NoError(t, err)
	short, err := clinic.NewPatient("P1", "Jane Doe", 30, "female", "Flu")
	require.NoError(t, err)
	long, err := clinic.NewPatient("P2", "Bob Roe", 41, "male", strings.Repeat("x", 70*1024))
	require.NoError(t, err)
	require.NoError(t, first.AddPatient(ctx, short))
	require.NoError(t, first.AddPatient(ctx, long))
	require.NoError(t, first.Close(ctx))
	before, err := os.ReadFile(filepath.Join(dir, "patients.txt"))
	require.NoError(t, err)

	second, err := New(ctx, cfg, WithClock(fixedNow))
	require.NoError(t, err)
	require.Empty(t, second.LoadReport().Failed)
	require.Len(t, second.Patients(ctx), 2)
	require.NoError(t, second.Close(ctx))

	after, err := os.ReadFile(filepath.Join(dir, "patients.txt"))
	require.NoError(t, err)
	require.Equal(t, before, after)
}

// unreadPatientsStore reports the patient store as unreadable on every load.
type unreadPatientsStore struct {
	saves int
}

func (s *unreadPatientsStore) LoadAll(context.Context) (clinic.Snapshot, clinic.LoadReport, error) {
	report := clinic.NewLoadReport()
	report.Failed[clinic.EntityPatient] = errors.New("input/output error")
	return clinic.Snapshot{}, report, nil
}

func (s *unreadPatientsStore) SaveAll(context.Context, clinic.Snapshot) error {
	s.saves++
	return nil
}

func (s *unreadPatientsStore) Close() error { return nil }

func TestUnreadStoreIsNotOverwritten(t *testing.T) {
	ctx := context.Background()
	store := &unreadPatientsStore{}
	a, err := New(ctx, testConfig(t.TempDir()), WithStore(store, "memory"), WithClock(fixedNow))
	require.NoError(t, err)

	d, err := clinic.NewDoctor("D1", "John Roe", 45, "male", "Cardiology", true)
	require.NoError(t, err)
	err = a.AddDoctor(ctx, d)
	require.ErrorIs(t, err, clinic.ErrUnreadStore)
	require.Equal(t, clinic.KindIO, clinic.KindOf(err))

	_, err = a.GetDoctor(ctx, "D1")
	require.NoError(t, err, "the change stays in memory")
	require.ErrorIs(t, a.Close(ctx), clinic.ErrUnreadStore)
	require.Zero(t, store.saves)
}
