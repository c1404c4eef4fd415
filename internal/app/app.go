// Package app is the composition root. It opens the configured store, builds
// the clinic, and runs every clinic operation inside a span with metrics and
// logging around it.
package app

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/config"
	"github.com/Baselsaber10/Hospital-Management-System/internal/flags"
	"github.com/Baselsaber10/Hospital-Management-System/internal/infrastructure/sqlite"
	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
	"github.com/Baselsaber10/Hospital-Management-System/internal/metrics"
	"github.com/Baselsaber10/Hospital-Management-System/internal/paths"
	"github.com/Baselsaber10/Hospital-Management-System/internal/storage/textfile"
	"github.com/Baselsaber10/Hospital-Management-System/internal/tracing"
)

// Operation names used for span names, metric labels and log lines.
const (
	OpLoad               = "load"
	OpSave               = "save"
	OpAddPatient         = "add_patient"
	OpGetPatient         = "get_patient"
	OpUpdatePatient      = "update_patient"
	OpDeletePatient      = "delete_patient"
	OpListPatients       = "list_patients"
	OpAddDoctor          = "add_doctor"
	OpGetDoctor          = "get_doctor"
	OpUpdateDoctor       = "update_doctor"
	OpDeleteDoctor       = "delete_doctor"
	OpListDoctors        = "list_doctors"
	OpCreateAppointment  = "create_appointment"
	OpGetAppointment     = "get_appointment"
	OpRescheduleAppt     = "reschedule_appointment"
	OpCancelAppointment  = "cancel_appointment"
	OpListAppointments   = "list_appointments"
	OpAppointmentsForRef = "appointments_for"
)

// Option configures New.
type Option func(*options)

type options struct {
	store         clinic.Store
	backend       string
	now           func() time.Time
	tracerOptions []sdktrace.TracerProviderOption
}

// WithStore uses store instead of opening the configured backend.
func WithStore(store clinic.Store, backend string) Option {
	return func(o *options) {
		o.store = store
		o.backend = backend
	}
}

// WithClock overrides the clinic clock.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithTracerOptions appends options to the tracer provider, for example an
// extra span processor.
func WithTracerOptions(opts ...sdktrace.TracerProviderOption) Option {
	return func(o *options) {
		o.tracerOptions = append(o.tracerOptions, opts...)
	}
}

// App wires the clinic to its store, tracing and metrics.
type App struct {
	cfg     config.Config
	flags   *flags.Registry
	clinic  *clinic.Clinic
	store   clinic.Store
	backend string
	tracing *tracing.Provider
	metrics *metrics.Recorder
	report  clinic.LoadReport
	closed  bool
}

// New opens the store named by cfg, loads it and returns the ready App.
// A load that fails (only possible with strict-load, or a cancelled
// context) closes everything it opened.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if cfg.Tracing.Exporter == "file" && cfg.Tracing.FilePath == "" {
		cfg.Tracing.FilePath = config.DefaultTracesFilePath()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	flagValues := flags.Defaults()
	maps.Copy(flagValues, cfg.Flags)
	flagRegistry := flags.New(flagValues)

	store, backend := o.store, o.backend
	if store == nil {
		var err error
		store, backend, err = openStore(cfg)
		if err != nil {
			return nil, err
		}
	}

	provider, err := tracing.NewProvider(tracingConfig(cfg.Tracing), o.tracerOptions...)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize tracing: %w", err)
	}

	traced := &tracedStore{inner: store, tracer: provider.Tracer(), backend: backend}
	a := &App{
		cfg:     cfg,
		flags:   flagRegistry,
		store:   traced,
		backend: backend,
		tracing: provider,
		metrics: metrics.NewRecorder(),
		clinic: clinic.New(traced,
			clinic.WithClock(o.now),
			clinic.WithStrictLoad(flagRegistry.Enabled(flags.FlagStrictLoad)),
			clinic.WithWriteThrough(flagRegistry.Enabled(flags.FlagWriteThrough)),
		),
	}

	if err := a.load(ctx); err != nil {
		_ = provider.Shutdown(context.Background())
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func openStore(cfg config.Config) (clinic.Store, string, error) {
	switch cfg.Backend {
	case config.BackendSQLite:
		path := paths.ResolveDataDir(cfg.ResolvedSQLitePath())
		store, err := sqlite.Open(path)
		if err != nil {
			return nil, "", fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.Info(log.CatApp, "Using sqlite store", "path", path)
		return store, config.BackendSQLite, nil
	default:
		store := textfile.New(cfg.DataDir)
		log.Info(log.CatApp, "Using text store", "dir", store.Files().Dir)
		return store, config.BackendText, nil
	}
}

func tracingConfig(tc config.TracingConfig) tracing.Config {
	return tracing.Config{
		Enabled:      tc.Enabled,
		Exporter:     tc.Exporter,
		FilePath:     tc.FilePath,
		OTLPEndpoint: tc.OTLPEndpoint,
		SampleRate:   tc.SampleRate,
		ServiceName:  tracing.DefaultServiceName,
	}
}

func (a *App) load(ctx context.Context) error {
	return observe(ctx, a, OpLoad, "", "", func(ctx context.Context) error {
		report, err := a.clinic.Load(ctx)
		a.report = report
		for _, rec := range report.Skipped {
			a.metrics.AddSkipped(string(rec.Entity), 1)
		}
		if err != nil {
			return err
		}
		for _, entity := range report.Missing {
			log.Info(log.CatApp, "Store missing, starting empty", "entity", entity)
		}
		for entity, ferr := range report.Failed {
			log.ErrorErr(log.CatApp, "Store unreadable, starting empty and refusing saves", ferr, "entity", entity)
		}
		log.Info(log.CatApp, "Loaded clinic",
			"patients", report.Loaded[clinic.EntityPatient],
			"doctors", report.Loaded[clinic.EntityDoctor],
			"appointments", report.Loaded[clinic.EntityAppointment],
			"skipped", report.SkippedCount())
		return nil
	})
}

// observe runs fn inside a span, records the outcome in metrics and logs it.
func observe(ctx context.Context, a *App, op string, entity clinic.EntityType, id string, fn func(context.Context) error) error {
	start := time.Now()
	ctx, span := tracing.StartOperation(ctx, a.tracing.Tracer(), op, string(entity), id)
	err := fn(ctx)
	kind := clinic.KindOf(err)
	tracing.EndOperation(span, err, kind.String())
	a.metrics.ObserveOperation(op, kind.String(), time.Since(start))
	a.refreshGauges()

	switch kind {
	case clinic.KindNone:
		log.Debug(log.CatClinic, "Operation succeeded", "op", op, "id", id, "trace_id", tracing.TraceIDFromContext(ctx))
	case clinic.KindIO, clinic.KindUnknown:
		log.ErrorErr(log.CatClinic, "Operation failed", err, "op", op, "id", id, "kind", kind)
	default:
		log.Warn(log.CatClinic, "Operation rejected", "op", op, "id", id, "kind", kind, "error", err)
	}
	return err
}

func call[T any](ctx context.Context, a *App, op string, entity clinic.EntityType, id string, fn func(context.Context) (T, error)) (T, error) {
	var result T
	err := observe(ctx, a, op, entity, id, func(ctx context.Context) error {
		var err error
		result, err = fn(ctx)
		return err
	})
	return result, err
}

func (a *App) refreshGauges() {
	snap := a.clinic.Snapshot()
	a.metrics.SetEntityCount(string(clinic.EntityPatient), len(snap.Patients))
	a.metrics.SetEntityCount(string(clinic.EntityDoctor), len(snap.Doctors))
	a.metrics.SetEntityCount(string(clinic.EntityAppointment), len(snap.Appointments))
}

// LoadReport returns the report of the startup load.
func (a *App) LoadReport() clinic.LoadReport {
	return a.report
}

// Backend returns the name of the store backend in use.
func (a *App) Backend() string {
	return a.backend
}

// Flags returns the feature flag registry.
func (a *App) Flags() *flags.Registry {
	return a.flags
}

// Metrics returns the metrics recorder.
func (a *App) Metrics() *metrics.Recorder {
	return a.metrics
}

// AddPatient registers a new patient.
func (a *App) AddPatient(ctx context.Context, p clinic.Patient) error {
	return observe(ctx, a, OpAddPatient, clinic.EntityPatient, p.ID(), func(ctx context.Context) error {
		return a.clinic.AddPatient(ctx, p)
	})
}

// GetPatient returns one patient.
func (a *App) GetPatient(ctx context.Context, id string) (clinic.Patient, error) {
	return call(ctx, a, OpGetPatient, clinic.EntityPatient, id, func(context.Context) (clinic.Patient, error) {
		return a.clinic.GetPatient(id)
	})
}

// UpdatePatient applies changes to a patient.
func (a *App) UpdatePatient(ctx context.Context, id string, changes clinic.PatientChanges) (clinic.Patient, error) {
	return call(ctx, a, OpUpdatePatient, clinic.EntityPatient, id, func(ctx context.Context) (clinic.Patient, error) {
		return a.clinic.UpdatePatient(ctx, id, changes)
	})
}

// DeletePatient removes a patient with no appointments.
func (a *App) DeletePatient(ctx context.Context, id string) (clinic.Patient, error) {
	return call(ctx, a, OpDeletePatient, clinic.EntityPatient, id, func(ctx context.Context) (clinic.Patient, error) {
		return a.clinic.DeletePatient(ctx, id)
	})
}

// Patients lists all patients.
func (a *App) Patients(ctx context.Context) []clinic.Patient {
	ps, _ := call(ctx, a, OpListPatients, clinic.EntityPatient, "", func(context.Context) ([]clinic.Patient, error) {
		return a.clinic.Patients(), nil
	})
	return ps
}

// AddDoctor registers a new doctor.
func (a *App) AddDoctor(ctx context.Context, d clinic.Doctor) error {
	return observe(ctx, a, OpAddDoctor, clinic.EntityDoctor, d.ID(), func(ctx context.Context) error {
		return a.clinic.AddDoctor(ctx, d)
	})
}

// GetDoctor returns one doctor.
func (a *App) GetDoctor(ctx context.Context, id string) (clinic.Doctor, error) {
	return call(ctx, a, OpGetDoctor, clinic.EntityDoctor, id, func(context.Context) (clinic.Doctor, error) {
		return a.clinic.GetDoctor(id)
	})
}

// UpdateDoctor applies changes to a doctor.
func (a *App) UpdateDoctor(ctx context.Context, id string, changes clinic.DoctorChanges) (clinic.Doctor, error) {
	return call(ctx, a, OpUpdateDoctor, clinic.EntityDoctor, id, func(ctx context.Context) (clinic.Doctor, error) {
		return a.clinic.UpdateDoctor(ctx, id, changes)
	})
}

// DeleteDoctor removes a doctor with no appointments.
func (a *App) DeleteDoctor(ctx context.Context, id string) (clinic.Doctor, error) {
	return call(ctx, a, OpDeleteDoctor, clinic.EntityDoctor, id, func(ctx context.Context) (clinic.Doctor, error) {
		return a.clinic.DeleteDoctor(ctx, id)
	})
}

// Doctors lists all doctors.
func (a *App) Doctors(ctx context.Context) []clinic.Doctor {
	ds, _ := call(ctx, a, OpListDoctors, clinic.EntityDoctor, "", func(context.Context) ([]clinic.Doctor, error) {
		return a.clinic.Doctors(), nil
	})
	return ds
}

// CreateAppointment books a patient with a doctor.
func (a *App) CreateAppointment(ctx context.Context, id, patientID, doctorID, date string) (clinic.Appointment, error) {
	return call(ctx, a, OpCreateAppointment, clinic.EntityAppointment, id, func(ctx context.Context) (clinic.Appointment, error) {
		return a.clinic.CreateAppointment(ctx, id, patientID, doctorID, date)
	})
}

// GetAppointment returns one appointment.
func (a *App) GetAppointment(ctx context.Context, id string) (clinic.Appointment, error) {
	return call(ctx, a, OpGetAppointment, clinic.EntityAppointment, id, func(context.Context) (clinic.Appointment, error) {
		return a.clinic.GetAppointment(id)
	})
}

// RescheduleAppointment moves an appointment to a new date.
func (a *App) RescheduleAppointment(ctx context.Context, id, date string) (clinic.Appointment, error) {
	return call(ctx, a, OpRescheduleAppt, clinic.EntityAppointment, id, func(ctx context.Context) (clinic.Appointment, error) {
		return a.clinic.RescheduleAppointment(ctx, id, date)
	})
}

// CancelAppointment removes an appointment.
func (a *App) CancelAppointment(ctx context.Context, id string) (clinic.Appointment, error) {
	return call(ctx, a, OpCancelAppointment, clinic.EntityAppointment, id, func(ctx context.Context) (clinic.Appointment, error) {
		return a.clinic.CancelAppointment(ctx, id)
	})
}

// Appointments lists all appointments.
func (a *App) Appointments(ctx context.Context) []clinic.Appointment {
	as, _ := call(ctx, a, OpListAppointments, clinic.EntityAppointment, "", func(context.Context) ([]clinic.Appointment, error) {
		return a.clinic.Appointments(), nil
	})
	return as
}

// AppointmentsFor lists the appointments of one patient or doctor.
func (a *App) AppointmentsFor(ctx context.Context, entity clinic.EntityType, id string) []clinic.Appointment {
	as, _ := call(ctx, a, OpAppointmentsForRef, entity, id, func(context.Context) ([]clinic.Appointment, error) {
		return a.clinic.AppointmentsFor(entity, id), nil
	})
	return as
}

// Save writes the current state to the store.
func (a *App) Save(ctx context.Context) error {
	return observe(ctx, a, OpSave, "", "", a.clinic.Save)
}

// Flush saves only when a mutation has not reached the store yet, so a
// session that only reads leaves the stored files as they were.
func (a *App) Flush(ctx context.Context) error {
	if !a.clinic.Dirty() {
		log.Debug(log.CatApp, "No unsaved changes")
		return nil
	}
	return a.Save(ctx)
}

// Close flushes unsaved changes, writes the metrics textfile if configured,
// flushes traces and closes the store. Every step runs even if an earlier
// one fails. Calling Close again is a no-op.
func (a *App) Close(ctx context.Context) error {
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	if err := a.Flush(ctx); err != nil {
		errs = append(errs, err)
	}
	if path := a.cfg.Metrics.TextfilePath; path != "" {
		if err := a.metrics.WriteTextfile(path); err != nil {
			log.ErrorErr(log.CatApp, "Failed to write metrics", err, "path", path)
			errs = append(errs, err)
		}
	}
	if err := a.tracing.Shutdown(ctx); err != nil {
		log.ErrorErr(log.CatApp, "Failed to flush traces", err)
		errs = append(errs, err)
	}
	if err := a.store.Close(); err != nil {
		errs = append(errs, fmt.Errorf("failed to close store: %w", err))
	}
	return errors.Join(errs...)
}
