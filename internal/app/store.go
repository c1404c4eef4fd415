package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Baselsaber10/Hospital-Management-System/internal/clinic"
	"github.com/Baselsaber10/Hospital-Management-System/internal/log"
	"github.com/Baselsaber10/Hospital-Management-System/internal/tracing"
)

// tracedStore wraps a clinic.Store so every load and save gets its own span,
// including the write-through saves the clinic issues internally.
type tracedStore struct {
	inner   clinic.Store
	tracer  trace.Tracer
	backend string
}

var _ clinic.Store = (*tracedStore)(nil)

func (s *tracedStore) LoadAll(ctx context.Context) (clinic.Snapshot, clinic.LoadReport, error) {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"load_all",
		trace.WithAttributes(attribute.String(tracing.AttrBackend, s.backend)))
	defer span.End()

	start := time.Now()
	snap, report, err := s.inner.LoadAll(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return snap, report, err
	}

	for _, rec := range report.Skipped {
		span.AddEvent(tracing.EventRecordSkipped, trace.WithAttributes(
			attribute.String(tracing.AttrEntity, string(rec.Entity)),
			attribute.Int("line", rec.Line),
			attribute.String(tracing.AttrErrorMessage, rec.Err.Error()),
		))
	}
	for _, entity := range report.Missing {
		span.AddEvent(tracing.EventStoreMissing, trace.WithAttributes(
			attribute.String(tracing.AttrEntity, string(entity))))
	}
	for entity, ferr := range report.Failed {
		span.AddEvent(tracing.EventStoreFailed, trace.WithAttributes(
			attribute.String(tracing.AttrEntity, string(entity)),
			attribute.String(tracing.AttrErrorMessage, ferr.Error()),
		))
	}
	loaded := len(snap.Patients) + len(snap.Doctors) + len(snap.Appointments)
	span.SetAttributes(
		attribute.Int(tracing.AttrLoaded, loaded),
		attribute.Int(tracing.AttrSkipped, report.SkippedCount()),
	)
	span.SetStatus(codes.Ok, "")
	log.Debug(log.CatStore, "Loaded stores", "backend", s.backend, "records", loaded,
		"skipped", report.SkippedCount(), "duration", time.Since(start))
	return snap, report, nil
}

func (s *tracedStore) SaveAll(ctx context.Context, snap clinic.Snapshot) error {
	ctx, span := s.tracer.Start(ctx, tracing.SpanPrefixStore+"save_all",
		trace.WithAttributes(attribute.String(tracing.AttrBackend, s.backend)))
	defer span.End()

	if err := s.inner.SaveAll(ctx, snap); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.ErrorErr(log.CatStore, "Save failed", err, "backend", s.backend)
		return err
	}
	span.SetStatus(codes.Ok, "")
	return nil
}

func (s *tracedStore) Close() error {
	return s.inner.Close()
}
