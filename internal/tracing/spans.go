package tracing

// Span attribute keys for clinic operations.
const (
	AttrOperation = "clinic.operation"
	AttrEntity    = "clinic.entity"
	AttrEntityID  = "clinic.entity.id"
	AttrBackend   = "store.backend"

	AttrLoaded  = "load.loaded"
	AttrSkipped = "load.skipped"

	AttrErrorKind    = "error.kind"
	AttrErrorMessage = "error.message"
)

// Span name prefixes.
const (
	SpanPrefixClinic = "clinic."
	SpanPrefixStore  = "store."
)

// Event names for span events.
const (
	EventRecordSkipped = "load.record_skipped"
	EventStoreMissing  = "load.store_missing"
	EventStoreFailed   = "load.store_failed"
)
