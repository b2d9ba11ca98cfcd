// Package tracer provides a lightweight tracing abstraction for registry
// lookups, keeping the registry module decoupled from OpenTelemetry APIs.
//
// Implementations:
//   - NoopTracer: for tests (zero overhead)
//   - OTelTracer: OpenTelemetry adapter for production
package tracer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, recording any error that occurred.
	// End must be called exactly once, typically via defer.
	End(err error)

	// SetAttributes adds key-value pairs to the span.
	SetAttributes(attrs ...Attribute)

	// AddEvent records a timestamped event within the span.
	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans for distributed tracing.
// Implementations must be safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Bool creates a boolean attribute.
func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// HashCUI returns a truncated SHA-256 hash of the CUI for safe logging in
// traces. Allows correlation without exposing the identifier itself.
func HashCUI(cui string) string {
	if cui == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(cui))
	return hex.EncodeToString(hash[:8])
}

// Span names used by the registry module.
const (
	SpanLookupBasic = "registry.lookup_basic"
	SpanLookupFull  = "registry.lookup_full"
)

// Attribute keys used by the registry module.
const (
	AttrCUIHash  = "cui_hash"
	AttrCacheHit = "cache.hit"
	AttrFallback = "fallback"
)
