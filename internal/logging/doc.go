// Package logging wraps Zap with context-aware, leveled logging for croft.
//
// Loggers are created from a Config (level, format, output paths) and carry
// structured fields. Correlation fields attached to a context.Context via
// WithFields travel with every log call that receives that context, so the
// fingerprint, matcher, and coordinator layers do not need to thread request
// metadata explicitly.
//
// A Trace level below Debug is supported for byte-level detail during
// directory scans and graph traversals.
package logging
