// Package translations selects and applies per-locale translations.
//
// Resolve walks a caller supplied preference list (client ranges followed by
// the configured default range) against a locale catalog and returns the
// first candidate translation backed by a matching locale. The package does
// no I/O: candidates and the catalog are loaded by the caller, and every
// function is safe for concurrent use on shared inputs.
package translations
