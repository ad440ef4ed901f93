// Package shared holds helpers used across packages. Its testutil
// subpackage provides transaction fixtures and a buffered slog handler for
// asserting on log output in tests.
package shared
