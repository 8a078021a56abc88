// Package memory provides in-memory implementations of driven ports.
//
// They back the CLI when no data directory is wanted and serve as
// test doubles for core services. Each store can be told to fail its
// writes so error paths can be exercised.
package memory
