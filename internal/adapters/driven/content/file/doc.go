// Package file provides the on-disk content store.
//
// A downloaded override lives at <dataDir>/ArchiTips_v1.json and is replaced
// atomically: the new bytes are written to a temporary file in the same
// directory, synced, and renamed over the old file. Without an override,
// reads fall back to a configured bundled file or to the copy embedded in
// the binary.
package file
