// Package file keeps key-value data in TOML files under the data directory.
//
// The same ConfigStore type backs two files:
//   - config.toml: user settings, edited via 'architips settings'
//   - ledger.toml: per-category unlock state and the first-launch flag
package file
