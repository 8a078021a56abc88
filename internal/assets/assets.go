// Package assets holds files compiled into the binary.
package assets

import _ "embed"

// Content is the bundled category list used until remote content is downloaded.
//
//go:embed content.json
var Content []byte
