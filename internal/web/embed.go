// Package web holds the embedded single-page control panel.
package web

import _ "embed"

//go:embed index.html
var IndexHTML []byte
