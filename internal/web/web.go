// Package web holds the browser viewer served at /.
package web

import _ "embed"

// IndexHTML is the viewer page. It speaks the JSON frame/gesture protocol
// over /ws and can pull the monitor audio over /offer.
//
//go:embed index.html
var IndexHTML []byte
