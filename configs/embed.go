// Package configs provides the embedded configuration template for
// scentmatch. Embedding at build time keeps the template available in
// source builds and binary releases alike; `scentmatch config init`
// writes it out as a starting point.
package configs

import _ "embed"

// ConfigTemplate is the annotated scentmatch.yaml starting point.
//
//go:embed scentmatch.example.yaml
var ConfigTemplate string
