// Package catalog models the pre-built 3D asset catalog and scores assets
// against a concept graph by keyword overlap. Manifests load from raw JSON
// or from a remote bucket (see catalog/gcs).
package catalog
