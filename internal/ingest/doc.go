// Package ingest loads reference dataset bundles and diets from disk.
//
// A dataset bundle is a single YAML (or JSON) document carrying every
// reference table the engine needs, plus a semantic version checked against
// SupportedDatasetRange. Diets are read from YAML/JSON lists or from CSV
// files with a code,amount[,unit] header.
package ingest
