// Package scanner derives a package's dependency edges by statically
// scanning its source tree for import/export/require targets, classifying
// each normalized module name as internal to the monorepo or external.
//
// Extraction is regex-based. Targets containing quotes or template
// interpolation markers cannot be statically resolved and are skipped;
// this is a documented precision trade-off, not a bug.
package scanner
