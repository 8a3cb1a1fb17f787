// Package resultstore keeps analysis runs in SQLite so reports can be
// re-printed without re-scanning the corpus.
//
// Each run stores its parameters and every per-transcript result (loanword
// counts and entropy scores). The report tables are rebuilt from those rows
// with analysis.BuildReport.
package resultstore
