// Package locmatch reconciles free-text venue names from imported
// spreadsheets against a catalog of canonical locations.
//
// Matching is a pure function of the search name and the catalog:
//   - Normalize: case-fold, trim and collapse whitespace
//   - ParseNameParts: split "Base (Suffix)" / "Base - Suffix" branch qualifiers
//   - ExtractKeyWords / ExtractPrimaryName: significant words and article-free base
//   - CalculateSimilarity: keyword overlap score in [0,1]
//   - MatchLocation / Explain: candidate generation and acceptance
//
// Nothing here mutates its inputs or keeps state between calls, so a batch
// of names may be matched concurrently against one shared catalog.
package locmatch
