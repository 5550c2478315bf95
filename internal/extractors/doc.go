// Package extractors provides implementations of the TextExtractor
// interface and the Selector that chooses between them.
//
// Extractors are registered with the Selector at startup. A run asks
// the Selector once and uses the chosen extractor for every document.
package extractors
