// Package extractors provides implementations of the MetricExtractor
// interface. Extractors derive structured hints from parsed documents
// and never fail: content they cannot interpret yields empty metrics.
package extractors
