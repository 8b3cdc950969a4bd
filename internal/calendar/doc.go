// Package calendar holds the pure economic-calendar rules shared by every
// rendering target.
//
// The package classifies inbound records into work events and market
// holidays per language, parses the loosely formatted dates and times the
// upstream feed produces, groups records by civil date and selects the single
// reference week that a generated document covers.
//
// # Leniency
//
// Malformed input never fails a request. A record whose date cannot be parsed
// is dropped from date grouping, and an unparseable time sorts after every
// valid time. Callers that need stricter behavior should validate upstream.
//
// # Reference week
//
// ChooseReferenceMonday scores every Monday by the number of weekday records
// that fall into its week and picks the highest score. Ties are broken by the
// distance to the current week, then by the earlier Monday. The chosen Monday
// must be computed once per output document and reused for every section so
// that all languages describe the same week.
package calendar
