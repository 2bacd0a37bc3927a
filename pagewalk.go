// Package pagewalk provides a generic, site-agnostic paginated-crawl engine.
// Given a parameterized URL template it fetches successive pages, extracts
// structured records via a pluggable parser, decides when pagination has
// ended via a pluggable continuation predicate, persists results
// incrementally, and reports aggregate run statistics.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, sqlite/), and the
// crawl loop itself lives in crawl/.
package pagewalk
