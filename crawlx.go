// Package crawlx ingests content from arbitrary web pages and from a fixed
// set of site-specific crawl jobs, normalizes it into structured records,
// and writes those records to a deduplicating sink.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., rod/, sqlite/, trafilatura/).
package crawlx
