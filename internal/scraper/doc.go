// Package scraper turns setlist.fm markup into [models.SetlistSummary] and [models.SetlistDetail] records.
//
// Both extractors are pure: they read a document and return values, with no network access or state,
// so extracting the same page twice yields identical records.
//
// # Search results
//
// [ExtractSummaries] walks every div.setlistPreview block in document order. Inside a block the
// artist, tour and venue are labelled spans ("Artist:", "Tour:", "Venue:") under div.details, the
// date is split across span.month, span.day and span.year inside div.dateBlock, and the h2 link
// points at the detail page. Missing pieces leave the corresponding field empty.
//
// # Setlist page
//
// [ExtractDetail] requires div.setlistHeadline (artist and venue links) and div.dateBlock. Their
// absence means the page shape changed or an error page was served, and is reported as a [ParseError].
// The tour link in div.infoContainer is optional. Every a.songLabel becomes a [models.Song] in the
// order it appears, which later becomes playlist order.
package scraper
