// Package models defines the records that flow between the setlist scraper, the Spotify client and the playlist pipeline.
//
// The package contains two categories of types:
//
// 1. Value records, built by one stage and read by the next:
//   - [SetlistSummary] : one search result, addressed by its position in the result list
//   - [SetlistDetail] : the selected event with its ordered [Song] list
//   - [AuthSession] and [UserProfile] : the outcome of one authorization attempt
//   - [Track] and [PlaylistResolutionResult] : what synthesis produced
//
// 2. Persistent entities: [SynthesisRecord] stores one playlist creation attempt.
//
// Song order is preserved from extraction through resolution so failures can be reported in setlist order.
package models
