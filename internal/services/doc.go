// Package services talks to the two remote systems setlistr depends on.
//
// # Spotify
//
// [SpotifyService] builds the consent URL, exchanges the authorization code with [oauth2], and calls the Web API
// with a bearer token passed in on every call. It keeps no token state of its own; the session that owns the token
// lives in the tasks package.
//
// # setlist.fm
//
// [SetlistService] fetches search and event pages, paced by a [rate.Limiter], and hands the bodies to the
// scraper package for extraction.
//
// # Error Handling
//
// Failures carry request context in typed errors:
//   - [APIError] matches [shared.ErrAPIRequest]
//   - [FetchError] matches [shared.ErrFetch]
//   - Exchange failures wrap [shared.ErrAuthFailed]
package services
