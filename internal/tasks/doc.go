// Package tasks orchestrates authorization, setlist selection and playlist synthesis with progress reporting.
//
// # Core Operations
//
//  1. [Authorizer.Authorize] : loopback OAuth flow
//     - Binds the listener, then opens the consent page
//     - Waits for the redirect with a bounded timeout
//     - Exchanges the code and loads the profile and playlist count
//
//  2. [PlaylistEngine.Synthesize] : setlist → private playlist
//     - Creates the playlist, then searches each song in setlist order
//     - Records misses without stopping
//     - Adds the resolved tracks in provider-sized batches
//
//  3. [Session] : the caller-facing surface tying the two together with search and selection
//
// # Progress Reporting
//
// All operations take an optional channel of [ProgressUpdate] values. Sends never block; a full channel drops the
// update and a nil channel disables reporting.
//
// # Errors
//
// Terminal synthesis failures are [*SynthesisError] values that carry the partial result, so callers can tell a
// created but empty playlist apart from no playlist at all.
package tasks
