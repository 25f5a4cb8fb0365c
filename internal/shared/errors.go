package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authentication errors
	ErrAuthFailed       = fmt.Errorf("authentication failed")
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrTimeout          = fmt.Errorf("operation timed out")
	ErrStateMismatch    = fmt.Errorf("state parameter mismatch")

	// Scraping errors
	ErrFetch = fmt.Errorf("page fetch failed")
	ErrParse = fmt.Errorf("page shape not recognized")

	// API and pipeline errors
	ErrAPIRequest   = fmt.Errorf("API request failed")
	ErrSynthesis    = fmt.Errorf("playlist synthesis failed")
	ErrNoSongsAdded = fmt.Errorf("no songs added")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrNoSelection     = fmt.Errorf("no setlist selected")
)
