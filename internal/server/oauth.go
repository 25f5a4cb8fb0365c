package server

import (
	"fmt"
	"html"
	"net/http"
	"sync"

	"github.com/desertthunder/setlistr/internal/shared"
)

// CallbackResult is the outcome of the authorization redirect.
type CallbackResult struct {
	Code string
	Err  error
}

// CallbackHandler receives the provider's redirect and captures the authorization code.
//
// Only the first callback is processed. Its outcome is delivered once on [CallbackHandler.Result], and onDone runs
// after the response has been written.
type CallbackHandler struct {
	path        string
	state       string
	resultChan  chan CallbackResult
	once        sync.Once
	callbackHit bool
	mu          sync.Mutex
	onDone      func()
}

// NewCallbackHandler creates a handler for path that expects state on the redirect.
//
// An empty state disables the check.
func NewCallbackHandler(path, state string, onDone func()) *CallbackHandler {
	if path == "" {
		path = "/callback"
	}
	return &CallbackHandler{
		path:       path,
		state:      state,
		resultChan: make(chan CallbackResult, 1),
		onDone:     onDone,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *CallbackHandler) Routes() []string {
	return []string{h.path}
}

// ServeHTTP handles the redirect request.
func (h *CallbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.mu.Lock()
	if h.callbackHit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.callbackHit = true
	h.mu.Unlock()

	if h.onDone != nil {
		defer h.onDone()
	}

	query := r.URL.Query()

	if h.state != "" && query.Get("state") != h.state {
		h.Send(CallbackResult{Err: fmt.Errorf("%w: %w", shared.ErrAuthFailed, shared.ErrStateMismatch)})
		writePage(w, http.StatusBadRequest, "Authorization Failed", "The request could not be verified. Return to the terminal and try again.")
		return
	}

	if errParam := query.Get("error"); errParam != "" {
		h.Send(CallbackResult{Err: fmt.Errorf("%w: provider returned %q", shared.ErrAuthFailed, errParam)})
		writePage(w, http.StatusBadRequest, "Authorization Failed", "Access was not granted: "+errParam)
		return
	}

	code := query.Get("code")
	if code == "" {
		h.Send(CallbackResult{Err: fmt.Errorf("%w: redirect has no authorization code", shared.ErrAuthFailed)})
		writePage(w, http.StatusBadRequest, "Authorization Failed", "No authorization code was received.")
		return
	}

	h.Send(CallbackResult{Code: code})
	writePage(w, http.StatusOK, "✓ Authorization Successful", "You can close this window and return to the terminal.")
}

// Send delivers the result through the channel (only once).
func (h *CallbackHandler) Send(result CallbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the result channel.
//
// Channel will receive exactly one result and then be closed.
func (h *CallbackHandler) Result() <-chan CallbackResult {
	return h.resultChan
}

func writePage(w http.ResponseWriter, status int, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>%[1]s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%[1]s</h1>
        <p>%[2]s</p>
    </div>
</body>
</html>
`, html.EscapeString(title), html.EscapeString(message))
}
