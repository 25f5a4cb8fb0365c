// Package server provides HTTP routing, middleware, and the loopback listener for the authorization redirect.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] added first runs outermost.
//
// [Mux] registers routes as [http.ServeMux] method patterns, so a wrong method gets 405 and an unregistered path 404
// without reaching the middleware chain.
//
// # Callback Handler
//
// [CallbackHandler] validates the state parameter, captures the authorization code, and sends the result through a
// channel. It only processes one callback. The code exchange itself happens in the caller.
//
// # Listener
//
// [Listener] binds host:port before the browser is opened and serves until the callback asks it to stop.
package server
