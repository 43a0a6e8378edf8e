package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"mercator-hq/courier/pkg/proxy"
	"mercator-hq/courier/pkg/proxy/types"
)

// TimeoutMiddleware bounds the handling time of each request. The handler
// runs with a context that expires after timeout; if it has not finished by
// then the client gets 504 and anything the handler writes afterwards is
// discarded.
//
// Handler output is buffered until the handler returns, so a response is
// never half written when the deadline fires.
//
// Example usage:
//
//	handler = TimeoutMiddleware(45 * time.Second)(handler)
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if timeout <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			tw := &timeoutWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicCh := make(chan any, 1)

			go func() {
				defer func() {
					if p := recover(); p != nil {
						panicCh <- p
					}
				}()
				next.ServeHTTP(tw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case p := <-panicCh:
				panic(p)

			case <-done:
				tw.mu.Lock()
				defer tw.mu.Unlock()

				dst := w.Header()
				for k, v := range tw.header {
					dst[k] = v
				}
				if tw.status == 0 {
					tw.status = http.StatusOK
				}
				w.WriteHeader(tw.status)
				_, _ = w.Write(tw.buf.Bytes())

			case <-ctx.Done():
				tw.mu.Lock()
				defer tw.mu.Unlock()
				tw.timedOut = true

				// Client disconnects are not timeouts; nothing can be sent.
				if ctx.Err() != context.DeadlineExceeded {
					return
				}

				_ = proxy.WriteErrorResponse(w, &types.ErrorResponse{
					Error:   "request timeout",
					Details: "the request took too long to complete",
					Type:    types.ErrorTypeGatewayTimeout,
					Code:    types.CodeTransportFailure,
				})
			}
		})
	}
}

// timeoutWriter buffers a handler's response until it completes.
type timeoutWriter struct {
	mu       sync.Mutex
	header   http.Header
	buf      bytes.Buffer
	status   int
	timedOut bool
}

func (tw *timeoutWriter) Header() http.Header {
	return tw.header
}

func (tw *timeoutWriter) Write(p []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut {
		return 0, http.ErrHandlerTimeout
	}
	if tw.status == 0 {
		tw.status = http.StatusOK
	}
	return tw.buf.Write(p)
}

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	if tw.timedOut || tw.status != 0 {
		return
	}
	tw.status = code
}
