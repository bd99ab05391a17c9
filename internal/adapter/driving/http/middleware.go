package httphandler

import (
	"log/slog"
	"net/http"
	"time"
)

// responseRecorder tracks what a handler has written so far.
type responseRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (rr *responseRecorder) WriteHeader(status int) {
	if rr.wroteHeader {
		return
	}
	rr.status = status
	rr.wroteHeader = true
	rr.ResponseWriter.WriteHeader(status)
}

func (rr *responseRecorder) Write(p []byte) (int, error) {
	if !rr.wroteHeader {
		rr.WriteHeader(http.StatusOK)
	}
	n, err := rr.ResponseWriter.Write(p)
	rr.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer, which the
// event stream needs for Flush and SetWriteDeadline.
func (rr *responseRecorder) Unwrap() http.ResponseWriter {
	return rr.ResponseWriter
}

// loggingMiddleware logs one line per request once the handler returns.
// Server errors are logged at warn level, event streams at debug.
func loggingMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rr := &responseRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rr, r)

		level := slog.LevelInfo
		switch {
		case rr.status >= http.StatusInternalServerError:
			level = slog.LevelWarn
		case rr.Header().Get("Content-Type") == "text/event-stream":
			level = slog.LevelDebug
		}

		logger.Log(r.Context(), level, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rr.status,
			"bytes", rr.bytes,
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

// recoveryMiddleware turns a handler panic into a 500 response. When the
// handler already started its response only the log line is written.
func recoveryMiddleware(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rr, ok := w.(*responseRecorder)
		if !ok {
			rr = &responseRecorder{ResponseWriter: w, status: http.StatusOK}
		}

		defer func() {
			v := recover()
			if v == nil {
				return
			}
			logger.Error("panic recovered", "panic", v, "method", r.Method, "path", r.URL.Path)
			if !rr.wroteHeader {
				writeError(rr, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(rr, r)
	})
}
