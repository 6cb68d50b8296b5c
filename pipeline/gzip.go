package pipeline

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// gzipResponseWriter routes the response body through a gzip writer while
// keeping header writes on the underlying ResponseWriter. Content-Length
// is dropped because the compressed length is unknown up front. A handler
// that set Content-Encoding itself already delivers an encoded body, so
// the writer falls through to the raw ResponseWriter instead of encoding
// it a second time.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	wroteHeader bool
	passthrough bool
}

func (w *gzipResponseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.wroteHeader = true
		if w.Header().Get("Content-Encoding") != "" ||
			code == http.StatusNoContent || code == http.StatusNotModified {
			w.passthrough = true
		} else {
			w.Header().Del("Content-Length")
			w.Header().Set("Content-Encoding", "gzip")
		}
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	return w.gz.Write(b)
}

// Gzip returns middleware that compresses responses for clients sending
// Accept-Encoding: gzip. Upgrade requests and responses a handler has
// already encoded pass through untouched. An invalid level falls back to
// gzip.DefaultCompression.
func Gzip(level int) Middleware {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}

	pool := &sync.Pool{
		New: func() any {
			// Level already validated, NewWriterLevel cannot fail.
			gz, _ := gzip.NewWriterLevel(io.Discard, level)
			return gz
		},
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") ||
				r.Header.Get("Upgrade") != "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Add("Vary", "Accept-Encoding")

			gz := pool.Get().(*gzip.Writer)
			gz.Reset(w)

			grw := &gzipResponseWriter{ResponseWriter: w, gz: gz}
			next.ServeHTTP(grw, r)

			// Closing an unused writer would append an empty gzip stream
			// to a passthrough or empty response.
			if grw.wroteHeader && !grw.passthrough {
				_ = gz.Close()
			}
			pool.Put(gz)
		})
	}
}
