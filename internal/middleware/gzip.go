package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriters = sync.Pool{
	New: func() interface{} { return gzip.NewWriter(io.Discard) },
}

// gzipResponseWriter включает сжатие только когда у ответа есть тело
type gzipResponseWriter struct {
	http.ResponseWriter
	gz          *gzip.Writer
	wroteHeader bool
}

func (g *gzipResponseWriter) WriteHeader(code int) {
	if g.wroteHeader {
		return
	}
	g.wroteHeader = true

	if compressible(code, g.Header()) {
		g.Header().Set("Content-Encoding", "gzip")
		g.Header().Add("Vary", "Accept-Encoding")
		g.Header().Del("Content-Length")

		g.gz = gzipWriters.Get().(*gzip.Writer)
		g.gz.Reset(g.ResponseWriter)
	}
	g.ResponseWriter.WriteHeader(code)
}

func (g *gzipResponseWriter) Write(b []byte) (int, error) {
	if !g.wroteHeader {
		g.WriteHeader(http.StatusOK)
	}
	if g.gz == nil {
		return g.ResponseWriter.Write(b)
	}
	return g.gz.Write(b)
}

func (g *gzipResponseWriter) close() {
	if g.gz == nil {
		return
	}
	g.gz.Close()
	gzipWriters.Put(g.gz)
	g.gz = nil
}

// compressible пропускает ответы без тела, уже сжатые ответы и диапазоны:
// Content-Range описывает несжатые байты.
func compressible(code int, h http.Header) bool {
	switch {
	case code < http.StatusOK, code == http.StatusNoContent, code == http.StatusPartialContent:
		return false
	case code >= 300 && code < 400:
		return false
	}
	return h.Get("Content-Encoding") == "" && h.Get("Content-Range") == ""
}

// GzipMiddleware сжимает HTML, CSS и JS, если клиент это поддерживает.
// Редиректы и ответы без тела отдаются как есть.
func GzipMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gw := &gzipResponseWriter{ResponseWriter: w}
		defer gw.close()

		next.ServeHTTP(gw, r)
	})
}
