package middleware

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
)

// Gzip compresses response bodies for clients that accept it. WebSocket
// upgrades and paths listed in skip are passed through untouched.
func Gzip(level int, skip ...string) gin.HandlerFunc {
	if _, err := gzip.NewWriterLevel(nil, level); err != nil {
		level = gzip.DefaultCompression
	}
	pool := &sync.Pool{New: func() any {
		gz, _ := gzip.NewWriterLevel(nil, level)
		return gz
	}}
	excluded := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		excluded[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if !acceptsGzip(c) {
			c.Next()
			return
		}
		if _, ok := excluded[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		w := &gzipWriter{ResponseWriter: c.Writer, pool: pool}
		c.Writer = w
		defer w.close()
		c.Next()
	}
}

func acceptsGzip(c *gin.Context) bool {
	if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
		return false
	}
	return strings.Contains(c.GetHeader("Accept-Encoding"), "gzip")
}

// gzipWriter starts compressing on the first body write, so empty
// responses such as 204 carry no gzip framing.
type gzipWriter struct {
	gin.ResponseWriter
	pool        *sync.Pool
	gz          *gzip.Writer
	passthrough bool
}

func (w *gzipWriter) start() {
	h := w.Header()
	if h.Get("Content-Encoding") != "" {
		w.passthrough = true
		return
	}
	h.Set("Content-Encoding", "gzip")
	h.Add("Vary", "Accept-Encoding")
	h.Del("Content-Length")
	w.gz = w.pool.Get().(*gzip.Writer)
	w.gz.Reset(w.ResponseWriter)
}

func (w *gzipWriter) Write(b []byte) (int, error) {
	if w.gz == nil && !w.passthrough {
		w.start()
	}
	if w.passthrough {
		return w.ResponseWriter.Write(b)
	}
	return w.gz.Write(b)
}

func (w *gzipWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *gzipWriter) Flush() {
	if w.gz != nil {
		_ = w.gz.Flush()
	}
	w.ResponseWriter.Flush()
}

func (w *gzipWriter) close() {
	if w.gz == nil {
		return
	}
	_ = w.gz.Close()
	w.gz.Reset(nil)
	w.pool.Put(w.gz)
	w.gz = nil
}
