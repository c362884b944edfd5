package middleware

import (
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

type brotliWriter struct {
	gin.ResponseWriter
	writer *brotli.Writer
}

func (bw *brotliWriter) Write(data []byte) (int, error) {
	return bw.writer.Write(data)
}

func (bw *brotliWriter) WriteString(s string) (int, error) {
	return bw.writer.Write([]byte(s))
}

// Brotli compresses responses for clients that advertise br support.
// WebSocket upgrade requests are passed through untouched: the handshake
// fails if the response writer is wrapped.
func Brotli() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") || !acceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")
		c.Header("Content-Encoding", "br")
		c.Writer.Header().Del("Content-Length")

		bw := &brotliWriter{
			ResponseWriter: c.Writer,
			writer:         brotli.NewWriterLevel(c.Writer, brotli.DefaultCompression),
		}
		c.Writer = bw
		defer bw.writer.Close()

		c.Next()
	}
}

func acceptsBrotli(r *http.Request) bool {
	ae := r.Header.Get("Accept-Encoding")
	for _, enc := range strings.Split(ae, ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
