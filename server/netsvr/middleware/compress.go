package middleware

import (
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// encoder 是 *zstd.Encoder 與 *gzip.Writer 的共同行為
type encoder interface {
	io.Writer
	Flush() error
	Close() error
	Reset(w io.Writer)
}

type codec struct {
	name string
	pool sync.Pool
}

// 依偏好順序排列：zstd 比 gzip 快，客戶端兩者都接受時用 zstd
var codecs = []*codec{
	{name: "zstd", pool: sync.Pool{New: func() any {
		zw, err := zstd.NewWriter(nil,
			zstd.WithEncoderLevel(zstd.SpeedFastest),
			zstd.WithEncoderConcurrency(1),
		)
		if err != nil {
			panic(err)
		}
		return zw
	}}},
	{name: "gzip", pool: sync.Pool{New: func() any {
		gw, _ := gzip.NewWriterLevel(nil, gzip.DefaultCompression)
		return gw
	}}},
}

// negotiate 從 Accept-Encoding 挑出第一個支援的編碼；q=0 視為拒絕
func negotiate(header string) *codec {
	if header == "" {
		return nil
	}
	accepted := map[string]bool{}
	for _, part := range strings.Split(header, ",") {
		name, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		name = strings.ToLower(strings.TrimSpace(name))
		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		if q == "q=0" || q == "q=0.0" || q == "q=0.00" || q == "q=0.000" {
			continue
		}
		accepted[name] = true
	}
	for _, c := range codecs {
		if accepted[c.name] || accepted["*"] {
			return c
		}
	}
	return nil
}

func noBody(code int) bool {
	return (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified
}

type compressWriter struct {
	http.ResponseWriter
	enc         encoder
	off         bool
	wroteHeader bool
}

func (cw *compressWriter) WriteHeader(code int) {
	if cw.wroteHeader {
		return
	}
	cw.wroteHeader = true
	h := cw.Header()
	h.Del("Content-Length")
	if noBody(code) {
		cw.off = true
		h.Del("Content-Encoding")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if !cw.wroteHeader {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(b))
		}
		cw.WriteHeader(http.StatusOK)
	}
	if cw.off {
		return cw.ResponseWriter.Write(b)
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) Flush() {
	if !cw.off {
		_ = cw.enc.Flush()
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (cw *compressWriter) Unwrap() http.ResponseWriter { return cw.ResponseWriter }

// Compression 依 Accept-Encoding 以 zstd 或 gzip 壓縮回應。
//
// HEAD、連線升級、已自行編碼的回應不處理；204/304/1xx 與沒有 body 的回應
// 會拿掉 Content-Encoding，壓縮器的結尾資料寫進 io.Discard。
func Compression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || r.Header.Get("Upgrade") != "" || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Add("Vary", "Accept-Encoding")
		c := negotiate(r.Header.Get("Accept-Encoding"))
		if c == nil {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("Content-Encoding", c.name)
		enc := c.pool.Get().(encoder)
		enc.Reset(w)
		cw := &compressWriter{ResponseWriter: w, enc: enc}
		defer func() {
			if !cw.wroteHeader {
				w.Header().Del("Content-Encoding")
				cw.off = true
			}
			if cw.off {
				enc.Reset(io.Discard)
			}
			_ = enc.Close()
			// 放回 pool 前斷開與這次回應的關聯
			enc.Reset(io.Discard)
			c.pool.Put(enc)
		}()
		next.ServeHTTP(cw, r)
	})
}
