package middleware

import (
	"net/http"

	"github.com/klauspost/compress/gzhttp"
)

// minCompressSize skips gzip for bodies too small to benefit.
const minCompressSize = 1024

// Compress returns a middleware that gzips responses for clients that accept it.
func Compress() (func(http.Handler) http.Handler, error) {
	wrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(minCompressSize))
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return wrapper(next)
	}, nil
}
