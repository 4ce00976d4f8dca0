package wire

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

// preference breaks q-value ties.
var preference = []string{"gzip", "deflate", "br"}

// negotiate picks a response coding from an Accept-Encoding value, or ""
// for identity.
func negotiate(accept string) string {
	if strings.TrimSpace(accept) == "" {
		return ""
	}
	q := map[string]float64{}
	wildcard := -1.0
	for _, part := range strings.Split(accept, ",") {
		name, weight := parseCoding(part)
		if name == "" {
			continue
		}
		if name == "*" {
			wildcard = weight
			continue
		}
		q[name] = weight
	}

	best, bestQ := "", 0.0
	for _, c := range preference {
		w, ok := q[c]
		if !ok {
			if wildcard < 0 {
				continue
			}
			w = wildcard
		}
		if w > bestQ {
			best, bestQ = c, w
		}
	}
	return best
}

func parseCoding(part string) (string, float64) {
	fields := strings.Split(part, ";")
	name := strings.ToLower(strings.TrimSpace(fields[0]))
	weight := 1.0
	for _, p := range fields[1:] {
		p = strings.TrimSpace(p)
		if len(p) > 2 && (p[0] == 'q' || p[0] == 'Q') && p[1] == '=' {
			if v, err := strconv.ParseFloat(p[2:], 64); err == nil {
				weight = v
			}
		}
	}
	return name, weight
}

func compress(coding string, body []byte) ([]byte, error) {
	var buf bytes.Buffer
	var w io.WriteCloser
	switch coding {
	case "gzip":
		w = gzip.NewWriter(&buf)
	case "deflate":
		w = zlib.NewWriter(&buf)
	case "br":
		w = brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	default:
		return body, nil
	}
	if _, err := w.Write(body); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
