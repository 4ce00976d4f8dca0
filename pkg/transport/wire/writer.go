package wire

import (
	"bufio"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// WriteResponse serializes resp and flushes it. It returns the number of
// body bytes written.
func WriteResponse(bw *bufio.Writer, resp *Response) (int, error) {
	if _, err := fmt.Fprintf(bw, "HTTP/1.1 %d %s\r\n", resp.Status, http.StatusText(resp.Status)); err != nil {
		return 0, err
	}
	keys := make([]string, 0, len(resp.Header))
	for k := range resp.Header {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range resp.Header[k] {
			if _, err := fmt.Fprintf(bw, "%s: %s\r\n", k, sanitizeHeaderValue(v)); err != nil {
				return 0, err
			}
		}
	}
	if _, err := bw.WriteString("\r\n"); err != nil {
		return 0, err
	}
	n, err := bw.Write(resp.Body)
	if err != nil {
		return n, err
	}
	return n, bw.Flush()
}

func sanitizeHeaderValue(v string) string {
	if v == "" {
		return v
	}
	// Remove CR/LF and other control chars except HTAB
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
