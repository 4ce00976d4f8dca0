package wire

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/joeydtaylor/cetty/pkg/core"
)

const (
	DefaultMaxBodyBytes       int64 = 512 << 10
	DefaultMaxHeaderLineBytes       = 8 << 10
	DefaultMaxHeaderBytes           = 64 << 10

	maxLeadingBlankLines = 4
)

// Decoder frames one HTTP/1.x request and aggregates its body.
type Decoder struct {
	MaxBodyBytes       int64
	MaxHeaderLineBytes int
	MaxHeaderBytes     int
}

func (d *Decoder) bodyLimit() int64 {
	if d.MaxBodyBytes <= 0 {
		return DefaultMaxBodyBytes
	}
	return d.MaxBodyBytes
}

func (d *Decoder) lineLimit() int {
	if d.MaxHeaderLineBytes <= 0 {
		return DefaultMaxHeaderLineBytes
	}
	return d.MaxHeaderLineBytes
}

func (d *Decoder) headerLimit() int {
	if d.MaxHeaderBytes <= 0 {
		return DefaultMaxHeaderBytes
	}
	return d.MaxHeaderBytes
}

// Decode reads one request from br. When bw is non-nil, an
// "Expect: 100-continue" request that fits the limit gets an interim
// 100 response before its body is read.
//
// io.EOF is returned untouched when the peer closed before sending anything.
func (d *Decoder) Decode(br *bufio.Reader, bw *bufio.Writer) (*core.Request, error) {
	line, err := d.readRequestLine(br)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(line, " ", 3)
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
		return nil, malformed("bad request line", nil)
	}
	method, target, proto := parts[0], parts[1], parts[2]
	if proto != "HTTP/1.1" && proto != "HTTP/1.0" {
		return nil, malformed("unsupported protocol "+strconv.Quote(proto), nil)
	}
	if !isToken(method) {
		return nil, malformed("bad method", nil)
	}

	hdr, err := d.readHeaders(br)
	if err != nil {
		return nil, err
	}
	req := &core.Request{Method: method, Target: target, Proto: proto, Header: hdr}

	chunked, length, err := framing(hdr)
	if err != nil {
		return nil, err
	}
	limit := d.bodyLimit()
	if !chunked && length > limit {
		return nil, &OversizedRequestError{Limit: limit, Declared: length}
	}

	if bw != nil && proto == "HTTP/1.1" && (chunked || length > 0) &&
		strings.EqualFold(hdr.Get("Expect"), "100-continue") {
		if err := writeContinue(bw); err != nil {
			return nil, err
		}
	}

	switch {
	case chunked:
		req.Body, err = readChunked(br, limit, d.lineLimit(), d.headerLimit())
	case length > 0:
		req.Body = make([]byte, length)
		if _, err = io.ReadFull(br, req.Body); err != nil {
			err = malformed("short body", err)
		}
	default:
		req.Body = []byte{}
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (d *Decoder) readRequestLine(br *bufio.Reader) (string, error) {
	for i := 0; i <= maxLeadingBlankLines; i++ {
		line, n, err := readLineLimit(br, d.lineLimit())
		if err != nil {
			if errors.Is(err, io.EOF) && n == 0 && i == 0 {
				return "", io.EOF
			}
			return "", malformed("request line", err)
		}
		if line != "" {
			return line, nil
		}
	}
	return "", malformed("request line", errors.New("too many blank lines"))
}

func (d *Decoder) readHeaders(br *bufio.Reader) (core.Header, error) {
	h := core.Header{}
	total := 0
	for {
		line, n, err := readLineLimit(br, d.lineLimit())
		if err != nil {
			return nil, malformed("headers", err)
		}
		total += n
		if total > d.headerLimit() {
			return nil, malformed("headers", errHeaderTooLarge)
		}
		if line == "" {
			return h, nil
		}
		if line[0] == ' ' || line[0] == '\t' {
			return nil, malformed("obsolete line folding", nil)
		}
		i := strings.IndexByte(line, ':')
		if i <= 0 {
			return nil, malformed("header without colon", nil)
		}
		k := line[:i]
		if !isToken(k) {
			return nil, malformed("invalid header name "+strconv.Quote(k), nil)
		}
		h.Add(k, strings.TrimSpace(line[i+1:]))
	}
}

// framing picks the body source: chunked, Content-Length, or none.
func framing(h core.Header) (chunked bool, length int64, err error) {
	te := h.Values("Transfer-Encoding")
	cl := h.Values("Content-Length")
	if len(te) > 0 {
		if len(cl) > 0 {
			return false, 0, malformed("both Transfer-Encoding and Content-Length", nil)
		}
		codings := strings.Split(strings.Join(te, ","), ",")
		last := strings.ToLower(strings.TrimSpace(codings[len(codings)-1]))
		if last != "chunked" {
			return false, 0, malformed("unsupported transfer-encoding "+strconv.Quote(last), nil)
		}
		return true, -1, nil
	}
	if len(cl) == 0 {
		return false, 0, nil
	}
	length = -1
	for _, v := range strings.Split(strings.Join(cl, ","), ",") {
		v = strings.TrimSpace(v)
		if !isDigits(v) {
			return false, 0, malformed("bad content-length "+strconv.Quote(v), nil)
		}
		n, perr := strconv.ParseInt(v, 10, 64)
		if perr != nil {
			return false, 0, malformed("bad content-length", perr)
		}
		if length >= 0 && n != length {
			return false, 0, malformed("conflicting content-length values", nil)
		}
		length = n
	}
	return false, length, nil
}

func writeContinue(bw *bufio.Writer) error {
	if _, err := bw.WriteString("HTTP/1.1 100 Continue\r\n\r\n"); err != nil {
		return err
	}
	return bw.Flush()
}

var errHeaderTooLarge = errors.New("header block too large")

// readLineLimit reads up to LF, dropping CR. n counts raw bytes consumed.
func readLineLimit(br *bufio.Reader, limit int) (string, int, error) {
	var sb strings.Builder
	n := 0
	for {
		b, err := br.ReadByte()
		if err != nil {
			return "", n, err
		}
		n++
		if b == '\n' {
			break
		}
		if b != '\r' {
			sb.WriteByte(b)
		}
		if limit > 0 && sb.Len() > limit {
			return "", n, io.ErrShortBuffer
		}
	}
	return sb.String(), n, nil
}

// isDigits is true for a non-empty run of ASCII digits; signs are not allowed.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isToken reports whether s is an RFC 7230 token.
func isToken(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case strings.IndexByte("!#$%&'*+-.^_`|~", c) >= 0:
		default:
			return false
		}
	}
	return true
}
