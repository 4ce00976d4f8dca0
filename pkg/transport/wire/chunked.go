package wire

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

var errChunkFormat = errors.New("invalid chunk format")

// readChunked aggregates a chunked body, failing once the running total
// would pass limit. Trailers are read and discarded; together they may not
// exceed maxTrailer bytes.
func readChunked(br *bufio.Reader, limit int64, maxLine, maxTrailer int) ([]byte, error) {
	var body bytes.Buffer
	for {
		size, err := readChunkSize(br, maxLine)
		if err != nil {
			return nil, malformed("chunk size", err)
		}
		if size == 0 {
			if err := discardTrailers(br, maxLine, maxTrailer); err != nil {
				return nil, malformed("chunk trailer", err)
			}
			return body.Bytes(), nil
		}
		if int64(body.Len())+size > limit {
			return nil, &OversizedRequestError{Limit: limit, Declared: -1}
		}
		if _, err := io.CopyN(&body, br, size); err != nil {
			return nil, malformed("short chunk", err)
		}
		if err := expectCRLF(br); err != nil {
			return nil, malformed("chunk boundary", err)
		}
	}
}

func readChunkSize(br *bufio.Reader, maxLine int) (int64, error) {
	line, _, err := readLineLimit(br, maxLine)
	if err != nil {
		return 0, err
	}
	// Strip chunk extensions if any: "<hex>;<ext>"
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" || len(line) > 16 || !isHex(line) {
		return 0, errChunkFormat
	}
	n, err := strconv.ParseInt(line, 16, 64)
	if err != nil || n < 0 {
		return 0, errChunkFormat
	}
	return n, nil
}

func expectCRLF(br *bufio.Reader) error {
	b1, err := br.ReadByte()
	if err != nil {
		return err
	}
	b2, err := br.ReadByte()
	if err != nil {
		return err
	}
	if b1 != '\r' || b2 != '\n' {
		return fmt.Errorf("expected CRLF after chunk, got %q%q", b1, b2)
	}
	return nil
}

func discardTrailers(br *bufio.Reader, maxLine, maxTotal int) error {
	total := 0
	for {
		line, n, err := readLineLimit(br, maxLine)
		if err != nil {
			return err
		}
		total += n
		if total > maxTotal {
			return errHeaderTooLarge
		}
		if line == "" {
			return nil
		}
	}
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
