package wire

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/joeydtaylor/cetty/pkg/codec"
	"github.com/joeydtaylor/cetty/pkg/core"
)

// ContentType is sent on every response, JSON bodies included.
const ContentType = "text/plain"

// Response is a fully buffered HTTP/1.1 response.
type Response struct {
	Status int
	Header core.Header
	Body   []byte
}

// Encoder turns dispatch outcomes into responses.
type Encoder struct {
	Codec       codec.Codec // nil means codec.JSON
	Compression bool
}

// Encode always returns a writable response. A non-nil error means the
// outcome could not be encoded as asked and a 500 was produced instead.
func (e *Encoder) Encode(o core.Outcome, acceptEncoding string) (*Response, error) {
	resp, err := e.body(o)
	resp.Header.Set("Content-Type", ContentType)
	resp.Header.Set("Connection", "close")

	if e.Compression && len(resp.Body) > 0 {
		if coding := negotiate(acceptEncoding); coding != "" {
			if zb, zerr := compress(coding, resp.Body); zerr == nil {
				resp.Body = zb
				resp.Header.Set("Content-Encoding", coding)
			} else if err == nil {
				err = fmt.Errorf("wire: %s compression: %w", coding, zerr)
			}
		}
	}
	resp.Header.Set("Content-Length", strconv.Itoa(len(resp.Body)))
	return resp, err
}

func (e *Encoder) body(o core.Outcome) (*Response, error) {
	switch o.Kind {
	case core.OutcomeText:
		return &Response{Status: http.StatusOK, Header: core.Header{}, Body: []byte(o.Text)}, nil
	case core.OutcomeStructured:
		c := e.Codec
		if c == nil {
			c = codec.JSON
		}
		b, err := c.Marshal(o.Value)
		if err != nil {
			return statusResponse(http.StatusInternalServerError), fmt.Errorf("wire: encode result: %w", err)
		}
		return &Response{Status: http.StatusOK, Header: core.Header{}, Body: b}, nil
	case core.OutcomeNotFound:
		return statusResponse(http.StatusNotFound), nil
	case core.OutcomeBadRequest:
		return statusResponse(http.StatusBadRequest), nil
	case core.OutcomeTooLarge:
		return statusResponse(http.StatusRequestEntityTooLarge), nil
	default:
		return statusResponse(http.StatusInternalServerError), nil
	}
}

// statusResponse carries the status line text as its body, e.g. "404 Not Found".
func statusResponse(code int) *Response {
	return &Response{
		Status: code,
		Header: core.Header{},
		Body:   []byte(StatusLine(code)),
	}
}

func StatusLine(code int) string {
	return strconv.Itoa(code) + " " + http.StatusText(code)
}
