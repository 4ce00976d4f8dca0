package core

import (
	"net/textproto"

	"github.com/joeydtaylor/cetty/pkg/codec"
)

// Header is a multimap keyed by canonical header name.
type Header map[string][]string

func (h Header) Add(k, v string) {
	k = textproto.CanonicalMIMEHeaderKey(k)
	h[k] = append(h[k], v)
}

func (h Header) Set(k, v string) {
	h[textproto.CanonicalMIMEHeaderKey(k)] = []string{v}
}

func (h Header) Get(k string) string {
	if vv := h[textproto.CanonicalMIMEHeaderKey(k)]; len(vv) > 0 {
		return vv[0]
	}
	return ""
}

func (h Header) Values(k string) []string {
	return h[textproto.CanonicalMIMEHeaderKey(k)]
}

func (h Header) Del(k string) {
	delete(h, textproto.CanonicalMIMEHeaderKey(k))
}

// Request is a fully aggregated HTTP request.
type Request struct {
	ConnID     string
	RemoteAddr string

	Method string
	Target string // raw request-line target, query string included
	Proto  string
	Header Header
	Body   []byte
}

// Decode unmarshals the body into v using c. A nil codec means codec.JSONStrict.
func (r *Request) Decode(c codec.Codec, v any) error {
	if c == nil {
		c = codec.JSONStrict
	}
	return c.Unmarshal(r.Body, v)
}
