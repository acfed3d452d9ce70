package core

import "net/http"

type Params map[string]any

// Request is a fully built exchange call. Body is the encoded payload and is
// transmitted byte-for-byte as it was signed.
type Request struct {
	Method      string            `json:"method"`
	Path        string            `json:"path"`
	Body        string            `json:"body,omitempty"`
	Nonce       string            `json:"nonce,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	Weight      int               `json:"weight"`
	RequireAuth bool              `json:"require_auth"`
}

func NewRequest(method, path string) *Request {
	return &Request{
		Method:  method,
		Path:    path,
		Headers: make(map[string]string),
		Weight:  1,
	}
}

// NewFormRequest creates a POST request carrying a url-encoded form body.
func NewFormRequest(path, body string) *Request {
	return NewRequest(http.MethodPost, path).
		SetBody(body).
		SetHeader("Content-Type", "application/x-www-form-urlencoded")
}

func (r *Request) SetBody(body string) *Request {
	r.Body = body
	return r
}

func (r *Request) SetNonce(nonce string) *Request {
	r.Nonce = nonce
	return r
}

func (r *Request) SetHeader(key, value string) *Request {
	if r.Headers == nil {
		r.Headers = make(map[string]string)
	}
	r.Headers[key] = value
	return r
}

func (r *Request) SetWeight(weight int) *Request {
	r.Weight = weight
	return r
}

func (r *Request) SetRequireAuth(require bool) *Request {
	r.RequireAuth = require
	return r
}
