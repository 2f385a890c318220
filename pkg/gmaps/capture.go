package gmaps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// errNoBody means the library returned without a response passing through
// the capturing transport.
var errNoBody = errors.New("maps: no response body received")

type captureKey struct{}

// capturedBody receives the response body of the request carrying it.
type capturedBody struct {
	data []byte
}

// captureTransport copies the response body of requests whose context holds
// a *capturedBody, and hands the library an identical reader.
type captureTransport struct {
	base http.RoundTripper
}

func (t *captureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return resp, err
	}
	dst, ok := req.Context().Value(captureKey{}).(*capturedBody)
	if !ok {
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	dst.data = data
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

// withCapture returns a shallow copy of c whose transport keeps response bodies.
func withCapture(c *http.Client) *http.Client {
	base := c.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *c
	wrapped.Transport = &captureTransport{base: base}
	return &wrapped
}

// fetch runs call with body capture enabled and returns the named top-level
// field of the response, or the whole body when field is empty.
func fetch(ctx context.Context, field string, call func(context.Context) error) (json.RawMessage, error) {
	dst := &capturedBody{}
	if err := call(context.WithValue(ctx, captureKey{}, dst)); err != nil {
		return nil, err
	}
	if dst.data == nil {
		return nil, errNoBody
	}
	return extract(dst.data, field)
}

// extract slices field out of body without re-encoding it.
func extract(body []byte, field string) (json.RawMessage, error) {
	body = bytes.TrimSpace(body)
	if field == fieldBody {
		return json.RawMessage(body), nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	raw, ok := envelope[field]
	if !ok {
		return json.RawMessage("null"), nil
	}
	return raw, nil
}
