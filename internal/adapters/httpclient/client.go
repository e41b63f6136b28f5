package httpclient

import (
	"fmt"
	"net/http"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"

	"github.com/devbush/yt2transcript/internal/ports"
)

// Transport kinds accepted by New
const (
	KindStandard = "standard"
	KindBrowser  = "browser"
)

// DefaultTimeout bounds a single transcript request
const DefaultTimeout = 60 * time.Second

// New returns an HTTP client of the given kind
func New(kind string) (ports.HTTPClient, error) {
	switch kind {
	case "", KindStandard:
		return &http.Client{Timeout: DefaultTimeout}, nil
	case KindBrowser:
		return NewBrowser()
	default:
		return nil, fmt.Errorf("unknown transport: %s", kind)
	}
}

// browserClient sends requests through tls-client so the TLS handshake
// looks like a desktop browser. Callers keep working with net/http types;
// requests and responses are converted field by field on the way through.
type browserClient struct {
	inner tls_client.HttpClient
}

// Do implements ports.HTTPClient. The request context is carried over, so
// cancelling it aborts the call.
func (c *browserClient) Do(req *http.Request) (*http.Response, error) {
	resp, err := c.inner.Do(toFHTTPRequest(req))
	if err != nil {
		return nil, err
	}
	return fromFHTTPResponse(resp, req), nil
}

func toFHTTPRequest(req *http.Request) *fhttp.Request {
	out := &fhttp.Request{
		Method:        req.Method,
		URL:           req.URL,
		Proto:         req.Proto,
		ProtoMajor:    req.ProtoMajor,
		ProtoMinor:    req.ProtoMinor,
		Header:        make(fhttp.Header, len(req.Header)),
		Body:          req.Body,
		GetBody:       req.GetBody,
		ContentLength: req.ContentLength,
		Host:          req.Host,
	}
	for k, v := range req.Header {
		out.Header[k] = append([]string(nil), v...)
	}
	return out.WithContext(req.Context())
}

// fromFHTTPResponse keeps the body stream as is; the caller closes it
func fromFHTTPResponse(resp *fhttp.Response, req *http.Request) *http.Response {
	out := &http.Response{
		Status:           resp.Status,
		StatusCode:       resp.StatusCode,
		Proto:            resp.Proto,
		ProtoMajor:       resp.ProtoMajor,
		ProtoMinor:       resp.ProtoMinor,
		Header:           make(http.Header, len(resp.Header)),
		Body:             resp.Body,
		ContentLength:    resp.ContentLength,
		TransferEncoding: resp.TransferEncoding,
		Uncompressed:     resp.Uncompressed,
		Request:          req,
	}
	for k, v := range resp.Header {
		out.Header[k] = v
	}
	return out
}

// NewBrowser returns a client that presents a browser TLS fingerprint
func NewBrowser() (ports.HTTPClient, error) {
	options := []tls_client.HttpClientOption{
		tls_client.WithTimeoutSeconds(int(DefaultTimeout / time.Second)),
		tls_client.WithClientProfile(profiles.DefaultClientProfile),
		tls_client.WithRandomTLSExtensionOrder(),
		tls_client.WithCookieJar(tls_client.NewCookieJar()),
	}

	c, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create tls client: %w", err)
	}

	return &browserClient{inner: c}, nil
}
