package gateway

import "io"

// requestOptions holds per-call overrides.
type requestOptions struct {
	body           any
	rawBody        io.Reader
	rawContentType string
	headers        map[string]string
	skipRateLimit  bool
}

// RequestOption configures a single Execute call.
type RequestOption func(*requestOptions)

// WithBody attaches a structured JSON body. Keys are translated to the
// wire naming convention before serialization.
func WithBody(body any) RequestOption {
	return func(ro *requestOptions) {
		ro.body = body
	}
}

// WithRawBody attaches an opaque body that is sent untouched, bypassing
// the wire naming translation. contentType may be empty for bodies whose
// content type is negotiated by the transport; multipart callers pass
// their writer's FormDataContentType.
func WithRawBody(body io.Reader, contentType string) RequestOption {
	return func(ro *requestOptions) {
		ro.rawBody = body
		ro.rawContentType = contentType
	}
}

// WithHeader adds a request header. The identity header cannot be
// overridden.
func WithHeader(key, value string) RequestOption {
	return func(ro *requestOptions) {
		if ro.headers == nil {
			ro.headers = make(map[string]string)
		}
		ro.headers[key] = value
	}
}

// WithoutRateLimit bypasses the admission check for this call. This is
// a caller-declared exception for high-priority calls, not a limiter
// feature.
func WithoutRateLimit() RequestOption {
	return func(ro *requestOptions) {
		ro.skipRateLimit = true
	}
}

func buildRequestOptions(opts []RequestOption) requestOptions {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}
	return ro
}
