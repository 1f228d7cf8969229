package client

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/net/http/httpguts"
)

// Request describes one logical API call. It is immutable: every With*
// method returns a modified copy, so a Request can be shared and reused as
// a template.
type Request struct {
	method     string
	path       string
	pathParams map[string]string
	query      url.Values
	headers    http.Header
	body       any
	apiVersion string
	noCache    bool
}

// NewRequest creates a request for method and a path template relative to
// the API version root, e.g. "list/{list_id}/task".
func NewRequest(method, path string) *Request {
	return &Request{
		method: strings.ToUpper(method),
		path:   strings.TrimPrefix(path, "/"),
	}
}

func (r *Request) clone() *Request {
	c := *r
	if r.pathParams != nil {
		c.pathParams = make(map[string]string, len(r.pathParams))
		for k, v := range r.pathParams {
			c.pathParams[k] = v
		}
	}
	if r.query != nil {
		c.query = make(url.Values, len(r.query))
		for k, v := range r.query {
			c.query[k] = append([]string(nil), v...)
		}
	}
	if r.headers != nil {
		c.headers = r.headers.Clone()
	}
	return &c
}

// WithPathParam binds a {name} placeholder in the path template.
func (r *Request) WithPathParam(name, value string) *Request {
	c := r.clone()
	if c.pathParams == nil {
		c.pathParams = make(map[string]string)
	}
	c.pathParams[name] = value
	return c
}

// WithQuery sets a query parameter. Empty values are dropped, and a key
// with no remaining values is removed, so optional filters can be passed
// unconditionally.
func (r *Request) WithQuery(key string, values ...string) *Request {
	c := r.clone()
	if c.query == nil {
		c.query = make(url.Values)
	}
	kept := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			kept = append(kept, v)
		}
	}
	if len(kept) == 0 {
		c.query.Del(key)
		return c
	}
	c.query[key] = kept
	return c
}

// WithQueryBool sets key to "true" or "false".
func (r *Request) WithQueryBool(key string, v bool) *Request {
	return r.WithQuery(key, strconv.FormatBool(v))
}

// WithQueryInt sets key to the decimal form of v.
func (r *Request) WithQueryInt(key string, v int64) *Request {
	return r.WithQuery(key, strconv.FormatInt(v, 10))
}

// WithBody sets a value to be JSON-encoded as the request body.
func (r *Request) WithBody(body any) *Request {
	c := r.clone()
	c.body = body
	return c
}

// WithHeader sets an extra header on the request.
func (r *Request) WithHeader(key, value string) *Request {
	c := r.clone()
	if c.headers == nil {
		c.headers = make(http.Header)
	}
	c.headers.Set(key, value)
	return c
}

// WithAPIVersion overrides the client's default API version ("v2", "v3").
func (r *Request) WithAPIVersion(version string) *Request {
	c := r.clone()
	c.apiVersion = version
	return c
}

// WithoutCache makes a GET skip the response cache.
func (r *Request) WithoutCache() *Request {
	c := r.clone()
	c.noCache = true
	return c
}

// Method returns the HTTP method.
func (r *Request) Method() string { return r.method }

// Path returns the unresolved path template.
func (r *Request) Path() string { return r.path }

// Body returns the body value, or nil.
func (r *Request) Body() any { return r.body }

// Query returns a copy of the query parameters.
func (r *Request) Query() url.Values {
	out := make(url.Values, len(r.query))
	for k, v := range r.query {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Validate checks the method, path and extra headers. The returned error
// matches ErrConfiguration.
func (r *Request) Validate() error {
	err := validation.Errors{
		"method": validation.Validate(r.method,
			validation.Required,
			validation.In(http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete),
		),
		"path":    validation.Validate(r.path, validation.Required),
		"headers": validation.Validate(r.headers, validation.By(validHeaders)),
	}.Filter()
	if err != nil {
		return configError("invalid request: %v", err)
	}
	return nil
}

// validHeaders rejects header names or values net/http would refuse to send.
func validHeaders(value any) error {
	h, _ := value.(http.Header)
	for name, values := range h {
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("invalid header name %q", name)
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return fmt.Errorf("invalid value for header %q", name)
			}
		}
	}
	return nil
}

// ResolvePath substitutes every {name} placeholder with its escaped value.
func (r *Request) ResolvePath() (string, error) {
	var b strings.Builder
	rest := r.path
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		end := strings.IndexByte(rest[open:], '}')
		if end < 0 {
			return "", configError("unterminated placeholder in path %q", r.path)
		}
		name := rest[open+1 : open+end]
		value, ok := r.pathParams[name]
		if !ok || value == "" {
			return "", configError("missing path parameter %q for %q", name, r.path)
		}
		b.WriteString(rest[:open])
		b.WriteString(url.PathEscape(value))
		rest = rest[open+end+1:]
	}
	return b.String(), nil
}

// target returns the versioned, resolved path, e.g. "v2/list/901/task".
func (r *Request) target(defaultVersion string) (string, error) {
	path, err := r.ResolvePath()
	if err != nil {
		return "", err
	}

	version := r.apiVersion
	if version == "" {
		version = defaultVersion
	}
	return version + "/" + path, nil
}

// buildURL joins base and target, then appends the encoded query (keys sorted).
func (r *Request) buildURL(base, target string) string {
	u := strings.TrimRight(base, "/") + "/" + target
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}
	return u
}
