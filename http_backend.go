// Copyright 2025 Agentic World, LLC (Sherin Thomas)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sitemark

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// Response is the result of fetching one URL.
type Response struct {
	// StatusCode is the HTTP status of the response
	StatusCode int
	// Body is the decompressed response body
	Body []byte
	// Headers contains the response headers
	Headers http.Header
	// URL is the normalized URL the response was fetched for
	URL string
}

// IsHTML reports whether the response declares an HTML content type.
// Responses without a Content-Type header are assumed to be HTML.
func (r *Response) IsHTML() bool {
	contentType := strings.ToLower(r.Headers.Get("Content-Type"))
	return contentType == "" ||
		strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "application/xhtml")
}

// httpBackend performs the actual fetching for the crawl engine.
type httpBackend struct {
	Client *http.Client
}

// Init initializes the backend with a cookie-jar-backed client so that
// session cookies set during a crawl are carried to subsequent requests.
func (h *httpBackend) Init(timeout time.Duration) {
	jar, _ := cookiejar.New(nil)
	h.Client = &http.Client{
		Jar:     jar,
		Timeout: timeout,
	}
}

// WithTransport replaces the client's transport. Used by tests to plug in
// a MockTransport.
func (h *httpBackend) WithTransport(rt http.RoundTripper) {
	h.Client.Transport = rt
}

// Fetch performs a GET of the given URL. Non-2xx statuses are returned as
// a Response with no error; the caller decides how to treat them. The
// body is capped at maxBodySize bytes and transcoded to UTF-8 when the
// response declares or is detected to use another charset.
func (h *httpBackend) Fetch(ctx context.Context, u, userAgent string, maxBodySize int, detectCharset bool) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	res, err := h.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	var bodyReader io.Reader = res.Body
	if maxBodySize > 0 {
		bodyReader = io.LimitReader(res.Body, int64(maxBodySize))
	}

	// Transports that bypass net/http's automatic decompression can hand
	// us a still-gzipped body.
	if strings.Contains(strings.ToLower(res.Header.Get("Content-Encoding")), "gzip") {
		gz, err := gzip.NewReader(bodyReader)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress response from %s: %w", u, err)
		}
		defer gz.Close()
		bodyReader = gz
	}

	body, err := io.ReadAll(bodyReader)
	if err != nil {
		return nil, err
	}

	response := &Response{
		StatusCode: res.StatusCode,
		Body:       body,
		Headers:    res.Header,
		URL:        u,
	}
	if err := response.fixCharset(detectCharset); err != nil {
		return nil, err
	}
	return response, nil
}

// fixCharset transcodes the body to UTF-8. The charset comes from the
// Content-Type header when declared; otherwise, with detection enabled,
// it is sniffed from the body bytes.
func (r *Response) fixCharset(detectCharset bool) error {
	if len(r.Body) == 0 {
		return nil
	}

	contentType := strings.ToLower(r.Headers.Get("Content-Type"))
	if strings.Contains(contentType, "image/") ||
		strings.Contains(contentType, "video/") ||
		strings.Contains(contentType, "audio/") ||
		strings.Contains(contentType, "font/") {
		return nil
	}

	if !strings.Contains(contentType, "charset") {
		if !detectCharset {
			return nil
		}
		d := chardet.NewTextDetector()
		best, err := d.DetectBest(r.Body)
		if err != nil {
			return nil
		}
		contentType = "text/plain; charset=" + strings.ToLower(best.Charset)
	}
	if strings.Contains(contentType, "utf-8") || strings.Contains(contentType, "utf8") {
		return nil
	}

	transcoded, err := charset.NewReader(bytes.NewReader(r.Body), contentType)
	if err != nil {
		return err
	}
	body, err := io.ReadAll(transcoded)
	if err != nil {
		return err
	}
	r.Body = body
	return nil
}
