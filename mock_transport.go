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
	"io"
	"net/http"
	"regexp"
	"sync"
	"time"
)

// MockResponse represents a canned HTTP response for tests.
type MockResponse struct {
	// StatusCode is the HTTP status code to return (default: 200)
	StatusCode int
	// Body is the response body content
	Body string
	// Headers are the HTTP headers to include in the response
	Headers http.Header
	// Delay simulates network latency before returning the response
	Delay time.Duration
	// Error simulates a transport-level failure
	Error error
}

type mockPattern struct {
	pattern  *regexp.Regexp
	response *MockResponse
}

// MockTransport implements http.RoundTripper for tests. Responses are
// registered per exact URL or per regex pattern; unregistered URLs get a
// 404. Every request is recorded, so tests can assert which URLs were
// (or were not) fetched.
type MockTransport struct {
	responses map[string]*MockResponse
	patterns  []mockPattern
	requests  []string
	mutex     sync.RWMutex
}

// NewMockTransport creates an empty MockTransport
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string]*MockResponse),
	}
}

// RegisterResponse registers a canned response for an exact URL match
func (m *MockTransport) RegisterResponse(url string, response *MockResponse) {
	normalizeMockResponse(response)
	m.mutex.Lock()
	m.responses[url] = response
	m.mutex.Unlock()
}

// RegisterHTML registers an HTML response with status 200
func (m *MockTransport) RegisterHTML(url, html string) {
	headers := make(http.Header)
	headers.Set("Content-Type", "text/html; charset=utf-8")
	m.RegisterResponse(url, &MockResponse{
		StatusCode: 200,
		Body:       html,
		Headers:    headers,
	})
}

// RegisterError registers a transport error for a URL
func (m *MockTransport) RegisterError(url string, err error) {
	m.RegisterResponse(url, &MockResponse{Error: err})
}

// RegisterPattern registers a canned response for URLs matching a regex
func (m *MockTransport) RegisterPattern(pattern string, response *MockResponse) error {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return err
	}
	normalizeMockResponse(response)
	m.mutex.Lock()
	m.patterns = append(m.patterns, mockPattern{pattern: regex, response: response})
	m.mutex.Unlock()
	return nil
}

// Requests returns the URLs requested so far, in request order.
func (m *MockTransport) Requests() []string {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return append([]string(nil), m.requests...)
}

// RequestCount returns how often a URL was requested.
func (m *MockTransport) RequestCount(url string) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	n := 0
	for _, r := range m.requests {
		if r == url {
			n++
		}
	}
	return n
}

// Reset clears registered responses, patterns and the request log
func (m *MockTransport) Reset() {
	m.mutex.Lock()
	m.responses = make(map[string]*MockResponse)
	m.patterns = nil
	m.requests = nil
	m.mutex.Unlock()
}

// RoundTrip implements the http.RoundTripper interface
func (m *MockTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()

	m.mutex.Lock()
	m.requests = append(m.requests, url)
	mockResp, found := m.responses[url]
	if !found {
		for _, p := range m.patterns {
			if p.pattern.MatchString(url) {
				mockResp = p.response
				found = true
				break
			}
		}
	}
	m.mutex.Unlock()

	if !found {
		return &http.Response{
			StatusCode: 404,
			Body:       io.NopCloser(bytes.NewBufferString("Not Found")),
			Header:     make(http.Header),
			Request:    req,
		}, nil
	}

	if mockResp.Delay > 0 {
		time.Sleep(mockResp.Delay)
	}
	if mockResp.Error != nil {
		return nil, mockResp.Error
	}

	return &http.Response{
		StatusCode:    mockResp.StatusCode,
		Body:          io.NopCloser(bytes.NewBufferString(mockResp.Body)),
		Header:        mockResp.Headers.Clone(),
		Request:       req,
		ContentLength: int64(len(mockResp.Body)),
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
	}, nil
}

func normalizeMockResponse(response *MockResponse) {
	if response.StatusCode == 0 {
		response.StatusCode = 200
	}
	if response.Headers == nil {
		response.Headers = make(http.Header)
	}
}
