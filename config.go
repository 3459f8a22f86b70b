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
	"os"
	"strconv"
	"time"

	"github.com/agentberlin/sitemark/debug"
	"github.com/agentberlin/sitemark/storage"
)

// Config controls a crawl. Zero values for capacity fields (UserAgent,
// Parallelism, MaxBodySize, Timeout) are filled from DefaultConfig;
// boolean fields are taken as given.
type Config struct {
	// UserAgent is sent with every request
	UserAgent string
	// Parallelism is the number of concurrent fetch workers
	Parallelism int
	// MaxPages caps how many pages are claimed. 0 means unlimited.
	MaxPages int
	// MaxBodySize caps the response body read per page, in bytes
	MaxBodySize int
	// Timeout is the per-request HTTP timeout
	Timeout time.Duration
	// PathScoped restricts the crawl to URLs under the seed's path prefix
	PathScoped bool
	// StripMedia selects the strict cleaning profile, which removes
	// images, embeds, form controls and head plumbing from page content
	StripMedia bool
	// DedupContent fingerprints page content and collapses pages whose
	// content was already seen into cross-references
	DedupContent bool
	// DetectCharset sniffs the charset of responses that do not declare one
	DetectCharset bool
	// ExcludePatterns are glob patterns; discovered URLs matching one are
	// dropped
	ExcludePatterns []string
	// Debugger receives crawl events. Nil disables event emission.
	Debugger debug.Debugger
	// Storage backs the visited set and content fingerprints.
	// Nil selects an InMemoryStorage.
	Storage storage.Storage
}

// DefaultConfig returns the configuration a crawl runs with when the
// caller leaves fields unset.
func DefaultConfig() *Config {
	return &Config{
		UserAgent:     "sitemark/1.0 (+https://github.com/agentberlin/sitemark)",
		Parallelism:   10,
		MaxBodySize:   10 * 1024 * 1024,
		Timeout:       30 * time.Second,
		StripMedia:    true,
		DetectCharset: true,
	}
}

func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.Parallelism <= 0 {
		c.Parallelism = def.Parallelism
	}
	if c.MaxBodySize <= 0 {
		c.MaxBodySize = def.MaxBodySize
	}
	if c.Timeout <= 0 {
		c.Timeout = def.Timeout
	}
}

// applyEnv overlays SITEMARK_* environment variables onto the config.
// Unparsable values are ignored.
func (c *Config) applyEnv() {
	for k, v := range envMap() {
		switch k {
		case "USER_AGENT":
			c.UserAgent = v
		case "PARALLELISM":
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.Parallelism = n
			}
		case "MAX_PAGES":
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				c.MaxPages = n
			}
		case "MAX_BODY_SIZE":
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				c.MaxBodySize = n
			}
		case "TIMEOUT":
			if d, err := time.ParseDuration(v); err == nil && d > 0 {
				c.Timeout = d
			}
		case "DETECT_CHARSET":
			if b, err := strconv.ParseBool(v); err == nil {
				c.DetectCharset = b
			}
		}
	}
}

const envPrefix = "SITEMARK_"

func envMap() map[string]string {
	m := make(map[string]string)
	for _, e := range os.Environ() {
		if len(e) <= len(envPrefix) || e[:len(envPrefix)] != envPrefix {
			continue
		}
		pair := e[len(envPrefix):]
		for i := 0; i < len(pair); i++ {
			if pair[i] == '=' {
				m[pair[:i]] = pair[i+1:]
				break
			}
		}
	}
	return m
}
