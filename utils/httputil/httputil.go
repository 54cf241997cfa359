// Copyright (c) 2016-2019 Uber Technologies, Inc.
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

// Package httputil provides small helpers for the registry's debug HTTP
// mux: reading chi route params and query args. The registry speaks gRPC to
// its clients, so this package carries none of the outbound HTTP
// client/retry machinery a blob-serving node would need.
package httputil

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/go-chi/chi"
)

// ParseParam extracts and unescapes the named chi URL parameter from r.
func ParseParam(r *http.Request, name string) (string, error) {
	raw := chi.URLParam(r, name)
	if raw == "" {
		return "", fmt.Errorf("param %q not found", name)
	}
	v, err := url.QueryUnescape(raw)
	if err != nil {
		return "", fmt.Errorf("unescape param %q: %s", name, err)
	}
	return v, nil
}

// GetQueryArg returns the named query argument from r, or def if absent.
func GetQueryArg(r *http.Request, name, def string) string {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	return v
}
