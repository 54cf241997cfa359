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

package registryserver

import (
	_ "expvar" // Registers /debug/vars in http.DefaultServeMux.
	"net/http"
	_ "net/http/pprof" // Registers /debug/pprof endpoints in http.DefaultServeMux.

	"github.com/go-chi/chi"
	"github.com/uber-go/tally"

	"github.com/uber/kraken/lib/middleware"
	"github.com/uber/kraken/utils/handler"
)

// DebugServer is the registry's debug-only HTTP surface, served alongside
// (never instead of) the gRPC listener: a health check, pprof, and expvar.
type DebugServer struct {
	stats tally.Scope
}

// NewDebugServer creates a DebugServer.
func NewDebugServer(stats tally.Scope) *DebugServer {
	return &DebugServer{stats: stats.Tagged(map[string]string{"module": "registryserver"})}
}

// Handler returns the debug HTTP handler tree.
func (s *DebugServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.StatusCounter(s.stats))
	r.Use(middleware.LatencyTimer(s.stats))

	r.Get("/health", handler.Wrap(s.healthHandler))

	// Serves /debug/pprof and /debug/vars.
	r.Mount("/", http.DefaultServeMux)

	return r
}

func (s *DebugServer) healthHandler(w http.ResponseWriter, r *http.Request) error {
	w.WriteHeader(http.StatusOK)
	_, err := w.Write([]byte("OK"))
	return err
}
