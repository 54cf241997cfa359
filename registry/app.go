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

package registry

import (
	"fmt"
	"net"
	"net/http"

	"google.golang.org/grpc"

	"github.com/andres-erbsen/clock"
	"github.com/uber-go/tally"
	"go.uber.org/zap"

	"github.com/uber/kraken/discovery"
	"github.com/uber/kraken/lib/catalogue"
	"github.com/uber/kraken/metrics"
	"github.com/uber/kraken/registryserver"
	"github.com/uber/kraken/utils/configutil"
	"github.com/uber/kraken/utils/errutil"
	"github.com/uber/kraken/utils/log"
)

// App holds every component of a running registry process.
type App struct {
	config Config
	flags  *Flags
	stats  tally.Scope
	logger *zap.Logger

	catalogue *catalogue.Catalogue
	engine    *discovery.Engine
	adapter   *registryserver.Adapter
	debug     *registryserver.DebugServer

	cleanup []func() error
}

// NewApp loads config and flags, and builds every component of the
// registry application. It does not start listening.
func NewApp(flags *Flags) (*App, error) {
	a := &App{flags: flags}

	if err := a.loadConfig(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	a.config.applyDefaults()

	if err := a.setupLogging(); err != nil {
		return nil, fmt.Errorf("setup logging: %w", err)
	}
	if err := a.setupMetrics(); err != nil {
		return nil, fmt.Errorf("setup metrics: %w", err)
	}
	if err := a.setupDiscovery(); err != nil {
		return nil, fmt.Errorf("setup discovery: %w", err)
	}

	return a, nil
}

func (a *App) loadConfig() error {
	if err := configutil.Load(a.flags.ConfigFile, &a.config); err != nil {
		return fmt.Errorf("load config file: %w", err)
	}
	return nil
}

func (a *App) setupLogging() error {
	zlog := log.ConfigureLogger(a.config.ZapLogging)
	a.logger = zlog
	a.cleanup = append(a.cleanup, zlog.Sync)
	return nil
}

func (a *App) setupMetrics() error {
	s, closer, err := metrics.New(a.config.Metrics, a.flags.KrakenCluster)
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	a.stats = s
	a.cleanup = append(a.cleanup, closer.Close)
	go metrics.EmitVersion(a.stats)
	return nil
}

func (a *App) setupDiscovery() error {
	cat, err := catalogue.New(a.config.Catalogue, a.stats, clock.New())
	if err != nil {
		return fmt.Errorf("build namespace catalogue: %w", err)
	}
	a.catalogue = cat
	a.engine = discovery.New(cat, a.logger.Sugar(), a.config.ExpectedNodes)
	a.adapter = registryserver.NewAdapter(a.engine, a.logger.Sugar())
	a.debug = registryserver.NewDebugServer(a.stats)
	return nil
}

// GRPCHandler returns the gRPC-facing RPC handler, ready for a generated
// service registration to delegate to.
func (a *App) GRPCHandler() *registryserver.GRPCHandler {
	return registryserver.NewGRPCHandler(a.adapter)
}

// ListenAndServeDebug serves the debug HTTP mux on addr. Blocks until the
// listener fails or is closed.
func (a *App) ListenAndServeDebug(addr string) error {
	return http.ListenAndServe(addr, a.debug.Handler())
}

// ListenAndServeGRPC binds addr and serves srv until the listener fails or
// is closed. srv is expected to already have the registry's service
// registered against a.GRPCHandler().
func (a *App) ListenAndServeGRPC(addr string, srv *grpc.Server) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return srv.Serve(lis)
}

// Close releases every resource acquired during NewApp, in reverse
// acquisition order, and returns every failure joined into one error.
func (a *App) Close() error {
	var errs []error
	for i := len(a.cleanup) - 1; i >= 0; i-- {
		if err := a.cleanup[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errutil.Join(errs)
}
