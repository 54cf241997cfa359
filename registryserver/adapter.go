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

// Package registryserver implements the RPC adapter boundary of spec.md
// section 4.5: translating the four wire operations into discovery.Engine
// calls and back, plus a debug HTTP mux served alongside the RPC listener.
package registryserver

import (
	"go.uber.org/zap"

	"github.com/uber/kraken/core"
	"github.com/uber/kraken/discovery"
	"github.com/uber/kraken/rpc"
)

// Adapter implements rpc.RegistryServer over a discovery.Engine. It is
// transport-agnostic: callers supply the peer address already extracted
// from whatever transport they sit on.
type Adapter struct {
	engine *discovery.Engine
	logger *zap.SugaredLogger
}

// NewAdapter creates an Adapter over engine.
func NewAdapter(engine *discovery.Engine, logger *zap.SugaredLogger) *Adapter {
	return &Adapter{engine: engine, logger: logger}
}

var _ rpc.RegistryServer = (*Adapter)(nil)

// RegisterAgent implements rpc.RegistryServer. The registering node's
// endpoint is the peer's own transport address.
func (a *Adapter) RegisterAgent(
	peerAddr string, req *rpc.RegisterAgentRequest) (*rpc.RegisterAgentResponse, error) {

	id, err := a.engine.RegisterNode(req.Namespace, peerAddr)
	if err != nil {
		return nil, err
	}
	return &rpc.RegisterAgentResponse{ServiceID: rpc.FormatID(id)}, nil
}

// Heartbeat implements rpc.RegistryServer. The reporting node's endpoint is
// the peer's own transport address.
func (a *Adapter) Heartbeat(
	peerAddr string, req *rpc.HeartbeatRequest) (*rpc.HeartbeatResponse, error) {

	views, err := a.engine.Heartbeat(req.Namespace, peerAddr, core.UtilizationMetric{
		CPUUsage:    req.CPUUsage,
		MemoryUsage: req.MemoryUsage,
	})
	if err != nil {
		return nil, err
	}

	unhealthy := make([]rpc.UnhealthyService, len(views))
	for i, v := range views {
		unhealthy[i] = rpc.UnhealthyService{
			Namespace: v.Namespace,
			ID:        rpc.FormatID(v.ID),
			Endpoint:  v.Endpoint,
		}
	}
	return &rpc.HeartbeatResponse{UnhealthyServices: unhealthy}, nil
}

// ServiceLookup implements rpc.RegistryServer. The client identifier is the
// peer's own transport address.
func (a *Adapter) ServiceLookup(
	peerAddr string, req *rpc.ServiceLookupRequest) (*rpc.ServiceLookupResponse, error) {

	endpoint, err := a.engine.Lookup(req.Namespace, peerAddr)
	if err != nil {
		return nil, err
	}
	return &rpc.ServiceLookupResponse{
		Namespace: req.Namespace,
		IPAddress: endpoint,
	}, nil
}

// ServiceFailureReport implements rpc.RegistryServer. Unlike the other three
// operations, the node being reported on is named in the request body, not
// derived from the reporter's own peer address.
func (a *Adapter) ServiceFailureReport(
	peerAddr string, req *rpc.ServiceFailureReportRequest) (*rpc.ServiceFailureReportResponse, error) {

	if err := a.engine.MarkNodeUnhealthy(req.Namespace, req.IPAddress); err != nil {
		return nil, err
	}
	return &rpc.ServiceFailureReportResponse{}, nil
}
