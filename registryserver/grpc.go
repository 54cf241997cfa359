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
	"context"

	"google.golang.org/grpc/peer"

	"github.com/uber/kraken/rpc"
)

// GRPCHandler extracts the peer address from a gRPC context and dispatches
// to an Adapter, mapping core errors to gRPC status codes on the way out.
// Wire schema generation (the .proto-derived request/response types and
// service registration) is outside this module's scope; this type is the
// seam a generated service implementation would call into.
type GRPCHandler struct {
	adapter *Adapter
}

// NewGRPCHandler creates a GRPCHandler over adapter.
func NewGRPCHandler(adapter *Adapter) *GRPCHandler {
	return &GRPCHandler{adapter: adapter}
}

// peerAddress extracts the caller's remote network address from ctx. Fails
// with rpc.ErrMissingPeerAddress if the transport provided none.
func peerAddress(ctx context.Context) (string, error) {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return "", rpc.ErrMissingPeerAddress
	}
	return p.Addr.String(), nil
}

// RegisterAgent handles the RegisterAgent RPC.
func (h *GRPCHandler) RegisterAgent(
	ctx context.Context, req *rpc.RegisterAgentRequest) (*rpc.RegisterAgentResponse, error) {

	addr, err := peerAddress(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	resp, err := h.adapter.RegisterAgent(addr, req)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return resp, nil
}

// Heartbeat handles the Heartbeat RPC.
func (h *GRPCHandler) Heartbeat(
	ctx context.Context, req *rpc.HeartbeatRequest) (*rpc.HeartbeatResponse, error) {

	addr, err := peerAddress(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	resp, err := h.adapter.Heartbeat(addr, req)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return resp, nil
}

// ServiceLookup handles the ServiceLookup RPC.
func (h *GRPCHandler) ServiceLookup(
	ctx context.Context, req *rpc.ServiceLookupRequest) (*rpc.ServiceLookupResponse, error) {

	addr, err := peerAddress(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	resp, err := h.adapter.ServiceLookup(addr, req)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return resp, nil
}

// ServiceFailureReport handles the ServiceFailureReport RPC. The reporter's
// own peer address is still required (a missing peer address is itself a
// bad-argument condition), but the node being reported on comes from the
// request body.
func (h *GRPCHandler) ServiceFailureReport(
	ctx context.Context, req *rpc.ServiceFailureReportRequest) (*rpc.ServiceFailureReportResponse, error) {

	addr, err := peerAddress(ctx)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	resp, err := h.adapter.ServiceFailureReport(addr, req)
	if err != nil {
		return nil, rpc.ToStatus(err)
	}
	return resp, nil
}
