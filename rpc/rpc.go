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

// Package rpc defines the registry's four-operation wire contract and the
// translation of core errors into transport status codes. It has no
// dependency on discovery.Engine: it is the boundary only.
package rpc

import (
	"strconv"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/uber/kraken/core"
)

// RegisterAgentRequest carries the namespace an agent is registering under.
// The endpoint itself is never a request field: it is always the peer's
// transport-observed remote address.
type RegisterAgentRequest struct {
	Namespace string
}

// RegisterAgentResponse carries the assigned ring id, rendered as a decimal
// string (matching the source system's wire shape -- see SPEC_FULL.md C.2).
type RegisterAgentResponse struct {
	ServiceID string
}

// HeartbeatRequest carries an agent's periodic utilization report.
type HeartbeatRequest struct {
	Namespace   string
	CPUUsage    float32
	MemoryUsage float32
}

// HeartbeatResponse enumerates every currently-unhealthy node the registry
// knows about, across every namespace, so the agent always has a fresh
// "nodes to avoid" view.
type HeartbeatResponse struct {
	UnhealthyServices []UnhealthyService
}

// UnhealthyService is one entry of a HeartbeatResponse.
type UnhealthyService struct {
	Namespace string
	ID        string
	Endpoint  string
}

// ServiceLookupRequest asks the registry to resolve namespace to a backend
// instance for the calling client. The client identifier is always the
// peer's transport-observed remote address.
type ServiceLookupRequest struct {
	Namespace string
}

// ServiceLookupResponse carries the resolved backend's endpoint.
type ServiceLookupResponse struct {
	Namespace string
	IPAddress string
}

// ServiceFailureReportRequest reports that ipAddress, a peer other than the
// reporter, appears to be failing.
type ServiceFailureReportRequest struct {
	Namespace string
	IPAddress string
}

// ServiceFailureReportResponse is empty: the operation is fire-and-forget.
type ServiceFailureReportResponse struct{}

// RegistryServer is the four-operation RPC surface described in spec.md
// section 4.5. Implementations extract the peer's remote address and
// dispatch to a discovery.Engine.
type RegistryServer interface {
	RegisterAgent(peerAddr string, req *RegisterAgentRequest) (*RegisterAgentResponse, error)
	Heartbeat(peerAddr string, req *HeartbeatRequest) (*HeartbeatResponse, error)
	ServiceLookup(peerAddr string, req *ServiceLookupRequest) (*ServiceLookupResponse, error)
	ServiceFailureReport(peerAddr string, req *ServiceFailureReportRequest) (*ServiceFailureReportResponse, error)
}

// FormatID renders a ring id the way the wire contract expects: a decimal
// string of the uint32.
func FormatID(id uint32) string {
	return strconv.FormatUint(uint64(id), 10)
}

// ToStatus maps a core error (or a missing-peer-address condition) to the
// gRPC status the adapter must return: nil -> nil (OK), BadRequest ->
// InvalidArgument, Internal -> Internal, and any other error -> Internal.
// This is the only place in the module that speaks in terms of transport
// status codes.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case core.IsBadRequest(err):
		return status.Error(codes.InvalidArgument, err.Error())
	case core.IsInternal(err):
		return status.Error(codes.Internal, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// ErrMissingPeerAddress is returned by the adapter when the transport
// provides no peer address to extract.
var ErrMissingPeerAddress = core.NewBadRequestError("missing peer address")
