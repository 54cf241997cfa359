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

// Package registryclient is the agent-facing client library for the
// registry's four RPC operations. It wraps a pluggable Transport (the
// generated gRPC stub, in a full build) with retry policy, the same way
// tracker/announceclient wraps an HTTP round trip for the tracker's
// announce call.
package registryclient

import (
	"github.com/cenkalti/backoff"

	"github.com/uber/kraken/rpc"
)

// Transport is the raw, unretried RPC surface a Client wraps. A generated
// gRPC client satisfies this directly.
type Transport interface {
	RegisterAgent(*rpc.RegisterAgentRequest) (*rpc.RegisterAgentResponse, error)
	Heartbeat(*rpc.HeartbeatRequest) (*rpc.HeartbeatResponse, error)
	ServiceLookup(*rpc.ServiceLookupRequest) (*rpc.ServiceLookupResponse, error)
	ServiceFailureReport(*rpc.ServiceFailureReportRequest) (*rpc.ServiceFailureReportResponse, error)
}

// Client is the registryclient's retried RPC surface.
type Client interface {
	RegisterAgent(*rpc.RegisterAgentRequest) (*rpc.RegisterAgentResponse, error)
	Heartbeat(*rpc.HeartbeatRequest) (*rpc.HeartbeatResponse, error)
	ServiceLookup(*rpc.ServiceLookupRequest) (*rpc.ServiceLookupResponse, error)
	ServiceFailureReport(*rpc.ServiceFailureReportRequest) (*rpc.ServiceFailureReportResponse, error)
}

type client struct {
	transport Transport
	newBackoff func() backoff.BackOff
}

// Option configures a Client.
type Option func(*client)

// WithBackoff overrides the default retry backoff.
func WithBackoff(newBackoff func() backoff.BackOff) Option {
	return func(c *client) { c.newBackoff = newBackoff }
}

func defaultBackoff() backoff.BackOff {
	return backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)
}

// New creates a Client over transport.
func New(transport Transport, opts ...Option) Client {
	c := &client{transport: transport, newBackoff: defaultBackoff}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterAgent registers the caller under req.Namespace, retrying transient
// transport failures.
func (c *client) RegisterAgent(req *rpc.RegisterAgentRequest) (*rpc.RegisterAgentResponse, error) {
	var resp *rpc.RegisterAgentResponse
	err := backoff.Retry(func() error {
		var err error
		resp, err = c.transport.RegisterAgent(req)
		return err
	}, c.newBackoff())
	return resp, err
}

// Heartbeat reports utilization, retrying transient transport failures.
func (c *client) Heartbeat(req *rpc.HeartbeatRequest) (*rpc.HeartbeatResponse, error) {
	var resp *rpc.HeartbeatResponse
	err := backoff.Retry(func() error {
		var err error
		resp, err = c.transport.Heartbeat(req)
		return err
	}, c.newBackoff())
	return resp, err
}

// ServiceLookup resolves req.Namespace to a backend instance, retrying
// transient transport failures.
func (c *client) ServiceLookup(req *rpc.ServiceLookupRequest) (*rpc.ServiceLookupResponse, error) {
	var resp *rpc.ServiceLookupResponse
	err := backoff.Retry(func() error {
		var err error
		resp, err = c.transport.ServiceLookup(req)
		return err
	}, c.newBackoff())
	return resp, err
}

// ServiceFailureReport reports a peer as failing. Not retried: the transport
// is called exactly once and its error, if any, is returned to the caller.
// spec.md treats this call as idempotent fire-and-forget.
func (c *client) ServiceFailureReport(
	req *rpc.ServiceFailureReportRequest) (*rpc.ServiceFailureReportResponse, error) {

	return c.transport.ServiceFailureReport(req)
}
