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

// Package discovery implements the service-discovery engine: the use-case
// layer sitting over the per-namespace Rings. The engine owns policy
// (health thresholds, catalogue coupling); the Ring owns mechanism.
package discovery

import (
	"golang.org/x/sync/singleflight"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/uber/kraken/core"
	"github.com/uber/kraken/lib/bloomfilter"
	"github.com/uber/kraken/lib/catalogue"
	"github.com/uber/kraken/lib/hashring"
)

const (
	// cpuThreshold is the percent CPU utilization at or above which a node
	// is considered unhealthy.
	cpuThreshold = 80.0

	// memoryThreshold is the percent memory utilization at or above which a
	// node is considered unhealthy.
	memoryThreshold = 85.0
)

// Engine is the service-discovery use-case layer: register_node, lookup,
// heartbeat, mark_node_unhealthy.
type Engine struct {
	catalogue *catalogue.Catalogue
	logger    *zap.SugaredLogger

	// seen tracks every endpoint ever bootstrapped or successfully
	// registered, across every namespace. It lets Heartbeat reject a
	// definitely unknown endpoint without acquiring a Ring's write lock.
	seen *bloomfilter.Filter

	registerGroup singleflight.Group

	heartbeats atomic.Uint64
}

// New creates an Engine over cat. expectedNodes sizes the existence Bloom
// filter; it need not be exact. Every endpoint cat already bootstrapped into
// a healthy Ring is seeded into the filter, so a bootstrapped node's first
// heartbeat is recognized the same as one registered via RegisterNode.
func New(cat *catalogue.Catalogue, logger *zap.SugaredLogger, expectedNodes uint) *Engine {
	e := &Engine{
		catalogue: cat,
		logger:    logger,
		seen:      bloomfilter.New(expectedNodes),
	}
	for _, ns := range cat.Namespaces() {
		ring, ok := cat.Healthy(ns)
		if !ok {
			continue
		}
		for _, v := range ring.Snapshot() {
			e.seen.Add(v.Endpoint)
		}
	}
	return e
}

// RegisterNode implements register_node(namespace, endpoint) -> id.
// Concurrent identical (namespace, endpoint) registrations -- e.g. an agent
// retrying a timed-out call -- collapse into a single Ring.AddServer call.
func (e *Engine) RegisterNode(namespace, endpoint string) (uint32, error) {
	ring, ok := e.catalogue.Healthy(namespace)
	if !ok {
		return 0, core.NewBadRequestError("namespace %q not found", namespace)
	}

	key := namespace + "\x00" + endpoint
	v, err, _ := e.registerGroup.Do(key, func() (interface{}, error) {
		id, err := ring.AddServer(endpoint)
		if err != nil {
			return uint32(0), err
		}
		e.seen.Add(endpoint)
		return id, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(uint32), nil
}

// Lookup implements lookup(namespace, client_identifier) -> endpoint.
func (e *Engine) Lookup(namespace, clientIdentifier string) (string, error) {
	ring, ok := e.catalogue.Healthy(namespace)
	if !ok {
		return "", core.NewBadRequestError("namespace %q not found", namespace)
	}
	return ring.Lookup(clientIdentifier)
}

// Heartbeat implements heartbeat(namespace, endpoint, metric) ->
// UnhealthyReport.
//
// Per spec, an unknown namespace is tolerated here (unlike RegisterNode and
// Lookup): the engine still builds and returns the global unhealthy report,
// so agents always receive a fresh view of peers to avoid even before their
// own namespace is bootstrapped.
func (e *Engine) Heartbeat(
	namespace, endpoint string, metric core.UtilizationMetric) ([]core.RegistryNodeView, error) {

	e.heartbeats.Inc()

	healthy := metric.CPUUsage < cpuThreshold && metric.MemoryUsage < memoryThreshold

	if ring, ok := e.catalogue.Healthy(namespace); ok {
		if !e.seen.MayContain(endpoint) {
			return nil, core.NewBadRequestError(
				"endpoint %q not in namespace %q", endpoint, namespace)
		}
		if err := ring.SetHealthStatus(endpoint, healthy); err != nil {
			// Reported, not swallowed: the caller's own node state could
			// not be updated.
			return nil, err
		}
		if unhealthy, ok := e.catalogue.Unhealthy(namespace); ok {
			if err := e.syncCompanion(unhealthy, endpoint, healthy); err != nil {
				e.logger.Errorw("failed to sync companion ring",
					"namespace", namespace, "endpoint", endpoint, "error", err)
			}
		}
	}

	return e.unhealthyReport(), nil
}

// MarkNodeUnhealthy implements mark_node_unhealthy(namespace, endpoint) ->
// (). An unknown namespace is a silent success: failure reports about
// namespaces the registry has never heard of are simply ignored.
func (e *Engine) MarkNodeUnhealthy(namespace, endpoint string) error {
	ring, ok := e.catalogue.Healthy(namespace)
	if !ok {
		return nil
	}

	if err := ring.SetHealthStatus(endpoint, false); err != nil {
		if core.IsBadRequest(err) {
			// Not a member: nothing to report as unhealthy.
			return nil
		}
		return err
	}

	if unhealthy, ok := e.catalogue.Unhealthy(namespace); ok {
		if _, err := unhealthy.AddServer(endpoint); err != nil {
			return err
		}
		if err := unhealthy.SetHealthStatus(endpoint, false); err != nil {
			return err
		}
	}
	return nil
}

// syncCompanion keeps the unhealthy ring's membership and per-node health
// flag consistent with a health-changing transition on the authoritative
// ring, per Open Question decision D.2: this runs on every transition, not
// only on explicit failure reports.
func (e *Engine) syncCompanion(unhealthy hashring.Ring, endpoint string, healthy bool) error {
	if !healthy {
		if _, err := unhealthy.AddServer(endpoint); err != nil {
			return err
		}
		return unhealthy.SetHealthStatus(endpoint, false)
	}
	// Becoming healthy: only clear the companion entry if it was ever
	// added. A node that has never been unhealthy has nothing to clear.
	err := unhealthy.SetHealthStatus(endpoint, true)
	if err != nil && core.IsBadRequest(err) {
		return nil
	}
	return err
}

// unhealthyReport builds the UnhealthyReport: a snapshot of every namespace's
// unhealthy companion ring.
func (e *Engine) unhealthyReport() []core.RegistryNodeView {
	var views []core.RegistryNodeView
	for _, ns := range e.catalogue.Namespaces() {
		unhealthy, ok := e.catalogue.Unhealthy(ns)
		if !ok {
			continue
		}
		for _, v := range unhealthy.Snapshot() {
			if v.Healthy {
				continue
			}
			views = append(views, v)
		}
	}
	return views
}
