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

// Package hashring implements the consistent-hash ring that backs one
// namespace's membership: a sorted-by-id set of nodes, looked up by hashing
// a client identifier and walking clockwise to the nearest healthy node.
package hashring

import (
	"sort"
	"sync"

	"github.com/andres-erbsen/clock"
	"github.com/uber-go/tally"

	"github.com/uber/kraken/core"
)

// Ring is one namespace's consistent-hash membership. A Ring is created
// once at process start and grows as agents register; nodes are never
// removed, only toggled between healthy and unhealthy.
//
// Ring maintains the invariants: nodes are sorted strictly ascending by ID,
// no two nodes share an ID, and ID/Endpoint are immutable once inserted.
type Ring interface {
	// Namespace returns the name this ring was created for.
	Namespace() string

	// AddServer computes endpoint's ring ID and inserts it as a healthy
	// node, unless a node already owns that ID (idempotent re-registration,
	// or a 24-bit hash collision -- both are treated identically and return
	// the existing ID).
	AddServer(endpoint string) (uint32, error)

	// Lookup hashes clientIdentifier and returns the endpoint of the
	// smallest-ID healthy node at or clockwise of that position, wrapping
	// around the ring if necessary.
	Lookup(clientIdentifier string) (string, error)

	// SetHealthStatus flips the health flag of the node owning endpoint's
	// ring ID. Returns a BadRequestError if no such node exists.
	SetHealthStatus(endpoint string, healthy bool) error

	// Snapshot returns a copy of the current node list, in ring order. If
	// the read lock cannot be taken immediately (a write is in progress or
	// waiting) it returns nil rather than blocking or failing the caller.
	Snapshot() []core.RegistryNodeView
}

type ring struct {
	namespace string
	clk       clock.Clock
	stats     tally.Scope

	mu    sync.RWMutex // protects nodes
	nodes []*core.RegistryNode
}

// New creates an empty Ring for namespace. Additional nodes are added via
// AddServer, normally once per bootstrap endpoint and subsequently as
// agents register.
func New(namespace string, stats tally.Scope, clk clock.Clock) Ring {
	if clk == nil {
		clk = clock.New()
	}
	return &ring{
		namespace: namespace,
		clk:       clk,
		stats: stats.Tagged(map[string]string{
			"module":    "hashring",
			"namespace": namespace,
		}),
	}
}

func (r *ring) Namespace() string { return r.namespace }

func (r *ring) AddServer(endpoint string) (uint32, error) {
	id := hashID(endpoint)

	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.nodes), func(i int) bool { return r.nodes[i].ID >= id })
	if i < len(r.nodes) && r.nodes[i].ID == id {
		// Idempotent re-registration, or a 24-bit hash collision with a
		// different endpoint -- either way, no-op success returning the
		// existing id.
		return id, nil
	}

	n := &core.RegistryNode{
		ID:            id,
		Endpoint:      endpoint,
		Healthy:       true,
		LastHeartbeat: r.clk.Now(),
	}
	r.nodes = append(r.nodes, nil)
	copy(r.nodes[i+1:], r.nodes[i:])
	r.nodes[i] = n

	r.stats.Gauge("members").Update(float64(len(r.nodes)))

	return id, nil
}

func (r *ring) Lookup(clientIdentifier string) (string, error) {
	cid := hashID(clientIdentifier)

	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.nodes) == 0 {
		return "", core.NewInternalError("no service in namespace %q", r.namespace)
	}

	i := sort.Search(len(r.nodes), func(i int) bool { return r.nodes[i].ID >= cid })

	// Scan clockwise from i to the end of the ring for the first healthy
	// node.
	for j := i; j < len(r.nodes); j++ {
		if r.nodes[j].Healthy {
			return r.nodes[j].Endpoint, nil
		}
	}

	// Wrapped: scan from the start of the ring up to (not including) i,
	// returning the first healthy node encountered.
	for j := 0; j < i; j++ {
		if r.nodes[j].Healthy {
			return r.nodes[j].Endpoint, nil
		}
	}

	return "", core.NewInternalError("no healthy service in namespace %q", r.namespace)
}

func (r *ring) SetHealthStatus(endpoint string, healthy bool) error {
	id := hashID(endpoint)

	r.mu.Lock()
	defer r.mu.Unlock()

	i := sort.Search(len(r.nodes), func(i int) bool { return r.nodes[i].ID >= id })
	if i >= len(r.nodes) || r.nodes[i].ID != id {
		return core.NewBadRequestError("endpoint %q not in namespace %q", endpoint, r.namespace)
	}

	n := r.nodes[i]
	if n.Healthy == healthy {
		return nil
	}
	n.Healthy = healthy
	n.LastHeartbeat = r.clk.Now()

	if healthy {
		r.stats.Counter("became_healthy").Inc(1)
	} else {
		r.stats.Counter("became_unhealthy").Inc(1)
	}

	return nil
}

func (r *ring) Snapshot() []core.RegistryNodeView {
	if !r.mu.TryRLock() {
		return nil
	}
	defer r.mu.RUnlock()

	views := make([]core.RegistryNodeView, len(r.nodes))
	for i, n := range r.nodes {
		views[i] = core.RegistryNodeView{
			Namespace: r.namespace,
			ID:        n.ID,
			Endpoint:  n.Endpoint,
			Healthy:   n.Healthy,
		}
	}
	return views
}
