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

// Package catalogue holds the process-wide namespace -> Ring mapping. It is
// populated once at start from the bootstrap configuration and is read-only
// thereafter: namespace lookup never takes a lock, since only the Rings it
// holds are mutable.
package catalogue

import (
	"github.com/andres-erbsen/clock"
	"github.com/uber-go/tally"

	"github.com/uber/kraken/core"
	"github.com/uber/kraken/lib/hashring"
)

// Config is the bootstrap namespace catalogue: namespace name to its list of
// initial member endpoints. Parsing the document this comes from is outside
// the catalogue's concern -- by the time Config reaches New, it is already a
// validated Go map.
type Config struct {
	Services map[string][]string `yaml:"services" validate:"nonzero"`
}

// Catalogue is the process-wide namespace catalogue described in spec section
// 4.3: a healthy Ring and a companion unhealthy Ring per namespace, built
// once and never replaced.
type Catalogue struct {
	healthy   map[string]hashring.Ring
	unhealthy map[string]hashring.Ring
}

// New builds a Catalogue from config, inserting every configured endpoint of
// each namespace into a fresh healthy Ring via AddServer (so ring order is
// produced by the identical insertion path used at runtime), and creating an
// empty companion Ring in the unhealthy set.
func New(config Config, stats tally.Scope, clk clock.Clock) (*Catalogue, error) {
	healthy := make(map[string]hashring.Ring, len(config.Services))
	unhealthy := make(map[string]hashring.Ring, len(config.Services))

	for ns, endpoints := range config.Services {
		hr := hashring.New(ns, stats, clk)
		for _, e := range endpoints {
			if _, err := hr.AddServer(e); err != nil {
				return nil, core.NewInternalError(
					"bootstrap namespace %q: add endpoint %q: %s", ns, e, err)
			}
		}
		healthy[ns] = hr
		unhealthy[ns] = hashring.New(ns, stats, clk)
	}

	return &Catalogue{healthy: healthy, unhealthy: unhealthy}, nil
}

// Healthy returns the authoritative Ring for namespace and whether it exists.
func (c *Catalogue) Healthy(namespace string) (hashring.Ring, bool) {
	r, ok := c.healthy[namespace]
	return r, ok
}

// Unhealthy returns the companion unhealthy-only Ring for namespace and
// whether it exists.
func (c *Catalogue) Unhealthy(namespace string) (hashring.Ring, bool) {
	r, ok := c.unhealthy[namespace]
	return r, ok
}

// Namespaces returns every namespace name known to the catalogue, in no
// particular order.
func (c *Catalogue) Namespaces() []string {
	names := make([]string, 0, len(c.healthy))
	for ns := range c.healthy {
		names = append(names, ns)
	}
	return names
}
