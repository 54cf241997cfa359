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

// Package registry wires together the namespace catalogue, the
// service-discovery engine, and the RPC/debug servers into a runnable
// process. Bootstrap document parsing and listener binding are intentionally
// thin here, and no TLS material is loaded -- spec.md treats them as external
// collaborators, not part of the core.
package registry

import (
	"go.uber.org/zap"

	"github.com/uber/kraken/lib/catalogue"
	"github.com/uber/kraken/metrics"
)

// Config defines the registry process's configuration.
type Config struct {
	ZapLogging zap.Config     `yaml:"zap"`
	Metrics    metrics.Config `yaml:"metrics"`
	Catalogue  catalogue.Config `yaml:"catalogue"`

	// ExpectedNodes sizes the engine's existence Bloom filter. Need not be
	// exact.
	ExpectedNodes uint `yaml:"expected_nodes"`
}

func (c *Config) applyDefaults() {
	if c.ExpectedNodes == 0 {
		c.ExpectedNodes = 1024
	}
}
