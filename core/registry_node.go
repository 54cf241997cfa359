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
package core

import "time"

// RegistryNode is a single backend instance registered within one
// namespace's Ring. ID and Endpoint are immutable once inserted; Healthy and
// LastHeartbeat (stamped on each health transition) are the only fields a
// Ring mutates after insertion.
type RegistryNode struct {
	ID            uint32
	Endpoint      string
	Healthy       bool
	LastHeartbeat time.Time
}

// RegistryNodeView is a read-only snapshot of a RegistryNode plus the
// namespace it belongs to, used for responses that enumerate nodes across
// namespaces (e.g. the heartbeat unhealthy report).
type RegistryNodeView struct {
	Namespace string
	ID        uint32
	Endpoint  string
	Healthy   bool
}

// UtilizationMetric carries a heartbeat's resource utilization, in percent
// (0.0-100.0).
type UtilizationMetric struct {
	CPUUsage    float32
	MemoryUsage float32
}
