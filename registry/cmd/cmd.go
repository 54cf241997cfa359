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

// Package cmd parses the registry binary's CLI flags and runs the process.
package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin"
	"google.golang.org/grpc"

	"github.com/uber/kraken/registry"
)

// ParseFlags parses os.Args into Flags.
func ParseFlags() *registry.Flags {
	app := kingpin.New("registry", "Kraken-style service-discovery registry")

	grpcAddr := app.Flag("grpc-addr", "address the gRPC listener binds to").
		Default(":7090").String()
	debugAddr := app.Flag("debug-addr", "address the debug HTTP mux binds to").
		Default(":7091").String()
	configFile := app.Flag("config", "configuration file path").Required().String()
	zone := app.Flag("zone", "zone/datacenter name").String()
	cluster := app.Flag("cluster", "cluster name (e.g. prod01-zone1)").String()

	kingpin.MustParse(app.Parse(os.Args[1:]))

	return &registry.Flags{
		GRPCAddr:      *grpcAddr,
		DebugAddr:     *debugAddr,
		ConfigFile:    *configFile,
		Zone:          *zone,
		KrakenCluster: *cluster,
	}
}

// Run builds the registry App from flags and serves it until one of the
// listeners fails. Non-nil return means the process should exit non-zero.
func Run(flags *registry.Flags) error {
	app, err := registry.NewApp(flags)
	if err != nil {
		return fmt.Errorf("new app: %w", err)
	}
	defer app.Close()

	errc := make(chan error, 2)
	go func() { errc <- app.ListenAndServeDebug(flags.DebugAddr) }()
	go func() { errc <- app.ListenAndServeGRPC(flags.GRPCAddr, grpc.NewServer()) }()

	return <-errc
}
