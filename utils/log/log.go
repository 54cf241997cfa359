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

// Package log provides a package-level, swappable zap logger, mirroring the
// teacher's agent/origin/tracker binaries. Packages without a logger
// dependency (e.g. metrics) log through here; the discovery engine and the
// RPC adapter take an injected *zap.SugaredLogger instead.
package log

import (
	"sync"

	"go.uber.org/zap"
)

// Fields is an alias for structured key/value logging fields.
type Fields = map[string]interface{}

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

func init() {
	l, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	logger = l.Sugar()
}

// SetGlobalLogger replaces the package-level logger.
func SetGlobalLogger(l *zap.SugaredLogger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// ConfigureLogger builds a zap logger from config, installs it as the
// package-level logger, and returns the underlying *zap.Logger for callers
// that need to defer a Sync.
func ConfigureLogger(config zap.Config) *zap.Logger {
	l, err := config.Build()
	if err != nil {
		panic(err)
	}
	SetGlobalLogger(l.Sugar())
	return l
}

// With returns a SugaredLogger with the given structured context attached.
func With(args ...interface{}) *zap.SugaredLogger {
	return get().With(args...)
}

// WithFields returns a SugaredLogger with the given named fields attached.
func WithFields(fields Fields) *zap.SugaredLogger {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return get().With(args...)
}

func Debug(args ...interface{})                  { get().Debug(args...) }
func Debugf(format string, args ...interface{})  { get().Debugf(format, args...) }
func Info(args ...interface{})                   { get().Info(args...) }
func Infof(format string, args ...interface{})   { get().Infof(format, args...) }
func Warn(args ...interface{})                   { get().Warn(args...) }
func Warnf(format string, args ...interface{})   { get().Warnf(format, args...) }
func Error(args ...interface{})                  { get().Error(args...) }
func Errorf(format string, args ...interface{})  { get().Errorf(format, args...) }
func Fatal(args ...interface{})                  { get().Fatal(args...) }
func Fatalf(format string, args ...interface{})  { get().Fatalf(format, args...) }
