// Copyright (c) 2016-2019 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package configutil loads a single YAML document into a struct and
// validates it with struct tags. Unlike some configuration loaders, it does
// not chase an "extends" chain across files: spec.md treats bootstrap
// configuration loading as a simple text-to-map parse, and that is all the
// registry's configuration needs.
package configutil

import (
	"fmt"
	"os"

	"gopkg.in/validator.v2"
	"gopkg.in/yaml.v2"
)

// ValidationError wraps the field-level errors produced by validating a
// loaded configuration.
type ValidationError struct {
	errors validator.ErrorMap
}

// Error implements error.
func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid config: %s", e.errors.Error())
}

// ErrForField returns the validation errors for the named field, or nil if
// that field had none.
func (e ValidationError) ErrForField(name string) validator.ErrorArray {
	return e.errors[name]
}

// Load reads filename as YAML into v and validates v's struct tags.
func Load(filename string, v interface{}) error {
	b, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("read %s: %s", filename, err)
	}
	if err := yaml.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal %s: %s", filename, err)
	}
	if err := validator.Validate(v); err != nil {
		if errs, ok := err.(validator.ErrorMap); ok {
			return ValidationError{errs}
		}
		return err
	}
	return nil
}
