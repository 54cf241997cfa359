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

import "fmt"

// BadRequestError indicates the caller supplied input which violates a
// contract: an unknown namespace, an endpoint which is not a ring member,
// an invalid peer address.
type BadRequestError struct {
	msg string
}

// NewBadRequestError creates a BadRequestError.
func NewBadRequestError(format string, args ...interface{}) *BadRequestError {
	return &BadRequestError{fmt.Sprintf(format, args...)}
}

func (e *BadRequestError) Error() string {
	return e.msg
}

// InternalError indicates an invariant violation inside the core: lock
// poisoning, an empty ring on lookup, no healthy node on lookup.
type InternalError struct {
	msg string
}

// NewInternalError creates an InternalError.
func NewInternalError(format string, args ...interface{}) *InternalError {
	return &InternalError{fmt.Sprintf(format, args...)}
}

func (e *InternalError) Error() string {
	return e.msg
}

// IsBadRequest returns whether err is a BadRequestError.
func IsBadRequest(err error) bool {
	_, ok := err.(*BadRequestError)
	return ok
}

// IsInternal returns whether err is an InternalError.
func IsInternal(err error) bool {
	_, ok := err.(*InternalError)
	return ok
}
