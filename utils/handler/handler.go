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

// Package handler adapts error-returning HTTP handlers into http.HandlerFunc,
// writing the error's status code and message to the response.
package handler

import (
	"fmt"
	"net/http"
)

// Error is an HTTP handler error carrying a status code.
type Error struct {
	status int
	msg    string
}

// Error implements error.
func (e *Error) Error() string {
	return e.msg
}

// Status sets e's HTTP status code and returns e, so it can be constructed
// and returned in one expression.
func (e *Error) Status(status int) *Error {
	e.status = status
	return e
}

// Errorf creates an Error with status http.StatusInternalServerError unless
// overridden via Status.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{status: http.StatusInternalServerError, msg: fmt.Sprintf(format, args...)}
}

// ErrorStatus creates a status-only Error whose message is the standard text
// for status.
func ErrorStatus(status int) *Error {
	return &Error{status: status, msg: http.StatusText(status)}
}

// Wrap adapts an error-returning handler into an http.HandlerFunc. If f
// returns a *Error, its status and message are written to w; any other
// non-nil error is written as a 500.
func Wrap(f func(w http.ResponseWriter, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		if herr, ok := err.(*Error); ok {
			http.Error(w, herr.msg, herr.status)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
