/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package errs defines the error taxonomy shared by every package in this
// module: InvalidArgument for programmer errors caught at the call boundary,
// and IllegalState for operations attempted on a closed or torn-down object.
// Both are plain error values; callers distinguish them with errors.As.
package errs

import "fmt"

// InvalidArgumentError reports a null reference, an empty required set, an
// out-of-range bit field, or an unknown event-type name passed to a public
// constructor or setter.
type InvalidArgumentError struct {
	Op  string
	Msg string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("%s: invalid argument: %s", e.Op, e.Msg)
}

// InvalidArgument builds an *InvalidArgumentError for operation op.
func InvalidArgument(op, msg string) error {
	return &InvalidArgumentError{Op: op, Msg: msg}
}

// IllegalStateError reports an operation attempted on a subscription or
// model that has already transitioned to a closed/terminal state.
type IllegalStateError struct {
	Op  string
	Msg string
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("%s: illegal state: %s", e.Op, e.Msg)
}

// IllegalState builds an *IllegalStateError for operation op.
func IllegalState(op, msg string) error {
	return &IllegalStateError{Op: op, Msg: msg}
}
