// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
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

package errors

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a failure for callers and for the API error body.
type ErrorCode string

// Transport and service codes.
const (
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeTimeout           ErrorCode = "TIMEOUT"
	ErrCodeInternal          ErrorCode = "INTERNAL"
	ErrCodeInvalidRequest    ErrorCode = "INVALID_REQUEST"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeMethodNotAllowed  ErrorCode = "METHOD_NOT_ALLOWED"
	ErrCodeUnavailable       ErrorCode = "SERVICE_UNAVAILABLE"
)

// Validation codes.
const (
	// ErrCodeUnknownValidator marks a layout kind or field type with no
	// registered implementation. It is a configuration problem, never a
	// data verdict.
	ErrCodeUnknownValidator ErrorCode = "UNKNOWN_VALIDATOR"
	// ErrCodeInvalidRecipe marks a recipe that fails structural checks.
	ErrCodeInvalidRecipe ErrorCode = "INVALID_RECIPE"
	// ErrCodeContentMismatch marks a record that does not satisfy its layout.
	ErrCodeContentMismatch ErrorCode = "CONTENT_MISMATCH"
	// ErrCodeRowShortfall marks input that ended before a layout's rows.
	ErrCodeRowShortfall ErrorCode = "ROW_SHORTFALL"
)

// Retryable reports whether an operation failing with c may succeed when
// repeated unchanged.
func (c ErrorCode) Retryable() bool {
	switch c {
	case ErrCodeTimeout, ErrCodeUnavailable, ErrCodeRateLimitExceeded, ErrCodeInternal:
		return true
	default:
		return false
	}
}

// StructuredError carries a code, a message, an optional cause and
// key/value context that the server surfaces as error details.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]any
}

func (e *StructuredError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("[%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
}

func (e *StructuredError) Unwrap() error { return e.Cause }

// With sets a context key and returns e for chaining.
func (e *StructuredError) With(key string, value any) *StructuredError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// New returns a StructuredError without a cause.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// NewWithContext is New with context attached.
func NewWithContext(code ErrorCode, message string, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Context: context}
}

// Wrap classifies cause under code.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

// WrapWithContext is Wrap with context attached.
func WrapWithContext(code ErrorCode, message string, cause error, context map[string]any) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause, Context: context}
}

// CodeOf returns the code of the outermost StructuredError in err's chain,
// or "" when there is none.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ""
}

// IsCode reports whether the outermost StructuredError in err's chain has code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}
