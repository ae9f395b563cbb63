// Copyright 2026 Docmorph Authors
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docmorph

import (
	"errors"
	"fmt"
)

// UnsupportedFormatError is returned when the source extension is not in the
// supported set. It is raised before any extraction is attempted.
type UnsupportedFormatError struct {
	Extension string
}

func (e *UnsupportedFormatError) Error() string {
	if e.Extension == "" {
		return "unsupported format: no extension"
	}
	return fmt.Sprintf("unsupported format: extension %q", e.Extension)
}

// MalformedContainerError is returned when a container file lacks required
// internal structure (not a zip archive, missing document part, missing body).
type MalformedContainerError struct {
	Format string
	Reason string
}

func (e *MalformedContainerError) Error() string {
	return fmt.Sprintf("malformed %s container: %s", e.Format, e.Reason)
}

// ToolUnavailableError is returned when the external converter binary cannot
// be located. The engine recovers from it by running the native path.
type ToolUnavailableError struct {
	Tool string
}

func (e *ToolUnavailableError) Error() string {
	return fmt.Sprintf("external tool %q not available", e.Tool)
}

// ToolFailedError is returned when the external converter exits non-zero.
// Stderr carries the process's error stream verbatim.
type ToolFailedError struct {
	Tool   string
	Stderr string
	Err    error
}

func (e *ToolFailedError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("external tool %q failed: %s", e.Tool, e.Stderr)
	}
	return fmt.Sprintf("external tool %q failed: %v", e.Tool, e.Err)
}

func (e *ToolFailedError) Unwrap() error { return e.Err }

// ExtractionError wraps a failure while reconstructing structure from a
// source document.
type ExtractionError struct {
	Format string
	Err    error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Format, e.Err)
}

func (e *ExtractionError) Unwrap() error { return e.Err }

// RenderError wraps a failure while emitting a target document.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// IsUnsupportedFormat reports whether the error is an UnsupportedFormatError.
func IsUnsupportedFormat(err error) bool {
	var target *UnsupportedFormatError
	return errors.As(err, &target)
}

// IsMalformedContainer reports whether the error is a MalformedContainerError.
func IsMalformedContainer(err error) bool {
	var target *MalformedContainerError
	return errors.As(err, &target)
}
