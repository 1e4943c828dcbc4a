// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, and utility functions

package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/karussell/bach/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "invalid_argument_error",
			code:    errors.ErrInvalidArgument,
			message: "argument must not be nil",
			wantStr: "[INVALID_ARGUMENT] argument must not be nil",
		},
		{
			name:    "download_error",
			code:    errors.ErrDownload,
			message: "transfer interrupted",
			wantStr: "[DOWNLOAD] transfer interrupted",
		},
		{
			name:    "execution_error",
			code:    errors.ErrExecutionFailed,
			message: "exit value 1 indicates an error",
			wantStr: "[EXECUTION_FAILED] exit value 1 indicates an error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := errors.Wrap(cause, errors.ErrDownload, "fetching artifact failed")

	if !stderrors.Is(err, cause) {
		t.Error("Wrap() should preserve the wrapped error for errors.Is")
	}

	want := "[DOWNLOAD] fetching artifact failed: connection refused"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	if errors.Wrap(nil, errors.ErrDownload, "ignored") != nil {
		t.Error("Wrap(nil) should return nil")
	}
}

func TestIsErrorCode(t *testing.T) {
	err := errors.Newf(errors.ErrSpawn, "starting %q failed", "javac")

	if !errors.IsErrorCode(err, errors.ErrSpawn) {
		t.Error("IsErrorCode() should match the error's code")
	}

	if errors.IsErrorCode(err, errors.ErrExecutionFailed) {
		t.Error("IsErrorCode() should not match a different code")
	}

	if errors.IsErrorCode(stderrors.New("plain"), errors.ErrSpawn) {
		t.Error("IsErrorCode() should not match a plain error")
	}
}

func TestGetErrorCode(t *testing.T) {
	wrapped := errors.Wrap(stderrors.New("io"), errors.ErrFileAccess, "stat failed")

	if got := errors.GetErrorCode(wrapped); got != errors.ErrFileAccess {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrFileAccess)
	}

	if got := errors.GetErrorCode(stderrors.New("plain")); got != errors.ErrUnknown {
		t.Errorf("GetErrorCode() = %v, want %v", got, errors.ErrUnknown)
	}
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrExecutionFailed, "tool failed").
		WithDetail("executable", "javac").
		WithDetail("exitCode", 2)

	details := errors.GetErrorDetails(err)
	if details["executable"] != "javac" {
		t.Errorf("details[executable] = %v, want javac", details["executable"])
	}
	if details["exitCode"] != 2 {
		t.Errorf("details[exitCode] = %v, want 2", details["exitCode"])
	}
}
