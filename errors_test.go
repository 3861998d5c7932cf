package mlagent

import (
	"errors"
	"fmt"
	"testing"
)

func TestPredicatesMatchWrappedSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		check    func(error) bool
		label    string
		mismatch func(error) bool
	}{
		{
			name:     "invalid argument",
			err:      fmt.Errorf("%w: name is required", ErrInvalidArgument),
			check:    IsInvalidArgument,
			label:    "IsInvalidArgument",
			mismatch: IsUnavailable,
		},
		{
			name:     "unavailable",
			err:      fmt.Errorf("Pipeline.SetPipeline: %w: %w", ErrAgentUnavailable, errors.New("no endpoint")),
			check:    IsUnavailable,
			label:    "IsUnavailable",
			mismatch: IsTransportFailure,
		},
		{
			name:     "transport failure",
			err:      fmt.Errorf("Model.Get: %w: %w", ErrTransport, errors.New("connection reset")),
			check:    IsTransportFailure,
			label:    "IsTransportFailure",
			mismatch: IsMalformedPayload,
		},
		{
			name:     "malformed payload",
			err:      fmt.Errorf("Resource.Get: %w: %w", ErrMalformedPayload, errors.New("bad json")),
			check:    IsMalformedPayload,
			label:    "IsMalformedPayload",
			mismatch: IsResourceRootUnavailable,
		},
		{
			name:     "resource root unavailable",
			err:      fmt.Errorf("Model.GetAll: %w: %w", ErrResourceRootUnavailable, errors.New("no root")),
			check:    IsResourceRootUnavailable,
			label:    "IsResourceRootUnavailable",
			mismatch: IsInvalidArgument,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if !tc.check(tc.err) {
				t.Errorf("%s should match %v", tc.label, tc.err)
			}
			if tc.mismatch(tc.err) {
				t.Errorf("unrelated predicate should not match %v", tc.err)
			}
			if tc.check(nil) {
				t.Errorf("%s should not match nil", tc.label)
			}
		})
	}
}

func TestRemoteCodeExtractsAgentStatus(t *testing.T) {
	err := &RemoteError{Facet: "Model", Method: "Delete", Code: -22}

	if !IsRemoteFailure(err) {
		t.Error("IsRemoteFailure should match a RemoteError")
	}
	if code, ok := RemoteCode(err); !ok || code != -22 {
		t.Errorf("expected code -22, got %d (ok=%v)", code, ok)
	}

	wrapped := fmt.Errorf("deleting stale versions: %w", err)
	if code, ok := RemoteCode(wrapped); !ok || code != -22 {
		t.Errorf("expected code -22 through wrapping, got %d (ok=%v)", code, ok)
	}

	if _, ok := RemoteCode(errors.New("not remote")); ok {
		t.Error("RemoteCode should not match an unrelated error")
	}
	if IsRemoteFailure(nil) {
		t.Error("IsRemoteFailure should not match nil")
	}
}

func TestRemoteErrorNamesTheOperation(t *testing.T) {
	err := &RemoteError{Facet: "Pipeline", Method: "LaunchPipeline", Code: 2}
	want := "mlagent: Pipeline.LaunchPipeline: agent status 2"
	if err.Error() != want {
		t.Errorf("expected %q, got %q", want, err.Error())
	}
}
