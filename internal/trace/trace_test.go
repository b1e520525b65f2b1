package trace

import (
	"context"
	"testing"
)

func TestDisabledTracingIsNoop(t *testing.T) {
	active = nil
	ctx := context.Background()

	if Enabled() {
		t.Error("tracing should report disabled before Init")
	}
	got, span := StartSpan(ctx, "fetch")
	if got != ctx {
		t.Error("disabled StartSpan must return the caller's context")
	}
	if span.SpanContext().IsValid() {
		t.Error("disabled StartSpan must not mint a recording span")
	}
	if _, _, ok := GetTraceFields(ctx); ok {
		t.Error("no trace fields expected without a provider")
	}
	if err := Shutdown(ctx); err != nil {
		t.Errorf("shutdown without a provider: %v", err)
	}
}

func TestTracingWanted(t *testing.T) {
	cases := []struct {
		raw  string
		want bool
	}{
		{"", true},
		{"true", true},
		{"1", true},
		{"false", false},
		{"0", false},
		{"garbage", true},
	}
	for _, tc := range cases {
		t.Setenv("LOG_TRACING_ENABLED", tc.raw)
		if got := tracingWanted(); got != tc.want {
			t.Errorf("LOG_TRACING_ENABLED=%q: got %v, want %v", tc.raw, got, tc.want)
		}
	}
}
