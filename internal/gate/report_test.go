package gate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/wildme/testgate/internal/probe"
)

func TestRender_AllReady(t *testing.T) {
	t.Parallel()

	report := Report{
		AllReady: true,
		Statuses: []Status{
			{Result: probe.Result{Dependency: "wildbook", Attempt: 1, OK: true, Latency: 12 * time.Millisecond}},
			{Result: probe.Result{Dependency: "opensearch", Attempt: 3, OK: true, Latency: 40 * time.Millisecond}},
		},
		Elapsed: 5 * time.Second,
	}

	out := Render(report)
	assert.Contains(t, out, "wildbook")
	assert.Contains(t, out, "opensearch")
	assert.Contains(t, out, "all dependencies ready")
}

func TestRender_FailureShowsLastError(t *testing.T) {
	t.Parallel()

	report := Report{
		Statuses: []Status{
			{Result: probe.Result{Dependency: "wildbook", Attempt: 1, OK: true}},
			{
				Result: probe.Result{Dependency: "wbia", Attempt: 3, OK: false, Err: "connection refused"},
				Reason: ReasonAttemptsExhausted,
			},
		},
		Elapsed: 3 * time.Second,
	}

	out := Render(report)
	assert.Contains(t, out, "wbia")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "attempts exhausted")
	assert.Contains(t, out, "not ready")
}

func TestReasonText(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "attempts exhausted", reasonText(ReasonAttemptsExhausted))
	assert.Equal(t, "deadline exceeded", reasonText(ReasonDeadlineExceeded))
	assert.Equal(t, "canceled", reasonText(ReasonCanceled))
}
