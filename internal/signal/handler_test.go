package signal

import (
	"context"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHandler_ContextNotCanceled(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	select {
	case <-h.Context().Done():
		t.Fatal("context should not be canceled before a signal arrives")
	default:
	}
	assert.Nil(t, h.Received())
}

func TestHandler_SignalCancelsContext(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	// Deliver a signal directly to the handler's channel rather than the
	// whole test process.
	h.sigChan <- syscall.SIGTERM

	select {
	case <-h.Interrupted():
	case <-time.After(time.Second):
		t.Fatal("interrupted channel did not close after signal")
	}

	select {
	case <-h.Context().Done():
	case <-time.After(time.Second):
		t.Fatal("context was not canceled after signal")
	}

	require.Equal(t, syscall.SIGTERM, h.Received())
}

func TestHandler_OnlyFirstSignalRecorded(t *testing.T) {
	h := NewHandler(context.Background())
	defer h.Stop()

	h.sigChan <- syscall.SIGINT
	<-h.Interrupted()
	h.sigChan <- syscall.SIGTERM

	// Give listen() a moment to drain the second signal.
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, syscall.SIGINT, h.Received())
}

func TestHandler_StopIsIdempotent(t *testing.T) {
	h := NewHandler(context.Background())
	h.Stop()
	h.Stop()

	select {
	case <-h.Context().Done():
	default:
		t.Fatal("Stop should cancel the context")
	}
}

func TestExitCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 130, ExitCode(syscall.SIGINT, 1))
	assert.Equal(t, 143, ExitCode(syscall.SIGTERM, 1))
	assert.Equal(t, 1, ExitCode(nil, 1))
}
