package probe

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheck_Exec_Success(t *testing.T) {
	t.Parallel()

	res := Check(context.Background(), Spec{Kind: KindExec, Command: []string{"true"}}, time.Second)
	assert.True(t, res.OK)
}

func TestCheck_Exec_ExpectedNonZeroExit(t *testing.T) {
	t.Parallel()

	spec := Spec{Kind: KindExec, Command: []string{"sh", "-c", "exit 3"}, ExpectExit: 3}
	res := Check(context.Background(), spec, time.Second)
	assert.True(t, res.OK)
}

func TestCheck_Exec_ExitCodeMismatch(t *testing.T) {
	t.Parallel()

	spec := Spec{Kind: KindExec, Command: []string{"sh", "-c", "exit 3"}}
	res := Check(context.Background(), spec, time.Second)
	assert.False(t, res.OK)
	assert.Contains(t, res.Err, "exit code 3")
	assert.Contains(t, res.Err, "expected 0")
}

func TestCheck_Exec_SpawnFailure(t *testing.T) {
	t.Parallel()

	spec := Spec{Kind: KindExec, Command: []string{"definitely-not-a-real-binary-xyz"}}
	res := Check(context.Background(), spec, time.Second)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Err)
}

func TestCheck_Exec_Timeout(t *testing.T) {
	t.Parallel()

	spec := Spec{Kind: KindExec, Command: []string{"sleep", "10"}}
	start := time.Now()
	res := Check(context.Background(), spec, 50*time.Millisecond)
	assert.False(t, res.OK)
	assert.Less(t, time.Since(start), 2*time.Second)
	assert.Contains(t, res.Err, "deadline")
}
