package probe

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A real server is exercised in integration environments; here we cover the
// failure paths that don't need one.

func TestCheck_Postgres_InvalidURI(t *testing.T) {
	t.Parallel()

	res := Check(context.Background(), Spec{Kind: KindPostgres, ConnURI: "not a uri"}, time.Second)
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Err)
}

func TestCheck_Postgres_ConnectionRefused(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr, ok := ln.Addr().(*net.TCPAddr)
	require.True(t, ok)
	require.NoError(t, ln.Close())

	uri := "postgres://wildbook:wildbook@" + addr.String() + "/wildbook?connect_timeout=1"
	res := Check(context.Background(), Spec{Kind: KindPostgres, ConnURI: uri}, time.Second)
	assert.False(t, res.OK)
	// The password must never surface in the error text.
	assert.NotContains(t, res.Err, ":wildbook@")
}
