package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"

	"github.com/dtroode/zyneth-auth/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	s := New(health.NewServer(), testutil.MakeNoopLogger()).Register()
	require.NotNil(t, s)

	info := s.GetServiceInfo()
	assert.Contains(t, info, "grpc.health.v1.Health")
	assert.Contains(t, info, "grpc.reflection.v1.ServerReflection")
}
