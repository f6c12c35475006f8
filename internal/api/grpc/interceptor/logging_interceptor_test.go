package interceptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var info = &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}

func TestRecovery(t *testing.T) {
	resp, err := Recovery()(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		panic("boom")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestLoggingPassesThrough(t *testing.T) {
	want := status.Error(codes.NotFound, "unknown service")
	resp, err := Logging()(context.Background(), nil, info, func(context.Context, interface{}) (interface{}, error) {
		return "ok", want
	})
	assert.Equal(t, "ok", resp)
	assert.Equal(t, want, err)
}
