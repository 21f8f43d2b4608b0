package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/letterplace/internal/logger"
)

func testOptions(addr string) ConnectOptions {
	return ConnectOptions{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 300 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    100 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestNewConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := New(context.Background(), testOptions(mr.Addr()), logger.Nop())
	require.NoError(t, err)
	defer func() { _ = client.Close() }()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewGivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	start := time.Now()
	_, err := New(context.Background(), testOptions(addr), logger.Nop())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
	}{
		{"no addr", func(o *ConnectOptions) { o.Addr = "" }},
		{"no connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{"no retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{"no max wait", func(o *ConnectOptions) { o.MaxWait = 0 }},
		{"no ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{"negative threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOptions("localhost:6379")
			tt.mutate(&o)
			assert.Error(t, o.Validate())
		})
	}

	assert.NoError(t, testOptions("localhost:6379").Validate())
}
