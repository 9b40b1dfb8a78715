package health_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lunargate/lunargate/internal/health"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(_ context.Context) error {
	return s.err
}

func TestHandler_Check(t *testing.T) {
	t.Run("reports ok when the cache store is reachable", func(t *testing.T) {
		handler := health.NewHandler(stubChecker{})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "ok", resp.Body.Status)
		assert.Equal(t, "healthy", resp.Body.Cache)
	})

	t.Run("reports degraded, not failed, when the cache store is down", func(t *testing.T) {
		handler := health.NewHandler(stubChecker{err: errors.New("connection refused")})

		resp, err := handler.Check(context.Background(), nil)

		require.NoError(t, err)
		assert.Equal(t, "degraded", resp.Body.Status)
		assert.Equal(t, "unhealthy", resp.Body.Cache)
	})
}
