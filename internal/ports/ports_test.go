package ports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// mockChecker implements HealthChecker for testing.
type mockChecker struct {
	name string
	err  error
}

func (m *mockChecker) Name() string {
	return m.name
}

func (m *mockChecker) Check(ctx context.Context) error {
	return m.err
}

func TestHealthRegistry_Register(t *testing.T) {
	registry := NewHealthRegistry()
	require.Empty(t, registry.checkers)

	require.NoError(t, registry.Register(&mockChecker{name: "metadata-server"}))

	err := registry.Register(&mockChecker{name: "metadata-server"})
	require.ErrorIs(t, err, ErrDuplicateChecker)
	assert.Contains(t, err.Error(), "metadata-server")
	assert.Len(t, registry.checkers, 1)
}

func TestHealthRegistry_CheckAll(t *testing.T) {
	unauthorized := domain.NewUnauthorizedError(domain.CodeUserNotAuthorized, domain.OpListZonesForDomain, "healthcheck")

	tests := []struct {
		name     string
		checkers []*mockChecker
		want     HealthStatus
		messages map[string]string
	}{
		{
			name: "no checkers",
			want: HealthStatusHealthy,
		},
		{
			name: "every server answers",
			checkers: []*mockChecker{
				{name: "metadata-server"},
				{name: "metadata-server-dr"},
			},
			want:     HealthStatusHealthy,
			messages: map[string]string{"metadata-server": "", "metadata-server-dr": ""},
		},
		{
			name: "one server refuses the health user",
			checkers: []*mockChecker{
				{name: "metadata-server"},
				{name: "metadata-server-dr", err: unauthorized},
			},
			want: HealthStatusUnhealthy,
			messages: map[string]string{
				"metadata-server":    "",
				"metadata-server-dr": unauthorized.Error(),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := NewHealthRegistry()
			for _, c := range tt.checkers {
				require.NoError(t, registry.Register(c))
			}

			result := registry.CheckAll(context.Background())

			require.NotNil(t, result)
			assert.Equal(t, tt.want, result.Status)
			assert.False(t, result.Timestamp.IsZero())
			require.Len(t, result.Checks, len(tt.messages))

			for name, msg := range tt.messages {
				assert.Equal(t, msg, result.Checks[name].Message, name)
				if msg == "" {
					assert.Equal(t, HealthStatusHealthy, result.Checks[name].Status, name)
				}
			}
		})
	}
}

// contextAwareChecker implements HealthChecker that respects context cancellation.
type contextAwareChecker struct {
	name string
}

func (c *contextAwareChecker) Name() string {
	return c.name
}

func (c *contextAwareChecker) Check(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// TestCheckAll_ContextCancelled verifies that the health check respects context cancellation.
func TestCheckAll_ContextCancelled(t *testing.T) {
	registry := NewHealthRegistry()
	checker := &contextAwareChecker{name: "metadata-server"}

	require.NoError(t, registry.Register(checker))

	// Create a context that's already cancelled
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := registry.CheckAll(ctx)

	require.NotNil(t, result)
	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Len(t, result.Checks, 1)
	assert.Equal(t, HealthStatusUnhealthy, result.Checks["metadata-server"].Status)
	assert.Contains(t, result.Checks["metadata-server"].Message, "context canceled")
}

// TestCheckAll_RecordsFailureKind verifies that typed failures are tagged in the result.
func TestCheckAll_RecordsFailureKind(t *testing.T) {
	registry := NewHealthRegistry()
	failure := domain.NewPropertyServerError(domain.CodeClientSideRESTFailure, "listZonesForDomain", nil,
		"/servers/cocoMDS1", "connection refused")

	require.NoError(t, registry.Register(&mockChecker{name: "metadata-server", err: failure}))
	require.NoError(t, registry.Register(&mockChecker{name: "plain", err: errors.New("disk full")}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Equal(t, domain.KindPropertyServerFailure, result.Checks["metadata-server"].Failure)
	assert.Contains(t, result.Checks["metadata-server"].Message, "connection refused")
	assert.Empty(t, result.Checks["plain"].Failure)
}

// TestCheckAll_CheckTimeout verifies that each check is bounded by the configured timeout.
func TestCheckAll_CheckTimeout(t *testing.T) {
	registry := NewHealthRegistry(WithCheckTimeout(10*time.Millisecond), WithConcurrency(1))
	require.NoError(t, registry.Register(&contextAwareChecker{name: "metadata-server"}))
	require.NoError(t, registry.Register(&mockChecker{name: "metadata-server-dr"}))

	result := registry.CheckAll(context.Background())

	assert.Equal(t, HealthStatusUnhealthy, result.Status)
	assert.Contains(t, result.Checks["metadata-server"].Message, "deadline exceeded")
	assert.Equal(t, HealthStatusHealthy, result.Checks["metadata-server-dr"].Status)
}
