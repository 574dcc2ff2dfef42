//go:build integration

package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/clients"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/clients/acl"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/middleware"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// TestClient_NoRetry verifies a failing call is made exactly once.
func TestClient_NoRetry(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestZoneClient(t, server.URL, 5*time.Second)

	_, err := client.ListZonesForDomain(context.Background(), "erin", 0, 0, 10)

	assert.True(t, domain.IsPropertyServer(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

// TestClient_Timeout_SlowResponse verifies the configured timeout turns a
// slow server into a transport failure.
func TestClient_Timeout_SlowResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newTestZoneClient(t, server.URL, 50*time.Millisecond)

	_, err := client.FetchZone(context.Background(), "erin", "zone-1")

	var psf *domain.PropertyServerError
	require.ErrorAs(t, err, &psf)
	assert.Equal(t, domain.CodeClientSideRESTFailure, psf.Code)
	assert.NotNil(t, psf.CausedBy)
}

// TestClient_ContextCancellation_Integration verifies a cancelled context
// ends the call with a transport failure.
func TestClient_ContextCancellation_Integration(t *testing.T) {
	release := make(chan struct{})

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()
	defer close(release)

	client := newTestZoneClient(t, server.URL, 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := client.FetchZone(ctx, "erin", "zone-1")

	var psf *domain.PropertyServerError
	require.ErrorAs(t, err, &psf)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// TestClient_HeaderPropagation_Integration verifies ids, credentials and
// the request shape reach the server.
func TestClient_HeaderPropagation_Integration(t *testing.T) {
	var (
		gotRequestID     string
		gotCorrelationID string
		gotUser          string
		gotMethod        string
		gotPath          string
		gotContentType   string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRequestID = r.Header.Get(middleware.HeaderRequestID)
		gotCorrelationID = r.Header.Get(middleware.HeaderCorrelationID)
		gotUser, _, _ = r.BasicAuth()
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"relatedHTTPCode":200}`))
	}))
	defer server.Close()

	client := newTestZoneClient(t, server.URL, 5*time.Second)

	ctx := middleware.ContextWithRequestID(context.Background(), "req-123")
	ctx = middleware.ContextWithCorrelationID(ctx, "corr-456")

	require.NoError(t, client.DeleteZone(ctx, "erin", "zone 1"))

	assert.Equal(t, "req-123", gotRequestID)
	assert.Equal(t, "corr-456", gotCorrelationID)
	assert.Equal(t, "erin", gotUser)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/servers/cocoMDS1/open-metadata/access-services/governance-program/users/erin/governance-zones/zone 1/delete",
		gotPath)
	assert.Contains(t, gotContentType, "application/json")
}

// TestClient_SharedTransport verifies a pre-built transport can be handed
// to the zone client.
func TestClient_SharedTransport(t *testing.T) {
	standIn := newStandIn(nil, nil)
	defer standIn.Close()

	transport, err := clients.New(&clients.Config{
		BaseURL:     standIn.URL,
		ServiceName: standInServerName,
		Timeout:     5 * time.Second,
		AuthFunc:    clients.BasicAuth("erin", standInPassword),
	})
	require.NoError(t, err)

	zones, err := acl.NewZoneClient(acl.ZoneClientConfig{
		Client:     transport,
		ServerName: standInServerName,
		Logger:     discardLogger(),
	})
	require.NoError(t, err)

	guid, err := zones.CreateZone(context.Background(), "erin", &domain.ZoneProperties{QualifiedName: "zone.shared"})
	require.NoError(t, err)
	assert.NotEmpty(t, guid)

	assert.NoError(t, zones.Check(context.Background()))
}

// TestClient_HealthCheck_Unreachable verifies the health check reports a
// server that cannot be reached.
func TestClient_HealthCheck_Unreachable(t *testing.T) {
	standIn := newStandIn(nil, nil)
	url := standIn.URL
	standIn.Close()

	client := newTestZoneClient(t, url, time.Second)

	err := client.Check(context.Background())
	assert.True(t, domain.IsPropertyServer(err))
	assert.Equal(t, "metadata-server", client.Name())
}
