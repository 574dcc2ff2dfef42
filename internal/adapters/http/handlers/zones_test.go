package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/envelope"
	"github.com/jsamuelsen/metadata-access-client/internal/adapters/http/dto"
	"github.com/jsamuelsen/metadata-access-client/internal/app"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

const testZonesPath = "/servers/cocoMDS1/open-metadata/access-services/governance-program/users/erin/governance-zones"

func newZoneRouter(t *testing.T, users ...string) (*gin.Engine, *app.ZoneRegistry) {
	t.Helper()

	registry := app.NewZoneRegistry(app.ZoneRegistryConfig{
		AuthorizedUsers: users,
		Logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	router := gin.New()
	NewZoneHandler(registry, "cocoMDS1").RegisterZoneRoutes(&router.RouterGroup)

	return router, registry
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func failureOf(t *testing.T, w *httptest.ResponseRecorder, operation string) domain.TypedFailure {
	t.Helper()

	env, err := envelope.Parse(w.Body.Bytes(), operation)
	require.NoError(t, err)
	require.True(t, env.Failed(), "expected a failure envelope, got %s", w.Body.String())
	assert.Equal(t, w.Code, env.RelatedHTTPCode)

	return envelope.Decode(env)
}

func createZone(t *testing.T, router *gin.Engine, name string, domainID int) string {
	t.Helper()

	w := do(router, http.MethodPost, testZonesPath, dto.ZoneRequest{
		Properties: &dto.ZoneProperties{QualifiedName: name, DomainIdentifier: domainID},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.GUIDResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.GUID)

	return resp.GUID
}

func TestZoneHandler_CreateAndFetch(t *testing.T) {
	router, _ := newZoneRouter(t)

	guid := createZone(t, router, "zone.finance", 1)

	w := do(router, http.MethodGet, testZonesPath+"/"+guid, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ZoneResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, resp.RelatedHTTPCode)
	require.NotNil(t, resp.Element)
	assert.Equal(t, guid, resp.Element.GUID)
	assert.Equal(t, "DRAFT", resp.Element.Status)
	assert.Equal(t, "zone.finance", resp.Element.Properties.QualifiedName)
}

func TestZoneHandler_CreateDuplicate(t *testing.T) {
	router, _ := newZoneRouter(t)
	guid := createZone(t, router, "zone.finance", 0)

	w := do(router, http.MethodPost, testZonesPath, dto.ZoneRequest{
		Properties: &dto.ZoneProperties{QualifiedName: "zone.finance"},
	})

	assert.Equal(t, http.StatusConflict, w.Code)

	var dup *domain.DuplicateValueError
	require.ErrorAs(t, failureOf(t, w, domain.OpCreateZone), &dup)
	require.Len(t, dup.Duplicates, 1)
	assert.Equal(t, guid, dup.Duplicates[0].GUID)
	assert.Equal(t, domain.CodeDuplicateZoneName, dup.Code)
}

func TestZoneHandler_Failures(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		operation  string
		wantStatus int
		wantKind   domain.FailureKind
		wantCode   domain.ErrorCode
	}{
		{
			name:       "unknown zone",
			method:     http.MethodGet,
			path:       testZonesPath + "/missing",
			operation:  domain.OpFetchZone,
			wantStatus: http.StatusNotFound,
			wantKind:   domain.KindUnrecognizedIdentifier,
			wantCode:   domain.CodeUnknownZone,
		},
		{
			name:       "missing properties",
			method:     http.MethodPost,
			path:       testZonesPath,
			body:       map[string]any{},
			operation:  domain.OpCreateZone,
			wantStatus: http.StatusBadRequest,
			wantKind:   domain.KindInvalidParameter,
			wantCode:   domain.CodeNullProperties,
		},
		{
			name:       "negative page size",
			method:     http.MethodGet,
			path:       testZonesPath + "/for-domain?domain=0&startFrom=0&pageSize=-1",
			operation:  domain.OpListZonesForDomain,
			wantStatus: http.StatusBadRequest,
			wantKind:   domain.KindInvalidParameter,
			wantCode:   domain.CodeNegativePageSize,
		},
		{
			name:       "bad search pattern",
			method:     http.MethodPost,
			path:       testZonesPath + "/by-name?startFrom=0&pageSize=10",
			body:       dto.NameRequest{Name: "(["},
			operation:  domain.OpFetchZonesByName,
			wantStatus: http.StatusBadRequest,
			wantKind:   domain.KindInvalidParameter,
			wantCode:   domain.CodeInvalidRequestBody,
		},
		{
			name:       "unset status",
			method:     http.MethodPost,
			path:       testZonesPath + "/missing/status",
			body:       dto.StatusRequest{Status: "SOMETHING"},
			operation:  domain.OpUpdateZoneStatus,
			wantStatus: http.StatusBadRequest,
			wantKind:   domain.KindInvalidParameter,
			wantCode:   domain.CodeNullEnum,
		},
		{
			name:       "delete unknown zone",
			method:     http.MethodPost,
			path:       testZonesPath + "/missing/delete",
			body:       map[string]any{},
			operation:  domain.OpDeleteZone,
			wantStatus: http.StatusNotFound,
			wantKind:   domain.KindUnrecognizedIdentifier,
			wantCode:   domain.CodeUnknownZone,
		},
		{
			name:       "other server",
			method:     http.MethodGet,
			path:       "/servers/other/open-metadata/access-services/governance-program/users/erin/governance-zones/x",
			operation:  domain.OpFetchZone,
			wantStatus: http.StatusNotFound,
			wantKind:   domain.KindPropertyServerFailure,
			wantCode:   domain.CodeUnexpectedServerFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, _ := newZoneRouter(t)

			w := do(router, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, w.Code)

			f := failureOf(t, w, tt.operation)
			assert.Equal(t, tt.wantKind, f.Kind())
			assert.Equal(t, tt.wantCode, f.Info().Code)
			assert.Contains(t, f.Error(), tt.operation)
		})
	}
}

func TestZoneHandler_Unauthorized(t *testing.T) {
	router, _ := newZoneRouter(t, "garygeeke")

	w := do(router, http.MethodGet, testZonesPath+"/for-domain", nil)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var ua *domain.UnauthorizedError
	require.ErrorAs(t, failureOf(t, w, domain.OpListZonesForDomain), &ua)
	assert.Contains(t, ua.Message, "erin")
}

func TestZoneHandler_UpdateStatusDelete(t *testing.T) {
	router, registry := newZoneRouter(t)
	guid := createZone(t, router, "zone.finance", 0)

	w := do(router, http.MethodPost, testZonesPath+"/"+guid+"?isMergeUpdate=true", dto.ZoneRequest{
		Properties: &dto.ZoneProperties{Description: "money"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(router, http.MethodPost, testZonesPath+"/"+guid+"/status", dto.StatusRequest{Status: "ACTIVE"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	zone, err := registry.Get(t.Context(), "erin", guid)
	require.NoError(t, err)
	assert.Equal(t, "zone.finance", zone.Properties.QualifiedName)
	assert.Equal(t, "money", zone.Properties.Description)
	assert.Equal(t, domain.ZoneStatusActive, zone.Status)

	w = do(router, http.MethodPost, testZonesPath+"/"+guid+"?isMergeUpdate=false", dto.ZoneRequest{
		Properties: &dto.ZoneProperties{Description: "no name"},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(router, http.MethodPost, testZonesPath+"/"+guid+"/delete", map[string]any{})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, registry.Len())
}

func TestZoneHandler_Lists(t *testing.T) {
	router, _ := newZoneRouter(t)
	createZone(t, router, "zone.finance.emea", 1)
	createZone(t, router, "zone.finance.apac", 1)
	createZone(t, router, "zone.hr", 2)

	names := func(w *httptest.ResponseRecorder) []string {
		t.Helper()
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp dto.ZoneListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		out := make([]string, 0, len(resp.Elements))
		for _, e := range resp.Elements {
			out = append(out, e.Properties.QualifiedName)
		}

		return out
	}

	got := names(do(router, http.MethodGet, testZonesPath+"/for-domain?domain=1&startFrom=0&pageSize=10", nil))
	assert.Equal(t, []string{"zone.finance.apac", "zone.finance.emea"}, got)

	got = names(do(router, http.MethodGet, testZonesPath+"/for-domain?domain=0&startFrom=1&pageSize=1", nil))
	assert.Equal(t, []string{"zone.finance.emea"}, got)

	got = names(do(router, http.MethodPost, testZonesPath+"/by-name?startFrom=0&pageSize=0",
		dto.NameRequest{Name: "hr$"}))
	assert.Equal(t, []string{"zone.hr"}, got)

	got = names(do(router, http.MethodPost, testZonesPath+"/by-name?startFrom=0&pageSize=0",
		dto.NameRequest{Name: "nothing"}))
	assert.Empty(t, got)
}
