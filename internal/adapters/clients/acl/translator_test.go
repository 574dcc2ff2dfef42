package acl

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/metadata-access-client/internal/adapters/clients"
	"github.com/jsamuelsen/metadata-access-client/internal/domain"
)

// testCaller returns a caller pointed at baseURL.
func testCaller(t *testing.T, baseURL string) *Caller {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "cocoMDS1",
		BaseURL:     baseURL,
		Timeout:     5 * time.Second,
	})
	require.NoError(t, err)

	caller, err := NewCaller(client, "cocoMDS1", nil)
	require.NoError(t, err)

	return caller
}

func TestFillTemplate(t *testing.T) {
	tests := []struct {
		name     string
		template string
		params   []any
		expected string
	}{
		{
			name:     "path only",
			template: "/servers/{0}/users/{1}/zones/{2}",
			params:   []any{"cocoMDS1", "erin", "abc-123"},
			expected: "/servers/cocoMDS1/users/erin/zones/abc-123",
		},
		{
			name:     "path values are escaped",
			template: "/servers/{0}/zones/{1}",
			params:   []any{"my server", "a/b"},
			expected: "/servers/my%20server/zones/a%2Fb",
		},
		{
			name:     "query values are escaped",
			template: "/zones/{0}?domain={1}&name={2}",
			params:   []any{"x", 3, "a b&c"},
			expected: "/zones/x?domain=3&name=a+b%26c",
		},
		{
			name:     "braces in values are not reinterpreted",
			template: "/zones/{0}/{1}",
			params:   []any{"{1}", "z"},
			expected: "/zones/%7B1%7D/z",
		},
		{
			name:     "missing params leave slots",
			template: "/zones/{0}/{1}",
			params:   []any{"x"},
			expected: "/zones/x/{1}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FillTemplate(tt.template, tt.params...))
		})
	}
}

func TestCaller_GetWithoutBody(t *testing.T) {
	var method, path string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		_, _ = io.WriteString(w, `{"relatedHTTPCode":200,"guid":"g-1"}`)
	}))
	defer server.Close()

	env, err := testCaller(t, server.URL).Call(context.Background(), domain.OpFetchZone, "/zones/{0}", []any{"g-1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "/zones/g-1", path)
	assert.False(t, env.Failed())
	assert.Equal(t, domain.OpFetchZone, env.Operation)
}

func TestCaller_PostWithJSONBody(t *testing.T) {
	var method, contentType string
	var body []byte

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, contentType = r.Method, r.Header.Get("Content-Type")
		body, _ = io.ReadAll(r.Body)
		_, _ = io.WriteString(w, `{"relatedHTTPCode":200}`)
	}))
	defer server.Close()

	_, err := testCaller(t, server.URL).Call(context.Background(), domain.OpUpdateZoneStatus, "/zones/{0}/status",
		[]any{"g-1"}, statusRequestBody{Status: "ACTIVE"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "application/json", contentType)
	assert.JSONEq(t, `{"status":"ACTIVE"}`, string(body))
}

func TestCaller_ConnectionErrorIsPropertyServerFailure(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := listener.Addr().String()
	require.NoError(t, listener.Close())

	_, err = testCaller(t, "http://"+addr).Call(context.Background(), domain.OpFetchZone, "/zones/{0}", []any{"g-1"}, nil)
	require.Error(t, err)

	var psf *domain.PropertyServerError
	require.ErrorAs(t, err, &psf)
	assert.Equal(t, domain.CodeClientSideRESTFailure, psf.Code)
	assert.Equal(t, domain.OpFetchZone, psf.Operation)
	assert.Contains(t, psf.Message, "http://"+addr+"/zones/g-1")
	assert.ErrorIs(t, err, clients.ErrRequestFailed)
}

func TestCaller_NonJSONBodyIsPropertyServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = io.WriteString(w, "<html>bad gateway</html>")
	}))
	defer server.Close()

	_, err := testCaller(t, server.URL).Call(context.Background(), domain.OpFetchZone, "/zones/{0}", []any{"g-1"}, nil)

	var psf *domain.PropertyServerError
	require.ErrorAs(t, err, &psf)
	assert.Equal(t, domain.CodeUnexpectedResponse, psf.Code)
	assert.Equal(t, http.StatusBadGateway, psf.StatusCode)
	assert.Contains(t, psf.Message, server.URL+"/zones/g-1")
}

func TestCaller_ErrorStatusWithoutTagIsPropertyServerFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, `{"relatedHTTPCode":500}`)
	}))
	defer server.Close()

	_, err := testCaller(t, server.URL).Call(context.Background(), domain.OpFetchZone, "/zones/{0}", []any{"g-1"}, nil)

	var psf *domain.PropertyServerError
	require.ErrorAs(t, err, &psf)
	assert.Equal(t, domain.CodeUnexpectedResponse, psf.Code)
	assert.Contains(t, psf.Message, server.URL+"/zones/g-1")
}

func TestCaller_Endpoint(t *testing.T) {
	caller := testCaller(t, "http://mds.example:9443/")

	assert.Equal(t, "http://mds.example:9443/servers/cocoMDS1/zones/g%201",
		caller.Endpoint("/servers/{0}/zones/{1}", "cocoMDS1", "g 1"))
}

func TestInvoke_MalformedPayloadNamesFilledEndpoint(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"relatedHTTPCode":200,"guid":{"not":"a string"}}`)
	}))
	defer server.Close()

	_, err := Invoke[guidResponse](context.Background(), testCaller(t, server.URL),
		domain.OpCreateZone, "/servers/{0}/zones", []any{"cocoMDS1"}, nil)

	var psf *domain.PropertyServerError
	require.ErrorAs(t, err, &psf)
	assert.Equal(t, domain.CodeUnexpectedResponse, psf.Code)
	assert.Equal(t, domain.OpCreateZone, psf.Operation)
	assert.Contains(t, psf.Message, server.URL+"/servers/cocoMDS1/zones")
	assert.NotContains(t, psf.Message, "{0}")
}

func TestCaller_TaggedEnvelopeIsReturned(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"relatedHTTPCode":404,"exceptionClassName":"unrecognized-identifier"}`)
	}))
	defer server.Close()

	env, err := testCaller(t, server.URL).Call(context.Background(), domain.OpFetchZone, "/zones/{0}", []any{"g-1"}, nil)
	require.NoError(t, err)
	assert.True(t, env.Failed())
	assert.Equal(t, 404, env.RelatedHTTPCode)
}

func TestInvoke(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected []domain.FailureKind
		check    func(t *testing.T, resp *guidResponse, err error)
	}{
		{
			name:   "payload",
			status: http.StatusOK,
			body:   `{"relatedHTTPCode":200,"guid":"g-1"}`,
			check: func(t *testing.T, resp *guidResponse, err error) {
				require.NoError(t, err)
				assert.Equal(t, "g-1", resp.GUID)
			},
		},
		{
			name:     "expected failure",
			status:   http.StatusConflict,
			body:     `{"relatedHTTPCode":409,"exceptionClassName":"duplicate-value","exceptionErrorMessage":"dup"}`,
			expected: []domain.FailureKind{domain.KindDuplicateValue},
			check: func(t *testing.T, resp *guidResponse, err error) {
				assert.Nil(t, resp)
				assert.True(t, domain.IsDuplicateValue(err))
				assert.False(t, domain.IsPropertyServer(err))
			},
		},
		{
			name:     "unexpected failure is wrapped",
			status:   http.StatusConflict,
			body:     `{"relatedHTTPCode":409,"exceptionClassName":"duplicate-value","exceptionErrorMessage":"dup"}`,
			expected: []domain.FailureKind{domain.KindUnauthorized},
			check: func(t *testing.T, resp *guidResponse, err error) {
				assert.Nil(t, resp)
				assert.True(t, domain.IsPropertyServer(err))
				assert.False(t, domain.IsDuplicateValue(err))
			},
		},
		{
			name:   "unknown tag never succeeds",
			status: http.StatusOK,
			body:   `{"relatedHTTPCode":200,"exceptionClassName":"some-future-kind","guid":"g-1"}`,
			check: func(t *testing.T, resp *guidResponse, err error) {
				assert.Nil(t, resp)

				var psf *domain.PropertyServerError
				require.ErrorAs(t, err, &psf)
				assert.Equal(t, domain.CodeUnrecognizedFailureTag, psf.Code)
				assert.Contains(t, psf.Message, "some-future-kind")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			resp, err := Invoke[guidResponse](context.Background(), testCaller(t, server.URL),
				domain.OpCreateZone, "/zones", nil, nil, tt.expected...)
			tt.check(t, resp, err)
		})
	}
}

func TestTranslateSlice(t *testing.T) {
	items := []zoneElementDTO{
		{GUID: "a", Status: "ACTIVE"},
		{GUID: "b", Status: "DRAFT"},
	}

	zones := TranslateSlice(items, translateToDomain)

	require.Len(t, zones, 2)
	assert.Equal(t, "a", zones[0].GUID)
	assert.Equal(t, domain.ZoneStatusActive, zones[0].Status)
	assert.Equal(t, domain.ZoneStatusDraft, zones[1].Status)
}
