package landscape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 1, 29, 14, 30, 0, 0, time.UTC)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{
		URI:       srv.URL + "/api/",
		AccessKey: "KEY",
		SecretKey: "SECRET",
	}, WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return c
}

// verifySignature recomputes the signature from the received query the
// way the Landscape server does.
func verifySignature(t *testing.T, r *http.Request) {
	t.Helper()
	params := r.URL.Query()
	got := params.Get("signature")
	params.Del("signature")
	want := sign("SECRET", r.Method, r.Host, r.URL.Path, canonicalQuery(params))
	assert.Equal(t, want, got)
}

func TestGetComputersSignsRequest(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "GetComputers", q.Get("action"))
		assert.Equal(t, "KEY", q.Get("access_key_id"))
		assert.Equal(t, "HmacSHA256", q.Get("signature_method"))
		assert.Equal(t, "2", q.Get("signature_version"))
		assert.Equal(t, "2011-08-01", q.Get("version"))
		assert.Equal(t, "2026-01-29T14:30:00Z", q.Get("timestamp"))
		assert.Equal(t, "tag:ALL", q.Get("query"))
		assert.Equal(t, "300", q.Get("limit"))
		assert.Equal(t, "true", q.Get("with_annotations"))
		assert.False(t, q.Has("offset"))
		verifySignature(t, r)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 1, "hostname": "prod-web-01", "annotations": {"env": "prod"}}]`))
	})

	machines, err := c.GetComputers(context.Background(), ComputerQuery{Query: "tag:ALL", Limit: 300, WithAnnotations: true})
	require.NoError(t, err)
	require.Len(t, machines, 1)
	assert.Equal(t, "1", machines[0].ID.String())
	assert.Equal(t, "prod", machines[0].Annotation("env"))
}

func TestSingleObjectIsWrapped(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name": "openssl", "version": "3.0.0"}`))
	})

	pkgs, err := c.GetPackages(context.Background(), PackageQuery{Search: "openssl", Query: "id:1", Limit: 1})
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, "openssl", pkgs[0].Name)
}

func TestEmptyBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})

	alerts, err := c.GetAlerts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, alerts)
}

func TestRequestParameters(t *testing.T) {
	var got url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	})

	_, err := c.GetNotPingingComputers(context.Background(), 60, 25)
	require.NoError(t, err)
	assert.Equal(t, "GetNotPingingComputers", got.Get("action"))
	assert.Equal(t, "60", got.Get("since_minutes"))
	assert.Equal(t, "25", got.Get("limit"))

	_, err = c.GetActivities(context.Background(), ActivityQuery{Query: "computer:id:7 status:failed", Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, "GetActivities", got.Get("action"))
	assert.Equal(t, "computer:id:7 status:failed", got.Get("query"))
	assert.Equal(t, "3", got.Get("limit"))
	assert.False(t, got.Has("offset"))
}

func TestAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "InvalidQuery", "message": "Invalid query: tag:"}`))
	})

	_, err := c.GetComputers(context.Background(), ComputerQuery{Query: "tag:"})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "InvalidQuery", apiErr.Code)
	assert.Equal(t, "Invalid query: tag:", apiErr.Message)
	assert.Equal(t, KindAPI, ErrorKind(err))
}

func TestAPIErrorPlainBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	})

	_, err := c.GetAlerts(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "upstream unavailable", apiErr.Message)
	assert.Contains(t, err.Error(), "GetAlerts")
}

func TestErrorKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c, err := NewClient(Config{URI: srv.URL, AccessKey: "k", SecretKey: "s"})
	require.NoError(t, err)
	_, err = c.GetAlerts(context.Background())
	assert.Equal(t, KindConnection, ErrorKind(err))

	ctx, cancel := context.WithTimeout(context.Background(), 0)
	defer cancel()
	assert.Equal(t, KindTimeout, ErrorKind(ctx.Err()))

	assert.Equal(t, KindInternal, ErrorKind(errors.New("boom")))
}

func TestNewClientValidation(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{URI: "landscape.example.com/api"})
	assert.Error(t, err)

	_, err = NewClient(Config{URI: "https://landscape.example.com/api/", CAFile: "/does/not/exist.pem"})
	assert.Error(t, err)
}

func TestPercentEncode(t *testing.T) {
	assert.Equal(t, "tag%3AALL%20web~%2A", percentEncode("tag:ALL web~*"))
	assert.Equal(t, "a=1&b=x%20y&b=z", canonicalQuery(url.Values{"b": {"x y", "z"}, "a": {"1"}}))
}
