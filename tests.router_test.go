package main

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestSetupStorefrontRoutes ensures all expected storefront endpoints are implemented.
func TestSetupStorefrontRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"index endpoint",
			httptest.NewRequest(http.MethodGet, "/", nil),
			true,
		},
		{
			"status endpoint",
			httptest.NewRequest(http.MethodGet, "/status", nil),
			true,
		},
		{
			"fetch library endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/books", nil),
			true,
		},
		{
			"fetch single book endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/books/1", nil),
			true,
		},
		{
			"fetch featured endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/featured", nil),
			true,
		},
		{
			"fetch genres endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/genres", nil),
			true,
		},
		{
			"fetch authors endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/authors", nil),
			true,
		},
		{
			"fetch favorites endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/favorites", nil),
			true,
		},
		{
			"toggle favorite endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/favorites/1/toggle", nil),
			true,
		},
		{
			"fetch cart endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/cart", nil),
			true,
		},
		{
			"fetch cart badge endpoint",
			httptest.NewRequest(http.MethodGet, "/v1/cart/badge", nil),
			true,
		},
		{
			"add cart item endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/cart/items", nil),
			true,
		},
		{
			"update cart item endpoint",
			httptest.NewRequest(http.MethodPut, "/v1/cart/items/1", nil),
			true,
		},
		{
			"adjust cart item endpoint",
			httptest.NewRequest(http.MethodPost, "/v1/cart/items/1/adjust", nil),
			true,
		},
		{
			"remove cart item endpoint",
			httptest.NewRequest(http.MethodDelete, "/v1/cart/items/1", nil),
			true,
		},
		{
			"fetch fragment endpoint",
			httptest.NewRequest(http.MethodGet, "/fragments/footer", nil),
			true,
		},
		{
			"invalid api endpoint",
			httptest.NewRequest(http.MethodGet, "/v1", nil),
			false,
		},
		{
			"invalid books endpoint",
			httptest.NewRequest(http.MethodGet, "/books", nil),
			false,
		},
	}

	api, _ := newTestAPIHandler(t)
	folder := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(folder, "footer.html"), []byte("<footer></footer>"), 0o600))
	api.fragments = NewFragmentStore(zap.NewNop(), folder)

	// seed one cart line so the quantity endpoints resolve it.
	seed := httptest.NewRecorder()
	api.AddCartItem(seed, httptest.NewRequest(http.MethodPost, "/v1/cart/items", bytes.NewBufferString(`{"id": 1}`)), httprouter.Params{})
	seed.Result().Body.Close()

	router := httprouter.New()
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api.SetupStorefrontRoutes(router, m)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupOpsRoutes ensures all expected operations endpoints are implemented.
func TestSetupOpsRoutes(t *testing.T) {
	testCases := []struct {
		name        string
		request     *http.Request
		implemented bool
	}{
		{
			"fetch configs endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"fetch stats endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/stats", nil),
			true,
		},
		{
			"maintenance mode endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/maintenance", nil),
			true,
		},
		{
			"invalid ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops", nil),
			false,
		},
		{
			"unknown ops endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/unknown", nil),
			false,
		},
		{
			"disabled profiler endpoint",
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
	}

	api, _ := newTestAPIHandler(t)
	api.config.ProfilerEndpointsEnable = false
	router := httprouter.New()
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api.SetupOpsRoutes(router, m)

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutes ensures all expected endpoints are implemented.
func TestSetupRoutes(t *testing.T) {
	testCases := []struct {
		name               string
		OpsEndpointsEnable bool
		request            *http.Request
		implemented        bool
	}{
		{
			"ops disable:fetch configs endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			false,
		},
		{
			"ops enable:fetch configs endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/configs", nil),
			true,
		},
		{
			"ops disable:disabled profiler endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
		{
			"ops enable:disabled profiler endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/ops/debug/pprof/", nil),
			false,
		},
		{
			"ops disable:fetch library endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/v1/books", nil),
			true,
		},
		{
			"ops enable:fetch library endpoint",
			true,
			httptest.NewRequest(http.MethodGet, "/v1/books", nil),
			true,
		},
		{
			"invalid ops endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/ops/", nil),
			false,
		},
		{
			"invalid book endpoint",
			false,
			httptest.NewRequest(http.MethodGet, "/books/", nil),
			false,
		},
	}

	api, _ := newTestAPIHandler(t)
	api.config.ProfilerEndpointsEnable = false
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			router := httprouter.New()
			api.config.OpsEndpointsEnable = tc.OpsEndpointsEnable
			api.SetupRoutes(router, m)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, tc.request)
			if tc.implemented {
				assert.NotEqual(t, 404, w.Code)
			} else {
				assert.Equal(t, 404, w.Code)
			}
		})
	}
}

// TestSetupRoutes_NotFound ensures exact status code and json response body when a user requests an inexistant route.
func TestSetupRoutes_NotFound(t *testing.T) {
	m := &MiddlewareMap{public: (&Middlewares{}).Chain, ops: (&Middlewares{}).Chain}
	api, _ := newTestAPIHandler(t)
	api.idsHandler = NewMockUIDHandler("abc", true)
	router := httprouter.New()
	api.SetupRoutes(router, m)
	r := httptest.NewRequest(http.MethodGet, "/x/books/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	res := w.Result()
	defer res.Body.Close()
	assert.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "application/json; charset=UTF-8", res.Header.Get("Content-Type"))
	data, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	expected := `{"requestid":"r:abc", "message":"route does not exist", "path":"GET /x/books/"}`
	assert.JSONEq(t, expected, string(data))
}
