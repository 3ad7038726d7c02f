package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildvision/observation-store-service/internal/config"
	"github.com/wildvision/observation-store-service/internal/httpserver"
	"github.com/wildvision/observation-store-service/internal/observability"
	"github.com/wildvision/observation-store-service/internal/store"
)

const (
	testAPIKey = "test-api-key"
	testOrigin = "https://www.wildvisionhunt.com"
)

func testConfig() config.Config {
	return config.Config{
		APIKey:         testAPIKey,
		CORSOrigin:     testOrigin,
		RequestTimeout: 5 * time.Second,
	}
}

func newRouterWithStore(st store.Store) *gin.Engine {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return httpserver.NewRouter(testConfig(), st, logger, observability.NewMetricsForTesting())
}

func newTestRouter() *gin.Engine {
	return newRouterWithStore(store.NewMemoryStore())
}

// doRequest issues a request against the router. An empty apiKey leaves the
// X-API-Key header unset.
func doRequest(t *testing.T, r *gin.Engine, method, path, body, apiKey string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

const validObservation = `{
	"species": "Red Fox",
	"gender": "Female",
	"quantity": 2,
	"latitude": 60.17,
	"longitude": 24.94,
	"userId": "user-1"
}`

// addObservation posts a valid record and returns its generated id.
func addObservation(t *testing.T, r *gin.Engine, body string) string {
	t.Helper()

	w := doRequest(t, r, http.MethodPost, "/api/add_observation", body, testAPIKey)
	require.Equal(t, http.StatusCreated, w.Code, "unexpected add response: %s", w.Body.String())

	resp := decodeBody(t, w)
	id, _ := resp["id"].(string)
	require.NotEmpty(t, id)
	return id
}

func TestWelcomeEndpointIsPublic(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodGet, "/", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "Welcome to the WildVision Observations Backend!", body["message"])

	endpoints, ok := body["endpoints"].(map[string]any)
	require.True(t, ok, "endpoints must be an object")
	assert.Len(t, endpoints, 4)
	assert.Equal(t, "/api/add_observation (POST)", endpoints["Add Observation"])
	assert.Equal(t, "/api/delete_observation/<id> (DELETE)", endpoints["Delete Observation"])
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decodeBody(t, w)["status"])
}

// downStore simulates an unreachable collection for readiness checks.
type downStore struct {
	store.Store
}

func (d *downStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

func TestReadyEndpoint(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodGet, "/ready", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ready", decodeBody(t, w)["status"])
}

func TestReadyReportsStoreOutage(t *testing.T) {
	r := newRouterWithStore(&downStore{Store: store.NewMemoryStore()})

	w := doRequest(t, r, http.MethodGet, "/ready", "", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "not_ready", body["status"])
	assert.Contains(t, body["error"], "connection refused")
}

func TestObservationRoutesRequireAPIKey(t *testing.T) {
	r := newTestRouter()

	routes := []struct {
		method string
		path   string
		body   string
	}{
		{method: http.MethodPost, path: "/api/add_observation", body: validObservation},
		{method: http.MethodGet, path: "/api/get_observations"},
		{method: http.MethodGet, path: "/api/get_observation/" + uuid.NewString()},
		{method: http.MethodDelete, path: "/api/delete_observation/" + uuid.NewString()},
	}

	for _, rt := range routes {
		for _, key := range []string{"", "wrong-key"} {
			w := doRequest(t, r, rt.method, rt.path, rt.body, key)
			require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s with key %q", rt.method, rt.path, key)

			body := decodeBody(t, w)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, "Unauthorized", body["message"])
		}
	}
}

func TestAddObservationRoundTrip(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodPost, "/api/add_observation", validObservation, testAPIKey)
	require.Equal(t, http.StatusCreated, w.Code)

	resp := decodeBody(t, w)
	assert.Equal(t, "success", resp["status"])
	assert.Equal(t, "Observation added successfully", resp["message"])
	id, _ := resp["id"].(string)
	require.NotEmpty(t, id)

	w = doRequest(t, r, http.MethodGet, "/api/get_observation/"+id, "", testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	detail := decodeBody(t, w)
	assert.Equal(t, "success", detail["status"])

	obs, ok := detail["observation"].(map[string]any)
	require.True(t, ok, "observation must be an object")
	assert.Equal(t, id, obs["id"])
	assert.Equal(t, "Red Fox", obs["species"])
	assert.Equal(t, "Female", obs["gender"])
	assert.Equal(t, float64(2), obs["quantity"])
	assert.Equal(t, 60.17, obs["latitude"])
	assert.Equal(t, 24.94, obs["longitude"])
	assert.Equal(t, "user-1", obs["userId"])

	ts, _ := obs["timestamp"].(string)
	require.NotEmpty(t, ts)
	assert.True(t, strings.HasSuffix(ts, "Z"), "timestamp must be UTC, got %q", ts)
	parsed, err := time.Parse(time.RFC3339, ts)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), parsed, time.Minute)
}

func TestAddObservationValidation(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		name    string
		body    string
		message string
	}{
		{name: "empty body", body: "", message: "No data provided"},
		{name: "empty object", body: `{}`, message: "No data provided"},
		{name: "malformed json", body: `{"species": `, message: "No data provided"},
		{
			name:    "missing fields in order",
			body:    `{"gender": "Male", "latitude": 1.0, "userId": "u"}`,
			message: "Missing fields: species, quantity, longitude",
		},
		{
			name:    "invalid gender",
			body:    `{"species": "Fox", "gender": "Cat", "quantity": 1, "latitude": 1.0, "longitude": 2.0, "userId": "u"}`,
			message: "Invalid gender value",
		},
		{
			name:    "zero quantity",
			body:    `{"species": "Fox", "gender": "Male", "quantity": 0, "latitude": 1.0, "longitude": 2.0, "userId": "u"}`,
			message: "Quantity must be at least 1",
		},
		{
			name:    "boolean quantity",
			body:    `{"species": "Fox", "gender": "Male", "quantity": true, "latitude": 1.0, "longitude": 2.0, "userId": "u"}`,
			message: "Invalid data types provided",
		},
		{
			name:    "unparseable latitude",
			body:    `{"species": "Fox", "gender": "Male", "quantity": 1, "latitude": "north", "longitude": 2.0, "userId": "u"}`,
			message: "Invalid data types provided",
		},
		{
			name:    "blank species",
			body:    `{"species": "   ", "gender": "Male", "quantity": 1, "latitude": 1.0, "longitude": 2.0, "userId": "u"}`,
			message: "Species must not be empty",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doRequest(t, r, http.MethodPost, "/api/add_observation", tc.body, testAPIKey)
			require.Equal(t, http.StatusBadRequest, w.Code)

			body := decodeBody(t, w)
			assert.Equal(t, "error", body["status"])
			assert.Equal(t, tc.message, body["message"])
		})
	}
}

func TestAddObservationCoercesStringNumbers(t *testing.T) {
	r := newTestRouter()

	id := addObservation(t, r, `{
		"species": "Moose",
		"gender": "Unknown",
		"quantity": "3",
		"latitude": "61.5",
		"longitude": "-0.12",
		"userId": "user-2"
	}`)

	w := doRequest(t, r, http.MethodGet, "/api/get_observation/"+id, "", testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	obs, ok := decodeBody(t, w)["observation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(3), obs["quantity"])
	assert.Equal(t, 61.5, obs["latitude"])
	assert.Equal(t, -0.12, obs["longitude"])
}

func TestGetObservationsListsAll(t *testing.T) {
	r := newTestRouter()

	firstID := addObservation(t, r, validObservation)
	secondID := addObservation(t, r, strings.Replace(validObservation, "Red Fox", "Lynx", 1))

	w := doRequest(t, r, http.MethodGet, "/api/get_observations", "", testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	list, ok := body["observations"].([]any)
	require.True(t, ok, "observations must be an array")
	require.Len(t, list, 2)

	first, ok := list[0].(map[string]any)
	require.True(t, ok)
	second, ok := list[1].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, firstID, first["id"])
	assert.Equal(t, "Red Fox", first["species"])
	assert.Equal(t, secondID, second["id"])
	assert.Equal(t, "Lynx", second["species"])
}

func TestGetObservationsEmptyCollection(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodGet, "/api/get_observations", "", testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])

	list, ok := body["observations"].([]any)
	require.True(t, ok, "observations must be an array even when empty")
	assert.Empty(t, list)
}

func TestGetObservationNotFound(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodGet, "/api/get_observation/"+uuid.NewString(), "", testAPIKey)
	require.Equal(t, http.StatusNotFound, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Observation not found", body["message"])
}

func TestGetObservationMalformedID(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodGet, "/api/get_observation/12345", "", testAPIKey)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "Failed to fetch observation", body["message"])
}

func TestDeleteObservationFlow(t *testing.T) {
	r := newTestRouter()

	id := addObservation(t, r, validObservation)

	w := doRequest(t, r, http.MethodDelete, "/api/delete_observation/"+id, "", testAPIKey)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, "Observation deleted successfully", body["message"])

	// The record is gone.
	w = doRequest(t, r, http.MethodGet, "/api/get_observation/"+id, "", testAPIKey)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// A repeat delete is not idempotent.
	w = doRequest(t, r, http.MethodDelete, "/api/delete_observation/"+id, "", testAPIKey)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Observation not found", decodeBody(t, w)["message"])
}

func TestDeleteObservationMalformedID(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodDelete, "/api/delete_observation/not-a-uuid", "", testAPIKey)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to delete observation", decodeBody(t, w)["message"])
}

func TestMetricsEndpointIsPublic(t *testing.T) {
	r := newTestRouter()

	w := doRequest(t, r, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	r := newTestRouter()

	// Preflight.
	req := httptest.NewRequest(http.MethodOptions, "/api/add_observation", nil)
	req.Header.Set("Origin", testOrigin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))

	// Simple request carries the allow header too.
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", testOrigin)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, testOrigin, w.Header().Get("Access-Control-Allow-Origin"))
}
