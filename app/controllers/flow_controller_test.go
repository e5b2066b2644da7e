package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dnguyen-dev/bistro/app/controllers"
	"github.com/dnguyen-dev/bistro/app/services"
	"github.com/dnguyen-dev/bistro/pkg/kv"
	"github.com/dnguyen-dev/bistro/pkg/router"
	"github.com/dnguyen-dev/bistro/pkg/session"
)

// newFlowServer spins up the flow endpoints behind the session
// middleware, backed by an isolated in-memory store.
func newFlowServer(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()
	kv.Use(kv.NewMemoryStore())

	flow := services.NewFlowService(nil)
	c := controllers.NewFlowController(flow)

	r := router.New()
	r.Use(session.Middleware(session.DefaultOptions()))
	r.Get("/api/flow", "flow.show", c.Show)
	r.Post("/api/flow/visit", "flow.visit", c.Visit)
	r.Post("/api/flow/proceed", "flow.proceed", c.Proceed)
	r.Post("/api/reservation", "flow.reservation", c.SubmitReservation)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

type flowEnvelope struct {
	Status int `json:"status"`
	Data   struct {
		Flow struct {
			Page string `json:"page"`
		} `json:"flow"`
		Totals struct {
			Subtotal float64 `json:"subtotal"`
			Total    float64 `json:"total"`
		} `json:"totals"`
	} `json:"data"`
	Errors map[string]string `json:"errors"`
}

func decodeFlow(t *testing.T, resp *http.Response) flowEnvelope {
	t.Helper()
	defer resp.Body.Close()
	var env flowEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}

func TestShowStartsAtHome(t *testing.T) {
	srv, client := newFlowServer(t)

	resp, err := client.Get(srv.URL + "/api/flow")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	env := decodeFlow(t, resp)
	assert.Equal(t, "home", env.Data.Flow.Page)
	assert.Zero(t, env.Data.Totals.Total)
}

func TestVisitPersistsAcrossRequests(t *testing.T) {
	srv, client := newFlowServer(t)

	resp, err := client.Post(srv.URL+"/api/flow/visit", "application/json",
		strings.NewReader(`{"page":"menu"}`))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "menu", decodeFlow(t, resp).Data.Flow.Page)

	// The session cookie carries the flow into the next request.
	resp, err = client.Get(srv.URL + "/api/flow")
	require.NoError(t, err)
	assert.Equal(t, "menu", decodeFlow(t, resp).Data.Flow.Page)
}

func TestVisitRejectsGuardedPage(t *testing.T) {
	srv, client := newFlowServer(t)

	resp, err := client.Post(srv.URL+"/api/flow/visit", "application/json",
		strings.NewReader(`{"page":"payment"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVisitValidatesBody(t *testing.T) {
	srv, client := newFlowServer(t)

	resp, err := client.Post(srv.URL+"/api/flow/visit", "application/json",
		strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	env := decodeFlow(t, resp)
	assert.Contains(t, env.Errors, "page")
}

func TestProceedAsGuestIsUnauthorized(t *testing.T) {
	srv, client := newFlowServer(t)

	resp, err := client.Post(srv.URL+"/api/flow/proceed", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestSubmitReservationRejectsBadSlot(t *testing.T) {
	srv, client := newFlowServer(t)

	body := `{"tableNumber":3,"date":"2026-09-15","time":"19:30","guests":4,` +
		`"customerName":"Nguyen Van A","customerPhone":"0901234567"}`
	resp, err := client.Post(srv.URL+"/api/reservation", "application/json",
		strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	env := decodeFlow(t, resp)
	assert.Contains(t, env.Errors, "time")
}

func TestSubmitReservationRejectsBadPhone(t *testing.T) {
	srv, client := newFlowServer(t)

	body := `{"tableNumber":3,"date":"2026-09-15","time":"19:00","guests":4,` +
		`"customerName":"Nguyen Van A","customerPhone":"12"}`
	resp, err := client.Post(srv.URL+"/api/reservation", "application/json",
		strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	env := decodeFlow(t, resp)
	assert.Contains(t, env.Errors, "customerPhone")
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	srv, client := newFlowServer(t)

	resp, err := client.Post(srv.URL+"/api/flow/visit", "application/json",
		strings.NewReader(`{not json`))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
