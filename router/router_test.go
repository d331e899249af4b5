// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/steinfletcher/apitest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/danielhkuo/livepoll/metrics"
	"github.com/danielhkuo/livepoll/models"
	"github.com/danielhkuo/livepoll/notify"
	"github.com/danielhkuo/livepoll/service"
	"github.com/danielhkuo/livepoll/testutil"
)

func newTestRouter(t *testing.T) *http.ServeMux {
	t.Helper()
	m := metrics.New()
	hub := notify.NewHub(8, m, zap.NewNop())
	svc := service.New(testutil.NewTestStore(t), hub, hub, m, zap.NewNop())
	return NewRouter(svc, m, testutil.GetTestConfig(), zap.NewNop())
}

func TestHealthEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	apitest.New().
		Handler(mux).
		Get("/health").
		Expect(t).
		Status(http.StatusOK).
		Body("OK").
		End()
}

func TestRootEndpoint(t *testing.T) {
	mux := newTestRouter(t)

	apitest.New().
		Handler(mux).
		Get("/").
		Expect(t).
		Status(http.StatusOK).
		Body("livepoll API v1").
		End()

	apitest.New().
		Handler(mux).
		Get("/nowhere").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestRouteExistence(t *testing.T) {
	mux := newTestRouter(t)
	id := uuid.NewString()

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/polls"},
		{"GET", "/polls/" + id},
		{"POST", "/polls/" + id + "/votes"},
		{"GET", "/polls/" + id + "/my-vote"},
		{"GET", "/polls/" + id + "/results"},
		{"GET", "/polls/" + id + "/stream"},
		{"GET", "/metrics"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, strings.NewReader("{}"))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			// A registered route never answers 405 and only fails with our JSON body
			assert.NotEqual(t, http.StatusMethodNotAllowed, w.Code)
			if w.Code == http.StatusNotFound {
				assert.Contains(t, w.Body.String(), `"message"`)
			}
		})
	}
}

func TestWrongMethod(t *testing.T) {
	mux := newTestRouter(t)

	apitest.New().
		Handler(mux).
		Delete("/polls/" + uuid.NewString()).
		Expect(t).
		Status(http.StatusMethodNotAllowed).
		End()
}

func TestVotingFlow(t *testing.T) {
	mux := newTestRouter(t)

	var created models.CreatePollResponse
	apitest.New().
		Handler(mux).
		Post("/polls").
		JSON(`{"question": "  Tabs or spaces?  ", "options": ["Tabs", " ", "Spaces"]}`).
		Expect(t).
		Status(http.StatusCreated).
		End().
		JSON(&created)
	require.NotEmpty(t, created.PollID)

	var poll models.PollWithOptions
	apitest.New().
		Handler(mux).
		Get("/polls/" + created.PollID).
		Expect(t).
		Status(http.StatusOK).
		End().
		JSON(&poll)
	assert.Equal(t, "Tabs or spaces?", poll.Poll.Question)
	require.Len(t, poll.Options, 2)

	voteBody := `{"option_id": "` + poll.Options[1].ID + `"}`
	apitest.New().
		Handler(mux).
		Post("/polls/"+created.PollID+"/votes").
		Header("X-Forwarded-For", "203.0.113.50").
		JSON(voteBody).
		Expect(t).
		Status(http.StatusCreated).
		End()

	apitest.New().
		Handler(mux).
		Post("/polls/"+created.PollID+"/votes").
		Header("X-Forwarded-For", "203.0.113.50").
		JSON(voteBody).
		Expect(t).
		Status(http.StatusConflict).
		Body(`{"error": "Conflict", "message": "already voted"}`).
		End()

	apitest.New().
		Handler(mux).
		Get("/polls/"+created.PollID+"/my-vote").
		Header("X-Forwarded-For", "203.0.113.50").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"has_voted": true, "option_id": "` + poll.Options[1].ID + `"}`).
		End()

	var res models.Results
	apitest.New().
		Handler(mux).
		Get("/polls/" + created.PollID + "/results").
		Expect(t).
		Status(http.StatusOK).
		End().
		JSON(&res)
	assert.Equal(t, 1, res.TotalVotes)
	assert.Equal(t, "Tabs", res.Options[0].Text)
	assert.Equal(t, 0, res.Options[0].Percentage)
	assert.Equal(t, 100, res.Options[1].Percentage)

	apitest.New().
		Handler(mux).
		Get("/metrics").
		Expect(t).
		Status(http.StatusOK).
		Assert(func(resp *http.Response, _ *http.Request) error {
			var b strings.Builder
			_, err := io.Copy(&b, resp.Body)
			if err != nil {
				return err
			}
			body := b.String()
			if !strings.Contains(body, `livepoll_votes_total{outcome="admitted"} 1`) ||
				!strings.Contains(body, `livepoll_votes_total{outcome="duplicate"} 1`) {
				return fmt.Errorf("vote counters missing from metrics output")
			}
			return nil
		}).
		End()
}
