// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConcurrentVotesSameOrigin fires many votes from one address at once;
// exactly one may be admitted.
func TestConcurrentVotesSameOrigin(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t, "A", "B", "C")

	const numRequests = 25
	var created, conflicts, other atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numRequests; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := env.vote(poll.Poll.ID, poll.Options[i%3].ID, "203.0.113.77")
			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			default:
				t.Logf("unexpected status %d: %s", w.Code, w.Body.String())
				other.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), created.Load())
	assert.Equal(t, int32(numRequests-1), conflicts.Load())
	assert.Equal(t, int32(0), other.Load())

	res, err := env.svc.Results(t.Context(), poll.Poll.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalVotes)
}

// TestConcurrentVotesDistinctOrigins checks every distinct origin is
// admitted and counted once.
func TestConcurrentVotesDistinctOrigins(t *testing.T) {
	env := newTestEnv(t)
	poll := env.createPoll(t, "A", "B")

	const numVoters = 30
	var created atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := env.vote(poll.Poll.ID, poll.Options[i%2].ID, fmt.Sprintf("10.0.0.%d", i+1))
			if w.Code == http.StatusCreated {
				created.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(numVoters), created.Load())

	res, err := env.svc.Results(t.Context(), poll.Poll.ID)
	require.NoError(t, err)
	assert.Equal(t, numVoters, res.TotalVotes)
	assert.Equal(t, 15, res.Options[0].Count)
	assert.Equal(t, 50, res.Options[1].Percentage)
}
