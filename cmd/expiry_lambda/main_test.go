package main

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type stubExpirer struct {
	results []int
	err     error
	calls   int
}

func (s *stubExpirer) ExpireWaitingSessions(_ context.Context, _ time.Duration, _ int) (int, error) {
	if s.calls >= len(s.results) {
		return 0, s.err
	}
	n := s.results[s.calls]
	s.calls++
	return n, nil
}

func TestHandleRequest(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		exp := &stubExpirer{results: []int{batchSize, 3}}
		h := &Handler{Expirer: exp, MaxAge: time.Minute}

		assert.NoError(t, h.HandleRequest(context.Background()))
		assert.Equal(t, 2, exp.calls)
	})

	t.Run("Stops After Max Batches", func(t *testing.T) {
		results := make([]int, maxBatches+5)
		for i := range results {
			results[i] = batchSize
		}
		exp := &stubExpirer{results: results}
		h := &Handler{Expirer: exp, MaxAge: time.Minute}

		assert.NoError(t, h.HandleRequest(context.Background()))
		assert.Equal(t, maxBatches, exp.calls)
	})

	t.Run("Store Fails", func(t *testing.T) {
		exp := &stubExpirer{err: errors.New("throttled")}
		h := &Handler{Expirer: exp, MaxAge: time.Minute}

		assert.Error(t, h.HandleRequest(context.Background()))
	})
}
