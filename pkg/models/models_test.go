package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	all := []SessionStatus{WAITING, NEGOTIATING, COMPLETED, CANCELLED}
	allowed := map[[2]SessionStatus]bool{
		{WAITING, NEGOTIATING}:   true,
		{WAITING, CANCELLED}:     true,
		{NEGOTIATING, COMPLETED}: true,
		{NEGOTIATING, CANCELLED}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]SessionStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestSessionStatus(t *testing.T) {
	assert.False(t, WAITING.IsTerminal())
	assert.False(t, NEGOTIATING.IsTerminal())
	assert.True(t, COMPLETED.IsTerminal())
	assert.True(t, CANCELLED.IsTerminal())
	assert.True(t, WAITING.IsActive())
	assert.False(t, CANCELLED.IsActive())
}

func TestSessionParticipants(t *testing.T) {
	t.Run("Waiting", func(t *testing.T) {
		s := &Session{ParticipantA: "alice", Status: WAITING}

		assert.True(t, s.IsParticipant("alice"))
		assert.False(t, s.IsParticipant("bob"))
		assert.False(t, s.IsParticipant(""))
		assert.Equal(t, "", s.Partner("alice"))
		assert.Equal(t, []string{"alice"}, s.Participants())
	})

	t.Run("Paired", func(t *testing.T) {
		s := &Session{ParticipantA: "alice", ParticipantB: "bob", Status: NEGOTIATING, ConfirmedB: true}

		side, ok := s.SideOf("bob")
		assert.True(t, ok)
		assert.Equal(t, SideB, side)
		assert.Equal(t, "alice", s.Partner("bob"))
		assert.True(t, s.HasConfirmed("bob"))
		assert.False(t, s.HasConfirmed("alice"))
		assert.False(t, s.HasConfirmed("carol"))
		assert.False(t, s.BothConfirmed())
	})
}

func TestOrderKey(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Less(t, OrderKey(base, "b"), OrderKey(base.Add(time.Nanosecond), "a"))
	assert.Less(t, OrderKey(base, "a"), OrderKey(base, "b"))
}

func TestSessionViewApplySession(t *testing.T) {
	s := &Session{
		Id:           "s1",
		ParticipantA: "alice",
		ParticipantB: "bob",
		Status:       CANCELLED,
		ConfirmedA:   true,
		Version:      4,
		CancelledBy:  "bob",
		CancelReason: CancelReasonUser,
	}

	var v SessionView
	v.ApplySession(s, "bob")

	assert.Equal(t, SideB, v.MySide)
	assert.False(t, v.MyConfirmed)
	assert.True(t, v.PartnerConfirmed)
	assert.True(t, v.Paired)
	assert.True(t, v.CancelledByMe)
	assert.Equal(t, int64(4), v.Version)
}

func TestIsStamp(t *testing.T) {
	for _, key := range []string{"please", "thinking", "addMore", "ok", "thanks", "cute", "no", "wait", "this", "rare", "instead", "great"} {
		assert.True(t, IsStamp(key), key)
	}
	assert.False(t, IsStamp("hello"))
}
