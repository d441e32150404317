package session

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/status"
)

func TestTransition_InputChanged(t *testing.T) {
	tests := []struct {
		raw    string
		kind   Kind
		reason address.Reason
	}{
		{"", KindEmpty, ""},
		{"   ", KindEmpty, ""},
		{"hypixel.net", KindValid, ""},
		{"  192.168.1.1:25565 ", KindValid, ""},
		{"my server.com", KindInvalid, address.ReasonWhitespace},
		{"[::1]:25565", KindInvalid, address.ReasonBracket},
		{"::1", KindInvalid, address.ReasonTooManyColons},
		{"192.168.1.1:70000", KindInvalid, address.ReasonInvalidPort},
		{"localhost", KindInvalid, address.ReasonInvalidHost},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			next, effect := Transition(State{Kind: KindEmpty, Generation: 3}, InputChanged{Raw: tt.raw})
			assert.Equal(t, tt.kind, next.Kind)
			assert.Equal(t, tt.reason, next.Reason)
			assert.Equal(t, tt.raw, next.Input)
			assert.Equal(t, uint64(4), next.Generation)
			assert.Equal(t, EffectCancelLookup, effect.Kind)
		})
	}
}

func TestTransition_SubmitInvalidStartsNoLookup(t *testing.T) {
	for _, raw := range []string{"", "localhost", "a..b.com"} {
		s, _ := Transition(State{Kind: KindEmpty}, InputChanged{Raw: raw})
		next, effect := Transition(s, Submit{})
		assert.Equal(t, s, next, raw)
		assert.Equal(t, EffectNone, effect.Kind, raw)
	}
}

func TestTransition_SubmitValid(t *testing.T) {
	s, _ := Transition(State{Kind: KindEmpty}, InputChanged{Raw: "  hypixel.net  "})
	next, effect := Transition(s, Submit{})

	assert.Equal(t, KindLoading, next.Kind)
	assert.Equal(t, s.Generation+1, next.Generation)
	assert.Equal(t, Effect{Kind: EffectStartLookup, Token: next.Generation, Address: "hypixel.net"}, effect)

	// resubmitting while loading restarts with a new token
	again, effect := Transition(next, Submit{})
	assert.Equal(t, KindLoading, again.Kind)
	assert.Equal(t, next.Generation+1, effect.Token)
}

func TestTransition_LookupOutcomes(t *testing.T) {
	loading := State{Kind: KindLoading, Input: "hypixel.net", Generation: 7}
	data := &status.Response{Online: true}

	next, _ := Transition(loading, LookupResolved{Token: 7, Data: data})
	assert.Equal(t, KindResult, next.Kind)
	assert.Same(t, data, next.Data)

	next, _ = Transition(loading, LookupResolved{Token: 7})
	assert.Equal(t, KindNoData, next.Kind)
	assert.Nil(t, next.Data)

	httpErr := errors.BadGateway("lookup failed (500)").WithReason(status.ReasonLookupHTTP)
	next, _ = Transition(loading, LookupFailed{Token: 7, Err: httpErr})
	assert.Equal(t, KindError, next.Kind)
	assert.Equal(t, ErrorKindHTTP, next.ErrorKind)
	assert.Equal(t, "lookup failed (500)", next.Message)

	next, _ = Transition(loading, LookupFailed{Token: 7, Err: fmt.Errorf("dial tcp: connection refused")})
	assert.Equal(t, ErrorKindNetwork, next.ErrorKind)
	assert.Equal(t, "dial tcp: connection refused", next.Message)
}

func TestTransition_StaleResultsAreIgnored(t *testing.T) {
	loading := State{Kind: KindLoading, Input: "hypixel.net", Generation: 7}

	next, effect := Transition(loading, LookupResolved{Token: 6, Data: &status.Response{}})
	assert.Equal(t, loading, next)
	assert.Equal(t, EffectNone, effect.Kind)

	next, _ = Transition(loading, LookupFailed{Token: 6, Err: fmt.Errorf("boom")})
	assert.Equal(t, loading, next)

	// input changed after submit: the in-flight token is stale
	changed, _ := Transition(loading, InputChanged{Raw: "mc.example.com"})
	next, _ = Transition(changed, LookupResolved{Token: 7, Data: &status.Response{}})
	assert.Equal(t, changed, next)
}

func TestTransition_Clear(t *testing.T) {
	for _, s := range []State{
		{Kind: KindResult, Input: "hypixel.net", Generation: 2, Data: &status.Response{}},
		{Kind: KindError, Input: "hypixel.net", Generation: 2, ErrorKind: ErrorKindHTTP, Message: "lookup failed (500)"},
		{Kind: KindInvalid, Input: "localhost", Generation: 2, Reason: address.ReasonInvalidHost},
		{Kind: KindLoading, Input: "hypixel.net", Generation: 2},
	} {
		next, effect := Transition(s, Clear{})
		assert.Equal(t, State{Kind: KindEmpty, Generation: 3}, next)
		assert.Equal(t, EffectCancelLookup, effect.Kind)
	}
}
