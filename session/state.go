// Package session models the address input surface as an explicit state
// machine and runs status lookups on its behalf.
package session

import (
	"github.com/kochabonline/mcstatus/address"
	"github.com/kochabonline/mcstatus/errors"
	"github.com/kochabonline/mcstatus/status"
)

// Kind identifies which state is presented. Exactly one is shown at a time.
type Kind string

const (
	KindEmpty   Kind = "empty"
	KindInvalid Kind = "invalid"
	KindValid   Kind = "valid"
	KindLoading Kind = "loading"
	KindError   Kind = "error"
	KindNoData  Kind = "no_data"
	KindResult  Kind = "result"
)

// ErrorKind classifies a failed lookup.
type ErrorKind string

const (
	ErrorKindHTTP    ErrorKind = "http"
	ErrorKindNetwork ErrorKind = "network"
)

// ErrorKindOf maps a lookup error to its kind. Anything that is not an
// upstream HTTP failure counts as a network failure.
func ErrorKindOf(err error) ErrorKind {
	if errors.Reason(err) == status.ReasonLookupHTTP {
		return ErrorKindHTTP
	}
	return ErrorKindNetwork
}

// State is a snapshot of the input surface.
type State struct {
	Kind  Kind   `json:"kind"`
	Input string `json:"input"`
	// Generation identifies the current lookup. Results carrying another
	// generation are stale.
	Generation uint64 `json:"generation"`

	Reason    address.Reason   `json:"reason,omitempty"`
	ErrorKind ErrorKind        `json:"error_kind,omitempty"`
	Message   string           `json:"message,omitempty"`
	Data      *status.Response `json:"data,omitempty"`
}

// Address returns the trimmed input.
func (s State) Address() string {
	return address.Trim(s.Input)
}

// Event drives a transition.
type Event interface {
	event()
}

type (
	InputChanged struct {
		Raw string
	}
	Submit         struct{}
	Clear          struct{}
	LookupResolved struct {
		Token uint64
		Data  *status.Response
	}
	LookupFailed struct {
		Token uint64
		Err   error
	}
)

func (InputChanged) event()   {}
func (Submit) event()         {}
func (Clear) event()          {}
func (LookupResolved) event() {}
func (LookupFailed) event()   {}

// EffectKind is the side effect a transition asks the runner to perform.
type EffectKind int

const (
	EffectNone EffectKind = iota
	// EffectStartLookup cancels any in-flight lookup and starts a new one.
	EffectStartLookup
	// EffectCancelLookup cancels the in-flight lookup, if any.
	EffectCancelLookup
)

type Effect struct {
	Kind    EffectKind
	Token   uint64
	Address string
}

// Transition is the pure transition function of the input surface.
func Transition(s State, ev Event) (State, Effect) {
	switch e := ev.(type) {
	case InputChanged:
		next := classify(e.Raw)
		next.Generation = s.Generation + 1
		return next, Effect{Kind: EffectCancelLookup}

	case Submit:
		switch s.Kind {
		case KindEmpty, KindInvalid:
			return s, Effect{}
		}
		next := State{
			Kind:       KindLoading,
			Input:      s.Input,
			Generation: s.Generation + 1,
		}
		return next, Effect{Kind: EffectStartLookup, Token: next.Generation, Address: next.Address()}

	case Clear:
		return State{Kind: KindEmpty, Generation: s.Generation + 1}, Effect{Kind: EffectCancelLookup}

	case LookupResolved:
		if e.Token != s.Generation || s.Kind != KindLoading {
			return s, Effect{}
		}
		next := State{Input: s.Input, Generation: s.Generation}
		if e.Data == nil {
			next.Kind = KindNoData
			next.Message = "No data found for this server."
		} else {
			next.Kind = KindResult
			next.Data = e.Data
		}
		return next, Effect{}

	case LookupFailed:
		if e.Token != s.Generation || s.Kind != KindLoading {
			return s, Effect{}
		}
		return State{
			Kind:       KindError,
			Input:      s.Input,
			Generation: s.Generation,
			ErrorKind:  ErrorKindOf(e.Err),
			Message:    errorMessage(e.Err),
		}, Effect{}
	}

	return s, Effect{}
}

// classify live-validates raw input.
func classify(raw string) State {
	_, err := address.Parse(raw)
	switch reason := address.ReasonOf(err); {
	case err == nil:
		return State{Kind: KindValid, Input: raw}
	case reason == address.ReasonEmpty:
		return State{Kind: KindEmpty, Input: raw}
	default:
		return State{Kind: KindInvalid, Input: raw, Reason: reason, Message: reason.Message()}
	}
}

func errorMessage(err error) string {
	if err == nil {
		return "lookup failed"
	}
	if e := errors.FromError(err); e.Reason != errors.UnknownReason {
		return e.Message
	}
	return err.Error()
}
