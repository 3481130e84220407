package contract

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/pkg/errors"
)

// ErrMalformedRedeemer is returned when a redeemer does not decode.
var ErrMalformedRedeemer = errors.New("malformed redeemer")

const (
	ResolveClauseSelector int64 = iota
	FillClauseSelector
	CloseClauseSelector
)

// Redeemer is the action a script input is spent with. The set of
// implementations is closed.
type Redeemer interface {
	selector() int64
	fmt.Stringer
}

// ResolveRedeemer matches the input against the batch position Match.
type ResolveRedeemer struct {
	Match int64
}

// FillRedeemer settles the order against a taker that is not an order.
type FillRedeemer struct{}

// CloseRedeemer returns the order's holdings to its owner.
type CloseRedeemer struct{}

func (ResolveRedeemer) selector() int64 { return ResolveClauseSelector }
func (FillRedeemer) selector() int64    { return FillClauseSelector }
func (CloseRedeemer) selector() int64   { return CloseClauseSelector }

func (r ResolveRedeemer) String() string { return fmt.Sprintf("resolve(%d)", r.Match) }
func (FillRedeemer) String() string      { return "fill" }
func (CloseRedeemer) String() string     { return "close" }

// IsTrade reports whether r settles the order rather than closing it.
func IsTrade(r Redeemer) bool {
	switch r.(type) {
	case ResolveRedeemer, FillRedeemer:
		return true
	}
	return false
}

type redeemerEncoding struct {
	_        struct{} `cbor:",toarray"`
	Selector int64
	Match    int64
}

var redeemerEncMode cbor.EncMode

func init() {
	var err error
	if redeemerEncMode, err = cbor.CanonicalEncOptions().EncMode(); err != nil {
		panic(err)
	}
}

// EncodeRedeemer serializes r as the CBOR array [selector, matchIndex].
func EncodeRedeemer(r Redeemer) ([]byte, error) {
	e := redeemerEncoding{Selector: r.selector()}
	if resolve, ok := r.(ResolveRedeemer); ok {
		e.Match = resolve.Match
	}
	return redeemerEncMode.Marshal(e)
}

// DecodeRedeemer parses bytes produced by EncodeRedeemer.
func DecodeRedeemer(data []byte) (Redeemer, error) {
	var e redeemerEncoding
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, errors.Wrap(ErrMalformedRedeemer, err.Error())
	}

	switch e.Selector {
	case ResolveClauseSelector:
		return ResolveRedeemer{Match: e.Match}, nil
	case FillClauseSelector:
		return FillRedeemer{}, nil
	case CloseClauseSelector:
		return CloseRedeemer{}, nil
	}
	return nil, errors.Wrapf(ErrMalformedRedeemer, "unknown selector %d", e.Selector)
}
