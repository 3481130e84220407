package bc

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrBadOutputRef is returned when an out-ref string cannot be parsed.
var ErrBadOutputRef = errors.New("bad output reference")

// OutputRef points at one output of a transaction.
type OutputRef struct {
	TxID  Hash
	Index uint64
}

// NewOutputRef returns the reference to output index of txID.
func NewOutputRef(txID Hash, index uint64) OutputRef {
	return OutputRef{TxID: txID, Index: index}
}

// ParseOutputRef parses the "txid#index" form produced by String.
func ParseOutputRef(s string) (OutputRef, error) {
	parts := strings.Split(s, "#")
	if len(parts) != 2 {
		return OutputRef{}, errors.Wrap(ErrBadOutputRef, s)
	}

	var ref OutputRef
	if err := ref.TxID.UnmarshalText([]byte(parts[0])); err != nil {
		return OutputRef{}, errors.Wrap(err, s)
	}

	index, err := strconv.ParseUint(parts[1], 10, 64)
	if err != nil {
		return OutputRef{}, errors.Wrap(ErrBadOutputRef, s)
	}

	ref.Index = index
	return ref, nil
}

// Less orders references by transaction id, then by output index.
func (o OutputRef) Less(p OutputRef) bool {
	if c := o.TxID.Cmp(p.TxID); c != 0 {
		return c < 0
	}
	return o.Index < p.Index
}

// Bytes returns the fixed-width binary form of the reference, which
// sorts the same way as Less.
func (o OutputRef) Bytes() []byte {
	b := make([]byte, 40)
	copy(b, o.TxID[:])
	binary.BigEndian.PutUint64(b[32:], o.Index)
	return b
}

// OutputRefFromBytes is the inverse of Bytes.
func OutputRefFromBytes(b []byte) (OutputRef, error) {
	if len(b) != 40 {
		return OutputRef{}, errors.Wrapf(ErrBadOutputRef, "got %d bytes", len(b))
	}

	var o OutputRef
	copy(o.TxID[:], b[:32])
	o.Index = binary.BigEndian.Uint64(b[32:])
	return o, nil
}

func (o OutputRef) String() string {
	return fmt.Sprintf("%s#%d", o.TxID.String(), o.Index)
}
