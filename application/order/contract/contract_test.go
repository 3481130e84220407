package contract

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRedeemerCodec(t *testing.T) {
	cases := []struct {
		redeemer Redeemer
		trade    bool
	}{
		{redeemer: ResolveRedeemer{Match: 0}, trade: true},
		{redeemer: ResolveRedeemer{Match: 7}, trade: true},
		{redeemer: ResolveRedeemer{Match: -1}, trade: true},
		{redeemer: FillRedeemer{}, trade: true},
		{redeemer: CloseRedeemer{}, trade: false},
	}

	for _, c := range cases {
		data, err := EncodeRedeemer(c.redeemer)
		require.NoError(t, err, c.redeemer.String())

		got, err := DecodeRedeemer(data)
		require.NoError(t, err, c.redeemer.String())
		require.Equal(t, c.redeemer, got)
		require.Equal(t, c.trade, IsTrade(got))
	}
}

func TestDecodeRedeemerRejects(t *testing.T) {
	cases := []struct {
		desc string
		data []byte
	}{
		{desc: "empty", data: nil},
		{desc: "unknown selector", data: []byte{0x82, 0x05, 0x00}},
		{desc: "wrong arity", data: []byte{0x81, 0x00}},
		{desc: "not an array", data: []byte{0x01}},
	}

	for _, c := range cases {
		_, err := DecodeRedeemer(c.data)
		require.Equal(t, ErrMalformedRedeemer, errors.Cause(err), c.desc)
	}
}

func TestScript(t *testing.T) {
	s := NewScript("")
	require.Equal(t, DefaultTokenName, s.ValidityToken().Name)
	require.Equal(t, s.Hash(), s.ValidityToken().PolicyID)
	require.True(t, s.IsOrderAddress(s.Address()))
	require.True(t, s.Address().IsScript())

	other := NewScript("tok")
	require.NotEqual(t, s.Hash(), other.Hash())
	require.False(t, s.IsOrderAddress(other.Address()))
}
