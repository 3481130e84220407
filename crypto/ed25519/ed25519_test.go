package ed25519

import (
	"bytes"
	"testing"
)

func TestVerify(t *testing.T) {
	InitCacheWithSize(4)

	priv := NewKeyFromSeed(bytes.Repeat([]byte{1}, SeedSize))
	pub := priv.Public().(PublicKey)
	msg := []byte("resolve")
	sig := Sign(priv, msg)

	cases := []struct {
		desc string
		pub  PublicKey
		msg  []byte
		sig  []byte
		want bool
	}{
		{desc: "valid signature", pub: pub, msg: msg, sig: sig, want: true},
		{desc: "valid signature served from cache", pub: pub, msg: msg, sig: sig, want: true},
		{desc: "other message", pub: pub, msg: []byte("close"), sig: sig, want: false},
		{desc: "short signature", pub: pub, msg: msg, sig: sig[:10], want: false},
		{desc: "short key", pub: pub[:5], msg: msg, sig: sig, want: false},
	}

	for i, c := range cases {
		if got := Verify(c.pub, c.msg, c.sig); got != c.want {
			t.Errorf("case %d (%s): got %v, want %v", i, c.desc, got, c.want)
		}
	}
}
