package seal

import (
	"testing"

	"rgbcore.dev/core/xchain"
)

func TestRevealedStrictEncodeDecodeRoundtrip(t *testing.T) {
	cases := []struct {
		name string
		r    Revealed
	}{
		{"concrete_txid", Revealed{Method: MethodTapret, Txid: xchain.Txid{1, 2, 3}, Vout: 5, Blinding: 99}},
		{"witness_tx_placeholder", Revealed{Method: MethodOpret, WitnessTx: true, Vout: 0, Blinding: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			enc := tc.r.StrictEncode()
			dec, err := DecodeRevealed(enc)
			if err != nil {
				t.Fatalf("DecodeRevealed: %v", err)
			}
			if dec.WitnessTx {
				dec.Txid = xchain.Txid{} // placeholder txid bytes are zeroed on encode
			}
			want := tc.r
			if want.WitnessTx {
				want.Txid = xchain.Txid{}
			}
			if dec != want {
				t.Fatalf("roundtrip mismatch: got %+v want %+v", dec, want)
			}
		})
	}
}

func TestConcealIsDeterministicAndIdempotent(t *testing.T) {
	r := Revealed{Method: MethodTapret, Txid: xchain.Txid{9}, Vout: 1, Blinding: 42}
	s1 := Conceal(r)
	s2 := Conceal(r)
	if s1 != s2 {
		t.Fatalf("Conceal is not deterministic: %s != %s", s1, s2)
	}
}

func TestConcealDiffersForDifferentSeals(t *testing.T) {
	a := Conceal(Revealed{Method: MethodTapret, Txid: xchain.Txid{1}, Vout: 1, Blinding: 1})
	b := Conceal(Revealed{Method: MethodTapret, Txid: xchain.Txid{1}, Vout: 1, Blinding: 2})
	if a == b {
		t.Fatalf("expected different blinding to produce different secret seals")
	}
}

func TestOutpointOrSubstitutesWitnessPlaceholder(t *testing.T) {
	r := Revealed{WitnessTx: true, Vout: 3}
	witnessTxid := xchain.Txid{7, 7, 7}
	out := r.OutpointOr(witnessTxid)
	if out.Txid != witnessTxid || out.Vout != 3 {
		t.Fatalf("expected substituted outpoint, got %+v", out)
	}

	concrete := Revealed{Txid: xchain.Txid{1}, Vout: 4}
	out2 := concrete.OutpointOr(witnessTxid)
	if out2.Txid != concrete.Txid {
		t.Fatalf("concrete seal's own txid should not be substituted")
	}
}

func TestToOutputSealFailsForPlaceholder(t *testing.T) {
	r := Revealed{WitnessTx: true, Vout: 1}
	if _, ok := r.ToOutputSeal(); ok {
		t.Fatalf("expected ToOutputSeal to fail for a witness-tx placeholder")
	}
	concrete := Revealed{Txid: xchain.Txid{1}, Vout: 1}
	out, ok := concrete.ToOutputSeal()
	if !ok || out.Txid != concrete.Txid {
		t.Fatalf("expected concrete seal to resolve: out=%+v ok=%v", out, ok)
	}
}

func TestTryToOutputSealRejectsLayerMismatch(t *testing.T) {
	r := Revealed{WitnessTx: true, Vout: 2}
	witnessID := xchain.NewWitnessId(xchain.Liquid, xchain.Txid{1})

	_, err := TryToOutputSeal(r, xchain.Bitcoin, witnessID)
	if err == nil {
		t.Fatalf("expected layer mismatch error")
	}
	if _, ok := err.(*LayerMismatchError); !ok {
		t.Fatalf("expected *LayerMismatchError, got %T", err)
	}

	out, err := TryToOutputSeal(r, xchain.Liquid, witnessID)
	if err != nil {
		t.Fatalf("unexpected error for matching layer: %v", err)
	}
	if out.Txid != witnessID.Txid() || out.Vout != 2 {
		t.Fatalf("unexpected resolved outpoint: %+v", out)
	}
}

func TestXSealParseRoundtrip(t *testing.T) {
	parseInner := func(s string) (Revealed, error) {
		return Revealed{Txid: xchain.Txid{1}, Vout: 9, Blinding: 1}, nil
	}
	cases := []string{"bitcoin:anything", "liquid:anything"}
	for _, s := range cases {
		t.Run(s, func(t *testing.T) {
			x, err := ParseXSeal(s, parseInner)
			if err != nil {
				t.Fatalf("ParseXSeal: %v", err)
			}
			if x.Vout != 9 {
				t.Fatalf("expected inner seal parsed through")
			}
		})
	}
}

func TestXSealParseDefaultsToBitcoinWithoutPrefix(t *testing.T) {
	parseInner := func(s string) (Revealed, error) {
		return Revealed{Vout: 1}, nil
	}
	x, err := ParseXSeal("no-colon-here", parseInner)
	if err != nil {
		t.Fatalf("ParseXSeal: %v", err)
	}
	if x.Layer1 != xchain.Bitcoin {
		t.Fatalf("expected bitcoin default, got %s", x.Layer1)
	}
}

func TestXSealParseRejectsUnknownPrefix(t *testing.T) {
	_, err := ParseXSeal("ethereum:xyz", func(s string) (Revealed, error) { return Revealed{}, nil })
	if err == nil {
		t.Fatalf("expected error for unknown layer prefix")
	}
}

func TestXSealConcealMatchesInnerConceal(t *testing.T) {
	r := Revealed{Txid: xchain.Txid{1}, Vout: 1, Blinding: 5}
	x := With(xchain.Bitcoin, r)
	if x.Conceal() != Conceal(r) {
		t.Fatalf("XSeal.Conceal must match the wrapped Revealed's conceal")
	}
}
