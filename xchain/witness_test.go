package xchain

import (
	"encoding/json"
	"testing"
)

func TestWitnessPosValidation(t *testing.T) {
	cases := []struct {
		name      string
		height    uint32
		timestamp int64
		ok        bool
	}{
		{"zero_height", 0, bitcoinGenesisTimestamp, false},
		{"pre_genesis_timestamp", 1, bitcoinGenesisTimestamp - 1, false},
		{"valid", 700000, bitcoinGenesisTimestamp + 1000, true},
		{"exact_genesis_timestamp", 1, bitcoinGenesisTimestamp, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, ok := NewWitnessPos(tc.height, tc.timestamp)
			if ok != tc.ok {
				t.Fatalf("NewWitnessPos(%d, %d) ok=%v want %v", tc.height, tc.timestamp, ok, tc.ok)
			}
		})
	}
}

func TestWitnessOrdTotalOrder(t *testing.T) {
	early, _ := NewWitnessPos(100, bitcoinGenesisTimestamp+1)
	late, _ := NewWitnessPos(200, bitcoinGenesisTimestamp+2)

	onEarly := OnChain(early)
	onLate := OnChain(late)
	off := OffChain()

	if !onEarly.Less(onLate) {
		t.Fatalf("expected earlier on-chain witness to sort first")
	}
	if onLate.Less(onEarly) {
		t.Fatalf("later on-chain witness should not sort before earlier")
	}
	if !onLate.Less(off) {
		t.Fatalf("any on-chain witness must sort before off-chain")
	}
	if off.Less(onLate) {
		t.Fatalf("off-chain must never sort before on-chain")
	}
}

func TestWitnessIdParseRoundtrip(t *testing.T) {
	cases := []Layer1{Bitcoin, Liquid}
	for _, layer := range cases {
		var txid Txid
		txid[0] = 0xab
		w := NewWitnessId(layer, txid)
		parsed, err := ParseWitnessId(w.String())
		if err != nil {
			t.Fatalf("ParseWitnessId(%q): %v", w.String(), err)
		}
		if parsed != w {
			t.Fatalf("roundtrip mismatch: got %+v want %+v", parsed, w)
		}
	}
}

func TestWitnessIdParseRejectsUnknownPrefix(t *testing.T) {
	_, err := ParseWitnessId("ethereum:aabb")
	if err == nil {
		t.Fatalf("expected error for unknown prefix")
	}
	if _, ok := err.(*UnknownPrefixError); !ok {
		t.Fatalf("expected *UnknownPrefixError, got %T", err)
	}
}

func TestWitnessIdJSONRoundtrip(t *testing.T) {
	var txid Txid
	txid[5] = 0x77
	w := NewWitnessId(Liquid, txid)

	enc, err := json.Marshal(w)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out WitnessId
	if err := json.Unmarshal(enc, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if out != w {
		t.Fatalf("roundtrip mismatch: got %+v want %+v", out, w)
	}
}

func TestWitnessIdLessOrdersLiquidBeforeBitcoin(t *testing.T) {
	var txid Txid
	bitcoinId := NewWitnessId(Bitcoin, txid)
	liquidId := NewWitnessId(Liquid, txid)
	if !liquidId.Less(bitcoinId) {
		t.Fatalf("expected liquid to sort before bitcoin when layers differ")
	}
	if bitcoinId.Less(liquidId) {
		t.Fatalf("bitcoin must not sort before liquid")
	}
}
