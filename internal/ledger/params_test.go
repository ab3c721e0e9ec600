package ledger

import (
	"errors"
	"os"
	"strings"
	"testing"

	"slot_backend/internal/model"
	servModel "slot_backend/internal/service/ways/model"
)

func TestDecodeParamsYAMLFile(t *testing.T) {
	f, err := os.Open("../../configs/machine.yaml")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	p, err := DecodeParamsYAML(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Paytable != servModel.DefaultPaytable() {
		t.Error("paytable differs from default")
	}
	if p.BetCosts.Credit.Base != 10 || p.BetCosts.Credit.Kicker != 5 {
		t.Errorf("credit schedule = %+v", p.BetCosts.Credit)
	}
	if p.EnabledModes != 7 || p.BonusReferenceBet != 10 {
		t.Errorf("enabled %d ref %d", p.EnabledModes, p.BonusReferenceBet)
	}
}

const validYAML = `
paytable:
  buffalo: {"3": 68}
bet_costs:
  credit: {base: 10, kicker: 5}
  network: {base: 1000, kicker: 500}
  token: {base: 100, kicker: 50}
jackpot_pools: {bonus: 1, credit: 2, network: 3, token: 4}
enabled_modes: 3
bonus_reference_bet: 10
`

func TestDecodeParamsYAMLStrict(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
	}{
		{"valid", validYAML, false},
		{"unknown field", validYAML + "max_payout: 5\n", true},
		{"missing reference bet", strings.Replace(validYAML, "bonus_reference_bet: 10\n", "", 1), true},
		{"missing kicker", strings.Replace(validYAML, "token: {base: 100, kicker: 50}", "token: {base: 100}", 1), true},
		{"missing pool", strings.Replace(validYAML, ", token: 4}", "}", 1), true},
		{"non paying symbol", strings.Replace(validYAML, "buffalo:", "wild:", 1), true},
		{"bad length", strings.Replace(validYAML, `"3": 68`, `"6": 68`, 1), true},
		{"unknown mode bit", strings.Replace(validYAML, "enabled_modes: 3", "enabled_modes: 8", 1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeParamsYAML(strings.NewReader(tt.doc))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidParams) {
					t.Fatalf("err = %v, want ErrInvalidParams", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestParamsJSONRoundTrip(t *testing.T) {
	want := model.MachineParameters{
		Paytable: servModel.DefaultPaytable(),
		BetCosts: model.PerMode[model.BetSchedule]{
			Credit:  {Base: 10, Kicker: 5},
			Network: {Base: 1000, Kicker: 500},
			Token:   {Base: 100, Kicker: 50},
		},
		JackpotPools:      model.PerMode[uint64]{Bonus: 1, Credit: 2, Network: 3, Token: 4},
		EnabledModes:      5,
		BonusReferenceBet: 10,
	}

	data, err := EncodeParamsJSON(want)
	if err != nil {
		t.Fatal(err)
	}
	got, err := DecodeParamsJSON(data)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestDecodeParamsJSONUnknownField(t *testing.T) {
	_, err := DecodeParamsJSON([]byte(`{"paytable":{},"extra":1}`))
	if !errors.Is(err, ErrInvalidParams) {
		t.Fatalf("err = %v, want ErrInvalidParams", err)
	}
}
