package ledger

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"slot_backend/internal/model"
)

var strictJSON = jsoniter.Config{
	EscapeHTML:             true,
	SortMapKeys:            true,
	ValidateJsonRawMessage: true,
	DisallowUnknownFields:  true,
}.Froze()

// Документ параметров. Указатели нужны, чтобы отличить пропущенное поле от нуля.
type scheduleDoc struct {
	Base   *uint64 `json:"base" yaml:"base"`
	Kicker *uint64 `json:"kicker" yaml:"kicker"`
}

type betCostsDoc struct {
	Credit  *scheduleDoc `json:"credit" yaml:"credit"`
	Network *scheduleDoc `json:"network" yaml:"network"`
	Token   *scheduleDoc `json:"token" yaml:"token"`
}

type poolsDoc struct {
	Bonus   *uint64 `json:"bonus" yaml:"bonus"`
	Credit  *uint64 `json:"credit" yaml:"credit"`
	Network *uint64 `json:"network" yaml:"network"`
	Token   *uint64 `json:"token" yaml:"token"`
}

type paramsDoc struct {
	Paytable          map[string]map[string]uint64 `json:"paytable" yaml:"paytable"`
	BetCosts          *betCostsDoc                 `json:"bet_costs" yaml:"bet_costs"`
	JackpotPools      *poolsDoc                    `json:"jackpot_pools" yaml:"jackpot_pools"`
	EnabledModes      *uint64                      `json:"enabled_modes" yaml:"enabled_modes"`
	BonusReferenceBet *uint64                      `json:"bonus_reference_bet" yaml:"bonus_reference_bet"`
}

// DecodeParamsJSON Строгое чтение параметров из JSON: неизвестные и пропущенные поля отклоняются
func DecodeParamsJSON(data []byte) (model.MachineParameters, error) {
	var doc paramsDoc
	dec := strictJSON.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		return model.MachineParameters{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return doc.toModel()
}

// DecodeParamsYAML Строгое чтение параметров из YAML
func DecodeParamsYAML(r io.Reader) (model.MachineParameters, error) {
	var doc paramsDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return model.MachineParameters{}, fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return doc.toModel()
}

// EncodeParamsJSON Параметры в формате, который принимает DecodeParamsJSON
func EncodeParamsJSON(p model.MachineParameters) ([]byte, error) {
	doc := paramsDoc{
		Paytable: make(map[string]map[string]uint64),
		BetCosts: &betCostsDoc{
			Credit:  scheduleToDoc(p.BetCosts.Credit),
			Network: scheduleToDoc(p.BetCosts.Network),
			Token:   scheduleToDoc(p.BetCosts.Token),
		},
		JackpotPools: &poolsDoc{
			Bonus:   ptr(p.JackpotPools.Bonus),
			Credit:  ptr(p.JackpotPools.Credit),
			Network: ptr(p.JackpotPools.Network),
			Token:   ptr(p.JackpotPools.Token),
		},
		EnabledModes:      ptr(p.EnabledModes),
		BonusReferenceBet: ptr(p.BonusReferenceBet),
	}
	for s := model.Symbol(0); s < model.NumPaying; s++ {
		row := make(map[string]uint64)
		for l := 1; l <= model.MaxMatch; l++ {
			if v := p.Paytable.Pay(s, l); v > 0 {
				row[strconv.Itoa(l)] = v
			}
		}
		doc.Paytable[s.String()] = row
	}
	return strictJSON.Marshal(doc)
}

func (d *paramsDoc) toModel() (model.MachineParameters, error) {
	var p model.MachineParameters

	missing := func(field string) (model.MachineParameters, error) {
		return model.MachineParameters{}, fmt.Errorf("%w: missing %s", ErrInvalidParams, field)
	}

	if d.Paytable == nil {
		return missing("paytable")
	}
	for name, row := range d.Paytable {
		s, err := model.ParseSymbol(name)
		if err != nil || !s.IsPaying() {
			return model.MachineParameters{}, fmt.Errorf("%w: paytable symbol %q", ErrInvalidParams, name)
		}
		for lenStr, credits := range row {
			l, err := strconv.Atoi(lenStr)
			if err != nil || l < 1 || l > model.MaxMatch {
				return model.MachineParameters{}, fmt.Errorf("%w: paytable %s length %q", ErrInvalidParams, name, lenStr)
			}
			p.Paytable[s][l] = credits
		}
	}

	if d.BetCosts == nil {
		return missing("bet_costs")
	}
	schedules := []struct {
		name string
		doc  *scheduleDoc
		dst  *model.BetSchedule
	}{
		{"credit", d.BetCosts.Credit, &p.BetCosts.Credit},
		{"network", d.BetCosts.Network, &p.BetCosts.Network},
		{"token", d.BetCosts.Token, &p.BetCosts.Token},
	}
	for _, sc := range schedules {
		if sc.doc == nil || sc.doc.Base == nil || sc.doc.Kicker == nil {
			return missing("bet_costs." + sc.name)
		}
		*sc.dst = model.BetSchedule{Base: *sc.doc.Base, Kicker: *sc.doc.Kicker}
	}

	if d.JackpotPools == nil {
		return missing("jackpot_pools")
	}
	pools := []struct {
		name string
		src  *uint64
		dst  *uint64
	}{
		{"bonus", d.JackpotPools.Bonus, &p.JackpotPools.Bonus},
		{"credit", d.JackpotPools.Credit, &p.JackpotPools.Credit},
		{"network", d.JackpotPools.Network, &p.JackpotPools.Network},
		{"token", d.JackpotPools.Token, &p.JackpotPools.Token},
	}
	for _, pl := range pools {
		if pl.src == nil {
			return missing("jackpot_pools." + pl.name)
		}
		*pl.dst = *pl.src
	}

	if d.EnabledModes == nil {
		return missing("enabled_modes")
	}
	if *d.EnabledModes&^uint64(7) != 0 {
		return model.MachineParameters{}, fmt.Errorf("%w: enabled_modes %#x has unknown bits", ErrInvalidParams, *d.EnabledModes)
	}
	p.EnabledModes = *d.EnabledModes

	if d.BonusReferenceBet == nil {
		return missing("bonus_reference_bet")
	}
	p.BonusReferenceBet = *d.BonusReferenceBet

	return p, nil
}

func scheduleToDoc(s model.BetSchedule) *scheduleDoc {
	return &scheduleDoc{Base: ptr(s.Base), Kicker: ptr(s.Kicker)}
}

func ptr[T any](v T) *T {
	return &v
}
