package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// NumericID is a record id that accepts a JSON number or a numeric string.
// Anything else fails to decode, which makes the whole request a 400.
type NumericID uint

func (n *NumericID) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return fmt.Errorf("id no numerico: %s", b)
	}
	*n = NumericID(v)
	return nil
}

// Peso accepts a JSON number or numeric string. An explicit null is a
// present, empty weight. Any other value decodes as if the field had been
// left out, so Presente stays false.
type Peso struct {
	decimal.NullDecimal
	Presente bool `json:"-"`
}

func (p *Peso) UnmarshalJSON(b []byte) error {
	*p = Peso{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	if string(b) == "null" {
		p.Presente = true
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return nil
		}
		raw = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil
	}
	p.NullDecimal = decimal.NullDecimal{Decimal: d, Valid: true}
	p.Presente = true
	return nil
}

// PesoDesde wraps an already-parsed weight.
func PesoDesde(d decimal.Decimal) Peso {
	return Peso{NullDecimal: decimal.NullDecimal{Decimal: d, Valid: true}, Presente: true}
}

// PesoNulo is an explicit "no weight", used to clear a stored one.
func PesoNulo() Peso {
	return Peso{Presente: true}
}

// MensajeResponse is the body of mutations that only acknowledge success.
type MensajeResponse struct {
	Message string `json:"message"`
}

// ToggleResponse reports which direction an activo toggle went.
type ToggleResponse struct {
	Message string `json:"message"`
	Accion  string `json:"accion"` // activado | desactivado
	Activo  bool   `json:"activo"`
}
