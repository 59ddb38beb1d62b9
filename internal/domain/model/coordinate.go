package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Coordinate is a latitude or longitude as received from the API. The
// original text is kept so lookups send back exactly what was received.
type Coordinate struct {
	Value decimal.Decimal
	Valid bool
	raw   string
}

// ParseCoordinate parses s, keeping it verbatim for String.
func ParseCoordinate(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid coordinate %q: %w", s, err)
	}
	return Coordinate{Value: d, Valid: true, raw: s}, nil
}

// UnmarshalJSON accepts a quoted decimal, a bare number or null.
func (c *Coordinate) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*c = Coordinate{}
		return nil
	}

	text := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
	}

	parsed, err := ParseCoordinate(text)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Coordinate) MarshalJSON() ([]byte, error) {
	if !c.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(c.String())
}

// String returns the coordinate as received, or the decimal form when it
// was built without source text.
func (c Coordinate) String() string {
	if c.raw != "" {
		return c.raw
	}
	return c.Value.String()
}
