// Package colour provides the RGB value type used for persona colours.
package colour

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidHex is returned by ParseHex for anything that is not a
// "#" followed by exactly six hex digits.
var ErrInvalidHex = errors.New("colour: invalid hex string, want #RRGGBB")

// Colour is an immutable RGB triple.
type Colour struct {
	R, G, B uint8
}

// ParseHex parses a "#RRGGBB" string, case-insensitive.
func ParseHex(s string) (Colour, error) {
	if len(s) != 7 || s[0] != '#' {
		return Colour{}, ErrInvalidHex
	}
	var v [6]uint8
	for i, c := range []byte(s[1:]) {
		d, ok := hexDigit(c)
		if !ok {
			return Colour{}, ErrInvalidHex
		}
		v[i] = d
	}
	return Colour{
		R: v[0]<<4 | v[1],
		G: v[2]<<4 | v[3],
		B: v[4]<<4 | v[5],
	}, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

var (
	black = Colour{0x00, 0x00, 0x00}
	white = Colour{0xFF, 0xFF, 0xFF}
)

// Foreground returns black or white, whichever is readable on top of c.
// Bright backgrounds (channel sum at or above 255*1.5) get black text.
func (c Colour) Foreground() Colour {
	if int(c.R)+int(c.G)+int(c.B) >= 255*3/2 {
		return black
	}
	return white
}

// Hex formats the colour as "#RRGGBB". Round-trips ParseHex.
func (c Colour) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// CSS formats the colour as a CSS color declaration.
func (c Colour) CSS() string {
	return fmt.Sprintf("color: rgb(%d, %d, %d);", c.R, c.G, c.B)
}

// CSSBackground formats the colour as a CSS background-color declaration.
func (c Colour) CSSBackground() string {
	return fmt.Sprintf("background-color: rgb(%d, %d, %d);", c.R, c.G, c.B)
}

func (c Colour) String() string { return c.Hex() }

// MarshalJSON encodes the colour as its hex string.
func (c Colour) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Hex())
}

// UnmarshalJSON decodes a hex string colour.
func (c *Colour) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseHex(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
