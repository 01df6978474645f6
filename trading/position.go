// Package trading defines positions, trade sequences and the contract trading
// models satisfy.
package trading

import (
	"fmt"
	"strconv"
	"strings"
)

// Long returns a position holding n shares
func Long(n uint64) Position {
	return Position{Side: SideLong, Shares: n}
}

// Short returns a position owing n shares
func Short(n uint64) Position {
	return Position{Side: SideShort, Shares: n}
}

// Out returns a flat position
func Out() Position {
	return Position{Side: SideOut}
}

// Hold returns the position that keeps whatever was last resolved
func Hold() Position {
	return Position{Side: SideHold}
}

// IsEntry reports whether the position opens exposure
func (p Position) IsEntry() bool {
	return p.Side == SideLong || p.Side == SideShort
}

// IsOpposite reports whether p and other are entries on opposite sides
func (p Position) IsOpposite(other Position) bool {
	return (p.Side == SideLong && other.Side == SideShort) ||
		(p.Side == SideShort && other.Side == SideLong)
}

// IsExitFrom reports whether moving from prior to p closes prior's exposure,
// either by going flat or by reversing
func (p Position) IsExitFrom(prior Position) bool {
	if !prior.IsEntry() {
		return false
	}
	return p.Side == SideOut || p.IsOpposite(prior)
}

// SignedShares is the share count the position targets: positive for long,
// negative for short, zero otherwise
func (p Position) SignedShares() int64 {
	switch p.Side {
	case SideLong:
		return int64(p.Shares)
	case SideShort:
		return -int64(p.Shares)
	}
	return 0
}

// Resolve replaces Hold with the previously resolved position. Holding on
// the first day resolves to Out because the zero Position is flat.
func Resolve(raw, prevResolved Position) Position {
	if raw.Side == SideHold {
		return prevResolved
	}
	return raw
}

// String implements fmt.Stringer
func (p Position) String() string {
	switch p.Side {
	case SideLong:
		return "Long(" + strconv.FormatUint(p.Shares, 10) + ")"
	case SideShort:
		return "Short(" + strconv.FormatUint(p.Shares, 10) + ")"
	case SideHold:
		return "Hold"
	default:
		return "Out"
	}
}

// ParsePosition parses the String form of a Position
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "out":
		return Out(), nil
	case "hold":
		return Hold(), nil
	}
	open := strings.IndexByte(s, '(')
	if open < 0 || !strings.HasSuffix(s, ")") {
		return Position{}, fmt.Errorf("%w %q", ErrInvalidPosition, s)
	}
	n, err := strconv.ParseUint(s[open+1:len(s)-1], 10, 64)
	if err != nil {
		return Position{}, fmt.Errorf("%w %q: %v", ErrInvalidPosition, s, err)
	}
	switch strings.ToLower(s[:open]) {
	case "long":
		return Long(n), nil
	case "short":
		return Short(n), nil
	}
	return Position{}, fmt.Errorf("%w %q", ErrInvalidPosition, s)
}

// MarshalText implements encoding.TextMarshaler
func (p Position) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
