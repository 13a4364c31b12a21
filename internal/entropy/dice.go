package entropy

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidDice is returned for malformed dice expressions.
var ErrInvalidDice = errors.New("invalid dice expression")

// Dice is an NdS+B expression. The zero value rolls 0.
type Dice struct {
	Count int
	Sides int
	Bonus int
}

// D returns a Dice of count × d(sides).
func D(count, sides int) Dice {
	return Dice{Count: count, Sides: sides}
}

// Plus returns d with a flat bonus added.
func (d Dice) Plus(bonus int) Dice {
	d.Bonus += bonus
	return d
}

// IsZero reports whether the expression can only roll 0.
func (d Dice) IsZero() bool {
	return (d.Count == 0 || d.Sides == 0) && d.Bonus == 0
}

// Roll rolls the expression. Results are never negative.
func (d Dice) Roll(src Source) int {
	total := d.Bonus
	if d.Sides > 0 {
		for i := 0; i < d.Count; i++ {
			total += src.IntN(d.Sides) + 1
		}
	}
	if total < 0 {
		return 0
	}
	return total
}

// Max is the highest possible roll.
func (d Dice) Max() int {
	return d.Count*d.Sides + d.Bonus
}

// D20 rolls a single twenty-sided die.
func D20(src Source) int {
	return src.IntN(20) + 1
}

func (d Dice) String() string {
	if d.Count == 0 || d.Sides == 0 {
		return strconv.Itoa(d.Bonus)
	}
	s := fmt.Sprintf("%dd%d", d.Count, d.Sides)
	switch {
	case d.Bonus > 0:
		s += fmt.Sprintf("+%d", d.Bonus)
	case d.Bonus < 0:
		s += strconv.Itoa(d.Bonus)
	}
	return s
}

// ParseDice parses "2d6", "d20", "3d10+4", "1d8-1" or a flat "5".
func ParseDice(expr string) (Dice, error) {
	s := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(expr), " ", ""))
	if s == "" {
		return Dice{}, nil
	}

	var d Dice
	body := s
	if i := strings.LastIndexAny(s, "+-"); i > 0 {
		bonus, err := strconv.Atoi(s[i:])
		if err != nil {
			return Dice{}, fmt.Errorf("%w: %q", ErrInvalidDice, expr)
		}
		d.Bonus = bonus
		body = s[:i]
	}

	count, sides, found := strings.Cut(body, "d")
	if !found {
		flat, err := strconv.Atoi(body)
		if err != nil {
			return Dice{}, fmt.Errorf("%w: %q", ErrInvalidDice, expr)
		}
		d.Bonus += flat
		return d, nil
	}

	d.Count = 1
	if count != "" {
		n, err := strconv.Atoi(count)
		if err != nil || n < 0 {
			return Dice{}, fmt.Errorf("%w: %q", ErrInvalidDice, expr)
		}
		d.Count = n
	}
	n, err := strconv.Atoi(sides)
	if err != nil || n <= 0 {
		return Dice{}, fmt.Errorf("%w: %q", ErrInvalidDice, expr)
	}
	d.Sides = n
	return d, nil
}

// MarshalText encodes the expression for JSON and YAML.
func (d Dice) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText parses the expression from JSON and YAML.
func (d *Dice) UnmarshalText(text []byte) error {
	parsed, err := ParseDice(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
