package ordering

import (
	"errors"
	"fmt"
	"math/big"
)

var (
	ErrDigitCount      = errors.New("wrong number of digits")
	ErrDigitOutOfRange = errors.New("digit out of range")
	ErrMaskOutOfRange  = errors.New("inclusion mask out of range")
	ErrRankOutOfRange  = errors.New("rank out of range")
)

// Encoder converts between subset selections, digit tuples and ranks for
// one partition. Selections are given per group as inclusion bitmasks.
type Encoder struct {
	groups []Group
	maps   [][]DigitEntry
	digit  [][]uint64 // digit[g][mask]
}

// NewEncoder builds the digit maps of every group. Each group costs
// 2^len(group) entries.
func NewEncoder(groups []Group) *Encoder {
	e := &Encoder{
		groups: groups,
		maps:   make([][]DigitEntry, len(groups)),
		digit:  make([][]uint64, len(groups)),
	}
	for g, group := range groups {
		m := BuildDigitMap(group)
		inv := make([]uint64, len(m))
		for d, entry := range m {
			inv[entry.Mask] = uint64(d)
		}
		e.maps[g] = m
		e.digit[g] = inv
	}
	return e
}

// Radices returns the digit alphabet size of every position.
func (e *Encoder) Radices() []uint64 {
	radices := make([]uint64, len(e.maps))
	for g, m := range e.maps {
		radices[g] = uint64(len(m))
	}
	return radices
}

// DigitMap returns the ranked subsets of group g.
func (e *Encoder) DigitMap(g int) []DigitEntry {
	return e.maps[g]
}

// Encode maps one inclusion mask per group to its digit tuple.
func (e *Encoder) Encode(masks []uint64) ([]uint64, error) {
	if len(masks) != len(e.groups) {
		return nil, fmt.Errorf("got %d masks for %d groups: %w", len(masks), len(e.groups), ErrDigitCount)
	}
	digits := make([]uint64, len(masks))
	for g, mask := range masks {
		if mask >= uint64(len(e.digit[g])) {
			return nil, fmt.Errorf("mask %d for group %d (radix %d): %w", mask, g, len(e.digit[g]), ErrMaskOutOfRange)
		}
		digits[g] = e.digit[g][mask]
	}
	return digits, nil
}

// Decode maps a digit tuple back to one inclusion mask per group.
func (e *Encoder) Decode(digits []uint64) ([]uint64, error) {
	if err := e.check(digits); err != nil {
		return nil, err
	}
	masks := make([]uint64, len(digits))
	for g, d := range digits {
		masks[g] = e.maps[g][d].Mask
	}
	return masks, nil
}

// Sum returns the subset sum a digit tuple stands for.
func (e *Encoder) Sum(digits []uint64) (int64, error) {
	if err := e.check(digits); err != nil {
		return 0, err
	}
	var total int64
	for g, d := range digits {
		total += e.maps[g][d].Sum
	}
	return total, nil
}

// Values returns the selected values of every group.
func (e *Encoder) Values(digits []uint64) ([][]int64, error) {
	masks, err := e.Decode(digits)
	if err != nil {
		return nil, err
	}
	out := make([][]int64, len(masks))
	for g, mask := range masks {
		selected := []int64{}
		for i, v := range e.groups[g] {
			if mask&(1<<uint(i)) != 0 {
				selected = append(selected, v)
			}
		}
		out[g] = selected
	}
	return out, nil
}

// Rank returns the mixed-radix value of digits with the last group as the
// most significant position. Ranks follow enumeration order of Verify.
func (e *Encoder) Rank(digits []uint64) (*big.Int, error) {
	if err := e.check(digits); err != nil {
		return nil, err
	}
	var x, r, d big.Int
	for g := len(digits) - 1; g >= 0; g-- {
		r.SetUint64(uint64(len(e.maps[g])))
		d.SetUint64(digits[g])
		x.Mul(&x, &r)
		x.Add(&x, &d)
	}
	return &x, nil
}

// Unrank is the inverse of Rank.
func (e *Encoder) Unrank(rank *big.Int) ([]uint64, error) {
	if rank == nil || rank.Sign() < 0 {
		return nil, fmt.Errorf("rank %v: %w", rank, ErrRankOutOfRange)
	}
	var v, r, mod big.Int
	v.Set(rank)
	digits := make([]uint64, len(e.maps))
	for g := range digits {
		r.SetUint64(uint64(len(e.maps[g])))
		v.DivMod(&v, &r, &mod)
		digits[g] = mod.Uint64()
	}
	if v.Sign() != 0 {
		return nil, fmt.Errorf("rank %s exceeds %s subsets: %w", rank, SubsetCount(e.Radices()), ErrRankOutOfRange)
	}
	return digits, nil
}

func (e *Encoder) check(digits []uint64) error {
	if len(digits) != len(e.maps) {
		return fmt.Errorf("got %d digits for %d groups: %w", len(digits), len(e.maps), ErrDigitCount)
	}
	for g, d := range digits {
		if d >= uint64(len(e.maps[g])) {
			return fmt.Errorf("digit %d for group %d (radix %d): %w", d, g, len(e.maps[g]), ErrDigitOutOfRange)
		}
	}
	return nil
}
