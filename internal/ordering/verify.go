package ordering

import (
	"errors"
	"fmt"
	"log"
	"math/big"
)

// DefaultMaxTuples bounds VerifyBounded when callers have no budget of
// their own: 2^22 tuples, i.e. inputs of up to 22 values.
const DefaultMaxTuples uint64 = 1 << 22

var (
	ErrSearchSpaceTooLarge = errors.New("digit space exceeds verification budget")
	ErrRadixMismatch       = errors.New("radices do not match partition")
)

// Violation describes the first digit tuple, in enumeration order, whose
// subset sum is smaller than the sum of the tuple before it.
type Violation struct {
	AtIndex uint64   `json:"atIndex"`
	Digits  []uint64 `json:"digits"`
	Sum     int64    `json:"sum"`
	PrevSum int64    `json:"prevSum"`
}

func (v Violation) String() string {
	return fmt.Sprintf("at_index=%d digits=%v sum=%d prev_sum=%d", v.AtIndex, v.Digits, v.Sum, v.PrevSum)
}

// Verdict is the outcome of a verification walk. Violation is only set
// when Valid is false.
type Verdict struct {
	Valid     bool      `json:"valid"`
	Checked   uint64    `json:"checked"`
	Violation Violation `json:"violation"`
}

// Verify enumerates every digit tuple of the partition in mixed-radix
// order, group 0 varying fastest and the last group slowest, and checks
// that subset sums never decrease. radices must belong to groups (see
// RadicesOf); Verify panics on a digit outside a group's digit map.
//
// The walk visits the product of all radices, 2^N tuples for N values.
func Verify(groups []Group, radices []uint64) Verdict {
	k := len(groups)
	if k == 0 {
		return Verdict{Valid: true}
	}

	maps := make([][]DigitEntry, k)
	for i, g := range groups {
		maps[i] = BuildDigitMap(g)
	}

	digits := make([]uint64, k)
	var total int64
	for i := range maps {
		total += maps[i][0].Sum
	}
	prev := total

	for idx := uint64(0); ; idx++ {
		if idx > 0 && total < prev {
			return Verdict{
				Valid:   false,
				Checked: idx + 1,
				Violation: Violation{
					AtIndex: idx,
					Digits:  append([]uint64(nil), digits...),
					Sum:     total,
					PrevSum: prev,
				},
			}
		}
		prev = total

		// Odometer step: bump the least significant digit, carry upwards.
		g := 0
		for ; g < k; g++ {
			old := digits[g]
			digits[g]++
			if digits[g] < radices[g] {
				total += maps[g][digits[g]].Sum - maps[g][old].Sum
				break
			}
			digits[g] = 0
			total += maps[g][0].Sum - maps[g][old].Sum
		}
		if g == k {
			return Verdict{Valid: true, Checked: idx + 1}
		}
	}
}

// VerifyBounded runs Verify only when the digit space holds at most
// maxTuples tuples and the radices match the groups.
func VerifyBounded(groups []Group, radices []uint64, maxTuples uint64) (Verdict, error) {
	if len(radices) != len(groups) {
		return Verdict{}, fmt.Errorf("%d radices for %d groups: %w", len(radices), len(groups), ErrRadixMismatch)
	}
	for i, g := range groups {
		if len(g) > MaxGroupSize || radices[i] != uint64(1)<<uint(len(g)) {
			return Verdict{}, fmt.Errorf("group %d of size %d has radix %d: %w", i, len(g), radices[i], ErrRadixMismatch)
		}
	}

	space := SubsetCount(radices)
	if space.Cmp(new(big.Int).SetUint64(maxTuples)) > 0 {
		log.Printf("[Verifier] Digit space of %s tuples exceeds budget of %d. Refusing to run.", space, maxTuples)
		return Verdict{}, fmt.Errorf("%s tuples > %d: %w", space, maxTuples, ErrSearchSpaceTooLarge)
	}
	return Verify(groups, radices), nil
}
