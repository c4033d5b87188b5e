package ordering

import (
	"errors"
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEncoder_RoundTrip(t *testing.T) {
	inputs := [][]int64{
		{1, 2, 3, 4},
		{1, 2, 4, 8, 16},
		{1, 20, 5, 6, 2},
	}

	for _, nums := range inputs {
		groups, radices := SubsetSumOrdering(nums)
		enc := NewEncoder(groups)

		if diff := cmp.Diff(radices, enc.Radices()); diff != "" {
			t.Fatalf("input %v: encoder radices mismatch (-partition +encoder):\n%s", nums, diff)
		}

		total := SubsetCount(radices).Int64()
		for r := int64(0); r < total; r++ {
			digits, err := enc.Unrank(big.NewInt(r))
			if err != nil {
				t.Fatalf("input %v: Unrank(%d) failed: %v", nums, r, err)
			}
			masks, err := enc.Decode(digits)
			if err != nil {
				t.Fatalf("input %v: Decode(%v) failed: %v", nums, digits, err)
			}
			again, err := enc.Encode(masks)
			if err != nil {
				t.Fatalf("input %v: Encode(%v) failed: %v", nums, masks, err)
			}
			if diff := cmp.Diff(digits, again); diff != "" {
				t.Errorf("input %v: digit round trip mismatch (-want +got):\n%s", nums, diff)
			}

			rank, err := enc.Rank(again)
			if err != nil {
				t.Fatalf("input %v: Rank(%v) failed: %v", nums, again, err)
			}
			if rank.Int64() != r {
				t.Errorf("input %v: Rank(Unrank(%d)) = %s", nums, r, rank)
			}
		}
	}
}

func TestEncoder_RankOrderFollowsSum(t *testing.T) {
	groups, _ := SubsetSumOrdering([]int64{1, 2, 3, 4})
	enc := NewEncoder(groups)

	var prev int64
	for i := int64(0); i < 16; i++ {
		digits, err := enc.Unrank(big.NewInt(i))
		if err != nil {
			t.Fatalf("Unrank(%d) failed: %v", i, err)
		}
		sum, err := enc.Sum(digits)
		if err != nil {
			t.Fatalf("Sum(%v) failed: %v", digits, err)
		}
		if sum < prev {
			t.Errorf("rank %d (digits %v) has sum %d below previous %d", i, digits, sum, prev)
		}
		prev = sum
	}
	if prev != 10 {
		t.Errorf("Expected the last rank to select every value (10). Got: %d", prev)
	}
}

func TestEncoder_Values(t *testing.T) {
	// [1] [2,3,4]: low mask 1 selects {1}; high mask 0b101 selects {2, 4}.
	groups, _ := SubsetSumOrdering([]int64{1, 2, 3, 4})
	enc := NewEncoder(groups)

	digits, err := enc.Encode([]uint64{1, 5})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	// High digit map: {} {2} {3} {4} {2,3} {2,4} {3,4} {2,3,4}.
	if diff := cmp.Diff([]uint64{1, 5}, digits); diff != "" {
		t.Errorf("digits mismatch (-want +got):\n%s", diff)
	}

	values, err := enc.Values(digits)
	if err != nil {
		t.Fatalf("Values failed: %v", err)
	}
	if diff := cmp.Diff([][]int64{{1}, {2, 4}}, values); diff != "" {
		t.Errorf("selected values mismatch (-want +got):\n%s", diff)
	}

	sum, err := enc.Sum(digits)
	if err != nil {
		t.Fatalf("Sum failed: %v", err)
	}
	if sum != 7 {
		t.Errorf("Expected sum 7. Got: %d", sum)
	}
}

func TestEncoder_Errors(t *testing.T) {
	groups, _ := SubsetSumOrdering([]int64{1, 2, 3, 4})
	enc := NewEncoder(groups)

	if _, err := enc.Encode([]uint64{0}); !errors.Is(err, ErrDigitCount) {
		t.Errorf("Expected ErrDigitCount. Got: %v", err)
	}
	if _, err := enc.Encode([]uint64{2, 0}); !errors.Is(err, ErrMaskOutOfRange) {
		t.Errorf("Expected ErrMaskOutOfRange. Got: %v", err)
	}
	if _, err := enc.Decode([]uint64{0, 8}); !errors.Is(err, ErrDigitOutOfRange) {
		t.Errorf("Expected ErrDigitOutOfRange. Got: %v", err)
	}
	if _, err := enc.Unrank(big.NewInt(16)); !errors.Is(err, ErrRankOutOfRange) {
		t.Errorf("Expected ErrRankOutOfRange for rank == subset count. Got: %v", err)
	}
	if _, err := enc.Unrank(big.NewInt(-1)); !errors.Is(err, ErrRankOutOfRange) {
		t.Errorf("Expected ErrRankOutOfRange for a negative rank. Got: %v", err)
	}
}
