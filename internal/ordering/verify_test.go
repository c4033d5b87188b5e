package ordering

import (
	"errors"
	"math/big"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestVerify_KnownScenariosPass(t *testing.T) {
	inputs := [][]int64{
		{1, 2, 4, 8, 16},
		{1, 1, 2, 4},
		{1, 2, 3, 4},
		{10},
	}

	for _, nums := range inputs {
		groups, radices := SubsetSumOrdering(nums)
		v := Verify(groups, radices)
		if !v.Valid {
			t.Errorf("Expected %v to verify. Got violation: %v", nums, v.Violation)
			continue
		}
		if want := uint64(1) << uint(len(nums)); v.Checked != want {
			t.Errorf("Expected %v to check all %d tuples. Got: %d", nums, want, v.Checked)
		}
	}
}

func TestVerify_EmptyPartition(t *testing.T) {
	groups, radices := SubsetSumOrdering(nil)
	v := Verify(groups, radices)
	if !v.Valid || v.Checked != 0 {
		t.Errorf("Expected the empty partition to pass trivially. Got: %+v", v)
	}
}

func TestVerify_ReportsFirstViolation(t *testing.T) {
	tests := []struct {
		name string
		nums []int64
		want Violation
	}{
		{
			// [1] [2] [5,6] [20]: {5}+1+2 = 8 is followed by {6} alone.
			name: "Motivating Example",
			nums: []int64{1, 20, 5, 6, 2},
			want: Violation{AtIndex: 8, Digits: []uint64{0, 0, 2, 0}, Sum: 6, PrevSum: 8},
		},
		{
			// [3] [5,6,7]: digit 1 of the high group is {5}, digit 2 is {6};
			// 5+3 = 8 is followed by 6+0 = 6.
			name: "Dense High Group",
			nums: []int64{3, 5, 6, 7},
			want: Violation{AtIndex: 4, Digits: []uint64{0, 2}, Sum: 6, PrevSum: 8},
		},
		{
			// [1] [5,5]: tied digits in the high group let the low carry win.
			name: "Tied High Digits",
			nums: []int64{1, 5, 5},
			want: Violation{AtIndex: 4, Digits: []uint64{0, 2}, Sum: 5, PrevSum: 6},
		},
		{
			name: "Duplicate Low Group",
			nums: []int64{1, 1, 3, 4},
			want: Violation{AtIndex: 8, Digits: []uint64{0, 2}, Sum: 4, PrevSum: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, radices := SubsetSumOrdering(tt.nums)
			v := Verify(groups, radices)
			if v.Valid {
				t.Fatalf("Expected %v to fail verification", tt.nums)
			}
			if diff := cmp.Diff(tt.want, v.Violation); diff != "" {
				t.Errorf("violation mismatch (-want +got):\n%s", diff)
			}
			if v.Checked != tt.want.AtIndex+1 {
				t.Errorf("Expected the walk to stop after %d tuples. Got: %d", tt.want.AtIndex+1, v.Checked)
			}
		})
	}
}

func TestVerify_SuperIncreasingAlwaysPasses(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	for iter := 0; iter < 50; iter++ {
		n := rng.Intn(12) + 1
		nums := make([]int64, n)
		var prefix int64
		for i := range nums {
			nums[i] = prefix + int64(rng.Intn(5)+1)
			prefix += nums[i]
		}
		rng.Shuffle(n, func(i, j int) { nums[i], nums[j] = nums[j], nums[i] })

		groups, radices := SubsetSumOrdering(nums)
		if len(groups) != n {
			t.Fatalf("input %v: expected %d singleton groups, got %v", nums, n, groups)
		}
		if v := Verify(groups, radices); !v.Valid {
			t.Errorf("input %v: expected pure binary encoding to verify. Got: %v", nums, v.Violation)
		}
	}
}

// TestVerify_MatchesRankedEnumeration cross-checks the odometer walk against
// an independent walk over ranks 0..P-1 through the Encoder.
func TestVerify_MatchesRankedEnumeration(t *testing.T) {
	rng := rand.New(rand.NewSource(11))

	for iter := 0; iter < 150; iter++ {
		nums := make([]int64, rng.Intn(9)+1)
		for i := range nums {
			nums[i] = int64(rng.Intn(12) + 1)
		}
		groups, radices := SubsetSumOrdering(nums)
		enc := NewEncoder(groups)

		want := Verdict{Valid: true}
		total := SubsetCount(radices).Uint64()
		var prev int64
		for i := uint64(0); i < total; i++ {
			digits, err := enc.Unrank(new(big.Int).SetUint64(i))
			if err != nil {
				t.Fatalf("Unrank(%d) failed: %v", i, err)
			}
			sum, err := enc.Sum(digits)
			if err != nil {
				t.Fatalf("Sum(%v) failed: %v", digits, err)
			}
			if i > 0 && sum < prev {
				want = Verdict{Checked: i + 1, Violation: Violation{AtIndex: i, Digits: digits, Sum: sum, PrevSum: prev}}
				break
			}
			prev = sum
			want.Checked = i + 1
		}

		got := Verify(groups, radices)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("input %v: verdict mismatch (-ranked +odometer):\n%s", nums, diff)
		}
	}
}

func TestVerifyBounded(t *testing.T) {
	nums := make([]int64, 23)
	for i := range nums {
		nums[i] = int64(1) << uint(i)
	}
	groups, radices := SubsetSumOrdering(nums)

	if _, err := VerifyBounded(groups, radices, DefaultMaxTuples); !errors.Is(err, ErrSearchSpaceTooLarge) {
		t.Errorf("Expected 2^23 tuples to exceed the default budget. Got: %v", err)
	}

	v, err := VerifyBounded(groups[:10], radices[:10], DefaultMaxTuples)
	if err != nil {
		t.Fatalf("Expected a 2^10 space to run. Got: %v", err)
	}
	if !v.Valid || v.Checked != 1024 {
		t.Errorf("Expected a valid walk over 1024 tuples. Got: %+v", v)
	}
}

func TestVerifyBounded_RadixMismatch(t *testing.T) {
	groups := []Group{{1}, {2, 3, 4}}

	if _, err := VerifyBounded(groups, []uint64{2}, DefaultMaxTuples); !errors.Is(err, ErrRadixMismatch) {
		t.Errorf("Expected ErrRadixMismatch for a short radix vector. Got: %v", err)
	}
	if _, err := VerifyBounded(groups, []uint64{2, 16}, DefaultMaxTuples); !errors.Is(err, ErrRadixMismatch) {
		t.Errorf("Expected ErrRadixMismatch for a wrong radix. Got: %v", err)
	}
}
