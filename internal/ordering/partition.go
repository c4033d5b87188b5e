package ordering

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"sort"
)

// MaxGroupSize is the largest group whose radix (2^n) still fits a uint64.
const MaxGroupSize = 63

var (
	ErrNonPositiveValue = errors.New("value must be a positive integer")
	ErrGroupTooLarge    = errors.New("group too large for a uint64 digit alphabet")
	ErrSumOverflow      = errors.New("total of values overflows int64")
)

// Group is a sorted run of input values sharing one digit position.
type Group []int64

// Sum returns the total of all values in the group.
func (g Group) Sum() int64 {
	var s int64
	for _, v := range g {
		s += v
	}
	return s
}

// Ordering is a validated partition together with its radix vector.
type Ordering struct {
	Groups  []Group
	Radices []uint64
}

// SubsetCount is the size of the full digit space, i.e. the product of all
// radices. It equals 2^N for N input values.
func (o Ordering) SubsetCount() *big.Int {
	return SubsetCount(o.Radices)
}

// Flatten returns the concatenation of all groups, which is the sorted input.
func (o Ordering) Flatten() []int64 {
	var out []int64
	for _, g := range o.Groups {
		out = append(out, g...)
	}
	return out
}

// SubsetCount returns the product of radices as an exact integer.
func SubsetCount(radices []uint64) *big.Int {
	total := big.NewInt(1)
	var r big.Int
	for _, radix := range radices {
		total.Mul(total, r.SetUint64(radix))
	}
	return total
}

// SubsetSumOrdering partitions nums into groups and returns them with their
// radices. nums is not modified.
//
// The values are sorted ascending and scanned once. The open group is
// closed whenever it is non-empty and the sum of everything seen so far is
// strictly less than the next value, so no combination of earlier groups
// can reach any element of a later one. Equal values never split.
//
// Behaviour for non-positive values is unspecified; use Order to reject them.
func SubsetSumOrdering(nums []int64) ([]Group, []uint64) {
	if len(nums) == 0 {
		return []Group{}, []uint64{}
	}

	sorted := make([]int64, len(nums))
	copy(sorted, nums)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var groups []Group
	var current Group
	var prefixSum int64

	for _, v := range sorted {
		if len(current) > 0 && prefixSum < v {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, v)
		prefixSum += v
	}
	groups = append(groups, current)

	return groups, RadicesOf(groups)
}

// RadicesOf returns 2^len(g) for every group. Groups larger than
// MaxGroupSize yield a zero radix.
func RadicesOf(groups []Group) []uint64 {
	radices := make([]uint64, len(groups))
	for i, g := range groups {
		if len(g) <= MaxGroupSize {
			radices[i] = uint64(1) << uint(len(g))
		}
	}
	return radices
}

// Validate rejects values that are not strictly positive and inputs whose
// total does not fit an int64. Every prefix and subset sum is bounded by
// that total.
func Validate(nums []int64) error {
	var total int64
	for i, v := range nums {
		if v <= 0 {
			return fmt.Errorf("nums[%d] = %d: %w", i, v, ErrNonPositiveValue)
		}
		if v > math.MaxInt64-total {
			return fmt.Errorf("nums[%d] = %d on top of %d: %w", i, v, total, ErrSumOverflow)
		}
		total += v
	}
	return nil
}

// Order validates nums and partitions them.
func Order(nums []int64) (Ordering, error) {
	if err := Validate(nums); err != nil {
		return Ordering{}, err
	}
	groups, radices := SubsetSumOrdering(nums)
	for i, g := range groups {
		if len(g) > MaxGroupSize {
			return Ordering{}, fmt.Errorf("group %d has %d values (max %d): %w", i, len(g), MaxGroupSize, ErrGroupTooLarge)
		}
	}
	return Ordering{Groups: groups, Radices: radices}, nil
}
