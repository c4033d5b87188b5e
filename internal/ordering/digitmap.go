package ordering

import "sort"

// DigitEntry is what one digit value of a group stands for: the subset of
// the group selected by Mask (bit i set means group[i] is included) and
// that subset's sum.
type DigitEntry struct {
	Sum  int64  `json:"sum"`
	Mask uint64 `json:"mask"`
}

// BuildDigitMap ranks every inclusion subset of group by sum, ties broken
// by mask value. Entry d is what digit d means for this group; entry 0 is
// always the empty subset. The result has 2^len(group) entries, so group
// must be small.
func BuildDigitMap(group []int64) []DigitEntry {
	n := len(group)
	entries := make([]DigitEntry, 0, 1<<uint(n))
	for mask := uint64(0); mask < uint64(1)<<uint(n); mask++ {
		var sum int64
		for i := 0; i < n; i++ {
			if mask&(1<<uint(i)) != 0 {
				sum += group[i]
			}
		}
		entries = append(entries, DigitEntry{Sum: sum, Mask: mask})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Sum != entries[j].Sum {
			return entries[i].Sum < entries[j].Sum
		}
		return entries[i].Mask < entries[j].Mask
	})
	return entries
}
