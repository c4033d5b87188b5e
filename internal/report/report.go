// Package report renders ordering results as the plain-text blocks printed
// by the engine's demo mode.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/rawblock/subset-ordering/internal/ordering"
)

// Block is one input and everything computed from it.
type Block struct {
	Input   []int64
	Groups  []ordering.Group
	Radices []uint64
	Verdict ordering.Verdict
}

// Write prints b as four aligned lines followed by a blank line.
func Write(w io.Writer, b Block) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Input:          %s\n", formatInts(b.Input))

	groups := make([]string, len(b.Groups))
	for i, g := range b.Groups {
		groups[i] = formatInts(g)
	}
	fmt.Fprintf(&sb, "Partition:      [%s]\n", strings.Join(groups, ", "))

	fmt.Fprintf(&sb, "Radices:        %s  (%d subsets)\n", formatUints(b.Radices), ordering.SubsetCount(b.Radices))

	fmt.Fprintf(&sb, "Valid:          %t", b.Verdict.Valid)
	if !b.Verdict.Valid {
		fmt.Fprintf(&sb, "  FAIL: %s", FormatViolation(b.Verdict.Violation))
	}
	sb.WriteString("\n\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// FormatViolation renders a violation on one line.
func FormatViolation(v ordering.Violation) string {
	return fmt.Sprintf("{at_index: %d, digits: %s, sum: %d, prev_sum: %d}",
		v.AtIndex, formatUints(v.Digits), v.Sum, v.PrevSum)
}

func formatInts(vals []int64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatInt(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatUints(vals []uint64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = strconv.FormatUint(v, 10)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
