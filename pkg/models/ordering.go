package models

import "github.com/rawblock/subset-ordering/internal/ordering"

// OrderingRequest is the body of POST /ordering. Values are satoshis;
// AmountsBTC are converted to satoshis and appended to Values.
type OrderingRequest struct {
	Values     []int64   `json:"values"`
	AmountsBTC []float64 `json:"amountsBtc"`
	Verify     bool      `json:"verify"`
}

// VerifyRequest is the body of POST /ordering/verify. The partition is
// verified exactly as given.
type VerifyRequest struct {
	Partition [][]int64 `json:"partition" binding:"required"`
}

// DigitMapRequest is the body of POST /digitmap.
type DigitMapRequest struct {
	Group []int64 `json:"group"`
}

// EncodeRequest is the body of POST /ordering/encode: one inclusion
// bitmask per group of the partition of Values.
type EncodeRequest struct {
	Values []int64  `json:"values" binding:"required"`
	Masks  []uint64 `json:"masks" binding:"required"`
}

// DecodeRequest is the body of POST /ordering/decode. Rank is a decimal
// string since it can exceed 64 bits.
type DecodeRequest struct {
	Values []int64 `json:"values" binding:"required"`
	Rank   string  `json:"rank" binding:"required"`
}

// OrderingResult holds a partition, its radices and, when requested, the
// verification verdict.
type OrderingResult struct {
	RequestID   string            `json:"requestId"`
	Input       []int64           `json:"input"`
	Partition   [][]int64         `json:"partition"`
	Radices     []uint64          `json:"radices"`
	SubsetCount string            `json:"subsetCount"`
	TotalValue  string            `json:"totalValue"` // formatted BTC amount
	Verdict     *ordering.Verdict `json:"verdict,omitempty"`
}

// Selection describes one subset as digits, rank, masks and values.
type Selection struct {
	RequestID string    `json:"requestId"`
	Digits    []uint64  `json:"digits"`
	Rank      string    `json:"rank"`
	Masks     []uint64  `json:"masks"`
	Selected  [][]int64 `json:"selected"`
	Sum       int64     `json:"sum"`
	SumBTC    string    `json:"sumBtc"`
}
