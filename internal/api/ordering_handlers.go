package api

import (
	"errors"
	"log"
	"math/big"
	"net/http"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/gin-gonic/gin"
	"github.com/rawblock/subset-ordering/internal/ordering"
	"github.com/rawblock/subset-ordering/pkg/models"
)

// MaxDigitMapGroup caps the group size of endpoints that materialise
// digit maps (2^20 entries).
const MaxDigitMapGroup = 20

var errDigitMapTooLarge = errors.New("group too large for a digit map")

// POST /api/v1/ordering
// Partitions the values and optionally verifies the ordering.
func (h *APIHandler) handleOrdering(c *gin.Context) {
	var req models.OrderingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	values := append([]int64(nil), req.Values...)
	for i, btc := range req.AmountsBTC {
		amt, err := btcutil.NewAmount(btc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid BTC amount", "index": i, "details": err.Error()})
			return
		}
		values = append(values, int64(amt))
	}

	result, err := h.order(c, values, req.Verify)
	if err != nil {
		writeOrderingError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// POST /api/v1/ordering/verify
// Verifies a caller-supplied partition as is.
func (h *APIHandler) handleVerify(c *gin.Context) {
	var req models.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	groups := make([]ordering.Group, len(req.Partition))
	var all []int64
	for i, g := range req.Partition {
		groups[i] = ordering.Group(g)
		all = append(all, g...)
	}
	if err := ordering.Validate(all); err != nil {
		writeOrderingError(c, err)
		return
	}
	radices := ordering.RadicesOf(groups)

	verdict, err := ordering.VerifyBounded(groups, radices, h.maxTuples)
	if err != nil {
		writeOrderingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requestId":   requestIDFrom(c),
		"radices":     radices,
		"subsetCount": ordering.SubsetCount(radices).String(),
		"verdict":     verdict,
	})
}

// POST /api/v1/digitmap
// Returns the ranked subsets of a single group.
func (h *APIHandler) handleDigitMap(c *gin.Context) {
	var req models.DigitMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if len(req.Group) > MaxDigitMapGroup {
		writeOrderingError(c, errDigitMapTooLarge)
		return
	}
	if err := ordering.Validate(req.Group); err != nil {
		writeOrderingError(c, err)
		return
	}

	digits := ordering.BuildDigitMap(req.Group)
	c.JSON(http.StatusOK, gin.H{
		"requestId": requestIDFrom(c),
		"group":     req.Group,
		"radix":     len(digits),
		"digits":    digits,
	})
}

// POST /api/v1/ordering/encode
// Maps per-group inclusion masks to digits and rank.
func (h *APIHandler) handleEncode(c *gin.Context) {
	var req models.EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	enc, err := newEncoder(req.Values)
	if err != nil {
		writeOrderingError(c, err)
		return
	}
	digits, err := enc.Encode(req.Masks)
	if err != nil {
		writeOrderingError(c, err)
		return
	}

	sel, err := selection(enc, digits)
	if err != nil {
		writeOrderingError(c, err)
		return
	}
	sel.RequestID = requestIDFrom(c)
	c.JSON(http.StatusOK, sel)
}

// POST /api/v1/ordering/decode
// Maps a rank back to digits, masks and the selected values.
func (h *APIHandler) handleDecode(c *gin.Context) {
	var req models.DecodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	rank, ok := new(big.Int).SetString(req.Rank, 10)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid rank: expected a decimal integer"})
		return
	}

	enc, err := newEncoder(req.Values)
	if err != nil {
		writeOrderingError(c, err)
		return
	}
	digits, err := enc.Unrank(rank)
	if err != nil {
		writeOrderingError(c, err)
		return
	}

	sel, err := selection(enc, digits)
	if err != nil {
		writeOrderingError(c, err)
		return
	}
	sel.RequestID = requestIDFrom(c)
	c.JSON(http.StatusOK, sel)
}

// GET /api/v1/ordering/tx/:txid
// Orders the output values of a transaction fetched from the node.
// Zero-value outputs (OP_RETURN) carry nothing to order and are skipped.
func (h *APIHandler) handleOrderingTx(c *gin.Context) {
	if h.txSource == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Bitcoin RPC not configured"})
		return
	}

	txid := c.Param("txid")
	if _, err := chainhash.NewHashFromStr(txid); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid txid format"})
		return
	}

	tx, err := h.txSource.GetTransaction(txid)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch tx from node", "details": err.Error()})
		return
	}

	var values []int64
	skipped := 0
	for _, v := range tx.Values() {
		if v <= 0 {
			skipped++
			continue
		}
		values = append(values, v)
	}

	result, err := h.order(c, values, true)
	if err != nil {
		writeOrderingError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tx":             tx,
		"ordering":       result,
		"skippedOutputs": skipped,
	})
}

// order runs Order and, if requested, the bounded verifier over values.
func (h *APIHandler) order(c *gin.Context, values []int64, verify bool) (models.OrderingResult, error) {
	o, err := ordering.Order(values)
	if err != nil {
		return models.OrderingResult{}, err
	}

	var total int64
	partition := make([][]int64, len(o.Groups))
	for i, g := range o.Groups {
		partition[i] = g
		total += g.Sum()
	}

	if values == nil {
		values = []int64{}
	}
	result := models.OrderingResult{
		RequestID:   requestIDFrom(c),
		Input:       values,
		Partition:   partition,
		Radices:     o.Radices,
		SubsetCount: o.SubsetCount().String(),
		TotalValue:  btcutil.Amount(total).String(),
	}

	if verify {
		verdict, err := ordering.VerifyBounded(o.Groups, o.Radices, h.maxTuples)
		if err != nil {
			return models.OrderingResult{}, err
		}
		if !verdict.Valid {
			log.Printf("[API] Ordering of %d values failed verification: %v", len(values), verdict.Violation)
		}
		result.Verdict = &verdict
	}

	return result, nil
}

func newEncoder(values []int64) (*ordering.Encoder, error) {
	o, err := ordering.Order(values)
	if err != nil {
		return nil, err
	}
	for _, g := range o.Groups {
		if len(g) > MaxDigitMapGroup {
			return nil, errDigitMapTooLarge
		}
	}
	return ordering.NewEncoder(o.Groups), nil
}

func selection(enc *ordering.Encoder, digits []uint64) (models.Selection, error) {
	rank, err := enc.Rank(digits)
	if err != nil {
		return models.Selection{}, err
	}
	masks, err := enc.Decode(digits)
	if err != nil {
		return models.Selection{}, err
	}
	selected, err := enc.Values(digits)
	if err != nil {
		return models.Selection{}, err
	}
	sum, err := enc.Sum(digits)
	if err != nil {
		return models.Selection{}, err
	}
	return models.Selection{
		Digits:   digits,
		Rank:     rank.String(),
		Masks:    masks,
		Selected: selected,
		Sum:      sum,
		SumBTC:   btcutil.Amount(sum).String(),
	}, nil
}

// writeOrderingError maps ordering errors to HTTP status codes: size
// limits are 413, everything else is a bad request.
func writeOrderingError(c *gin.Context, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, ordering.ErrGroupTooLarge),
		errors.Is(err, ordering.ErrSearchSpaceTooLarge),
		errors.Is(err, ordering.ErrRadixMismatch),
		errors.Is(err, errDigitMapTooLarge):
		status = http.StatusRequestEntityTooLarge
	}
	c.JSON(status, gin.H{"error": err.Error(), "requestId": requestIDFrom(c)})
}
