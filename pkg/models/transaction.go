package models

// TxOut represents a Bitcoin transaction output
type TxOut struct {
	N            uint32 `json:"n"`
	Value        int64  `json:"value"` // in Satoshis
	Address      string `json:"address,omitempty"`
	ScriptPubKey string `json:"scriptPubKey,omitempty"`
}

// Transaction is the subset of a node's verbose transaction the ordering
// endpoints need: its outputs' values.
type Transaction struct {
	Txid        string  `json:"txid"`
	Outputs     []TxOut `json:"outputs"`
	Vsize       int     `json:"vsize"`
	BlockHash   string  `json:"blockHash,omitempty"`
	BlockTime   int64   `json:"blockTime,omitempty"`
	TotalOutput int64   `json:"totalOutput"` // Satoshis
}

// Values returns the output values in output order.
func (tx Transaction) Values() []int64 {
	vals := make([]int64, len(tx.Outputs))
	for i, out := range tx.Outputs {
		vals[i] = out.Value
	}
	return vals
}
