package bitcoin

import (
	"fmt"
	"log"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/rpcclient"
	"github.com/rawblock/subset-ordering/pkg/models"
)

type Client struct {
	RPC    *rpcclient.Client
	Config Config
}

type Config struct {
	Host string
	User string
	Pass string
}

func NewClient(cfg Config) (*Client, error) {
	connCfg := &rpcclient.ConnConfig{
		Host:         cfg.Host,
		User:         cfg.User,
		Pass:         cfg.Pass,
		HTTPPostMode: true, // Bitcoin Core only supports HTTP POST mode
		DisableTLS:   true, // Assuming local node without TLS for this setup
	}

	log.Printf("Connecting to Bitcoin RPC at %s...", cfg.Host)
	client, err := rpcclient.New(connCfg, nil)
	if err != nil {
		return nil, err
	}

	// Verify connection
	blockCount, err := client.GetBlockCount()
	if err != nil {
		client.Shutdown()
		return nil, err
	}

	log.Printf("Connected to Bitcoin Node. Current Block Height: %d", blockCount)

	return &Client{RPC: client, Config: cfg}, nil
}

func (c *Client) Shutdown() {
	c.RPC.Shutdown()
}

func (c *Client) GetRawTransaction(txHash *chainhash.Hash) (*btcjson.TxRawResult, error) {
	// Returns Verbose result
	return c.RPC.GetRawTransactionVerbose(txHash)
}

// GetTransaction fetches a transaction by txid and converts its outputs to
// satoshi values.
func (c *Client) GetTransaction(txid string) (models.Transaction, error) {
	hash, err := chainhash.NewHashFromStr(txid)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid txid %q: %w", txid, err)
	}
	raw, err := c.GetRawTransaction(hash)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("getrawtransaction %s: %w", txid, err)
	}
	return ConvertTransaction(raw)
}

// ConvertTransaction maps a verbose RPC result to models.Transaction. BTC
// floats are rounded to the nearest satoshi.
func ConvertTransaction(raw *btcjson.TxRawResult) (models.Transaction, error) {
	tx := models.Transaction{
		Txid:      raw.Txid,
		Outputs:   make([]models.TxOut, len(raw.Vout)),
		Vsize:     int(raw.Vsize),
		BlockHash: raw.BlockHash,
		BlockTime: raw.Blocktime,
	}

	for i, vout := range raw.Vout {
		amt, err := btcutil.NewAmount(vout.Value)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("output %d value %v: %w", vout.N, vout.Value, err)
		}
		var addr string
		if len(vout.ScriptPubKey.Addresses) > 0 {
			addr = vout.ScriptPubKey.Addresses[0]
		}
		tx.Outputs[i] = models.TxOut{
			N:            vout.N,
			Value:        int64(amt),
			Address:      addr,
			ScriptPubKey: vout.ScriptPubKey.Hex,
		}
		tx.TotalOutput += int64(amt)
	}

	return tx, nil
}
