package main

import (
	"context"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/rawblock/subset-ordering/internal/api"
	"github.com/rawblock/subset-ordering/internal/bitcoin"
	"github.com/rawblock/subset-ordering/internal/ordering"
	"github.com/rawblock/subset-ordering/internal/report"
)

// examples is the fixed demo set. The first and third inputs report
// violations.
var examples = [][]int64{
	{1, 20, 5, 6, 2}, // [1],[2],[5,6],[20]: 1+2+5 = 8 precedes 6 alone
	{1, 2, 3, 4},     // prefix sum touches next element: [1],[2,3,4]
	{3, 5, 6, 7},     // [3],[5,6,7]: 3+5 = 8 precedes 6 alone
	{1, 1, 2, 4},     // no prefix ever falls below the next value: one group
	{1, 2, 4, 8, 16}, // super-increasing: all singletons, pure binary
	{10},             // single element
}

func main() {
	switch mode := getEnvOrDefault("ORDERING_MODE", "demo"); mode {
	case "demo":
		if err := runDemo(os.Stdout, examples); err != nil {
			log.Fatalf("Failed to write demo output: %v", err)
		}
	case "serve":
		serve()
	default:
		log.Fatalf("FATAL: Unknown ORDERING_MODE %q (expected demo or serve)", mode)
	}
}

// runDemo partitions and verifies every input and prints one block each.
func runDemo(w io.Writer, inputs [][]int64) error {
	for _, nums := range inputs {
		groups, radices := ordering.SubsetSumOrdering(nums)
		verdict := ordering.Verify(groups, radices)
		err := report.Write(w, report.Block{
			Input:   nums,
			Groups:  groups,
			Radices: radices,
			Verdict: verdict,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func serve() {
	log.Println("Starting Subset-Sum Ordering Engine...")

	cfg := api.Config{
		AuthToken:       os.Getenv("API_AUTH_TOKEN"),
		AllowedOrigins:  os.Getenv("ALLOWED_ORIGINS"),
		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 30),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		MaxTuples:       uint64(getEnvInt("VERIFY_MAX_TUPLES", int(ordering.DefaultMaxTuples))),
		ReleaseMode:     os.Getenv("GIN_MODE") == "release",
	}

	// The Bitcoin node is optional; without it /ordering/tx answers 503.
	var txSource api.TxSource
	if btcHost := os.Getenv("BTC_RPC_HOST"); btcHost != "" {
		btcClient, err := bitcoin.NewClient(bitcoin.Config{
			Host: btcHost,
			User: requireEnv("BTC_RPC_USER"),
			Pass: requireEnv("BTC_RPC_PASS"),
		})
		if err != nil {
			log.Printf("Warning: Failed to connect to Bitcoin RPC: %v", err)
		} else {
			defer btcClient.Shutdown()
			txSource = btcClient
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := api.SetupRouter(ctx, cfg, txSource)

	port := getEnvOrDefault("PORT", "5339")
	log.Printf("Engine running on :%s (verification budget %d tuples)\n", port, cfg.MaxTuples)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// requireEnv reads a required environment variable and exits if it is not set.
func requireEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("FATAL: Required environment variable %s is not set.", key)
	}
	return val
}

// getEnvOrDefault returns the env var value or a safe default for non-secret settings.
func getEnvOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt parses a positive integer env var, falling back on absence or
// garbage.
func getEnvInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		log.Printf("Warning: Ignoring invalid %s=%q, using %d", key, val, fallback)
		return fallback
	}
	return n
}
