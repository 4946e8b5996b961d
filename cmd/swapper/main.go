package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/aman-zulfiqar/solana-txkit/internal/ata"
	"github.com/aman-zulfiqar/solana-txkit/internal/config"
	"github.com/aman-zulfiqar/solana-txkit/internal/constants"
	"github.com/aman-zulfiqar/solana-txkit/internal/guard"
	"github.com/aman-zulfiqar/solana-txkit/internal/history"
	"github.com/aman-zulfiqar/solana-txkit/internal/jupiter"
	"github.com/aman-zulfiqar/solana-txkit/internal/models"
	"github.com/aman-zulfiqar/solana-txkit/internal/wallet"
	"github.com/gagliardetto/solana-go"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func loadEnv() {
	_, filename, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(filename), "../..")
	_ = godotenv.Load(filepath.Join(projectRoot, ".env"))
}

// resolveMint accepts a known symbol (SOL, USDC, ...) or a raw mint address.
func resolveMint(s string) string {
	if mint, ok := constants.TokenMints[strings.ToUpper(s)]; ok {
		return mint
	}
	return s
}

// ensureSwapAccounts collects create instructions for any non-SOL leg whose
// associated token account is missing. SOL legs are wrapped by the aggregator
// and need no account.
func ensureSwapAccounts(
	ctx context.Context,
	mgr *ata.Manager,
	owner solana.PublicKey,
	mints ...string,
) ([]solana.Instruction, error) {

	var preIxs []solana.Instruction
	for _, mintStr := range mints {
		if mintStr == constants.TokenMints["SOL"] {
			continue
		}
		mint, err := solana.PublicKeyFromBase58(mintStr)
		if err != nil {
			return nil, fmt.Errorf("invalid mint %s: %w", mintStr, err)
		}
		ensured, err := mgr.EnsureAccount(ctx, owner, mint)
		if err != nil {
			return nil, err
		}
		preIxs = append(preIxs, ensured.PreIxs...)
	}
	return preIxs, nil
}

func rawAmount(symbol string, amt float64) string {
	decimals, ok := constants.TokenDecimals[strings.ToUpper(symbol)]
	if !ok {
		decimals = 9
	}
	return fmt.Sprintf("%d", uint64(amt*math.Pow10(int(decimals))))
}

func main() {
	loadEnv()

	mode := flag.String("mode", "quote", "quote | swap")
	inTok := flag.String("in", "SOL", "input token symbol or mint address")
	outTok := flag.String("out", "USDC", "output token symbol or mint address")
	amt := flag.Float64("amt", 0, "amount in human units (e.g. 0.1)")
	slippageBps := flag.Int("slippage-bps", 0, "preferred slippage in bps (0 = escalation ladder default)")
	flag.Parse()

	if *amt <= 0 {
		fmt.Println("missing -amt (must be > 0)")
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	w, err := wallet.NewWalletFromEnv()
	if err != nil {
		fmt.Println("failed to init wallet:", err)
		os.Exit(1)
	}
	defer w.Close()

	client := jupiter.NewClient(cfg.JupiterBaseURL, cfg.JupiterAPIKey)
	negotiator := jupiter.NewNegotiator(client, w.RPC(), jupiter.DefaultPolicy(), logger)

	req := jupiter.QuoteRequest{
		InputMint:  resolveMint(*inTok),
		OutputMint: resolveMint(*outTok),
		Amount:     rawAmount(*inTok, *amt),
	}
	if *slippageBps > 0 {
		slip := uint16(*slippageBps)
		req.SlippageBps = &slip
	}

	switch *mode {
	case "quote":
		quote, err := negotiator.GetFreshQuote(ctx, req)
		if err != nil {
			fmt.Println("quote failed:", err)
			os.Exit(1)
		}
		fmt.Printf("in=%s out=%s slippage_bps=%d price_impact=%s slot=%d\n",
			quote.InAmount, quote.OutAmount, quote.SlippageBps, quote.PriceImpactPct, quote.ContextSlot)

	case "swap":
		g := guard.NewGuard(w, logger)

		// Balance check before committing to the swap.
		if req.InputMint == constants.TokenMints["SOL"] {
			balance, err := w.GetBalanceSOL(ctx)
			if err != nil {
				fmt.Println("balance check failed:", err)
				os.Exit(1)
			}
			if balance < *amt {
				fmt.Printf("insufficient SOL balance: need %v, have %v\n", *amt, balance)
				os.Exit(1)
			}
		}

		// Token accounts for the non-SOL legs must exist before the
		// aggregator transaction references them.
		preIxs, err := ensureSwapAccounts(ctx, ata.NewManager(w), w.PublicKey(), req.InputMint, req.OutputMint)
		if err != nil {
			fmt.Println("token account check failed:", err)
			os.Exit(1)
		}
		if len(preIxs) > 0 {
			setupTx, err := w.BuildTransaction(ctx, preIxs)
			if err != nil {
				fmt.Println("failed to build setup transaction:", err)
				os.Exit(1)
			}
			if err := w.SignTx(setupTx); err != nil {
				fmt.Println("signing failed:", err)
				os.Exit(1)
			}
			setup, err := g.SafeSend(ctx, setupTx)
			if err != nil {
				fmt.Println("token account setup failed:", err)
				os.Exit(1)
			}
			if !setup.Sent {
				fmt.Println("token account setup blocked")
				for _, issue := range setup.Issues {
					fmt.Println("issue:", issue)
				}
				os.Exit(1)
			}
		}

		tx, quote, err := negotiator.BuildSwapTransaction(ctx, w.PublicKey(), req)
		if err != nil {
			fmt.Println("swap build failed:", err)
			os.Exit(1)
		}

		if err := w.SignTx(tx); err != nil {
			fmt.Println("signing failed:", err)
			os.Exit(1)
		}

		// Jupiter swap transactions reference address lookup tables, so the
		// guard may fall back to a direct send when simulation cannot
		// resolve them.
		result, err := g.SendWithLookupTables(ctx, tx)
		if err != nil {
			fmt.Println("send failed:", err)
			os.Exit(1)
		}

		if store, err := history.NewStore(history.StoreConfig{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
		}, logger); err == nil {
			defer store.Close()
			_ = store.InsertSwap(ctx, &models.SwapRecord{
				Signature:   result.Signature,
				Timestamp:   time.Now().UTC(),
				Sent:        result.Sent,
				InputMint:   req.InputMint,
				OutputMint:  req.OutputMint,
				InAmount:    quote.InAmount,
				OutAmount:   quote.OutAmount,
				SlippageBps: quote.SlippageBps,
				PriceImpact: quote.PriceImpactPct,
				Issues:      result.Issues,
			})
		}

		fmt.Printf("sent=%v sig=%s\n", result.Sent, result.Signature)
		for _, issue := range result.Issues {
			fmt.Println("issue:", issue)
		}
		if !result.Sent {
			os.Exit(1)
		}

	default:
		fmt.Println("invalid -mode (use quote|swap)")
		os.Exit(2)
	}
}
