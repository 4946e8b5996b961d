package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strconv"

	"github.com/aman-zulfiqar/solana-txkit/internal/config"
	"github.com/aman-zulfiqar/solana-txkit/internal/guard"
	"github.com/aman-zulfiqar/solana-txkit/internal/history"
	"github.com/aman-zulfiqar/solana-txkit/internal/programs/sendprogram"
	"github.com/aman-zulfiqar/solana-txkit/internal/schema"
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

var customErrRe = regexp.MustCompile(`Custom\((\d+)\)|custom program error: 0x([0-9a-fA-F]+)`)

// decodeCustomError extracts an Anchor custom error code from a simulation
// message and maps it through the program's error tables.
func decodeCustomError(reg *schema.Registry, msg string) (string, bool) {
	m := customErrRe.FindStringSubmatch(msg)
	if m == nil {
		return "", false
	}
	var code uint64
	var err error
	if m[1] != "" {
		code, err = strconv.ParseUint(m[1], 10, 32)
	} else {
		code, err = strconv.ParseUint(m[2], 16, 32)
	}
	if err != nil {
		return "", false
	}
	return reg.DecodeError(sendprogram.ProgramID.String(), uint32(code))
}

func main() {
	loadEnv()

	to := flag.String("to", "", "recipient address (base58)")
	amtSol := flag.Float64("amt", 0, "amount in SOL (e.g. 0.01)")
	initAccount := flag.Bool("init", false, "initialize the send account PDA first")
	flag.Parse()

	if *to == "" {
		fmt.Println("missing -to")
		os.Exit(2)
	}
	if *amtSol <= 0 && !*initAccount {
		fmt.Println("missing -amt (must be > 0)")
		os.Exit(2)
	}

	recipient, err := solana.PublicKeyFromBase58(*to)
	if err != nil {
		fmt.Println("invalid -to address:", err)
		os.Exit(2)
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	ctx := context.Background()

	w, err := wallet.NewWalletFromEnv()
	if err != nil {
		fmt.Println("failed to init wallet:", err)
		os.Exit(1)
	}
	defer w.Close()

	schemas := schema.NewRegistry(logger)
	sendprogram.RegisterWith(schemas)

	sendAccount, _, err := sendprogram.FindSendAccount(w.PublicKey())
	if err != nil {
		fmt.Println("failed to derive send account:", err)
		os.Exit(1)
	}

	var instructions []solana.Instruction
	if *initAccount {
		exists, err := w.AccountExists(ctx, sendAccount)
		if err != nil {
			fmt.Println("failed to check send account:", err)
			os.Exit(1)
		}
		if !exists {
			instructions = append(instructions, sendprogram.NewInitializeInstruction(sendAccount, w.PublicKey()))
		}
	}
	if *amtSol > 0 {
		lamports := uint64(*amtSol * 1e9)
		instructions = append(instructions, sendprogram.NewSendSolInstruction(
			lamports, recipient, sendAccount, w.PublicKey()))
	}
	if len(instructions) == 0 {
		fmt.Println("nothing to do: send account already initialized")
		return
	}

	tx, err := w.BuildTransaction(ctx, instructions)
	if err != nil {
		fmt.Println("failed to build transaction:", err)
		os.Exit(1)
	}
	if err := w.SignTx(tx); err != nil {
		fmt.Println("signing failed:", err)
		os.Exit(1)
	}

	g := guard.NewGuard(w, logger)

	// Persist the outcome when a history sink is reachable.
	cfg := config.Load()
	if store, serr := history.NewStore(history.StoreConfig{
		Addr:     cfg.ClickHouseAddr,
		Database: cfg.ClickHouseDatabase,
		Username: cfg.ClickHouseUsername,
		Password: cfg.ClickHousePassword,
	}, logger); serr == nil {
		defer store.Close()
		instruction := "send_sol"
		if *amtSol <= 0 {
			instruction = "initialize"
		}
		g = g.WithRecorder(history.NewSendRecorder(store, sendprogram.ProgramID.String(), instruction))
	} else {
		logger.WithError(serr).Debug("history store unavailable, send outcome will not be recorded")
	}

	result, err := g.SafeSend(ctx, tx)
	if err != nil {
		fmt.Println("send failed:", err)
		os.Exit(1)
	}

	fmt.Printf("sent=%v sig=%s\n", result.Sent, result.Signature)
	for _, issue := range result.Issues {
		fmt.Println("issue:", issue)
	}
	if result.Simulation != nil && !result.Simulation.Success {
		if msg, ok := decodeCustomError(schemas, result.Simulation.ErrMessage); ok {
			fmt.Println("decoded:", msg)
		}
	}
	if !result.Sent {
		os.Exit(1)
	}
}
