package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/actor"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/wallet"
	"github.com/urfave/cli"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

const defaultTimeout = 30 * time.Second

var (
	walletFlags = []cli.Flag{
		cli.StringFlag{
			Name:   "wallet, w",
			Usage:  "path to NEP-6 wallet",
			EnvVar: "SECRET_WALLET",
		},
		cli.StringFlag{
			Name:  "address, a",
			Usage: "wallet account address, defaults to the change address",
		},
		cli.StringFlag{
			Name:   "password",
			Usage:  "wallet account password, prompted if not set",
			EnvVar: "SECRET_WALLET_PASSWORD",
		},
	}

	contractFlag = cli.StringFlag{
		Name:   "contract, c",
		Usage:  "Secret contract address or LE script hash",
		EnvVar: "SECRET_CONTRACT",
	}
)

func newLogger(c *cli.Context) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.OutputPaths = []string{"stderr"}
	cfg.Sampling = nil
	if c.GlobalBool("debug") {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}

	return cfg.Build()
}

func newClient(c *cli.Context) (*rpcclient.Client, error) {
	endpoint := c.GlobalString("rpc")
	if endpoint == "" {
		return nil, errors.New("missing Neo RPC endpoint")
	}

	timeout := c.GlobalDuration("timeout")

	rpc, err := rpcclient.New(context.Background(), endpoint, rpcclient.Options{
		DialTimeout:    timeout,
		RequestTimeout: timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("RPC client dial: %w", err)
	}

	if err = rpc.Init(); err != nil {
		rpc.Close()
		return nil, fmt.Errorf("RPC client init: %w", err)
	}

	return rpc, nil
}

func openAccount(c *cli.Context) (*wallet.Account, error) {
	path := c.String("wallet")
	if path == "" {
		return nil, errors.New("missing wallet")
	}

	w, err := wallet.NewWalletFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("open wallet: %w", err)
	}

	accHash := w.GetChangeAddress()
	if s := c.String("address"); s != "" {
		accHash, err = address.StringToUint160(s)
		if err != nil {
			return nil, fmt.Errorf("invalid account address: %w", err)
		}
	}

	acc := w.GetAccount(accHash)
	if acc == nil {
		return nil, fmt.Errorf("account %s not found in wallet", address.Uint160ToString(accHash))
	}

	pass := c.String("password")
	if pass == "" {
		pass, err = readPassword("Enter password for " + acc.Address + " > ")
		if err != nil {
			return nil, err
		}
	}

	if err = acc.Decrypt(pass, w.Scrypt); err != nil {
		return nil, fmt.Errorf("decrypt account: %w", err)
	}

	return acc, nil
}

func readPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	defer fmt.Fprintln(os.Stderr)

	pass, err := term.ReadPassword(int(os.Stdin.Fd()))
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pass), nil
}

func newActor(c *cli.Context) (*rpcclient.Client, *actor.Actor, error) {
	acc, err := openAccount(c)
	if err != nil {
		return nil, nil, err
	}

	rpc, err := newClient(c)
	if err != nil {
		return nil, nil, err
	}

	act, err := actor.NewSimple(rpc, acc)
	if err != nil {
		rpc.Close()
		return nil, nil, fmt.Errorf("init actor: %w", err)
	}

	return rpc, act, nil
}

// parseContract accepts either Neo address or LE script hash with optional
// 0x prefix.
func parseContract(s string) (util.Uint160, error) {
	if s == "" {
		return util.Uint160{}, errors.New("missing contract address")
	}
	if h, err := address.StringToUint160(s); err == nil {
		return h, nil
	}
	h, err := util.Uint160DecodeStringLE(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return util.Uint160{}, fmt.Errorf("invalid contract address %q: %w", s, err)
	}
	return h, nil
}
