package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nspcc-dev/neo-go/pkg/encoding/address"
	"github.com/nspcc-dev/neo-go/pkg/rpcclient/invoker"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/manifest"
	"github.com/nspcc-dev/neo-go/pkg/smartcontract/nef"
	"github.com/nspcc-dev/neo-go/pkg/util"
	"github.com/nspcc-dev/neo-go/pkg/vm/vmstate"
	"github.com/nspcc-dev/secret-contract/deploy"
	"github.com/nspcc-dev/secret-contract/rpc/secret"
	"github.com/nspcc-dev/secret-contract/seal"
	"github.com/urfave/cli"
	"go.uber.org/zap"
)

func deployContract(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	rawNEF, err := os.ReadFile(c.String("nef"))
	if err != nil {
		return fmt.Errorf("read NEF: %w", err)
	}

	nefFile, err := nef.FileFromBytes(rawNEF)
	if err != nil {
		return fmt.Errorf("decode NEF: %w", err)
	}

	rawManifest, err := os.ReadFile(c.String("manifest"))
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}

	var m manifest.Manifest
	if err = json.Unmarshal(rawManifest, &m); err != nil {
		return fmt.Errorf("decode manifest: %w", err)
	}

	var owner util.Uint160
	if s := c.String("owner"); s != "" {
		owner, err = address.StringToUint160(s)
		if err != nil {
			return fmt.Errorf("invalid owner address: %w", err)
		}
	}

	rpc, act, err := newActor(c)
	if err != nil {
		return err
	}
	defer rpc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), c.GlobalDuration("timeout"))
	defer cancel()

	addr, err := deploy.Deploy(ctx, deploy.Prm{
		Logger:    log,
		Actor:     act,
		Contracts: rpc,
		NEF:       nefFile,
		Manifest:  m,
		Owner:     owner,
	})
	if err != nil {
		return err
	}

	fmt.Println(addr.StringLE())

	return nil
}

func printOwner(c *cli.Context) error {
	h, err := parseContract(c.String("contract"))
	if err != nil {
		return err
	}

	rpc, err := newClient(c)
	if err != nil {
		return err
	}
	defer rpc.Close()

	owner, err := secret.NewReader(invoker.New(rpc, nil), h).Owner()
	if err != nil {
		return fmt.Errorf("get owner: %w", err)
	}

	fmt.Println(address.Uint160ToString(owner))

	return nil
}

func setSecret(c *cli.Context) error {
	h, err := parseContract(c.String("contract"))
	if err != nil {
		return err
	}

	value, err := readValue(c)
	if err != nil {
		return err
	}

	if keys := c.StringSlice("recipient"); len(keys) > 0 {
		recipients, err := seal.ParseRecipients(keys)
		if err != nil {
			return err
		}

		value, err = seal.Seal(value, recipients...)
		if err != nil {
			return fmt.Errorf("seal value: %w", err)
		}
	}

	log, err := newLogger(c)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	rpc, act, err := newActor(c)
	if err != nil {
		return err
	}
	defer rpc.Close()

	txHash, vub, err := secret.New(act, h).SetSecret(value)
	if err != nil {
		return fmt.Errorf("send transaction: %w", err)
	}

	log.Debug("transaction sent", zap.Stringer("tx", txHash), zap.Uint32("vub", vub))

	aer, err := act.Wait(txHash, vub, nil)
	if err != nil {
		return fmt.Errorf("wait for transaction %s: %w", txHash.StringLE(), err)
	}

	if aer.VMState != vmstate.Halt {
		return fmt.Errorf("transaction %s failed: %w", txHash.StringLE(), secret.ClassifyFault(aer.FaultException))
	}

	events, err := secret.SecretChangedEventsFromExecution(aer.Execution)
	if err != nil {
		return err
	}

	for _, e := range events {
		log.Info("secret changed", zap.Stringer("tx", txHash), zap.Stringer("seq", e.Seq))
	}

	return nil
}

func readValue(c *cli.Context) ([]byte, error) {
	in := c.String("in")

	switch {
	case in == "" && c.NArg() == 1:
		return []byte(c.Args().First()), nil
	case in == "" || c.NArg() != 0:
		return nil, errors.New("either value argument or --in flag is required")
	case in == "-":
		return io.ReadAll(os.Stdin)
	default:
		return os.ReadFile(in)
	}
}

func getSecret(c *cli.Context) error {
	h, err := parseContract(c.String("contract"))
	if err != nil {
		return err
	}

	rpc, act, err := newActor(c)
	if err != nil {
		return err
	}
	defer rpc.Close()

	// actor signs test invocations by the wallet account, so the owner
	// witness check passes
	value, err := secret.NewReader(act, h).GetSecret()
	if err != nil {
		return fmt.Errorf("get secret: %w", err)
	}

	if path := c.String("identity"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open identities file: %w", err)
		}
		defer f.Close()

		ids, err := seal.ParseIdentities(f)
		if err != nil {
			return err
		}

		value, err = seal.Open(value, ids...)
		if err != nil {
			return fmt.Errorf("open sealed value: %w", err)
		}
	}

	_, err = os.Stdout.Write(value)
	return err
}

func printEvents(c *cli.Context) error {
	if c.NArg() == 0 {
		return errors.New("at least one transaction hash is required")
	}

	rpc, err := newClient(c)
	if err != nil {
		return err
	}
	defer rpc.Close()

	for _, s := range c.Args() {
		h, err := util.Uint256DecodeStringLE(s)
		if err != nil {
			return fmt.Errorf("invalid transaction hash %q: %w", s, err)
		}

		appLog, err := rpc.GetApplicationLog(h, nil)
		if err != nil {
			return fmt.Errorf("get application log of %s: %w", s, err)
		}

		events, err := secret.SecretChangedEventsFromApplicationLog(appLog)
		if err != nil {
			return fmt.Errorf("parse notifications of %s: %w", s, err)
		}

		for _, e := range events {
			fmt.Printf("%s\t%s\n", s, e.Seq)
		}
	}

	return nil
}

func generateIdentity(c *cli.Context) error {
	id, err := seal.GenerateIdentity()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Public key: %s\n", id.Recipient())
	fmt.Println(id.String())

	return nil
}
