package main

import (
	"fmt"
	"os"

	"github.com/nspcc-dev/secret-contract/common"
	"github.com/urfave/cli"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "secretctl"
	app.Usage = "manage single-owner secret stored in Secret contract"
	app.Version = fmt.Sprintf("%d.%d.%d", common.Version/1_000_000, common.Version/1_000%1_000, common.Version%1_000)
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "rpc, r",
			Usage:  "Neo RPC server endpoint",
			EnvVar: "SECRET_RPC",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Usage: "timeout of RPC requests and transaction awaiting",
			Value: defaultTimeout,
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "deploy",
			Usage:     "deploy Secret contract binding the owner",
			UsageText: "secretctl deploy --nef contract.nef --manifest manifest.json --wallet wallet.json [--owner address]",
			Flags: append(walletFlags,
				cli.StringFlag{Name: "nef", Usage: "path to compiled contract"},
				cli.StringFlag{Name: "manifest, m", Usage: "path to contract manifest"},
				cli.StringFlag{Name: "owner", Usage: "owner address, defaults to the wallet account"},
			),
			Action: deployContract,
		},
		{
			Name:   "owner",
			Usage:  "print owner of the contract",
			Flags:  []cli.Flag{contractFlag},
			Action: printOwner,
		},
		{
			Name:      "set",
			Usage:     "overwrite the secret",
			UsageText: "secretctl set --contract <hash> --wallet wallet.json [--recipient age1...] <value> | --in <file>",
			Flags: append(walletFlags,
				contractFlag,
				cli.StringFlag{Name: "in, i", Usage: "read value from file ('-' for stdin)"},
				cli.StringSliceFlag{Name: "recipient", Usage: "seal value to age recipient before storing (repeatable)"},
			),
			Action: setSecret,
		},
		{
			Name:  "get",
			Usage: "print the secret",
			Flags: append(walletFlags,
				contractFlag,
				cli.StringFlag{Name: "identity", Usage: "age identities file to open sealed value"},
			),
			Action: getSecret,
		},
		{
			Name:      "events",
			Usage:     "print SecretChanged notifications of the given transactions",
			UsageText: "secretctl events <txhash> [<txhash>...]",
			Action:    printEvents,
		},
		{
			Name:   "keygen",
			Usage:  "generate age identity for sealing values",
			Action: generateIdentity,
		},
	}

	return app
}
