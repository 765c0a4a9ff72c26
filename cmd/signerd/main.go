// Command signerd runs one federation signer: it bootstraps distributed
// key generation, then participates in round-robin block signing over a
// pub/sub transport (spec §6).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v2"

	"github.com/tapyrus-federation/signerd/config"
	"github.com/tapyrus-federation/signerd/log"
	"github.com/tapyrus-federation/signerd/node"
	"github.com/tapyrus-federation/signerd/rpc"
	"github.com/tapyrus-federation/signerd/transport"
)

// Automatically set through -ldflags.
var (
	version   = "dev"
	gitCommit = "none"
)

func main() {
	app := &cli.App{
		Name:    "signerd",
		Version: version,
		Usage:   "federated block-signing node",
		Flags:   flags,
		Action:  run,
	}
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Printf("signerd %s (commit %s)\n", version, gitCommit)
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

var flags = []cli.Flag{
	&cli.StringSliceFlag{
		Name:     "publickey",
		Aliases:  []string{"p"},
		Usage:    "hex-encoded compressed public key of a federation member (repeatable)",
		Required: true,
	},
	&cli.StringFlag{
		Name:     "privatekey",
		Usage:    "this signer's WIF-encoded private key",
		Required: true,
	},
	&cli.IntFlag{
		Name:     "threshold",
		Aliases:  []string{"t"},
		Usage:    "number of signers required to produce a signature",
		Required: true,
	},
	&cli.StringFlag{
		Name:  "rpchost",
		Usage: "full node RPC host",
		Value: "127.0.0.1",
	},
	&cli.IntFlag{
		Name:  "rpcport",
		Usage: "full node RPC port",
		Value: 2377,
	},
	&cli.StringFlag{
		Name:  "rpcuser",
		Usage: "full node RPC username",
	},
	&cli.StringFlag{
		Name:  "rpcpass",
		Usage: "full node RPC password",
	},
	&cli.StringFlag{
		Name:  "redishost",
		Usage: "Redis pub/sub transport host",
		Value: "127.0.0.1",
	},
	&cli.IntFlag{
		Name:  "redisport",
		Usage: "Redis pub/sub transport port",
		Value: 6379,
	},
	&cli.BoolFlag{
		Name:  "master",
		Usage: "diagnostic label; round-robin scheduling alone decides the actual master",
	},
	&cli.DurationFlag{
		Name:    "duration",
		Aliases: []string{"d"},
		Usage:   "round duration (rate-limit between rounds)",
		Value:   60 * time.Second,
	},
	&cli.StringFlag{
		Name:    "log",
		Aliases: []string{"l"},
		Usage:   "log level: error, warn, info, debug, trace",
		Value:   "info",
	},
	&cli.BoolFlag{
		Name:    "quiet",
		Aliases: []string{"q"},
		Usage:   "suppress all logging below error level",
	},
	&cli.BoolFlag{
		Name:  "skip-ibd",
		Usage: "skip waiting for the full node to finish initial block download",
	},
}

func run(c *cli.Context) error {
	cfg := config.Config{
		PubkeyList:    c.StringSlice("publickey"),
		PrivateKey:    c.String("privatekey"),
		Threshold:     c.Int("threshold"),
		RPCHost:       c.String("rpchost"),
		RPCPort:       c.Int("rpcport"),
		RPCUser:       c.String("rpcuser"),
		RPCPass:       c.String("rpcpass"),
		TransportHost: c.String("redishost"),
		TransportPort: c.Int("redisport"),
		MasterFlag:    c.Bool("master"),
		RoundDuration: c.Duration("duration"),
		LogLevel:      c.String("log"),
		Quiet:         c.Bool("quiet"),
		SkipIBD:       c.Bool("skip-ibd"),
	}

	if cfg.Quiet {
		log.Quiet()
	} else if err := log.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}
	registry, err := cfg.BuildRegistry(resolved)
	if err != nil {
		return err
	}

	rpcClient := rpc.NewJSONRPCClient(cfg.RPCHost, cfg.RPCPort, cfg.RPCUser, cfg.RPCPass)
	redisAddr := fmt.Sprintf("%s:%d", cfg.TransportHost, cfg.TransportPort)
	transportClient := transport.NewRedis(redisAddr)

	n := node.New(node.Config{
		Self:          resolved.Self,
		PrivateKey:    resolved.PrivateKey,
		Registry:      registry,
		Transport:     transportClient,
		RPC:           rpcClient,
		RoundDuration: cfg.RoundDuration,
		SkipIBD:       cfg.SkipIBD,
		MasterFlag:    cfg.MasterFlag,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = n.Run(ctx)
	transportClient.Stop()
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}
