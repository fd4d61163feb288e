// Command ipcd is a thin CLI over the IPC RPC surface (api.IPCAPI),
// dialing a node that exposes the Gateway/Subnet actor read methods and
// printing registry, queue, and checkpoint state.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/filecoin-project/go-address"
	"github.com/filecoin-project/go-jsonrpc"
	"github.com/filecoin-project/go-state-types/abi"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actors/gateway"
	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

var log = logging.Logger("ipcd")

func main() {
	logging.SetAllLoggers(logging.LevelInfo)

	app := &cli.App{
		Name:  "ipcd",
		Usage: "inspect a hierarchical IPC Gateway and its subnets over JSON-RPC",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "addr",
				Aliases: []string{"a"},
				Value:   "http://127.0.0.1:1234/rpc/v0",
				Usage:   "address of a node exposing api.IPCAPI",
				EnvVars: []string{"IPCD_ADDR"},
			},
		},
		Commands: []*cli.Command{
			subnetsCmd,
			genesisEpochCmd,
			gatewayStateCmd,
			topdownCmd,
			checkpointsCmd,
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("ipcd: %s", err)
		fmt.Fprintf(os.Stderr, "ipcd: %s\n", err)
		os.Exit(1)
	}
}

// rpcClient is the method-struct api.IPCAPI clients are built from, the
// shape go-jsonrpc's NewClient expects: one func field per RPC method,
// matching api.IPCAPI's signatures, the same convention the lotus API
// family uses for its *Struct client types.
type rpcClient struct {
	Internal struct {
		IPCReadGatewayState         func(ctx context.Context, gatewayAddr address.Address) (*gateway.GatewayState, error)
		IPCListChildSubnets         func(ctx context.Context, gatewayAddr address.Address) ([]gateway.Subnet, error)
		IPCGetGenesisEpochForSubnet func(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID) (abi.ChainEpoch, error)
		IPCListCheckpoints          func(ctx context.Context, gatewayAddr address.Address, from, to abi.ChainEpoch) ([]*gateway.WindowCheckpoint, error)
		IPCGetTopDownMsgs           func(ctx context.Context, gatewayAddr address.Address, sn sdk.SubnetID, fromNonce uint64) ([]*gateway.StorableMsg, error)
	}
}

func dial(ctx context.Context, addr string) (*rpcClient, jsonrpc.ClientCloser, error) {
	var client rpcClient
	closer, err := jsonrpc.NewClient(ctx, addr, "IPCAPI", &client.Internal, http.Header{})
	if err != nil {
		return nil, nil, xerrors.Errorf("failed to dial %s: %w", addr, err)
	}
	return &client, closer, nil
}

func gatewayFlag() cli.Flag {
	return &cli.StringFlag{Name: "gateway", Required: true, Usage: "address of the Gateway actor"}
}

func subnetIDFlag() cli.Flag {
	return &cli.StringFlag{Name: "id", Required: true, Usage: "subnet id, e.g. /root/f01"}
}

var subnetsCmd = &cli.Command{
	Name:  "subnets",
	Usage: "list the child subnets registered with a Gateway",
	Flags: []cli.Flag{gatewayFlag()},
	Action: func(cctx *cli.Context) error {
		gw, err := address.NewFromString(cctx.String("gateway"))
		if err != nil {
			return xerrors.Errorf("invalid gateway address: %w", err)
		}
		client, closer, err := dial(cctx.Context, cctx.String("addr"))
		if err != nil {
			return err
		}
		defer closer()

		subnets, err := client.Internal.IPCListChildSubnets(cctx.Context, gw)
		if err != nil {
			return xerrors.Errorf("failed listing child subnets: %w", err)
		}
		for _, sh := range subnets {
			fmt.Printf("%-40s stake=%-14s circ_supply=%-14s status=%d\n", sh.ID, sh.Stake, sh.CircSupply, sh.Status)
		}
		return nil
	},
}

var genesisEpochCmd = &cli.Command{
	Name:  "genesis-epoch",
	Usage: "print the parent epoch a subnet registered at",
	Flags: []cli.Flag{gatewayFlag(), subnetIDFlag()},
	Action: func(cctx *cli.Context) error {
		gw, err := address.NewFromString(cctx.String("gateway"))
		if err != nil {
			return xerrors.Errorf("invalid gateway address: %w", err)
		}
		sn, err := sdk.NewSubnetIDFromString(cctx.String("id"))
		if err != nil {
			return xerrors.Errorf("invalid subnet id: %w", err)
		}
		client, closer, err := dial(cctx.Context, cctx.String("addr"))
		if err != nil {
			return err
		}
		defer closer()

		epoch, err := client.Internal.IPCGetGenesisEpochForSubnet(cctx.Context, gw, sn)
		if err != nil {
			return xerrors.Errorf("failed reading genesis epoch: %w", err)
		}
		fmt.Printf("genesis epoch: %d\n", epoch)
		return nil
	},
}

var gatewayStateCmd = &cli.Command{
	Name:  "gateway-state",
	Usage: "dump a Gateway's full persisted state",
	Flags: []cli.Flag{gatewayFlag()},
	Action: func(cctx *cli.Context) error {
		gw, err := address.NewFromString(cctx.String("gateway"))
		if err != nil {
			return xerrors.Errorf("invalid gateway address: %w", err)
		}
		client, closer, err := dial(cctx.Context, cctx.String("addr"))
		if err != nil {
			return err
		}
		defer closer()

		st, err := client.Internal.IPCReadGatewayState(cctx.Context, gw)
		if err != nil {
			return xerrors.Errorf("failed reading gateway state: %w", err)
		}
		fmt.Printf("%+v\n", st)
		return nil
	},
}

var topdownCmd = &cli.Command{
	Name:  "topdown",
	Usage: "list top-down messages queued for a child subnet",
	Flags: []cli.Flag{
		gatewayFlag(),
		subnetIDFlag(),
		&cli.Uint64Flag{Name: "from-nonce", Value: 0},
	},
	Action: func(cctx *cli.Context) error {
		gw, err := address.NewFromString(cctx.String("gateway"))
		if err != nil {
			return xerrors.Errorf("invalid gateway address: %w", err)
		}
		sn, err := sdk.NewSubnetIDFromString(cctx.String("id"))
		if err != nil {
			return xerrors.Errorf("invalid subnet id: %w", err)
		}
		client, closer, err := dial(cctx.Context, cctx.String("addr"))
		if err != nil {
			return err
		}
		defer closer()

		msgs, err := client.Internal.IPCGetTopDownMsgs(cctx.Context, gw, sn, cctx.Uint64("from-nonce"))
		if err != nil {
			return xerrors.Errorf("failed listing top-down messages: %w", err)
		}
		for _, m := range msgs {
			fmt.Printf("nonce=%d from=%s to=%s value=%s\n", m.Nonce, m.From, m.To, m.Value)
		}
		return nil
	},
}

var checkpointsCmd = &cli.Command{
	Name:  "checkpoints",
	Usage: "list committed window checkpoints for a Gateway's network in an epoch range",
	Flags: []cli.Flag{
		gatewayFlag(),
		&cli.Int64Flag{Name: "from", Required: true},
		&cli.Int64Flag{Name: "to", Required: true},
	},
	Action: func(cctx *cli.Context) error {
		gw, err := address.NewFromString(cctx.String("gateway"))
		if err != nil {
			return xerrors.Errorf("invalid gateway address: %w", err)
		}
		client, closer, err := dial(cctx.Context, cctx.String("addr"))
		if err != nil {
			return err
		}
		defer closer()

		checks, err := client.Internal.IPCListCheckpoints(cctx.Context, gw, abi.ChainEpoch(cctx.Int64("from")), abi.ChainEpoch(cctx.Int64("to")))
		if err != nil {
			return xerrors.Errorf("failed listing checkpoints: %w", err)
		}
		for _, w := range checks {
			fmt.Printf("epoch=%d childs=%d\n", w.Epoch, len(w.Childs))
		}
		return nil
	},
}
