//go:build ignore

package main

import (
	gen "github.com/whyrusleeping/cbor-gen"

	"github.com/consensus-shipyard/ipc-subnet-actors/gateway"
)

func main() {
	if err := gen.WriteTupleEncodersToFile(
		"./gateway/cbor_gen.go",
		"gateway",
		gateway.StorableMsg{},
		gateway.CrossMsg{},
		gateway.CrossMsgsBundle{},
		gateway.ChildCheck{},
		gateway.WindowCheckpoint{},
		gateway.Subnet{},
		gateway.GatewayState{},
		gateway.PostBoxItem{},
		gateway.ConstructorParams{},
		gateway.SubnetIDParam{},
		gateway.FundParams{},
		gateway.CheckpointParams{},
		gateway.CrossMsgParams{},
		gateway.ApplyMsgParams{},
		gateway.PropagateParams{},
		gateway.WhitelistPropagatorParams{},
	); err != nil {
		panic(err)
	}
}
