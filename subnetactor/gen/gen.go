//go:build ignore

package main

import (
	gen "github.com/whyrusleeping/cbor-gen"

	"github.com/consensus-shipyard/ipc-subnet-actors/subnetactor"
)

func main() {
	if err := gen.WriteTupleEncodersToFile(
		"./subnetactor/cbor_gen.go",
		"subnetactor",
		subnetactor.ValidatorEntry{},
		subnetactor.VoteSet{},
		subnetactor.SubnetState{},
		subnetactor.ConstructParams{},
		subnetactor.JoinParams{},
		subnetactor.SubmitCheckpointParams{},
	); err != nil {
		panic(err)
	}
}
