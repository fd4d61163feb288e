package gateway

import (
	"bytes"
	"io"

	"github.com/filecoin-project/go-state-types/abi"
	"github.com/filecoin-project/go-state-types/exitcode"
	"github.com/filecoin-project/specs-actors/v7/actors/builtin"
	"github.com/filecoin-project/specs-actors/v7/actors/runtime"
	"github.com/filecoin-project/specs-actors/v7/actors/util/adt"
	cid "github.com/ipfs/go-cid"
	ipld "github.com/ipld/go-ipld-prime"
	"github.com/ipld/go-ipld-prime/codec/dagcbor"
	cidlink "github.com/ipld/go-ipld-prime/linking/cid"
	"github.com/ipld/go-ipld-prime/node/bindnode"
	ipldschema "github.com/ipld/go-ipld-prime/schema"
	"github.com/multiformats/go-multicodec"
	cbg "github.com/whyrusleeping/cbor-gen"
	"golang.org/x/xerrors"

	"github.com/consensus-shipyard/ipc-subnet-actors/sdk"
)

// Linkproto is the link prototype used to compute Checkpoint content
// hashes: dag-cbor encoded, sha2-256 hashed.
var Linkproto = cidlink.LinkPrototype{
	Prefix: cid.Prefix{
		Version:  1,
		Codec:    uint64(multicodec.DagCbor),
		MhType:   uint64(multicodec.Sha2_256),
		MhLength: 32,
	},
}

var checkpointSchema ipldschema.Type

// NoPreviousCheck stands in for "no previous checkpoint" in every
// PrevCheck/CrossMsgsCid slot. Links in the checkpoint schema and cids in
// persisted state can't be undefined, so absence is a fixed sentinel hash.
var NoPreviousCheck cid.Cid

func init() {
	checkpointSchema = initCheckpointSchema()
	var err error
	NoPreviousCheck, err = Linkproto.Prefix.Sum([]byte("nil"))
	if err != nil {
		panic(err)
	}
}

// ChildCheck references one committed child checkpoint, by the source
// subnet that produced it and the content hash of the committed data.
type ChildCheck struct {
	Source string
	Check  cid.Cid
}

// CheckData is the content-addressed portion of a Checkpoint: everything
// except the signature. Its Cid is what prev_check / child_checks
// reference.
type CheckData struct {
	Source       string
	Epoch        int64
	PrevCheck    cid.Cid
	Childs       []ChildCheck
	CrossMsgsCid cid.Cid // NoPreviousCheck when this epoch carries no cross-message bundle
}

// Checkpoint is a signed commitment of a subnet's state and cross-messages
// for an epoch window.
type Checkpoint struct {
	Data      CheckData
	Signature []byte
}

// WindowCheckpoint is the Gateway-local accumulator for the current
// checkpoint period: it collects committed child checkpoints and the
// bottom-up cross-message bundle destined further up the hierarchy, until
// the window is sealed.
type WindowCheckpoint struct {
	Source   string
	Epoch    abi.ChainEpoch
	Childs   []ChildCheck
	CrossMsg CrossMsgsBundle
}

// NewWindowCheckpoint returns the empty accumulator template for a window.
func NewWindowCheckpoint(source sdk.SubnetID, epoch abi.ChainEpoch) *WindowCheckpoint {
	return &WindowCheckpoint{
		Source:   source.String(),
		Epoch:    epoch,
		CrossMsg: emptyCrossMsgsBundle(),
	}
}

// hasChild reports the index of a previously recorded checkpoint from the
// given source subnet, if any.
func (w *WindowCheckpoint) hasChild(source string) int {
	for i, c := range w.Childs {
		if c.Source == source {
			return i
		}
	}
	return -1
}

// AddChild appends a newly committed child checkpoint, rejecting a second
// checkpoint from the same source in the same window.
func (w *WindowCheckpoint) AddChild(source string, check cid.Cid) error {
	if w.hasChild(source) >= 0 {
		return xerrors.Errorf("window already has a checkpoint committed from subnet %s", source)
	}
	w.Childs = append(w.Childs, ChildCheck{Source: source, Check: check})
	return nil
}

func initCheckpointSchema() ipldschema.Type {
	ts := ipldschema.TypeSystem{}
	ts.Init()
	ts.Accumulate(ipldschema.SpawnString("String"))
	ts.Accumulate(ipldschema.SpawnInt("Int"))
	ts.Accumulate(ipldschema.SpawnLink("Link"))
	ts.Accumulate(ipldschema.SpawnBytes("Bytes"))

	ts.Accumulate(ipldschema.SpawnStruct("ChildCheck",
		[]ipldschema.StructField{
			ipldschema.SpawnStructField("Source", "String", false, false),
			ipldschema.SpawnStructField("Check", "Link", false, false),
		},
		ipldschema.SpawnStructRepresentationMap(map[string]string{}),
	))
	ts.Accumulate(ipldschema.SpawnList("List_ChildCheck", "ChildCheck", false))
	ts.Accumulate(ipldschema.SpawnStruct("CheckData",
		[]ipldschema.StructField{
			ipldschema.SpawnStructField("Source", "String", false, false),
			ipldschema.SpawnStructField("Epoch", "Int", false, false),
			ipldschema.SpawnStructField("PrevCheck", "Link", false, false),
			ipldschema.SpawnStructField("Childs", "List_ChildCheck", false, false),
			ipldschema.SpawnStructField("CrossMsgsCid", "Link", false, false),
		},
		ipldschema.SpawnStructRepresentationMap(nil),
	))
	ts.Accumulate(ipldschema.SpawnStruct("Checkpoint",
		[]ipldschema.StructField{
			ipldschema.SpawnStructField("Data", "CheckData", false, false),
			ipldschema.SpawnStructField("Signature", "Bytes", false, false),
		},
		ipldschema.SpawnStructRepresentationMap(nil),
	))
	return ts.TypeByName("Checkpoint")
}

// noStoreLinkSystem computes links without persisting blocks, used only to
// derive a Checkpoint's Cid.
func noStoreLinkSystem() ipld.LinkSystem {
	lsys := cidlink.DefaultLinkSystem()
	lsys.StorageWriteOpener = func(ipld.LinkContext) (io.Writer, ipld.BlockWriteCommitter, error) {
		buf := bytes.NewBuffer(nil)
		return buf, func(ipld.Link) error { return nil }, nil
	}
	return lsys
}

// Cid returns the content hash identifying this checkpoint, computed over
// Data only: the signature never affects identity, so prev-checkpoint
// references stay stable no matter who signed.
func (c *Checkpoint) Cid() (cid.Cid, error) {
	bare := &Checkpoint{Data: c.Data}
	lsys := noStoreLinkSystem()
	lnk, err := lsys.ComputeLink(Linkproto, bindnode.Wrap(bare, checkpointSchema))
	if err != nil {
		return cid.Undef, err
	}
	return lnk.(cidlink.Link).Cid, nil
}

// MarshalCBOR implements cbor.Marshaler so a Checkpoint can be stored
// directly in a HAMT/AMT value slot.
func (c *Checkpoint) MarshalCBOR(w io.Writer) error {
	node := bindnode.Wrap(c, checkpointSchema)
	return dagcbor.Encode(node.Representation(), w)
}

// UnmarshalCBOR implements cbor.Unmarshaler. It consumes exactly one CBOR
// item from r, so a Checkpoint can also be decoded as one field of a larger
// tuple (subnetactor.VoteSet).
func (c *Checkpoint) UnmarshalCBOR(r io.Reader) error {
	var raw cbg.Deferred
	if err := raw.UnmarshalCBOR(r); err != nil {
		return err
	}
	nb := bindnode.Prototype((*Checkpoint)(nil), checkpointSchema).NewBuilder()
	if err := dagcbor.Decode(nb, bytes.NewReader(raw.Raw)); err != nil {
		return err
	}
	n := bindnode.Unwrap(nb.Build())
	ch, ok := n.(*Checkpoint)
	if !ok {
		return xerrors.Errorf("unmarshalled node is not a *Checkpoint")
	}
	*c = *ch
	return nil
}

// storeCommittedCheckpoint persists a freshly committed child checkpoint
// under its own content hash, so later CommitChildCheckpoint calls can
// look up a subnet's prev_checkpoint by the cid alone held in Subnet.
func (st *GatewayState) storeCommittedCheckpoint(rt runtime.Runtime, key cid.Cid, ch *Checkpoint) {
	checkpoints, err := adt.AsMap(adt.AsStore(rt), st.Checkpoints, builtin.DefaultHamtBitwidth)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to load checkpoints registry")
	err = checkpoints.Put(abi.CidKey(key), ch)
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to store committed checkpoint")
	st.Checkpoints, err = checkpoints.Root()
	builtin.RequireNoErr(rt, err, exitcode.ErrIllegalState, "failed to flush checkpoints registry")
}

// GetCommittedCheckpoint loads a previously committed checkpoint by its
// content hash.
func (st *GatewayState) GetCommittedCheckpoint(s adt.Store, key cid.Cid) (*Checkpoint, bool, error) {
	if !key.Defined() {
		return nil, false, nil
	}
	checkpoints, err := adt.AsMap(s, st.Checkpoints, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to load checkpoints registry: %w", err)
	}
	var out Checkpoint
	found, err := checkpoints.Get(abi.CidKey(key), &out)
	if err != nil {
		return nil, false, xerrors.Errorf("failed to get committed checkpoint %s: %w", key, err)
	}
	if !found {
		return nil, false, nil
	}
	return &out, true, nil
}

// ListCheckpoints returns committed window checkpoints for this network in
// the inclusive epoch range [from, to], backing the api package's
// IPCListCheckpoints.
func (st *GatewayState) ListCheckpoints(s adt.Store, from, to abi.ChainEpoch) ([]*WindowCheckpoint, error) {
	if st.CheckPeriod <= 0 {
		return nil, nil
	}
	windows, err := adt.AsMap(s, st.WindowChecks, builtin.DefaultHamtBitwidth)
	if err != nil {
		return nil, xerrors.Errorf("failed to load window checkpoints: %w", err)
	}
	var out []*WindowCheckpoint
	for id := windowEpoch(from, st.CheckPeriod); id <= windowEpoch(to, st.CheckPeriod); id += st.CheckPeriod {
		var w WindowCheckpoint
		found, err := windows.Get(abi.UIntKey(uint64(id)), &w)
		if err != nil {
			return nil, xerrors.Errorf("failed to get window checkpoint %d: %w", id, err)
		}
		if found {
			cp := w
			out = append(out, &cp)
		}
	}
	return out, nil
}
