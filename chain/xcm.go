package chain

import (
	"context"
	"fmt"
	"math/big"
	"regexp"
	"strconv"
	"strings"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/centrifuge/go-substrate-rpc-client/v4/signature"
	ctypes "github.com/centrifuge/go-substrate-rpc-client/v4/types"
	log "github.com/sirupsen/logrus"

	sdkerr "github.com/subtext-wallet/go-sdk/errors"
	"github.com/subtext-wallet/go-sdk/types"
)

// Locations and assets are encoded as XCM v3 variants, matching the
// runtimes the catalog targets.
const xcmVersionV3 = 3

// Different runtimes expose the reserve transfer under different pallet
// names and with or without a weight limit; the first call present in the
// connected chain's metadata wins.
var reserveTransferCalls = []struct {
	name    string
	limited bool
}{
	{"PolkadotXcm.limited_reserve_transfer_assets", true},
	{"XcmPallet.limited_reserve_transfer_assets", true},
	{"XcmPallet.reserve_transfer_assets", false},
}

var parachainInterior = regexp.MustCompile(`^X1\(Parachain\((\d+)\)\)$`)

type interiorKind int

const (
	interiorHere interiorKind = iota
	interiorParachain
	interiorAccountID32
)

// xcmJunctions encodes the interior of an XCM v3 location. Only the
// shapes the wallet produces are supported: Here, X1(Parachain(n)) and
// X1(AccountId32{network: None, id}).
type xcmJunctions struct {
	kind      interiorKind
	paraID    uint32
	accountID [32]byte
}

func (j xcmJunctions) Encode(enc scale.Encoder) error {
	switch j.kind {
	case interiorHere:
		return enc.PushByte(0)
	case interiorParachain:
		if err := enc.PushByte(1); err != nil { // X1
			return err
		}
		if err := enc.PushByte(0); err != nil { // Parachain
			return err
		}
		return enc.Encode(ctypes.NewUCompactFromUInt(uint64(j.paraID)))
	case interiorAccountID32:
		if err := enc.PushByte(1); err != nil { // X1
			return err
		}
		if err := enc.PushByte(1); err != nil { // AccountId32
			return err
		}
		if err := enc.PushByte(0); err != nil { // network: None
			return err
		}
		return enc.Write(j.accountID[:])
	}
	return fmt.Errorf("unknown interior kind %d", j.kind)
}

type xcmLocation struct {
	parents  uint8
	interior xcmJunctions
}

func (l xcmLocation) Encode(enc scale.Encoder) error {
	if err := enc.PushByte(l.parents); err != nil {
		return err
	}
	return enc.Encode(l.interior)
}

type versionedLocation struct {
	location xcmLocation
}

func (v versionedLocation) Encode(enc scale.Encoder) error {
	if err := enc.PushByte(xcmVersionV3); err != nil {
		return err
	}
	return enc.Encode(v.location)
}

type xcmAsset struct {
	location xcmLocation
	amount   *big.Int
}

func (a xcmAsset) Encode(enc scale.Encoder) error {
	if err := enc.PushByte(0); err != nil { // AssetId: Concrete
		return err
	}
	if err := enc.Encode(a.location); err != nil {
		return err
	}
	if err := enc.PushByte(0); err != nil { // Fungibility: Fungible
		return err
	}
	return enc.Encode(ctypes.NewUCompact(a.amount))
}

type versionedAssets struct {
	assets []xcmAsset
}

func (v versionedAssets) Encode(enc scale.Encoder) error {
	if err := enc.PushByte(xcmVersionV3); err != nil {
		return err
	}
	return enc.Encode(v.assets)
}

type unlimitedWeight struct{}

func (unlimitedWeight) Encode(enc scale.Encoder) error {
	return enc.PushByte(0) // WeightLimit: Unlimited
}

// destinationLocation builds the transfer destination: the relay chain for
// parachain id 0, otherwise the parachain seen from one hop up.
func destinationLocation(destParaID uint32) versionedLocation {
	if destParaID == 0 {
		return versionedLocation{location: xcmLocation{
			parents:  0,
			interior: xcmJunctions{kind: interiorHere},
		}}
	}
	return versionedLocation{location: xcmLocation{
		parents:  1,
		interior: xcmJunctions{kind: interiorParachain, paraID: destParaID},
	}}
}

// beneficiaryLocation embeds the account at the destination chain itself.
func beneficiaryLocation(accountID [32]byte) versionedLocation {
	return versionedLocation{location: xcmLocation{
		parents:  0,
		interior: xcmJunctions{kind: interiorAccountID32, accountID: accountID},
	}}
}

func parseInterior(interior string) (xcmJunctions, error) {
	if strings.EqualFold(interior, "Here") {
		return xcmJunctions{kind: interiorHere}, nil
	}
	if m := parachainInterior.FindStringSubmatch(interior); m != nil {
		paraID, err := strconv.ParseUint(m[1], 10, 32)
		if err != nil {
			return xcmJunctions{}, fmt.Errorf("invalid parachain id in %q: %s", interior, err)
		}
		return xcmJunctions{kind: interiorParachain, paraID: uint32(paraID)}, nil
	}
	return xcmJunctions{}, fmt.Errorf("unsupported interior %q", interior)
}

// ReserveTransferAssets submits a cross-chain reserve transfer and follows
// it to finalization.
func (c *Conn) ReserveTransferAssets(ctx context.Context, sender signature.KeyringPair, transfer types.ReserveTransfer) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	assetInterior, err := parseInterior(transfer.Asset.Interior)
	if err != nil {
		return "", sdkerr.Wrap(sdkerr.KindUnsupportedAsset, "unsupported asset location", err)
	}

	dest := destinationLocation(transfer.DestParaID)
	beneficiary := beneficiaryLocation(transfer.Beneficiary)
	assets := versionedAssets{assets: []xcmAsset{{
		location: xcmLocation{parents: transfer.Asset.Parents, interior: assetInterior},
		amount:   transfer.Amount,
	}}}
	feeAssetItem := ctypes.NewU32(0)

	for _, candidate := range reserveTransferCalls {
		if _, err := c.meta.FindCallIndex(candidate.name); err != nil {
			continue
		}
		log.Infof("using %s on %s", candidate.name, c.endpoint)

		var call ctypes.Call
		if candidate.limited {
			call, err = ctypes.NewCall(c.meta, candidate.name, dest, beneficiary, assets, feeAssetItem, unlimitedWeight{})
		} else {
			call, err = ctypes.NewCall(c.meta, candidate.name, dest, beneficiary, assets, feeAssetItem)
		}
		if err != nil {
			return "", fmt.Errorf("failed to build %s call: %s", candidate.name, err)
		}
		return c.signAndWatch(ctx, sender, call)
	}

	return "", sdkerr.Newf(sdkerr.KindNoTransferMethod, "no suitable transfer method found on %s", c.endpoint)
}
