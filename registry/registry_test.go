package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/subtext-wallet/go-sdk/types"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	r := Default()
	require.NotEmpty(t, r.Tokens())
}

func TestFindTokenKeysOnSymbolAndChain(t *testing.T) {
	r := Default()

	relay, ok := r.FindToken("PAS", "paseo")
	require.True(t, ok)
	require.Equal(t, types.TokenKindNative, relay.Kind)

	hub, ok := r.FindToken("pas", "ASSETHUB-PASEO")
	require.True(t, ok)
	require.Equal(t, "assethub-paseo", hub.Chain)
	require.NotEqual(t, relay.Endpoint, hub.Endpoint)

	_, ok = r.FindToken("PAS", "hydradx-paseo")
	require.False(t, ok)
}

func TestBySymbolPreservesCatalogOrder(t *testing.T) {
	r := Default()
	matches := r.BySymbol("PAS")
	require.Len(t, matches, 2)
	require.Equal(t, "paseo", matches[0].Chain)
	require.Equal(t, "assethub-paseo", matches[1].Chain)
}

func TestGroupByEndpointSharesConnections(t *testing.T) {
	r := Default()
	groups := r.GroupByEndpoint()
	require.Len(t, groups, 3)

	// Both HydraDX tokens share one endpoint group.
	var hydra *EndpointGroup
	for i := range groups {
		if groups[i].Endpoint == "wss://paseo.rpc.hydration.cloud" {
			hydra = &groups[i]
		}
	}
	require.NotNil(t, hydra)
	require.Len(t, hydra.Indexes, 2)
}

func TestFromTokensRejectsDuplicates(t *testing.T) {
	tokens := Default().Tokens()
	_, err := FromTokens(append(tokens, tokens[0]))
	require.ErrorContains(t, err, "duplicate token")
}

func TestFromTokensRejectsAssetWithoutID(t *testing.T) {
	_, err := FromTokens([]types.Token{{
		Symbol:   "USDT",
		Chain:    "assethub-paseo",
		Endpoint: "wss://asset-hub-paseo.dotters.network",
		Kind:     types.TokenKindAsset,
		Decimals: 6,
	}})
	require.ErrorContains(t, err, "missing asset id")
}

func TestFromTokensRejectsForeignWithoutID(t *testing.T) {
	_, err := FromTokens([]types.Token{{
		Symbol:   "DOT",
		Chain:    "hydradx-paseo",
		Endpoint: "wss://paseo.rpc.hydration.cloud",
		Kind:     types.TokenKindForeign,
		Decimals: 10,
	}})
	require.ErrorContains(t, err, "missing asset id")
}

func TestLoadReadsYAMLCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.yaml")
	catalog := `
tokens:
  - symbol: WND
    chain: westend
    chain_name: Westend Relay Chain
    endpoint: wss://westend-rpc.polkadot.io
    kind: native
    decimals: 12
    location:
      parents: 0
      interior: Here
  - symbol: USDT
    chain: assethub-westend
    chain_name: Asset Hub Westend
    endpoint: wss://westend-asset-hub-rpc.polkadot.io
    kind: asset
    decimals: 6
    asset_id: 1984
    parachain_id: 1000
    location:
      parents: 0
      interior: X1(Parachain(1000))
`
	require.NoError(t, os.WriteFile(path, []byte(catalog), 0o600))

	r, err := Load(path)
	require.NoError(t, err)
	require.Len(t, r.Tokens(), 2)

	usdt, ok := r.FindToken("USDT", "assethub-westend")
	require.True(t, ok)
	require.NotNil(t, usdt.AssetID)
	require.Equal(t, uint32(1984), *usdt.AssetID)
	require.NotNil(t, usdt.ParachainID)
	require.Equal(t, uint32(1000), *usdt.ParachainID)
}
