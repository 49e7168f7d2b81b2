// Package registry holds the static catalog of supported tokens. The
// catalog is loaded once at process start and never mutated afterwards.
package registry

import (
	"fmt"
	"os"
	"strings"

	"github.com/ccoveille/go-safecast"
	"gopkg.in/yaml.v3"

	"github.com/subtext-wallet/go-sdk/types"
)

func uint32Ptr(v uint32) *uint32 { return &v }

// defaultTokens is the built-in catalog of Paseo test network tokens.
var defaultTokens = []types.Token{
	{
		Symbol:    "PAS",
		Chain:     "paseo",
		ChainName: "Paseo Relay Chain",
		Endpoint:  "wss://paseo.rpc.amforc.com",
		Kind:      types.TokenKindNative,
		Decimals:  10,
		Location:  types.AssetLocation{Parents: 0, Interior: "Here"},
	},
	{
		Symbol:      "PAS",
		Chain:       "assethub-paseo",
		ChainName:   "Asset Hub Paseo",
		Endpoint:    "wss://asset-hub-paseo.dotters.network",
		Kind:        types.TokenKindNative,
		Decimals:    10,
		ParachainID: uint32Ptr(1000),
		Location:    types.AssetLocation{Parents: 1, Interior: "Here"},
	},
	{
		Symbol:      "DOT",
		Chain:       "hydradx-paseo",
		ChainName:   "HydraDX Paseo",
		Endpoint:    "wss://paseo.rpc.hydration.cloud",
		Kind:        types.TokenKindForeign,
		Decimals:    10,
		AssetID:     uint32Ptr(5),
		ParachainID: uint32Ptr(2034),
		Location:    types.AssetLocation{Parents: 1, Interior: "Here"},
	},
	{
		Symbol:      "HDX",
		Chain:       "hydradx-paseo",
		ChainName:   "HydraDX Paseo",
		Endpoint:    "wss://paseo.rpc.hydration.cloud",
		Kind:        types.TokenKindNative,
		Decimals:    12,
		ParachainID: uint32Ptr(2034),
		Location:    types.AssetLocation{Parents: 0, Interior: "Here"},
	},
}

// Registry is a read-only token catalog. Lookups key on the
// (symbol, chain) pair; symbol alone may match several chains.
type Registry struct {
	tokens []types.Token
}

func Default() *Registry {
	r, err := FromTokens(defaultTokens)
	if err != nil {
		// The built-in catalog is validated by tests.
		panic(fmt.Sprintf("invalid built-in token catalog: %s", err))
	}
	return r
}

func FromTokens(tokens []types.Token) (*Registry, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("token catalog is empty")
	}
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if t.Symbol == "" || t.Chain == "" || t.Endpoint == "" {
			return nil, fmt.Errorf("token %s is missing symbol, chain or endpoint", t)
		}
		if !t.Kind.Valid() {
			return nil, fmt.Errorf("token %s has unknown kind %q", t, t.Kind)
		}
		if _, err := safecast.ToUint8(t.Decimals); err != nil {
			return nil, fmt.Errorf("token %s has invalid decimals %d: %s", t, t.Decimals, err)
		}
		if (t.Kind == types.TokenKindAsset || t.Kind == types.TokenKindForeign) && t.AssetID == nil {
			return nil, fmt.Errorf("token %s of kind %s is missing asset id", t, t.Kind)
		}
		key := tokenKey(t.Symbol, t.Chain)
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("duplicate token %s", t)
		}
		seen[key] = struct{}{}
	}
	owned := make([]types.Token, len(tokens))
	copy(owned, tokens)
	return &Registry{tokens: owned}, nil
}

// Load reads a YAML token catalog replacing the built-in one.
func Load(path string) (*Registry, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token catalog: %s", err)
	}
	var catalog struct {
		Tokens []types.Token `yaml:"tokens"`
	}
	if err := yaml.Unmarshal(buf, &catalog); err != nil {
		return nil, fmt.Errorf("failed to parse token catalog: %s", err)
	}
	return FromTokens(catalog.Tokens)
}

func (r *Registry) Tokens() []types.Token {
	tokens := make([]types.Token, len(r.tokens))
	copy(tokens, r.tokens)
	return tokens
}

// FindToken returns the entry matching the (symbol, chain) pair.
func (r *Registry) FindToken(symbol, chain string) (types.Token, bool) {
	for _, t := range r.tokens {
		if strings.EqualFold(t.Symbol, symbol) && strings.EqualFold(t.Chain, chain) {
			return t, true
		}
	}
	return types.Token{}, false
}

// BySymbol returns all entries for a symbol in catalog order.
func (r *Registry) BySymbol(symbol string) []types.Token {
	var matches []types.Token
	for _, t := range r.tokens {
		if strings.EqualFold(t.Symbol, symbol) {
			matches = append(matches, t)
		}
	}
	return matches
}

// FindChain returns the first entry registered for a chain id, which
// carries the chain's endpoint and parachain id.
func (r *Registry) FindChain(chain string) (types.Token, bool) {
	for _, t := range r.tokens {
		if strings.EqualFold(t.Chain, chain) {
			return t, true
		}
	}
	return types.Token{}, false
}

// Endpoints returns the distinct endpoints in catalog order.
func (r *Registry) Endpoints() []string {
	var endpoints []string
	seen := make(map[string]struct{})
	for _, t := range r.tokens {
		if _, ok := seen[t.Endpoint]; ok {
			continue
		}
		seen[t.Endpoint] = struct{}{}
		endpoints = append(endpoints, t.Endpoint)
	}
	return endpoints
}

// EndpointGroup lists the catalog indexes served by one endpoint, so a
// balance sweep opens a single connection per endpoint.
type EndpointGroup struct {
	Endpoint string
	Indexes  []int
}

func (r *Registry) GroupByEndpoint() []EndpointGroup {
	var groups []EndpointGroup
	byEndpoint := make(map[string]int)
	for i, t := range r.tokens {
		gi, ok := byEndpoint[t.Endpoint]
		if !ok {
			gi = len(groups)
			byEndpoint[t.Endpoint] = gi
			groups = append(groups, EndpointGroup{Endpoint: t.Endpoint})
		}
		groups[gi].Indexes = append(groups[gi].Indexes, i)
	}
	return groups
}

func tokenKey(symbol, chain string) string {
	return strings.ToUpper(symbol) + "|" + strings.ToLower(chain)
}
