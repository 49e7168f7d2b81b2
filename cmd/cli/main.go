package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	walletsdk "github.com/subtext-wallet/go-sdk"
	"github.com/subtext-wallet/go-sdk/registry"
	"github.com/subtext-wallet/go-sdk/store"
	"github.com/subtext-wallet/go-sdk/types"
)

const DatadirEnvVar = "SUBTEXT_WALLET_DATADIR"

var (
	Version      string
	walletClient walletsdk.WalletClient
)

func main() {
	app := cli.NewApp()
	app.Version = Version
	app.Name = "Subtext Wallet CLI"
	app.Usage = "multi-chain substrate wallet command line interface"
	app.Commands = append(
		app.Commands,
		&createCommand,
		&exportCommand,
		&tokensCommand,
		&balanceCommand,
		&sendCommand,
		&bridgeCommand,
		&probeCommand,
	)
	app.Flags = []cli.Flag{datadirFlag, storeFlag, tokensFileFlag, timeoutFlag, verboseFlag}
	app.Before = func(ctx *cli.Context) error {
		sdk, err := getWalletClient(ctx)
		if err != nil {
			return fmt.Errorf("error initializing wallet client: %v", err)
		}
		walletClient = sdk

		return nil
	}
	app.After = func(ctx *cli.Context) error {
		if walletClient != nil {
			walletClient.Close()
		}
		return nil
	}

	err := app.Run(os.Args)
	if err != nil {
		fmt.Println(fmt.Errorf("error: %v", err))
		os.Exit(1)
	}
}

var (
	datadirFlag = &cli.StringFlag{
		Name:    "datadir",
		Usage:   "Specify the data directory",
		Value:   defaultDatadir(),
		EnvVars: []string{DatadirEnvVar},
	}
	storeFlag = &cli.StringFlag{
		Name:  "store",
		Usage: "wallet store backend: file, kv, sql or inmemory",
		Value: types.FileStore,
	}
	tokensFileFlag = &cli.StringFlag{
		Name:  "tokens",
		Usage: "YAML token catalog replacing the built-in one",
	}
	timeoutFlag = &cli.DurationFlag{
		Name:  "timeout",
		Usage: "per-endpoint connection timeout",
	}
	verboseFlag = &cli.BoolFlag{
		Name:        "verbose",
		Usage:       "enable debug logs",
		Value:       false,
		DefaultText: "false",
	}
	userFlag = &cli.StringFlag{
		Name:     "user",
		Usage:    "user identity owning the wallet",
		Required: true,
	}
	symbolFlag = &cli.StringFlag{
		Name:  "symbol",
		Usage: "token symbol",
	}
	chainFlag = &cli.StringFlag{
		Name:  "chain",
		Usage: "chain id from the token catalog",
	}
	toFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "recipient SS58 address",
	}
	amountFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "amount in token units, e.g. 1.5",
	}
	sourceChainFlag = &cli.StringFlag{
		Name:  "from-chain",
		Usage: "source chain id",
	}
	destChainFlag = &cli.StringFlag{
		Name:  "to-chain",
		Usage: "destination chain id",
	}
)

var (
	createCommand = cli.Command{
		Name:  "create",
		Usage: "Create a wallet for a user, or show the existing one",
		Action: func(ctx *cli.Context) error {
			return create(ctx)
		},
		Flags: []cli.Flag{userFlag},
	}
	exportCommand = cli.Command{
		Name:  "export",
		Usage: "Dumps mnemonic and private key of the wallet",
		Action: func(ctx *cli.Context) error {
			return export(ctx)
		},
		Flags: []cli.Flag{userFlag},
	}
	tokensCommand = cli.Command{
		Name:  "tokens",
		Usage: "Lists the supported tokens",
		Action: func(ctx *cli.Context) error {
			return tokens(ctx)
		},
	}
	balanceCommand = cli.Command{
		Name:  "balance",
		Usage: "Shows token balances across all chains",
		Action: func(ctx *cli.Context) error {
			return balance(ctx)
		},
		Flags: []cli.Flag{userFlag, symbolFlag, chainFlag},
	}
	sendCommand = cli.Command{
		Name:  "send",
		Usage: "Send tokens to an address",
		Action: func(ctx *cli.Context) error {
			return send(ctx)
		},
		Flags: []cli.Flag{userFlag, symbolFlag, toFlag, amountFlag},
	}
	bridgeCommand = cli.Command{
		Name:  "bridge",
		Usage: "Move tokens between chains with an XCM reserve transfer",
		Action: func(ctx *cli.Context) error {
			return bridge(ctx)
		},
		Flags: []cli.Flag{userFlag, symbolFlag, sourceChainFlag, destChainFlag, amountFlag},
	}
	probeCommand = cli.Command{
		Name:  "probe",
		Usage: "Checks reachability of every catalog endpoint",
		Action: func(ctx *cli.Context) error {
			return probe(ctx)
		},
	}
)

func create(ctx *cli.Context) error {
	record, created, err := walletClient.CreateWallet(ctx.Context, ctx.String(userFlag.Name))
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"address":    record.Address,
		"public_key": record.PublicKey,
		"created":    created,
	})
}

func export(ctx *cli.Context) error {
	details, err := walletClient.ExportWalletDetails(ctx.Context, ctx.String(userFlag.Name))
	if err != nil {
		return err
	}
	return printJSON(map[string]string{
		"address":     details.Address,
		"mnemonic":    details.Mnemonic,
		"private_key": details.PrivateKey,
	})
}

func tokens(ctx *cli.Context) error {
	list := make([]map[string]interface{}, 0)
	for _, token := range walletClient.SupportedTokens() {
		list = append(list, map[string]interface{}{
			"symbol":   token.Symbol,
			"chain":    token.Chain,
			"name":     token.ChainName,
			"kind":     token.Kind,
			"decimals": token.Decimals,
		})
	}
	return printJSON(list)
}

func balance(ctx *cli.Context) error {
	user := ctx.String(userFlag.Name)
	symbol := ctx.String(symbolFlag.Name)
	chainID := ctx.String(chainFlag.Name)

	if symbol != "" && chainID != "" {
		tokenBalance, err := walletClient.GetBalance(ctx.Context, user, symbol, chainID)
		if err != nil {
			return err
		}
		return printJSON(tokenBalance)
	}

	balances, err := walletClient.GetAllBalances(ctx.Context, user)
	if err != nil {
		return err
	}
	return printJSON(balances)
}

func send(ctx *cli.Context) error {
	symbol := ctx.String(symbolFlag.Name)
	to := ctx.String(toFlag.Name)
	amount := ctx.String(amountFlag.Name)
	if symbol == "" || to == "" || amount == "" {
		return fmt.Errorf("missing destination, use --symbol, --to and --amount")
	}

	result, err := walletClient.Transfer(ctx.Context, ctx.String(userFlag.Name), symbol, to, amount)
	if err != nil {
		return err
	}
	return printJSON(result)
}

func bridge(ctx *cli.Context) error {
	symbol := ctx.String(symbolFlag.Name)
	sourceChain := ctx.String(sourceChainFlag.Name)
	destChain := ctx.String(destChainFlag.Name)
	amount := ctx.String(amountFlag.Name)
	if symbol == "" || sourceChain == "" || destChain == "" || amount == "" {
		return fmt.Errorf("missing bridge parameters, use --symbol, --from-chain, --to-chain and --amount")
	}

	result, err := walletClient.Bridge(ctx.Context, types.BridgeRequest{
		SourceChain:  sourceChain,
		DestChain:    destChain,
		SenderUserID: ctx.String(userFlag.Name),
		Symbol:       symbol,
		Amount:       amount,
	})
	if err != nil {
		return err
	}
	return printJSON(result)
}

func probe(ctx *cli.Context) error {
	list := make([]map[string]interface{}, 0)
	for _, health := range walletClient.ProbeEndpoints(ctx.Context) {
		entry := map[string]interface{}{
			"endpoint":  health.Endpoint,
			"reachable": health.Reachable,
		}
		if health.Reachable {
			entry["latency"] = health.Latency.String()
		} else {
			entry["error"] = health.Err
		}
		list = append(list, entry)
	}
	return printJSON(list)
}

func getWalletClient(ctx *cli.Context) (walletsdk.WalletClient, error) {
	if ctx.Bool(verboseFlag.Name) {
		log.SetLevel(log.DebugLevel)
	}

	walletStore, err := store.NewWalletStore(store.Config{
		StoreType: ctx.String(storeFlag.Name),
		BaseDir:   ctx.String(datadirFlag.Name),
	})
	if err != nil {
		return nil, err
	}

	opts := make([]walletsdk.Option, 0)
	if tokensFile := ctx.String(tokensFileFlag.Name); tokensFile != "" {
		catalog, err := registry.Load(tokensFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, walletsdk.WithRegistry(catalog))
	}
	if timeout := ctx.Duration(timeoutFlag.Name); timeout > 0 {
		opts = append(opts, walletsdk.WithConnectTimeout(timeout))
	}

	return walletsdk.New(walletStore, opts...)
}

func defaultDatadir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", "subtext-wallet")
	}
	return filepath.Join(configDir, "subtext-wallet")
}

func printJSON(resp interface{}) error {
	jsonBytes, err := json.MarshalIndent(resp, "", "\t")
	if err != nil {
		return err
	}
	fmt.Println(string(jsonBytes))
	return nil
}
