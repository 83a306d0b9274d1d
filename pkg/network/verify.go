package network

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/Layr-Labs/solkit-cli/pkg/buildconfig"
	"github.com/Layr-Labs/solkit-cli/pkg/common/iface"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"golang.org/x/sync/errgroup"
)

// ErrNetworkMismatch is returned when the node reports a different network id
var ErrNetworkMismatch = errors.New("network id mismatch")

// DefaultConcurrency bounds the number of nodes dialled at once by VerifyAll
const DefaultConcurrency = 4

// Report is what a node told us about itself
type Report struct {
	Name          string
	URL           string
	NetworkID     string
	ChainID       *big.Int
	GasPrice      *big.Int
	BlockGasLimit uint64
	Latency       time.Duration
	Warnings      []string
}

// blockHeader decodes only what we need from eth_getBlockByNumber
type blockHeader struct {
	GasLimit hexutil.Uint64 `json:"gasLimit"`
}

// Verify dials the network's node and compares it to the profile. Only
// read-only RPCs are issued. A nil report is returned on connection errors.
func Verify(ctx context.Context, name string, profile buildconfig.NetworkProfile) (*Report, error) {
	url := profile.RPCURL()
	start := time.Now()

	rpcClient, err := rpc.DialContext(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to %s: %w", name, url, err)
	}
	defer rpcClient.Close()
	client := ethclient.NewClient(rpcClient)

	networkID, err := client.NetworkID(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: net_version: %w", name, err)
	}
	report := &Report{Name: name, URL: url, NetworkID: networkID.String()}

	if !profile.MatchesNetworkID(report.NetworkID) {
		return report, fmt.Errorf("%s: %w: configured %s, node reports %s", name, ErrNetworkMismatch, profile.NetworkID, report.NetworkID)
	}

	if report.ChainID, err = client.ChainID(ctx); err != nil {
		return report, fmt.Errorf("%s: eth_chainId: %w", name, err)
	}
	if report.GasPrice, err = client.SuggestGasPrice(ctx); err != nil {
		return report, fmt.Errorf("%s: eth_gasPrice: %w", name, err)
	}

	var head blockHeader
	if err := rpcClient.CallContext(ctx, &head, "eth_getBlockByNumber", "latest", false); err != nil {
		return report, fmt.Errorf("%s: eth_getBlockByNumber: %w", name, err)
	}
	report.BlockGasLimit = uint64(head.GasLimit)
	report.Latency = time.Since(start)

	if report.BlockGasLimit > 0 && profile.GasLimit > report.BlockGasLimit {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("gas_limit %d exceeds the block gas limit %d", profile.GasLimit, report.BlockGasLimit))
	}
	if profile.GasPrice > 0 && report.GasPrice.Cmp(new(big.Int).SetUint64(profile.GasPrice)) > 0 {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("gas_price %d is below the node's suggested %s", profile.GasPrice, report.GasPrice))
	}
	return report, nil
}

// Result pairs a network with its verification outcome
type Result struct {
	Name   string
	Report *Report
	Err    error
}

// VerifyAll checks the named networks (every network when names is empty)
// concurrently, each under its own timeout. Unknown names fail before any
// node is dialled. Results are returned in the order of names.
func VerifyAll(ctx context.Context, cfg *buildconfig.BuildConfiguration, names []string, timeout time.Duration, tracker iface.ProgressTracker) ([]Result, error) {
	if len(names) == 0 {
		names = cfg.NetworkNames()
	}
	for _, name := range names {
		if _, ok := cfg.Network(name); !ok {
			return nil, fmt.Errorf("unknown network %q (configured: %v)", name, cfg.NetworkNames())
		}
	}

	results := make([]Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(DefaultConcurrency)

	for i, name := range names {
		profile, _ := cfg.Network(name)
		g.Go(func() error {
			tracker.Set(name, 10, fmt.Sprintf("%s: dialing %s", name, profile.RPCURL()))

			vctx, cancel := context.WithTimeout(gctx, timeout)
			defer cancel()
			report, err := Verify(vctx, name, profile)

			results[i] = Result{Name: name, Report: report, Err: err}
			if err != nil {
				tracker.Set(name, 100, fmt.Sprintf("%s: failed", name))
			} else {
				tracker.Set(name, 100, fmt.Sprintf("%s: ok", name))
			}
			tracker.Render()
			// one unreachable node must not cancel the others
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
