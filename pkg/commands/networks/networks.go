package networks

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/Layr-Labs/solkit-cli/pkg/buildconfig"
	"github.com/Layr-Labs/solkit-cli/pkg/common"
	"github.com/Layr-Labs/solkit-cli/pkg/common/progress"
	"github.com/Layr-Labs/solkit-cli/pkg/network"

	"github.com/urfave/cli/v2"
)

// isInteractive is stubbed in tests
var isInteractive = progress.IsTTY

var Command = &cli.Command{
	Name:  "networks",
	Usage: "Inspect and verify the deployment networks of the build configuration",
	Flags: append([]cli.Flag{}, common.GlobalFlags...),
	Subcommands: []*cli.Command{
		{
			Name:   "list",
			Usage:  "List configured networks",
			Flags:  append([]cli.Flag{}, common.GlobalFlags...),
			Action: listAction,
		},
		{
			Name:      "show",
			Usage:     "Show one network profile (prompts for a network when none is given)",
			ArgsUsage: "[name]",
			Flags:     append([]cli.Flag{}, common.GlobalFlags...),
			Action:    showAction,
		},
		{
			Name:      "verify",
			Usage:     "Check that each network's node is reachable and matches its network_id",
			ArgsUsage: "[name...]",
			Flags: append([]cli.Flag{
				&cli.DurationFlag{
					Name:  "timeout",
					Usage: "Per-network timeout",
					Value: common.DefaultVerifyTimeoutSeconds * time.Second,
				},
			}, common.GlobalFlags...),
			Action: verifyAction,
		},
		{
			Name:      "watch",
			Usage:     "Re-verify networks on a cron schedule until interrupted",
			ArgsUsage: "[name...]",
			Flags: append([]cli.Flag{
				&cli.StringFlag{
					Name:  "cron-expr",
					Usage: "Five-field cron expression",
					Value: common.DefaultWatchSchedule,
				},
				&cli.DurationFlag{
					Name:  "timeout",
					Usage: "Per-network timeout",
					Value: common.DefaultVerifyTimeoutSeconds * time.Second,
				},
			}, common.GlobalFlags...),
			Action: watchAction,
		},
	},
	Action: listAction,
}

func loadConfig(cCtx *cli.Context) (*buildconfig.BuildConfiguration, error) {
	cfgPath, _, err := common.ResolveConfigPath(cCtx)
	if err != nil {
		return nil, err
	}
	return buildconfig.Load(cfgPath)
}

func listAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cCtx.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tRPC URL\tNETWORK ID\tGAS LIMIT\tGAS PRICE")
	for _, name := range cfg.NetworkNames() {
		n, _ := cfg.Network(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\n", name, n.RPCURL(), n.NetworkID, n.GasLimit, n.GasPrice)
	}
	return tw.Flush()
}

func showAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}

	name := cCtx.Args().First()
	if name == "" {
		names := cfg.NetworkNames()
		switch {
		case len(names) == 1:
			name = names[0]
		case isInteractive():
			details := make([]string, len(names))
			for i, n := range names {
				profile, _ := cfg.Network(n)
				details[i] = profile.RPCURL()
			}
			if name, err = RunSelection("Which network would you like to show?", names, details); err != nil {
				return err
			}
		default:
			return fmt.Errorf("network name required (configured: %v)", names)
		}
	}

	profile, ok := cfg.Network(name)
	if !ok {
		return fmt.Errorf("unknown network %q (configured: %v)", name, cfg.NetworkNames())
	}
	return writeProfile(cCtx.App.Writer, name, profile)
}

func writeProfile(w io.Writer, name string, n buildconfig.NetworkProfile) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", name)
	fmt.Fprintf(tw, "host:\t%s\n", n.Host)
	fmt.Fprintf(tw, "port:\t%d\n", n.Port)
	fmt.Fprintf(tw, "rpc_url:\t%s\n", n.RPCURL())
	fmt.Fprintf(tw, "network_id:\t%s\n", n.NetworkID)
	fmt.Fprintf(tw, "gas_limit:\t%d\n", n.GasLimit)
	fmt.Fprintf(tw, "gas_price:\t%d\n", n.GasPrice)
	return tw.Flush()
}

func verifyAction(cCtx *cli.Context) error {
	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	common.LoggerFromContext(cCtx.Context).Title("Verifying networks")
	return verifyNetworks(cCtx, cfg)
}

func verifyNetworks(cCtx *cli.Context, cfg *buildconfig.BuildConfiguration) error {
	logger := common.LoggerFromContext(cCtx.Context)
	tracker := common.ProgressTrackerFromContext(cCtx.Context)

	results, err := network.VerifyAll(cCtx.Context, cfg, cCtx.Args().Slice(), cCtx.Duration("timeout"), tracker)
	tracker.Clear()
	if err != nil {
		return err
	}

	var failed []error
	for _, res := range results {
		if res.Err != nil {
			logger.Error("%v", res.Err)
			failed = append(failed, res.Err)
			continue
		}
		r := res.Report
		logger.Info("%s: ok (%s, network id %s, chain id %s, block gas limit %d, %s)",
			r.Name, r.URL, r.NetworkID, r.ChainID, r.BlockGasLimit, r.Latency.Round(time.Millisecond))
		for _, w := range r.Warnings {
			logger.Warn("%s: %s", r.Name, w)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d of %d network(s) failed verification: %w", len(failed), len(results), errors.Join(failed...))
	}
	return nil
}
