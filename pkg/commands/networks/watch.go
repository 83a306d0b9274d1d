package networks

import (
	"fmt"
	"time"

	"github.com/Layr-Labs/solkit-cli/pkg/common"

	"github.com/robfig/cron/v3"
	"github.com/urfave/cli/v2"
)

// cronParser accepts standard five-field expressions
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

func watchAction(cCtx *cli.Context) error {
	logger := common.LoggerFromContext(cCtx.Context)

	cfg, err := loadConfig(cCtx)
	if err != nil {
		return err
	}
	for _, name := range cCtx.Args().Slice() {
		if _, ok := cfg.Network(name); !ok {
			return fmt.Errorf("unknown network %q (configured: %v)", name, cfg.NetworkNames())
		}
	}

	return scheduleVerification(cCtx, cCtx.String("cron-expr"), func() {
		logger.Title("Verifying networks (%s)", time.Now().Format(time.RFC3339))
		if err := verifyNetworks(cCtx, cfg); err != nil {
			logger.Error("Scheduled verification failed: %v", err)
		}
	})
}

// scheduleVerification runs verify on cronExpr until the command context is cancelled
func scheduleVerification(cCtx *cli.Context, cronExpr string, verify func()) error {
	logger := common.LoggerFromContext(cCtx.Context)

	if _, err := cronParser.Parse(cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronExpr, err)
	}

	c := cron.New(cron.WithParser(cronParser), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(cronExpr, verify); err != nil {
		return fmt.Errorf("failed to schedule verification: %w", err)
	}

	c.Start()
	if entries := c.Entries(); len(entries) > 0 {
		logger.Info("Watching networks, next verification at %s", entries[0].Next.Format(time.RFC3339))
	}

	<-cCtx.Context.Done()
	<-c.Stop().Done()
	logger.Info("Network watch stopped")
	return nil
}
