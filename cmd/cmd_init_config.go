package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/sale-engine/internal/config"
	"github.com/gaze-network/sale-engine/modules/sale"
	"github.com/gaze-network/sale-engine/modules/sale/engine"
	"github.com/gaze-network/sale-engine/pkg/custody"
	"github.com/gaze-network/sale-engine/pkg/logger"
	"github.com/gaze-network/sale-engine/pkg/logger/slogx"
	"github.com/spf13/cobra"
)

type initConfigCmdOptions struct {
	Owner string
	Admin string
}

func NewInitConfigCommand() *cobra.Command {
	opts := &initConfigCmdOptions{}

	cmd := &cobra.Command{
		Use:     "init-config",
		Short:   "Write the initial sale config from the config file",
		Example: `sale-engine init-config --owner treasury --admin operator`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfigHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Owner, "owner", "", "Config owner identity. Default is modules.sale.engine.owner")
	flags.StringVar(&opts.Admin, "admin", "", "Config admin identity. Default is modules.sale.engine.admin")

	return cmd
}

func initConfigHandler(opts *initConfigCmdOptions, cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	conf := config.Load().Modules.Sale

	owner := conf.Engine.Owner
	if opts.Owner != "" {
		owner = opts.Owner
	}
	admin := conf.Engine.Admin
	if opts.Admin != "" {
		admin = opts.Admin
	}
	if owner == "" {
		return errors.New("--owner is required")
	}

	dg, cleanupFuncs, err := sale.NewDataGateway(ctx, conf)
	if err != nil {
		return errors.WithStack(err)
	}
	defer func() {
		for _, cleanup := range cleanupFuncs {
			if err := cleanup(ctx); err != nil {
				logger.WarnContext(ctx, "Failed to release sale storage", slogx.Error(err))
			}
		}
	}()

	deriver, err := custody.NewDeriver(conf.Custody.AuthoritySecret)
	if err != nil {
		return errors.Wrap(err, "invalid custody configuration")
	}

	saleConfig, err := engine.New(dg, deriver).InitConfig(ctx, owner, admin, conf.Engine.Params())
	if err != nil {
		return errors.Wrap(err, "can't initialize sale config")
	}

	out, err := json.MarshalIndent(saleConfig, "", "  ")
	if err != nil {
		return errors.WithStack(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
