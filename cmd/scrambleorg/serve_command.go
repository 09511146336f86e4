package main

import (
	"github.com/spf13/cobra"

	"scrambleorg/internal/httpapi"
	"scrambleorg/internal/logging"
	"scrambleorg/internal/pipeline"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	var bind string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the scramble upload API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			if bind != "" {
				cfg.Server.Bind = bind
			}
			if cfg.Server.Token == "" {
				logging.WarnWithContext(logger, "upload API running without authentication", "auth_disabled",
					logging.String("bind", cfg.Server.Bind),
					logging.String(logging.FieldErrorHint, "set server.token in the config file"),
					logging.String(logging.FieldImpact, "anyone who can reach the address can upload bundles"),
				)
			}

			store, err := ctx.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			processor, err := pipeline.NewProcessor(cfg, store, logger)
			if err != nil {
				return err
			}
			return httpapi.New(cfg, processor, store, logger).Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&bind, "bind", "", "Listen address (overrides server.bind)")
	return cmd
}
