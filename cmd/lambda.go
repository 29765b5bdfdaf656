package cmd

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/isometry/wp-trigger-app/internal/config"
	"github.com/isometry/wp-trigger-app/internal/runtime"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func cmdLambda() *cobra.Command {
	cmd := &cobra.Command{
		Use: "lambda",
		PreRunE: func(_ *cobra.Command, _ []string) error {
			logger = logger.With("mode", config.ModeLambda)
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			b := &builder{ctx: cmd.Context(), logger: logger}

			logger.Debug("creating trigger runtime...")
			mounts, err := b.mounts([]config.TriggerSpec{config.Trigger},
				runtime.WithLambdaPayloadType(config.Lambda.PayloadType))
			if err != nil {
				return errors.Wrap(err, "failed to setup lambda")
			}

			logger.Info("lambda starting...", "payloadType", config.Lambda.PayloadType)
			lambda.StartWithOptions(mounts[0].Runtime.HandleEvent,
				lambda.WithContext(cmd.Context()))
			return nil
		},
	}

	bindEnvMap(cmd, lambdaEnvMapString)

	return cmd
}
