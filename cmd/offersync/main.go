// Package main provides the offersync entry point: a Lambda handler when running in AWS Lambda,
// otherwise a local CLI.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/spf13/cobra"
)

// envLambdaFunctionName is set by the Lambda runtime.
const envLambdaFunctionName = "AWS_LAMBDA_FUNCTION_NAME"

func main() {
	if os.Getenv(envLambdaFunctionName) != "" {
		logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(logger)

		lambda.Start(handler)
		return
	}

	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "offersync",
		Short:        "Reconcile casino cruise offers into a local snapshot",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output, including sailing diffs")

	root.AddCommand(
		initCmd(),
		sessionCmd(),
		showCmd(),
		statusCmd(),
		syncCmd(),
	)

	return root
}

// printf writes to w, ignoring errors as fmt.Println does.
func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
