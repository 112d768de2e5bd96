package cmds

import (
	"context"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
)

const name string = "github.com/Bab4nI/Jaba/cmd/jabactl/cmds"

var tracer = otel.Tracer(name)

var rootCmd = &cobra.Command{
	Use:   "jabactl",
	Short: "Operational tooling for the learning platform",
}

func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
