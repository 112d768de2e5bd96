package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Bab4nI/Jaba/cmd/jabactl/cmds"
	"github.com/Bab4nI/Jaba/internal/logger"
)

func runApp(ctx context.Context) int {
	err := cmds.Execute(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: "+err.Error())
		return 1
	}

	return 0
}

func main() {
	logger.InitSlog()

	ctx := context.Background()
	os.Exit(runApp(ctx))
}
