package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arthur-debert/gantry/cmd/gantry"
	"github.com/arthur-debert/gantry/pkg/output"
	"github.com/arthur-debert/gantry/pkg/output/styles"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd := gantry.NewRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}

	if !gantry.IsReported(err) {
		errorStyle := styles.GetStyle("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(gantry.MsgErrorPrefix+output.FailureSummary(err, nil)))
	}
	os.Exit(1)
}
