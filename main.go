package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/lehigh-university-libraries/glbcompress/cmd"
)

func main() {
	// SIGTERM cancels the context so a running basisu or gltf-pipeline is stopped
	err := fang.Execute(context.Background(), cmd.NewRootCmd(),
		fang.WithVersion(cmd.Version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}
