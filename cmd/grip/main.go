package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/vyk2rr/grip/internal/cli"
)

const version = "4.6.2"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	env := cli.NewEnv("Grip " + version)
	code := cli.Run(ctx, env, newApp(env), os.Args[1:])

	stop()
	os.Exit(code)
}
