// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/pakdepot/pakdepot/cmd/pakdepot/cli"
	"github.com/pakdepot/pakdepot/lib/version"
)

// systemSocketPath is the control socket location for system
// installations, matching the server's default. Development servers
// with a custom state directory put the socket there instead; point
// the CLI at it with --socket or PAKDEPOT_SOCKET.
const systemSocketPath = "/run/pakdepot/control.sock"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return Root().Execute(os.Args[1:])
}

// Root builds the complete pakdepot CLI command tree.
func Root() *cli.Command {
	return &cli.Command{
		Name: "pakdepot",
		Description: `Pakdepot: checksum-addressed asset distribution for game servers.

Operate a running pakdepot-server over its control socket: check
health, trigger manifest rebuilds, and review build history.`,
		Subcommands: []*cli.Command{
			statusCommand(),
			rebuildCommand(),
			buildsCommand(),
			manifestCommand(),
			{
				Name:    "version",
				Summary: "Print version information",
				Run: func(args []string) error {
					fmt.Printf("pakdepot %s\n", version.Full())
					return nil
				},
			},
		},
		Examples: []cli.Example{
			{
				Description: "Check the running server",
				Command:     "pakdepot status",
			},
			{
				Description: "Pick up newly uploaded assets",
				Command:     "pakdepot rebuild",
			},
			{
				Description: "Review the last five builds",
				Command:     "pakdepot builds --limit 5",
			},
			{
				Description: "Dump the manifest as JSON for scripting",
				Command:     "pakdepot manifest --json",
			},
			{
				Description: "Talk to a development server",
				Command:     "pakdepot status --socket /tmp/depot/control.sock",
			},
		},
	}
}

// defaultSocketPath returns the control socket path used when --socket
// is not given: PAKDEPOT_SOCKET if set, otherwise the system default.
func defaultSocketPath() string {
	if path := os.Getenv("PAKDEPOT_SOCKET"); path != "" {
		return path
	}
	return systemSocketPath
}

// socketFlag registers the shared --socket flag.
func socketFlag(flagSet *pflag.FlagSet, socketPath *string) {
	flagSet.StringVar(socketPath, "socket", defaultSocketPath(), "control socket path")
}
