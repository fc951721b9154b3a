// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/pakdepot/pakdepot/cmd/pakdepot/cli"
	"github.com/pakdepot/pakdepot/lib/control"
	"github.com/pakdepot/pakdepot/lib/service"
)

func rebuildCommand() *cli.Command {
	var socketPath string
	var outputJSON bool

	return &cli.Command{
		Name:    "rebuild",
		Summary: "Rescan the content root and publish a new manifest",
		Usage:   "pakdepot rebuild [flags]",
		Description: `Ask the server to rescan its content root now and publish the
resulting manifest. Use this after uploading or removing assets.

The command blocks until the build finishes. On large content roots
this can take a while; the server keeps serving the old manifest until
the new one is published. A failed build leaves the published manifest
untouched and is reported as an error.`,
		Examples: []cli.Example{
			{
				Description: "Publish freshly uploaded maps",
				Command:     "pakdepot rebuild",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("rebuild", pflag.ContinueOnError)
			socketFlag(flagSet, &socketPath)
			flagSet.BoolVar(&outputJSON, "json", false, "output as JSON instead of text")
			return flagSet
		},
		Run: func(args []string) error {
			logger := cli.NewCommandLogger().With("command", "rebuild")
			logger.Info("requesting manifest rebuild", "socket", socketPath)

			client := service.NewClient(socketPath)

			var response control.RebuildResponse
			if err := client.Call(context.Background(), control.ActionRebuild, nil, &response); err != nil {
				return err
			}

			if outputJSON {
				return cli.WriteJSON(response)
			}

			duration := time.Duration(response.DurationMS) * time.Millisecond
			fmt.Printf("published manifest with %d assets in %s\n", response.Assets, duration)
			fmt.Printf("digest: %s\n", response.Digest)
			return nil
		},
	}
}
