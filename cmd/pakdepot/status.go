// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/pakdepot/pakdepot/cmd/pakdepot/cli"
	"github.com/pakdepot/pakdepot/lib/control"
	"github.com/pakdepot/pakdepot/lib/service"
)

func statusCommand() *cli.Command {
	var socketPath string
	var outputJSON bool

	return &cli.Command{
		Name:    "status",
		Summary: "Show server health and manifest summary",
		Usage:   "pakdepot status [flags]",
		Description: `Show the running server's version, uptime, published manifest, and
cache counters.`,
		Examples: []cli.Example{
			{
				Description: "Human-readable status",
				Command:     "pakdepot status",
			},
			{
				Description: "Status as JSON for monitoring scripts",
				Command:     "pakdepot status --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("status", pflag.ContinueOnError)
			socketFlag(flagSet, &socketPath)
			flagSet.BoolVar(&outputJSON, "json", false, "output as JSON instead of a table")
			return flagSet
		},
		Run: func(args []string) error {
			client := service.NewClient(socketPath)

			var response control.StatusResponse
			if err := client.Call(context.Background(), control.ActionStatus, nil, &response); err != nil {
				return err
			}

			if outputJSON {
				return cli.WriteJSON(response)
			}

			writer := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintf(writer, "Version:\t%s\n", response.Version)
			fmt.Fprintf(writer, "Started:\t%s\n", formatUnix(response.StartedAt))
			fmt.Fprintf(writer, "Uptime:\t%s\n", time.Duration(response.UptimeSeconds)*time.Second)
			fmt.Fprintf(writer, "Content root:\t%s\n", response.ContentRoot)
			fmt.Fprintf(writer, "Assets:\t%d\n", response.Manifest.Assets)
			fmt.Fprintf(writer, "Total size:\t%s\n", formatSize(response.Manifest.TotalBytes))
			fmt.Fprintf(writer, "Compressed:\t%s\n", formatSize(response.Manifest.TotalCompressed))
			fmt.Fprintf(writer, "Generated:\t%s\n", formatUnix(response.Manifest.GeneratedAt))
			fmt.Fprintf(writer, "Digest:\t%s\n", response.Manifest.Digest)
			if response.RescanInterval != "" {
				fmt.Fprintf(writer, "Rescan every:\t%s\n", response.RescanInterval)
			}
			if cache := response.Cache; cache != nil {
				fmt.Fprintf(writer, "Cache:\t%d entries, %s\n", cache.Entries, formatSize(cache.StoredBytes))
				fmt.Fprintf(writer, "Cache hits:\t%d\n", cache.Hits)
				fmt.Fprintf(writer, "Cache misses:\t%d\n", cache.Misses)
				fmt.Fprintf(writer, "Cache evictions:\t%d\n", cache.Evictions)
			}
			return writer.Flush()
		},
	}
}
