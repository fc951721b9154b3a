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

func buildsCommand() *cli.Command {
	var socketPath string
	var outputJSON bool
	var limit int

	return &cli.Command{
		Name:    "builds",
		Summary: "Show recent build history",
		Usage:   "pakdepot builds [flags]",
		Description: `List recent manifest builds from the server's build ledger, newest
first. Failed builds appear with their error in the --json output.

Requires the server to run with a build ledger configured (the
default). Servers with buildlog.path set to the empty string refuse
this command.`,
		Examples: []cli.Example{
			{
				Description: "The last twenty builds",
				Command:     "pakdepot builds",
			},
			{
				Description: "Only the most recent build, with error detail",
				Command:     "pakdepot builds --limit 1 --json",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("builds", pflag.ContinueOnError)
			socketFlag(flagSet, &socketPath)
			flagSet.BoolVar(&outputJSON, "json", false, "output as JSON instead of a table")
			flagSet.IntVar(&limit, "limit", 0, "maximum number of builds to show (0 = server default)")
			return flagSet
		},
		Run: func(args []string) error {
			client := service.NewClient(socketPath)

			fields := map[string]any{}
			if limit > 0 {
				fields["limit"] = limit
			}

			var response control.BuildsResponse
			if err := client.Call(context.Background(), control.ActionBuilds, fields, &response); err != nil {
				return err
			}

			if outputJSON {
				return cli.WriteJSON(response.Builds)
			}

			if len(response.Builds) == 0 {
				fmt.Fprintln(os.Stderr, "no builds recorded")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "STARTED\tREASON\tRESULT\tASSETS\tSIZE\tDURATION\n")
			for _, build := range response.Builds {
				result := "ok"
				if !build.Success {
					result = "failed"
				}
				fmt.Fprintf(writer, "%s\t%s\t%s\t%d\t%s\t%s\n",
					formatUnix(build.StartedAt),
					build.Reason,
					result,
					build.Assets,
					formatSize(build.TotalBytes),
					time.Duration(build.DurationMS)*time.Millisecond,
				)
			}
			return writer.Flush()
		},
	}
}
