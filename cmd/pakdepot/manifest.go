// Copyright 2026 The Pakdepot Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/pakdepot/pakdepot/cmd/pakdepot/cli"
	"github.com/pakdepot/pakdepot/lib/control"
	"github.com/pakdepot/pakdepot/lib/service"
)

func manifestCommand() *cli.Command {
	var socketPath string
	var outputJSON bool

	return &cli.Command{
		Name:    "manifest",
		Summary: "Dump the published manifest entries",
		Usage:   "pakdepot manifest [flags]",
		Description: `List every asset in the published manifest with its checksum and
sizes. Checksums print in decimal, the same form clients put in
download paths.`,
		Examples: []cli.Example{
			{
				Description: "Eyeball the published assets",
				Command:     "pakdepot manifest",
			},
			{
				Description: "Feed the manifest to jq",
				Command:     "pakdepot manifest --json | jq '.entries[].name'",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("manifest", pflag.ContinueOnError)
			socketFlag(flagSet, &socketPath)
			flagSet.BoolVar(&outputJSON, "json", false, "output as JSON instead of a table")
			return flagSet
		},
		Run: func(args []string) error {
			client := service.NewClient(socketPath)

			var response control.ManifestResponse
			if err := client.Call(context.Background(), control.ActionManifest, nil, &response); err != nil {
				return err
			}

			if outputJSON {
				return cli.WriteJSON(response)
			}

			if len(response.Entries) == 0 {
				fmt.Fprintln(os.Stderr, "manifest is empty")
				return nil
			}

			writer := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
			fmt.Fprintf(writer, "NAME\tCHECKSUM\tSIZE\tCOMPRESSED\n")
			for _, entry := range response.Entries {
				fmt.Fprintf(writer, "%s\t%d\t%s\t%s\n",
					entry.Name,
					entry.Checksum,
					formatSize(entry.Size),
					formatSize(entry.CompressedSize),
				)
			}
			return writer.Flush()
		},
	}
}
