/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package main is the besu-vdr command line: it runs a registry node and
// talks to one.
package main

import (
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/besu-vdr/cmd/vdr/clientcmd"
	"github.com/trustbloc/besu-vdr/cmd/vdr/startcmd"
)

var logger = log.New("vdr")

func main() {
	rootCmd := &cobra.Command{
		Use: "vdr",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.HelpFunc()(cmd, args)
		},
	}

	rootCmd.AddCommand(startcmd.GetStartCmd())
	rootCmd.AddCommand(clientcmd.GetCmds()...)

	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("Failed to run vdr", log.WithError(err))
	}
}
