/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"github.com/trustbloc/logutil-go/pkg/log"

	"github.com/trustbloc/besu-vdr/internal/logfields"
	"github.com/trustbloc/besu-vdr/pkg/contract"
	"github.com/trustbloc/besu-vdr/pkg/ledger"
	"github.com/trustbloc/besu-vdr/pkg/ledger/rpc"
)

var logger = log.New("vdr-start")

// GetStartCmd returns the command that runs a registry node.
func GetStartCmd() *cobra.Command {
	startCmd := &cobra.Command{
		Use:          "start",
		Short:        "Start a registry node",
		Long:         "Start an in-process ledger node hosting the registry contract suite",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			params, err := getStartParameters(cmd)
			if err != nil {
				return err
			}

			return startNode(params)
		},
	}

	createFlags(startCmd)

	return startCmd
}

func startNode(params *startParameters) error {
	engine := ledger.NewMemoryLedger(ledger.NewStore())

	if _, err := contract.Deploy(engine, params.trustees); err != nil {
		return err
	}

	e := echo.New()
	e.HideBanner = true

	rpc.Register(e, engine)

	logger.Info("starting registry node", logfields.WithNode(params.hostURL))

	if params.tlsCertFile != "" {
		return e.StartTLS(params.hostURL, params.tlsCertFile, params.tlsKeyFile)
	}

	return e.Start(params.hostURL)
}
