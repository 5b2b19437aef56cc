/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package clientcmd holds the commands that talk to a running registry node.
package clientcmd

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"

	"github.com/trustbloc/besu-vdr/pkg/client"
	"github.com/trustbloc/besu-vdr/pkg/contract"
	"github.com/trustbloc/besu-vdr/pkg/contract/auth"
	"github.com/trustbloc/besu-vdr/pkg/ledger/rpc"
	"github.com/trustbloc/besu-vdr/pkg/signer"
)

const commonEnvVarUsageText = " Alternatively, this can be set with the following environment variable: "

const (
	nodeURLFlagName  = "node-url"
	nodeURLEnvKey    = "VDR_NODE_URL"
	nodeURLFlagUsage = "Base URL of the registry node, e.g. http://localhost:8070." +
		commonEnvVarUsageText + nodeURLEnvKey

	signerKeyFlagName  = "key"
	signerKeyEnvKey    = "VDR_SIGNER_KEY"
	signerKeyFlagUsage = "Hex-encoded secp256k1 private key used to sign transactions." +
		commonEnvVarUsageText + signerKeyEnvKey
)

// GetCmds returns all node client commands.
func GetCmds() []*cobra.Command {
	return []*cobra.Command{
		getPingCmd(),
		getGetRoleCmd(),
		getAssignRoleCmd(),
		getResolveDidCmd(),
		getResolveSchemaCmd(),
	}
}

func newClient(cmd *cobra.Command) (*client.LedgerClient, error) {
	nodeURL, err := cmdutils.GetUserSetVarFromString(cmd, nodeURLFlagName, nodeURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	return client.NewLedgerClient(rpc.NewNodeClient(nodeURL, nil), contract.AddressBook()), nil
}

func newSigner(cmd *cobra.Command) (*signer.BasicSigner, common.Address, error) {
	keyHex, err := cmdutils.GetUserSetVarFromString(cmd, signerKeyFlagName, signerKeyEnvKey, false)
	if err != nil {
		return nil, common.Address{}, err
	}

	s := signer.NewBasicSigner()

	account, err := s.ImportKey(keyHex)
	if err != nil {
		return nil, common.Address{}, err
	}

	return s, account, nil
}

func addNodeURLFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(nodeURLFlagName, "", "", nodeURLFlagUsage)
}

func addSignerKeyFlag(cmd *cobra.Command) {
	cmd.Flags().StringP(signerKeyFlagName, "", "", signerKeyFlagUsage)
}

func getPingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "ping",
		Short:        "Check node liveness",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			status, err := c.Ping(context.Background())
			if err != nil {
				return err
			}

			return printJSON(cmd, status)
		},
	}

	addNodeURLFlag(cmd)

	return cmd
}

func getGetRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "get-role [account]",
		Short:        "Get the role held by an account",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			role, err := c.GetRole(context.Background(), common.HexToAddress(args[0]))
			if err != nil {
				return err
			}

			cmd.Println(role.String())

			return nil
		},
	}

	addNodeURLFlag(cmd)

	return cmd
}

func getAssignRoleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "assign-role [role] [account]",
		Short:        "Assign a role to an account",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			s, from, err := newSigner(cmd)
			if err != nil {
				return err
			}

			role, err := auth.ParseRole(args[0])
			if err != nil {
				return err
			}

			receipt, err := c.AssignRole(context.Background(), s, from, role,
				common.HexToAddress(args[1]))
			if err != nil {
				return err
			}

			return printJSON(cmd, receipt)
		},
	}

	addNodeURLFlag(cmd)
	addSignerKeyFlag(cmd)

	return cmd
}

func getResolveDidCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "resolve-did [identity]",
		Short:        "Resolve a record-method DID",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			record, err := c.ResolveDid(context.Background(), common.HexToAddress(args[0]))
			if err != nil {
				return err
			}

			return printJSON(cmd, record)
		},
	}

	addNodeURLFlag(cmd)

	return cmd
}

func getResolveSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "resolve-schema [id]",
		Short:        "Resolve a schema by its id",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newClient(cmd)
			if err != nil {
				return err
			}

			record, err := c.ResolveSchema(context.Background(), args[0])
			if err != nil {
				return err
			}

			return printJSON(cmd, record)
		},
	}

	addNodeURLFlag(cmd)

	return cmd
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	cmd.Println(string(b))

	return nil
}
