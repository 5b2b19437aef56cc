/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	cmdutils "github.com/trustbloc/cmdutil-go/pkg/utils/cmd"
)

const commonEnvVarUsageText = " Alternatively, this can be set with the following environment variable: "

const (
	hostURLFlagName      = "host-url"
	hostURLFlagShorthand = "u"
	hostURLEnvKey        = "VDR_HOST_URL"
	hostURLFlagUsage     = "Host and port the node listens on, e.g. localhost:8070." +
		commonEnvVarUsageText + hostURLEnvKey

	trusteeFlagName  = "genesis-trustee"
	trusteeEnvKey    = "VDR_GENESIS_TRUSTEE"
	trusteeFlagUsage = "Account address seeded with the trustee role at genesis. Repeatable." +
		commonEnvVarUsageText + trusteeEnvKey

	tlsCertFileFlagName  = "tls-cert-file"
	tlsCertFileEnvKey    = "VDR_TLS_CERT_FILE"
	tlsCertFileFlagUsage = "TLS certificate the node serves with. Optional." +
		commonEnvVarUsageText + tlsCertFileEnvKey

	tlsKeyFileFlagName  = "tls-key-file"
	tlsKeyFileEnvKey    = "VDR_TLS_KEY_FILE"
	tlsKeyFileFlagUsage = "Private key for the TLS certificate. Optional." +
		commonEnvVarUsageText + tlsKeyFileEnvKey
)

type startParameters struct {
	hostURL     string
	trustees    []common.Address
	tlsCertFile string
	tlsKeyFile  string
}

func getStartParameters(cmd *cobra.Command) (*startParameters, error) {
	hostURL, err := cmdutils.GetUserSetVarFromString(cmd, hostURLFlagName, hostURLEnvKey, false)
	if err != nil {
		return nil, err
	}

	trusteeHexes, err := cmdutils.GetUserSetVarFromArrayString(cmd, trusteeFlagName,
		trusteeEnvKey, false)
	if err != nil {
		return nil, err
	}

	trustees := make([]common.Address, 0, len(trusteeHexes))

	for _, hex := range trusteeHexes {
		if !common.IsHexAddress(hex) {
			return nil, fmt.Errorf("invalid trustee address %q", hex)
		}

		trustees = append(trustees, common.HexToAddress(hex))
	}

	tlsCertFile, err := cmdutils.GetUserSetVarFromString(cmd, tlsCertFileFlagName,
		tlsCertFileEnvKey, true)
	if err != nil {
		return nil, err
	}

	tlsKeyFile, err := cmdutils.GetUserSetVarFromString(cmd, tlsKeyFileFlagName,
		tlsKeyFileEnvKey, true)
	if err != nil {
		return nil, err
	}

	if (tlsCertFile == "") != (tlsKeyFile == "") {
		return nil, fmt.Errorf("%s and %s must be provided together",
			tlsCertFileFlagName, tlsKeyFileFlagName)
	}

	return &startParameters{
		hostURL:     hostURL,
		trustees:    trustees,
		tlsCertFile: tlsCertFile,
		tlsKeyFile:  tlsKeyFile,
	}, nil
}

func createFlags(startCmd *cobra.Command) {
	startCmd.Flags().StringP(hostURLFlagName, hostURLFlagShorthand, "", hostURLFlagUsage)
	startCmd.Flags().StringArrayP(trusteeFlagName, "", []string{}, trusteeFlagUsage)
	startCmd.Flags().StringP(tlsCertFileFlagName, "", "", tlsCertFileFlagUsage)
	startCmd.Flags().StringP(tlsKeyFileFlagName, "", "", tlsKeyFileFlagUsage)
}
