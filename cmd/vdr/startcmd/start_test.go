/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package startcmd

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGetStartCmd(t *testing.T) {
	startCmd := GetStartCmd()

	require.Equal(t, "start", startCmd.Use)
	require.NotEmpty(t, startCmd.Short)
	require.NotEmpty(t, startCmd.Long)
	require.NotNil(t, startCmd.Flags().Lookup(hostURLFlagName))
	require.NotNil(t, startCmd.Flags().Lookup(trusteeFlagName))
	require.NotNil(t, startCmd.Flags().Lookup(tlsCertFileFlagName))
	require.NotNil(t, startCmd.Flags().Lookup(tlsKeyFileFlagName))
}

func TestStartCmd_MissingHostURL(t *testing.T) {
	startCmd := GetStartCmd()
	startCmd.SetArgs([]string{})

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), hostURLFlagName)
}

func TestStartCmd_TLSCertWithoutKey(t *testing.T) {
	startCmd := GetStartCmd()
	startCmd.SetArgs([]string{
		"--host-url", "localhost:8070",
		"--genesis-trustee", "0x1111111111111111111111111111111111111111",
		"--tls-cert-file", "/tmp/node.crt",
	})

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "must be provided together")
}

func TestStartCmd_InvalidTrustee(t *testing.T) {
	startCmd := GetStartCmd()
	startCmd.SetArgs([]string{
		"--host-url", "localhost:8070",
		"--genesis-trustee", "not-an-address",
	})

	err := startCmd.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid trustee address")
}
