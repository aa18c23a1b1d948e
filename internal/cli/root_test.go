package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"gopkg.in/yaml.v3"
)

// runCmd executes the root command in an empty project directory
func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true

	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("MINTCTL_RPC_URL", "")
	t.Setenv("MINTCTL_REQUIRED_CHAIN", "")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()

	expected := []string{"connect", "chain", "mint", "watch", "status", "networks", "version"}
	for _, name := range expected {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	for _, flag := range []string{"debug", "non-interactive", "json", "yes", "rpc-url", "required-chain", "contract-address", "resolver", "timeout"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), flag)
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "mintctl version dev")
}

func TestNetworksCmd_JSON(t *testing.T) {
	out, err := runCmd(t, "networks", "--json")
	require.NoError(t, err)

	var networks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &networks))
	assert.NotEmpty(t, networks)

	var required []string
	for _, n := range networks {
		if n["required"] == true {
			required = append(required, n["name"].(string))
		}
	}
	assert.Equal(t, []string{"sepolia"}, required)
}

func TestNetworksCmd_RequiredChainFlag(t *testing.T) {
	out, err := runCmd(t, "networks", "--json", "--required-chain", "base")
	require.NoError(t, err)

	var networks []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &networks))
	for _, n := range networks {
		if n["required"] == true {
			assert.Equal(t, "base", n["name"])
		}
	}
}

func TestNetworksCmd_ProjectNetworks(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mintctl.toml"), []byte(`
[network]
required_chain = "devnet"

[networks.devnet]
chain_id = "1337"
explorer_url = "http://localhost:4000"
testnet = true
`), 0644))
	t.Chdir(dir)
	t.Setenv("MINTCTL_RPC_URL", "")
	t.Setenv("MINTCTL_REQUIRED_CHAIN", "")

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"networks"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "devnet")
	assert.Contains(t, out.String(), "1337")
	assert.Contains(t, out.String(), "0x539")
}

func TestStatusCmd_WithoutWallet(t *testing.T) {
	out, err := runCmd(t, "status", "--output", "yaml")
	require.NoError(t, err)

	var status map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &status))
	assert.Equal(t, false, status["providerPresent"])
	assert.Equal(t, "0xaa36a7", status["requiredChainId"])
	assert.Equal(t, "sepolia", status["requiredNetwork"])
}

func TestStatusCmd_InvalidOutput(t *testing.T) {
	_, err := runCmd(t, "status", "--output", "xml")
	assert.ErrorContains(t, err, "unknown output format")
}

func TestChainCmd_UnknownNetwork(t *testing.T) {
	_, err := runCmd(t, "chain", "sepolai")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
	assert.Contains(t, err.Error(), "sepolia")
}

func TestRootCmd_ReleasesOnFailure(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("MINTCTL_RPC_URL", "")
	t.Setenv("MINTCTL_REQUIRED_CHAIN", "")

	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"chain", "sepolai"})
	require.Error(t, root.Execute())

	chainCmd, _, err := root.Find([]string{"chain"})
	require.NoError(t, err)
	require.NotNil(t, chainCmd.Context())
	assert.ErrorIs(t, chainCmd.Context().Err(), context.Canceled)
}

func TestChainCmd_WithoutWallet(t *testing.T) {
	_, err := runCmd(t, "chain", "--non-interactive")
	assert.ErrorIs(t, err, domain.ErrProviderAbsent)
}

func TestMintCmd_WithoutWallet(t *testing.T) {
	_, err := runCmd(t, "mint", "--yes")
	assert.ErrorIs(t, err, domain.ErrProviderAbsent)
}

func TestInvalidConfig(t *testing.T) {
	_, err := runCmd(t, "status", "--resolver", "guess")
	assert.ErrorContains(t, err, "failed to initialize app")
}
