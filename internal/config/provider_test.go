package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/mintctl/internal/domain"
	"github.com/trebuchet-org/mintctl/internal/domain/config"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestProvider_Defaults(t *testing.T) {
	dir := t.TempDir()

	v, err := SetupViper(dir, nil)
	require.NoError(t, err)
	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.ProjectRoot)
	assert.Equal(t, filepath.Join(dir, ".mintctl"), cfg.DataDir)
	assert.Empty(t, cfg.RPCURL)
	assert.Equal(t, domain.ChainID("0xaa36a7"), cfg.RequiredChainID)
	require.NotNil(t, cfg.RequiredNetwork)
	assert.Equal(t, "sepolia", cfg.RequiredNetwork.Name)
	assert.Equal(t, common.HexToAddress(config.DefaultContractAddress), cfg.Contract.Address)
	assert.Equal(t, config.DefaultMintMethod, cfg.Contract.MintMethod)
	assert.Equal(t, config.DefaultCountMethod, cfg.Contract.CountMethod)
	assert.Equal(t, config.DefaultMintEvent, cfg.Contract.MintEvent)
	assert.Equal(t, uint64(config.DefaultTotalSupply), cfg.Contract.TotalSupply)
	assert.Equal(t, config.ResolverEvent, cfg.Resolver)
	assert.Equal(t, 5*time.Minute, cfg.ConfirmationTimeout)
	assert.Equal(t, 2*time.Second, cfg.PollInterval)
	assert.Equal(t, 4*time.Second, cfg.WatchInterval)
	assert.False(t, cfg.RevalidateAfterSwitch)
	assert.Empty(t, cfg.ConfigSource)
}

const projectTOML = `
[network]
required_chain = "devnet"
rpc_url = "http://127.0.0.1:8545"
revalidate_after_switch = true

[contract]
address = "0x00000000000000000000000000000000000000aa"
abi = "out/Epic.sol/Epic.json"
total_supply = 100

[mint]
resolver = "poll"
confirmation_timeout = "90s"
poll_interval = "500ms"

[networks.devnet]
chain_id = "1337"
explorer_url = "https://scan.devnet.local"
testnet = true
`

func TestProvider_ProjectFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), projectTOML)

	v, err := SetupViper(dir, nil)
	require.NoError(t, err)
	cfg, err := Provider(v)
	require.NoError(t, err)

	assert.Equal(t, ProjectFileName, cfg.ConfigSource)
	assert.Equal(t, "http://127.0.0.1:8545", cfg.RPCURL)
	assert.True(t, cfg.RevalidateAfterSwitch)
	assert.Equal(t, common.HexToAddress("0xaa"), cfg.Contract.Address)
	assert.Equal(t, "out/Epic.sol/Epic.json", cfg.Contract.ABIPath)
	assert.Equal(t, uint64(100), cfg.Contract.TotalSupply)
	assert.Equal(t, config.ResolverPoll, cfg.Resolver)
	assert.Equal(t, 90*time.Second, cfg.ConfirmationTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.PollInterval)

	assert.Equal(t, domain.ChainID("0x539"), cfg.RequiredChainID)
	require.NotNil(t, cfg.RequiredNetwork)
	assert.Equal(t, "devnet", cfg.RequiredNetwork.Name)
	require.Contains(t, cfg.Networks, "devnet")
	assert.True(t, cfg.Networks["devnet"].Testnet)
}

func TestProvider_Precedence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ProjectFileName), projectTOML)
	writeFile(t, filepath.Join(dir, ".mintctl", "config.local.json"), `{"poll_interval": "750ms", "confirmation_timeout": "2m"}`)
	t.Setenv("MINTCTL_CONFIRMATION_TIMEOUT", "3m")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("required-chain", "", "")
	require.NoError(t, cmd.Flags().Set("required-chain", "mainnet"))

	v, err := SetupViper(dir, cmd)
	require.NoError(t, err)
	cfg, err := Provider(v)
	require.NoError(t, err)

	// local json over mintctl.toml
	assert.Equal(t, 750*time.Millisecond, cfg.PollInterval)
	// env over local json
	assert.Equal(t, 3*time.Minute, cfg.ConfirmationTimeout)
	// flag over everything
	assert.Equal(t, domain.ChainID("0x1"), cfg.RequiredChainID)
}

func TestProvider_DotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "MINTCTL_IPFS_GATEWAY=https://gw.from-dotenv.example/ipfs/\n")
	t.Cleanup(func() { os.Unsetenv("MINTCTL_IPFS_GATEWAY") })

	v, err := SetupViper(dir, nil)
	require.NoError(t, err)
	cfg, err := Provider(v)
	require.NoError(t, err)
	assert.Equal(t, "https://gw.from-dotenv.example/ipfs/", cfg.IPFSGateway)
}

func TestProvider_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"resolver", map[string]string{"MINTCTL_RESOLVER": "magic"}, "invalid resolver"},
		{"duration", map[string]string{"MINTCTL_POLL_INTERVAL": "0s"}, "invalid poll_interval"},
		{"address", map[string]string{"MINTCTL_CONTRACT_ADDRESS": "0x123"}, "invalid contract address"},
		{"chain", map[string]string{"MINTCTL_REQUIRED_CHAIN": "sepola"}, "did you mean"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, val := range tt.env {
				t.Setenv(k, val)
			}
			v, err := SetupViper(t.TempDir(), nil)
			require.NoError(t, err)
			_, err = Provider(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadProjectConfig(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		cfg, err := loadProjectConfig(t.TempDir())
		require.NoError(t, err)
		assert.Nil(t, cfg)
	})

	t.Run("expands env vars", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("TEST_WALLET_RPC", "http://wallet.local:8545")
		writeFile(t, filepath.Join(dir, ProjectFileName), "[network]\nrpc_url = \"${TEST_WALLET_RPC}\"\n")

		cfg, err := loadProjectConfig(dir)
		require.NoError(t, err)
		require.NotNil(t, cfg)
		assert.Equal(t, "http://wallet.local:8545", cfg.Network.RPCURL)
	})

	t.Run("malformed", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, filepath.Join(dir, ProjectFileName), "[network\n")
		_, err := loadProjectConfig(dir)
		assert.ErrorContains(t, err, "failed to parse mintctl.toml")
	})
}
