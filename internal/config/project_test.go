package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoadProjectConfig_BrownieYAML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("P2P_TEST_FROM_KEY", "0xabc")
	writeFile(t, dir, ProjectConfigFile, `
wallets:
  from_key: ${P2P_TEST_FROM_KEY}
networks:
  default: sepolia
  sepolia:
    host: https://rpc.sepolia.example
    chainid: 11155111
    gas_price: "2 gwei"
dev_deployment_artifacts: true
`)

	project, err := LoadProjectConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "0xabc", project.Wallets.FromKey)
	assert.Equal(t, "sepolia", project.Networks.Default)
	require.Contains(t, project.Networks.Settings, "sepolia")
	assert.Equal(t, "https://rpc.sepolia.example", project.Networks.Settings["sepolia"].Host)
	assert.Equal(t, uint64(11155111), project.Networks.Settings["sepolia"].ChainID)
	assert.Equal(t, "2 gwei", project.Networks.Settings["sepolia"].GasPrice)
	assert.True(t, project.DevDeploymentArtifacts)
	assert.Equal(t, []string{ProjectConfigFile}, project.ConfigSource)
	assert.Nil(t, project.Foundry)
}

func TestLoadProjectConfig_DotenvExpansion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "deploy.env", "P2P_TEST_DOTENV_KEY=0xfeed\n")
	writeFile(t, dir, ProjectConfigFile, `
dotenv: deploy.env
wallets:
  from_key: ${P2P_TEST_DOTENV_KEY}
`)
	t.Cleanup(func() { os.Unsetenv("P2P_TEST_DOTENV_KEY") })

	project, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "0xfeed", project.Wallets.FromKey)
}

func TestLoadProjectConfig_Foundry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("P2P_TEST_RPC", "https://mainnet.example")
	writeFile(t, dir, FoundryConfigFile, `
[profile.default]
src = "src"
out = "artifacts"

[rpc_endpoints]
mainnet = "${P2P_TEST_RPC}"

[etherscan]
mainnet = { key = "k", url = "https://etherscan.example" }
`)

	project, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	require.NotNil(t, project.Foundry)

	assert.Equal(t, "https://mainnet.example", project.Foundry.RpcEndpoints["mainnet"])
	assert.Equal(t, "https://etherscan.example", project.Foundry.Etherscan["mainnet"].URL)
	assert.Equal(t, "artifacts", project.Foundry.OutDir())
	assert.Equal(t, []string{FoundryConfigFile}, project.ConfigSource)
	assert.NotNil(t, project.Networks.Settings)
}

func TestLoadProjectConfig_InvalidNetworks(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ProjectConfigFile, "networks: [a, b]\n")

	_, err := LoadProjectConfig(dir)
	assert.Error(t, err)
}

func TestLoadProjectConfig_Empty(t *testing.T) {
	project, err := LoadProjectConfig(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, project.ConfigSource)
	assert.Empty(t, project.Networks.Settings)
}

func TestLoadProjectConfig_OnlyBracedVarsExpand(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("P2P_TEST_TOKEN", "abc")
	writeFile(t, dir, ProjectConfigFile, `
networks:
  sepolia:
    host: https://rpc.example/${P2P_TEST_TOKEN}/$P2P_TEST_TOKEN/$
`)

	project, err := LoadProjectConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "https://rpc.example/abc/$P2P_TEST_TOKEN/$", project.Networks.Settings["sepolia"].Host)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("P2P_TEST_SET", "value")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"braced", "${P2P_TEST_SET}", "value"},
		{"embedded", "a-${P2P_TEST_SET}-b", "a-value-b"},
		{"unset braced", "${P2P_TEST_UNSET_VAR}", ""},
		{"bare", "$P2P_TEST_SET", "$P2P_TEST_SET"},
		{"literal dollar", "pa$$word", "pa$$word"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, expandEnvVars(tt.input))
		})
	}
}
