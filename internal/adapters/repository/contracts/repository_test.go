package contracts

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
)

const (
	brownieArtifact = `{
  "contractName": "P2pErc20Trader",
  "sourcePath": "contracts/P2pErc20Trader.sol",
  "abi": [{"type":"constructor","inputs":[],"stateMutability":"nonpayable"}],
  "bytecode": "6001600c60003960016000f300"
}`
	foundryArtifact = `{
  "abi": [],
  "bytecode": {"object": "0x6001600c60003960016000f300", "linkReferences": {}}
}`
)

func writeArtifact(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestRepository(root string, foundry bool) *Repository {
	cfg := &config.RuntimeConfig{ProjectRoot: root, Project: &config.ProjectConfig{}}
	if foundry {
		cfg.Project.Foundry = &config.FoundryConfig{}
	}
	return NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func stubForgeBuild(t *testing.T, fn func(ctx context.Context, root string) error) *int {
	t.Helper()
	calls := 0
	orig := runForgeBuild
	runForgeBuild = func(ctx context.Context, root string) error {
		calls++
		return fn(ctx, root)
	}
	t.Cleanup(func() { runForgeBuild = orig })
	return &calls
}

func TestRepository_BrownieLayout(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "build/contracts/P2pErc20Trader.json", brownieArtifact)

	artifact, err := newTestRepository(root, false).Get(context.Background(), "P2pErc20Trader")
	require.NoError(t, err)
	assert.Equal(t, "P2pErc20Trader", artifact.ContractName)
	assert.Equal(t, "contracts/P2pErc20Trader.sol", artifact.SourcePath)
	assert.Equal(t, filepath.Join("build", "contracts", "P2pErc20Trader.json"), artifact.Path)
	assert.NotEmpty(t, artifact.CreationCode())

	parsed, err := artifact.ParsedABI()
	require.NoError(t, err)
	assert.Empty(t, parsed.Constructor.Inputs)
}

func TestRepository_FoundryLayout(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "out/P2pErc20Trader.sol/P2pErc20Trader.json", foundryArtifact)

	artifact, err := newTestRepository(root, true).Get(context.Background(), "P2pErc20Trader")
	require.NoError(t, err)
	assert.Equal(t, "P2pErc20Trader", artifact.ContractName)
	assert.Equal(t, []byte{0x60, 0x01, 0x60, 0x0c, 0x60, 0x00, 0x39, 0x60, 0x01, 0x60, 0x00, 0xf3, 0x00}, artifact.CreationCode())
}

func TestRepository_FoundryWalk(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "out/Trader.sol/P2pErc20Trader.json", foundryArtifact)
	writeArtifact(t, root, "out/build-info/P2pErc20Trader.json", foundryArtifact)

	artifact, err := newTestRepository(root, true).Get(context.Background(), "P2pErc20Trader")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "Trader.sol", "P2pErc20Trader.json"), artifact.Path)
}

func TestRepository_Ambiguous(t *testing.T) {
	root := t.TempDir()
	writeArtifact(t, root, "out/A.sol/P2pErc20Trader.json", foundryArtifact)
	writeArtifact(t, root, "out/B.sol/P2pErc20Trader.json", foundryArtifact)

	_, err := newTestRepository(root, true).Get(context.Background(), "P2pErc20Trader")
	var ambiguous domain.AmbiguousArtifactErr
	require.True(t, errors.As(err, &ambiguous))
	assert.Len(t, ambiguous.Paths, 2)
}

func TestRepository_InvalidBytecode(t *testing.T) {
	tests := []struct {
		name     string
		artifact string
		errMsg   string
	}{
		{
			name:     "interface",
			artifact: `{"abi": [], "bytecode": {"object": "0x"}}`,
			errMsg:   "no creation bytecode",
		},
		{
			name:     "unlinked library",
			artifact: `{"abi": [], "bytecode": "6080__$a1b2c3$__6000"}`,
			errMsg:   "unlinked library",
		},
		{
			name:     "link references",
			artifact: `{"abi": [], "bytecode": {"object": "0x6080", "linkReferences": {"src/Lib.sol": {}}}}`,
			errMsg:   "unlinked library",
		},
		{
			name:     "malformed",
			artifact: `{"abi": `,
			errMsg:   "invalid artifact",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeArtifact(t, root, "build/contracts/P2pErc20Trader.json", tt.artifact)

			_, err := newTestRepository(root, false).Get(context.Background(), "P2pErc20Trader")
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidArtifact)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestRepository_NotFound(t *testing.T) {
	calls := stubForgeBuild(t, func(context.Context, string) error { return nil })

	_, err := newTestRepository(t.TempDir(), false).Get(context.Background(), "P2pErc20Trader")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	assert.Equal(t, 0, *calls, "forge build only runs for foundry projects")
}

func TestRepository_BuildsOnceWhenMissing(t *testing.T) {
	root := t.TempDir()
	calls := stubForgeBuild(t, func(_ context.Context, dir string) error {
		writeArtifact(t, dir, "out/P2pErc20Trader.sol/P2pErc20Trader.json", foundryArtifact)
		return nil
	})

	repo := newTestRepository(root, true)
	artifact, err := repo.Get(context.Background(), "P2pErc20Trader")
	require.NoError(t, err)
	assert.Equal(t, "P2pErc20Trader", artifact.ContractName)

	_, err = repo.Get(context.Background(), "Missing")
	assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	assert.Equal(t, 1, *calls)
}

func TestRepository_BuildFailure(t *testing.T) {
	stubForgeBuild(t, func(context.Context, string) error { return errors.New("solc exploded") })

	_, err := newTestRepository(t.TempDir(), true).Get(context.Background(), "P2pErc20Trader")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to build contracts")
}
