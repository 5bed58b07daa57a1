package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/models"
	"github.com/trebuchet-org/p2p-deploy/internal/usecase"
)

// BrownieBuildDir holds Brownie's per-contract artifacts
const BrownieBuildDir = "build/contracts"

// runForgeBuild runs forge build command
var runForgeBuild = func(ctx context.Context, projectRoot string) error {
	cmd := exec.CommandContext(ctx, "forge", "build")
	cmd.Dir = projectRoot

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("forge build failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

// Repository loads compiled contract artifacts from Brownie or Foundry build output
type Repository struct {
	projectRoot string
	outDir      string
	hasFoundry  bool
	log         *slog.Logger

	mu    sync.Mutex
	built bool
}

// NewRepository creates a new artifact repository
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	r := &Repository{
		projectRoot: cfg.ProjectRoot,
		outDir:      "out",
		log:         log.With("component", "ArtifactRepository"),
	}
	if cfg.Project != nil && cfg.Project.Foundry != nil {
		r.hasFoundry = true
		r.outDir = cfg.Project.Foundry.OutDir()
	}
	return r
}

// Get returns the deployable artifact for a contract name
func (r *Repository) Get(ctx context.Context, contractName string) (*models.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path, err := r.find(contractName)
	if errors.Is(err, domain.ErrArtifactNotFound) && r.hasFoundry && !r.built {
		r.log.Debug("artifact not found, running forge build", "contract", contractName)
		r.built = true
		if buildErr := runForgeBuild(ctx, r.projectRoot); buildErr != nil {
			return nil, fmt.Errorf("failed to build contracts: %w", buildErr)
		}
		path, err = r.find(contractName)
	}
	if err != nil {
		if errors.Is(err, domain.ErrArtifactNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrArtifactNotFound, contractName)
		}
		return nil, err
	}

	return r.load(contractName, path)
}

// find locates the artifact file: Brownie layout, then the canonical Foundry path, then a walk of the out dir
func (r *Repository) find(contractName string) (string, error) {
	candidates := []string{
		filepath.Join(r.projectRoot, BrownieBuildDir, contractName+".json"),
		filepath.Join(r.projectRoot, r.outDir, contractName+".sol", contractName+".json"),
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
	}

	outDir := filepath.Join(r.projectRoot, r.outDir)
	if _, err := os.Stat(outDir); os.IsNotExist(err) {
		return "", domain.ErrArtifactNotFound
	}

	var matches []string
	err := filepath.Walk(outDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if info.Name() == "build-info" {
				return filepath.SkipDir
			}
			return nil
		}
		if info.Name() == contractName+".json" {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan %s: %w", outDir, err)
	}

	switch len(matches) {
	case 0:
		return "", domain.ErrArtifactNotFound
	case 1:
		return matches[0], nil
	default:
		rel := make([]string, len(matches))
		for i, m := range matches {
			rel[i], _ = filepath.Rel(r.projectRoot, m)
		}
		return "", domain.AmbiguousArtifactErr{ContractName: contractName, Paths: rel}
	}
}

// load reads and validates an artifact file
func (r *Repository) load(contractName, path string) (*models.Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact models.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidArtifact, path, err)
	}

	if artifact.ContractName == "" {
		artifact.ContractName = contractName
	}
	artifact.Path, _ = filepath.Rel(r.projectRoot, path)

	code := strings.TrimPrefix(artifact.Bytecode.Object, "0x")
	if code == "" {
		return nil, fmt.Errorf("%w: %s has no creation bytecode (abstract contract or interface?)", domain.ErrInvalidArtifact, contractName)
	}
	if !artifact.Bytecode.IsLinked() {
		return nil, fmt.Errorf("%w: %s has unlinked library references", domain.ErrInvalidArtifact, contractName)
	}
	if len(artifact.ABI) == 0 {
		artifact.ABI = json.RawMessage("[]")
	}

	r.log.Debug("loaded artifact", "contract", artifact.ContractName, "path", artifact.Path)
	return &artifact, nil
}

// Ensure Repository implements ArtifactRepository
var _ usecase.ArtifactRepository = (*Repository)(nil)
