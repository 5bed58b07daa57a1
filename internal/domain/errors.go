package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrNoAccount is returned when no sender account can be resolved
	ErrNoAccount = errors.New("no account available")

	// ErrArtifactNotFound is returned when no compiled artifact exists for a contract
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrInvalidArtifact is returned when an artifact cannot be used for deployment
	ErrInvalidArtifact = errors.New("invalid artifact")

	// ErrNetworkNotFound is returned when a network name is not configured
	ErrNetworkNotFound = errors.New("network not found")

	// ErrNetworkMismatch is returned when the node reports a different chain ID than configured
	ErrNetworkMismatch = errors.New("network mismatch")

	// ErrDeploymentReverted is returned when the creation transaction was mined with a failed status
	ErrDeploymentReverted = errors.New("deployment reverted")

	// ErrDeploymentCancelled is returned when the user declines to broadcast
	ErrDeploymentCancelled = errors.New("deployment cancelled")
)

// AmbiguousArtifactErr is returned when several build outputs carry the same contract name
type AmbiguousArtifactErr struct {
	ContractName string
	Paths        []string
}

func (e AmbiguousArtifactErr) Error() string {
	paths := make([]string, len(e.Paths))
	copy(paths, e.Paths)
	sort.Strings(paths)

	var suggestions []string
	for _, p := range paths {
		suggestions = append(suggestions, fmt.Sprintf("  - %s", p))
	}

	return fmt.Sprintf("multiple artifacts found for %s - remove stale build outputs:\n%s",
		e.ContractName, strings.Join(suggestions, "\n"))
}
