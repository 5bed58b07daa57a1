package config

import (
	"os"
	"regexp"
	"strings"
)

// envVarPattern matches ${VAR_NAME} references in config values
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnvVars replaces ${VAR_NAME} references with their values.
// Bare $VAR and lone $ are left untouched.
func expandEnvVars(value string) string {
	return envVarPattern.ReplaceAllStringFunc(value, func(ref string) string {
		return os.Getenv(envVarPattern.FindStringSubmatch(ref)[1])
	})
}

// GenerateEnvVarName generates a conventional env var name for a network's RPC URL.
// Convention: uppercase, dashes/dots to underscores, append _RPC_URL.
// Examples: sepolia -> SEPOLIA_RPC_URL, celo-sepolia -> CELO_SEPOLIA_RPC_URL
func GenerateEnvVarName(networkName string) string {
	name := strings.ToUpper(networkName)
	name = strings.NewReplacer("-", "_", ".", "_").Replace(name)
	return name + "_RPC_URL"
}

// lookupRPCEnv returns the RPC URL exported under the conventional env var name
func lookupRPCEnv(networkName string) (string, bool) {
	value, ok := os.LookupEnv(GenerateEnvVarName(networkName))
	if !ok || value == "" {
		return "", false
	}
	return value, true
}
