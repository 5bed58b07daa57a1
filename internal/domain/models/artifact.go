package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// BytecodeObject represents creation bytecode in either build layout.
// Brownie stores a bare hex string, Foundry an object with an "object" field.
type BytecodeObject struct {
	Object         string         `json:"object"`
	LinkReferences map[string]any `json:"linkReferences,omitempty"`
}

// UnmarshalJSON accepts both the string and the object form
func (b *BytecodeObject) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &b.Object)
	}

	type plain BytecodeObject
	var obj plain
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	*b = BytecodeObject(obj)
	return nil
}

// IsLinked reports whether all library placeholders have been resolved
func (b BytecodeObject) IsLinked() bool {
	return !strings.Contains(b.Object, "__") && len(b.LinkReferences) == 0
}

// Artifact represents a compiled contract ready for deployment
type Artifact struct {
	ContractName string          `json:"contractName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     BytecodeObject  `json:"bytecode"`
	SourcePath   string          `json:"sourcePath,omitempty"`

	// Path is the artifact file the contract was loaded from
	Path string `json:"-"`
}

// ParsedABI decodes the ABI definition
func (a *Artifact) ParsedABI() (abi.ABI, error) {
	parsed, err := abi.JSON(bytes.NewReader(a.ABI))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI of %s: %w", a.ContractName, err)
	}
	return parsed, nil
}

// CreationCode returns the decoded creation bytecode
func (a *Artifact) CreationCode() []byte {
	return common.FromHex(a.Bytecode.Object)
}
