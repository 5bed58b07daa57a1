package models

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
)

// AccountKind describes where an account's signing authority lives
type AccountKind string

const (
	AccountKindPrivateKey AccountKind = "private_key"
	AccountKindKeystore   AccountKind = "keystore"
	AccountKindNode       AccountKind = "node"
)

// Account is a resolved transaction sender
type Account struct {
	Address common.Address `json:"address"`
	Kind    AccountKind    `json:"kind"`
	Source  string         `json:"source"` // e.g. "wallets.from_key", "eth_accounts[0]"

	// Key is nil for node accounts, which are signed by the node itself
	Key *ecdsa.PrivateKey `json:"-"`
}

// CanSign reports whether the transaction can be signed locally
func (a *Account) CanSign() bool {
	return a.Key != nil
}
