package blockchain

import (
	"context"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
)

var units = map[string]*big.Int{
	"wei":   big.NewInt(params.Wei),
	"gwei":  big.NewInt(params.GWei),
	"ether": big.NewInt(params.Ether),
}

func isAuto(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "" || value == "auto"
}

// ParseWei parses "auto", a plain wei amount, or an amount with a unit such as "1.5 gwei".
// A nil result means the node should pick the value.
func ParseWei(value string) (*big.Int, error) {
	if isAuto(value) {
		return nil, nil
	}

	fields := strings.Fields(strings.ToLower(value))
	unit := units["wei"]
	switch len(fields) {
	case 1:
	case 2:
		u, ok := units[fields[1]]
		if !ok {
			return nil, fmt.Errorf("unknown unit %q in %q", fields[1], value)
		}
		unit = u
	default:
		return nil, fmt.Errorf("invalid amount %q", value)
	}

	amount, ok := new(big.Rat).SetString(fields[0])
	if !ok || amount.Sign() < 0 {
		return nil, fmt.Errorf("invalid amount %q", value)
	}

	wei := amount.Mul(amount, new(big.Rat).SetInt(unit))
	if !wei.IsInt() {
		return nil, fmt.Errorf("amount %q is not a whole number of wei", value)
	}
	return new(big.Int).Set(wei.Num()), nil
}

// GasLimitMax selects the gas limit of the latest block
const GasLimitMax = "max"

// ParseGasLimit parses "auto" or a gas amount; zero means estimate.
// "max" depends on the chain and is handled by ResolveGasSettings.
func ParseGasLimit(value string) (uint64, error) {
	if isAuto(value) {
		return 0, nil
	}
	if isMax(value) {
		return 0, fmt.Errorf("gas limit %q needs the latest block; use ResolveGasSettings", value)
	}
	limit, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid gas limit %q: %w", value, err)
	}
	return limit, nil
}

func isMax(value string) bool {
	return strings.TrimSpace(strings.ToLower(value)) == GasLimitMax
}

// GasSettings are a network's gas options in wei. Zero and nil leave the choice to the node.
type GasSettings struct {
	Limit       uint64
	Price       *big.Int
	PriorityFee *big.Int
}

// HeaderReader reads block headers
type HeaderReader interface {
	HeaderByNumber(ctx context.Context, number *big.Int) (*types.Header, error)
}

// ResolveGasSettings parses the network's gas options
func ResolveGasSettings(ctx context.Context, backend HeaderReader, network *config.Network) (GasSettings, error) {
	var gas GasSettings
	if network == nil {
		return gas, nil
	}

	if isMax(network.GasLimit) {
		header, err := backend.HeaderByNumber(ctx, nil)
		if err != nil {
			return gas, fmt.Errorf("gas_limit max: failed to read latest block: %w", err)
		}
		gas.Limit = header.GasLimit
	} else {
		limit, err := ParseGasLimit(network.GasLimit)
		if err != nil {
			return gas, err
		}
		gas.Limit = limit
	}

	price, err := ParseWei(network.GasPrice)
	if err != nil {
		return gas, fmt.Errorf("gas_price: %w", err)
	}
	tip, err := ParseWei(network.PriorityFee)
	if err != nil {
		return gas, fmt.Errorf("priority_fee: %w", err)
	}
	if price != nil && tip != nil {
		return gas, fmt.Errorf("network %s sets both gas_price and priority_fee", network.Name)
	}
	gas.Price = price
	gas.PriorityFee = tip
	return gas, nil
}

// apply copies the settings onto a transactor
func (g GasSettings) apply(auth *bind.TransactOpts) {
	auth.GasLimit = g.Limit
	auth.GasPrice = g.Price
	auth.GasTipCap = g.PriorityFee
}

// rpcArgs adds the settings to eth_sendTransaction arguments
func (g GasSettings) rpcArgs(args map[string]any) {
	if g.Limit != 0 {
		args["gas"] = hexutil.Uint64(g.Limit)
	}
	if g.Price != nil {
		args["gasPrice"] = (*hexutil.Big)(g.Price)
	}
	if g.PriorityFee != nil {
		args["maxPriorityFeePerGas"] = (*hexutil.Big)(g.PriorityFee)
	}
}
