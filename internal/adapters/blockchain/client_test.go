package blockchain

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/p2p-deploy/internal/domain"
	"github.com/trebuchet-org/p2p-deploy/internal/domain/config"
)

type rpcRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	ID      json.RawMessage   `json:"id"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// newMockRPCServer creates a test HTTP server that responds to JSON-RPC requests
func newMockRPCServer(t *testing.T, handler func(req rpcRequest) (any, *rpcError)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode RPC request: %v", err)
			return
		}
		result, rpcErr := handler(req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(rpcResponse{JSONRPC: "2.0", ID: req.ID, Result: result, Error: rpcErr})
	}))
	t.Cleanup(server.Close)
	return server
}

func newTestClient(url string, chainID uint64) *Client {
	return NewClient(&config.RuntimeConfig{
		Network: &config.Network{Name: "test", RPCURL: url, ChainID: chainID},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClient_Accounts(t *testing.T) {
	var chainIDCalls atomic.Int32
	server := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		switch req.Method {
		case "eth_chainId":
			chainIDCalls.Add(1)
			return "0x539", nil
		case "eth_accounts":
			return []string{
				"0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266",
				"0x70997970c51812dc3a010c7d01b50e0d17dc79c8",
			}, nil
		}
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})

	client := newTestClient(server.URL, 1337)
	defer client.Close()

	accounts, err := client.Accounts(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), accounts[0])

	// the connection is reused
	_, err = client.Accounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int32(1), chainIDCalls.Load())
}

func TestClient_ChainIDMismatch(t *testing.T) {
	server := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		return "0x1", nil
	})

	client := newTestClient(server.URL, 11155111)
	_, err := client.Backend(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNetworkMismatch))
}

func TestClient_UnconfiguredChainIDAcceptsNode(t *testing.T) {
	server := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		return "0x1", nil
	})

	client := newTestClient(server.URL, 0)
	defer client.Close()

	backend, err := client.Backend(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, backend)
}

func TestClient_SendUnlocked(t *testing.T) {
	txHash := common.HexToHash("0xab00000000000000000000000000000000000000000000000000000000000001")
	var sent map[string]string
	server := newMockRPCServer(t, func(req rpcRequest) (any, *rpcError) {
		switch req.Method {
		case "eth_chainId":
			return "0x539", nil
		case "eth_sendTransaction":
			if assert.Len(t, req.Params, 1) {
				assert.NoError(t, json.Unmarshal(req.Params[0], &sent))
			}
			return txHash.Hex(), nil
		}
		return nil, &rpcError{Code: -32601, Message: "method not found"}
	})

	client := newTestClient(server.URL, 1337)
	defer client.Close()

	from := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	hash, err := client.SendUnlocked(context.Background(), from, []byte{0x60, 0x80}, GasSettings{})
	require.NoError(t, err)

	assert.Equal(t, txHash, hash)
	assert.Equal(t, "0x6080", sent["data"])
	assert.Equal(t, from, common.HexToAddress(sent["from"]))
	assert.NotContains(t, sent, "gas")
	assert.NotContains(t, sent, "gasPrice")

	gas := GasSettings{Limit: 500000, Price: big.NewInt(2_000_000_000)}
	_, err = client.SendUnlocked(context.Background(), from, []byte{0x60, 0x80}, gas)
	require.NoError(t, err)

	assert.Equal(t, "0x7a120", sent["gas"])
	assert.Equal(t, "0x77359400", sent["gasPrice"])
	assert.NotContains(t, sent, "maxPriorityFeePerGas")
}

func TestClient_NoNetwork(t *testing.T) {
	client := NewClient(&config.RuntimeConfig{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := client.Backend(context.Background())
	assert.Error(t, err)
}
