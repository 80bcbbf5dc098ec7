package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// Multicall3 is deployed at the same address on every major EVM network.
var DefaultMulticallAddress = common.HexToAddress("0xcA11bde05977b3631167028862bE2a173976CA11")

const multicallABIJSON = `[
  {
    "inputs": [
      {
        "components": [
          {"internalType": "address", "name": "target", "type": "address"},
          {"internalType": "bytes", "name": "callData", "type": "bytes"}
        ],
        "internalType": "struct Multicall3.Call[]",
        "name": "calls",
        "type": "tuple[]"
      }
    ],
    "name": "aggregate",
    "outputs": [
      {"internalType": "uint256", "name": "blockNumber", "type": "uint256"},
      {"internalType": "bytes[]", "name": "returnData", "type": "bytes[]"}
    ],
    "stateMutability": "payable",
    "type": "function"
  }
]`

var (
	multicallABI     abi.ABI
	multicallABIOnce sync.Once
	multicallABIErr  error
)

// MulticallABI returns the parsed Multicall3 aggregate ABI.
func MulticallABI() (abi.ABI, error) {
	multicallABIOnce.Do(func() {
		multicallABI, multicallABIErr = abi.JSON(strings.NewReader(multicallABIJSON))
	})
	return multicallABI, multicallABIErr
}

// Call is one read in a batch.
type Call struct {
	Target common.Address
	ABI    abi.ABI
	Method string
	Args   []interface{}
}

// Batch is the result of a batched read. Values[i] holds the unpacked
// outputs of the i-th call.
type Batch struct {
	BlockNumber uint64
	Values      [][]interface{}
}

// BatchReader performs an ordered list of reads atomically.
type BatchReader interface {
	ReadBatch(ctx context.Context, calls []Call) (Batch, error)
}

// ContractCaller is the subset of Client used by Multicall.
type ContractCaller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// aggregateCall mirrors the Multicall3.Call tuple.
type aggregateCall struct {
	Target   common.Address
	CallData []byte
}

// Multicall batches reads through a single Multicall3 aggregate eth_call.
// aggregate reverts if any inner call reverts, so a batch either returns
// every result or fails as a whole.
type Multicall struct {
	caller  ContractCaller
	address common.Address
	logger  *zap.Logger
}

// NewMulticall builds a Multicall reader. A zero address selects the
// canonical Multicall3 deployment.
func NewMulticall(caller ContractCaller, address common.Address, logger *zap.Logger) *Multicall {
	if logger == nil {
		logger = zap.NewNop()
	}
	if address == (common.Address{}) {
		address = DefaultMulticallAddress
	}
	return &Multicall{caller: caller, address: address, logger: logger}
}

// ReadBatch packs every call, submits them in one eth_call and unpacks the
// results in call order.
func (m *Multicall) ReadBatch(ctx context.Context, calls []Call) (Batch, error) {
	if m.caller == nil {
		return Batch{}, fmt.Errorf("chain client is nil")
	}
	if len(calls) == 0 {
		return Batch{}, nil
	}

	parsed, err := MulticallABI()
	if err != nil {
		return Batch{}, fmt.Errorf("parse multicall abi: %w", err)
	}

	packed := make([]aggregateCall, 0, len(calls))
	for i, call := range calls {
		data, err := call.ABI.Pack(call.Method, call.Args...)
		if err != nil {
			return Batch{}, fmt.Errorf("pack call %d %s: %w", i, call.Method, err)
		}
		packed = append(packed, aggregateCall{Target: call.Target, CallData: data})
	}

	input, err := parsed.Pack("aggregate", packed)
	if err != nil {
		return Batch{}, fmt.Errorf("pack aggregate: %w", err)
	}

	to := m.address
	resp, err := m.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return Batch{}, fmt.Errorf("call aggregate: %w", err)
	}

	out, err := parsed.Unpack("aggregate", resp)
	if err != nil {
		return Batch{}, fmt.Errorf("unpack aggregate: %w", err)
	}
	if len(out) != 2 {
		return Batch{}, fmt.Errorf("aggregate return size %d", len(out))
	}
	blockNumber, ok := out[0].(*big.Int)
	if !ok {
		return Batch{}, fmt.Errorf("aggregate block number unexpected type %T", out[0])
	}
	returnData, ok := out[1].([][]byte)
	if !ok {
		return Batch{}, fmt.Errorf("aggregate return data unexpected type %T", out[1])
	}
	if len(returnData) != len(calls) {
		return Batch{}, fmt.Errorf("aggregate returned %d results for %d calls", len(returnData), len(calls))
	}

	values := make([][]interface{}, len(calls))
	for i, call := range calls {
		unpacked, err := call.ABI.Unpack(call.Method, returnData[i])
		if err != nil {
			return Batch{}, fmt.Errorf("unpack call %d %s: %w", i, call.Method, err)
		}
		values[i] = unpacked
	}

	m.logger.Debug("batch read",
		zap.Int("calls", len(calls)),
		zap.Uint64("block", blockNumber.Uint64()),
	)

	return Batch{BlockNumber: blockNumber.Uint64(), Values: values}, nil
}
