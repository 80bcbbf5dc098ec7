package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const testTokenABIJSON = `[
  {"inputs": [], "name": "decimals", "outputs": [{"type": "uint8"}], "stateMutability": "view", "type": "function"},
  {"inputs": [{"name": "account", "type": "address"}], "name": "balanceOf", "outputs": [{"type": "uint256"}], "stateMutability": "view", "type": "function"}
]`

type fakeCaller struct {
	t       *testing.T
	block   int64
	respond func(target common.Address, data []byte) []byte
	err     error
	calls   int
}

func (f *fakeCaller) CallContract(_ context.Context, msg ethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	parsed, err := MulticallABI()
	if err != nil {
		f.t.Fatalf("multicall abi: %v", err)
	}
	if msg.To == nil || *msg.To != DefaultMulticallAddress {
		f.t.Fatalf("unexpected multicall target: %v", msg.To)
	}

	args, err := parsed.Methods["aggregate"].Inputs.Unpack(msg.Data[4:])
	if err != nil {
		f.t.Fatalf("unpack aggregate input: %v", err)
	}
	inner := *abi.ConvertType(args[0], new([]aggregateCall)).(*[]aggregateCall)

	results := make([][]byte, 0, len(inner))
	for _, call := range inner {
		results = append(results, f.respond(call.Target, call.CallData))
	}
	return parsed.Methods["aggregate"].Outputs.Pack(big.NewInt(f.block), results)
}

func TestMulticallReadBatchOrdered(t *testing.T) {
	token, err := abi.JSON(strings.NewReader(testTokenABIJSON))
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	tokenA := common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")
	tokenB := common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb")
	holder := common.HexToAddress("0x1111111111111111111111111111111111111111")

	caller := &fakeCaller{t: t, block: 777}
	caller.respond = func(target common.Address, data []byte) []byte {
		method, err := token.MethodById(data[:4])
		if err != nil {
			t.Fatalf("method by id: %v", err)
		}
		switch method.Name {
		case "decimals":
			if target == tokenA {
				out, _ := method.Outputs.Pack(uint8(6))
				return out
			}
			out, _ := method.Outputs.Pack(uint8(18))
			return out
		case "balanceOf":
			out, _ := method.Outputs.Pack(big.NewInt(12345))
			return out
		}
		t.Fatalf("unexpected method %s", method.Name)
		return nil
	}

	reader := NewMulticall(caller, common.Address{}, nil)
	batch, err := reader.ReadBatch(context.Background(), []Call{
		{Target: tokenA, ABI: token, Method: "decimals"},
		{Target: tokenB, ABI: token, Method: "decimals"},
		{Target: tokenA, ABI: token, Method: "balanceOf", Args: []interface{}{holder}},
	})
	if err != nil {
		t.Fatalf("read batch: %v", err)
	}

	if caller.calls != 1 {
		t.Fatalf("expected a single round-trip, got %d", caller.calls)
	}
	if batch.BlockNumber != 777 {
		t.Fatalf("block mismatch: %d", batch.BlockNumber)
	}
	if len(batch.Values) != 3 {
		t.Fatalf("result count mismatch: %d", len(batch.Values))
	}
	if batch.Values[0][0].(uint8) != 6 || batch.Values[1][0].(uint8) != 18 {
		t.Fatalf("decimals order mismatch: %v %v", batch.Values[0], batch.Values[1])
	}
	if batch.Values[2][0].(*big.Int).Int64() != 12345 {
		t.Fatalf("balance mismatch: %v", batch.Values[2])
	}
}

func TestMulticallReadBatchFailsWhole(t *testing.T) {
	token, err := abi.JSON(strings.NewReader(testTokenABIJSON))
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}

	caller := &fakeCaller{t: t, err: errors.New("execution reverted")}
	reader := NewMulticall(caller, common.Address{}, nil)
	_, err = reader.ReadBatch(context.Background(), []Call{
		{Target: common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"), ABI: token, Method: "decimals"},
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "call aggregate") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestMulticallPackError(t *testing.T) {
	token, err := abi.JSON(strings.NewReader(testTokenABIJSON))
	if err != nil {
		t.Fatalf("abi parse: %v", err)
	}
	reader := NewMulticall(&fakeCaller{t: t}, common.Address{}, nil)
	_, err = reader.ReadBatch(context.Background(), []Call{
		{Target: common.Address{}, ABI: token, Method: "balanceOf"},
	})
	if err == nil {
		t.Fatalf("expected pack error for missing argument")
	}
}
