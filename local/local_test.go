package local

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/blockberries/rtcall"
	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/noderuntime"
	"github.com/blockberries/rtcall/types"
)

func encode(t *testing.T, op codec.Operation) []byte {
	t.Helper()
	data, err := noderuntime.Codec().EncodeCall(op)
	require.NoError(t, err)
	return data
}

func TestEnv_DispatchRecords(t *testing.T) {
	env := NewEnv(noderuntime.Codec())
	ctx := context.Background()

	transfer := encode(t, balances.NewTransfer(types.IndexAddress(0), uint256.NewInt(10000)))
	setBalance := encode(t, balances.NewSetBalance(types.IndexAddress(0x10000), uint256.NewInt(1), uint256.NewInt(2)))

	require.NoError(t, env.Dispatch(ctx, transfer))
	require.NoError(t, env.Dispatch(ctx, setBalance))
	require.Equal(t, 2, env.Len())

	calls := env.DispatchedCalls()
	require.Len(t, calls, 2)
	tr, ok := calls[0].(*balances.Transfer)
	require.True(t, ok, "first call is %T", calls[0])
	require.True(t, tr.Dest.Equal(types.IndexAddress(0)))
	require.Equal(t, uint64(10000), tr.Value.Uint64())
	require.Equal(t, balances.OpSetBalance, calls[1].Name())

	j := env.Journal()
	require.Len(t, j.Records, 2)
	require.Equal(t, uint64(0), j.Records[0].Seq)
	require.Equal(t, balances.ModuleName, j.Records[0].Module)
	require.Equal(t, balances.OpTransfer, j.Records[0].Operation)
	require.Equal(t, transfer, j.Records[0].Payload)
	require.Equal(t, uint64(1), j.Records[1].Seq)
}

func TestEnv_CopiesPayload(t *testing.T) {
	env := NewEnv(noderuntime.Codec())
	payload := encode(t, balances.NewTransfer(types.IndexAddress(1), uint256.NewInt(1)))
	require.NoError(t, env.Dispatch(context.Background(), payload))

	payload[2] = 0x02
	require.Equal(t, byte(0x01), env.Journal().Records[0].Payload[2])

	j := env.Journal()
	j.Records[0].Payload[2] = 0x03
	require.Equal(t, byte(0x01), env.Journal().Records[0].Payload[2])
}

func TestEnv_RejectsInvalidCalls(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := NewEnv(noderuntime.Codec(), WithLogger(logger))
	ctx := context.Background()

	err := env.Dispatch(ctx, []byte{0x05, 0x00, 0xfc, 0xe0, 0x00, 0x41, 0x9c})
	_, ok := rtcall.IsNonCanonical(err)
	require.True(t, ok, "expected non-canonical error, got %v", err)

	err = env.Dispatch(ctx, []byte{0x06, 0x00})
	_, ok = rtcall.IsUnknownModule(err)
	require.True(t, ok, "expected unknown module error, got %v", err)

	err = env.Dispatch(ctx, []byte{0x05, 0x00, 0x00, 0x00, 0x00})
	require.ErrorIs(t, err, rtcall.ErrTrailingBytes)

	require.Equal(t, 0, env.Len())
	require.Empty(t, env.DispatchedCalls())
	require.Equal(t, 3, strings.Count(logs.String(), "rejected runtime call"))
}

func TestEnv_LogsDispatch(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	env := NewEnv(noderuntime.Codec(), WithLogger(logger))

	require.NoError(t, env.Dispatch(context.Background(), encode(t, balances.NewTransfer(types.IndexAddress(3), uint256.NewInt(4)))))
	out := logs.String()
	require.Contains(t, out, "dispatched runtime call")
	require.Contains(t, out, "module=Balances")
	require.Contains(t, out, "operation=transfer")
}

func TestEnv_CanceledContext(t *testing.T) {
	env := NewEnv(noderuntime.Codec())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := env.Dispatch(ctx, encode(t, balances.NewTransfer(types.IndexAddress(0), uint256.NewInt(1))))
	require.True(t, errors.Is(err, context.Canceled))
	require.Equal(t, 0, env.Len())
}

func TestEnv_Reset(t *testing.T) {
	env := NewEnv(noderuntime.Codec())
	require.NoError(t, env.Dispatch(context.Background(), encode(t, balances.NewTransfer(types.IndexAddress(0), uint256.NewInt(1)))))
	env.Reset()
	require.Equal(t, 0, env.Len())

	require.NoError(t, env.Dispatch(context.Background(), encode(t, balances.NewTransfer(types.IndexAddress(0), uint256.NewInt(1)))))
	require.Equal(t, uint64(0), env.Journal().Records[0].Seq)
}

func TestEnv_DispatchConcurrent(t *testing.T) {
	env := NewEnv(noderuntime.Codec())
	payload := encode(t, balances.NewTransfer(types.IndexAddress(7), uint256.NewInt(1)))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := env.Dispatch(context.Background(), payload); err != nil {
				t.Errorf("Dispatch error: %v", err)
			}
		}()
	}
	wg.Wait()

	j := env.Journal()
	require.Len(t, j.Records, 20)
	for i, r := range j.Records {
		require.Equal(t, uint64(i), r.Seq)
	}
}
