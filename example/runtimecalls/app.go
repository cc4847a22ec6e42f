// Package runtimecalls is a minimal embedded program that dispatches
// Balances calls into the host runtime. It shows the intended flow:
// build a typed call, encode it with the deployment codec, hand the
// bytes to the host's Dispatcher.
package runtimecalls

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/holiman/uint256"

	"github.com/blockberries/rtcall"
	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/types"
)

// App dispatches runtime calls on behalf of its caller.
type App struct {
	codec  *codec.Codec
	host   rtcall.Dispatcher
	logger *slog.Logger
}

// New creates an app that encodes with c and dispatches to host.
func New(c *codec.Codec, host rtcall.Dispatcher, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{codec: c, host: host, logger: logger}
}

// BalanceTransfer dispatches a Balances transfer of value to the
// account dest.
func (app *App) BalanceTransfer(ctx context.Context, dest types.AccountID, value *uint256.Int) error {
	return app.dispatch(ctx, balances.NewTransfer(types.IDAddress(dest), value))
}

// BalanceTransferToIndex dispatches a Balances transfer of value to
// the account behind the alias index.
func (app *App) BalanceTransferToIndex(ctx context.Context, index uint64, value *uint256.Int) error {
	return app.dispatch(ctx, balances.NewTransfer(types.IndexAddress(index), value))
}

// SetBalance dispatches a Balances set_balance for who. The host only
// honours it for privileged callers.
func (app *App) SetBalance(ctx context.Context, who types.Address, free, reserved *uint256.Int) error {
	return app.dispatch(ctx, balances.NewSetBalance(who, free, reserved))
}

func (app *App) dispatch(ctx context.Context, op codec.Operation) error {
	call, err := app.codec.EncodeCall(op)
	if err != nil {
		return fmt.Errorf("encoding %s.%s: %w", op.Module(), op.Name(), err)
	}
	if err := app.host.Dispatch(ctx, call); err != nil {
		return fmt.Errorf("dispatching %s.%s: %w", op.Module(), op.Name(), err)
	}
	app.logger.Info("runtime call dispatched", "module", op.Module(), "operation", op.Name(), "bytes", len(call))
	return nil
}
