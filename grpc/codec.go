// Package rtcallgrpc registers the runtime call codec with gRPC's
// encoding registry, so services that relay calls to a ledger node can
// carry call envelopes and account references as raw SCALE bytes.
//
// No protobuf code generation is required. Messages are codec
// operations, types.Address values or pre-encoded byte slices.
package rtcallgrpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"

	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/noderuntime"
	"github.com/blockberries/rtcall/types"
)

const codecName = "scale"

// ScaleCodec implements grpc/encoding.Codec using the runtime call
// codec. A zero ScaleCodec uses the reference node runtime deployment.
type ScaleCodec struct {
	Codec *codec.Codec
}

func (c ScaleCodec) codec() *codec.Codec {
	if c.Codec != nil {
		return c.Codec
	}
	return noderuntime.Codec()
}

func (c ScaleCodec) Marshal(v any) ([]byte, error) {
	var (
		data []byte
		err  error
	)
	switch v := v.(type) {
	case codec.Operation:
		data, err = c.codec().EncodeCall(v)
	case types.Address:
		data, err = c.codec().EncodeAddress(v)
	case *types.Address:
		data, err = c.codec().EncodeAddress(*v)
	case []byte:
		data = append([]byte(nil), v...)
	case *[]byte:
		data = append([]byte(nil), (*v)...)
	default:
		return nil, fmt.Errorf("scale marshal: unsupported message type %T", v)
	}
	if err != nil {
		return nil, fmt.Errorf("scale marshal: %w", err)
	}
	return data, nil
}

func (c ScaleCodec) Unmarshal(data []byte, v any) error {
	var err error
	switch v := v.(type) {
	case *types.Address:
		*v, err = c.codec().DecodeAddress(data)
	case *codec.Operation:
		*v, err = c.codec().DecodeCall(data)
	case codec.Operation:
		err = c.codec().DecodeCallInto(data, v)
	case *[]byte:
		*v = append([]byte(nil), data...)
	default:
		return fmt.Errorf("scale unmarshal: unsupported message type %T", v)
	}
	if err != nil {
		return fmt.Errorf("scale unmarshal: %w", err)
	}
	return nil
}

func (ScaleCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(ScaleCodec{})
}
