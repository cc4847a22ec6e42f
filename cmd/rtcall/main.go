// rtcall encodes and decodes runtime calls and account references for
// a host ledger deployment. It is a debugging aid for checking this
// codec's output byte-for-byte against a reference node.
//
// Subcommands:
//
//	rtcall address encode <index|0xID>
//	rtcall address decode <hex>
//	rtcall call encode transfer <dest> <value>
//	rtcall call encode set_balance <who> <free> <reserved>
//	rtcall call decode <hex>
//	rtcall deployment
//
// Addresses are written as a decimal alias index or a 0x-prefixed
// account id. Every subcommand accepts --deployment to load a YAML
// deployment descriptor; the default is the reference node runtime.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
	"github.com/spf13/pflag"

	"github.com/blockberries/rtcall/balances"
	"github.com/blockberries/rtcall/codec"
	"github.com/blockberries/rtcall/config"
	"github.com/blockberries/rtcall/types"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// options are the flags shared by every subcommand.
type options struct {
	deploymentPath string
	logLevel       string
}

func (o *options) addFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&o.deploymentPath, "deployment", "", "path to a YAML deployment descriptor (default: node runtime)")
	flagSet.StringVar(&o.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
}

func run(args []string, stdout, stderr io.Writer) error {
	var opts options
	flagSet := pflag.NewFlagSet("rtcall", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(true)
	opts.addFlags(flagSet)
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printUsage(stderr)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printUsage(stderr)
		return nil
	}

	logger, err := newLogger(stderr, opts.logLevel)
	if err != nil {
		return err
	}

	deployment, err := loadDeployment(opts.deploymentPath)
	if err != nil {
		return err
	}
	c, err := deployment.Codec(config.DefaultCatalog())
	if err != nil {
		return fmt.Errorf("building codec: %w", err)
	}
	logger.Debug("deployment loaded",
		"name", deployment.Name,
		"account_id_width", deployment.Layout.AccountIDWidth,
		"index_width", deployment.Layout.IndexWidth,
		"modules", len(deployment.Modules),
	)

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr)
		return fmt.Errorf("subcommand required")
	}

	switch rest[0] {
	case "address":
		return runAddress(c, rest[1:], stdout)
	case "call":
		return runCall(c, rest[1:], stdout, logger)
	case "deployment":
		data, err := deployment.Marshal()
		if err != nil {
			return err
		}
		_, err = stdout.Write(data)
		return err
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown subcommand: %q", rest[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, `Usage: rtcall [flags] <subcommand> [args]

Subcommands:
  address encode <index|0xID>                encode an account reference
  address decode <hex>                       decode an account reference
  call encode transfer <dest> <value>        encode Balances.transfer
  call encode set_balance <who> <free> <reserved>
                                             encode Balances.set_balance
  call decode <hex>                          decode a call envelope
  deployment                                 print the active deployment

Flags:
  --deployment <path>   YAML deployment descriptor (default: node runtime)
  --log-level <level>   debug, info, warn, error (default: warn)
`)
}

func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q", level)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}

func loadDeployment(path string) (*config.Deployment, error) {
	if path == "" {
		return config.NodeRuntime(), nil
	}
	return config.Load(path)
}

func runAddress(c *codec.Codec, args []string, stdout io.Writer) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: rtcall address encode|decode <value>")
	}
	switch args[0] {
	case "encode":
		addr, err := parseAddress(args[1])
		if err != nil {
			return err
		}
		data, err := c.EncodeAddress(addr)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, hex.EncodeToString(data))
		return nil
	case "decode":
		data, err := parseHex(args[1])
		if err != nil {
			return err
		}
		addr, err := c.DecodeAddress(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, addr)
		return nil
	default:
		return fmt.Errorf("unknown address action %q", args[0])
	}
}

func runCall(c *codec.Codec, args []string, stdout io.Writer, logger *slog.Logger) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rtcall call encode <operation> <args...> | rtcall call decode <hex>")
	}
	switch args[0] {
	case "encode":
		op, err := buildOperation(args[1], args[2:])
		if err != nil {
			return err
		}
		data, err := c.EncodeCall(op)
		if err != nil {
			return err
		}
		logger.Info("encoded call", "module", op.Module(), "operation", op.Name(), "bytes", len(data))
		fmt.Fprintln(stdout, hex.EncodeToString(data))
		return nil
	case "decode":
		if len(args) != 2 {
			return fmt.Errorf("usage: rtcall call decode <hex>")
		}
		data, err := parseHex(args[1])
		if err != nil {
			return err
		}
		op, err := c.DecodeCall(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, formatOperation(op))
		return nil
	default:
		return fmt.Errorf("unknown call action %q", args[0])
	}
}

func buildOperation(name string, args []string) (codec.Operation, error) {
	switch name {
	case balances.OpTransfer:
		if len(args) != 2 {
			return nil, fmt.Errorf("usage: rtcall call encode transfer <dest> <value>")
		}
		dest, err := parseAddress(args[0])
		if err != nil {
			return nil, err
		}
		value, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		return balances.NewTransfer(dest, value), nil
	case balances.OpSetBalance:
		if len(args) != 3 {
			return nil, fmt.Errorf("usage: rtcall call encode set_balance <who> <free> <reserved>")
		}
		who, err := parseAddress(args[0])
		if err != nil {
			return nil, err
		}
		free, err := parseAmount(args[1])
		if err != nil {
			return nil, err
		}
		reserved, err := parseAmount(args[2])
		if err != nil {
			return nil, err
		}
		return balances.NewSetBalance(who, free, reserved), nil
	default:
		return nil, fmt.Errorf("unknown operation %q", name)
	}
}

// parseAddress reads a 0x-prefixed account id or a decimal index.
func parseAddress(s string) (types.Address, error) {
	if strings.HasPrefix(s, "0x") {
		id, err := hex.DecodeString(s[2:])
		if err != nil {
			return types.Address{}, fmt.Errorf("invalid account id %q: %w", s, err)
		}
		return types.IDAddress(id), nil
	}
	index, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return types.Address{}, fmt.Errorf("invalid account index %q: %w", s, err)
	}
	return types.IndexAddress(index), nil
}

func parseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(s, "0x")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

func formatOperation(op codec.Operation) string {
	operands := op.Operands()
	parts := make([]string, len(operands))
	for i, operand := range operands {
		switch v := operand.(type) {
		case *types.Address:
			parts[i] = v.String()
		case *uint256.Int:
			parts[i] = v.ToBig().String()
		case *types.AccountID:
			parts[i] = v.String()
		default:
			parts[i] = fmt.Sprintf("%v", deref(v))
		}
	}
	return fmt.Sprintf("%s.%s(%s)", op.Module(), op.Name(), strings.Join(parts, ", "))
}

func deref(v any) any {
	switch v := v.(type) {
	case *uint8:
		return *v
	case *uint16:
		return *v
	case *uint32:
		return *v
	case *uint64:
		return *v
	case *bool:
		return *v
	default:
		return v
	}
}
