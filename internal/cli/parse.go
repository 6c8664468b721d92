// internal/cli/parse.go
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
)

// Usage lists the subcommands.
const Usage = `usage: rebasectl [-config path] <command> [flags]

commands:
  create-mint
  create-multisig -m N -signers k1,k2,...
  init            -mint K [-authority K] -supply N
  rebase          -mint K -authority K [-signers k1,k2,...] -supply N
  show            -mint K
  to-shares       -mint K -value AMOUNT
  to-amount       -mint K -value SHARES
  to-ui           -mint K -value SHARES
  from-ui         -mint K -value UI_AMOUNT
  serve`

// Parse turns the arguments after the global flags into a Command.
func Parse(args []string) (Command, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("missing command\n%s", Usage)
	}

	name, rest := args[0], args[1:]
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var cmd Command
	switch name {
	case "create-mint":
		cmd = CreateMintCommand{}
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}

	case "create-multisig":
		m := fs.Int("m", 1, "required signatures")
		signers := fs.String("signers", "", "comma-separated signer keys")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		cmd = CreateMultisigCommand{M: *m, Signers: splitKeys(*signers)}

	case "init":
		mint := fs.String("mint", "", "mint key")
		authority := fs.String("authority", "", "rebase authority key, empty to disable rebasing")
		supply := fs.Uint64("supply", 0, "initial supply")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		cmd = InitCommand{Mint: *mint, Authority: *authority, Supply: *supply}

	case "rebase":
		mint := fs.String("mint", "", "mint key")
		authority := fs.String("authority", "", "rebase authority key")
		signers := fs.String("signers", "", "comma-separated multisig signer keys")
		supply := fs.Uint64("supply", 0, "new supply")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		cmd = RebaseCommand{Mint: *mint, Authority: *authority, Signers: splitKeys(*signers), Supply: *supply}

	case "show":
		mint := fs.String("mint", "", "mint key")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		cmd = ShowCommand{Mint: *mint}

	case ToShares, ToAmount, ToUI, FromUI:
		mint := fs.String("mint", "", "mint key")
		value := fs.String("value", "", "value to convert")
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}
		cmd = ConvertCommand{Kind: name, Mint: *mint, Value: *value}

	case "serve":
		cmd = ServeCommand{}
		if err := fs.Parse(rest); err != nil {
			return nil, err
		}

	default:
		return nil, fmt.Errorf("unknown command %q\n%s", name, Usage)
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%s: unexpected arguments %v", name, fs.Args())
	}
	return cmd, nil
}

func splitKeys(list string) []string {
	var keys []string
	for _, k := range strings.Split(list, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
