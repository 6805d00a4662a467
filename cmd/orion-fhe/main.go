// Command orion-fhe manages FHE key material for the Orion settlement
// pipeline: key pair generation, value encryption, whitelist maintenance and
// publication of public key material.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/urfave/cli/v2"

	"github.com/orion-protocol/orion-fhe/internal/fhe"
	"github.com/orion-protocol/orion-fhe/internal/hexcodec"
	"github.com/orion-protocol/orion-fhe/internal/ipfspub"
	"github.com/orion-protocol/orion-fhe/internal/keystore"
	"github.com/orion-protocol/orion-fhe/internal/whitelist"
)

// Default key file names; every path is injectable via flags.
const (
	clientKeyFile = "fheClientKey.hex"
	serverKeyFile = "fheServerKey.hex"
)

func main() {
	app := &cli.App{
		Name:  "orion-fhe",
		Usage: "FHE key lifecycle toolkit for the Orion protocol",
		Commands: []*cli.Command{
			keygenCommand(),
			encryptCommand(),
			addToWhitelistCommand(),
			checkWhitelistCommand(),
			publishKeyCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func keygenCommand() *cli.Command {
	return &cli.Command{
		Name:  "keygen",
		Usage: "generate a client/server key pair and write both halves to disk",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: "fhe-keys", Usage: "output directory"},
			&cli.StringFlag{Name: "registry", Usage: "sqlite registry to record the pair in (optional)"},
		},
		Action: runKeygen,
	}
}

func runKeygen(c *cli.Context) error {
	kp, err := fhe.GenerateKeyPair()
	if err != nil {
		return err
	}

	clientBlob, err := fhe.Marshal(kp.ClientKey)
	if err != nil {
		return err
	}
	serverBlob, err := fhe.Marshal(kp.ServerKey)
	if err != nil {
		return err
	}

	dir := c.String("dir")
	clientPath := filepath.Join(dir, clientKeyFile)
	serverPath := filepath.Join(dir, serverKeyFile)
	if err := keystore.Save(clientPath, clientBlob); err != nil {
		return err
	}
	if err := keystore.Save(serverPath, serverBlob); err != nil {
		return err
	}

	if regPath := c.String("registry"); regPath != "" {
		reg, err := keystore.OpenRegistry(regPath)
		if err != nil {
			return err
		}
		defer reg.Close()
		err = reg.Record(&keystore.RegistryEntry{
			UUID:          kp.Identifier,
			Fingerprint:   keystore.Fingerprint(serverBlob),
			ClientKeyPath: clientPath,
			ServerKeyPath: serverPath,
			CreatedAt:     time.Now(),
		})
		if err != nil {
			return err
		}
	}

	fmt.Printf("key pair %s generated\n  client key: %s\n  server key: %s\n",
		kp.Identifier, clientPath, serverPath)
	return nil
}

func encryptCommand() *cli.Command {
	return &cli.Command{
		Name:      "encrypt",
		Usage:     "encrypt an unsigned integer under a stored client key",
		ArgsUsage: "<value>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "key", Required: true, Usage: "path to the client key file"},
			&cli.IntFlag{Name: "width", Value: 8, Usage: "plaintext width in bits (8 or 32)"},
			&cli.StringFlag{Name: "out", Usage: "write the ciphertext blob here instead of stdout"},
		},
		Action: runEncrypt,
	}
}

func runEncrypt(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one value to encrypt")
	}
	width := c.Int("width")
	if width != 8 && width != 32 {
		return fmt.Errorf("unsupported width %d (want 8 or 32)", width)
	}
	value, err := strconv.ParseUint(c.Args().First(), 10, width)
	if err != nil {
		return fmt.Errorf("value %q does not fit %d bits: %v", c.Args().First(), width, err)
	}

	blob, err := keystore.Load(c.String("key"))
	if err != nil {
		return err
	}
	ck, err := fhe.LoadClientKey(blob)
	if err != nil {
		return err
	}

	var payload fhe.BinaryPayload
	switch width {
	case 8:
		payload, err = fhe.Encrypt8(ck, uint8(value))
	case 32:
		payload, err = fhe.Encrypt32(ck, uint32(value))
	}
	if err != nil {
		return err
	}
	data, err := fhe.Marshal(payload)
	if err != nil {
		return err
	}

	if out := c.String("out"); out != "" {
		if err := keystore.Save(out, data); err != nil {
			return err
		}
		fmt.Printf("ciphertext written to %s\n", out)
		return nil
	}
	fmt.Println(hexcodec.Encode(data))
	return nil
}

func whitelistFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "rpc-url", EnvVars: []string{"RPC_URL"}, Required: true, Usage: "ledger RPC endpoint"},
		&cli.StringFlag{Name: "private-key", EnvVars: []string{"DEPLOYER_PRIVATE_KEY"}, Required: true, Usage: "hex signing key"},
		&cli.StringFlag{Name: "contract", EnvVars: []string{"WHITELIST_ADDRESS"}, Required: true, Usage: "whitelist contract address"},
	}
}

func whitelistConfig(c *cli.Context) whitelist.Config {
	return whitelist.Config{
		RPCURL:          c.String("rpc-url"),
		PrivateKey:      c.String("private-key"),
		ContractAddress: c.String("contract"),
	}
}

func vaultArg(c *cli.Context) (common.Address, error) {
	raw := c.Args().First()
	if !common.IsHexAddress(raw) {
		return common.Address{}, fmt.Errorf("invalid vault address %q", raw)
	}
	return common.HexToAddress(raw), nil
}

func addToWhitelistCommand() *cli.Command {
	return &cli.Command{
		Name:      "add-to-whitelist",
		Usage:     "submit a transaction adding a vault to the whitelist",
		ArgsUsage: "<address>",
		Flags:     whitelistFlags(),
		Action: func(c *cli.Context) error {
			vault, err := vaultArg(c)
			if err != nil {
				return err
			}
			wl, err := whitelist.Dial(c.Context, whitelistConfig(c))
			if err != nil {
				return err
			}
			defer wl.Close()
			txHash, err := wl.AddVault(c.Context, vault)
			if err != nil {
				return err
			}
			fmt.Printf("vault %s submitted, tx %s\n", vault.Hex(), txHash.Hex())
			return nil
		},
	}
}

func checkWhitelistCommand() *cli.Command {
	return &cli.Command{
		Name:      "check-whitelist",
		Usage:     "read the whitelist membership flag for a vault",
		ArgsUsage: "<address>",
		Flags:     whitelistFlags(),
		Action: func(c *cli.Context) error {
			vault, err := vaultArg(c)
			if err != nil {
				return err
			}
			wl, err := whitelist.Dial(c.Context, whitelistConfig(c))
			if err != nil {
				return err
			}
			defer wl.Close()
			ok, err := wl.IsWhitelisted(c.Context, vault)
			if err != nil {
				return err
			}
			fmt.Printf("%s whitelisted: %v\n", vault.Hex(), ok)
			return nil
		},
	}
}

func publishKeyCommand() *cli.Command {
	return &cli.Command{
		Name:      "publish-key",
		Usage:     "upload a key file to IPFS and print its CID",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "api", Value: "localhost:5001", EnvVars: []string{"IPFS_API"}, Usage: "kubo API address"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return fmt.Errorf("expected exactly one file to publish")
			}
			cid, err := ipfspub.New(c.String("api")).PublishFile(c.Args().First())
			if err != nil {
				return err
			}
			fmt.Println(cid)
			return nil
		},
	}
}
