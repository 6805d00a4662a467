// Package ipfspub publishes public key material to an IPFS node so that
// parties performing homomorphic evaluation can fetch the server key by CID.
// Secret client keys have no business here.
package ipfspub

import (
	"os"

	shell "github.com/ipfs/go-ipfs-api"
	"github.com/pkg/errors"
)

// Publisher wraps the HTTP API of a kubo node.
type Publisher struct {
	sh *shell.Shell
}

// New returns a Publisher for the node at apiAddr (e.g. "localhost:5001").
func New(apiAddr string) *Publisher {
	return &Publisher{sh: shell.NewShell(apiAddr)}
}

// PublishFile adds the file at path and returns its CID.
func (p *Publisher) PublishFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", errors.Wrapf(err, "open %s", path)
	}
	defer f.Close()

	cid, err := p.sh.Add(f)
	if err != nil {
		return "", errors.Wrap(err, "ipfs add")
	}
	return cid, nil
}

// Fetch downloads the object at cid into outPath.
func (p *Publisher) Fetch(cid, outPath string) error {
	return errors.Wrapf(p.sh.Get(cid, outPath), "ipfs get %s", cid)
}
