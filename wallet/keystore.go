package wallet

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileName is the sealed seed file inside the data directory.
const FileName = "wallet.enc"

// Path returns the sealed seed path for dataDir.
func Path(dataDir string) string { return filepath.Join(dataDir, FileName) }

// Create seals seed into dataDir. It refuses to overwrite a wallet.
func Create(dataDir string, seed []byte, password string, kdf KDF) error {
	path := Path(dataDir)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrExists, path)
	}
	sealed, err := SealSeed(seed, password, kdf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return fmt.Errorf("wallet: create data dir: %w", err)
	}
	if err := os.WriteFile(path, sealed, 0600); err != nil {
		return fmt.Errorf("wallet: write %s: %w", path, err)
	}
	return nil
}

// Open unseals the wallet in dataDir.
func Open(dataDir, password string, kdf KDF) (*Wallet, error) {
	sealed, err := os.ReadFile(Path(dataDir))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, dataDir)
	}
	if err != nil {
		return nil, fmt.Errorf("wallet: read: %w", err)
	}
	seed, err := OpenSeed(sealed, password, kdf)
	if err != nil {
		return nil, err
	}
	return New(seed)
}
