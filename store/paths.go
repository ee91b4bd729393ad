package store

import (
	"fmt"
	"os"
	"path/filepath"
)

// ContractDir returns the on-disk directory for one contract's archive
// under datadir: datadir/contracts/<contract_id_hex>/
func ContractDir(datadir string, contractIDHex string) string {
	return filepath.Join(datadir, "contracts", contractIDHex)
}

func ensureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}
