package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const SchemaVersionV1 uint32 = 1

// Manifest is the archive's commit point for one contract: its genesis and
// declared schema, plus TipNodeIdsHex — the tip frontier of node ids whose
// owned-right outputs have not yet been consumed by a later transition
// (spec §3). PutGenesis seeds the frontier with genesis itself;
// PutOperation advances it on every accepted transition or extension, so
// the frontier on disk always reflects the archive's current contents
// without requiring a full graph walk to recompute it.
type Manifest struct {
	SchemaVersion uint32 `json:"schema_version"`
	ContractIdHex string `json:"contract_id_hex"`
	SchemaIdHex   string `json:"schema_id_hex"`

	GenesisNodeIdHex string   `json:"genesis_node_id_hex"`
	TipNodeIdsHex    []string `json:"tip_node_ids_hex"`
}

func manifestPath(contractDir string) string {
	return filepath.Join(contractDir, "MANIFEST.json")
}

func readManifest(contractDir string) (*Manifest, error) {
	b, err := os.ReadFile(manifestPath(contractDir))
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("manifest json: %w", err)
	}
	return &m, nil
}

// writeManifestAtomic writes MANIFEST.json as a crash-safe commit point:
// write temp -> fsync temp -> rename -> fsync dir.
func writeManifestAtomic(contractDir string, m *Manifest) error {
	if m == nil {
		return fmt.Errorf("manifest: nil")
	}
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("manifest json: %w", err)
	}
	b = append(b, '\n')

	final := manifestPath(contractDir)
	tmp := final + ".tmp"

	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304 -- tmp path is derived from operator-controlled datadir.
	if err != nil {
		return fmt.Errorf("manifest open tmp: %w", err)
	}
	_, werr := f.Write(b)
	serr := f.Sync()
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("manifest write tmp: %w", werr)
	}
	if serr != nil {
		return fmt.Errorf("manifest fsync tmp: %w", serr)
	}
	if cerr != nil {
		return fmt.Errorf("manifest close tmp: %w", cerr)
	}
	if err := os.Rename(tmp, final); err != nil {
		return fmt.Errorf("manifest rename: %w", err)
	}

	d, err := os.Open(contractDir) // #nosec G304 -- contractDir is derived from operator-controlled datadir, not user input.
	if err != nil {
		return fmt.Errorf("manifest fsync dir open: %w", err)
	}
	if err := d.Sync(); err != nil {
		_ = d.Close()
		return fmt.Errorf("manifest fsync dir: %w", err)
	}
	if err := d.Close(); err != nil {
		return fmt.Errorf("manifest fsync dir close: %w", err)
	}
	return nil
}
