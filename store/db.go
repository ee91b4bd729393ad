// Package store is a bbolt-backed archive for consignments: genesis,
// accepted operations, the schemas they validate against, and the anchors
// closing their seals, keyed the way a validator looks them up (spec §4.7,
// §6 "consignment").
package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"rgbcore.dev/core/idtypes"
	"rgbcore.dev/core/operation"
	"rgbcore.dev/core/schema"
	"rgbcore.dev/core/validation"

	bolt "go.etcd.io/bbolt"
)

var (
	bucketGenesis    = []byte("genesis_by_contract")
	bucketOperations = []byte("operations_by_node_id")
	bucketSchemas    = []byte("schemas_by_schema_id")
	bucketAnchors    = []byte("anchors_by_node_id")
)

type DB struct {
	contractDir string
	db          *bolt.DB
	manifest    *Manifest
	log         *slog.Logger
}

// Open opens (creating if absent) the bbolt archive for one contract under
// datadir. A freshly created archive has no manifest until SetManifest is
// called once the genesis is known.
func Open(datadir string, contractIDHex string) (*DB, error) {
	if datadir == "" {
		return nil, fmt.Errorf("store: datadir required")
	}
	if contractIDHex == "" {
		return nil, fmt.Errorf("store: contract_id_hex required")
	}

	contractDir := ContractDir(datadir, contractIDHex)
	if err := ensureDir(contractDir); err != nil {
		return nil, err
	}
	if err := ensureDir(filepath.Join(contractDir, "db")); err != nil {
		return nil, err
	}

	path := filepath.Join(contractDir, "db", "archive.db")
	bdb, err := bolt.Open(path, 0o600, &bolt.Options{
		Timeout: 1 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("store: open bbolt: %w", err)
	}

	d := &DB{contractDir: contractDir, db: bdb, log: slog.Default().With("contract_id", contractIDHex)}

	if err := d.db.Update(func(tx *bolt.Tx) error {
		for _, b := range [][]byte{bucketGenesis, bucketOperations, bucketSchemas, bucketAnchors} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("create bucket %s: %w", string(b), err)
			}
		}
		return nil
	}); err != nil {
		_ = bdb.Close()
		return nil, err
	}

	m, err := readManifest(contractDir)
	if err != nil {
		if os.IsNotExist(err) {
			d.log.Info("store opened without manifest; awaiting genesis")
			return d, nil
		}
		_ = bdb.Close()
		return nil, fmt.Errorf("store: read manifest: %w", err)
	}
	if m.SchemaVersion > SchemaVersionV1 {
		_ = bdb.Close()
		return nil, fmt.Errorf("store: manifest schema_version %d > supported %d", m.SchemaVersion, SchemaVersionV1)
	}
	d.manifest = m
	return d, nil
}

func (d *DB) Close() error {
	if d == nil || d.db == nil {
		return nil
	}
	return d.db.Close()
}

func (d *DB) ContractDir() string { return d.contractDir }

func (d *DB) Manifest() *Manifest {
	if d == nil {
		return nil
	}
	return d.manifest
}

func (d *DB) SetManifest(m *Manifest) error {
	if d == nil {
		return fmt.Errorf("store: nil db")
	}
	if err := writeManifestAtomic(d.contractDir, m); err != nil {
		return err
	}
	d.manifest = m
	return nil
}

// PutGenesis stores the contract's root operation and records its node id
// as the manifest's genesis, seeding the tip frontier if this is the first
// write (spec §3 "contract_id == genesis node_id").
func (d *DB) PutGenesis(contractID idtypes.ContractId, g operation.Genesis) error {
	val, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("store: encode genesis: %w", err)
	}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketGenesis).Put(contractID[:], val)
	}); err != nil {
		return err
	}
	if err := d.seedManifestTip(g); err != nil {
		return fmt.Errorf("store: seed manifest tip: %w", err)
	}
	d.log.Info("genesis stored", "node_id", g.NodeId())
	return nil
}

// seedManifestTip initializes the manifest's genesis and tip-frontier
// fields the first time a genesis is written, preserving any
// ContractId/SchemaId fields already set by a prior SetManifest call. The
// tip frontier is the set of unconsumed, owned-right-producing node ids
// reachable from genesis (spec §3) — with only genesis stored, that is
// genesis itself.
func (d *DB) seedManifestTip(g operation.Genesis) error {
	m := Manifest{SchemaVersion: SchemaVersionV1}
	if d.manifest != nil {
		m = *d.manifest
	}
	if m.GenesisNodeIdHex != "" {
		return nil
	}
	nodeID := g.NodeId()
	m.GenesisNodeIdHex = nodeID.String()
	m.TipNodeIdsHex = []string{nodeID.String()}
	return d.SetManifest(&m)
}

func (d *DB) GetGenesis(contractID idtypes.ContractId) (operation.Genesis, bool, error) {
	var out operation.Genesis
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketGenesis).Get(contractID[:])
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &out); err != nil {
			return fmt.Errorf("store: decode genesis: %w", err)
		}
		ok = true
		return nil
	})
	return out, ok, err
}

// PutOperation stores one accepted transition or extension keyed by its
// node id, then advances the manifest's tip frontier: the parent outputs
// it consumes leave the frontier, and the operation itself joins it.
func (d *DB) PutOperation(op operation.Operation) error {
	nodeID := op.NodeId()
	val, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("store: encode operation %s: %w", nodeID, err)
	}
	if err := d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOperations).Put(nodeID[:], val)
	}); err != nil {
		return err
	}
	if err := d.advanceManifestTip(op); err != nil {
		return fmt.Errorf("store: advance manifest tip: %w", err)
	}
	d.log.Debug("operation stored", "node_id", nodeID, "kind", op.Kind)
	return nil
}

// advanceManifestTip drops op's consumed parent node ids from the tip
// frontier and appends op's own node id, leaving the manifest untouched if
// no genesis has been recorded yet (spec §3).
func (d *DB) advanceManifestTip(op operation.Operation) error {
	if d.manifest == nil {
		return nil
	}
	consumed := make(map[string]bool, len(op.ParentOwnedRights()))
	for parentID := range op.ParentOwnedRights() {
		consumed[parentID.String()] = true
	}

	m := *d.manifest
	next := make([]string, 0, len(m.TipNodeIdsHex)+1)
	for _, hex := range m.TipNodeIdsHex {
		if !consumed[hex] {
			next = append(next, hex)
		}
	}
	m.TipNodeIdsHex = append(next, op.NodeId().String())
	return d.SetManifest(&m)
}

func (d *DB) GetOperation(nodeID idtypes.NodeId) (operation.Operation, bool, error) {
	var out operation.Operation
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketOperations).Get(nodeID[:])
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &out); err != nil {
			return fmt.Errorf("store: decode operation %s: %w", nodeID, err)
		}
		ok = true
		return nil
	})
	return out, ok, err
}

// ListOperations loads every operation in the archive, keyed by node id,
// for handing to a Validator as a Consignment's Operations map.
func (d *DB) ListOperations() (map[idtypes.NodeId]operation.Operation, error) {
	out := make(map[idtypes.NodeId]operation.Operation)
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketOperations).ForEach(func(k, v []byte) error {
			var op operation.Operation
			if err := json.Unmarshal(v, &op); err != nil {
				return fmt.Errorf("store: decode operation %x: %w", k, err)
			}
			var nodeID idtypes.NodeId
			copy(nodeID[:], k)
			out[nodeID] = op
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (d *DB) PutSchema(s schema.Schema) error {
	schemaID := s.SchemaId()
	val, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("store: encode schema %s: %w", schemaID, err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSchemas).Put(schemaID[:], val)
	})
}

func (d *DB) GetSchema(schemaID idtypes.SchemaId) (schema.Schema, bool, error) {
	var out schema.Schema
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketSchemas).Get(schemaID[:])
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &out); err != nil {
			return fmt.Errorf("store: decode schema %s: %w", schemaID, err)
		}
		ok = true
		return nil
	})
	return out, ok, err
}

// PutAnchor stores the witness/DBC-proof pair closing the seals a node
// spends, keyed by that node's id.
func (d *DB) PutAnchor(nodeID idtypes.NodeId, a validation.Anchor) error {
	val, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("store: encode anchor %s: %w", nodeID, err)
	}
	return d.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAnchors).Put(nodeID[:], val)
	})
}

func (d *DB) GetAnchor(nodeID idtypes.NodeId) (validation.Anchor, bool, error) {
	var out validation.Anchor
	var ok bool
	err := d.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketAnchors).Get(nodeID[:])
		if v == nil {
			return nil
		}
		if err := json.Unmarshal(v, &out); err != nil {
			return fmt.Errorf("store: decode anchor %s: %w", nodeID, err)
		}
		ok = true
		return nil
	})
	return out, ok, err
}

// ListAnchors loads every anchor in the archive, keyed by node id.
func (d *DB) ListAnchors() (map[idtypes.NodeId]validation.Anchor, error) {
	out := make(map[idtypes.NodeId]validation.Anchor)
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketAnchors).ForEach(func(k, v []byte) error {
			var a validation.Anchor
			if err := json.Unmarshal(v, &a); err != nil {
				return fmt.Errorf("store: decode anchor %x: %w", k, err)
			}
			var nodeID idtypes.NodeId
			copy(nodeID[:], k)
			out[nodeID] = a
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListSchemas loads every schema in the archive, keyed by schema id.
func (d *DB) ListSchemas() (map[idtypes.SchemaId]schema.Schema, error) {
	out := make(map[idtypes.SchemaId]schema.Schema)
	err := d.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSchemas).ForEach(func(k, v []byte) error {
			var s schema.Schema
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("store: decode schema %x: %w", k, err)
			}
			var schemaID idtypes.SchemaId
			copy(schemaID[:], k)
			out[schemaID] = s
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Consignment assembles the archive's current contents into a
// validation.Consignment for a Validator run (spec §6).
func (d *DB) Consignment(contractID idtypes.ContractId) (validation.Consignment, error) {
	g, ok, err := d.GetGenesis(contractID)
	if err != nil {
		return validation.Consignment{}, err
	}
	if !ok {
		return validation.Consignment{}, fmt.Errorf("store: no genesis for contract %s", contractID)
	}
	ops, err := d.ListOperations()
	if err != nil {
		return validation.Consignment{}, err
	}
	schemas, err := d.ListSchemas()
	if err != nil {
		return validation.Consignment{}, err
	}
	anchorsByNode, err := d.ListAnchors()
	if err != nil {
		return validation.Consignment{}, err
	}
	return validation.Consignment{
		ContractId: contractID,
		Genesis:    g,
		Operations: ops,
		Schemas:    schemas,
		Anchors:    anchorsByNode,
	}, nil
}
