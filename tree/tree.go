package tree

import (
	"fmt"
	"sync"

	"github.com/cosmos/iavl"
	dbm "github.com/tendermint/tm-db"
)

// Store is a state sub-store that flushes its dirty entries into the shared
// iavl tree on Commit and re-reads through the latest immutable snapshot.
type Store interface {
	Commit(db *iavl.MutableTree) error
	SetImmutableTree(immutableTree *iavl.ImmutableTree)
}

type MTree interface {
	Get(key []byte) (index int64, value []byte)
	Version() int64
	Hash() []byte
	GetLastImmutable() *iavl.ImmutableTree
	GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error)
	Commit(stores ...Store) (hash []byte, version int64, err error)
	DeleteVersion(version int64) error
	AvailableVersions() []int
	KeepLastHeight() int64
}

// NewMutableTree loads the tree at the given height, or creates an empty one
// starting at initialVersion when height is 0.
func NewMutableTree(height uint64, db dbm.DB, cacheSize int, initialVersion uint64) (MTree, error) {
	t, err := iavl.NewMutableTreeWithOpts(db, cacheSize, &iavl.Options{InitialVersion: initialVersion})
	if err != nil {
		return nil, err
	}

	if height == 0 {
		if _, err := t.Load(); err != nil {
			return nil, err
		}

		return &mutableTree{tree: t}, nil
	}

	if _, err := t.LoadVersionForOverwriting(int64(height)); err != nil {
		return nil, err
	}

	return &mutableTree{tree: t}, nil
}

// NewImmutableTree returns a read-only snapshot at the given height.
func NewImmutableTree(height uint64, db dbm.DB) (*iavl.ImmutableTree, error) {
	t, err := iavl.NewMutableTree(db, 1024)
	if err != nil {
		return nil, err
	}

	if _, err := t.LazyLoadVersion(int64(height)); err != nil {
		return nil, fmt.Errorf("version %d: %w", height, err)
	}

	return t.ImmutableTree, nil
}

type mutableTree struct {
	tree *iavl.MutableTree
	lock sync.RWMutex
}

func (t *mutableTree) Get(key []byte) (index int64, value []byte) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Get(key)
}

func (t *mutableTree) Version() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Version()
}

func (t *mutableTree) Hash() []byte {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.Hash()
}

func (t *mutableTree) GetLastImmutable() *iavl.ImmutableTree {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.ImmutableTree
}

func (t *mutableTree) GetImmutableAtHeight(version int64) (*iavl.ImmutableTree, error) {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.GetImmutable(version)
}

// Commit flushes every store into the tree, saves a version and hands the new
// immutable snapshot back to the stores.
func (t *mutableTree) Commit(stores ...Store) (hash []byte, version int64, err error) {
	t.lock.Lock()
	defer t.lock.Unlock()

	for _, store := range stores {
		if err := store.Commit(t.tree); err != nil {
			return nil, 0, err
		}
	}

	hash, version, err = t.tree.SaveVersion()
	if err != nil {
		return nil, 0, err
	}

	immutable := t.tree.ImmutableTree
	for _, store := range stores {
		store.SetImmutableTree(immutable)
	}

	return hash, version, nil
}

func (t *mutableTree) DeleteVersion(version int64) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	if !t.tree.VersionExists(version) {
		return nil
	}

	return t.tree.DeleteVersion(version)
}

func (t *mutableTree) AvailableVersions() []int {
	t.lock.RLock()
	defer t.lock.RUnlock()

	return t.tree.AvailableVersions()
}

func (t *mutableTree) KeepLastHeight() int64 {
	t.lock.RLock()
	defer t.lock.RUnlock()

	versions := t.tree.AvailableVersions()
	prev := 1
	for _, version := range versions {
		if version-prev == 1 {
			break
		}
		prev = version
	}

	return int64(prev)
}
