package tree

import (
	"bytes"
	"testing"

	"github.com/cosmos/iavl"
	db "github.com/tendermint/tm-db"
)

type fakeStore struct {
	key, value []byte
	snapshots  int
}

func (s *fakeStore) Commit(tree *iavl.MutableTree) error {
	tree.Set(s.key, s.value)
	return nil
}

func (s *fakeStore) SetImmutableTree(_ *iavl.ImmutableTree) {
	s.snapshots++
}

func TestCommitFlushesStores(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	mutableTree, err := NewMutableTree(0, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	store := &fakeStore{key: []byte("k"), value: []byte("v")}

	hash, version, err := mutableTree.Commit(store)
	if err != nil {
		t.Fatal(err)
	}
	if version != 1 {
		t.Fatalf("wrong version %d", version)
	}
	if len(hash) == 0 {
		t.Fatal("empty hash")
	}
	if store.snapshots != 1 {
		t.Fatal("store must receive the new immutable snapshot")
	}

	_, value := mutableTree.Get([]byte("k"))
	if !bytes.Equal(value, []byte("v")) {
		t.Fatalf("wrong value %q", value)
	}
}

func TestLoadAtHeight(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	mutableTree, err := NewMutableTree(0, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	first := &fakeStore{key: []byte("k"), value: []byte("one")}
	if _, _, err := mutableTree.Commit(first); err != nil {
		t.Fatal(err)
	}

	second := &fakeStore{key: []byte("k"), value: []byte("two")}
	if _, _, err := mutableTree.Commit(second); err != nil {
		t.Fatal(err)
	}

	reloaded, err := NewMutableTree(1, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	_, value := reloaded.Get([]byte("k"))
	if !bytes.Equal(value, []byte("one")) {
		t.Fatalf("expected the height-1 value, got %q", value)
	}
}

func TestImmutableSnapshotAtHeight(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	mutableTree, err := NewMutableTree(0, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := mutableTree.Commit(&fakeStore{key: []byte("k"), value: []byte("one")}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := mutableTree.Commit(&fakeStore{key: []byte("k"), value: []byte("two")}); err != nil {
		t.Fatal(err)
	}

	snapshot, err := mutableTree.GetImmutableAtHeight(1)
	if err != nil {
		t.Fatal(err)
	}

	_, value := snapshot.Get([]byte("k"))
	if !bytes.Equal(value, []byte("one")) {
		t.Fatalf("snapshot must see the old value, got %q", value)
	}
}

func TestDeleteVersion(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	mutableTree, err := NewMutableTree(0, memDB, 1024, 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := mutableTree.Commit(&fakeStore{key: []byte("k"), value: []byte("one")}); err != nil {
		t.Fatal(err)
	}
	if _, _, err := mutableTree.Commit(&fakeStore{key: []byte("k"), value: []byte("two")}); err != nil {
		t.Fatal(err)
	}

	if err := mutableTree.DeleteVersion(1); err != nil {
		t.Fatal(err)
	}

	// deleting a missing version is a no-op
	if err := mutableTree.DeleteVersion(1); err != nil {
		t.Fatal(err)
	}

	if _, err := mutableTree.GetImmutableAtHeight(1); err == nil {
		t.Fatal("deleted version must not be readable")
	}
}
