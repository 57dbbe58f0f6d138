package appdb

import (
	"bytes"
	"testing"

	db "github.com/tendermint/tm-db"
)

func TestAppDBHeightAndHash(t *testing.T) {
	t.Parallel()
	memDB := db.NewMemDB()
	appDB := NewAppDB(memDB)

	if appDB.GetLastHeight() != 0 {
		t.Fatal("fresh db must report height 0")
	}
	if appDB.GetLastBlockHash() != nil {
		t.Fatal("fresh db must have no block hash")
	}

	hash := bytes.Repeat([]byte{0xab}, 32)
	appDB.SetLastBlockHash(hash)
	appDB.SetLastHeight(42)

	if appDB.GetLastHeight() != 42 {
		t.Fatalf("wrong height %d", appDB.GetLastHeight())
	}
	if !bytes.Equal(appDB.GetLastBlockHash(), hash) {
		t.Fatal("wrong block hash")
	}

	// reopen over the same backing store
	reopened := NewAppDB(memDB)
	if reopened.GetLastHeight() != 42 {
		t.Fatalf("height lost on reopen: %d", reopened.GetLastHeight())
	}
	if !bytes.Equal(reopened.GetLastBlockHash(), hash) {
		t.Fatal("hash lost on reopen")
	}
}
