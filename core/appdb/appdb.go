package appdb

import (
	"encoding/binary"
	"sync/atomic"

	db "github.com/tendermint/tm-db"
)

const (
	hashPath   = "hash"
	heightPath = "height"
)

// AppDB is responsible for storing basic information about app state on disk
type AppDB struct {
	db db.DB

	lastHeight uint64
}

func NewAppDB(db db.DB) *AppDB {
	return &AppDB{db: db}
}

// Close closes db connection
func (appDB *AppDB) Close() error {
	return appDB.db.Close()
}

// GetLastBlockHash returns latest block hash stored on disk
func (appDB *AppDB) GetLastBlockHash() []byte {
	rawHash, err := appDB.db.Get([]byte(hashPath))
	if err != nil {
		panic(err)
	}

	if len(rawHash) == 0 {
		return nil
	}

	var hash [32]byte
	copy(hash[:], rawHash)
	return hash[:]
}

// SetLastBlockHash stores given block hash on disk, panics on error
func (appDB *AppDB) SetLastBlockHash(hash []byte) {
	if err := appDB.db.Set([]byte(hashPath), hash); err != nil {
		panic(err)
	}
}

// GetLastHeight returns latest block height stored on disk
func (appDB *AppDB) GetLastHeight() uint64 {
	val := atomic.LoadUint64(&appDB.lastHeight)
	if val != 0 {
		return val
	}

	result, err := appDB.db.Get([]byte(heightPath))
	if err != nil {
		panic(err)
	}

	if len(result) != 0 {
		val = binary.BigEndian.Uint64(result)
		atomic.StoreUint64(&appDB.lastHeight, val)
	}

	return val
}

// SetLastHeight stores given block height on disk, panics on error
func (appDB *AppDB) SetLastHeight(height uint64) {
	h := make([]byte, 8)
	binary.BigEndian.PutUint64(h, height)

	if err := appDB.db.Set([]byte(heightPath), h); err != nil {
		panic(err)
	}

	atomic.StoreUint64(&appDB.lastHeight, height)
}
