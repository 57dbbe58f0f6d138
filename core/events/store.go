package events

import (
	"encoding/binary"
	"sync"

	"github.com/tendermint/go-amino"
	db "github.com/tendermint/tm-db"
)

// IEventsDB is the persistent per-height event journal.
type IEventsDB interface {
	AddEvent(event Event)
	LoadEvents(height uint64) Events
	CommitEvents(height uint64) error
}

type eventsStore struct {
	sync.RWMutex
	db      db.DB
	cdc     *amino.Codec
	pending Events
}

func NewEventsStore(db db.DB) IEventsDB {
	codec := amino.NewCodec()
	RegisterAminoEvents(codec)

	return &eventsStore{
		db:      db,
		cdc:     codec,
		pending: Events{},
	}
}

func (store *eventsStore) AddEvent(event Event) {
	store.Lock()
	defer store.Unlock()

	store.pending = append(store.pending, event)
}

func (store *eventsStore) LoadEvents(height uint64) Events {
	bytes, err := store.db.Get(getKeyForHeight(height))
	if err != nil {
		panic(err)
	}
	if len(bytes) == 0 {
		return Events{}
	}

	var events Events
	if err := store.cdc.UnmarshalBinaryBare(bytes, &events); err != nil {
		panic(err)
	}

	return events
}

func (store *eventsStore) CommitEvents(height uint64) error {
	store.Lock()
	defer store.Unlock()

	bytes, err := store.cdc.MarshalBinaryBare(store.pending)
	if err != nil {
		return err
	}

	if err := store.db.Set(getKeyForHeight(height), bytes); err != nil {
		return err
	}

	store.pending = Events{}
	return nil
}

func getKeyForHeight(height uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, height)

	return key
}

// MockEvents collects events in memory, for tests and for nodes that run
// with the journal disabled.
type MockEvents struct {
	byHeight map[uint64]Events
	pending  Events
}

func NewMockEvents() *MockEvents {
	return &MockEvents{byHeight: map[uint64]Events{}}
}

func (m *MockEvents) AddEvent(event Event) {
	m.pending = append(m.pending, event)
}

func (m *MockEvents) LoadEvents(height uint64) Events {
	return m.byHeight[height]
}

func (m *MockEvents) CommitEvents(height uint64) error {
	m.byHeight[height] = m.pending
	m.pending = nil
	return nil
}
