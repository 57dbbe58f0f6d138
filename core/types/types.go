package types

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"
)

const (
	// AddressLength is the expected length of an account identity
	AddressLength = 20
	// HashLength is the expected length of a content hash
	HashLength = 32
)

/////////// Address

// Address identifies an actor on the ledger: the owner, a voter or a miner.
type Address [AddressLength]byte

func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

func StringToAddress(s string) Address { return BytesToAddress([]byte(s)) }
func HexToAddress(s string) Address    { return BytesToAddress(fromHex(s, "Gx")) }

// Sets the address to the value of b. If b is larger than len(a) it is cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

func (a Address) Bytes() []byte { return a[:] }

func (a Address) Hex() string {
	return "Gx" + hex.EncodeToString(a[:])
}

// String implements the stringer interface and is used also by the logger.
func (a Address) String() string {
	return a.Hex()
}

func (a Address) IsZero() bool {
	return a == Address{}
}

func (a Address) Compare(a2 Address) int {
	return bytes.Compare(a.Bytes(), a2.Bytes())
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

func (a *Address) UnmarshalText(input []byte) error {
	b := fromHex(string(input), "Gx")
	if len(b) != AddressLength {
		return fmt.Errorf("invalid address length %d", len(b))
	}
	copy(a[:], b)
	return nil
}

func (a Address) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", a.Hex())), nil
}

func (a *Address) UnmarshalJSON(input []byte) error {
	if len(input) < 2 {
		return fmt.Errorf("invalid address %q", input)
	}
	return a.UnmarshalText(input[1 : len(input)-1])
}

/////////// Hash

// Hash carries dedup keys, proof hashes and cancellation reason hashes.
type Hash [HashLength]byte

func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

func HexToHash(s string) Hash { return BytesToHash(fromHex(s, "0x")) }

// HashOf returns the sha256 digest of data. Dedup keys are HashOf the
// external identifier (e.g. the issue URL).
func HashOf(data []byte) Hash {
	return Hash(sha256.Sum256(data))
}

func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

func (h Hash) Bytes() []byte { return h[:] }

func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

func (h Hash) String() string { return h.Hex() }

func (h Hash) IsZero() bool {
	return h == Hash{}
}

func (h Hash) Compare(h2 Hash) int {
	return bytes.Compare(h.Bytes(), h2.Bytes())
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

func (h *Hash) UnmarshalText(input []byte) error {
	b := fromHex(string(input), "0x")
	if len(b) != HashLength {
		return fmt.Errorf("invalid hash length %d", len(b))
	}
	copy(h[:], b)
	return nil
}

func (h Hash) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", h.Hex())), nil
}

func (h *Hash) UnmarshalJSON(input []byte) error {
	if len(input) < 2 {
		return fmt.Errorf("invalid hash %q", input)
	}
	return h.UnmarshalText(input[1 : len(input)-1])
}

func fromHex(s, prefix string) []byte {
	if strings.HasPrefix(s, prefix) {
		s = s[len(prefix):]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

// IsValidRepositoryName reports whether name has the owner/name shape:
// exactly one separator, not at either edge.
func IsValidRepositoryName(name string) bool {
	idx := strings.IndexByte(name, '/')
	if idx <= 0 || idx != strings.LastIndexByte(name, '/') {
		return false
	}
	return idx < len(name)-1
}

// BigIntOrZero decodes a big-endian byte representation produced by
// big.Int.Bytes. An empty slice decodes to zero.
func BigIntOrZero(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}
