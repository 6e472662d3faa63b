package onyx

import (
	"encoding/hex"
)

// HashLen is the size of content hashes in bytes.
const HashLen = 32

// AddressLen is the size of account addresses in bytes.
const AddressLen = 20

// Hash represents a 32-byte content hash, used for block hashes, transaction
// hashes and storage slot keys alike.
type Hash [HashLen]byte

// ZeroHash is the default value for Hash. It is the parent hash of a genesis
// header and the value of an unset storage slot.
var ZeroHash = Hash{}

// HexStringToHash converts a hex string to a Hash.
func HexStringToHash(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	copy(h[HashLen-len(b):], b)
	return h, nil
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// IsZero returns whether the hash equals ZeroHash.
func (h Hash) IsZero() bool {
	return h == ZeroHash
}

// Address represents a 20-byte account address.
type Address [AddressLen]byte

// EmptyAddress is the default value for Address.
var EmptyAddress = Address{}

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// NumHash pairs a block number with the hash of the block at that number.
type NumHash struct {
	Number uint64
	Hash   Hash
}
