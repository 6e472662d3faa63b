package onyx

import "fmt"

// BlockID identifies a block either by its hash or by its number. The zero
// value is invalid; construct one with BlockIDFromHash or BlockIDFromNumber.
type BlockID struct {
	hash   Hash
	number uint64
	byHash bool
	valid  bool
}

// BlockIDFromHash identifies a block by hash.
func BlockIDFromHash(hash Hash) BlockID {
	return BlockID{hash: hash, byHash: true, valid: true}
}

// BlockIDFromNumber identifies a block by number.
func BlockIDFromNumber(number uint64) BlockID {
	return BlockID{number: number, valid: true}
}

// ByHash returns the hash and true when the ID identifies a block by hash.
func (id BlockID) ByHash() (Hash, bool) {
	return id.hash, id.byHash
}

// ByNumber returns the number and true when the ID identifies a block by
// number.
func (id BlockID) ByNumber() (uint64, bool) {
	return id.number, id.valid && !id.byHash
}

func (id BlockID) String() string {
	if id.byHash {
		return id.hash.String()
	}
	return fmt.Sprintf("#%d", id.number)
}

// TxID identifies a transaction either by its hash or by its chain-wide
// transaction number.
type TxID struct {
	hash   Hash
	number uint64
	byHash bool
	valid  bool
}

// TxIDFromHash identifies a transaction by hash.
func TxIDFromHash(hash Hash) TxID {
	return TxID{hash: hash, byHash: true, valid: true}
}

// TxIDFromNumber identifies a transaction by its chain-wide number.
func TxIDFromNumber(number uint64) TxID {
	return TxID{number: number, valid: true}
}

// ByHash returns the hash and true when the ID identifies a transaction by
// hash.
func (id TxID) ByHash() (Hash, bool) {
	return id.hash, id.byHash
}

// ByNumber returns the number and true when the ID identifies a transaction
// by number.
func (id TxID) ByNumber() (uint64, bool) {
	return id.number, id.valid && !id.byHash
}

func (id TxID) String() string {
	if id.byHash {
		return id.hash.String()
	}
	return fmt.Sprintf("tx#%d", id.number)
}
