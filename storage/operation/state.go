package operation

import (
	"errors"

	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
)

// UpsertAccount writes the plain (latest flushed) state of an account. A nil
// account deletes the entry, recording the account as nonexistent.
func UpsertAccount(w storage.Writer, addr onyx.Address, account *onyx.Account) error {
	key := makePrefix(codePlainAccount, addr)
	if account == nil {
		return remove(w, key)
	}
	return upsert(w, key, account)
}

// RetrieveAccount retrieves the plain state of an account. A nonexistent
// account yields a nil *Account and no error.
func RetrieveAccount(r storage.Reader, addr onyx.Address) (*onyx.Account, error) {
	var account onyx.Account
	err := retrieve(r, makePrefix(codePlainAccount, addr), &account)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// UpsertStorageSlot writes the plain state of a storage slot. A zero value
// deletes the entry, recording the slot as unset.
func UpsertStorageSlot(w storage.Writer, addr onyx.Address, key onyx.Hash, value onyx.Hash) error {
	dbKey := makePrefix(codePlainStorage, addr, key)
	if value.IsZero() {
		return remove(w, dbKey)
	}
	return upsert(w, dbKey, &value)
}

// RetrieveStorageSlot retrieves the plain state of a storage slot. An unset
// slot yields the zero hash and no error.
func RetrieveStorageSlot(r storage.Reader, addr onyx.Address, key onyx.Hash) (onyx.Hash, error) {
	var value onyx.Hash
	err := retrieve(r, makePrefix(codePlainStorage, addr, key), &value)
	if errors.Is(err, storage.ErrNotFound) {
		return onyx.ZeroHash, nil
	}
	if err != nil {
		return onyx.ZeroHash, err
	}
	return value, nil
}
