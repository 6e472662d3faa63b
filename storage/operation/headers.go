package operation

import (
	"github.com/onyxchain/onyx/model/onyx"
	"github.com/onyxchain/onyx/storage"
)

// InsertHeader stores the header under its block number and indexes the block
// number by the header's hash.
func InsertHeader(w storage.Writer, blockHash onyx.Hash, header *onyx.Header) error {
	err := upsert(w, makePrefix(codeHeaderByNumber, header.Number), header)
	if err != nil {
		return err
	}
	return upsert(w, makePrefix(codeNumberByBlockHash, blockHash), header.Number)
}

// RetrieveHeader retrieves the canonical header at the given block number.
func RetrieveHeader(r storage.Reader, number uint64, header *onyx.Header) error {
	return retrieve(r, makePrefix(codeHeaderByNumber, number), header)
}

// LookupBlockNumber retrieves the block number indexed by the given hash.
func LookupBlockNumber(r storage.Reader, blockHash onyx.Hash, number *uint64) error {
	return retrieve(r, makePrefix(codeNumberByBlockHash, blockHash), number)
}

// IterateHeaders walks the canonical headers with numbers in [start, end] in
// ascending order, stopping early when handle returns false.
func IterateHeaders(r storage.Reader, start, end uint64, handle func(*onyx.Header) bool) error {
	var header *onyx.Header
	return iterateRange(r, codeHeaderByNumber, start, end,
		func() interface{} {
			header = new(onyx.Header)
			return header
		},
		func(uint64) bool {
			return handle(header)
		},
	)
}

// InsertBodyIndices stores the transaction-number indices of a block.
func InsertBodyIndices(w storage.Writer, number uint64, indices *onyx.BlockBodyIndices) error {
	return upsert(w, makePrefix(codeBodyIndices, number), indices)
}

// RetrieveBodyIndices retrieves the transaction-number indices of a block.
func RetrieveBodyIndices(r storage.Reader, number uint64, indices *onyx.BlockBodyIndices) error {
	return retrieve(r, makePrefix(codeBodyIndices, number), indices)
}

// InsertLastBlockNumber records the number of the highest flushed block.
func InsertLastBlockNumber(w storage.Writer, number uint64) error {
	return upsert(w, makePrefix(codeLastBlockNumber), number)
}

// RetrieveLastBlockNumber retrieves the number of the highest flushed block.
func RetrieveLastBlockNumber(r storage.Reader, number *uint64) error {
	return retrieve(r, makePrefix(codeLastBlockNumber), number)
}
