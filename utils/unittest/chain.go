package unittest

import (
	"sort"

	"github.com/onyxchain/onyx/model/onyx"
)

// ChainBuilder produces a consistent chain of executed blocks: headers link
// up, every block carries receipts and a state diff, and the diffs' prior
// values follow from a running account state. Splitting the produced blocks
// between a store and an in-memory segment yields a valid boundary for view
// tests.
type ChainBuilder struct {
	parentHash onyx.Hash
	next       uint64

	accounts map[onyx.Address]*onyx.Account
	slots    map[onyx.Address]map[onyx.Hash]onyx.Hash

	// pool is the fixed set of addresses the generated transactions touch,
	// so that successive blocks keep revisiting the same accounts and the
	// changesets carry non-trivial prior values.
	pool []onyx.Address
}

func NewChainBuilder() *ChainBuilder {
	pool := make([]onyx.Address, 0, 4)
	for i := 0; i < 4; i++ {
		pool = append(pool, AddressFixture())
	}
	sort.Slice(pool, func(i, j int) bool {
		return string(pool[i][:]) < string(pool[j][:])
	})
	return &ChainBuilder{
		accounts: make(map[onyx.Address]*onyx.Account),
		slots:    make(map[onyx.Address]map[onyx.Hash]onyx.Hash),
		pool:     pool,
	}
}

// NextBlock generates the next block in the chain with the given number of
// transactions, advancing the builder's running state.
func (b *ChainBuilder) NextBlock(txCount int) (*onyx.RecoveredBlock, []*onyx.Receipt, *onyx.StateDiff) {
	header := HeaderFixture(b.next, b.parentHash)

	txs := TransactionFixtures(txCount)
	senders := make([]onyx.Address, 0, txCount)
	receipts := make([]*onyx.Receipt, 0, txCount)
	diff := &onyx.StateDiff{
		PostAccounts: make(map[onyx.Address]*onyx.Account),
		PostStorage:  make(map[onyx.Address]map[onyx.Hash]onyx.Hash),
	}

	var cumulative uint64
	touched := make(map[onyx.Address]struct{})
	for i, tx := range txs {
		receipt := ReceiptFixture(tx, cumulative)
		cumulative = receipt.CumulativeGasUsed
		receipts = append(receipts, receipt)

		addr := b.pool[(int(b.next)+i)%len(b.pool)]
		senders = append(senders, addr)

		if _, seen := touched[addr]; !seen {
			touched[addr] = struct{}{}
			diff.AccountChanges = append(diff.AccountChanges, onyx.AccountChange{
				Address: addr,
				Prev:    copyAccount(b.accounts[addr]),
			})
		}

		next := copyAccount(b.accounts[addr])
		if next == nil {
			next = &onyx.Account{}
		}
		next.Nonce++
		next.Balance += tx.Value
		b.accounts[addr] = next
		diff.PostAccounts[addr] = copyAccount(next)

		key := slotKey(uint64(i % 2))
		prev := b.slots[addr][key]
		diff.StorageChanges = append(diff.StorageChanges, onyx.StorageChange{
			Address: addr,
			Key:     key,
			Prev:    prev,
		})
		value := slotValue(b.next, uint64(i))
		if b.slots[addr] == nil {
			b.slots[addr] = make(map[onyx.Hash]onyx.Hash)
		}
		b.slots[addr][key] = value
		if diff.PostStorage[addr] == nil {
			diff.PostStorage[addr] = make(map[onyx.Hash]onyx.Hash)
		}
		diff.PostStorage[addr][key] = value
	}

	// Changesets are recorded in deterministic (address, key) order, the way
	// the execution layer emits them.
	sort.Slice(diff.AccountChanges, func(i, j int) bool {
		return string(diff.AccountChanges[i].Address[:]) < string(diff.AccountChanges[j].Address[:])
	})
	sort.Slice(diff.StorageChanges, func(i, j int) bool {
		a, c := diff.StorageChanges[i], diff.StorageChanges[j]
		if a.Address != c.Address {
			return string(a.Address[:]) < string(c.Address[:])
		}
		return string(a.Key[:]) < string(c.Key[:])
	})

	block := &onyx.RecoveredBlock{
		Block:   &onyx.Block{Header: header, Transactions: txs},
		Senders: senders,
	}
	b.parentHash = block.ID()
	b.next++
	return block, receipts, diff
}

// Blocks generates n consecutive blocks with txPerBlock transactions each.
func (b *ChainBuilder) Blocks(n, txPerBlock int) ([]*onyx.RecoveredBlock, [][]*onyx.Receipt, []*onyx.StateDiff) {
	blocks := make([]*onyx.RecoveredBlock, 0, n)
	receipts := make([][]*onyx.Receipt, 0, n)
	diffs := make([]*onyx.StateDiff, 0, n)
	for i := 0; i < n; i++ {
		block, blockReceipts, diff := b.NextBlock(txPerBlock)
		blocks = append(blocks, block)
		receipts = append(receipts, blockReceipts)
		diffs = append(diffs, diff)
	}
	return blocks, receipts, diffs
}

// Accounts returns a copy of the builder's running account state.
func (b *ChainBuilder) Accounts() map[onyx.Address]*onyx.Account {
	accounts := make(map[onyx.Address]*onyx.Account, len(b.accounts))
	for addr, account := range b.accounts {
		accounts[addr] = copyAccount(account)
	}
	return accounts
}

// Pool returns the addresses the generated transactions touch.
func (b *ChainBuilder) Pool() []onyx.Address {
	return b.pool
}

func copyAccount(account *onyx.Account) *onyx.Account {
	if account == nil {
		return nil
	}
	cp := *account
	return &cp
}

func slotKey(i uint64) onyx.Hash {
	var key onyx.Hash
	key[31] = byte(i + 1)
	return key
}

func slotValue(block, i uint64) onyx.Hash {
	var value onyx.Hash
	value[0] = byte(block + 1)
	value[1] = byte(i + 1)
	return value
}
