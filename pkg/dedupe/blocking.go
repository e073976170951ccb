package dedupe

// Blocks partitions catalog indices by BlockKey. Only records that share a
// key are ever compared, which turns one O(n²) scan into the sum of the
// squared block sizes. Duplicates filed under different muscle groups or
// categories are therefore never found.
type Blocks struct {
	keys    []BlockKey
	members map[BlockKey][]int
}

// BuildBlocks groups record indices by key. Keys keep the order in which
// they first appear in the catalog and members keep catalog order.
func BuildBlocks(records []CatalogRecord) *Blocks {
	b := &Blocks{members: make(map[BlockKey][]int)}
	for i, rec := range records {
		key := rec.Key()
		if _, ok := b.members[key]; !ok {
			b.keys = append(b.keys, key)
		}
		b.members[key] = append(b.members[key], i)
	}
	return b
}

// Keys returns every block key in first-appearance order.
func (b *Blocks) Keys() []BlockKey {
	return append([]BlockKey(nil), b.keys...)
}

// Members returns the record indices filed under key.
func (b *Blocks) Members(key BlockKey) []int {
	return b.members[key]
}

// Len returns the number of blocks.
func (b *Blocks) Len() int {
	return len(b.keys)
}

// Comparable returns the keys of blocks with at least two members.
func (b *Blocks) Comparable() []BlockKey {
	var keys []BlockKey
	for _, k := range b.keys {
		if len(b.members[k]) >= 2 {
			keys = append(keys, k)
		}
	}
	return keys
}

// PairCount returns the number of unordered intra-block pairs.
func (b *Blocks) PairCount() int {
	total := 0
	for _, idx := range b.members {
		n := len(idx)
		total += n * (n - 1) / 2
	}
	return total
}
