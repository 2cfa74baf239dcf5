package selectors

// A counting bloom filter over ancestor fingerprints, used to reject
// selectors with descendant or child combinators without walking the
// tree. The filter is owned by the caller's tree walk: push an
// element's hashes on descent (InsertHash), pop them on ascent
// (RemoveHash). The matcher only ever reads it, and a hit only ever
// means "maybe": the filter has false positives but no false
// negatives.

const (
	bloomKeySize   = 12
	bloomArraySize = 1 << bloomKeySize
	bloomKeyMask   = bloomArraySize - 1

	// BloomHashMask selects the bits of a hash the filter consumes.
	// Ancestor fingerprints are stored as 24-bit values so that four
	// of them pack into three words (see AncestorHashes).
	BloomHashMask = 0x00ffffff
)

// BloomFilter is a fixed-size counting membership filter. The zero
// value is empty and ready to use.
type BloomFilter struct {
	counters [bloomArraySize]uint8
}

func bloomHash1(hash uint32) uint32 {
	return hash & bloomKeyMask
}

func bloomHash2(hash uint32) uint32 {
	return (hash >> bloomKeySize) & bloomKeyMask
}

// InsertHash adds one hash to the filter. Counters saturate at 0xff;
// a saturated slot is never decremented again, so stuck slots only
// ever cause extra "maybe" answers, never a wrong rejection.
func (f *BloomFilter) InsertHash(hash uint32) {
	for _, k := range [2]uint32{bloomHash1(hash), bloomHash2(hash)} {
		if f.counters[k] != 0xff {
			f.counters[k]++
		}
	}
}

// RemoveHash removes one previously inserted hash.
func (f *BloomFilter) RemoveHash(hash uint32) {
	for _, k := range [2]uint32{bloomHash1(hash), bloomHash2(hash)} {
		if f.counters[k] != 0xff && f.counters[k] != 0 {
			f.counters[k]--
		}
	}
}

// MightContainHash reports whether the hash may have been inserted.
// False is definitive.
func (f *BloomFilter) MightContainHash(hash uint32) bool {
	return f.counters[bloomHash1(hash)] != 0 && f.counters[bloomHash2(hash)] != 0
}

// Clear empties the filter.
func (f *BloomFilter) Clear() {
	f.counters = [bloomArraySize]uint8{}
}

// AncestorHashes holds up to four 24-bit fingerprints of a selector's
// ancestor-qualifying components (tag names, namespaces, and, outside
// quirks mode, ids and classes). The fourth hash is split byte-wise
// across the top bytes of the three packed words and reassembled
// lazily. A zero hash means "no more hashes".
type AncestorHashes struct {
	Packed [3]uint32
}

// NewAncestorHashes computes the fingerprints for one selector.
// Id and class components are skipped in quirks mode because
// case-insensitive matching breaks hash equality.
func NewAncestorHashes(s *Selector, quirks QuirksMode) *AncestorHashes {
	var hashes [4]uint32
	n := 0
	it := s.iter()

	// Skip the rightmost compound, and any compound reachable only
	// through sibling combinators: only elements matched across a
	// child or descendant combinator are ancestors of the subject.
	skipUntilAncestor := func() bool {
		for {
			for it.next() != nil {
			}
			c, ok := it.nextSequence()
			if !ok {
				return false
			}
			if c == CombinatorChild || c == CombinatorDescendant {
				return true
			}
		}
	}

	if skipUntilAncestor() {
	collect:
		for n < 4 {
			c := it.next()
			if c == nil {
				comb, ok := it.nextSequence()
				if !ok {
					break
				}
				if !comb.IsAncestor() && !skipUntilAncestor() {
					break
				}
				continue
			}
			var h uint32
			switch s := c.(type) {
			case LocalName:
				// Mixed-case names hash differently from the
				// lowercase form the filter is fed with.
				if s.Name != s.LowerName {
					continue collect
				}
				h = hashString(s.Name)
			case DefaultNamespace:
				h = hashString(s.URL)
			case Namespace:
				h = hashString(s.URL)
			case ID:
				if quirks == Quirks {
					continue collect
				}
				h = hashString(s.Name)
			case Class:
				if quirks == Quirks {
					continue collect
				}
				h = hashString(s.Name)
			default:
				continue collect
			}
			hashes[n] = h & BloomHashMask
			n++
		}
	}

	return &AncestorHashes{Packed: [3]uint32{
		hashes[0] | ((hashes[3] & 0x000000ff) << 24),
		hashes[1] | ((hashes[3] & 0x0000ff00) << 16),
		hashes[2] | ((hashes[3] & 0x00ff0000) << 8),
	}}
}

// fourthHash reassembles the fourth fingerprint from the top bytes of
// the packed words.
func (h *AncestorHashes) fourthHash() uint32 {
	return (h.Packed[0] >> 24) |
		((h.Packed[1] >> 24) << 8) |
		((h.Packed[2] >> 24) << 16)
}

// MayMatch is the fast-reject check: false means the selector cannot
// match any element whose ancestors are currently in the filter; true
// means a full match must be attempted. A zero hash means the selector
// had too few ancestor-qualifying features to reject on.
func MayMatch(hashes *AncestorHashes, f *BloomFilter) bool {
	for i := 0; i < 3; i++ {
		h := hashes.Packed[i] & BloomHashMask
		if h == 0 {
			return true
		}
		if !f.MightContainHash(h) {
			return false
		}
	}
	fourth := hashes.fourthHash()
	return fourth == 0 || f.MightContainHash(fourth)
}

// hashString is 32-bit FNV-1a. Matching fingerprints are produced on
// both sides: selector components here, element features in the
// caller's tree walk (see HTMLElement.AddToBloomFilter).
func hashString(s string) uint32 {
	h := uint32(2166136261)
	for i := 0; i < len(s); i++ {
		h ^= uint32(s[i])
		h *= 16777619
	}
	return h
}
