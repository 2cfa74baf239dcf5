package selectors

// NthIndexCache memoizes the 1-based structural indices computed for
// the :nth-* selector family, avoiding repeated O(n) sibling walks
// within one style pass. The four axes (child vs. of-type, crossed
// with from-start vs. from-end) are cached independently.
//
// Entries are only valid against one DOM snapshot: any tree mutation
// must discard the whole cache. The zero value is ready to use.
type NthIndexCache struct {
	nthChild      nthIndexCacheInner
	nthLastChild  nthIndexCacheInner
	nthOfType     nthIndexCacheInner
	nthLastOfType nthIndexCacheInner
}

func (c *NthIndexCache) get(isOfType, isFromEnd bool) *nthIndexCacheInner {
	switch {
	case isOfType && isFromEnd:
		return &c.nthLastOfType
	case isOfType:
		return &c.nthOfType
	case isFromEnd:
		return &c.nthLastChild
	default:
		return &c.nthChild
	}
}

type nthIndexCacheInner struct {
	indices map[OpaqueElement]int32
}

func (c *nthIndexCacheInner) lookup(el OpaqueElement) (int32, bool) {
	i, ok := c.indices[el]
	return i, ok
}

func (c *nthIndexCacheInner) insert(el OpaqueElement, index int32) {
	if c.indices == nil {
		c.indices = make(map[OpaqueElement]int32)
	}
	c.indices[el] = index
}
