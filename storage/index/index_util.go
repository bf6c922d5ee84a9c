package index

import (
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/storage/block"
)

// allMatches returns all existing tuples of store restricted by filter
func allMatches(store block.TupleStorageSubBlock, filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	ret := store.GetExistenceMap()
	if ret == nil {
		ret = bitmap.NewTupleIdSequenceAll(int(store.GetEndPosition()))
	}
	if filter != nil {
		ret.IntersectWith(filter)
	}
	return ret
}

func noMatches(store block.TupleStorageSubBlock) *bitmap.TupleIdSequence {
	return bitmap.NewTupleIdSequence(int(store.GetEndPosition()))
}

// indexedAttributeLiteral returns normalized comparison when predicate compares attr_id with a literal
func indexedAttributeLiteral(predicate block.ComparisonPredicate, indexed func(attr_id int) bool) (attr_id int, ok bool) {
	if !predicate.IsAttributeLiteralComparisonPredicate() {
		return -1, false
	}
	attr_id, _, _ = predicate.GetAttributeLiteralComparison()
	if !indexed(attr_id) {
		return -1, false
	}
	return attr_id, true
}
