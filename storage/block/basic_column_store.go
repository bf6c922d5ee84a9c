package block

import (
	"sort"

	"github.com/ryogrid/SamehadaExpr/catalog"
	"github.com/ryogrid/SamehadaExpr/common"
	"github.com/ryogrid/SamehadaExpr/container/vector"
	"github.com/ryogrid/SamehadaExpr/errors"
	"github.com/ryogrid/SamehadaExpr/storage/access"
	"github.com/ryogrid/SamehadaExpr/storage/bitmap"
	"github.com/ryogrid/SamehadaExpr/types"
	"github.com/ryogrid/SamehadaExpr/types/operations"
	"golang.org/x/exp/slices"
)

const ErrBlockFull = errors.Error("there is not enough space in the block")
const ErrTupleArity = errors.Error("number of values does not match number of attributes")
const ErrTupleType = errors.Error("value type does not match attribute type")

/**
 * BasicColumnStoreSubBlock stores each attribute as a column stripe.
 * when sortAttrId is not -1, Rebuild sorts tuples by that attribute (NULLs first)
 * and comparisons on it are evaluated by binary search while the store is sorted.
 */
type BasicColumnStoreSubBlock struct {
	relation   *catalog.CatalogRelation
	capacity   int
	sortAttrId int
	columns    []vector.ColumnVector
	endPos     int
	deleted    *bitmap.TupleIdSequence // nil until first deletion
	numDeleted int
	sorted     bool
}

func NewBasicColumnStoreSubBlock(relation *catalog.CatalogRelation, capacity int, sortAttrId int) *BasicColumnStoreSubBlock {
	common.SH_Assert(sortAttrId == -1 || relation.GetAttributeById(sortAttrId) != nil, "illegal sort attribute is passed")
	ret := &BasicColumnStoreSubBlock{relation: relation, capacity: capacity, sortAttrId: sortAttrId, sorted: true}
	ret.columns = ret.makeColumns()
	return ret
}

func (s *BasicColumnStoreSubBlock) makeColumns() []vector.ColumnVector {
	columns := make([]vector.ColumnVector, 0, s.relation.Size())
	for _, attr := range s.relation.GetAttributes() {
		columns = append(columns, vector.NewColumnVector(attr.GetType(), s.capacity))
	}
	return columns
}

func (s *BasicColumnStoreSubBlock) GetRelation() *catalog.CatalogRelation {
	return s.relation
}

func (s *BasicColumnStoreSubBlock) GetSortAttributeId() int {
	return s.sortAttrId
}

func (s *BasicColumnStoreSubBlock) IsPacked() bool {
	return s.numDeleted == 0
}

func (s *BasicColumnStoreSubBlock) IsSorted() bool {
	return s.sortAttrId != -1 && s.sorted && s.IsPacked()
}

func (s *BasicColumnStoreSubBlock) GetEndPosition() types.TupleID {
	return types.TupleID(s.endPos)
}

func (s *BasicColumnStoreSubBlock) NumTuples() int {
	return s.endPos - s.numDeleted
}

func (s *BasicColumnStoreSubBlock) IsFull() bool {
	return s.endPos >= s.capacity
}

func (s *BasicColumnStoreSubBlock) HasTupleWithID(tid types.TupleID) bool {
	if tid < 0 || int(tid) >= s.endPos {
		return false
	}
	return s.deleted == nil || !s.deleted.Get(tid)
}

func (s *BasicColumnStoreSubBlock) GetExistenceMap() *bitmap.TupleIdSequence {
	if s.IsPacked() {
		return nil
	}
	ret := bitmap.NewTupleIdSequenceAll(s.endPos)
	ret.IntersectWithComplement(s.deleted)
	return ret
}

func (s *BasicColumnStoreSubBlock) GetAttributeValue(tid types.TupleID, attr_id int) types.Value {
	return s.columns[attr_id].GetValue(int(tid))
}

// InsertTuple appends a tuple. sorted order is restored by Rebuild.
func (s *BasicColumnStoreSubBlock) InsertTuple(values []types.Value) (types.TupleID, error) {
	if s.IsFull() {
		return types.InvalidTupleID, ErrBlockFull
	}
	if len(values) != s.relation.Size() {
		return types.InvalidTupleID, ErrTupleArity
	}
	for i, val := range values {
		attrType := s.relation.GetAttributeById(i).GetType()
		if val.IsNull() {
			if !attrType.IsNullable() {
				return types.InvalidTupleID, ErrTupleType
			}
			continue
		}
		if !attrType.IsSafelyCoercibleFrom(types.NewType(val.ValueType(), false)) {
			return types.InvalidTupleID, ErrTupleType
		}
	}

	for i, val := range values {
		attrType := s.relation.GetAttributeById(i).GetType()
		if val.IsNull() {
			s.columns[i].AppendValue(attrType.MakeNullValue())
		} else {
			s.columns[i].AppendValue(attrType.CoerceValue(val))
		}
	}
	tid := types.TupleID(s.endPos)
	s.endPos++
	if s.deleted != nil {
		s.deleted = growSequence(s.deleted, s.endPos)
	}
	if s.sortAttrId != -1 && s.endPos > 1 {
		prev := s.columns[s.sortAttrId].GetValue(s.endPos - 2)
		cur := s.columns[s.sortAttrId].GetValue(s.endPos - 1)
		if lessNullsFirst(cur, prev) {
			s.sorted = false
		}
	}
	return tid, nil
}

func (s *BasicColumnStoreSubBlock) DeleteTuple(tid types.TupleID) bool {
	if !s.HasTupleWithID(tid) {
		return false
	}
	if s.deleted == nil {
		s.deleted = bitmap.NewTupleIdSequence(s.endPos)
	}
	s.deleted.Set(tid, true)
	s.numDeleted++
	return true
}

// Rebuild compacts deleted tuples away and sorts by sort attribute.
// tuple ids change, so indices over this store must be rebuilt afterwards.
func (s *BasicColumnStoreSubBlock) Rebuild() {
	order := make([]int, 0, s.NumTuples())
	for i := 0; i < s.endPos; i++ {
		if s.HasTupleWithID(types.TupleID(i)) {
			order = append(order, i)
		}
	}
	if s.sortAttrId != -1 {
		sortColumn := s.columns[s.sortAttrId]
		slices.SortStableFunc(order, func(i int, j int) int {
			l, r := sortColumn.GetValue(i), sortColumn.GetValue(j)
			if lessNullsFirst(l, r) {
				return -1
			} else if lessNullsFirst(r, l) {
				return 1
			}
			return 0
		})
	}

	newColumns := s.makeColumns()
	for i, column := range s.columns {
		for _, pos := range order {
			newColumns[i].AppendValue(column.GetValue(pos))
		}
	}
	s.columns = newColumns
	s.endPos = len(order)
	s.deleted = nil
	s.numDeleted = 0
	s.sorted = true
}

func (s *BasicColumnStoreSubBlock) CreateValueAccessor(seq *bitmap.TupleIdSequence) access.ValueAccessor {
	base := &columnStoreValueAccessor{s}
	if seq == nil {
		return base
	}
	return access.NewTupleIdSequenceAdapter(base, seq)
}

func (s *BasicColumnStoreSubBlock) EstimatePredicateEvaluationCost(predicate ComparisonPredicate) PredicateCost {
	if s.IsSorted() && predicate.IsAttributeLiteralComparisonPredicate() {
		attr_id, comparison, _ := predicate.GetAttributeLiteralComparison()
		if attr_id == s.sortAttrId && comparison != operations.NotEqual {
			return PREDICATE_COST_BINARY_SEARCH
		}
	}
	return PREDICATE_COST_COLUMN_SCAN
}

// GetMatchesForPredicate evaluates comparison on the sort attribute by binary search.
// other predicates are evaluated tuple at a time.
func (s *BasicColumnStoreSubBlock) GetMatchesForPredicate(predicate ComparisonPredicate, filter *bitmap.TupleIdSequence) *bitmap.TupleIdSequence {
	ret := bitmap.NewTupleIdSequence(s.endPos)
	if s.IsSorted() && predicate.IsAttributeLiteralComparisonPredicate() {
		attr_id, comparison, literal := predicate.GetAttributeLiteralComparison()
		if attr_id == s.sortAttrId {
			s.setMatchesBySortedRange(ret, comparison, literal)
			if filter != nil {
				ret.IntersectWith(filter)
			}
			return ret
		}
	}

	accessor := s.CreateValueAccessor(s.GetExistenceMap())
	accessor.ForEachTuple(func(tid types.TupleID) {
		if (filter == nil || filter.Get(tid)) && predicate.MatchesForSingleTuple(accessor, tid) {
			ret.Set(tid, true)
		}
	})
	return ret
}

func (s *BasicColumnStoreSubBlock) setMatchesBySortedRange(ret *bitmap.TupleIdSequence, comparison operations.ComparisonID, literal types.Value) {
	if literal.IsNull() {
		return
	}
	column := s.columns[s.sortAttrId]
	// NULLs are placed at head
	firstNonNull := sort.Search(s.endPos, func(i int) bool {
		return !column.GetValue(i).IsNull()
	})
	lowerBound := firstNonNull + sort.Search(s.endPos-firstNonNull, func(i int) bool {
		return column.GetValue(firstNonNull + i).CompareGreaterThanOrEqual(literal)
	})
	upperBound := firstNonNull + sort.Search(s.endPos-firstNonNull, func(i int) bool {
		return column.GetValue(firstNonNull + i).CompareGreaterThan(literal)
	})

	setRange := func(begin int, end int) {
		if end > begin {
			ret.SetRange(types.TupleID(begin), end-begin, true)
		}
	}
	switch comparison {
	case operations.Equal:
		setRange(lowerBound, upperBound)
	case operations.NotEqual:
		setRange(firstNonNull, lowerBound)
		setRange(upperBound, s.endPos)
	case operations.Less:
		setRange(firstNonNull, lowerBound)
	case operations.LessOrEqual:
		setRange(firstNonNull, upperBound)
	case operations.Greater:
		setRange(upperBound, s.endPos)
	case operations.GreaterOrEqual:
		setRange(lowerBound, s.endPos)
	default:
		panic("illegal comparisonID!")
	}
}

func lessNullsFirst(l types.Value, r types.Value) bool {
	if l.IsNull() {
		return !r.IsNull()
	}
	if r.IsNull() {
		return false
	}
	return l.CompareLessThan(r)
}

func growSequence(seq *bitmap.TupleIdSequence, length int) *bitmap.TupleIdSequence {
	ret := bitmap.NewTupleIdSequence(length)
	seq.ForEach(func(tid types.TupleID) {
		ret.Set(tid, true)
	})
	return ret
}

// columnStoreValueAccessor iterates all positions of the store.
// deleted tuples are excluded by wrapping with the existence map.
type columnStoreValueAccessor struct {
	store *BasicColumnStoreSubBlock
}

func (a *columnStoreValueAccessor) GetNumTuples() int {
	return a.store.endPos
}

func (a *columnStoreValueAccessor) GetEndPosition() types.TupleID {
	return types.TupleID(a.store.endPos)
}

func (a *columnStoreValueAccessor) GetTupleIdSequence() *bitmap.TupleIdSequence {
	return nil
}

func (a *columnStoreValueAccessor) ForEachTuple(fn func(tid types.TupleID)) {
	for i := 0; i < a.store.endPos; i++ {
		fn(types.TupleID(i))
	}
}

func (a *columnStoreValueAccessor) GetValueAt(attr_id int, tid types.TupleID) types.Value {
	return a.store.columns[attr_id].GetValue(int(tid))
}

func (a *columnStoreValueAccessor) GetAttributeType(attr_id int) types.Type {
	return a.store.columns[attr_id].GetType()
}

func (a *columnStoreValueAccessor) CreateSharedTupleIdSequenceAdapter(seq *bitmap.TupleIdSequence) access.ValueAccessor {
	return access.NewTupleIdSequenceAdapter(a, seq)
}

func (a *columnStoreValueAccessor) GetNativeColumn(attr_id int) (*vector.NativeColumnVector, bool) {
	ncv, ok := a.store.columns[attr_id].(*vector.NativeColumnVector)
	return ncv, ok
}
