package types

// TupleID is position of a tuple in a block
type TupleID int

const InvalidTupleID = TupleID(-1)

func (id TupleID) IsValid() bool {
	return id >= 0
}
