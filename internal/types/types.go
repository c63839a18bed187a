package types

import "fmt"

// TypeID uniquely identifies a logic type inside one interner.
type TypeID uint32

// NoTypeID marks the absence of a type. It is never issued by an interner.
const NoTypeID TypeID = ^TypeID(0)

func (id TypeID) String() string {
	if id == NoTypeID {
		return "type#none"
	}
	return fmt.Sprintf("type#%d", uint32(id))
}

// Base names of the IEEE 1164 logic types.
const (
	BaseLogic       = "std_logic"
	BaseLogicVector = "std_logic_vector"
)

// BitRange is an inclusive (High downto Low) index pair.
// High >= Low is a caller precondition; it is not checked here.
type BitRange struct {
	High uint32
	Low  uint32
}

// Width returns the number of bits covered by the range, or 0 for an
// inverted range.
func (r BitRange) Width() uint32 {
	if r.High < r.Low {
		return 0
	}
	return r.High - r.Low + 1
}

// Inverted reports whether High < Low.
func (r BitRange) Inverted() bool {
	return r.High < r.Low
}

// Type is a compact descriptor for a logic type: a base name and an
// optional bit range. A scalar type keeps Range zeroed so that descriptors
// compare with ==.
type Type struct {
	Base   string
	Ranged bool
	Range  BitRange
}

// Descriptor helpers ---------------------------------------------------------

// Scalar describes a single-bit type with the given base name.
func Scalar(base string) Type {
	return Type{Base: base}
}

// Vector describes a ranged vector type. hi and lo are kept in the order
// given.
func Vector(base string, hi, lo uint32) Type {
	return Type{Base: base, Ranged: true, Range: BitRange{High: hi, Low: lo}}
}

// Logic describes std_logic.
func Logic() Type {
	return Scalar(BaseLogic)
}

// LogicVector describes std_logic_vector(hi downto lo).
func LogicVector(hi, lo uint32) Type {
	return Vector(BaseLogicVector, hi, lo)
}

// IsScalar reports whether the descriptor has no bit range.
func (t Type) IsScalar() bool {
	return !t.Ranged
}

func (t Type) String() string {
	if !t.Ranged {
		return t.Base
	}
	return fmt.Sprintf("%s(%d downto %d)", t.Base, t.Range.High, t.Range.Low)
}
