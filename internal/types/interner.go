package types

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrInvalidTypeID is matched by every resolution failure.
var ErrInvalidTypeID = errors.New("invalid type id")

// InvalidTypeIDError reports a TypeID that was not issued by the interner
// it was resolved against.
type InvalidTypeIDError struct {
	ID   TypeID
	Size int
}

func (e *InvalidTypeIDError) Error() string {
	return fmt.Sprintf("%v: %s is not issued by this registry (%d types interned)", ErrInvalidTypeID, e.ID, e.Size)
}

func (e *InvalidTypeIDError) Is(target error) bool {
	return target == ErrInvalidTypeID
}

// Resolver maps issued TypeIDs back to descriptors.
type Resolver interface {
	Resolve(id TypeID) (Type, error)
}

// Interner provides stable TypeIDs for logic type descriptors.
// Ids are dense and start at 0 in interning order. The interner only grows
// and is not safe for concurrent mutation; one translation run owns one.
type Interner struct {
	types []Type
	index map[Type]TypeID
}

// NewInterner constructs an empty interner.
func NewInterner() *Interner {
	return &Interner{
		index: make(map[Type]TypeID, 8),
	}
}

// NewInternerWith constructs an interner pre-seeded with the given
// descriptors; duplicates in seed collapse to their first id.
func NewInternerWith(seed ...Type) *Interner {
	in := NewInterner()
	for _, t := range seed {
		in.Intern(t)
	}
	return in
}

// Intern ensures the provided descriptor has a stable TypeID.
func (in *Interner) Intern(t Type) TypeID {
	if id, ok := in.index[t]; ok {
		return id
	}
	return in.internRaw(t)
}

// internRaw adds the descriptor to the storage without consulting the map.
func (in *Interner) internRaw(t Type) TypeID {
	lenTypes, err := safecast.Conv[uint32](len(in.types))
	if err != nil {
		panic(fmt.Errorf("len(types) overflow: %w", err))
	}
	id := TypeID(lenTypes)
	if id == NoTypeID {
		panic("types: interner exhausted")
	}
	in.types = append(in.types, t)
	in.index[t] = id
	return id
}

// Lookup returns the descriptor for a TypeID.
func (in *Interner) Lookup(id TypeID) (Type, bool) {
	if in == nil || id == NoTypeID || int64(id) >= int64(len(in.types)) {
		return Type{}, false
	}
	return in.types[id], true
}

// Resolve returns the descriptor for id or an *InvalidTypeIDError.
func (in *Interner) Resolve(id TypeID) (Type, error) {
	tt, ok := in.Lookup(id)
	if !ok {
		return Type{}, &InvalidTypeIDError{ID: id, Size: in.Len()}
	}
	return tt, nil
}

// MustLookup panics when id is invalid.
func (in *Interner) MustLookup(id TypeID) Type {
	tt, err := in.Resolve(id)
	if err != nil {
		panic(fmt.Sprintf("types: %v", err))
	}
	return tt
}

// Len returns the number of interned descriptors.
func (in *Interner) Len() int {
	if in == nil {
		return 0
	}
	return len(in.types)
}

// Types returns a copy of all descriptors in id order.
func (in *Interner) Types() []Type {
	if in == nil {
		return nil
	}
	out := make([]Type, len(in.types))
	copy(out, in.types)
	return out
}
