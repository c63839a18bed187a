package rtl

import "fmt"

// LogicValue is a two-valued logic literal.
type LogicValue uint8

const (
	Low LogicValue = iota
	High
)

// ValueOf maps false to Low and true to High.
func ValueOf(b bool) LogicValue {
	if b {
		return High
	}
	return Low
}

// Bool is the inverse of ValueOf.
func (v LogicValue) Bool() bool {
	return v == High
}

func (v LogicValue) String() string {
	switch v {
	case Low:
		return "low"
	case High:
		return "high"
	default:
		return fmt.Sprintf("LogicValue(%d)", uint8(v))
	}
}
