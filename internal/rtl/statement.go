package rtl

// Statement is one concurrent statement of an architecture body.
// Assignment is the only variant.
type Statement interface {
	isStatement()
}

// Assignment drives Target with a literal value.
type Assignment struct {
	Target string
	Value  LogicValue
}

func (Assignment) isStatement() {}

// Program is an architecture body: statements in declaration order.
type Program struct {
	Statements []Statement
}

// Len returns the number of statements.
func (p Program) Len() int {
	return len(p.Statements)
}
