package diag

// Location points into a manifest: the file and a dotted key path such as
// `entity.ShiftRegister.outputs[0]`.
type Location struct {
	File string
	Path string
}

func (l Location) String() string {
	switch {
	case l.File == "" && l.Path == "":
		return "<unknown>"
	case l.Path == "":
		return l.File
	case l.File == "":
		return l.Path
	}
	return l.File + ": " + l.Path
}

type Note struct {
	At  Location
	Msg string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

func (d Diagnostic) WithNote(at Location, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{At: at, Msg: msg})
	return d
}
