package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Elaboration checks
	SemaInfo            Code = 3000
	SemaEmptyName       Code = 3001
	SemaDuplicatePort   Code = 3002
	SemaUnknownSignal   Code = 3003
	SemaInvertedRange   Code = 3004
	SemaAssignToInput   Code = 3005
	SemaTypeMismatch    Code = 3006
	SemaBadRange        Code = 3007
	SemaDuplicateEntity Code = 3008
	SemaMultipleDrivers Code = 3009
	SemaUndrivenOutput  Code = 3010
	SemaMissingType     Code = 3011

	// IO
	IOInfo        Code = 4000
	IOLoadFailed  Code = 4001
	IOWriteFailed Code = 4002

	// Manifest / project
	ProjInfo              Code = 5000
	ProjMissingPackage    Code = 5001
	ProjMissingName       Code = 5002
	ProjBadVersion        Code = 5003
	ProjBadToolConstraint Code = 5004
	ProjToolTooOld        Code = 5005
	ProjNoEntities        Code = 5006
	ProjUnknownKey        Code = 5007
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		SemaInfo:              "Elaboration information",
		SemaEmptyName:         "Empty name",
		SemaDuplicatePort:     "Duplicate port",
		SemaUnknownSignal:     "Unknown signal",
		SemaInvertedRange:     "Inverted bit range",
		SemaAssignToInput:     "Assignment to input port",
		SemaTypeMismatch:      "Type mismatch",
		SemaBadRange:          "Malformed bit range",
		SemaDuplicateEntity:   "Duplicate entity",
		SemaMultipleDrivers:   "Signal driven more than once",
		SemaUndrivenOutput:    "Output is never driven",
		SemaMissingType:       "Missing port type",
		IOInfo:                "I/O information",
		IOLoadFailed:          "Failed to load file",
		IOWriteFailed:         "Failed to write output",
		ProjInfo:              "Project information",
		ProjMissingPackage:    "Missing [package] section",
		ProjMissingName:       "Missing package name",
		ProjBadVersion:        "Invalid package version",
		ProjBadToolConstraint: "Invalid architect version constraint",
		ProjToolTooOld:        "Tool version does not satisfy constraint",
		ProjNoEntities:        "No entities declared",
		ProjUnknownKey:        "Unknown manifest key",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
