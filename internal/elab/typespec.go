package elab

import (
	"strconv"
	"strings"
)

// typeSpec is a parsed `type` string. Inline ranges are written the VHDL
// way: "std_logic_vector(7 downto 0)".
type typeSpec struct {
	base   string
	ranged bool
	high   int64
	low    int64
}

// parseTypeSpec accepts "base" or "base(hi downto lo)".
func parseTypeSpec(s string) (typeSpec, bool) {
	s = strings.TrimSpace(s)
	open := strings.IndexByte(s, '(')
	if open < 0 {
		if s == "" || strings.ContainsAny(s, ") \t") {
			return typeSpec{}, false
		}
		return typeSpec{base: s}, true
	}
	if !strings.HasSuffix(s, ")") {
		return typeSpec{}, false
	}
	base := strings.TrimSpace(s[:open])
	inner := strings.Fields(s[open+1 : len(s)-1])
	if base == "" || len(inner) != 3 || !strings.EqualFold(inner[1], "downto") {
		return typeSpec{}, false
	}
	hi, err := strconv.ParseInt(inner[0], 10, 64)
	if err != nil {
		return typeSpec{}, false
	}
	lo, err := strconv.ParseInt(inner[2], 10, 64)
	if err != nil {
		return typeSpec{}, false
	}
	return typeSpec{base: base, ranged: true, high: hi, low: lo}, true
}
