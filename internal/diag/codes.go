package diag

import (
	"fmt"
	"strconv"
	"strings"
)

type Code uint16

const (
	UnknownCode Code = 0

	// IO
	IOInfo          Code = 1000
	IOLoadFileError Code = 1001
	IOWriteError    Code = 1002

	// Синтаксические (парсер)
	SynInfo        Code = 2000
	SynParseError  Code = 2001
	SynUnsupported Code = 2002

	// Стили и конфигурация
	StyInfo          Code = 3000
	StyMalformed     Code = 3001
	StyUnknownOption Code = 3002

	// Правила
	RuleInfo                  Code = 4000
	RuleHideUtilityCtor       Code = 4001
	RuleUtilityCtorWithParams Code = 4002

	// Движок
	EngInfo          Code = 5000
	EngCancelled     Code = 5001
	EngDeferredLimit Code = 5002
	EngCacheError    Code = 5003
)

var codeDescription = map[Code]string{
	UnknownCode:               "Unknown error",
	IOInfo:                    "IO information",
	IOLoadFileError:           "Failed to load file",
	IOWriteError:              "Failed to write file",
	SynInfo:                   "Syntax information",
	SynParseError:             "Syntax error",
	SynUnsupported:            "Unsupported construct",
	StyInfo:                   "Style information",
	StyMalformed:              "Malformed style, default used",
	StyUnknownOption:          "Unknown style option",
	RuleInfo:                  "Rule information",
	RuleHideUtilityCtor:       "Utility class constructor should be hidden",
	RuleUtilityCtorWithParams: "Utility class declares a constructor with parameters",
	EngInfo:                   "Engine information",
	EngCancelled:              "Traversal cancelled",
	EngDeferredLimit:          "Too many deferred rule runs",
	EngCacheError:             "Result cache unavailable",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("RULE%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("ENG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

var codePrefixes = []struct {
	prefix string
	base   int
}{
	{"RULE", 4000},
	{"SYN", 2000},
	{"STY", 3000},
	{"ENG", 5000},
	{"IO", 1000},
}

// ParseCode is the inverse of ID: "RULE4001" and "rule4001" both give
// RuleHideUtilityCtor. The number must fall in the prefix's family.
func ParseCode(s string) (Code, error) {
	up := strings.ToUpper(strings.TrimSpace(s))
	for _, p := range codePrefixes {
		rest, ok := strings.CutPrefix(up, p.prefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < p.base || n >= p.base+1000 {
			return UnknownCode, fmt.Errorf("invalid diagnostic code %q", s)
		}
		return Code(n), nil
	}
	return UnknownCode, fmt.Errorf("invalid diagnostic code %q", s)
}
