package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Синтаксис (tree-sitter)
	SynInfo            Code = 2000
	SynUnexpectedToken Code = 2001
	SynMissingToken    Code = 2002

	// Связывание модулей и имён
	SemaInfo             Code = 3000
	SemaUnresolvedModule Code = 3001
	SemaImportCycle      Code = 3002

	// Ввод-вывод
	IOInfo          Code = 4000
	IOLoadFileError Code = 4001

	// Конфигурация
	CfgInfo            Code = 5000
	CfgUnknownRule     Code = 5001
	CfgInvalidOption   Code = 5002
	CfgInvalidSeverity Code = 5003

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Правила линтера
	LintInfo                 Code = 9000
	LintDeprecatedProp       Code = 9001
	LintDeprecatedSpreadProp Code = 9002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:              "Unknown error",
		SynInfo:                  "Syntax information",
		SynUnexpectedToken:       "Unexpected syntax",
		SynMissingToken:          "Missing syntax element",
		SemaInfo:                 "Binding information",
		SemaUnresolvedModule:     "Cannot resolve module",
		SemaImportCycle:          "Import alias cycle",
		IOInfo:                   "I/O information",
		IOLoadFileError:          "I/O load file error",
		CfgInfo:                  "Configuration information",
		CfgUnknownRule:           "Unknown rule",
		CfgInvalidOption:         "Invalid rule option",
		CfgInvalidSeverity:       "Invalid severity",
		ObsInfo:                  "Observability information",
		ObsTimings:               "Pipeline timings",
		LintInfo:                 "Lint information",
		LintDeprecatedProp:       "Deprecated prop used",
		LintDeprecatedSpreadProp: "Spread may pass deprecated prop",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("LNT%04d", ic)
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
