package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Структурные ошибки, найденные поиском
	DeadSyntax          Code = 1000
	DeadUnmatchedEnd    Code = 1001
	DeadMissingEnd      Code = 1002
	DeadUnmatchedCloser Code = 1003
	DeadMissingCloser   Code = 1004
	DeadUnterminated    Code = 1005

	// Окружение: оракул, файлы
	EnvOracleUnavailable Code = 2001
	EnvReadFailed        Code = 2002
	EnvFileNotFound      Code = 2003
)

var codeDescription = map[Code]string{
	UnknownCode:          "Unknown error",
	DeadSyntax:           "Syntax error",
	DeadUnmatchedEnd:     "Unmatched end",
	DeadMissingEnd:       "Missing end",
	DeadUnmatchedCloser:  "Unmatched closing delimiter",
	DeadMissingCloser:    "Missing closing delimiter",
	DeadUnterminated:     "Unterminated literal",
	EnvOracleUnavailable: "Validity oracle unavailable",
	EnvReadFailed:        "Cannot read file",
	EnvFileNotFound:      "File not found",
}

// ID returns the stable identifier, e.g. DE1002.
func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DE%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("ENV%04d", ic)
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
