package diag

import (
	"fmt"
)

type Code uint16

// Category groups codes the way the surrounding checker consumes them.
type Category uint8

const (
	CategoryNone Category = iota
	// CategoryInvalidTypeDeclaration covers malformed standalone type
	// annotations.
	CategoryInvalidTypeDeclaration
	// CategoryInvalidMethodSignature covers malformed sig/proc builder
	// chains.
	CategoryInvalidMethodSignature
	// CategorySyntax covers errors from the annotation front end.
	CategorySyntax
)

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Ввод-вывод
	IOLoadFileError Code = 1001

	// Синтаксис аннотаций (front end)
	SynUnexpectedToken    Code = 2001
	SynUnclosedDelimiter  Code = 2002
	SynUnterminatedString Code = 2003

	// Резолвер типов: invalid type declaration (5000-5099)
	ResolverUnsupportedTypeSyntax  Code = 5001
	ResolverUnknownTypeSyntax      Code = 5002
	ResolverNotAClassType          Code = 5003
	ResolverBareGenericType        Code = 5004
	ResolverTypeArgArity           Code = 5005
	ResolverUnsupportedTypeLiteral Code = 5006
	ResolverInvalidEnumDecl        Code = 5007
	ResolverUnknownCombinator      Code = 5008
	ResolverClassOfArgument        Code = 5009
	ResolverProcArityLimit         Code = 5010
	ResolverDepthLimit             Code = 5011

	// Резолвер сигнатур: invalid method signature (5100-5199)
	ResolverMultipleArgLists  Code = 5101
	ResolverSigArgArity       Code = 5102
	ResolverSigArgsNotMapping Code = 5103
	ResolverReturnsArity      Code = 5104
	ResolverUnknownSigBuilder Code = 5105
	ResolverProcNeedsReturn   Code = 5106
)

// Category reports which consumer-facing group a code belongs to.
func (c Code) Category() Category {
	switch {
	case c >= 2001 && c <= 2999:
		return CategorySyntax
	case c >= 5001 && c <= 5099:
		return CategoryInvalidTypeDeclaration
	case c >= 5101 && c <= 5199:
		return CategoryInvalidMethodSignature
	}
	return CategoryNone
}

func (c Category) String() string {
	switch c {
	case CategoryInvalidTypeDeclaration:
		return "InvalidTypeDeclaration"
	case CategoryInvalidMethodSignature:
		return "InvalidMethodSignature"
	case CategorySyntax:
		return "Syntax"
	}
	return "None"
}

func (c Code) String() string {
	return fmt.Sprintf("SIG%04d", uint16(c))
}
