package diag

import (
	"testing"

	"sigil/internal/source"
)

func TestBagSortIsDeterministic(t *testing.T) {
	b := NewBag(10)
	b.Add(Diagnostic{Code: ResolverTypeArgArity, Severity: SevError, Primary: source.Span{File: 1, Start: 20, End: 25}})
	b.Add(Diagnostic{Code: ResolverNotAClassType, Severity: SevError, Primary: source.Span{File: 0, Start: 5, End: 9}})
	b.Add(Diagnostic{Code: ResolverBareGenericType, Severity: SevError, Primary: source.Span{File: 0, Start: 5, End: 9}})
	b.Sort()
	items := b.Items()
	if items[0].Primary.File != 0 || items[0].Code != ResolverNotAClassType {
		t.Fatalf("unexpected first diagnostic: %+v", items[0])
	}
	if items[2].Primary.File != 1 {
		t.Fatalf("file 1 diagnostic must sort last")
	}
}

func TestBagRespectsCap(t *testing.T) {
	b := NewBag(1)
	if !b.Add(Diagnostic{Code: UnknownCode}) {
		t.Fatalf("first add must succeed")
	}
	if b.Add(Diagnostic{Code: UnknownCode}) {
		t.Fatalf("cap overflow must be rejected")
	}
}

func TestCodeCategories(t *testing.T) {
	if got := ResolverInvalidEnumDecl.Category(); got != CategoryInvalidTypeDeclaration {
		t.Fatalf("enum code category = %v", got)
	}
	if got := ResolverMultipleArgLists.Category(); got != CategoryInvalidMethodSignature {
		t.Fatalf("sig code category = %v", got)
	}
	if got := SynUnexpectedToken.Category(); got != CategorySyntax {
		t.Fatalf("syntax code category = %v", got)
	}
}
