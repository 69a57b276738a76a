package lexer

import "testing"

func collectTypes(l *Lexer) []TokenType {
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			return types
		}
	}
}

func TestNextTokenPunctuationAndKeywords(t *testing.T) {
	l := New(`let x: int = 1 + 2;`)
	got := collectTypes(l)
	want := []TokenType{LET, IDENT, COLON, IDENT, ASSIGN, INT, PLUS, INT, SEMI, EOF}
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestNextTokenArrowNotMinus(t *testing.T) {
	l := New(`fn f() -> int {}`)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	foundArrow := false
	for _, ty := range types {
		if ty == ARROW {
			foundArrow = true
		}
		if ty == MINUS {
			t.Fatalf("-> should lex as a single ARROW token, not MINUS")
		}
	}
	if !foundArrow {
		t.Fatalf("expected an ARROW token")
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"hi\n\"there\""`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("expected STRING token, got %v", tok.Type)
	}
	want := "hi\n\"there\""
	if tok.Literal != want {
		t.Errorf("Literal = %q, want %q", tok.Literal, want)
	}
}

func TestNextTokenFloatVsInt(t *testing.T) {
	l := New(`1 1.5 1.`)
	first := l.NextToken()
	if first.Type != INT || first.Literal != "1" {
		t.Errorf("first token = %+v, want INT 1", first)
	}
	second := l.NextToken()
	if second.Type != FLOAT || second.Literal != "1.5" {
		t.Errorf("second token = %+v, want FLOAT 1.5", second)
	}
	// "1." with no following digit should not be consumed as a float.
	third := l.NextToken()
	if third.Type != INT || third.Literal != "1" {
		t.Errorf("third token = %+v, want INT 1 (trailing dot not consumed)", third)
	}
}

func TestSkipLineComment(t *testing.T) {
	l := New("1 // comment\n2")
	first := l.NextToken()
	second := l.NextToken()
	if first.Literal != "1" || second.Literal != "2" {
		t.Fatalf("comment was not skipped: got %q, %q", first.Literal, second.Literal)
	}
}

func TestLineAndColumnTracking(t *testing.T) {
	l := New("let\nx = 1")
	_ = l.NextToken() // let
	identTok := l.NextToken()
	if identTok.Line != 2 {
		t.Errorf("expected identifier on line 2, got %d", identTok.Line)
	}
}
