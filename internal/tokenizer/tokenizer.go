package tokenizer

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for the body of a VALUES clause.
// The tokenizer matches tokens in order of specificity:
// 1. Backslash escapes (the escape must claim the next character first)
// 2. Parentheses and comma
// 3. Single quote
// 4. Text (any run of non-structural characters)
//
// Whitespace is significant inside quoted literals, so it is never skipped;
// it arrives as part of Text tokens and the parser trims at field boundaries.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		EscapeMatcher(),

		tokenizer.StringMatcherFunc(TokenLParen, "("),
		tokenizer.StringMatcherFunc(TokenRParen, ")"),
		tokenizer.StringMatcherFunc(TokenComma, ","),
		tokenizer.StringMatcherFunc(TokenQuote, "'"),

		TextMatcher(),
	)
}

// NewTokenizerWithStream creates a tokenizer using a pre-configured stream.
// This is used internally to support streaming from io.Reader.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// EscapeMatcher creates a matcher for a backslash and the character after it.
// A backslash at the very end of the input is returned alone.
//
// Grammar:
//
//	Escape = "\" [ AnyChar ] ;
func EscapeMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '\\' {
			return nil
		}
		stream.NextChar()

		value := []rune{'\\'}
		if next, ok := stream.PeekChar(); ok {
			stream.NextChar()
			value = append(value, next)
		}
		return tokenizer.NewToken(TokenEscape, value)
	}
}

// TextMatcher creates a matcher for runs of non-structural characters.
//
// Grammar:
//
//	Text = TextChar+ ;
//	TextChar = <any character except "(", ")", ",", "'", "\"> ;
//
// Performance: Uses ByteStream for fast scanning when available. All stop
// characters are ASCII, so a byte scan never splits a UTF-8 sequence.
func TextMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		if byteStream, ok := stream.(tokenizer.ByteStream); ok {
			return textMatcherByte(byteStream)
		}
		return textMatcherRune(stream)
	}
}

// isStructural reports whether r ends a Text token.
func isStructural(r rune) bool {
	switch r {
	case '(', ')', ',', '\'', '\\':
		return true
	}
	return false
}

// textMatcherByte uses ByteStream for optimal performance.
func textMatcherByte(stream tokenizer.ByteStream) *tokenizer.Token {
	startPos := stream.BytePosition()

	for {
		b, ok := stream.PeekByte()
		if !ok || isStructural(rune(b)) {
			break
		}
		stream.NextByte()
	}

	if stream.BytePosition() == startPos {
		return nil
	}

	value := stream.SliceFrom(startPos)
	return tokenizer.NewToken(TokenText, []rune(string(value)))
}

// textMatcherRune is the fallback rune-based implementation.
func textMatcherRune(stream tokenizer.Stream) *tokenizer.Token {
	var value []rune

	for {
		r, ok := stream.PeekChar()
		if !ok || isStructural(r) {
			break
		}
		stream.NextChar()
		value = append(value, r)
	}

	if len(value) == 0 {
		return nil
	}

	return tokenizer.NewToken(TokenText, value)
}
