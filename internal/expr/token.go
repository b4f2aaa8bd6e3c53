package expr

import (
	"fmt"
	"strings"
	"unicode"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokNewline
	tokName
	tokInt
	tokFloat
	tokString
	tokOp
)

func (t tokenType) String() string {
	switch t {
	case tokEOF:
		return "end of input"
	case tokNewline:
		return "newline"
	case tokName:
		return "name"
	case tokInt, tokFloat:
		return "number"
	case tokString:
		return "string"
	case tokOp:
		return "operator"
	}
	return "unknown"
}

type token struct {
	Value string
	Type  tokenType
	Line  int
	Col   int
}

// Longest operators first.
var operators = []string{
	"**=", "//=",
	"**", "//", "==", "!=", "<=", ">=", "+=", "-=", "*=", "/=", "%=",
	"+", "-", "*", "/", "%", "<", ">", "=",
	"(", ")", "[", "]", ",", ".", ":",
}

// tokenize splits src into tokens. Newlines and semicolons both end a
// statement; newlines inside brackets do not.
func tokenize(src string) ([]token, error) {
	var tokens []token
	runes := []rune(src)
	line, lineStart, depth := 1, 0, 0

	emit := func(typ tokenType, value string, at int) {
		tokens = append(tokens, token{Value: value, Type: typ, Line: line, Col: at - lineStart + 1})
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		switch {
		case r == '\n':
			if depth == 0 {
				emit(tokNewline, "\n", i)
			}
			line++
			lineStart = i + 1
			continue
		case r == ';':
			emit(tokNewline, ";", i)
			continue
		case r == '#':
			for i+1 < len(runes) && runes[i+1] != '\n' {
				i++
			}
			continue
		case unicode.IsSpace(r):
			continue
		}

		// String literal
		if r == '"' || r == '\'' {
			start := i
			var sb strings.Builder
			i++
			for ; i < len(runes) && runes[i] != r; i++ {
				if runes[i] == '\n' {
					break
				}
				if runes[i] != '\\' {
					sb.WriteRune(runes[i])
					continue
				}
				i++
				if i >= len(runes) {
					break
				}
				switch runes[i] {
				case 'n':
					sb.WriteByte('\n')
				case 't':
					sb.WriteByte('\t')
				case '0':
					sb.WriteByte(0)
				default:
					sb.WriteRune(runes[i])
				}
			}
			if i >= len(runes) || runes[i] != r {
				return nil, syntaxError(line, start-lineStart+1, "unterminated string literal")
			}
			emit(tokString, sb.String(), start)
			continue
		}

		// Number
		if unicode.IsDigit(r) || (r == '.' && i+1 < len(runes) && unicode.IsDigit(runes[i+1])) {
			start := i
			typ := tokInt
		scan:
			for i < len(runes) {
				c := runes[i]
				switch {
				case unicode.IsDigit(c) || c == '_':
				case c == '.':
					typ = tokFloat
				case c == 'e' || c == 'E':
					typ = tokFloat
					if i+1 < len(runes) && (runes[i+1] == '+' || runes[i+1] == '-') {
						i++
					}
				default:
					break scan
				}
				i++
			}
			emit(typ, string(runes[start:i]), start)
			i--
			continue
		}

		// Identifier or keyword
		if unicode.IsLetter(r) || r == '_' {
			start := i
			for i < len(runes) && (unicode.IsLetter(runes[i]) || unicode.IsDigit(runes[i]) || runes[i] == '_') {
				i++
			}
			emit(tokName, string(runes[start:i]), start)
			i--
			continue
		}

		matched := false
		for _, op := range operators {
			if strings.HasPrefix(string(runes[i:min(i+len(op), len(runes))]), op) {
				switch op {
				case "(", "[":
					depth++
				case ")", "]":
					if depth > 0 {
						depth--
					}
				}
				emit(tokOp, op, i)
				i += len(op) - 1
				matched = true
				break
			}
		}
		if !matched {
			return nil, syntaxError(line, i-lineStart+1, fmt.Sprintf("invalid character %q", r))
		}
	}
	tokens = append(tokens, token{Type: tokEOF, Line: line, Col: len(runes) - lineStart + 1})
	return tokens, nil
}
