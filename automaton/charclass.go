package automaton

import (
	"strings"

	"github.com/pkg/errors"
)

// Возможные ошибки разбора классов символов.
var (
	ErrBadCharClass = errors.New("bad character class")
)

type classKind int

const (
	classExact classKind = iota
	classRange
	classMulti
	classAny
	classNotNewline
	classAlpha
	classDigit
	classAlnum
	classSpace
)

// CharClass предикат над символом, определяющий применимость перехода.
// Класс может быть отрицанием: тогда предикат инвертируется.
type CharClass struct {
	kind   classKind
	exact  rune
	lo, hi rune
	parts  []*CharClass
	negate bool

	spec string
}

// Spec возвращает исходное текстовое описание класса.
func (c *CharClass) Spec() string {
	return c.spec
}

// Matches проверяет, принадлежит ли символ классу.
func (c *CharClass) Matches(ch rune) bool {
	m := c.matchesPositive(ch)
	if c.negate {
		return !m
	}
	return m
}

func (c *CharClass) matchesPositive(ch rune) bool {
	switch c.kind {
	case classExact:
		return ch == c.exact
	case classRange:
		return ch >= c.lo && ch <= c.hi
	case classMulti:
		for _, p := range c.parts {
			if p.Matches(ch) {
				return true
			}
		}
		return false
	case classAny:
		return true
	case classNotNewline:
		return ch != '\n'
	case classAlpha:
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
	case classDigit:
		return ch >= '0' && ch <= '9'
	case classAlnum:
		return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || (ch >= '0' && ch <= '9')
	case classSpace:
		return ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n'
	default:
		return false
	}
}

// Overlaps проверяет пересечение двух классов на базовом алфавите.
func (c *CharClass) Overlaps(other *CharClass) bool {
	for ch := rune(0); ch < 128; ch++ {
		if c.Matches(ch) && other.Matches(ch) {
			return true
		}
	}
	return false
}

// ParseCharClass разбирает текстовое описание класса символов.
// Поддерживаются: одиночный символ, экранированный символ,
// скобочная запись [a-zA-Z_] с отрицанием [^...], а также
// предопределенные классы ALPHA, DIGIT, ALNUM, SPACE, ANY и NOTNL.
func ParseCharClass(s string) (*CharClass, error) {
	orig := s
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.Wrap(ErrBadCharClass, "empty specification")
	}

	switch s {
	case "ANY":
		return &CharClass{kind: classAny, spec: orig}, nil
	case "ANY_EXCEPT_NEWLINE", "NOTNL":
		return &CharClass{kind: classNotNewline, spec: orig}, nil
	case "ALPHA":
		return &CharClass{kind: classAlpha, spec: orig}, nil
	case "DIGIT":
		return &CharClass{kind: classDigit, spec: orig}, nil
	case "ALNUM":
		return &CharClass{kind: classAlnum, spec: orig}, nil
	case "SPACE":
		return &CharClass{kind: classSpace, spec: orig}, nil
	}

	// Скобки сами по себе допустимы как обычные символы.
	if s == "[" {
		return &CharClass{kind: classExact, exact: '[', spec: orig}, nil
	}
	if s == "]" {
		return &CharClass{kind: classExact, exact: ']', spec: orig}, nil
	}

	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && len(s) > 2 {
		return parseBracketClass(s[1:len(s)-1], orig)
	}

	if strings.HasPrefix(s, "\\") && len(s) == 2 {
		return &CharClass{kind: classExact, exact: unescapeChar(rune(s[1])), spec: orig}, nil
	}

	runes := []rune(s)
	if len(runes) == 1 {
		return &CharClass{kind: classExact, exact: runes[0], spec: orig}, nil
	}

	return nil, errors.Wrapf(ErrBadCharClass, "unknown specification '%s'", s)
}

// parseBracketClass разбирает содержимое скобочной записи:
// последовательность диапазонов lo-hi и одиночных символов,
// с необязательным ведущим '^' для отрицания.
func parseBracketClass(inner, orig string) (*CharClass, error) {
	negate := false
	if strings.HasPrefix(inner, "^") {
		negate = true
		inner = inner[1:]
	}
	if inner == "" {
		return nil, errors.Wrapf(ErrBadCharClass, "empty bracket class '%s'", orig)
	}

	parts := make([]*CharClass, 0, 2)
	runes := []rune(inner)
	for i := 0; i < len(runes); {
		ch := runes[i]
		if ch == '\\' && i+1 < len(runes) {
			ch = unescapeChar(runes[i+1])
			i += 2
		} else {
			i++
		}

		// Диапазон lo-hi; '-' в конце класса считается обычным символом.
		if i+1 < len(runes) && runes[i] == '-' {
			hi := runes[i+1]
			if hi == '\\' && i+2 < len(runes) {
				hi = unescapeChar(runes[i+2])
				i++
			}
			if hi < ch {
				return nil, errors.Wrapf(ErrBadCharClass, "inverted range in '%s'", orig)
			}
			parts = append(parts, &CharClass{kind: classRange, lo: ch, hi: hi})
			i += 2
			continue
		}

		parts = append(parts, &CharClass{kind: classExact, exact: ch})
	}

	if len(parts) == 1 && !negate {
		p := parts[0]
		p.spec = orig
		return p, nil
	}
	return &CharClass{kind: classMulti, parts: parts, negate: negate, spec: orig}, nil
}

func unescapeChar(ch rune) rune {
	switch ch {
	case 'n':
		return '\n'
	case 't':
		return '\t'
	case 'r':
		return '\r'
	case 's':
		return ' '
	default:
		return ch
	}
}
