package scanner

import (
	"fmt"

	"github.com/GDVFox/rednet/automaton"
	"github.com/GDVFox/rednet/token"
)

// LexicalError ошибка распознавания: ни один префикс, начиная
// с указанной позиции, не завершился в финальном состоянии.
type LexicalError struct {
	Line   int
	Column int
	Char   rune
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("lexical error at line %d, col %d: unrecognized character %q",
		e.Line, e.Column, e.Char)
}

// Scanner выделяет токены исходного текста, выполняя обход
// детерминированного автомата по принципу наибольшего совпадения.
type Scanner struct {
	aut    *automaton.Automaton
	source []rune

	pos    int
	line   int
	column int
}

// New создает Scanner над исходным текстом.
func New(source string, aut *automaton.Automaton) *Scanner {
	return &Scanner{
		aut:    aut,
		source: []rune(source),
		pos:    0,
		line:   1,
		column: 1,
	}
}

// ScanAll выделяет все токены исходного текста.
// Пробельные и комментарные токены отбрасываются,
// в конец добавляется синтетический токен EOF.
func (s *Scanner) ScanAll() ([]token.Token, error) {
	tokens := make([]token.Token, 0, len(s.source)/4+1)
	for {
		tok, ok, err := s.scanToken()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if tok.Kind.IsIgnored() {
			continue
		}
		tokens = append(tokens, tok)
	}

	tokens = append(tokens, token.NewEOF(s.line, s.column))
	return tokens, nil
}

// scanToken выделяет следующий токен. Автомат продвигается до тех пор,
// пока существует переход; запоминается последнее достигнутое финальное
// состояние, и при остановке лексема усекается до него.
func (s *Scanner) scanToken() (token.Token, bool, error) {
	if s.pos >= len(s.source) {
		return token.Token{}, false, nil
	}

	startPos := s.pos
	startLine := s.line
	startColumn := s.column

	state := s.aut.Start()
	lastFinalKind := token.Unknown
	lastFinalEnd := -1

	pos, line, column := s.pos, s.line, s.column
	for pos < len(s.source) {
		next, ok := s.aut.Next(state, s.source[pos])
		if !ok {
			break
		}
		state = next

		if s.source[pos] == '\n' {
			line++
			column = 1
		} else {
			column++
		}
		pos++

		if kind, ok := s.aut.Final(state); ok {
			lastFinalKind = kind
			lastFinalEnd = pos
			s.line = line
			s.column = column
		}
	}

	if lastFinalEnd < 0 {
		return token.Token{}, false, &LexicalError{
			Line:   startLine,
			Column: startColumn,
			Char:   s.source[startPos],
		}
	}

	s.pos = lastFinalEnd
	lexeme := string(s.source[startPos:lastFinalEnd])

	kind := lastFinalKind
	if kind == token.Identifier {
		kind = s.aut.ClassifyIdentifier(lexeme)
	}

	return token.New(kind, lexeme, startLine, startColumn), true, nil
}
