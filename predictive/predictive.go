package predictive

import (
	"fmt"

	"github.com/GDVFox/rednet/grammar"
	"github.com/GDVFox/rednet/token"
)

// SyntaxError ошибка предиктивного разбора: несовпадение терминала
// или отсутствие продукции в таблице.
type SyntaxError struct {
	Line     int
	Column   int
	Expected string
	Found    token.Token
}

func (e *SyntaxError) Error() string {
	found := e.Found.Kind.String()
	if e.Found.Lexeme != "" {
		found = fmt.Sprintf("%s '%s'", e.Found.Kind, e.Found.Lexeme)
	}
	return fmt.Sprintf("syntax error at line %d, col %d: expected %s, found %s",
		e.Line, e.Column, e.Expected, found)
}

// Validator предиктивный LL(1) анализатор с явным стеком.
// Проверяет синтаксическую корректность цепочки токенов,
// не строя дерева разбора.
type Validator struct {
	table  *grammar.Table
	tokens []token.Token

	pos   int
	stack []grammar.Symbol
	steps int
}

// NewValidator создает анализатор над цепочкой токенов,
// завершающейся токеном EOF.
func NewValidator(table *grammar.Table, tokens []token.Token) *Validator {
	return &Validator{
		table:  table,
		tokens: tokens,
	}
}

// Steps возвращает количество шагов последнего запуска.
func (v *Validator) Steps() int {
	return v.steps
}

func (v *Validator) current() token.Token {
	if v.pos < len(v.tokens) {
		return v.tokens[v.pos]
	}
	return token.NewEOF(0, 0)
}

// Validate выполняет предиктивный разбор.
//
// Стек инициализируется парой [EOF, стартовый символ]. На каждом шаге
// верхушка стека сопоставляется с текущим токеном: терминал должен
// совпасть по классу, для нетерминала правая часть найденной продукции
// помещается в стек в обратном порядке, пустая цепочка снимается без
// продвижения по входу.
func (v *Validator) Validate() error {
	v.pos = 0
	v.steps = 0
	v.stack = v.stack[:0]
	v.stack = append(v.stack, grammar.T(token.EOF), grammar.N(v.table.Start()))

	for len(v.stack) > 0 {
		v.steps++

		top := v.stack[len(v.stack)-1]
		v.stack = v.stack[:len(v.stack)-1]
		cur := v.current()

		switch top.Kind {
		case grammar.SymbolEpsilon:
			continue

		case grammar.SymbolTerminal:
			if top.T == token.EOF {
				if cur.Kind == token.EOF {
					return nil
				}
				return &SyntaxError{
					Line:     cur.Line,
					Column:   cur.Column,
					Expected: token.EOF.String(),
					Found:    cur,
				}
			}
			if top.T != cur.Kind {
				return &SyntaxError{
					Line:     cur.Line,
					Column:   cur.Column,
					Expected: top.T.String(),
					Found:    cur,
				}
			}
			v.pos++

		case grammar.SymbolNonTerminal:
			p, ok := v.table.Get(top.N, cur.Kind)
			if !ok {
				return &SyntaxError{
					Line:     cur.Line,
					Column:   cur.Column,
					Expected: top.N.String(),
					Found:    cur,
				}
			}
			for i := len(p.RHS) - 1; i >= 0; i-- {
				v.stack = append(v.stack, p.RHS[i])
			}
		}
	}

	// Стек не может опустеть раньше совпадения EOF.
	cur := v.current()
	return &SyntaxError{
		Line:     cur.Line,
		Column:   cur.Column,
		Expected: token.EOF.String(),
		Found:    cur,
	}
}
