package grammar

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/GDVFox/rednet/token"
)

// Возможные ошибки построения таблицы.
var (
	ErrNotLL1 = errors.New("grammar is not LL(1)")
)

type tableKey struct {
	N NonTerminal
	T token.Kind
}

// Table таблица предиктивного разбора M[N, t] -> продукция.
// В каждой ячейке не более одной продукции, свойство проверяется
// при построении и при загрузке из файла.
type Table struct {
	start   NonTerminal
	entries map[tableKey]*Production
}

// Start возвращает стартовый символ.
func (t *Table) Start() NonTerminal {
	return t.start
}

// Get возвращает продукцию для пары (нетерминал, класс токена).
func (t *Table) Get(n NonTerminal, k token.Kind) (*Production, bool) {
	p, ok := t.entries[tableKey{N: n, T: k}]
	return p, ok
}

// Len возвращает количество заполненных ячеек.
func (t *Table) Len() int {
	return len(t.entries)
}

// set добавляет продукцию в ячейку, проверяя свойство LL(1).
func (t *Table) set(n NonTerminal, k token.Kind, p *Production) error {
	key := tableKey{N: n, T: k}
	if old, ok := t.entries[key]; ok && old.ID != p.ID {
		return errors.Wrapf(ErrNotLL1,
			"conflict at M[%s, %s]: productions %d and %d", n, k, old.ID, p.ID)
	}
	t.entries[key] = p
	return nil
}

// Build строит таблицу предиктивного разбора по грамматике:
// для продукции A -> alpha ячейка M[A, t] заполняется для каждого
// t из FIRST(alpha), а при выводимости пустой цепочки также
// для каждого t из FOLLOW(A).
func Build(g *Grammar) (*Table, error) {
	sets := ComputeSets(g)
	t := &Table{
		start:   g.Start,
		entries: make(map[tableKey]*Production),
	}

	for i := range g.Productions {
		p := &g.Productions[i]
		if g.disabled[p.ID] {
			continue
		}

		fs := sets.firstOfString(p.RHS)
		for k := range fs.kinds {
			if err := t.set(p.LHS, k, p); err != nil {
				return nil, err
			}
		}
		if fs.epsilon {
			follow := sets.follow[p.LHS]
			for k := range follow.kinds {
				if err := t.set(p.LHS, k, p); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}

// Equal сравнивает таблицы как отображения (N, t) -> правая часть.
func (t *Table) Equal(other *Table) bool {
	if t.start != other.start || len(t.entries) != len(other.entries) {
		return false
	}
	for key, p := range t.entries {
		op, ok := other.entries[key]
		if !ok || len(op.RHS) != len(p.RHS) {
			return false
		}
		for i := range p.RHS {
			if p.RHS[i] != op.RHS[i] {
				return false
			}
		}
	}
	return true
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// DefaultTable возвращает таблицу разбора, построенную по встроенной
// грамматике. Построение выполняется один раз при первом обращении.
func DefaultTable() (*Table, error) {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = Build(Default())
	})
	return defaultTable, defaultErr
}
