package grammar

import "github.com/GDVFox/rednet/token"

// terminalSet множество терминальных классов с отдельной
// пометкой пустой цепочки.
type terminalSet struct {
	kinds   map[token.Kind]bool
	epsilon bool
}

func newTerminalSet() *terminalSet {
	return &terminalSet{kinds: make(map[token.Kind]bool)}
}

// addKinds добавляет терминалы другого множества без пометки epsilon.
// Возвращает true, если множество изменилось.
func (s *terminalSet) addKinds(other *terminalSet) bool {
	changed := false
	for k := range other.kinds {
		if !s.kinds[k] {
			s.kinds[k] = true
			changed = true
		}
	}
	return changed
}

func (s *terminalSet) add(k token.Kind) bool {
	if s.kinds[k] {
		return false
	}
	s.kinds[k] = true
	return true
}

// Sets конъюнкция множеств FIRST и FOLLOW грамматики.
// Вычисляется итерацией до наименьшей неподвижной точки.
type Sets struct {
	first  map[NonTerminal]*terminalSet
	follow map[NonTerminal]*terminalSet
}

// ComputeSets вычисляет FIRST и FOLLOW для всех нетерминалов грамматики.
func ComputeSets(g *Grammar) *Sets {
	s := &Sets{
		first:  make(map[NonTerminal]*terminalSet),
		follow: make(map[NonTerminal]*terminalSet),
	}
	for _, p := range g.Productions {
		if s.first[p.LHS] == nil {
			s.first[p.LHS] = newTerminalSet()
		}
		if s.follow[p.LHS] == nil {
			s.follow[p.LHS] = newTerminalSet()
		}
	}

	// FIRST: итерация по продукциям до стабилизации.
	for changed := true; changed; {
		changed = false
		for i := range g.Productions {
			p := &g.Productions[i]
			fs := s.firstOfString(p.RHS)
			set := s.first[p.LHS]
			if set.addKinds(fs) {
				changed = true
			}
			if fs.epsilon && !set.epsilon {
				set.epsilon = true
				changed = true
			}
		}
	}

	// FOLLOW: стартовый символ получает EOF, далее итерация по вхождениям
	// нетерминалов в правые части.
	s.follow[g.Start].add(token.EOF)
	for changed := true; changed; {
		changed = false
		for i := range g.Productions {
			p := &g.Productions[i]
			for j, sym := range p.RHS {
				if sym.Kind != SymbolNonTerminal {
					continue
				}
				rest := s.firstOfString(p.RHS[j+1:])
				set := s.follow[sym.N]
				if set.addKinds(rest) {
					changed = true
				}
				if rest.epsilon {
					if set.addKinds(s.follow[p.LHS]) {
						changed = true
					}
				}
			}
		}
	}

	return s
}

// firstOfString вычисляет FIRST цепочки символов по текущему
// приближению множеств FIRST.
func (s *Sets) firstOfString(syms []Symbol) *terminalSet {
	res := newTerminalSet()
	for _, sym := range syms {
		switch sym.Kind {
		case SymbolEpsilon:
			continue
		case SymbolTerminal:
			res.add(sym.T)
			return res
		case SymbolNonTerminal:
			fs := s.first[sym.N]
			if fs == nil {
				return res
			}
			res.addKinds(fs)
			if !fs.epsilon {
				return res
			}
		}
	}
	res.epsilon = true
	return res
}

// First возвращает множество FIRST нетерминала и признак пустой цепочки.
func (s *Sets) First(nt NonTerminal) ([]token.Kind, bool) {
	set := s.first[nt]
	if set == nil {
		return nil, false
	}
	return kindsOf(set), set.epsilon
}

// Follow возвращает множество FOLLOW нетерминала.
func (s *Sets) Follow(nt NonTerminal) []token.Kind {
	set := s.follow[nt]
	if set == nil {
		return nil
	}
	return kindsOf(set)
}

func kindsOf(set *terminalSet) []token.Kind {
	kinds := make([]token.Kind, 0, len(set.kinds))
	for k := range set.kinds {
		kinds = append(kinds, k)
	}
	return kinds
}
