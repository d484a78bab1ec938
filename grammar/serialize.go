package grammar

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/GDVFox/rednet/token"
)

// Возможные ошибки табличного файла.
var (
	ErrBadTable = errors.New("bad table file")
)

// Секции табличного файла.
const (
	tableSectionMetadata     = "METADATA"
	tableSectionTerminals    = "TERMINALS"
	tableSectionNonTerminals = "NONTERMINALS"
	tableSectionTable        = "TABLE"
)

// Export сериализует таблицу в текстовый формат с секциями
// METADATA, TERMINALS, NONTERMINALS и TABLE. Строки таблицы
// имеют вид 'N, t, правая часть', пустая цепочка записывается
// словом EPSILON.
func (t *Table) Export() string {
	var b strings.Builder

	b.WriteString(tableSectionMetadata + "\n")
	fmt.Fprintf(&b, "name: rednet-ll1\n")
	fmt.Fprintf(&b, "start: %s\n", t.start)
	b.WriteString("END_" + tableSectionMetadata + "\n\n")

	terminals := make(map[token.Kind]bool)
	nonTerminals := make(map[NonTerminal]bool)
	keys := make([]tableKey, 0, len(t.entries))
	for key, p := range t.entries {
		keys = append(keys, key)
		nonTerminals[key.N] = true
		terminals[key.T] = true
		for _, sym := range p.RHS {
			switch sym.Kind {
			case SymbolTerminal:
				terminals[sym.T] = true
			case SymbolNonTerminal:
				nonTerminals[sym.N] = true
			}
		}
	}

	termList := make([]string, 0, len(terminals))
	for k := range terminals {
		termList = append(termList, k.String())
	}
	sort.Strings(termList)
	b.WriteString(tableSectionTerminals + "\n")
	for _, name := range termList {
		b.WriteString(name + "\n")
	}
	b.WriteString("END_" + tableSectionTerminals + "\n\n")

	ntList := make([]string, 0, len(nonTerminals))
	for n := range nonTerminals {
		ntList = append(ntList, n.String())
	}
	sort.Strings(ntList)
	b.WriteString(tableSectionNonTerminals + "\n")
	for _, name := range ntList {
		b.WriteString(name + "\n")
	}
	b.WriteString("END_" + tableSectionNonTerminals + "\n\n")

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].N != keys[j].N {
			return keys[i].N.String() < keys[j].N.String()
		}
		return keys[i].T.String() < keys[j].T.String()
	})

	b.WriteString(tableSectionTable + "\n")
	for _, key := range keys {
		p := t.entries[key]
		rhs := make([]string, 0, len(p.RHS))
		for _, sym := range p.RHS {
			rhs = append(rhs, sym.String())
		}
		fmt.Fprintf(&b, "%s, %s, %s\n", key.N, key.T, strings.Join(rhs, " "))
	}
	b.WriteString("END_" + tableSectionTable + "\n")

	return b.String()
}

// LoadFile загружает таблицу из текстового файла.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(ErrBadTable, "can not read table file %s: %v", path, err)
	}
	return Load(string(data))
}

// Load разбирает текстовое представление таблицы и проверяет:
// стартовый символ объявлен, все используемые символы определены,
// ключ (N, t) не повторяется.
func Load(content string) (*Table, error) {
	startName := ""
	declaredTerms := make(map[string]token.Kind)
	declaredNTs := make(map[string]NonTerminal)

	type rawEntry struct {
		line int
		nt   string
		term string
		rhs  []string
	}
	var rawEntries []rawEntry

	section := ""
	for lineNum, rawLine := range strings.Split(content, "\n") {
		line := rawLine
		if idx := strings.IndexByte(line, '#'); idx >= 0 {
			line = line[:idx]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch line {
		case tableSectionMetadata, tableSectionTerminals, tableSectionNonTerminals, tableSectionTable:
			section = line
			continue
		}
		if strings.HasPrefix(line, "END_") {
			section = ""
			continue
		}

		switch section {
		case tableSectionMetadata:
			if strings.HasPrefix(line, "start:") {
				startName = strings.TrimSpace(strings.TrimPrefix(line, "start:"))
			}
		case tableSectionTerminals:
			kind, ok := token.KindByName(line)
			if !ok {
				return nil, errors.Wrapf(ErrBadTable, "line %d: unknown terminal '%s'", lineNum+1, line)
			}
			declaredTerms[line] = kind
		case tableSectionNonTerminals:
			nt, ok := NonTerminalByName(line)
			if !ok {
				return nil, errors.Wrapf(ErrBadTable, "line %d: unknown non-terminal '%s'", lineNum+1, line)
			}
			declaredNTs[line] = nt
		case tableSectionTable:
			parts := strings.SplitN(line, ",", 3)
			if len(parts) != 3 {
				return nil, errors.Wrapf(ErrBadTable, "line %d: malformed entry '%s'", lineNum+1, line)
			}
			rawEntries = append(rawEntries, rawEntry{
				line: lineNum + 1,
				nt:   strings.TrimSpace(parts[0]),
				term: strings.TrimSpace(parts[1]),
				rhs:  strings.Fields(parts[2]),
			})
		default:
			return nil, errors.Wrapf(ErrBadTable, "line %d: content outside of any section", lineNum+1)
		}
	}

	if startName == "" {
		return nil, errors.Wrap(ErrBadTable, "metadata does not declare start symbol")
	}
	start, ok := declaredNTs[startName]
	if !ok {
		return nil, errors.Wrapf(ErrBadTable, "start symbol '%s' is not declared", startName)
	}

	t := &Table{
		start:   start,
		entries: make(map[tableKey]*Production),
	}

	for i, raw := range rawEntries {
		nt, ok := declaredNTs[raw.nt]
		if !ok {
			return nil, errors.Wrapf(ErrBadTable, "line %d: undeclared non-terminal '%s'", raw.line, raw.nt)
		}
		term, ok := declaredTerms[raw.term]
		if !ok {
			return nil, errors.Wrapf(ErrBadTable, "line %d: undeclared terminal '%s'", raw.line, raw.term)
		}

		rhs := make([]Symbol, 0, len(raw.rhs))
		for _, name := range raw.rhs {
			if name == "EPSILON" {
				rhs = append(rhs, Epsilon())
			} else if n, ok := declaredNTs[name]; ok {
				rhs = append(rhs, N(n))
			} else if k, ok := declaredTerms[name]; ok {
				rhs = append(rhs, T(k))
			} else {
				return nil, errors.Wrapf(ErrBadTable, "line %d: undeclared symbol '%s'", raw.line, name)
			}
		}
		if len(rhs) == 0 {
			return nil, errors.Wrapf(ErrBadTable, "line %d: empty right-hand side", raw.line)
		}

		p := &Production{ID: i + 1, LHS: nt, RHS: rhs}
		key := tableKey{N: nt, T: term}
		if _, ok := t.entries[key]; ok {
			return nil, errors.Wrapf(ErrBadTable,
				"line %d: duplicate entry M[%s, %s]", raw.line, raw.nt, raw.term)
		}
		t.entries[key] = p
	}

	return t, nil
}
