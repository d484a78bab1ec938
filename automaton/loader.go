package automaton

import (
	"os"
	"strings"

	"github.com/GDVFox/rednet/token"
)

// Секции файла описания автомата.
const (
	sectionMetadata    = "METADATA"
	sectionStates      = "STATES"
	sectionTransitions = "TRANSITIONS"
	sectionKeywords    = "KEYWORDS"
)

// LoadFile загружает автомат из файла формата .aut.
func LoadFile(path string) (*Automaton, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, newConfigError(0, "can not read automaton file %s: %v", path, err)
	}
	return Parse(string(data))
}

// Parse разбирает текстовое описание автомата.
//
// Файл состоит из четырех секций METADATA, STATES, TRANSITIONS и KEYWORDS,
// каждая завершается маркером END_<секция>. Символ '#' начинает комментарий
// до конца строки в любом месте файла.
func Parse(content string) (*Automaton, error) {
	a := &Automaton{
		start:         -1,
		stateIDs:      make(map[string]int),
		exactKeywords: make(map[string]token.Kind),
		foldKeywords:  make(map[string]token.Kind),
	}

	section := ""
	initialName := ""
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
		case sectionMetadata, sectionStates, sectionTransitions, sectionKeywords:
			section = line
			continue
		}
		if strings.HasPrefix(line, "END_") {
			section = ""
			continue
		}

		var err error
		switch section {
		case sectionMetadata:
			if strings.HasPrefix(line, "initial_state:") {
				initialName = strings.TrimSpace(strings.TrimPrefix(line, "initial_state:"))
			}
		case sectionStates:
			err = a.parseStateLine(line, lineNum+1)
		case sectionTransitions:
			err = a.parseTransitionLine(line, lineNum+1)
		case sectionKeywords:
			err = a.parseKeywordLine(line, lineNum+1)
		default:
			err = newConfigError(lineNum+1, "content outside of any section: '%s'", line)
		}
		if err != nil {
			return nil, err
		}
	}

	if initialName == "" {
		return nil, newConfigError(0, "metadata does not declare initial_state")
	}
	startID, ok := a.stateIDs[initialName]
	if !ok {
		return nil, newConfigError(0, "initial state '%s' is not declared", initialName)
	}
	a.start = startID

	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// parseStateLine разбирает строку секции STATES: имя состояния
// и необязательная пометка FINAL:<домен>.
func (a *Automaton) parseStateLine(line string, lineNum int) error {
	fields := strings.Fields(line)
	name := fields[0]
	if _, ok := a.stateIDs[name]; ok {
		return newConfigError(lineNum, "state '%s' declared twice", name)
	}

	st := State{Name: name}
	for _, f := range fields[1:] {
		if !strings.HasPrefix(f, "FINAL:") {
			return newConfigError(lineNum, "unknown state attribute '%s'", f)
		}
		kindName := strings.TrimPrefix(f, "FINAL:")
		kind, ok := token.KindByName(kindName)
		if !ok {
			return newConfigError(lineNum, "unknown token kind '%s'", kindName)
		}
		st.Final = true
		st.Kind = kind
	}

	a.stateIDs[name] = len(a.states)
	a.states = append(a.states, st)
	a.transitions = append(a.transitions, nil)
	return nil
}

// parseTransitionLine разбирает строку секции TRANSITIONS вида
// 'from, класс, to'. Запятая как символ перехода записывается
// как 'from, ,, to'.
func (a *Automaton) parseTransitionLine(line string, lineNum int) error {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	var fromName, classSpec, toName string
	switch {
	case len(parts) == 4 && parts[1] == "" && parts[2] == "":
		fromName, classSpec, toName = parts[0], ",", parts[3]
	case len(parts) == 3:
		fromName, classSpec, toName = parts[0], parts[1], parts[2]
	default:
		return newConfigError(lineNum, "malformed transition '%s'", line)
	}

	from, ok := a.stateIDs[fromName]
	if !ok {
		return newConfigError(lineNum, "transition from undeclared state '%s'", fromName)
	}
	to, ok := a.stateIDs[toName]
	if !ok {
		return newConfigError(lineNum, "transition to undeclared state '%s'", toName)
	}

	class, err := ParseCharClass(classSpec)
	if err != nil {
		return newConfigError(lineNum, "%v", err)
	}

	a.transitions[from] = append(a.transitions[from], Transition{
		From:  from,
		To:    to,
		Class: class,
	})
	return nil
}

// parseKeywordLine разбирает строку секции KEYWORDS вида
// 'лексема, ДОМЕН[, exact]'. Пометка exact требует совпадения
// регистра, по умолчанию сравнение регистронезависимое.
func (a *Automaton) parseKeywordLine(line string, lineNum int) error {
	parts := strings.Split(line, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) != 2 && len(parts) != 3 {
		return newConfigError(lineNum, "malformed keyword '%s'", line)
	}

	kind, ok := token.KindByName(parts[1])
	if !ok {
		return newConfigError(lineNum, "unknown token kind '%s'", parts[1])
	}

	exact := false
	if len(parts) == 3 {
		if parts[2] != "exact" {
			return newConfigError(lineNum, "unknown keyword attribute '%s'", parts[2])
		}
		exact = true
	}

	if exact {
		if _, ok := a.exactKeywords[parts[0]]; ok {
			return newConfigError(lineNum, "keyword '%s' declared twice", parts[0])
		}
		a.exactKeywords[parts[0]] = kind
	} else {
		folded := strings.ToLower(parts[0])
		if _, ok := a.foldKeywords[folded]; ok {
			return newConfigError(lineNum, "keyword '%s' declared twice", parts[0])
		}
		a.foldKeywords[folded] = kind
	}
	return nil
}
