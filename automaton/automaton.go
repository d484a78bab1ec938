package automaton

import (
	"fmt"
	"strings"

	"github.com/GDVFox/rednet/token"
)

// ConfigError ошибка структуры или ссылок конфигурационного файла.
type ConfigError struct {
	Line   int
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("config error at line %d: %s", e.Line, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

func newConfigError(line int, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Line: line, Reason: fmt.Sprintf(format, args...)}
}

// State состояние автомата. Финальное состояние помечено доменом токена,
// который распознается при остановке в нем.
type State struct {
	Name  string
	Final bool
	Kind  token.Kind
}

// Transition переход автомата, применимый к классу символов.
// Переходы из одного состояния упорядочены по объявлению:
// при пересечении классов срабатывает более ранний.
type Transition struct {
	From  int
	To    int
	Class *CharClass
}

// Keyword запись таблицы ключевых слов.
// Exact требует точного совпадения лексемы с учетом регистра.
type Keyword struct {
	Lexeme string
	Kind   token.Kind
	Exact  bool
}

// Automaton детерминированный конечный автомат лексического анализатора
// вместе с таблицей ключевых слов. После загрузки не изменяется.
type Automaton struct {
	start    int
	states   []State
	stateIDs map[string]int

	// переходы, сгруппированные по исходному состоянию
	transitions [][]Transition

	exactKeywords map[string]token.Kind
	foldKeywords  map[string]token.Kind

	warnings []string
}

// Start возвращает начальное состояние.
func (a *Automaton) Start() int {
	return a.start
}

// StateCount возвращает количество состояний.
func (a *Automaton) StateCount() int {
	return len(a.states)
}

// Warnings возвращает предупреждения, накопленные при загрузке.
func (a *Automaton) Warnings() []string {
	return a.warnings
}

// Next возвращает состояние, в которое осуществляется переход
// из state по символу ch. Среди пересекающихся классов
// выбирается объявленный первым.
func (a *Automaton) Next(state int, ch rune) (int, bool) {
	for _, t := range a.transitions[state] {
		if t.Class.Matches(ch) {
			return t.To, true
		}
	}
	return 0, false
}

// Final возвращает домен токена, если состояние финальное.
func (a *Automaton) Final(state int) (token.Kind, bool) {
	s := a.states[state]
	if !s.Final {
		return token.Unknown, false
	}
	return s.Kind, true
}

// ClassifyIdentifier сопоставляет лексему идентификатора с таблицей
// ключевых слов. Записи с точным регистром проверяются первыми.
func (a *Automaton) ClassifyIdentifier(lexeme string) token.Kind {
	if k, ok := a.exactKeywords[lexeme]; ok {
		return k
	}
	if k, ok := a.foldKeywords[strings.ToLower(lexeme)]; ok {
		return k
	}
	return token.Identifier
}

// validate проверяет структурные свойства загруженного автомата:
// объявлено хотя бы одно состояние, есть хотя бы одно финальное,
// пересечение классов переходов с разными целями допустимо
// только как упорядоченный выбор (предупреждение), полное
// совпадение описаний с разными целями считается ошибкой.
func (a *Automaton) validate() error {
	if len(a.states) == 0 {
		return newConfigError(0, "no states declared")
	}

	hasFinal := false
	for _, s := range a.states {
		if s.Final {
			hasFinal = true
			break
		}
	}
	if !hasFinal {
		return newConfigError(0, "automaton has no final states")
	}

	for from, ts := range a.transitions {
		for i := 0; i < len(ts); i++ {
			for j := i + 1; j < len(ts); j++ {
				if ts[i].To == ts[j].To {
					continue
				}
				if ts[i].Class.Spec() == ts[j].Class.Spec() {
					return newConfigError(0,
						"ambiguous transitions from state '%s' on '%s'",
						a.states[from].Name, ts[i].Class.Spec())
				}
				if ts[i].Class.Overlaps(ts[j].Class) {
					a.warnings = append(a.warnings, fmt.Sprintf(
						"transitions from state '%s' on '%s' and '%s' overlap, declaration order wins",
						a.states[from].Name, ts[i].Class.Spec(), ts[j].Class.Spec()))
				}
			}
		}
	}

	return nil
}
