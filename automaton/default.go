package automaton

import (
	_ "embed"
	"sync"
)

//go:embed default.aut
var defaultAut string

var (
	defaultOnce      sync.Once
	defaultAutomaton *Automaton
	defaultErr       error
)

// Default возвращает встроенный автомат языка описания сетей.
// Загрузка выполняется один раз при первом обращении,
// последующие обращения возвращают тот же объект.
func Default() (*Automaton, error) {
	defaultOnce.Do(func() {
		defaultAutomaton, defaultErr = Parse(defaultAut)
	})
	return defaultAutomaton, defaultErr
}
