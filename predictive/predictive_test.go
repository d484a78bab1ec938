package predictive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GDVFox/rednet/automaton"
	"github.com/GDVFox/rednet/grammar"
	"github.com/GDVFox/rednet/scanner"
	"github.com/GDVFox/rednet/token"
)

func validate(t *testing.T, source string) (*Validator, error) {
	aut, err := automaton.Default()
	require.NoError(t, err)
	tokens, err := scanner.New(source, aut).ScanAll()
	require.NoError(t, err)
	table, err := grammar.DefaultTable()
	require.NoError(t, err)

	v := NewValidator(table, tokens)
	return v, v.Validate()
}

func TestMinimalProgram(t *testing.T) {
	_, err := validate(t, "programa t; inicio fin.")
	assert.NoError(t, err)
}

func TestProgramWithDefinitions(t *testing.T) {
	source := `programa p;
define maquinas a, b;
define concentradores h = 8;
define coaxial c = 10;
inicio
  coloca(h, 0, 0);
fin.`
	_, err := validate(t, source)
	assert.NoError(t, err)
}

func TestCoaxialSectionAlone(t *testing.T) {
	_, err := validate(t, "programa p; define coaxial c = 10; inicio fin.")
	assert.NoError(t, err)
}

func TestHubWithTapDeclaration(t *testing.T) {
	_, err := validate(t, "programa p; define concentradores h = 8.1; inicio fin.")
	assert.NoError(t, err)
}

func TestModulesAndCalls(t *testing.T) {
	source := `programa p;
define maquinas a;
modulo colocar;
inicio
  coloca(a, 1, 2);
fin
inicio
  colocar;
fin.`
	_, err := validate(t, source)
	assert.NoError(t, err)
}

func TestKeywordAsFieldName(t *testing.T) {
	// Зарезервированные слова допустимы после точки.
	source := `programa p;
define concentradores h = 4.1;
inicio
  si (h.coaxial = 1) inicio fin
fin.`
	_, err := validate(t, source)
	assert.NoError(t, err)
}

func TestIndexAccess(t *testing.T) {
	source := `programa p;
define maquinas a;
define concentradores h = 4;
inicio
  si (h.p[1] = 0) inicio uneMaquinaPuerto(a, h, 1); fin
fin.`
	_, err := validate(t, source)
	assert.NoError(t, err)
}

func TestIfElse(t *testing.T) {
	source := `programa p;
inicio
  si (1 = 2 && !(3 <> 4) || 5 < 6) inicio fin sino inicio escribe("no"); fin
fin.`
	_, err := validate(t, source)
	assert.NoError(t, err)
}

func TestMissingSemicolon(t *testing.T) {
	_, err := validate(t, "programa t inicio fin.")
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, token.Inicio, synErr.Found.Kind)
}

func TestMissingFinalDot(t *testing.T) {
	_, err := validate(t, "programa t; inicio fin")
	assert.Error(t, err)
}

func TestSegmentoRejected(t *testing.T) {
	// Слово segmento не принимается в заголовке секции определений.
	_, err := validate(t, "programa p; define segmento c = 10; inicio fin.")
	require.Error(t, err)

	var synErr *SyntaxError
	require.ErrorAs(t, err, &synErr)
	assert.Equal(t, token.Segmento, synErr.Found.Kind)
}

func TestTrailingGarbage(t *testing.T) {
	_, err := validate(t, "programa t; inicio fin. fin")
	assert.Error(t, err)
}

func TestStepsLinearBound(t *testing.T) {
	source := `programa p;
define maquinas a, b, c, d;
inicio
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  coloca(c, 3, 3);
  coloca(d, 4, 4);
  escribe("listo");
fin.`

	aut, err := automaton.Default()
	require.NoError(t, err)
	tokens, err := scanner.New(source, aut).ScanAll()
	require.NoError(t, err)
	table, err := grammar.DefaultTable()
	require.NoError(t, err)

	v := NewValidator(table, tokens)
	require.NoError(t, v.Validate())
	assert.Less(t, v.Steps(), 20*len(tokens))
}
