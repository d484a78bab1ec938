package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GDVFox/rednet/token"
)

func TestBuildTable(t *testing.T) {
	table, err := Build(Default())
	require.NoError(t, err)
	assert.Equal(t, NTPrograma, table.Start())
	assert.Greater(t, table.Len(), 100)
}

func TestFirstSets(t *testing.T) {
	sets := ComputeSets(Default())

	first, eps := sets.First(NTPrograma)
	assert.ElementsMatch(t, []token.Kind{token.Programa}, first)
	assert.False(t, eps)

	first, eps = sets.First(NTDefiniciones)
	assert.Contains(t, first, token.Define)
	assert.True(t, eps)

	first, eps = sets.First(NTDireccion)
	assert.ElementsMatch(t,
		[]token.Kind{token.Arriba, token.Abajo, token.Izquierda, token.Derecha},
		first)
	assert.False(t, eps)

	first, _ = sets.First(NTExpresionPrimaria)
	assert.ElementsMatch(t,
		[]token.Kind{token.Number, token.String, token.Identifier, token.LParen},
		first)
}

func TestFollowSets(t *testing.T) {
	sets := ComputeSets(Default())

	assert.ElementsMatch(t, []token.Kind{token.EOF}, sets.Follow(NTPrograma))
	assert.ElementsMatch(t, []token.Kind{token.Fin}, sets.Follow(NTSentencias))
	assert.ElementsMatch(t,
		[]token.Kind{token.Modulo, token.Inicio},
		sets.Follow(NTDefiniciones))
	assert.ElementsMatch(t, []token.Kind{token.RParen}, sets.Follow(NTDireccion))
}

func TestTableLookup(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	p, ok := table.Get(NTPrograma, token.Programa)
	require.True(t, ok)
	assert.Equal(t, 1, p.ID)

	p, ok = table.Get(NTSentencia, token.Escribe)
	require.True(t, ok)
	assert.Equal(t, 38, p.ID)

	_, ok = table.Get(NTPrograma, token.Inicio)
	assert.False(t, ok)
}

func TestSegmentoNotInstalled(t *testing.T) {
	// Продукция TipoCoaxial -> SEGMENTO объявлена, но отключена:
	// segmento остается зарезервированным словом и именем поля.
	table, err := DefaultTable()
	require.NoError(t, err)

	_, ok := table.Get(NTTipoCoaxial, token.Segmento)
	assert.False(t, ok)

	_, ok = table.Get(NTTipoCoaxial, token.Coaxial)
	assert.True(t, ok)

	_, ok = table.Get(NTFieldName, token.Segmento)
	assert.True(t, ok)
}

func TestFieldNameEntries(t *testing.T) {
	table, err := DefaultTable()
	require.NoError(t, err)

	for _, kind := range []token.Kind{
		token.Identifier, token.Coaxial, token.Segmento, token.Maquinas,
		token.Concentradores, token.Derecha, token.Izquierda,
		token.Arriba, token.Abajo, token.Modulo,
	} {
		_, ok := table.Get(NTFieldName, kind)
		assert.True(t, ok, "FieldName must accept %s", kind)
	}

	_, ok := table.Get(NTFieldName, token.Inicio)
	assert.False(t, ok)
}

func TestEpsilonOnlyOnRHS(t *testing.T) {
	for _, p := range Default().Productions {
		if p.IsEpsilon() {
			assert.Len(t, p.RHS, 1)
		}
		for _, sym := range p.RHS {
			if sym.Kind == SymbolEpsilon {
				assert.True(t, p.IsEpsilon())
			}
		}
	}
}

func TestExportLoadRoundTrip(t *testing.T) {
	built, err := DefaultTable()
	require.NoError(t, err)

	loaded, err := Load(built.Export())
	require.NoError(t, err)

	assert.True(t, loaded.Equal(built))
	assert.True(t, built.Equal(loaded))
}

func TestLoadRejectsDuplicateKey(t *testing.T) {
	content := `
METADATA
start: Programa
END_METADATA

TERMINALS
PROGRAMA
END_TERMINALS

NONTERMINALS
Programa
END_NONTERMINALS

TABLE
Programa, PROGRAMA, PROGRAMA
Programa, PROGRAMA, EPSILON
END_TABLE
`
	_, err := Load(content)
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestLoadRejectsUnknownSymbol(t *testing.T) {
	content := `
METADATA
start: Programa
END_METADATA

TERMINALS
PROGRAMA
END_TERMINALS

NONTERMINALS
Programa
END_NONTERMINALS

TABLE
Programa, PROGRAMA, PROGRAMA Definiciones
END_TABLE
`
	_, err := Load(content)
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestLoadRejectsMissingStart(t *testing.T) {
	content := `
TERMINALS
PROGRAMA
END_TERMINALS

NONTERMINALS
Programa
END_NONTERMINALS

TABLE
Programa, PROGRAMA, PROGRAMA
END_TABLE
`
	_, err := Load(content)
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestLL1Conflict(t *testing.T) {
	g := &Grammar{Start: NTPrograma}
	g.Productions = []Production{
		{ID: 1, LHS: NTPrograma, RHS: []Symbol{T(token.Programa)}},
		{ID: 2, LHS: NTPrograma, RHS: []Symbol{T(token.Programa), T(token.Dot)}},
	}
	_, err := Build(g)
	assert.ErrorIs(t, err, ErrNotLL1)
}
