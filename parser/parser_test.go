package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GDVFox/rednet/ast"
	"github.com/GDVFox/rednet/automaton"
	"github.com/GDVFox/rednet/scanner"
)

func build(t *testing.T, source string) *ast.Program {
	aut, err := automaton.Default()
	require.NoError(t, err)
	tokens, err := scanner.New(source, aut).ScanAll()
	require.NoError(t, err)

	prog, err := NewBuilder(tokens).Build()
	require.NoError(t, err)
	return prog
}

func TestBuildMinimalProgram(t *testing.T) {
	prog := build(t, "programa t; inicio fin.")

	assert.Equal(t, "t", prog.Name)
	assert.Empty(t, prog.Defs.Machines)
	assert.Empty(t, prog.Defs.Hubs)
	assert.Empty(t, prog.Defs.Coaxials)
	assert.Empty(t, prog.Modules)
	assert.Empty(t, prog.Body)
}

func TestBuildDefinitions(t *testing.T) {
	source := `programa p;
define maquinas a, b;
define concentradores h = 8, hc = 4.1;
define coaxial c = 185;
inicio fin.`

	prog := build(t, source)

	require.Len(t, prog.Defs.Machines, 2)
	assert.Equal(t, "a", prog.Defs.Machines[0].Name)
	assert.Equal(t, "b", prog.Defs.Machines[1].Name)
	assert.Equal(t, 2, prog.Defs.Machines[0].Loc.Line)

	require.Len(t, prog.Defs.Hubs, 2)
	assert.Equal(t, int32(8), prog.Defs.Hubs[0].Ports)
	assert.False(t, prog.Defs.Hubs[0].HasTap)
	assert.Equal(t, "hc", prog.Defs.Hubs[1].Name)
	assert.Equal(t, int32(4), prog.Defs.Hubs[1].Ports)
	assert.True(t, prog.Defs.Hubs[1].HasTap)

	require.Len(t, prog.Defs.Coaxials, 1)
	assert.Equal(t, int32(185), prog.Defs.Coaxials[0].Length)
}

func TestBuildStatements(t *testing.T) {
	source := `programa p;
define maquinas a;
define concentradores h = 4;
define coaxial c = 20;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  colocaCoaxial(c, 2, 2, derecha);
  uneMaquinaPuerto(a, h, 1);
  asignaPuerto(a, h);
  maquinaCoaxial(a, c, 5);
  asignaMaquinaCoaxial(a, c);
  colocaCoaxialConcentrador(c, h);
  escribe("hola");
fin.`

	prog := build(t, source)
	require.Len(t, prog.Body, 9)

	place, ok := prog.Body[0].(*ast.Place)
	require.True(t, ok)
	assert.Equal(t, "h", place.Object)

	placeCoax, ok := prog.Body[2].(*ast.PlaceCoax)
	require.True(t, ok)
	assert.Equal(t, ast.DirRight, placeCoax.Dir)

	hubConnect, ok := prog.Body[3].(*ast.HubConnect)
	require.True(t, ok)
	assert.Equal(t, "a", hubConnect.Machine)
	assert.Equal(t, "h", hubConnect.Hub)

	hubCoax, ok := prog.Body[7].(*ast.HubCoax)
	require.True(t, ok)
	assert.Equal(t, "c", hubCoax.Coax)
	assert.Equal(t, "h", hubCoax.Hub)

	write, ok := prog.Body[8].(*ast.Write)
	require.True(t, ok)
	str, ok := write.Value.(*ast.String)
	require.True(t, ok)
	assert.Equal(t, "hola", str.Value)
}

func TestBuildModules(t *testing.T) {
	source := `programa p;
define maquinas a;
modulo primero;
inicio
  coloca(a, 1, 1);
fin
modulo segundo;
inicio
  primero;
fin
inicio
  segundo;
fin.`

	prog := build(t, source)
	require.Len(t, prog.Modules, 2)
	assert.Equal(t, "primero", prog.Modules[0].Name)
	require.Len(t, prog.Modules[1].Body, 1)

	call, ok := prog.Modules[1].Body[0].(*ast.ModuleCall)
	require.True(t, ok)
	assert.Equal(t, "primero", call.Name)
}

func TestBuildIfElse(t *testing.T) {
	source := `programa p;
define concentradores h = 4;
inicio
  si (h.p[1] = 0) inicio escribe("libre"); fin sino inicio escribe("ocupado"); fin
fin.`

	prog := build(t, source)
	require.Len(t, prog.Body, 1)

	ifStmt, ok := prog.Body[0].(*ast.If)
	require.True(t, ok)
	require.Len(t, ifStmt.Then, 1)
	require.Len(t, ifStmt.Else, 1)

	rel, ok := ifStmt.Cond.(*ast.Rel)
	require.True(t, ok)
	assert.Equal(t, ast.OpEqual, rel.Op)

	idx, ok := rel.Left.(*ast.IndexAccess)
	require.True(t, ok)
	assert.Equal(t, "h", idx.Object)
	assert.Equal(t, "p", idx.Field)
}

func TestBuildKeywordFieldName(t *testing.T) {
	source := `programa p;
define concentradores h = 4.1;
inicio
  si (h.coaxial = 1) inicio fin
fin.`

	prog := build(t, source)
	ifStmt := prog.Body[0].(*ast.If)
	rel := ifStmt.Cond.(*ast.Rel)

	field, ok := rel.Left.(*ast.FieldAccess)
	require.True(t, ok)
	assert.Equal(t, "coaxial", field.Field)
}

func TestBuildExpressionPrecedence(t *testing.T) {
	source := `programa p;
inicio
  si (1 = 1 || 2 = 2 && 3 = 3) inicio fin
fin.`

	prog := build(t, source)
	ifStmt := prog.Body[0].(*ast.If)

	// Дизъюнкция связывает слабее конъюнкции.
	or, ok := ifStmt.Cond.(*ast.Logic)
	require.True(t, ok)
	assert.Equal(t, ast.OpOr, or.Op)

	and, ok := or.Right.(*ast.Logic)
	require.True(t, ok)
	assert.Equal(t, ast.OpAnd, and.Op)
}

func TestBuildStringEscapes(t *testing.T) {
	prog := build(t, `programa p; inicio escribe("a\"b\\c\nd"); fin.`)

	write := prog.Body[0].(*ast.Write)
	str := write.Value.(*ast.String)
	assert.Equal(t, "a\"b\\c\nd", str.Value)
}

func TestBuildNumberOutOfRange(t *testing.T) {
	aut, err := automaton.Default()
	require.NoError(t, err)
	tokens, err := scanner.New("programa p; inicio coloca(a, 99999999999, 0); fin.", aut).ScanAll()
	require.NoError(t, err)

	_, err = NewBuilder(tokens).Build()
	assert.ErrorIs(t, err, ErrBadNumber)
}

func TestBuildRejectsMismatch(t *testing.T) {
	aut, err := automaton.Default()
	require.NoError(t, err)
	tokens, err := scanner.New("programa ; inicio fin.", aut).ScanAll()
	require.NoError(t, err)

	_, err = NewBuilder(tokens).Build()
	assert.ErrorIs(t, err, ErrInternal)
}
