package interp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GDVFox/rednet/automaton"
	"github.com/GDVFox/rednet/grammar"
	"github.com/GDVFox/rednet/parser"
	"github.com/GDVFox/rednet/predictive"
	"github.com/GDVFox/rednet/scanner"
	"github.com/GDVFox/rednet/semantic"
)

// execSource проводит исходный текст через все фазы до исполнения.
func execSource(t *testing.T, source string) (*Environment, error) {
	aut, err := automaton.Default()
	require.NoError(t, err)
	tokens, err := scanner.New(source, aut).ScanAll()
	require.NoError(t, err)
	table, err := grammar.DefaultTable()
	require.NoError(t, err)
	require.NoError(t, predictive.NewValidator(table, tokens).Validate())

	prog, err := parser.NewBuilder(tokens).Build()
	require.NoError(t, err)
	symbols, err := semantic.Analyze(prog)
	require.NoError(t, err)

	in := New(symbols)
	return in.Env(), in.Run(prog)
}

func findMachine(t *testing.T, snap *Snapshot, name string) *Machine {
	for _, m := range snap.Machines {
		if m.Name == name {
			return m
		}
	}
	t.Fatalf("machine %s not found", name)
	return nil
}

func findHub(t *testing.T, snap *Snapshot, name string) *Hub {
	for _, h := range snap.Hubs {
		if h.Name == name {
			return h
		}
	}
	t.Fatalf("hub %s not found", name)
	return nil
}

func findCoax(t *testing.T, snap *Snapshot, name string) *Coax {
	for _, c := range snap.Coaxials {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("coaxial %s not found", name)
	return nil
}

func TestEmptyProgram(t *testing.T) {
	env, err := execSource(t, "programa t; inicio fin.")
	require.NoError(t, err)

	snap := env.Snapshot()
	assert.Empty(t, snap.Machines)
	assert.Empty(t, snap.Hubs)
	assert.Empty(t, snap.Coaxials)
	assert.Empty(t, env.Output())
}

func TestHubConnections(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a, b;
define concentradores h = 2;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  uneMaquinaPuerto(a, h, 1);
  uneMaquinaPuerto(b, h, 2);
fin.`)
	require.NoError(t, err)

	snap := env.Snapshot()
	h := findHub(t, snap, "h")
	assert.Equal(t, int32(0), h.Available)
	assert.Equal(t, []bool{true, true}, h.Occupied)

	a := findMachine(t, snap, "a")
	require.NotNil(t, a.Conn)
	assert.Equal(t, ConnPort, a.Conn.Kind)
	assert.Equal(t, "h", a.Conn.Hub)
	assert.Equal(t, int32(1), a.Conn.Port)

	b := findMachine(t, snap, "b")
	require.NotNil(t, b.Conn)
	assert.Equal(t, int32(2), b.Conn.Port)
}

func TestMachineAlreadyConnected(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a, b;
define concentradores h = 2;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  uneMaquinaPuerto(a, h, 1);
  uneMaquinaPuerto(b, h, 2);
  uneMaquinaPuerto(a, h, 2);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "already connected")
}

func TestPortOccupied(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a, b;
define concentradores h = 4;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  uneMaquinaPuerto(a, h, 1);
  uneMaquinaPuerto(b, h, 1);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "occupied")
}

func TestIfReadsPortState(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a;
define concentradores h = 1;
inicio
  coloca(a, 0, 0);
  coloca(h, 1, 0);
  si (h.p[1] = 0) inicio uneMaquinaPuerto(a, h, 1); fin
fin.`)
	require.NoError(t, err)

	h := findHub(t, env.Snapshot(), "h")
	assert.True(t, h.Occupied[0])
}

func TestIfFalseWithoutElseIsNoop(t *testing.T) {
	env, err := execSource(t, `programa p;
inicio
  si (1 = 2) inicio escribe("nunca"); fin
fin.`)
	require.NoError(t, err)
	assert.Empty(t, env.Output())
}

func TestWriteOutput(t *testing.T) {
	env, err := execSource(t, `programa p; inicio escribe("hi"); fin.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"hi"}, env.Output())
}

func TestWriteOrder(t *testing.T) {
	env, err := execSource(t, `programa p;
inicio
  escribe("uno");
  escribe(2);
  si (1 = 1) inicio escribe("tres"); fin
fin.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"uno", "2", "tres"}, env.Output())
}

func TestAssignPortPicksSmallest(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a, b, c;
define concentradores h = 4;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  coloca(c, 3, 3);
  uneMaquinaPuerto(a, h, 2);
  asignaPuerto(b, h);
  asignaPuerto(c, h);
fin.`)
	require.NoError(t, err)

	snap := env.Snapshot()
	assert.Equal(t, int32(1), findMachine(t, snap, "b").Conn.Port)
	assert.Equal(t, int32(3), findMachine(t, snap, "c").Conn.Port)
	assert.Equal(t, int32(1), findHub(t, snap, "h").Available)
}

func TestHubFull(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a, b;
define concentradores h = 1;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  asignaPuerto(a, h);
  asignaPuerto(b, h);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "full")
}

func TestDoublePlacement(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a;
inicio
  coloca(a, 0, 0);
  coloca(a, 1, 1);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "already placed")
}

func TestConnectRequiresPlacement(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a;
define concentradores h = 4;
inicio
  coloca(h, 0, 0);
  uneMaquinaPuerto(a, h, 1);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "not placed")
}

func TestPortOutOfRange(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a;
define concentradores h = 4;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  uneMaquinaPuerto(a, h, 5);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "out of range")
}

func TestCoaxAttachmentsSorted(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a, b, c;
define coaxial w = 30;
inicio
  colocaCoaxial(w, 0, 0, derecha);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  coloca(c, 3, 3);
  maquinaCoaxial(a, w, 20);
  maquinaCoaxial(b, w, 5);
  maquinaCoaxial(c, w, 11);
fin.`)
	require.NoError(t, err)

	w := findCoax(t, env.Snapshot(), "w")
	require.Len(t, w.Attachments, 3)
	assert.Equal(t, int32(5), w.Attachments[0].Pos)
	assert.Equal(t, "b", w.Attachments[0].Machine)
	assert.Equal(t, int32(11), w.Attachments[1].Pos)
	assert.Equal(t, int32(20), w.Attachments[2].Pos)
}

func TestCoaxSpacingViolation(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a, b;
define coaxial w = 30;
inicio
  colocaCoaxial(w, 0, 0, derecha);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  maquinaCoaxial(a, w, 10);
  maquinaCoaxial(b, w, 12);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "closer than")
}

func TestCoaxPositionOutOfRange(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a;
define coaxial w = 10;
inicio
  colocaCoaxial(w, 0, 0, derecha);
  coloca(a, 1, 1);
  maquinaCoaxial(a, w, 11);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "out of range")
}

func TestAssignCoaxPositions(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a, b, c;
define coaxial w = 6;
inicio
  colocaCoaxial(w, 0, 0, abajo);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  coloca(c, 3, 3);
  asignaMaquinaCoaxial(a, w);
  asignaMaquinaCoaxial(b, w);
  asignaMaquinaCoaxial(c, w);
fin.`)
	require.NoError(t, err)

	w := findCoax(t, env.Snapshot(), "w")
	require.Len(t, w.Attachments, 3)
	assert.Equal(t, int32(0), w.Attachments[0].Pos)
	assert.Equal(t, int32(3), w.Attachments[1].Pos)
	assert.Equal(t, int32(6), w.Attachments[2].Pos)
}

func TestAssignCoaxFull(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a, b, c;
define coaxial w = 3;
inicio
  colocaCoaxial(w, 0, 0, abajo);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  coloca(c, 3, 3);
  asignaMaquinaCoaxial(a, w);
  asignaMaquinaCoaxial(b, w);
  asignaMaquinaCoaxial(c, w);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "full")
}

func TestCoaxCompletoField(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a, b;
define coaxial w = 3;
inicio
  colocaCoaxial(w, 0, 0, abajo);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  escribe(w.completo);
  asignaMaquinaCoaxial(a, w);
  asignaMaquinaCoaxial(b, w);
  escribe(w.completo);
  escribe(w.num);
fin.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2"}, env.Output())
}

func TestMachineConnExclusive(t *testing.T) {
	_, err := execSource(t, `programa p;
define maquinas a;
define concentradores h = 4;
define coaxial w = 10;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  colocaCoaxial(w, 2, 2, izquierda);
  uneMaquinaPuerto(a, h, 1);
  maquinaCoaxial(a, w, 0);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "already connected")
}

func TestHubTap(t *testing.T) {
	env, err := execSource(t, `programa p;
define concentradores h = 4.1;
define coaxial w = 10;
inicio
  coloca(h, 0, 0);
  colocaCoaxial(w, 1, 0, derecha);
  colocaCoaxialConcentrador(w, h);
fin.`)
	require.NoError(t, err)

	h := findHub(t, env.Snapshot(), "h")
	assert.Equal(t, "w", h.TapCoax)
}

func TestModuleMutatesGlobalState(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a;
define concentradores h = 2;
modulo conectar;
inicio
  asignaPuerto(a, h);
fin
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  conectar;
  escribe(h.disponibles);
fin.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, env.Output())
}

func TestShortCircuitAnd(t *testing.T) {
	// Правый операнд не вычисляется: h.p[99] вызвал бы ошибку.
	env, err := execSource(t, `programa p;
define concentradores h = 4;
inicio
  si (1 = 2 && h.p[99] = 0) inicio escribe("nunca"); fin
fin.`)
	require.NoError(t, err)
	assert.Empty(t, env.Output())
}

func TestShortCircuitOr(t *testing.T) {
	env, err := execSource(t, `programa p;
define concentradores h = 4;
inicio
  si (1 = 1 || h.p[99] = 0) inicio escribe("si"); fin
fin.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"si"}, env.Output())
}

func TestPortIndexOutOfRange(t *testing.T) {
	_, err := execSource(t, `programa p;
define concentradores h = 4;
inicio
  escribe(h.p[5]);
fin.`)
	require.Error(t, err)

	var runErr *RuntimeError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Reason, "out of range")
}

func TestAvailableCountInvariant(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a, b, c;
define concentradores h = 8;
inicio
  coloca(h, 0, 0);
  coloca(a, 1, 1);
  coloca(b, 2, 2);
  coloca(c, 3, 3);
  uneMaquinaPuerto(a, h, 3);
  asignaPuerto(b, h);
  asignaPuerto(c, h);
fin.`)
	require.NoError(t, err)

	h := findHub(t, env.Snapshot(), "h")
	occupied := int32(0)
	for _, p := range h.Occupied {
		if p {
			occupied++
		}
	}
	assert.Equal(t, h.Ports-occupied, h.Available)
}

func TestPresenteField(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a;
inicio
  escribe(a.presente);
  coloca(a, 5, 7);
  escribe(a.presente);
fin.`)
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1"}, env.Output())

	a := findMachine(t, env.Snapshot(), "a")
	assert.Equal(t, int32(5), a.X)
	assert.Equal(t, int32(7), a.Y)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	env, err := execSource(t, `programa p;
define concentradores h = 4;
inicio
  coloca(h, 0, 0);
fin.`)
	require.NoError(t, err)

	snap := env.Snapshot()
	snap.Hubs[0].Occupied[0] = true
	snap.Hubs[0].Available = 0

	fresh := env.Snapshot()
	assert.False(t, fresh.Hubs[0].Occupied[0])
	assert.Equal(t, int32(4), fresh.Hubs[0].Available)
}

func TestRunEmptyStatementListIsNoop(t *testing.T) {
	env, err := execSource(t, `programa p;
define maquinas a;
inicio
  coloca(a, 1, 1);
fin.`)
	require.NoError(t, err)

	before := env.Snapshot()

	in := &Interpreter{env: env}
	require.NoError(t, in.execAll(nil))

	after := env.Snapshot()
	assert.Equal(t, before, after)
}
