package interp

import (
	"fmt"
	"sort"

	"github.com/mohae/deepcopy"

	"github.com/GDVFox/rednet/ast"
	"github.com/GDVFox/rednet/semantic"
)

// MinSpacing минимальное расстояние между устройствами
// на коаксиальном кабеле.
const MinSpacing int32 = 3

// RuntimeError ошибка выполнения: нарушение инварианта топологии.
type RuntimeError struct {
	Line   int
	Column int
	Reason string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error at line %d, col %d: %s", e.Line, e.Column, e.Reason)
}

func newRuntimeError(loc ast.Location, format string, args ...interface{}) *RuntimeError {
	return &RuntimeError{
		Line:   loc.Line,
		Column: loc.Column,
		Reason: fmt.Sprintf(format, args...),
	}
}

// ConnectionKind вид подключения машины.
type ConnectionKind int

// Виды подключений: к порту концентратора или к коаксиальному кабелю.
const (
	ConnPort ConnectionKind = iota
	ConnCoax
)

// Connection подключение машины. Машина подключена не более чем
// к одному порту или одной позиции кабеля.
type Connection struct {
	Kind ConnectionKind
	Hub  string
	Port int32
	Coax string
	Pos  int32
}

// Machine состояние машины.
type Machine struct {
	Name   string
	X, Y   int32
	Placed bool
	Conn   *Connection
}

// Hub состояние концентратора. Occupied хранит занятость портов,
// Available убывает при каждом подключении.
type Hub struct {
	Name      string
	Ports     int32
	HasTap    bool
	X, Y      int32
	Placed    bool
	Occupied  []bool
	Available int32
	TapCoax   string
}

// occupyPort помечает порт занятым. Номера портов начинаются с единицы.
func (h *Hub) occupyPort(port int32) bool {
	if port < 1 || port > h.Ports || h.Occupied[port-1] {
		return false
	}
	h.Occupied[port-1] = true
	h.Available--
	return true
}

// firstFreePort возвращает наименьший свободный номер порта.
func (h *Hub) firstFreePort() (int32, bool) {
	for i, occupied := range h.Occupied {
		if !occupied {
			return int32(i + 1), true
		}
	}
	return 0, false
}

// Attachment устройство на коаксиальном кабеле.
type Attachment struct {
	Machine string
	Pos     int32
}

// Coax состояние коаксиального кабеля. Список подключений
// упорядочен по позиции.
type Coax struct {
	Name        string
	Length      int32
	X, Y        int32
	Dir         ast.Direction
	Placed      bool
	Attachments []Attachment
}

// collides проверяет, нарушает ли позиция минимальное расстояние
// до уже подключенных устройств.
func (c *Coax) collides(pos int32) bool {
	for _, a := range c.Attachments {
		d := pos - a.Pos
		if d < 0 {
			d = -d
		}
		if d < MinSpacing {
			return true
		}
	}
	return false
}

// nextFreePos возвращает наименьшую допустимую позицию,
// перебирая кабель с шагом MinSpacing.
func (c *Coax) nextFreePos() (int32, bool) {
	for pos := int32(0); pos <= c.Length; pos += MinSpacing {
		if !c.collides(pos) {
			return pos, true
		}
	}
	return 0, false
}

// full сообщает, что на кабеле не осталось допустимой позиции
// среди перебираемых nextFreePos.
func (c *Coax) full() bool {
	_, ok := c.nextFreePos()
	return !ok
}

// attach вставляет подключение, сохраняя порядок по позиции.
func (c *Coax) attach(machine string, pos int32) {
	idx := sort.Search(len(c.Attachments), func(i int) bool {
		return c.Attachments[i].Pos >= pos
	})
	c.Attachments = append(c.Attachments, Attachment{})
	copy(c.Attachments[idx+1:], c.Attachments[idx:])
	c.Attachments[idx] = Attachment{Machine: machine, Pos: pos}
}

// Environment состояние топологии одной программы. Не предназначено
// для конкурентного изменения: каждый запуск владеет своим экземпляром.
type Environment struct {
	machines map[string]*Machine
	hubs     map[string]*Hub
	coaxials map[string]*Coax
	modules  map[string][]ast.Statement
	output   []string
}

// NewEnvironment создает состояние топологии по таблице символов.
func NewEnvironment(table *semantic.SymbolTable) *Environment {
	env := &Environment{
		machines: make(map[string]*Machine, len(table.Machines)),
		hubs:     make(map[string]*Hub, len(table.Hubs)),
		coaxials: make(map[string]*Coax, len(table.Coaxials)),
		modules:  make(map[string][]ast.Statement, len(table.Modules)),
	}

	for name := range table.Machines {
		env.machines[name] = &Machine{Name: name}
	}
	for name, sym := range table.Hubs {
		env.hubs[name] = &Hub{
			Name:      name,
			Ports:     sym.Ports,
			HasTap:    sym.HasTap,
			Occupied:  make([]bool, sym.Ports),
			Available: sym.Ports,
		}
	}
	for name, sym := range table.Coaxials {
		env.coaxials[name] = &Coax{
			Name:   name,
			Length: sym.Length,
		}
	}
	for name, sym := range table.Modules {
		env.modules[name] = sym.Body
	}

	return env
}

// Output возвращает накопленный вывод операторов escribe.
func (e *Environment) Output() []string {
	return e.output
}

func (e *Environment) write(line string) {
	e.output = append(e.output, line)
}

// Snapshot снимок итоговой топологии для внешних потребителей.
type Snapshot struct {
	Machines []*Machine
	Hubs     []*Hub
	Coaxials []*Coax
	Output   []string
}

// Snapshot возвращает глубокую копию состояния топологии,
// устройства упорядочены по именам.
func (e *Environment) Snapshot() *Snapshot {
	snap := &Snapshot{
		Machines: make([]*Machine, 0, len(e.machines)),
		Hubs:     make([]*Hub, 0, len(e.hubs)),
		Coaxials: make([]*Coax, 0, len(e.coaxials)),
		Output:   append([]string(nil), e.output...),
	}

	for _, m := range e.machines {
		snap.Machines = append(snap.Machines, deepcopy.Copy(m).(*Machine))
	}
	for _, h := range e.hubs {
		snap.Hubs = append(snap.Hubs, deepcopy.Copy(h).(*Hub))
	}
	for _, c := range e.coaxials {
		snap.Coaxials = append(snap.Coaxials, deepcopy.Copy(c).(*Coax))
	}

	sort.Slice(snap.Machines, func(i, j int) bool { return snap.Machines[i].Name < snap.Machines[j].Name })
	sort.Slice(snap.Hubs, func(i, j int) bool { return snap.Hubs[i].Name < snap.Hubs[j].Name })
	sort.Slice(snap.Coaxials, func(i, j int) bool { return snap.Coaxials[i].Name < snap.Coaxials[j].Name })

	return snap
}
