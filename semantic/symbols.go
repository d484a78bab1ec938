package semantic

import (
	"fmt"

	"github.com/GDVFox/rednet/ast"
)

// Error семантическая ошибка с координатами источника.
type Error struct {
	Line   int
	Column int
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("semantic error at line %d, col %d: %s", e.Line, e.Column, e.Reason)
}

func newError(loc ast.Location, format string, args ...interface{}) *Error {
	return &Error{
		Line:   loc.Line,
		Column: loc.Column,
		Reason: fmt.Sprintf(format, args...),
	}
}

// Type тип выражения или объявленного имени.
type Type int

// Возможные типы.
const (
	TypeUnknown Type = iota
	TypeInt
	TypeString
	TypeBool
	TypeMachine
	TypeHub
	TypeCoax
)

func (t Type) String() string {
	switch t {
	case TypeInt:
		return "Int"
	case TypeString:
		return "String"
	case TypeBool:
		return "Bool"
	case TypeMachine:
		return "Machine"
	case TypeHub:
		return "Hub"
	case TypeCoax:
		return "Coax"
	default:
		return "Unknown"
	}
}

// MachineSymbol запись таблицы символов для машины.
type MachineSymbol struct {
	Name string
	Loc  ast.Location
}

// HubSymbol запись таблицы символов для концентратора.
type HubSymbol struct {
	Name   string
	Ports  int32
	HasTap bool
	Loc    ast.Location
}

// CoaxSymbol запись таблицы символов для коаксиального кабеля.
type CoaxSymbol struct {
	Name   string
	Length int32
	Loc    ast.Location
}

// ModuleSymbol запись таблицы символов для модуля.
type ModuleSymbol struct {
	Name string
	Body []ast.Statement
	Loc  ast.Location
}

// SymbolTable четыре непересекающихся пространства имен.
// Имя, объявленное в одном пространстве, не может быть
// объявлено ни в каком другом.
type SymbolTable struct {
	Machines map[string]*MachineSymbol
	Hubs     map[string]*HubSymbol
	Coaxials map[string]*CoaxSymbol
	Modules  map[string]*ModuleSymbol
}

// NewSymbolTable создает пустую таблицу символов.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		Machines: make(map[string]*MachineSymbol),
		Hubs:     make(map[string]*HubSymbol),
		Coaxials: make(map[string]*CoaxSymbol),
		Modules:  make(map[string]*ModuleSymbol),
	}
}

// KindOf возвращает тип объявленного имени.
func (t *SymbolTable) KindOf(name string) Type {
	if _, ok := t.Machines[name]; ok {
		return TypeMachine
	}
	if _, ok := t.Hubs[name]; ok {
		return TypeHub
	}
	if _, ok := t.Coaxials[name]; ok {
		return TypeCoax
	}
	return TypeUnknown
}

// occupiedBy возвращает имя пространства, в котором имя уже объявлено.
func (t *SymbolTable) occupiedBy(name string) (string, bool) {
	if _, ok := t.Machines[name]; ok {
		return "machine", true
	}
	if _, ok := t.Hubs[name]; ok {
		return "hub", true
	}
	if _, ok := t.Coaxials[name]; ok {
		return "coaxial", true
	}
	if _, ok := t.Modules[name]; ok {
		return "module", true
	}
	return "", false
}

func (t *SymbolTable) defineMachine(decl *ast.MachineDecl) error {
	if ns, ok := t.occupiedBy(decl.Name); ok {
		return newError(decl.Loc, "name '%s' is already in use by a %s", decl.Name, ns)
	}
	t.Machines[decl.Name] = &MachineSymbol{Name: decl.Name, Loc: decl.Loc}
	return nil
}

func (t *SymbolTable) defineHub(decl *ast.HubDecl) error {
	if ns, ok := t.occupiedBy(decl.Name); ok {
		return newError(decl.Loc, "name '%s' is already in use by a %s", decl.Name, ns)
	}
	if decl.Ports < 1 {
		return newError(decl.Loc, "hub '%s' must have at least one port", decl.Name)
	}
	t.Hubs[decl.Name] = &HubSymbol{
		Name:   decl.Name,
		Ports:  decl.Ports,
		HasTap: decl.HasTap,
		Loc:    decl.Loc,
	}
	return nil
}

func (t *SymbolTable) defineCoax(decl *ast.CoaxialDecl) error {
	if ns, ok := t.occupiedBy(decl.Name); ok {
		return newError(decl.Loc, "name '%s' is already in use by a %s", decl.Name, ns)
	}
	if decl.Length < MinCoaxLength || decl.Length > MaxCoaxLength {
		return newError(decl.Loc, "coaxial '%s' length %d is out of range %d..%d",
			decl.Name, decl.Length, MinCoaxLength, MaxCoaxLength)
	}
	t.Coaxials[decl.Name] = &CoaxSymbol{
		Name:   decl.Name,
		Length: decl.Length,
		Loc:    decl.Loc,
	}
	return nil
}

func (t *SymbolTable) defineModule(m *ast.Module) error {
	if ns, ok := t.occupiedBy(m.Name); ok {
		return newError(m.Loc, "name '%s' is already in use by a %s", m.Name, ns)
	}
	t.Modules[m.Name] = &ModuleSymbol{Name: m.Name, Body: m.Body, Loc: m.Loc}
	return nil
}
