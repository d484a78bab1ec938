package interp

import (
	"github.com/GDVFox/rednet/ast"
	"github.com/GDVFox/rednet/semantic"
)

// Interpreter исполняет операторы программы над состоянием топологии.
// Выполнение однопоточное, операторы исполняются в порядке исходного
// текста, первая ошибка прерывает выполнение.
type Interpreter struct {
	env *Environment
}

// New создает интерпретатор над свежим состоянием топологии.
func New(table *semantic.SymbolTable) *Interpreter {
	return &Interpreter{env: NewEnvironment(table)}
}

// Env возвращает состояние топологии.
func (i *Interpreter) Env() *Environment {
	return i.env
}

// Run исполняет главный блок программы.
func (i *Interpreter) Run(prog *ast.Program) error {
	return i.execAll(prog.Body)
}

func (i *Interpreter) execAll(stmts []ast.Statement) error {
	for _, stmt := range stmts {
		if err := i.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) exec(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Place:
		return i.execPlace(s)
	case *ast.PlaceCoax:
		return i.execPlaceCoax(s)
	case *ast.HubCoax:
		return i.execHubCoax(s)
	case *ast.HubConnect:
		return i.execHubConnect(s)
	case *ast.AssignPort:
		return i.execAssignPort(s)
	case *ast.CoaxConnect:
		return i.execCoaxConnect(s)
	case *ast.AssignCoax:
		return i.execAssignCoax(s)
	case *ast.Write:
		return i.execWrite(s)
	case *ast.If:
		return i.execIf(s)
	case *ast.ModuleCall:
		return i.execModuleCall(s)
	default:
		return newRuntimeError(stmt.Location(), "unsupported statement")
	}
}

// execPlace размещает устройство любого вида. Повторное размещение
// запрещено: состояние Placed монотонно.
func (i *Interpreter) execPlace(s *ast.Place) error {
	x, err := i.evalInt(s.X)
	if err != nil {
		return err
	}
	y, err := i.evalInt(s.Y)
	if err != nil {
		return err
	}

	if m, ok := i.env.machines[s.Object]; ok {
		if m.Placed {
			return newRuntimeError(s.Loc, "machine '%s' is already placed", s.Object)
		}
		m.X, m.Y = x, y
		m.Placed = true
		return nil
	}
	if h, ok := i.env.hubs[s.Object]; ok {
		if h.Placed {
			return newRuntimeError(s.Loc, "hub '%s' is already placed", s.Object)
		}
		h.X, h.Y = x, y
		h.Placed = true
		return nil
	}
	if c, ok := i.env.coaxials[s.Object]; ok {
		if c.Placed {
			return newRuntimeError(s.Loc, "coaxial '%s' is already placed", s.Object)
		}
		c.X, c.Y = x, y
		c.Placed = true
		return nil
	}

	return newRuntimeError(s.Loc, "object '%s' not found", s.Object)
}

func (i *Interpreter) execPlaceCoax(s *ast.PlaceCoax) error {
	c, ok := i.env.coaxials[s.Coax]
	if !ok {
		return newRuntimeError(s.Loc, "coaxial '%s' not found", s.Coax)
	}
	if c.Placed {
		return newRuntimeError(s.Loc, "coaxial '%s' is already placed", s.Coax)
	}

	x, err := i.evalInt(s.X)
	if err != nil {
		return err
	}
	y, err := i.evalInt(s.Y)
	if err != nil {
		return err
	}

	c.X, c.Y = x, y
	c.Dir = s.Dir
	c.Placed = true
	return nil
}

// execHubCoax подключает кабель к коаксиальному выходу концентратора.
func (i *Interpreter) execHubCoax(s *ast.HubCoax) error {
	h, ok := i.env.hubs[s.Hub]
	if !ok {
		return newRuntimeError(s.Loc, "hub '%s' not found", s.Hub)
	}
	if _, ok := i.env.coaxials[s.Coax]; !ok {
		return newRuntimeError(s.Loc, "coaxial '%s' not found", s.Coax)
	}
	if !h.HasTap {
		return newRuntimeError(s.Loc, "hub '%s' has no coaxial tap", s.Hub)
	}
	if h.TapCoax != "" {
		return newRuntimeError(s.Loc, "hub '%s' tap is already connected to '%s'", s.Hub, h.TapCoax)
	}
	h.TapCoax = s.Coax
	return nil
}

func (i *Interpreter) execHubConnect(s *ast.HubConnect) error {
	port, err := i.evalInt(s.Port)
	if err != nil {
		return err
	}
	return i.connectPort(s.Machine, s.Hub, port, s.Loc)
}

// execAssignPort подключает машину к наименьшему свободному порту.
func (i *Interpreter) execAssignPort(s *ast.AssignPort) error {
	h, ok := i.env.hubs[s.Hub]
	if !ok {
		return newRuntimeError(s.Loc, "hub '%s' not found", s.Hub)
	}
	port, ok := h.firstFreePort()
	if !ok {
		return newRuntimeError(s.Loc, "hub '%s' is full", s.Hub)
	}
	return i.connectPort(s.Machine, s.Hub, port, s.Loc)
}

// connectPort выполняет подключение к порту. Первым аргументом обычно
// выступает машина; каскад концентраторов и подключение кабеля занимают
// порт, не отмечая подключения на устройстве.
func (i *Interpreter) connectPort(device, hub string, port int32, loc ast.Location) error {
	h, ok := i.env.hubs[hub]
	if !ok {
		return newRuntimeError(loc, "hub '%s' not found", hub)
	}
	if !h.Placed {
		return newRuntimeError(loc, "hub '%s' is not placed", hub)
	}
	if port < 1 || port > h.Ports {
		return newRuntimeError(loc, "port %d is out of range 1..%d of hub '%s'", port, h.Ports, hub)
	}

	if m, ok := i.env.machines[device]; ok {
		if !m.Placed {
			return newRuntimeError(loc, "machine '%s' is not placed", device)
		}
		if m.Conn != nil {
			return newRuntimeError(loc, "machine '%s' is already connected", device)
		}
		if !h.occupyPort(port) {
			return newRuntimeError(loc, "port %d of hub '%s' is occupied", port, hub)
		}
		m.Conn = &Connection{Kind: ConnPort, Hub: hub, Port: port}
		return nil
	}

	if other, ok := i.env.hubs[device]; ok {
		if !other.Placed {
			return newRuntimeError(loc, "hub '%s' is not placed", device)
		}
	} else if c, ok := i.env.coaxials[device]; ok {
		if !c.Placed {
			return newRuntimeError(loc, "coaxial '%s' is not placed", device)
		}
	} else {
		return newRuntimeError(loc, "device '%s' not found", device)
	}

	if !h.occupyPort(port) {
		return newRuntimeError(loc, "port %d of hub '%s' is occupied", port, hub)
	}
	return nil
}

func (i *Interpreter) execCoaxConnect(s *ast.CoaxConnect) error {
	pos, err := i.evalInt(s.Pos)
	if err != nil {
		return err
	}
	return i.connectCoax(s.Machine, s.Coax, pos, s.Loc)
}

// execAssignCoax подключает машину к ближайшей допустимой позиции,
// начиная с нулевой.
func (i *Interpreter) execAssignCoax(s *ast.AssignCoax) error {
	c, ok := i.env.coaxials[s.Coax]
	if !ok {
		return newRuntimeError(s.Loc, "coaxial '%s' not found", s.Coax)
	}
	pos, ok := c.nextFreePos()
	if !ok {
		return newRuntimeError(s.Loc, "coaxial '%s' is full", s.Coax)
	}
	return i.connectCoax(s.Machine, s.Coax, pos, s.Loc)
}

func (i *Interpreter) connectCoax(machine, coax string, pos int32, loc ast.Location) error {
	m, ok := i.env.machines[machine]
	if !ok {
		return newRuntimeError(loc, "machine '%s' not found", machine)
	}
	c, ok := i.env.coaxials[coax]
	if !ok {
		return newRuntimeError(loc, "coaxial '%s' not found", coax)
	}

	if !m.Placed {
		return newRuntimeError(loc, "machine '%s' is not placed", machine)
	}
	if !c.Placed {
		return newRuntimeError(loc, "coaxial '%s' is not placed", coax)
	}
	if m.Conn != nil {
		return newRuntimeError(loc, "machine '%s' is already connected", machine)
	}
	if pos < 0 || pos > c.Length {
		return newRuntimeError(loc, "position %d is out of range 0..%d of coaxial '%s'", pos, c.Length, coax)
	}
	if c.collides(pos) {
		return newRuntimeError(loc, "position %d is closer than %d to another device on coaxial '%s'",
			pos, MinSpacing, coax)
	}

	c.attach(machine, pos)
	m.Conn = &Connection{Kind: ConnCoax, Coax: coax, Pos: pos}
	return nil
}

func (i *Interpreter) execWrite(s *ast.Write) error {
	v, err := i.eval(s.Value)
	if err != nil {
		return err
	}
	i.env.write(v.Render())
	return nil
}

func (i *Interpreter) execIf(s *ast.If) error {
	v, err := i.eval(s.Cond)
	if err != nil {
		return err
	}
	cond, ok := v.AsBool()
	if !ok {
		return newRuntimeError(s.Cond.Location(), "condition is not a boolean")
	}

	if cond {
		return i.execAll(s.Then)
	}
	return i.execAll(s.Else)
}

// execModuleCall исполняет тело модуля над общим состоянием топологии.
func (i *Interpreter) execModuleCall(s *ast.ModuleCall) error {
	body, ok := i.env.modules[s.Name]
	if !ok {
		return newRuntimeError(s.Loc, "module '%s' not found", s.Name)
	}
	return i.execAll(body)
}

// ========== Вычисление выражений ==========

func (i *Interpreter) evalInt(e ast.Expr) (int32, error) {
	v, err := i.eval(e)
	if err != nil {
		return 0, err
	}
	n, ok := v.AsInt()
	if !ok {
		return 0, newRuntimeError(e.Location(), "value is not an integer")
	}
	return n, nil
}

func (i *Interpreter) eval(e ast.Expr) (Value, error) {
	switch expr := e.(type) {
	case *ast.Number:
		return IntValue(expr.Value), nil

	case *ast.String:
		return StringValue(expr.Value), nil

	case *ast.Ident:
		return Value{}, newRuntimeError(expr.Loc,
			"identifier '%s' can not be evaluated as a value", expr.Name)

	case *ast.FieldAccess:
		return i.evalField(expr)

	case *ast.IndexAccess:
		return i.evalIndex(expr)

	case *ast.Rel:
		return i.evalRel(expr)

	case *ast.Logic:
		return i.evalLogic(expr)

	case *ast.Not:
		v, err := i.eval(expr.Value)
		if err != nil {
			return Value{}, err
		}
		b, ok := v.AsBool()
		if !ok {
			return Value{}, newRuntimeError(expr.Loc, "operand of '!' is not a boolean")
		}
		return BoolValue(!b), nil

	default:
		return Value{}, newRuntimeError(e.Location(), "unsupported expression")
	}
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// evalField читает атрибут устройства из состояния топологии.
func (i *Interpreter) evalField(expr *ast.FieldAccess) (Value, error) {
	if m, ok := i.env.machines[expr.Object]; ok {
		if expr.Field == "presente" {
			return IntValue(boolToInt(m.Placed)), nil
		}
		return Value{}, newRuntimeError(expr.Loc, "field '%s' is not valid for machine '%s'",
			expr.Field, expr.Object)
	}

	if h, ok := i.env.hubs[expr.Object]; ok {
		switch expr.Field {
		case "presente":
			return IntValue(boolToInt(h.Placed)), nil
		case "coaxial":
			return IntValue(boolToInt(h.HasTap)), nil
		case "puertos":
			return IntValue(h.Ports), nil
		case "disponibles":
			return IntValue(h.Available), nil
		default:
			return Value{}, newRuntimeError(expr.Loc, "field '%s' is not valid for hub '%s'",
				expr.Field, expr.Object)
		}
	}

	if c, ok := i.env.coaxials[expr.Object]; ok {
		switch expr.Field {
		case "presente":
			return IntValue(boolToInt(c.Placed)), nil
		case "completo":
			return IntValue(boolToInt(c.full())), nil
		case "longitud":
			return IntValue(c.Length), nil
		case "num":
			return IntValue(int32(len(c.Attachments))), nil
		default:
			return Value{}, newRuntimeError(expr.Loc, "field '%s' is not valid for coaxial '%s'",
				expr.Field, expr.Object)
		}
	}

	return Value{}, newRuntimeError(expr.Loc, "object '%s' not found", expr.Object)
}

// evalIndex читает занятость порта: hub.p[i] равно 1,
// если порт i занят, и 0 иначе.
func (i *Interpreter) evalIndex(expr *ast.IndexAccess) (Value, error) {
	h, ok := i.env.hubs[expr.Object]
	if !ok || expr.Field != "p" {
		return Value{}, newRuntimeError(expr.Loc, "invalid index access on '%s'", expr.Object)
	}

	idx, err := i.evalInt(expr.Index)
	if err != nil {
		return Value{}, err
	}
	if idx < 1 || idx > h.Ports {
		return Value{}, newRuntimeError(expr.Loc, "port index %d is out of range 1..%d of hub '%s'",
			idx, h.Ports, expr.Object)
	}
	return IntValue(boolToInt(h.Occupied[idx-1])), nil
}

func (i *Interpreter) evalRel(expr *ast.Rel) (Value, error) {
	left, err := i.eval(expr.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := i.eval(expr.Right)
	if err != nil {
		return Value{}, err
	}

	if l, ok := left.AsInt(); ok {
		if r, ok := right.AsInt(); ok {
			return BoolValue(compareInts(l, expr.Op, r)), nil
		}
	}
	if left.Kind() == ValueString && right.Kind() == ValueString {
		switch expr.Op {
		case ast.OpEqual:
			return BoolValue(left.Render() == right.Render()), nil
		case ast.OpNotEqual:
			return BoolValue(left.Render() != right.Render()), nil
		}
	}

	return Value{}, newRuntimeError(expr.Loc, "operands of '%s' are not comparable", expr.Op)
}

func compareInts(l int32, op ast.RelOp, r int32) bool {
	switch op {
	case ast.OpEqual:
		return l == r
	case ast.OpNotEqual:
		return l != r
	case ast.OpLess:
		return l < r
	case ast.OpGreater:
		return l > r
	case ast.OpLessEqual:
		return l <= r
	default:
		return l >= r
	}
}

// evalLogic вычисляет логическую связку. Правый операнд
// не вычисляется, если результат определен левым.
func (i *Interpreter) evalLogic(expr *ast.Logic) (Value, error) {
	left, err := i.eval(expr.Left)
	if err != nil {
		return Value{}, err
	}
	l, ok := left.AsBool()
	if !ok {
		return Value{}, newRuntimeError(expr.Loc, "operand of '%s' is not a boolean", expr.Op)
	}

	if expr.Op == ast.OpAnd && !l {
		return BoolValue(false), nil
	}
	if expr.Op == ast.OpOr && l {
		return BoolValue(true), nil
	}

	right, err := i.eval(expr.Right)
	if err != nil {
		return Value{}, err
	}
	r, ok := right.AsBool()
	if !ok {
		return Value{}, newRuntimeError(expr.Loc, "operand of '%s' is not a boolean", expr.Op)
	}
	return BoolValue(r), nil
}
