package semantic

import "github.com/GDVFox/rednet/ast"

// Правила длины коаксиального кабеля.
const (
	MinCoaxLength int32 = 3
	MaxCoaxLength int32 = 500
)

// Options параметры семантического анализа.
type Options struct {
	// StrictPorts включает строгое правило Ethernet для числа портов
	// концентратора: допустимы только 4, 8 и 16.
	StrictPorts bool
}

// Допустимые размеры концентратора в строгом режиме.
var strictHubPorts = map[int32]bool{4: true, 8: true, 16: true}

// Analyzer однопроходный семантический анализатор.
// Первая обнаруженная ошибка прерывает анализ.
type Analyzer struct {
	table *SymbolTable
	opts  Options
}

// NewAnalyzer создает анализатор с заданными параметрами.
func NewAnalyzer(opts Options) *Analyzer {
	return &Analyzer{table: NewSymbolTable(), opts: opts}
}

// Analyze проверяет программу с параметрами по-умолчанию.
func Analyze(prog *ast.Program) (*SymbolTable, error) {
	return NewAnalyzer(Options{}).Analyze(prog)
}

// Analyze строит таблицу символов и проверяет программу.
// Модули анализируются в порядке объявления, ссылка на модуль
// допустима только после его определения.
func (a *Analyzer) Analyze(prog *ast.Program) (*SymbolTable, error) {
	for _, m := range prog.Defs.Machines {
		if err := a.table.defineMachine(m); err != nil {
			return nil, err
		}
	}
	for _, h := range prog.Defs.Hubs {
		if a.opts.StrictPorts && !strictHubPorts[h.Ports] {
			return nil, newError(h.Loc, "hub '%s' has %d ports, allowed sizes are 4, 8 and 16",
				h.Name, h.Ports)
		}
		if err := a.table.defineHub(h); err != nil {
			return nil, err
		}
	}
	for _, c := range prog.Defs.Coaxials {
		if err := a.table.defineCoax(c); err != nil {
			return nil, err
		}
	}

	for _, m := range prog.Modules {
		for _, stmt := range m.Body {
			if err := a.checkStatement(stmt); err != nil {
				return nil, err
			}
		}
		// Модуль регистрируется после проверки тела: ссылки вперед
		// и на самого себя запрещены.
		if err := a.table.defineModule(m); err != nil {
			return nil, err
		}
	}

	for _, stmt := range prog.Body {
		if err := a.checkStatement(stmt); err != nil {
			return nil, err
		}
	}

	return a.table, nil
}

func (a *Analyzer) checkStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.Place:
		if a.table.KindOf(s.Object) == TypeUnknown {
			return newError(s.Loc, "object '%s' is not declared", s.Object)
		}
		if err := a.checkExpr(s.X, TypeInt); err != nil {
			return err
		}
		return a.checkExpr(s.Y, TypeInt)

	case *ast.PlaceCoax:
		if err := a.requireCoax(s.Coax, s.Loc); err != nil {
			return err
		}
		if err := a.checkExpr(s.X, TypeInt); err != nil {
			return err
		}
		return a.checkExpr(s.Y, TypeInt)

	case *ast.HubCoax:
		if err := a.requireCoax(s.Coax, s.Loc); err != nil {
			return err
		}
		hub, ok := a.table.Hubs[s.Hub]
		if !ok {
			return newError(s.Loc, "hub '%s' is not declared", s.Hub)
		}
		if !hub.HasTap {
			return newError(s.Loc, "hub '%s' has no coaxial tap", s.Hub)
		}
		return nil

	case *ast.HubConnect:
		if err := a.requireConnectable(s.Machine, s.Loc); err != nil {
			return err
		}
		if err := a.requireHub(s.Hub, s.Loc); err != nil {
			return err
		}
		return a.checkExpr(s.Port, TypeInt)

	case *ast.AssignPort:
		if err := a.requireConnectable(s.Machine, s.Loc); err != nil {
			return err
		}
		return a.requireHub(s.Hub, s.Loc)

	case *ast.CoaxConnect:
		if err := a.requireMachine(s.Machine, s.Loc); err != nil {
			return err
		}
		if err := a.requireCoax(s.Coax, s.Loc); err != nil {
			return err
		}
		return a.checkExpr(s.Pos, TypeInt)

	case *ast.AssignCoax:
		if err := a.requireMachine(s.Machine, s.Loc); err != nil {
			return err
		}
		return a.requireCoax(s.Coax, s.Loc)

	case *ast.Write:
		_, err := a.inferType(s.Value)
		return err

	case *ast.If:
		if err := a.checkExpr(s.Cond, TypeBool); err != nil {
			return err
		}
		for _, inner := range s.Then {
			if err := a.checkStatement(inner); err != nil {
				return err
			}
		}
		for _, inner := range s.Else {
			if err := a.checkStatement(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.ModuleCall:
		if _, ok := a.table.Modules[s.Name]; !ok {
			return newError(s.Loc, "module '%s' is not defined", s.Name)
		}
		return nil

	default:
		return newError(stmt.Location(), "unsupported statement")
	}
}

func (a *Analyzer) requireMachine(name string, loc ast.Location) error {
	if _, ok := a.table.Machines[name]; !ok {
		return newError(loc, "machine '%s' is not declared", name)
	}
	return nil
}

func (a *Analyzer) requireHub(name string, loc ast.Location) error {
	if _, ok := a.table.Hubs[name]; !ok {
		return newError(loc, "hub '%s' is not declared", name)
	}
	return nil
}

func (a *Analyzer) requireCoax(name string, loc ast.Location) error {
	if _, ok := a.table.Coaxials[name]; !ok {
		return newError(loc, "coaxial '%s' is not declared", name)
	}
	return nil
}

// requireConnectable проверяет первый аргумент подключения к порту:
// обычно это машина, но допускается каскад концентраторов и
// подключение коаксиального кабеля.
func (a *Analyzer) requireConnectable(name string, loc ast.Location) error {
	if a.table.KindOf(name) == TypeUnknown {
		return newError(loc, "'%s' is not declared as a machine, hub or coaxial", name)
	}
	return nil
}

// checkExpr проверяет, что тип выражения совместим с ожидаемым.
func (a *Analyzer) checkExpr(e ast.Expr, want Type) error {
	got, err := a.inferType(e)
	if err != nil {
		return err
	}
	if !typesCompatible(got, want) {
		return newError(e.Location(), "type mismatch: expected %s, found %s", want, got)
	}
	return nil
}

// inferType выводит тип выражения, проверяя законность обращений
// к атрибутам устройств.
func (a *Analyzer) inferType(e ast.Expr) (Type, error) {
	switch expr := e.(type) {
	case *ast.Number:
		return TypeInt, nil

	case *ast.String:
		return TypeString, nil

	case *ast.Ident:
		kind := a.table.KindOf(expr.Name)
		if kind == TypeUnknown {
			return TypeUnknown, newError(expr.Loc, "identifier '%s' is not declared", expr.Name)
		}
		return kind, nil

	case *ast.FieldAccess:
		return a.inferFieldType(expr)

	case *ast.IndexAccess:
		if expr.Field == "" {
			return TypeUnknown, newError(expr.Loc, "index access requires a field, e.g. %s.p[1]", expr.Object)
		}
		if expr.Field != "p" {
			return TypeUnknown, newError(expr.Loc, "field '%s' of '%s' is not indexable", expr.Field, expr.Object)
		}
		if _, ok := a.table.Hubs[expr.Object]; !ok {
			return TypeUnknown, newError(expr.Loc, "hub '%s' is not declared", expr.Object)
		}
		if err := a.checkExpr(expr.Index, TypeInt); err != nil {
			return TypeUnknown, err
		}
		return TypeInt, nil

	case *ast.Rel:
		left, err := a.inferType(expr.Left)
		if err != nil {
			return TypeUnknown, err
		}
		right, err := a.inferType(expr.Right)
		if err != nil {
			return TypeUnknown, err
		}
		if !comparableTypes(left, right, expr.Op) {
			return TypeUnknown, newError(expr.Loc, "can not compare %s %s %s", left, expr.Op, right)
		}
		return TypeBool, nil

	case *ast.Logic:
		if err := a.checkExpr(expr.Left, TypeBool); err != nil {
			return TypeUnknown, err
		}
		if err := a.checkExpr(expr.Right, TypeBool); err != nil {
			return TypeUnknown, err
		}
		return TypeBool, nil

	case *ast.Not:
		if err := a.checkExpr(expr.Value, TypeBool); err != nil {
			return TypeUnknown, err
		}
		return TypeBool, nil

	default:
		return TypeUnknown, newError(e.Location(), "unsupported expression")
	}
}

// Допустимые атрибуты устройств по видам.
var (
	machineFields = map[string]Type{
		"presente": TypeInt,
	}
	hubFields = map[string]Type{
		"presente":    TypeInt,
		"coaxial":     TypeInt,
		"puertos":     TypeInt,
		"disponibles": TypeInt,
	}
	coaxFields = map[string]Type{
		"presente": TypeInt,
		"completo": TypeInt,
		"longitud": TypeInt,
		"num":      TypeInt,
	}
)

func (a *Analyzer) inferFieldType(expr *ast.FieldAccess) (Type, error) {
	var fields map[string]Type
	switch a.table.KindOf(expr.Object) {
	case TypeMachine:
		fields = machineFields
	case TypeHub:
		fields = hubFields
	case TypeCoax:
		fields = coaxFields
	default:
		return TypeUnknown, newError(expr.Loc, "object '%s' is not declared", expr.Object)
	}

	t, ok := fields[expr.Field]
	if !ok {
		return TypeUnknown, newError(expr.Loc, "field '%s' is not a legal attribute of '%s'",
			expr.Field, expr.Object)
	}
	return t, nil
}

// typesCompatible проверяет совместимость типов: Int и Bool
// взаимно заменяемы, прочие требуют точного совпадения.
func typesCompatible(got, want Type) bool {
	if got == want {
		return true
	}
	if got == TypeInt && want == TypeBool {
		return true
	}
	if got == TypeBool && want == TypeInt {
		return true
	}
	return false
}

// comparableTypes проверяет законность сравнения двух типов.
// Строки сравниваются только на равенство и неравенство.
func comparableTypes(left, right Type, op ast.RelOp) bool {
	if typesCompatible(left, TypeInt) && typesCompatible(right, TypeInt) {
		return true
	}
	if left == TypeString && right == TypeString {
		return op == ast.OpEqual || op == ast.OpNotEqual
	}
	return false
}
