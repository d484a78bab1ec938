package parser

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/GDVFox/rednet/ast"
	"github.com/GDVFox/rednet/token"
)

// Возможные ошибки построения дерева. Построитель запускается после
// предиктивной проверки, поэтому любое несовпадение считается
// нарушением внутреннего инварианта.
var (
	ErrInternal  = errors.New("internal parser error")
	ErrBadNumber = errors.New("number out of range")
)

// Builder рекурсивный построитель дерева разбора по цепочке токенов.
type Builder struct {
	tokens []token.Token
	pos    int
	sym    token.Token
}

// NewBuilder создает построитель над цепочкой токенов,
// завершающейся токеном EOF.
func NewBuilder(tokens []token.Token) *Builder {
	b := &Builder{tokens: tokens}
	b.sym = b.tokens[0]
	return b
}

// Build строит дерево разбора программы.
func (b *Builder) Build() (*ast.Program, error) {
	prog, err := b.parseProgram()
	if err != nil {
		return nil, err
	}
	if b.sym.Kind != token.EOF {
		return nil, b.tokenError()
	}
	return prog, nil
}

func (b *Builder) next() {
	if b.pos+1 < len(b.tokens) {
		b.pos++
		b.sym = b.tokens[b.pos]
	}
}

func (b *Builder) expect(kind token.Kind) (token.Token, error) {
	if b.sym.Kind != kind {
		return token.Token{}, b.tokenError()
	}
	t := b.sym
	b.next()
	return t, nil
}

func (b *Builder) tokenError() error {
	return errors.Wrapf(ErrInternal, "unexpected token %s", b.sym)
}

// parseProgram разбирает
// PROGRAMA IDENTIFIER ; Definiciones Modulos BloqueInicio .
func (b *Builder) parseProgram() (*ast.Program, error) {
	loc := ast.LocationOf(b.sym)
	if _, err := b.expect(token.Programa); err != nil {
		return nil, err
	}
	name, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Semicolon); err != nil {
		return nil, err
	}

	defs, err := b.parseDefs()
	if err != nil {
		return nil, err
	}

	modules := make([]*ast.Module, 0)
	for b.sym.Kind == token.Modulo {
		m, err := b.parseModule()
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	body, err := b.parseBlock()
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Dot); err != nil {
		return nil, err
	}

	return &ast.Program{
		Name:    name.Lexeme,
		Defs:    defs,
		Modules: modules,
		Body:    body,
		Loc:     loc,
	}, nil
}

// parseDefs разбирает последовательность секций определений.
// Вид секции различается токеном после DEFINE, повторные секции
// одного вида дописывают объявления к уже накопленным.
func (b *Builder) parseDefs() (ast.Defs, error) {
	defs := ast.Defs{}

	for b.sym.Kind == token.Define {
		b.next()

		switch b.sym.Kind {
		case token.Maquinas:
			b.next()
			for {
				id, err := b.expect(token.Identifier)
				if err != nil {
					return defs, err
				}
				defs.Machines = append(defs.Machines, &ast.MachineDecl{
					Name: id.Lexeme,
					Loc:  ast.LocationOf(id),
				})
				if b.sym.Kind != token.Comma {
					break
				}
				b.next()
			}

		case token.Concentradores:
			b.next()
			for {
				decl, err := b.parseHubDecl()
				if err != nil {
					return defs, err
				}
				defs.Hubs = append(defs.Hubs, decl)
				if b.sym.Kind != token.Comma {
					break
				}
				b.next()
			}

		case token.Coaxial:
			b.next()
			for {
				decl, err := b.parseCoaxialDecl()
				if err != nil {
					return defs, err
				}
				defs.Coaxials = append(defs.Coaxials, decl)
				if b.sym.Kind != token.Comma {
					break
				}
				b.next()
			}

		default:
			return defs, b.tokenError()
		}

		if _, err := b.expect(token.Semicolon); err != nil {
			return defs, err
		}
	}

	return defs, nil
}

// parseHubDecl разбирает IDENTIFIER = NUMBER ['.' NUMBER].
// Суффикс после точки помечает коаксиальный выход.
func (b *Builder) parseHubDecl() (*ast.HubDecl, error) {
	id, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Equal); err != nil {
		return nil, err
	}
	ports, err := b.parseNumberToken()
	if err != nil {
		return nil, err
	}

	hasTap := false
	if b.sym.Kind == token.Dot {
		b.next()
		if _, err := b.parseNumberToken(); err != nil {
			return nil, err
		}
		hasTap = true
	}

	return &ast.HubDecl{
		Name:   id.Lexeme,
		Ports:  ports,
		HasTap: hasTap,
		Loc:    ast.LocationOf(id),
	}, nil
}

// parseCoaxialDecl разбирает IDENTIFIER = NUMBER.
func (b *Builder) parseCoaxialDecl() (*ast.CoaxialDecl, error) {
	id, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Equal); err != nil {
		return nil, err
	}
	length, err := b.parseNumberToken()
	if err != nil {
		return nil, err
	}
	return &ast.CoaxialDecl{
		Name:   id.Lexeme,
		Length: length,
		Loc:    ast.LocationOf(id),
	}, nil
}

func (b *Builder) parseNumberToken() (int32, error) {
	t, err := b.expect(token.Number)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(t.Lexeme, 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrBadNumber, "at line %d, col %d: '%s'", t.Line, t.Column, t.Lexeme)
	}
	return int32(n), nil
}

// parseModule разбирает MODULO IDENTIFIER ; BloqueInicio.
func (b *Builder) parseModule() (*ast.Module, error) {
	loc := ast.LocationOf(b.sym)
	if _, err := b.expect(token.Modulo); err != nil {
		return nil, err
	}
	name, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Semicolon); err != nil {
		return nil, err
	}
	body, err := b.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.Module{
		Name: name.Lexeme,
		Body: body,
		Loc:  loc,
	}, nil
}

// parseBlock разбирает INICIO Sentencias FIN.
func (b *Builder) parseBlock() ([]ast.Statement, error) {
	if _, err := b.expect(token.Inicio); err != nil {
		return nil, err
	}
	stmts, err := b.parseStatements()
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Fin); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (b *Builder) parseStatements() ([]ast.Statement, error) {
	stmts := make([]ast.Statement, 0)
	for {
		switch b.sym.Kind {
		case token.Coloca, token.ColocaCoaxial, token.ColocaCoaxialConcentrador,
			token.UneMaquinaPuerto, token.AsignaPuerto, token.MaquinaCoaxial,
			token.AsignaMaquinaCoaxial, token.Escribe, token.Si, token.Identifier:
			stmt, err := b.parseStatement()
			if err != nil {
				return nil, err
			}
			stmts = append(stmts, stmt)
		default:
			return stmts, nil
		}
	}
}

func (b *Builder) parseStatement() (ast.Statement, error) {
	switch b.sym.Kind {
	case token.Coloca:
		return b.parsePlace()
	case token.ColocaCoaxial:
		return b.parsePlaceCoax()
	case token.ColocaCoaxialConcentrador:
		return b.parseHubCoax()
	case token.UneMaquinaPuerto:
		return b.parseHubConnect()
	case token.AsignaPuerto:
		return b.parseAssignPort()
	case token.MaquinaCoaxial:
		return b.parseCoaxConnect()
	case token.AsignaMaquinaCoaxial:
		return b.parseAssignCoax()
	case token.Escribe:
		return b.parseWrite()
	case token.Si:
		return b.parseIf()
	case token.Identifier:
		return b.parseModuleCall()
	default:
		return nil, b.tokenError()
	}
}

// parseCallHead пропускает ключевое слово оператора и открывающую скобку,
// возвращая координаты оператора.
func (b *Builder) parseCallHead(kind token.Kind) (ast.Location, error) {
	loc := ast.LocationOf(b.sym)
	if _, err := b.expect(kind); err != nil {
		return loc, err
	}
	_, err := b.expect(token.LParen)
	return loc, err
}

// parseCallTail пропускает закрывающую скобку и точку с запятой.
func (b *Builder) parseCallTail() error {
	if _, err := b.expect(token.RParen); err != nil {
		return err
	}
	_, err := b.expect(token.Semicolon)
	return err
}

func (b *Builder) parsePlace() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.Coloca)
	if err != nil {
		return nil, err
	}
	id, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	x, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	y, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.Place{Object: id.Lexeme, X: x, Y: y, Loc: loc}, nil
}

func (b *Builder) parsePlaceCoax() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.ColocaCoaxial)
	if err != nil {
		return nil, err
	}
	id, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	x, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	y, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	dir, err := b.parseDirection()
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.PlaceCoax{Coax: id.Lexeme, X: x, Y: y, Dir: dir, Loc: loc}, nil
}

func (b *Builder) parseHubCoax() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.ColocaCoaxialConcentrador)
	if err != nil {
		return nil, err
	}
	coax, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	hub, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.HubCoax{Coax: coax.Lexeme, Hub: hub.Lexeme, Loc: loc}, nil
}

func (b *Builder) parseHubConnect() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.UneMaquinaPuerto)
	if err != nil {
		return nil, err
	}
	machine, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	hub, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	port, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.HubConnect{Machine: machine.Lexeme, Hub: hub.Lexeme, Port: port, Loc: loc}, nil
}

func (b *Builder) parseAssignPort() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.AsignaPuerto)
	if err != nil {
		return nil, err
	}
	machine, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	hub, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.AssignPort{Machine: machine.Lexeme, Hub: hub.Lexeme, Loc: loc}, nil
}

func (b *Builder) parseCoaxConnect() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.MaquinaCoaxial)
	if err != nil {
		return nil, err
	}
	machine, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	coax, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	pos, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.CoaxConnect{Machine: machine.Lexeme, Coax: coax.Lexeme, Pos: pos, Loc: loc}, nil
}

func (b *Builder) parseAssignCoax() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.AsignaMaquinaCoaxial)
	if err != nil {
		return nil, err
	}
	machine, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Comma); err != nil {
		return nil, err
	}
	coax, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.AssignCoax{Machine: machine.Lexeme, Coax: coax.Lexeme, Loc: loc}, nil
}

func (b *Builder) parseWrite() (ast.Statement, error) {
	loc, err := b.parseCallHead(token.Escribe)
	if err != nil {
		return nil, err
	}
	value, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := b.parseCallTail(); err != nil {
		return nil, err
	}
	return &ast.Write{Value: value, Loc: loc}, nil
}

// parseIf разбирает SI Expresion INICIO Sentencias FIN [SINO INICIO Sentencias FIN].
func (b *Builder) parseIf() (ast.Statement, error) {
	loc := ast.LocationOf(b.sym)
	if _, err := b.expect(token.Si); err != nil {
		return nil, err
	}
	cond, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	then, err := b.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseBody []ast.Statement
	if b.sym.Kind == token.Sino {
		b.next()
		elseBody, err = b.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &ast.If{Cond: cond, Then: then, Else: elseBody, Loc: loc}, nil
}

func (b *Builder) parseModuleCall() (ast.Statement, error) {
	name, err := b.expect(token.Identifier)
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.Semicolon); err != nil {
		return nil, err
	}
	return &ast.ModuleCall{Name: name.Lexeme, Loc: ast.LocationOf(name)}, nil
}

func (b *Builder) parseDirection() (ast.Direction, error) {
	var dir ast.Direction
	switch b.sym.Kind {
	case token.Arriba:
		dir = ast.DirUp
	case token.Abajo:
		dir = ast.DirDown
	case token.Izquierda:
		dir = ast.DirLeft
	case token.Derecha:
		dir = ast.DirRight
	default:
		return dir, b.tokenError()
	}
	b.next()
	return dir, nil
}

// ========== Выражения ==========

// parseExpr разбирает дизъюнкцию, левая ассоциативность.
func (b *Builder) parseExpr() (ast.Expr, error) {
	left, err := b.parseAnd()
	if err != nil {
		return nil, err
	}
	for b.sym.Kind == token.Or {
		loc := ast.LocationOf(b.sym)
		b.next()
		right, err := b.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ast.Logic{Left: left, Op: ast.OpOr, Right: right, Loc: loc}
	}
	return left, nil
}

// parseAnd разбирает конъюнкцию.
func (b *Builder) parseAnd() (ast.Expr, error) {
	left, err := b.parseRel()
	if err != nil {
		return nil, err
	}
	for b.sym.Kind == token.And {
		loc := ast.LocationOf(b.sym)
		b.next()
		right, err := b.parseRel()
		if err != nil {
			return nil, err
		}
		left = &ast.Logic{Left: left, Op: ast.OpAnd, Right: right, Loc: loc}
	}
	return left, nil
}

// parseRel разбирает сравнение: операнд и не более одного
// оператора сравнения.
func (b *Builder) parseRel() (ast.Expr, error) {
	left, err := b.parseNot()
	if err != nil {
		return nil, err
	}

	var op ast.RelOp
	switch b.sym.Kind {
	case token.Equal:
		op = ast.OpEqual
	case token.NotEqual:
		op = ast.OpNotEqual
	case token.Less:
		op = ast.OpLess
	case token.Greater:
		op = ast.OpGreater
	case token.LessEqual:
		op = ast.OpLessEqual
	case token.GreaterEqual:
		op = ast.OpGreaterEqual
	default:
		return left, nil
	}

	loc := ast.LocationOf(b.sym)
	b.next()
	right, err := b.parseNot()
	if err != nil {
		return nil, err
	}
	return &ast.Rel{Left: left, Op: op, Right: right, Loc: loc}, nil
}

func (b *Builder) parseNot() (ast.Expr, error) {
	if b.sym.Kind == token.Not {
		loc := ast.LocationOf(b.sym)
		b.next()
		value, err := b.parseNot()
		if err != nil {
			return nil, err
		}
		return &ast.Not{Value: value, Loc: loc}, nil
	}
	return b.parsePrimary()
}

func (b *Builder) parsePrimary() (ast.Expr, error) {
	loc := ast.LocationOf(b.sym)

	switch b.sym.Kind {
	case token.Number:
		value, err := b.parseNumberToken()
		if err != nil {
			return nil, err
		}
		return &ast.Number{Value: value, Loc: loc}, nil

	case token.String:
		t := b.sym
		b.next()
		return &ast.String{Value: unquote(t.Lexeme), Loc: loc}, nil

	case token.LParen:
		b.next()
		e, err := b.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := b.expect(token.RParen); err != nil {
			return nil, err
		}
		return e, nil

	case token.Identifier:
		id := b.sym
		b.next()
		return b.parseAccess(id, loc)

	default:
		return nil, b.tokenError()
	}
}

// parseAccess разбирает необязательный доступ к полю или элементу
// вектора после идентификатора: obj.field, obj.field[idx].
func (b *Builder) parseAccess(id token.Token, loc ast.Location) (ast.Expr, error) {
	if b.sym.Kind == token.LBracket {
		// Грамматика допускает индекс без имени поля, законность
		// такой формы решает семантический анализ.
		b.next()
		idx, err := b.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := b.expect(token.RBracket); err != nil {
			return nil, err
		}
		return &ast.IndexAccess{Object: id.Lexeme, Index: idx, Loc: loc}, nil
	}

	if b.sym.Kind != token.Dot {
		return &ast.Ident{Name: id.Lexeme, Loc: loc}, nil
	}
	b.next()

	field, ok := fieldName(b.sym)
	if !ok {
		return nil, b.tokenError()
	}
	b.next()

	if b.sym.Kind != token.LBracket {
		return &ast.FieldAccess{Object: id.Lexeme, Field: field, Loc: loc}, nil
	}
	b.next()
	idx, err := b.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := b.expect(token.RBracket); err != nil {
		return nil, err
	}
	return &ast.IndexAccess{Object: id.Lexeme, Field: field, Index: idx, Loc: loc}, nil
}

// fieldName возвращает лексему токена, допустимого как имя поля.
// Помимо идентификаторов именем поля может быть замкнутое множество
// ключевых слов, это решается на уровне грамматики нетерминалом FieldName.
func fieldName(t token.Token) (string, bool) {
	switch t.Kind {
	case token.Identifier, token.Coaxial, token.Segmento, token.Maquinas,
		token.Concentradores, token.Derecha, token.Izquierda,
		token.Arriba, token.Abajo, token.Modulo:
		return t.Lexeme, true
	default:
		return "", false
	}
}

// unquote снимает кавычки и обрабатывает экранирования \\, \" и \n.
func unquote(lexeme string) string {
	s := strings.TrimSuffix(strings.TrimPrefix(lexeme, "\""), "\"")
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				b.WriteByte('\n')
			default:
				b.WriteByte(s[i])
			}
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
