package token

import "fmt"

// Position задает координаты кодовой точки в исходном тексте.
type Position struct {
	Line   int
	Column int
}

// Kind представляет лексический домен токена.
type Kind int

// Список лексических доменов языка описания сетей.
const (
	Unknown Kind = iota

	// Ключевые слова.
	Programa
	Define
	Maquinas
	Concentradores
	Coaxial
	Segmento
	Modulo
	Inicio
	Fin
	Si
	Sino

	// Операции языка.
	Coloca
	ColocaCoaxial
	ColocaCoaxialConcentrador
	UneMaquinaPuerto
	AsignaPuerto
	MaquinaCoaxial
	AsignaMaquinaCoaxial
	Escribe

	// Направления.
	Arriba
	Abajo
	Izquierda
	Derecha

	// Операторы сравнения.
	Equal
	Less
	Greater
	LessEqual
	GreaterEqual
	NotEqual

	// Логические операторы.
	And
	Or
	Not

	// Разделители.
	Comma
	Semicolon
	Dot
	LParen
	RParen
	LBracket
	RBracket

	// Литералы.
	Identifier
	Number
	String

	// Игнорируемые домены и конец файла.
	Whitespace
	Comment
	EOF
)

var kindNames = map[Kind]string{
	Programa:                  "PROGRAMA",
	Define:                    "DEFINE",
	Maquinas:                  "MAQUINAS",
	Concentradores:            "CONCENTRADORES",
	Coaxial:                   "COAXIAL",
	Segmento:                  "SEGMENTO",
	Modulo:                    "MODULO",
	Inicio:                    "INICIO",
	Fin:                       "FIN",
	Si:                        "SI",
	Sino:                      "SINO",
	Coloca:                    "COLOCA",
	ColocaCoaxial:             "COLOCA_COAXIAL",
	ColocaCoaxialConcentrador: "COLOCA_COAXIAL_CONCENTRADOR",
	UneMaquinaPuerto:          "UNE_MAQUINA_PUERTO",
	AsignaPuerto:              "ASIGNA_PUERTO",
	MaquinaCoaxial:            "MAQUINA_COAXIAL",
	AsignaMaquinaCoaxial:      "ASIGNA_MAQUINA_COAXIAL",
	Escribe:                   "ESCRIBE",
	Arriba:                    "ARRIBA",
	Abajo:                     "ABAJO",
	Izquierda:                 "IZQUIERDA",
	Derecha:                   "DERECHA",
	Equal:                     "EQUAL",
	Less:                      "LESS",
	Greater:                   "GREATER",
	LessEqual:                 "LESS_EQUAL",
	GreaterEqual:              "GREATER_EQUAL",
	NotEqual:                  "NOT_EQUAL",
	And:                       "AND",
	Or:                        "OR",
	Not:                       "NOT",
	Comma:                     "COMMA",
	Semicolon:                 "SEMICOLON",
	Dot:                       "DOT",
	LParen:                    "LPAREN",
	RParen:                    "RPAREN",
	LBracket:                  "LBRACKET",
	RBracket:                  "RBRACKET",
	Identifier:                "IDENTIFIER",
	Number:                    "NUMBER",
	String:                    "STRING",
	Whitespace:                "WHITESPACE",
	Comment:                   "COMMENT",
	EOF:                       "EOF",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, n := range kindNames {
		m[n] = k
	}
	return m
}()

func (k Kind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return "UNKNOWN"
}

// KindByName возвращает домен по его текстовому тегу,
// который используется в конфигурационных файлах.
func KindByName(name string) (Kind, bool) {
	k, ok := kindsByName[name]
	return k, ok
}

// IsIgnored сообщает, должен ли токен этого домена
// отбрасываться до синтаксического анализа.
func (k Kind) IsIgnored() bool {
	return k == Whitespace || k == Comment
}

// Token лексема исходного текста вместе с координатами начала.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
	Column int
}

// New создает токен с заданными координатами.
func New(kind Kind, lexeme string, line, column int) Token {
	return Token{
		Kind:   kind,
		Lexeme: lexeme,
		Line:   line,
		Column: column,
	}
}

// NewEOF создает синтетический токен конца файла.
func NewEOF(line, column int) Token {
	return Token{
		Kind:   EOF,
		Line:   line,
		Column: column,
	}
}

func (t Token) String() string {
	return fmt.Sprintf("%s '%s' at %d:%d", t.Kind, t.Lexeme, t.Line, t.Column)
}
