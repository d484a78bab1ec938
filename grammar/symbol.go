package grammar

import "github.com/GDVFox/rednet/token"

// NonTerminal нетерминал грамматики языка описания сетей.
type NonTerminal int

// Нетерминалы грамматики. Имена повторяют формальное описание,
// штрих кодируется суффиксом Prime.
const (
	NTPrograma NonTerminal = iota
	NTDefiniciones
	NTDefSeccion
	NTDefCuerpo
	NTTipoCoaxial
	NTListaMaquinas
	NTListaMaquinasPrime
	NTListaConcentradores
	NTListaConcentradoresPrime
	NTDeclConcentrador
	NTOpcionCoaxial
	NTListaCoaxiales
	NTListaCoaxialesPrime
	NTDeclCoaxial
	NTModulos
	NTModulo
	NTBloqueInicio
	NTSentencias
	NTSentencia
	NTSentenciaColoca
	NTSentenciaColocaCoaxial
	NTSentenciaColocaCoaxialConcentrador
	NTSentenciaUneMaquinaPuerto
	NTSentenciaAsignaPuerto
	NTSentenciaMaquinaCoaxial
	NTSentenciaAsignaMaquinaCoaxial
	NTSentenciaEscribe
	NTSentenciaSi
	NTOpcionSino
	NTLlamadaModulo
	NTDireccion
	NTExpresion
	NTExpresionOr
	NTExpresionOrPrime
	NTExpresionAnd
	NTExpresionAndPrime
	NTExpresionRelacional
	NTOpRelacional
	NTOperadorRelacional
	NTExpresionNot
	NTExpresionPrimaria
	NTAccesos
	NTAccesoCampo
	NTAccesoArreglo
	NTFieldName

	nonTerminalCount
)

var nonTerminalNames = map[NonTerminal]string{
	NTPrograma:                           "Programa",
	NTDefiniciones:                       "Definiciones",
	NTDefSeccion:                         "DefSeccion",
	NTDefCuerpo:                          "DefCuerpo",
	NTTipoCoaxial:                        "TipoCoaxial",
	NTListaMaquinas:                      "ListaMaquinas",
	NTListaMaquinasPrime:                 "ListaMaquinas'",
	NTListaConcentradores:                "ListaConcentradores",
	NTListaConcentradoresPrime:           "ListaConcentradores'",
	NTDeclConcentrador:                   "DeclConcentrador",
	NTOpcionCoaxial:                      "OpcionCoaxial",
	NTListaCoaxiales:                     "ListaCoaxiales",
	NTListaCoaxialesPrime:                "ListaCoaxiales'",
	NTDeclCoaxial:                        "DeclCoaxial",
	NTModulos:                            "Modulos",
	NTModulo:                             "Modulo",
	NTBloqueInicio:                       "BloqueInicio",
	NTSentencias:                         "Sentencias",
	NTSentencia:                          "Sentencia",
	NTSentenciaColoca:                    "SentenciaColoca",
	NTSentenciaColocaCoaxial:             "SentenciaColocaCoaxial",
	NTSentenciaColocaCoaxialConcentrador: "SentenciaColocaCoaxialConcentrador",
	NTSentenciaUneMaquinaPuerto:          "SentenciaUneMaquinaPuerto",
	NTSentenciaAsignaPuerto:              "SentenciaAsignaPuerto",
	NTSentenciaMaquinaCoaxial:            "SentenciaMaquinaCoaxial",
	NTSentenciaAsignaMaquinaCoaxial:      "SentenciaAsignaMaquinaCoaxial",
	NTSentenciaEscribe:                   "SentenciaEscribe",
	NTSentenciaSi:                        "SentenciaSi",
	NTOpcionSino:                         "OpcionSino",
	NTLlamadaModulo:                      "LlamadaModulo",
	NTDireccion:                          "Direccion",
	NTExpresion:                          "Expresion",
	NTExpresionOr:                        "ExpresionOr",
	NTExpresionOrPrime:                   "ExpresionOr'",
	NTExpresionAnd:                       "ExpresionAnd",
	NTExpresionAndPrime:                  "ExpresionAnd'",
	NTExpresionRelacional:                "ExpresionRelacional",
	NTOpRelacional:                       "OpRelacional",
	NTOperadorRelacional:                 "OperadorRelacional",
	NTExpresionNot:                       "ExpresionNot",
	NTExpresionPrimaria:                  "ExpresionPrimaria",
	NTAccesos:                            "Accesos",
	NTAccesoCampo:                        "AccesoCampo",
	NTAccesoArreglo:                      "AccesoArreglo",
	NTFieldName:                          "FieldName",
}

var nonTerminalsByName = func() map[string]NonTerminal {
	m := make(map[string]NonTerminal, len(nonTerminalNames))
	for nt, n := range nonTerminalNames {
		m[n] = nt
	}
	return m
}()

func (n NonTerminal) String() string {
	if s, ok := nonTerminalNames[n]; ok {
		return s
	}
	return "?"
}

// NonTerminalByName возвращает нетерминал по имени из табличного файла.
func NonTerminalByName(name string) (NonTerminal, bool) {
	nt, ok := nonTerminalsByName[name]
	return nt, ok
}

// SymbolKind вид грамматического символа.
type SymbolKind int

// Виды символов: терминальный класс, нетерминал и пустая цепочка.
const (
	SymbolTerminal SymbolKind = iota
	SymbolNonTerminal
	SymbolEpsilon
)

// Symbol символ правой части продукции. Конец входа представляется
// терминалом класса EOF.
type Symbol struct {
	Kind SymbolKind
	T    token.Kind
	N    NonTerminal
}

// T создает терминальный символ.
func T(kind token.Kind) Symbol {
	return Symbol{Kind: SymbolTerminal, T: kind}
}

// N создает нетерминальный символ.
func N(nt NonTerminal) Symbol {
	return Symbol{Kind: SymbolNonTerminal, N: nt}
}

// Epsilon создает символ пустой цепочки.
func Epsilon() Symbol {
	return Symbol{Kind: SymbolEpsilon}
}

func (s Symbol) String() string {
	switch s.Kind {
	case SymbolTerminal:
		return s.T.String()
	case SymbolNonTerminal:
		return s.N.String()
	default:
		return "EPSILON"
	}
}

// Production продукция грамматики.
type Production struct {
	ID  int
	LHS NonTerminal
	RHS []Symbol
}

// IsEpsilon сообщает, выводит ли продукция пустую цепочку.
func (p *Production) IsEpsilon() bool {
	return len(p.RHS) == 1 && p.RHS[0].Kind == SymbolEpsilon
}
