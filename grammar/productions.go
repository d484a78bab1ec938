package grammar

import "github.com/GDVFox/rednet/token"

// Grammar грамматика языка вместе со стартовым символом.
type Grammar struct {
	Start       NonTerminal
	Productions []Production

	// disabled перечисляет продукции, которые присутствуют в грамматике,
	// но не устанавливаются в таблицу разбора. Продукция 11 выключена,
	// чтобы зарезервированное слово segmento не принималось в заголовке
	// секции определений, оставаясь допустимым именем поля. Продукция 81
	// дублирует вывод пустой цепочки через обнуляемую альтернативу 80
	// и при автоматическом построении нарушала бы свойство LL(1);
	// язык от ее выключения не меняется.
	disabled map[int]bool
}

// Default возвращает грамматику языка описания сетей.
func Default() *Grammar {
	g := &Grammar{
		Start:    NTPrograma,
		disabled: map[int]bool{11: true, 81: true},
	}

	add := func(id int, lhs NonTerminal, rhs ...Symbol) {
		g.Productions = append(g.Productions, Production{ID: id, LHS: lhs, RHS: rhs})
	}

	// [1] Programa -> PROGRAMA IDENTIFIER ; Definiciones Modulos BloqueInicio .
	add(1, NTPrograma,
		T(token.Programa), T(token.Identifier), T(token.Semicolon),
		N(NTDefiniciones), N(NTModulos), N(NTBloqueInicio), T(token.Dot))

	// Секции определений факторизованы по общему слову DEFINE:
	// вид секции различается следующим токеном, лишнего просмотра
	// вперед не требуется.
	//
	// [2] Definiciones -> DefSeccion Definiciones
	// [3] Definiciones -> EPSILON
	add(2, NTDefiniciones, N(NTDefSeccion), N(NTDefiniciones))
	add(3, NTDefiniciones, Epsilon())

	// [4] DefSeccion -> DEFINE DefCuerpo
	add(4, NTDefSeccion, T(token.Define), N(NTDefCuerpo))

	// [5] DefCuerpo -> MAQUINAS ListaMaquinas ;
	// [6] DefCuerpo -> CONCENTRADORES ListaConcentradores ;
	// [7] DefCuerpo -> TipoCoaxial ListaCoaxiales ;
	add(5, NTDefCuerpo, T(token.Maquinas), N(NTListaMaquinas), T(token.Semicolon))
	add(6, NTDefCuerpo, T(token.Concentradores), N(NTListaConcentradores), T(token.Semicolon))
	add(7, NTDefCuerpo, N(NTTipoCoaxial), N(NTListaCoaxiales), T(token.Semicolon))

	// [10] TipoCoaxial -> COAXIAL
	// [11] TipoCoaxial -> SEGMENTO (не устанавливается в таблицу)
	add(10, NTTipoCoaxial, T(token.Coaxial))
	add(11, NTTipoCoaxial, T(token.Segmento))

	// [12] ListaMaquinas -> IDENTIFIER ListaMaquinas'
	// [13] ListaMaquinas' -> , IDENTIFIER ListaMaquinas'
	// [14] ListaMaquinas' -> EPSILON
	add(12, NTListaMaquinas, T(token.Identifier), N(NTListaMaquinasPrime))
	add(13, NTListaMaquinasPrime, T(token.Comma), T(token.Identifier), N(NTListaMaquinasPrime))
	add(14, NTListaMaquinasPrime, Epsilon())

	// [15] ListaConcentradores -> DeclConcentrador ListaConcentradores'
	// [16] ListaConcentradores' -> , DeclConcentrador ListaConcentradores'
	// [17] ListaConcentradores' -> EPSILON
	add(15, NTListaConcentradores, N(NTDeclConcentrador), N(NTListaConcentradoresPrime))
	add(16, NTListaConcentradoresPrime, T(token.Comma), N(NTDeclConcentrador), N(NTListaConcentradoresPrime))
	add(17, NTListaConcentradoresPrime, Epsilon())

	// [18] DeclConcentrador -> IDENTIFIER = NUMBER OpcionCoaxial
	// [19] OpcionCoaxial -> . NUMBER
	// [20] OpcionCoaxial -> EPSILON
	add(18, NTDeclConcentrador,
		T(token.Identifier), T(token.Equal), T(token.Number), N(NTOpcionCoaxial))
	add(19, NTOpcionCoaxial, T(token.Dot), T(token.Number))
	add(20, NTOpcionCoaxial, Epsilon())

	// [21] ListaCoaxiales -> DeclCoaxial ListaCoaxiales'
	// [22] ListaCoaxiales' -> , DeclCoaxial ListaCoaxiales'
	// [23] ListaCoaxiales' -> EPSILON
	// [24] DeclCoaxial -> IDENTIFIER = NUMBER
	add(21, NTListaCoaxiales, N(NTDeclCoaxial), N(NTListaCoaxialesPrime))
	add(22, NTListaCoaxialesPrime, T(token.Comma), N(NTDeclCoaxial), N(NTListaCoaxialesPrime))
	add(23, NTListaCoaxialesPrime, Epsilon())
	add(24, NTDeclCoaxial, T(token.Identifier), T(token.Equal), T(token.Number))

	// [25] Modulos -> Modulo Modulos
	// [26] Modulos -> EPSILON
	// [27] Modulo -> MODULO IDENTIFIER ; BloqueInicio
	add(25, NTModulos, N(NTModulo), N(NTModulos))
	add(26, NTModulos, Epsilon())
	add(27, NTModulo,
		T(token.Modulo), T(token.Identifier), T(token.Semicolon), N(NTBloqueInicio))

	// [28] BloqueInicio -> INICIO Sentencias FIN
	add(28, NTBloqueInicio, T(token.Inicio), N(NTSentencias), T(token.Fin))

	// [29] Sentencias -> Sentencia Sentencias
	// [30] Sentencias -> EPSILON
	add(29, NTSentencias, N(NTSentencia), N(NTSentencias))
	add(30, NTSentencias, Epsilon())

	// [31-40] Sentencia -> варианты
	add(31, NTSentencia, N(NTSentenciaColoca))
	add(32, NTSentencia, N(NTSentenciaColocaCoaxial))
	add(33, NTSentencia, N(NTSentenciaColocaCoaxialConcentrador))
	add(34, NTSentencia, N(NTSentenciaUneMaquinaPuerto))
	add(35, NTSentencia, N(NTSentenciaAsignaPuerto))
	add(36, NTSentencia, N(NTSentenciaMaquinaCoaxial))
	add(37, NTSentencia, N(NTSentenciaAsignaMaquinaCoaxial))
	add(38, NTSentencia, N(NTSentenciaEscribe))
	add(39, NTSentencia, N(NTSentenciaSi))
	add(40, NTSentencia, N(NTLlamadaModulo))

	// [41] SentenciaColoca -> COLOCA ( IDENTIFIER , Expresion , Expresion ) ;
	add(41, NTSentenciaColoca,
		T(token.Coloca), T(token.LParen), T(token.Identifier), T(token.Comma),
		N(NTExpresion), T(token.Comma), N(NTExpresion),
		T(token.RParen), T(token.Semicolon))

	// [42] SentenciaColocaCoaxial -> COLOCA_COAXIAL ( IDENTIFIER , Expresion , Expresion , Direccion ) ;
	add(42, NTSentenciaColocaCoaxial,
		T(token.ColocaCoaxial), T(token.LParen), T(token.Identifier), T(token.Comma),
		N(NTExpresion), T(token.Comma), N(NTExpresion), T(token.Comma), N(NTDireccion),
		T(token.RParen), T(token.Semicolon))

	// [43] SentenciaColocaCoaxialConcentrador -> COLOCA_COAXIAL_CONCENTRADOR ( IDENTIFIER , IDENTIFIER ) ;
	add(43, NTSentenciaColocaCoaxialConcentrador,
		T(token.ColocaCoaxialConcentrador), T(token.LParen), T(token.Identifier),
		T(token.Comma), T(token.Identifier), T(token.RParen), T(token.Semicolon))

	// [44] SentenciaUneMaquinaPuerto -> UNE_MAQUINA_PUERTO ( IDENTIFIER , IDENTIFIER , Expresion ) ;
	add(44, NTSentenciaUneMaquinaPuerto,
		T(token.UneMaquinaPuerto), T(token.LParen), T(token.Identifier), T(token.Comma),
		T(token.Identifier), T(token.Comma), N(NTExpresion),
		T(token.RParen), T(token.Semicolon))

	// [45] SentenciaAsignaPuerto -> ASIGNA_PUERTO ( IDENTIFIER , IDENTIFIER ) ;
	add(45, NTSentenciaAsignaPuerto,
		T(token.AsignaPuerto), T(token.LParen), T(token.Identifier), T(token.Comma),
		T(token.Identifier), T(token.RParen), T(token.Semicolon))

	// [46] SentenciaMaquinaCoaxial -> MAQUINA_COAXIAL ( IDENTIFIER , IDENTIFIER , Expresion ) ;
	add(46, NTSentenciaMaquinaCoaxial,
		T(token.MaquinaCoaxial), T(token.LParen), T(token.Identifier), T(token.Comma),
		T(token.Identifier), T(token.Comma), N(NTExpresion),
		T(token.RParen), T(token.Semicolon))

	// [47] SentenciaAsignaMaquinaCoaxial -> ASIGNA_MAQUINA_COAXIAL ( IDENTIFIER , IDENTIFIER ) ;
	add(47, NTSentenciaAsignaMaquinaCoaxial,
		T(token.AsignaMaquinaCoaxial), T(token.LParen), T(token.Identifier), T(token.Comma),
		T(token.Identifier), T(token.RParen), T(token.Semicolon))

	// [48] SentenciaEscribe -> ESCRIBE ( Expresion ) ;
	add(48, NTSentenciaEscribe,
		T(token.Escribe), T(token.LParen), N(NTExpresion),
		T(token.RParen), T(token.Semicolon))

	// [49] SentenciaSi -> SI Expresion INICIO Sentencias FIN OpcionSino
	// [50] OpcionSino -> SINO INICIO Sentencias FIN
	// [51] OpcionSino -> EPSILON
	add(49, NTSentenciaSi,
		T(token.Si), N(NTExpresion), T(token.Inicio), N(NTSentencias), T(token.Fin),
		N(NTOpcionSino))
	add(50, NTOpcionSino,
		T(token.Sino), T(token.Inicio), N(NTSentencias), T(token.Fin))
	add(51, NTOpcionSino, Epsilon())

	// [52] LlamadaModulo -> IDENTIFIER ;
	add(52, NTLlamadaModulo, T(token.Identifier), T(token.Semicolon))

	// [53-56] Direccion -> ARRIBA | ABAJO | IZQUIERDA | DERECHA
	add(53, NTDireccion, T(token.Arriba))
	add(54, NTDireccion, T(token.Abajo))
	add(55, NTDireccion, T(token.Izquierda))
	add(56, NTDireccion, T(token.Derecha))

	// [57] Expresion -> ExpresionOr
	add(57, NTExpresion, N(NTExpresionOr))

	// [58] ExpresionOr -> ExpresionAnd ExpresionOr'
	// [59] ExpresionOr' -> OR ExpresionAnd ExpresionOr'
	// [60] ExpresionOr' -> EPSILON
	add(58, NTExpresionOr, N(NTExpresionAnd), N(NTExpresionOrPrime))
	add(59, NTExpresionOrPrime, T(token.Or), N(NTExpresionAnd), N(NTExpresionOrPrime))
	add(60, NTExpresionOrPrime, Epsilon())

	// [61] ExpresionAnd -> ExpresionRelacional ExpresionAnd'
	// [62] ExpresionAnd' -> AND ExpresionRelacional ExpresionAnd'
	// [63] ExpresionAnd' -> EPSILON
	add(61, NTExpresionAnd, N(NTExpresionRelacional), N(NTExpresionAndPrime))
	add(62, NTExpresionAndPrime, T(token.And), N(NTExpresionRelacional), N(NTExpresionAndPrime))
	add(63, NTExpresionAndPrime, Epsilon())

	// [64] ExpresionRelacional -> ExpresionNot OpRelacional
	// [65] OpRelacional -> OperadorRelacional ExpresionNot
	// [66] OpRelacional -> EPSILON
	add(64, NTExpresionRelacional, N(NTExpresionNot), N(NTOpRelacional))
	add(65, NTOpRelacional, N(NTOperadorRelacional), N(NTExpresionNot))
	add(66, NTOpRelacional, Epsilon())

	// [67-72] OperadorRelacional -> = | <> | < | > | <= | >=
	add(67, NTOperadorRelacional, T(token.Equal))
	add(68, NTOperadorRelacional, T(token.NotEqual))
	add(69, NTOperadorRelacional, T(token.Less))
	add(70, NTOperadorRelacional, T(token.Greater))
	add(71, NTOperadorRelacional, T(token.LessEqual))
	add(72, NTOperadorRelacional, T(token.GreaterEqual))

	// [73] ExpresionNot -> NOT ExpresionNot
	// [74] ExpresionNot -> ExpresionPrimaria
	add(73, NTExpresionNot, T(token.Not), N(NTExpresionNot))
	add(74, NTExpresionNot, N(NTExpresionPrimaria))

	// [75-78] ExpresionPrimaria -> NUMBER | STRING | IDENTIFIER Accesos | ( Expresion )
	add(75, NTExpresionPrimaria, T(token.Number))
	add(76, NTExpresionPrimaria, T(token.String))
	add(77, NTExpresionPrimaria, T(token.Identifier), N(NTAccesos))
	add(78, NTExpresionPrimaria, T(token.LParen), N(NTExpresion), T(token.RParen))

	// [79] Accesos -> AccesoCampo
	// [80] Accesos -> AccesoArreglo
	// [81] Accesos -> EPSILON
	add(79, NTAccesos, N(NTAccesoCampo))
	add(80, NTAccesos, N(NTAccesoArreglo))
	add(81, NTAccesos, Epsilon())

	// [82] AccesoCampo -> . FieldName AccesoArreglo
	// [83] AccesoArreglo -> [ Expresion ]
	// [84] AccesoArreglo -> EPSILON
	add(82, NTAccesoCampo, T(token.Dot), N(NTFieldName), N(NTAccesoArreglo))
	add(83, NTAccesoArreglo, T(token.LBracket), N(NTExpresion), T(token.RBracket))
	add(84, NTAccesoArreglo, Epsilon())

	// [85-94] FieldName -> IDENTIFIER | ключевые слова, допустимые как имена полей.
	// Отдельный нетерминал сохраняет свойство LL(1) для выражений вида hub.coaxial.
	add(85, NTFieldName, T(token.Identifier))
	add(86, NTFieldName, T(token.Coaxial))
	add(87, NTFieldName, T(token.Segmento))
	add(88, NTFieldName, T(token.Maquinas))
	add(89, NTFieldName, T(token.Concentradores))
	add(90, NTFieldName, T(token.Derecha))
	add(91, NTFieldName, T(token.Izquierda))
	add(92, NTFieldName, T(token.Arriba))
	add(93, NTFieldName, T(token.Abajo))
	add(94, NTFieldName, T(token.Modulo))

	return g
}
