package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/pterm/pterm"
	flag "github.com/spf13/pflag"

	"github.com/GDVFox/rednet/automaton"
	"github.com/GDVFox/rednet/grammar"
	"github.com/GDVFox/rednet/interp"
	"github.com/GDVFox/rednet/netc/config"
	"github.com/GDVFox/rednet/parser"
	"github.com/GDVFox/rednet/predictive"
	"github.com/GDVFox/rednet/scanner"
	"github.com/GDVFox/rednet/semantic"
	"github.com/GDVFox/rednet/token"
	"github.com/GDVFox/rednet/util"
	"github.com/GDVFox/rednet/visualizer"
)

var (
	configFile string
	visualize  bool
	showTokens bool
	dumpTable  string
	showHelp   bool
)

func init() {
	flag.StringVarP(&configFile, "config", "c", "", "Path to yaml config file")
	flag.BoolVarP(&visualize, "visualize", "v", false, "Render final topology to an image file")
	flag.BoolVar(&showTokens, "tokens", false, "Print token table after scanning")
	flag.StringVar(&dumpTable, "dump-table", "", "Write the LL(1) parsing table to a file and exit")
	flag.BoolVarP(&showHelp, "help", "h", false, "Print help message")
}

func main() {
	flag.Parse()
	if showHelp {
		printHelp()
		return
	}

	if configFile != "" {
		if err := util.LoadConfig(configFile, config.Conf); err != nil {
			fmt.Fprintf(os.Stderr, "Error config: can not read config file: %v\n", err)
			os.Exit(1)
		}
	}
	if err := config.Conf.Parse(); err != nil {
		fmt.Fprintf(os.Stderr, "Error config: %v\n", err)
		os.Exit(1)
	}

	logger, err := util.NewLogger(config.Conf.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error config: can not init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if dumpTable != "" {
		table, err := grammar.DefaultTable()
		if err != nil {
			fail(err)
		}
		if err := os.WriteFile(dumpTable, []byte(table.Export()), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Error config: can not write table: %v\n", err)
			os.Exit(1)
		}
		pterm.Success.Printfln("LL(1) table written to %s", dumpTable)
		return
	}

	if flag.NArg() < 1 {
		printHelp()
		os.Exit(1)
	}
	sourceFile := flag.Arg(0)

	source, err := os.ReadFile(sourceFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error config: can not read source file %s: %v\n", sourceFile, err)
		os.Exit(1)
	}

	env, err := run(string(source), logger)
	if err != nil {
		fail(err)
	}

	for _, line := range env.Output() {
		fmt.Println(line)
	}

	if visualize {
		if err := visualizer.RenderFile(env.Snapshot(), config.Conf.Image); err != nil {
			fmt.Fprintf(os.Stderr, "Error config: can not render topology: %v\n", err)
			os.Exit(1)
		}
		pterm.Success.Printfln("Topology rendered to %s", config.Conf.Image)
	}
}

// run проводит исходный текст через все фазы: сканирование,
// предиктивную проверку, построение дерева, семантический анализ
// и исполнение.
func run(source string, logger *util.Logger) (*interp.Environment, error) {
	aut, err := loadAutomaton()
	if err != nil {
		return nil, err
	}
	for _, w := range aut.Warnings() {
		logger.Warnf("automaton: %s", w)
	}

	tokens, err := scanner.New(source, aut).ScanAll()
	if err != nil {
		return nil, err
	}
	logger.Debugf("scanned %d tokens", len(tokens))
	if showTokens {
		printTokens(tokens)
	}

	table, err := loadTable()
	if err != nil {
		return nil, err
	}

	validator := predictive.NewValidator(table, tokens)
	if err := validator.Validate(); err != nil {
		return nil, err
	}
	logger.Debugf("predictive validation finished in %d steps", validator.Steps())

	prog, err := parser.NewBuilder(tokens).Build()
	if err != nil {
		return nil, err
	}

	analyzer := semantic.NewAnalyzer(semantic.Options{StrictPorts: config.Conf.StrictPorts})
	symbols, err := analyzer.Analyze(prog)
	if err != nil {
		return nil, err
	}

	interpreter := interp.New(symbols)
	if err := interpreter.Run(prog); err != nil {
		return nil, err
	}

	return interpreter.Env(), nil
}

// loadAutomaton возвращает внешний автомат из конфигурации
// или встроенный по-умолчанию.
func loadAutomaton() (*automaton.Automaton, error) {
	if config.Conf.Automaton != "" {
		return automaton.LoadFile(config.Conf.Automaton)
	}
	return automaton.Default()
}

// loadTable возвращает таблицу разбора: загруженную из файла
// или построенную по встроенной грамматике. Загруженная таблица
// обязана совпадать с построенной.
func loadTable() (*grammar.Table, error) {
	built, err := grammar.DefaultTable()
	if err != nil {
		return nil, err
	}
	if config.Conf.Table == "" {
		return built, nil
	}

	loaded, err := grammar.LoadFile(config.Conf.Table)
	if err != nil {
		return nil, err
	}
	if !loaded.Equal(built) {
		return nil, errors.Wrapf(grammar.ErrBadTable,
			"table %s disagrees with the grammar", config.Conf.Table)
	}
	return loaded, nil
}

// fail печатает единственный диагностический тег в stderr
// и завершает процесс с ненулевым кодом.
func fail(err error) {
	fmt.Fprintln(os.Stderr, diagnostic(err))
	os.Exit(1)
}

// diagnostic строит строку диагностики вида 'Error <вид>: <сообщение>'.
// Собственный префикс '<вид> error ' типизированных ошибок снимается,
// чтобы вид не повторялся в сообщении.
func diagnostic(err error) string {
	kind := classify(err)
	msg := err.Error()
	if rest := strings.TrimPrefix(msg, kind+" error: "); rest != msg {
		msg = rest
	} else {
		msg = strings.TrimPrefix(msg, kind+" error ")
	}
	return fmt.Sprintf("Error %s: %s", kind, msg)
}

func classify(err error) string {
	var (
		lexErr  *scanner.LexicalError
		synErr  *predictive.SyntaxError
		semErr  *semantic.Error
		runErr  *interp.RuntimeError
		confErr *automaton.ConfigError
	)
	switch {
	case errors.As(err, &lexErr):
		return "lexical"
	case errors.As(err, &synErr):
		return "syntax"
	case errors.As(err, &semErr):
		return "semantic"
	case errors.As(err, &runErr):
		return "runtime"
	case errors.As(err, &confErr):
		return "config"
	case errors.Is(err, parser.ErrInternal), errors.Is(err, parser.ErrBadNumber):
		return "syntax"
	case errors.Is(err, grammar.ErrBadTable), errors.Is(err, grammar.ErrNotLL1):
		return "config"
	default:
		return "config"
	}
}

func printTokens(tokens []token.Token) {
	data := pterm.TableData{{"Line", "Column", "Kind", "Lexeme"}}
	for _, t := range tokens {
		data = append(data, []string{
			fmt.Sprintf("%d", t.Line),
			fmt.Sprintf("%d", t.Column),
			t.Kind.String(),
			t.Lexeme,
		})
	}
	pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}

func printHelp() {
	pterm.DefaultBasicText.Printfln("Usage: netc [OPTIONS] FILE.net")
	pterm.Println()
	pterm.DefaultBasicText.Printfln("Compiles and executes a network topology program")
	pterm.Println()
	pterm.DefaultBasicText.Println("Flags:")
	flag.PrintDefaults()
}
