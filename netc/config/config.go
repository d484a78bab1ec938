package config

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/GDVFox/rednet/util"
)

// Conf синглтон конфигурации
var Conf = NewConfig()

// Config конфигурация компилятора netc.
type Config struct {
	Logging *util.LoggingConfig `yaml:"logging"`

	// Automaton путь к внешнему описанию автомата.
	// Пустое значение означает встроенный автомат.
	Automaton string `yaml:"automaton" envconfig:"automaton"`

	// Table путь к внешнему табличному файлу LL(1).
	// Пустое значение означает таблицу, построенную по грамматике.
	Table string `yaml:"table" envconfig:"table"`

	// Image путь к файлу изображения топологии для --visualize.
	Image string `yaml:"image" envconfig:"image"`

	// StrictPorts включает строгое правило Ethernet для числа портов
	// концентратора: допустимы только 4, 8 и 16.
	StrictPorts bool `yaml:"strict_ports" envconfig:"strict_ports"`
}

// NewConfig создает Config с настройками по-умолчанию.
func NewConfig() *Config {
	return &Config{
		Logging: util.NewLoggingConfig(),
		Image:   "topology.svg",
	}
}

// Parse применяет переопределения из переменных окружения NETC_*.
func (c *Config) Parse() error {
	return envconfig.Process("netc", c)
}
