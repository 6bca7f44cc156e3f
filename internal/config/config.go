package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации песочницы.

type Config struct {
	World     WorldConfig     `yaml:"world"`
	Storage   StorageConfig   `yaml:"storage"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// WorldConfig задаёт параметры генерации мира
type WorldConfig struct {
	Size            int     `yaml:"size"`             // Сторона квадрата генерации (чётная)
	MaxHeight       int     `yaml:"max_height"`       // Максимальная высота рельефа
	TreeProbability float64 `yaml:"tree_probability"` // Вероятность дерева на колонку [0,1]
	Seed            int64   `yaml:"seed"`             // 0 — случайный сид
}

// StorageConfig задаёт параметры персистентности мира
type StorageConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Path        string `yaml:"path"`         // Директория данных BadgerDB
	AutosaveSec int    `yaml:"autosave_sec"` // Период автосохранения в секундах
}

// MetricsConfig задаёт параметры Prometheus-экспорта
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"` // Адрес HTTP-эндпоинта /metrics, например ":2112"
}

// TelemetryConfig задаёт параметры OpenTelemetry
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Service string `yaml:"service"` // Имя сервиса для трейсов
}

// LoggingConfig задаёт параметры логирования
type LoggingConfig struct {
	Level string `yaml:"level"` // TRACE|DEBUG|INFO|WARN|ERROR
	Dir   string `yaml:"dir"`   // Директория файлов логов
}

// Default возвращает конфигурацию со значениями по умолчанию
func Default() *Config {
	return &Config{
		World: WorldConfig{
			Size:            64,
			MaxHeight:       32,
			TreeProbability: 0.02,
			Seed:            0,
		},
		Storage: StorageConfig{
			Enabled:     true,
			Path:        "./data",
			AutosaveSec: 60,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":2112",
		},
		Telemetry: TelemetryConfig{
			Enabled: false,
			Service: "voxel-sandbox",
		},
		Logging: LoggingConfig{
			Level: "INFO",
			Dir:   "logs",
		},
	}
}

// GetSeed возвращает сид с приоритетом: config -> env -> 0 (случайный)
func (w *WorldConfig) GetSeed() int64 {
	if w.Seed != 0 {
		return w.Seed
	}
	if envVal := os.Getenv("WORLD_SEED"); envVal != "" {
		if seed, err := strconv.ParseInt(envVal, 10, 64); err == nil {
			return seed
		}
	}
	return 0
}

// GetPath возвращает директорию данных с приоритетом: config -> env -> default
func (s *StorageConfig) GetPath() string {
	return getStringWithEnvFallback(s.Path, "DATA_PATH", "./data")
}

// GetAddr возвращает адрес метрик с приоритетом: config -> env -> default
func (m *MetricsConfig) GetAddr() string {
	return getStringWithEnvFallback(m.Addr, "METRICS_ADDR", ":2112")
}

// GetLevel возвращает уровень логирования с приоритетом: config -> env -> default
func (l *LoggingConfig) GetLevel() string {
	return getStringWithEnvFallback(l.Level, "LOG_LEVEL", "INFO")
}

// getStringWithEnvFallback возвращает значение с приоритетом: config -> env -> default
func getStringWithEnvFallback(configVal, envVar, defaultVal string) string {
	if configVal != "" {
		return configVal
	}
	if envVal := os.Getenv(envVar); envVal != "" {
		return envVal
	}
	return defaultVal
}

// Validate проверяет согласованность параметров
func (c *Config) Validate() error {
	if c.World.Size <= 0 {
		return fmt.Errorf("world.size должен быть положительным, получено %d", c.World.Size)
	}
	if c.World.Size%2 != 0 {
		return fmt.Errorf("world.size должен быть чётным, получено %d", c.World.Size)
	}
	if c.World.MaxHeight <= 0 {
		return fmt.Errorf("world.max_height должен быть положительным, получено %d", c.World.MaxHeight)
	}
	if c.World.TreeProbability < 0 || c.World.TreeProbability > 1 {
		return fmt.Errorf("world.tree_probability должен быть в [0,1], получено %f", c.World.TreeProbability)
	}
	if c.Storage.Enabled && c.Storage.AutosaveSec <= 0 {
		return fmt.Errorf("storage.autosave_sec должен быть положительным, получено %d", c.Storage.AutosaveSec)
	}
	return nil
}

// Load читает YAML файл конфигурации поверх значений по умолчанию.
// Если path == "", пытается прочитать из ENV GAME_CONFIG; если и он пуст —
// возвращает дефолтную конфигурацию.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("GAME_CONFIG")
		if path == "" {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
