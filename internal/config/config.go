package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig содержит конфигурацию приложения
type AppConfig struct {
	ServerPort  string
	KafkaBroker string
	KafkaTopic  string
	GinMode     string
	Database    DatabaseConfig
	Logging     LoggerConfig
	Plc         PlcConfig
	Camera      CameraConfig
	Measure     MeasureConfig
	Regulation  RegulationConfig
	Control     ControlConfig
}

// LoggerConfig содержит настройки логгера
type LoggerConfig struct {
	Enable     bool
	LogsDir    string
	Level      string
	SavingDays int
}

// DatabaseConfig содержит конфигурацию для подключения к базе данных
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	DBName   string
}

// PlcConfig содержит параметры подключения к контроллеру и обмена
// по области данных handshake.
type PlcConfig struct {
	Transport     string // s7 / sim
	Address       string // IP контроллера (для s7)
	Rack          int
	Slot          int
	DBNumber      int           // номер блока данных
	BaseOffset    int           // базовое смещение B области обмена
	Deadline      time.Duration // общий дедлайн одной транзакции
	PollInterval  time.Duration // интервал опроса битов Ack/Done
	ResetPulse    time.Duration // длительность импульса Reset
	ActuatePulse  time.Duration // длительность импульса команды шага
	ConnectRetry  time.Duration // пауза перед повторным подключением
	ReadTimeoutMs int           // таймаут чтения транспорта
}

// CameraConfig содержит параметры источника кадров.
type CameraConfig struct {
	Backend      string // sim / dir
	Fps          float64
	LeftDir      string
	RightDir     string
	PollInterval time.Duration
	StaleWindow  time.Duration // окно устаревания кадра
}

// MeasureConfig содержит параметры измерительного модуля.
type MeasureConfig struct {
	Backend     string // fixed / none
	Period      time.Duration
	FixedGapMm  float64
	FixedJitter float64
}

// RegulationConfig содержит параметры решающего модуля регулирования.
type RegulationConfig struct {
	TargetMm     float64
	DeadbandMm   float64
	HysteresisMm float64
	Cooldown     time.Duration
	MinQuality   float64
	MaxSteps     int
	Arbitration  string // max-error / left-first
}

// ControlConfig содержит параметры цикла оркестратора.
type ControlConfig struct {
	CycleInterval time.Duration
}

// LoadConfiguration загружает конфигурацию из .env файла или переменных окружения
func LoadConfiguration() (*AppConfig, error) {
	_ = godotenv.Load()

	config := &AppConfig{
		ServerPort:  getEnv("APP_PORT", "8083"),
		KafkaBroker: getEnv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:  getEnv("KAFKA_TOPIC", "gap_control"),
		GinMode:     getEnv("GIN_MODE", "debug"),
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			Username: getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "root"),
			DBName:   getEnv("DB_NAME", "gap_db"),
		},
		Logging: LoggerConfig{
			Enable:     getEnvAsBool("LOGGER_ENABLE", true),
			LogsDir:    getEnv("LOGGER_LOGS_DIR", "./logs"),
			Level:      getEnv("LOGGER_LOG_LEVEL", "DEBUG"),
			SavingDays: getEnvAsInt("LOGGER_SAVING_DAYS", 7),
		},
		Plc: PlcConfig{
			Transport:     getEnv("PLC_TRANSPORT", "sim"),
			Address:       getEnv("PLC_ADDR", "192.168.0.1"),
			Rack:          getEnvAsInt("PLC_RACK", 0),
			Slot:          getEnvAsInt("PLC_SLOT", 1),
			DBNumber:      getEnvAsInt("PLC_DB_NUMBER", 101),
			BaseOffset:    getEnvAsInt("PLC_DB_OFFSET", 0),
			Deadline:      getEnvAsDuration("PLC_HANDSHAKE_TIMEOUT_MS", 2000),
			PollInterval:  getEnvAsDuration("PLC_POLL_INTERVAL_MS", 15),
			ResetPulse:    getEnvAsDuration("PLC_RESET_PULSE_MS", 120),
			ActuatePulse:  getEnvAsDuration("PLC_ACTUATE_PULSE_MS", 80),
			ConnectRetry:  getEnvAsDuration("PLC_CONNECT_RETRY_MS", 3000),
			ReadTimeoutMs: getEnvAsInt("PLC_READ_TIMEOUT_MS", 1000),
		},
		Camera: CameraConfig{
			Backend:      getEnv("CAMERA_BACKEND", "sim"),
			Fps:          getEnvAsFloat("CAMERA_FPS", 10),
			LeftDir:      getEnv("CAMERA_LEFT_DIR", "./frames/left"),
			RightDir:     getEnv("CAMERA_RIGHT_DIR", "./frames/right"),
			PollInterval: getEnvAsDuration("CAMERA_POLL_INTERVAL_MS", 100),
			StaleWindow:  getEnvAsDuration("CAMERA_STALE_WINDOW_MS", 2000),
		},
		Measure: MeasureConfig{
			Backend:     getEnv("MEASURE_BACKEND", "none"),
			Period:      getEnvAsDuration("MEASURE_PERIOD_MS", 1000),
			FixedGapMm:  getEnvAsFloat("MEASURE_FIXED_GAP_MM", 2.0),
			FixedJitter: getEnvAsFloat("MEASURE_FIXED_JITTER_MM", 0),
		},
		Regulation: RegulationConfig{
			TargetMm:     getEnvAsFloat("REG_TARGET_MM", 2.0),
			DeadbandMm:   getEnvAsFloat("REG_DEADBAND_MM", 0.25),
			HysteresisMm: getEnvAsFloat("REG_HYSTERESIS_MM", 0.05),
			Cooldown:     getEnvAsDuration("REG_COOLDOWN_MS", 5000),
			MinQuality:   getEnvAsFloat("REG_MIN_QUALITY", 0.5),
			MaxSteps:     getEnvAsInt("REG_MAX_STEPS", 1),
			Arbitration:  getEnv("REG_ARBITRATION", "max-error"),
		},
		Control: ControlConfig{
			CycleInterval: getEnvAsDuration("CONTROL_CYCLE_MS", 100),
		},
	}

	return config, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsInt(name string, defaultValue int) int {
	valueStr := getEnv(name, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	val, _ := strconv.ParseBool(value)
	return val
}

func getEnvAsFloat(name string, defaultValue float64) float64 {
	valueStr := getEnv(name, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsDuration читает значение в миллисекундах.
func getEnvAsDuration(name string, defaultMs int) time.Duration {
	return time.Duration(getEnvAsInt(name, defaultMs)) * time.Millisecond
}
