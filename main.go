// Диагностическая утилита пусконаладки: подключается к контроллеру,
// читает область обмена и выводит ее типизированное содержимое.
// Сервисный бинарник находится в cmd/app.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/iwtcode/gapService/internal/config"
	"github.com/iwtcode/gapService/internal/middleware/logging"
	"github.com/iwtcode/gapService/internal/services/plc"
	"github.com/joho/godotenv"
)

// runStep - обертка одного диагностического шага с журналированием исхода.
func runStep(name string, fn func() error) {
	log.Printf("--- Запуск шага: %s ---", name)

	if err := fn(); err != nil {
		log.Fatalf("Ошибка выполнения на шаге %s: %v", name, err)
	}

	log.Printf("--- Шаг %s выполнен успешно ---", name)
	fmt.Println("==================================================")
}

func main() {
	// 1) Загрузка конфигурации
	err := godotenv.Load("./.env")
	if err != nil {
		log.Printf("Warning: Could not load .env file. Using default values or environment variables: %v", err)
	}

	cfg, err := config.LoadConfiguration()
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	log.Printf("Конфигурация загружена: Transport=%s, Addr=%s, DB=%d, Offset=%d",
		cfg.Plc.Transport, cfg.Plc.Address, cfg.Plc.DBNumber, cfg.Plc.BaseOffset)

	logger := logging.NewLogger(&logging.Config{
		Enabled: cfg.Logging.Enable,
		Level:   cfg.Logging.Level,
	}, "PlcDiag")

	// 2) Создание транспорта и области обмена
	tr, err := plc.NewTransport(cfg, logger)
	if err != nil {
		log.Fatalf("Ошибка создания транспорта: %v", err)
	}
	db := plc.NewDataBlock(tr, cfg.Plc.BaseOffset)

	// 3) Подключение к контроллеру
	runStep("Connect", tr.Connect)
	defer func() { _ = tr.Disconnect() }()

	// 4) Чтение области обмена
	runStep("RefreshDataBlock", db.Refresh)

	// 5) Вывод статуса и параметров устройства
	runStep("DumpStatus", func() error {
		status := db.Status()
		status.Connected = tr.Connected()
		printAsJSON("PlcStatus", status)

		printAsJSON("DeviceParameters", map[string]interface{}{
			"step_mm":           db.StepMm(),
			"max_steps_per_req": db.MaxStepsPerReq(),
			"handshake_timeout": db.HandshakeTimeout().String(),
		})
		return nil
	})

	// 6) Проверочный импульс Reset, очищающий залипший handshake
	runStep("ResetPulse", func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		engine := plc.NewEngine(db, cfg.Plc, logger)
		return engine.Reset(ctx)
	})

	log.Println("Диагностика завершена.")
}

// printAsJSON форматирует данные в JSON и выводит в лог
func printAsJSON(name string, data interface{}) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		log.Printf("Ошибка маршалинга JSON для %s: %v", name, err)
		return
	}
	fmt.Printf("--- %s ---\n%s\n", name, string(jsonData))
}
