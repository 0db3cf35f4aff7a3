// @title Gap Control Service API
// @version 1.0.0
// @description API контура регулирования зазора: handshake с контроллером, регулирование по измерениям камер и отправка результатов в Kafka.
// @host localhost:8083
// @BasePath /api/v1
package main

import "github.com/iwtcode/gapService/internal/app"

func main() {
	// Создаем и запускаем новый экземпляр приложения fx
	app.New().Run()
}
