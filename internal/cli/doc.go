// Package cli реализует инструмент командной строки Enrolla.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Enrolla API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для регистрации абитуриентов, просмотра
// процесса и отправки сабмитов.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Enrolla API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	users, err := client.ListUsers()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: enrolla user list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - user:     register, show, list
//   - flow:     show
//   - progress: position, status, complete
//
// Каждая группа создаётся через фабричную функцию (NewUserCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
