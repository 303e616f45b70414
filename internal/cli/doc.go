// Package cli реализует инструмент командной строки Stencil.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия со Stencil API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления workflow, полями, плейсхолдерами,
// стилями и заданиями генерации.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Stencil API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	workflows, err := client.ListWorkflows()
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: stencil workflow list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - workflow: list, upload, show, delete, reset, fields, bind, set, order, render
//   - placeholder: list, add, remove
//   - style: list, show, set, delete, default
//   - job: list, create, show, image
//
// Правки полей (bind, set, order) работают по схеме read-modify-write:
// CLI загружает текущую конфигурацию полей, меняет одно поле и
// сохраняет конфигурацию целиком. Семантика применения (коэрция,
// подстановка токенов, перенумерация) живёт на сервере.
//
// Каждая группа создаётся через фабричную функцию (NewWorkflowCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
