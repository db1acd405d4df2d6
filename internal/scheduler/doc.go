// Package scheduler реализует логику планировщика напоминаний.
//
// Scheduler периодически находит незавершённых абитуриентов,
// давно не продвигавшихся по процессу, и публикует для них
// события reminder.due.
//
// Структура:
//   - scheduler.go — основная логика Scheduler (Tick)
//   - cron.go      — парсинг cron-выражения расписания тиков
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Graph:     graph,
//	    Progress:  progressStore,
//	    Publisher: publisher,
//	    Logger:    logger,
//	})
//
//	// Вызывается по расписанию (см. cron.go)
//	if err := sched.Tick(ctx); err != nil {
//	    logger.Error("scheduler tick failed", "error", err)
//	}
//
// Scheduler не реализует leader election; при нескольких
// экземплярах абитуриент может получить повторное напоминание.
package scheduler
