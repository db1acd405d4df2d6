// Package engine — ядро оценки прогресса admission-процесса.
//
// Все функции пакета чистые: они работают только над графом процесса,
// записью прогресса и payload сабмита, без I/O и без побочных
// эффектов за пределами переданной записи прогресса.
//
// Конвейер обработки одного сабмита:
//
//	ResolveTask → EvaluatePass → ApplyOutcome → RefreshCache
//
// Чтение позиции и статуса идёт через Projector и всегда
// пересчитывает результат заново; кэш-поля записи прогресса —
// только подсказка для внешних потребителей.
package engine
