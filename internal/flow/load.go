package flow

import (
	"log/slog"
	"os"
)

// Load загружает граф процесса при старте сервиса.
//
// Путь к конфигурации берётся из переменной окружения FLOW_CONFIG.
// Загрузка fail-soft: пустая переменная, отсутствующий файл или
// невалидный документ приводят к встроенному графу, а не к отказу
// старта.
func Load(logger *slog.Logger) *Graph {
	path := os.Getenv("FLOW_CONFIG")
	if path == "" {
		logger.Info("FLOW_CONFIG not set, using built-in flow")
		return Fallback()
	}

	g, err := LoadFile(path)
	if err != nil {
		logger.Error("failed to load flow config, using built-in flow",
			"path", path,
			"error", err,
		)
		return Fallback()
	}

	logger.Info("loaded flow config",
		"path", path,
		"nodes", g.Size(),
		"steps", len(g.RootSteps()),
	)
	return g
}
