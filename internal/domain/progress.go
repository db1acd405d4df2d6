package domain

import "time"

// NodeStatus — запись о результате обработки узла.
type NodeStatus struct {
	// Status — Accepted или Rejected.
	Status ProgressStatus `json:"status"`

	// UpdatedAt — время записи результата.
	UpdatedAt time.Time `json:"updated_at"`
}

// UserProgress — прогресс одного абитуриента.
//
// Создаётся лениво при первом обращении и никогда не удаляется.
// Мутируется только движком при обработке сабмита; кэш-поля
// пересчитываются после каждой мутации и сохраняются как подсказка
// для внешних потребителей — чтение статуса их не использует,
// а пересчитывает заново.
type UserProgress struct {
	// UserID — идентификатор абитуриента.
	UserID string `json:"user_id"`

	// NodeStatuses — статусы узлов по их ID.
	NodeStatuses map[int]NodeStatus `json:"node_statuses"`

	// DerivedFacts — накопленные факты (имя → скаляр).
	// Только добавляются и перезаписываются, никогда не удаляются.
	DerivedFacts map[string]any `json:"derived_facts"`

	// CurrentStepID — кэш: ID текущего шага (0 = процесс завершён).
	CurrentStepID int `json:"current_step_id,omitempty"`

	// CurrentTaskID — кэш: ID текущей задачи (0 = нет).
	CurrentTaskID int `json:"current_task_id,omitempty"`

	// CachedOverallStatus — кэш итогового статуса.
	CachedOverallStatus OverallStatus `json:"cached_overall_status"`

	// CacheUpdatedAt — время последнего пересчёта кэша.
	CacheUpdatedAt time.Time `json:"cache_updated_at"`
}

// NewUserProgress создаёт пустую запись прогресса.
func NewUserProgress(userID string) *UserProgress {
	return &UserProgress{
		UserID:              userID,
		NodeStatuses:        make(map[int]NodeStatus),
		DerivedFacts:        make(map[string]any),
		CachedOverallStatus: OverallInProgress,
	}
}

// StatusOf возвращает записанный статус узла.
// Для узла без записи — StatusNotStarted.
func (p *UserProgress) StatusOf(nodeID int) ProgressStatus {
	if st, ok := p.NodeStatuses[nodeID]; ok {
		return st.Status
	}
	return StatusNotStarted
}

// HasStatus проверяет, есть ли у узла записанный статус.
func (p *UserProgress) HasStatus(nodeID int) bool {
	_, ok := p.NodeStatuses[nodeID]
	return ok
}

// SetStatus записывает статус узла с текущим временем.
func (p *UserProgress) SetStatus(nodeID int, status ProgressStatus, now time.Time) {
	p.NodeStatuses[nodeID] = NodeStatus{Status: status, UpdatedAt: now}
}

// Clone возвращает глубокую копию записи прогресса.
// Используется хранилищами, чтобы мутации движка не были видны
// до явного Save.
func (p *UserProgress) Clone() *UserProgress {
	cp := *p
	cp.NodeStatuses = make(map[int]NodeStatus, len(p.NodeStatuses))
	for id, st := range p.NodeStatuses {
		cp.NodeStatuses[id] = st
	}
	cp.DerivedFacts = make(map[string]any, len(p.DerivedFacts))
	for k, v := range p.DerivedFacts {
		cp.DerivedFacts[k] = v
	}
	return &cp
}
