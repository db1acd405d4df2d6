package flow

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shaiso/Enrolla/internal/domain"
)

// Graph — неизменяемый граф admission-процесса.
//
// Строится один раз при старте процесса; после Build ни один метод
// не мутирует внутреннее состояние, поэтому конкурентное чтение
// безопасно без блокировок.
type Graph struct {
	nodesByID   map[int]*domain.FlowNode
	nodesByName map[string]*domain.FlowNode
	children    map[int][]*domain.FlowNode
	roots       []*domain.FlowNode
}

// Build собирает граф из плоского списка узлов и валидирует
// двухуровневую структуру: шаги — корни, задачи — дети шагов.
func Build(nodes []domain.FlowNode) (*Graph, error) {
	g := &Graph{
		nodesByID:   make(map[int]*domain.FlowNode, len(nodes)),
		nodesByName: make(map[string]*domain.FlowNode, len(nodes)),
		children:    make(map[int][]*domain.FlowNode),
	}

	// Первый проход: индексы по ID и имени
	for i := range nodes {
		n := &nodes[i]

		if n.Name == "" {
			return nil, newValidationError(n.ID, fmt.Sprintf("node %d has empty name", n.ID), ErrEmptyNodeName)
		}
		if _, exists := g.nodesByID[n.ID]; exists {
			return nil, newValidationError(n.ID, fmt.Sprintf("duplicate node ID %d", n.ID), ErrDuplicateNodeID)
		}
		key := strings.ToLower(n.Name)
		if _, exists := g.nodesByName[key]; exists {
			return nil, newValidationError(n.ID, fmt.Sprintf("duplicate node name %q", n.Name), ErrDuplicateNodeName)
		}

		g.nodesByID[n.ID] = n
		g.nodesByName[key] = n
	}

	// Второй проход: структура дерева
	for _, n := range g.nodesByID {
		switch n.Role {
		case domain.RoleStep:
			if n.ParentID != 0 {
				return nil, newValidationError(n.ID, fmt.Sprintf("step %q has a parent", n.Name), ErrStepWithParent)
			}
			g.roots = append(g.roots, n)
		case domain.RoleTask:
			parent, ok := g.nodesByID[n.ParentID]
			if !ok {
				return nil, newValidationError(n.ID, fmt.Sprintf("task %q references unknown parent %d", n.Name, n.ParentID), ErrUnknownParent)
			}
			if !parent.IsStep() {
				return nil, newValidationError(n.ID, fmt.Sprintf("task %q parent %q is not a step", n.Name, parent.Name), ErrTaskParent)
			}
			g.children[n.ParentID] = append(g.children[n.ParentID], n)
		}
	}

	if len(g.roots) == 0 {
		return nil, ErrNoSteps
	}

	// Третий проход: ссылки recovery-задач указывают на задачу того же шага
	for _, n := range g.nodesByID {
		if !n.IsTask() || n.RequiresPreviousTaskFailedID == 0 {
			continue
		}
		target, ok := g.nodesByID[n.RequiresPreviousTaskFailedID]
		if !ok || !target.IsTask() || target.ParentID != n.ParentID {
			return nil, newValidationError(n.ID,
				fmt.Sprintf("task %q recovery target %d is not a sibling task", n.Name, n.RequiresPreviousTaskFailedID),
				ErrUnknownRecoveryTarget)
		}
	}

	sortByOrder(g.roots)
	for _, tasks := range g.children {
		sortByOrder(tasks)
	}

	return g, nil
}

func sortByOrder(nodes []*domain.FlowNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].Order < nodes[j].Order
	})
}

// AllNodes возвращает все узлы графа в произвольном порядке.
func (g *Graph) AllNodes() []*domain.FlowNode {
	nodes := make([]*domain.FlowNode, 0, len(g.nodesByID))
	for _, n := range g.nodesByID {
		nodes = append(nodes, n)
	}
	return nodes
}

// NodeByID возвращает узел по ID.
func (g *Graph) NodeByID(id int) (*domain.FlowNode, error) {
	n, ok := g.nodesByID[id]
	if !ok {
		return nil, fmt.Errorf("node %d: %w", id, ErrNodeNotFound)
	}
	return n, nil
}

// NodeByName возвращает узел по имени без учёта регистра.
func (g *Graph) NodeByName(name string) (*domain.FlowNode, error) {
	n, ok := g.nodesByName[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("node %q: %w", name, ErrNodeNotFound)
	}
	return n, nil
}

// Children возвращает задачи шага, отсортированные по Order
// по возрастанию. Для шага без задач — пустой срез.
func (g *Graph) Children(parentID int) []*domain.FlowNode {
	return g.children[parentID]
}

// RootSteps возвращает шаги, отсортированные по Order по возрастанию.
func (g *Graph) RootSteps() []*domain.FlowNode {
	return g.roots
}

// RecoveryTaskFor находит среди задач шага recovery-задачу,
// указывающую на taskID. nil, если такой нет.
func (g *Graph) RecoveryTaskFor(parentID, taskID int) *domain.FlowNode {
	for _, t := range g.children[parentID] {
		if t.RequiresPreviousTaskFailedID == taskID {
			return t
		}
	}
	return nil
}

// Size возвращает количество узлов.
func (g *Graph) Size() int {
	return len(g.nodesByID)
}
