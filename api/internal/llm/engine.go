package llm

import (
	"context"
	"sync"
)

// Engine is a single-shot completion backend: prompt in, free text out.
type Engine interface {
	Name() string
	GetModel() string
	SetModel(string)
	Complete(ctx context.Context, prompt string) (string, error)
}

// Manager keeps a per-chat engine selection on top of a default.
type Manager struct {
	def Engine
	m   sync.Map // chatID -> Engine
}

func NewManager(defaultEngine Engine) *Manager {
	return &Manager{def: defaultEngine}
}

func (m *Manager) Get(chatID int64) Engine {
	if v, ok := m.m.Load(chatID); ok {
		return v.(Engine)
	}
	return m.def
}

func (m *Manager) Set(chatID int64, e Engine) {
	m.m.Store(chatID, e)
}
