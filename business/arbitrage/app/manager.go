package app

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/solarb-labs/arbitrage-engine/business/arbitrage/domain"
	"github.com/solarb-labs/arbitrage-engine/internal/apperror"
)

// Manager owns the opportunity table and enforces the lifecycle state
// machine: Ready -> Executing -> {Completed, Failed}. A single coarse
// lock covers the table; the working set is a handful of entries per
// tick, contention is not a concern.
type Manager struct {
	mu    sync.RWMutex
	table map[string]*domain.Opportunity
	order []string // first-seen order, drives stable display and tie-breaks

	history     []*domain.Opportunity // settled entries, oldest first
	historySize int
}

// NewManager creates a manager retaining up to historySize settled
// opportunities.
func NewManager(historySize int) *Manager {
	if historySize <= 0 {
		historySize = 100
	}
	return &Manager{
		table:       make(map[string]*domain.Opportunity),
		historySize: historySize,
	}
}

// Refresh replaces the table with fresh finder output. Entries currently
// Executing survive the swap and keep their position; they are never
// overwritten even if the fresh set carries the same id, and never
// resurrected once settled.
func (m *Manager) Refresh(fresh []*domain.Opportunity) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]*domain.Opportunity, len(fresh))
	var nextOrder []string

	for _, id := range m.order {
		if opp := m.table[id]; opp != nil && opp.Status == domain.StatusExecuting {
			next[id] = opp
			nextOrder = append(nextOrder, id)
		}
	}

	for _, opp := range fresh {
		if _, taken := next[opp.ID]; taken {
			continue
		}
		next[opp.ID] = opp.Clone()
		nextOrder = append(nextOrder, opp.ID)
	}

	m.table = next
	m.order = nextOrder
}

// BeginExecution atomically transitions a Ready opportunity to Executing
// and records the investment. At most one call per id can succeed.
func (m *Manager) BeginExecution(id string, investment decimal.Decimal) (*domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	opp, ok := m.table[id]
	if !ok {
		return nil, apperror.New(apperror.CodeUnknownOpportunity, apperror.WithContext(id))
	}
	if opp.Status != domain.StatusReady {
		return nil, apperror.New(apperror.CodeInvalidState,
			apperror.WithMessage("opportunity is not ready"),
			apperror.WithContext(id+" status="+string(opp.Status)))
	}

	opp.Status = domain.StatusExecuting
	opp.InvestmentAmount = investment
	return opp.Clone(), nil
}

// CompleteExecution settles an Executing opportunity from the execution
// result: Completed on success, Failed otherwise. The settled entry
// moves into the bounded history.
func (m *Manager) CompleteExecution(id string, result *domain.ExecutionResult) (*domain.Opportunity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	opp, ok := m.table[id]
	if !ok {
		return nil, apperror.New(apperror.CodeUnknownOpportunity, apperror.WithContext(id))
	}
	if opp.Status != domain.StatusExecuting {
		return nil, apperror.New(apperror.CodeInvalidState,
			apperror.WithMessage("opportunity is not executing"),
			apperror.WithContext(id+" status="+string(opp.Status)))
	}

	if result.Success {
		opp.Status = domain.StatusCompleted
	} else {
		opp.Status = domain.StatusFailed
		opp.FailureReason = result.FailureReason
	}
	opp.SettledAt = result.CompletedAt
	opp.ExecutionTimeMs = result.ExecutionTimeMs
	opp.GasCostSOL = result.GasCostSOL
	opp.GasCostUSD = result.GasCostUSD
	opp.ProfitUSD = result.ProfitAfterCostsUSD

	m.history = append(m.history, opp.Clone())
	if len(m.history) > m.historySize {
		m.history = m.history[len(m.history)-m.historySize:]
	}

	return opp.Clone(), nil
}

// Get returns a copy of the opportunity, if present.
func (m *Manager) Get(id string) (*domain.Opportunity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	opp, ok := m.table[id]
	if !ok {
		return nil, false
	}
	return opp.Clone(), true
}

// All returns copies of every tracked opportunity in first-seen order.
func (m *Manager) All() []*domain.Opportunity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Opportunity, 0, len(m.order))
	for _, id := range m.order {
		if opp := m.table[id]; opp != nil {
			out = append(out, opp.Clone())
		}
	}
	return out
}

// Ready returns copies of Ready opportunities in first-seen order, the
// candidate set for selection.
func (m *Manager) Ready() []*domain.Opportunity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*domain.Opportunity
	for _, id := range m.order {
		if opp := m.table[id]; opp != nil && opp.Status == domain.StatusReady {
			out = append(out, opp.Clone())
		}
	}
	return out
}

// History returns copies of settled opportunities, oldest first.
func (m *Manager) History() []*domain.Opportunity {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Opportunity, len(m.history))
	for i, opp := range m.history {
		out[i] = opp.Clone()
	}
	return out
}
