package geocoding

import (
	"context"
	"fmt"
	"road-status-service/internal/domain"
	"road-status-service/internal/ports"
	"sync"
)

// MockGeocoder answers from fixed tables and counts calls per query.
type MockGeocoder struct {
	mu        sync.Mutex
	places    map[string]domain.Coordinates
	addresses map[domain.Coordinates]ports.Address
	err       error
	calls     map[string]int
}

func NewMockGeocoder(places map[string]domain.Coordinates, addresses map[domain.Coordinates]ports.Address) *MockGeocoder {
	return &MockGeocoder{
		places:    places,
		addresses: addresses,
		calls:     map[string]int{},
	}
}

// FailWith makes every subsequent call return err.
func (m *MockGeocoder) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockGeocoder) Calls(query string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[query]
}

func (m *MockGeocoder) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockGeocoder) Search(ctx context.Context, query string) (domain.Coordinates, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls[query]++
	if m.err != nil {
		return domain.Coordinates{}, m.err
	}
	c, ok := m.places[query]
	if !ok {
		return domain.Coordinates{}, fmt.Errorf("missing place %q: %w", query, domain.ErrNoResult)
	}
	return c, nil
}

func (m *MockGeocoder) Reverse(ctx context.Context, c domain.Coordinates) (ports.Address, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls["reverse:"+c.String()]++
	if m.err != nil {
		return ports.Address{}, m.err
	}
	a, ok := m.addresses[c]
	if !ok {
		return ports.Address{}, fmt.Errorf("missing address %s: %w", c, domain.ErrNoResult)
	}
	return a, nil
}
