package geocode

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockProvider is a testify mock of Provider.
type MockProvider struct {
	mock.Mock
	name string
}

var _ Provider = &MockProvider{} // Compile-time check

func newMockProvider(name string, configured bool) *MockProvider {
	m := &MockProvider{name: name}
	m.On("Configured").Return(configured).Maybe()
	return m
}

func (m *MockProvider) Name() string { return m.name }

func (m *MockProvider) Configured() bool {
	return m.Called().Bool(0)
}

func (m *MockProvider) Reverse(ctx context.Context, c Coordinate) (Fields, error) {
	args := m.Called(ctx, c)
	f, _ := args.Get(0).(Fields)
	return f, args.Error(1)
}
