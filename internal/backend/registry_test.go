package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/narrate/internal/voice"
)

// --- Mock types ---

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Provider() Provider {
	args := m.Called()
	return args.Get(0).(Provider)
}

func (m *MockBackend) Synthesize(ctx context.Context, req *Request) (*Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Catalog() voice.Catalog {
	args := m.Called()
	return args.Get(0).(voice.Catalog)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Tests ---

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	mockBackend := new(MockBackend)
	mockBackend.On("Provider").Return(ProviderEdge)

	require.NoError(t, reg.Register(mockBackend))

	got, ok := reg.Get(ProviderEdge)
	assert.True(t, ok)
	assert.Equal(t, mockBackend, got)

	// Ensure a missing backend returns false
	_, ok = reg.Get(ProviderPolly)
	assert.False(t, ok)

	_, err := reg.MustGet(ProviderPolly)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ElementsMatch(t, []Provider{ProviderEdge}, reg.Providers())

	mockBackend.AssertExpectations(t)
}

func TestRegistry_RegisterTwice(t *testing.T) {
	reg := NewRegistry()
	b1 := new(MockBackend)
	b2 := new(MockBackend)
	b1.On("Provider").Return(ProviderEdge)
	b2.On("Provider").Return(ProviderEdge)

	require.NoError(t, reg.Register(b1))
	assert.ErrorIs(t, reg.Register(b2), ErrAlreadyRegistered)

	got, _ := reg.Get(ProviderEdge)
	assert.Same(t, b1, got)
}

func TestRegistry_Close(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)
	b1.On("Provider").Return(ProviderEdge)
	b2.On("Provider").Return(ProviderPolly)

	// Normal close
	b1.On("Close").Return(nil).Once()
	b2.On("Close").Return(nil).Once()

	require.NoError(t, reg.Register(b1))
	require.NoError(t, reg.Register(b2))

	err := reg.Close()
	assert.NoError(t, err)

	b1.AssertExpectations(t)
	b2.AssertExpectations(t)
}

func TestRegistry_CloseErrorPropagation(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)

	b1.On("Provider").Return(ProviderEdge)
	b2.On("Provider").Return(ProviderPolly)

	b1.On("Close").Return(errors.New("close failed")).Once()
	b2.On("Close").Return(nil).Once()

	require.NoError(t, reg.Register(b1))
	require.NoError(t, reg.Register(b2))

	err := reg.Close()
	assert.EqualError(t, err, "close failed")

	b1.AssertExpectations(t)
	b2.AssertExpectations(t)
}
