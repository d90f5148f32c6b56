// Package mocks provides mock implementations for metrics interfaces.
package mocks

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockBusinessMetrics is a mock implementation of BusinessMetrics.
type MockBusinessMetrics struct {
	mock.Mock
}

// NewMockBusinessMetrics creates a MockBusinessMetrics that asserts its
// expectations when the test finishes.
func NewMockBusinessMetrics(t *testing.T) *MockBusinessMetrics {
	m := &MockBusinessMetrics{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}
