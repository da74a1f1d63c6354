// Package mocks provides testify mocks for the domain interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"covgate.dev/pkg/covgate/internal/domain"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockWorkflow is a mock of domain.Workflow.
type MockWorkflow struct {
	mock.Mock
}

// NewMockWorkflow creates a mock that asserts its expectations on cleanup.
func NewMockWorkflow(t testingT) *MockWorkflow {
	mockWorkflow := &MockWorkflow{}
	mockWorkflow.Mock.Test(t)
	t.Cleanup(func() { mockWorkflow.AssertExpectations(t) })

	return mockWorkflow
}

// Report implements domain.Workflow.
func (_m *MockWorkflow) Report(ctx context.Context, args domain.ReportArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

// MockProducer is a mock of domain.Producer.
type MockProducer struct {
	mock.Mock
}

// NewMockProducer creates a mock that asserts its expectations on cleanup.
func NewMockProducer(t testingT) *MockProducer {
	mockProducer := &MockProducer{}
	mockProducer.Mock.Test(t)
	t.Cleanup(func() { mockProducer.AssertExpectations(t) })

	return mockProducer
}

// Produce implements domain.Producer.
func (_m *MockProducer) Produce(ctx context.Context, args domain.ProduceArgs) error {
	ret := _m.Called(ctx, args)
	return ret.Error(0)
}

var (
	_ domain.Workflow = (*MockWorkflow)(nil)
	_ domain.Producer = (*MockProducer)(nil)
)
