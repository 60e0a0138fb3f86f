package credential

import "github.com/stretchr/testify/mock"

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Get(keys ...string) (map[string]string, error) {
	args := m.Called(keys)
	values, _ := args.Get(0).(map[string]string)
	return values, args.Error(1)
}

func (m *MockBackend) Put(values map[string]string) error {
	args := m.Called(values)
	return args.Error(0)
}

func (m *MockBackend) Delete(keys ...string) error {
	args := m.Called(keys)
	return args.Error(0)
}
