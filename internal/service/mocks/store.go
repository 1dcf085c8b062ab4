package mocks

import (
	"context"

	"github.com/AltEgora/avito/internal/repo"
)

// MockStore fails every transaction with InTxErr without calling fn.
type MockStore struct {
	InTxErr   error
	InTxCalls int
}

func (m *MockStore) InTx(ctx context.Context, fn func(ctx context.Context, tx repo.Tx) error) error {
	m.InTxCalls++
	return m.InTxErr
}
