package mem_repo

import (
	"context"
	"sync"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
)

// TxManager Транзакции для хранилища в памяти: блоки Do выполняются строго по одному.
// Отката нет, поэтому внутри блока сначала идут проверки, потом записи.
type TxManager struct {
	mtx sync.Mutex
}

func NewTxManager() *TxManager {
	return &TxManager{}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	return fn(ctx)
}

func (m *TxManager) DoWithSettings(ctx context.Context, _ trm.Settings, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

var _ trm.Manager = (*TxManager)(nil)
