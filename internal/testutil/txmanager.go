package testutil

import (
	"context"
	"database/sql"
	"errors"
	"sync/atomic"
	"time"

	"github.com/lib/pq"

	"github.com/m04kA/SMC-CostumeRentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-CostumeRentalService/pkg/txmanager"
)

// ConcurrentTxManager транзакции поверх Store без общей очереди и без отката
// Параллельные транзакции перемежаются так же, как в базе при блокировке разных строк,
// поэтому взаимное исключение по ключу резерва должно обеспечивать вызывающий код
type ConcurrentTxManager struct {
	store *Store
}

// NewConcurrentTxManager создает менеджер транзакций без сериализации
func NewConcurrentTxManager(store *Store) *ConcurrentTxManager {
	return &ConcurrentTxManager{store: store}
}

func (m *ConcurrentTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx)
}

// UnreachableDB источник транзакций без связи с базой: BeginTx всегда падает
type UnreachableDB struct {
	Err error
}

func (d UnreachableDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
}

// NewUnreachableTxManager настоящий txmanager, у которого не начинается ни одна транзакция
func NewUnreachableTxManager() *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(UnreachableDB{})
}

// ConflictingDB транзакции начинаются, но фиксация падает с конфликтом сериализации
type ConflictingDB struct {
	commits atomic.Int64
}

func (d *ConflictingDB) BeginTx(ctx context.Context, opts *sql.TxOptions) (dbmetrics.TxExecutor, error) {
	return &conflictingTx{db: d}, nil
}

// Commits сколько раз пытались зафиксировать транзакцию
func (d *ConflictingDB) Commits() int64 {
	return d.commits.Load()
}

// NewConflictingTxManager настоящий txmanager без повторов, чья фиксация всегда конфликтует
func NewConflictingTxManager(db *ConflictingDB) *txmanager.TransactionManager {
	return txmanager.NewTransactionManager(db, txmanager.WithMaxRetries(0), txmanager.WithRetryDelay(time.Millisecond))
}

var errNoSQL = errors.New("testutil: sql is not available in conflicting transaction")

type conflictingTx struct {
	db *ConflictingDB
}

func (t *conflictingTx) ExecContext(context.Context, string, ...interface{}) (sql.Result, error) {
	return nil, errNoSQL
}

func (t *conflictingTx) QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error) {
	return nil, errNoSQL
}

func (t *conflictingTx) QueryRowContext(context.Context, string, ...interface{}) *sql.Row {
	return nil
}

func (t *conflictingTx) Commit() error {
	t.db.commits.Add(1)
	return &pq.Error{Code: "40001", Message: "could not serialize access due to read/write dependencies among transactions"}
}

func (t *conflictingTx) Rollback() error {
	return nil
}
