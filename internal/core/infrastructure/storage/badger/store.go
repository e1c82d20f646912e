// Package badger 提供基于BadgerDB的存储实现
package badger

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	badgerdb "github.com/dgraph-io/badger/v3"

	badgerconfig "github.com/weisyn/seints-row/internal/config/storage/badger"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/log"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/seints-row/pkg/utils"
)

var _ storage.BadgerStore = (*Store)(nil)

// ErrStoreClosing 存储正在关闭
var ErrStoreClosing = errors.New("badger store is closing")

// Store 实现 storage.BadgerStore
type Store struct {
	db         *badgerdb.DB
	config     *badgerconfig.Config
	logger     log.Logger
	cancelFunc context.CancelFunc

	// 关闭过程中拒绝新的写事务，并等待进行中的写事务结束
	closing int32
	writeWg sync.WaitGroup
}

// New 打开数据库
//
// 内存模式不创建目录，也不启动值日志回收
func New(config *badgerconfig.Config, logger log.Logger) (*Store, error) {
	store := &Store{
		config: config,
		logger: logger,
	}

	var opts badgerdb.Options
	if config.IsInMemory() {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
		logger.Info("初始化内存BadgerDB存储")
	} else {
		dataDir := config.GetPath()
		if dataDir == "" {
			return nil, fmt.Errorf("BadgerDB数据目录未配置")
		}
		if err := os.MkdirAll(dataDir, 0700); err != nil {
			return nil, fmt.Errorf("无法创建BadgerDB数据目录 %s: %w", dataDir, err)
		}
		opts = badgerdb.DefaultOptions(dataDir)
		opts.SyncWrites = config.IsSyncWritesEnabled()
		opts.ValueLogFileSize = 64 << 20
		logger.Infof("初始化BadgerDB存储，数据目录: %s", dataDir)
	}
	if err := applyMemTableSize(&opts, config.GetMemTableSize()); err != nil {
		return nil, err
	}
	opts.NumVersionsToKeep = config.GetNumVersionsToKeep()
	opts.BlockCacheSize = 16 << 20
	opts.IndexCacheSize = 8 << 20
	opts.NumMemtables = 2
	opts.NumCompactors = 2
	opts.Logger = newBadgerLogger(logger)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("无法打开BadgerDB: %w", err)
	}
	store.db = db

	ctx, cancel := context.WithCancel(context.Background())
	store.cancelFunc = cancel
	if !config.IsInMemory() {
		store.StartMaintenanceRoutines(ctx)
	}
	return store, nil
}

// minMemTableSize 内存表下限
const minMemTableSize = 1 << 20

// applyMemTableSize 设置内存表大小并收紧 ValueThreshold
//
// badger 要求 ValueThreshold 不超过单批上限 (MemTableSize 的 15%)，
// 小内存表需要同步降低阈值，否则 Open 失败
func applyMemTableSize(opts *badgerdb.Options, size int64) error {
	if size <= 0 {
		return nil
	}
	if size < minMemTableSize {
		return fmt.Errorf("BadgerDB内存表过小: %d 字节，最小 %d 字节", size, minMemTableSize)
	}
	opts.MemTableSize = size
	if maxBatch := size * 15 / 100; opts.ValueThreshold >= maxBatch {
		opts.ValueThreshold = maxBatch / 2
	}
	return nil
}

// Close 关闭存储并释放资源，重复调用为空操作
func (s *Store) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closing, 0, 1) {
		return nil
	}
	if s.cancelFunc != nil {
		s.cancelFunc()
	}
	s.writeWg.Wait()
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("关闭BadgerDB失败: %w", err)
	}
	s.logger.Info("BadgerDB存储已关闭")
	return nil
}

func (s *Store) beginWrite() (func(), error) {
	if atomic.LoadInt32(&s.closing) == 1 {
		return nil, ErrStoreClosing
	}
	s.writeWg.Add(1)
	if atomic.LoadInt32(&s.closing) == 1 {
		s.writeWg.Done()
		return nil, ErrStoreClosing
	}
	return s.writeWg.Done, nil
}

// Get 获取指定键的值
func (s *Store) Get(ctx context.Context, key []byte) ([]byte, error) {
	var val []byte
	err := s.View(ctx, func(tx storage.BadgerReader) error {
		var err error
		val, err = tx.Get(key)
		return err
	})
	return val, err
}

// Set 设置键值对
func (s *Store) Set(ctx context.Context, key, value []byte) error {
	return s.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		return tx.Set(key, value)
	})
}

// Delete 删除指定键
func (s *Store) Delete(ctx context.Context, key []byte) error {
	return s.RunInTransaction(ctx, func(tx storage.BadgerTransaction) error {
		return tx.Delete(key)
	})
}

// Exists 检查键是否存在
func (s *Store) Exists(ctx context.Context, key []byte) (bool, error) {
	var ok bool
	err := s.View(ctx, func(tx storage.BadgerReader) error {
		var err error
		ok, err = tx.Exists(key)
		return err
	})
	return ok, err
}

// PrefixScan 按前缀扫描键值对
func (s *Store) PrefixScan(ctx context.Context, prefix []byte) ([]storage.KeyValue, error) {
	var out []storage.KeyValue
	err := s.View(ctx, func(tx storage.BadgerReader) error {
		var err error
		out, err = tx.Range(prefix, utils.PrefixEnd(prefix), false)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("badger前缀扫描失败: %w", err)
	}
	return out, nil
}

// RunInTransaction 在读写事务中执行操作
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx storage.BadgerTransaction) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	done, err := s.beginWrite()
	if err != nil {
		return err
	}
	defer done()

	tx := newTransaction(s.db.NewTransaction(true), true)
	defer tx.Discard()

	if err := fn(tx); err != nil {
		return err
	}
	if !tx.IsActive() {
		if tx.IsCommitted() {
			return nil
		}
		return fmt.Errorf("事务已被丢弃")
	}
	return tx.Commit()
}

// View 在只读事务中执行操作
func (s *Store) View(ctx context.Context, fn func(tx storage.BadgerReader) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if atomic.LoadInt32(&s.closing) == 1 {
		return ErrStoreClosing
	}
	tx := newTransaction(s.db.NewTransaction(false), false)
	defer tx.Discard()
	return fn(tx)
}

// badgerLogger 把 BadgerDB 的日志转到应用日志
type badgerLogger struct {
	logger log.Logger
}

func newBadgerLogger(logger log.Logger) *badgerLogger {
	return &badgerLogger{logger: logger}
}

// Errorf 输出错误日志
func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Errorf("[BadgerDB] "+format, args...)
}

// Warningf 输出警告日志
func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warnf("[BadgerDB] "+format, args...)
}

// Infof BadgerDB 的 info 日志较多，降为 debug
func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}

// Debugf 输出调试日志
func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debugf("[BadgerDB] "+format, args...)
}
