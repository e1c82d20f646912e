package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	badgerdb "github.com/dgraph-io/badger/v3"
)

// valueLogGCInterval 值日志回收周期
const valueLogGCInterval = 30 * time.Minute

// RunValueLogGC 执行一轮值日志垃圾回收
// 没有可回收的文件时返回 nil
func (s *Store) RunValueLogGC(discardRatio float64) error {
	err := s.db.RunValueLogGC(discardRatio)
	if err == nil || errors.Is(err, badgerdb.ErrNoRewrite) || errors.Is(err, badgerdb.ErrRejected) {
		return nil
	}
	return fmt.Errorf("值日志垃圾回收失败: %w", err)
}

// StartMaintenanceRoutines 启动定期维护任务，ctx 取消时退出
func (s *Store) StartMaintenanceRoutines(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(valueLogGCInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.RunValueLogGC(0.5); err != nil {
					s.logger.Warnf("定期值日志垃圾回收失败: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
