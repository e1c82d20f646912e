package host

import (
	"time"

	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/metrics"
	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/seints-row/pkg/types"
)

// callRecord 一次顶层调用的观测数据，调用结束后用于发布事件与记录指标
type callRecord struct {
	entry    metrics.Entry
	sender   types.Addr
	contract types.Addr
	start    time.Time

	ctx    *callContext
	block  types.BlockInfo
	sizeOf func() uint64
}

func (h *Host) begin(entry metrics.Entry, sender types.Addr) *callRecord {
	return &callRecord{entry: entry, sender: sender, start: time.Now()}
}

// bind 关联执行上下文与事务
func (r *callRecord) bind(c *callContext, tx storage.BadgerTransaction) {
	r.ctx = c
	r.block = c.block
	est := tx.GetSizeEstimator()
	r.sizeOf = est.GetCurrentSize
}

func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return types.KindOf(err).String()
}

var entryEvents = map[metrics.Entry]types.EventType{
	metrics.EntryInstantiate: types.EventTypeContractInstantiated,
	metrics.EntryExecute:     types.EventTypeContractExecuted,
	metrics.EntryMigrate:     types.EventTypeContractMigrated,
}

// finish 记录指标、发布事件并输出日志；err 非空时事务已被丢弃
func (h *Host) finish(r *callRecord, err error) {
	h.recorder.ObserveCall(r.entry, resultLabel(err), time.Since(r.start))

	ev := types.ContractEvent{
		Type:     entryEvents[r.entry],
		Contract: r.contract,
		Sender:   r.sender,
		Height:   r.block.Height,
	}
	if r.ctx != nil {
		ev.Timestamp = r.block.Time.Time()
	}

	logger := h.logger.With("entry", string(r.entry), "contract", r.contract.String(), "sender", r.sender.String())
	if err != nil {
		ev.Type = types.EventTypeContractFailed
		ev.Error = types.NewErrorPayload(err)
		h.bus.Publish(ev)
		logger.Warnf("调用失败，已回滚: kind=%s err=%v", types.KindOf(err), err)
		return
	}

	if r.sizeOf != nil {
		h.recorder.ObserveWrite(r.sizeOf())
	}
	if r.ctx != nil {
		h.recorder.IncSubMessages(r.ctx.subMsgs)
		ev.Events = r.ctx.events
	}
	h.bus.Publish(ev)
	logger.Debugf("调用已提交，耗时 %s", time.Since(r.start))
}
