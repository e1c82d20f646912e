package types

import (
	"encoding/json"
	"fmt"
)

// CanonicalAddr 地址的规范（二进制）形式
type CanonicalAddr []byte

// Api 宿主提供的地址工具
type Api interface {
	// AddrValidate 校验人类可读地址
	AddrValidate(human string) (Addr, error)
	// AddrCanonicalize 人类可读地址 → 规范字节
	AddrCanonicalize(human string) (CanonicalAddr, error)
	// AddrHumanize 规范字节 → 人类可读地址
	AddrHumanize(canonical CanonicalAddr) (Addr, error)
	// Debug 输出调试信息，不影响执行结果
	Debug(msg string)
}

// Querier 宿主查询通道，返回已拆信封的原始响应字节
type Querier interface {
	QueryRaw(request QueryRequest) ([]byte, error)
}

// QuerierWrapper 带类型的查询辅助
type QuerierWrapper struct {
	Querier
}

// NewQuerierWrapper 包装 Querier
func NewQuerierWrapper(q Querier) QuerierWrapper {
	return QuerierWrapper{Querier: q}
}

// QueryWasmSmart 调用目标合约的 query 入口并把响应解码到 out
func (w QuerierWrapper) QueryWasmSmart(contract string, msg interface{}, out interface{}) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return SerializationErr(fmt.Sprintf("%T", msg), err)
	}
	data, err := w.QueryRaw(QueryRequest{Wasm: &WasmQuery{Smart: &SmartQuery{ContractAddr: contract, Msg: raw}}})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return SerializationErr(fmt.Sprintf("%T", out), err)
	}
	return nil
}

// QueryWasmRaw 读取目标合约存储中的一个键，键不存在时返回 nil
func (w QuerierWrapper) QueryWasmRaw(contract string, key []byte) ([]byte, error) {
	data, err := w.QueryRaw(QueryRequest{Wasm: &WasmQuery{Raw: &RawQuery{ContractAddr: contract, Key: key}}})
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// QueryContractInfo 查询实例元信息
func (w QuerierWrapper) QueryContractInfo(contract string) (*ContractInfoResponse, error) {
	data, err := w.QueryRaw(QueryRequest{Wasm: &WasmQuery{ContractInfo: &ContractInfoQuery{ContractAddr: contract}}})
	if err != nil {
		return nil, err
	}
	var info ContractInfoResponse
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, SerializationErr("ContractInfoResponse", err)
	}
	return &info, nil
}

// Deps 只读依赖，用于 query 入口
type Deps struct {
	Storage ReadonlyStorage
	Api     Api
	Querier QuerierWrapper
}

// DepsMut 可写依赖，用于 instantiate/execute/migrate 入口
type DepsMut struct {
	Storage Storage
	Api     Api
	Querier QuerierWrapper
}

// AsRef 降级为只读依赖
func (d DepsMut) AsRef() Deps {
	return Deps{Storage: d.Storage, Api: d.Api, Querier: d.Querier}
}
