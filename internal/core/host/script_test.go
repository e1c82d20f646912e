package host

import (
	"encoding/json"
	"fmt"

	"github.com/weisyn/seints-row/contracts/seintsrow/msg"
	"github.com/weisyn/seints-row/pkg/interfaces/execution"
	"github.com/weisyn/seints-row/pkg/types"
)

// script 测试合约的执行消息，按字段顺序执行
type script struct {
	Set     map[string]string `json:"set,omitempty"`
	Call    []call            `json:"call,omitempty"`
	Recurse bool              `json:"recurse,omitempty"`
	Bank    bool              `json:"bank,omitempty"`
	Event   string            `json:"event,omitempty"`
	Fail    bool              `json:"fail,omitempty"`
	Panic   bool              `json:"panic,omitempty"`

	// Receive 作为代币接收方，msg 为 "reject" 时拒绝
	Receive *msg.ReceiveMsg `json:"receive,omitempty"`
}

type call struct {
	Contract string `json:"contract"`
	Msg      script `json:"msg"`
}

type scriptQuery struct {
	Get   string      `json:"get,omitempty"`
	Env   bool        `json:"env,omitempty"`
	Raw   *rawQuery   `json:"raw,omitempty"`
	Info  string      `json:"info,omitempty"`
	Smart *smartQuery `json:"smart,omitempty"`
}

type rawQuery struct {
	Contract string `json:"contract"`
	Key      string `json:"key"`
}

type smartQuery struct {
	Contract string      `json:"contract"`
	Msg      scriptQuery `json:"msg"`
}

func mustJSON(v interface{}) []byte {
	data, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return data
}

// scriptContract 按消息脚本读写存储、发出子消息的测试合约
type scriptContract struct{}

func scriptCode(name string) execution.Code {
	return execution.Code{Name: name, Contract: scriptContract{}}
}

func (scriptContract) Instantiate(deps types.DepsMut, env types.Env, info types.MessageInfo, raw []byte) types.ContractResult {
	if err := deps.Storage.Set([]byte("creator"), []byte(info.Sender)); err != nil {
		return types.ContractErr(err)
	}
	return scriptContract{}.Execute(deps, env, info, raw)
}

func (scriptContract) Execute(deps types.DepsMut, env types.Env, info types.MessageInfo, raw []byte) types.ContractResult {
	var s script
	if err := json.Unmarshal(raw, &s); err != nil {
		return types.ContractErr(types.SerializationErr("script", err))
	}
	resp := types.NewResponse().AddAttribute("sender", info.Sender.String())
	for k, v := range s.Set {
		if err := deps.Storage.Set([]byte(k), []byte(v)); err != nil {
			return types.ContractErr(err)
		}
	}
	if s.Receive != nil {
		if string(s.Receive.Msg) == "reject" {
			return types.ContractErr(fmt.Errorf("%w: receive rejected", types.ErrUnauthorized))
		}
		if err := deps.Storage.Set([]byte("received"), []byte(s.Receive.Amount.String())); err != nil {
			return types.ContractErr(err)
		}
		resp.AddAttribute("received", s.Receive.Amount.String())
	}
	for _, c := range s.Call {
		resp.AddMessage(types.CosmosMsg{Wasm: &types.WasmMsg{Execute: &types.WasmExecuteMsg{
			ContractAddr: c.Contract,
			Msg:          mustJSON(c.Msg),
		}}})
	}
	if s.Recurse {
		resp.AddMessage(types.CosmosMsg{Wasm: &types.WasmMsg{Execute: &types.WasmExecuteMsg{
			ContractAddr: env.Contract.Address.String(),
			Msg:          raw,
		}}})
	}
	if s.Bank {
		resp.AddMessage(types.CosmosMsg{Bank: &types.BankMsg{Send: &types.BankSendMsg{
			ToAddress: info.Sender.String(),
			Amount:    []types.Coin{types.NewCoin(1, "useint")},
		}}})
	}
	if s.Event != "" {
		resp.AddEvent(types.NewEvent(s.Event).AddAttribute("at", env.Contract.Address.String()))
	}
	if s.Panic {
		panic("scripted panic")
	}
	if s.Fail {
		return types.ContractErr(types.InvalidInputf("scripted failure"))
	}
	return types.ContractOk(resp)
}

func (scriptContract) Query(deps types.Deps, env types.Env, raw []byte) types.QueryResult {
	var q scriptQuery
	if err := json.Unmarshal(raw, &q); err != nil {
		return types.QueryErr(types.SerializationErr("scriptQuery", err))
	}
	var out interface{}
	switch {
	case q.Get != "":
		v, err := deps.Storage.Get([]byte(q.Get))
		if err != nil {
			return types.QueryErr(err)
		}
		if v != nil {
			out = string(v)
		}
	case q.Env:
		out = env
	case q.Raw != nil:
		v, err := deps.Querier.QueryWasmRaw(q.Raw.Contract, []byte(q.Raw.Key))
		if err != nil {
			return types.QueryErr(err)
		}
		if v != nil {
			out = string(v)
		}
	case q.Info != "":
		info, err := deps.Querier.QueryContractInfo(q.Info)
		if err != nil {
			return types.QueryErr(err)
		}
		out = info
	case q.Smart != nil:
		var v interface{}
		if err := deps.Querier.QueryWasmSmart(q.Smart.Contract, q.Smart.Msg, &v); err != nil {
			return types.QueryErr(err)
		}
		out = v
	default:
		return types.QueryErr(types.InvalidInputf("empty query"))
	}
	return types.QueryOk(mustJSON(out))
}

func (scriptContract) Migrate(deps types.DepsMut, env types.Env, raw []byte) types.ContractResult {
	if err := deps.Storage.Set([]byte("migrated"), raw); err != nil {
		return types.ContractErr(err)
	}
	return types.ContractOk(types.NewResponse().AddAttribute("migrated", "true"))
}
