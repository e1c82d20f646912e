package host

import (
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/weisyn/seints-row/pkg/interfaces/infrastructure/storage"
	"github.com/weisyn/seints-row/pkg/types"
	"github.com/weisyn/seints-row/pkg/utils"
)

// CodeRecord 已存储的代码
type CodeRecord struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ContractRecord 合约实例
type ContractRecord struct {
	Address   types.Addr `json:"address"`
	CodeID    uint64     `json:"code_id"`
	Creator   types.Addr `json:"creator"`
	Admin     types.Addr `json:"admin,omitempty"`
	Label     string     `json:"label"`
	CreatedAt uint64     `json:"created_at"`
}

// Info 查询接口使用的元信息
func (r ContractRecord) Info() types.ContractInfoResponse {
	return types.ContractInfoResponse{
		CodeID:  r.CodeID,
		Creator: r.Creator.String(),
		Admin:   r.Admin.String(),
		Label:   r.Label,
	}
}

// StateEntry 存储中的一个键值，键为十六进制
type StateEntry struct {
	Key   string       `json:"key"`
	Value types.Binary `json:"value"`
}

// StateEntries 把 DumpState 的结果转成可序列化的形式
func StateEntries(records []types.Record) []StateEntry {
	out := make([]StateEntry, 0, len(records))
	for _, r := range records {
		out = append(out, StateEntry{Key: hex.EncodeToString(r.Key), Value: r.Value})
	}
	return out
}

func getJSON(r storage.BadgerReader, key []byte, out interface{}) (bool, error) {
	raw, err := r.Get(key)
	if err != nil {
		return false, types.HostErr("reading host state", err)
	}
	if raw == nil {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, types.SerializationErr(fmt.Sprintf("%T", out), err)
	}
	return true, nil
}

func putJSON(tx storage.BadgerTransaction, key []byte, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return types.SerializationErr(fmt.Sprintf("%T", v), err)
	}
	if err := tx.Set(key, raw); err != nil {
		return types.HostErr("writing host state", err)
	}
	return nil
}

func loadContract(r storage.BadgerReader, addr types.Addr) (*ContractRecord, error) {
	var rec ContractRecord
	ok, err := getJSON(r, contractKey(addr), &rec)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, contractNotFound(addr)
	}
	return &rec, nil
}

func listContracts(r storage.BadgerReader) ([]ContractRecord, error) {
	kvs, err := r.Range(contractPrefix, utils.PrefixEnd(contractPrefix), false)
	if err != nil {
		return nil, types.HostErr("listing contracts", err)
	}
	out := make([]ContractRecord, 0, len(kvs))
	for _, kv := range kvs {
		var rec ContractRecord
		if err := json.Unmarshal(kv.Value, &rec); err != nil {
			return nil, types.SerializationErr("ContractRecord", err)
		}
		out = append(out, rec)
	}
	// 按创建顺序
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func listCodes(r storage.BadgerReader) ([]CodeRecord, error) {
	kvs, err := r.Range(codePrefix, utils.PrefixEnd(codePrefix), false)
	if err != nil {
		return nil, types.HostErr("listing codes", err)
	}
	out := make([]CodeRecord, 0, len(kvs))
	for _, kv := range kvs {
		var rec CodeRecord
		if err := json.Unmarshal(kv.Value, &rec); err != nil {
			return nil, types.SerializationErr("CodeRecord", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// nextSeq 递增并返回实例序号，从 1 开始
func nextSeq(tx storage.BadgerTransaction) (uint64, error) {
	raw, err := tx.Get(seqKey)
	if err != nil {
		return 0, types.HostErr("reading sequence", err)
	}
	var seq uint64
	if len(raw) == 8 {
		seq = binary.BigEndian.Uint64(raw)
	}
	seq++
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	if err := tx.Set(seqKey, buf); err != nil {
		return 0, types.HostErr("writing sequence", err)
	}
	return seq, nil
}
