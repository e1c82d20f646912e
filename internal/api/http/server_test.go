package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weisyn/seints-row/contracts/seintsrow"
	apitypes "github.com/weisyn/seints-row/internal/api/types"
	apiconfig "github.com/weisyn/seints-row/internal/config/api"
	hostconfig "github.com/weisyn/seints-row/internal/config/host"
	badgerconfig "github.com/weisyn/seints-row/internal/config/storage/badger"
	"github.com/weisyn/seints-row/internal/core/host"
	"github.com/weisyn/seints-row/internal/core/infrastructure/crypto/address"
	eventimpl "github.com/weisyn/seints-row/internal/core/infrastructure/event"
	logimpl "github.com/weisyn/seints-row/internal/core/infrastructure/log"
	metricsimpl "github.com/weisyn/seints-row/internal/core/infrastructure/metrics"
	badgerstore "github.com/weisyn/seints-row/internal/core/infrastructure/storage/badger"
	"github.com/weisyn/seints-row/pkg/types"
)

type gateway struct {
	server *Server
	host   *host.Host
	bus    *eventimpl.EventBus
	reg    *prometheus.Registry
	codeID uint64
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	store, err := badgerstore.New(badgerconfig.NewInMemory(), logimpl.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	reg := prometheus.NewRegistry()
	recorder, err := metricsimpl.NewContractMetrics("seints", reg)
	require.NoError(t, err)
	bus := eventimpl.New(nil)
	h := host.New(host.Deps{
		Store:    store,
		Addrs:    address.NewAddressService(address.DefaultVersion),
		Config:   hostconfig.New(nil),
		Bus:      bus,
		Recorder: recorder,
		Logger:   logimpl.NewNop(),
	})
	codeID, err := h.StoreCode(context.Background(), seintsrow.Code())
	require.NoError(t, err)

	server, err := NewServer(Deps{
		Config:    apiconfig.New(nil),
		Host:      h,
		Bus:       bus,
		Registry:  reg,
		Namespace: "seints",
		Logger:    logimpl.NewNop(),
	})
	require.NoError(t, err)
	return &gateway{server: server, host: h, bus: bus, reg: reg, codeID: codeID}
}

func (g *gateway) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	g.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (g *gateway) addr(name string) string {
	return g.host.AccountAddress(name).String()
}

func (g *gateway) instantiate(t *testing.T) string {
	t.Helper()
	owner := g.addr("owner")
	rec := g.do(t, http.MethodPost, "/api/v1/contracts", map[string]interface{}{
		"code_id": g.codeID,
		"sender":  owner,
		"admin":   owner,
		"label":   "seints row",
		"msg": map[string]interface{}{
			"name": "Seints Row", "symbol": "SEINT", "decimals": 6, "initial_supply": "1000000",
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var res struct {
		Address string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	require.NotEmpty(t, res.Address)
	return res.Address
}

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) apitypes.ProblemDetails {
	t.Helper()
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	var pd apitypes.ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pd))
	return pd
}

func TestHealth(t *testing.T) {
	g := newGateway(t)
	rec := g.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","chain_id":"seints-local","height":1}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestContractLifecycle(t *testing.T) {
	g := newGateway(t)
	contract := g.instantiate(t)
	owner := g.addr("owner")
	bob := g.addr("bob")

	rec := g.do(t, http.MethodGet, "/api/v1/contracts/"+contract, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"label":"seints row"`)

	rec = g.do(t, http.MethodPost, "/api/v1/contracts/"+contract+"/execute", map[string]interface{}{
		"sender": owner,
		"msg":    map[string]interface{}{"transfer": map[string]string{"recipient": bob, "amount": "250"}},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"transfer"`)

	rec = g.do(t, http.MethodPost, "/api/v1/contracts/"+contract+"/query", map[string]interface{}{
		"msg": map[string]interface{}{"balance": map[string]string{"address": bob}},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"balance":"250"}`, rec.Body.String())

	rec = g.do(t, http.MethodGet, "/api/v1/contracts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []host.ContractRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, types.Addr(contract), list[0].Address)

	rec = g.do(t, http.MethodGet, "/api/v1/contracts/"+contract+"/state", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var state []map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.NotEmpty(t, state)

	rec = g.do(t, http.MethodPost, "/api/v1/contracts/"+contract+"/admin", map[string]string{"sender": owner, "admin": bob})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), bob)
}

func TestErrorsAsProblemDetails(t *testing.T) {
	g := newGateway(t)
	contract := g.instantiate(t)

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
		status int
		code   string
	}{
		{"未知合约", http.MethodGet, "/api/v1/contracts/missing", nil, http.StatusNotFound, "not_found"},
		{"缺少msg", http.MethodPost, "/api/v1/contracts/" + contract + "/execute",
			map[string]string{"sender": g.addr("owner")}, http.StatusBadRequest, "invalid_input"},
		{"缺少sender", http.MethodPost, "/api/v1/contracts/" + contract + "/execute",
			map[string]interface{}{"msg": map[string]interface{}{}}, http.StatusBadRequest, "invalid_input"},
		{"余额不足", http.MethodPost, "/api/v1/contracts/" + contract + "/execute", map[string]interface{}{
			"sender": g.addr("bob"),
			"msg":    map[string]interface{}{"burn": map[string]string{"amount": "1"}},
		}, http.StatusBadRequest, "invalid_input"},
		{"非管理员迁移", http.MethodPost, "/api/v1/contracts/" + contract + "/migrate",
			map[string]interface{}{"sender": g.addr("bob"), "code_id": g.codeID}, http.StatusForbidden, "unauthorized"},
		{"limit无效", http.MethodGet, "/api/v1/events?limit=-1", nil, http.StatusBadRequest, "invalid_input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := g.do(t, tt.method, tt.path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			pd := decodeProblem(t, rec)
			assert.Equal(t, tt.code, pd.Code)
			assert.Equal(t, rec.Header().Get("X-Request-ID"), pd.TraceID)
		})
	}
}

func TestBlockAndEvents(t *testing.T) {
	g := newGateway(t)
	g.instantiate(t)

	rec := g.do(t, http.MethodPost, "/api/v1/block/next", map[string]uint64{"blocks": 3})
	require.Equal(t, http.StatusOK, rec.Code)
	var block types.BlockInfo
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &block))
	assert.Equal(t, uint64(4), block.Height)

	rec = g.do(t, http.MethodPost, "/api/v1/block/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &block))
	assert.Equal(t, uint64(5), block.Height)

	rec = g.do(t, http.MethodGet, "/api/v1/events?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []types.ContractEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, types.EventTypeBlockAdvanced, events[1].Type)
}

func TestMetricsEndpoint(t *testing.T) {
	g := newGateway(t)
	g.instantiate(t)
	g.do(t, http.MethodGet, "/api/v1/codes", nil)

	rec := g.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `seints_contract_calls_total{entry="instantiate",result="ok"} 1`)
	assert.Contains(t, body, `seints_api_requests_total{method="GET",path="/api/v1/codes",status="200"} 1`)
}

func TestWebSocketEvents(t *testing.T) {
	g := newGateway(t)
	contract := g.instantiate(t)
	require.NoError(t, g.server.Hub().Start())
	t.Cleanup(func() { _ = g.server.Hub().Stop() })

	ts := httptest.NewServer(g.server.Handler())
	defer ts.Close()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/events?type=contract.executed,contract.instantiated&replay=10"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	var replayed types.ContractEvent
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&replayed))
	assert.Equal(t, types.EventTypeContractInstantiated, replayed.Type)

	// 区块事件被过滤
	_, err = g.host.NextBlock(context.Background(), 1)
	require.NoError(t, err)
	_, err = g.host.Execute(context.Background(), contract, g.addr("owner"),
		[]byte(`{"transfer":{"recipient":"`+g.addr("bob")+`","amount":"1"}}`))
	require.NoError(t, err)

	var live types.ContractEvent
	require.NoError(t, conn.ReadJSON(&live))
	assert.Equal(t, types.EventTypeContractExecuted, live.Type)
	assert.Equal(t, types.Addr(contract), live.Contract)
	assert.NotEqual(t, replayed.ID, live.ID)
}

func TestWebSocketRejectsBadReplay(t *testing.T) {
	g := newGateway(t)
	rec := g.do(t, http.MethodGet, "/ws/events?replay=x", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_input", decodeProblem(t, rec).Code)
}
