package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/msmmarket/matka-admin-platform/internal/admin-api/auth"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/dto"
	"github.com/msmmarket/matka-admin-platform/internal/admin-api/repo"
	"github.com/msmmarket/matka-admin-platform/pkg/contracts/events"
)

// fakeRepo devolve respostas pré-programadas e grava as chamadas recebidas.
type fakeRepo struct {
	approveBalance int64
	approveErr     error
	rejectErr      error
	declareRes     repo.Result
	declareErr     error
	stats          repo.DashboardStats

	approvedIDs []string
	declared    []string
}

func (f *fakeRepo) ListPendingTransactions(ctx context.Context, txType string) ([]repo.PendingTransaction, error) {
	return []repo.PendingTransaction{{ID: "tx-1", UserName: "Ramesh", AmountPaise: 50000, Status: repo.StatusPending}}, nil
}

func (f *fakeRepo) ApproveDeposit(ctx context.Context, txID string) (int64, error) {
	f.approvedIDs = append(f.approvedIDs, txID)
	return f.approveBalance, f.approveErr
}

func (f *fakeRepo) RejectDeposit(ctx context.Context, txID string) error { return f.rejectErr }

func (f *fakeRepo) MarkPayoutProcessing(ctx context.Context, txID string) error { return f.rejectErr }

func (f *fakeRepo) CompletePayout(ctx context.Context, txID string) error { return f.rejectErr }

func (f *fakeRepo) RejectPayout(ctx context.Context, txID string) (int64, error) {
	return f.approveBalance, f.approveErr
}

func (f *fakeRepo) ListPendingResults(ctx context.Context) ([]repo.Result, error) {
	return []repo.Result{{ID: "res-1", MarketName: "Kalyan Morning", Status: "pending"}}, nil
}

func (f *fakeRepo) DeclareResult(ctx context.Context, resultID, openRes, closeRes string) (repo.Result, error) {
	f.declared = append(f.declared, resultID)
	return f.declareRes, f.declareErr
}

func (f *fakeRepo) ListUsers(ctx context.Context, search string) ([]repo.Profile, error) {
	return []repo.Profile{{ID: "user-1", Name: "Ramesh"}}, nil
}

func (f *fakeRepo) GetUserDetails(ctx context.Context, userID string) (*repo.UserDetails, error) {
	return &repo.UserDetails{Profile: repo.Profile{ID: userID}}, nil
}

func (f *fakeRepo) DashboardStats(ctx context.Context) (repo.DashboardStats, error) {
	return f.stats, nil
}

type fakeSessions struct{ sess auth.Session }

func (f fakeSessions) Get(ctx context.Context, token string) (auth.Session, error) {
	if token != "good-token" {
		return auth.Session{}, auth.ErrSessionNotFound
	}
	return f.sess, nil
}

type fakePublisher struct {
	published []events.ResultDeclared
	err       error
}

func (f *fakePublisher) PublishResultDeclared(ctx context.Context, e events.ResultDeclared) error {
	f.published = append(f.published, e)
	return f.err
}

type fakeFeed struct{ msgs []string }

func (f *fakeFeed) Publish(ctx context.Context, kind, message, ref string) error {
	f.msgs = append(f.msgs, message)
	return nil
}

func (f *fakeFeed) Recent(ctx context.Context, n int64) ([]events.Activity, error) {
	return []events.Activity{{Kind: events.ActivityPayment, Message: "Payment approved"}}, nil
}

type fakeStats struct {
	cached *repo.DashboardStats
	sets   int
}

func (f *fakeStats) GetStats(ctx context.Context, dst any) (bool, error) {
	if f.cached == nil {
		return false, nil
	}
	*dst.(*repo.DashboardStats) = *f.cached
	return true, nil
}

func (f *fakeStats) SetStats(ctx context.Context, v any, ttl time.Duration) error {
	f.sets++
	return nil
}

type fixture struct {
	repo  *fakeRepo
	publ  *fakePublisher
	feed  *fakeFeed
	stats *fakeStats
	srv   *httptest.Server
}

func newFixture(t *testing.T, role string) *fixture {
	t.Helper()
	f := &fixture{
		repo:  &fakeRepo{},
		publ:  &fakePublisher{},
		feed:  &fakeFeed{},
		stats: &fakeStats{},
	}
	sessions := fakeSessions{sess: auth.Session{AdminID: "admin-1", Role: role}}
	s := NewServer(zap.NewNop(), f.repo, sessions, f.publ, f.feed, f.stats)
	f.srv = httptest.NewServer(s.Router())
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, f.srv.URL+path, &buf)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRequiresBearerToken(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)

	resp := f.do(t, http.MethodGet, "/v1/payments/pending", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/v1/payments/pending", "bad-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequiresAdminRole(t *testing.T) {
	f := newFixture(t, "user")

	resp := f.do(t, http.MethodPost, "/v1/payments/tx-1/approve", "good-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Empty(t, f.repo.approvedIDs, "handler não pode rodar sem papel admin")
}

func TestApproveDeposit(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)
	f.repo.approveBalance = 150000

	resp := f.do(t, http.MethodPost, "/v1/payments/tx-1/approve", "good-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var out dto.DecisionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "tx-1", out.TransactionID)
	assert.Equal(t, repo.StatusCompleted, out.Status)
	require.NotNil(t, out.BalancePaise)
	assert.Equal(t, int64(150000), *out.BalancePaise)
	assert.Contains(t, f.feed.msgs, "Payment approved and balance credited")
}

func TestApproveDepositConflictMapsTo409(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)
	f.repo.approveErr = repo.ErrConflict

	resp := f.do(t, http.MethodPost, "/v1/payments/tx-1/approve", "good-token", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Empty(t, f.feed.msgs)
}

func TestApproveDepositNotFoundMapsTo404(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)
	f.repo.approveErr = repo.ErrNotFound

	resp := f.do(t, http.MethodPost, "/v1/payments/nope/approve", "good-token", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeclareResultValidatesBeforeWriting(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)

	tests := []struct {
		name string
		body dto.DeclareResultRequest
	}{
		{"both empty", dto.DeclareResultRequest{}},
		{"open too short", dto.DeclareResultRequest{OpenResult: "45"}},
		{"close with letters", dto.DeclareResultRequest{CloseResult: "12a"}},
		{"open too long", dto.DeclareResultRequest{OpenResult: "1234"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := f.do(t, http.MethodPost, "/v1/results/res-1/declare", "good-token", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
	assert.Empty(t, f.repo.declared, "validação falha não pode chegar no banco")
	assert.Empty(t, f.publ.published)
}

func TestDeclareResultPublishesEvent(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)
	f.repo.declareRes = repo.Result{
		ID:          "res-1",
		MarketName:  "Kalyan Morning",
		ResultDate:  "2025-04-01",
		OpenResult:  "123",
		CloseResult: "456",
		Status:      "declared",
	}

	resp := f.do(t, http.MethodPost, "/v1/results/res-1/declare", "good-token",
		dto.DeclareResultRequest{OpenResult: "123", CloseResult: "456"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.Len(t, f.publ.published, 1)
	ev := f.publ.published[0]
	assert.Equal(t, "res-1", ev.ResultID)
	assert.Equal(t, "123", ev.OpenResult)
	assert.Equal(t, "admin-1", ev.DeclaredBy)

	var out dto.DeclareResultResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "declared", out.Status)
}

func TestDeclareResultAmendmentRepublishesMergedNumbers(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)
	// emenda do fechamento: o repo devolve o resultado já com a abertura da manhã
	f.repo.declareRes = repo.Result{
		ID:          "res-1",
		MarketName:  "Kalyan Morning",
		ResultDate:  "2025-04-01",
		OpenResult:  "123",
		CloseResult: "456",
		Status:      "declared",
	}

	resp := f.do(t, http.MethodPost, "/v1/results/res-1/declare", "good-token",
		dto.DeclareResultRequest{CloseResult: "456"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// o evento reemitido carrega os dois números: as apostas de fechamento que
	// ficaram pendentes na primeira declaração agora são liquidáveis
	require.Len(t, f.publ.published, 1)
	assert.Equal(t, "123", f.publ.published[0].OpenResult)
	assert.Equal(t, "456", f.publ.published[0].CloseResult)
}

func TestDeclareResultAlreadyDeclaredIs409(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)
	f.repo.declareErr = repo.ErrConflict

	resp := f.do(t, http.MethodPost, "/v1/results/res-1/declare", "good-token",
		dto.DeclareResultRequest{OpenResult: "123"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Empty(t, f.publ.published, "redeclaração não pode disparar nova liquidação")
}

func TestDashboardStatsCacheAside(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)
	f.repo.stats = repo.DashboardStats{TotalUsers: 42, PendingDeposits: 3}

	// miss: busca no banco e grava no cache
	resp := f.do(t, http.MethodGet, "/v1/dashboard/stats", "good-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var out repo.DashboardStats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 42, out.TotalUsers)
	assert.Equal(t, 1, f.stats.sets)

	// hit: serve direto do cache
	f.stats.cached = &repo.DashboardStats{TotalUsers: 99}
	resp = f.do(t, http.MethodGet, "/v1/dashboard/stats", "good-token", nil)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, 99, out.TotalUsers)
	assert.Equal(t, 1, f.stats.sets, "hit não deve regravar o cache")
}

func TestRecentActivityLimit(t *testing.T) {
	f := newFixture(t, auth.RoleAdmin)

	resp := f.do(t, http.MethodGet, "/v1/dashboard/activity?limit=0", "good-token", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/v1/dashboard/activity?limit=500", "good-token", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/v1/dashboard/activity", "good-token", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
