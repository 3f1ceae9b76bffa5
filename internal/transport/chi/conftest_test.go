package chi

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/ragdesk-cloud/ragdesk/internal/domain"
	"github.com/ragdesk-cloud/ragdesk/internal/repository/chatlog"
	healthuc "github.com/ragdesk-cloud/ragdesk/internal/usecase/health"
)

type mockChatter struct {
	chatFn func(ctx context.Context, req domain.ChatRequest) domain.ChatTurn
}

func (m *mockChatter) Chat(ctx context.Context, req domain.ChatRequest) domain.ChatTurn {
	if m.chatFn != nil {
		return m.chatFn(ctx, req)
	}
	return domain.NewChatTurn("ok", domain.CategoryFAQ, 0.8, domain.LangEnglish)
}

type mockReindexer struct {
	started chan string
	release chan struct{}
	err     error
}

func (m *mockReindexer) ClearAndReindex(_ context.Context, dir string) error {
	if m.started != nil {
		m.started <- dir
	}
	if m.release != nil {
		<-m.release
	}
	return m.err
}

type mockDocLister struct {
	docs []domain.SourceDocument
	err  error
}

func (m *mockDocLister) All(_ context.Context) ([]domain.SourceDocument, error) {
	return m.docs, m.err
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report {
	if m.report.Status == "" {
		return healthuc.Report{
			Status: healthuc.Healthy,
			Checks: map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
		}
	}
	return m.report
}

type fixture struct {
	chatter *mockChatter
	reindex *mockReindexer
	docs    *mockDocLister
	log     *chatlog.Store
	health  *mockHealth
	router  *chirouter.Mux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		chatter: &mockChatter{},
		reindex: &mockReindexer{started: make(chan string, 2)},
		docs:    &mockDocLister{},
		log:     chatlog.New(),
		health:  &mockHealth{},
	}
	srv := NewServer(f.chatter, f.reindex, f.docs, f.log, f.health, "/data/docs", zap.NewNop())
	f.router = chirouter.NewRouter()
	srv.Routes(f.router)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}
