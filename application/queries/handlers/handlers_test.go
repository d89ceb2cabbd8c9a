package handlers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contrastboard/application/queries"
	"contrastboard/application/queries/bus"
	"contrastboard/application/services"
	"contrastboard/domain/core/aggregates"
	"contrastboard/domain/core/valueobjects"
	"contrastboard/domain/events"
	"contrastboard/pkg/common"
	"contrastboard/pkg/errors"
)

type stubRepo struct {
	sessions []*services.Session
}

func (r *stubRepo) Get(_ context.Context, id aggregates.BoardID) (*services.Session, error) {
	for _, s := range r.sessions {
		if s.ID() == id {
			return s, nil
		}
	}
	return nil, errors.NewNotFoundError("board " + id.String())
}

func (r *stubRepo) Create(context.Context) (*services.Session, error) { return nil, nil }
func (r *stubRepo) List(context.Context) ([]*services.Session, error) { return r.sessions, nil }
func (r *stubRepo) Delete(context.Context, aggregates.BoardID) error  { return nil }

type memLog struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (l *memLog) Handle(_ context.Context, e events.DomainEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	return nil
}

func (l *memLog) CanHandle(string) bool { return true }

func (l *memLog) Recent(_ string, limit int) []events.DomainEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit > 0 && limit < len(l.events) {
		return l.events[len(l.events)-limit:]
	}
	return l.events
}

func (l *memLog) Forget(string) {}

type logPublisher struct{ log *memLog }

func (p logPublisher) Publish(ctx context.Context, e events.DomainEvent) error {
	return p.log.Handle(ctx, e)
}

func (p logPublisher) PublishBatch(ctx context.Context, evts []events.DomainEvent) error {
	for _, e := range evts {
		_ = p.log.Handle(ctx, e)
	}
	return nil
}

type mapCache struct {
	items map[string]interface{}
	hits  int
}

func (c *mapCache) Get(_ context.Context, key string) (interface{}, bool) {
	v, ok := c.items[key]
	if ok {
		c.hits++
	}
	return v, ok
}

func (c *mapCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	c.items[key] = value
	return nil
}

type fixture struct {
	bus     *bus.QueryBus
	session *services.Session
	cache   *mapCache
	log     *memLog
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	log := &memLog{}
	factory := services.NewSessionFactory(nil, logPublisher{log}, nil, nil, zap.NewNop())
	session := factory.New(aggregates.DefaultBoardID)
	repo := &stubRepo{sessions: []*services.Session{session, factory.New("second")}}

	h := NewBoardQueries(repo, log, zap.NewNop())
	cache := &mapCache{items: map[string]interface{}{}}
	b := bus.NewQueryBus(nil)
	require.NoError(t, h.Register(b, bus.NewCachingMiddleware(cache, time.Minute, h.Version)))
	return fixture{bus: b, session: session, cache: cache, log: log}
}

func (f fixture) seed(t *testing.T) (ink, paper valueobjects.NodeID) {
	t.Helper()
	ctx := context.Background()
	ink, _ = f.session.AddNodeWith(ctx, aggregates.NodeSpec{Color: valueobjects.MustHexColor("#000000"), Title: "Ink", Record: true})
	paper, _ = f.session.AddNodeWith(ctx, aggregates.NodeSpec{Color: valueobjects.MustHexColor("#FFFFFF"), Title: "Paper", Record: true})
	require.True(t, f.session.AddConnection(ctx, ink, paper))
	return ink, paper
}

func ask[T any](t *testing.T, f fixture, q bus.Query) T {
	t.Helper()
	out, err := f.bus.Ask(context.Background(), q)
	require.NoError(t, err)
	return out.(T)
}

var scope = queries.BoardScope{BoardID: "default"}

func TestGetBoard(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	view := ask[services.BoardView](t, f, queries.GetBoardQuery{BoardScope: scope})
	assert.Equal(t, 4.5, view.Threshold)
	assert.Len(t, view.Nodes, 2)
	require.Len(t, view.Connections, 1)
	assert.True(t, view.Connections[0].Pass)

	strict := ask[services.BoardView](t, f, queries.GetBoardQuery{BoardScope: scope, Threshold: 7})
	assert.Equal(t, 7.0, strict.Threshold)

	_, err := f.bus.Ask(context.Background(), queries.GetBoardQuery{BoardScope: scope, Threshold: 30})
	assert.True(t, errors.IsValidation(err))
}

func TestGetNodeAndShades(t *testing.T) {
	f := newFixture(t)
	ink, paper := f.seed(t)

	detail := ask[queries.NodeDetail](t, f, queries.GetNodeQuery{BoardScope: scope, NodeID: ink.String()})
	assert.Equal(t, "Ink", detail.Title)
	assert.Equal(t, []string{paper.String()}, detail.Neighbours)

	shades := ask[services.Shades](t, f, queries.GetShadesQuery{BoardScope: scope, NodeID: paper.String()})
	assert.Equal(t, "#FFFFFF", shades.Light)
	assert.Equal(t, "#B2B2B2", shades.Dark)

	_, err := f.bus.Ask(context.Background(), queries.GetNodeQuery{BoardScope: scope, NodeID: "node-404"})
	assert.True(t, errors.IsNotFound(err))
}

func TestHistoryAndValidate(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	hist := ask[queries.HistoryResult](t, f, queries.GetHistoryQuery{BoardScope: scope})
	assert.Equal(t, []string{"addNode", "addNode", "addConnection"}, hist.Kinds)

	result := ask[queries.ValidationResult](t, f, queries.ValidateBoardQuery{BoardScope: scope})
	assert.True(t, result.Consistent)
}

func TestExportIsCachedPerVersion(t *testing.T) {
	f := newFixture(t)
	ink, _ := f.seed(t)
	q := queries.ExportPaletteQuery{BoardScope: scope, Format: "hex", Separator: "comma"}

	first := ask[queries.ExportResult](t, f, q)
	assert.Equal(t, "#000000, #FFFFFF", first.Content)
	again := ask[queries.ExportResult](t, f, q)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, f.cache.hits)

	old := "#000000"
	f.session.ChangeColor(context.Background(), ink, "#FF0000", true, &old)
	changed := ask[queries.ExportResult](t, f, q)
	assert.Equal(t, "#FF0000, #FFFFFF", changed.Content, "a mutation bumps the version past the cached entry")

	_, err := f.bus.Ask(context.Background(), queries.ExportPaletteQuery{BoardScope: scope, Format: "cmyk"})
	assert.True(t, errors.IsValidation(err))
}

func TestGetEvents(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	f.session.Undo(context.Background())

	all := ask[[]queries.EventView](t, f, queries.GetEventsQuery{BoardScope: scope})
	require.Len(t, all, 5)
	assert.Equal(t, events.TypeNodeAdded, all[0].Type)
	assert.Equal(t, events.TypeActionUndone, all[4].Type)

	last := ask[[]queries.EventView](t, f, queries.GetEventsQuery{BoardScope: scope, Limit: 2})
	assert.Equal(t, events.TypeNodesDisconnected, last[0].Type)
}

func TestListBoards(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	page := ask[queries.ListBoardsResult](t, f, queries.ListBoardsQuery{PaginationParams: common.PaginationParams{Page: 1, PageSize: 1}})
	require.Len(t, page.Boards, 1)
	assert.Equal(t, "default", page.Boards[0].BoardID)
	assert.Equal(t, 2, page.Boards[0].Nodes)
	assert.True(t, page.Pagination.HasNext)

	_, err := f.bus.Ask(context.Background(), queries.ListBoardsQuery{})
	assert.True(t, errors.IsValidation(err))
}
