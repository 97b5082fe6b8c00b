package repository

import (
	"context"
	"errors"
	"sort"
	"testing"

	fs "cloud.google.com/go/firestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TradeNet/internal/domain/models"
	domrepo "TradeNet/internal/domain/repository"
	fsconn "TradeNet/pkg/firestore"
	"TradeNet/pkg/logger"
)

// fakeRemote stands in for Firestore: batches stage documents, a successful
// commit makes them durable, a failed commit leaves the durable set untouched.
type fakeRemote struct {
	docs     map[string]models.Fields
	commits  []int // sizes of successful commits
	attempts int
	failAt   int // 1-based attempt index that fails; 0 = never
	batchErr error
	queryErr error
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{docs: make(map[string]models.Fields)}
}

func (r *fakeRemote) newBatch(ctx context.Context) (writeBatcher, error) {
	if r.batchErr != nil {
		return nil, r.batchErr
	}
	return &fakeBatch{remote: r, staged: make(map[string]models.Fields)}, nil
}

func (r *fakeRemote) query(ctx context.Context, collPath, orderBy string, limit int) ([]models.Fields, error) {
	if r.queryErr != nil {
		return nil, r.queryErr
	}
	var rows []models.Fields
	for path, doc := range r.docs {
		if len(path) > len(collPath) && path[:len(collPath)+1] == collPath+"/" {
			rows = append(rows, doc)
		}
	}
	sort.Slice(rows, func(i, j int) bool {
		return fieldValue(rows[i], orderBy) > fieldValue(rows[j], orderBy)
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func fieldValue(doc models.Fields, key string) float64 {
	switch v := doc[key].(type) {
	case int64:
		return float64(v)
	case float64:
		return v
	default:
		return 0
	}
}

type fakeBatch struct {
	remote *fakeRemote
	staged map[string]models.Fields
}

func (b *fakeBatch) set(docPath string, data models.Fields) {
	b.staged[docPath] = data
}

func (b *fakeBatch) commit(ctx context.Context) error {
	b.remote.attempts++
	if b.remote.failAt > 0 && b.remote.attempts == b.remote.failAt {
		return errors.New("deadline exceeded")
	}
	for path, doc := range b.staged {
		b.remote.docs[path] = doc
	}
	b.remote.commits = append(b.remote.commits, len(b.staged))
	return nil
}

type stubMetrics struct {
	written int
	errors  int
}

func (m *stubMetrics) RecordCandlesWritten(symbol, tf string, n int) { m.written += n }
func (m *stubMetrics) RecordError(kind string)                      { m.errors++ }
func (m *stubMetrics) RecordLastClose(symbol string, close float64) {}
func (m *stubMetrics) RecordLatency(op string, seconds float64)     {}

func newTestStore(t *testing.T, remote *fakeRemote, chunkSize int) (*FirestoreMarketStore, *stubMetrics) {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stdout"})
	require.NoError(t, err)

	m := &stubMetrics{}
	s := NewFirestoreMarketStore(fsconn.NewConn(), l, m, "trading_system", chunkSize)
	s.newBatch = remote.newBatch
	s.runQuery = remote.query
	return s, m
}

func TestWriteTwoRecordsOneCommit(t *testing.T) {
	remote := newFakeRemote()
	s, m := newTestStore(t, remote, 500)

	ok := s.WriteMarketData(context.Background(), "BTC/USDT", domrepo.TF1h, map[int64]models.Fields{
		1000: {"open": 1.0, "close": 2.0},
		2000: {"open": 3.0, "close": 4.0},
	}, 500)

	require.True(t, ok)
	assert.Equal(t, []int{2}, remote.commits)
	assert.Equal(t, 2, m.written)

	doc, found := remote.docs["trading_system/market_data/BTC_USDT/1h/1000"]
	require.True(t, found)
	assert.Equal(t, "BTC/USDT", doc["symbol"])
	assert.Equal(t, "1h", doc["timeframe"])
	assert.Equal(t, int64(1000), doc["timestamp"])
	assert.Equal(t, fs.ServerTimestamp, doc["updated_at"])
	assert.Equal(t, 1.0, doc["open"])
	assert.Equal(t, 2.0, doc["close"])

	_, found = remote.docs["trading_system/market_data/BTC_USDT/1h/2000"]
	assert.True(t, found)
}

func TestWriteOverwriteKeepsNoStaleFields(t *testing.T) {
	remote := newFakeRemote()
	s, _ := newTestStore(t, remote, 500)
	ctx := context.Background()

	require.True(t, s.WriteMarketData(ctx, "BTC/USDT", domrepo.TF1h, map[int64]models.Fields{
		1000: {"open": 1.0, "close": 2.0, "volume": 42.0},
		2000: {"open": 3.0, "close": 4.0},
	}, 500))
	require.True(t, s.WriteMarketData(ctx, "BTC/USDT", domrepo.TF1h, map[int64]models.Fields{
		1000: {"open": 9.0, "close": 9.0},
	}, 500))

	doc := remote.docs["trading_system/market_data/BTC_USDT/1h/1000"]
	assert.Equal(t, 9.0, doc["open"])
	assert.Equal(t, 9.0, doc["close"])
	_, stale := doc["volume"]
	assert.False(t, stale, "overwrite must not merge fields from the prior write")

	other := remote.docs["trading_system/market_data/BTC_USDT/1h/2000"]
	assert.Equal(t, 3.0, other["open"])
}

func TestWriteChunksIntoBatches(t *testing.T) {
	remote := newFakeRemote()
	s, _ := newTestStore(t, remote, 500)

	records := make(map[int64]models.Fields, 1050)
	for i := int64(0); i < 1050; i++ {
		records[1000+i*60] = models.Fields{"close": float64(i)}
	}

	require.True(t, s.WriteMarketData(context.Background(), "ETH/USDT", domrepo.TF4h, records, 500))
	assert.Equal(t, []int{500, 500, 50}, remote.commits)
	assert.Len(t, remote.docs, 1050)
}

func TestWriteZeroBatchSizeUsesChunkSize(t *testing.T) {
	remote := newFakeRemote()
	s, _ := newTestStore(t, remote, 2)

	records := map[int64]models.Fields{
		1: {}, 2: {}, 3: {}, 4: {}, 5: {},
	}
	require.True(t, s.WriteMarketData(context.Background(), "BNB/USDT", domrepo.TF1d, records, 0))
	assert.Equal(t, []int{2, 2, 1}, remote.commits)
}

func TestWritePartialFailureKeepsEarlierBatches(t *testing.T) {
	remote := newFakeRemote()
	remote.failAt = 2
	s, m := newTestStore(t, remote, 500)

	records := make(map[int64]models.Fields, 1200)
	for i := int64(0); i < 1200; i++ {
		records[i] = models.Fields{"close": float64(i)}
	}

	ok := s.WriteMarketData(context.Background(), "BTC/USDT", domrepo.TF1h, records, 500)
	assert.False(t, ok)
	assert.Equal(t, []int{500}, remote.commits, "only the first batch committed")
	assert.Len(t, remote.docs, 500)
	assert.Equal(t, 1, m.errors)
	assert.Zero(t, m.written, "failed writes are not counted")
}

func TestWriteEmptyRecords(t *testing.T) {
	remote := newFakeRemote()
	s, _ := newTestStore(t, remote, 500)

	assert.True(t, s.WriteMarketData(context.Background(), "BTC/USDT", domrepo.TF1h, nil, 500))
	assert.Empty(t, remote.commits)
}

func TestWriteNotInitialized(t *testing.T) {
	remote := newFakeRemote()
	remote.batchErr = errors.New("firestore init: bad credentials")
	s, m := newTestStore(t, remote, 500)

	for i := 0; i < 2; i++ {
		ok := s.WriteMarketData(context.Background(), "BTC/USDT", domrepo.TF1h,
			map[int64]models.Fields{1000: {"close": 1.0}}, 500)
		assert.False(t, ok)
	}
	assert.Equal(t, 2, m.errors)
}

func TestReadNewestFirstWithLimit(t *testing.T) {
	remote := newFakeRemote()
	s, _ := newTestStore(t, remote, 500)
	ctx := context.Background()

	records := make(map[int64]models.Fields, 5)
	for i := int64(1); i <= 5; i++ {
		records[i*1000] = models.Fields{"close": float64(i)}
	}
	require.True(t, s.WriteMarketData(ctx, "BTC/USDT", domrepo.TF1h, records, 500))

	rows := s.ReadMarketData(ctx, "BTC/USDT", domrepo.TF1h, 3, "timestamp")
	require.Len(t, rows, 3)
	assert.Equal(t, int64(5000), rows[0]["timestamp"])
	assert.Equal(t, int64(4000), rows[1]["timestamp"])
	assert.Equal(t, int64(3000), rows[2]["timestamp"])
}

func TestReadEmptyPartition(t *testing.T) {
	remote := newFakeRemote()
	s, m := newTestStore(t, remote, 500)

	rows := s.ReadMarketData(context.Background(), "BTC/USDT", domrepo.TF1h, 0, "")
	require.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Zero(t, m.errors, "no data is not an error")
}

func TestReadFailureReturnsEmptyAndRecordsError(t *testing.T) {
	remote := newFakeRemote()
	remote.queryErr = errors.New("unavailable")
	s, m := newTestStore(t, remote, 500)

	rows := s.ReadMarketData(context.Background(), "BTC/USDT", domrepo.TF1h, 10, "timestamp")
	require.NotNil(t, rows)
	assert.Empty(t, rows)
	assert.Equal(t, 1, m.errors)
}

func TestReadDefaultsApplied(t *testing.T) {
	var gotPath, gotOrder string
	var gotLimit int

	remote := newFakeRemote()
	s, _ := newTestStore(t, remote, 500)
	s.runQuery = func(ctx context.Context, collPath, orderBy string, limit int) ([]models.Fields, error) {
		gotPath, gotOrder, gotLimit = collPath, orderBy, limit
		return nil, nil
	}

	rows := s.ReadMarketData(context.Background(), "ETH/USDT", domrepo.TF1d, 0, "")
	assert.Empty(t, rows)
	assert.Equal(t, "trading_system/market_data/ETH_USDT/1d", gotPath)
	assert.Equal(t, "timestamp", gotOrder)
	assert.Equal(t, 1000, gotLimit)
}

func TestCollectionPathSanitizesSymbol(t *testing.T) {
	remote := newFakeRemote()
	s, _ := newTestStore(t, remote, 500)

	assert.Equal(t, "trading_system/market_data/BTC_USDT/1h", s.collectionPath("BTC/USDT", domrepo.TF1h))
	assert.Equal(t, "trading_system/market_data/SOLUSDT/4h", s.collectionPath("SOLUSDT", domrepo.TF4h))
}
