package repository

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"TradeNet/internal/domain/models"
	domrepo "TradeNet/internal/domain/repository"
	fsconn "TradeNet/pkg/firestore"
	"TradeNet/pkg/logger"
)

const (
	marketDataRoot   = "market_data"
	defaultChunkSize = 500
	defaultReadLimit = 1000
	defaultOrderBy   = "timestamp"
)

// writeBatcher abstracts one atomic multi-document commit against the remote
// store.
type writeBatcher interface {
	set(docPath string, data models.Fields)
	commit(ctx context.Context) error
}

// FirestoreMarketStore implements repository.MarketDataStore on Firestore.
// Records live under {prefix}/market_data/{symbol}/{timeframe}/{timestamp},
// with the symbol's "/" replaced by "_" in the path and kept intact in the
// document body.
type FirestoreMarketStore struct {
	conn      *fsconn.Conn
	log       *logger.Logger
	metrics   domrepo.Metrics
	prefix    string
	chunkSize int

	newBatch func(ctx context.Context) (writeBatcher, error)
	runQuery func(ctx context.Context, collPath, orderBy string, limit int) ([]models.Fields, error)
}

// NewFirestoreMarketStore creates the market-data store. chunkSize bounds the
// number of documents per atomic commit when the caller does not pass one.
func NewFirestoreMarketStore(conn *fsconn.Conn, log *logger.Logger, metrics domrepo.Metrics, prefix string, chunkSize int) *FirestoreMarketStore {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	s := &FirestoreMarketStore{
		conn:      conn,
		log:       log,
		metrics:   metrics,
		prefix:    prefix,
		chunkSize: chunkSize,
	}
	s.newBatch = s.firestoreBatch
	s.runQuery = s.firestoreQuery
	return s
}

// collectionPath is the partition path for one (symbol, timeframe) pair.
func (s *FirestoreMarketStore) collectionPath(symbol string, tf domrepo.Timeframe) string {
	return s.prefix + "/" + marketDataRoot + "/" + models.SymbolPathSegment(symbol) + "/" + string(tf)
}

// WriteMarketData upserts records into the partition, committing every
// batchSize documents plus one trailing partial commit. Each commit is
// atomic; the call as a whole is not, so a failure partway leaves earlier
// commits durably applied. Records are iterated in ascending timestamp order.
func (s *FirestoreMarketStore) WriteMarketData(ctx context.Context, symbol string, tf domrepo.Timeframe, records map[int64]models.Fields, batchSize int) bool {
	if len(records) == 0 {
		return true
	}
	if batchSize <= 0 {
		batchSize = s.chunkSize
	}
	start := time.Now()
	collPath := s.collectionPath(symbol, tf)

	timestamps := make([]int64, 0, len(records))
	for ts := range records {
		timestamps = append(timestamps, ts)
	}
	sort.Slice(timestamps, func(i, j int) bool { return timestamps[i] < timestamps[j] })

	batch, err := s.newBatch(ctx)
	if err != nil {
		s.fail("write", symbol, tf, err)
		return false
	}

	count := 0
	for _, ts := range timestamps {
		docPath := collPath + "/" + strconv.FormatInt(ts, 10)
		batch.set(docPath, buildDocument(symbol, tf, ts, records[ts]))
		count++

		if count >= batchSize {
			if err := s.commit(ctx, batch); err != nil {
				s.fail("write", symbol, tf, err)
				return false
			}
			if batch, err = s.newBatch(ctx); err != nil {
				s.fail("write", symbol, tf, err)
				return false
			}
			count = 0
		}
	}

	if count > 0 {
		if err := s.commit(ctx, batch); err != nil {
			s.fail("write", symbol, tf, err)
			return false
		}
	}

	s.metrics.RecordCandlesWritten(symbol, string(tf), len(records))
	s.metrics.RecordLatency("write_market_data", time.Since(start).Seconds())
	s.log.Info("market data written",
		logger.String("symbol", symbol),
		logger.String("timeframe", string(tf)),
		logger.Int("records", len(records)))
	return true
}

// ReadMarketData returns at most limit records from the partition, sorted
// descending on orderBy. An empty partition yields an empty slice; a
// database-layer failure is logged and also yields an empty slice, so callers
// distinguish the two through logs, not return values.
func (s *FirestoreMarketStore) ReadMarketData(ctx context.Context, symbol string, tf domrepo.Timeframe, limit int, orderBy string) []models.Fields {
	if limit <= 0 {
		limit = defaultReadLimit
	}
	if orderBy == "" {
		orderBy = defaultOrderBy
	}
	start := time.Now()

	qctx, cancel := context.WithTimeout(ctx, s.conn.Timeout())
	defer cancel()

	rows, err := s.runQuery(qctx, s.collectionPath(symbol, tf), orderBy, limit)
	if err != nil {
		s.fail("read", symbol, tf, err)
		return []models.Fields{}
	}
	if rows == nil {
		rows = []models.Fields{}
	}

	s.metrics.RecordLatency("read_market_data", time.Since(start).Seconds())
	return rows
}

// Health verifies the underlying connection.
func (s *FirestoreMarketStore) Health(ctx context.Context) error {
	return s.conn.Health(ctx)
}

// Close closes the shared connection.
func (s *FirestoreMarketStore) Close() error {
	return s.conn.Close()
}

// commit applies one batch under the per-call network timeout.
func (s *FirestoreMarketStore) commit(ctx context.Context, b writeBatcher) error {
	cctx, cancel := context.WithTimeout(ctx, s.conn.Timeout())
	defer cancel()
	return b.commit(cctx)
}

func (s *FirestoreMarketStore) fail(op, symbol string, tf domrepo.Timeframe, err error) {
	s.metrics.RecordError("store")
	s.log.Error("market data "+op+" failed",
		logger.String("symbol", symbol),
		logger.String("timeframe", string(tf)),
		logger.Error(err))
}

// buildDocument shapes one stored document: caller fields plus symbol,
// timeframe, timestamp and a server-assigned updated_at. Documents are
// written with a full replace, never a merge, so a re-write at an existing
// timestamp keeps no stale fields from the prior write.
func buildDocument(symbol string, tf domrepo.Timeframe, ts int64, fields models.Fields) models.Fields {
	doc := make(models.Fields, len(fields)+4)
	for k, v := range fields {
		doc[k] = v
	}
	doc["symbol"] = symbol
	doc["timeframe"] = string(tf)
	doc["timestamp"] = ts
	doc["updated_at"] = fs.ServerTimestamp
	return doc
}

// --- Firestore-backed implementations of the seams ---

type fsBatch struct {
	client *fs.Client
	batch  *fs.WriteBatch
	err    error
}

func (s *FirestoreMarketStore) firestoreBatch(ctx context.Context) (writeBatcher, error) {
	client, err := s.conn.Client(ctx)
	if err != nil {
		return nil, err
	}
	return &fsBatch{client: client, batch: client.Batch()}, nil
}

func (b *fsBatch) set(docPath string, data models.Fields) {
	ref := resolveDoc(b.client, docPath)
	if ref == nil {
		b.err = fmt.Errorf("invalid document path %q", docPath)
		return
	}
	b.batch.Set(ref, map[string]interface{}(data))
}

func (b *fsBatch) commit(ctx context.Context) error {
	if b.err != nil {
		return b.err
	}
	_, err := b.batch.Commit(ctx)
	return err
}

// resolveDoc splits a slash path into its collection path and document id.
func resolveDoc(client *fs.Client, docPath string) *fs.DocumentRef {
	i := strings.LastIndexByte(docPath, '/')
	if i <= 0 || i == len(docPath)-1 {
		return nil
	}
	coll := client.Collection(docPath[:i])
	if coll == nil {
		return nil
	}
	return coll.Doc(docPath[i+1:])
}

func (s *FirestoreMarketStore) firestoreQuery(ctx context.Context, collPath, orderBy string, limit int) ([]models.Fields, error) {
	client, err := s.conn.Client(ctx)
	if err != nil {
		return nil, err
	}
	coll := client.Collection(collPath)
	if coll == nil {
		return nil, fmt.Errorf("invalid collection path %q", collPath)
	}

	iter := coll.OrderBy(orderBy, fs.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	out := make([]models.Fields, 0, limit)
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, models.Fields(doc.Data()))
	}
	return out, nil
}
