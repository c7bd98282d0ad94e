package comparison

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"envcompare/core/compare"
	"envcompare/core/database"
	"envcompare/core/environment"
	"envcompare/core/export"
	"envcompare/core/storage"
	"envcompare/core/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	// ErrInvalidRequest is returned for requests missing required input.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrStorageDisabled is returned by export storage operations when no
	// report store is configured.
	ErrStorageDisabled = errors.New("export storage is not configured")
)

// Connections hands out database handles per environment.
type Connections interface {
	Acquire(ctx context.Context, name string) (*gorm.DB, error)
	Release(name string, db *gorm.DB)
}

// KeySource tells where the key fields of a comparison came from.
type KeySource string

const (
	// KeyExplicit means the caller named the key fields.
	KeyExplicit KeySource = "explicit"
	// KeyPrimaryKey means the table's primary key was used.
	KeyPrimaryKey KeySource = "primary_key"
	// KeyFirstColumn means no key was known and the first column was used.
	KeyFirstColumn KeySource = "first_column"
)

// Outcome is a comparison result with the key it was aligned on.
type Outcome struct {
	Result    *compare.Result
	KeyFields []string
	KeySource KeySource
}

// ExportFile is a serialized comparison result.
type ExportFile struct {
	Filename    string
	ContentType string
	Content     []byte
	// ObjectKey is set when the file was uploaded to storage.
	ObjectKey string
}

// Dependencies are the collaborators of a Service. Reports may be nil, in
// which case uploads and stored export operations fail with ErrStorageDisabled.
type Dependencies struct {
	Connections  Connections
	Environments *environment.Registry
	Cache        *database.MetadataCache
	Reports      *storage.ReportStore
	Logger       *zap.Logger
	Now          func() time.Time
}

// Service runs comparisons between environments.
type Service struct {
	conns   Connections
	envs    *environment.Registry
	cache   *database.MetadataCache
	reports *storage.ReportStore
	engine  *compare.Engine
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a comparison service.
func NewService(cfg Config, deps Dependencies) *Service {
	s := &Service{
		conns:   deps.Connections,
		envs:    deps.Environments,
		cache:   deps.Cache,
		reports: deps.Reports,
		cfg:     cfg,
		logger:  deps.Logger,
		now:     deps.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.cache == nil {
		s.cache = database.NewMetadataCache(cfg.MetadataTTL())
	}
	s.engine = compare.New(compare.Options{
		DisplayKeyLimit: cfg.DisplayKeyLimit,
		Now:             s.now,
		Logger:          s.logger,
	})
	return s
}

// Engine returns the comparison engine used by the service.
func (s *Service) Engine() *compare.Engine {
	return s.engine
}

// Environments returns the known environments sorted by name.
func (s *Service) Environments() []environment.Environment {
	if s.envs == nil {
		return []environment.Environment{}
	}
	return s.envs.List()
}

func (s *Service) withConn(ctx context.Context, env string, fn func(db *gorm.DB) error) error {
	db, err := s.conns.Acquire(ctx, env)
	if err != nil {
		return err
	}
	defer s.conns.Release(env, db)
	return fn(db)
}

// Metadata returns the columns and primary key of table in env, reading
// them through the metadata cache. table must already be normalized.
func (s *Service) Metadata(ctx context.Context, env, table string) (*database.TableMetadata, error) {
	var meta *database.TableMetadata
	err := s.withConn(ctx, env, func(db *gorm.DB) error {
		m, err := s.cache.GetOrLoad(ctx, env, table, func(ctx context.Context) (*database.TableMetadata, error) {
			m, err := database.InspectTable(ctx, db, env, table)
			if err != nil {
				return nil, err
			}
			if len(m.Columns) == 0 {
				return nil, fmt.Errorf("%w: table %s not found in %s", ErrInvalidRequest, table, env)
			}
			return m, nil
		})
		meta = m
		return err
	})
	return meta, err
}

// fetchOptions caps the requested row limit at the configured one.
func (s *Service) fetchOptions(requested int) database.FetchOptions {
	limit := s.cfg.MaxRows
	if requested > 0 && (limit <= 0 || requested < limit) {
		limit = requested
	}
	return database.FetchOptions{MaxRows: limit, MaxValueLength: s.cfg.MaxValueLength}
}

// both runs fn for the two environments concurrently. The first error
// cancels the other side and is returned.
func both(ctx context.Context, envA, envB string, fn func(ctx context.Context, side int, env string) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for side, env := range [2]string{envA, envB} {
		side, env := side, env
		g.Go(func() error {
			return fn(gctx, side, env)
		})
	}
	return g.Wait()
}

// keyList splits comma separated entries and trims every name.
func keyList(entries []string) []string {
	var out []string
	for _, e := range entries {
		out = append(out, utils.SplitList(e)...)
	}
	return out
}

func requireSources(a, b string) error {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return fmt.Errorf("%w: source_a and source_b are required", ErrInvalidRequest)
	}
	return nil
}

func (s *Service) warnFirstColumn(mode string, key string) {
	s.logger.Warn("No key fields given or discovered, falling back to the first column",
		zap.String("mode", mode),
		zap.String("key_field", key),
	)
}

// TableRequest compares a table between two environments.
type TableRequest struct {
	SourceA   string   `json:"source_a"`
	SourceB   string   `json:"source_b"`
	Schema    string   `json:"schema"`
	Table     string   `json:"table"`
	Where     string   `json:"where"`
	Fields    []string `json:"fields"`
	KeyFields []string `json:"key_fields"`
	MaxRows   int      `json:"max_rows"`
}

// CompareTable fetches the same table from both environments and compares
// the rows. The key is the explicit key fields, else the primary key, else
// the first selected column.
func (s *Service) CompareTable(ctx context.Context, req TableRequest) (*Outcome, error) {
	if err := requireSources(req.SourceA, req.SourceB); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Table) == "" {
		return nil, fmt.Errorf("%w: table is required", ErrInvalidRequest)
	}

	table, err := database.NormalizeIdentifier(database.QualifiedName(strings.TrimSpace(req.Schema), strings.TrimSpace(req.Table)))
	if err != nil {
		return nil, err
	}
	fields, err := database.NormalizeIdentifiers(req.Fields)
	if err != nil {
		return nil, err
	}
	explicit, err := database.NormalizeIdentifiers(keyList(req.KeyFields))
	if err != nil {
		return nil, err
	}
	if err := database.ValidateWhere(req.Where); err != nil {
		return nil, err
	}

	var metas [2]*database.TableMetadata
	err = both(ctx, req.SourceA, req.SourceB, func(ctx context.Context, side int, env string) error {
		meta, err := s.Metadata(ctx, env, table)
		if err != nil {
			return err
		}
		metas[side] = meta
		return nil
	})
	if err != nil {
		return nil, err
	}

	keys, source := explicit, KeyExplicit
	if len(keys) == 0 {
		keys, source = tableKey(metas[0], metas[1], fields)
		if source == KeyFirstColumn {
			s.warnFirstColumn("table", keys[0])
		}
	}

	query := database.TableQuery{
		Table:   table,
		Fields:  withKeys(fields, keys),
		Where:   req.Where,
		OrderBy: keys,
	}
	opts := s.fetchOptions(req.MaxRows)

	var sets [2]*database.RowSet
	err = both(ctx, req.SourceA, req.SourceB, func(ctx context.Context, side int, env string) error {
		return s.withConn(ctx, env, func(db *gorm.DB) error {
			set, err := database.FetchTable(ctx, db, query, opts)
			if err != nil {
				return fmt.Errorf("failed to fetch %s from %s: %w", table, env, err)
			}
			sets[side] = set
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return s.finish("table", compare.Input{
		SourceAName:   req.SourceA,
		SourceBName:   req.SourceB,
		RecordsA:      sets[0].Records,
		RecordsB:      sets[1].Records,
		KeyFields:     keys,
		CompareFields: fields,
	}, source), nil
}

// tableKey picks the primary key of the first environment that has one, or
// the first selected column.
func tableKey(a, b *database.TableMetadata, fields []string) ([]string, KeySource) {
	if len(a.PrimaryKey) > 0 {
		return a.PrimaryKey, KeyPrimaryKey
	}
	if len(b.PrimaryKey) > 0 {
		return b.PrimaryKey, KeyPrimaryKey
	}
	if len(fields) > 0 {
		return fields[:1], KeyFirstColumn
	}
	return []string{a.Columns[0].Field}, KeyFirstColumn
}

// withKeys prepends the key fields missing from a restricted field list.
func withKeys(fields, keys []string) []string {
	if len(fields) == 0 {
		return nil
	}
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		present[f] = true
	}
	out := make([]string, 0, len(fields)+len(keys))
	for _, k := range keys {
		if !present[k] {
			out = append(out, k)
			present[k] = true
		}
	}
	return append(out, fields...)
}

// QueryRequest compares the result of a raw SELECT between two environments.
type QueryRequest struct {
	SourceA   string   `json:"source_a"`
	SourceB   string   `json:"source_b"`
	SQL       string   `json:"sql"`
	KeyFields []string `json:"key_fields"`
	MaxRows   int      `json:"max_rows"`
}

// CompareQuery runs a read-only query in both environments and compares the
// rows. Without key fields the first result column is the key.
func (s *Service) CompareQuery(ctx context.Context, req QueryRequest) (*Outcome, error) {
	if err := requireSources(req.SourceA, req.SourceB); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SQL) == "" {
		return nil, fmt.Errorf("%w: sql is required", ErrInvalidRequest)
	}
	if _, err := database.ValidateSelect(req.SQL); err != nil {
		return nil, err
	}

	opts := s.fetchOptions(req.MaxRows)

	var sets [2]*database.RowSet
	err := both(ctx, req.SourceA, req.SourceB, func(ctx context.Context, side int, env string) error {
		return s.withConn(ctx, env, func(db *gorm.DB) error {
			set, err := database.FetchQuery(ctx, db, req.SQL, opts)
			if err != nil {
				return fmt.Errorf("failed to run query in %s: %w", env, err)
			}
			sets[side] = set
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	keys, source := keyList(req.KeyFields), KeyExplicit
	if len(keys) == 0 {
		first := firstColumn(sets[0].Columns, sets[1].Columns)
		if first == "" {
			return nil, fmt.Errorf("%w: query returned no columns", ErrInvalidRequest)
		}
		keys, source = []string{first}, KeyFirstColumn
		s.warnFirstColumn("query", first)
	}

	return s.finish("query", compare.Input{
		SourceAName: req.SourceA,
		SourceBName: req.SourceB,
		RecordsA:    sets[0].Records,
		RecordsB:    sets[1].Records,
		KeyFields:   keys,
	}, source), nil
}

func firstColumn(sets ...[]string) string {
	for _, cols := range sets {
		if len(cols) > 0 {
			return cols[0]
		}
	}
	return ""
}

// RowsRequest compares caller-supplied rows. Elements that are not objects
// are treated as empty records.
type RowsRequest struct {
	SourceAName   string          `json:"source_a_name"`
	SourceBName   string          `json:"source_b_name"`
	RecordsA      []compare.Value `json:"records_a"`
	RecordsB      []compare.Value `json:"records_b"`
	KeyFields     []string        `json:"key_fields"`
	CompareFields []string        `json:"compare_fields"`
}

// CompareRows compares rows the caller already fetched. Without key fields
// the first field of the first record is the key.
func (s *Service) CompareRows(req RowsRequest) (*Outcome, error) {
	recordsA := s.toRecords(req.RecordsA)
	recordsB := s.toRecords(req.RecordsB)

	keys, source := keyList(req.KeyFields), KeyExplicit
	if len(keys) == 0 {
		first := firstColumn(firstNames(recordsA), firstNames(recordsB))
		if first == "" && (len(recordsA) > 0 || len(recordsB) > 0) {
			return nil, fmt.Errorf("%w: key_fields are required for records without fields", ErrInvalidRequest)
		}
		if first != "" {
			keys, source = []string{first}, KeyFirstColumn
			s.warnFirstColumn("rows", first)
		}
	}

	nameA, nameB := req.SourceAName, req.SourceBName
	if strings.TrimSpace(nameA) == "" {
		nameA = "source_a"
	}
	if strings.TrimSpace(nameB) == "" {
		nameB = "source_b"
	}

	return s.finish("rows", compare.Input{
		SourceAName:   nameA,
		SourceBName:   nameB,
		RecordsA:      recordsA,
		RecordsB:      recordsB,
		KeyFields:     keys,
		CompareFields: keyList(req.CompareFields),
	}, source), nil
}

func (s *Service) toRecords(values []compare.Value) []compare.Record {
	out := make([]compare.Record, len(values))
	for i, v := range values {
		rec := compare.AsRecord(v)
		if s.cfg.MaxValueLength > 0 {
			var truncated compare.Record
			for _, f := range rec.Fields() {
				truncated.Set(f.Name, utils.TruncateValue(f.Value, s.cfg.MaxValueLength))
			}
			rec = truncated
		}
		out[i] = rec
	}
	return out
}

func firstNames(records []compare.Record) []string {
	for _, r := range records {
		if r.Len() > 0 {
			return r.Names()
		}
	}
	return nil
}

func (s *Service) finish(mode string, in compare.Input, source KeySource) *Outcome {
	result := s.engine.Compare(in)
	s.logger.Info("Comparison completed",
		zap.String("mode", mode),
		zap.String("source_a", in.SourceAName),
		zap.String("source_b", in.SourceBName),
		zap.Strings("key_fields", in.KeyFields),
		zap.Int("total", result.Summary.Total),
		zap.Int("differing", result.Summary.Differing),
		zap.Int("only_in_a", result.Summary.OnlyInA),
		zap.Int("only_in_b", result.Summary.OnlyInB),
	)
	return &Outcome{Result: result, KeyFields: in.KeyFields, KeySource: source}
}

// Export serializes result and, when upload is set, stores it under the
// export prefix.
func (s *Service) Export(ctx context.Context, result *compare.Result, format string, upload bool) (*ExportFile, error) {
	if result == nil {
		return nil, fmt.Errorf("%w: result is required", ErrInvalidRequest)
	}
	format = strings.ToLower(strings.TrimSpace(format))

	content, err := export.Export(result, format)
	if err != nil {
		return nil, err
	}

	file := &ExportFile{
		Filename:    export.Filename(result, format, s.now()),
		ContentType: export.ContentType(format),
		Content:     []byte(content),
	}

	if !upload {
		return file, nil
	}
	if s.reports == nil {
		return nil, ErrStorageDisabled
	}
	if err := s.reports.EnsureBucket(ctx); err != nil {
		return nil, err
	}
	key, err := s.reports.Put(ctx, file.Filename, file.Content, file.ContentType)
	if err != nil {
		return nil, err
	}
	file.ObjectKey = key

	s.logger.Info("Export uploaded",
		zap.String("bucket", s.reports.Bucket()),
		zap.String("key", key),
		zap.Int("bytes", len(file.Content)),
	)
	return file, nil
}

// ListExports returns the uploaded exports, newest first.
func (s *Service) ListExports(ctx context.Context) ([]storage.ReportInfo, error) {
	if s.reports == nil {
		return nil, ErrStorageDisabled
	}
	reports, err := s.reports.List(ctx)
	if err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []storage.ReportInfo{}
	}
	return reports, nil
}

// GetExport downloads an uploaded export.
func (s *Service) GetExport(ctx context.Context, name string) (*ExportFile, error) {
	if s.reports == nil {
		return nil, ErrStorageDisabled
	}
	data, err := s.reports.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return &ExportFile{
		Filename:    name,
		ContentType: export.ContentType(strings.TrimPrefix(path.Ext(name), ".")),
		Content:     data,
		ObjectKey:   s.reports.Key(name),
	}, nil
}

// DeleteExport removes an uploaded export.
func (s *Service) DeleteExport(ctx context.Context, name string) error {
	if s.reports == nil {
		return ErrStorageDisabled
	}
	return s.reports.Delete(ctx, name)
}
