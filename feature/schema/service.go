package schema

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"envcompare/core/compare"
	"envcompare/core/database"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRequest is returned for requests missing required input.
var ErrInvalidRequest = errors.New("invalid request")

// MetadataSource reads table metadata from an environment.
type MetadataSource interface {
	Metadata(ctx context.Context, env, table string) (*database.TableMetadata, error)
}

// Request selects the table compared between two environments.
type Request struct {
	SourceA string `json:"source_a"`
	SourceB string `json:"source_b"`
	Schema  string `json:"schema"`
	Table   string `json:"table"`
}

// Service compares table definitions.
type Service struct {
	source MetadataSource
	engine *compare.Engine
	logger *zap.Logger
}

// NewService creates a schema comparison service.
func NewService(source MetadataSource, engine *compare.Engine, logger *zap.Logger) *Service {
	if engine == nil {
		engine = compare.New(compare.Options{Logger: logger})
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, engine: engine, logger: logger}
}

// Compare reads the table definition from both environments and compares
// the columns.
func (s *Service) Compare(ctx context.Context, req Request) (*Report, error) {
	if strings.TrimSpace(req.SourceA) == "" || strings.TrimSpace(req.SourceB) == "" {
		return nil, fmt.Errorf("%w: source_a and source_b are required", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.Table) == "" {
		return nil, fmt.Errorf("%w: table is required", ErrInvalidRequest)
	}
	table, err := database.NormalizeIdentifier(database.QualifiedName(strings.TrimSpace(req.Schema), strings.TrimSpace(req.Table)))
	if err != nil {
		return nil, err
	}

	var metas [2]*database.TableMetadata
	g, gctx := errgroup.WithContext(ctx)
	for side, env := range [2]string{req.SourceA, req.SourceB} {
		side, env := side, env
		g.Go(func() error {
			meta, err := s.source.Metadata(gctx, env, table)
			if err != nil {
				return err
			}
			metas[side] = meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := BuildReport(s.engine, metas[0], metas[1])
	s.logger.Info("Schema comparison completed",
		zap.String("table", table),
		zap.String("source_a", req.SourceA),
		zap.String("source_b", req.SourceB),
		zap.Bool("matched", report.Matched),
		zap.Int("missing_in_a", len(report.MissingInA)),
		zap.Int("missing_in_b", len(report.MissingInB)),
		zap.Int("type_mismatches", len(report.TypeMismatches)),
	)
	return report, nil
}
