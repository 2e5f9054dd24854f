// Package ruleset serves compiled rule sets, reading through a document
// store and compiling from the catalog on a miss.
package ruleset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/nstehr/muster/muster-core/catalog"
	"github.com/nstehr/muster/muster-core/rules"
	"github.com/nstehr/muster/muster-core/store"
)

// Service hands out compiled rule sets. The store is only a cache: any
// store failure is logged and answered by compiling afresh.
type Service struct {
	catalog *catalog.Catalog
	store   store.Store
	persist bool

	group  singleflight.Group
	tracer trace.Tracer
}

// New builds a Service. st may be nil to disable caching; persist controls
// whether freshly compiled rule sets are written back.
func New(cat *catalog.Catalog, st store.Store, persist bool) *Service {
	return &Service{
		catalog: cat,
		store:   st,
		persist: persist,
		tracer:  otel.Tracer("github.com/nstehr/muster/muster-core/ruleset"),
	}
}

func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// GetOrCompile returns the compiled rule set for a faction and optional
// variant under a rulebook version. Each caller gets its own copy.
// Concurrent misses for the same key compile once.
func (s *Service) GetOrCompile(ctx context.Context, factionID, variantID, version string) (*rules.CompiledRuleSet, error) {
	key := Key(factionID, variantID, version)
	ctx, span := s.tracer.Start(ctx, "ruleset.GetOrCompile", trace.WithAttributes(
		attribute.String("muster.faction", factionID),
		attribute.String("muster.variant", variantID),
		attribute.String("muster.version", version),
	))
	defer span.End()

	v, err, shared := s.group.Do(key, func() (any, error) {
		return s.load(ctx, key, factionID, variantID)
	})
	span.SetAttributes(attribute.Bool("muster.shared", shared))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return v.(*rules.CompiledRuleSet).Clone(), nil
}

// Compile resolves the fragments and compiles without touching the store.
func (s *Service) Compile(factionID, variantID string) (*rules.CompiledRuleSet, error) {
	f, v, err := s.catalog.Resolve(factionID, variantID)
	if err != nil {
		return nil, err
	}
	return rules.Compile(f, v), nil
}

func (s *Service) load(ctx context.Context, key, factionID, variantID string) (*rules.CompiledRuleSet, error) {
	if rs, ok := s.cached(ctx, key); ok {
		return rs, nil
	}

	rs, err := s.Compile(factionID, variantID)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", key, err)
	}
	trace.SpanFromContext(ctx).AddEvent("compiled")

	if s.store != nil && s.persist {
		s.save(ctx, key, rs)
	}
	return rs, nil
}

func (s *Service) cached(ctx context.Context, key string) (*rules.CompiledRuleSet, bool) {
	if s.store == nil {
		return nil, false
	}
	doc, err := s.store.Get(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		slog.Debug("compiled rules cache miss", "key", key)
		return nil, false
	}
	if err != nil {
		slog.Warn("compiled rules store unavailable, compiling", "key", key, "error", err)
		return nil, false
	}
	rec, err := decodeRecord(doc.Payload)
	if err != nil {
		slog.Warn("discarding unreadable compiled rules", "key", key, "error", err)
		return nil, false
	}
	trace.SpanFromContext(ctx).AddEvent("cache hit")
	return rec.CompiledRuleSet.Clone(), true
}

func (s *Service) save(ctx context.Context, key string, rs *rules.CompiledRuleSet) {
	rec := Record{
		ID:              uuid.NewString(),
		UpdatedAt:       time.Now().UTC(),
		CompiledRuleSet: *rs,
	}
	payload, err := encodeRecord(rec)
	if err != nil {
		slog.Warn("failed to encode compiled rules", "key", key, "error", err)
		return
	}
	if err := s.store.Put(ctx, store.Document{Key: key, Payload: payload, UpdatedAt: rec.UpdatedAt}); err != nil {
		slog.Warn("failed to persist compiled rules", "key", key, "error", err)
		return
	}
	slog.Info("persisted compiled rules", "key", key, "id", rec.ID)
}
