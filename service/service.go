// Package service answers rules requests on behalf of both transports.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/nstehr/muster/muster-core/catalog"
	"github.com/nstehr/muster/muster-core/ipc"
	"github.com/nstehr/muster/muster-core/model"
	"github.com/nstehr/muster/muster-core/rules"
	"github.com/nstehr/muster/muster-core/ruleset"
)

// Error codes carried by RequestError.
const (
	CodeBadRequest = "bad_request"
	CodeNotFound   = "not_found"
)

// RequestError is a client mistake: a missing field or an id the catalog
// does not know.
type RequestError struct {
	code string
	err  error
}

func (e *RequestError) Error() string { return e.err.Error() }
func (e *RequestError) Unwrap() error { return e.err }
func (e *RequestError) Code() string  { return e.code }

func badRequest(format string, args ...any) error {
	return &RequestError{code: CodeBadRequest, err: fmt.Errorf(format, args...)}
}

func notFound(err error) error {
	return &RequestError{code: CodeNotFound, err: err}
}

type Service struct {
	rulesets *ruleset.Service
	version  string
}

func New(rulesets *ruleset.Service, version string) *Service {
	return &Service{rulesets: rulesets, version: version}
}

func (s *Service) Version() string {
	return s.version
}

func (s *Service) catalog() *catalog.Catalog {
	return s.rulesets.Catalog()
}

// Factions lists every faction with the ids of its warband variants.
func (s *Service) Factions() []ipc.FactionSummary {
	out := []ipc.FactionSummary{}
	for _, f := range s.catalog().Factions() {
		sum := ipc.FactionSummary{ID: f.ID, Name: f.Name, Variants: []string{}}
		for _, v := range s.catalog().Variants(f.ID) {
			sum.Variants = append(sum.Variants, v.ID)
		}
		out = append(out, sum)
	}
	return out
}

// Rules returns the compiled rule set for the configured rulebook version.
func (s *Service) Rules(ctx context.Context, req ipc.CompileRequest) (ipc.RuleSetMessage, error) {
	if req.FactionID == "" {
		return ipc.RuleSetMessage{}, badRequest("factionId is required")
	}
	rs, err := s.rulesets.GetOrCompile(ctx, req.FactionID, req.VariantID, s.version)
	if err != nil {
		return ipc.RuleSetMessage{}, classify(err)
	}
	return ipc.RuleSetMessage{Key: ruleset.Key(req.FactionID, req.VariantID, s.version), Rules: rs}, nil
}

// ValidateLoadout checks one troop's equipment with the requested strategy.
func (s *Service) ValidateLoadout(ctx context.Context, req ipc.ValidateRequest) (ipc.ValidationMessage, error) {
	if req.FactionID == "" || req.TroopID == "" {
		return ipc.ValidationMessage{}, badRequest("factionId and troopId are required")
	}
	troop, ok := s.catalog().Troop(req.TroopID)
	if !ok {
		return ipc.ValidationMessage{}, notFound(fmt.Errorf("unknown troop %q", req.TroopID))
	}
	loadout := make([]model.Equipment, 0, len(req.EquipmentIDs))
	for _, id := range req.EquipmentIDs {
		eq, ok := s.catalog().Equipment(id)
		if !ok {
			return ipc.ValidationMessage{}, notFound(fmt.Errorf("unknown equipment %q", id))
		}
		loadout = append(loadout, eq)
	}

	strategy, err := s.strategy(ctx, req)
	if err != nil {
		return ipc.ValidationMessage{}, err
	}
	return ipc.ValidationMessage{
		Strategy: strategy.Name(),
		Result:   rules.Validate(loadout, &troop, strategy),
	}, nil
}

func (s *Service) strategy(ctx context.Context, req ipc.ValidateRequest) (rules.Strategy, error) {
	switch req.Strategy {
	case "", "compiled":
		rs, err := s.rulesets.GetOrCompile(ctx, req.FactionID, req.VariantID, s.version)
		if err != nil {
			return nil, classify(err)
		}
		return rules.CompiledStrategy{Rules: rs}, nil
	case "legacy":
		f, v, err := s.catalog().Resolve(req.FactionID, req.VariantID)
		if err != nil {
			return nil, classify(err)
		}
		return rules.LegacyStrategy{Faction: f, Variant: v}, nil
	default:
		return nil, badRequest("unknown strategy %q (want compiled or legacy)", req.Strategy)
	}
}

// ValidateRoster prices and checks a whole army list.
func (s *Service) ValidateRoster(ctx context.Context, req ipc.ValidateRosterRequest) (ipc.RosterResultMessage, error) {
	r := req.Roster
	if r.FactionID == "" {
		return ipc.RosterResultMessage{}, badRequest("roster.factionId is required")
	}
	rs, err := s.rulesets.GetOrCompile(ctx, r.FactionID, r.VariantID, s.version)
	if err != nil {
		return ipc.RosterResultMessage{}, classify(err)
	}
	return ipc.RosterResultMessage{Result: rules.ValidateRoster(r, s.catalog(), rs)}, nil
}

func classify(err error) error {
	if errors.Is(err, catalog.ErrUnknownFaction) || errors.Is(err, catalog.ErrUnknownVariant) {
		return notFound(err)
	}
	return err
}
