package service

import (
	"context"
	"log/slog"

	"github.com/nstehr/muster/muster-core/ipc"
)

// Session serves one socket client.
type Session struct {
	Conn    *ipc.Connection
	Client  string
	Service *Service
}

func NewSession(conn *ipc.Connection, svc *Service) *Session {
	s := &Session{Conn: conn, Service: svc}
	conn.RegisterHandler(ipc.TypeHello, s.HandleHello)
	conn.RegisterHandler(ipc.TypeListFactions, s.HandleListFactions)
	conn.RegisterHandler(ipc.TypeCompile, s.HandleCompile)
	conn.RegisterHandler(ipc.TypeValidate, s.HandleValidate)
	conn.RegisterHandler(ipc.TypeValidateRoster, s.HandleValidateRoster)
	return s
}

// HandleHello completes the handshake and tells the client which rulebook
// version it is talking to.
func (s *Session) HandleHello(_ context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var hello ipc.HelloMessage
	if err := env.Decode(&hello); err != nil {
		return nil, badRequest("%v", err)
	}
	s.Client = hello.Client
	s.Conn.Client = hello.Client
	slog.Info("client identified", "client", s.Client, "clientVersion", hello.Version)

	return reply(ipc.TypeAck, ipc.AckMessage{Status: "ok", RulebookVersion: s.Service.Version()})
}

func (s *Session) HandleListFactions(_ context.Context, _ ipc.Envelope) (*ipc.Envelope, error) {
	return reply(ipc.TypeFactions, ipc.FactionsMessage{Factions: s.Service.Factions()})
}

func (s *Session) HandleCompile(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.CompileRequest
	if err := env.Decode(&req); err != nil {
		return nil, badRequest("%v", err)
	}
	msg, err := s.Service.Rules(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Info("rules served", "client", s.Client, "key", msg.Key)
	return reply(ipc.TypeRuleSet, msg)
}

func (s *Session) HandleValidate(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.ValidateRequest
	if err := env.Decode(&req); err != nil {
		return nil, badRequest("%v", err)
	}
	msg, err := s.Service.ValidateLoadout(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Info("loadout validated",
		"client", s.Client,
		"troop", req.TroopID,
		"strategy", msg.Strategy,
		"valid", msg.Result.IsValid,
		"errors", len(msg.Result.Errors),
		"warnings", len(msg.Result.Warnings),
	)
	return reply(ipc.TypeValidation, msg)
}

func (s *Session) HandleValidateRoster(ctx context.Context, env ipc.Envelope) (*ipc.Envelope, error) {
	var req ipc.ValidateRosterRequest
	if err := env.Decode(&req); err != nil {
		return nil, badRequest("%v", err)
	}
	msg, err := s.Service.ValidateRoster(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Info("roster validated",
		"client", s.Client,
		"faction", req.Roster.FactionID,
		"units", len(req.Roster.Units),
		"total", msg.Result.Total.String(),
		"valid", msg.Result.IsValid,
	)
	return reply(ipc.TypeRosterResult, msg)
}

func reply(msgType string, data any) (*ipc.Envelope, error) {
	env, err := ipc.NewEnvelope(msgType, data)
	if err != nil {
		return nil, err
	}
	return &env, nil
}
