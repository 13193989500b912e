// Package formsvc exposes the public form-structure operations. Each call
// fetches one snapshot, derives the section layout from it, plans the
// primitive operations and submits them as a single batch. Nothing is cached
// between calls.
package formsvc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"formctl/internal/layout"
	"formctl/internal/model"
)

// Repository fetches a point-in-time copy of a form.
type Repository interface {
	Fetch(ctx context.Context, formID string) (model.Snapshot, error)
}

// Mutator applies a batch atomically: every op or none.
type Mutator interface {
	Apply(ctx context.Context, formID string, b model.Batch) (model.BatchResult, error)
}

// Journal records submitted batches. Failures to record are logged, never
// returned.
type Journal interface {
	Record(ctx context.Context, rec model.BatchRecord) error
}

// Option configures the Service during construction.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithJournal(j Journal) Option {
	return func(s *Service) {
		s.journal = j
	}
}

// WithDryRun plans every mutation without submitting it.
func WithDryRun(dry bool) Option {
	return func(s *Service) {
		s.dryRun = dry
	}
}

type Service struct {
	repo    Repository
	mut     Mutator
	journal Journal
	logger  *slog.Logger
	dryRun  bool
}

func New(repo Repository, mut Mutator, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		mut:    mut,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DryRun returns a copy of s that plans without submitting.
func (s *Service) DryRun() *Service {
	cp := *s
	cp.dryRun = true
	return &cp
}

// Result describes one mutating call. Applied is false for dry runs and for
// plans that turned out to be no-ops.
type Result struct {
	Operation  string        `json:"operation"`
	FormID     string        `json:"formId"`
	Ops        []model.Op    `json:"ops"`
	Applied    bool          `json:"applied"`
	DryRun     bool          `json:"dryRun,omitempty"`
	Replies    []model.Reply `json:"replies,omitempty"`
	RevisionID string        `json:"revisionId,omitempty"`
}

// CreatedItemID returns the id the remote assigned to the first created item.
func (r Result) CreatedItemID() string {
	for _, rep := range r.Replies {
		if rep.CreatedItemID != "" {
			return rep.CreatedItemID
		}
	}
	return ""
}

func checkFormID(formID string) error {
	if strings.TrimSpace(formID) == "" {
		return model.InvalidArgument("form", "form id is required")
	}
	return nil
}

func (s *Service) index(ctx context.Context, formID string) (*layout.Index, model.Snapshot, error) {
	snap, err := s.repo.Fetch(ctx, formID)
	if err != nil {
		return nil, model.Snapshot{}, err
	}
	s.logger.Debug("snapshot fetched", "form", formID, "items", len(snap.Items), "revision", snap.RevisionID)
	return layout.Build(snap.Items), snap, nil
}

// submit sends a planned batch. Empty batches and dry runs never reach the
// mutator.
func (s *Service) submit(ctx context.Context, formID string, b model.Batch) (Result, error) {
	res := Result{Operation: b.Operation, FormID: formID, Ops: b.Ops, DryRun: s.dryRun}
	if res.Ops == nil {
		res.Ops = []model.Op{}
	}
	log := s.logger.With("form", formID, "op", b.Operation, "ops", len(b.Ops))
	if b.Empty() {
		log.Info("nothing to do")
		return res, nil
	}
	if s.dryRun {
		log.Info("dry run; batch not submitted")
		return res, nil
	}

	out, err := s.mut.Apply(ctx, formID, b)
	s.record(ctx, formID, b, out, err)
	if err != nil {
		log.Error("batch rejected", "err", err)
		var rf *model.RemoteFailureError
		if errors.As(err, &rf) || errors.Is(err, model.ErrInvalidArgument) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return res, err
		}
		return res, &model.RemoteFailureError{OpIndex: -1, Err: err}
	}
	log.Info("batch applied", "revision", out.RevisionID)
	res.Applied = true
	res.Replies = out.Replies
	res.RevisionID = out.RevisionID
	return res, nil
}

func (s *Service) record(ctx context.Context, formID string, b model.Batch, out model.BatchResult, applyErr error) {
	if s.journal == nil {
		return
	}
	rec := model.BatchRecord{
		FormID:     formID,
		Operation:  b.Operation,
		Ops:        b.Ops,
		Status:     model.BatchStatusOK,
		RevisionID: out.RevisionID,
	}
	if applyErr != nil {
		rec.Status = model.BatchStatusError
		rec.Error = applyErr.Error()
	}
	// Record even when the caller's context is done; the batch may have landed.
	if err := s.journal.Record(context.WithoutCancel(ctx), rec); err != nil {
		s.logger.Warn("journal record failed", "form", formID, "err", err)
	}
}
