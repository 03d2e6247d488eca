package session

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ziadkadry99/lucky-universe/internal/fortune"
	"github.com/ziadkadry99/lucky-universe/internal/slot"
	"github.com/ziadkadry99/lucky-universe/internal/talisman"
)

// FortuneTeller produces a fortune record for user data.
type FortuneTeller interface {
	Generate(ctx context.Context, u fortune.UserData) (fortune.Record, error)
}

// TalismanMaker draws a talisman for a wish.
type TalismanMaker interface {
	Generate(ctx context.Context, wish string, u fortune.UserData) (*talisman.Image, error)
}

// Service drives sessions through the view flow.
type Service struct {
	store     *Store
	fortunes  FortuneTeller
	talismans TalismanMaker
	slots     *slot.Machine
	logger    *zap.Logger
}

// NewService wires the flow together.
func NewService(store *Store, fortunes FortuneTeller, talismans TalismanMaker, slots *slot.Machine, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if slots == nil {
		slots = slot.NewMachine(nil)
	}
	return &Service{
		store:     store,
		fortunes:  fortunes,
		talismans: talismans,
		slots:     slots,
		logger:    logger.Named("session"),
	}
}

// Store exposes the underlying store for collaborating packages.
func (s *Service) Store() *Store { return s.store }

func (s *Service) Create(ctx context.Context) (*Session, error) {
	sess, err := s.store.Create(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("session created", zap.String("session_id", sess.ID))
	return sess, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Session, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}

// Apply performs a plain transition that needs no upstream call.
func (s *Service) Apply(ctx context.Context, id string, ev Event) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard(sess, ev); err != nil {
		return sess, err
	}
	if ev == EventOpenChat && sess.Record == nil {
		return sess, ErrNoRecord
	}

	sess.LastError = ""
	switch ev {
	case EventResetTalisman:
		sess.Talisman = nil
	case EventReset:
		sess.Record = nil
		sess.Talisman = nil
		sess.Wish = ""
	}
	if err := s.move(ctx, sess, ev); err != nil {
		return nil, err
	}
	if ev == EventReset {
		if err := s.store.ClearMessages(ctx, id); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// SubmitFortune validates u, moves to loading and generates the reading.
// On failure the session returns to input and the error is returned with
// the updated session.
func (s *Service) SubmitFortune(ctx context.Context, id string, u fortune.UserData) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard(sess, EventSubmit); err != nil {
		return sess, err
	}
	prepared, err := fortune.Prepare(u)
	if err != nil {
		return sess, err
	}

	sess.User = prepared
	if err := s.move(ctx, sess, EventSubmit); err != nil {
		return nil, err
	}

	rec, genErr := s.fortunes.Generate(ctx, prepared)

	// The outcome is recorded even if the caller went away.
	saveCtx := context.WithoutCancel(ctx)
	if genErr != nil {
		s.logger.Warn("fortune generation failed", zap.String("session_id", id), zap.Error(genErr))
		sess.LastError = genErr.Error()
		if err := s.move(saveCtx, sess, EventFortuneFailed); err != nil {
			return nil, fmt.Errorf("reverting session: %w (after %w)", err, genErr)
		}
		return sess, genErr
	}

	sess.Record = &rec
	sess.Talisman = nil
	sess.LastError = ""
	if err := s.move(saveCtx, sess, EventFortuneReady); err != nil {
		return nil, err
	}
	return sess, nil
}

// SubmitTalisman validates the wish, moves to talismanLoading and draws.
func (s *Service) SubmitTalisman(ctx context.Context, id, wish string) (*Session, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := guard(sess, EventGenerateTalisman); err != nil {
		return sess, err
	}
	if err := fortune.ValidateWish(wish); err != nil {
		return sess, err
	}

	sess.Wish = strings.TrimSpace(wish)
	if err := s.move(ctx, sess, EventGenerateTalisman); err != nil {
		return nil, err
	}

	img, genErr := s.talismans.Generate(ctx, sess.Wish, sess.User)

	saveCtx := context.WithoutCancel(ctx)
	if genErr != nil {
		s.logger.Warn("talisman generation failed", zap.String("session_id", id), zap.Error(genErr))
		sess.LastError = genErr.Error()
		if err := s.move(saveCtx, sess, EventTalismanFailed); err != nil {
			return nil, fmt.Errorf("reverting session: %w (after %w)", err, genErr)
		}
		return sess, genErr
	}

	sess.Talisman = img
	sess.LastError = ""
	if err := s.move(saveCtx, sess, EventTalismanReady); err != nil {
		return nil, err
	}
	return sess, nil
}

// Spin runs the slot machine against the session's daily card.
func (s *Service) Spin(ctx context.Context, id string) (*slot.Spin, error) {
	sess, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Record == nil {
		return nil, ErrNoRecord
	}
	spin := s.slots.Spin(sess.Record.Daily.Lotto, sess.Record.Daily.Initial)
	return &spin, nil
}

// guard checks ev against the session before any work starts. A session
// waiting on the model rejects everything with ErrBusy.
func guard(sess *Session, ev Event) error {
	if sess.View.Busy() {
		return fmt.Errorf("%w (%s on %s)", ErrBusy, ev, sess.View)
	}
	_, err := Transition(sess.View, ev)
	return err
}

func (s *Service) move(ctx context.Context, sess *Session, ev Event) error {
	from := sess.View
	to, err := Transition(from, ev)
	if err != nil {
		return err
	}
	sess.View = to
	if err := s.store.Update(ctx, sess, from); err != nil {
		sess.View = from
		return err
	}
	s.logger.Debug("view changed",
		zap.String("session_id", sess.ID),
		zap.String("event", string(ev)),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return nil
}
