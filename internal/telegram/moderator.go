package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/classifier"
	errs "github.com/plugfox/toxy-gram-server/internal/err"
	"github.com/plugfox/toxy-gram-server/internal/metrics"
	"github.com/plugfox/toxy-gram-server/internal/model"
	"github.com/plugfox/toxy-gram-server/internal/moderation"
	"github.com/plugfox/toxy-gram-server/internal/transcriber"
)

// ModerationStore is the slice of storage the moderator needs.
type ModerationStore interface {
	ModerationRecordByID(id model.UserID) (*model.ModerationRecord, error)
	UpsertModerationRecord(record *model.ModerationRecord) error
	MarkMessageRemoved(id model.MessageID, toxic bool, score float64) error
}

// ChannelActions are the side effects the moderator performs on the chat.
// Both are best-effort: failures are logged and never affect the decision.
type ChannelActions interface {
	DeleteMessage() error
	SendReply(text string) error
}

// VoicePayload fetches the raw audio of a voice message on demand,
// so blocked users never cost a download.
type VoicePayload func(ctx context.Context) (audio []byte, mime string, err error)

// Inbound is a single message entering the moderation pipeline.
type Inbound struct {
	UserID      model.UserID
	DisplayName string
	ChatID      model.ChatID
	MessageID   model.MessageID
	Text        string       // Resolved text, empty for voice messages.
	Voice       VoicePayload // Non-nil for voice messages.
}

// Moderator orchestrates one message through the pipeline:
// read record, transcribe, classify, decide, apply side effects, persist.
type Moderator struct {
	policy      moderation.Policy
	failOpen    bool
	store       ModerationStore
	classifier  classifier.Classifier
	transcriber transcriber.Transcriber
	locks       *moderation.KeyedMutex
	metrics     metrics.Metrics
	logger      *slog.Logger
	now         func() time.Time
}

// NewModerator wires the moderation pipeline.
func NewModerator(
	policy moderation.Policy,
	failOpen bool,
	store ModerationStore,
	cls classifier.Classifier,
	trs transcriber.Transcriber,
	m metrics.Metrics,
	logger *slog.Logger,
) *Moderator {
	if m == nil {
		m = metrics.NewMetricsFake()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Moderator{
		policy:      policy,
		failOpen:    failOpen,
		store:       store,
		classifier:  cls,
		transcriber: trs,
		locks:       moderation.NewKeyedMutex(),
		metrics:     m,
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Moderate runs one message through the pipeline and returns the decision.
// Same-user calls are serialized by a per-user lock so concurrent messages
// cannot read the same stale record; different users proceed in parallel.
// No failure is fatal to the message: every dependency error degrades into
// a decision (fail-safe read, fail-open/closed verdict, logged side effects).
func (m *Moderator) Moderate(ctx context.Context, in Inbound, act ChannelActions) moderation.Decision {
	unlock := m.locks.Lock(in.UserID)
	defer unlock()

	record := m.readRecord(ctx, in)
	now := m.now()

	// Blocked users are rejected before any transcription or inference cost is paid.
	if record.Blocked(now) {
		decision := moderation.Decide(m.policy, record, now, nil)
		m.apply(ctx, in, decision, nil, act)

		return decision
	}

	verdict := m.resolveVerdict(ctx, in)

	decision := moderation.Decide(m.policy, record, now, verdict)
	m.apply(ctx, in, decision, verdict, act)

	return decision
}

// readRecord loads the user's record, treating a missing row as the zero record.
// A store read failure degrades to the zero record too: one unreachable
// database read must not stop the chat (the outcome is logged).
func (m *Moderator) readRecord(ctx context.Context, in Inbound) *model.ModerationRecord {
	record, err := m.store.ModerationRecordByID(in.UserID)

	switch {
	case err == nil:
		return record
	case errors.Is(err, errs.ErrorNotFound):
		return model.NewModerationRecord(in.UserID, in.DisplayName)
	default:
		m.logger.ErrorContext(ctx, "moderation record read failed, using the zero record",
			slog.String("user_id", in.UserID.ToString()),
			slog.String("error", err.Error()),
		)

		return model.NewModerationRecord(in.UserID, in.DisplayName)
	}
}

// resolveVerdict turns the message payload into a verdict:
// voice is transcribed first, then the text is classified.
// A nil verdict means the voice was unintelligible.
func (m *Moderator) resolveVerdict(ctx context.Context, in Inbound) *moderation.Verdict {
	text := in.Text

	if in.Voice != nil {
		transcript, ok := m.transcribe(ctx, in)
		if !ok {
			return nil
		}

		text = transcript
	}

	score, err := m.classifier.Classify(ctx, text)
	if err != nil {
		// Classifier unreachable: fail open admits the message, fail closed counts it as toxic.
		m.logger.WarnContext(ctx, "classifier call failed",
			slog.String("user_id", in.UserID.ToString()),
			slog.Bool("fail_open", m.failOpen),
			slog.String("error", err.Error()),
		)

		return &moderation.Verdict{Toxic: !m.failOpen, Text: text}
	}

	return m.policy.Verdict(score, text)
}

// transcribe downloads and transcribes the voice payload.
// Any failure or an empty transcript is the unintelligible outcome.
func (m *Moderator) transcribe(ctx context.Context, in Inbound) (string, bool) {
	audio, mime, err := in.Voice(ctx)
	if err != nil {
		m.logger.WarnContext(ctx, "voice download failed",
			slog.String("user_id", in.UserID.ToString()),
			slog.String("error", err.Error()),
		)

		return "", false
	}

	transcript, err := m.transcriber.Transcribe(ctx, audio, mime)
	if err != nil {
		m.logger.WarnContext(ctx, "transcription failed",
			slog.String("user_id", in.UserID.ToString()),
			slog.String("error", err.Error()),
		)

		return "", false
	}

	if transcript == "" {
		return "", false
	}

	return transcript, true
}

// apply performs the decision's side effects in order:
// delete, replies, persist, metrics.
func (m *Moderator) apply(ctx context.Context, in Inbound, decision moderation.Decision, verdict *moderation.Verdict, act ChannelActions) {
	if decision.DeleteMessage {
		if err := act.DeleteMessage(); err != nil {
			// The message may already be gone or the bot may lack rights
			m.logger.WarnContext(ctx, "message deletion failed",
				slog.String("chat_id", in.ChatID.ToString()),
				slog.String("message_id", in.MessageID.ToString()),
				slog.String("error", err.Error()),
			)
		}

		m.auditRemoval(ctx, in, verdict)
	}

	for _, reply := range decision.Replies {
		text := reply.Text
		if in.Voice != nil && reply.Kind == moderation.ReplyClean && verdict != nil {
			// Echo the transcription back for admitted voice messages
			text = fmt.Sprintf("✅ Voice message transcription: %s\n%s", verdict.Text, reply.Text)
		}

		if err := act.SendReply(text); err != nil {
			m.logger.WarnContext(ctx, "reply failed",
				slog.String("chat_id", in.ChatID.ToString()),
				slog.String("kind", string(reply.Kind)),
				slog.String("error", err.Error()),
			)
		}
	}

	if decision.Changed {
		decision.Record.DisplayName = in.DisplayName

		if err := m.store.UpsertModerationRecord(decision.Record); err != nil {
			// The replies are already sent, the counter update for this message is lost
			m.logger.ErrorContext(ctx, "moderation record write failed, message processed but unpersisted",
				slog.String("user_id", in.UserID.ToString()),
				slog.Int("toxic_count", decision.Record.ToxicCount),
				slog.String("error", err.Error()),
			)
		}
	}

	m.logDecision(in, decision, verdict)
}

// auditRemoval flags the stored copy of the message as removed.
func (m *Moderator) auditRemoval(ctx context.Context, in Inbound, verdict *moderation.Verdict) {
	toxic := false
	score := 0.0

	if verdict != nil {
		toxic = verdict.Toxic
		score = verdict.Score
	}

	if err := m.store.MarkMessageRemoved(in.MessageID, toxic, score); err != nil {
		m.logger.WarnContext(ctx, "message audit update failed",
			slog.String("message_id", in.MessageID.ToString()),
			slog.String("error", err.Error()),
		)
	}
}

func (m *Moderator) logDecision(in Inbound, decision moderation.Decision, verdict *moderation.Verdict) {
	if len(decision.Replies) == 0 {
		return
	}

	// The last reply carries the escalation outcome
	kind := decision.Replies[len(decision.Replies)-1].Kind

	fields := map[string]interface{}{
		"user_id":     in.UserID.ToInt64(),
		"toxic_count": decision.Record.ToxicCount,
	}
	if verdict != nil {
		fields["score"] = verdict.Score
	}

	m.metrics.LogChatEvent("moderation_"+string(kind), in.ChatID.ToInt64(), fields)
}
