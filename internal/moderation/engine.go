package moderation

import (
	"fmt"
	"time"

	"github.com/plugfox/toxy-gram-server/internal/model"
)

// ReplyKind identifies the kind of reply the bot sends back for a decision.
type ReplyKind string

const (
	ReplyClean          ReplyKind = "clean"
	ReplyToxicRemoved   ReplyKind = "toxic_removed"
	ReplyWarning        ReplyKind = "warning"
	ReplyBlocked        ReplyKind = "blocked"
	ReplyAlreadyBlocked ReplyKind = "already_blocked"
	ReplyUnintelligible ReplyKind = "unintelligible"
)

const blockTimeLayout = "2006-01-02 15:04:05"

// Verdict is the classifier's determination for a single message.
// A nil *Verdict passed to Decide means the message could not be
// resolved to text (failed voice transcription).
type Verdict struct {
	Toxic bool    // True if the score exceeded the toxicity threshold.
	Score float64 // Raw classifier score in [0,1].
	Text  string  // The classified text.
}

// Reply is a single message the bot sends back to the chat.
type Reply struct {
	Kind ReplyKind
	Text string
}

// Decision is the engine's computed output for one message.
type Decision struct {
	Admit         bool                    // True if the message stays in the chat.
	DeleteMessage bool                    // True if the inbound message must be deleted.
	Replies       []Reply                 // Replies to send, in order.
	Record        *model.ModerationRecord // The record after applying the verdict.
	Changed       bool                    // True if Record differs from the input and must be persisted.
}

// Decide computes the moderation decision for a user's message.
//
// It is a pure function: the input record is never mutated, the same
// inputs always produce the same decision. The blocked state is checked
// first so callers can (and should) skip classifier and transcriber
// calls for blocked users.
func Decide(policy Policy, record *model.ModerationRecord, now time.Time, verdict *Verdict) Decision {
	next := record.Clone()

	// A user inside the block window is rejected outright, the record stays as is.
	if record.Blocked(now) {
		return Decision{
			DeleteMessage: true,
			Replies: []Reply{{
				Kind: ReplyAlreadyBlocked,
				Text: fmt.Sprintf("⛔ You're blocked until %s", record.BlockedUntil.Time.Format(blockTimeLayout)),
			}},
			Record: next,
		}
	}

	// No verdict means the voice message could not be transcribed.
	if verdict == nil {
		return Decision{
			DeleteMessage: true,
			Replies: []Reply{{
				Kind: ReplyUnintelligible,
				Text: "❓ Could not understand your voice message.",
			}},
			Record: next,
		}
	}

	if !verdict.Toxic {
		return Decision{
			Admit: true,
			Replies: []Reply{{
				Kind: ReplyClean,
				Text: "✅ Not Toxic",
			}},
			Record: next,
		}
	}

	// Toxic message: count it, then escalate.
	next.ToxicCount++

	replies := []Reply{{
		Kind: ReplyToxicRemoved,
		Text: fmt.Sprintf("🚫 Toxic message removed. Explanation:\n%s", Explain(verdict.Text, policy.Keywords)),
	}}

	switch {
	case next.ToxicCount == policy.WarnAtCount:
		// Exact match: counts move by one per verdict, so the warning fires once.
		replies = append(replies, Reply{
			Kind: ReplyWarning,
			Text: fmt.Sprintf("⚠️ Warning @%s: %d toxic messages detected.", next.DisplayName, next.ToxicCount),
		})
	case next.ToxicCount >= policy.BlockAtCount:
		next.Block(now, policy.BlockDuration)
		replies = append(replies, Reply{
			Kind: ReplyBlocked,
			Text: fmt.Sprintf("⛔ You are blocked until %s", next.BlockedUntil.Time.Format(blockTimeLayout)),
		})
	}

	return Decision{
		DeleteMessage: true,
		Replies:       replies,
		Record:        next,
		Changed:       true,
	}
}
