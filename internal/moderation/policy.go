package moderation

import (
	"time"

	config "github.com/plugfox/toxy-gram-server/internal/config"
)

// Escalation thresholds and the block window, overridable via config.
const (
	DefaultWarnAtCount       = 8
	DefaultBlockAtCount      = 10
	DefaultBlockDuration     = 48 * time.Hour
	DefaultToxicityThreshold = 0.5
)

// DefaultKeywords are highlighted in the removal explanation.
func DefaultKeywords() []string {
	return []string{"hate", "stupid", "idiot", "dumb", "kill", "trash", "ugly"}
}

// Policy holds the escalation thresholds for the moderation engine.
type Policy struct {
	WarnAtCount       int           // Toxic count that triggers the warning, matched exactly.
	BlockAtCount      int           // Toxic count at or above which the user is blocked.
	BlockDuration     time.Duration // How long a blocked user stays blocked.
	ToxicityThreshold float64       // Classifier score above which a message is toxic.
	Keywords          []string      // Keywords highlighted in the removal explanation.
}

// DefaultPolicy returns the policy with all default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		WarnAtCount:       DefaultWarnAtCount,
		BlockAtCount:      DefaultBlockAtCount,
		BlockDuration:     DefaultBlockDuration,
		ToxicityThreshold: DefaultToxicityThreshold,
		Keywords:          DefaultKeywords(),
	}
}

// PolicyFromConfig builds a policy from the config section,
// falling back to the defaults for unset fields.
func PolicyFromConfig(cfg *config.ModerationConfig) Policy {
	policy := DefaultPolicy()

	if cfg == nil {
		return policy
	}

	if cfg.WarnAtCount > 0 {
		policy.WarnAtCount = cfg.WarnAtCount
	}

	if cfg.BlockAtCount > 0 {
		policy.BlockAtCount = cfg.BlockAtCount
	}

	if cfg.BlockDuration > 0 {
		policy.BlockDuration = cfg.BlockDuration
	}

	if cfg.ToxicityThreshold > 0 {
		policy.ToxicityThreshold = cfg.ToxicityThreshold
	}

	if len(cfg.Keywords) > 0 {
		policy.Keywords = cfg.Keywords
	}

	return policy
}

// Verdict converts a classifier score into a verdict for the given text.
func (p Policy) Verdict(score float64, text string) *Verdict {
	return &Verdict{
		Toxic: score > p.ToxicityThreshold,
		Score: score,
		Text:  text,
	}
}
