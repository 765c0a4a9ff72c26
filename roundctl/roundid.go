package roundctl

import "github.com/google/uuid"

// NewRoundID generates a correlation id for one round attempt, used only
// for log correlation — it carries no protocol meaning.
func NewRoundID() string {
	return uuid.NewString()
}
