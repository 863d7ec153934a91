package journal

import (
	"time"

	"github.com/google/uuid"
)

// FlushRecord is one committed flush of one file by one agent.
type FlushRecord struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	AgentID    string    `json:"agent_id"`
	Path       string    `json:"path"`
	Operations int       `json:"operations"`
}

// NewFlushRecord creates a record for a flush that just committed. The
// session id is filled in by the journal when the record is written.
func NewFlushRecord(agentID, path string, operations int) FlushRecord {
	return FlushRecord{
		ID:         uuid.New().String(),
		AgentID:    agentID,
		Path:       path,
		Operations: operations,
		CreatedAt:  time.Now().UTC(),
	}
}
