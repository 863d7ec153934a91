package journal

import "fmt"

// RecordFlush writes one flush record. The record's SessionID is overwritten
// with the journal's session tag.
func (j *Journal) RecordFlush(rec FlushRecord) error {
	rec.SessionID = j.sessionID

	query := `
		INSERT INTO flushes (id, session_id, agent_id, path, operations, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := j.db.Exec(query, rec.ID, rec.SessionID, rec.AgentID, rec.Path, rec.Operations, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record flush of %s: %w", rec.Path, err)
	}
	return nil
}

// FlushesByAgent returns the agent's flush history, newest first.
func (j *Journal) FlushesByAgent(agentID string) ([]FlushRecord, error) {
	query := `
		SELECT id, session_id, agent_id, path, operations, created_at
		FROM flushes
		WHERE agent_id = ?
		ORDER BY created_at DESC
	`
	rows, err := j.db.Query(query, agentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flushes for agent %s: %w", agentID, err)
	}
	defer func() { _ = rows.Close() }()

	return scanFlushRecords(rows)
}

// FlushesBySession returns every flush written in one host session, newest first.
func (j *Journal) FlushesBySession(sessionID string) ([]FlushRecord, error) {
	query := `
		SELECT id, session_id, agent_id, path, operations, created_at
		FROM flushes
		WHERE session_id = ?
		ORDER BY created_at DESC
	`
	rows, err := j.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query flushes for session %s: %w", sessionID, err)
	}
	defer func() { _ = rows.Close() }()

	return scanFlushRecords(rows)
}

// CountFlushes returns the total number of recorded flushes.
func (j *Journal) CountFlushes() (int, error) {
	var count int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM flushes").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count flushes: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanFlushRecords(rows rowScanner) ([]FlushRecord, error) {
	var records []FlushRecord
	for rows.Next() {
		var rec FlushRecord
		if err := rows.Scan(&rec.ID, &rec.SessionID, &rec.AgentID, &rec.Path, &rec.Operations, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flush record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flush records: %w", err)
	}
	return records, nil
}
