package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Session is one completed practice session.
type Session struct {
	Token       string
	Level       string
	Week        int
	SetIDs      []int64 // playback order at completion
	Sets        int
	Questions   int
	CompletedAt time.Time
}

// Answer is one row of a session's answer sheet.
type Answer struct {
	GlobalIndex int
	SetName     string
	Question    string
	Answer      float64
}

// RecordSession inserts a session and its answer sheet in one transaction.
// Recording the same token twice is a silent no-op, so retries after a
// partial failure are safe.
func (s *Store) RecordSession(ctx context.Context, sess Session, answers []Answer) error {
	setIDs, err := json.Marshal(sess.SetIDs)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sessions
		(token, level, week, set_ids, sets, questions, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		sess.Token,
		sess.Level,
		sess.Week,
		string(setIDs),
		sess.Sets,
		sess.Questions,
		sess.CompletedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record session: %w", err)
	}

	for _, a := range answers {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO session_answers
			(session_token, global_index, set_name, question, answer)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(session_token, global_index) DO NOTHING
		`,
			sess.Token, a.GlobalIndex, a.SetName, a.Question, a.Answer,
		)
		if err != nil {
			return fmt.Errorf("record answer %d: %w", a.GlobalIndex, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("record session: %w", err)
	}
	return nil
}

// ListSessions returns the most recent sessions, newest first. Ties on
// completion time break by token, which for UUIDv7 is creation order.
// limit <= 0 means no limit.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	q := `
		SELECT token, level, week, set_ids, sets, questions, completed_at
		FROM sessions
		ORDER BY completed_at DESC, token DESC
	`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var setIDs, completedAt string
		if err := rows.Scan(&sess.Token, &sess.Level, &sess.Week, &setIDs,
			&sess.Sets, &sess.Questions, &completedAt); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		if err := json.Unmarshal([]byte(setIDs), &sess.SetIDs); err != nil {
			return nil, fmt.Errorf("session %s set_ids: %w", sess.Token, err)
		}
		sess.CompletedAt, err = time.Parse(time.RFC3339, completedAt)
		if err != nil {
			return nil, fmt.Errorf("session %s completed_at: %w", sess.Token, err)
		}
		sessions = append(sessions, sess)
	}
	return sessions, rows.Err()
}

// SessionAnswers returns a session's answer sheet in question order.
func (s *Store) SessionAnswers(ctx context.Context, token string) ([]Answer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT global_index, set_name, question, answer
		FROM session_answers
		WHERE session_token = ?
		ORDER BY global_index ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("session answers: %w", err)
	}
	defer rows.Close()

	var answers []Answer
	for rows.Next() {
		var a Answer
		if err := rows.Scan(&a.GlobalIndex, &a.SetName, &a.Question, &a.Answer); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		answers = append(answers, a)
	}
	return answers, rows.Err()
}
