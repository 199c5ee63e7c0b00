package predictions

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/finsight-dev/finsight/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS predictions (
	id               TEXT PRIMARY KEY,
	owner_id         TEXT NOT NULL,
	type             TEXT NOT NULL,
	title            TEXT NOT NULL,
	description      TEXT NOT NULL,
	confidence_score REAL NOT NULL,
	predicted_value  TEXT NOT NULL,
	prediction_for   TIMESTAMP,
	expires_at       TIMESTAMP,
	status           TEXT NOT NULL,
	metadata         TEXT NOT NULL,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_predictions_owner_status ON predictions (owner_id, status);
`

const selectColumns = `id, owner_id, type, title, description, confidence_score,
	predicted_value, prediction_for, expires_at, status, metadata, created_at, updated_at`

// SQLStore implements Store on database/sql. Placeholders use the $N form,
// which both the sqlite3 and postgres drivers accept.
type SQLStore struct {
	db *sql.DB
}

// Open connects with the given driver ("sqlite3" or "postgres") and ensures
// the schema exists.
func Open(driver, dsn string) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening prediction store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing prediction store schema: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) Create(p *model.Prediction, now time.Time) error {
	if p.Status == "" {
		p.Status = model.PredictionActive
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	meta, err := json.Marshal(p.Metadata)
	if err != nil {
		return fmt.Errorf("encoding prediction metadata: %w", err)
	}

	_, err = s.db.Exec(`INSERT INTO predictions (`+selectColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.OwnerID, string(p.Type), p.Title, p.Description, p.ConfidenceScore,
		p.PredictedValue.String(), nullableTime(p.PredictionFor), nullableTime(p.ExpiresAt),
		string(p.Status), string(meta), p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting prediction %s: %w", p.ID, err)
	}
	return nil
}

func (s *SQLStore) Get(id string) (model.Prediction, error) {
	row := s.db.QueryRow(`SELECT `+selectColumns+` FROM predictions WHERE id = $1`, id)
	p, err := scanPrediction(row)
	if err == sql.ErrNoRows {
		return model.Prediction{}, fmt.Errorf("prediction %s: %w", id, model.ErrNotFound)
	}
	if err != nil {
		return model.Prediction{}, fmt.Errorf("loading prediction %s: %w", id, err)
	}
	return p, nil
}

func (s *SQLStore) ListByOwner(ownerID string, status model.PredictionStatus, ptype model.PredictionType) ([]model.Prediction, error) {
	rows, err := s.db.Query(`SELECT `+selectColumns+` FROM predictions
		WHERE owner_id = $1
		  AND ($2 = '' OR status = $2)
		  AND ($3 = '' OR type = $3)
		ORDER BY created_at DESC, id`,
		ownerID, string(status), string(ptype))
	if err != nil {
		return nil, fmt.Errorf("listing predictions for %s: %w", ownerID, err)
	}
	return collectPredictions(rows)
}

func (s *SQLStore) ListActive(ownerID string, ptype model.PredictionType, now time.Time) ([]model.Prediction, error) {
	rows, err := s.db.Query(`SELECT `+selectColumns+` FROM predictions
		WHERE owner_id = $1
		  AND status = $2
		  AND (expires_at IS NULL OR expires_at > $3)
		  AND ($4 = '' OR type = $4)
		ORDER BY created_at DESC, id`,
		ownerID, string(model.PredictionActive), now, string(ptype))
	if err != nil {
		return nil, fmt.Errorf("listing active predictions for %s: %w", ownerID, err)
	}
	return collectPredictions(rows)
}

func (s *SQLStore) ListHighConfidence(ownerID string, threshold float64, limit int, now time.Time) ([]model.Prediction, error) {
	rows, err := s.db.Query(`SELECT `+selectColumns+` FROM predictions
		WHERE owner_id = $1
		  AND status = $2
		  AND confidence_score >= $3
		  AND (expires_at IS NULL OR expires_at > $4)
		ORDER BY confidence_score DESC, created_at DESC, id
		LIMIT $5`,
		ownerID, string(model.PredictionActive), threshold, now, limit)
	if err != nil {
		return nil, fmt.Errorf("listing high-confidence predictions for %s: %w", ownerID, err)
	}
	return collectPredictions(rows)
}

func (s *SQLStore) Archive(id string, now time.Time) error {
	return s.transition(id, model.PredictionArchived, now)
}

func (s *SQLStore) Dismiss(id string, now time.Time) error {
	return s.transition(id, model.PredictionDismissed, now)
}

// transition moves an active prediction to a terminal status. Terminal
// predictions are left untouched so repeated calls stay idempotent.
func (s *SQLStore) transition(id string, to model.PredictionStatus, now time.Time) error {
	result, err := s.db.Exec(`UPDATE predictions SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4`,
		string(to), now, id, string(model.PredictionActive))
	if err != nil {
		return fmt.Errorf("transitioning prediction %s to %s: %w", id, to, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("transitioning prediction %s to %s: %w", id, to, err)
	}
	if affected > 0 {
		return nil
	}

	// Nothing updated: either missing or already terminal.
	if _, err := s.Get(id); err != nil {
		return err
	}
	return nil
}

func (s *SQLStore) ArchiveExpired(ownerID string, now time.Time) (int, error) {
	result, err := s.db.Exec(`UPDATE predictions SET status = $1, updated_at = $2
		WHERE status = $3
		  AND expires_at IS NOT NULL AND expires_at <= $2
		  AND ($4 = '' OR owner_id = $4)`,
		string(model.PredictionArchived), now, string(model.PredictionActive), ownerID)
	if err != nil {
		return 0, fmt.Errorf("archiving expired predictions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("archiving expired predictions: %w", err)
	}
	return int(affected), nil
}

func (s *SQLStore) PurgeOlderThan(days, batchSize int, now time.Time) (int, error) {
	cutoff := now.AddDate(0, 0, -days)
	result, err := s.db.Exec(`DELETE FROM predictions WHERE id IN (
		SELECT id FROM predictions
		WHERE created_at < $1 AND status IN ($2, $3)
		ORDER BY created_at
		LIMIT $4)`,
		cutoff, string(model.PredictionArchived), string(model.PredictionDismissed), batchSize)
	if err != nil {
		return 0, fmt.Errorf("purging old predictions: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("purging old predictions: %w", err)
	}
	return int(affected), nil
}

func (s *SQLStore) Statistics(ownerID string) (Statistics, error) {
	// $N placeholders must appear in numeric order: the sqlite3 driver
	// assigns indexes by first occurrence in the SQL text.
	row := s.db.QueryRow(`SELECT
		COUNT(*),
		COALESCE(SUM(CASE WHEN status = $1 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = $2 THEN 1 ELSE 0 END), 0),
		COALESCE(SUM(CASE WHEN status = $3 THEN 1 ELSE 0 END), 0),
		COALESCE(AVG(confidence_score), 0),
		COALESCE(MAX(confidence_score), 0),
		COALESCE(MIN(confidence_score), 0)
	FROM predictions WHERE owner_id = $4`,
		string(model.PredictionActive), string(model.PredictionArchived),
		string(model.PredictionDismissed), ownerID)

	var stats Statistics
	err := row.Scan(&stats.Total, &stats.Active, &stats.Archived, &stats.Dismissed,
		&stats.AvgConfidence, &stats.MaxConfidence, &stats.MinConfidence)
	if err != nil {
		return Statistics{}, fmt.Errorf("computing prediction statistics for %s: %w", ownerID, err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPrediction(row rowScanner) (model.Prediction, error) {
	var (
		p             model.Prediction
		ptype, status string
		value, meta   string
		predictionFor sql.NullTime
		expiresAt     sql.NullTime
	)
	err := row.Scan(&p.ID, &p.OwnerID, &ptype, &p.Title, &p.Description, &p.ConfidenceScore,
		&value, &predictionFor, &expiresAt, &status, &meta, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Prediction{}, err
	}

	p.Type = model.PredictionType(ptype)
	p.Status = model.PredictionStatus(status)
	p.PredictedValue, err = decimal.NewFromString(value)
	if err != nil {
		return model.Prediction{}, fmt.Errorf("parsing predicted value %q: %w", value, err)
	}
	if predictionFor.Valid {
		t := predictionFor.Time
		p.PredictionFor = &t
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		p.ExpiresAt = &t
	}
	if err := json.Unmarshal([]byte(meta), &p.Metadata); err != nil {
		return model.Prediction{}, fmt.Errorf("decoding prediction metadata: %w", err)
	}
	return p, nil
}

func collectPredictions(rows *sql.Rows) ([]model.Prediction, error) {
	defer rows.Close()

	var out []model.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning prediction row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating prediction rows: %w", err)
	}
	return out, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
