package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/deformed-cactus/chessOpenings/app/config"
	"github.com/deformed-cactus/chessOpenings/app/models"
)

var db *sql.DB

// MustInitDB initializes the global db and logs fatally on error.
func MustInitDB() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s",
		cfg.DB.Username,
		cfg.DB.Password,
		cfg.DB.URL,
		cfg.DB.Port,
	)

	d, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open")
	}

	if err := d.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping")
	}

	log.Info().Msg("Connected to Postgres")
	db = d
}

// SaveReports persists finished variation walks. Reports are keyed by
// (opening, first move); re-analyzing an opening replaces its reports.
func SaveReports(ctx context.Context, reports []models.VariationReport) error {
	if db == nil {
		// Allow test runs without a backing DB.
		return nil
	}
	if len(reports) == 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 1) Report rows, collecting generated ids for the move COPY
	reportIDs := make([]int64, len(reports))
	for i, rep := range reports {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO variation_reports (
				opening,
				first_move_san,
				source,
				critical_count,
				final_fen,
				explanation,
				job_id
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (opening, first_move_san) DO UPDATE SET
				source         = EXCLUDED.source,
				critical_count = EXCLUDED.critical_count,
				final_fen      = EXCLUDED.final_fen,
				explanation    = EXCLUDED.explanation,
				job_id         = EXCLUDED.job_id
			RETURNING id;
		`, rep.Opening, rep.FirstMoveSAN, rep.Source, rep.CriticalCount, rep.FinalFEN, rep.Explanation, rep.JobID).Scan(&reportIDs[i])
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM variation_moves WHERE report_id = $1`, reportIDs[i]); err != nil {
			return err
		}
	}

	// 2) COPY all moves in one shot
	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(
		"variation_moves",
		"report_id",
		"ply",
		"move_uci",
		"move_san",
		"color",
		"is_critical",
		"margin_cp",
	))
	if err != nil {
		return err
	}

	for i, rep := range reports {
		for _, m := range rep.Moves {
			if _, err := stmt.Exec(
				reportIDs[i],
				m.Ply,
				m.MoveUCI,
				m.MoveSAN,
				m.Color,
				m.IsCritical,
				m.MarginCP,
			); err != nil {
				return err
			}
		}
	}

	// finish COPY
	if _, err := stmt.Exec(); err != nil {
		return err
	}
	if err := stmt.Close(); err != nil {
		return err
	}

	return tx.Commit()
}

// LoadReports reads every stored variation report for an opening.
func LoadReports(ctx context.Context, opening string) ([]models.VariationReport, error) {
	if db == nil {
		return nil, nil
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			id,
			opening,
			first_move_san,
			source,
			critical_count,
			final_fen,
			explanation,
			COALESCE(job_id, '')
		FROM variation_reports
		WHERE opening = $1
		ORDER BY first_move_san
	`, opening)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.VariationReport
	var ids []int64
	byID := map[int64]int{}
	for rows.Next() {
		var id int64
		var rep models.VariationReport
		if err := rows.Scan(
			&id,
			&rep.Opening,
			&rep.FirstMoveSAN,
			&rep.Source,
			&rep.CriticalCount,
			&rep.FinalFEN,
			&rep.Explanation,
			&rep.JobID,
		); err != nil {
			return nil, err
		}
		byID[id] = len(out)
		ids = append(ids, id)
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}

	moveRows, err := db.QueryContext(ctx, `
		SELECT
			report_id,
			ply,
			move_uci,
			move_san,
			color,
			is_critical,
			margin_cp
		FROM variation_moves
		WHERE report_id = ANY($1)
		ORDER BY report_id, ply
	`, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer moveRows.Close()

	for moveRows.Next() {
		var reportID int64
		var m models.MoveReport
		if err := moveRows.Scan(
			&reportID,
			&m.Ply,
			&m.MoveUCI,
			&m.MoveSAN,
			&m.Color,
			&m.IsCritical,
			&m.MarginCP,
		); err != nil {
			return nil, err
		}
		if idx, ok := byID[reportID]; ok {
			out[idx].Moves = append(out[idx].Moves, m)
		}
	}
	if err := moveRows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateJob records that an analysis job has begun and returns its id.
func CreateJob(ctx context.Context, opening string) (string, error) {
	jobID := uuid.NewString()
	if db == nil {
		return jobID, nil
	}
	_, err := db.ExecContext(ctx, `
		INSERT INTO jobs (id, opening, status, variations)
		VALUES ($1, $2, 'queued', 0)
	`, jobID, opening)
	if err != nil {
		return "", err
	}
	return jobID, nil
}

func MarkJobDone(ctx context.Context, jobID string, variations int) error {
	if db == nil || jobID == "" {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		UPDATE jobs SET status = 'done', variations = $2 WHERE id = $1
	`, jobID, variations)
	return err
}

func MarkJobFailed(ctx context.Context, jobID string) error {
	if db == nil || jobID == "" {
		return nil
	}
	_, err := db.ExecContext(ctx, `
		UPDATE jobs SET status = 'failed' WHERE id = $1
	`, jobID)
	return err
}

// GetJob returns one job's status row.
func GetJob(ctx context.Context, jobID string) (models.JobStatus, error) {
	var st models.JobStatus
	if db == nil {
		return st, sql.ErrNoRows
	}
	err := db.QueryRowContext(ctx, `
		SELECT id, opening, status, variations FROM jobs WHERE id = $1
	`, jobID).Scan(&st.ID, &st.Opening, &st.Status, &st.Variations)
	return st, err
}
