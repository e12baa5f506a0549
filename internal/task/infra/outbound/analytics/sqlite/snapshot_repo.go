package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"
)

// SnapshotRepoSQLite guarda las fotos analíticas en un fichero SQLite local.
type SnapshotRepoSQLite struct {
	db *sql.DB
}

func NewSnapshotRepoSQLite(db *sql.DB) *SnapshotRepoSQLite {
	return &SnapshotRepoSQLite{db: db}
}

func (r *SnapshotRepoSQLite) InitSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS metrics_snapshots (
			version                        INTEGER PRIMARY KEY,
			taken_at                       TEXT NOT NULL,
			task_count                     INTEGER NOT NULL,
			total_revenue                  REAL NOT NULL,
			total_time_taken               REAL NOT NULL,
			time_efficiency_pct            REAL NOT NULL,
			revenue_per_hour               REAL NOT NULL,
			average_roi                    REAL NOT NULL,
			performance_grade              TEXT NOT NULL,
			todo                           INTEGER NOT NULL,
			in_progress                    INTEGER NOT NULL,
			done                           INTEGER NOT NULL,
			conversion_todo_to_in_progress REAL NOT NULL,
			conversion_in_progress_to_done REAL NOT NULL,
			weighted_pipeline              REAL NOT NULL
		);
		CREATE TABLE IF NOT EXISTS throughput_snapshots (
			version   INTEGER NOT NULL,
			week      TEXT NOT NULL,
			completed INTEGER NOT NULL,
			revenue   REAL NOT NULL,
			PRIMARY KEY (version, week)
		);
	`)
	return err
}

// LogSnapshot escribe la foto y su serie semanal en una sola transacción.
// Reexportar la misma versión la sobrescribe.
func (r *SnapshotRepoSQLite) LogSnapshot(ctx context.Context, snap taskDomain.MetricsSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	m, f := snap.Metrics, snap.Funnel
	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO metrics_snapshots (
			version, taken_at, task_count, total_revenue, total_time_taken, time_efficiency_pct,
			revenue_per_hour, average_roi, performance_grade, todo, in_progress, done,
			conversion_todo_to_in_progress, conversion_in_progress_to_done, weighted_pipeline
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(snap.Version), snap.TakenAt.UTC().Format("2006-01-02T15:04:05.000Z"), snap.TaskCount,
		m.TotalRevenue, m.TotalTimeTaken, m.TimeEfficiencyPct, m.RevenuePerHour, m.AverageROI, string(m.PerformanceGrade),
		f.Todo, f.InProgress, f.Done,
		f.ConversionTodoToInProgress, f.ConversionInProgressToDone, snap.WeightedPipeline,
	)
	if err != nil {
		return fmt.Errorf("failed to insert snapshot %d: %w", snap.Version, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM throughput_snapshots WHERE version = ?`, int64(snap.Version)); err != nil {
		return err
	}
	for _, b := range snap.Throughput {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO throughput_snapshots (version, week, completed, revenue) VALUES (?, ?, ?, ?)`,
			int64(snap.Version), b.Week, b.Count, b.Revenue,
		); err != nil {
			return fmt.Errorf("failed to insert throughput row %s: %w", b.Week, err)
		}
	}

	return tx.Commit()
}

// LatestSnapshot devuelve la última foto guardada (sin la serie semanal).
func (r *SnapshotRepoSQLite) LatestSnapshot(ctx context.Context) (taskDomain.MetricsSnapshot, bool, error) {
	var snap taskDomain.MetricsSnapshot
	var version int64
	var grade string
	err := r.db.QueryRowContext(ctx, `
		SELECT version, task_count, total_revenue, total_time_taken, time_efficiency_pct,
		       revenue_per_hour, average_roi, performance_grade, todo, in_progress, done,
		       conversion_todo_to_in_progress, conversion_in_progress_to_done, weighted_pipeline
		FROM metrics_snapshots ORDER BY version DESC LIMIT 1`,
	).Scan(
		&version, &snap.TaskCount, &snap.Metrics.TotalRevenue, &snap.Metrics.TotalTimeTaken,
		&snap.Metrics.TimeEfficiencyPct, &snap.Metrics.RevenuePerHour, &snap.Metrics.AverageROI, &grade,
		&snap.Funnel.Todo, &snap.Funnel.InProgress, &snap.Funnel.Done,
		&snap.Funnel.ConversionTodoToInProgress, &snap.Funnel.ConversionInProgressToDone, &snap.WeightedPipeline,
	)
	if err == sql.ErrNoRows {
		return taskDomain.MetricsSnapshot{}, false, nil
	}
	if err != nil {
		return taskDomain.MetricsSnapshot{}, false, err
	}
	snap.Version = uint64(version)
	snap.Metrics.PerformanceGrade = taskDomain.PerformanceGrade(grade)
	return snap, true, nil
}

// ThroughputFor devuelve la serie semanal de una versión concreta.
func (r *SnapshotRepoSQLite) ThroughputFor(ctx context.Context, version uint64) ([]taskDomain.WeekBucket, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT week, completed, revenue FROM throughput_snapshots WHERE version = ? ORDER BY week`, int64(version))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var buckets []taskDomain.WeekBucket
	for rows.Next() {
		var b taskDomain.WeekBucket
		if err := rows.Scan(&b.Week, &b.Count, &b.Revenue); err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
	}
	return buckets, rows.Err()
}

var _ taskDomain.TaskAnalyticsRepository = (*SnapshotRepoSQLite)(nil)
