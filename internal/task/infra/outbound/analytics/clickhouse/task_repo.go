package clickhouse

import (
	"context"
	"database/sql"
	"fmt"

	taskDomain "github.com/davicafu/salesboard/internal/task/domain"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// SnapshotRepo implementa la interfaz TaskAnalyticsRepository para ClickHouse.
type SnapshotRepo struct {
	db *sql.DB
}

// NewSnapshotRepo es el constructor.
func NewSnapshotRepo(addr string, dbName string) (*SnapshotRepo, error) {
	conn := clickhouse.OpenDB(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: dbName,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
	})

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("could not ping clickhouse: %w", err)
	}

	return &SnapshotRepo{db: conn}, nil
}

// LogSnapshot inserta la foto agregada y su serie semanal.
// ClickHouse funciona mejor con inserciones en lotes, una tx por tabla.
func (r *SnapshotRepo) LogSnapshot(ctx context.Context, snap taskDomain.MetricsSnapshot) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO metrics_snapshots (
		version, taken_at, task_count, total_revenue, total_time_taken, time_efficiency_pct,
		revenue_per_hour, average_roi, performance_grade, todo, in_progress, done,
		conversion_todo_to_in_progress, conversion_in_progress_to_done, weighted_pipeline)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	m, f := snap.Metrics, snap.Funnel
	if _, err := stmt.ExecContext(ctx,
		snap.Version, snap.TakenAt, uint32(snap.TaskCount),
		m.TotalRevenue, m.TotalTimeTaken, m.TimeEfficiencyPct, m.RevenuePerHour, m.AverageROI, string(m.PerformanceGrade),
		uint32(f.Todo), uint32(f.InProgress), uint32(f.Done),
		f.ConversionTodoToInProgress, f.ConversionInProgressToDone, snap.WeightedPipeline,
	); err != nil {
		stmt.Close()
		tx.Rollback()
		return fmt.Errorf("failed to exec snapshot %d: %w", snap.Version, err)
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return err
	}

	if len(snap.Throughput) == 0 {
		return nil
	}

	tx, err = r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err = tx.PrepareContext(ctx, "INSERT INTO throughput_snapshots (version, taken_at, week, completed, revenue)")
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, b := range snap.Throughput {
		if _, err := stmt.ExecContext(ctx, snap.Version, snap.TakenAt, b.Week, uint32(b.Count), b.Revenue); err != nil {
			// Si un registro falla, hacemos rollback de todo el lote.
			tx.Rollback()
			return fmt.Errorf("failed to exec throughput row %s: %w", b.Week, err)
		}
	}
	return tx.Commit()
}

// InitSchema crea las tablas en ClickHouse si no existen.
// Se particionan por mes y se ordenan por momento de la foto.
func (r *SnapshotRepo) InitSchema(ctx context.Context) error {
	queries := []string{`
		CREATE TABLE IF NOT EXISTS metrics_snapshots (
			version                        UInt64,
			taken_at                       DateTime64(3),
			task_count                     UInt32,
			total_revenue                  Float64,
			total_time_taken               Float64,
			time_efficiency_pct            Float64,
			revenue_per_hour               Float64,
			average_roi                    Float64,
			performance_grade              LowCardinality(String),
			todo                           UInt32,
			in_progress                    UInt32,
			done                           UInt32,
			conversion_todo_to_in_progress Float64,
			conversion_in_progress_to_done Float64,
			weighted_pipeline              Float64
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(taken_at)
		ORDER BY (taken_at, version)`, `
		CREATE TABLE IF NOT EXISTS throughput_snapshots (
			version   UInt64,
			taken_at  DateTime64(3),
			week      String,
			completed UInt32,
			revenue   Float64
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(taken_at)
		ORDER BY (week, taken_at)`,
	}
	for _, q := range queries {
		if _, err := r.db.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

func (r *SnapshotRepo) Close() error {
	return r.db.Close()
}

// Verificación estática de la interfaz.
var _ taskDomain.TaskAnalyticsRepository = (*SnapshotRepo)(nil)
