package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates every table the service writes if it does not
// exist yet. Statements are idempotent; production deployments may run
// migrations out of band instead.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS fitbit_users (
        user_id TEXT PRIMARY KEY,
        access_token TEXT NOT NULL,
        refresh_token TEXT NOT NULL,
        token_type TEXT NOT NULL,
        scope TEXT NOT NULL,
        expires_at TIMESTAMPTZ,
        first_added TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS oauth_state (
        state TEXT PRIMARY KEY,
        code_verifier TEXT NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS sleep_summary (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        total_minutes_asleep INT,
        total_sleep_records INT,
        total_time_in_bed INT,
        PRIMARY KEY (user_id, date_queried)
    )`,
	`CREATE TABLE IF NOT EXISTS sleep_log (
        log_id BIGINT PRIMARY KEY,
        date_queried DATE NOT NULL,
        user_id TEXT NOT NULL,
        date_of_sleep DATE,
        duration BIGINT,
        efficiency INT,
        end_time TEXT,
        info_code INT,
        is_main_sleep BOOLEAN,
        start_time TEXT,
        log_type TEXT,
        minutes_after_wakeup INT,
        minutes_asleep INT,
        minutes_awake INT,
        minutes_to_fall_asleep INT,
        time_in_bed INT,
        type TEXT
    )`,
	`CREATE TABLE IF NOT EXISTS sleep_level (
        log_id BIGINT NOT NULL,
        date_time TEXT NOT NULL,
        level TEXT NOT NULL,
        seconds INT,
        PRIMARY KEY (log_id, date_time, level)
    )`,
	`CREATE TABLE IF NOT EXISTS daily_activity_summary (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        goal_active_minutes INT,
        goal_calories_out INT,
        goal_distance DOUBLE PRECISION,
        goal_floors INT,
        goal_steps INT,
        activity_calories INT,
        calorie_estimation_mu DOUBLE PRECISION,
        calories_bmr INT,
        calories_out INT,
        calories_out_unestimated INT,
        elevation DOUBLE PRECISION,
        fairly_active_minutes INT,
        floors INT,
        lightly_active_minutes INT,
        marginal_calories INT,
        resting_heart_rate INT,
        sedentary_minutes INT,
        steps INT,
        use_estimation BOOLEAN,
        very_active_minutes INT,
        PRIMARY KEY (user_id, date_queried)
    )`,
	`CREATE TABLE IF NOT EXISTS daily_activity_distances (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        activity TEXT NOT NULL,
        distance DOUBLE PRECISION,
        PRIMARY KEY (user_id, date_queried, activity)
    )`,
	`CREATE TABLE IF NOT EXISTS heart_activity_summary (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        resting_heart_rate INT,
        PRIMARY KEY (user_id, date_queried)
    )`,
	`CREATE TABLE IF NOT EXISTS heart_rate_zone (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        name TEXT NOT NULL,
        min INT,
        max INT,
        minutes INT,
        calories_out DOUBLE PRECISION,
        PRIMARY KEY (user_id, date_queried, name)
    )`,
	`CREATE TABLE IF NOT EXISTS custom_heart_rate_zone (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        name TEXT NOT NULL,
        min INT,
        max INT,
        minutes INT,
        calories_out DOUBLE PRECISION,
        PRIMARY KEY (user_id, date_queried, name)
    )`,
	`CREATE TABLE IF NOT EXISTS heart_rate_intraday (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        time TEXT NOT NULL,
        value DOUBLE PRECISION,
        PRIMARY KEY (user_id, date_queried, time)
    )`,
	`CREATE TABLE IF NOT EXISTS activity_steps_intraday (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        time TEXT NOT NULL,
        value DOUBLE PRECISION,
        PRIMARY KEY (user_id, date_queried, time)
    )`,
	`CREATE TABLE IF NOT EXISTS hrv_summary (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        daily_rmssd DOUBLE PRECISION,
        deep_rmssd DOUBLE PRECISION,
        PRIMARY KEY (user_id, date_queried)
    )`,
	`CREATE TABLE IF NOT EXISTS hrv_intraday (
        user_id TEXT NOT NULL,
        date_queried DATE NOT NULL,
        minute TEXT NOT NULL,
        rmssd DOUBLE PRECISION,
        coverage DOUBLE PRECISION,
        hf DOUBLE PRECISION,
        lf DOUBLE PRECISION,
        PRIMARY KEY (user_id, date_queried, minute)
    )`,
	`CREATE TABLE IF NOT EXISTS activity_log_activities (
        user_id TEXT NOT NULL,
        activity_log_id BIGINT NOT NULL,
        active_duration BIGINT,
        activity_name TEXT,
        activity_type_id BIGINT,
        calories INT,
        duration_ms BIGINT,
        elevation_gain DOUBLE PRECISION,
        last_modified TEXT,
        log_type TEXT,
        manual_calories_specified BOOLEAN,
        manual_distance_specified BOOLEAN,
        manual_steps_specified BOOLEAN,
        original_duration_ms BIGINT,
        original_start_time TEXT,
        start_time TEXT,
        steps INT,
        PRIMARY KEY (user_id, activity_log_id)
    )`,
	`CREATE TABLE IF NOT EXISTS activity_log_activity_levels (
        activity_log_id BIGINT NOT NULL,
        level_name TEXT NOT NULL,
        minutes INT,
        PRIMARY KEY (activity_log_id, level_name)
    )`,
}
