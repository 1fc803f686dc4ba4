package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fitsync/fitsync/internal/model"
)

func (s *Sink) insertActivity(ctx context.Context, payload json.RawMessage, date, userID string) error {
	var data model.ActivityPayload
	if err := decode(payload, &data); err != nil {
		return err
	}
	goals, summary := data.Goals, data.Summary

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO daily_activity_summary (
            user_id, date_queried, goal_active_minutes, goal_calories_out,
            goal_distance, goal_floors, goal_steps, activity_calories,
            calorie_estimation_mu, calories_bmr, calories_out,
            calories_out_unestimated, elevation, fairly_active_minutes,
            floors, lightly_active_minutes, marginal_calories,
            resting_heart_rate, sedentary_minutes, steps, use_estimation,
            very_active_minutes
        ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)
        ON CONFLICT (user_id, date_queried)
        DO UPDATE SET
            goal_active_minutes = EXCLUDED.goal_active_minutes,
            goal_calories_out = EXCLUDED.goal_calories_out,
            goal_distance = EXCLUDED.goal_distance,
            goal_floors = EXCLUDED.goal_floors,
            goal_steps = EXCLUDED.goal_steps,
            activity_calories = EXCLUDED.activity_calories,
            calorie_estimation_mu = EXCLUDED.calorie_estimation_mu,
            calories_bmr = EXCLUDED.calories_bmr,
            calories_out = EXCLUDED.calories_out,
            calories_out_unestimated = EXCLUDED.calories_out_unestimated,
            elevation = EXCLUDED.elevation,
            fairly_active_minutes = EXCLUDED.fairly_active_minutes,
            floors = EXCLUDED.floors,
            lightly_active_minutes = EXCLUDED.lightly_active_minutes,
            marginal_calories = EXCLUDED.marginal_calories,
            resting_heart_rate = EXCLUDED.resting_heart_rate,
            sedentary_minutes = EXCLUDED.sedentary_minutes,
            steps = EXCLUDED.steps,
            use_estimation = EXCLUDED.use_estimation,
            very_active_minutes = EXCLUDED.very_active_minutes
    `, userID, date, goals.ActiveMinutes, goals.CaloriesOut, goals.Distance, goals.Floors,
		goals.Steps, summary.ActivityCalories, summary.CalorieEstimationMu, summary.CaloriesBMR,
		summary.CaloriesOut, summary.CaloriesOutUnestimated, summary.Elevation,
		summary.FairlyActiveMinutes, summary.Floors, summary.LightlyActiveMinutes,
		summary.MarginalCalories, summary.RestingHeartRate, summary.SedentaryMinutes,
		summary.Steps, summary.UseEstimation, summary.VeryActiveMinutes)
	if err != nil {
		return fmt.Errorf("upsert daily activity summary: %w", err)
	}

	for _, d := range summary.Distances {
		_, err := s.db.ExecContext(ctx, `
            INSERT INTO daily_activity_distances (user_id, date_queried, activity, distance)
            VALUES ($1,$2,$3,$4)
            ON CONFLICT (user_id, date_queried, activity)
            DO UPDATE SET distance = EXCLUDED.distance
        `, userID, date, d.Activity, d.Distance)
		if err != nil {
			return fmt.Errorf("upsert activity distance: %w", err)
		}
	}

	for _, zone := range summary.HeartRateZones {
		if err := s.upsertZone(ctx, "heart_rate_zone", userID, date, zone); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sink) insertStepsIntraday(ctx context.Context, payload json.RawMessage, date, userID string) error {
	var data model.IntradayPayload
	if err := decode(payload, &data); err != nil {
		return err
	}
	if data.StepsSeries == nil {
		return nil
	}
	for _, p := range data.StepsSeries.Dataset {
		_, err := s.db.ExecContext(ctx, `
            INSERT INTO activity_steps_intraday (user_id, date_queried, time, value)
            VALUES ($1,$2,$3,$4)
            ON CONFLICT (user_id, date_queried, time)
            DO UPDATE SET value = EXCLUDED.value
        `, userID, date, p.Time, p.Value)
		if err != nil {
			return fmt.Errorf("upsert steps intraday: %w", err)
		}
	}
	return nil
}

func (s *Sink) insertActivityLogs(ctx context.Context, payload json.RawMessage, cred *model.Credential) error {
	var data model.ActivityLogPayload
	if err := decode(payload, &data); err != nil {
		return err
	}

	for _, entry := range data.Activities {
		// Logged activities can predate enrollment; the list endpoint
		// pages by afterDate, so filter per record.
		started, err := time.Parse(time.RFC3339, entry.OriginalStartTime)
		if err == nil && started.Before(cred.FirstAdded) {
			continue
		}

		manual := entry.ManualValuesSpecified
		_, err = s.db.ExecContext(ctx, `
            INSERT INTO activity_log_activities (user_id, activity_log_id, active_duration, activity_name, activity_type_id, calories, duration_ms, elevation_gain, last_modified, log_type, manual_calories_specified, manual_distance_specified, manual_steps_specified, original_duration_ms, original_start_time, start_time, steps)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
            ON CONFLICT (user_id, activity_log_id)
            DO UPDATE SET
                active_duration = EXCLUDED.active_duration,
                activity_name = EXCLUDED.activity_name,
                activity_type_id = EXCLUDED.activity_type_id,
                calories = EXCLUDED.calories,
                duration_ms = EXCLUDED.duration_ms,
                elevation_gain = EXCLUDED.elevation_gain,
                last_modified = EXCLUDED.last_modified,
                log_type = EXCLUDED.log_type,
                manual_calories_specified = EXCLUDED.manual_calories_specified,
                manual_distance_specified = EXCLUDED.manual_distance_specified,
                manual_steps_specified = EXCLUDED.manual_steps_specified,
                original_duration_ms = EXCLUDED.original_duration_ms,
                original_start_time = EXCLUDED.original_start_time,
                start_time = EXCLUDED.start_time,
                steps = EXCLUDED.steps
        `, cred.UserID, entry.LogID, entry.ActiveDuration, entry.ActivityName,
			entry.ActivityTypeID, entry.Calories, entry.Duration, entry.ElevationGain,
			entry.LastModified, entry.LogType, manual.Calories, manual.Distance, manual.Steps,
			entry.OriginalDuration, entry.OriginalStartTime, entry.StartTime, entry.Steps)
		if err != nil {
			return fmt.Errorf("upsert activity log %d: %w", entry.LogID, err)
		}

		for _, level := range entry.ActivityLevel {
			_, err := s.db.ExecContext(ctx, `
                INSERT INTO activity_log_activity_levels (activity_log_id, minutes, level_name)
                VALUES ($1,$2,$3)
                ON CONFLICT (activity_log_id, level_name)
                DO UPDATE SET minutes = EXCLUDED.minutes
            `, entry.LogID, level.Minutes, level.Name)
			if err != nil {
				return fmt.Errorf("upsert activity level: %w", err)
			}
		}
	}
	return nil
}
