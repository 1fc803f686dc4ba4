package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fitsync/fitsync/internal/model"
)

// upsertZone writes one heart-rate zone row. The zone tables share a
// column layout; table is one of heart_rate_zone / custom_heart_rate_zone.
func (s *Sink) upsertZone(ctx context.Context, table, userID, date string, zone model.HeartRateZone) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO `+table+` (user_id, date_queried, name, min, max, minutes, calories_out)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        ON CONFLICT (user_id, date_queried, name)
        DO UPDATE SET
            min = EXCLUDED.min,
            max = EXCLUDED.max,
            minutes = EXCLUDED.minutes,
            calories_out = EXCLUDED.calories_out
    `, userID, date, zone.Name, zone.Min, zone.Max, zone.Minutes, zone.CaloriesOut)
	if err != nil {
		return fmt.Errorf("upsert %s %q: %w", table, zone.Name, err)
	}
	return nil
}

func (s *Sink) insertHeartDays(ctx context.Context, days []model.HeartDay, date, userID string) error {
	for _, day := range days {
		_, err := s.db.ExecContext(ctx, `
            INSERT INTO heart_activity_summary (user_id, date_queried, resting_heart_rate)
            VALUES ($1,$2,$3)
            ON CONFLICT (user_id, date_queried)
            DO UPDATE SET resting_heart_rate = EXCLUDED.resting_heart_rate
        `, userID, date, day.Value.RestingHeartRate)
		if err != nil {
			return fmt.Errorf("upsert heart summary: %w", err)
		}

		for _, zone := range day.Value.HeartRateZones {
			if err := s.upsertZone(ctx, "heart_rate_zone", userID, date, zone); err != nil {
				return err
			}
		}
		for _, zone := range day.Value.CustomHeartRateZones {
			if err := s.upsertZone(ctx, "custom_heart_rate_zone", userID, date, zone); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *Sink) insertHeartSummary(ctx context.Context, payload json.RawMessage, date, userID string) error {
	var data model.HeartPayload
	if err := decode(payload, &data); err != nil {
		return err
	}
	return s.insertHeartDays(ctx, data.ActivitiesHeart, date, userID)
}

func (s *Sink) insertHeartIntraday(ctx context.Context, payload json.RawMessage, date, userID string) error {
	var data model.IntradayPayload
	if err := decode(payload, &data); err != nil {
		return err
	}
	if err := s.insertHeartDays(ctx, data.Heart, date, userID); err != nil {
		return err
	}
	if data.HeartSeries == nil {
		return nil
	}
	for _, p := range data.HeartSeries.Dataset {
		_, err := s.db.ExecContext(ctx, `
            INSERT INTO heart_rate_intraday (user_id, date_queried, time, value)
            VALUES ($1,$2,$3,$4)
            ON CONFLICT (user_id, date_queried, time)
            DO UPDATE SET value = EXCLUDED.value
        `, userID, date, p.Time, p.Value)
		if err != nil {
			return fmt.Errorf("upsert heart intraday: %w", err)
		}
	}
	return nil
}

func (s *Sink) insertHRV(ctx context.Context, payload json.RawMessage, date, userID string) error {
	var data model.HRVPayload
	if err := decode(payload, &data); err != nil {
		return err
	}
	for _, day := range data.HRV {
		_, err := s.db.ExecContext(ctx, `
            INSERT INTO hrv_summary (user_id, date_queried, daily_rmssd, deep_rmssd)
            VALUES ($1,$2,$3,$4)
            ON CONFLICT (user_id, date_queried)
            DO UPDATE SET
                daily_rmssd = EXCLUDED.daily_rmssd,
                deep_rmssd = EXCLUDED.deep_rmssd
        `, userID, date, day.Value.DailyRMSSD, day.Value.DeepRMSSD)
		if err != nil {
			return fmt.Errorf("upsert hrv summary: %w", err)
		}
	}
	return nil
}

func (s *Sink) insertHRVIntraday(ctx context.Context, payload json.RawMessage, date, userID string) error {
	var data model.HRVPayload
	if err := decode(payload, &data); err != nil {
		return err
	}
	for _, day := range data.HRV {
		for _, m := range day.Minutes {
			_, err := s.db.ExecContext(ctx, `
                INSERT INTO hrv_intraday (user_id, date_queried, minute, rmssd, coverage, hf, lf)
                VALUES ($1,$2,$3,$4,$5,$6,$7)
                ON CONFLICT (user_id, date_queried, minute)
                DO UPDATE SET
                    rmssd = EXCLUDED.rmssd,
                    coverage = EXCLUDED.coverage,
                    hf = EXCLUDED.hf,
                    lf = EXCLUDED.lf
            `, userID, date, m.Minute, m.Value.RMSSD, m.Value.Coverage, m.Value.HF, m.Value.LF)
			if err != nil {
				return fmt.Errorf("upsert hrv intraday: %w", err)
			}
		}
	}
	return nil
}
