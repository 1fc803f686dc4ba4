package ingest

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fitsync/fitsync/internal/model"
)

func (s *Sink) insertSleep(ctx context.Context, payload json.RawMessage, date, userID string) error {
	var data model.SleepPayload
	if err := decode(payload, &data); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO sleep_summary (user_id, date_queried, total_minutes_asleep, total_sleep_records, total_time_in_bed)
        VALUES ($1,$2,$3,$4,$5)
        ON CONFLICT (user_id, date_queried) DO UPDATE SET
            total_minutes_asleep = EXCLUDED.total_minutes_asleep,
            total_sleep_records = EXCLUDED.total_sleep_records,
            total_time_in_bed = EXCLUDED.total_time_in_bed
    `, userID, date, data.Summary.TotalMinutesAsleep, data.Summary.TotalSleepRecords, data.Summary.TotalTimeInBed)
	if err != nil {
		return fmt.Errorf("upsert sleep summary: %w", err)
	}

	for _, entry := range data.Sleep {
		_, err := s.db.ExecContext(ctx, `
            INSERT INTO sleep_log (log_id, date_queried, user_id, date_of_sleep, duration, efficiency, end_time, info_code, is_main_sleep, start_time, log_type, minutes_after_wakeup, minutes_asleep, minutes_awake, minutes_to_fall_asleep, time_in_bed, type)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17)
            ON CONFLICT (log_id) DO UPDATE SET
                date_queried = EXCLUDED.date_queried,
                user_id = EXCLUDED.user_id,
                date_of_sleep = EXCLUDED.date_of_sleep,
                duration = EXCLUDED.duration,
                efficiency = EXCLUDED.efficiency,
                end_time = EXCLUDED.end_time,
                info_code = EXCLUDED.info_code,
                is_main_sleep = EXCLUDED.is_main_sleep,
                start_time = EXCLUDED.start_time,
                log_type = EXCLUDED.log_type,
                minutes_after_wakeup = EXCLUDED.minutes_after_wakeup,
                minutes_asleep = EXCLUDED.minutes_asleep,
                minutes_awake = EXCLUDED.minutes_awake,
                minutes_to_fall_asleep = EXCLUDED.minutes_to_fall_asleep,
                time_in_bed = EXCLUDED.time_in_bed,
                type = EXCLUDED.type
        `, entry.LogID, date, userID, entry.DateOfSleep, entry.Duration, entry.Efficiency,
			entry.EndTime, entry.InfoCode, entry.IsMainSleep, entry.StartTime, entry.LogType,
			entry.MinutesAfterWakeup, entry.MinutesAsleep, entry.MinutesAwake,
			entry.MinutesToFallAsleep, entry.TimeInBed, entry.Type)
		if err != nil {
			return fmt.Errorf("upsert sleep log %d: %w", entry.LogID, err)
		}

		for _, l := range entry.Levels.Data {
			_, err := s.db.ExecContext(ctx, `
                INSERT INTO sleep_level (log_id, date_time, level, seconds)
                VALUES ($1,$2,$3,$4)
                ON CONFLICT (log_id, date_time, level) DO UPDATE SET
                    seconds = EXCLUDED.seconds
            `, entry.LogID, l.DateTime, l.Level, l.Seconds)
			if err != nil {
				return fmt.Errorf("upsert sleep level: %w", err)
			}
		}
	}
	return nil
}
