package sqlite

import (
	"context"
	"strconv"

	"github.com/MarkBevz50/focusflow/internal/constants"
	"github.com/MarkBevz50/focusflow/internal/models"
)

func (s *Store) GetSettings(ctx context.Context) (models.Settings, error) {
	db, err := s.conn()
	if err != nil {
		return models.Settings{}, err
	}
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, err
	}
	defer rows.Close()

	var settings models.Settings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, err
		}
		switch key {
		case constants.SettingAPIURL:
			settings.APIURL = value
		case constants.SettingWeekStart:
			settings.WeekStart = value
		case constants.SettingOnlyDay:
			settings.OnlySelectedDay, _ = strconv.ParseBool(value)
		}
	}
	return settings, rows.Err()
}

func (s *Store) SaveSettings(ctx context.Context, settings models.Settings) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	values := map[string]string{
		constants.SettingAPIURL:    settings.APIURL,
		constants.SettingWeekStart: settings.WeekStart,
		constants.SettingOnlyDay:   strconv.FormatBool(settings.OnlySelectedDay),
	}
	for k, v := range values {
		if _, err := stmt.ExecContext(ctx, k, v); err != nil {
			return err
		}
	}
	return tx.Commit()
}
