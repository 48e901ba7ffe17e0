package storage

import "context"

// GetConfig returns the stored value for key, or ("", false) if unset.
func (s *Store) GetConfig(ctx context.Context, key string) (string, bool, error) {
	var row configModel
	err := s.db.NewSelect().
		Model(&row).
		Where("key = ?", key).
		Scan(ctx)
	if err != nil {
		if isNoRows(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return row.Value, true, nil
}

// SetConfig upserts a configuration value.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.NewInsert().
		Model(&configModel{Key: key, Value: value}).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	return err
}

// GetAllConfig returns every stored configuration key/value pair.
func (s *Store) GetAllConfig(ctx context.Context) (map[string]string, error) {
	var rows []*configModel
	if err := s.db.NewSelect().Model(&rows).Scan(ctx); err != nil {
		return nil, err
	}
	ret := make(map[string]string, len(rows))
	for _, r := range rows {
		ret[r.Key] = r.Value
	}
	return ret, nil
}
