package repository

import (
	"context"

	"sportsbook/internal/apperr"
	"sportsbook/internal/models"
)

// GetMatchesByIDs loads catalog matches keyed by ID
func (r *Repository) GetMatchesByIDs(ctx context.Context, ids []uint) (map[uint]*models.Match, error) {
	var matches []*models.Match
	if len(ids) > 0 {
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&matches).Error; err != nil {
			return nil, apperr.Internal("failed to load matches", err)
		}
	}

	out := make(map[uint]*models.Match, len(matches))
	for _, m := range matches {
		out[m.ID] = m
	}
	return out, nil
}
