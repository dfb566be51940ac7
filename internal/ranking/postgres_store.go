package ranking

import (
	"context"
	"fmt"

	"github.com/saeidalz13/armada/db/sqlc"
)

type PostgresStore struct {
	q sqlc.Querier
}

func NewPostgresStore(q sqlc.Querier) *PostgresStore {
	return &PostgresStore{q: q}
}

var _ Store = (*PostgresStore)(nil)

func (ps *PostgresStore) Load(ctx context.Context) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()

	rows, err := ps.q.GetRankings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rankings: %w", err)
	}

	ranking := make(map[string]int, len(rows))
	for _, row := range rows {
		ranking[row.Name] = int(row.Score)
	}
	return ranking, nil
}

// The upsert adds to the stored score, so no read is needed.
func (ps *PostgresStore) Record(ctx context.Context, scores map[string]int) error {
	ctx, cancel := context.WithTimeout(ctx, sqlc.QuerierCtxTimeout)
	defer cancel()

	for _, entry := range Sorted(scores) {
		err := ps.q.AddRankingScore(ctx, sqlc.AddRankingScoreParams{
			Name:  entry.Name,
			Score: int64(entry.Score),
		})
		if err != nil {
			return fmt.Errorf("failed to record score of %s: %w", entry.Name, err)
		}
	}
	return nil
}
