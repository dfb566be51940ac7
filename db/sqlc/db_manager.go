package sqlc

import "time"

const (
	QuerierCtxTimeout = time.Second * 10
)

// DbManager groups the managers built on one Querier.
// A zero DbManager (no database configured) has nil managers.
type DbManager struct {
	Analytics *AnalyticsManager
}

func NewDbManager(queries Querier) DbManager {
	if queries == nil {
		return DbManager{}
	}
	return DbManager{
		Analytics: NewAnalyticsManager(queries),
	}
}
