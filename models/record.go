package models

import (
	"time"

	"github.com/google/uuid"
)

// SnapshotRecord is a persisted AssetSnapshot row. History is not stored;
// it can always be re-fetched.
type SnapshotRecord struct {
	ID        uuid.UUID `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	RSI       *float64  `json:"rsi"`
	Trend     *Trend    `json:"trend"`
	Score     int       `json:"score"`
	Decision  Decision  `json:"decision"`
	FetchedAt time.Time `json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewSnapshotRecord builds a persistable row from a snapshot
func NewSnapshotRecord(s *AssetSnapshot) *SnapshotRecord {
	return &SnapshotRecord{
		ID:        uuid.New(),
		Symbol:    s.Symbol,
		Name:      s.Name,
		Price:     s.Price,
		RSI:       s.RSI,
		Trend:     s.Trend,
		Score:     s.Score,
		Decision:  s.Decision,
		FetchedAt: s.FetchedAt,
		CreatedAt: time.Now().UTC(),
	}
}
