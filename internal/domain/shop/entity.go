package shop

import (
	"strings"
	"time"

	"seckill-service/internal/pkg/errs"
)

var (
	ErrEmptyName    = errs.New("shop name is required")
	ErrInvalidScore = errs.New("score must be between 0 and 50")
	ErrInvalidPrice = errs.New("average price must not be negative")
)

const MaxScore = 50

// Shop is the cached read-heavy entity. Score is stored in tenths (0..50).
type Shop struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	TypeID    int64     `json:"typeId"`
	Images    string    `json:"images"`
	Area      string    `json:"area"`
	Address   string    `json:"address"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	AvgPrice  int64     `json:"avgPrice"`
	Sold      int       `json:"sold"`
	Comments  int       `json:"comments"`
	Score     int       `json:"score"`
	OpenHours string    `json:"openHours"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (s *Shop) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" {
		return ErrEmptyName
	}
	if s.Score < 0 || s.Score > MaxScore {
		return ErrInvalidScore
	}
	if s.AvgPrice < 0 {
		return ErrInvalidPrice
	}
	return nil
}
