package model

import "time"

type TypeCount struct {
	Type  QuestionType `db:"type" json:"type"`
	Count int64        `db:"count" json:"count"`
}

// UserCount groups questions by author. Unattributed questions share the
// row whose UserID and Name are nil.
type UserCount struct {
	UserID *int64  `db:"user_id" json:"user_id"`
	Name   *string `db:"name" json:"name"`
	Count  int64   `db:"count" json:"count"`
}

type PeriodCount struct {
	Period string `json:"period"`
	Count  int64  `json:"count"`
}

// Granularity is the bucket size of CountByPeriod.
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// ParseGranularity accepts day, month and year. Anything else is month.
func ParseGranularity(s string) Granularity {
	switch g := Granularity(s); g {
	case GranularityDay, GranularityMonth, GranularityYear:
		return g
	default:
		return GranularityMonth
	}
}

// Format renders a truncated bucket start as YYYY-MM-DD, YYYY-MM or YYYY.
func (g Granularity) Format(t time.Time) string {
	switch g {
	case GranularityDay:
		return t.Format("2006-01-02")
	case GranularityYear:
		return t.Format("2006")
	default:
		return t.Format("2006-01")
	}
}
