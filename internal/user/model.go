package user

import (
	"time"

	"github.com/sudo-init-do/ecosync/internal/geo"
)

// Level is the eco points progression tier.
type Level string

const (
	LevelSeedling Level = "seedling"
	LevelSapling  Level = "sapling"
	LevelOak      Level = "oak"
	LevelChampion Level = "champion"
)

// LevelFor returns the tier for an eco points balance.
func LevelFor(points int) Level {
	switch {
	case points >= 301:
		return LevelChampion
	case points >= 151:
		return LevelOak
	case points >= 51:
		return LevelSapling
	default:
		return LevelSeedling
	}
}

type User struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Password     string       `json:"-"` // never return
	Location     geo.Location `json:"location"`
	TrustScore   int          `json:"trustScore"`
	EcoPoints    int          `json:"ecoPoints"`
	Level        Level        `json:"level"`
	ProfilePhoto string       `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Summary is the populated form of a user referenced from items, requests and transactions.
type Summary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TrustScore   int    `json:"trustScore"`
	ProfilePhoto string `json:"profilePhoto,omitempty"`
}
