package marketplace

import (
	"time"

	"github.com/sudo-init-do/ecosync/internal/geo"
	"github.com/sudo-init-do/ecosync/internal/user"
)

type Category string

const (
	CategoryTools       Category = "tools"
	CategoryKitchen     Category = "kitchen"
	CategoryElectronics Category = "electronics"
	CategoryOutdoor     Category = "outdoor"
	CategorySports      Category = "sports"
	CategoryOther       Category = "other"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryTools, CategoryKitchen, CategoryElectronics, CategoryOutdoor, CategorySports, CategoryOther:
		return true
	}
	return false
}

type ItemType string

const (
	TypeLend    ItemType = "lend"
	TypeRent    ItemType = "rent"
	TypeSell    ItemType = "sell"
	TypeAuction ItemType = "auction"
)

func (t ItemType) Valid() bool {
	switch t {
	case TypeLend, TypeRent, TypeSell, TypeAuction:
		return true
	}
	return false
}

type ItemStatus string

const (
	ItemAvailable   ItemStatus = "available"
	ItemInUse       ItemStatus = "in-use"
	ItemUnavailable ItemStatus = "unavailable"
)

func (s ItemStatus) Valid() bool {
	switch s {
	case ItemAvailable, ItemInUse, ItemUnavailable:
		return true
	}
	return false
}

// Item is a listed physical object.
type Item struct {
	ID                string        `json:"id"`
	OwnerID           string        `json:"ownerId"`
	Owner             *user.Summary `json:"owner,omitempty"`
	Title             string        `json:"title"`
	Description       string        `json:"description"`
	Category          Category      `json:"category"`
	Type              ItemType      `json:"type"`
	Price             float64       `json:"price"`
	Status            ItemStatus    `json:"status"`
	Location          geo.Point     `json:"location"`
	ImageURL          string        `json:"imageUrl,omitempty"`
	ConditionPhotoURL string        `json:"conditionPhotoUrl,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// ItemSummary is the populated form of an item referenced from a transaction.
type ItemSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"imageUrl,omitempty"`
}

type PaymentMethod string

const (
	PayCash      PaymentMethod = "cash"
	PayEcoPoints PaymentMethod = "ecopoints"
)

func (p PaymentMethod) Valid() bool {
	return p == PayCash || p == PayEcoPoints
}

// Order is a borrow/lend arrangement between a borrower and the item's lender.
// It is exposed as a "transaction" on the API.
type Order struct {
	ID             string        `json:"id"`
	ItemID         string        `json:"itemId"`
	Item           *ItemSummary  `json:"item,omitempty"`
	BorrowerID     string        `json:"borrowerId"`
	Borrower       *user.Summary `json:"borrower,omitempty"`
	LenderID       string        `json:"lenderId"`
	Lender         *user.Summary `json:"lender,omitempty"`
	PickupTime     time.Time     `json:"pickupTime"`
	ReturnTime     time.Time     `json:"returnTime"`
	Status         OrderStatus   `json:"status"`
	QRCodeHash     string        `json:"qrCodeHash,omitempty"`
	RatingLender   *int          `json:"ratingLender,omitempty"`
	RatingBorrower *int          `json:"ratingBorrower,omitempty"`
	ReviewLender   string        `json:"reviewLender,omitempty"`
	ReviewBorrower string        `json:"reviewBorrower,omitempty"`
	EcoImpactCO2   float64       `json:"ecoImpactCO2"`
	EcoImpactMoney float64       `json:"ecoImpactMoney"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
	EcoPointsUsed  int           `json:"ecoPointsUsed"`
	CreatedAt      time.Time     `json:"createdAt"`
	UpdatedAt      time.Time     `json:"updatedAt"`
}
