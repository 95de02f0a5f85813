package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Record is implemented by every persisted entity
type Record interface {
	EntityName() string
	GetID() uint
	SetID(id uint)
}

// User represents a registered participant of the site
type User struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	Username  string          `gorm:"size:45;not null" json:"username" validate:"required,max=45"`
	Password  string          `gorm:"size:45;not null" json:"password" validate:"required,max=45"`
	Email     string          `gorm:"size:254;not null" json:"email" validate:"required,email,max=254"`
	Balance   decimal.Decimal `gorm:"type:decimal(6,2);not null" json:"balance"`
	Firstname string          `gorm:"size:56;not null" json:"firstname" validate:"max=56"`
	Lastname  string          `gorm:"size:45;not null" json:"lastname" validate:"max=45"`
	Cellphone string          `gorm:"size:14;not null" json:"cellphone" validate:"max=14"`
	Address   string          `gorm:"size:255;not null" json:"address" validate:"max=255"`
	Town      string          `gorm:"size:45;not null" json:"town" validate:"max=45"`
	PostCode  string          `gorm:"size:45;not null" json:"post_code" validate:"max=45"`
	Country   string          `gorm:"size:45;not null" json:"country" validate:"max=45"`
}

func (u User) String() string {
	return "(" + u.Username + ", " + u.Email + ", " + u.PostCode + ")"
}

// AfterFind restores the two-place scale SQLite drops from decimal columns
func (u *User) AfterFind(tx *gorm.DB) error {
	u.Balance = u.Balance.Round(2)
	return nil
}

// MarshalJSON renders the balance with exactly two decimal places
func (u User) MarshalJSON() ([]byte, error) {
	type plain User
	return json.Marshal(struct {
		plain
		Balance string `json:"balance"`
	}{plain: plain(u), Balance: u.Balance.StringFixed(2)})
}

// Product represents a listed item that can be put up for auction
type Product struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title" validate:"max=255"`
	Image       string    `gorm:"size:100;not null" json:"image" validate:"max=100"`
	Description string    `gorm:"size:500;not null" json:"description" validate:"max=500"`
	Quantity    int       `gorm:"not null" json:"quantity"`
	Category    Category  `gorm:"size:3;not null;index" json:"category" validate:"category"`
	DatePosted  time.Time `gorm:"not null" json:"date_posted"`
}

// BeforeCreate stamps the posting date, overriding any supplied value
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	p.DatePosted = tx.NowFunc()
	return nil
}

// Auction is a time-bounded bidding period for one product
type Auction struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductID    uint      `gorm:"not null;index" json:"product_id" validate:"required"`
	Product      *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty" validate:"-"`
	NumberOfBids int       `gorm:"not null" json:"number_of_bids"`
	TimeStarting time.Time `gorm:"not null" json:"time_starting"`
	TimeEnding   time.Time `gorm:"not null" json:"time_ending"`
}

// Watchlist links a user to an auction they follow. Duplicate pairs are allowed.
type Watchlist struct {
	ID        uint     `gorm:"primaryKey" json:"id"`
	UserID    uint     `gorm:"not null;index" json:"user_id" validate:"required"`
	User      *User    `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	AuctionID uint     `gorm:"not null;index" json:"auction_id" validate:"required"`
	Auction   *Auction `gorm:"constraint:OnDelete:CASCADE" json:"auction,omitempty" validate:"-"`
}

// Bid is a timestamped record of a user bidding on an auction. It carries no amount.
type Bid struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id" validate:"required"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	AuctionID uint      `gorm:"not null;index" json:"auction_id" validate:"required"`
	Auction   *Auction  `gorm:"constraint:OnDelete:CASCADE" json:"auction,omitempty" validate:"-"`
	BidTime   time.Time `gorm:"not null" json:"bid_time"`
}

// Chat is a message posted by a user in an auction's chat
type Chat struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuctionID uint      `gorm:"not null;index" json:"auction_id" validate:"required"`
	Auction   *Auction  `gorm:"constraint:OnDelete:CASCADE" json:"auction,omitempty" validate:"-"`
	UserID    uint      `gorm:"not null;index" json:"user_id" validate:"required"`
	User      *User     `gorm:"constraint:OnDelete:CASCADE" json:"user,omitempty" validate:"-"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	TimeSent  time.Time `gorm:"not null" json:"time_sent"`
}

func (*User) EntityName() string      { return "user" }
func (*Product) EntityName() string   { return "product" }
func (*Auction) EntityName() string   { return "auction" }
func (*Watchlist) EntityName() string { return "watchlist" }
func (*Bid) EntityName() string       { return "bid" }
func (*Chat) EntityName() string      { return "chat" }

func (u *User) GetID() uint      { return u.ID }
func (p *Product) GetID() uint   { return p.ID }
func (a *Auction) GetID() uint   { return a.ID }
func (w *Watchlist) GetID() uint { return w.ID }
func (b *Bid) GetID() uint       { return b.ID }
func (c *Chat) GetID() uint      { return c.ID }

func (u *User) SetID(id uint)      { u.ID = id }
func (p *Product) SetID(id uint)   { p.ID = id }
func (a *Auction) SetID(id uint)   { a.ID = id }
func (w *Watchlist) SetID(id uint) { w.ID = id }
func (b *Bid) SetID(id uint)       { b.ID = id }
func (c *Chat) SetID(id uint)      { c.ID = id }
