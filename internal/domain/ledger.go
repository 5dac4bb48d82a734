/**
 * @description
 * This file defines the core domain models for the Klix ledger. The whole marketplace
 * state lives in a single Document holding four collections: open tasks, acceptance
 * records, influencer wallets and brand campaigns. Entities only reference each other
 * through integer ids.
 */
package domain

import (
	"math"
	"time"
)

// Status values written by the ledger.
const (
	AcceptanceStatusAccepted = "accepted"
	CampaignStatusLive       = "live"

	TransactionTypeCredit = "credit"
	TransactionTypeDebit  = "debit"
)

// Document is the root persisted object.
type Document struct {
	Tasks     []Task             `json:"tasks"`
	Accepted  []AcceptanceRecord `json:"accepted"`
	Wallets   []Wallet           `json:"wallets"`
	Campaigns []Campaign         `json:"campaigns"`
	Counters  *Counters          `json:"counters,omitempty"`
}

// Counters holds the last ids issued so that ids never regress when records are removed.
type Counters struct {
	Task     int64 `json:"task"`
	Campaign int64 `json:"campaign"`
}

// NewDocument returns a document with all four collections present and empty.
func NewDocument() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize makes sure every collection is present, so it is serialized as [] rather than null.
func (d *Document) Normalize() {
	if d.Tasks == nil {
		d.Tasks = []Task{}
	}
	if d.Accepted == nil {
		d.Accepted = []AcceptanceRecord{}
	}
	if d.Wallets == nil {
		d.Wallets = []Wallet{}
	}
	if d.Campaigns == nil {
		d.Campaigns = []Campaign{}
	}
	for i := range d.Wallets {
		if d.Wallets[i].Transactions == nil {
			d.Wallets[i].Transactions = []Transaction{}
		}
	}
}

// FindTask returns the index of the open task with the given id, or -1.
func (d *Document) FindTask(id int64) int {
	for i := range d.Tasks {
		if d.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// RemoveTask drops the open task with the given id, preserving the order of the rest.
func (d *Document) RemoveTask(id int64) {
	kept := d.Tasks[:0]
	for _, t := range d.Tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	d.Tasks = kept
}

// HasAccepted reports whether the influencer already holds an acceptance for the task.
func (d *Document) HasAccepted(taskID, influencerID int64) bool {
	for _, a := range d.Accepted {
		if a.TaskID == taskID && a.Influencer.ID == influencerID {
			return true
		}
	}
	return false
}

// AcceptedTaskIDs returns the set of task ids accepted by one influencer.
func (d *Document) AcceptedTaskIDs(influencerID int64) map[int64]struct{} {
	ids := make(map[int64]struct{})
	for _, a := range d.Accepted {
		if a.Influencer.ID == influencerID {
			ids[a.TaskID] = struct{}{}
		}
	}
	return ids
}

// FindWallet returns a pointer into the wallets collection, or nil.
func (d *Document) FindWallet(influencerID int64) *Wallet {
	for i := range d.Wallets {
		if d.Wallets[i].InfluencerID == influencerID {
			return &d.Wallets[i]
		}
	}
	return nil
}

// WalletFor locates the influencer's wallet, creating it on first use.
func (d *Document) WalletFor(influencer Influencer) *Wallet {
	if w := d.FindWallet(influencer.ID); w != nil {
		return w
	}
	d.Wallets = append(d.Wallets, *NewWallet(influencer.ID, influencer.Name))
	return &d.Wallets[len(d.Wallets)-1]
}

// NextTaskID considers open tasks, every accepted taskId and the persisted counter.
// Accepted tasks are removed from Tasks, so looking at Tasks alone would reuse ids.
func (d *Document) NextTaskID() int64 {
	var max int64
	if d.Counters != nil {
		max = d.Counters.Task
	}
	for _, t := range d.Tasks {
		if t.ID > max {
			max = t.ID
		}
	}
	for _, a := range d.Accepted {
		if a.TaskID > max {
			max = a.TaskID
		}
	}
	return max + 1
}

// NextCampaignID is the highest known campaign id plus one.
func (d *Document) NextCampaignID() int64 {
	var max int64
	if d.Counters != nil {
		max = d.Counters.Campaign
	}
	for _, c := range d.Campaigns {
		if c.ID > max {
			max = c.ID
		}
	}
	return max + 1
}

// RecordIDs advances the persisted counters.
func (d *Document) RecordIDs(taskID, campaignID int64) {
	if d.Counters == nil {
		d.Counters = &Counters{}
	}
	if taskID > d.Counters.Task {
		d.Counters.Task = taskID
	}
	if campaignID > d.Counters.Campaign {
		d.Counters.Campaign = campaignID
	}
}

// Task is an open work item a brand offers.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Reward      Amount `json:"reward"`
	Location    string `json:"location"`
	Deadline    string `json:"deadline"`
	Category    string `json:"category"`
}

// Influencer identifies the task acceptor.
type Influencer struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// AnonymousInfluencer is used when a client accepts a task without identifying itself.
var AnonymousInfluencer = Influencer{ID: 0, Name: "anonymous"}

// AcceptanceRecord proves that an influencer claimed a task.
type AcceptanceRecord struct {
	TaskID     int64      `json:"taskId"`
	Influencer Influencer `json:"influencer"`
	AcceptedAt time.Time  `json:"acceptedAt"`
	Status     string     `json:"status"`
}

// Transaction is an immutable wallet movement; Amount is always a non-negative magnitude.
type Transaction struct {
	Type   string    `json:"type"`
	Amount float64   `json:"amount"`
	Source string    `json:"source"`
	At     time.Time `json:"at"`
}

// Signed returns the amount with the sign implied by the transaction type.
func (t Transaction) Signed() float64 {
	if t.Type == TransactionTypeDebit {
		return -t.Amount
	}
	return t.Amount
}

// Wallet is an influencer's running balance and transaction history.
type Wallet struct {
	InfluencerID   int64         `json:"influencerId"`
	InfluencerName string        `json:"influencerName,omitempty"`
	Balance        float64       `json:"balance"`
	Transactions   []Transaction `json:"transactions"`
}

// NewWallet creates an empty wallet for an influencer.
func NewWallet(influencerID int64, name string) *Wallet {
	return &Wallet{
		InfluencerID:   influencerID,
		InfluencerName: name,
		Transactions:   []Transaction{},
	}
}

// EmptyWallet is the synthetic zero wallet returned for influencers without activity.
func EmptyWallet(influencerID int64) *Wallet {
	return NewWallet(influencerID, "")
}

// Credit appends a credit transaction and moves the balance by the same amount.
// A negative amount is booked as a debit of its magnitude.
func (w *Wallet) Credit(amount float64, source string, at time.Time) Transaction {
	tx := Transaction{
		Type:   TransactionTypeCredit,
		Amount: math.Abs(amount),
		Source: source,
		At:     at,
	}
	if amount < 0 {
		tx.Type = TransactionTypeDebit
	}
	w.Transactions = append(w.Transactions, tx)
	w.Balance += tx.Signed()
	return tx
}

// LedgerBalance recomputes the balance from the transaction history.
func (w *Wallet) LedgerBalance() float64 {
	var sum float64
	for _, tx := range w.Transactions {
		sum += tx.Signed()
	}
	return sum
}

// Campaign is a brand-submitted marketing request.
type Campaign struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Budget      Amount    `json:"budget"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Duration    string    `json:"duration"`
	Brand       string    `json:"brand,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
}
