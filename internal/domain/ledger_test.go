package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDocumentSerializesEmptyCollections(t *testing.T) {
	out, err := json.Marshal(NewDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[],"accepted":[],"wallets":[],"campaigns":[]}`, string(out))
}

func TestNormalizeFillsMissingCollections(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"tasks":[{"id":1,"reward":"10"}],"wallets":[{"influencerId":3}]}`), &doc))
	doc.Normalize()

	assert.Len(t, doc.Tasks, 1)
	assert.NotNil(t, doc.Accepted)
	assert.NotNil(t, doc.Campaigns)
	assert.NotNil(t, doc.Wallets[0].Transactions)
}

func TestNextTaskIDConsidersAcceptedTasks(t *testing.T) {
	doc := NewDocument()
	assert.Equal(t, int64(1), doc.NextTaskID())

	doc.Tasks = append(doc.Tasks, Task{ID: 2})
	doc.Accepted = append(doc.Accepted, AcceptanceRecord{TaskID: 7})
	assert.Equal(t, int64(8), doc.NextTaskID())

	doc.RecordIDs(11, 0)
	assert.Equal(t, int64(12), doc.NextTaskID())
}

func TestNextCampaignID(t *testing.T) {
	doc := NewDocument()
	assert.Equal(t, int64(1), doc.NextCampaignID())

	doc.Campaigns = append(doc.Campaigns, Campaign{ID: 4}, Campaign{ID: 2})
	assert.Equal(t, int64(5), doc.NextCampaignID())
}

func TestRemoveTaskKeepsOrder(t *testing.T) {
	doc := NewDocument()
	doc.Tasks = []Task{{ID: 1}, {ID: 2}, {ID: 3}}
	doc.RemoveTask(2)

	require.Len(t, doc.Tasks, 2)
	assert.Equal(t, int64(1), doc.Tasks[0].ID)
	assert.Equal(t, int64(3), doc.Tasks[1].ID)
	assert.Equal(t, -1, doc.FindTask(2))
}

func TestWalletForCreatesOnce(t *testing.T) {
	doc := NewDocument()
	w := doc.WalletFor(Influencer{ID: 9, Name: "Asha"})
	w.Credit(10, "task:1", time.Now())

	again := doc.WalletFor(Influencer{ID: 9, Name: "ignored"})
	assert.Len(t, doc.Wallets, 1)
	assert.Equal(t, "Asha", again.InfluencerName)
	assert.InDelta(t, 10, again.Balance, 1e-9)
}

func TestWalletCreditKeepsBalanceInLineWithHistory(t *testing.T) {
	w := NewWallet(1, "Ravi")
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	w.Credit(1250.5, "task:1", at)
	w.Credit(0, "task:2", at)
	tx := w.Credit(-20, "task:3", at)

	assert.Equal(t, TransactionTypeDebit, tx.Type)
	assert.InDelta(t, 20, tx.Amount, 1e-9)
	assert.Len(t, w.Transactions, 3)
	assert.InDelta(t, 1230.5, w.Balance, 1e-9)
	assert.InDelta(t, w.Balance, w.LedgerBalance(), 1e-9)
}

func TestEmptyWalletShape(t *testing.T) {
	out, err := json.Marshal(EmptyWallet(5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"influencerId":5,"balance":0,"transactions":[]}`, string(out))
}

func TestCreateCampaignRequestFallbacks(t *testing.T) {
	req := CreateCampaignRequest{Name: "Promo", Description: "desc"}
	assert.Equal(t, Amount("0"), req.TaskReward())
	assert.Equal(t, "Brand", req.TaskBrand())

	req.Reward = "75"
	req.BrandName = "Acme"
	assert.Equal(t, Amount("75"), req.TaskReward())
	assert.Equal(t, "Acme", req.TaskBrand())

	req.Budget = "100"
	req.Brand = "Zest"
	assert.Equal(t, Amount("100"), req.TaskReward())
	assert.Equal(t, "Zest", req.TaskBrand())
}

func TestCreateCampaignRequestZeroBudgetFallsBackToReward(t *testing.T) {
	var req CreateCampaignRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"P","description":"d","budget":0,"reward":"250"}`), &req))
	assert.Equal(t, Amount("0"), req.Budget)
	assert.Equal(t, Amount("250"), req.TaskReward())

	req.Reward = ""
	assert.Equal(t, Amount("0"), req.TaskReward())

	req.Budget = "TBD"
	assert.Equal(t, Amount("TBD"), req.TaskReward())
}
