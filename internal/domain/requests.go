package domain

// AcceptTaskRequest is the body of POST /api/tasks/{id}/accept.
type AcceptTaskRequest struct {
	Influencer *Influencer `json:"influencer"`
}

// AcceptResult lets the caller update its view without reading the wallet again.
type AcceptResult struct {
	Success    bool    `json:"success"`
	TaskID     int64   `json:"taskId"`
	Credited   float64 `json:"credited"`
	NewBalance float64 `json:"newBalance"`
}

// CreateCampaignRequest is the body of POST /api/campaigns.
// Reward and BrandName are accepted as aliases used by older clients.
type CreateCampaignRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Budget      Amount `json:"budget"`
	Reward      Amount `json:"reward"`
	Category    string `json:"category"`
	Location    string `json:"location"`
	Duration    string `json:"duration"`
	Brand       string `json:"brand"`
	BrandName   string `json:"brandName"`
}

// TaskReward picks budget, then reward, then "0". A budget worth zero counts
// as missing when a reward is given.
func (r CreateCampaignRequest) TaskReward() Amount {
	switch {
	case !r.Budget.IsZero() && r.Budget.Value() != 0:
		return r.Budget
	case !r.Reward.IsZero():
		return r.Reward
	case !r.Budget.IsZero():
		return r.Budget
	default:
		return "0"
	}
}

// TaskBrand picks brand, then brandName, then "Brand".
func (r CreateCampaignRequest) TaskBrand() string {
	switch {
	case r.Brand != "":
		return r.Brand
	case r.BrandName != "":
		return r.BrandName
	default:
		return "Brand"
	}
}

// CampaignResult carries the new campaign and the task derived from it.
type CampaignResult struct {
	Campaign Campaign `json:"campaign"`
	Task     Task     `json:"task"`
}

// PayoutRequest is the body of POST /api/payout.
type PayoutRequest struct {
	InfluencerID int64   `json:"influencerId" validate:"required"`
	Amount       float64 `json:"amount" validate:"required"`
}

// PayoutResult is the synthetic payout confirmation.
type PayoutResult struct {
	Success      bool    `json:"success"`
	TxID         string  `json:"txId"`
	InfluencerID int64   `json:"influencerId"`
	Amount       float64 `json:"amount"`
}
