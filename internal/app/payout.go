package app

import (
	"context"
	"fmt"
	"time"
)

// PayoutGateway moves money out to an influencer. No real rail is integrated.
type PayoutGateway interface {
	Payout(ctx context.Context, influencerID int64, amount float64) (txID string, err error)
}

// StubPayoutGateway confirms every payout with a synthetic TX_<unix-millis> id
// and never touches a wallet.
type StubPayoutGateway struct {
	Now func() time.Time
}

func (g StubPayoutGateway) Payout(ctx context.Context, influencerID int64, amount float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	now := time.Now
	if g.Now != nil {
		now = g.Now
	}
	return fmt.Sprintf("TX_%d", now().UnixMilli()), nil
}
