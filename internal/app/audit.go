package app

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/observability"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/store"
)

const balanceTolerance = 1e-9

// Finding kinds reported by the audit.
const (
	FindingBalanceMismatch    = "balance_mismatch"
	FindingDuplicateAccept    = "duplicate_acceptance"
	FindingAcceptedTaskIsOpen = "accepted_task_open"
)

// Finding is one inconsistency in the ledger document.
type Finding struct {
	Kind         string `json:"kind"`
	Detail       string `json:"detail"`
	TaskID       int64  `json:"taskId,omitempty"`
	InfluencerID int64  `json:"influencerId,omitempty"`
}

// AuditReport summarizes one audit run.
type AuditReport struct {
	Wallets  int       `json:"wallets"`
	Accepted int       `json:"accepted"`
	Tasks    int       `json:"tasks"`
	Findings []Finding `json:"findings"`
}

// OK reports whether the audit found nothing.
func (r AuditReport) OK() bool { return len(r.Findings) == 0 }

// Auditor checks the document for inconsistencies. It never repairs anything.
type Auditor struct {
	repo    store.Repository
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewAuditor creates an auditor over repo.
func NewAuditor(repo store.Repository, metrics *observability.Metrics, logger *slog.Logger) *Auditor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auditor{repo: repo, metrics: metrics, logger: logger}
}

// Run loads the document once and checks every wallet and acceptance record.
func (a *Auditor) Run(ctx context.Context) AuditReport {
	doc := a.repo.Load(ctx)
	report := AuditReport{
		Wallets:  len(doc.Wallets),
		Accepted: len(doc.Accepted),
		Tasks:    len(doc.Tasks),
		Findings: []Finding{},
	}

	for _, w := range doc.Wallets {
		if sum := w.LedgerBalance(); math.Abs(sum-w.Balance) > balanceTolerance {
			report.Findings = append(report.Findings, Finding{
				Kind:         FindingBalanceMismatch,
				Detail:       fmt.Sprintf("balance %v does not match transactions sum %v", w.Balance, sum),
				InfluencerID: w.InfluencerID,
			})
		}
	}

	type pair struct{ task, influencer int64 }
	seen := make(map[pair]int)
	acceptedIDs := make(map[int64]struct{})
	for _, rec := range doc.Accepted {
		seen[pair{rec.TaskID, rec.Influencer.ID}]++
		acceptedIDs[rec.TaskID] = struct{}{}
	}
	dups := make([]pair, 0)
	for p, n := range seen {
		if n > 1 {
			dups = append(dups, p)
		}
	}
	sort.Slice(dups, func(i, j int) bool {
		if dups[i].task != dups[j].task {
			return dups[i].task < dups[j].task
		}
		return dups[i].influencer < dups[j].influencer
	})
	for _, p := range dups {
		report.Findings = append(report.Findings, Finding{
			Kind:         FindingDuplicateAccept,
			Detail:       fmt.Sprintf("task %d accepted %d times by influencer %d", p.task, seen[p], p.influencer),
			TaskID:       p.task,
			InfluencerID: p.influencer,
		})
	}

	for _, t := range doc.Tasks {
		if _, ok := acceptedIDs[t.ID]; ok {
			report.Findings = append(report.Findings, Finding{
				Kind:   FindingAcceptedTaskIsOpen,
				Detail: fmt.Sprintf("task %d is open but has an acceptance record", t.ID),
				TaskID: t.ID,
			})
		}
	}

	a.metrics.SetAuditFindings(len(report.Findings))
	if report.OK() {
		a.logger.Info("ledger audit passed", "wallets", report.Wallets, "accepted", report.Accepted, "tasks", report.Tasks)
	} else {
		for _, f := range report.Findings {
			a.logger.Warn("ledger audit finding", "kind", f.Kind, "detail", f.Detail)
		}
		a.logger.Warn("ledger audit found inconsistencies", "findings", len(report.Findings))
	}
	return report
}
