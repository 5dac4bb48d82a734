package app

import (
	"context"
	"fmt"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/domain"
	"github.com/ayush-bhatt-07/klix-marketplace/internal/observability"
)

// DemoTasks is the starter feed used by `klixctl seed`.
func DemoTasks() []domain.Task {
	return []domain.Task{
		{Title: "Unboxing reel", Description: "Film a 30 second unboxing of the new running shoe.", Brand: "Stride", Reward: "₹1,500", Location: "Mumbai", Deadline: "7 days", Category: "Fashion"},
		{Title: "Cafe story", Description: "Post three stories from the new outlet.", Brand: "Brew & Co", Reward: "₹800", Location: "Bengaluru", Deadline: "3 days", Category: "Food"},
		{Title: "App walkthrough", Description: "Record a walkthrough of the budgeting app.", Brand: "PaisaPlan", Reward: "₹2,250.50", Location: "Remote", Deadline: "10 days", Category: "Finance"},
	}
}

// SeedTasks appends tasks with fresh ids, but only when the open task list is empty.
// It returns how many tasks were added.
func (s *Service) SeedTasks(ctx context.Context, tasks []domain.Task) (int, error) {
	const op = "seed_tasks"
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.repo.Load(ctx)
	if len(doc.Tasks) > 0 || len(tasks) == 0 {
		return 0, nil
	}
	for _, t := range tasks {
		t.ID = doc.NextTaskID()
		doc.Tasks = append(doc.Tasks, t)
		doc.RecordIDs(t.ID, 0)
	}
	if err := s.repo.Save(ctx, doc); err != nil {
		s.metrics.ObserveOperation(op, observability.OutcomeError)
		return 0, fmt.Errorf("seed tasks: %w", err)
	}
	s.metrics.ObserveOperation(op, observability.OutcomeOK)
	s.logger.Info("seeded demo tasks", "count", len(tasks))
	return len(tasks), nil
}
