/**
 * @description
 * This file defines the `Repository` interface, the contract for reading and writing
 * the ledger Document as a single unit. The application layer depends on this
 * interface only, so the JSON file backend can be swapped for an in-memory one in tests.
 *
 * @dependencies
 * - context: Standard Go library.
 * - internal/domain: For the Document model.
 */

package store

import (
	"context"
	"errors"

	"github.com/ayush-bhatt-07/klix-marketplace/internal/domain"
)

// ErrSaveFailed wraps every persistence failure returned by Save.
var ErrSaveFailed = errors.New("failed to save ledger document")

// Repository loads and saves the whole ledger document.
type Repository interface {
	// Load never fails: an unreadable document degrades to an empty one.
	Load(ctx context.Context) *domain.Document
	// Save replaces the persisted document with doc.
	Save(ctx context.Context, doc *domain.Document) error
}
