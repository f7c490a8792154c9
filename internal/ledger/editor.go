package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lifeos/internal/common"
	"github.com/Veraticus/lifeos/internal/service"
)

// base holds the open/submit/delete protocol shared by every editor.
type base struct {
	store      service.DocumentStore
	identity   service.Identity
	desk       *Desk
	name       string
	collection string
	editingID  string
	open       bool
}

func newBase(store service.DocumentStore, identity service.Identity, desk *Desk, name, collection string) base {
	if desk == nil {
		desk = NewDesk()
	}
	return base{
		store:      store,
		identity:   identity,
		desk:       desk,
		name:       name,
		collection: collection,
	}
}

// IsOpen reports whether the editor is open.
func (b *base) IsOpen() bool {
	return b.open
}

// EditingID returns the id of the record being edited, or "" for a new one.
func (b *base) EditingID() string {
	return b.editingID
}

// Cancel closes the editor without writing anything.
func (b *base) Cancel() {
	b.close()
}

func (b *base) begin(id string) error {
	if b.open {
		b.close()
	}
	if err := b.desk.Acquire(b.name); err != nil {
		return err
	}
	b.open = true
	b.editingID = id
	return nil
}

func (b *base) close() {
	if !b.open {
		return
	}
	b.desk.Release(b.name)
	b.open = false
	b.editingID = ""
}

// write creates or updates the record and closes the editor on success. A
// storage failure leaves the editor open so the form can be resubmitted.
func (b *base) write(ctx context.Context, fields service.Fields) (string, error) {
	if !b.open {
		return "", ErrNotOpen
	}

	user, ok := b.identity.Current()
	if !ok {
		slog.Debug("No identity, discarding submit", "collection", b.collection)
		b.close()
		return "", nil
	}
	path := service.CollectionPath(user, b.collection)

	if b.editingID == "" {
		fields["createdAt"] = service.ServerTimestamp
		id, err := b.store.Create(ctx, path, fields)
		if err != nil {
			return "", common.NewStorageError("create", path, err)
		}
		slog.Debug("Created record", "path", path, "id", id)
		b.close()
		return id, nil
	}

	id := b.editingID
	fields["updatedAt"] = service.ServerTimestamp
	if err := b.store.Update(ctx, path, id, fields); err != nil {
		return "", common.NewStorageError("update", path, err)
	}
	slog.Debug("Updated record", "path", path, "id", id)
	b.close()
	return id, nil
}

// patch updates fields of an existing record without opening the editor.
func (b *base) patch(ctx context.Context, id string, fields service.Fields) error {
	user, ok := b.identity.Current()
	if !ok {
		slog.Debug("No identity, discarding update", "collection", b.collection)
		return nil
	}
	path := service.CollectionPath(user, b.collection)
	if err := b.store.Update(ctx, path, id, fields); err != nil {
		return common.NewStorageError("update", path, err)
	}
	slog.Debug("Updated record", "path", path, "id", id)
	return nil
}

// remove runs the two-step delete: confirm, then one delete call.
func (b *base) remove(ctx context.Context, id, label string, confirmer Confirmer) (DeleteOutcome, error) {
	if _, ok := b.identity.Current(); !ok {
		return DeleteSkipped, nil
	}

	// Deleting from an open editor happens inside that modal.
	if !b.open {
		if err := b.desk.Acquire(b.name); err != nil {
			return DeleteCancelled, err
		}
		defer b.desk.Release(b.name)
	}

	confirmed, err := confirmer.Confirm(ctx, fmt.Sprintf("Delete %s %q?", b.noun(), label))
	if err != nil {
		return DeleteCancelled, fmt.Errorf("confirmation failed: %w", err)
	}
	if !confirmed {
		return DeleteCancelled, nil
	}

	user, ok := b.identity.Current()
	if !ok {
		return DeleteSkipped, nil
	}
	path := service.CollectionPath(user, b.collection)
	if err := b.store.Delete(ctx, path, id); err != nil {
		return DeleteConfirmed, common.NewStorageError("delete", path, err)
	}

	slog.Debug("Deleted record", "path", path, "id", id)
	b.close()
	return DeleteConfirmed, nil
}

func (b *base) noun() string {
	return strings.TrimSuffix(b.name, " editor")
}

func required(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "", ErrRequired)
	}
	return value, nil
}

// parseDecimal parses a required numeric field.
func parseDecimal(field, value string) (decimal.Decimal, error) {
	value, err := required(field, value)
	if err != nil {
		return decimal.Decimal{}, err
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, invalid(field, value, ErrNotANumber)
	}
	return d, nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return strings.TrimSpace(value)
}
