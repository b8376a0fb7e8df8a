package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"taskmanager/model"
)

type Action string

const (
	ActionView   Action = "view"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Ownable is implemented by every entity whose mutations are owner-only.
type Ownable interface {
	OwnerID() string
}

// Gate loads an entity and admits only its owner. A missing entity is always
// reported as not found, before ownership is looked at.
type Gate[T Ownable] struct {
	Kind      string // "task", "work", "user"
	OwnerNoun string // how the owner is called in denial messages
	Load      func(ctx context.Context, id string) (T, error)
}

func (g Gate[T]) Authorize(ctx context.Context, id, callerID string, action Action) (T, error) {
	entity, err := g.Load(ctx, id)
	if err != nil {
		var zero T
		if errors.Is(err, model.ErrNotFound) {
			return zero, model.NotFound(g.notFoundMessage())
		}
		return zero, fmt.Errorf("load %s %s: %w", g.Kind, id, err)
	}
	if callerID == "" || entity.OwnerID() != callerID {
		var zero T
		return zero, model.Forbidden(fmt.Sprintf("Only the %s can %s this %s", g.OwnerNoun, action, g.Kind))
	}
	return entity, nil
}

func (g Gate[T]) notFoundMessage() string {
	if g.Kind == "" {
		return "Not found"
	}
	return strings.ToUpper(g.Kind[:1]) + g.Kind[1:] + " not found"
}

func taskGate(store TaskStore) Gate[*model.Task] {
	return Gate[*model.Task]{Kind: "task", OwnerNoun: "creator", Load: store.GetTask}
}

func workGate(store WorkStore) Gate[*model.Work] {
	return Gate[*model.Work]{Kind: "work", OwnerNoun: "creator", Load: store.GetWork}
}

func userGate(store UserStore) Gate[*model.User] {
	return Gate[*model.User]{Kind: "user", OwnerNoun: "account holder", Load: store.GetUser}
}

// notFoundAs rewrites a store miss into a caller-facing not-found error.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, model.ErrNotFound) {
		return model.NotFound(msg)
	}
	return err
}
