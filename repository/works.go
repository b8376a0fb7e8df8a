package repository

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore/apiv1/firestorepb"

	"taskmanager/model"
)

func (s *Store) CreateWork(ctx context.Context, w *model.Work) error {
	_, err := s.client.Collection(worksCollection).Doc(w.WorkID).Create(ctx, w)
	return wrap(err, "create work %s", w.WorkID)
}

func (s *Store) GetWork(ctx context.Context, id string) (*model.Work, error) {
	var w model.Work
	if err := s.getDoc(ctx, worksCollection, id, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s *Store) ListWorksByTask(ctx context.Context, taskID string) ([]model.Work, error) {
	works, err := collect[model.Work](ctx, s.client.Collection(worksCollection).Where("taskid", "==", taskID))
	if err != nil {
		return nil, fmt.Errorf("list works of %s: %w", taskID, err)
	}
	sort.SliceStable(works, func(i, j int) bool { return works[i].CreatedAt.Before(works[j].CreatedAt) })
	return works, nil
}

// CountWorksByTask uses a server-side count aggregation.
func (s *Store) CountWorksByTask(ctx context.Context, taskID string) (int64, error) {
	q := s.client.Collection(worksCollection).Where("taskid", "==", taskID)
	res, err := q.NewAggregationQuery().WithCount("all").Get(ctx)
	if err != nil {
		return 0, fmt.Errorf("count works of %s: %w", taskID, err)
	}
	v, ok := res["all"].(*firestorepb.Value)
	if !ok {
		return 0, fmt.Errorf("count works of %s: unexpected aggregation result %T", taskID, res["all"])
	}
	return v.GetIntegerValue(), nil
}

func (s *Store) SaveWork(ctx context.Context, w *model.Work) error {
	return s.replaceDoc(ctx, worksCollection, w.WorkID, w)
}

func (s *Store) DeleteWork(ctx context.Context, id string) error {
	return s.deleteDoc(ctx, worksCollection, id)
}
