package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"taskmanager/model"
)

func TestWrapMapsNotFound(t *testing.T) {
	err := wrap(status.Error(codes.NotFound, "no such document"), "get %s/%s", worksCollection, "w1")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Contains(t, err.Error(), "get Works/w1")

	other := status.Error(codes.Unavailable, "backend down")
	err = wrap(other, "count works of %s", "t1")
	assert.NotErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, codes.Unavailable, status.Code(errors.Unwrap(err)))

	assert.NoError(t, wrap(nil, "noop"))
}
