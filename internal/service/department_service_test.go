package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "wateradmin/internal/errors"
	"wateradmin/internal/model"
)

func TestDepartmentService_CRUD(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	dept, err := s.depts.Create(ctx, " Finance ", "Money")
	require.NoError(t, err)
	assert.Equal(t, "Finance", dept.Name)

	_, err = s.depts.Create(ctx, "Finance", "")
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)

	_, err = s.depts.Create(ctx, "  ", "")
	var httpErr *apperrors.HTTPError
	assert.ErrorAs(t, err, &httpErr)

	renamed, err := s.depts.Update(ctx, dept.ID, ptr("Accounting"), nil)
	require.NoError(t, err)
	assert.Equal(t, "Accounting", renamed.Name)
	assert.Equal(t, "Money", renamed.Description)

	_, err = s.depts.Update(ctx, 404, ptr("X"), nil)
	assert.ErrorIs(t, err, apperrors.ErrDepartmentNotFound)

	require.NoError(t, s.depts.Delete(ctx, dept.ID))
	assert.ErrorIs(t, s.depts.Delete(ctx, dept.ID), apperrors.ErrDepartmentNotFound)
}

func TestDepartmentService_ListMemberCounts(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()
	ops, err := s.depts.Create(ctx, "Ops", "")
	require.NoError(t, err)
	_, err = s.depts.Create(ctx, "Legal", "")
	require.NoError(t, err)

	admin := s.createUser(t, "root", model.RoleAdmin, nil)
	s.createUser(t, "a", model.RoleUser, &ops.ID)
	gone := s.createUser(t, "b", model.RoleUser, &ops.ID)
	_, err = s.users.SoftDelete(ctx, admin.ID, gone.ID)
	require.NoError(t, err)

	depts, err := s.depts.List(ctx, "")
	require.NoError(t, err)
	require.Len(t, depts, 2)
	assert.Equal(t, "Legal", depts[0].Name)
	assert.Equal(t, int64(0), depts[0].MemberCount)
	assert.Equal(t, "Ops", depts[1].Name)
	assert.Equal(t, int64(1), depts[1].MemberCount)

	filtered, err := s.depts.List(ctx, "op")
	require.NoError(t, err)
	assert.Len(t, filtered, 1)
}

func TestDepartmentService_DeleteBlockedByReferences(t *testing.T) {
	s := newStack(t)
	ctx := context.Background()

	staffed, err := s.depts.Create(ctx, "Ops", "")
	require.NoError(t, err)
	s.createUser(t, "a", model.RoleUser, &staffed.ID)
	assert.ErrorIs(t, s.depts.Delete(ctx, staffed.ID), apperrors.ErrStillReferenced)

	receiving, err := s.depts.Create(ctx, "Lobby", "")
	require.NoError(t, err)
	d, err := s.deliveries.Create(ctx, DeliveryInput{
		RecipientName: ptr("Desk"), DepartmentID: &receiving.ID, Product: ptr("1"), Quantity: ptr(1),
	})
	require.NoError(t, err)
	_, err = s.deliveries.SoftDelete(ctx, d.ID)
	require.NoError(t, err)
	assert.ErrorIs(t, s.depts.Delete(ctx, receiving.ID), apperrors.ErrStillReferenced, "trashed deliveries still reference the department")
}
