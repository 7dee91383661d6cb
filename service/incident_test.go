package service

import (
	"context"
	"testing"

	"cinema_reservation/constants"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIncidentService() *IncidentService {
	catalog := repository.NewMemoryCatalog()
	catalog.AddCinema(model.Cinema{DTO: model.DTO{ID: 4}, Name: "Downtown"})
	catalog.AddCinema(model.Cinema{DTO: model.DTO{ID: 8}, Name: "Harbour"})
	catalog.AddRoom(model.Room{DTO: model.DTO{ID: 5}, Name: "Room 1", CinemaId: 4})
	return NewIncidentService(catalog, repository.NewMemoryIncidentStore())
}

func TestIncidentLifecycle(t *testing.T) {
	svc := newIncidentService()
	ctx := context.Background()

	i, err := svc.Create(ctx, manager, model.CreateIncidentInput{CinemaId: "4", RoomId: "5", SeatId: "101", Title: "Broken armrest"})
	require.NoError(t, err)
	assert.Equal(t, constants.INCIDENT_OPEN, i.Status)
	assert.Equal(t, "2", i.ReportedBy)
	assert.Equal(t, "101", i.SeatId)

	v, err := svc.Get(ctx, i.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Downtown", v.CinemaName)
	assert.Equal(t, "Room 1", v.RoomName)

	resolved, err := svc.Resolve(ctx, i.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, constants.INCIDENT_RESOLVED, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt)

	reopen := constants.INCIDENT_IN_PROGRESS
	reopened, err := svc.Update(ctx, i.ID.Hex(), model.EditIncidentInput{Status: &reopen})
	require.NoError(t, err)
	assert.Nil(t, reopened.ResolvedAt)

	open, err := svc.List(ctx, model.IncidentFilter{CinemaId: "4", Status: constants.INCIDENT_IN_PROGRESS})
	require.NoError(t, err)
	assert.Len(t, open, 1)

	require.NoError(t, svc.Delete(ctx, i.ID.Hex()))
	err = svc.Delete(ctx, i.ID.Hex())
	requireKind(t, err, ErrNotFound, "Incident not found")
}

func TestCreateIncidentValidation(t *testing.T) {
	svc := newIncidentService()
	ctx := context.Background()

	_, err := svc.Create(ctx, manager, model.CreateIncidentInput{CinemaId: "abc", RoomId: "5", Title: "x"})
	requireKind(t, err, ErrValidation, "Invalid cinemaId")

	_, err = svc.Create(ctx, manager, model.CreateIncidentInput{CinemaId: "4", RoomId: "55", Title: "x"})
	requireKind(t, err, ErrNotFound, "Room not found")

	_, err = svc.Create(ctx, manager, model.CreateIncidentInput{CinemaId: "8", RoomId: "5", Title: "x"})
	requireKind(t, err, ErrValidation, constants.ROOM_NOT_IN_CINEMA)
}
