package service

import (
	"context"
	"errors"
	"time"

	"cinema_reservation/constants"
	"cinema_reservation/model"
	"cinema_reservation/repository"

	"golang.org/x/sync/errgroup"
)

// IncidentService tracks equipment and facility incidents reported by staff.
type IncidentService struct {
	catalog   CatalogReader
	incidents IncidentStore
	now       func() time.Time
}

func NewIncidentService(catalog CatalogReader, incidents IncidentStore) *IncidentService {
	return &IncidentService{catalog: catalog, incidents: incidents, now: time.Now}
}

func (s *IncidentService) Create(ctx context.Context, actor Actor, in model.CreateIncidentInput) (*model.Incident, error) {
	cinemaId, err := in.CinemaId.Parse()
	if err != nil {
		return nil, invalid("Invalid cinemaId", err)
	}
	roomId, err := in.RoomId.Parse()
	if err != nil {
		return nil, invalid("Invalid roomId", err)
	}
	var seatId string
	if in.SeatId != "" {
		id, err := in.SeatId.Parse()
		if err != nil {
			return nil, invalid("Invalid seatId", err)
		}
		seatId = id.String()
	}

	var (
		cinema *model.Cinema
		room   *model.Room
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return mustFind(gctx, "Cinema", cinemaId, s.catalog.FindCinema, &cinema) })
	g.Go(func() error { return mustFind(gctx, "Room", roomId, s.catalog.FindRoom, &room) })
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if room.CinemaId != cinema.ID {
		return nil, invalid(constants.ROOM_NOT_IN_CINEMA, nil)
	}

	now := s.now().UTC()
	incident := &model.Incident{
		CinemaId:    cinemaId.String(),
		RoomId:      roomId.String(),
		SeatId:      seatId,
		Title:       in.Title,
		Description: in.Description,
		Status:      constants.INCIDENT_OPEN,
		ReportedBy:  actor.UserId.String(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.incidents.Insert(ctx, incident); err != nil {
		return nil, err
	}
	return incident, nil
}

func (s *IncidentService) Get(ctx context.Context, id string) (*model.IncidentView, error) {
	i, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	v, err := s.view(ctx, *i)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *IncidentService) List(ctx context.Context, filter model.IncidentFilter) ([]model.IncidentView, error) {
	list, err := s.incidents.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]model.IncidentView, len(list))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	for i := range list {
		i := i
		g.Go(func() error {
			v, err := s.view(gctx, list[i])
			out[i] = v
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *IncidentService) Update(ctx context.Context, id string, in model.EditIncidentInput) (*model.Incident, error) {
	i, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		i.Title = *in.Title
	}
	if in.Description != nil {
		i.Description = *in.Description
	}
	if in.Status != nil {
		s.setStatus(i, *in.Status)
	}
	i.UpdatedAt = s.now().UTC()
	if err := s.save(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *IncidentService) Resolve(ctx context.Context, id string) (*model.Incident, error) {
	resolved := constants.INCIDENT_RESOLVED
	return s.Update(ctx, id, model.EditIncidentInput{Status: &resolved})
}

func (s *IncidentService) Delete(ctx context.Context, id string) error {
	err := s.incidents.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(constants.NOT_FOUND_INCIDENT)
	}
	return err
}

// setStatus keeps ResolvedAt in step with the status.
func (s *IncidentService) setStatus(i *model.Incident, status string) {
	if status == i.Status {
		return
	}
	i.Status = status
	if status == constants.INCIDENT_RESOLVED {
		at := s.now().UTC()
		i.ResolvedAt = &at
	} else {
		i.ResolvedAt = nil
	}
}

func (s *IncidentService) find(ctx context.Context, id string) (*model.Incident, error) {
	i, err := s.incidents.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, notFound(constants.NOT_FOUND_INCIDENT)
	}
	return i, err
}

func (s *IncidentService) save(ctx context.Context, i *model.Incident) error {
	err := s.incidents.Replace(ctx, i)
	if errors.Is(err, repository.ErrNotFound) {
		return notFound(constants.NOT_FOUND_INCIDENT)
	}
	return err
}

func (s *IncidentService) view(ctx context.Context, i model.Incident) (model.IncidentView, error) {
	v := model.IncidentView{
		Incident:   i,
		CinemaName: constants.NOT_FOUND_CINEMA,
		RoomName:   constants.NOT_FOUND_ROOM,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cinema, err := findOptional(gctx, i.CinemaId, s.catalog.FindCinema)
		if cinema != nil {
			v.CinemaName = cinema.Name
		}
		return err
	})
	g.Go(func() error {
		room, err := findOptional(gctx, i.RoomId, s.catalog.FindRoom)
		if room != nil {
			v.RoomName = room.Name
		}
		return err
	})
	return v, g.Wait()
}
